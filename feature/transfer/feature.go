package transfer

import (
	"github.com/gofiber/fiber/v2"
)

// Feature exposes the transfer endpoints through the feature loader.
type Feature struct {
	service *Service
}

// NewFeature creates the loadable transfer feature.
func NewFeature(service *Service) *Feature {
	return &Feature{service: service}
}

func (f *Feature) Name() string { return "transfer" }

func (f *Feature) IsEnabled() bool { return true }

// Load mounts the transfer routes on the given router.
func (f *Feature) Load(app fiber.Router) error {
	NewHandler(f.service).RegisterRoutes(app)
	return nil
}
