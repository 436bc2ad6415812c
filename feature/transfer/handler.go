package transfer

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"content-transfer/core/logger"
	"content-transfer/core/repository"
	"content-transfer/feature/transfer/objects"
)

// Handler handles HTTP requests for batch transfers.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the transfer routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	app.Post("/transfer", h.HandleTransfer)
}

// HandleTransfer accepts a JSON batch, reconciles it inside one transaction
// and returns the objects with their repository-assigned metadata. Skipped
// objects come back as null at their position. A failed batch leaves the
// repository unchanged and returns the error that aborted it.
func (h *Handler) HandleTransfer(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	results, err := h.service.SendRaw(c.Context(), c.Body(), false)
	if err != nil {
		status := fiber.StatusInternalServerError
		if isInputError(err) {
			status = fiber.StatusBadRequest
		}
		l.Error("Transfer batch failed", zap.Error(err))
		return c.Status(status).JSON(fiber.Map{"error": err.Error()})
	}

	l.Info("Transfer batch completed", zap.Int("objects", len(results)))
	return c.JSON(fiber.Map{
		"status":  "committed",
		"objects": results,
	})
}

// isInputError reports whether the failure was caused by the batch payload
// rather than the repository.
func isInputError(err error) bool {
	var (
		invalid    *objects.InvalidDataStructureError
		malformed  *objects.MalformedObjectDataError
		missingKey *objects.MissingIdentificationError
	)
	if errors.As(err, &invalid) || errors.As(err, &malformed) || errors.As(err, &missingKey) {
		return true
	}
	// A miss on a hard lookup (content type of a new content, parent group)
	// is also the payload's fault.
	return errors.Is(err, repository.ErrNotFound)
}
