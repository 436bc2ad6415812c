package managers

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"content-transfer/core/repository"
	"content-transfer/feature/transfer/objects"
)

// LocationManager reconciles location visibility. Direct creation and
// removal are intentionally unsupported: locations come into being through
// content lifecycle (content create, content update, tree publication) and
// are only ever hidden, never deleted, from here.
type LocationManager struct {
	repo   repository.Services
	logger *zap.Logger
}

// NewLocationManager creates a location manager bound to the given
// repository session.
func NewLocationManager(repo repository.Services, logger *zap.Logger) *LocationManager {
	return &LocationManager{repo: repo, logger: logger}
}

// Find looks up the location by remote id or, failing that, by the
// (content id, parent location id) pair.
func (m *LocationManager) Find(ctx context.Context, obj objects.Object) (*repository.Location, error) {
	o, ok := obj.(*objects.LocationObject)
	if !ok {
		return nil, objects.NewUnsupportedObject("*objects.LocationObject", obj)
	}
	if o.RemoteID != "" {
		loc, err := m.repo.Locations().LoadLocationByRemoteID(ctx, o.RemoteID)
		if errors.Is(err, repository.ErrNotFound) {
			return nil, notFound(o.Kind(), map[string]string{"remote_id": o.RemoteID})
		}
		if err != nil {
			return nil, err
		}
		return loc, nil
	}
	if o.ContentID != 0 && o.ParentLocationID != 0 {
		children, err := m.repo.Locations().LoadLocationChildren(ctx, o.ParentLocationID, 0, 0)
		if err != nil {
			return nil, err
		}
		for _, child := range children {
			if child.ContentID == o.ContentID {
				return child, nil
			}
		}
		return nil, notFound(o.Kind(), map[string]string{
			"content_id":         itoa(o.ContentID),
			"parent_location_id": itoa(o.ParentLocationID),
		})
	}
	return nil, &objects.MissingIdentificationError{
		Kind:    o.Kind(),
		Checked: []string{"remote_id", "content_id+parent_location_id"},
	}
}

// Create is not supported for locations.
func (m *LocationManager) Create(ctx context.Context, obj objects.Object) error {
	return &objects.UnsupportedOperationError{Kind: "location", Operation: "create"}
}

// Update aligns the live location's hidden flag, priority and remote id with
// the object.
func (m *LocationManager) Update(ctx context.Context, obj objects.Object) error {
	o, ok := obj.(*objects.LocationObject)
	if !ok {
		return objects.NewUnsupportedObject("*objects.LocationObject", obj)
	}
	existing, err := m.Find(ctx, o)
	if err != nil {
		return err
	}
	existing, err = m.reconcileVisibility(ctx, existing, o.Hidden)
	if err != nil {
		return err
	}
	if o.Priority != existing.Priority || (o.RemoteID != "" && o.RemoteID != existing.RemoteID) {
		remoteID := existing.RemoteID
		if o.RemoteID != "" {
			remoteID = o.RemoteID
		}
		existing, err = m.repo.Locations().UpdateLocation(ctx, existing.ID, o.Priority, remoteID)
		if err != nil {
			return err
		}
	}
	o.Mapper().FromLocation(existing)
	return nil
}

// CreateOrUpdate reconciles an existing location; it never creates one, so a
// miss propagates as not found.
func (m *LocationManager) CreateOrUpdate(ctx context.Context, obj objects.Object) error {
	return m.Update(ctx, obj)
}

// Remove is not supported for locations.
func (m *LocationManager) Remove(ctx context.Context, obj objects.Object) (bool, error) {
	return false, &objects.UnsupportedOperationError{Kind: "location", Operation: "remove"}
}

// ToggleVisibility flips the location's hidden state.
func (m *LocationManager) ToggleVisibility(ctx context.Context, obj objects.Object) error {
	o, ok := obj.(*objects.LocationObject)
	if !ok {
		return objects.NewUnsupportedObject("*objects.LocationObject", obj)
	}
	existing, err := m.Find(ctx, o)
	if err != nil {
		return err
	}
	existing, err = m.reconcileVisibility(ctx, existing, !existing.Hidden)
	if err != nil {
		return err
	}
	o.Mapper().FromLocation(existing)
	return nil
}

// reconcileVisibility hides or unhides the location when its state differs
// from the desired flag.
func (m *LocationManager) reconcileVisibility(ctx context.Context, loc *repository.Location, hidden bool) (*repository.Location, error) {
	if loc.Hidden == hidden {
		return loc, nil
	}
	var (
		updated *repository.Location
		err     error
	)
	if hidden {
		updated, err = m.repo.Locations().HideLocation(ctx, loc.ID)
	} else {
		updated, err = m.repo.Locations().UnhideLocation(ctx, loc.ID)
	}
	if err != nil {
		return nil, err
	}
	m.logger.Info("location visibility changed",
		zap.Int64("location_id", loc.ID),
		zap.Bool("hidden", hidden))
	return updated, nil
}
