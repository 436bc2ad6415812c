package managers

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"content-transfer/core/repository"
	"content-transfer/feature/transfer/objects"
)

// ContentManager reconciles content objects. Create and update both collapse
// the repository's draft/publish protocol into one call, so callers only
// ever see published content.
type ContentManager struct {
	repo   repository.Services
	logger *zap.Logger
}

// NewContentManager creates a content manager bound to the given repository
// session.
func NewContentManager(repo repository.Services, logger *zap.Logger) *ContentManager {
	return &ContentManager{repo: repo, logger: logger}
}

// Find looks up the content by remote id.
func (m *ContentManager) Find(ctx context.Context, obj objects.Object) (*repository.Content, error) {
	o, ok := obj.(*objects.ContentObject)
	if !ok {
		return nil, objects.NewUnsupportedObject("*objects.ContentObject", obj)
	}
	if o.RemoteID == "" {
		return nil, &objects.MissingIdentificationError{Kind: o.Kind(), Checked: []string{"remote_id"}}
	}
	content, err := m.repo.Content().LoadContentByRemoteID(ctx, o.RemoteID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, notFound(o.Kind(), map[string]string{"remote_id": o.RemoteID})
	}
	if err != nil {
		return nil, err
	}
	return content, nil
}

// Create resolves the content type, creates the content in all desired
// locations and publishes it. A missing remote id gets a generated one so
// the content stays addressable on later runs.
func (m *ContentManager) Create(ctx context.Context, obj objects.Object) error {
	o, ok := obj.(*objects.ContentObject)
	if !ok {
		return objects.NewUnsupportedObject("*objects.ContentObject", obj)
	}
	contentType, err := m.repo.ContentTypes().LoadContentTypeByIdentifier(ctx, o.ContentTypeIdentifier)
	if errors.Is(err, repository.ErrNotFound) {
		return notFound("content_type", map[string]string{"identifier": o.ContentTypeIdentifier})
	}
	if err != nil {
		return err
	}
	if o.RemoteID == "" {
		o.RemoteID = uuid.NewString()
	}

	cs := o.Mapper().ToCreateStruct(contentType.ID)
	if o.CreateStructCallback != nil {
		o.CreateStructCallback(&cs)
	}
	draft, err := m.repo.Content().CreateContent(ctx, cs, o.Mapper().LocationCreateStructs())
	if err != nil {
		return err
	}
	content, err := m.repo.Content().PublishVersion(ctx, draft)
	if err != nil {
		return err
	}
	o.Mapper().FromContent(content)

	m.logger.Info("content created",
		zap.String("remote_id", content.RemoteID),
		zap.Int64("content_id", content.ID),
		zap.String("content_type", o.ContentTypeIdentifier))
	return nil
}

// Update opens a draft from the current version, applies the field updates,
// publishes, then adds any parent locations the content does not have yet.
// Stale locations are left alone; this layer never removes a location as a
// side effect of a content update.
func (m *ContentManager) Update(ctx context.Context, obj objects.Object) error {
	o, ok := obj.(*objects.ContentObject)
	if !ok {
		return objects.NewUnsupportedObject("*objects.ContentObject", obj)
	}
	existing, err := m.Find(ctx, o)
	if err != nil {
		return err
	}
	draft, err := m.repo.Content().CreateDraftFrom(ctx, existing.ID)
	if err != nil {
		return err
	}
	us := o.Mapper().ToUpdateStruct()
	if o.UpdateStructCallback != nil {
		o.UpdateStructCallback(&us)
	}
	draft, err = m.repo.Content().UpdateContent(ctx, draft, us)
	if err != nil {
		return err
	}
	content, err := m.repo.Content().PublishVersion(ctx, draft)
	if err != nil {
		return err
	}
	o.Mapper().FromContent(content)

	if err := m.addMissingLocations(ctx, content.ID, o); err != nil {
		return err
	}
	m.logger.Info("content updated",
		zap.String("remote_id", content.RemoteID),
		zap.Int64("content_id", content.ID),
		zap.Int("version_no", content.CurrentVersionNo))
	return nil
}

// CreateOrUpdate upserts the content by remote id.
func (m *ContentManager) CreateOrUpdate(ctx context.Context, obj objects.Object) error {
	o, ok := obj.(*objects.ContentObject)
	if !ok {
		return objects.NewUnsupportedObject("*objects.ContentObject", obj)
	}
	if o.RemoteID == "" {
		return m.Create(ctx, o)
	}
	_, err := m.Find(ctx, o)
	if errors.Is(err, repository.ErrNotFound) {
		return m.Create(ctx, o)
	}
	if err != nil {
		return err
	}
	return m.Update(ctx, o)
}

// Remove deletes the content together with its locations. A miss is not an
// error, just a false return.
func (m *ContentManager) Remove(ctx context.Context, obj objects.Object) (bool, error) {
	o, ok := obj.(*objects.ContentObject)
	if !ok {
		return false, objects.NewUnsupportedObject("*objects.ContentObject", obj)
	}
	existing, err := m.Find(ctx, o)
	if errors.Is(err, repository.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := m.repo.Content().DeleteContent(ctx, existing.ID); err != nil {
		return false, err
	}
	return true, nil
}

// addMissingLocations creates a location under every desired parent the
// content is not placed under yet.
func (m *ContentManager) addMissingLocations(ctx context.Context, contentID int64, o *objects.ContentObject) error {
	for _, ls := range o.Mapper().LocationCreateStructs() {
		children, err := m.repo.Locations().LoadLocationChildren(ctx, ls.ParentLocationID, 0, 0)
		if err != nil {
			return err
		}
		placed := false
		for _, child := range children {
			if child.ContentID == contentID {
				placed = true
				break
			}
		}
		if placed {
			continue
		}
		created, err := m.repo.Locations().CreateLocation(ctx, contentID, ls)
		if err != nil {
			return err
		}
		m.logger.Info("location added",
			zap.Int64("content_id", contentID),
			zap.Int64("parent_location_id", ls.ParentLocationID),
			zap.Int64("location_id", created.ID))
	}
	return nil
}
