package managers

import (
	"context"
	"errors"
	"sort"

	"go.uber.org/zap"

	"content-transfer/core/repository"
	"content-transfer/feature/transfer/objects"
)

// ContentTypeManager reconciles content type schemas. Beyond the common
// upsert protocol it ensures every referenced language exists before
// touching the type, reconciles field definitions by identifier and keeps
// group assignment in sync with the desired group set.
type ContentTypeManager struct {
	repo      repository.Services
	logger    *zap.Logger
	languages *LanguageManager
	groups    *contentTypeGroupReconciler
	fields    *fieldDefinitionReconciler
}

// NewContentTypeManager creates a content type manager bound to the given
// repository session.
func NewContentTypeManager(repo repository.Services, logger *zap.Logger) *ContentTypeManager {
	return &ContentTypeManager{
		repo:      repo,
		logger:    logger,
		languages: NewLanguageManager(repo, logger),
		groups:    &contentTypeGroupReconciler{repo: repo, logger: logger},
		fields:    &fieldDefinitionReconciler{repo: repo},
	}
}

// Find looks up the content type by identifier.
func (m *ContentTypeManager) Find(ctx context.Context, obj objects.Object) (*repository.ContentType, error) {
	o, ok := obj.(*objects.ContentTypeObject)
	if !ok {
		return nil, objects.NewUnsupportedObject("*objects.ContentTypeObject", obj)
	}
	if o.Identifier == "" {
		return nil, &objects.MissingIdentificationError{Kind: o.Kind(), Checked: []string{"identifier"}}
	}
	ct, err := m.repo.ContentTypes().LoadContentTypeByIdentifier(ctx, o.Identifier)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, notFound(o.Kind(), map[string]string{"identifier": o.Identifier})
	}
	if err != nil {
		return nil, err
	}
	return ct, nil
}

// Create registers the type as a draft, attaches every field definition,
// publishes and assigns the desired groups. All referenced languages are
// ensured first since the repository rejects names in unknown languages.
func (m *ContentTypeManager) Create(ctx context.Context, obj objects.Object) error {
	o, ok := obj.(*objects.ContentTypeObject)
	if !ok {
		return objects.NewUnsupportedObject("*objects.ContentTypeObject", obj)
	}
	if err := m.ensureLanguages(ctx, o); err != nil {
		return err
	}

	cs := o.Mapper().ToCreateStruct()
	if o.CreateStructCallback != nil {
		o.CreateStructCallback(&cs)
	}
	draft, err := m.repo.ContentTypes().CreateContentType(ctx, cs)
	if err != nil {
		return err
	}
	for i, fd := range o.FieldDefinitions {
		fs := o.Mapper().FieldDefinitionCreateStruct(fd, i+1)
		if err := m.repo.ContentTypes().AddFieldDefinition(ctx, draft, fs); err != nil {
			return err
		}
	}
	published, err := m.repo.ContentTypes().PublishContentTypeDraft(ctx, draft)
	if err != nil {
		return err
	}
	if err := m.groups.reconcile(ctx, published.ID, published.GroupIdentifiers, o.GroupIdentifiers()); err != nil {
		return err
	}
	o.Mapper().FromContentType(published)

	m.logger.Info("content type created",
		zap.String("identifier", published.Identifier),
		zap.Int64("content_type_id", published.ID),
		zap.Int("field_definitions", len(o.FieldDefinitions)))
	return nil
}

// Update opens a draft of the existing type, reconciles field definitions by
// identifier (existing fields absent from the desired set stay in place),
// applies the update struct, publishes and re-syncs group assignment.
func (m *ContentTypeManager) Update(ctx context.Context, obj objects.Object) error {
	o, ok := obj.(*objects.ContentTypeObject)
	if !ok {
		return objects.NewUnsupportedObject("*objects.ContentTypeObject", obj)
	}
	if err := m.ensureLanguages(ctx, o); err != nil {
		return err
	}
	existing, err := m.Find(ctx, o)
	if err != nil {
		return err
	}
	draft, err := m.repo.ContentTypes().CreateContentTypeDraft(ctx, existing.ID)
	if err != nil {
		return err
	}
	us := o.Mapper().ToUpdateStruct()
	if o.UpdateStructCallback != nil {
		o.UpdateStructCallback(&us)
	}
	draft, err = m.repo.ContentTypes().UpdateContentTypeDraft(ctx, draft, us)
	if err != nil {
		return err
	}
	if err := m.fields.reconcile(ctx, draft, o, existing.FieldDefinitions); err != nil {
		return err
	}
	published, err := m.repo.ContentTypes().PublishContentTypeDraft(ctx, draft)
	if err != nil {
		return err
	}
	if err := m.groups.reconcile(ctx, published.ID, published.GroupIdentifiers, o.GroupIdentifiers()); err != nil {
		return err
	}
	o.Mapper().FromContentType(published)

	m.logger.Info("content type updated",
		zap.String("identifier", published.Identifier),
		zap.Int64("content_type_id", published.ID))
	return nil
}

// CreateOrUpdate upserts the type by identifier.
func (m *ContentTypeManager) CreateOrUpdate(ctx context.Context, obj objects.Object) error {
	o, ok := obj.(*objects.ContentTypeObject)
	if !ok {
		return objects.NewUnsupportedObject("*objects.ContentTypeObject", obj)
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

// Remove deletes the content type. A miss is not an error, just a false
// return.
func (m *ContentTypeManager) Remove(ctx context.Context, obj objects.Object) (bool, error) {
	o, ok := obj.(*objects.ContentTypeObject)
	if !ok {
		return false, objects.NewUnsupportedObject("*objects.ContentTypeObject", obj)
	}
	existing, err := m.Find(ctx, o)
	if errors.Is(err, repository.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := m.repo.ContentTypes().DeleteContentType(ctx, existing.ID); err != nil {
		return false, err
	}
	return true, nil
}

// ensureLanguages registers every language code referenced by the type: the
// main language plus every name and description key, on the type itself and
// on each field definition.
func (m *ContentTypeManager) ensureLanguages(ctx context.Context, o *objects.ContentTypeObject) error {
	codes := map[string]struct{}{o.MainLanguage(): {}}
	collect := func(maps ...map[string]string) {
		for _, byLang := range maps {
			for code := range byLang {
				codes[code] = struct{}{}
			}
		}
	}
	collect(o.Names, o.Descriptions)
	for _, fd := range o.FieldDefinitions {
		collect(fd.Names, fd.Descriptions)
	}

	ordered := make([]string, 0, len(codes))
	for code := range codes {
		ordered = append(ordered, code)
	}
	sort.Strings(ordered)
	for _, code := range ordered {
		if err := m.languages.Create(ctx, objects.NewLanguageObject(code)); err != nil {
			return err
		}
	}
	return nil
}

// contentTypeGroupReconciler keeps a content type's group assignment in sync
// with a desired identifier set: groups only in the current set are
// unassigned, groups only in the desired set are resolved (created if
// missing) and assigned, the intersection is untouched.
type contentTypeGroupReconciler struct {
	repo   repository.Services
	logger *zap.Logger
}

func (r *contentTypeGroupReconciler) reconcile(ctx context.Context, contentTypeID int64, current, desired []string) error {
	currentSet := make(map[string]struct{}, len(current))
	for _, ident := range current {
		currentSet[ident] = struct{}{}
	}
	desiredSet := make(map[string]struct{}, len(desired))
	for _, ident := range desired {
		desiredSet[ident] = struct{}{}
	}

	for _, ident := range desired {
		if _, ok := currentSet[ident]; ok {
			continue
		}
		group, err := r.resolveOrCreate(ctx, ident)
		if err != nil {
			return err
		}
		if err := r.repo.ContentTypes().AssignContentTypeGroup(ctx, contentTypeID, group.ID); err != nil {
			return err
		}
		r.logger.Info("content type group assigned",
			zap.Int64("content_type_id", contentTypeID),
			zap.String("group", ident))
	}
	for _, ident := range current {
		if _, ok := desiredSet[ident]; ok {
			continue
		}
		group, err := r.repo.ContentTypes().LoadContentTypeGroupByIdentifier(ctx, ident)
		if err != nil {
			return err
		}
		if err := r.repo.ContentTypes().UnassignContentTypeGroup(ctx, contentTypeID, group.ID); err != nil {
			return err
		}
		r.logger.Info("content type group unassigned",
			zap.Int64("content_type_id", contentTypeID),
			zap.String("group", ident))
	}
	return nil
}

func (r *contentTypeGroupReconciler) resolveOrCreate(ctx context.Context, identifier string) (*repository.ContentTypeGroup, error) {
	group, err := r.repo.ContentTypes().LoadContentTypeGroupByIdentifier(ctx, identifier)
	if errors.Is(err, repository.ErrNotFound) {
		return r.repo.ContentTypes().CreateContentTypeGroup(ctx, identifier)
	}
	if err != nil {
		return nil, err
	}
	return group, nil
}

// fieldDefinitionReconciler matches desired field definitions against the
// live ones by identifier: matches are updated in place, the rest are added.
// Live fields absent from the desired set are never deleted.
type fieldDefinitionReconciler struct {
	repo repository.Services
}

func (r *fieldDefinitionReconciler) reconcile(ctx context.Context, draft *repository.ContentTypeDraft, o *objects.ContentTypeObject, existing []repository.FieldDefinition) error {
	byIdentifier := make(map[string]repository.FieldDefinition, len(existing))
	for _, fd := range existing {
		byIdentifier[fd.Identifier] = fd
	}
	for i, fd := range o.FieldDefinitions {
		position := i + 1
		if live, ok := byIdentifier[fd.Identifier]; ok {
			fs := o.Mapper().FieldDefinitionUpdateStruct(fd, position)
			if err := r.repo.ContentTypes().UpdateFieldDefinition(ctx, draft, live.ID, fs); err != nil {
				return err
			}
			continue
		}
		fs := o.Mapper().FieldDefinitionCreateStruct(fd, position)
		if err := r.repo.ContentTypes().AddFieldDefinition(ctx, draft, fs); err != nil {
			return err
		}
	}
	return nil
}
