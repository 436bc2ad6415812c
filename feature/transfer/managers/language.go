package managers

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"content-transfer/core/repository"
	"content-transfer/feature/transfer/objects"
)

// LanguageManager reconciles translation languages. Languages are special in
// two ways: once created they are only ever disabled, never truly gone, so
// create re-enables an existing language instead of failing; and the
// repository refuses to delete a language that is the main language or still
// carries translations, which Remove reports as a warning rather than an
// error.
type LanguageManager struct {
	repo   repository.Services
	logger *zap.Logger
}

// NewLanguageManager creates a language manager bound to the given
// repository session.
func NewLanguageManager(repo repository.Services, logger *zap.Logger) *LanguageManager {
	return &LanguageManager{repo: repo, logger: logger}
}

// Find looks up the language by code.
func (m *LanguageManager) Find(ctx context.Context, obj objects.Object) (*repository.Language, error) {
	o, ok := obj.(*objects.LanguageObject)
	if !ok {
		return nil, objects.NewUnsupportedObject("*objects.LanguageObject", obj)
	}
	if o.Code == "" {
		return nil, &objects.MissingIdentificationError{Kind: o.Kind(), Checked: []string{"code"}}
	}
	lang, err := m.repo.Languages().LoadLanguageByCode(ctx, o.Code)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, notFound(o.Kind(), map[string]string{"code": o.Code})
	}
	if err != nil {
		return nil, err
	}
	return lang, nil
}

// Create registers the language, resolving its name from the built-in table
// when the object carries none. An already known language is re-enabled
// instead.
func (m *LanguageManager) Create(ctx context.Context, obj objects.Object) error {
	o, ok := obj.(*objects.LanguageObject)
	if !ok {
		return objects.NewUnsupportedObject("*objects.LanguageObject", obj)
	}
	existing, err := m.Find(ctx, o)
	if err == nil {
		if !existing.Enabled {
			existing, err = m.repo.Languages().EnableLanguage(ctx, o.Code)
			if err != nil {
				return err
			}
			m.logger.Info("language re-enabled", zap.String("code", o.Code))
		}
		o.Mapper().FromLanguage(existing)
		return nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return err
	}

	cs, err := o.Mapper().ToCreateStruct()
	if err != nil {
		return err
	}
	lang, err := m.repo.Languages().CreateLanguage(ctx, cs)
	if err != nil {
		return err
	}
	o.Mapper().FromLanguage(lang)
	m.logger.Info("language created", zap.String("code", lang.Code), zap.String("name", lang.Name))
	return nil
}

// Update aligns the live language's name and enabled state with the object.
func (m *LanguageManager) Update(ctx context.Context, obj objects.Object) error {
	o, ok := obj.(*objects.LanguageObject)
	if !ok {
		return objects.NewUnsupportedObject("*objects.LanguageObject", obj)
	}
	existing, err := m.Find(ctx, o)
	if err != nil {
		return err
	}
	if o.Name != "" && o.Name != existing.Name {
		existing, err = m.repo.Languages().UpdateLanguageName(ctx, o.Code, o.Name)
		if err != nil {
			return err
		}
	}
	if o.EffectiveEnabled() && !existing.Enabled {
		existing, err = m.repo.Languages().EnableLanguage(ctx, o.Code)
		if err != nil {
			return err
		}
	}
	o.Mapper().FromLanguage(existing)
	return nil
}

// CreateOrUpdate upserts the language by code.
func (m *LanguageManager) CreateOrUpdate(ctx context.Context, obj objects.Object) error {
	o, ok := obj.(*objects.LanguageObject)
	if !ok {
		return objects.NewUnsupportedObject("*objects.LanguageObject", obj)
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

// Remove deletes the language. A miss counts as success since the desired
// end state holds either way; a repository refusal (main language, still in
// use) is logged and reported as false.
func (m *LanguageManager) Remove(ctx context.Context, obj objects.Object) (bool, error) {
	o, ok := obj.(*objects.LanguageObject)
	if !ok {
		return false, objects.NewUnsupportedObject("*objects.LanguageObject", obj)
	}
	_, err := m.Find(ctx, o)
	if errors.Is(err, repository.ErrNotFound) {
		return true, nil
	}
	if err != nil {
		return false, err
	}
	err = m.repo.Languages().DeleteLanguage(ctx, o.Code)
	if errors.Is(err, repository.ErrMainLanguage) || errors.Is(err, repository.ErrLanguageInUse) {
		m.logger.Warn("language deletion refused by repository",
			zap.String("code", o.Code),
			zap.Error(err))
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
