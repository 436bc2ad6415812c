package transfer

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"content-transfer/core/repository"
	"content-transfer/feature/transfer/managers"
	"content-transfer/feature/transfer/objects"
)

// ObjectService routes a transfer object to the manager owning its type.
// Managers are constructed on first use and cached for the lifetime of the
// service, which is bound to one repository session.
type ObjectService struct {
	repo   repository.Services
	logger *zap.Logger

	content      *managers.ContentManager
	contentTypes *managers.ContentTypeManager
	languages    *managers.LanguageManager
	users        *managers.UserManager
	userGroups   *managers.UserGroupManager
}

// NewObjectService creates a dispatch service bound to the given repository
// session.
func NewObjectService(repo repository.Services, logger *zap.Logger) *ObjectService {
	return &ObjectService{repo: repo, logger: logger}
}

// CreateOrUpdate upserts the object through its type's manager.
func (s *ObjectService) CreateOrUpdate(ctx context.Context, obj objects.Object) error {
	m, err := s.managerFor(obj)
	if err != nil {
		return err
	}
	return m.CreateOrUpdate(ctx, obj)
}

// Remove deletes the object's entity through its type's manager, reporting
// whether anything was deleted.
func (s *ObjectService) Remove(ctx context.Context, obj objects.Object) (bool, error) {
	m, err := s.managerFor(obj)
	if err != nil {
		return false, err
	}
	return m.Remove(ctx, obj)
}

// managerFor resolves the owning manager over the closed entity set. An
// object outside the set is an input error; locations and trees are handled
// elsewhere and deliberately have no entry here.
func (s *ObjectService) managerFor(obj objects.Object) (managers.Manager, error) {
	switch obj.(type) {
	case *objects.ContentObject:
		if s.content == nil {
			s.content = managers.NewContentManager(s.repo, s.logger)
		}
		return s.content, nil
	case *objects.ContentTypeObject:
		if s.contentTypes == nil {
			s.contentTypes = managers.NewContentTypeManager(s.repo, s.logger)
		}
		return s.contentTypes, nil
	case *objects.LanguageObject:
		if s.languages == nil {
			s.languages = managers.NewLanguageManager(s.repo, s.logger)
		}
		return s.languages, nil
	case *objects.UserObject:
		if s.users == nil {
			s.users = managers.NewUserManager(s.repo, s.logger)
		}
		return s.users, nil
	case *objects.UserGroupObject:
		if s.userGroups == nil {
			s.userGroups = managers.NewUserGroupManager(s.repo, s.logger)
		}
		return s.userGroups, nil
	default:
		return nil, fmt.Errorf("no manager handles objects of type %T", obj)
	}
}
