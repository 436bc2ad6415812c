package managers

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"content-transfer/core/repository"
	"content-transfer/feature/transfer/objects"
)

// UserGroupManager reconciles user groups. A group moves to a new parent
// through an explicit move call after its fields are updated; the two are
// separate repository operations, so the manager re-fetches afterwards to
// hand fresh state back to the object.
type UserGroupManager struct {
	repo   repository.Services
	logger *zap.Logger
}

// NewUserGroupManager creates a user group manager bound to the given
// repository session.
func NewUserGroupManager(repo repository.Services, logger *zap.Logger) *UserGroupManager {
	return &UserGroupManager{repo: repo, logger: logger}
}

// Find looks up the group by remote id or, failing that, by repository id.
func (m *UserGroupManager) Find(ctx context.Context, obj objects.Object) (*repository.UserGroup, error) {
	o, ok := obj.(*objects.UserGroupObject)
	if !ok {
		return nil, objects.NewUnsupportedObject("*objects.UserGroupObject", obj)
	}
	if o.RemoteID != "" {
		group, err := m.repo.UserGroups().LoadUserGroupByRemoteID(ctx, o.RemoteID)
		if errors.Is(err, repository.ErrNotFound) {
			return nil, notFound(o.Kind(), map[string]string{"remote_id": o.RemoteID})
		}
		if err != nil {
			return nil, err
		}
		return group, nil
	}
	if o.ID != 0 {
		group, err := m.repo.UserGroups().LoadUserGroup(ctx, o.ID)
		if errors.Is(err, repository.ErrNotFound) {
			return nil, notFound(o.Kind(), map[string]string{"id": itoa(o.ID)})
		}
		if err != nil {
			return nil, err
		}
		return group, nil
	}
	return nil, &objects.MissingIdentificationError{Kind: o.Kind(), Checked: []string{"remote_id", "id"}}
}

// Create resolves the parent group first, failing fast when it is missing,
// then creates the group under it.
func (m *UserGroupManager) Create(ctx context.Context, obj objects.Object) error {
	o, ok := obj.(*objects.UserGroupObject)
	if !ok {
		return objects.NewUnsupportedObject("*objects.UserGroupObject", obj)
	}
	parentID := o.EffectiveParentID()
	if _, err := m.repo.UserGroups().LoadUserGroup(ctx, parentID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound(o.Kind(), map[string]string{"parent_id": itoa(parentID)})
		}
		return err
	}

	cs := o.Mapper().ToCreateStruct()
	if o.CreateStructCallback != nil {
		o.CreateStructCallback(&cs)
	}
	group, err := m.repo.UserGroups().CreateUserGroup(ctx, cs, parentID)
	if err != nil {
		return err
	}
	o.Mapper().FromUserGroup(group)

	m.logger.Info("user group created",
		zap.Int64("group_id", group.ID),
		zap.String("remote_id", group.RemoteID),
		zap.Int64("parent_id", parentID))
	return nil
}

// Update applies the field updates and, when the desired parent differs from
// the live one, moves the group afterwards.
func (m *UserGroupManager) Update(ctx context.Context, obj objects.Object) error {
	o, ok := obj.(*objects.UserGroupObject)
	if !ok {
		return objects.NewUnsupportedObject("*objects.UserGroupObject", obj)
	}
	existing, err := m.Find(ctx, o)
	if err != nil {
		return err
	}
	us := o.Mapper().ToUpdateStruct()
	if o.UpdateStructCallback != nil {
		o.UpdateStructCallback(&us)
	}
	updated, err := m.repo.UserGroups().UpdateUserGroup(ctx, existing.ID, us)
	if err != nil {
		return err
	}
	if o.ParentID != 0 && o.ParentID != existing.ParentID {
		if err := m.repo.UserGroups().MoveUserGroup(ctx, existing.ID, o.ParentID); err != nil {
			return err
		}
		updated, err = m.repo.UserGroups().LoadUserGroup(ctx, existing.ID)
		if err != nil {
			return err
		}
		m.logger.Info("user group moved",
			zap.Int64("group_id", existing.ID),
			zap.Int64("parent_id", o.ParentID))
	}
	o.Mapper().FromUserGroup(updated)
	return nil
}

// CreateOrUpdate upserts the group by remote id or id.
func (m *UserGroupManager) CreateOrUpdate(ctx context.Context, obj objects.Object) error {
	o, ok := obj.(*objects.UserGroupObject)
	if !ok {
		return objects.NewUnsupportedObject("*objects.UserGroupObject", obj)
	}
	if o.RemoteID == "" && o.ID == 0 {
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

// Remove deletes the group. A miss is not an error, just a false return.
func (m *UserGroupManager) Remove(ctx context.Context, obj objects.Object) (bool, error) {
	o, ok := obj.(*objects.UserGroupObject)
	if !ok {
		return false, objects.NewUnsupportedObject("*objects.UserGroupObject", obj)
	}
	existing, err := m.Find(ctx, o)
	if errors.Is(err, repository.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := m.repo.UserGroups().DeleteUserGroup(ctx, existing.ID); err != nil {
		return false, err
	}
	return true, nil
}
