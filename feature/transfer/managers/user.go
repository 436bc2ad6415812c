package managers

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"content-transfer/core/repository"
	"content-transfer/feature/transfer/objects"
)

// UserManager reconciles repository accounts. Parent user groups listed on
// the object are upserted through the UserGroupManager before the account
// itself is touched; membership synchronization runs as two passes, assign
// the desired groups then unassign the stale ones.
type UserManager struct {
	repo   repository.Services
	logger *zap.Logger
	groups *UserGroupManager
}

// NewUserManager creates a user manager bound to the given repository
// session.
func NewUserManager(repo repository.Services, logger *zap.Logger) *UserManager {
	return &UserManager{
		repo:   repo,
		logger: logger,
		groups: NewUserGroupManager(repo, logger),
	}
}

// Find looks up the user by username.
func (m *UserManager) Find(ctx context.Context, obj objects.Object) (*repository.User, error) {
	o, ok := obj.(*objects.UserObject)
	if !ok {
		return nil, objects.NewUnsupportedObject("*objects.UserObject", obj)
	}
	if o.Username == "" {
		return nil, &objects.MissingIdentificationError{Kind: o.Kind(), Checked: []string{"username"}}
	}
	user, err := m.repo.Users().LoadUserByLogin(ctx, o.Username)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, notFound(o.Kind(), map[string]string{"username": o.Username})
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

// Create upserts every listed parent group, then creates the account as a
// member of all of them. An object without parents lands in the default
// parent group.
func (m *UserManager) Create(ctx context.Context, obj objects.Object) error {
	o, ok := obj.(*objects.UserObject)
	if !ok {
		return objects.NewUnsupportedObject("*objects.UserObject", obj)
	}
	groupIDs, err := m.resolveParents(ctx, o)
	if err != nil {
		return err
	}
	if len(groupIDs) == 0 {
		groupIDs = []int64{objects.DefaultUserGroupParentID}
	}

	cs := o.Mapper().ToCreateStruct()
	if o.CreateStructCallback != nil {
		o.CreateStructCallback(&cs)
	}
	user, err := m.repo.Users().CreateUser(ctx, cs, groupIDs)
	if err != nil {
		return err
	}
	o.Mapper().FromUser(user)

	m.logger.Info("user created",
		zap.String("username", user.Login),
		zap.Int64("user_id", user.ID),
		zap.Int("groups", len(groupIDs)))
	return nil
}

// Update applies the field updates, then synchronizes group membership when
// the object lists parents: desired groups are assigned (an existing
// membership is a benign no-op), memberships outside the desired set are
// dropped. An object without parents leaves memberships untouched.
func (m *UserManager) Update(ctx context.Context, obj objects.Object) error {
	o, ok := obj.(*objects.UserObject)
	if !ok {
		return objects.NewUnsupportedObject("*objects.UserObject", obj)
	}
	existing, err := m.Find(ctx, o)
	if err != nil {
		return err
	}
	us := o.Mapper().ToUpdateStruct()
	if o.UpdateStructCallback != nil {
		o.UpdateStructCallback(&us)
	}
	user, err := m.repo.Users().UpdateUser(ctx, existing.ID, us)
	if err != nil {
		return err
	}
	if len(o.Parents) > 0 {
		if err := m.syncMemberships(ctx, user.ID, o); err != nil {
			return err
		}
	}
	o.Mapper().FromUser(user)

	m.logger.Info("user updated",
		zap.String("username", user.Login),
		zap.Int64("user_id", user.ID))
	return nil
}

// CreateOrUpdate upserts the user by username.
func (m *UserManager) CreateOrUpdate(ctx context.Context, obj objects.Object) error {
	o, ok := obj.(*objects.UserObject)
	if !ok {
		return objects.NewUnsupportedObject("*objects.UserObject", obj)
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

// Remove deletes the account. A miss is not an error, just a false return.
func (m *UserManager) Remove(ctx context.Context, obj objects.Object) (bool, error) {
	o, ok := obj.(*objects.UserObject)
	if !ok {
		return false, objects.NewUnsupportedObject("*objects.UserObject", obj)
	}
	existing, err := m.Find(ctx, o)
	if errors.Is(err, repository.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := m.repo.Users().DeleteUser(ctx, existing.ID); err != nil {
		return false, err
	}
	return true, nil
}

// resolveParents upserts the listed parent groups and returns their ids.
func (m *UserManager) resolveParents(ctx context.Context, o *objects.UserObject) ([]int64, error) {
	ids := make([]int64, 0, len(o.Parents))
	for _, parent := range o.Parents {
		if err := m.groups.CreateOrUpdate(ctx, parent); err != nil {
			return nil, err
		}
		ids = append(ids, parent.ID)
	}
	return ids, nil
}

// syncMemberships assigns the user to every desired group and drops any
// current membership not in the desired set.
func (m *UserManager) syncMemberships(ctx context.Context, userID int64, o *objects.UserObject) error {
	desired, err := m.resolveParents(ctx, o)
	if err != nil {
		return err
	}
	desiredSet := make(map[int64]struct{}, len(desired))
	for _, id := range desired {
		desiredSet[id] = struct{}{}
	}

	for _, groupID := range desired {
		err := m.repo.Users().AssignUserToGroup(ctx, userID, groupID)
		if errors.Is(err, repository.ErrAlreadyAssigned) {
			continue
		}
		if err != nil {
			return err
		}
	}
	current, err := m.repo.Users().LoadUserGroupsOfUser(ctx, userID)
	if err != nil {
		return err
	}
	for _, group := range current {
		if _, ok := desiredSet[group.ID]; ok {
			continue
		}
		if err := m.repo.Users().UnassignUserFromGroup(ctx, userID, group.ID); err != nil {
			return err
		}
		m.logger.Info("user membership dropped",
			zap.Int64("user_id", userID),
			zap.Int64("group_id", group.ID))
	}
	return nil
}
