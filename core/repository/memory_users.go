package repository

import (
	"context"
	"fmt"
	"sort"
)

type memoryUsers Memory

func (m *memoryUsers) CreateUser(ctx context.Context, us UserCreateStruct, groupIDs []int64) (*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := m.state

	for _, u := range s.users {
		if u.Login == us.Login {
			return nil, fmt.Errorf("repository: user %q already exists", us.Login)
		}
	}
	for _, groupID := range groupIDs {
		if _, ok := s.userGroups[groupID]; !ok {
			return nil, fmt.Errorf("repository: user group %d: %w", groupID, ErrNotFound)
		}
	}

	u := &User{
		ID:               s.id(),
		Login:            us.Login,
		Email:            us.Email,
		Enabled:          us.Enabled,
		MainLanguageCode: us.MainLanguageCode,
		Fields:           us.Fields.Copy(),
	}
	s.users[u.ID] = u
	s.memberships[u.ID] = map[int64]struct{}{}
	for _, groupID := range groupIDs {
		s.memberships[u.ID][groupID] = struct{}{}
	}

	cp := *u
	cp.Fields = u.Fields.Copy()
	return &cp, nil
}

func (m *memoryUsers) UpdateUser(ctx context.Context, userID int64, us UserUpdateStruct) (*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.state.users[userID]
	if !ok {
		return nil, fmt.Errorf("repository: user %d: %w", userID, ErrNotFound)
	}
	if us.Email != "" {
		u.Email = us.Email
	}
	if us.Enabled != nil {
		u.Enabled = *us.Enabled
	}
	if u.Fields == nil {
		u.Fields = Fields{}
	}
	for ident, byLang := range us.Fields {
		if u.Fields[ident] == nil {
			u.Fields[ident] = map[string]any{}
		}
		for code, v := range byLang {
			u.Fields[ident][code] = v
		}
	}

	cp := *u
	cp.Fields = u.Fields.Copy()
	return &cp, nil
}

func (m *memoryUsers) DeleteUser(ctx context.Context, userID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := m.state

	if _, ok := s.users[userID]; !ok {
		return fmt.Errorf("repository: user %d: %w", userID, ErrNotFound)
	}
	delete(s.users, userID)
	delete(s.memberships, userID)
	return nil
}

func (m *memoryUsers) LoadUserByLogin(ctx context.Context, login string) (*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, u := range m.state.users {
		if u.Login == login {
			cp := *u
			cp.Fields = u.Fields.Copy()
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("repository: user %q: %w", login, ErrNotFound)
}

func (m *memoryUsers) AssignUserToGroup(ctx context.Context, userID, groupID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := m.state

	if _, ok := s.users[userID]; !ok {
		return fmt.Errorf("repository: user %d: %w", userID, ErrNotFound)
	}
	if _, ok := s.userGroups[groupID]; !ok {
		return fmt.Errorf("repository: user group %d: %w", groupID, ErrNotFound)
	}
	if _, ok := s.memberships[userID][groupID]; ok {
		return fmt.Errorf("repository: user %d in group %d: %w", userID, groupID, ErrAlreadyAssigned)
	}
	if s.memberships[userID] == nil {
		s.memberships[userID] = map[int64]struct{}{}
	}
	s.memberships[userID][groupID] = struct{}{}
	return nil
}

func (m *memoryUsers) UnassignUserFromGroup(ctx context.Context, userID, groupID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.state.memberships[userID][groupID]; !ok {
		return fmt.Errorf("repository: user %d in group %d: %w", userID, groupID, ErrNotFound)
	}
	delete(m.state.memberships[userID], groupID)
	return nil
}

func (m *memoryUsers) LoadUserGroupsOfUser(ctx context.Context, userID int64) ([]*UserGroup, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := m.state

	if _, ok := s.users[userID]; !ok {
		return nil, fmt.Errorf("repository: user %d: %w", userID, ErrNotFound)
	}
	var groups []*UserGroup
	for groupID := range s.memberships[userID] {
		if g, ok := s.userGroups[groupID]; ok {
			cp := *g
			cp.Fields = g.Fields.Copy()
			groups = append(groups, &cp)
		}
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].ID < groups[j].ID })
	return groups, nil
}

type memoryUserGroups Memory

func (m *memoryUserGroups) CreateUserGroup(ctx context.Context, gs UserGroupCreateStruct, parentGroupID int64) (*UserGroup, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := m.state

	if _, ok := s.userGroups[parentGroupID]; !ok {
		return nil, fmt.Errorf("repository: user group %d: %w", parentGroupID, ErrNotFound)
	}
	g := &UserGroup{
		ID:               s.id(),
		RemoteID:         gs.RemoteID,
		ParentID:         parentGroupID,
		MainLanguageCode: gs.MainLanguageCode,
		Fields:           gs.Fields.Copy(),
	}
	s.userGroups[g.ID] = g

	cp := *g
	cp.Fields = g.Fields.Copy()
	return &cp, nil
}

func (m *memoryUserGroups) UpdateUserGroup(ctx context.Context, groupID int64, gs UserGroupUpdateStruct) (*UserGroup, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	g, ok := m.state.userGroups[groupID]
	if !ok {
		return nil, fmt.Errorf("repository: user group %d: %w", groupID, ErrNotFound)
	}
	if gs.RemoteID != "" {
		g.RemoteID = gs.RemoteID
	}
	if g.Fields == nil {
		g.Fields = Fields{}
	}
	for ident, byLang := range gs.Fields {
		if g.Fields[ident] == nil {
			g.Fields[ident] = map[string]any{}
		}
		for code, v := range byLang {
			g.Fields[ident][code] = v
		}
	}

	cp := *g
	cp.Fields = g.Fields.Copy()
	return &cp, nil
}

func (m *memoryUserGroups) MoveUserGroup(ctx context.Context, groupID, newParentID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := m.state

	g, ok := s.userGroups[groupID]
	if !ok {
		return fmt.Errorf("repository: user group %d: %w", groupID, ErrNotFound)
	}
	if _, ok := s.userGroups[newParentID]; !ok {
		return fmt.Errorf("repository: user group %d: %w", newParentID, ErrNotFound)
	}
	g.ParentID = newParentID
	return nil
}

func (m *memoryUserGroups) DeleteUserGroup(ctx context.Context, groupID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := m.state

	if _, ok := s.userGroups[groupID]; !ok {
		return fmt.Errorf("repository: user group %d: %w", groupID, ErrNotFound)
	}
	delete(s.userGroups, groupID)
	for _, members := range s.memberships {
		delete(members, groupID)
	}
	return nil
}

func (m *memoryUserGroups) LoadUserGroup(ctx context.Context, groupID int64) (*UserGroup, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	g, ok := m.state.userGroups[groupID]
	if !ok {
		return nil, fmt.Errorf("repository: user group %d: %w", groupID, ErrNotFound)
	}
	cp := *g
	cp.Fields = g.Fields.Copy()
	return &cp, nil
}

func (m *memoryUserGroups) LoadUserGroupByRemoteID(ctx context.Context, remoteID string) (*UserGroup, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, g := range m.state.userGroups {
		if g.RemoteID == remoteID {
			cp := *g
			cp.Fields = g.Fields.Copy()
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("repository: user group remote id %q: %w", remoteID, ErrNotFound)
}

func (m *memoryUserGroups) LoadSubUserGroups(ctx context.Context, parentGroupID int64) ([]*UserGroup, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var groups []*UserGroup
	for _, g := range m.state.userGroups {
		if g.ParentID == parentGroupID {
			cp := *g
			cp.Fields = g.Fields.Copy()
			groups = append(groups, &cp)
		}
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].ID < groups[j].ID })
	return groups, nil
}
