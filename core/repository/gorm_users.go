package repository

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"gorm.io/gorm"
)

type gormUsers struct {
	db *gorm.DB
}

func (s *gormUsers) CreateUser(ctx context.Context, us UserCreateStruct, groupIDs []int64) (*User, error) {
	db := s.db.WithContext(ctx)

	fields, err := marshalJSON(us.Fields)
	if err != nil {
		return nil, err
	}
	row := userRow{
		Login:            us.Login,
		Email:            us.Email,
		PasswordHash:     hashPassword(us.Password),
		Enabled:          us.Enabled,
		MainLanguageCode: us.MainLanguageCode,
		Fields:           fields,
	}
	if err := db.Create(&row).Error; err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	for _, groupID := range groupIDs {
		var group userGroupRow
		if err := db.First(&group, groupID).Error; err != nil {
			return nil, notFound(err, "user group %d", groupID)
		}
		if err := db.Create(&membershipRow{UserID: row.ID, GroupID: groupID}).Error; err != nil {
			return nil, fmt.Errorf("failed to assign user to group %d: %w", groupID, err)
		}
	}
	return row.toUser()
}

func (s *gormUsers) UpdateUser(ctx context.Context, userID int64, us UserUpdateStruct) (*User, error) {
	db := s.db.WithContext(ctx)

	var row userRow
	if err := db.First(&row, userID).Error; err != nil {
		return nil, notFound(err, "user %d", userID)
	}

	updates := map[string]any{}
	if us.Email != "" {
		updates["email"] = us.Email
	}
	if us.Password != "" {
		updates["password_hash"] = hashPassword(us.Password)
	}
	if us.Enabled != nil {
		updates["enabled"] = *us.Enabled
	}
	if us.Fields != nil {
		fields, err := unmarshalFields(row.Fields)
		if err != nil {
			return nil, err
		}
		if fields == nil {
			fields = Fields{}
		}
		for ident, byLang := range us.Fields {
			if fields[ident] == nil {
				fields[ident] = map[string]any{}
			}
			for code, v := range byLang {
				fields[ident][code] = v
			}
		}
		encoded, err := marshalJSON(fields)
		if err != nil {
			return nil, err
		}
		updates["fields"] = encoded
	}
	if len(updates) > 0 {
		if err := db.Model(&row).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("failed to update user: %w", err)
		}
	}

	var updated userRow
	if err := db.First(&updated, userID).Error; err != nil {
		return nil, notFound(err, "user %d", userID)
	}
	return updated.toUser()
}

func (s *gormUsers) DeleteUser(ctx context.Context, userID int64) error {
	db := s.db.WithContext(ctx)

	res := db.Delete(&userRow{}, userID)
	if res.Error != nil {
		return fmt.Errorf("failed to delete user: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("repository: user %d: %w", userID, ErrNotFound)
	}
	if err := db.Delete(&membershipRow{}, "user_id = ?", userID).Error; err != nil {
		return fmt.Errorf("failed to delete user memberships: %w", err)
	}
	return nil
}

func (s *gormUsers) LoadUserByLogin(ctx context.Context, login string) (*User, error) {
	var row userRow
	if err := s.db.WithContext(ctx).Where("login = ?", login).First(&row).Error; err != nil {
		return nil, notFound(err, "user %q", login)
	}
	return row.toUser()
}

func (s *gormUsers) AssignUserToGroup(ctx context.Context, userID, groupID int64) error {
	db := s.db.WithContext(ctx)

	var count int64
	if err := db.Model(&membershipRow{}).Where("user_id = ? AND group_id = ?", userID, groupID).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to check membership: %w", err)
	}
	if count > 0 {
		return fmt.Errorf("repository: user %d in group %d: %w", userID, groupID, ErrAlreadyAssigned)
	}
	if err := db.Create(&membershipRow{UserID: userID, GroupID: groupID}).Error; err != nil {
		return fmt.Errorf("failed to assign user to group: %w", err)
	}
	return nil
}

func (s *gormUsers) UnassignUserFromGroup(ctx context.Context, userID, groupID int64) error {
	res := s.db.WithContext(ctx).Delete(&membershipRow{}, "user_id = ? AND group_id = ?", userID, groupID)
	if res.Error != nil {
		return fmt.Errorf("failed to unassign user from group: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("repository: user %d in group %d: %w", userID, groupID, ErrNotFound)
	}
	return nil
}

func (s *gormUsers) LoadUserGroupsOfUser(ctx context.Context, userID int64) ([]*UserGroup, error) {
	db := s.db.WithContext(ctx)

	var rows []userGroupRow
	err := db.Model(&userGroupRow{}).
		Joins("JOIN user_memberships ON user_memberships.group_id = user_groups.id").
		Where("user_memberships.user_id = ?", userID).
		Order("user_groups.id").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load user groups: %w", err)
	}
	groups := make([]*UserGroup, 0, len(rows))
	for i := range rows {
		g, err := rows[i].toUserGroup()
		if err != nil {
			return nil, err
		}
		groups = append(groups, g)
	}
	return groups, nil
}

func hashPassword(password string) string {
	if password == "" {
		return ""
	}
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:])
}

type gormUserGroups struct {
	db *gorm.DB
}

func (s *gormUserGroups) CreateUserGroup(ctx context.Context, gs UserGroupCreateStruct, parentGroupID int64) (*UserGroup, error) {
	db := s.db.WithContext(ctx)

	if parentGroupID != 0 {
		var parent userGroupRow
		if err := db.First(&parent, parentGroupID).Error; err != nil {
			return nil, notFound(err, "user group %d", parentGroupID)
		}
	}
	fields, err := marshalJSON(gs.Fields)
	if err != nil {
		return nil, err
	}
	row := userGroupRow{
		RemoteID:         gs.RemoteID,
		ParentID:         parentGroupID,
		MainLanguageCode: gs.MainLanguageCode,
		Fields:           fields,
	}
	if err := db.Create(&row).Error; err != nil {
		return nil, fmt.Errorf("failed to create user group: %w", err)
	}
	return row.toUserGroup()
}

func (s *gormUserGroups) UpdateUserGroup(ctx context.Context, groupID int64, gs UserGroupUpdateStruct) (*UserGroup, error) {
	db := s.db.WithContext(ctx)

	var row userGroupRow
	if err := db.First(&row, groupID).Error; err != nil {
		return nil, notFound(err, "user group %d", groupID)
	}

	updates := map[string]any{}
	if gs.RemoteID != "" {
		updates["remote_id"] = gs.RemoteID
	}
	if gs.Fields != nil {
		fields, err := unmarshalFields(row.Fields)
		if err != nil {
			return nil, err
		}
		if fields == nil {
			fields = Fields{}
		}
		for ident, byLang := range gs.Fields {
			if fields[ident] == nil {
				fields[ident] = map[string]any{}
			}
			for code, v := range byLang {
				fields[ident][code] = v
			}
		}
		encoded, err := marshalJSON(fields)
		if err != nil {
			return nil, err
		}
		updates["fields"] = encoded
	}
	if len(updates) > 0 {
		if err := db.Model(&row).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("failed to update user group: %w", err)
		}
	}
	return s.LoadUserGroup(ctx, groupID)
}

func (s *gormUserGroups) MoveUserGroup(ctx context.Context, groupID, newParentID int64) error {
	db := s.db.WithContext(ctx)

	var parent userGroupRow
	if err := db.First(&parent, newParentID).Error; err != nil {
		return notFound(err, "user group %d", newParentID)
	}
	res := db.Model(&userGroupRow{}).Where("id = ?", groupID).Update("parent_id", newParentID)
	if res.Error != nil {
		return fmt.Errorf("failed to move user group: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("repository: user group %d: %w", groupID, ErrNotFound)
	}
	return nil
}

func (s *gormUserGroups) DeleteUserGroup(ctx context.Context, groupID int64) error {
	db := s.db.WithContext(ctx)

	res := db.Delete(&userGroupRow{}, groupID)
	if res.Error != nil {
		return fmt.Errorf("failed to delete user group: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("repository: user group %d: %w", groupID, ErrNotFound)
	}
	if err := db.Delete(&membershipRow{}, "group_id = ?", groupID).Error; err != nil {
		return fmt.Errorf("failed to delete group memberships: %w", err)
	}
	return nil
}

func (s *gormUserGroups) LoadUserGroup(ctx context.Context, groupID int64) (*UserGroup, error) {
	var row userGroupRow
	if err := s.db.WithContext(ctx).First(&row, groupID).Error; err != nil {
		return nil, notFound(err, "user group %d", groupID)
	}
	return row.toUserGroup()
}

func (s *gormUserGroups) LoadUserGroupByRemoteID(ctx context.Context, remoteID string) (*UserGroup, error) {
	var row userGroupRow
	if err := s.db.WithContext(ctx).Where("remote_id = ?", remoteID).First(&row).Error; err != nil {
		return nil, notFound(err, "user group remote id %q", remoteID)
	}
	return row.toUserGroup()
}

func (s *gormUserGroups) LoadSubUserGroups(ctx context.Context, parentGroupID int64) ([]*UserGroup, error) {
	var rows []userGroupRow
	err := s.db.WithContext(ctx).Where("parent_id = ?", parentGroupID).Order("id").Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load sub groups: %w", err)
	}
	groups := make([]*UserGroup, 0, len(rows))
	for i := range rows {
		g, err := rows[i].toUserGroup()
		if err != nil {
			return nil, err
		}
		groups = append(groups, g)
	}
	return groups, nil
}
