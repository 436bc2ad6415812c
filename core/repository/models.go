package repository

import (
	"encoding/json"
	"fmt"
)

// GORM row types for the MySQL backend. Multi-language maps and field values
// are stored as JSON columns; the repository never queries inside them.

type contentRow struct {
	ID               int64  `gorm:"primaryKey;autoIncrement"`
	RemoteID         string `gorm:"column:remote_id;size:100;uniqueIndex"`
	ContentTypeID    int64  `gorm:"column:content_type_id;index"`
	MainLanguageCode string `gorm:"column:main_language_code;size:20"`
	MainLocationID   int64  `gorm:"column:main_location_id"`
	CurrentVersionNo int    `gorm:"column:current_version_no"`
	Published        bool   `gorm:"column:published;index"`
	Name             string `gorm:"column:name;size:255"`
	Fields           []byte `gorm:"column:fields;type:json"`
}

func (contentRow) TableName() string { return "contents" }

type contentDraftRow struct {
	ID               int64  `gorm:"primaryKey;autoIncrement"`
	ContentID        int64  `gorm:"column:content_id;index:idx_draft_version,unique"`
	VersionNo        int    `gorm:"column:version_no;index:idx_draft_version,unique"`
	RemoteID         string `gorm:"column:remote_id;size:100"`
	ContentTypeID    int64  `gorm:"column:content_type_id"`
	MainLanguageCode string `gorm:"column:main_language_code;size:20"`
	Fields           []byte `gorm:"column:fields;type:json"`
}

func (contentDraftRow) TableName() string { return "content_drafts" }

type locationRow struct {
	ID             int64  `gorm:"primaryKey;autoIncrement"`
	RemoteID       string `gorm:"column:remote_id;size:100;index"`
	ParentID       int64  `gorm:"column:parent_id;index"`
	ContentID      int64  `gorm:"column:content_id;index"`
	Hidden         bool   `gorm:"column:hidden"`
	Priority       int    `gorm:"column:priority"`
	Depth          int    `gorm:"column:depth"`
	IsMainLocation bool   `gorm:"column:is_main"`
}

func (locationRow) TableName() string { return "locations" }

type contentTypeRow struct {
	ID               int64  `gorm:"primaryKey;autoIncrement"`
	Identifier       string `gorm:"column:identifier;size:100;uniqueIndex"`
	MainLanguageCode string `gorm:"column:main_language_code;size:20"`
	NameSchema       string `gorm:"column:name_schema;size:255"`
	Container        bool   `gorm:"column:container"`
	Names            []byte `gorm:"column:names;type:json"`
	Descriptions     []byte `gorm:"column:descriptions;type:json"`
}

func (contentTypeRow) TableName() string { return "content_types" }

type fieldDefinitionRow struct {
	ID            int64  `gorm:"primaryKey;autoIncrement"`
	ContentTypeID int64  `gorm:"column:content_type_id;index:idx_fd_identifier,unique"`
	Identifier    string `gorm:"column:identifier;size:100;index:idx_fd_identifier,unique"`
	Type          string `gorm:"column:field_type;size:100"`
	FieldGroup    string `gorm:"column:field_group;size:100"`
	Position      int    `gorm:"column:position"`
	Required      bool   `gorm:"column:required"`
	Translatable  bool   `gorm:"column:translatable"`
	Searchable    bool   `gorm:"column:searchable"`
	Names         []byte `gorm:"column:names;type:json"`
	Descriptions  []byte `gorm:"column:descriptions;type:json"`
	DefaultValue  []byte `gorm:"column:default_value;type:json"`
}

func (fieldDefinitionRow) TableName() string { return "field_definitions" }

type contentTypeGroupRow struct {
	ID         int64  `gorm:"primaryKey;autoIncrement"`
	Identifier string `gorm:"column:identifier;size:100;uniqueIndex"`
}

func (contentTypeGroupRow) TableName() string { return "content_type_groups" }

type contentTypeAssignmentRow struct {
	ContentTypeID int64 `gorm:"column:content_type_id;primaryKey"`
	GroupID       int64 `gorm:"column:group_id;primaryKey"`
}

func (contentTypeAssignmentRow) TableName() string { return "content_type_assignments" }

type languageRow struct {
	ID      int64  `gorm:"primaryKey;autoIncrement"`
	Code    string `gorm:"column:code;size:20;uniqueIndex"`
	Name    string `gorm:"column:name;size:255"`
	Enabled bool   `gorm:"column:enabled"`
}

func (languageRow) TableName() string { return "languages" }

type userRow struct {
	ID               int64  `gorm:"primaryKey;autoIncrement"`
	Login            string `gorm:"column:login;size:100;uniqueIndex"`
	Email            string `gorm:"column:email;size:255"`
	PasswordHash     string `gorm:"column:password_hash;size:128"`
	Enabled          bool   `gorm:"column:enabled"`
	MainLanguageCode string `gorm:"column:main_language_code;size:20"`
	Fields           []byte `gorm:"column:fields;type:json"`
}

func (userRow) TableName() string { return "users" }

type userGroupRow struct {
	ID               int64  `gorm:"primaryKey;autoIncrement"`
	RemoteID         string `gorm:"column:remote_id;size:100;index"`
	ParentID         int64  `gorm:"column:parent_id;index"`
	MainLanguageCode string `gorm:"column:main_language_code;size:20"`
	Fields           []byte `gorm:"column:fields;type:json"`
}

func (userGroupRow) TableName() string { return "user_groups" }

type membershipRow struct {
	UserID  int64 `gorm:"column:user_id;primaryKey"`
	GroupID int64 `gorm:"column:group_id;primaryKey"`
}

func (membershipRow) TableName() string { return "user_memberships" }

func marshalJSON(v any) ([]byte, error) {
	if v == nil {
		return nil, nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode json column: %w", err)
	}
	return data, nil
}

func unmarshalFields(data []byte) (Fields, error) {
	if len(data) == 0 {
		return nil, nil
	}
	var f Fields
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to decode fields column: %w", err)
	}
	return f, nil
}

func unmarshalStringMap(data []byte) (map[string]string, error) {
	if len(data) == 0 {
		return nil, nil
	}
	var m map[string]string
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to decode json column: %w", err)
	}
	return m, nil
}

func (r *contentRow) toContent() (*Content, error) {
	fields, err := unmarshalFields(r.Fields)
	if err != nil {
		return nil, err
	}
	return &Content{
		ID:               r.ID,
		RemoteID:         r.RemoteID,
		ContentTypeID:    r.ContentTypeID,
		MainLanguageCode: r.MainLanguageCode,
		MainLocationID:   r.MainLocationID,
		CurrentVersionNo: r.CurrentVersionNo,
		Name:             r.Name,
		Fields:           fields,
	}, nil
}

func (r *contentDraftRow) toDraft() (*ContentDraft, error) {
	fields, err := unmarshalFields(r.Fields)
	if err != nil {
		return nil, err
	}
	return &ContentDraft{
		ContentID:        r.ContentID,
		VersionNo:        r.VersionNo,
		RemoteID:         r.RemoteID,
		ContentTypeID:    r.ContentTypeID,
		MainLanguageCode: r.MainLanguageCode,
		Fields:           fields,
	}, nil
}

func (r *locationRow) toLocation() *Location {
	return &Location{
		ID:             r.ID,
		RemoteID:       r.RemoteID,
		ParentID:       r.ParentID,
		ContentID:      r.ContentID,
		Hidden:         r.Hidden,
		Priority:       r.Priority,
		Depth:          r.Depth,
		IsMainLocation: r.IsMainLocation,
	}
}

func (r *languageRow) toLanguage() *Language {
	return &Language{ID: r.ID, Code: r.Code, Name: r.Name, Enabled: r.Enabled}
}

func (r *userRow) toUser() (*User, error) {
	fields, err := unmarshalFields(r.Fields)
	if err != nil {
		return nil, err
	}
	return &User{
		ID:               r.ID,
		Login:            r.Login,
		Email:            r.Email,
		Enabled:          r.Enabled,
		MainLanguageCode: r.MainLanguageCode,
		Fields:           fields,
	}, nil
}

func (r *userGroupRow) toUserGroup() (*UserGroup, error) {
	fields, err := unmarshalFields(r.Fields)
	if err != nil {
		return nil, err
	}
	return &UserGroup{
		ID:               r.ID,
		RemoteID:         r.RemoteID,
		ParentID:         r.ParentID,
		MainLanguageCode: r.MainLanguageCode,
		Fields:           fields,
	}, nil
}

func (r *fieldDefinitionRow) toFieldDefinition() (FieldDefinition, error) {
	names, err := unmarshalStringMap(r.Names)
	if err != nil {
		return FieldDefinition{}, err
	}
	descriptions, err := unmarshalStringMap(r.Descriptions)
	if err != nil {
		return FieldDefinition{}, err
	}
	var defaultValue any
	if len(r.DefaultValue) > 0 {
		if err := json.Unmarshal(r.DefaultValue, &defaultValue); err != nil {
			return FieldDefinition{}, fmt.Errorf("failed to decode default value: %w", err)
		}
	}
	return FieldDefinition{
		ID:           r.ID,
		Identifier:   r.Identifier,
		Type:         r.Type,
		FieldGroup:   r.FieldGroup,
		Position:     r.Position,
		Required:     r.Required,
		Translatable: r.Translatable,
		Searchable:   r.Searchable,
		Names:        names,
		Descriptions: descriptions,
		DefaultValue: defaultValue,
	}, nil
}
