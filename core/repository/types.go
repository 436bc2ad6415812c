package repository

// Fields maps a field identifier to its per-language values
// (language code -> value). Values are scalars or whatever the field type
// stores; the repository treats them opaquely.
type Fields map[string]map[string]any

// Copy returns a deep copy of the field map.
func (f Fields) Copy() Fields {
	if f == nil {
		return nil
	}
	out := make(Fields, len(f))
	for ident, byLang := range f {
		langs := make(map[string]any, len(byLang))
		for code, v := range byLang {
			langs[code] = v
		}
		out[ident] = langs
	}
	return out
}

// Content is a published content item.
type Content struct {
	ID               int64
	RemoteID         string
	ContentTypeID    int64
	MainLanguageCode string
	MainLocationID   int64
	CurrentVersionNo int
	Name             string
	Fields           Fields
}

// ContentDraft is a mutable working copy of a content version. It becomes
// visible only after PublishVersion.
type ContentDraft struct {
	ContentID        int64
	VersionNo        int
	RemoteID         string
	ContentTypeID    int64
	MainLanguageCode string
	Fields           Fields
}

// ContentCreateStruct carries the data for a new content item.
type ContentCreateStruct struct {
	ContentTypeID    int64
	MainLanguageCode string
	RemoteID         string
	Fields           Fields
}

// ContentUpdateStruct carries field updates for an open draft. Only the
// fields present in Fields are touched.
type ContentUpdateStruct struct {
	Fields Fields
}

// Location places a content item in the repository tree.
type Location struct {
	ID               int64
	RemoteID         string
	ParentID         int64
	ContentID        int64
	Hidden           bool
	Priority         int
	Depth            int
	IsMainLocation   bool
}

// LocationCreateStruct carries the data for a new location under
// ParentLocationID.
type LocationCreateStruct struct {
	ParentLocationID int64
	RemoteID         string
	Hidden           bool
	Priority         int
}

// ContentType describes a content schema.
type ContentType struct {
	ID               int64
	Identifier       string
	MainLanguageCode string
	NameSchema       string
	Container        bool
	Names            map[string]string
	Descriptions     map[string]string
	FieldDefinitions []FieldDefinition
	GroupIdentifiers []string
}

// ContentTypeDraft is a mutable working copy of a content type.
type ContentTypeDraft struct {
	ContentType
}

// ContentTypeCreateStruct carries the data for a new content type.
type ContentTypeCreateStruct struct {
	Identifier       string
	MainLanguageCode string
	NameSchema       string
	Container        bool
	Names            map[string]string
	Descriptions     map[string]string
}

// ContentTypeUpdateStruct carries updates for a content type draft.
// Nil maps leave the corresponding names untouched.
type ContentTypeUpdateStruct struct {
	Identifier       string
	MainLanguageCode string
	NameSchema       string
	Container        *bool
	Names            map[string]string
	Descriptions     map[string]string
}

// FieldDefinition describes one field of a content type.
type FieldDefinition struct {
	ID           int64
	Identifier   string
	Type         string
	FieldGroup   string
	Position     int
	Required     bool
	Translatable bool
	Searchable   bool
	Names        map[string]string
	Descriptions map[string]string
	DefaultValue any
}

// FieldDefinitionCreateStruct carries the data for a new field definition.
type FieldDefinitionCreateStruct struct {
	Identifier   string
	Type         string
	FieldGroup   string
	Position     int
	Required     bool
	Translatable bool
	Searchable   bool
	Names        map[string]string
	Descriptions map[string]string
	DefaultValue any
}

// FieldDefinitionUpdateStruct carries updates for an existing field
// definition on a draft.
type FieldDefinitionUpdateStruct struct {
	FieldGroup   string
	Position     int
	Required     *bool
	Translatable *bool
	Searchable   *bool
	Names        map[string]string
	Descriptions map[string]string
	DefaultValue any
}

// ContentTypeGroup is a named bucket content types are assigned to.
type ContentTypeGroup struct {
	ID         int64
	Identifier string
}

// Language is a translation language known to the repository. Languages are
// never removed outright once referenced; they are disabled instead.
type Language struct {
	ID      int64
	Code    string
	Name    string
	Enabled bool
}

// LanguageCreateStruct carries the data for a new language.
type LanguageCreateStruct struct {
	Code    string
	Name    string
	Enabled bool
}

// User is a repository account.
type User struct {
	ID               int64
	Login            string
	Email            string
	Enabled          bool
	MainLanguageCode string
	Fields           Fields
}

// UserCreateStruct carries the data for a new user.
type UserCreateStruct struct {
	Login            string
	Email            string
	Password         string
	Enabled          bool
	MainLanguageCode string
	Fields           Fields
}

// UserUpdateStruct carries updates for an existing user. Nil pointers leave
// the corresponding attribute untouched.
type UserUpdateStruct struct {
	Email    string
	Password string
	Enabled  *bool
	Fields   Fields
}

// UserGroup is a group of users, itself placed under a parent group.
type UserGroup struct {
	ID               int64
	RemoteID         string
	ParentID         int64
	MainLanguageCode string
	Fields           Fields
}

// UserGroupCreateStruct carries the data for a new user group. The parent is
// passed separately to CreateUserGroup.
type UserGroupCreateStruct struct {
	RemoteID         string
	MainLanguageCode string
	Fields           Fields
}

// UserGroupUpdateStruct carries field updates for an existing user group.
type UserGroupUpdateStruct struct {
	RemoteID string
	Fields   Fields
}
