package objects

// DefaultUserGroupParentID is the repository's conventional parent group,
// applied when a group object names none.
const DefaultUserGroupParentID int64 = 12

// UserGroupObject describes a user group, identified by its remote id or,
// failing that, its repository id.
//
// Fields carries the group's attributes (typically just name) in the same
// shape as content fields.
type UserGroupObject struct {
	RemoteID         string         `json:"remote_id,omitempty"`
	ID               int64          `json:"id,omitempty"`
	ParentID         int64          `json:"parent_id,omitempty"`
	MainLanguageCode string         `json:"main_language_code,omitempty"`
	Fields           map[string]any `json:"fields,omitempty"`

	Action Action `json:"action,omitempty"`

	CreateStructCallback StructCallback `json:"-"`
	UpdateStructCallback StructCallback `json:"-"`

	mapper *UserGroupMapper
}

// NewUserGroupObject returns a user group object for the given remote id.
func NewUserGroupObject(remoteID string) *UserGroupObject {
	return &UserGroupObject{RemoteID: remoteID}
}

func (o *UserGroupObject) Kind() string          { return "user_group" }
func (o *UserGroupObject) DesiredAction() Action { return o.Action }

// MainLanguage returns the object's main language, falling back to the
// default.
func (o *UserGroupObject) MainLanguage() string {
	if o.MainLanguageCode == "" {
		return DefaultLanguage
	}
	return o.MainLanguageCode
}

// EffectiveParentID returns the desired parent group, falling back to the
// repository's conventional default.
func (o *UserGroupObject) EffectiveParentID() int64 {
	if o.ParentID == 0 {
		return DefaultUserGroupParentID
	}
	return o.ParentID
}

// Mapper returns the translator bound to this object.
func (o *UserGroupObject) Mapper() *UserGroupMapper {
	if o.mapper == nil {
		o.mapper = &UserGroupMapper{object: o}
	}
	return o.mapper
}
