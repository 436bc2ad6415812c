package objects

// UserObject describes a repository account, identified by its username.
//
// Fields carries the person attributes of the account (first_name, last_name
// and friends) in the same shape as content fields.
type UserObject struct {
	Username         string         `json:"username"`
	Email            string         `json:"email,omitempty"`
	Password         string         `json:"password,omitempty"`
	Enabled          *bool          `json:"enabled,omitempty"`
	MainLanguageCode string         `json:"main_language_code,omitempty"`
	Fields           map[string]any `json:"fields,omitempty"`

	// Parents are the groups the user should be a member of. An empty list
	// leaves existing memberships untouched.
	Parents []*UserGroupObject `json:"parents,omitempty"`

	Action Action `json:"action,omitempty"`

	// Assigned by the repository after reconciliation.
	ID int64 `json:"id,omitempty"`

	CreateStructCallback StructCallback `json:"-"`
	UpdateStructCallback StructCallback `json:"-"`

	mapper *UserMapper
}

// NewUserObject returns a user object for the given username.
func NewUserObject(username string) *UserObject {
	return &UserObject{Username: username}
}

func (o *UserObject) Kind() string          { return "user" }
func (o *UserObject) DesiredAction() Action { return o.Action }

// MainLanguage returns the object's main language, falling back to the
// default.
func (o *UserObject) MainLanguage() string {
	if o.MainLanguageCode == "" {
		return DefaultLanguage
	}
	return o.MainLanguageCode
}

// EffectiveEnabled reports whether the account should be enabled. Unset
// means yes.
func (o *UserObject) EffectiveEnabled() bool {
	if o.Enabled == nil {
		return true
	}
	return *o.Enabled
}

// AddParent registers a group membership for the user.
func (o *UserObject) AddParent(group *UserGroupObject) {
	o.Parents = append(o.Parents, group)
}

// Mapper returns the translator bound to this object.
func (o *UserObject) Mapper() *UserMapper {
	if o.mapper == nil {
		o.mapper = &UserMapper{object: o}
	}
	return o.mapper
}
