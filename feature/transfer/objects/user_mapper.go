package objects

import "content-transfer/core/repository"

// UserMapper translates between a UserObject and the repository's native
// user structs.
type UserMapper struct {
	object *UserObject
}

// ToCreateStruct builds the native create struct with defaults applied.
func (m *UserMapper) ToCreateStruct() repository.UserCreateStruct {
	o := m.object
	return repository.UserCreateStruct{
		Login:            o.Username,
		Email:            o.Email,
		Password:         o.Password,
		Enabled:          o.EffectiveEnabled(),
		MainLanguageCode: o.MainLanguage(),
		Fields:           fieldsForRepository(o.Fields, o.MainLanguage()),
	}
}

// ToUpdateStruct builds the native update struct. The password is carried
// only when the object supplies one.
func (m *UserMapper) ToUpdateStruct() repository.UserUpdateStruct {
	o := m.object
	enabled := o.EffectiveEnabled()
	return repository.UserUpdateStruct{
		Email:    o.Email,
		Password: o.Password,
		Enabled:  &enabled,
		Fields:   fieldsForRepository(o.Fields, o.MainLanguage()),
	}
}

// FromUser refreshes the object from a native user value.
func (m *UserMapper) FromUser(u *repository.User) {
	o := m.object
	o.ID = u.ID
	o.Username = u.Login
	o.Email = u.Email
	enabled := u.Enabled
	o.Enabled = &enabled
	o.MainLanguageCode = u.MainLanguageCode
}
