package objects

import "content-transfer/core/repository"

// UserGroupMapper translates between a UserGroupObject and the repository's
// native user group structs.
type UserGroupMapper struct {
	object *UserGroupObject
}

// ToCreateStruct builds the native create struct. The parent group id is
// passed to CreateUserGroup separately.
func (m *UserGroupMapper) ToCreateStruct() repository.UserGroupCreateStruct {
	o := m.object
	return repository.UserGroupCreateStruct{
		RemoteID:         o.RemoteID,
		MainLanguageCode: o.MainLanguage(),
		Fields:           fieldsForRepository(o.Fields, o.MainLanguage()),
	}
}

// ToUpdateStruct builds the native update struct.
func (m *UserGroupMapper) ToUpdateStruct() repository.UserGroupUpdateStruct {
	o := m.object
	return repository.UserGroupUpdateStruct{
		RemoteID: o.RemoteID,
		Fields:   fieldsForRepository(o.Fields, o.MainLanguage()),
	}
}

// FromUserGroup refreshes the object from a native user group value.
func (m *UserGroupMapper) FromUserGroup(g *repository.UserGroup) {
	o := m.object
	o.ID = g.ID
	o.RemoteID = g.RemoteID
	o.ParentID = g.ParentID
	o.MainLanguageCode = g.MainLanguageCode
}
