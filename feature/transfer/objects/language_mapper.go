package objects

import "content-transfer/core/repository"

// LanguageMapper translates between a LanguageObject and the repository's
// native language structs.
type LanguageMapper struct {
	object *LanguageObject
}

// ToCreateStruct builds the native create struct. It fails when the code is
// not in the built-in name table and the object carries no explicit name.
func (m *LanguageMapper) ToCreateStruct() (repository.LanguageCreateStruct, error) {
	o := m.object
	name, err := o.EffectiveName()
	if err != nil {
		return repository.LanguageCreateStruct{}, err
	}
	return repository.LanguageCreateStruct{
		Code:    o.Code,
		Name:    name,
		Enabled: o.EffectiveEnabled(),
	}, nil
}

// FromLanguage refreshes the object from a native language value.
func (m *LanguageMapper) FromLanguage(l *repository.Language) {
	o := m.object
	o.ID = l.ID
	o.Code = l.Code
	o.Name = l.Name
	enabled := l.Enabled
	o.Enabled = &enabled
}
