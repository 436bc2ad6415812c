package objects

import "content-transfer/core/repository"

// ContentTypeMapper translates between a ContentTypeObject and the
// repository's native content type structs.
type ContentTypeMapper struct {
	object *ContentTypeObject
}

// ToCreateStruct builds the native create struct with all defaults applied.
func (m *ContentTypeMapper) ToCreateStruct() repository.ContentTypeCreateStruct {
	o := m.object
	return repository.ContentTypeCreateStruct{
		Identifier:       o.Identifier,
		MainLanguageCode: o.MainLanguage(),
		NameSchema:       o.NameSchema,
		Container:        o.Container,
		Names:            o.EffectiveNames(),
		Descriptions:     o.Descriptions,
	}
}

// ToUpdateStruct builds the native update struct. Container is always
// carried; name maps are carried only when the object supplies them.
func (m *ContentTypeMapper) ToUpdateStruct() repository.ContentTypeUpdateStruct {
	o := m.object
	container := o.Container
	us := repository.ContentTypeUpdateStruct{
		Identifier:       o.Identifier,
		MainLanguageCode: o.MainLanguage(),
		NameSchema:       o.NameSchema,
		Container:        &container,
		Descriptions:     o.Descriptions,
	}
	if len(o.Names) > 0 {
		us.Names = o.Names
	}
	return us
}

// FieldDefinitionCreateStruct builds the native create struct for one of the
// object's field definitions.
func (m *ContentTypeMapper) FieldDefinitionCreateStruct(fd *FieldDefinitionObject, position int) repository.FieldDefinitionCreateStruct {
	return repository.FieldDefinitionCreateStruct{
		Identifier:   fd.Identifier,
		Type:         fd.EffectiveType(),
		FieldGroup:   fd.EffectiveFieldGroup(),
		Position:     position,
		Required:     fd.Required,
		Translatable: fd.EffectiveTranslatable(),
		Searchable:   fd.EffectiveSearchable(),
		Names:        fd.EffectiveNames(m.object.MainLanguage()),
		Descriptions: fd.Descriptions,
		DefaultValue: fd.DefaultValue,
	}
}

// FieldDefinitionUpdateStruct builds the native update struct for a field
// definition that already exists on the type.
func (m *ContentTypeMapper) FieldDefinitionUpdateStruct(fd *FieldDefinitionObject, position int) repository.FieldDefinitionUpdateStruct {
	required := fd.Required
	translatable := fd.EffectiveTranslatable()
	searchable := fd.EffectiveSearchable()
	return repository.FieldDefinitionUpdateStruct{
		FieldGroup:   fd.EffectiveFieldGroup(),
		Position:     position,
		Required:     &required,
		Translatable: &translatable,
		Searchable:   &searchable,
		Names:        fd.EffectiveNames(m.object.MainLanguage()),
		Descriptions: fd.Descriptions,
		DefaultValue: fd.DefaultValue,
	}
}

// FromContentType refreshes the object from a native content type value.
func (m *ContentTypeMapper) FromContentType(ct *repository.ContentType) {
	o := m.object
	o.ID = ct.ID
	o.Identifier = ct.Identifier
	o.MainLanguageCode = ct.MainLanguageCode
	for _, fd := range o.FieldDefinitions {
		for _, native := range ct.FieldDefinitions {
			if native.Identifier == fd.Identifier {
				fd.ID = native.ID
				break
			}
		}
	}
}
