package objects

import (
	"strings"
	"unicode"
)

// ContentTypeObject describes the desired state of a content type schema,
// identified by its identifier.
type ContentTypeObject struct {
	Identifier       string                   `json:"identifier"`
	MainLanguageCode string                   `json:"main_language_code,omitempty"`
	NameSchema       string                   `json:"name_schema,omitempty"`
	Container        bool                     `json:"container,omitempty"`
	Names            map[string]string        `json:"names,omitempty"`
	Descriptions     map[string]string        `json:"descriptions,omitempty"`
	Groups           []string                 `json:"groups,omitempty"`
	FieldDefinitions []*FieldDefinitionObject `json:"field_definitions,omitempty"`

	Action Action `json:"action,omitempty"`

	// Assigned by the repository after reconciliation.
	ID int64 `json:"id,omitempty"`

	CreateStructCallback StructCallback `json:"-"`
	UpdateStructCallback StructCallback `json:"-"`

	mapper *ContentTypeMapper
}

// NewContentTypeObject returns a content type object for the given identifier
// with the given field definitions attached.
func NewContentTypeObject(identifier string, fieldDefinitions ...*FieldDefinitionObject) *ContentTypeObject {
	return &ContentTypeObject{
		Identifier:       identifier,
		FieldDefinitions: fieldDefinitions,
	}
}

func (o *ContentTypeObject) Kind() string          { return "content_type" }
func (o *ContentTypeObject) DesiredAction() Action { return o.Action }

// MainLanguage returns the object's main language, falling back to the
// default.
func (o *ContentTypeObject) MainLanguage() string {
	if o.MainLanguageCode == "" {
		return DefaultLanguage
	}
	return o.MainLanguageCode
}

// GroupIdentifiers returns the groups the type should belong to. An empty
// list defaults to the standard Content group.
func (o *ContentTypeObject) GroupIdentifiers() []string {
	if len(o.Groups) == 0 {
		return []string{"Content"}
	}
	return o.Groups
}

// EffectiveNames returns the name map, synthesizing one from the identifier
// when none was supplied.
func (o *ContentTypeObject) EffectiveNames() map[string]string {
	if len(o.Names) > 0 {
		return o.Names
	}
	return map[string]string{o.MainLanguage(): humanize(o.Identifier)}
}

// Mapper returns the translator bound to this object.
func (o *ContentTypeObject) Mapper() *ContentTypeMapper {
	if o.mapper == nil {
		o.mapper = &ContentTypeMapper{object: o}
	}
	return o.mapper
}

func (o *ContentTypeObject) String() string { return marshalCompact(o) }

// FieldDefinitionObject describes one field of a content type. It is only
// ever reconciled as part of its owning ContentTypeObject.
type FieldDefinitionObject struct {
	Identifier   string            `json:"identifier"`
	Type         string            `json:"type,omitempty"`
	FieldGroup   string            `json:"field_group,omitempty"`
	Position     int               `json:"position,omitempty"`
	Required     bool              `json:"required,omitempty"`
	Translatable *bool             `json:"translatable,omitempty"`
	Searchable   *bool             `json:"searchable,omitempty"`
	Names        map[string]string `json:"names,omitempty"`
	Descriptions map[string]string `json:"descriptions,omitempty"`
	DefaultValue any               `json:"default_value,omitempty"`

	// Assigned by the repository after reconciliation.
	ID int64 `json:"id,omitempty"`
}

// NewFieldDefinitionObject returns a field definition for the given
// identifier with application defaults left to apply at mapping time.
func NewFieldDefinitionObject(identifier string) *FieldDefinitionObject {
	return &FieldDefinitionObject{Identifier: identifier}
}

// EffectiveType returns the field type, defaulting to a plain string field.
func (o *FieldDefinitionObject) EffectiveType() string {
	if o.Type == "" {
		return "string"
	}
	return o.Type
}

// EffectiveFieldGroup returns the field group, defaulting to content.
func (o *FieldDefinitionObject) EffectiveFieldGroup() string {
	if o.FieldGroup == "" {
		return "content"
	}
	return o.FieldGroup
}

// EffectiveTranslatable reports whether the field is translatable. Unset
// means yes.
func (o *FieldDefinitionObject) EffectiveTranslatable() bool {
	if o.Translatable == nil {
		return true
	}
	return *o.Translatable
}

// EffectiveSearchable reports whether the field is searchable. Unset means
// yes.
func (o *FieldDefinitionObject) EffectiveSearchable() bool {
	if o.Searchable == nil {
		return true
	}
	return *o.Searchable
}

// EffectiveNames returns the name map, synthesizing one from the identifier
// when none was supplied.
func (o *FieldDefinitionObject) EffectiveNames(mainLanguage string) map[string]string {
	if len(o.Names) > 0 {
		return o.Names
	}
	return map[string]string{mainLanguage: humanize(o.Identifier)}
}

// humanize turns a snake_case identifier into a display name, so "blog_post"
// becomes "Blog post".
func humanize(identifier string) string {
	s := strings.ReplaceAll(identifier, "_", " ")
	if s == "" {
		return s
	}
	runes := []rune(s)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
