package objects

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestParseAction tests the wire spellings of the reconcile actions.
func TestParseAction(t *testing.T) {
	cases := []struct {
		in   string
		want Action
	}{
		{"", ActionCreateOrUpdate},
		{"create_or_update", ActionCreateOrUpdate},
		{"delete", ActionDelete},
		{"skip", ActionSkip},
	}
	for _, c := range cases {
		got, err := ParseAction(c.in)
		assert.NoError(t, err)
		assert.Equal(t, c.want, got)
	}

	_, err := ParseAction("upsert")
	assert.Error(t, err)
}

// TestActionJSONRoundTrip tests that actions survive JSON encoding.
func TestActionJSONRoundTrip(t *testing.T) {
	data, err := json.Marshal(ActionDelete)
	require.NoError(t, err)
	assert.Equal(t, `"delete"`, string(data))

	var a Action
	require.NoError(t, json.Unmarshal([]byte(`"skip"`), &a))
	assert.Equal(t, ActionSkip, a)
}

// TestContentObjectDefaults tests the language fallback and parent location
// map semantics.
func TestContentObjectDefaults(t *testing.T) {
	o := NewContentObject("article", map[string]any{"title": "Hello"})
	assert.Equal(t, DefaultLanguage, o.MainLanguage())

	o.AddParentLocation(&LocationObject{ParentLocationID: 2, Priority: 1})
	o.AddParentLocation(&LocationObject{ParentLocationID: 2, Priority: 9})
	o.AddParentLocation(&LocationObject{ParentLocationID: 43})
	require.Len(t, o.ParentLocations, 2)
	assert.Equal(t, 9, o.ParentLocations[2].Priority)
}

// TestContentMapperFields tests the scalar and per-language field shapes.
func TestContentMapperFields(t *testing.T) {
	o := NewContentObject("article", map[string]any{
		"title": "Hello",
		"intro": map[string]any{"eng-GB": "Hi", "ger-DE": "Hallo"},
	})
	cs := o.Mapper().ToCreateStruct(7)

	assert.EqualValues(t, 7, cs.ContentTypeID)
	assert.Equal(t, "eng-GB", cs.MainLanguageCode)
	assert.Equal(t, map[string]any{"eng-GB": "Hello"}, cs.Fields["title"])
	assert.Equal(t, "Hallo", cs.Fields["intro"]["ger-DE"])
}

// TestContentMapperLocationOrder tests that location structs come out sorted
// by parent id.
func TestContentMapperLocationOrder(t *testing.T) {
	o := NewContentObject("article", nil)
	o.AddParentLocation(&LocationObject{ParentLocationID: 60})
	o.AddParentLocation(&LocationObject{ParentLocationID: 2})
	o.AddParentLocation(&LocationObject{ParentLocationID: 43})

	structs := o.Mapper().LocationCreateStructs()
	require.Len(t, structs, 3)
	assert.EqualValues(t, 2, structs[0].ParentLocationID)
	assert.EqualValues(t, 43, structs[1].ParentLocationID)
	assert.EqualValues(t, 60, structs[2].ParentLocationID)
}

// TestContentTypeObjectDefaults tests group, name and field definition
// defaults.
func TestContentTypeObjectDefaults(t *testing.T) {
	fd := NewFieldDefinitionObject("body")
	o := NewContentTypeObject("blog_post", fd)

	assert.Equal(t, []string{"Content"}, o.GroupIdentifiers())
	assert.Equal(t, map[string]string{"eng-GB": "Blog post"}, o.EffectiveNames())

	cs := o.Mapper().FieldDefinitionCreateStruct(fd, 1)
	assert.Equal(t, "string", cs.Type)
	assert.Equal(t, "content", cs.FieldGroup)
	assert.True(t, cs.Translatable)
	assert.True(t, cs.Searchable)
	assert.Equal(t, map[string]string{"eng-GB": "Body"}, cs.Names)

	no := false
	fd.Searchable = &no
	cs = o.Mapper().FieldDefinitionCreateStruct(fd, 1)
	assert.False(t, cs.Searchable)
}

// TestLanguageObjectNames tests the built-in name table and its error path.
func TestLanguageObjectNames(t *testing.T) {
	o := NewLanguageObject("ger-DE")
	cs, err := o.Mapper().ToCreateStruct()
	require.NoError(t, err)
	assert.Equal(t, "German", cs.Name)
	assert.True(t, cs.Enabled)

	unknown := NewLanguageObject("xxx-XX")
	_, err = unknown.Mapper().ToCreateStruct()
	var notFound *LanguageNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "xxx-XX", notFound.Code)

	unknown.Name = "Placeholder"
	cs, err = unknown.Mapper().ToCreateStruct()
	require.NoError(t, err)
	assert.Equal(t, "Placeholder", cs.Name)
}

// TestUserGroupObjectDefaults tests the standard parent fallback.
func TestUserGroupObjectDefaults(t *testing.T) {
	o := NewUserGroupObject("editors")
	assert.Equal(t, DefaultUserGroupParentID, o.EffectiveParentID())

	o.ParentID = 14
	assert.EqualValues(t, 14, o.EffectiveParentID())
}

// TestTreeObjectMainObject tests the main object default on tree nodes.
func TestTreeObjectMainObject(t *testing.T) {
	node := NewTreeObject(2, NewContentObject("folder", nil))
	assert.True(t, node.IsMainObject())

	no := false
	node.MainObject = &no
	assert.False(t, node.IsMainObject())
}
