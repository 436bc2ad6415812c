package transfer

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"content-transfer/core/storage/mocks"
	"content-transfer/feature/transfer/objects"
)

// TestLoaderDecodeJSON tests decoding a JSON batch with mixed entry types.
func TestLoaderDecodeJSON(t *testing.T) {
	data := []byte(`[
		{"type": "content_type", "identifier": "article", "field_definitions": [{"identifier": "title"}]},
		{"type": "content", "content_type_identifier": "article", "remote_id": "a1",
		 "fields": {"title": "Hello"}, "parent_locations": {"2": {"parent_location_id": 2}}},
		{"type": "language", "code": "ger-DE", "action": "skip"},
		{"type": "user", "username": "jdoe", "parents": [{"remote_id": "writers"}]},
		{"type": "user_group", "remote_id": "writers", "parent_id": 14}
	]`)

	batch, err := NewLoader().Decode(data, false)
	require.NoError(t, err)
	require.Len(t, batch, 5)

	ct, ok := batch[0].(*objects.ContentTypeObject)
	require.True(t, ok)
	require.Len(t, ct.FieldDefinitions, 1)
	assert.Equal(t, "title", ct.FieldDefinitions[0].Identifier)

	content, ok := batch[1].(*objects.ContentObject)
	require.True(t, ok)
	assert.Equal(t, "a1", content.RemoteID)
	assert.Equal(t, "Hello", content.Fields["title"])
	require.Contains(t, content.ParentLocations, int64(2))

	lang, ok := batch[2].(*objects.LanguageObject)
	require.True(t, ok)
	assert.Equal(t, objects.ActionSkip, lang.DesiredAction())

	user, ok := batch[3].(*objects.UserObject)
	require.True(t, ok)
	require.Len(t, user.Parents, 1)
	assert.Equal(t, "writers", user.Parents[0].RemoteID)

	group, ok := batch[4].(*objects.UserGroupObject)
	require.True(t, ok)
	assert.EqualValues(t, 14, group.ParentID)
}

// TestLoaderDecodeYAMLTree tests decoding a YAML batch carrying a tree.
func TestLoaderDecodeYAMLTree(t *testing.T) {
	data := []byte(`
- type: tree
  parent_location_id: 2
  hidden: true
  payload:
    type: content
    content_type_identifier: article
    remote_id: root_1
    fields:
      title: Root
  children:
    - payload:
        type: content
        content_type_identifier: article
        remote_id: child_1
        fields:
          title: Child
`)
	batch, err := NewLoader().Decode(data, true)
	require.NoError(t, err)
	require.Len(t, batch, 1)

	tree, ok := batch[0].(*objects.TreeObject)
	require.True(t, ok)
	assert.EqualValues(t, 2, tree.ParentLocationID)
	assert.True(t, tree.Hidden)

	root, ok := tree.Payload.(*objects.ContentObject)
	require.True(t, ok)
	assert.Equal(t, "root_1", root.RemoteID)

	require.Len(t, tree.Children, 1)
	child, ok := tree.Children[0].Payload.(*objects.ContentObject)
	require.True(t, ok)
	assert.Equal(t, "Child", child.Fields["title"])
}

// TestLoaderRejectsBadEntries tests the typed errors for malformed input.
func TestLoaderRejectsBadEntries(t *testing.T) {
	loader := NewLoader()

	_, err := loader.Decode([]byte(`{"type": "content"}`), false)
	var invalid *objects.InvalidDataStructureError
	assert.ErrorAs(t, err, &invalid)

	_, err = loader.Decode([]byte(`[{"remote_id": "a1"}]`), false)
	assert.ErrorAs(t, err, &invalid)

	_, err = loader.Decode([]byte(`[{"type": "widget"}]`), false)
	var malformed *objects.MalformedObjectDataError
	assert.ErrorAs(t, err, &malformed)

	_, err = loader.Decode([]byte(`[{"type": "language", "code": 42}]`), false)
	assert.ErrorAs(t, err, &malformed)

	_, err = loader.Decode([]byte(`[{"type": "tree", "parent_location_id": 2}]`), false)
	assert.ErrorAs(t, err, &malformed)
}

// TestLoaderLoadBucketObject tests reading a batch through the storage
// client.
func TestLoaderLoadBucketObject(t *testing.T) {
	client := new(mocks.Client)
	body := io.NopCloser(strings.NewReader(`[{"type": "language", "code": "ger-DE"}]`))
	client.On("GetObject", mock.Anything, "batches", "import/batch.json", mock.Anything).
		Return(body, nil)

	batch, err := NewLoader().LoadBucketObject(context.Background(), client, "batches", "import/batch.json")
	require.NoError(t, err)
	require.Len(t, batch, 1)
	lang, ok := batch[0].(*objects.LanguageObject)
	require.True(t, ok)
	assert.Equal(t, "ger-DE", lang.Code)
	client.AssertExpectations(t)
}

// TestLoaderLoadFile tests format detection by extension.
func TestLoaderLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "batch.yaml")
	require.NoError(t, os.WriteFile(path, []byte("- type: language\n  code: ger-DE\n"), 0o644))

	batch, err := NewLoader().LoadFile(path)
	require.NoError(t, err)
	require.Len(t, batch, 1)
	lang, ok := batch[0].(*objects.LanguageObject)
	require.True(t, ok)
	assert.Equal(t, "ger-DE", lang.Code)
}
