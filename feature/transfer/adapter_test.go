package transfer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"content-transfer/core/repository"
	"content-transfer/feature/transfer/managers"
	"content-transfer/feature/transfer/objects"
)

func newTestRepo(t *testing.T) *repository.Memory {
	t.Helper()
	repo := repository.NewMemory()
	ct := objects.NewContentTypeObject("_test_article",
		objects.NewFieldDefinitionObject("title"),
		objects.NewFieldDefinitionObject("body"))
	require.NoError(t, managers.NewContentTypeManager(repo, zap.NewNop()).Create(context.Background(), ct))
	return repo
}

func article(remoteID, title string) *objects.ContentObject {
	obj := objects.NewContentObject("_test_article", map[string]any{"title": title})
	obj.RemoteID = remoteID
	obj.AddParentLocation(&objects.LocationObject{ParentLocationID: 2})
	return obj
}

// TestAdapterSendCreatesArticle tests the end-to-end create scenario: after
// a send, the content is loadable by remote id with the right title and main
// language.
func TestAdapterSendCreatesArticle(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	adapter := NewAdapter(repo, zap.NewNop(), "admin")

	results, err := adapter.Send(ctx, []objects.Object{article("test_article_1", "Test title")})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "admin", repo.CurrentUser())

	content, err := repo.Content().LoadContentByRemoteID(ctx, "test_article_1")
	require.NoError(t, err)
	assert.Equal(t, "Test title", content.Fields["title"]["eng-GB"])
	assert.Equal(t, "eng-GB", content.MainLanguageCode)
}

// TestAdapterSkipYieldsNilSlot tests that a Skip object produces a nil entry
// at its position and no repository effect.
func TestAdapterSkipYieldsNilSlot(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	adapter := NewAdapter(repo, zap.NewNop(), "")

	skipped := article("skipped_1", "Never created")
	skipped.Action = objects.ActionSkip
	kept := article("kept_1", "Created")

	results, err := adapter.Send(ctx, []objects.Object{skipped, kept})
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Nil(t, results[0])
	assert.Same(t, kept, results[1])

	_, err = repo.Content().LoadContentByRemoteID(ctx, "skipped_1")
	assert.ErrorIs(t, err, repository.ErrNotFound)
	_, err = repo.Content().LoadContentByRemoteID(ctx, "kept_1")
	assert.NoError(t, err)
}

// TestAdapterBatchAtomicity tests all-or-nothing semantics: when a later
// object fails, earlier objects' effects are rolled back.
func TestAdapterBatchAtomicity(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	adapter := NewAdapter(repo, zap.NewNop(), "")

	good := article("good_1", "Fine")
	bad := objects.NewContentObject("no_such_type", map[string]any{"title": "Boom"})
	bad.RemoteID = "bad_1"

	_, err := adapter.Send(ctx, []objects.Object{good, bad})
	require.Error(t, err)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	_, err = repo.Content().LoadContentByRemoteID(ctx, "good_1")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

// TestAdapterDeleteAction tests that a Delete object removes the entity and
// stays in the response.
func TestAdapterDeleteAction(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	adapter := NewAdapter(repo, zap.NewNop(), "")

	_, err := adapter.Send(ctx, []objects.Object{article("doomed_1", "Doomed")})
	require.NoError(t, err)

	doomed := article("doomed_1", "Doomed")
	doomed.Action = objects.ActionDelete
	results, err := adapter.Send(ctx, []objects.Object{doomed})
	require.NoError(t, err)
	assert.Same(t, doomed, results[0])

	_, err = repo.Content().LoadContentByRemoteID(ctx, "doomed_1")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

// TestAdapterUnknownImpersonation tests that an unknown user login aborts
// the batch before any work.
func TestAdapterUnknownImpersonation(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	adapter := NewAdapter(repo, zap.NewNop(), "nobody")

	_, err := adapter.Send(ctx, []objects.Object{article("a1", "A")})
	require.Error(t, err)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

// TestObjectServiceUnknownType tests the dispatch fallback for objects
// outside the closed entity set.
func TestObjectServiceUnknownType(t *testing.T) {
	svc := NewObjectService(repository.NewMemory(), zap.NewNop())
	err := svc.CreateOrUpdate(context.Background(), &objects.TreeObject{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no manager handles")
}
