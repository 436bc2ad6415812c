package transfer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"content-transfer/core/repository"
	"content-transfer/feature/transfer/objects"
)

func newTreeService(repo repository.Services) *TreeService {
	svc := NewObjectService(repo, zap.NewNop())
	return NewTreeService(repo, zap.NewNop(), svc)
}

func treeNode(remoteID, title string) *objects.TreeObject {
	return &objects.TreeObject{Payload: func() *objects.ContentObject {
		o := objects.NewContentObject("_test_article", map[string]any{"title": title})
		o.RemoteID = remoteID
		return o
	}()}
}

// TestTreePublish tests that a two-level tree ends up with the children
// placed under the root's location.
func TestTreePublish(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	trees := newTreeService(repo)

	root := treeNode("root_1", "Root")
	root.ParentLocationID = 2
	root.AddChild(treeNode("child_1", "First child"))
	root.AddChild(treeNode("child_2", "Second child"))

	require.NoError(t, trees.Publish(ctx, root))

	rootContent, err := repo.Content().LoadContentByRemoteID(ctx, "root_1")
	require.NoError(t, err)
	require.NotZero(t, rootContent.MainLocationID)

	children, err := repo.Locations().LoadLocationChildren(ctx, rootContent.MainLocationID, 0, 0)
	require.NoError(t, err)
	assert.Len(t, children, 2)
}

// TestTreePublishIdempotent tests the location dedup: publishing the same
// tree twice produces the same number of locations as publishing it once.
func TestTreePublishIdempotent(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	trees := newTreeService(repo)

	build := func() *objects.TreeObject {
		root := treeNode("root_1", "Root")
		root.ParentLocationID = 2
		root.AddChild(treeNode("child_1", "Child"))
		return root
	}

	require.NoError(t, trees.Publish(ctx, build()))
	rootContent, err := repo.Content().LoadContentByRemoteID(ctx, "root_1")
	require.NoError(t, err)

	countUnder := func(parent int64) int {
		children, err := repo.Locations().LoadLocationChildren(ctx, parent, 0, 0)
		require.NoError(t, err)
		return len(children)
	}
	rootLocations := countUnder(2)
	childLocations := countUnder(rootContent.MainLocationID)

	require.NoError(t, trees.Publish(ctx, build()))
	assert.Equal(t, rootLocations, countUnder(2))
	assert.Equal(t, childLocations, countUnder(rootContent.MainLocationID))
}

// TestTreePublishHidden tests that the node's hidden flag is enforced on the
// resolved location.
func TestTreePublishHidden(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	trees := newTreeService(repo)

	root := treeNode("hidden_1", "Hidden root")
	root.ParentLocationID = 2
	root.Hidden = true
	require.NoError(t, trees.Publish(ctx, root))

	content, err := repo.Content().LoadContentByRemoteID(ctx, "hidden_1")
	require.NoError(t, err)
	loc, err := repo.Locations().LoadLocation(ctx, content.MainLocationID)
	require.NoError(t, err)
	assert.True(t, loc.Hidden)

	root.Hidden = false
	require.NoError(t, trees.Publish(ctx, root))
	loc, err = repo.Locations().LoadLocation(ctx, content.MainLocationID)
	require.NoError(t, err)
	assert.False(t, loc.Hidden)
}

// TestTreePublishRejectsNonContent tests that only content payloads can
// form tree nodes.
func TestTreePublishRejectsNonContent(t *testing.T) {
	trees := newTreeService(repository.NewMemory())

	tree := &objects.TreeObject{
		Payload:          objects.NewLanguageObject("ger-DE"),
		ParentLocationID: 2,
	}
	var unsupported *objects.UnsupportedObjectError
	assert.ErrorAs(t, trees.Publish(context.Background(), tree), &unsupported)
}

// TestTreePublishRequiresParent tests the root parent location guard.
func TestTreePublishRequiresParent(t *testing.T) {
	trees := newTreeService(repository.NewMemory())

	var invalid *objects.InvalidDataStructureError
	assert.ErrorAs(t, trees.Publish(context.Background(), treeNode("r", "R")), &invalid)
}

// TestTreeRemoveIsLoggedNoop tests that tree removal never touches the
// repository.
func TestTreeRemoveIsLoggedNoop(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	trees := newTreeService(repo)

	root := treeNode("keep_1", "Kept")
	root.ParentLocationID = 2
	require.NoError(t, trees.Publish(ctx, root))

	root.Action = objects.ActionDelete
	removed, err := trees.Remove(ctx, root)
	require.NoError(t, err)
	assert.False(t, removed)

	_, err = repo.Content().LoadContentByRemoteID(ctx, "keep_1")
	assert.NoError(t, err)
}
