package managers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"content-transfer/core/repository"
	"content-transfer/feature/transfer/objects"
)

func newArticleType(t *testing.T, repo repository.Services) {
	t.Helper()
	ct := objects.NewContentTypeObject("_test_article",
		objects.NewFieldDefinitionObject("title"),
		objects.NewFieldDefinitionObject("body"))
	require.NoError(t, NewContentTypeManager(repo, zap.NewNop()).Create(context.Background(), ct))
}

// TestContentManagerUpsertRouting tests that createOrUpdate creates on a
// missing remote id and updates on a known one, without duplicating content.
func TestContentManagerUpsertRouting(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemory()
	newArticleType(t, repo)
	m := NewContentManager(repo, zap.NewNop())

	obj := objects.NewContentObject("_test_article", map[string]any{"title": "Test title"})
	obj.RemoteID = "test_article_1"
	obj.AddParentLocation(&objects.LocationObject{ParentLocationID: 2})

	require.NoError(t, m.CreateOrUpdate(ctx, obj))
	firstID := obj.ContentID
	require.NotZero(t, firstID)
	assert.Equal(t, 1, obj.VersionNo)

	content, err := repo.Content().LoadContentByRemoteID(ctx, "test_article_1")
	require.NoError(t, err)
	assert.Equal(t, "Test title", content.Fields["title"]["eng-GB"])
	assert.Equal(t, "eng-GB", content.MainLanguageCode)
	assert.Equal(t, "Test title", content.Name)

	obj.Fields["title"] = "Second title"
	require.NoError(t, m.CreateOrUpdate(ctx, obj))
	assert.Equal(t, firstID, obj.ContentID)
	assert.Equal(t, 2, obj.VersionNo)

	content, err = repo.Content().LoadContentByRemoteID(ctx, "test_article_1")
	require.NoError(t, err)
	assert.Equal(t, "Second title", content.Fields["title"]["eng-GB"])
}

// TestContentManagerGeneratesRemoteID tests that a create without a remote
// id gets one assigned.
func TestContentManagerGeneratesRemoteID(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemory()
	newArticleType(t, repo)
	m := NewContentManager(repo, zap.NewNop())

	obj := objects.NewContentObject("_test_article", map[string]any{"title": "Anonymous"})
	require.NoError(t, m.CreateOrUpdate(ctx, obj))
	require.NotEmpty(t, obj.RemoteID)

	_, err := repo.Content().LoadContentByRemoteID(ctx, obj.RemoteID)
	assert.NoError(t, err)
}

// TestContentManagerUpdateAddsLocations tests that a content update creates
// missing parent locations, keeps existing ones, and removes nothing.
func TestContentManagerUpdateAddsLocations(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemory()
	newArticleType(t, repo)
	m := NewContentManager(repo, zap.NewNop())

	obj := objects.NewContentObject("_test_article", map[string]any{"title": "Placed"})
	obj.RemoteID = "placed_1"
	obj.AddParentLocation(&objects.LocationObject{ParentLocationID: 2})
	require.NoError(t, m.CreateOrUpdate(ctx, obj))

	obj.AddParentLocation(&objects.LocationObject{ParentLocationID: 1})
	require.NoError(t, m.CreateOrUpdate(ctx, obj))
	assert.Len(t, locationsOf(t, repo, obj.ContentID), 2)

	// A further update with the same desired set must not duplicate.
	require.NoError(t, m.CreateOrUpdate(ctx, obj))
	assert.Len(t, locationsOf(t, repo, obj.ContentID), 2)
}

func locationsOf(t *testing.T, repo repository.Services, contentID int64) []*repository.Location {
	t.Helper()
	var out []*repository.Location
	for _, parent := range []int64{1, 2} {
		children, err := repo.Locations().LoadLocationChildren(context.Background(), parent, 0, 0)
		require.NoError(t, err)
		for _, child := range children {
			if child.ContentID == contentID {
				out = append(out, child)
			}
		}
	}
	return out
}

// TestContentManagerRemove tests delete and the false-on-miss contract.
func TestContentManagerRemove(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemory()
	newArticleType(t, repo)
	m := NewContentManager(repo, zap.NewNop())

	missing := objects.NewContentObject("_test_article", nil)
	missing.RemoteID = "never_created"
	removed, err := m.Remove(ctx, missing)
	require.NoError(t, err)
	assert.False(t, removed)

	obj := objects.NewContentObject("_test_article", map[string]any{"title": "Doomed"})
	obj.RemoteID = "doomed_1"
	obj.AddParentLocation(&objects.LocationObject{ParentLocationID: 2})
	require.NoError(t, m.CreateOrUpdate(ctx, obj))

	removed, err = m.Remove(ctx, obj)
	require.NoError(t, err)
	assert.True(t, removed)
	assert.Empty(t, locationsOf(t, repo, obj.ContentID))
}

// TestContentTypeManagerGroupReconciliation tests the symmetric group diff:
// {A,B} reconciled against {B,C} ends up as exactly {B,C}.
func TestContentTypeManagerGroupReconciliation(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemory()
	m := NewContentTypeManager(repo, zap.NewNop())

	ct := objects.NewContentTypeObject("news")
	ct.Groups = []string{"A", "B"}
	require.NoError(t, m.CreateOrUpdate(ctx, ct))

	live, err := repo.ContentTypes().LoadContentTypeByIdentifier(ctx, "news")
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, live.GroupIdentifiers)

	ct.Groups = []string{"B", "C"}
	require.NoError(t, m.CreateOrUpdate(ctx, ct))

	live, err = repo.ContentTypes().LoadContentTypeByIdentifier(ctx, "news")
	require.NoError(t, err)
	assert.Equal(t, []string{"B", "C"}, live.GroupIdentifiers)
}

// TestContentTypeManagerFieldsNonDestructive tests that an update whose
// desired field set omits a live field leaves that field in place.
func TestContentTypeManagerFieldsNonDestructive(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemory()
	m := NewContentTypeManager(repo, zap.NewNop())

	ct := objects.NewContentTypeObject("article",
		objects.NewFieldDefinitionObject("title"),
		objects.NewFieldDefinitionObject("body"))
	require.NoError(t, m.CreateOrUpdate(ctx, ct))

	sparse := objects.NewContentTypeObject("article",
		objects.NewFieldDefinitionObject("title"),
		objects.NewFieldDefinitionObject("summary"))
	require.NoError(t, m.CreateOrUpdate(ctx, sparse))

	live, err := repo.ContentTypes().LoadContentTypeByIdentifier(ctx, "article")
	require.NoError(t, err)
	idents := make([]string, 0, len(live.FieldDefinitions))
	for _, fd := range live.FieldDefinitions {
		idents = append(idents, fd.Identifier)
	}
	assert.ElementsMatch(t, []string{"title", "body", "summary"}, idents)
}

// TestContentTypeManagerEnsuresLanguages tests that every language
// referenced by the type's names exists after reconciliation.
func TestContentTypeManagerEnsuresLanguages(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemory()
	m := NewContentTypeManager(repo, zap.NewNop())

	ct := objects.NewContentTypeObject("page")
	ct.Names = map[string]string{"eng-GB": "Page", "ger-DE": "Seite"}
	require.NoError(t, m.CreateOrUpdate(ctx, ct))

	lang, err := repo.Languages().LoadLanguageByCode(ctx, "ger-DE")
	require.NoError(t, err)
	assert.True(t, lang.Enabled)
	assert.Equal(t, "German", lang.Name)
}

// TestLanguageManagerCreateReenables tests that creating a known but
// disabled language re-enables it instead of failing.
func TestLanguageManagerCreateReenables(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemory()
	m := NewLanguageManager(repo, zap.NewNop())

	disabled := objects.NewLanguageObject("fre-FR")
	off := false
	disabled.Enabled = &off
	require.NoError(t, m.Create(ctx, disabled))

	lang, err := repo.Languages().LoadLanguageByCode(ctx, "fre-FR")
	require.NoError(t, err)
	require.False(t, lang.Enabled)

	require.NoError(t, m.Create(ctx, objects.NewLanguageObject("fre-FR")))
	lang, err = repo.Languages().LoadLanguageByCode(ctx, "fre-FR")
	require.NoError(t, err)
	assert.True(t, lang.Enabled)
}

// TestLanguageManagerRemove tests the asymmetric remove semantics: a miss is
// a true return, a repository refusal is a logged false return.
func TestLanguageManagerRemove(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemory()
	core, logs := observer.New(zap.WarnLevel)
	m := NewLanguageManager(repo, zap.New(core))

	removed, err := m.Remove(ctx, objects.NewLanguageObject("nor-NO"))
	require.NoError(t, err)
	assert.True(t, removed)

	// eng-GB is the repository main language and must survive the attempt.
	removed, err = m.Remove(ctx, objects.NewLanguageObject("eng-GB"))
	require.NoError(t, err)
	assert.False(t, removed)
	require.Equal(t, 1, logs.Len())
	assert.Contains(t, logs.All()[0].Message, "language deletion refused")

	_, err = repo.Languages().LoadLanguageByCode(ctx, "eng-GB")
	assert.NoError(t, err)
}

// TestUserGroupManagerMove tests that an update with a new parent id moves
// the group after the field update.
func TestUserGroupManagerMove(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemory()
	m := NewUserGroupManager(repo, zap.NewNop())

	group := objects.NewUserGroupObject("qa-team")
	group.Fields = map[string]any{"name": "QA team"}
	require.NoError(t, m.CreateOrUpdate(ctx, group))
	require.NotZero(t, group.ID)
	assert.EqualValues(t, 12, group.ParentID)

	group.ParentID = 14
	require.NoError(t, m.CreateOrUpdate(ctx, group))

	live, err := repo.UserGroups().LoadUserGroup(ctx, group.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 14, live.ParentID)
}

// TestUserGroupManagerCreateFailsOnMissingParent tests the fail-fast parent
// resolution.
func TestUserGroupManagerCreateFailsOnMissingParent(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemory()
	m := NewUserGroupManager(repo, zap.NewNop())

	group := objects.NewUserGroupObject("orphans")
	group.ParentID = 9999
	err := m.Create(ctx, group)
	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "9999", nf.Keys["parent_id"])
}

// TestUserManagerCreateWithParents tests that parent groups are upserted
// before the user and the user becomes a member of each.
func TestUserManagerCreateWithParents(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemory()
	m := NewUserManager(repo, zap.NewNop())

	user := objects.NewUserObject("jdoe")
	user.Email = "jdoe@example.com"
	user.Password = "secret"
	user.Fields = map[string]any{"first_name": "Jane", "last_name": "Doe"}
	user.AddParent(objects.NewUserGroupObject("writers"))

	require.NoError(t, m.CreateOrUpdate(ctx, user))
	require.NotZero(t, user.ID)

	groups, err := repo.Users().LoadUserGroupsOfUser(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, groups, 1)
	assert.Equal(t, "writers", groups[0].RemoteID)
}

// TestUserManagerMembershipSync tests the two-pass membership update:
// desired groups assigned, stale ones dropped, already-assigned tolerated.
func TestUserManagerMembershipSync(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemory()
	m := NewUserManager(repo, zap.NewNop())

	user := objects.NewUserObject("jdoe")
	user.AddParent(objects.NewUserGroupObject("writers"))
	require.NoError(t, m.CreateOrUpdate(ctx, user))

	reviewers := objects.NewUserGroupObject("reviewers")
	user.Parents = []*objects.UserGroupObject{user.Parents[0], reviewers}
	require.NoError(t, m.CreateOrUpdate(ctx, user))

	groups, err := repo.Users().LoadUserGroupsOfUser(ctx, user.ID)
	require.NoError(t, err)
	remotes := make([]string, 0, len(groups))
	for _, g := range groups {
		remotes = append(remotes, g.RemoteID)
	}
	assert.ElementsMatch(t, []string{"writers", "reviewers"}, remotes)

	user.Parents = []*objects.UserGroupObject{reviewers}
	require.NoError(t, m.CreateOrUpdate(ctx, user))

	groups, err = repo.Users().LoadUserGroupsOfUser(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, groups, 1)
	assert.Equal(t, "reviewers", groups[0].RemoteID)
}

// TestLocationManagerUnsupportedOperations tests that direct create and
// remove are rejected.
func TestLocationManagerUnsupportedOperations(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemory()
	m := NewLocationManager(repo, zap.NewNop())

	loc := &objects.LocationObject{ParentLocationID: 2}
	var unsupported *objects.UnsupportedOperationError
	require.ErrorAs(t, m.Create(ctx, loc), &unsupported)
	_, err := m.Remove(ctx, loc)
	require.ErrorAs(t, err, &unsupported)
}

// TestLocationManagerToggleVisibility tests the hide/unhide flip against a
// real location.
func TestLocationManagerToggleVisibility(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemory()
	newArticleType(t, repo)

	content := objects.NewContentObject("_test_article", map[string]any{"title": "Hideable"})
	content.RemoteID = "hideable_1"
	content.AddParentLocation(&objects.LocationObject{ParentLocationID: 2})
	require.NoError(t, NewContentManager(repo, zap.NewNop()).CreateOrUpdate(ctx, content))

	m := NewLocationManager(repo, zap.NewNop())
	loc := &objects.LocationObject{ContentID: content.ContentID, ParentLocationID: 2}
	require.NoError(t, m.ToggleVisibility(ctx, loc))
	assert.True(t, loc.Hidden)

	require.NoError(t, m.ToggleVisibility(ctx, loc))
	assert.False(t, loc.Hidden)
}

// TestLocationManagerUpdatePriority tests that an explicit priority lands on
// the live location.
func TestLocationManagerUpdatePriority(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemory()
	newArticleType(t, repo)

	content := objects.NewContentObject("_test_article", map[string]any{"title": "Ordered"})
	content.RemoteID = "ordered_1"
	content.AddParentLocation(&objects.LocationObject{ParentLocationID: 2})
	require.NoError(t, NewContentManager(repo, zap.NewNop()).CreateOrUpdate(ctx, content))

	m := NewLocationManager(repo, zap.NewNop())
	loc := &objects.LocationObject{ContentID: content.ContentID, ParentLocationID: 2, Priority: 7}
	require.NoError(t, m.Update(ctx, loc))

	live, err := repo.Locations().LoadLocation(ctx, loc.ID)
	require.NoError(t, err)
	assert.Equal(t, 7, live.Priority)
}

// TestManagersRejectWrongType tests the type guard shared by all managers.
func TestManagersRejectWrongType(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemory()
	logger := zap.NewNop()

	wrong := objects.NewLanguageObject("ger-DE")
	var unsupported *objects.UnsupportedObjectError
	assert.ErrorAs(t, NewContentManager(repo, logger).CreateOrUpdate(ctx, wrong), &unsupported)
	assert.ErrorAs(t, NewContentTypeManager(repo, logger).CreateOrUpdate(ctx, wrong), &unsupported)
	assert.ErrorAs(t, NewUserManager(repo, logger).CreateOrUpdate(ctx, wrong), &unsupported)
	assert.ErrorAs(t, NewUserGroupManager(repo, logger).CreateOrUpdate(ctx, wrong), &unsupported)
	assert.ErrorAs(t, NewLanguageManager(repo, logger).CreateOrUpdate(ctx, objects.NewContentObject("x", nil)), &unsupported)
}

// TestNotFoundErrorUnwraps tests that manager not-found errors satisfy
// errors.Is against the repository sentinel.
func TestNotFoundErrorUnwraps(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemory()
	m := NewContentManager(repo, zap.NewNop())

	obj := objects.NewContentObject("_test_article", nil)
	obj.RemoteID = "ghost"
	_, err := m.Find(ctx, obj)
	require.Error(t, err)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "content", nf.Kind)
	assert.Equal(t, "ghost", nf.Keys["remote_id"])
}
