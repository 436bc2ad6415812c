package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestMemorySeedState tests the conventional initial structure of a fresh
// backend.
func TestMemorySeedState(t *testing.T) {
	ctx := context.Background()
	repo := NewMemory()

	lang, err := repo.Languages().LoadLanguageByCode(ctx, "eng-GB")
	require.NoError(t, err)
	assert.True(t, lang.Enabled)

	root, err := repo.Locations().LoadLocationByRemoteID(ctx, "contentRootLocation")
	require.NoError(t, err)
	assert.EqualValues(t, 2, root.ID)

	admin, err := repo.Users().LoadUserByLogin(ctx, "admin")
	require.NoError(t, err)
	groups, err := repo.Users().LoadUserGroupsOfUser(ctx, admin.ID)
	require.NoError(t, err)
	require.Len(t, groups, 1)
	assert.EqualValues(t, 12, groups[0].ID)
}

// TestMemoryTransactionRollback tests that Rollback restores the
// pre-transaction state.
func TestMemoryTransactionRollback(t *testing.T) {
	ctx := context.Background()
	repo := NewMemory()

	tx, err := repo.Begin(ctx)
	require.NoError(t, err)
	_, err = tx.Languages().CreateLanguage(ctx, LanguageCreateStruct{Code: "ger-DE", Name: "German", Enabled: true})
	require.NoError(t, err)
	require.NoError(t, tx.Rollback())

	_, err = repo.Languages().LoadLanguageByCode(ctx, "ger-DE")
	assert.ErrorIs(t, err, ErrNotFound)
}

// TestMemoryTransactionCommit tests that committed changes survive.
func TestMemoryTransactionCommit(t *testing.T) {
	ctx := context.Background()
	repo := NewMemory()

	tx, err := repo.Begin(ctx)
	require.NoError(t, err)
	_, err = tx.Languages().CreateLanguage(ctx, LanguageCreateStruct{Code: "ger-DE", Name: "German", Enabled: true})
	require.NoError(t, err)
	require.NoError(t, tx.Commit())

	lang, err := repo.Languages().LoadLanguageByCode(ctx, "ger-DE")
	require.NoError(t, err)
	assert.Equal(t, "German", lang.Name)
}

// TestMemorySingleTransaction tests that a second Begin while one is open is
// refused.
func TestMemorySingleTransaction(t *testing.T) {
	ctx := context.Background()
	repo := NewMemory()

	tx, err := repo.Begin(ctx)
	require.NoError(t, err)
	_, err = repo.Begin(ctx)
	assert.Error(t, err)
	require.NoError(t, tx.Rollback())

	_, err = repo.Begin(ctx)
	assert.NoError(t, err)
}

// TestMemoryDeleteLanguageConstraints tests the integrity errors of language
// deletion.
func TestMemoryDeleteLanguageConstraints(t *testing.T) {
	ctx := context.Background()
	repo := NewMemory()

	assert.ErrorIs(t, repo.Languages().DeleteLanguage(ctx, "eng-GB"), ErrMainLanguage)
	assert.ErrorIs(t, repo.Languages().DeleteLanguage(ctx, "xxx-XX"), ErrNotFound)
}
