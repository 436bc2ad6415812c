package repository

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func setupMockDB(t *testing.T) (*Gorm, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("Failed to open mock sql db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	dialector := mysql.New(mysql.Config{
		Conn:                      db,
		SkipInitializeWithVersion: true,
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to open gorm db: %v", err)
	}

	return NewGorm(gormDB), mock
}

// TestGormLoadLanguageByCode tests the happy path of a language lookup on the
// MySQL backend.
func TestGormLoadLanguageByCode(t *testing.T) {
	repo, mock := setupMockDB(t)

	rows := sqlmock.NewRows([]string{"id", "code", "name", "enabled"}).
		AddRow(2, "eng-GB", "English (United Kingdom)", true)
	mock.ExpectQuery("SELECT \\* FROM `languages`").WillReturnRows(rows)

	lang, err := repo.Languages().LoadLanguageByCode(context.Background(), "eng-GB")
	require.NoError(t, err)
	assert.EqualValues(t, 2, lang.ID)
	assert.Equal(t, "English (United Kingdom)", lang.Name)
	assert.True(t, lang.Enabled)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// TestGormLoadContentByRemoteIDNotFound tests that a miss maps to the shared
// ErrNotFound sentinel instead of gorm's own error.
func TestGormLoadContentByRemoteIDNotFound(t *testing.T) {
	repo, mock := setupMockDB(t)

	mock.ExpectQuery("SELECT \\* FROM `contents`").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.Content().LoadContentByRemoteID(context.Background(), "missing_1")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// TestGormSetCurrentUser tests impersonation against the users table.
func TestGormSetCurrentUser(t *testing.T) {
	repo, mock := setupMockDB(t)

	rows := sqlmock.NewRows([]string{"id", "login", "email", "password_hash", "enabled", "main_language_code", "fields"}).
		AddRow(30, "admin", "admin@example.com", "", true, "eng-GB", nil)
	mock.ExpectQuery("SELECT \\* FROM `users`").WillReturnRows(rows)

	require.NoError(t, repo.SetCurrentUser(context.Background(), "admin"))

	mock.ExpectQuery("SELECT \\* FROM `users`").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	assert.ErrorIs(t, repo.SetCurrentUser(context.Background(), "nobody"), ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// TestGormBeginRollback tests that transaction control statements reach the
// driver.
func TestGormBeginRollback(t *testing.T) {
	repo, mock := setupMockDB(t)

	mock.ExpectBegin()
	mock.ExpectRollback()

	tx, err := repo.Begin(context.Background())
	require.NoError(t, err)
	require.NoError(t, tx.Rollback())
	assert.NoError(t, mock.ExpectationsWereMet())
}
