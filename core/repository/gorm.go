package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// Gorm is the MySQL repository backend.
type Gorm struct {
	db *gorm.DB
}

// NewGorm wraps an open GORM connection. Call Migrate separately when the
// schema may not exist yet.
func NewGorm(db *gorm.DB) *Gorm {
	return &Gorm{db: db}
}

// Migrate creates or updates the backend schema.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&contentRow{},
		&contentDraftRow{},
		&locationRow{},
		&contentTypeRow{},
		&fieldDefinitionRow{},
		&contentTypeGroupRow{},
		&contentTypeAssignmentRow{},
		&languageRow{},
		&userRow{},
		&userGroupRow{},
		&membershipRow{},
	)
}

// Begin opens a database transaction; the returned Tx's services all run on
// it.
func (g *Gorm) Begin(ctx context.Context) (Tx, error) {
	tx := g.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", tx.Error)
	}
	return &gormTx{Gorm: Gorm{db: tx}}, nil
}

// SetCurrentUser verifies the login exists. The MySQL backend has no per-row
// ownership yet, so impersonation is an existence check plus session state
// for callers that log it.
func (g *Gorm) SetCurrentUser(ctx context.Context, login string) error {
	var row userRow
	if err := g.db.WithContext(ctx).Where("login = ?", login).First(&row).Error; err != nil {
		return notFound(err, "user %q", login)
	}
	return nil
}

func (g *Gorm) Content() ContentService          { return &gormContent{db: g.db} }
func (g *Gorm) ContentTypes() ContentTypeService { return &gormContentTypes{db: g.db} }
func (g *Gorm) Locations() LocationService       { return &gormLocations{db: g.db} }
func (g *Gorm) Languages() LanguageService       { return &gormLanguages{db: g.db} }
func (g *Gorm) Users() UserService               { return &gormUsers{db: g.db} }
func (g *Gorm) UserGroups() UserGroupService     { return &gormUserGroups{db: g.db} }

type gormTx struct {
	Gorm
}

func (t *gormTx) Commit() error {
	if err := t.db.Commit().Error; err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (t *gormTx) Rollback() error {
	if err := t.db.Rollback().Error; err != nil {
		return fmt.Errorf("failed to roll back transaction: %w", err)
	}
	return nil
}

// notFound converts gorm's record-not-found into the shared sentinel, keeping
// other errors as-is.
func notFound(err error, format string, args ...any) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("repository: "+format+": %w", append(args, ErrNotFound)...)
	}
	return fmt.Errorf("repository: "+format+": %w", append(args, err)...)
}
