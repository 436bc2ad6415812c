package repository

import (
	"context"
	"errors"
)

// Sentinel errors shared by all backends. Callers branch with errors.Is;
// backends must return these (possibly wrapped) rather than driver errors
// for the conditions they name.
var (
	// ErrNotFound signals that a lookup matched nothing.
	ErrNotFound = errors.New("repository: not found")

	// ErrLanguageInUse signals that a language still has translations and
	// cannot be deleted.
	ErrLanguageInUse = errors.New("repository: language in use")

	// ErrMainLanguage signals an attempt to delete the main language of the
	// repository or of existing content.
	ErrMainLanguage = errors.New("repository: main language")

	// ErrAlreadyAssigned signals that a user is already a member of the
	// target group.
	ErrAlreadyAssigned = errors.New("repository: already assigned")
)

// ContentService covers content lifecycle operations. Creation and update
// follow the repository's two-phase protocol: mutations land on a draft
// which only becomes visible after PublishVersion.
type ContentService interface {
	// CreateContent opens a draft for a new content item and places it under
	// every given location struct's parent once published. The content id is
	// assigned immediately.
	CreateContent(ctx context.Context, cs ContentCreateStruct, locations []LocationCreateStruct) (*ContentDraft, error)
	// CreateDraftFrom opens a new draft based on the current version of an
	// existing content item.
	CreateDraftFrom(ctx context.Context, contentID int64) (*ContentDraft, error)
	// UpdateContent applies the update struct to an open draft.
	UpdateContent(ctx context.Context, draft *ContentDraft, us ContentUpdateStruct) (*ContentDraft, error)
	// PublishVersion makes a draft the live version of its content item.
	PublishVersion(ctx context.Context, draft *ContentDraft) (*Content, error)
	// DeleteContent removes a content item together with all its locations.
	DeleteContent(ctx context.Context, contentID int64) error
	LoadContent(ctx context.Context, contentID int64) (*Content, error)
	LoadContentByRemoteID(ctx context.Context, remoteID string) (*Content, error)
}

// ContentTypeService covers content type and content type group operations.
type ContentTypeService interface {
	CreateContentType(ctx context.Context, cs ContentTypeCreateStruct) (*ContentTypeDraft, error)
	// CreateContentTypeDraft opens a draft of an existing content type.
	CreateContentTypeDraft(ctx context.Context, contentTypeID int64) (*ContentTypeDraft, error)
	UpdateContentTypeDraft(ctx context.Context, draft *ContentTypeDraft, us ContentTypeUpdateStruct) (*ContentTypeDraft, error)
	AddFieldDefinition(ctx context.Context, draft *ContentTypeDraft, fs FieldDefinitionCreateStruct) error
	UpdateFieldDefinition(ctx context.Context, draft *ContentTypeDraft, fieldDefinitionID int64, fs FieldDefinitionUpdateStruct) error
	PublishContentTypeDraft(ctx context.Context, draft *ContentTypeDraft) (*ContentType, error)
	DeleteContentType(ctx context.Context, contentTypeID int64) error
	LoadContentTypeByIdentifier(ctx context.Context, identifier string) (*ContentType, error)

	LoadContentTypeGroupByIdentifier(ctx context.Context, identifier string) (*ContentTypeGroup, error)
	CreateContentTypeGroup(ctx context.Context, identifier string) (*ContentTypeGroup, error)
	AssignContentTypeGroup(ctx context.Context, contentTypeID, groupID int64) error
	UnassignContentTypeGroup(ctx context.Context, contentTypeID, groupID int64) error
}

// LocationService covers placement operations. Locations are created under a
// parent and removed only through content deletion.
type LocationService interface {
	CreateLocation(ctx context.Context, contentID int64, ls LocationCreateStruct) (*Location, error)
	LoadLocation(ctx context.Context, locationID int64) (*Location, error)
	LoadLocationByRemoteID(ctx context.Context, remoteID string) (*Location, error)
	// LoadLocationChildren returns the direct children of a location,
	// paged by offset and limit. A limit of zero means no limit.
	LoadLocationChildren(ctx context.Context, parentLocationID int64, offset, limit int) ([]*Location, error)
	HideLocation(ctx context.Context, locationID int64) (*Location, error)
	UnhideLocation(ctx context.Context, locationID int64) (*Location, error)
	UpdateLocation(ctx context.Context, locationID int64, priority int, remoteID string) (*Location, error)
	// SetMainLocation marks one of a content item's locations as its main
	// location.
	SetMainLocation(ctx context.Context, contentID, locationID int64) error
}

// LanguageService covers translation language operations. DeleteLanguage
// reports the repository's own integrity constraints through ErrLanguageInUse
// and ErrMainLanguage.
type LanguageService interface {
	CreateLanguage(ctx context.Context, ls LanguageCreateStruct) (*Language, error)
	EnableLanguage(ctx context.Context, code string) (*Language, error)
	UpdateLanguageName(ctx context.Context, code, name string) (*Language, error)
	DeleteLanguage(ctx context.Context, code string) error
	LoadLanguageByCode(ctx context.Context, code string) (*Language, error)
}

// UserService covers account operations. AssignUserToGroup reports an
// existing membership through ErrAlreadyAssigned.
type UserService interface {
	CreateUser(ctx context.Context, us UserCreateStruct, groupIDs []int64) (*User, error)
	UpdateUser(ctx context.Context, userID int64, us UserUpdateStruct) (*User, error)
	DeleteUser(ctx context.Context, userID int64) error
	LoadUserByLogin(ctx context.Context, login string) (*User, error)
	AssignUserToGroup(ctx context.Context, userID, groupID int64) error
	UnassignUserFromGroup(ctx context.Context, userID, groupID int64) error
	LoadUserGroupsOfUser(ctx context.Context, userID int64) ([]*UserGroup, error)
}

// UserGroupService covers user group operations.
type UserGroupService interface {
	CreateUserGroup(ctx context.Context, gs UserGroupCreateStruct, parentGroupID int64) (*UserGroup, error)
	UpdateUserGroup(ctx context.Context, groupID int64, gs UserGroupUpdateStruct) (*UserGroup, error)
	MoveUserGroup(ctx context.Context, groupID, newParentID int64) error
	DeleteUserGroup(ctx context.Context, groupID int64) error
	LoadUserGroup(ctx context.Context, groupID int64) (*UserGroup, error)
	LoadUserGroupByRemoteID(ctx context.Context, remoteID string) (*UserGroup, error)
	LoadSubUserGroups(ctx context.Context, parentGroupID int64) ([]*UserGroup, error)
}

// Services bundles the per-entity service interfaces. Both a Repository and
// an open Tx expose it; managers only ever see Services.
type Services interface {
	Content() ContentService
	ContentTypes() ContentTypeService
	Locations() LocationService
	Languages() LanguageService
	Users() UserService
	UserGroups() UserGroupService
}

// Tx is an open repository transaction. All services obtained from it are
// scoped to the transaction.
type Tx interface {
	Services
	Commit() error
	Rollback() error
}

// Repository is the root handle for a repository backend.
type Repository interface {
	Services

	// Begin opens a transaction. The adapter opens exactly one per batch.
	Begin(ctx context.Context) (Tx, error)

	// SetCurrentUser impersonates the named account for subsequent
	// operations. It fails with ErrNotFound if the login is unknown.
	SetCurrentUser(ctx context.Context, login string) error
}
