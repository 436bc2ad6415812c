package repository

import (
	"context"
	"errors"
	"sync"
)

// Memory is an in-memory repository backend. Transactions are implemented by
// snapshotting the whole state on Begin and restoring it on Rollback, which
// matches the single-writer usage of the transfer adapter.
//
// A fresh Memory carries the repository's conventional initial structure:
// the eng-GB language, the root locations 1 and 2, the "Users" group (id 12),
// the "Administrator users" group (id 14) and the admin account.
type Memory struct {
	mu       sync.Mutex
	state    *memoryState
	snapshot *memoryState
	inTx     bool
}

type memoryState struct {
	nextID int64

	mainLanguageCode string
	currentUser      string

	languages     map[string]*Language
	contents      map[int64]*Content
	drafts        map[int64]map[int]*ContentDraft
	locations     map[int64]*Location
	contentTypes  map[int64]*ContentType
	ctGroups      map[int64]*ContentTypeGroup
	ctAssignments map[int64]map[int64]struct{}
	users         map[int64]*User
	userGroups    map[int64]*UserGroup
	memberships   map[int64]map[int64]struct{}
}

// NewMemory returns a seeded in-memory repository.
func NewMemory() *Memory {
	s := &memoryState{
		nextID:           100,
		mainLanguageCode: "eng-GB",
		languages:        map[string]*Language{},
		contents:         map[int64]*Content{},
		drafts:           map[int64]map[int]*ContentDraft{},
		locations:        map[int64]*Location{},
		contentTypes:     map[int64]*ContentType{},
		ctGroups:         map[int64]*ContentTypeGroup{},
		ctAssignments:    map[int64]map[int64]struct{}{},
		users:            map[int64]*User{},
		userGroups:       map[int64]*UserGroup{},
		memberships:      map[int64]map[int64]struct{}{},
	}

	s.languages["eng-GB"] = &Language{ID: 2, Code: "eng-GB", Name: "English (United Kingdom)", Enabled: true}
	s.locations[1] = &Location{ID: 1, RemoteID: "rootLocation", ParentID: 0, Depth: 0}
	s.locations[2] = &Location{ID: 2, RemoteID: "contentRootLocation", ParentID: 1, Depth: 1}
	s.userGroups[4] = &UserGroup{ID: 4, RemoteID: "users", ParentID: 0, MainLanguageCode: "eng-GB",
		Fields: Fields{"name": {"eng-GB": "Users"}}}
	s.userGroups[12] = &UserGroup{ID: 12, RemoteID: "administrator-users", ParentID: 4, MainLanguageCode: "eng-GB",
		Fields: Fields{"name": {"eng-GB": "Administrator users"}}}
	s.userGroups[14] = &UserGroup{ID: 14, RemoteID: "editors", ParentID: 4, MainLanguageCode: "eng-GB",
		Fields: Fields{"name": {"eng-GB": "Editors"}}}
	s.users[30] = &User{ID: 30, Login: "admin", Email: "admin@localhost", Enabled: true, MainLanguageCode: "eng-GB"}
	s.memberships[30] = map[int64]struct{}{12: {}}

	return &Memory{state: s}
}

// SetMainLanguageCode overrides the repository main language used by the
// DeleteLanguage integrity check. Defaults to eng-GB.
func (m *Memory) SetMainLanguageCode(code string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state.mainLanguageCode = code
}

// Begin opens a snapshot transaction. Only one transaction may be open at a
// time; the backend is not meant for concurrent writers.
func (m *Memory) Begin(ctx context.Context) (Tx, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.inTx {
		return nil, errors.New("repository: transaction already open")
	}
	m.snapshot = m.state.clone()
	m.inTx = true
	return &memoryTx{m: m}, nil
}

// SetCurrentUser impersonates the named account.
func (m *Memory) SetCurrentUser(ctx context.Context, login string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.state.users {
		if u.Login == login {
			m.state.currentUser = login
			return nil
		}
	}
	return ErrNotFound
}

// CurrentUser returns the impersonated login, if any.
func (m *Memory) CurrentUser() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.currentUser
}

func (m *Memory) Content() ContentService          { return (*memoryContent)(m) }
func (m *Memory) ContentTypes() ContentTypeService { return (*memoryContentTypes)(m) }
func (m *Memory) Locations() LocationService       { return (*memoryLocations)(m) }
func (m *Memory) Languages() LanguageService       { return (*memoryLanguages)(m) }
func (m *Memory) Users() UserService               { return (*memoryUsers)(m) }
func (m *Memory) UserGroups() UserGroupService     { return (*memoryUserGroups)(m) }

type memoryTx struct {
	m    *Memory
	done bool
}

func (t *memoryTx) Commit() error {
	t.m.mu.Lock()
	defer t.m.mu.Unlock()
	if t.done {
		return errors.New("repository: transaction already closed")
	}
	t.done = true
	t.m.snapshot = nil
	t.m.inTx = false
	return nil
}

func (t *memoryTx) Rollback() error {
	t.m.mu.Lock()
	defer t.m.mu.Unlock()
	if t.done {
		return errors.New("repository: transaction already closed")
	}
	t.done = true
	t.m.state = t.m.snapshot
	t.m.snapshot = nil
	t.m.inTx = false
	return nil
}

func (t *memoryTx) Content() ContentService          { return t.m.Content() }
func (t *memoryTx) ContentTypes() ContentTypeService { return t.m.ContentTypes() }
func (t *memoryTx) Locations() LocationService       { return t.m.Locations() }
func (t *memoryTx) Languages() LanguageService       { return t.m.Languages() }
func (t *memoryTx) Users() UserService               { return t.m.Users() }
func (t *memoryTx) UserGroups() UserGroupService     { return t.m.UserGroups() }

func (s *memoryState) id() int64 {
	s.nextID++
	return s.nextID
}

func (s *memoryState) clone() *memoryState {
	c := &memoryState{
		nextID:           s.nextID,
		mainLanguageCode: s.mainLanguageCode,
		currentUser:      s.currentUser,
		languages:        map[string]*Language{},
		contents:         map[int64]*Content{},
		drafts:           map[int64]map[int]*ContentDraft{},
		locations:        map[int64]*Location{},
		contentTypes:     map[int64]*ContentType{},
		ctGroups:         map[int64]*ContentTypeGroup{},
		ctAssignments:    map[int64]map[int64]struct{}{},
		users:            map[int64]*User{},
		userGroups:       map[int64]*UserGroup{},
		memberships:      map[int64]map[int64]struct{}{},
	}
	for k, v := range s.languages {
		lang := *v
		c.languages[k] = &lang
	}
	for k, v := range s.contents {
		cp := *v
		cp.Fields = v.Fields.Copy()
		c.contents[k] = &cp
	}
	for cid, byVersion := range s.drafts {
		c.drafts[cid] = map[int]*ContentDraft{}
		for vn, d := range byVersion {
			cp := *d
			cp.Fields = d.Fields.Copy()
			c.drafts[cid][vn] = &cp
		}
	}
	for k, v := range s.locations {
		cp := *v
		c.locations[k] = &cp
	}
	for k, v := range s.contentTypes {
		c.contentTypes[k] = cloneContentType(v)
	}
	for k, v := range s.ctGroups {
		cp := *v
		c.ctGroups[k] = &cp
	}
	for ct, groups := range s.ctAssignments {
		set := map[int64]struct{}{}
		for g := range groups {
			set[g] = struct{}{}
		}
		c.ctAssignments[ct] = set
	}
	for k, v := range s.users {
		cp := *v
		cp.Fields = v.Fields.Copy()
		c.users[k] = &cp
	}
	for k, v := range s.userGroups {
		cp := *v
		cp.Fields = v.Fields.Copy()
		c.userGroups[k] = &cp
	}
	for u, groups := range s.memberships {
		set := map[int64]struct{}{}
		for g := range groups {
			set[g] = struct{}{}
		}
		c.memberships[u] = set
	}
	return c
}

func cloneContentType(ct *ContentType) *ContentType {
	cp := *ct
	cp.Names = copyStringMap(ct.Names)
	cp.Descriptions = copyStringMap(ct.Descriptions)
	cp.GroupIdentifiers = append([]string(nil), ct.GroupIdentifiers...)
	cp.FieldDefinitions = make([]FieldDefinition, len(ct.FieldDefinitions))
	for i, fd := range ct.FieldDefinitions {
		f := fd
		f.Names = copyStringMap(fd.Names)
		f.Descriptions = copyStringMap(fd.Descriptions)
		cp.FieldDefinitions[i] = f
	}
	return &cp
}

func copyStringMap(in map[string]string) map[string]string {
	if in == nil {
		return nil
	}
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
