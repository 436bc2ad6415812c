package repository

import (
	"context"
	"fmt"
	"sort"
	"strings"
)

type memoryContent Memory

func (m *memoryContent) CreateContent(ctx context.Context, cs ContentCreateStruct, locations []LocationCreateStruct) (*ContentDraft, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := m.state

	if cs.RemoteID != "" {
		for _, c := range s.contents {
			if c.RemoteID == cs.RemoteID {
				return nil, fmt.Errorf("repository: content remote id %q already exists", cs.RemoteID)
			}
		}
	}
	if _, ok := s.contentTypes[cs.ContentTypeID]; !ok {
		return nil, fmt.Errorf("repository: content type %d: %w", cs.ContentTypeID, ErrNotFound)
	}

	draft := &ContentDraft{
		ContentID:        s.id(),
		VersionNo:        1,
		RemoteID:         cs.RemoteID,
		ContentTypeID:    cs.ContentTypeID,
		MainLanguageCode: cs.MainLanguageCode,
		Fields:           cs.Fields.Copy(),
	}
	s.drafts[draft.ContentID] = map[int]*ContentDraft{1: draft}

	for i, ls := range locations {
		loc := s.addLocation(draft.ContentID, ls)
		if i == 0 {
			loc.IsMainLocation = true
		}
	}
	return draft, nil
}

func (m *memoryContent) CreateDraftFrom(ctx context.Context, contentID int64) (*ContentDraft, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := m.state

	c, ok := s.contents[contentID]
	if !ok {
		return nil, fmt.Errorf("repository: content %d: %w", contentID, ErrNotFound)
	}
	draft := &ContentDraft{
		ContentID:        c.ID,
		VersionNo:        c.CurrentVersionNo + 1,
		RemoteID:         c.RemoteID,
		ContentTypeID:    c.ContentTypeID,
		MainLanguageCode: c.MainLanguageCode,
		Fields:           c.Fields.Copy(),
	}
	if s.drafts[c.ID] == nil {
		s.drafts[c.ID] = map[int]*ContentDraft{}
	}
	s.drafts[c.ID][draft.VersionNo] = draft
	return draft, nil
}

func (m *memoryContent) UpdateContent(ctx context.Context, draft *ContentDraft, us ContentUpdateStruct) (*ContentDraft, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored, err := m.state.draft(draft)
	if err != nil {
		return nil, err
	}
	if stored.Fields == nil {
		stored.Fields = Fields{}
	}
	for ident, byLang := range us.Fields {
		if stored.Fields[ident] == nil {
			stored.Fields[ident] = map[string]any{}
		}
		for code, v := range byLang {
			stored.Fields[ident][code] = v
		}
	}
	cp := *stored
	cp.Fields = stored.Fields.Copy()
	return &cp, nil
}

func (m *memoryContent) PublishVersion(ctx context.Context, draft *ContentDraft) (*Content, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := m.state

	stored, err := s.draft(draft)
	if err != nil {
		return nil, err
	}

	c := &Content{
		ID:               stored.ContentID,
		RemoteID:         stored.RemoteID,
		ContentTypeID:    stored.ContentTypeID,
		MainLanguageCode: stored.MainLanguageCode,
		CurrentVersionNo: stored.VersionNo,
		Fields:           stored.Fields.Copy(),
	}
	if prev, ok := s.contents[c.ID]; ok {
		c.MainLocationID = prev.MainLocationID
	} else {
		for _, loc := range s.locations {
			if loc.ContentID == c.ID && loc.IsMainLocation {
				c.MainLocationID = loc.ID
			}
		}
	}
	c.Name = s.resolveName(c)
	s.contents[c.ID] = c
	delete(s.drafts[c.ID], stored.VersionNo)

	cp := *c
	cp.Fields = c.Fields.Copy()
	return &cp, nil
}

func (m *memoryContent) DeleteContent(ctx context.Context, contentID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := m.state

	if _, ok := s.contents[contentID]; !ok {
		return fmt.Errorf("repository: content %d: %w", contentID, ErrNotFound)
	}
	delete(s.contents, contentID)
	delete(s.drafts, contentID)
	for id, loc := range s.locations {
		if loc.ContentID == contentID {
			s.removeLocationSubtree(id)
		}
	}
	return nil
}

func (m *memoryContent) LoadContent(ctx context.Context, contentID int64) (*Content, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	c, ok := m.state.contents[contentID]
	if !ok {
		return nil, fmt.Errorf("repository: content %d: %w", contentID, ErrNotFound)
	}
	cp := *c
	cp.Fields = c.Fields.Copy()
	return &cp, nil
}

func (m *memoryContent) LoadContentByRemoteID(ctx context.Context, remoteID string) (*Content, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, c := range m.state.contents {
		if c.RemoteID == remoteID {
			cp := *c
			cp.Fields = c.Fields.Copy()
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("repository: content remote id %q: %w", remoteID, ErrNotFound)
}

// draft resolves the stored draft matching the caller's handle.
func (s *memoryState) draft(d *ContentDraft) (*ContentDraft, error) {
	byVersion, ok := s.drafts[d.ContentID]
	if !ok {
		return nil, fmt.Errorf("repository: draft for content %d: %w", d.ContentID, ErrNotFound)
	}
	stored, ok := byVersion[d.VersionNo]
	if !ok {
		return nil, fmt.Errorf("repository: draft version %d of content %d: %w", d.VersionNo, d.ContentID, ErrNotFound)
	}
	return stored, nil
}

// resolveName applies the content type's name schema, falling back to the
// first name-ish field, then the remote id.
func (s *memoryState) resolveName(c *Content) string {
	lookup := func(ident string) (string, bool) {
		byLang, ok := c.Fields[ident]
		if !ok {
			return "", false
		}
		v, ok := byLang[c.MainLanguageCode]
		if !ok {
			return "", false
		}
		str, ok := v.(string)
		return str, ok
	}

	if ct, ok := s.contentTypes[c.ContentTypeID]; ok && ct.NameSchema != "" {
		ident := strings.Trim(ct.NameSchema, "<>")
		if name, ok := lookup(ident); ok {
			return name
		}
	}
	for _, ident := range []string{"title", "name"} {
		if name, ok := lookup(ident); ok {
			return name
		}
	}
	return c.RemoteID
}

type memoryLocations Memory

func (m *memoryLocations) CreateLocation(ctx context.Context, contentID int64, ls LocationCreateStruct) (*Location, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	loc := m.state.addLocation(contentID, ls)
	if c, ok := m.state.contents[contentID]; ok && c.MainLocationID == 0 {
		c.MainLocationID = loc.ID
		loc.IsMainLocation = true
	}
	cp := *loc
	return &cp, nil
}

func (m *memoryLocations) LoadLocation(ctx context.Context, locationID int64) (*Location, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	loc, ok := m.state.locations[locationID]
	if !ok {
		return nil, fmt.Errorf("repository: location %d: %w", locationID, ErrNotFound)
	}
	cp := *loc
	return &cp, nil
}

func (m *memoryLocations) LoadLocationByRemoteID(ctx context.Context, remoteID string) (*Location, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, loc := range m.state.locations {
		if loc.RemoteID == remoteID {
			cp := *loc
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("repository: location remote id %q: %w", remoteID, ErrNotFound)
}

func (m *memoryLocations) LoadLocationChildren(ctx context.Context, parentLocationID int64, offset, limit int) ([]*Location, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var children []*Location
	for _, loc := range m.state.locations {
		if loc.ParentID == parentLocationID {
			cp := *loc
			children = append(children, &cp)
		}
	}
	sort.Slice(children, func(i, j int) bool { return children[i].ID < children[j].ID })

	if offset >= len(children) {
		return nil, nil
	}
	children = children[offset:]
	if limit > 0 && limit < len(children) {
		children = children[:limit]
	}
	return children, nil
}

func (m *memoryLocations) HideLocation(ctx context.Context, locationID int64) (*Location, error) {
	return m.setHidden(locationID, true)
}

func (m *memoryLocations) UnhideLocation(ctx context.Context, locationID int64) (*Location, error) {
	return m.setHidden(locationID, false)
}

func (m *memoryLocations) setHidden(locationID int64, hidden bool) (*Location, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	loc, ok := m.state.locations[locationID]
	if !ok {
		return nil, fmt.Errorf("repository: location %d: %w", locationID, ErrNotFound)
	}
	loc.Hidden = hidden
	cp := *loc
	return &cp, nil
}

func (m *memoryLocations) UpdateLocation(ctx context.Context, locationID int64, priority int, remoteID string) (*Location, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	loc, ok := m.state.locations[locationID]
	if !ok {
		return nil, fmt.Errorf("repository: location %d: %w", locationID, ErrNotFound)
	}
	loc.Priority = priority
	if remoteID != "" {
		loc.RemoteID = remoteID
	}
	cp := *loc
	return &cp, nil
}

func (m *memoryLocations) SetMainLocation(ctx context.Context, contentID, locationID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := m.state

	c, ok := s.contents[contentID]
	if !ok {
		return fmt.Errorf("repository: content %d: %w", contentID, ErrNotFound)
	}
	loc, ok := s.locations[locationID]
	if !ok || loc.ContentID != contentID {
		return fmt.Errorf("repository: location %d of content %d: %w", locationID, contentID, ErrNotFound)
	}
	c.MainLocationID = locationID
	for _, l := range s.locations {
		if l.ContentID == contentID {
			l.IsMainLocation = l.ID == locationID
		}
	}
	return nil
}

func (s *memoryState) addLocation(contentID int64, ls LocationCreateStruct) *Location {
	loc := &Location{
		ID:        s.id(),
		RemoteID:  ls.RemoteID,
		ParentID:  ls.ParentLocationID,
		ContentID: contentID,
		Hidden:    ls.Hidden,
		Priority:  ls.Priority,
		Depth:     1,
	}
	if parent, ok := s.locations[ls.ParentLocationID]; ok {
		loc.Depth = parent.Depth + 1
	}
	s.locations[loc.ID] = loc
	return loc
}

func (s *memoryState) removeLocationSubtree(locationID int64) {
	delete(s.locations, locationID)
	for id, loc := range s.locations {
		if loc.ParentID == locationID {
			s.removeLocationSubtree(id)
		}
	}
}
