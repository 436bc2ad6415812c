package repository

import (
	"context"
	"fmt"
	"sort"
)

type memoryContentTypes Memory

func (m *memoryContentTypes) CreateContentType(ctx context.Context, cs ContentTypeCreateStruct) (*ContentTypeDraft, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := m.state

	for _, ct := range s.contentTypes {
		if ct.Identifier == cs.Identifier {
			return nil, fmt.Errorf("repository: content type %q already exists", cs.Identifier)
		}
	}
	draft := &ContentTypeDraft{ContentType: ContentType{
		ID:               s.id(),
		Identifier:       cs.Identifier,
		MainLanguageCode: cs.MainLanguageCode,
		NameSchema:       cs.NameSchema,
		Container:        cs.Container,
		Names:            copyStringMap(cs.Names),
		Descriptions:     copyStringMap(cs.Descriptions),
	}}
	return draft, nil
}

func (m *memoryContentTypes) CreateContentTypeDraft(ctx context.Context, contentTypeID int64) (*ContentTypeDraft, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	ct, ok := m.state.contentTypes[contentTypeID]
	if !ok {
		return nil, fmt.Errorf("repository: content type %d: %w", contentTypeID, ErrNotFound)
	}
	return &ContentTypeDraft{ContentType: *cloneContentType(ct)}, nil
}

func (m *memoryContentTypes) UpdateContentTypeDraft(ctx context.Context, draft *ContentTypeDraft, us ContentTypeUpdateStruct) (*ContentTypeDraft, error) {
	if us.Identifier != "" {
		draft.Identifier = us.Identifier
	}
	if us.MainLanguageCode != "" {
		draft.MainLanguageCode = us.MainLanguageCode
	}
	if us.NameSchema != "" {
		draft.NameSchema = us.NameSchema
	}
	if us.Container != nil {
		draft.Container = *us.Container
	}
	if draft.Names == nil {
		draft.Names = map[string]string{}
	}
	for code, name := range us.Names {
		draft.Names[code] = name
	}
	if draft.Descriptions == nil {
		draft.Descriptions = map[string]string{}
	}
	for code, desc := range us.Descriptions {
		draft.Descriptions[code] = desc
	}
	return draft, nil
}

func (m *memoryContentTypes) AddFieldDefinition(ctx context.Context, draft *ContentTypeDraft, fs FieldDefinitionCreateStruct) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, fd := range draft.FieldDefinitions {
		if fd.Identifier == fs.Identifier {
			return fmt.Errorf("repository: field definition %q already exists on %q", fs.Identifier, draft.Identifier)
		}
	}
	draft.FieldDefinitions = append(draft.FieldDefinitions, FieldDefinition{
		ID:           m.state.id(),
		Identifier:   fs.Identifier,
		Type:         fs.Type,
		FieldGroup:   fs.FieldGroup,
		Position:     fs.Position,
		Required:     fs.Required,
		Translatable: fs.Translatable,
		Searchable:   fs.Searchable,
		Names:        copyStringMap(fs.Names),
		Descriptions: copyStringMap(fs.Descriptions),
		DefaultValue: fs.DefaultValue,
	})
	return nil
}

func (m *memoryContentTypes) UpdateFieldDefinition(ctx context.Context, draft *ContentTypeDraft, fieldDefinitionID int64, fs FieldDefinitionUpdateStruct) error {
	for i := range draft.FieldDefinitions {
		fd := &draft.FieldDefinitions[i]
		if fd.ID != fieldDefinitionID {
			continue
		}
		if fs.FieldGroup != "" {
			fd.FieldGroup = fs.FieldGroup
		}
		if fs.Position != 0 {
			fd.Position = fs.Position
		}
		if fs.Required != nil {
			fd.Required = *fs.Required
		}
		if fs.Translatable != nil {
			fd.Translatable = *fs.Translatable
		}
		if fs.Searchable != nil {
			fd.Searchable = *fs.Searchable
		}
		if fd.Names == nil {
			fd.Names = map[string]string{}
		}
		for code, name := range fs.Names {
			fd.Names[code] = name
		}
		if fd.Descriptions == nil {
			fd.Descriptions = map[string]string{}
		}
		for code, desc := range fs.Descriptions {
			fd.Descriptions[code] = desc
		}
		if fs.DefaultValue != nil {
			fd.DefaultValue = fs.DefaultValue
		}
		return nil
	}
	return fmt.Errorf("repository: field definition %d on %q: %w", fieldDefinitionID, draft.Identifier, ErrNotFound)
}

func (m *memoryContentTypes) PublishContentTypeDraft(ctx context.Context, draft *ContentTypeDraft) (*ContentType, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := m.state

	ct := cloneContentType(&draft.ContentType)
	s.contentTypes[ct.ID] = ct
	return m.loadLocked(ct.ID)
}

func (m *memoryContentTypes) DeleteContentType(ctx context.Context, contentTypeID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := m.state

	if _, ok := s.contentTypes[contentTypeID]; !ok {
		return fmt.Errorf("repository: content type %d: %w", contentTypeID, ErrNotFound)
	}
	delete(s.contentTypes, contentTypeID)
	delete(s.ctAssignments, contentTypeID)
	return nil
}

func (m *memoryContentTypes) LoadContentTypeByIdentifier(ctx context.Context, identifier string) (*ContentType, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for id, ct := range m.state.contentTypes {
		if ct.Identifier == identifier {
			return m.loadLocked(id)
		}
	}
	return nil, fmt.Errorf("repository: content type %q: %w", identifier, ErrNotFound)
}

// loadLocked returns a copy with the current group assignment resolved.
func (m *memoryContentTypes) loadLocked(contentTypeID int64) (*ContentType, error) {
	s := m.state
	ct, ok := s.contentTypes[contentTypeID]
	if !ok {
		return nil, fmt.Errorf("repository: content type %d: %w", contentTypeID, ErrNotFound)
	}
	cp := cloneContentType(ct)
	cp.GroupIdentifiers = nil
	for groupID := range s.ctAssignments[contentTypeID] {
		if g, ok := s.ctGroups[groupID]; ok {
			cp.GroupIdentifiers = append(cp.GroupIdentifiers, g.Identifier)
		}
	}
	sort.Strings(cp.GroupIdentifiers)
	return cp, nil
}

func (m *memoryContentTypes) LoadContentTypeGroupByIdentifier(ctx context.Context, identifier string) (*ContentTypeGroup, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, g := range m.state.ctGroups {
		if g.Identifier == identifier {
			cp := *g
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("repository: content type group %q: %w", identifier, ErrNotFound)
}

func (m *memoryContentTypes) CreateContentTypeGroup(ctx context.Context, identifier string) (*ContentTypeGroup, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := m.state

	for _, g := range s.ctGroups {
		if g.Identifier == identifier {
			return nil, fmt.Errorf("repository: content type group %q already exists", identifier)
		}
	}
	g := &ContentTypeGroup{ID: s.id(), Identifier: identifier}
	s.ctGroups[g.ID] = g
	cp := *g
	return &cp, nil
}

func (m *memoryContentTypes) AssignContentTypeGroup(ctx context.Context, contentTypeID, groupID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := m.state

	if _, ok := s.ctGroups[groupID]; !ok {
		return fmt.Errorf("repository: content type group %d: %w", groupID, ErrNotFound)
	}
	if s.ctAssignments[contentTypeID] == nil {
		s.ctAssignments[contentTypeID] = map[int64]struct{}{}
	}
	s.ctAssignments[contentTypeID][groupID] = struct{}{}
	return nil
}

func (m *memoryContentTypes) UnassignContentTypeGroup(ctx context.Context, contentTypeID, groupID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.state.ctAssignments[contentTypeID], groupID)
	return nil
}

type memoryLanguages Memory

func (m *memoryLanguages) CreateLanguage(ctx context.Context, ls LanguageCreateStruct) (*Language, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := m.state

	if _, ok := s.languages[ls.Code]; ok {
		return nil, fmt.Errorf("repository: language %q already exists", ls.Code)
	}
	lang := &Language{ID: s.id(), Code: ls.Code, Name: ls.Name, Enabled: ls.Enabled}
	s.languages[ls.Code] = lang
	cp := *lang
	return &cp, nil
}

func (m *memoryLanguages) EnableLanguage(ctx context.Context, code string) (*Language, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	lang, ok := m.state.languages[code]
	if !ok {
		return nil, fmt.Errorf("repository: language %q: %w", code, ErrNotFound)
	}
	lang.Enabled = true
	cp := *lang
	return &cp, nil
}

func (m *memoryLanguages) UpdateLanguageName(ctx context.Context, code, name string) (*Language, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	lang, ok := m.state.languages[code]
	if !ok {
		return nil, fmt.Errorf("repository: language %q: %w", code, ErrNotFound)
	}
	lang.Name = name
	cp := *lang
	return &cp, nil
}

func (m *memoryLanguages) DeleteLanguage(ctx context.Context, code string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := m.state

	lang, ok := s.languages[code]
	if !ok {
		return fmt.Errorf("repository: language %q: %w", code, ErrNotFound)
	}
	if code == s.mainLanguageCode {
		return fmt.Errorf("repository: language %q: %w", code, ErrMainLanguage)
	}
	for _, c := range s.contents {
		if c.MainLanguageCode == code {
			return fmt.Errorf("repository: language %q: %w", code, ErrMainLanguage)
		}
		for _, byLang := range c.Fields {
			if _, ok := byLang[code]; ok {
				return fmt.Errorf("repository: language %q: %w", code, ErrLanguageInUse)
			}
		}
	}
	delete(s.languages, lang.Code)
	return nil
}

func (m *memoryLanguages) LoadLanguageByCode(ctx context.Context, code string) (*Language, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	lang, ok := m.state.languages[code]
	if !ok {
		return nil, fmt.Errorf("repository: language %q: %w", code, ErrNotFound)
	}
	cp := *lang
	return &cp, nil
}
