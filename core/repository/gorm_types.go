package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"gorm.io/gorm"
)

type gormContentTypes struct {
	db *gorm.DB
}

func (s *gormContentTypes) CreateContentType(ctx context.Context, cs ContentTypeCreateStruct) (*ContentTypeDraft, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&contentTypeRow{}).Where("identifier = ?", cs.Identifier).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("failed to check content type identifier: %w", err)
	}
	if count > 0 {
		return nil, fmt.Errorf("repository: content type %q already exists", cs.Identifier)
	}
	// The draft stays a value until publish; only then do rows exist.
	return &ContentTypeDraft{ContentType: ContentType{
		Identifier:       cs.Identifier,
		MainLanguageCode: cs.MainLanguageCode,
		NameSchema:       cs.NameSchema,
		Container:        cs.Container,
		Names:            copyStringMap(cs.Names),
		Descriptions:     copyStringMap(cs.Descriptions),
	}}, nil
}

func (s *gormContentTypes) CreateContentTypeDraft(ctx context.Context, contentTypeID int64) (*ContentTypeDraft, error) {
	ct, err := s.load(ctx, contentTypeID)
	if err != nil {
		return nil, err
	}
	return &ContentTypeDraft{ContentType: *ct}, nil
}

func (s *gormContentTypes) UpdateContentTypeDraft(ctx context.Context, draft *ContentTypeDraft, us ContentTypeUpdateStruct) (*ContentTypeDraft, error) {
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

func (s *gormContentTypes) AddFieldDefinition(ctx context.Context, draft *ContentTypeDraft, fs FieldDefinitionCreateStruct) error {
	for _, fd := range draft.FieldDefinitions {
		if fd.Identifier == fs.Identifier {
			return fmt.Errorf("repository: field definition %q already exists on %q", fs.Identifier, draft.Identifier)
		}
	}
	draft.FieldDefinitions = append(draft.FieldDefinitions, FieldDefinition{
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

func (s *gormContentTypes) UpdateFieldDefinition(ctx context.Context, draft *ContentTypeDraft, fieldDefinitionID int64, fs FieldDefinitionUpdateStruct) error {
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

func (s *gormContentTypes) PublishContentTypeDraft(ctx context.Context, draft *ContentTypeDraft) (*ContentType, error) {
	db := s.db.WithContext(ctx)

	names, err := marshalJSON(draft.Names)
	if err != nil {
		return nil, err
	}
	descriptions, err := marshalJSON(draft.Descriptions)
	if err != nil {
		return nil, err
	}
	row := contentTypeRow{
		ID:               draft.ID,
		Identifier:       draft.Identifier,
		MainLanguageCode: draft.MainLanguageCode,
		NameSchema:       draft.NameSchema,
		Container:        draft.Container,
		Names:            names,
		Descriptions:     descriptions,
	}
	if err := db.Save(&row).Error; err != nil {
		return nil, fmt.Errorf("failed to publish content type: %w", err)
	}
	draft.ID = row.ID

	for i := range draft.FieldDefinitions {
		fd := &draft.FieldDefinitions[i]
		fdNames, err := marshalJSON(fd.Names)
		if err != nil {
			return nil, err
		}
		fdDescriptions, err := marshalJSON(fd.Descriptions)
		if err != nil {
			return nil, err
		}
		var defaultValue []byte
		if fd.DefaultValue != nil {
			if defaultValue, err = json.Marshal(fd.DefaultValue); err != nil {
				return nil, fmt.Errorf("failed to encode default value: %w", err)
			}
		}
		fdRow := fieldDefinitionRow{
			ID:            fd.ID,
			ContentTypeID: row.ID,
			Identifier:    fd.Identifier,
			Type:          fd.Type,
			FieldGroup:    fd.FieldGroup,
			Position:      fd.Position,
			Required:      fd.Required,
			Translatable:  fd.Translatable,
			Searchable:    fd.Searchable,
			Names:         fdNames,
			Descriptions:  fdDescriptions,
			DefaultValue:  defaultValue,
		}
		if err := db.Save(&fdRow).Error; err != nil {
			return nil, fmt.Errorf("failed to publish field definition %q: %w", fd.Identifier, err)
		}
		fd.ID = fdRow.ID
	}
	return s.load(ctx, row.ID)
}

func (s *gormContentTypes) DeleteContentType(ctx context.Context, contentTypeID int64) error {
	db := s.db.WithContext(ctx)

	res := db.Delete(&contentTypeRow{}, contentTypeID)
	if res.Error != nil {
		return fmt.Errorf("failed to delete content type: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("repository: content type %d: %w", contentTypeID, ErrNotFound)
	}
	if err := db.Delete(&fieldDefinitionRow{}, "content_type_id = ?", contentTypeID).Error; err != nil {
		return fmt.Errorf("failed to delete field definitions: %w", err)
	}
	if err := db.Delete(&contentTypeAssignmentRow{}, "content_type_id = ?", contentTypeID).Error; err != nil {
		return fmt.Errorf("failed to delete group assignments: %w", err)
	}
	return nil
}

func (s *gormContentTypes) LoadContentTypeByIdentifier(ctx context.Context, identifier string) (*ContentType, error) {
	var row contentTypeRow
	if err := s.db.WithContext(ctx).Where("identifier = ?", identifier).First(&row).Error; err != nil {
		return nil, notFound(err, "content type %q", identifier)
	}
	return s.load(ctx, row.ID)
}

func (s *gormContentTypes) load(ctx context.Context, contentTypeID int64) (*ContentType, error) {
	db := s.db.WithContext(ctx)

	var row contentTypeRow
	if err := db.First(&row, contentTypeID).Error; err != nil {
		return nil, notFound(err, "content type %d", contentTypeID)
	}
	names, err := unmarshalStringMap(row.Names)
	if err != nil {
		return nil, err
	}
	descriptions, err := unmarshalStringMap(row.Descriptions)
	if err != nil {
		return nil, err
	}
	ct := &ContentType{
		ID:               row.ID,
		Identifier:       row.Identifier,
		MainLanguageCode: row.MainLanguageCode,
		NameSchema:       row.NameSchema,
		Container:        row.Container,
		Names:            names,
		Descriptions:     descriptions,
	}

	var fdRows []fieldDefinitionRow
	if err := db.Where("content_type_id = ?", contentTypeID).Order("position, id").Find(&fdRows).Error; err != nil {
		return nil, fmt.Errorf("failed to load field definitions: %w", err)
	}
	for i := range fdRows {
		fd, err := fdRows[i].toFieldDefinition()
		if err != nil {
			return nil, err
		}
		ct.FieldDefinitions = append(ct.FieldDefinitions, fd)
	}

	var identifiers []string
	err = db.Model(&contentTypeGroupRow{}).
		Joins("JOIN content_type_assignments ON content_type_assignments.group_id = content_type_groups.id").
		Where("content_type_assignments.content_type_id = ?", contentTypeID).
		Order("content_type_groups.identifier").
		Pluck("content_type_groups.identifier", &identifiers).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load group assignments: %w", err)
	}
	ct.GroupIdentifiers = identifiers
	return ct, nil
}

func (s *gormContentTypes) LoadContentTypeGroupByIdentifier(ctx context.Context, identifier string) (*ContentTypeGroup, error) {
	var row contentTypeGroupRow
	if err := s.db.WithContext(ctx).Where("identifier = ?", identifier).First(&row).Error; err != nil {
		return nil, notFound(err, "content type group %q", identifier)
	}
	return &ContentTypeGroup{ID: row.ID, Identifier: row.Identifier}, nil
}

func (s *gormContentTypes) CreateContentTypeGroup(ctx context.Context, identifier string) (*ContentTypeGroup, error) {
	row := contentTypeGroupRow{Identifier: identifier}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return nil, fmt.Errorf("failed to create content type group: %w", err)
	}
	return &ContentTypeGroup{ID: row.ID, Identifier: row.Identifier}, nil
}

func (s *gormContentTypes) AssignContentTypeGroup(ctx context.Context, contentTypeID, groupID int64) error {
	row := contentTypeAssignmentRow{ContentTypeID: contentTypeID, GroupID: groupID}
	err := s.db.WithContext(ctx).Where(&row).FirstOrCreate(&row).Error
	if err != nil {
		return fmt.Errorf("failed to assign content type group: %w", err)
	}
	return nil
}

func (s *gormContentTypes) UnassignContentTypeGroup(ctx context.Context, contentTypeID, groupID int64) error {
	err := s.db.WithContext(ctx).
		Delete(&contentTypeAssignmentRow{}, "content_type_id = ? AND group_id = ?", contentTypeID, groupID).Error
	if err != nil {
		return fmt.Errorf("failed to unassign content type group: %w", err)
	}
	return nil
}

type gormLanguages struct {
	db *gorm.DB
}

func (s *gormLanguages) CreateLanguage(ctx context.Context, ls LanguageCreateStruct) (*Language, error) {
	row := languageRow{Code: ls.Code, Name: ls.Name, Enabled: ls.Enabled}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return nil, fmt.Errorf("failed to create language: %w", err)
	}
	return row.toLanguage(), nil
}

func (s *gormLanguages) EnableLanguage(ctx context.Context, code string) (*Language, error) {
	return s.update(ctx, code, map[string]any{"enabled": true})
}

func (s *gormLanguages) UpdateLanguageName(ctx context.Context, code, name string) (*Language, error) {
	return s.update(ctx, code, map[string]any{"name": name})
}

func (s *gormLanguages) update(ctx context.Context, code string, updates map[string]any) (*Language, error) {
	db := s.db.WithContext(ctx)

	var row languageRow
	if err := db.Where("code = ?", code).First(&row).Error; err != nil {
		return nil, notFound(err, "language %q", code)
	}
	if err := db.Model(&row).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update language: %w", err)
	}
	return s.LoadLanguageByCode(ctx, code)
}

func (s *gormLanguages) DeleteLanguage(ctx context.Context, code string) error {
	db := s.db.WithContext(ctx)

	var row languageRow
	if err := db.Where("code = ?", code).First(&row).Error; err != nil {
		return notFound(err, "language %q", code)
	}

	var mainCount int64
	if err := db.Model(&contentRow{}).Where("main_language_code = ? AND published = ?", code, true).Count(&mainCount).Error; err != nil {
		return fmt.Errorf("failed to check language usage: %w", err)
	}
	if mainCount > 0 {
		return fmt.Errorf("repository: language %q: %w", code, ErrMainLanguage)
	}
	var useCount int64
	if err := db.Model(&contentRow{}).Where("published = ? AND fields LIKE ?", true, "%\""+code+"\"%").Count(&useCount).Error; err != nil {
		return fmt.Errorf("failed to check language usage: %w", err)
	}
	if useCount > 0 {
		return fmt.Errorf("repository: language %q: %w", code, ErrLanguageInUse)
	}

	if err := db.Delete(&row).Error; err != nil {
		return fmt.Errorf("failed to delete language: %w", err)
	}
	return nil
}

func (s *gormLanguages) LoadLanguageByCode(ctx context.Context, code string) (*Language, error) {
	var row languageRow
	if err := s.db.WithContext(ctx).Where("code = ?", code).First(&row).Error; err != nil {
		return nil, notFound(err, "language %q", code)
	}
	return row.toLanguage(), nil
}
