package repository

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"
)

type gormContent struct {
	db *gorm.DB
}

func (s *gormContent) CreateContent(ctx context.Context, cs ContentCreateStruct, locations []LocationCreateStruct) (*ContentDraft, error) {
	db := s.db.WithContext(ctx)

	fields, err := marshalJSON(cs.Fields)
	if err != nil {
		return nil, err
	}
	row := contentRow{
		RemoteID:         cs.RemoteID,
		ContentTypeID:    cs.ContentTypeID,
		MainLanguageCode: cs.MainLanguageCode,
		Published:        false,
	}
	if err := db.Create(&row).Error; err != nil {
		return nil, fmt.Errorf("failed to create content: %w", err)
	}

	draftRow := contentDraftRow{
		ContentID:        row.ID,
		VersionNo:        1,
		RemoteID:         cs.RemoteID,
		ContentTypeID:    cs.ContentTypeID,
		MainLanguageCode: cs.MainLanguageCode,
		Fields:           fields,
	}
	if err := db.Create(&draftRow).Error; err != nil {
		return nil, fmt.Errorf("failed to create content draft: %w", err)
	}

	for i, ls := range locations {
		locRow, err := createLocationRow(db, row.ID, ls)
		if err != nil {
			return nil, err
		}
		if i == 0 {
			locRow.IsMainLocation = true
			if err := db.Model(locRow).Update("is_main", true).Error; err != nil {
				return nil, fmt.Errorf("failed to mark main location: %w", err)
			}
			if err := db.Model(&contentRow{ID: row.ID}).Update("main_location_id", locRow.ID).Error; err != nil {
				return nil, fmt.Errorf("failed to set main location: %w", err)
			}
		}
	}
	return draftRow.toDraft()
}

func (s *gormContent) CreateDraftFrom(ctx context.Context, contentID int64) (*ContentDraft, error) {
	db := s.db.WithContext(ctx)

	var row contentRow
	if err := db.Where("id = ? AND published = ?", contentID, true).First(&row).Error; err != nil {
		return nil, notFound(err, "content %d", contentID)
	}
	draftRow := contentDraftRow{
		ContentID:        row.ID,
		VersionNo:        row.CurrentVersionNo + 1,
		RemoteID:         row.RemoteID,
		ContentTypeID:    row.ContentTypeID,
		MainLanguageCode: row.MainLanguageCode,
		Fields:           row.Fields,
	}
	if err := db.Create(&draftRow).Error; err != nil {
		return nil, fmt.Errorf("failed to create content draft: %w", err)
	}
	return draftRow.toDraft()
}

func (s *gormContent) UpdateContent(ctx context.Context, draft *ContentDraft, us ContentUpdateStruct) (*ContentDraft, error) {
	db := s.db.WithContext(ctx)

	var row contentDraftRow
	if err := db.Where("content_id = ? AND version_no = ?", draft.ContentID, draft.VersionNo).First(&row).Error; err != nil {
		return nil, notFound(err, "draft version %d of content %d", draft.VersionNo, draft.ContentID)
	}
	fields, err := unmarshalFields(row.Fields)
	if err != nil {
		return nil, err
	}
	if fields == nil {
		fields = Fields{}
	}
	for ident, byLang := range us.Fields {
		if fields[ident] == nil {
			fields[ident] = map[string]any{}
		}
		for code, v := range byLang {
			fields[ident][code] = v
		}
	}
	encoded, err := marshalJSON(fields)
	if err != nil {
		return nil, err
	}
	if err := db.Model(&row).Update("fields", encoded).Error; err != nil {
		return nil, fmt.Errorf("failed to update content draft: %w", err)
	}
	row.Fields = encoded
	return row.toDraft()
}

func (s *gormContent) PublishVersion(ctx context.Context, draft *ContentDraft) (*Content, error) {
	db := s.db.WithContext(ctx)

	var row contentDraftRow
	if err := db.Where("content_id = ? AND version_no = ?", draft.ContentID, draft.VersionNo).First(&row).Error; err != nil {
		return nil, notFound(err, "draft version %d of content %d", draft.VersionNo, draft.ContentID)
	}
	fields, err := unmarshalFields(row.Fields)
	if err != nil {
		return nil, err
	}

	name, err := s.resolveName(ctx, row.ContentTypeID, row.MainLanguageCode, fields, row.RemoteID)
	if err != nil {
		return nil, err
	}
	updates := map[string]any{
		"remote_id":          row.RemoteID,
		"main_language_code": row.MainLanguageCode,
		"current_version_no": row.VersionNo,
		"published":          true,
		"name":               name,
		"fields":             row.Fields,
	}
	if err := db.Model(&contentRow{ID: row.ContentID}).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to publish version: %w", err)
	}
	if err := db.Delete(&contentDraftRow{}, "content_id = ? AND version_no = ?", row.ContentID, row.VersionNo).Error; err != nil {
		return nil, fmt.Errorf("failed to drop published draft: %w", err)
	}

	var published contentRow
	if err := db.First(&published, row.ContentID).Error; err != nil {
		return nil, notFound(err, "content %d", row.ContentID)
	}
	return published.toContent()
}

func (s *gormContent) DeleteContent(ctx context.Context, contentID int64) error {
	db := s.db.WithContext(ctx)

	res := db.Delete(&contentRow{}, contentID)
	if res.Error != nil {
		return fmt.Errorf("failed to delete content: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("repository: content %d: %w", contentID, ErrNotFound)
	}
	if err := db.Delete(&contentDraftRow{}, "content_id = ?", contentID).Error; err != nil {
		return fmt.Errorf("failed to delete content drafts: %w", err)
	}

	var locs []locationRow
	if err := db.Where("content_id = ?", contentID).Find(&locs).Error; err != nil {
		return fmt.Errorf("failed to load locations: %w", err)
	}
	for _, loc := range locs {
		if err := deleteLocationSubtree(db, loc.ID); err != nil {
			return err
		}
	}
	return nil
}

func (s *gormContent) LoadContent(ctx context.Context, contentID int64) (*Content, error) {
	var row contentRow
	err := s.db.WithContext(ctx).Where("id = ? AND published = ?", contentID, true).First(&row).Error
	if err != nil {
		return nil, notFound(err, "content %d", contentID)
	}
	return row.toContent()
}

func (s *gormContent) LoadContentByRemoteID(ctx context.Context, remoteID string) (*Content, error) {
	var row contentRow
	err := s.db.WithContext(ctx).Where("remote_id = ? AND published = ?", remoteID, true).First(&row).Error
	if err != nil {
		return nil, notFound(err, "content remote id %q", remoteID)
	}
	return row.toContent()
}

func (s *gormContent) resolveName(ctx context.Context, contentTypeID int64, mainLanguage string, fields Fields, fallback string) (string, error) {
	lookup := func(ident string) (string, bool) {
		byLang, ok := fields[ident]
		if !ok {
			return "", false
		}
		v, ok := byLang[mainLanguage]
		if !ok {
			return "", false
		}
		str, ok := v.(string)
		return str, ok
	}

	var ct contentTypeRow
	err := s.db.WithContext(ctx).First(&ct, contentTypeID).Error
	if err == nil && ct.NameSchema != "" {
		if name, ok := lookup(strings.Trim(ct.NameSchema, "<>")); ok {
			return name, nil
		}
	}
	for _, ident := range []string{"title", "name"} {
		if name, ok := lookup(ident); ok {
			return name, nil
		}
	}
	return fallback, nil
}

type gormLocations struct {
	db *gorm.DB
}

func (s *gormLocations) CreateLocation(ctx context.Context, contentID int64, ls LocationCreateStruct) (*Location, error) {
	db := s.db.WithContext(ctx)

	row, err := createLocationRow(db, contentID, ls)
	if err != nil {
		return nil, err
	}

	var content contentRow
	if err := db.First(&content, contentID).Error; err == nil && content.MainLocationID == 0 {
		if err := db.Model(row).Update("is_main", true).Error; err != nil {
			return nil, fmt.Errorf("failed to mark main location: %w", err)
		}
		if err := db.Model(&content).Update("main_location_id", row.ID).Error; err != nil {
			return nil, fmt.Errorf("failed to set main location: %w", err)
		}
		row.IsMainLocation = true
	}
	return row.toLocation(), nil
}

func (s *gormLocations) LoadLocation(ctx context.Context, locationID int64) (*Location, error) {
	var row locationRow
	if err := s.db.WithContext(ctx).First(&row, locationID).Error; err != nil {
		return nil, notFound(err, "location %d", locationID)
	}
	return row.toLocation(), nil
}

func (s *gormLocations) LoadLocationByRemoteID(ctx context.Context, remoteID string) (*Location, error) {
	var row locationRow
	if err := s.db.WithContext(ctx).Where("remote_id = ?", remoteID).First(&row).Error; err != nil {
		return nil, notFound(err, "location remote id %q", remoteID)
	}
	return row.toLocation(), nil
}

func (s *gormLocations) LoadLocationChildren(ctx context.Context, parentLocationID int64, offset, limit int) ([]*Location, error) {
	q := s.db.WithContext(ctx).Where("parent_id = ?", parentLocationID).Order("id").Offset(offset)
	if limit > 0 {
		q = q.Limit(limit)
	}
	var rows []locationRow
	if err := q.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to load location children: %w", err)
	}
	children := make([]*Location, len(rows))
	for i := range rows {
		children[i] = rows[i].toLocation()
	}
	return children, nil
}

func (s *gormLocations) HideLocation(ctx context.Context, locationID int64) (*Location, error) {
	return s.setHidden(ctx, locationID, true)
}

func (s *gormLocations) UnhideLocation(ctx context.Context, locationID int64) (*Location, error) {
	return s.setHidden(ctx, locationID, false)
}

func (s *gormLocations) setHidden(ctx context.Context, locationID int64, hidden bool) (*Location, error) {
	db := s.db.WithContext(ctx)

	var row locationRow
	if err := db.First(&row, locationID).Error; err != nil {
		return nil, notFound(err, "location %d", locationID)
	}
	if err := db.Model(&row).Update("hidden", hidden).Error; err != nil {
		return nil, fmt.Errorf("failed to update location visibility: %w", err)
	}
	row.Hidden = hidden
	return row.toLocation(), nil
}

func (s *gormLocations) UpdateLocation(ctx context.Context, locationID int64, priority int, remoteID string) (*Location, error) {
	db := s.db.WithContext(ctx)

	var row locationRow
	if err := db.First(&row, locationID).Error; err != nil {
		return nil, notFound(err, "location %d", locationID)
	}
	updates := map[string]any{"priority": priority}
	if remoteID != "" {
		updates["remote_id"] = remoteID
	}
	if err := db.Model(&row).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update location: %w", err)
	}
	return s.LoadLocation(ctx, locationID)
}

func (s *gormLocations) SetMainLocation(ctx context.Context, contentID, locationID int64) error {
	db := s.db.WithContext(ctx)

	var row locationRow
	if err := db.Where("id = ? AND content_id = ?", locationID, contentID).First(&row).Error; err != nil {
		return notFound(err, "location %d of content %d", locationID, contentID)
	}
	if err := db.Model(&locationRow{}).Where("content_id = ?", contentID).Update("is_main", false).Error; err != nil {
		return fmt.Errorf("failed to clear main location: %w", err)
	}
	if err := db.Model(&row).Update("is_main", true).Error; err != nil {
		return fmt.Errorf("failed to mark main location: %w", err)
	}
	if err := db.Model(&contentRow{ID: contentID}).Update("main_location_id", locationID).Error; err != nil {
		return fmt.Errorf("failed to set main location: %w", err)
	}
	return nil
}

func createLocationRow(db *gorm.DB, contentID int64, ls LocationCreateStruct) (*locationRow, error) {
	depth := 1
	var parent locationRow
	if err := db.First(&parent, ls.ParentLocationID).Error; err == nil {
		depth = parent.Depth + 1
	}
	row := locationRow{
		RemoteID:  ls.RemoteID,
		ParentID:  ls.ParentLocationID,
		ContentID: contentID,
		Hidden:    ls.Hidden,
		Priority:  ls.Priority,
		Depth:     depth,
	}
	if err := db.Create(&row).Error; err != nil {
		return nil, fmt.Errorf("failed to create location: %w", err)
	}
	return &row, nil
}

func deleteLocationSubtree(db *gorm.DB, locationID int64) error {
	var children []locationRow
	if err := db.Where("parent_id = ?", locationID).Find(&children).Error; err != nil {
		return fmt.Errorf("failed to load location children: %w", err)
	}
	for _, child := range children {
		if err := deleteLocationSubtree(db, child.ID); err != nil {
			return err
		}
	}
	if err := db.Delete(&locationRow{}, locationID).Error; err != nil {
		return fmt.Errorf("failed to delete location: %w", err)
	}
	return nil
}
