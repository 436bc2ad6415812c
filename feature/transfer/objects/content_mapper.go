package objects

import (
	"sort"

	"content-transfer/core/repository"
)

// ContentMapper translates between a ContentObject and the repository's
// native content structs. It is bound to exactly one object and performs no
// repository calls itself.
type ContentMapper struct {
	object *ContentObject
}

// ToCreateStruct builds the native create struct. The content type id is
// resolved by the manager beforehand; the mapper only copies and reshapes
// data.
func (m *ContentMapper) ToCreateStruct(contentTypeID int64) repository.ContentCreateStruct {
	o := m.object
	return repository.ContentCreateStruct{
		ContentTypeID:    contentTypeID,
		MainLanguageCode: o.MainLanguage(),
		RemoteID:         o.RemoteID,
		Fields:           m.repositoryFields(),
	}
}

// ToUpdateStruct builds the native update struct from the object's fields.
func (m *ContentMapper) ToUpdateStruct() repository.ContentUpdateStruct {
	return repository.ContentUpdateStruct{Fields: m.repositoryFields()}
}

// LocationCreateStructs builds one native location struct per parent
// location, ordered by parent id for deterministic creation.
func (m *ContentMapper) LocationCreateStructs() []repository.LocationCreateStruct {
	o := m.object
	if len(o.ParentLocations) == 0 {
		return nil
	}
	parents := make([]int64, 0, len(o.ParentLocations))
	for id := range o.ParentLocations {
		parents = append(parents, id)
	}
	sort.Slice(parents, func(i, j int) bool { return parents[i] < parents[j] })

	structs := make([]repository.LocationCreateStruct, 0, len(parents))
	for _, parentID := range parents {
		structs = append(structs, o.ParentLocations[parentID].Mapper().ToCreateStruct())
	}
	return structs
}

// FromContent refreshes the object from a native content value after a
// repository call.
func (m *ContentMapper) FromContent(c *repository.Content) {
	o := m.object
	o.ContentID = c.ID
	o.RemoteID = c.RemoteID
	o.VersionNo = c.CurrentVersionNo
	o.MainLocationID = c.MainLocationID
	o.Name = c.Name
	o.Language = c.MainLanguageCode
}

func (m *ContentMapper) repositoryFields() repository.Fields {
	return fieldsForRepository(m.object.Fields, m.object.MainLanguage())
}

// LocationMapper translates between a LocationObject and the repository's
// native location structs.
type LocationMapper struct {
	object *LocationObject
}

// ToCreateStruct builds the native location create struct.
func (m *LocationMapper) ToCreateStruct() repository.LocationCreateStruct {
	o := m.object
	return repository.LocationCreateStruct{
		ParentLocationID: o.ParentLocationID,
		RemoteID:         o.RemoteID,
		Hidden:           o.Hidden,
		Priority:         o.Priority,
	}
}

// FromLocation refreshes the object from a native location value.
func (m *LocationMapper) FromLocation(l *repository.Location) {
	o := m.object
	o.ID = l.ID
	o.RemoteID = l.RemoteID
	o.ParentLocationID = l.ParentID
	o.ContentID = l.ContentID
	o.Hidden = l.Hidden
	o.Priority = l.Priority
}
