package objects

// ContentObject describes the desired state of one content item, identified
// by its remote id.
//
// Fields maps field identifiers to values. A value is either a scalar,
// applied in the object's main language, or a map of language code to value
// for multi-language fields. This is the one genuinely dynamic part of the
// model: which identifiers exist is dictated by the content type's schema in
// the repository, not by this package.
type ContentObject struct {
	ContentTypeIdentifier string         `json:"content_type_identifier"`
	Language              string         `json:"language"`
	RemoteID              string         `json:"remote_id,omitempty"`
	Fields                map[string]any `json:"fields,omitempty"`

	// ParentLocations is keyed by parent location id; adding a second entry
	// for the same parent overwrites the first.
	ParentLocations map[int64]*LocationObject `json:"parent_locations,omitempty"`

	Action Action `json:"action,omitempty"`

	// Assigned by the repository after reconciliation.
	ContentID      int64  `json:"content_id,omitempty"`
	VersionNo      int    `json:"version_no,omitempty"`
	MainLocationID int64  `json:"main_location_id,omitempty"`
	Name           string `json:"name,omitempty"`

	// CreateStructCallback and UpdateStructCallback are invoked with the
	// populated native struct right before the repository call.
	CreateStructCallback StructCallback `json:"-"`
	UpdateStructCallback StructCallback `json:"-"`

	mapper *ContentMapper
}

// DefaultLanguage is applied wherever a transfer object leaves its main
// language unset.
const DefaultLanguage = "eng-GB"

// NewContentObject returns a content object with the given fields and
// application defaults filled in.
func NewContentObject(contentTypeIdentifier string, fields map[string]any) *ContentObject {
	return &ContentObject{
		ContentTypeIdentifier: contentTypeIdentifier,
		Language:              DefaultLanguage,
		Fields:                fields,
	}
}

func (o *ContentObject) Kind() string          { return "content" }
func (o *ContentObject) DesiredAction() Action { return o.Action }

// MainLanguage returns the object's language, falling back to the default.
func (o *ContentObject) MainLanguage() string {
	if o.Language == "" {
		return DefaultLanguage
	}
	return o.Language
}

// AddParentLocation registers a placement for the content. Map semantics:
// a later location with the same parent id replaces the earlier one.
func (o *ContentObject) AddParentLocation(loc *LocationObject) {
	if o.ParentLocations == nil {
		o.ParentLocations = map[int64]*LocationObject{}
	}
	o.ParentLocations[loc.ParentLocationID] = loc
}

// Mapper returns the translator bound to this object.
func (o *ContentObject) Mapper() *ContentMapper {
	if o.mapper == nil {
		o.mapper = &ContentMapper{object: o}
	}
	return o.mapper
}

func (o *ContentObject) String() string { return marshalCompact(o) }

// LocationObject describes one placement of a content item. Direct creation
// and removal are not supported at the top level; locations exist as a side
// effect of content lifecycle and are adjusted via visibility calls.
type LocationObject struct {
	ParentLocationID int64  `json:"parent_location_id"`
	RemoteID         string `json:"remote_id,omitempty"`
	Hidden           bool   `json:"hidden,omitempty"`
	Priority         int    `json:"priority,omitempty"`

	Action Action `json:"action,omitempty"`

	// Assigned by the repository after reconciliation.
	ID        int64 `json:"id,omitempty"`
	ContentID int64 `json:"content_id,omitempty"`

	mapper *LocationMapper
}

func (o *LocationObject) Kind() string          { return "location" }
func (o *LocationObject) DesiredAction() Action { return o.Action }

// Mapper returns the translator bound to this object.
func (o *LocationObject) Mapper() *LocationMapper {
	if o.mapper == nil {
		o.mapper = &LocationMapper{object: o}
	}
	return o.mapper
}
