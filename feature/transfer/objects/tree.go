package objects

// TreeObject arranges content objects into a hierarchy: the node's payload
// is published under ParentLocationID, and each child is published under the
// location the node ends up with. Only content payloads can carry children
// since only locations of content can act as parents.
type TreeObject struct {
	Payload  Object        `json:"payload"`
	Children []*TreeObject `json:"children,omitempty"`

	// ParentLocationID is only honored on the root node; child nodes inherit
	// their parent from the node above.
	ParentLocationID int64 `json:"parent_location_id,omitempty"`

	// MainObject marks the location created for this node as the content's
	// main location. Unset means yes.
	MainObject *bool `json:"main_object,omitempty"`

	Hidden   bool `json:"hidden,omitempty"`
	Priority int  `json:"priority,omitempty"`

	Action Action `json:"action,omitempty"`
}

// NewTreeObject returns a tree node for the given payload placed under the
// given parent location.
func NewTreeObject(parentLocationID int64, payload Object) *TreeObject {
	return &TreeObject{Payload: payload, ParentLocationID: parentLocationID}
}

func (o *TreeObject) Kind() string          { return "tree" }
func (o *TreeObject) DesiredAction() Action { return o.Action }

// IsMainObject reports whether the node's location should become the main
// location of its content. Unset means yes.
func (o *TreeObject) IsMainObject() bool {
	if o.MainObject == nil {
		return true
	}
	return *o.MainObject
}

// AddChild appends a child node.
func (o *TreeObject) AddChild(child *TreeObject) {
	o.Children = append(o.Children, child)
}
