package objects

import (
	"encoding/json"
	"fmt"

	"content-transfer/core/repository"
)

// Action tells the adapter how to reconcile an object against the
// repository. The zero value is CreateOrUpdate.
type Action int

const (
	// ActionCreateOrUpdate upserts the object: update when its identifying
	// key matches an existing entity, create otherwise.
	ActionCreateOrUpdate Action = iota
	// ActionDelete removes the entity if present.
	ActionDelete
	// ActionSkip leaves the object out entirely: no repository call, a nil
	// slot in the response.
	ActionSkip
)

func (a Action) String() string {
	switch a {
	case ActionCreateOrUpdate:
		return "create_or_update"
	case ActionDelete:
		return "delete"
	case ActionSkip:
		return "skip"
	default:
		return fmt.Sprintf("action(%d)", int(a))
	}
}

// ParseAction converts the wire spelling of an action. The empty string maps
// to CreateOrUpdate.
func ParseAction(s string) (Action, error) {
	switch s {
	case "", "create_or_update":
		return ActionCreateOrUpdate, nil
	case "delete":
		return ActionDelete, nil
	case "skip":
		return ActionSkip, nil
	default:
		return 0, fmt.Errorf("unknown action %q", s)
	}
}

// MarshalText implements encoding.TextMarshaler for JSON/YAML output.
func (a Action) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler for JSON/YAML input.
func (a *Action) UnmarshalText(text []byte) error {
	parsed, err := ParseAction(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// Object is implemented by every transfer object variant, the tree wrapper
// included.
type Object interface {
	// Kind returns the stable variant name used in logs and batch files.
	Kind() string
	// DesiredAction returns how the adapter should reconcile the object.
	DesiredAction() Action
}

// StructCallback is an escape hatch invoked with the fully populated native
// create or update struct immediately before the repository call, allowing
// arbitrary overrides.
type StructCallback func(s any)

// marshalCompact is a small helper for String methods.
func marshalCompact(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%+v", v)
	}
	return string(data)
}

// fieldsForRepository reshapes a generic field map into the repository's
// per-language representation. A plain scalar lands under mainLanguage; a
// map value is taken as language code -> value.
func fieldsForRepository(fields map[string]any, mainLanguage string) repository.Fields {
	if len(fields) == 0 {
		return nil
	}
	out := make(repository.Fields, len(fields))
	for ident, value := range fields {
		switch byLang := value.(type) {
		case map[string]any:
			langs := make(map[string]any, len(byLang))
			for code, v := range byLang {
				langs[code] = v
			}
			out[ident] = langs
		case map[string]string:
			langs := make(map[string]any, len(byLang))
			for code, v := range byLang {
				langs[code] = v
			}
			out[ident] = langs
		default:
			out[ident] = map[string]any{mainLanguage: value}
		}
	}
	return out
}
