package transfer

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/minio/minio-go/v7"
	"gopkg.in/yaml.v3"

	"content-transfer/core/storage"
	"content-transfer/feature/transfer/objects"
)

// Loader decodes batch definition files into transfer objects. A batch file
// is a JSON or YAML list of entries, each carrying a "type" discriminator
// next to the object's own fields:
//
//	- type: content
//	  content_type_identifier: article
//	  remote_id: article_1
//	  fields:
//	    title: Hello
//
// Decoding normalizes every entry through JSON, so both formats share one
// set of field names and one set of validation errors.
type Loader struct{}

// NewLoader creates a batch loader.
func NewLoader() *Loader {
	return &Loader{}
}

// LoadFile reads a batch definition from the local filesystem. The format
// follows the file extension, with a content sniff as fallback.
func (l *Loader) LoadFile(path string) ([]objects.Object, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return l.Decode(data, isYAMLPath(path))
}

// LoadBucketObject reads a batch definition from an S3-compatible bucket.
func (l *Loader) LoadBucketObject(ctx context.Context, client storage.Client, bucket, object string) ([]objects.Object, error) {
	reader, err := client.GetObject(ctx, bucket, object, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("read %s/%s: %w", bucket, object, err)
	}
	defer reader.Close()

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("read %s/%s: %w", bucket, object, err)
	}
	return l.Decode(data, isYAMLPath(object))
}

// Decode turns raw batch bytes into transfer objects.
func (l *Loader) Decode(data []byte, asYAML bool) ([]objects.Object, error) {
	var entries []map[string]any
	if asYAML || looksLikeYAML(data) {
		if err := yaml.Unmarshal(data, &entries); err != nil {
			return nil, &objects.InvalidDataStructureError{Reason: fmt.Sprintf("not a YAML list of entries: %v", err)}
		}
	} else {
		if err := json.Unmarshal(data, &entries); err != nil {
			return nil, &objects.InvalidDataStructureError{Reason: fmt.Sprintf("not a JSON array of entries: %v", err)}
		}
	}

	batch := make([]objects.Object, 0, len(entries))
	for i, entry := range entries {
		obj, err := decodeEntry(entry)
		if err != nil {
			return nil, fmt.Errorf("entry %d: %w", i, err)
		}
		batch = append(batch, obj)
	}
	return batch, nil
}

// decodeEntry coerces one raw entry into its declared variant. The entry's
// fields minus the discriminator are re-encoded as JSON and unmarshaled into
// the typed object, so validation mistakes surface as typed errors rather
// than half-filled objects.
func decodeEntry(raw map[string]any) (objects.Object, error) {
	kindVal, ok := raw["type"]
	if !ok {
		return nil, &objects.InvalidDataStructureError{Reason: "entry carries no type"}
	}
	kind, ok := kindVal.(string)
	if !ok {
		return nil, &objects.InvalidDataStructureError{Reason: fmt.Sprintf("entry type is %T, not a string", kindVal)}
	}

	fields := make(map[string]any, len(raw))
	for k, v := range raw {
		if k != "type" {
			fields[k] = v
		}
	}

	if kind == "tree" {
		return decodeTree(fields)
	}

	var obj objects.Object
	switch kind {
	case "content":
		obj = &objects.ContentObject{}
	case "content_type":
		obj = &objects.ContentTypeObject{}
	case "language":
		obj = &objects.LanguageObject{}
	case "location":
		obj = &objects.LocationObject{}
	case "user":
		obj = &objects.UserObject{}
	case "user_group":
		obj = &objects.UserGroupObject{}
	default:
		return nil, &objects.MalformedObjectDataError{Kind: kind, Reason: "unknown object type"}
	}
	if err := coerce(fields, obj); err != nil {
		return nil, &objects.MalformedObjectDataError{Kind: kind, Reason: err.Error()}
	}
	return obj, nil
}

// decodeTree builds a tree node: the payload is itself a typed entry and
// children recurse.
func decodeTree(fields map[string]any) (*objects.TreeObject, error) {
	var shell struct {
		Payload          map[string]any   `json:"payload"`
		Children         []map[string]any `json:"children"`
		ParentLocationID int64            `json:"parent_location_id"`
		MainObject       *bool            `json:"main_object"`
		Hidden           bool             `json:"hidden"`
		Priority         int              `json:"priority"`
		Action           objects.Action   `json:"action"`
	}
	if err := coerce(fields, &shell); err != nil {
		return nil, &objects.MalformedObjectDataError{Kind: "tree", Reason: err.Error()}
	}
	if shell.Payload == nil {
		return nil, &objects.MalformedObjectDataError{Kind: "tree", Field: "payload", Reason: "missing"}
	}
	payload, err := decodeEntry(shell.Payload)
	if err != nil {
		return nil, err
	}

	node := &objects.TreeObject{
		Payload:          payload,
		ParentLocationID: shell.ParentLocationID,
		MainObject:       shell.MainObject,
		Hidden:           shell.Hidden,
		Priority:         shell.Priority,
		Action:           shell.Action,
	}
	for _, rawChild := range shell.Children {
		child, err := decodeTree(rawChild)
		if err != nil {
			return nil, err
		}
		node.AddChild(child)
	}
	return node, nil
}

func coerce(fields map[string]any, target any) error {
	data, err := json.Marshal(fields)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, target)
}

func isYAMLPath(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	default:
		return false
	}
}

// looksLikeYAML sniffs undeclared content: JSON batches always open with a
// bracket.
func looksLikeYAML(data []byte) bool {
	trimmed := strings.TrimLeft(string(data), " \t\r\n")
	return trimmed != "" && trimmed[0] != '[' && trimmed[0] != '{'
}
