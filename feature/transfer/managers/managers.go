package managers

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"content-transfer/core/repository"
	"content-transfer/feature/transfer/objects"
)

// Manager is the reconciliation contract shared by all type managers. The
// dispatch layer only ever calls these two methods; Find, Create and Update
// stay on the concrete managers for callers that need finer control.
type Manager interface {
	CreateOrUpdate(ctx context.Context, obj objects.Object) error
	Remove(ctx context.Context, obj objects.Object) (bool, error)
}

// NotFoundError wraps the repository's not-found sentinel with the kind and
// identifying keys that were checked. errors.Is(err, repository.ErrNotFound)
// holds for every NotFoundError.
type NotFoundError struct {
	Kind string
	Keys map[string]string
}

func (e *NotFoundError) Error() string {
	pairs := make([]string, 0, len(e.Keys))
	for k, v := range e.Keys {
		pairs = append(pairs, fmt.Sprintf("%s=%q", k, v))
	}
	sort.Strings(pairs)
	return fmt.Sprintf("%s not found by %s", e.Kind, strings.Join(pairs, ", "))
}

func (e *NotFoundError) Unwrap() error { return repository.ErrNotFound }

func notFound(kind string, keys map[string]string) error {
	return &NotFoundError{Kind: kind, Keys: keys}
}

func itoa(v int64) string { return strconv.FormatInt(v, 10) }
