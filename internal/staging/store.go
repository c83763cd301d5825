// Package staging is the short-lived object storage a fetched report passes
// through between fetch and cleanup.
package staging

import (
	"context"
	"errors"
)

// ErrObjectNotFound is returned by Get when no object exists under the key.
var ErrObjectNotFound = errors.New("staged object not found")

// Object is one staged report payload.
type Object struct {
	Key         string
	Body        []byte
	ContentType string
	Metadata    map[string]string
}

// Store stages report payloads under deterministic keys. Delete of a missing
// key is not an error, which is what lets pipeline cleanup stay best-effort.
type Store interface {
	Put(ctx context.Context, obj Object) error

	Get(ctx context.Context, key string) ([]byte, error)

	Delete(ctx context.Context, key string) error
}
