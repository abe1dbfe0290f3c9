// Package content defines the capability contract for reading the served
// content tree. Implementations are pure queries: the orchestrator never
// expects a provider to carry state between calls.
package content

import (
	"context"
	"errors"

	"github.com/viant/meshgopher/model"
)

// Common provider errors. Sentinel variables let the orchestrator map
// failure classes to user-visible messages via errors.Is instead of
// brittle string comparisons.
var (
	// ErrNotFound is returned when the requested path does not exist.
	ErrNotFound = errors.New("content: not found")

	// ErrNotAFile is returned by Read when the path names a directory.
	ErrNotAFile = errors.New("content: not a file")

	// ErrAccessDenied is returned for paths escaping the content root or
	// blocked by the access policy.
	ErrAccessDenied = errors.New("content: access denied")
)

// Provider exposes a hierarchical content tree. Paths are normalized and
// root-relative ("/", "/documents/readme.txt"); traversal above the root
// is rejected with ErrAccessDenied.
type Provider interface {
	// List returns the ordered entries of a directory: directories first,
	// then files, each group sorted case-insensitively by name.
	List(ctx context.Context, path string) ([]model.Entry, error)

	// Read returns the text content of a file.
	Read(ctx context.Context, path string) (string, error)
}
