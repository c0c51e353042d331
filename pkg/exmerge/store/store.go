// Package store holds the single uploaded template.
package store

import (
	"context"
	"errors"

	"github.com/ukaji3/exmerge-go/pkg/exmerge/models"
)

// ErrNotFound indicates no template is currently stored.
var ErrNotFound = errors.New("template not found")

// Store holds at most one template. Implementations must make Set, Get and
// Clear mutually exclusive so a reader never sees a half-replaced record.
type Store interface {
	// Set stores tpl, replacing any previous template.
	Set(ctx context.Context, tpl models.Template) error
	// Get returns the stored template or ErrNotFound.
	Get(ctx context.Context) (models.Template, error)
	// Clear removes the stored template. Clearing an empty store is not an error.
	Clear(ctx context.Context) error
	// Has reports whether a template is stored.
	Has(ctx context.Context) (bool, error)
	// Ping checks that the backend is reachable.
	Ping(ctx context.Context) error
}
