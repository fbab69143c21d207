// Package technicians provides the technician registry, including the
// provisional-registration mechanism: a technician referenced by name before
// they ever message the bot is created with a placeholder handle, which is
// rebound to a real handle on their first inbound message.
package technicians

import (
	"context"
	"strings"
	"time"
)

// placeholderPrefix marks handles of auto-provisioned technicians that have
// not yet sent a message.
const placeholderPrefix = "pending:"

// Technician is a registered repair technician.
type Technician struct {
	ID        int64
	Name      string
	Handle    string
	Active    bool
	CreatedAt time.Time
}

// IsPlaceholder reports whether the technician still carries a provisional
// handle.
func (t Technician) IsPlaceholder() bool {
	return strings.HasPrefix(t.Handle, placeholderPrefix)
}

// PlaceholderHandle derives the provisional handle for a technician name.
func PlaceholderHandle(name string) string {
	slug := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), " ", "_")
	return placeholderPrefix + slug
}

// Store is the persistence interface for technicians.
type Store interface {
	// FindByName matches a technician by case-insensitive exact name.
	// Returns apperr.NotFound when absent.
	FindByName(ctx context.Context, name string) (Technician, error)

	// FindByHandle matches a technician by exact contact handle.
	// Returns apperr.NotFound when absent.
	FindByHandle(ctx context.Context, handle string) (Technician, error)

	// Create inserts a technician with the given handle.
	Create(ctx context.Context, name, handle string) (Technician, error)

	// OldestPlaceholder returns the oldest technician still carrying a
	// placeholder handle created after the cutoff.
	// Returns apperr.NotFound when none is pending.
	OldestPlaceholder(ctx context.Context, createdAfter time.Time) (Technician, error)

	// UpdateHandle rebinds a technician's contact handle.
	UpdateHandle(ctx context.Context, id int64, handle string) error
}
