package schedule

import "context"

// Store persists schedules locally.
type Store interface {
	// List returns every schedule ordered by name.
	List(ctx context.Context) ([]Schedule, error)

	// Get retrieves a schedule by local id. Returns ErrNotFound if absent.
	Get(ctx context.Context, localID int64) (*Schedule, error)

	// GetByRemoteID retrieves a schedule by backend id. Returns ErrNotFound if absent.
	GetByRemoteID(ctx context.Context, remoteID int64) (*Schedule, error)

	// Put inserts or replaces a schedule and sets LocalID on insert.
	Put(ctx context.Context, s *Schedule) error

	// Delete removes a schedule by local id.
	Delete(ctx context.Context, localID int64) error

	// ReplaceAll swaps the stored set for the given schedules, keeping
	// locally dirty rows that have no remote id yet.
	ReplaceAll(ctx context.Context, schedules []Schedule) error

	// SetFavorite marks exactly one schedule as favorite.
	SetFavorite(ctx context.Context, localID int64) error

	// Close releases resources.
	Close() error
}
