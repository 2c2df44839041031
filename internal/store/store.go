// Package store persists issues. Implementations are selected by
// configuration: an in-memory map, the same map snapshotted to a JSON file,
// or a MongoDB collection.
package store

import (
	"context"
	"time"

	"github.com/vilaca/issue-tracker/internal/domain"
)

// Store is the document store the issue service talks to.
// Every method is a single round-trip; the store assigns ids and stamps
// created/updated timestamps itself.
type Store interface {
	// Insert persists a new issue and returns it with id and timestamps set.
	Insert(ctx context.Context, issue domain.Issue) (domain.Issue, error)

	// Find returns all issues matching the filter, in insertion order.
	Find(ctx context.Context, filter domain.Filter) ([]domain.Issue, error)

	// Update applies a sparse update to the issue with the given id and
	// refreshes its updated timestamp. Returns domain.ErrNotFound if no
	// such issue exists or the id is malformed.
	Update(ctx context.Context, id string, update domain.Update) (domain.Issue, error)

	// Delete removes the issue with the given id and returns it.
	// Returns domain.ErrNotFound if no such issue exists or the id is malformed.
	Delete(ctx context.Context, id string) (domain.Issue, error)

	// Ping checks that the store is reachable.
	Ping(ctx context.Context) error

	// Close releases the store's resources.
	Close(ctx context.Context) error
}

// Logger interface for logging operations.
type Logger interface {
	Printf(format string, v ...interface{})
}

// Clock returns the current time. Stores take one so tests can pin timestamps.
type Clock func() time.Time

func (c Clock) now() time.Time {
	if c == nil {
		return domain.Timestamp(time.Now())
	}
	return domain.Timestamp(c())
}
