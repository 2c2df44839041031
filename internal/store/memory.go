package store

import (
	"context"
	"fmt"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/vilaca/issue-tracker/internal/domain"
)

// MemoryStore keeps issues in process memory.
// Ids are ObjectID hex strings so they look the same as the mongo backend's.
type MemoryStore struct {
	mu     sync.RWMutex
	issues map[string]domain.Issue
	order  []string // ids in insertion order
	clock  Clock
}

// NewMemoryStore creates an empty in-memory store. A nil clock uses time.Now.
func NewMemoryStore(clock Clock) *MemoryStore {
	return &MemoryStore{
		issues: make(map[string]domain.Issue),
		clock:  clock,
	}
}

// Insert stores a copy of issue under a freshly generated id.
func (s *MemoryStore) Insert(ctx context.Context, issue domain.Issue) (domain.Issue, error) {
	if err := ctx.Err(); err != nil {
		return domain.Issue{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.now()
	issue.ID = primitive.NewObjectID().Hex()
	issue.CreatedOn = now
	issue.UpdatedOn = now

	s.issues[issue.ID] = issue
	s.order = append(s.order, issue.ID)
	return issue, nil
}

// Find returns the issues matching filter in insertion order.
func (s *MemoryStore) Find(ctx context.Context, filter domain.Filter) ([]domain.Issue, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []domain.Issue
	for _, id := range s.order {
		issue := s.issues[id]
		if filter.Matches(issue) {
			result = append(result, issue)
		}
	}
	return result, nil
}

// Update merges update into the stored issue and refreshes its updated timestamp.
// An empty update leaves the issue, timestamp included, untouched.
func (s *MemoryStore) Update(ctx context.Context, id string, update domain.Update) (domain.Issue, error) {
	if err := ctx.Err(); err != nil {
		return domain.Issue{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	issue, ok := s.issues[id]
	if !ok {
		return domain.Issue{}, fmt.Errorf("update %q: %w", id, domain.ErrNotFound)
	}

	if update.IsEmpty() {
		return issue, nil
	}

	issue.Apply(update)
	if now := s.clock.now(); now.After(issue.UpdatedOn) {
		issue.UpdatedOn = now
	}
	s.issues[id] = issue
	return issue, nil
}

// Delete removes the issue with the given id.
func (s *MemoryStore) Delete(ctx context.Context, id string) (domain.Issue, error) {
	if err := ctx.Err(); err != nil {
		return domain.Issue{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	issue, ok := s.issues[id]
	if !ok {
		return domain.Issue{}, fmt.Errorf("delete %q: %w", id, domain.ErrNotFound)
	}

	delete(s.issues, id)
	for i, existing := range s.order {
		if existing == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return issue, nil
}

// Ping always succeeds for the in-memory store.
func (s *MemoryStore) Ping(ctx context.Context) error {
	return ctx.Err()
}

// Close is a no-op.
func (s *MemoryStore) Close(ctx context.Context) error {
	return nil
}

// snapshot returns all issues in insertion order.
func (s *MemoryStore) snapshot() []domain.Issue {
	s.mu.RLock()
	defer s.mu.RUnlock()

	issues := make([]domain.Issue, 0, len(s.order))
	for _, id := range s.order {
		issues = append(issues, s.issues[id])
	}
	return issues
}

// restore replaces the store's contents with issues.
func (s *MemoryStore) restore(issues []domain.Issue) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.issues = make(map[string]domain.Issue, len(issues))
	s.order = s.order[:0]
	for _, issue := range issues {
		if _, dup := s.issues[issue.ID]; dup || issue.ID == "" {
			continue
		}
		s.issues[issue.ID] = issue
		s.order = append(s.order, issue.ID)
	}
}
