package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/vilaca/issue-tracker/internal/domain"
)

// FileStore is a MemoryStore whose contents survive restarts: every
// successful mutation rewrites the snapshot file. A mutation whose snapshot
// cannot be written is undone, so memory never runs ahead of the file.
// An empty store has no snapshot file.
type FileStore struct {
	*MemoryStore
	file *SnapshotFile

	// writeMu serialises mutate-then-save so snapshots are written in
	// the same order as the mutations they capture.
	writeMu sync.Mutex
}

// NewFileStore opens the snapshot at path, loading any issues it holds.
func NewFileStore(path string, logger Logger, clock Clock) (*FileStore, error) {
	s := &FileStore{
		MemoryStore: NewMemoryStore(clock),
		file:        NewSnapshotFile(path, logger),
	}

	snapshot, err := s.file.Load()
	if err != nil {
		return nil, fmt.Errorf("load snapshot %s: %w", path, err)
	}
	if snapshot != nil {
		s.restore(snapshot.Issues)
	}
	return s, nil
}

// Insert stores the issue and persists the snapshot.
func (s *FileStore) Insert(ctx context.Context, issue domain.Issue) (domain.Issue, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	prev := s.snapshot()
	created, err := s.MemoryStore.Insert(ctx, issue)
	if err != nil {
		return domain.Issue{}, err
	}
	if err := s.commit(prev); err != nil {
		return domain.Issue{}, err
	}
	return created, nil
}

// Update applies the update and persists the snapshot.
func (s *FileStore) Update(ctx context.Context, id string, update domain.Update) (domain.Issue, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	prev := s.snapshot()
	updated, err := s.MemoryStore.Update(ctx, id, update)
	if err != nil {
		return domain.Issue{}, err
	}
	if err := s.commit(prev); err != nil {
		return domain.Issue{}, err
	}
	return updated, nil
}

// Delete removes the issue and persists the snapshot.
func (s *FileStore) Delete(ctx context.Context, id string) (domain.Issue, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	prev := s.snapshot()
	deleted, err := s.MemoryStore.Delete(ctx, id)
	if err != nil {
		return domain.Issue{}, err
	}
	if err := s.commit(prev); err != nil {
		return domain.Issue{}, err
	}
	return deleted, nil
}

// Close writes a final snapshot.
func (s *FileStore) Close(ctx context.Context) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	return s.persist()
}

// commit persists the current state, restoring prev if that fails.
func (s *FileStore) commit(prev []domain.Issue) error {
	if err := s.persist(); err != nil {
		s.restore(prev)
		return err
	}
	return nil
}

func (s *FileStore) persist() error {
	issues := s.snapshot()
	if len(issues) == 0 {
		if err := s.file.Clear(); err != nil {
			return fmt.Errorf("clear snapshot: %w", err)
		}
		return nil
	}
	if err := s.file.Save(&Snapshot{Issues: issues}); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}
