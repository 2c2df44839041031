package store

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/vilaca/issue-tracker/internal/domain"
)

// Snapshot represents the structure of a persisted issue collection.
type Snapshot struct {
	Timestamp time.Time      `json:"timestamp"`
	Issues    []domain.Issue `json:"issues"`
}

// SnapshotFile reads and writes issue snapshots as JSON.
// Follows Single Responsibility Principle - only handles file persistence.
type SnapshotFile struct {
	filePath string
	mu       sync.RWMutex
	logger   Logger
}

// NewSnapshotFile creates a snapshot file handle. Nothing is read or written yet.
func NewSnapshotFile(filePath string, logger Logger) *SnapshotFile {
	return &SnapshotFile{
		filePath: filePath,
		logger:   logger,
	}
}

// Load loads the snapshot from the file.
// Returns nil if the file doesn't exist.
func (f *SnapshotFile) Load() (*Snapshot, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	data, err := os.ReadFile(f.filePath)
	if os.IsNotExist(err) {
		f.logger.Printf("Snapshot: No snapshot file found at %s", f.filePath)
		return nil, nil
	}
	if err != nil {
		f.logger.Printf("Snapshot: ERROR: Failed to read snapshot file: %v", err)
		return nil, err
	}

	var snapshot Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		f.logger.Printf("Snapshot: ERROR: Failed to parse snapshot file: %v", err)
		return nil, err
	}

	f.logger.Printf("Snapshot: Loaded %d issue(s) from %s (saved %s)",
		len(snapshot.Issues), f.filePath, snapshot.Timestamp.Format(time.RFC3339))

	return &snapshot, nil
}

// Save writes the snapshot to the file.
func (f *SnapshotFile) Save(snapshot *Snapshot) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	snapshot.Timestamp = time.Now()

	// Marshal to JSON with indentation for readability
	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		f.logger.Printf("Snapshot: ERROR: Failed to marshal snapshot: %v", err)
		return err
	}

	dir := filepath.Dir(f.filePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		f.logger.Printf("Snapshot: ERROR: Failed to create directory %s: %v", dir, err)
		return err
	}

	// Write to temporary file first (atomic write)
	tempFile := f.filePath + ".tmp"
	if err := os.WriteFile(tempFile, data, 0644); err != nil {
		f.logger.Printf("Snapshot: ERROR: Failed to write temp file: %v", err)
		return err
	}

	if err := os.Rename(tempFile, f.filePath); err != nil {
		f.logger.Printf("Snapshot: ERROR: Failed to rename temp file: %v", err)
		os.Remove(tempFile)
		return err
	}

	return nil
}

// Clear removes the snapshot file.
func (f *SnapshotFile) Clear() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := os.Remove(f.filePath); err != nil && !os.IsNotExist(err) {
		f.logger.Printf("Snapshot: ERROR: Failed to remove snapshot file: %v", err)
		return err
	}

	f.logger.Printf("Snapshot: Cleared %s", f.filePath)
	return nil
}
