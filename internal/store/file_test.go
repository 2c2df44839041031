package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vilaca/issue-tracker/internal/domain"
)

type mockLogger struct {
	messages []string
}

func (m *mockLogger) Printf(format string, v ...interface{}) {
	m.messages = append(m.messages, format)
}

func TestFileStore_PersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "issues.json")

	s, err := NewFileStore(path, &mockLogger{}, nil)
	require.NoError(t, err)
	kept, err := s.Insert(ctx, newIssue("test", "Kept"))
	require.NoError(t, err)
	removed, err := s.Insert(ctx, newIssue("test", "Removed"))
	require.NoError(t, err)
	status := "in progress"
	_, err = s.Update(ctx, kept.ID, domain.Update{StatusText: &status})
	require.NoError(t, err)
	_, err = s.Delete(ctx, removed.ID)
	require.NoError(t, err)

	reopened, err := NewFileStore(path, &mockLogger{}, nil)
	require.NoError(t, err)
	issues, err := reopened.Find(ctx, projectFilter(t, "test", nil))

	require.NoError(t, err)
	require.Len(t, issues, 1)
	assert.Equal(t, kept.ID, issues[0].ID)
	assert.Equal(t, "in progress", issues[0].StatusText)
	assert.True(t, issues[0].CreatedOn.Equal(kept.CreatedOn))
}

func TestFileStore_FailedMutationDoesNotWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "issues.json")
	s, err := NewFileStore(path, &mockLogger{}, nil)
	require.NoError(t, err)

	_, err = s.Delete(context.Background(), "6542bcb70680d11cd05fb050")

	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}

func TestFileStore_RollsBackWhenSnapshotFails(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "issues.json")
	s, err := NewFileStore(path, &mockLogger{}, nil)
	require.NoError(t, err)
	kept, err := s.Insert(ctx, newIssue("test", "Kept"))
	require.NoError(t, err)

	// A directory in place of the temp file makes every save fail.
	require.NoError(t, os.Mkdir(path+".tmp", 0755))

	_, err = s.Insert(ctx, newIssue("test", "Lost"))
	assert.ErrorContains(t, err, "save snapshot")

	status := "in progress"
	_, err = s.Update(ctx, kept.ID, domain.Update{StatusText: &status})
	assert.ErrorContains(t, err, "save snapshot")

	issues, err := s.Find(ctx, projectFilter(t, "test", nil))
	require.NoError(t, err)
	require.Len(t, issues, 1)
	assert.Equal(t, kept.ID, issues[0].ID)
	assert.Equal(t, "", issues[0].StatusText)
	assert.True(t, issues[0].UpdatedOn.Equal(kept.UpdatedOn))

	// The rolled-back issue can still be updated once saving works again.
	require.NoError(t, os.Remove(path+".tmp"))
	_, err = s.Update(ctx, kept.ID, domain.Update{StatusText: &status})
	require.NoError(t, err)
	reopened, err := NewFileStore(path, &mockLogger{}, nil)
	require.NoError(t, err)
	issues, err = reopened.Find(ctx, projectFilter(t, "test", nil))
	require.NoError(t, err)
	require.Len(t, issues, 1)
	assert.Equal(t, "in progress", issues[0].StatusText)
}

func TestFileStore_DeletingLastIssueClearsSnapshot(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "issues.json")
	s, err := NewFileStore(path, &mockLogger{}, nil)
	require.NoError(t, err)
	issue, err := s.Insert(ctx, newIssue("test", "Only"))
	require.NoError(t, err)
	_, err = os.Stat(path)
	require.NoError(t, err)

	_, err = s.Delete(ctx, issue.ID)
	require.NoError(t, err)

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
	require.NoError(t, s.Close(ctx))
	_, statErr = os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))

	reopened, err := NewFileStore(path, &mockLogger{}, nil)
	require.NoError(t, err)
	issues, err := reopened.Find(ctx, projectFilter(t, "test", nil))
	require.NoError(t, err)
	assert.Empty(t, issues)
}

func TestNewFileStore_CorruptSnapshot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "issues.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))
	logger := &mockLogger{}

	_, err := NewFileStore(path, logger, nil)

	assert.Error(t, err)
	assert.NotEmpty(t, logger.messages)
}

func TestSnapshotFile_Clear(t *testing.T) {
	path := filepath.Join(t.TempDir(), "issues.json")
	f := NewSnapshotFile(path, &mockLogger{})
	require.NoError(t, f.Save(&Snapshot{Issues: []domain.Issue{{ID: "a", Project: "p"}}}))

	loaded, err := f.Load()
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Len(t, loaded.Issues, 1)
	assert.False(t, loaded.Timestamp.IsZero())

	require.NoError(t, f.Clear())
	loaded, err = f.Load()
	require.NoError(t, err)
	assert.Nil(t, loaded)

	// Clearing twice is fine.
	require.NoError(t, f.Clear())
}
