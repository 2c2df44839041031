package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vilaca/issue-tracker/internal/config"
	"github.com/vilaca/issue-tracker/internal/service"
	"github.com/vilaca/issue-tracker/internal/store"
)

type discardLogger struct{}

func (discardLogger) Printf(format string, v ...interface{}) {}

func TestBuildStore(t *testing.T) {
	cfg := config.Default()

	st, err := buildStore(context.Background(), cfg, discardLogger{})
	require.NoError(t, err)
	assert.IsType(t, &store.MemoryStore{}, st)

	cfg.Store.Backend = config.BackendFile
	cfg.Store.FilePath = filepath.Join(t.TempDir(), "issues.json")
	st, err = buildStore(context.Background(), cfg, discardLogger{})
	require.NoError(t, err)
	assert.IsType(t, &store.FileStore{}, st)
}

func TestBuildServer(t *testing.T) {
	svc := service.NewIssueService(store.NewMemoryStore(nil), discardLogger{}, time.Second)
	server := buildServer(svc, discardLogger{})

	req := httptest.NewRequest(http.MethodPost, "/api/issues/apitest",
		strings.NewReader(`{"issue_title":"Title","issue_text":"text","created_by":"CB"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	server.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
	assert.Contains(t, w.Body.String(), `"issue_title":"Title"`)

	req = httptest.NewRequest(http.MethodGet, "/api/health", nil)
	w = httptest.NewRecorder()
	server.ServeHTTP(w, req)
	assert.Equal(t, `{"status":"ok"}`, w.Body.String())
}
