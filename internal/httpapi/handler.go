package httpapi

import (
	"context"
	"errors"
	"net/http"

	"github.com/vilaca/issue-tracker/internal/domain"
)

// Logger interface for logging operations (Interface Segregation Principle).
type Logger interface {
	Printf(format string, v ...interface{})
}

// IssueService interface for issue operations (Dependency Inversion Principle).
type IssueService interface {
	List(ctx context.Context, project string, query map[string][]string) ([]domain.Issue, error)
	Create(ctx context.Context, project string, fields domain.Fields) (domain.Issue, error)
	Update(ctx context.Context, fields domain.Fields) (string, error)
	Delete(ctx context.Context, fields domain.Fields) (string, error)
	Ping(ctx context.Context) error
}

// Handler handles HTTP requests for the issue API.
// Each handler method has a Single Responsibility (SRP).
type Handler struct {
	service IssueService
	logger  Logger
}

// HandlerConfig holds configuration for creating a new Handler
type HandlerConfig struct {
	Service IssueService
	Logger  Logger
}

// NewHandler creates a new Handler with injected dependencies.
func NewHandler(cfg HandlerConfig) *Handler {
	return &Handler{
		service: cfg.Service,
		logger:  cfg.Logger,
	}
}

// RegisterRoutes registers all HTTP routes.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/health", h.handleHealth)
	mux.HandleFunc("GET /api/issues/{project}", h.handleList)
	mux.HandleFunc("POST /api/issues/{project}", h.handleCreate)
	mux.HandleFunc("PUT /api/issues/{project}", h.handleUpdate)
	mux.HandleFunc("DELETE /api/issues/{project}", h.handleDelete)
}

// handleHealth reports whether the store is reachable.
func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Ping(r.Context()); err != nil {
		h.logger.Printf("[Health] ERROR: store unavailable: %v", err)
		h.writeJSON(w, http.StatusServiceUnavailable, statusResponse{Status: "unavailable"})
		return
	}
	h.writeJSON(w, http.StatusOK, statusResponse{Status: "ok"})
}

// handleList returns the project's issues filtered by the query string.
// No matches yield [{}], never [].
func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	project := r.PathValue("project")

	issues, err := h.service.List(r.Context(), project, r.URL.Query())
	if err != nil {
		h.internalError(w, "list", err)
		return
	}

	if len(issues) == 0 {
		h.writeJSON(w, http.StatusOK, []struct{}{{}})
		return
	}

	response := make([]domain.IssueResponse, 0, len(issues))
	for _, issue := range issues {
		response = append(response, issue.Response())
	}
	h.writeJSON(w, http.StatusOK, response)
}

// handleCreate stores a new issue in the project.
func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	project := r.PathValue("project")
	fields := h.readFields(r)

	issue, err := h.service.Create(r.Context(), project, fields)
	switch {
	case errors.Is(err, domain.ErrRequiredFieldsMissing):
		h.writeJSON(w, http.StatusOK, errorResponse{Error: domain.ErrRequiredFieldsMissing.Error()})
	case errors.Is(err, domain.ErrInvalidValue):
		h.writeJSON(w, http.StatusOK, errorResponse{Error: domain.ErrInvalidValue.Error()})
	case err != nil:
		h.internalError(w, "create", err)
	default:
		h.writeJSON(w, http.StatusOK, issue.Response())
	}
}

// handleUpdate applies a sparse update to the issue named by _id.
func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	fields := h.readFields(r)

	id, err := h.service.Update(r.Context(), fields)
	switch {
	case errors.Is(err, domain.ErrMissingID):
		h.writeJSON(w, http.StatusOK, errorResponse{Error: domain.ErrMissingID.Error()})
	case errors.Is(err, domain.ErrNoUpdateFields):
		h.writeJSON(w, http.StatusOK, errorResponse{Error: domain.ErrNoUpdateFields.Error(), ID: id})
	case err != nil:
		h.writeJSON(w, http.StatusOK, errorResponse{Error: domain.ErrCouldNotUpdate.Error(), ID: id})
	default:
		h.writeJSON(w, http.StatusOK, resultResponse{Result: "successfully updated", ID: id})
	}
}

// handleDelete removes the issue named by _id.
func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	fields := h.readFields(r)

	id, err := h.service.Delete(r.Context(), fields)
	switch {
	case errors.Is(err, domain.ErrMissingID):
		h.writeJSON(w, http.StatusOK, errorResponse{Error: domain.ErrMissingID.Error()})
	case errors.Is(err, domain.ErrCouldNotDelete):
		h.writeJSON(w, http.StatusOK, errorResponse{Error: domain.ErrCouldNotDelete.Error(), ID: id})
	case err != nil:
		h.internalError(w, "delete", err)
	default:
		h.writeJSON(w, http.StatusOK, resultResponse{Result: "successfully deleted", ID: id})
	}
}

func (h *Handler) internalError(w http.ResponseWriter, op string, err error) {
	h.logger.Printf("[IssuesAPI] ERROR: %s: %v", op, err)
	h.writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal server error"})
}
