package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/vilaca/issue-tracker/internal/domain"
	"github.com/vilaca/issue-tracker/internal/store"
)

// DefaultStoreTimeout bounds a single store round-trip.
const DefaultStoreTimeout = 10 * time.Second

// Logger interface for logging operations.
type Logger interface {
	Printf(format string, v ...interface{})
}

// IssueService handles business logic for issue operations.
// Follows Single Responsibility Principle - validates input and maps it to store calls.
type IssueService struct {
	store   store.Store
	logger  Logger
	timeout time.Duration
}

// NewIssueService creates a new issue service backed by st.
// A non-positive timeout uses DefaultStoreTimeout.
func NewIssueService(st store.Store, logger Logger, timeout time.Duration) *IssueService {
	if timeout <= 0 {
		timeout = DefaultStoreTimeout
	}
	return &IssueService{
		store:   st,
		logger:  logger,
		timeout: timeout,
	}
}

// List returns the project's issues matching every query parameter.
// An empty result is not an error.
func (s *IssueService) List(ctx context.Context, project string, query map[string][]string) ([]domain.Issue, error) {
	filter, ok := domain.NewFilter(project, query)
	if !ok {
		return nil, nil
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	issues, err := s.store.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list issues for %s: %w", project, err)
	}
	return issues, nil
}

// Create validates fields and stores a new issue in project.
func (s *IssueService) Create(ctx context.Context, project string, fields domain.Fields) (domain.Issue, error) {
	if !fields.Truthy(domain.FieldTitle) || !fields.Truthy(domain.FieldText) || !fields.Truthy(domain.FieldCreatedBy) {
		return domain.Issue{}, domain.ErrRequiredFieldsMissing
	}

	issue, err := newIssue(project, fields)
	if err != nil {
		return domain.Issue{}, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	created, err := s.store.Insert(ctx, issue)
	if err != nil {
		return domain.Issue{}, fmt.Errorf("create issue in %s: %w", project, err)
	}

	s.logger.Printf("[IssueService] Created issue %s in project %s", created.ID, project)
	return created, nil
}

// Update applies the sent fields to the issue named by fields["_id"].
// It returns the id as the client sent it, so callers can echo it back even
// on failure.
func (s *IssueService) Update(ctx context.Context, fields domain.Fields) (string, error) {
	if !fields.Truthy(domain.FieldID) {
		return "", domain.ErrMissingID
	}
	id := fields.ID()

	if !anySent(fields, domain.UpdatableFields) {
		return id, domain.ErrNoUpdateFields
	}

	update, err := buildUpdate(fields)
	if err != nil {
		return id, fmt.Errorf("%w: %w", domain.ErrCouldNotUpdate, err)
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if _, err := s.store.Update(ctx, id, update); err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			s.logger.Printf("[IssueService] ERROR: update %s: %v", id, err)
		}
		return id, fmt.Errorf("%w: %w", domain.ErrCouldNotUpdate, err)
	}

	s.logger.Printf("[IssueService] Updated issue %s", id)
	return id, nil
}

// Delete removes the issue named by fields["_id"].
// Unknown and malformed ids yield domain.ErrCouldNotDelete; any other store
// failure is returned unwrapped by that sentinel.
func (s *IssueService) Delete(ctx context.Context, fields domain.Fields) (string, error) {
	if !fields.Truthy(domain.FieldID) {
		return "", domain.ErrMissingID
	}
	id := fields.ID()

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if _, err := s.store.Delete(ctx, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return id, fmt.Errorf("%w: %w", domain.ErrCouldNotDelete, err)
		}
		return id, fmt.Errorf("delete issue %s: %w", id, err)
	}

	s.logger.Printf("[IssueService] Deleted issue %s", id)
	return id, nil
}

// Ping reports whether the backing store is reachable.
func (s *IssueService) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	return s.store.Ping(ctx)
}

// newIssue builds an issue from create fields, applying defaults:
// open is true and assigned_to/status_text are empty unless sent.
func newIssue(project string, fields domain.Fields) (domain.Issue, error) {
	issue := domain.Issue{Project: project, Open: true}

	strs := []struct {
		name string
		dst  *string
	}{
		{domain.FieldTitle, &issue.Title},
		{domain.FieldText, &issue.Text},
		{domain.FieldCreatedBy, &issue.CreatedBy},
		{domain.FieldAssignedTo, &issue.AssignedTo},
		{domain.FieldStatusText, &issue.StatusText},
	}
	for _, f := range strs {
		v, err := fields.String(f.name)
		if err != nil {
			return domain.Issue{}, err
		}
		*f.dst = v
	}

	if fields.Sent(domain.FieldOpen) {
		open, err := domain.CastBool(fields[domain.FieldOpen])
		if err != nil {
			return domain.Issue{}, fmt.Errorf("%s: %w", domain.FieldOpen, err)
		}
		issue.Open = open
	}
	return issue, nil
}

// buildUpdate collects every sent updatable field. A field is sent when it
// is present, non-null and not an empty string.
func buildUpdate(fields domain.Fields) (domain.Update, error) {
	var update domain.Update

	strs := []struct {
		name string
		dst  **string
	}{
		{domain.FieldTitle, &update.Title},
		{domain.FieldText, &update.Text},
		{domain.FieldCreatedBy, &update.CreatedBy},
		{domain.FieldAssignedTo, &update.AssignedTo},
		{domain.FieldStatusText, &update.StatusText},
	}
	for _, f := range strs {
		if !fields.Sent(f.name) {
			continue
		}
		v, err := fields.String(f.name)
		if err != nil {
			return domain.Update{}, err
		}
		*f.dst = &v
	}

	if fields.Sent(domain.FieldOpen) {
		open, err := domain.CastBool(fields[domain.FieldOpen])
		if err != nil {
			return domain.Update{}, fmt.Errorf("%s: %w", domain.FieldOpen, err)
		}
		update.Open = &open
	}
	return update, nil
}

func anySent(fields domain.Fields, names []string) bool {
	for _, name := range names {
		if fields.Sent(name) {
			return true
		}
	}
	return false
}
