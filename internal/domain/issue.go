package domain

import "time"

// Field names as they appear in request bodies, query strings and responses.
const (
	FieldID         = "_id"
	FieldProject    = "project"
	FieldTitle      = "issue_title"
	FieldText       = "issue_text"
	FieldCreatedBy  = "created_by"
	FieldAssignedTo = "assigned_to"
	FieldStatusText = "status_text"
	FieldOpen       = "open"
	FieldCreatedOn  = "created_on"
	FieldUpdatedOn  = "updated_on"
)

// UpdatableFields lists the fields a client may change with an update.
var UpdatableFields = []string{
	FieldTitle,
	FieldText,
	FieldCreatedBy,
	FieldAssignedTo,
	FieldStatusText,
	FieldOpen,
}

// timestampLayout renders timestamps with millisecond precision, matching
// what the document store keeps.
const timestampLayout = "2006-01-02T15:04:05.000Z07:00"

// Issue represents a tracked issue within a project.
// This is a domain model (part of business logic).
type Issue struct {
	ID         string    `json:"_id"`
	Project    string    `json:"project"`
	Title      string    `json:"issue_title"`
	Text       string    `json:"issue_text"`
	CreatedBy  string    `json:"created_by"`
	AssignedTo string    `json:"assigned_to"`
	StatusText string    `json:"status_text"`
	Open       bool      `json:"open"`
	CreatedOn  time.Time `json:"created_on"`
	UpdatedOn  time.Time `json:"updated_on"`
}

// IssueResponse is the client-facing representation of an issue.
// Field order is part of the HTTP contract.
type IssueResponse struct {
	ID         string `json:"_id"`
	Title      string `json:"issue_title"`
	Text       string `json:"issue_text"`
	CreatedOn  string `json:"created_on"`
	UpdatedOn  string `json:"updated_on"`
	CreatedBy  string `json:"created_by"`
	AssignedTo string `json:"assigned_to"`
	Open       bool   `json:"open"`
	StatusText string `json:"status_text"`
}

// Response converts the issue into its client-facing representation.
func (i Issue) Response() IssueResponse {
	return IssueResponse{
		ID:         i.ID,
		Title:      i.Title,
		Text:       i.Text,
		CreatedOn:  FormatTimestamp(i.CreatedOn),
		UpdatedOn:  FormatTimestamp(i.UpdatedOn),
		CreatedBy:  i.CreatedBy,
		AssignedTo: i.AssignedTo,
		Open:       i.Open,
		StatusText: i.StatusText,
	}
}

// Apply merges a sparse update into the issue. Timestamps are left alone.
func (i *Issue) Apply(u Update) {
	if u.Title != nil {
		i.Title = *u.Title
	}
	if u.Text != nil {
		i.Text = *u.Text
	}
	if u.CreatedBy != nil {
		i.CreatedBy = *u.CreatedBy
	}
	if u.AssignedTo != nil {
		i.AssignedTo = *u.AssignedTo
	}
	if u.StatusText != nil {
		i.StatusText = *u.StatusText
	}
	if u.Open != nil {
		i.Open = *u.Open
	}
}

// Update is a sparse set of issue fields to change. Nil means "leave as is".
type Update struct {
	Title      *string
	Text       *string
	CreatedBy  *string
	AssignedTo *string
	StatusText *string
	Open       *bool
}

// IsEmpty reports whether the update changes nothing.
func (u Update) IsEmpty() bool {
	return u.Title == nil && u.Text == nil && u.CreatedBy == nil &&
		u.AssignedTo == nil && u.StatusText == nil && u.Open == nil
}

// FormatTimestamp renders t in UTC with millisecond precision.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}

// Timestamp converts t to UTC and truncates it to the millisecond precision
// the document store keeps.
func Timestamp(t time.Time) time.Time {
	return t.UTC().Truncate(time.Millisecond)
}
