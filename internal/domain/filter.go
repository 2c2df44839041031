package domain

import (
	"strings"
	"time"
)

// Filter maps a stored field name to the values it may equal. A field with
// several values matches any of them; all fields must match.
type Filter map[string][]any

// NewFilter builds an equality filter from query parameters. The project
// condition is always forced to project, whatever the query says.
//
// Values are cast to the type of the field they address. If every value of
// some parameter fails to cast, no issue can match and ok is false. Names
// that look like query operators or nested paths ("$where", "a.b") are never
// field names, so they make the filter unsatisfiable too.
func NewFilter(project string, query map[string][]string) (f Filter, ok bool) {
	f = make(Filter, len(query)+1)
	for name, raw := range query {
		if name == "" || name == FieldProject {
			continue
		}
		if strings.HasPrefix(name, "$") || strings.Contains(name, ".") {
			return nil, false
		}
		values := make([]any, 0, len(raw))
		for _, r := range raw {
			if v, err := castFilterValue(name, r); err == nil {
				values = append(values, v)
			}
		}
		if len(values) == 0 {
			return nil, false
		}
		f[name] = values
	}
	f[FieldProject] = []any{project}
	return f, true
}

func castFilterValue(name, raw string) (any, error) {
	switch name {
	case FieldOpen:
		return CastBool(raw)
	case FieldCreatedOn, FieldUpdatedOn:
		t, err := time.Parse(time.RFC3339Nano, raw)
		if err != nil {
			return nil, ErrInvalidValue
		}
		return Timestamp(t), nil
	default:
		return raw, nil
	}
}

// Matches reports whether the issue satisfies every condition of the filter.
// Conditions on fields an issue does not have never match.
func (f Filter) Matches(issue Issue) bool {
	for name, values := range f {
		got, ok := issue.field(name)
		if !ok {
			return false
		}
		matched := false
		for _, want := range values {
			if equalValues(got, want) {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}
	return true
}

// IsField reports whether name is a stored issue field a filter can address.
func IsField(name string) bool {
	_, ok := Issue{}.field(name)
	return ok
}

func (i Issue) field(name string) (any, bool) {
	switch name {
	case FieldID:
		return i.ID, true
	case FieldProject:
		return i.Project, true
	case FieldTitle:
		return i.Title, true
	case FieldText:
		return i.Text, true
	case FieldCreatedBy:
		return i.CreatedBy, true
	case FieldAssignedTo:
		return i.AssignedTo, true
	case FieldStatusText:
		return i.StatusText, true
	case FieldOpen:
		return i.Open, true
	case FieldCreatedOn:
		return i.CreatedOn, true
	case FieldUpdatedOn:
		return i.UpdatedOn, true
	default:
		return nil, false
	}
}

func equalValues(got, want any) bool {
	if t, ok := got.(time.Time); ok {
		w, ok := want.(time.Time)
		return ok && t.Equal(w)
	}
	return got == want
}
