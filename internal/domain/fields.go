package domain

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Fields holds the raw values of a request body, keyed by field name.
// Values are whatever the body decoder produced: strings for form bodies,
// and strings, float64, bool, nil, maps or slices for JSON bodies.
type Fields map[string]any

// Truthy reports whether the named field carries a value a client would
// consider "filled in": absent, null, "", false and 0 are not.
func (f Fields) Truthy(name string) bool {
	switch v := f[name].(type) {
	case nil:
		return false
	case string:
		return v != ""
	case bool:
		return v
	case float64:
		return v != 0
	default:
		return true
	}
}

// Sent reports whether the named field was supplied with a usable value.
// A field is sent when it is present, non-null and not an empty string,
// so open=false counts as sent.
func (f Fields) Sent(name string) bool {
	switch v := f[name].(type) {
	case nil:
		return false
	case string:
		return v != ""
	default:
		return true
	}
}

// String returns the named field cast to a string. Absent fields yield "".
func (f Fields) String(name string) (string, error) {
	v, ok := f[name]
	if !ok || v == nil {
		return "", nil
	}
	s, err := CastString(v)
	if err != nil {
		return "", fmt.Errorf("%s: %w", name, err)
	}
	return s, nil
}

// ID returns the _id field as a string, for echoing back to the client.
// Objects and arrays are echoed as the JSON the client sent.
func (f Fields) ID() string {
	s, err := f.String(FieldID)
	if err == nil {
		return s
	}
	data, err := json.Marshal(f[FieldID])
	if err != nil {
		return fmt.Sprint(f[FieldID])
	}
	return string(data)
}

// CastString converts a scalar body value to its string form.
func CastString(v any) (string, error) {
	switch val := v.(type) {
	case string:
		return val, nil
	case bool:
		return strconv.FormatBool(val), nil
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64), nil
	case int:
		return strconv.Itoa(val), nil
	default:
		return "", fmt.Errorf("%w: cannot use %T as string", ErrInvalidValue, v)
	}
}

// CastBool converts a body or query value to a boolean, accepting the
// usual spellings: true/false, 1/0, yes/no.
func CastBool(v any) (bool, error) {
	switch val := v.(type) {
	case bool:
		return val, nil
	case float64:
		switch val {
		case 1:
			return true, nil
		case 0:
			return false, nil
		}
	case int:
		switch val {
		case 1:
			return true, nil
		case 0:
			return false, nil
		}
	case string:
		switch strings.ToLower(strings.TrimSpace(val)) {
		case "true", "1", "yes":
			return true, nil
		case "false", "0", "no":
			return false, nil
		}
	}
	return false, fmt.Errorf("%w: cannot use %v as boolean", ErrInvalidValue, v)
}
