package httpapi

import (
	"bytes"
	"encoding/json"
	"io"
	"mime"
	"net/http"
	"net/url"

	"github.com/vilaca/issue-tracker/internal/domain"
)

const maxBodyBytes = 1 << 20

// readFields decodes the request body into raw fields. URL-encoded forms
// and JSON objects are accepted; anything unreadable decodes as no fields,
// which the operations then report as missing input.
func (h *Handler) readFields(r *http.Request) domain.Fields {
	fields := domain.Fields{}
	if r.Body == nil {
		return fields
	}

	data, err := io.ReadAll(http.MaxBytesReader(nil, r.Body, maxBodyBytes))
	if err != nil {
		h.logger.Printf("[IssuesAPI] failed to read request body: %v", err)
		return fields
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return fields
	}

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/x-www-form-urlencoded" {
		values, err := url.ParseQuery(string(data))
		if err != nil {
			h.logger.Printf("[IssuesAPI] failed to parse form body: %v", err)
			return fields
		}
		for name, v := range values {
			if len(v) > 0 {
				fields[name] = v[0]
			}
		}
		return fields
	}

	var decoded domain.Fields
	if err := json.Unmarshal(data, &decoded); err != nil {
		h.logger.Printf("[IssuesAPI] failed to parse JSON body: %v", err)
		return fields
	}
	if decoded == nil {
		return fields
	}
	return decoded
}
