package httpapi

import (
	"bytes"
	"encoding/json"
	"net/http"
)

// errorResponse carries a logical failure. _id is omitted when the client
// sent none.
type errorResponse struct {
	Error string `json:"error"`
	ID    string `json:"_id,omitempty"`
}

type resultResponse struct {
	Result string `json:"result"`
	ID     string `json:"_id"`
}

type statusResponse struct {
	Status string `json:"status"`
}

// writeJSON writes v as a compact JSON body without a trailing newline and
// without HTML escaping.
func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		h.logger.Printf("failed to encode response: %v", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if _, err := w.Write(bytes.TrimSuffix(buf.Bytes(), []byte("\n"))); err != nil {
		h.logger.Printf("failed to write response: %v", err)
	}
}
