package httputil

import (
	"encoding/json"
	"fmt"
	"net/http"

	"inkwell/internal/config"
)

// ParseJSON decodes JSON from the request body into the given destination.
// The body is size-limited; rich-text content trees can be large but a
// note body should never approach the cap.
func ParseJSON(w http.ResponseWriter, r *http.Request, dest interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, config.MaxRequestBodySize)

	decoder := json.NewDecoder(r.Body)
	// DisallowUnknownFields is intentionally not used: content nodes carry
	// arbitrary attrs maps, and editors add node types over time.

	if err := decoder.Decode(dest); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}

	return nil
}
