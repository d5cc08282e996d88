package api

import (
	"encoding/json"
	"net/http"

	"github.com/hashicorp/go-hclog"
)

// decodeRequest decodes the JSON request body into dst, rejecting unknown
// fields so client typos surface as errors instead of silently dropped
// settings.
func decodeRequest(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

// respondJSON writes v as the JSON response body with a 200 status.
func respondJSON(w http.ResponseWriter, log hclog.Logger, v any) {
	w.Header().Set("Content-Type", "application/json")
	encodeBody(w, log, v)
}

// encodeBody encodes v to the response without touching headers; used when
// the caller has already written a status code.
func encodeBody(w http.ResponseWriter, log hclog.Logger, v any) {
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("error encoding response", "error", err)
	}
}
