// Package handlers contains the HTTP layer adapters: they parse requests,
// delegate to services, and translate errors to status codes.
package handlers

import (
	"encoding/json"
	"net/http"
	"time"
)

// parseJSON decodes a request body into the given request type. Unknown
// fields are rejected so typos in client payloads fail loudly.
func parseJSON[T any](r *http.Request) (T, error) {
	var req T
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		return req, err
	}
	return req, nil
}

// parseAsOf reads an optional as_of=YYYY-MM-DD query parameter, defaulting
// to the current UTC time.
func parseAsOf(r *http.Request) (time.Time, error) {
	raw := r.URL.Query().Get("as_of")
	if raw == "" {
		return time.Now().UTC(), nil
	}
	return time.Parse("2006-01-02", raw)
}
