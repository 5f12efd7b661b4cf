// Package response writes JSON payloads and is the single place a failure is
// turned into a status code and body.
package response

import (
	"encoding/json"
	"net/http"

	"product-catalog/internal/apierr"
	"product-catalog/internal/logger"
)

// JSON writes payload with the given status.
func JSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.Errorf("response.JSON encode: %v", err)
	}
}

// OK writes payload with status 200.
func OK(w http.ResponseWriter, payload any) {
	JSON(w, http.StatusOK, payload)
}

// Error classifies err, logs it and writes the normalized failure body.
func Error(w http.ResponseWriter, r *http.Request, err error) {
	e := apierr.From(err)
	if e == nil {
		e = apierr.Internal(nil)
	}

	fields := []interface{}{
		"kind", string(e.Kind),
		"status", e.Status(),
		"message", e.Message,
		"method", r.Method,
		"path", r.URL.Path,
	}
	if e.Err != nil {
		fields = append(fields, "cause", e.Err.Error())
	}
	if len(e.Violations) > 0 {
		fields = append(fields, "violations", e.Violations)
	}
	if e.Status() >= http.StatusInternalServerError {
		logger.Errorw("request failed", fields...)
	} else {
		logger.Warnw("request failed", fields...)
	}

	JSON(w, e.Status(), e.Body())
}

// RouteNotFound is the fall-through for unmatched paths and methods. It is a
// default answer, not a failure, so it is not logged as one.
func RouteNotFound(w http.ResponseWriter, r *http.Request) {
	JSON(w, http.StatusNotFound, apierr.RouteNotFound(r.URL.RequestURI()).Body())
}
