// Package middleware holds the HTTP middleware wrapped around the router.
package middleware

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"product-catalog/internal/logger"
)

const maxLoggedBody = 4 << 10

type responseRecorder struct {
	http.ResponseWriter

	status int
	bytes  int
}

func (rw *responseRecorder) WriteHeader(status int) {
	if rw.status == 0 {
		rw.status = status
	}
	rw.ResponseWriter.WriteHeader(status)
}

func (rw *responseRecorder) Write(p []byte) (int, error) {
	if rw.status == 0 {
		rw.status = http.StatusOK
	}
	n, err := rw.ResponseWriter.Write(p)
	rw.bytes += n
	if err != nil {
		return n, fmt.Errorf("write response: %w", err)
	}
	return n, nil
}

type logOptions struct {
	skips map[string]struct{}
}

// LogOption configures LogRequests.
type LogOption func(*logOptions)

// WithSkips disables logging for the given exact paths.
func WithSkips(paths ...string) LogOption {
	return func(o *logOptions) {
		for _, p := range paths {
			o.skips[p] = struct{}{}
		}
	}
}

// LogRequests logs one line per request. Bodies of POST, PUT and PATCH
// requests are logged too, with sensitive keys redacted.
func LogRequests(opts ...LogOption) func(http.Handler) http.Handler {
	o := &logOptions{skips: map[string]struct{}{}}
	for _, opt := range opts {
		opt(o)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, skip := o.skips[r.URL.Path]; skip {
				next.ServeHTTP(w, r)
				return
			}

			start := time.Now()
			id, _ := RequestIDFromContext(r.Context())
			logger.Debugw("request received", "method", r.Method, "path", r.URL.RequestURI(), "request_id", id)
			if hasBody(r.Method) && r.Body != nil && logger.DebugEnabled() {
				if body, ok := peekBody(r); ok {
					logger.Debugw("request body", "request_id", id, "body", body)
				}
			}

			rec := &responseRecorder{ResponseWriter: w}
			next.ServeHTTP(rec, r)

			status := rec.status
			if status == 0 {
				status = http.StatusOK
			}
			fields := []interface{}{
				"method", r.Method,
				"path", r.URL.RequestURI(),
				"status", status,
				"duration_ms", time.Since(start).Milliseconds(),
				"bytes_written", rec.bytes,
				"request_id", id,
			}
			switch {
			case status >= 500:
				logger.Errorw("HTTP request", fields...)
			case status >= 400:
				logger.Warnw("HTTP request", fields...)
			default:
				logger.Infow("HTTP request", fields...)
			}
		})
	}
}

func hasBody(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch:
		return true
	}
	return false
}

// peekBody reads the body for logging and puts it back for the handler.
// Only JSON objects are logged.
func peekBody(r *http.Request) (map[string]any, bool) {
	raw, err := io.ReadAll(io.LimitReader(r.Body, maxLoggedBody+1))
	r.Body = readCloser{io.MultiReader(bytes.NewReader(raw), r.Body), r.Body}
	if err != nil || len(raw) == 0 || len(raw) > maxLoggedBody {
		return nil, false
	}
	var body map[string]any
	if err := json.Unmarshal(raw, &body); err != nil {
		return nil, false
	}
	return redact(body), true
}

type readCloser struct {
	io.Reader
	io.Closer
}

func redact(body map[string]any) map[string]any {
	for k := range body {
		switch strings.ToLower(k) {
		case "password", "apikey", "api_key", "token", "secret":
			body[k] = "[REDACTED]"
		}
	}
	return body
}
