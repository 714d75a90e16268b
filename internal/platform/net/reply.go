package net

import (
	"net/http"

	perr "intake/internal/platform/errors"
)

// Fields are the route-specific members of a response body. The envelope
// helpers fold "status" and "requestId" into the same flat object
type Fields map[string]any

// OK builds a 200 success body. A "status" member already present in
// fields wins (the health route reports "ok" rather than "success")
func OK(fields Fields, reqID string) (int, Fields) {
	return WithStatus(http.StatusOK, fields, reqID)
}

// WithStatus builds a success body with an explicit HTTP status
func WithStatus(status int, fields Fields, reqID string) (int, Fields) {
	body := Fields{"status": "success"}
	for k, v := range fields {
		body[k] = v
	}
	if reqID != "" {
		body["requestId"] = reqID
	}
	return status, body
}

// Error builds an error body from a project error
func Error(err error, reqID string) (int, Fields) {
	if err == nil {
		return OK(nil, reqID)
	}
	status := HTTPStatus(err)
	w := perr.WireFrom(err)
	body := Fields{
		"status":  "error",
		"code":    w.Code,
		"message": w.Message,
	}
	if len(w.FieldErrors) > 0 {
		body["fieldErrors"] = w.FieldErrors
	}
	if reqID != "" {
		body["requestId"] = reqID
	}
	return status, body
}
