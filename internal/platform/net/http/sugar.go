package http

import (
	"net/http"

	lumnet "intake/internal/platform/net"
)

// GetJSON mounts a pure JSON handler for GET
func GetJSON(r Router, path string, h func(*http.Request) (lumnet.Fields, error)) {
	r.Get(path, JSONHandlerNoBody(h))
}

// PostJSON mounts a pure JSON handler for POST
func PostJSON[T any](r Router, path string, h func(*http.Request, T) (lumnet.Fields, error)) {
	r.Post(path, JSONHandler(h))
}
