// Package http exposes the intake routes over the platform HTTP kit
package http

import (
	"encoding/base64"
	"encoding/json"
	"io"
	stdhttp "net/http"
	"strings"

	perr "intake/internal/platform/errors"
)

// ParseBody reads, optionally base64-decodes, size-checks, and JSON-parses
// a request body into a generic object. The ceiling applies to decoded
// bytes, not characters
func ParseBody(r *stdhttp.Request, maxBytes int64) (map[string]any, error) {
	defer func() { _ = r.Body.Close() }()

	// leave headroom for base64 inflation before the real size check
	raw, err := io.ReadAll(io.LimitReader(r.Body, maxBytes*2+16))
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeInvalidJSON, "body read failed")
	}

	if isBase64Transfer(r) {
		decoded, err := base64.StdEncoding.DecodeString(strings.TrimSpace(string(raw)))
		if err != nil {
			return nil, perr.New(perr.ErrorCodeInvalidJSON, "Request body is not valid base64.")
		}
		raw = decoded
	}

	if int64(len(raw)) > maxBytes {
		return nil, perr.New(perr.ErrorCodePayloadTooLarge, "Request body is too large.")
	}

	var parsed any
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, perr.New(perr.ErrorCodeInvalidJSON, "Request body is not valid JSON.")
	}
	obj, ok := parsed.(map[string]any)
	if !ok {
		return nil, perr.New(perr.ErrorCodeInvalidPayload, "Request body must be a JSON object.")
	}
	return obj, nil
}

func isBase64Transfer(r *stdhttp.Request) bool {
	return strings.EqualFold(strings.TrimSpace(r.Header.Get("Content-Transfer-Encoding")), "base64")
}
