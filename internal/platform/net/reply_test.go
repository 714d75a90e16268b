package net_test

import (
	"net/http"
	"testing"

	perr "intake/internal/platform/errors"
	pnet "intake/internal/platform/net"
)

func TestOKEnvelope(t *testing.T) {
	status, body := pnet.OK(pnet.Fields{"message": "Thanks!"}, "rid-1")
	if status != http.StatusOK {
		t.Fatalf("status: %d", status)
	}
	if body["status"] != "success" || body["message"] != "Thanks!" || body["requestId"] != "rid-1" {
		t.Fatalf("bad body: %#v", body)
	}
}

func TestOKStatusOverride(t *testing.T) {
	_, body := pnet.OK(pnet.Fields{"status": "ok", "service": "intake-api"}, "rid-2")
	if body["status"] != "ok" {
		t.Fatalf("caller-supplied status should win, got %v", body["status"])
	}
}

func TestOKOmitsEmptyRequestID(t *testing.T) {
	_, body := pnet.OK(nil, "")
	if _, present := body["requestId"]; present {
		t.Fatalf("requestId should be absent when empty")
	}
}

func TestErrorEnvelope(t *testing.T) {
	err := perr.New(perr.ErrorCodeOriginRequired, "Origin header is required.")
	status, body := pnet.Error(err, "rid-3")
	if status != http.StatusForbidden {
		t.Fatalf("status: %d", status)
	}
	if body["status"] != "error" ||
		body["code"] != perr.ErrorCodeOriginRequired ||
		body["requestId"] != "rid-3" {
		t.Fatalf("bad body: %#v", body)
	}
	if _, present := body["fieldErrors"]; present {
		t.Fatalf("fieldErrors should be absent when empty")
	}
}

func TestErrorEnvelopeFieldErrors(t *testing.T) {
	err := perr.Validation(map[string]string{"company": "Company must be text."})
	status, body := pnet.Error(err, "rid-4")
	if status != http.StatusBadRequest {
		t.Fatalf("status: %d", status)
	}
	fe, ok := body["fieldErrors"].(map[string]string)
	if !ok || fe["company"] != "Company must be text." {
		t.Fatalf("bad fieldErrors: %#v", body["fieldErrors"])
	}
}

func TestErrorNilIsOK(t *testing.T) {
	status, body := pnet.Error(nil, "rid-5")
	if status != http.StatusOK || body["status"] != "success" {
		t.Fatalf("nil error should produce a success body: %d %#v", status, body)
	}
}
