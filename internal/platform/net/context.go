// Package net provides utilities for working with request contexts
package net

import (
	"context"

	chimw "github.com/go-chi/chi/v5/middleware"
)

// ctxKey is an unexported key type for context values
type ctxKey string

const (
	keyClaims ctxKey = "claims"
	keyOrigin ctxKey = "origin"
)

// Claims are the authenticated caller's token claims as extracted by the
// gateway authorizer. Values are strings on the wire
type Claims map[string]string

// WithRequest annotates context with the request id
func WithRequest(ctx context.Context, reqID string) context.Context {
	if reqID != "" {
		// set chi RequestID so chimw.GetReqID can retrieve it
		ctx = context.WithValue(ctx, chimw.RequestIDKey, reqID)
	}
	return ctx
}

// WithClaims annotates context with the caller's claims
func WithClaims(ctx context.Context, c Claims) context.Context {
	if len(c) == 0 {
		return ctx
	}
	return context.WithValue(ctx, keyClaims, c)
}

// WithOrigin annotates context with the accepted request origin
func WithOrigin(ctx context.Context, origin string) context.Context {
	if origin == "" {
		return ctx
	}
	return context.WithValue(ctx, keyOrigin, origin)
}

// RequestID returns the request id on the context if present
func RequestID(ctx context.Context) string {
	if v := chimw.GetReqID(ctx); v != "" {
		return v
	}
	return ""
}

// ClaimsFrom returns the caller's claims, or nil when unauthenticated
func ClaimsFrom(ctx context.Context) Claims {
	if v, ok := ctx.Value(keyClaims).(Claims); ok {
		return v
	}
	return nil
}

// Origin returns the accepted origin on the context if present
func Origin(ctx context.Context) string {
	if v, ok := ctx.Value(keyOrigin).(string); ok {
		return v
	}
	return ""
}

// Identity resolves the moderator identity from claims, in order of
// preference: email, username, subject, then a fallback literal
func (c Claims) Identity() string {
	for _, k := range []string{"email", "cognito:username", "sub"} {
		if v := c[k]; v != "" {
			return v
		}
	}
	return "admin"
}
