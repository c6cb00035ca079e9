// Package net provides utilities for working with request contexts
package net

import (
	"context"

	chimw "github.com/go-chi/chi/v5/middleware"
)

type ctxKey string

const keyEstablishmentID ctxKey = "establishment_id"

// WithRequest stores the request id where chi's RequestID middleware keeps it
func WithRequest(ctx context.Context, reqID string) context.Context {
	if reqID == "" {
		return ctx
	}
	return context.WithValue(ctx, chimw.RequestIDKey, reqID)
}

// WithEstablishment annotates ctx with the establishment a request acts on
func WithEstablishment(ctx context.Context, establishmentID string) context.Context {
	if establishmentID == "" {
		return ctx
	}
	return context.WithValue(ctx, keyEstablishmentID, establishmentID)
}

// RequestID returns the request id on the context if present
func RequestID(ctx context.Context) string { return chimw.GetReqID(ctx) }

// EstablishmentID returns the establishment id on the context if present
func EstablishmentID(ctx context.Context) string {
	v, _ := ctx.Value(keyEstablishmentID).(string)
	return v
}
