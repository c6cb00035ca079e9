package net

import (
	"context"
	"testing"
)

func TestContextRoundTrip(t *testing.T) {
	ctx := WithEstablishment(WithRequest(context.Background(), "rid-1"), "est-1")
	if got := RequestID(ctx); got != "rid-1" {
		t.Fatalf("RequestID = %q", got)
	}
	if got := EstablishmentID(ctx); got != "est-1" {
		t.Fatalf("EstablishmentID = %q", got)
	}
}

func TestContextEmpty(t *testing.T) {
	ctx := context.Background()
	if WithRequest(ctx, "") != ctx || WithEstablishment(ctx, "") != ctx {
		t.Fatalf("empty ids must not wrap ctx")
	}
	if RequestID(ctx) != "" || EstablishmentID(ctx) != "" {
		t.Fatalf("expected empty ids")
	}
}
