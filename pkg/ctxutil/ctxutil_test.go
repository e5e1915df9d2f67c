package ctxutil

import (
	"context"
	"testing"
)

func TestWithOperator_And_OperatorFromCtx(t *testing.T) {
	t.Parallel()

	ctx := WithOperator(context.Background(), "ops")

	got, ok := OperatorFromCtx(ctx)
	if !ok {
		t.Fatal("expected ok=true for stored operator")
	}
	if got != "ops" {
		t.Fatalf("expected %q, got %q", "ops", got)
	}
	if !IsAdmin(ctx) {
		t.Fatal("expected IsAdmin=true")
	}
}

func TestOperatorFromCtx_EmptyContext(t *testing.T) {
	t.Parallel()

	got, ok := OperatorFromCtx(context.Background())
	if ok {
		t.Fatal("expected ok=false for empty context")
	}
	if got != "" {
		t.Fatalf("expected empty operator, got %q", got)
	}
	if IsAdmin(context.Background()) {
		t.Fatal("expected IsAdmin=false")
	}
}

func TestOperatorFromCtx_EmptyName(t *testing.T) {
	t.Parallel()

	_, ok := OperatorFromCtx(WithOperator(context.Background(), ""))
	if ok {
		t.Fatal("expected ok=false for empty operator")
	}
}

func TestRequestID(t *testing.T) {
	t.Parallel()

	if got := RequestIDFromCtx(context.Background()); got != "" {
		t.Fatalf("expected empty request id, got %q", got)
	}

	ctx := WithRequestID(context.Background(), "req-123")
	if got := RequestIDFromCtx(ctx); got != "req-123" {
		t.Fatalf("expected %q, got %q", "req-123", got)
	}
}
