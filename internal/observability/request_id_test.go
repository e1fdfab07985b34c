package observability

import (
	"context"
	"testing"

	"github.com/google/uuid"
)

func TestNewRequestIDReturnsUUID(t *testing.T) {
	id := NewRequestID()
	if id == "" {
		t.Fatal("expected non-empty request id")
	}

	if _, err := uuid.Parse(id); err != nil {
		t.Fatalf("expected valid UUID, got %q: %v", id, err)
	}
}

func TestRequestIDFromHeader(t *testing.T) {
	incoming := "7b0f3c1e-2f4a-4c55-9b1d-3a2e6f9d8c01"
	if got := RequestIDFromHeader(incoming); got != incoming {
		t.Fatalf("expected incoming id %q to be kept, got %q", incoming, got)
	}

	for _, value := range []string{"", "not-a-uuid"} {
		got := RequestIDFromHeader(value)
		if got == value {
			t.Fatalf("expected %q to be replaced", value)
		}
		if _, err := uuid.Parse(got); err != nil {
			t.Fatalf("expected valid UUID, got %q: %v", got, err)
		}
	}
}

func TestRequestIDContextRoundTrip(t *testing.T) {
	ctx := context.Background()
	want := "abc-123"

	ctx = ContextWithRequestID(ctx, want)
	got := RequestIDFromContext(ctx)

	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestRequestIDFromContextWhenMissingOrWrongType(t *testing.T) {
	t.Run("missing", func(t *testing.T) {
		got := RequestIDFromContext(context.Background())
		if got != "" {
			t.Fatalf("expected empty string, got %q", got)
		}
	})

	t.Run("wrong type", func(t *testing.T) {
		ctx := context.WithValue(context.Background(), RequestIDKey, 42)
		got := RequestIDFromContext(ctx)
		if got != "" {
			t.Fatalf("expected empty string, got %q", got)
		}
	})
}
