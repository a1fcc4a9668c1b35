package domain

import (
	"context"
	"encoding/json"
	"testing"
)

func TestMarshalState(t *testing.T) {
	t.Parallel()

	t.Run("struct", func(t *testing.T) {
		state := MarshalState(struct {
			Name   string `json:"name"`
			Active bool   `json:"active"`
		}{"Cash", true})
		if state["name"] != "Cash" || state["active"] != true {
			t.Fatalf("unexpected snapshot: %v", state)
		}
	})

	t.Run("nil", func(t *testing.T) {
		if state := MarshalState(nil); state != nil {
			t.Fatalf("expected nil snapshot, got %v", state)
		}
	})

	t.Run("non-object", func(t *testing.T) {
		state := MarshalState("approved")
		raw, ok := state["value"].(json.RawMessage)
		if !ok || string(raw) != `"approved"` {
			t.Fatalf("expected wrapped value, got %v", state)
		}
	})

	t.Run("unencodable", func(t *testing.T) {
		state := MarshalState(map[string]any{"ch": make(chan int)})
		if _, ok := state["error"]; !ok {
			t.Fatalf("expected error snapshot, got %v", state)
		}
	})
}

func TestRequestIDContext(t *testing.T) {
	t.Parallel()

	if id := RequestIDFromContext(context.Background()); id != "" {
		t.Fatalf("expected empty request id, got %q", id)
	}
	ctx := WithRequestID(context.Background(), "req-42")
	if id := RequestIDFromContext(ctx); id != "req-42" {
		t.Fatalf("expected req-42, got %q", id)
	}
}
