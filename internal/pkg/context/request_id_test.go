package context

import (
	"context"
	"testing"
)

func TestRequestID_RoundTrip(t *testing.T) {
	ctx := WithRequestID(context.Background(), "abc")
	if got := GetRequestID(ctx); got != "abc" {
		t.Fatalf("got %q want abc", got)
	}
	if got := GetRequestID(context.Background()); got != "" {
		t.Fatalf("expected empty id, got %q", got)
	}
}
