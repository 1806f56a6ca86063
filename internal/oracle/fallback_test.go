package oracle

import (
	"context"
	"testing"
)

type stubProvider struct {
	name   string
	resp   *ChatResponse
	err    error
	called int
}

func (s *stubProvider) Chat(_ context.Context, _ *ChatRequest) (*ChatResponse, error) {
	s.called++
	if s.err != nil {
		return nil, s.err
	}
	return s.resp, nil
}

func (s *stubProvider) Name() string         { return s.name }
func (s *stubProvider) DefaultModel() string { return s.name + "-model" }

func TestFallbackUsesSecondOnRetryable(t *testing.T) {
	primary := &stubProvider{name: "primary", err: &Error{Type: ErrorServerError, Message: "overloaded"}}
	secondary := &stubProvider{name: "secondary", resp: &ChatResponse{Content: "ok"}}

	f := NewFallbackProvider(primary, secondary)
	resp, err := f.Chat(context.Background(), &ChatRequest{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Content != "ok" {
		t.Errorf("expected secondary response, got %q", resp.Content)
	}
	if secondary.called != 1 {
		t.Errorf("secondary called %d times", secondary.called)
	}
}

func TestFallbackStopsOnAuthError(t *testing.T) {
	primary := &stubProvider{name: "primary", err: &Error{Type: ErrorAuth, Message: "bad key"}}
	secondary := &stubProvider{name: "secondary", resp: &ChatResponse{Content: "ok"}}

	f := NewFallbackProvider(primary, secondary)
	if _, err := f.Chat(context.Background(), &ChatRequest{}); err == nil {
		t.Fatal("expected auth error to propagate")
	}
	if secondary.called != 0 {
		t.Error("auth errors must not trigger fallback")
	}
}

func TestFallbackAllFail(t *testing.T) {
	primary := &stubProvider{name: "primary", err: &Error{Type: ErrorTimeout, Message: "slow"}}
	secondary := &stubProvider{name: "secondary", err: &Error{Type: ErrorNetwork, Message: "down"}}

	f := NewFallbackProvider(primary, secondary)
	_, err := f.Chat(context.Background(), &ChatRequest{})
	if err == nil {
		t.Fatal("expected error when every provider fails")
	}
	if primary.called != 1 || secondary.called != 1 {
		t.Errorf("expected both providers tried, got %d/%d", primary.called, secondary.called)
	}
}

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		typ  ErrorType
		want bool
	}{
		{ErrorAuth, false},
		{ErrorInvalidInput, false},
		{ErrorRateLimit, true},
		{ErrorServerError, true},
		{ErrorTimeout, true},
		{ErrorNetwork, true},
		{ErrorUnknown, true},
	}

	for _, tt := range tests {
		if got := isRetryable(&Error{Type: tt.typ}); got != tt.want {
			t.Errorf("isRetryable(%d) = %v, want %v", tt.typ, got, tt.want)
		}
	}
}

func TestFallbackName(t *testing.T) {
	f := NewFallbackProvider(&stubProvider{name: "primary"}, &stubProvider{name: "secondary"})
	if f.Name() != "primary+fallback" {
		t.Errorf("unexpected name: %s", f.Name())
	}
}
