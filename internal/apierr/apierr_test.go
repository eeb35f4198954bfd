package apierr

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorFormatting(t *testing.T) {
	err := FromStatus(503, "complete", "https://chat.vesper.ai/api/chat/complete", "upstream overloaded")

	want := "server: complete [503] at https://chat.vesper.ai/api/chat/complete: upstream overloaded"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestErrorIsSentinel(t *testing.T) {
	err := NewAuth("init", "https://chat.vesper.ai/app", "session expired")

	if !errors.Is(err, ErrAuth) {
		t.Error("auth error must match ErrAuth")
	}
	if errors.Is(err, ErrRateLimit) {
		t.Error("auth error must not match ErrRateLimit")
	}

	// Same-kind errors match each other.
	other := New(KindAuth, "complete", "credential rejected")
	if !errors.Is(err, other) {
		t.Error("auth errors must match each other")
	}
}

func TestErrorUnwrap(t *testing.T) {
	cause := errors.New("dial tcp: connection refused")
	err := NewNetwork("complete", "endpoint", cause)

	if !errors.Is(err, cause) {
		t.Error("wrapped cause must be reachable via errors.Is")
	}

	wrapped := fmt.Errorf("send failed: %w", err)
	if KindOf(wrapped) != KindNetwork {
		t.Errorf("KindOf(wrapped) = %v, want network", KindOf(wrapped))
	}
}

func TestFromStatusMapping(t *testing.T) {
	tests := []struct {
		status int
		want   Kind
	}{
		{401, KindAuth},
		{403, KindAuth},
		{429, KindRateLimit},
		{408, KindTimeout},
		{504, KindTimeout},
		{400, KindValidation},
		{413, KindValidation},
		{422, KindValidation},
		{500, KindServer},
		{502, KindServer},
		{503, KindServer},
		{418, KindUnknown},
	}

	for _, tt := range tests {
		if got := FromStatus(tt.status, "op", "ep", "").Kind; got != tt.want {
			t.Errorf("FromStatus(%d).Kind = %v, want %v", tt.status, got, tt.want)
		}
	}
}

func TestRecoverableKinds(t *testing.T) {
	recoverable := []Kind{KindNetwork, KindTimeout, KindRateLimit, KindServer}
	for _, k := range recoverable {
		if !k.Recoverable() {
			t.Errorf("%v must be recoverable", k)
		}
	}

	terminal := []Kind{KindAuth, KindContentFilter, KindValidation, KindUnknown}
	for _, k := range terminal {
		if k.Recoverable() {
			t.Errorf("%v must not be recoverable", k)
		}
	}
}

func TestDescribe(t *testing.T) {
	info := Describe(NewAuth("init", "", "session expired"))
	if info.Kind != KindAuth {
		t.Errorf("Kind = %v, want auth", info.Kind)
	}
	if info.Recoverable {
		t.Error("auth failures are not recoverable")
	}
	if !info.Actionable {
		t.Error("auth failures carry a remedial action")
	}
	if info.SuggestedAction == "" {
		t.Error("auth failures must suggest an action")
	}

	info = Describe(New(KindServer, "complete", "bad gateway"))
	if !info.Recoverable {
		t.Error("server failures are recoverable")
	}
	if info.Actionable {
		t.Error("server failures have no user-side action")
	}
}

func TestHTTPStatus(t *testing.T) {
	err := FromStatus(429, "complete", "ep", "")
	if got := HTTPStatus(fmt.Errorf("wrapped: %w", err)); got != 429 {
		t.Errorf("HTTPStatus = %d, want 429", got)
	}
	if got := HTTPStatus(errors.New("plain")); got != 0 {
		t.Errorf("HTTPStatus(plain) = %d, want 0", got)
	}
}
