package errors

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestKindFromStatus(t *testing.T) {
	cases := []struct {
		status int
		kind   Kind
	}{
		{400, KindValidation},
		{401, KindAuth},
		{403, KindValidation},
		{404, KindValidation},
		{408, KindTimeout},
		{422, KindValidation},
		{429, KindRateLimited},
		{500, KindServer},
		{502, KindServer},
		{503, KindServer},
		{504, KindServer},
	}

	for _, c := range cases {
		if got := FromResponse(c.status, "").Kind; got != c.kind {
			t.Errorf("status %d: expected kind %s, got %s", c.status, c.kind, got)
		}
	}
}

func TestKindRetryable(t *testing.T) {
	retryable := []Kind{KindRateLimited, KindTimeout, KindServer, KindNetwork}
	for _, k := range retryable {
		if !k.Retryable() {
			t.Errorf("kind %s should be retryable", k)
		}
	}

	notRetryable := []Kind{KindUnknown, KindDecode, KindAuth, KindValidation, KindSessionExpired}
	for _, k := range notRetryable {
		if k.Retryable() {
			t.Errorf("kind %s should not be retryable", k)
		}
	}
}

func TestFromTransport(t *testing.T) {
	if FromTransport(nil) != nil {
		t.Error("FromTransport(nil) should return nil")
	}

	err := FromTransport(fmt.Errorf("dial tcp: %w", errors.New("connection refused")))
	if err.Kind != KindNetwork {
		t.Errorf("expected kind network, got %s", err.Kind)
	}
	if err.GetCode() != 0 {
		t.Errorf("transport errors carry no status code, got %d", err.GetCode())
	}

	err = FromTransport(fmt.Errorf("request: %w", context.DeadlineExceeded))
	if err.Kind != KindTimeout {
		t.Errorf("expected kind timeout, got %s", err.Kind)
	}
}

func TestSessionExpired(t *testing.T) {
	err := SessionExpired("refresh endpoint returned 500")
	if !IsSessionExpired(err) {
		t.Error("IsSessionExpired should report true")
	}
	if !err.Kind.Terminal() {
		t.Error("session expiry must be terminal")
	}

	wrapped := fmt.Errorf("list workflows: %w", err)
	if !IsSessionExpired(wrapped) {
		t.Error("IsSessionExpired should see through wrapping")
	}
}

func TestKindOf(t *testing.T) {
	if KindOf(errors.New("plain")) != KindUnknown {
		t.Error("foreign errors should classify as unknown")
	}
	if KindOf(FromResponse(429, "slow down")) != KindRateLimited {
		t.Error("expected rate_limited")
	}
}
