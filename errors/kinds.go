package errors

import (
	"context"
	"errors"
	"net"
	"net/http"
)

// Kind classifies a failure for retry and session-handling decisions.
// The classification is what callers branch on; the status code is kept
// for diagnostics only.
type Kind int

const (
	// KindUnknown covers errors that entered the system unclassified
	KindUnknown Kind = iota

	// KindDecode marks a credential that could not be parsed. It is handled
	// internally (treated as already expired) and never surfaced to callers.
	KindDecode

	// KindAuth marks an HTTP 401 from a business endpoint
	KindAuth

	// KindValidation marks a non-retryable 4xx (anything but 401/408/429)
	KindValidation

	// KindRateLimited marks HTTP 429, retryable under the retry policy
	KindRateLimited

	// KindTimeout marks HTTP 408 or a client-side deadline, retryable
	KindTimeout

	// KindServer marks HTTP >= 500, retryable
	KindServer

	// KindNetwork marks a call that received no response at all, retryable
	KindNetwork

	// KindSessionExpired marks a failed refresh. Always terminal, always
	// cascades a local logout.
	KindSessionExpired
)

var kindNames = map[Kind]string{
	KindUnknown:        "unknown",
	KindDecode:         "decode",
	KindAuth:           "auth",
	KindValidation:     "validation",
	KindRateLimited:    "rate_limited",
	KindTimeout:        "timeout",
	KindServer:         "server",
	KindNetwork:        "network",
	KindSessionExpired: "session_expired",
}

// String returns the snake_case name of the kind
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// Retryable reports whether failures of this kind may be retried under the
// bounded retry policy. Auth failures are excluded: they are repaired by the
// refresh-and-replay path, not by blind retries.
func (k Kind) Retryable() bool {
	switch k {
	case KindRateLimited, KindTimeout, KindServer, KindNetwork:
		return true
	default:
		return false
	}
}

// Terminal reports whether failures of this kind tear down the session
func (k Kind) Terminal() bool {
	return k == KindSessionExpired
}

// kindFromStatus maps an HTTP status code to a failure kind
func kindFromStatus(code int) Kind {
	switch {
	case code == http.StatusUnauthorized:
		return KindAuth
	case code == http.StatusRequestTimeout:
		return KindTimeout
	case code == http.StatusTooManyRequests:
		return KindRateLimited
	case code >= 400 && code < 500:
		return KindValidation
	case code >= 500:
		return KindServer
	default:
		return KindUnknown
	}
}

// KindOf extracts the kind of an error, KindUnknown for foreign errors
func KindOf(err error) Kind {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return KindUnknown
}

// FromResponse classifies an HTTP error response into an *Error
func FromResponse(status int, message string) *Error {
	if message == "" {
		message = http.StatusText(status)
	}
	return New(status, "%s", message)
}

// FromTransport classifies a transport-level failure: the request never
// produced an HTTP response. Deadline expiry becomes KindTimeout, everything
// else KindNetwork. The status code is zero since no response exists.
func FromTransport(err error) *Error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return WrapKind(err, KindTimeout, 0, "request deadline exceeded")
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return WrapKind(err, KindTimeout, 0, "network timeout")
	}

	return WrapKind(err, KindNetwork, 0, "no response received")
}

// SessionExpired creates the terminal error raised when the refresh endpoint
// itself fails
func SessionExpired(format string, args ...any) *Error {
	return NewKind(KindSessionExpired, http.StatusUnauthorized, format, args...)
}

// IsSessionExpired reports whether err carries KindSessionExpired
func IsSessionExpired(err error) bool {
	return KindOf(err) == KindSessionExpired
}
