package errors

import (
	"errors"
	"fmt"
	"maps"
	"strconv"
	"strings"
)

const (
	// UnknownCode is used when a generic error is converted without an HTTP status
	UnknownCode = 500
)

// Status carries the wire-level status information of an error
type Status struct {
	Code     int               `json:"code,omitempty"`
	Message  string            `json:"message,omitempty"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// Error is a structured error carrying an HTTP status code, a failure kind,
// optional metadata and the underlying cause
type Error struct {
	Status
	Kind  Kind
	cause error
}

// Error renders the error as "kind=..., code=..., message=..." with optional
// metadata and cause segments
func (e *Error) Error() string {
	var msg strings.Builder

	msg.WriteString("kind=")
	msg.WriteString(e.Kind.String())
	msg.WriteString(", code=")
	msg.WriteString(strconv.Itoa(e.Code))
	msg.WriteString(", message=")
	msg.WriteString(e.Message)

	if len(e.Metadata) > 0 {
		msg.WriteString(", metadata={")
		first := true
		for k, v := range e.Metadata {
			if !first {
				msg.WriteString(", ")
			}
			msg.WriteString(k)
			msg.WriteByte('=')
			msg.WriteString(v)
			first = false
		}
		msg.WriteByte('}')
	}

	if e.cause != nil {
		msg.WriteString(", cause=")
		msg.WriteString(e.cause.Error())
	}

	return msg.String()
}

// Unwrap returns the cause of the error
func (e *Error) Unwrap() error {
	return e.cause
}

// WithMetadata adds metadata to the error. Returns a new instance, the
// receiver is never mutated.
func (e *Error) WithMetadata(m map[string]string) *Error {
	if len(m) == 0 {
		return e
	}

	err := e.clone()
	if err.Metadata == nil {
		err.Metadata = make(map[string]string, len(m))
	}

	maps.Copy(err.Metadata, m)
	return err
}

// WithCause attaches a cause to the error. Returns a new instance, the
// receiver is never mutated.
func (e *Error) WithCause(cause error) *Error {
	if cause == nil {
		return e
	}

	err := e.clone()
	err.cause = cause
	return err
}

// WithContext attaches a free-form context string (e.g. the operation that
// failed) under the "context" metadata key
func (e *Error) WithContext(context string) *Error {
	if context == "" {
		return e
	}
	return e.WithMetadata(map[string]string{"context": context})
}

func (e *Error) clone() *Error {
	var metadata map[string]string
	if len(e.Metadata) > 0 {
		metadata = make(map[string]string, len(e.Metadata))
		maps.Copy(metadata, e.Metadata)
	}

	return &Error{
		Status: Status{
			Code:     e.Code,
			Message:  e.Message,
			Metadata: metadata,
		},
		Kind:  e.Kind,
		cause: e.cause,
	}
}

// Is reports whether err is an *Error with the same kind and code
func (e *Error) Is(err error) bool {
	var fe *Error
	if errors.As(err, &fe) {
		return e.Kind == fe.Kind && e.Code == fe.Code
	}
	return false
}

// GetCode returns the HTTP status code
func (e *Error) GetCode() int {
	return e.Code
}

// GetMessage returns the error message
func (e *Error) GetMessage() string {
	return e.Message
}

// GetMetadata returns a copy of the metadata to prevent external modification
func (e *Error) GetMetadata() map[string]string {
	if len(e.Metadata) == 0 {
		return nil
	}

	result := make(map[string]string, len(e.Metadata))
	maps.Copy(result, e.Metadata)
	return result
}

// GetCause returns the underlying cause of the error
func (e *Error) GetCause() error {
	return e.cause
}

// New creates a new error with the given status code and formatted message.
// The kind is derived from the status code.
func New(code int, format string, args ...any) *Error {
	return NewKind(kindFromStatus(code), code, format, args...)
}

// NewKind creates a new error with an explicit kind
func NewKind(kind Kind, code int, format string, args ...any) *Error {
	var message string
	if len(args) == 0 {
		message = format
	} else {
		message = fmt.Sprintf(format, args...)
	}

	return &Error{
		Status: Status{
			Code:    code,
			Message: message,
		},
		Kind: kind,
	}
}

// FromError converts a generic error to *Error
func FromError(err error) *Error {
	if err == nil {
		return nil
	}

	var fe *Error
	if errors.As(err, &fe) {
		return fe
	}

	return NewKind(KindUnknown, UnknownCode, "%v", err)
}

// Wrap wraps an error with additional context while preserving the chain.
// Returns nil if the input error is nil.
func Wrap(err error, code int, format string, args ...any) *Error {
	if err == nil {
		return nil
	}

	return New(code, format, args...).WithCause(err)
}

// WrapKind wraps an error with an explicit kind
func WrapKind(err error, kind Kind, code int, format string, args ...any) *Error {
	if err == nil {
		return nil
	}

	return NewKind(kind, code, format, args...).WithCause(err)
}
