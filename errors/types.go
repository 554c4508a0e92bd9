package errors

// Constructors for the status codes the service actually returns

// BadRequest creates a 400 validation error
func BadRequest(format string, args ...any) *Error {
	return New(400, format, args...)
}

// Unauthorized creates a 401 auth error
func Unauthorized(format string, args ...any) *Error {
	return New(401, format, args...)
}

// Forbidden creates a 403 validation error
func Forbidden(format string, args ...any) *Error {
	return New(403, format, args...)
}

// NotFound creates a 404 validation error
func NotFound(format string, args ...any) *Error {
	return New(404, format, args...)
}

// RequestTimeout creates a 408 timeout error
func RequestTimeout(format string, args ...any) *Error {
	return New(408, format, args...)
}

// UnprocessableEntity creates a 422 validation error
func UnprocessableEntity(format string, args ...any) *Error {
	return New(422, format, args...)
}

// TooManyRequests creates a 429 rate-limited error
func TooManyRequests(format string, args ...any) *Error {
	return New(429, format, args...)
}

// Internal creates a 500 server error
func Internal(format string, args ...any) *Error {
	return New(500, format, args...)
}

// ServiceUnavailable creates a 503 server error
func ServiceUnavailable(format string, args ...any) *Error {
	return New(503, format, args...)
}
