package client

import (
	"context"
	"maps"
	"net/url"
)

// ContentTypeJSON is the default content type for request bodies
const ContentTypeJSON = "application/json"

// RequestOption holds options for individual HTTP requests
type RequestOption struct {
	ctx      context.Context
	header   map[string]string
	query    url.Values
	response any
	noAuth   bool
	retries  bool
	replayed bool
}

// WithContext sets a custom context for the request
func WithContext(ctx context.Context) func(*RequestOption) {
	return func(opt *RequestOption) {
		opt.ctx = ctx
	}
}

// WithHeader sets multiple headers for the request
func WithHeader(header map[string]string) func(*RequestOption) {
	return func(opt *RequestOption) {
		maps.Copy(opt.header, header)
	}
}

// WithQuery sets query parameters for the request
func WithQuery(query url.Values) func(*RequestOption) {
	return func(opt *RequestOption) {
		opt.query = query
	}
}

// WithResponse sets the response target object for automatic unmarshaling
func WithResponse(response any) func(*RequestOption) {
	return func(opt *RequestOption) {
		opt.response = response
	}
}

// WithRetry wraps the request in the client's bounded retry policy.
// Only transient failures are retried; call-sites opt in per request.
func WithRetry() func(*RequestOption) {
	return func(opt *RequestOption) {
		opt.retries = true
	}
}

// WithoutAuth skips credential attachment, used for login and registration
func WithoutAuth() func(*RequestOption) {
	return func(opt *RequestOption) {
		opt.noAuth = true
	}
}

// reset efficiently resets the RequestOption for reuse
func (opt *RequestOption) reset() {
	opt.ctx = nil
	// Clear map efficiently by reusing the underlying storage
	for k := range opt.header {
		delete(opt.header, k)
	}
	// Set default content type
	opt.header["Content-Type"] = ContentTypeJSON
	opt.query = nil
	opt.response = nil
	opt.noAuth = false
	opt.retries = false
	opt.replayed = false
}

// getRequestOption retrieves a RequestOption from the pool
func (cli *Client) getRequestOption() *RequestOption {
	opt := cli.requestOptPool.Get().(*RequestOption)
	opt.reset()
	return opt
}

// putRequestOption returns a RequestOption to the pool
func (cli *Client) putRequestOption(opt *RequestOption) {
	cli.requestOptPool.Put(opt)
}
