// Package client implements the resilient HTTP client used for every call to
// the workflow service: credential attachment, proactive refresh, a single
// refresh-and-replay on 401, bounded retries and failure classification.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/kochabx/flowclient/errors"
	"github.com/kochabx/flowclient/events"
	"github.com/kochabx/flowclient/log"
	"github.com/kochabx/flowclient/metrics"
	"github.com/kochabx/flowclient/retry"
)

const (
	// DefaultTimeout bounds a single Request call including retries
	DefaultTimeout = 30 * time.Second

	// Buffer pool constants
	defaultBufferSize = 4096
	maxBufferSize     = 1024 * 1024 // 1MB
)

// Credentials supplies the bearer token attached to outgoing requests.
// Refresh must be single-flight; concurrent callers share one refresh.
type Credentials interface {
	// Token returns the current raw token, false when anonymous
	Token() (string, bool)
	// Expired reports whether the current token is past its usable window
	Expired() bool
	// Refresh exchanges the current token for a fresh one
	Refresh(ctx context.Context) (string, error)
}

// Client represents the HTTP client with connection pooling and request
// optimization. All requests against the service go through it.
type Client struct {
	base    string
	client  *http.Client
	creds   Credentials
	bus     *events.Bus
	policy  *retry.Policy
	metrics *metrics.Metrics
	timeout time.Duration

	requestOptPool sync.Pool
	bufferPool     sync.Pool
}

// New creates a new client for the given base URL
func New(base string, opts ...Option) *Client {
	cli := &Client{
		base:    base,
		client:  &http.Client{},
		bus:     events.NewBus(),
		policy:  retry.NewPolicy(0, 0, 0, 0),
		metrics: metrics.NewMetrics("", false, nil),
		timeout: DefaultTimeout,
		requestOptPool: sync.Pool{
			New: func() any {
				return &RequestOption{
					header: make(map[string]string, 8), // Pre-allocate with reasonable capacity
				}
			},
		},
		bufferPool: sync.Pool{
			New: func() any {
				return bytes.NewBuffer(make([]byte, 0, defaultBufferSize))
			},
		},
	}

	for _, opt := range opts {
		opt(cli)
	}

	return cli
}

// Request sends an HTTP request with the specified method, path, and body.
// The body is encoded once so that retries and replays resend identical
// bytes. The whole call, retries included, is bounded by the client timeout.
func (cli *Client) Request(method, path string, body any, opts ...func(*RequestOption)) (*http.Response, error) {
	// Get and configure request options
	opt := cli.getRequestOption()
	defer cli.putRequestOption(opt)

	// Apply request options
	for _, o := range opts {
		o(opt)
	}

	payload, err := cli.encodeBody(body)
	if err != nil {
		return nil, errors.NewKind(errors.KindDecode, errors.UnknownCode, "encode request body: %v", err)
	}

	ctx := opt.ctx
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, cli.timeout)
	defer cancel()

	url := joinURL(cli.base, path, opt.query)

	// Retries are opt-in per call-site; the default path is a single
	// gatekeeper pass with at most one 401-triggered replay.
	start := time.Now()
	var resp *http.Response
	if opt.retries {
		resp, err = cli.execute(ctx, method, url, payload, opt)
	} else {
		resp, err = cli.attempt(ctx, method, url, payload, opt)
	}
	cli.metrics.RecordRequest(method, err == nil, time.Since(start).Seconds())

	if err != nil {
		log.Debugf("request failed: method=%s path=%s err=%v", method, path, err)
		cli.bus.Publish(events.Event{
			Topic:    events.TopicRequestFailed,
			Err:      err,
			Metadata: map[string]string{"method": method, "path": path},
		})
		return nil, err
	}

	// Process response
	if opt.response != nil {
		defer resp.Body.Close()
		if err := json.NewDecoder(resp.Body).Decode(opt.response); err != nil {
			return nil, errors.NewKind(errors.KindDecode, resp.StatusCode, "decode response: %v", err)
		}
	}
	return resp, nil
}

// execute runs the attempt loop under the retry policy
func (cli *Client) execute(ctx context.Context, method, url string, payload []byte, opt *RequestOption) (*http.Response, error) {
	var resp *http.Response
	attempt := 0

	err := retry.Do(ctx, cli.policy, func(ctx context.Context) error {
		if attempt > 0 {
			cli.metrics.RecordRetry(method)
		}
		attempt++

		r, err := cli.attempt(ctx, method, url, payload, opt)
		if err != nil {
			return err
		}
		resp = r
		return nil
	})
	return resp, err
}

// attempt performs one authenticated exchange, including the proactive
// refresh of an expired credential and at most one refresh-and-replay when
// the server answers 401.
func (cli *Client) attempt(ctx context.Context, method, url string, payload []byte, opt *RequestOption) (*http.Response, error) {
	var token string
	if !opt.noAuth && cli.creds != nil {
		if tok, ok := cli.creds.Token(); ok {
			token = tok
			// A credential we already know to be stale gets refreshed
			// before the request instead of burning a round trip on a 401
			if cli.creds.Expired() {
				refreshed, err := cli.creds.Refresh(ctx)
				if err != nil {
					return nil, err
				}
				token = refreshed
			}
		}
	}

	resp, err := cli.send(ctx, method, url, payload, opt, token)
	if err != nil {
		return nil, cli.transportFailure(method, err)
	}

	// One refresh-and-replay per request. A second 401 means the fresh
	// credential is rejected too and the failure surfaces as-is.
	if resp.StatusCode == http.StatusUnauthorized && token != "" && !opt.replayed {
		opt.replayed = true
		drain(resp)

		refreshed, err := cli.creds.Refresh(ctx)
		if err != nil {
			return nil, err
		}

		cli.metrics.RecordReplay()
		log.Debugf("replaying after refresh: method=%s", method)
		resp, err = cli.send(ctx, method, url, payload, opt, refreshed)
		if err != nil {
			return nil, cli.transportFailure(method, err)
		}
	}

	if resp.StatusCode >= 400 {
		return nil, cli.errorFromResponse(resp)
	}
	return resp, nil
}

// transportFailure classifies a no-response failure and publishes it when
// the network itself is unreachable. Used for both the first attempt and
// the 401-triggered replay.
func (cli *Client) transportFailure(method string, err error) error {
	terr := errors.FromTransport(err)
	if errors.KindOf(terr) == errors.KindNetwork {
		cli.bus.Publish(events.Event{
			Topic:    events.TopicNetworkUnreachable,
			Err:      terr,
			Metadata: map[string]string{"method": method},
		})
	}
	return terr
}

// send issues a single HTTP exchange
func (cli *Client) send(ctx context.Context, method, url string, payload []byte, opt *RequestOption, token string) (*http.Response, error) {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, err
	}

	for k, v := range opt.header {
		req.Header.Set(k, v)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	req.Header.Set("X-Request-ID", uuid.NewString())

	return cli.client.Do(req)
}

// encodeBody serializes the request body to a replayable byte slice
func (cli *Client) encodeBody(body any) ([]byte, error) {
	switch v := body.(type) {
	case nil:
		return nil, nil
	case io.Reader:
		return io.ReadAll(v)
	case []byte:
		return v, nil
	default:
		buf := cli.getBuffer()
		defer cli.putBuffer(buf)

		if err := json.NewEncoder(buf).Encode(v); err != nil {
			return nil, err
		}
		return bytes.Clone(buf.Bytes()), nil
	}
}

// errorFromResponse converts a non-2xx response into a classified error.
// The service reports failures as {"detail": "..."}.
func (cli *Client) errorFromResponse(resp *http.Response) error {
	defer resp.Body.Close()

	message := resp.Status
	var wire struct {
		Detail string `json:"detail"`
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBufferSize)).Decode(&wire); err == nil && wire.Detail != "" {
		message = wire.Detail
	}

	return errors.FromResponse(resp.StatusCode, message)
}

// drain discards a response body so the connection can be reused
func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBufferSize))
	_ = resp.Body.Close()
}

// getBuffer retrieves a buffer from the pool
func (cli *Client) getBuffer() *bytes.Buffer {
	buf := cli.bufferPool.Get().(*bytes.Buffer)
	buf.Reset()
	return buf
}

// putBuffer returns a buffer to the pool, with size check to prevent memory leaks
func (cli *Client) putBuffer(buf *bytes.Buffer) {
	// Prevent very large buffers from being pooled to avoid memory leaks
	if buf.Cap() <= maxBufferSize {
		cli.bufferPool.Put(buf)
	}
}

// Convenience methods for common HTTP operations

// Get performs a GET request
func (cli *Client) Get(path string, opts ...func(*RequestOption)) (*http.Response, error) {
	return cli.Request(http.MethodGet, path, nil, opts...)
}

// Post performs a POST request with JSON body
func (cli *Client) Post(path string, body any, opts ...func(*RequestOption)) (*http.Response, error) {
	return cli.Request(http.MethodPost, path, body, opts...)
}

// Put performs a PUT request with JSON body
func (cli *Client) Put(path string, body any, opts ...func(*RequestOption)) (*http.Response, error) {
	return cli.Request(http.MethodPut, path, body, opts...)
}

// Delete performs a DELETE request
func (cli *Client) Delete(path string, opts ...func(*RequestOption)) (*http.Response, error) {
	return cli.Request(http.MethodDelete, path, nil, opts...)
}

// Patch performs a PATCH request with JSON body
func (cli *Client) Patch(path string, body any, opts ...func(*RequestOption)) (*http.Response, error) {
	return cli.Request(http.MethodPatch, path, body, opts...)
}
