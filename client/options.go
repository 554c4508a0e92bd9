package client

import (
	"net/http"
	"time"

	"github.com/kochabx/flowclient/events"
	"github.com/kochabx/flowclient/metrics"
	"github.com/kochabx/flowclient/retry"
)

// Option configures the HTTP client
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client
func WithHTTPClient(client *http.Client) Option {
	return func(cli *Client) {
		if client != nil {
			cli.client = client
		}
	}
}

// WithCredentials sets the credential source attached to requests
func WithCredentials(creds Credentials) Option {
	return func(cli *Client) {
		cli.creds = creds
	}
}

// WithBus sets the event bus failures are published to
func WithBus(bus *events.Bus) Option {
	return func(cli *Client) {
		if bus != nil {
			cli.bus = bus
		}
	}
}

// WithRetryPolicy sets the retry policy for transient failures
func WithRetryPolicy(policy *retry.Policy) Option {
	return func(cli *Client) {
		if policy != nil {
			cli.policy = policy
		}
	}
}

// WithMetrics sets the metrics collector
func WithMetrics(m *metrics.Metrics) Option {
	return func(cli *Client) {
		if m != nil {
			cli.metrics = m
		}
	}
}

// WithTimeout bounds a single Request call including retries
func WithTimeout(timeout time.Duration) Option {
	return func(cli *Client) {
		if timeout > 0 {
			cli.timeout = timeout
		}
	}
}
