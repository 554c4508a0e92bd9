package api

import (
	"github.com/kochabx/flowclient/metrics"
	"github.com/kochabx/flowclient/store"
)

// Option configures the API client
type Option func(*API)

// WithStore overrides the credential store built from the configuration
func WithStore(st store.CredentialStore) Option {
	return func(a *API) {
		if st != nil {
			a.store = st
		}
	}
}

// WithMetrics overrides the metrics collector
func WithMetrics(m *metrics.Metrics) Option {
	return func(a *API) {
		if m != nil {
			a.metrics = m
		}
	}
}
