// Package api is the typed surface of the workflow service client. It wires
// the configuration, credential store, session manager and resilient HTTP
// client together and exposes one method per service operation.
package api

import (
	"context"

	"github.com/kochabx/flowclient/client"
	"github.com/kochabx/flowclient/config"
	"github.com/kochabx/flowclient/credential"
	"github.com/kochabx/flowclient/errors"
	"github.com/kochabx/flowclient/events"
	"github.com/kochabx/flowclient/metrics"
	"github.com/kochabx/flowclient/retry"
	"github.com/kochabx/flowclient/session"
	"github.com/kochabx/flowclient/store"
	"github.com/kochabx/flowclient/validator"
)

// API is the entry point of the client
type API struct {
	cfg      *config.ClientConfig
	http     *client.Client
	session  *session.Manager
	bus      *events.Bus
	store    store.CredentialStore
	metrics  *metrics.Metrics
	validate validator.Validator
}

// New builds a fully wired client from the configuration
func New(cfg *config.ClientConfig, opts ...Option) (*API, error) {
	if cfg == nil {
		cfg = &config.ClientConfig{}
	}
	cfg.SetDefaults()

	if err := validator.Validate.Struct(cfg); err != nil {
		return nil, errors.BadRequest("invalid client config: %v", err)
	}

	a := &API{
		cfg:      cfg,
		bus:      events.NewBus(),
		metrics:  metrics.NewMetrics("flowclient", true, nil),
		validate: validator.Validate,
	}

	for _, opt := range opts {
		if opt != nil {
			opt(a)
		}
	}

	if a.store == nil {
		st, err := newStore(cfg)
		if err != nil {
			return nil, err
		}
		a.store = st
	}

	oracle := credential.NewOracle(cfg.Session.Skew, cfg.Session.RenewLead, cfg.Session.RenewFloor)
	a.session = session.NewManager(a.store, a.bus, a.refreshCredential,
		session.WithOracle(oracle),
		session.WithMetrics(a.metrics),
	)

	a.http = client.New(cfg.BaseURL,
		client.WithCredentials(a.session),
		client.WithBus(a.bus),
		client.WithMetrics(a.metrics),
		client.WithTimeout(cfg.Timeout),
		client.WithRetryPolicy(retry.NewPolicy(
			cfg.Retry.MaxAttempts,
			cfg.Retry.BaseDelay,
			cfg.Retry.MaxDelay,
			cfg.Retry.JitterMax,
		)),
	)

	return a, nil
}

// newStore builds the credential store backend named by the configuration
func newStore(cfg *config.ClientConfig) (store.CredentialStore, error) {
	switch cfg.Store.Backend {
	case "memory":
		return store.NewMemory(), nil
	case "file":
		return store.NewFile(cfg.Store.Path), nil
	case "redis":
		return store.NewRedis(&store.RedisConfig{
			Addr:        cfg.Store.Redis.Addr,
			Username:    cfg.Store.Redis.Username,
			Password:    cfg.Store.Redis.Password,
			DB:          cfg.Store.Redis.DB,
			KeyPrefix:   cfg.Store.Redis.KeyPrefix,
			DialTimeout: cfg.Store.Redis.DialTimeout,
		})
	default:
		return nil, errors.BadRequest("unknown store backend %q", cfg.Store.Backend)
	}
}

// Restore loads a previously saved session from the credential store.
// A missing session is not an error; an expired one triggers one refresh.
func (a *API) Restore(ctx context.Context) error {
	return a.session.Restore(ctx)
}

// Events returns the bus session and request events are published on
func (a *API) Events() *events.Bus {
	return a.bus
}

// Session returns the session manager
func (a *API) Session() *session.Manager {
	return a.session
}

// HTTP returns the underlying resilient HTTP client for calls the typed
// surface does not cover
func (a *API) HTTP() *client.Client {
	return a.http
}
