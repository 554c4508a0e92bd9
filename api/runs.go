package api

import (
	"context"
	"net/url"

	"github.com/kochabx/flowclient/client"
	"github.com/kochabx/flowclient/errors"
	"github.com/kochabx/flowclient/stream"
)

// ListRuns returns runs, optionally filtered by workflow
func (a *API) ListRuns(ctx context.Context, workflowID string) ([]WorkflowRun, error) {
	opts := []func(*client.RequestOption){
		client.WithContext(ctx),
		client.WithRetry(),
	}
	if workflowID != "" {
		opts = append(opts, client.WithQuery(url.Values{"workflow_id": {workflowID}}))
	}

	var out []WorkflowRun
	opts = append(opts, client.WithResponse(&out))
	_, err := a.http.Get("/workflow-runs", opts...)
	return out, err
}

// GetRun returns a single run
func (a *API) GetRun(ctx context.Context, id string) (*WorkflowRun, error) {
	var out WorkflowRun
	_, err := a.http.Get("/workflow-runs/"+url.PathEscape(id),
		client.WithContext(ctx),
		client.WithRetry(),
		client.WithResponse(&out),
	)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// StartRun starts a new run of a workflow
func (a *API) StartRun(ctx context.Context, req StartRunRequest) (*WorkflowRun, error) {
	if err := a.validate.StructCtx(ctx, req); err != nil {
		return nil, errors.BadRequest("invalid run request: %v", err)
	}

	var out WorkflowRun
	_, err := a.http.Post("/workflow-runs", req,
		client.WithContext(ctx),
		client.WithResponse(&out),
	)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateRunStatus sets a new status on a run
func (a *API) UpdateRunStatus(ctx context.Context, id, status string) (*WorkflowRun, error) {
	req := RunStatusUpdate{Status: status}
	if err := a.validate.StructCtx(ctx, req); err != nil {
		return nil, errors.BadRequest("invalid status update: %v", err)
	}

	var out WorkflowRun
	_, err := a.http.Put("/workflow-runs/"+url.PathEscape(id)+"/status", req,
		client.WithContext(ctx),
		client.WithResponse(&out),
	)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// CancelRun cancels a running workflow run via the status endpoint
func (a *API) CancelRun(ctx context.Context, id string) (*WorkflowRun, error) {
	return a.UpdateRunStatus(ctx, id, "cancelled")
}

// WatchRun streams the events of a run over WebSocket until the run reaches
// a terminal state, the context is cancelled or reconnects are exhausted.
// The connection carries the current credential and re-dials on disconnect.
func (a *API) WatchRun(ctx context.Context, id string, handler stream.Handler) error {
	c := stream.New(a.cfg.BaseURL,
		stream.WithCredentials(a.session),
		stream.WithConfig(&stream.Config{
			HandshakeTimeout:  a.cfg.Stream.HandshakeTimeout,
			PingInterval:      a.cfg.Stream.PingInterval,
			PongWait:          a.cfg.Stream.PongWait,
			WriteTimeout:      a.cfg.Stream.WriteTimeout,
			MaxMessageSize:    a.cfg.Stream.MaxMessageSize,
			MaxReconnects:     a.cfg.Stream.MaxReconnects,
			ReconnectBase:     a.cfg.Stream.ReconnectBase,
			ReconnectMax:      a.cfg.Stream.ReconnectMax,
			EnableCompression: a.cfg.Stream.EnableCompression,
		}),
	)
	return c.Subscribe(ctx, id, handler)
}

// ContinueRun resumes a run paused on an approval or input step
func (a *API) ContinueRun(ctx context.Context, id string, req ContinueRunRequest) (*WorkflowRun, error) {
	var out WorkflowRun
	_, err := a.http.Post("/workflow-runs/"+url.PathEscape(id)+"/continue", req,
		client.WithContext(ctx),
		client.WithResponse(&out),
	)
	if err != nil {
		return nil, err
	}
	return &out, nil
}
