package api

import (
	"context"
	"net/url"

	"github.com/kochabx/flowclient/client"
	"github.com/kochabx/flowclient/errors"
)

// ListWorkflows returns all workflows visible to the user
func (a *API) ListWorkflows(ctx context.Context) ([]Workflow, error) {
	var out []Workflow
	_, err := a.http.Get("/workflows",
		client.WithContext(ctx),
		client.WithRetry(),
		client.WithResponse(&out),
	)
	return out, err
}

// GetWorkflow returns a single workflow
func (a *API) GetWorkflow(ctx context.Context, id string) (*Workflow, error) {
	var out Workflow
	_, err := a.http.Get("/workflows/"+url.PathEscape(id),
		client.WithContext(ctx),
		client.WithRetry(),
		client.WithResponse(&out),
	)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateWorkflow creates a workflow
func (a *API) CreateWorkflow(ctx context.Context, req CreateWorkflowRequest) (*Workflow, error) {
	if err := a.validate.StructCtx(ctx, req); err != nil {
		return nil, errors.BadRequest("invalid workflow: %v", err)
	}

	var out Workflow
	_, err := a.http.Post("/workflows", req,
		client.WithContext(ctx),
		client.WithResponse(&out),
	)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateWorkflow updates a workflow
func (a *API) UpdateWorkflow(ctx context.Context, id string, req UpdateWorkflowRequest) (*Workflow, error) {
	var out Workflow
	_, err := a.http.Put("/workflows/"+url.PathEscape(id), req,
		client.WithContext(ctx),
		client.WithResponse(&out),
	)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteWorkflow deletes a workflow
func (a *API) DeleteWorkflow(ctx context.Context, id string) error {
	_, err := a.http.Delete("/workflows/"+url.PathEscape(id),
		client.WithContext(ctx),
	)
	return err
}

// ValidateWorkflow asks the server to validate a workflow definition.
// The definition travels in the request body, so unsaved drafts can be
// checked too.
func (a *API) ValidateWorkflow(ctx context.Context, req ValidateWorkflowRequest) (*ValidationResult, error) {
	if err := a.validate.StructCtx(ctx, req); err != nil {
		return nil, errors.BadRequest("invalid validation request: %v", err)
	}

	var out ValidationResult
	_, err := a.http.Post("/workflows/validate", req,
		client.WithContext(ctx),
		client.WithResponse(&out),
	)
	if err != nil {
		return nil, err
	}
	return &out, nil
}
