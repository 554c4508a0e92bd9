package api

import (
	"context"
	"net/url"

	"github.com/kochabx/flowclient/client"
	"github.com/kochabx/flowclient/errors"
)

// ListPendingApprovals returns the nodes of a run waiting for user approval
func (a *API) ListPendingApprovals(ctx context.Context, runID string) ([]PendingApproval, error) {
	var out []PendingApproval
	_, err := a.http.Get("/workflow-runs/"+url.PathEscape(runID)+"/pending-approvals",
		client.WithContext(ctx),
		client.WithRetry(),
		client.WithResponse(&out),
	)
	return out, err
}

// ApproveNode approves the generated prompt of a waiting node; the server
// resumes the run in the background.
func (a *API) ApproveNode(ctx context.Context, runID, nodeID string, req ApproveNodeRequest) (*ApprovalAction, error) {
	if err := a.validate.StructCtx(ctx, req); err != nil {
		return nil, errors.BadRequest("invalid approval: %v", err)
	}

	var out ApprovalAction
	_, err := a.http.Post(approvalPath(runID, nodeID)+"/approve", req,
		client.WithContext(ctx),
		client.WithResponse(&out),
	)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// RejectNode rejects the generated prompt of a waiting node and halts the run
func (a *API) RejectNode(ctx context.Context, runID, nodeID string, req RejectNodeRequest) (*ApprovalAction, error) {
	var out ApprovalAction
	_, err := a.http.Post(approvalPath(runID, nodeID)+"/reject", req,
		client.WithContext(ctx),
		client.WithResponse(&out),
	)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func approvalPath(runID, nodeID string) string {
	return "/workflow-runs/" + url.PathEscape(runID) + "/nodes/" + url.PathEscape(nodeID)
}
