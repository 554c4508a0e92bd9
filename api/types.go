package api

import (
	"encoding/json"
	"time"

	"github.com/kochabx/flowclient/credential"
)

// AuthResponse is the shape returned by login, register and refresh
type AuthResponse struct {
	AccessToken string              `json:"access_token"`
	User        *credential.Profile `json:"user"`
}

// LoginRequest carries login credentials
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RegisterRequest carries the fields of a new account
type RegisterRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// Workflow is a stored workflow definition. The definition graph is opaque
// to this client and passed through as raw JSON.
type Workflow struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Definition  json.RawMessage `json:"definition,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// CreateWorkflowRequest creates a workflow
type CreateWorkflowRequest struct {
	Name        string          `json:"name" validate:"required"`
	Description string          `json:"description,omitempty"`
	Definition  json.RawMessage `json:"definition,omitempty"`
}

// UpdateWorkflowRequest updates a workflow, empty fields are left unchanged
type UpdateWorkflowRequest struct {
	Name        string          `json:"name,omitempty"`
	Description string          `json:"description,omitempty"`
	Definition  json.RawMessage `json:"definition,omitempty"`
}

// ValidateWorkflowRequest submits a workflow definition for validation
type ValidateWorkflowRequest struct {
	Definition json.RawMessage `json:"workflow_definition" validate:"required"`
}

// ValidationResult is the outcome of server-side workflow validation
type ValidationResult struct {
	Valid             bool     `json:"valid"`
	Errors            []string `json:"errors,omitempty"`
	Warnings          []string `json:"warnings,omitempty"`
	HasCycles         bool     `json:"has_cycles"`
	DisconnectedNodes []string `json:"disconnected_nodes,omitempty"`
}

// WorkflowRun is a single execution of a workflow
type WorkflowRun struct {
	ID         string          `json:"id"`
	WorkflowID string          `json:"workflow_id"`
	Status     string          `json:"status"`
	Input      json.RawMessage `json:"input,omitempty"`
	Output     json.RawMessage `json:"output,omitempty"`
	Error      string          `json:"error,omitempty"`
	StartedAt  time.Time       `json:"started_at"`
	FinishedAt *time.Time      `json:"finished_at,omitempty"`
}

// StartRunRequest starts a workflow run
type StartRunRequest struct {
	WorkflowID string          `json:"workflow_id" validate:"required"`
	Input      json.RawMessage `json:"input,omitempty"`
}

// ContinueRunRequest resumes a run paused on an approval or input step
type ContinueRunRequest struct {
	Input json.RawMessage `json:"input,omitempty"`
}

// RunStatusUpdate sets a new status on a run
type RunStatusUpdate struct {
	Status string `json:"status" validate:"required"`
}

// PendingApproval is a node of a paused run waiting for user approval
type PendingApproval struct {
	NodeID          string          `json:"node_id"`
	NodeType        string          `json:"node_type"`
	GeneratedPrompt json.RawMessage `json:"generated_prompt"`
	RequestID       string          `json:"request_id"`
}

// ApproveNodeRequest approves the generated prompt of a waiting node
type ApproveNodeRequest struct {
	ApprovedPrompt json.RawMessage `json:"approved_prompt" validate:"required"`
}

// RejectNodeRequest rejects the generated prompt of a waiting node
type RejectNodeRequest struct {
	RejectionReason string `json:"rejection_reason,omitempty"`
}

// ApprovalAction is the outcome of an approve or reject call
type ApprovalAction struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Node describes an entry in the node catalog
type Node struct {
	Type     string          `json:"type"`
	Category string          `json:"category"`
	Label    string          `json:"label"`
	Schema   json.RawMessage `json:"schema,omitempty"`
}
