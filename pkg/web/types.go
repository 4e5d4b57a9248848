// Package web provides HTTP request and response types for the workflow API.
package web

import "github.com/velden/nodion/pkg/models"

// CreateWorkflowRequest represents the request body for creating a new workflow.
type CreateWorkflowRequest struct {
	Name        string                 `json:"name"        validate:"required,min=3"`
	Description string                 `json:"description"`
	Nodes       []*models.WorkflowNode `json:"nodes"       validate:"required,min=1,dive"`
	Edges       []*models.WorkflowEdge `json:"edges"       validate:"dive"`
	Variables   map[string]any         `json:"variables,omitempty"`
	Metadata    map[string]any         `json:"metadata,omitempty"`
}

// UpdateWorkflowRequest represents the request body for updating an existing
// workflow. All fields are optional to support partial updates.
type UpdateWorkflowRequest struct {
	Name        *string                `json:"name,omitempty"        validate:"omitempty,min=3"`
	Description *string                `json:"description,omitempty"`
	Nodes       []*models.WorkflowNode `json:"nodes,omitempty"       validate:"omitempty,min=1,dive"`
	Edges       []*models.WorkflowEdge `json:"edges,omitempty"       validate:"omitempty,dive"`
	Variables   map[string]any         `json:"variables,omitempty"`
	Metadata    map[string]any         `json:"metadata,omitempty"`
}

// ExecuteWorkflowRequest represents the request body for executing a workflow.
type ExecuteWorkflowRequest struct {
	Input map[string]any `json:"input,omitempty"`
}

// Workflow converts a create request into a workflow model.
func (r *CreateWorkflowRequest) Workflow() *models.Workflow {
	return &models.Workflow{
		Name:        r.Name,
		Description: r.Description,
		Nodes:       r.Nodes,
		Edges:       r.Edges,
		Variables:   r.Variables,
		Metadata:    r.Metadata,
	}
}
