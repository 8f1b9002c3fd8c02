package conversation

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/jimwinquist/conversation-go/core"
)

// WorkspaceStatus is the training state of a workspace. Unrecognized wire
// values pass through untouched so a newer service does not break decoding.
type WorkspaceStatus string

const (
	WorkspaceStatusNonExistent WorkspaceStatus = "Non Existent"
	WorkspaceStatusTraining    WorkspaceStatus = "Training"
	WorkspaceStatusFailed      WorkspaceStatus = "Failed"
	WorkspaceStatusAvailable   WorkspaceStatus = "Available"
	WorkspaceStatusUnavailable WorkspaceStatus = "Unavailable"
)

// IsKnown reports whether s is one of the documented workspace states.
func (s WorkspaceStatus) IsKnown() bool {
	switch s {
	case WorkspaceStatusNonExistent, WorkspaceStatusTraining, WorkspaceStatusFailed,
		WorkspaceStatusAvailable, WorkspaceStatusUnavailable:
		return true
	}
	return false
}

// Workspace is the top-level container of intents, entities, dialog nodes and
// counterexamples for one conversational application. The training-data
// slices are populated only when the workspace was fetched with export=true.
type Workspace struct {
	Name           string                `json:"name"`
	Language       string                `json:"language"`
	WorkspaceID    string                `json:"workspace_id"`
	Description    *string               `json:"description,omitempty"`
	Metadata       map[string]core.Value `json:"metadata,omitempty"`
	LearningOptOut *bool                 `json:"learning_opt_out,omitempty"`
	Created        *string               `json:"created,omitempty"`
	Updated        *string               `json:"updated,omitempty"`
	Status         *WorkspaceStatus      `json:"status,omitempty"`

	Intents         []Intent         `json:"intents,omitempty"`
	Entities        []Entity         `json:"entities,omitempty"`
	Counterexamples []Counterexample `json:"counterexamples,omitempty"`
	DialogNodes     []DialogNode     `json:"dialog_nodes,omitempty"`
}

func (w *Workspace) UnmarshalJSON(data []byte) error {
	if err := core.RequireKeys(data, "name", "language", "workspace_id"); err != nil {
		return err
	}
	type plain Workspace
	var v plain
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*w = Workspace(v)
	return nil
}

// WorkspaceCollection is one page of a workspace listing.
type WorkspaceCollection struct {
	Workspaces []Workspace `json:"workspaces"`
	Pagination Pagination  `json:"pagination"`
}

func (c *WorkspaceCollection) UnmarshalJSON(data []byte) error {
	if err := core.RequireKeys(data, "workspaces", "pagination"); err != nil {
		return err
	}
	type plain WorkspaceCollection
	var v plain
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*c = WorkspaceCollection(v)
	return nil
}

// CreateWorkspaceRequest is the body for CreateWorkspace and UpdateWorkspace.
type CreateWorkspaceRequest struct {
	Name            *string                   `json:"name,omitempty"`
	Description     *string                   `json:"description,omitempty"`
	Language        *string                   `json:"language,omitempty"`
	Intents         []CreateIntentRequest     `json:"intents,omitempty"`
	Entities        []CreateEntityRequest     `json:"entities,omitempty"`
	DialogNodes     []CreateDialogNodeRequest `json:"dialog_nodes,omitempty"`
	Counterexamples []CreateExampleRequest    `json:"counterexamples,omitempty"`
	Metadata        map[string]core.Value     `json:"metadata,omitempty"`
	LearningOptOut  *bool                     `json:"learning_opt_out,omitempty"`
}

// ListWorkspaces pages through the workspaces available to the credentials.
func (c *Client) ListWorkspaces(ctx context.Context, opts *ListOptions) (*WorkspaceCollection, error) {
	q := c.newQuery()
	applyListOptions(q, opts)

	var out WorkspaceCollection
	err := c.do(ctx, call{
		operation: "list_workspaces",
		method:    http.MethodGet,
		segments:  []string{"v1", "workspaces"},
		query:     q,
		out:       &out,
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateWorkspace creates a workspace, optionally seeded with training data.
func (c *Client) CreateWorkspace(ctx context.Context, req *CreateWorkspaceRequest) (*Workspace, error) {
	var out Workspace
	err := c.do(ctx, call{
		operation: "create_workspace",
		method:    http.MethodPost,
		segments:  []string{"v1", "workspaces"},
		body:      req,
		out:       &out,
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// GetWorkspace fetches one workspace. With export true the response carries
// the full training data (intents, entities, dialog nodes, counterexamples).
func (c *Client) GetWorkspace(ctx context.Context, workspaceID string, export *bool) (*Workspace, error) {
	q := c.newQuery()
	q.SetBool("export", export)

	var out Workspace
	err := c.do(ctx, call{
		operation: "get_workspace",
		method:    http.MethodGet,
		segments:  []string{"v1", "workspaces", workspaceID},
		query:     q,
		out:       &out,
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateWorkspace replaces workspace properties with the supplied values.
func (c *Client) UpdateWorkspace(ctx context.Context, workspaceID string, req *CreateWorkspaceRequest) (*Workspace, error) {
	var out Workspace
	err := c.do(ctx, call{
		operation: "update_workspace",
		method:    http.MethodPost,
		segments:  []string{"v1", "workspaces", workspaceID},
		body:      req,
		out:       &out,
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteWorkspace removes a workspace and everything in it.
func (c *Client) DeleteWorkspace(ctx context.Context, workspaceID string) error {
	return c.do(ctx, call{
		operation: "delete_workspace",
		method:    http.MethodDelete,
		segments:  []string{"v1", "workspaces", workspaceID},
	})
}
