package conversation

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/jimwinquist/conversation-go/core"
)

// Intent is a labeled user-goal category. Examples are populated only when
// the intent was fetched with export=true.
type Intent struct {
	Name        string    `json:"intent"`
	Description *string   `json:"description,omitempty"`
	Created     *string   `json:"created,omitempty"`
	Updated     *string   `json:"updated,omitempty"`
	Examples    []Example `json:"examples,omitempty"`
}

func (i *Intent) UnmarshalJSON(data []byte) error {
	if err := core.RequireKeys(data, "intent"); err != nil {
		return err
	}
	type plain Intent
	var v plain
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*i = Intent(v)
	return nil
}

// IntentCollection is one page of an intent listing.
type IntentCollection struct {
	Intents    []Intent   `json:"intents"`
	Pagination Pagination `json:"pagination"`
}

func (c *IntentCollection) UnmarshalJSON(data []byte) error {
	if err := core.RequireKeys(data, "intents", "pagination"); err != nil {
		return err
	}
	type plain IntentCollection
	var v plain
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*c = IntentCollection(v)
	return nil
}

// CreateIntentRequest is the body for CreateIntent and UpdateIntent.
type CreateIntentRequest struct {
	Intent      string                 `json:"intent"`
	Description *string                `json:"description,omitempty"`
	Examples    []CreateExampleRequest `json:"examples,omitempty"`
}

// ListIntents pages through the intents of a workspace.
func (c *Client) ListIntents(ctx context.Context, workspaceID string, opts *ListExportOptions) (*IntentCollection, error) {
	q := c.newQuery()
	applyListExportOptions(q, opts)

	var out IntentCollection
	err := c.do(ctx, call{
		operation: "list_intents",
		method:    http.MethodGet,
		segments:  []string{"v1", "workspaces", workspaceID, "intents"},
		query:     q,
		out:       &out,
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateIntent adds an intent to a workspace.
func (c *Client) CreateIntent(ctx context.Context, workspaceID string, req *CreateIntentRequest) (*Intent, error) {
	var out Intent
	err := c.do(ctx, call{
		operation: "create_intent",
		method:    http.MethodPost,
		segments:  []string{"v1", "workspaces", workspaceID, "intents"},
		body:      req,
		out:       &out,
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// GetIntent fetches one intent, with its examples when export is true.
func (c *Client) GetIntent(ctx context.Context, workspaceID, intent string, export *bool) (*Intent, error) {
	q := c.newQuery()
	q.SetBool("export", export)

	var out Intent
	err := c.do(ctx, call{
		operation: "get_intent",
		method:    http.MethodGet,
		segments:  []string{"v1", "workspaces", workspaceID, "intents", intent},
		query:     q,
		out:       &out,
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateIntent replaces an intent with the supplied definition.
func (c *Client) UpdateIntent(ctx context.Context, workspaceID, intent string, req *CreateIntentRequest) (*Intent, error) {
	var out Intent
	err := c.do(ctx, call{
		operation: "update_intent",
		method:    http.MethodPost,
		segments:  []string{"v1", "workspaces", workspaceID, "intents", intent},
		body:      req,
		out:       &out,
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteIntent removes an intent and its examples.
func (c *Client) DeleteIntent(ctx context.Context, workspaceID, intent string) error {
	return c.do(ctx, call{
		operation: "delete_intent",
		method:    http.MethodDelete,
		segments:  []string{"v1", "workspaces", workspaceID, "intents", intent},
	})
}
