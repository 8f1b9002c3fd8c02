package conversation

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/jimwinquist/conversation-go/core"
)

// Example is one sample utterance attached to an intent.
type Example struct {
	Text    string  `json:"text"`
	Created *string `json:"created,omitempty"`
	Updated *string `json:"updated,omitempty"`
}

func (e *Example) UnmarshalJSON(data []byte) error {
	if err := core.RequireKeys(data, "text"); err != nil {
		return err
	}
	type plain Example
	var v plain
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*e = Example(v)
	return nil
}

// ExampleCollection is one page of an example listing.
type ExampleCollection struct {
	Examples   []Example  `json:"examples"`
	Pagination Pagination `json:"pagination"`
}

func (c *ExampleCollection) UnmarshalJSON(data []byte) error {
	if err := core.RequireKeys(data, "examples", "pagination"); err != nil {
		return err
	}
	type plain ExampleCollection
	var v plain
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*c = ExampleCollection(v)
	return nil
}

// CreateExampleRequest is the body for example and counterexample writes.
type CreateExampleRequest struct {
	Text string `json:"text"`
}

// ListExamples pages through the sample utterances of an intent.
func (c *Client) ListExamples(ctx context.Context, workspaceID, intent string, opts *ListOptions) (*ExampleCollection, error) {
	q := c.newQuery()
	applyListOptions(q, opts)

	var out ExampleCollection
	err := c.do(ctx, call{
		operation: "list_examples",
		method:    http.MethodGet,
		segments:  []string{"v1", "workspaces", workspaceID, "intents", intent, "examples"},
		query:     q,
		out:       &out,
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateExample adds a sample utterance to an intent.
func (c *Client) CreateExample(ctx context.Context, workspaceID, intent string, req *CreateExampleRequest) (*Example, error) {
	var out Example
	err := c.do(ctx, call{
		operation: "create_example",
		method:    http.MethodPost,
		segments:  []string{"v1", "workspaces", workspaceID, "intents", intent, "examples"},
		body:      req,
		out:       &out,
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// GetExample fetches one sample utterance.
func (c *Client) GetExample(ctx context.Context, workspaceID, intent, text string) (*Example, error) {
	var out Example
	err := c.do(ctx, call{
		operation: "get_example",
		method:    http.MethodGet,
		segments:  []string{"v1", "workspaces", workspaceID, "intents", intent, "examples", text},
		out:       &out,
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateExample replaces the text of a sample utterance.
func (c *Client) UpdateExample(ctx context.Context, workspaceID, intent, text string, req *CreateExampleRequest) (*Example, error) {
	var out Example
	err := c.do(ctx, call{
		operation: "update_example",
		method:    http.MethodPost,
		segments:  []string{"v1", "workspaces", workspaceID, "intents", intent, "examples", text},
		body:      req,
		out:       &out,
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteExample removes a sample utterance from an intent.
func (c *Client) DeleteExample(ctx context.Context, workspaceID, intent, text string) error {
	return c.do(ctx, call{
		operation: "delete_example",
		method:    http.MethodDelete,
		segments:  []string{"v1", "workspaces", workspaceID, "intents", intent, "examples", text},
	})
}
