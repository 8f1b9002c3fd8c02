package conversation

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/jimwinquist/conversation-go/core"
)

// Counterexample is an input that has been marked as irrelevant to the
// workspace, so the service stops matching intents against it.
type Counterexample struct {
	Text    string  `json:"text"`
	Created *string `json:"created,omitempty"`
	Updated *string `json:"updated,omitempty"`
}

func (e *Counterexample) UnmarshalJSON(data []byte) error {
	if err := core.RequireKeys(data, "text"); err != nil {
		return err
	}
	type plain Counterexample
	var v plain
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*e = Counterexample(v)
	return nil
}

// CounterexampleCollection is one page of a counterexample listing.
type CounterexampleCollection struct {
	Counterexamples []Counterexample `json:"counterexamples"`
	Pagination      Pagination       `json:"pagination"`
}

func (c *CounterexampleCollection) UnmarshalJSON(data []byte) error {
	if err := core.RequireKeys(data, "counterexamples", "pagination"); err != nil {
		return err
	}
	type plain CounterexampleCollection
	var v plain
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*c = CounterexampleCollection(v)
	return nil
}

// ListCounterexamples pages through the counterexamples of a workspace.
func (c *Client) ListCounterexamples(ctx context.Context, workspaceID string, opts *ListOptions) (*CounterexampleCollection, error) {
	q := c.newQuery()
	applyListOptions(q, opts)

	var out CounterexampleCollection
	err := c.do(ctx, call{
		operation: "list_counterexamples",
		method:    http.MethodGet,
		segments:  []string{"v1", "workspaces", workspaceID, "counterexamples"},
		query:     q,
		out:       &out,
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateCounterexample marks an input as irrelevant.
func (c *Client) CreateCounterexample(ctx context.Context, workspaceID string, req *CreateExampleRequest) (*Counterexample, error) {
	var out Counterexample
	err := c.do(ctx, call{
		operation: "create_counterexample",
		method:    http.MethodPost,
		segments:  []string{"v1", "workspaces", workspaceID, "counterexamples"},
		body:      req,
		out:       &out,
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// GetCounterexample fetches one counterexample by its text.
func (c *Client) GetCounterexample(ctx context.Context, workspaceID, text string) (*Counterexample, error) {
	var out Counterexample
	err := c.do(ctx, call{
		operation: "get_counterexample",
		method:    http.MethodGet,
		segments:  []string{"v1", "workspaces", workspaceID, "counterexamples", text},
		out:       &out,
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateCounterexample replaces the text of a counterexample.
func (c *Client) UpdateCounterexample(ctx context.Context, workspaceID, text string, req *CreateExampleRequest) (*Counterexample, error) {
	var out Counterexample
	err := c.do(ctx, call{
		operation: "update_counterexample",
		method:    http.MethodPost,
		segments:  []string{"v1", "workspaces", workspaceID, "counterexamples", text},
		body:      req,
		out:       &out,
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteCounterexample removes a counterexample from a workspace.
func (c *Client) DeleteCounterexample(ctx context.Context, workspaceID, text string) error {
	return c.do(ctx, call{
		operation: "delete_counterexample",
		method:    http.MethodDelete,
		segments:  []string{"v1", "workspaces", workspaceID, "counterexamples", text},
	})
}
