package conversation

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/jimwinquist/conversation-go/core"
)

// EntityValue is one enumerated value of an entity. Synonyms are populated
// only when the value was fetched with export=true.
type EntityValue struct {
	Value    string                `json:"value"`
	Metadata map[string]core.Value `json:"metadata,omitempty"`
	Created  *string               `json:"created,omitempty"`
	Updated  *string               `json:"updated,omitempty"`
	Synonyms []string              `json:"synonyms,omitempty"`
}

func (e *EntityValue) UnmarshalJSON(data []byte) error {
	if err := core.RequireKeys(data, "value"); err != nil {
		return err
	}
	type plain EntityValue
	var v plain
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*e = EntityValue(v)
	return nil
}

// ValueCollection is one page of an entity-value listing.
type ValueCollection struct {
	Values     []EntityValue `json:"values"`
	Pagination Pagination    `json:"pagination"`
}

func (c *ValueCollection) UnmarshalJSON(data []byte) error {
	if err := core.RequireKeys(data, "values", "pagination"); err != nil {
		return err
	}
	type plain ValueCollection
	var v plain
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*c = ValueCollection(v)
	return nil
}

// CreateValueRequest is the body for CreateValue and UpdateValue.
type CreateValueRequest struct {
	Value    string                `json:"value"`
	Metadata map[string]core.Value `json:"metadata,omitempty"`
	Synonyms []string              `json:"synonyms,omitempty"`
}

// ListValues pages through the values of an entity.
func (c *Client) ListValues(ctx context.Context, workspaceID, entity string, opts *ListExportOptions) (*ValueCollection, error) {
	q := c.newQuery()
	applyListExportOptions(q, opts)

	var out ValueCollection
	err := c.do(ctx, call{
		operation: "list_values",
		method:    http.MethodGet,
		segments:  []string{"v1", "workspaces", workspaceID, "entities", entity, "values"},
		query:     q,
		out:       &out,
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateValue adds a value to an entity.
func (c *Client) CreateValue(ctx context.Context, workspaceID, entity string, req *CreateValueRequest) (*EntityValue, error) {
	var out EntityValue
	err := c.do(ctx, call{
		operation: "create_value",
		method:    http.MethodPost,
		segments:  []string{"v1", "workspaces", workspaceID, "entities", entity, "values"},
		body:      req,
		out:       &out,
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// GetValue fetches one entity value, with its synonyms when export is true.
func (c *Client) GetValue(ctx context.Context, workspaceID, entity, value string, export *bool) (*EntityValue, error) {
	q := c.newQuery()
	q.SetBool("export", export)

	var out EntityValue
	err := c.do(ctx, call{
		operation: "get_value",
		method:    http.MethodGet,
		segments:  []string{"v1", "workspaces", workspaceID, "entities", entity, "values", value},
		query:     q,
		out:       &out,
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateValue replaces an entity value with the supplied definition.
func (c *Client) UpdateValue(ctx context.Context, workspaceID, entity, value string, req *CreateValueRequest) (*EntityValue, error) {
	var out EntityValue
	err := c.do(ctx, call{
		operation: "update_value",
		method:    http.MethodPost,
		segments:  []string{"v1", "workspaces", workspaceID, "entities", entity, "values", value},
		body:      req,
		out:       &out,
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteValue removes a value and its synonyms from an entity.
func (c *Client) DeleteValue(ctx context.Context, workspaceID, entity, value string) error {
	return c.do(ctx, call{
		operation: "delete_value",
		method:    http.MethodDelete,
		segments:  []string{"v1", "workspaces", workspaceID, "entities", entity, "values", value},
	})
}
