package conversation

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/jimwinquist/conversation-go/core"
)

// Entity is a named slot type with enumerated values. Values are populated
// only when the entity was fetched with export=true.
type Entity struct {
	Name        string                `json:"entity"`
	Description *string               `json:"description,omitempty"`
	Metadata    map[string]core.Value `json:"metadata,omitempty"`
	FuzzyMatch  *bool                 `json:"fuzzy_match,omitempty"`
	Created     *string               `json:"created,omitempty"`
	Updated     *string               `json:"updated,omitempty"`
	Values      []EntityValue         `json:"values,omitempty"`
}

func (e *Entity) UnmarshalJSON(data []byte) error {
	if err := core.RequireKeys(data, "entity"); err != nil {
		return err
	}
	type plain Entity
	var v plain
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*e = Entity(v)
	return nil
}

// EntityCollection is one page of an entity listing.
type EntityCollection struct {
	Entities   []Entity   `json:"entities"`
	Pagination Pagination `json:"pagination"`
}

func (c *EntityCollection) UnmarshalJSON(data []byte) error {
	if err := core.RequireKeys(data, "entities", "pagination"); err != nil {
		return err
	}
	type plain EntityCollection
	var v plain
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*c = EntityCollection(v)
	return nil
}

// CreateEntityRequest is the body for CreateEntity and UpdateEntity.
type CreateEntityRequest struct {
	Entity      string                `json:"entity"`
	Description *string               `json:"description,omitempty"`
	Metadata    map[string]core.Value `json:"metadata,omitempty"`
	Values      []CreateValueRequest  `json:"values,omitempty"`
	FuzzyMatch  *bool                 `json:"fuzzy_match,omitempty"`
}

// ListEntities pages through the entities of a workspace.
func (c *Client) ListEntities(ctx context.Context, workspaceID string, opts *ListExportOptions) (*EntityCollection, error) {
	q := c.newQuery()
	applyListExportOptions(q, opts)

	var out EntityCollection
	err := c.do(ctx, call{
		operation: "list_entities",
		method:    http.MethodGet,
		segments:  []string{"v1", "workspaces", workspaceID, "entities"},
		query:     q,
		out:       &out,
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateEntity adds an entity to a workspace.
func (c *Client) CreateEntity(ctx context.Context, workspaceID string, req *CreateEntityRequest) (*Entity, error) {
	var out Entity
	err := c.do(ctx, call{
		operation: "create_entity",
		method:    http.MethodPost,
		segments:  []string{"v1", "workspaces", workspaceID, "entities"},
		body:      req,
		out:       &out,
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// GetEntity fetches one entity, with its values when export is true.
func (c *Client) GetEntity(ctx context.Context, workspaceID, entity string, export *bool) (*Entity, error) {
	q := c.newQuery()
	q.SetBool("export", export)

	var out Entity
	err := c.do(ctx, call{
		operation: "get_entity",
		method:    http.MethodGet,
		segments:  []string{"v1", "workspaces", workspaceID, "entities", entity},
		query:     q,
		out:       &out,
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateEntity replaces an entity with the supplied definition.
func (c *Client) UpdateEntity(ctx context.Context, workspaceID, entity string, req *CreateEntityRequest) (*Entity, error) {
	var out Entity
	err := c.do(ctx, call{
		operation: "update_entity",
		method:    http.MethodPost,
		segments:  []string{"v1", "workspaces", workspaceID, "entities", entity},
		body:      req,
		out:       &out,
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteEntity removes an entity, its values and their synonyms.
func (c *Client) DeleteEntity(ctx context.Context, workspaceID, entity string) error {
	return c.do(ctx, call{
		operation: "delete_entity",
		method:    http.MethodDelete,
		segments:  []string{"v1", "workspaces", workspaceID, "entities", entity},
	})
}
