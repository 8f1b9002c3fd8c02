package conversation

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/jimwinquist/conversation-go/core"
)

// Synonym is an alternative surface form of an entity value.
type Synonym struct {
	Text    string  `json:"synonym"`
	Created *string `json:"created,omitempty"`
	Updated *string `json:"updated,omitempty"`
}

func (s *Synonym) UnmarshalJSON(data []byte) error {
	if err := core.RequireKeys(data, "synonym"); err != nil {
		return err
	}
	type plain Synonym
	var v plain
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*s = Synonym(v)
	return nil
}

// SynonymCollection is one page of a synonym listing.
type SynonymCollection struct {
	Synonyms   []Synonym  `json:"synonyms"`
	Pagination Pagination `json:"pagination"`
}

func (c *SynonymCollection) UnmarshalJSON(data []byte) error {
	if err := core.RequireKeys(data, "synonyms", "pagination"); err != nil {
		return err
	}
	type plain SynonymCollection
	var v plain
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*c = SynonymCollection(v)
	return nil
}

// CreateSynonymRequest is the body for CreateSynonym and UpdateSynonym.
type CreateSynonymRequest struct {
	Synonym string `json:"synonym"`
}

// ListSynonyms pages through the synonyms of an entity value.
func (c *Client) ListSynonyms(ctx context.Context, workspaceID, entity, value string, opts *ListOptions) (*SynonymCollection, error) {
	q := c.newQuery()
	applyListOptions(q, opts)

	var out SynonymCollection
	err := c.do(ctx, call{
		operation: "list_synonyms",
		method:    http.MethodGet,
		segments:  []string{"v1", "workspaces", workspaceID, "entities", entity, "values", value, "synonyms"},
		query:     q,
		out:       &out,
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateSynonym adds a synonym to an entity value.
func (c *Client) CreateSynonym(ctx context.Context, workspaceID, entity, value string, req *CreateSynonymRequest) (*Synonym, error) {
	var out Synonym
	err := c.do(ctx, call{
		operation: "create_synonym",
		method:    http.MethodPost,
		segments:  []string{"v1", "workspaces", workspaceID, "entities", entity, "values", value, "synonyms"},
		body:      req,
		out:       &out,
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// GetSynonym fetches one synonym.
func (c *Client) GetSynonym(ctx context.Context, workspaceID, entity, value, synonym string) (*Synonym, error) {
	var out Synonym
	err := c.do(ctx, call{
		operation: "get_synonym",
		method:    http.MethodGet,
		segments:  []string{"v1", "workspaces", workspaceID, "entities", entity, "values", value, "synonyms", synonym},
		out:       &out,
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateSynonym replaces the text of a synonym.
func (c *Client) UpdateSynonym(ctx context.Context, workspaceID, entity, value, synonym string, req *CreateSynonymRequest) (*Synonym, error) {
	var out Synonym
	err := c.do(ctx, call{
		operation: "update_synonym",
		method:    http.MethodPost,
		segments:  []string{"v1", "workspaces", workspaceID, "entities", entity, "values", value, "synonyms", synonym},
		body:      req,
		out:       &out,
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteSynonym removes a synonym from an entity value.
func (c *Client) DeleteSynonym(ctx context.Context, workspaceID, entity, value, synonym string) error {
	return c.do(ctx, call{
		operation: "delete_synonym",
		method:    http.MethodDelete,
		segments:  []string{"v1", "workspaces", workspaceID, "entities", entity, "values", value, "synonyms", synonym},
	})
}
