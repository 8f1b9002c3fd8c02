package conversation

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/jimwinquist/conversation-go/core"
)

// DialogNodeType identifies how a dialog node participates in the flow.
// Unrecognized wire values pass through untouched.
type DialogNodeType string

const (
	NodeTypeStandard          DialogNodeType = "standard"
	NodeTypeEventHandler      DialogNodeType = "event_handler"
	NodeTypeFrame             DialogNodeType = "frame"
	NodeTypeSlot              DialogNodeType = "slot"
	NodeTypeResponseCondition DialogNodeType = "response_condition"
	NodeTypeFolder            DialogNodeType = "folder"
)

// IsKnown reports whether t is one of the documented node types.
func (t DialogNodeType) IsKnown() bool {
	switch t {
	case NodeTypeStandard, NodeTypeEventHandler, NodeTypeFrame, NodeTypeSlot,
		NodeTypeResponseCondition, NodeTypeFolder:
		return true
	}
	return false
}

// DialogNodeEventName is the event an event-handler node fires on.
type DialogNodeEventName string

const (
	EventFocus                    DialogNodeEventName = "focus"
	EventInput                    DialogNodeEventName = "input"
	EventFilled                   DialogNodeEventName = "filled"
	EventValidate                 DialogNodeEventName = "validate"
	EventFilledMultiple           DialogNodeEventName = "filled_multiple"
	EventGeneric                  DialogNodeEventName = "generic"
	EventNomatch                  DialogNodeEventName = "nomatch"
	EventNomatchResponsesDepleted DialogNodeEventName = "nomatch_responses_depleted"
)

// IsKnown reports whether e is one of the documented event names.
func (e DialogNodeEventName) IsKnown() bool {
	switch e {
	case EventFocus, EventInput, EventFilled, EventValidate,
		EventFilledMultiple, EventGeneric, EventNomatch, EventNomatchResponsesDepleted:
		return true
	}
	return false
}

// NextStepBehavior is what the dialog does after a node finishes.
type NextStepBehavior string

const (
	BehaviorJumpTo NextStepBehavior = "jump_to"
)

// IsKnown reports whether b is one of the documented behaviors.
func (b NextStepBehavior) IsKnown() bool {
	return b == BehaviorJumpTo
}

// NextStepSelector is where in the target node a jump lands.
type NextStepSelector string

const (
	SelectorCondition NextStepSelector = "condition"
	SelectorClient    NextStepSelector = "client"
	SelectorUserInput NextStepSelector = "user_input"
	SelectorBody      NextStepSelector = "body"
)

// IsKnown reports whether s is one of the documented selectors.
func (s NextStepSelector) IsKnown() bool {
	switch s {
	case SelectorCondition, SelectorClient, SelectorUserInput, SelectorBody:
		return true
	}
	return false
}

// DialogNodeNextStep routes the conversation after the owning node finishes.
type DialogNodeNextStep struct {
	Behavior   NextStepBehavior  `json:"behavior"`
	DialogNode *string           `json:"dialog_node,omitempty"`
	Selector   *NextStepSelector `json:"selector,omitempty"`
}

func (n *DialogNodeNextStep) UnmarshalJSON(data []byte) error {
	if err := core.RequireKeys(data, "behavior"); err != nil {
		return err
	}
	type plain DialogNodeNextStep
	var v plain
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*n = DialogNodeNextStep(v)
	return nil
}

// DialogNode is one node in the conversation flow graph: a trigger condition
// plus output and routing behavior. Output, context and metadata are
// free-form documents owned by the dialog author.
type DialogNode struct {
	DialogNode      string                `json:"dialog_node"`
	Description     *string               `json:"description,omitempty"`
	Conditions      *string               `json:"conditions,omitempty"`
	Parent          *string               `json:"parent,omitempty"`
	PreviousSibling *string               `json:"previous_sibling,omitempty"`
	Output          map[string]core.Value `json:"output,omitempty"`
	Context         map[string]core.Value `json:"context,omitempty"`
	Metadata        map[string]core.Value `json:"metadata,omitempty"`
	NextStep        *DialogNodeNextStep   `json:"next_step,omitempty"`
	Title           *string               `json:"title,omitempty"`
	NodeType        *DialogNodeType       `json:"type,omitempty"`
	EventName       *DialogNodeEventName  `json:"event_name,omitempty"`
	Variable        *string               `json:"variable,omitempty"`
	Created         *string               `json:"created,omitempty"`
	Updated         *string               `json:"updated,omitempty"`
}

func (d *DialogNode) UnmarshalJSON(data []byte) error {
	if err := core.RequireKeys(data, "dialog_node"); err != nil {
		return err
	}
	type plain DialogNode
	var v plain
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*d = DialogNode(v)
	return nil
}

// DialogNodeCollection is one page of a dialog-node listing.
type DialogNodeCollection struct {
	DialogNodes []DialogNode `json:"dialog_nodes"`
	Pagination  Pagination   `json:"pagination"`
}

func (c *DialogNodeCollection) UnmarshalJSON(data []byte) error {
	if err := core.RequireKeys(data, "dialog_nodes", "pagination"); err != nil {
		return err
	}
	type plain DialogNodeCollection
	var v plain
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*c = DialogNodeCollection(v)
	return nil
}

// CreateDialogNodeRequest is the body for CreateDialogNode and
// UpdateDialogNode.
type CreateDialogNodeRequest struct {
	DialogNode      string                `json:"dialog_node"`
	Description     *string               `json:"description,omitempty"`
	Conditions      *string               `json:"conditions,omitempty"`
	Parent          *string               `json:"parent,omitempty"`
	PreviousSibling *string               `json:"previous_sibling,omitempty"`
	Output          map[string]core.Value `json:"output,omitempty"`
	Context         map[string]core.Value `json:"context,omitempty"`
	Metadata        map[string]core.Value `json:"metadata,omitempty"`
	NextStep        *DialogNodeNextStep   `json:"next_step,omitempty"`
	Title           *string               `json:"title,omitempty"`
	NodeType        *DialogNodeType       `json:"type,omitempty"`
	EventName       *DialogNodeEventName  `json:"event_name,omitempty"`
	Variable        *string               `json:"variable,omitempty"`
}

// ListDialogNodes pages through the dialog nodes of a workspace.
func (c *Client) ListDialogNodes(ctx context.Context, workspaceID string, opts *ListOptions) (*DialogNodeCollection, error) {
	q := c.newQuery()
	applyListOptions(q, opts)

	var out DialogNodeCollection
	err := c.do(ctx, call{
		operation: "list_dialog_nodes",
		method:    http.MethodGet,
		segments:  []string{"v1", "workspaces", workspaceID, "dialog_nodes"},
		query:     q,
		out:       &out,
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateDialogNode adds a node to the conversation flow graph.
func (c *Client) CreateDialogNode(ctx context.Context, workspaceID string, req *CreateDialogNodeRequest) (*DialogNode, error) {
	var out DialogNode
	err := c.do(ctx, call{
		operation: "create_dialog_node",
		method:    http.MethodPost,
		segments:  []string{"v1", "workspaces", workspaceID, "dialog_nodes"},
		body:      req,
		out:       &out,
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// GetDialogNode fetches one dialog node.
func (c *Client) GetDialogNode(ctx context.Context, workspaceID, dialogNode string) (*DialogNode, error) {
	var out DialogNode
	err := c.do(ctx, call{
		operation: "get_dialog_node",
		method:    http.MethodGet,
		segments:  []string{"v1", "workspaces", workspaceID, "dialog_nodes", dialogNode},
		out:       &out,
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateDialogNode replaces a dialog node with the supplied definition.
func (c *Client) UpdateDialogNode(ctx context.Context, workspaceID, dialogNode string, req *CreateDialogNodeRequest) (*DialogNode, error) {
	var out DialogNode
	err := c.do(ctx, call{
		operation: "update_dialog_node",
		method:    http.MethodPost,
		segments:  []string{"v1", "workspaces", workspaceID, "dialog_nodes", dialogNode},
		body:      req,
		out:       &out,
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteDialogNode removes a node from the conversation flow graph.
func (c *Client) DeleteDialogNode(ctx context.Context, workspaceID, dialogNode string) error {
	return c.do(ctx, call{
		operation: "delete_dialog_node",
		method:    http.MethodDelete,
		segments:  []string{"v1", "workspaces", workspaceID, "dialog_nodes", dialogNode},
	})
}
