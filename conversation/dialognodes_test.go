package conversation

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jimwinquist/conversation-go/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDialogNodeEnumsKnownValues(t *testing.T) {
	tests := []struct {
		name  string
		known bool
		check func() bool
	}{
		{"standard_node", true, NodeTypeStandard.IsKnown},
		{"folder_node", true, NodeTypeFolder.IsKnown},
		{"future_node_type", false, DialogNodeType("quantum").IsKnown},
		{"nomatch_event", true, EventNomatch.IsKnown},
		{"future_event", false, DialogNodeEventName("telepathy").IsKnown},
		{"jump_to", true, BehaviorJumpTo.IsKnown},
		{"future_behavior", false, NextStepBehavior("teleport").IsKnown},
		{"selector_body", true, SelectorBody.IsKnown},
		{"future_selector", false, NextStepSelector("footer").IsKnown},
		{"warn_level", true, LogLevelWarn.IsKnown},
		{"future_level", false, LogMessageLevel("fatal").IsKnown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.known, tt.check())
		})
	}
}

func TestDialogNodeUnknownEnumPassesThrough(t *testing.T) {
	// Forward compatibility: a node type this client has never heard of must
	// decode, survive a round trip, and simply report IsKnown()==false.
	raw := []byte(`{"dialog_node":"node_9","type":"holographic","event_name":"gesture"}`)

	var node DialogNode
	require.NoError(t, json.Unmarshal(raw, &node))
	require.NotNil(t, node.NodeType)
	assert.Equal(t, DialogNodeType("holographic"), *node.NodeType)
	assert.False(t, node.NodeType.IsKnown())

	out, err := json.Marshal(node)
	require.NoError(t, err)
	assert.Contains(t, string(out), `"type":"holographic"`)
}

func TestDialogNodeDecode(t *testing.T) {
	raw := []byte(`{
		"dialog_node": "greeting",
		"conditions": "#hello",
		"output": {"text": {"values": ["Hi!"], "selection_policy": "sequential"}},
		"next_step": {"behavior": "jump_to", "dialog_node": "handle_q", "selector": "condition"},
		"parent": "root"
	}`)

	var node DialogNode
	require.NoError(t, json.Unmarshal(raw, &node))

	assert.Equal(t, "greeting", node.DialogNode)
	require.NotNil(t, node.Conditions)
	assert.Equal(t, "#hello", *node.Conditions)

	textVal, ok := node.Output["text"].AsObject()
	require.True(t, ok)
	policy, ok := textVal["selection_policy"].AsString()
	require.True(t, ok)
	assert.Equal(t, "sequential", policy)

	require.NotNil(t, node.NextStep)
	assert.Equal(t, BehaviorJumpTo, node.NextStep.Behavior)
	require.NotNil(t, node.NextStep.Selector)
	assert.Equal(t, SelectorCondition, *node.NextStep.Selector)
}

func TestDialogNodeNextStepRequiresBehavior(t *testing.T) {
	var ns DialogNodeNextStep
	err := json.Unmarshal([]byte(`{"dialog_node":"x"}`), &ns)
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrMissingRequiredField))
}

func TestDialogNodeCRUDPaths(t *testing.T) {
	var paths []string
	s := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.Method+" "+r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		switch r.Method {
		case http.MethodDelete:
			w.WriteHeader(http.StatusNoContent)
		default:
			_, _ = w.Write([]byte(`{"dialog_node":"greeting"}`))
		}
	}))
	defer s.Close()

	client, err := NewClient(Options{URL: s.URL})
	require.NoError(t, err)
	ctx := context.Background()

	_, err = client.CreateDialogNode(ctx, "ws1", &CreateDialogNodeRequest{DialogNode: "greeting"})
	require.NoError(t, err)
	_, err = client.GetDialogNode(ctx, "ws1", "greeting")
	require.NoError(t, err)
	_, err = client.UpdateDialogNode(ctx, "ws1", "greeting", &CreateDialogNodeRequest{DialogNode: "greeting"})
	require.NoError(t, err)
	require.NoError(t, client.DeleteDialogNode(ctx, "ws1", "greeting"))

	assert.Equal(t, []string{
		"POST /v1/workspaces/ws1/dialog_nodes",
		"GET /v1/workspaces/ws1/dialog_nodes/greeting",
		"POST /v1/workspaces/ws1/dialog_nodes/greeting",
		"DELETE /v1/workspaces/ws1/dialog_nodes/greeting",
	}, paths)
}
