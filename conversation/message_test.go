package conversation

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/jimwinquist/conversation-go/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInputDataEncodesKnownFieldAndBag(t *testing.T) {
	in := InputData{
		Text:       "hi",
		Additional: map[string]core.Value{"foo": core.String("bar")},
	}

	out, err := json.Marshal(in)
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(out, &got))
	assert.Equal(t, map[string]any{"text": "hi", "foo": "bar"}, got)
}

func TestInputDataRoundTrip(t *testing.T) {
	original := InputData{
		Text: "turn on the radio",
		Additional: map[string]core.Value{
			"speech_confidence": core.Number("0.92"),
			"source":            core.String("microphone"),
		},
	}

	raw, err := json.Marshal(original)
	require.NoError(t, err)

	var back InputData
	require.NoError(t, json.Unmarshal(raw, &back))
	assert.Equal(t, original.Text, back.Text)
	require.Len(t, back.Additional, 2)
	for k, v := range original.Additional {
		assert.True(t, v.Equal(back.Additional[k]), "bag key %q changed", k)
	}
}

func TestInputDataBagExcludesKnownKeys(t *testing.T) {
	var in InputData
	require.NoError(t, json.Unmarshal([]byte(`{"text":"hello"}`), &in))
	assert.Equal(t, "hello", in.Text)
	assert.Nil(t, in.Additional, "bag must be empty when all keys are known")
}

func TestInputDataMissingRequiredField(t *testing.T) {
	var in InputData
	err := json.Unmarshal([]byte(`{}`), &in)
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrMissingRequiredField))

	// Explicit null counts as absent.
	err = json.Unmarshal([]byte(`{"text":null}`), &in)
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrMissingRequiredField))
}

func TestInputDataBagCollisionOnEncode(t *testing.T) {
	in := InputData{
		Text:       "hi",
		Additional: map[string]core.Value{"text": core.String("shadow")},
	}
	_, err := json.Marshal(in)
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrDuplicateKey))
}

func TestMessageResponseDecode(t *testing.T) {
	raw := []byte(`{
		"input": {"text": "hello"},
		"intents": [{"intent": "greeting", "confidence": 0.9734, "custom_score": 7}],
		"entities": [{"entity": "appliance", "location": [12, 17], "value": "radio"}],
		"context": {
			"conversation_id": "abc-123",
			"system": {"dialog_stack": ["root"], "dialog_turn_counter": 2},
			"user_defined": {"tone": "polite"}
		},
		"output": {
			"text": ["Hello yourself"],
			"log_messages": [{"level": "warn", "msg": "no entities matched", "code": 17}],
			"nodes_visited": ["node_1"]
		},
		"alternate_intents": false,
		"server_extension": {"experiment": "b"}
	}`)

	var resp MessageResponse
	require.NoError(t, json.Unmarshal(raw, &resp))

	require.Len(t, resp.Intents, 1)
	assert.Equal(t, "greeting", resp.Intents[0].Intent)
	assert.Equal(t, 0.9734, resp.Intents[0].Confidence)
	score, ok := resp.Intents[0].Additional["custom_score"].AsInt64()
	require.True(t, ok)
	assert.Equal(t, int64(7), score)

	require.Len(t, resp.Entities, 1)
	assert.Equal(t, []int64{12, 17}, resp.Entities[0].Location)

	require.NotNil(t, resp.Context.ConversationID)
	assert.Equal(t, "abc-123", *resp.Context.ConversationID)
	require.NotNil(t, resp.Context.System)
	turn, ok := resp.Context.System.Additional["dialog_turn_counter"].AsInt64()
	require.True(t, ok)
	assert.Equal(t, int64(2), turn)
	_, hasUserDefined := resp.Context.Additional["user_defined"]
	assert.True(t, hasUserDefined)

	require.Len(t, resp.Output.LogMessages, 1)
	assert.Equal(t, LogLevelWarn, resp.Output.LogMessages[0].Level)
	_, hasCode := resp.Output.LogMessages[0].Additional["code"]
	assert.True(t, hasCode)

	_, hasExt := resp.Additional["server_extension"]
	assert.True(t, hasExt)
}

func TestMessageResponseRoundTrip(t *testing.T) {
	raw := []byte(`{
		"intents": [{"intent": "greeting", "confidence": 0.8734572849382716}],
		"entities": [],
		"context": {"conversation_id": "abc", "beta_flag": true},
		"output": {"text": ["hi"], "log_messages": []},
		"extra_top_level": {"a": [1, 2, 3]}
	}`)

	var resp MessageResponse
	require.NoError(t, json.Unmarshal(raw, &resp))

	encoded, err := json.Marshal(resp)
	require.NoError(t, err)

	var back MessageResponse
	require.NoError(t, json.Unmarshal(encoded, &back))

	if diff := cmp.Diff(asValue(t, raw), asValue(t, encoded), cmp.Comparer(core.Value.Equal)); diff != "" {
		t.Errorf("round trip changed the wire object (-original +reencoded):\n%s", diff)
	}
	assert.Equal(t, resp.Intents[0].Confidence, back.Intents[0].Confidence)
}

func asValue(t *testing.T, raw []byte) core.Value {
	t.Helper()
	var v core.Value
	require.NoError(t, json.Unmarshal(raw, &v))
	return v
}

func TestMessageResponseMissingRequired(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"no_intents", `{"entities":[],"context":{},"output":{"text":[],"log_messages":[]}}`},
		{"no_context", `{"intents":[],"entities":[],"output":{"text":[],"log_messages":[]}}`},
		{"no_output", `{"intents":[],"entities":[],"context":{}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var resp MessageResponse
			err := json.Unmarshal([]byte(tt.raw), &resp)
			require.Error(t, err)
			assert.True(t, errors.Is(err, core.ErrMissingRequiredField))
		})
	}
}

func TestMessageThreadsContext(t *testing.T) {
	mock := NewMockServer()
	defer mock.Close()

	ws := mock.SeedWorkspace("demo", "en")
	client, err := NewClient(Options{URL: mock.URL})
	require.NoError(t, err)

	first, err := client.Message(context.Background(), ws.WorkspaceID, &MessageRequest{
		Input: &InputData{Text: "hello"},
	}, nil)
	require.NoError(t, err)
	require.NotNil(t, first.Context.ConversationID)

	turn1, ok := first.Context.System.Additional["dialog_turn_counter"].AsInt64()
	require.True(t, ok)
	assert.Equal(t, int64(1), turn1)

	second, err := client.Message(context.Background(), ws.WorkspaceID, &MessageRequest{
		Input:   &InputData{Text: "again"},
		Context: &first.Context,
	}, nil)
	require.NoError(t, err)

	assert.Equal(t, *first.Context.ConversationID, *second.Context.ConversationID)
	turn2, ok := second.Context.System.Additional["dialog_turn_counter"].AsInt64()
	require.True(t, ok)
	assert.Equal(t, int64(2), turn2)
}

func TestMessageUnknownWorkspace(t *testing.T) {
	mock := NewMockServer()
	defer mock.Close()

	client, err := NewClient(Options{URL: mock.URL})
	require.NoError(t, err)

	_, err = client.Message(context.Background(), "no-such-id", &MessageRequest{
		Input: &InputData{Text: "hello"},
	}, nil)
	require.Error(t, err)

	var se *core.ServiceError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, 404, se.Status)
	assert.Equal(t, "workspace not found", se.Message)
}
