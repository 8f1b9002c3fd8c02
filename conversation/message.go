package conversation

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/jimwinquist/conversation-go/core"
)

// The message-domain records are open: the service may attach arbitrary
// additional properties to them, which are preserved in an Additional bag and
// re-emitted on encode. Known fields always win over bag keys.

// InputData is the user input portion of a message exchange.
type InputData struct {
	Text string `json:"text"`

	// Additional carries wire keys outside the known schema.
	Additional map[string]core.Value `json:"-"`
}

func (in *InputData) UnmarshalJSON(data []byte) error {
	if err := core.RequireKeys(data, "text"); err != nil {
		return err
	}
	type plain InputData
	var v plain
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	bag, err := core.DecodeAdditional(data, "text")
	if err != nil {
		return err
	}
	v.Additional = bag
	*in = InputData(v)
	return nil
}

func (in InputData) MarshalJSON() ([]byte, error) {
	type plain InputData
	return core.EncodeWithAdditional(plain(in), in.Additional)
}

// SystemResponse is the dialog-internal state the service threads through the
// context. Its shape is owned entirely by the service, so every key lives in
// the bag.
type SystemResponse struct {
	Additional map[string]core.Value `json:"-"`
}

func (s *SystemResponse) UnmarshalJSON(data []byte) error {
	bag, err := core.DecodeAdditional(data)
	if err != nil {
		return err
	}
	s.Additional = bag
	return nil
}

func (s SystemResponse) MarshalJSON() ([]byte, error) {
	return core.EncodeWithAdditional(struct{}{}, s.Additional)
}

// Context is the opaque state record a caller threads from one message
// exchange into the next to maintain conversation continuity. The service
// owns continuation semantics; the client only carries the record.
type Context struct {
	ConversationID *string               `json:"conversation_id,omitempty"`
	System         *SystemResponse       `json:"system,omitempty"`
	Additional     map[string]core.Value `json:"-"`
}

func (c *Context) UnmarshalJSON(data []byte) error {
	type plain Context
	var v plain
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	bag, err := core.DecodeAdditional(data, "conversation_id", "system")
	if err != nil {
		return err
	}
	v.Additional = bag
	*c = Context(v)
	return nil
}

func (c Context) MarshalJSON() ([]byte, error) {
	type plain Context
	return core.EncodeWithAdditional(plain(c), c.Additional)
}

// LogMessageLevel classifies a dialog log message.
type LogMessageLevel string

const (
	LogLevelInfo  LogMessageLevel = "info"
	LogLevelWarn  LogMessageLevel = "warn"
	LogLevelError LogMessageLevel = "error"
)

// IsKnown reports whether l is one of the documented levels.
func (l LogMessageLevel) IsKnown() bool {
	switch l {
	case LogLevelInfo, LogLevelWarn, LogLevelError:
		return true
	}
	return false
}

// LogMessage is a processing note the dialog attaches to its output.
type LogMessage struct {
	Level      LogMessageLevel       `json:"level"`
	Msg        string                `json:"msg"`
	Additional map[string]core.Value `json:"-"`
}

func (m *LogMessage) UnmarshalJSON(data []byte) error {
	if err := core.RequireKeys(data, "level", "msg"); err != nil {
		return err
	}
	type plain LogMessage
	var v plain
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	bag, err := core.DecodeAdditional(data, "level", "msg")
	if err != nil {
		return err
	}
	v.Additional = bag
	*m = LogMessage(v)
	return nil
}

func (m LogMessage) MarshalJSON() ([]byte, error) {
	type plain LogMessage
	return core.EncodeWithAdditional(plain(m), m.Additional)
}

// OutputData is what the dialog wants said and recorded for one exchange.
type OutputData struct {
	Text                []string                   `json:"text"`
	LogMessages         []LogMessage               `json:"log_messages"`
	NodesVisited        []string                   `json:"nodes_visited,omitempty"`
	NodesVisitedDetails []DialogNodeVisitedDetails `json:"nodes_visited_details,omitempty"`
	Additional          map[string]core.Value      `json:"-"`
}

// DialogNodeVisitedDetails describes one node traversed while producing a
// response, when the caller asked for details.
type DialogNodeVisitedDetails struct {
	DialogNode *string `json:"dialog_node,omitempty"`
	Title      *string `json:"title,omitempty"`
}

func (o *OutputData) UnmarshalJSON(data []byte) error {
	if err := core.RequireKeys(data, "text", "log_messages"); err != nil {
		return err
	}
	type plain OutputData
	var v plain
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	bag, err := core.DecodeAdditional(data, "text", "log_messages", "nodes_visited", "nodes_visited_details")
	if err != nil {
		return err
	}
	v.Additional = bag
	*o = OutputData(v)
	return nil
}

func (o OutputData) MarshalJSON() ([]byte, error) {
	type plain OutputData
	return core.EncodeWithAdditional(plain(o), o.Additional)
}

// RuntimeIntent is an intent the service recognized in the user input.
type RuntimeIntent struct {
	Intent     string                `json:"intent"`
	Confidence float64               `json:"confidence"`
	Additional map[string]core.Value `json:"-"`
}

func (r *RuntimeIntent) UnmarshalJSON(data []byte) error {
	if err := core.RequireKeys(data, "intent", "confidence"); err != nil {
		return err
	}
	type plain RuntimeIntent
	var v plain
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	bag, err := core.DecodeAdditional(data, "intent", "confidence")
	if err != nil {
		return err
	}
	v.Additional = bag
	*r = RuntimeIntent(v)
	return nil
}

func (r RuntimeIntent) MarshalJSON() ([]byte, error) {
	type plain RuntimeIntent
	return core.EncodeWithAdditional(plain(r), r.Additional)
}

// RuntimeEntity is an entity mention the service located in the user input.
// Location is the zero-based [start, end) character span of the mention.
type RuntimeEntity struct {
	Entity     string                `json:"entity"`
	Location   []int64               `json:"location"`
	Value      string                `json:"value"`
	Confidence *float64              `json:"confidence,omitempty"`
	Metadata   map[string]core.Value `json:"metadata,omitempty"`
	Additional map[string]core.Value `json:"-"`
}

func (r *RuntimeEntity) UnmarshalJSON(data []byte) error {
	if err := core.RequireKeys(data, "entity", "location", "value"); err != nil {
		return err
	}
	type plain RuntimeEntity
	var v plain
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	bag, err := core.DecodeAdditional(data, "entity", "location", "value", "confidence", "metadata")
	if err != nil {
		return err
	}
	v.Additional = bag
	*r = RuntimeEntity(v)
	return nil
}

func (r RuntimeEntity) MarshalJSON() ([]byte, error) {
	type plain RuntimeEntity
	return core.EncodeWithAdditional(plain(r), r.Additional)
}

// MessageRequest is the body of a message exchange. Context should be the
// context returned by the previous exchange, or nil to start a conversation.
type MessageRequest struct {
	Input            *InputData            `json:"input,omitempty"`
	AlternateIntents *bool                 `json:"alternate_intents,omitempty"`
	Context          *Context              `json:"context,omitempty"`
	Entities         []RuntimeEntity       `json:"entities,omitempty"`
	Intents          []RuntimeIntent       `json:"intents,omitempty"`
	Output           *OutputData           `json:"output,omitempty"`
	Additional       map[string]core.Value `json:"-"`
}

func (m *MessageRequest) UnmarshalJSON(data []byte) error {
	type plain MessageRequest
	var v plain
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	bag, err := core.DecodeAdditional(data,
		"input", "alternate_intents", "context", "entities", "intents", "output")
	if err != nil {
		return err
	}
	v.Additional = bag
	*m = MessageRequest(v)
	return nil
}

func (m MessageRequest) MarshalJSON() ([]byte, error) {
	type plain MessageRequest
	return core.EncodeWithAdditional(plain(m), m.Additional)
}

// MessageResponse is the service's answer to one exchange: what it understood
// and what the dialog decided to do about it.
type MessageResponse struct {
	Input            *InputData            `json:"input,omitempty"`
	Intents          []RuntimeIntent       `json:"intents"`
	Entities         []RuntimeEntity       `json:"entities"`
	AlternateIntents *bool                 `json:"alternate_intents,omitempty"`
	Context          Context               `json:"context"`
	Output           OutputData            `json:"output"`
	Additional       map[string]core.Value `json:"-"`
}

func (m *MessageResponse) UnmarshalJSON(data []byte) error {
	if err := core.RequireKeys(data, "intents", "entities", "context", "output"); err != nil {
		return err
	}
	type plain MessageResponse
	var v plain
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	bag, err := core.DecodeAdditional(data,
		"input", "intents", "entities", "alternate_intents", "context", "output")
	if err != nil {
		return err
	}
	v.Additional = bag
	*m = MessageResponse(v)
	return nil
}

func (m MessageResponse) MarshalJSON() ([]byte, error) {
	type plain MessageResponse
	return core.EncodeWithAdditional(plain(m), m.Additional)
}

// Message sends user input to a workspace and returns what the service
// recognized plus the updated context. Pass nodesVisitedDetails true to get
// per-node traversal details in the output.
func (c *Client) Message(ctx context.Context, workspaceID string, req *MessageRequest, nodesVisitedDetails *bool) (*MessageResponse, error) {
	q := c.newQuery()
	q.SetBool("nodes_visited_details", nodesVisitedDetails)

	if req == nil {
		req = &MessageRequest{}
	}

	var out MessageResponse
	err := c.do(ctx, call{
		operation: "message",
		method:    http.MethodPost,
		segments:  []string{"v1", "workspaces", workspaceID, "message"},
		query:     q,
		body:      req,
		out:       &out,
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}
