package conversation

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/jimwinquist/conversation-go/core"
)

// LogEntry is one recorded message exchange.
type LogEntry struct {
	Request           MessageRequest  `json:"request"`
	Response          MessageResponse `json:"response"`
	LogID             string          `json:"log_id"`
	RequestTimestamp  string          `json:"request_timestamp"`
	ResponseTimestamp string          `json:"response_timestamp"`
	WorkspaceID       *string         `json:"workspace_id,omitempty"`
	Language          *string         `json:"language,omitempty"`
}

func (e *LogEntry) UnmarshalJSON(data []byte) error {
	if err := core.RequireKeys(data, "request", "response", "log_id", "request_timestamp", "response_timestamp"); err != nil {
		return err
	}
	type plain LogEntry
	var v plain
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*e = LogEntry(v)
	return nil
}

// LogCollection is one page of a log listing.
type LogCollection struct {
	Logs       []LogEntry    `json:"logs"`
	Pagination LogPagination `json:"pagination"`
}

func (c *LogCollection) UnmarshalJSON(data []byte) error {
	if err := core.RequireKeys(data, "logs", "pagination"); err != nil {
		return err
	}
	type plain LogCollection
	var v plain
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*c = LogCollection(v)
	return nil
}

// ListLogsOptions are the optional parameters of the log listings. Filter is
// a service-side filter expression over log properties.
type ListLogsOptions struct {
	Sort      *string
	Filter    *string
	PageLimit *int64
	Cursor    *string
}

// ListLogs pages through the recorded exchanges of one workspace.
func (c *Client) ListLogs(ctx context.Context, workspaceID string, opts *ListLogsOptions) (*LogCollection, error) {
	q := c.newQuery()
	if opts != nil {
		q.SetString("sort", opts.Sort)
		q.SetString("filter", opts.Filter)
		q.SetInt("page_limit", opts.PageLimit)
		q.SetString("cursor", opts.Cursor)
	}

	var out LogCollection
	err := c.do(ctx, call{
		operation: "list_logs",
		method:    http.MethodGet,
		segments:  []string{"v1", "workspaces", workspaceID, "logs"},
		query:     q,
		out:       &out,
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// ListAllLogs pages through recorded exchanges across all workspaces matching
// filter. The filter is mandatory here: it must scope the query to a language
// or workspace set.
func (c *Client) ListAllLogs(ctx context.Context, filter string, opts *ListLogsOptions) (*LogCollection, error) {
	q := c.newQuery()
	q.SetString("filter", &filter)
	if opts != nil {
		q.SetString("sort", opts.Sort)
		q.SetInt("page_limit", opts.PageLimit)
		q.SetString("cursor", opts.Cursor)
	}

	var out LogCollection
	err := c.do(ctx, call{
		operation: "list_all_logs",
		method:    http.MethodGet,
		segments:  []string{"v1", "logs"},
		query:     q,
		out:       &out,
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}
