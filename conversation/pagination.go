package conversation

import (
	"encoding/json"
	"net/url"

	"github.com/jimwinquist/conversation-go/core"
)

// Pagination describes cursor-based paging of a collection response. Total
// and Matched are present only when the listing was asked to include counts.
type Pagination struct {
	RefreshURL string  `json:"refresh_url"`
	NextURL    *string `json:"next_url,omitempty"`
	Total      *int64  `json:"total,omitempty"`
	Matched    *int64  `json:"matched,omitempty"`
}

func (p *Pagination) UnmarshalJSON(data []byte) error {
	if err := core.RequireKeys(data, "refresh_url"); err != nil {
		return err
	}
	type plain Pagination
	var v plain
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*p = Pagination(v)
	return nil
}

// NextCursor extracts the opaque cursor token from NextURL so it can be fed
// into the next listing call. Returns false when there is no further page.
func (p *Pagination) NextCursor() (string, bool) {
	return cursorFrom(p.NextURL)
}

// LogPagination describes paging of a log listing. Log pages carry the cursor
// directly in addition to the next-page URL.
type LogPagination struct {
	NextURL    *string `json:"next_url,omitempty"`
	Matched    *int64  `json:"matched,omitempty"`
	NextCursor *string `json:"next_cursor,omitempty"`
}

// Cursor returns the token for the next page, preferring the explicit
// next_cursor field over the one embedded in next_url.
func (p *LogPagination) Cursor() (string, bool) {
	if p == nil {
		return "", false
	}
	if p.NextCursor != nil && *p.NextCursor != "" {
		return *p.NextCursor, true
	}
	return cursorFrom(p.NextURL)
}

func cursorFrom(nextURL *string) (string, bool) {
	if nextURL == nil {
		return "", false
	}
	u, err := url.Parse(*nextURL)
	if err != nil {
		return "", false
	}
	cursor := u.Query().Get("cursor")
	return cursor, cursor != ""
}

// ListOptions are the paging parameters shared by the listing operations.
// Every field is optional; a nil options value lists with service defaults.
type ListOptions struct {
	PageLimit    *int64
	IncludeCount *bool
	Sort         *string
	Cursor       *string
}

// ListExportOptions extends ListOptions with the export flag accepted by the
// intent, entity and value listings.
type ListExportOptions struct {
	Export       *bool
	PageLimit    *int64
	IncludeCount *bool
	Sort         *string
	Cursor       *string
}

func applyListOptions(q *core.Query, opts *ListOptions) {
	if opts == nil {
		return
	}
	q.SetInt("page_limit", opts.PageLimit)
	q.SetBool("include_count", opts.IncludeCount)
	q.SetString("sort", opts.Sort)
	q.SetString("cursor", opts.Cursor)
}

func applyListExportOptions(q *core.Query, opts *ListExportOptions) {
	if opts == nil {
		return
	}
	q.SetBool("export", opts.Export)
	q.SetInt("page_limit", opts.PageLimit)
	q.SetBool("include_count", opts.IncludeCount)
	q.SetString("sort", opts.Sort)
	q.SetString("cursor", opts.Cursor)
}
