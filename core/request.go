package core

import (
	"net/url"
	"strconv"
	"strings"
)

// PathSegments joins percent-encoded path segments onto base. Every segment
// is escaped with the path-segment-safe set, so a workspace ID containing "/"
// or spaces stays a single segment. An empty segment aborts before any
// network I/O.
func PathSegments(base string, segments ...string) (string, error) {
	var sb strings.Builder
	sb.WriteString(strings.TrimRight(base, "/"))
	for _, seg := range segments {
		if seg == "" {
			return "", &EncodingError{Param: seg}
		}
		sb.WriteByte('/')
		sb.WriteString(url.PathEscape(seg))
	}
	return sb.String(), nil
}

// Query accumulates URL query parameters for one call. The API version is
// always present; optional parameters are appended only when the caller
// supplied a value.
type Query struct {
	values url.Values
}

// NewQuery returns a Query carrying the mandatory version parameter.
func NewQuery(version string) *Query {
	q := &Query{values: url.Values{}}
	q.values.Set("version", version)
	return q
}

// SetString appends key when v is non-nil.
func (q *Query) SetString(key string, v *string) {
	if v != nil {
		q.values.Set(key, *v)
	}
}

// SetBool appends key as literal true/false when v is non-nil.
func (q *Query) SetBool(key string, v *bool) {
	if v != nil {
		q.values.Set(key, strconv.FormatBool(*v))
	}
}

// SetInt appends key in decimal form when v is non-nil.
func (q *Query) SetInt(key string, v *int64) {
	if v != nil {
		q.values.Set(key, strconv.FormatInt(*v, 10))
	}
}

// Encode renders the query string in canonical (sorted-key) order.
func (q *Query) Encode() string {
	return q.values.Encode()
}
