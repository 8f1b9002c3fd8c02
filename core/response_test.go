package core

import (
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}

func TestDispatchDecodesSuccess(t *testing.T) {
	var out struct {
		Name string `json:"name"`
	}
	err := Dispatch(makeResponse(201, `{"name":"demo"}`), "create_workspace", &out)
	require.NoError(t, err)
	assert.Equal(t, "demo", out.Name)
}

func TestDispatchEmptySuccess(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"204_no_body", 204, ""},
		{"200_blank_body", 200, "  \n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out struct{}
			require.NoError(t, Dispatch(makeResponse(tt.status, tt.body), "delete_workspace", &out))
		})
	}
}

func TestDispatchNilOutIgnoresBody(t *testing.T) {
	require.NoError(t, Dispatch(makeResponse(200, `{"ignored":true}`), "delete_workspace", nil))
}

func TestDispatchServiceError(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		wantMessage string
	}{
		{"error_field", 404, `{"error":"not found"}`, "not found"},
		{"message_field", 400, `{"message":"bad request"}`, "bad request"},
		{"errors_list", 400, `{"errors":[{"message":"first"},{"message":"second"}]}`, "first"},
		{"unparsable_body", 500, `<html>boom</html>`, ""},
		{"empty_body", 503, ``, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Dispatch(makeResponse(tt.status, tt.body), "get_workspace", nil)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrService))

			var se *ServiceError
			require.True(t, errors.As(err, &se))
			assert.Equal(t, tt.status, se.Status)
			assert.Equal(t, tt.wantMessage, se.Message)
			assert.Equal(t, "get_workspace", se.Operation)
		})
	}
}

func TestDispatchMalformedSuccessBody(t *testing.T) {
	var out struct {
		Name string `json:"name"`
	}
	err := Dispatch(makeResponse(200, `{not-json`), "get_workspace", &out)
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrService), "a bad success body is a decode failure, not a service error")
}
