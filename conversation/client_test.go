package conversation

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jimwinquist/conversation-go/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClientRequiresURL(t *testing.T) {
	_, err := NewClient(Options{})
	require.Error(t, err)
}

func TestNewClientLiftsURLCredentials(t *testing.T) {
	var gotUser, gotPass string
	var gotOK bool
	s := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUser, gotPass, gotOK = r.BasicAuth()
		w.WriteHeader(http.StatusNoContent)
	}))
	defer s.Close()

	client, err := NewClient(Options{URL: "http://apikey:secret@" + s.Listener.Addr().String()})
	require.NoError(t, err)

	require.NoError(t, client.DeleteWorkspace(context.Background(), "ws1"))
	require.True(t, gotOK)
	assert.Equal(t, "apikey", gotUser)
	assert.Equal(t, "secret", gotPass)
}

func TestClientSendsBearerToken(t *testing.T) {
	var gotAuth string
	s := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusNoContent)
	}))
	defer s.Close()

	client, err := NewClient(Options{URL: s.URL, BearerToken: "tok-123"})
	require.NoError(t, err)

	require.NoError(t, client.DeleteWorkspace(context.Background(), "ws1"))
	assert.Equal(t, "Bearer tok-123", gotAuth)
}

func TestClientVersionOnlyQueryByDefault(t *testing.T) {
	var gotQuery string
	s := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"workspaces":[],"pagination":{"refresh_url":"/v1/workspaces"}}`))
	}))
	defer s.Close()

	client, err := NewClient(Options{URL: s.URL})
	require.NoError(t, err)

	_, err = client.ListWorkspaces(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, "version="+DefaultVersion, gotQuery)
}

func TestClientEscapesPathParameters(t *testing.T) {
	var gotPath string
	s := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.EscapedPath()
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"text":"hi there"}`))
	}))
	defer s.Close()

	client, err := NewClient(Options{URL: s.URL})
	require.NoError(t, err)

	_, err = client.GetCounterexample(context.Background(), "ws 1", "hi there/general")
	require.NoError(t, err)
	assert.Equal(t, "/v1/workspaces/ws%201/counterexamples/hi%20there%2Fgeneral", gotPath)
}

func TestClientRejectsEmptyPathParameter(t *testing.T) {
	client, err := NewClient(Options{URL: "http://127.0.0.1:1"})
	require.NoError(t, err)

	_, err = client.GetWorkspace(context.Background(), "", nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrPathEncoding))
}

func TestClientTransportErrorIsDistinct(t *testing.T) {
	// Nothing listens here; connection is refused before any response.
	client, err := NewClient(Options{URL: "http://127.0.0.1:1", Timeout: 500 * time.Millisecond})
	require.NoError(t, err)

	_, err = client.ListWorkspaces(context.Background(), nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrTransport))
	assert.False(t, errors.Is(err, core.ErrService))
}

func TestClientServiceErrorFromInjectedFailure(t *testing.T) {
	mock := NewMockServer()
	defer mock.Close()
	mock.FailNext("/v1/workspaces", 1)

	client, err := NewClient(Options{URL: mock.URL})
	require.NoError(t, err)

	_, err = client.ListWorkspaces(context.Background(), nil)
	require.Error(t, err)

	var se *core.ServiceError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusServiceUnavailable, se.Status)
	assert.Equal(t, "injected failure", se.Message)

	// The failure is not sticky; the next call succeeds.
	_, err = client.ListWorkspaces(context.Background(), nil)
	require.NoError(t, err)
}

func TestClientCustomHeaders(t *testing.T) {
	var gotHeader string
	s := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotHeader = r.Header.Get("X-Customer-ID")
		w.WriteHeader(http.StatusNoContent)
	}))
	defer s.Close()

	headers := http.Header{}
	headers.Set("X-Customer-ID", "acme")
	client, err := NewClient(Options{URL: s.URL, Headers: headers})
	require.NoError(t, err)

	require.NoError(t, client.DeleteWorkspace(context.Background(), "ws1"))
	assert.Equal(t, "acme", gotHeader)
}

func TestClientContentTypeOnlyWithBody(t *testing.T) {
	var getCT, postCT string
	s := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			getCT = r.Header.Get("Content-Type")
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"workspaces":[],"pagination":{"refresh_url":"/v1/workspaces"}}`))
		case http.MethodPost:
			postCT = r.Header.Get("Content-Type")
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"name":"n","language":"en","workspace_id":"id"}`))
		}
	}))
	defer s.Close()

	client, err := NewClient(Options{URL: s.URL})
	require.NoError(t, err)

	_, err = client.ListWorkspaces(context.Background(), nil)
	require.NoError(t, err)
	_, err = client.CreateWorkspace(context.Background(), &CreateWorkspaceRequest{Name: String("n")})
	require.NoError(t, err)

	assert.Empty(t, getCT)
	assert.Equal(t, "application/json", postCT)
}
