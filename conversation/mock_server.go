package conversation

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jimwinquist/conversation-go/core"
)

// MockServer is a configurable in-memory double of the service for tests. It
// implements the workspace, intent, message and log endpoints with real
// state, plus per-route failure and latency injection.
type MockServer struct {
	*httptest.Server
	mu         sync.RWMutex
	workspaces map[string]*mockWorkspace
	logs       []LogEntry
	failures   map[string]int           // remaining forced 503s per route pattern
	delays     map[string]time.Duration // artificial latency per route pattern
}

type mockWorkspace struct {
	workspace Workspace
	intents   map[string]Intent
}

// NewMockServer starts a mock service with no workspaces.
func NewMockServer() *MockServer {
	m := &MockServer{
		workspaces: make(map[string]*mockWorkspace),
		failures:   make(map[string]int),
		delays:     make(map[string]time.Duration),
	}

	r := chi.NewRouter()
	r.Use(m.interceptor)
	r.Route("/v1", func(r chi.Router) {
		r.Get("/workspaces", m.handleListWorkspaces)
		r.Post("/workspaces", m.handleCreateWorkspace)
		r.Route("/workspaces/{workspaceID}", func(r chi.Router) {
			r.Get("/", m.handleGetWorkspace)
			r.Delete("/", m.handleDeleteWorkspace)
			r.Get("/intents", m.handleListIntents)
			r.Post("/intents", m.handleCreateIntent)
			r.Get("/intents/{intent}", m.handleGetIntent)
			r.Delete("/intents/{intent}", m.handleDeleteIntent)
			r.Post("/message", m.handleMessage)
			r.Get("/logs", m.handleListLogs)
		})
	})

	m.Server = httptest.NewServer(r)
	return m
}

// FailNext forces the next n requests matching the route pattern (e.g.
// "/v1/workspaces") to return 503 with an error document.
func (m *MockServer) FailNext(pattern string, n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failures[pattern] = n
}

// DelayRoute adds artificial latency to every request matching the pattern.
func (m *MockServer) DelayRoute(pattern string, d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.delays[pattern] = d
}

// SeedWorkspace installs a workspace with a fresh ID and returns it.
func (m *MockServer) SeedWorkspace(name, language string) Workspace {
	m.mu.Lock()
	defer m.mu.Unlock()
	ws := Workspace{
		Name:        name,
		Language:    language,
		WorkspaceID: uuid.NewString(),
		Created:     String(time.Now().UTC().Format(time.RFC3339)),
	}
	m.workspaces[ws.WorkspaceID] = &mockWorkspace{
		workspace: ws,
		intents:   make(map[string]Intent),
	}
	return ws
}

// interceptor enforces the version parameter and applies injected failures
// and delays before the real handlers run.
func (m *MockServer) interceptor(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("version") == "" {
			writeError(w, http.StatusBadRequest, "version is required")
			return
		}

		m.mu.Lock()
		pattern := r.URL.Path
		delay := m.delays[pattern]
		failing := m.failures[pattern] > 0
		if failing {
			m.failures[pattern]--
		}
		m.mu.Unlock()

		if delay > 0 {
			time.Sleep(delay)
		}
		if failing {
			writeError(w, http.StatusServiceUnavailable, "injected failure")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func (m *MockServer) handleListWorkspaces(w http.ResponseWriter, r *http.Request) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := WorkspaceCollection{
		Workspaces: make([]Workspace, 0, len(m.workspaces)),
		Pagination: Pagination{RefreshURL: "/v1/workspaces?version=" + r.URL.Query().Get("version")},
	}
	for _, ws := range m.workspaces {
		out.Workspaces = append(out.Workspaces, ws.workspace)
	}
	if r.URL.Query().Get("include_count") == "true" {
		total := int64(len(out.Workspaces))
		out.Pagination.Total = &total
		out.Pagination.Matched = &total
	}
	writeJSON(w, http.StatusOK, out)
}

func (m *MockServer) handleCreateWorkspace(w http.ResponseWriter, r *http.Request) {
	var req CreateWorkspaceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	name := "default"
	if req.Name != nil {
		name = *req.Name
	}
	language := "en"
	if req.Language != nil {
		language = *req.Language
	}

	m.mu.Lock()
	ws := Workspace{
		Name:        name,
		Language:    language,
		WorkspaceID: uuid.NewString(),
		Description: req.Description,
		Created:     String(time.Now().UTC().Format(time.RFC3339)),
	}
	mock := &mockWorkspace{workspace: ws, intents: make(map[string]Intent)}
	for _, in := range req.Intents {
		mock.intents[in.Intent] = Intent{Name: in.Intent, Description: in.Description}
	}
	m.workspaces[ws.WorkspaceID] = mock
	m.mu.Unlock()

	writeJSON(w, http.StatusCreated, ws)
}

func (m *MockServer) handleGetWorkspace(w http.ResponseWriter, r *http.Request) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	mock, ok := m.workspaces[chi.URLParam(r, "workspaceID")]
	if !ok {
		writeError(w, http.StatusNotFound, "workspace not found")
		return
	}
	ws := mock.workspace
	if r.URL.Query().Get("export") == "true" {
		ws.Intents = make([]Intent, 0, len(mock.intents))
		for _, in := range mock.intents {
			ws.Intents = append(ws.Intents, in)
		}
	}
	writeJSON(w, http.StatusOK, ws)
}

func (m *MockServer) handleDeleteWorkspace(w http.ResponseWriter, r *http.Request) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := chi.URLParam(r, "workspaceID")
	if _, ok := m.workspaces[id]; !ok {
		writeError(w, http.StatusNotFound, "workspace not found")
		return
	}
	delete(m.workspaces, id)
	w.WriteHeader(http.StatusNoContent)
}

func (m *MockServer) handleListIntents(w http.ResponseWriter, r *http.Request) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	mock, ok := m.workspaces[chi.URLParam(r, "workspaceID")]
	if !ok {
		writeError(w, http.StatusNotFound, "workspace not found")
		return
	}
	out := IntentCollection{
		Intents:    make([]Intent, 0, len(mock.intents)),
		Pagination: Pagination{RefreshURL: r.URL.Path},
	}
	for _, in := range mock.intents {
		out.Intents = append(out.Intents, in)
	}
	writeJSON(w, http.StatusOK, out)
}

func (m *MockServer) handleCreateIntent(w http.ResponseWriter, r *http.Request) {
	var req CreateIntentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Intent == "" {
		writeError(w, http.StatusBadRequest, "intent name is required")
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	mock, ok := m.workspaces[chi.URLParam(r, "workspaceID")]
	if !ok {
		writeError(w, http.StatusNotFound, "workspace not found")
		return
	}
	in := Intent{
		Name:        req.Intent,
		Description: req.Description,
		Created:     String(time.Now().UTC().Format(time.RFC3339)),
	}
	mock.intents[in.Name] = in
	writeJSON(w, http.StatusCreated, in)
}

func (m *MockServer) handleGetIntent(w http.ResponseWriter, r *http.Request) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	mock, ok := m.workspaces[chi.URLParam(r, "workspaceID")]
	if !ok {
		writeError(w, http.StatusNotFound, "workspace not found")
		return
	}
	in, ok := mock.intents[chi.URLParam(r, "intent")]
	if !ok {
		writeError(w, http.StatusNotFound, "intent not found")
		return
	}
	writeJSON(w, http.StatusOK, in)
}

func (m *MockServer) handleDeleteIntent(w http.ResponseWriter, r *http.Request) {
	m.mu.Lock()
	defer m.mu.Unlock()
	mock, ok := m.workspaces[chi.URLParam(r, "workspaceID")]
	if !ok {
		writeError(w, http.StatusNotFound, "workspace not found")
		return
	}
	name := chi.URLParam(r, "intent")
	if _, ok := mock.intents[name]; !ok {
		writeError(w, http.StatusNotFound, "intent not found")
		return
	}
	delete(mock.intents, name)
	w.WriteHeader(http.StatusNoContent)
}

// handleMessage echoes the input through the best-matching seeded intent and
// threads a turn counter through context.system, recording a log entry.
func (m *MockServer) handleMessage(w http.ResponseWriter, r *http.Request) {
	var req MessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	wsID := chi.URLParam(r, "workspaceID")
	mock, ok := m.workspaces[wsID]
	if !ok {
		writeError(w, http.StatusNotFound, "workspace not found")
		return
	}

	resp := m.buildMessageResponse(mock, req)
	m.logs = append(m.logs, LogEntry{
		Request:           req,
		Response:          resp,
		LogID:             uuid.NewString(),
		RequestTimestamp:  time.Now().UTC().Format(time.RFC3339),
		ResponseTimestamp: time.Now().UTC().Format(time.RFC3339),
		WorkspaceID:       &wsID,
	})
	writeJSON(w, http.StatusOK, resp)
}

func (m *MockServer) buildMessageResponse(mock *mockWorkspace, req MessageRequest) MessageResponse {
	conversationID := uuid.NewString()
	turn := int64(1)
	if req.Context != nil {
		if req.Context.ConversationID != nil {
			conversationID = *req.Context.ConversationID
		}
		if req.Context.System != nil {
			if prev, ok := req.Context.System.Additional["dialog_turn_counter"]; ok {
				if n, ok := prev.AsInt64(); ok {
					turn = n + 1
				}
			}
		}
	}

	intents := []RuntimeIntent{}
	text := []string{}
	if req.Input != nil && req.Input.Text != "" {
		for name := range mock.intents {
			intents = append(intents, RuntimeIntent{Intent: name, Confidence: 0.91})
			break
		}
		text = append(text, fmt.Sprintf("you said: %s", req.Input.Text))
	}

	return MessageResponse{
		Input:    req.Input,
		Intents:  intents,
		Entities: []RuntimeEntity{},
		Context: Context{
			ConversationID: &conversationID,
			System: &SystemResponse{Additional: map[string]core.Value{
				"dialog_turn_counter": core.Int(turn),
			}},
		},
		Output: OutputData{
			Text:        text,
			LogMessages: []LogMessage{},
		},
	}
}

func (m *MockServer) handleListLogs(w http.ResponseWriter, r *http.Request) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	wsID := chi.URLParam(r, "workspaceID")
	out := LogCollection{Logs: []LogEntry{}}
	for _, e := range m.logs {
		if e.WorkspaceID != nil && *e.WorkspaceID == wsID {
			out.Logs = append(out.Logs, e)
		}
	}
	writeJSON(w, http.StatusOK, out)
}
