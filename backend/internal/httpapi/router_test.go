package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"codegraph/backend/internal/filegraph"
	"codegraph/backend/internal/relay"
	"codegraph/backend/pkg/config"
	apperrors "codegraph/backend/pkg/errors"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type mockGraphBuilder struct {
	graph filegraph.Graph
	err   error
	calls int
}

func (m *mockGraphBuilder) BuildGraph(ctx context.Context) (filegraph.Graph, error) {
	m.calls++
	if m.err != nil {
		return filegraph.Graph{}, m.err
	}
	return m.graph, nil
}

type mockChat struct {
	content string
	err     error
	calls   int
}

func (m *mockChat) Forward(ctx context.Context, query, systemContext string) (string, error) {
	m.calls++
	if m.err != nil {
		return "", m.err
	}
	return m.content, nil
}

type mockCommits struct {
	commits []relay.Commit
	err     error
	calls   int
}

func (m *mockCommits) ListCommits(ctx context.Context, path string) ([]relay.Commit, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return m.commits, nil
}

func testRouter(graphs *mockGraphBuilder, chat *mockChat, commits *mockCommits) *gin.Engine {
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{APIToken: "secret"}
	return NewRouter(cfg, graphs, chat, commits)
}

func TestHealthEndpoint(t *testing.T) {
	router := testRouter(&mockGraphBuilder{}, &mockChat{}, &mockCommits{})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/health", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var response map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &response)
	assert.Equal(t, "ok", response["status"])
}

func TestGraphEndpoint_WrongTokenMakesZeroUpstreamCalls(t *testing.T) {
	graphs := &mockGraphBuilder{}
	router := testRouter(graphs, &mockChat{}, &mockCommits{})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/api/graph", nil)
	req.Header.Set("Authorization", "Bearer wrong")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, 0, graphs.calls)
}

func TestGraphEndpoint_MissingTokenRejected(t *testing.T) {
	graphs := &mockGraphBuilder{}
	router := testRouter(graphs, &mockChat{}, &mockCommits{})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/api/graph", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, 0, graphs.calls)
}

func TestGraphEndpoint_BasicSchemeRejected(t *testing.T) {
	router := testRouter(&mockGraphBuilder{}, &mockChat{}, &mockCommits{})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/api/graph", nil)
	req.Header.Set("Authorization", "Basic secret")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestGraphEndpoint_ReturnsGraphJSON(t *testing.T) {
	graphs := &mockGraphBuilder{
		graph: filegraph.Graph{
			Nodes: []filegraph.Node{{ID: "1", Name: "a.go", EditCount: 5, LengthOfFile: 120}},
			Edges: []filegraph.Edge{{ID: "e1", Source: "1", Target: "2"}},
		},
	}
	router := testRouter(graphs, &mockChat{}, &mockCommits{})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/api/graph", nil)
	req.Header.Set("Authorization", "Bearer secret")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, graphs.calls)

	var response struct {
		Nodes []filegraph.Node `json:"nodes"`
		Edges []filegraph.Edge `json:"edges"`
	}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Len(t, response.Nodes, 1)
	assert.Equal(t, "a.go", response.Nodes[0].Name)
	assert.Len(t, response.Edges, 1)
}

func TestGraphEndpoint_IndexFailureIs502(t *testing.T) {
	graphs := &mockGraphBuilder{
		err: apperrors.NewUpstreamFailure("fetch", apperrors.NewIndexUnavailable("test", assert.AnError)),
	}
	router := testRouter(graphs, &mockChat{}, &mockCommits{})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/api/graph", nil)
	req.Header.Set("Authorization", "Bearer secret")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadGateway, w.Code)
}

func TestChatEndpoint_InvalidRequest(t *testing.T) {
	chat := &mockChat{}
	router := testRouter(&mockGraphBuilder{}, chat, &mockCommits{})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/api/chat", bytes.NewBufferString(`{}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer secret")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, 0, chat.calls)
}

func TestChatEndpoint_ForwardsQuery(t *testing.T) {
	chat := &mockChat{content: "hello there"}
	router := testRouter(&mockGraphBuilder{}, chat, &mockCommits{})

	body := `{"query":"say hello","context":"be brief"}`
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/api/chat", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer secret")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, chat.calls)

	var response map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &response)
	assert.Equal(t, "hello there", response["content"])
}

func TestChatEndpoint_UpstreamFailureIs502(t *testing.T) {
	chat := &mockChat{err: apperrors.NewRelayFailed("chat", assert.AnError)}
	router := testRouter(&mockGraphBuilder{}, chat, &mockCommits{})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/api/chat", bytes.NewBufferString(`{"query":"hi"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer secret")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadGateway, w.Code)
}

func TestCommitsEndpoint_ReturnsHistory(t *testing.T) {
	commits := &mockCommits{
		commits: []relay.Commit{{SHA: "abc123", Message: "initial commit"}},
	}
	router := testRouter(&mockGraphBuilder{}, &mockChat{}, commits)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/github/commits?path=a.go", nil)
	req.Header.Set("Authorization", "Bearer secret")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, commits.calls)
	assert.Contains(t, w.Body.String(), "abc123")
}

func TestCommitsEndpoint_NotConfiguredIs503(t *testing.T) {
	commits := &mockCommits{err: apperrors.NewRelayNotConfigured("github")}
	router := testRouter(&mockGraphBuilder{}, &mockChat{}, commits)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/github/commits", nil)
	req.Header.Set("Authorization", "Bearer secret")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestCORSPreflight(t *testing.T) {
	router := testRouter(&mockGraphBuilder{}, &mockChat{}, &mockCommits{})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("OPTIONS", "/api/graph", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}
