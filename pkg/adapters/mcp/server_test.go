package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meiyaku-knights/navi"
	"github.com/meiyaku-knights/navi/pkg/adapters/memory"
	"github.com/meiyaku-knights/navi/pkg/domain"
	"github.com/meiyaku-knights/navi/pkg/session"
)

const graphJSON = `{
  "questions": {
    "Q1": {"text": "同居していますか？", "options": [
      {"label": "はい", "next": "Q2"},
      {"label": "いいえ", "next": "End_Separated"}
    ]},
    "Q2": {"text": "別居を切り出されましたか？", "options": [
      {"label": "はい", "next": "End_Warning"},
      {"label": "いいえ", "next": "End_Calm"}
    ]}
  },
  "results": {
    "End_Separated": {"phase": "別居後", "phaseLevel": "phase-red", "advice": "申し立てを。", "videos": [], "tools": ["judgments"]},
    "End_Warning": {"phase": "別居前夜", "phaseLevel": "phase-orange", "advice": "証拠を。", "videos": [], "tools": []},
    "End_Calm": {"phase": "平時", "phaseLevel": "phase-green", "advice": "記録を。", "videos": [], "tools": []}
  }
}`

type failingLoader struct{}

func (failingLoader) Load(ctx context.Context) (*domain.Graph, error) {
	return nil, errors.New("network down")
}

func newTestServer(t *testing.T) (*Server, *session.Manager) {
	t.Helper()
	loader, err := memory.NewLoaderFromJSON([]byte(graphJSON))
	require.NoError(t, err)
	nav, err := navi.New("test", navi.WithLoader(loader))
	require.NoError(t, err)
	sessions := session.NewManager(memory.NewStore())
	return NewServer(nav, sessions, "test"), sessions
}

func intPtr(i int) *int { return &i }

func TestToolDefinitions(t *testing.T) {
	tests := []struct {
		tool     mcp.Tool
		wantName string
	}{
		{startSessionTool, "start_session"},
		{renderStateTool, "render_state"},
		{navigateTool, "navigate"},
		{restartSessionTool, "restart_session"},
		{getGraphTool, "get_graph"},
		{getMermaidTool, "get_mermaid"},
	}
	for _, tt := range tests {
		t.Run(tt.wantName, func(t *testing.T) {
			assert.Equal(t, tt.wantName, tt.tool.Name)
			assert.NotEmpty(t, tt.tool.Description)
		})
	}
	assert.Contains(t, navigateTool.InputSchema.Required, "option")
}

func TestWalkThroughTools(t *testing.T) {
	srv, sessions := newTestServer(t)
	ctx := context.Background()
	req := mcp.CallToolRequest{}

	view, err := srv.handleStartSession(ctx, req, sessionArgs{SessionID: "agent"})
	require.NoError(t, err)
	require.Len(t, view.Steps, 1)
	assert.Equal(t, "Q1", view.Steps[0].Question.ID)
	assert.False(t, view.Terminal)

	// Starting again resumes instead of resetting.
	_, err = srv.handleNavigate(ctx, req, answerArgs{SessionID: "agent", QuestionID: "Q1", Option: intPtr(0)})
	require.NoError(t, err)
	view, err = srv.handleStartSession(ctx, req, sessionArgs{SessionID: "agent"})
	require.NoError(t, err)
	assert.Equal(t, "Q2", view.Session.CurrentID)

	view, err = srv.handleNavigate(ctx, req, answerArgs{SessionID: "agent", QuestionID: "Q2", Option: intPtr(1)})
	require.NoError(t, err)
	assert.True(t, view.Terminal)
	assert.Len(t, view.Steps, 3)
	assert.Equal(t, "End_Calm", view.Steps[2].Result.ID)

	stored, err := sessions.Load(ctx, "agent")
	require.NoError(t, err)
	assert.Len(t, stored.Path, 2)

	view, err = srv.handleRenderState(ctx, req, sessionArgs{SessionID: "agent"})
	require.NoError(t, err)
	assert.Len(t, view.Steps, 3)

	view, err = srv.handleRestart(ctx, req, sessionArgs{SessionID: "agent"})
	require.NoError(t, err)
	assert.Equal(t, "Q1", view.Session.CurrentID)
	assert.Empty(t, view.Session.Path)
}

func TestStartSession_GeneratesID(t *testing.T) {
	srv, _ := newTestServer(t)
	view, err := srv.handleStartSession(context.Background(), mcp.CallToolRequest{}, sessionArgs{})
	require.NoError(t, err)
	assert.Len(t, view.Session.ID, 36)
}

func TestNavigate_Errors(t *testing.T) {
	srv, _ := newTestServer(t)
	ctx := context.Background()
	req := mcp.CallToolRequest{}
	_, err := srv.handleStartSession(ctx, req, sessionArgs{SessionID: "s"})
	require.NoError(t, err)

	tests := []struct {
		name string
		args answerArgs
		want error
	}{
		{"Unknown Session", answerArgs{SessionID: "nope", QuestionID: "Q1", Option: intPtr(0)}, domain.ErrSessionNotFound},
		{"Wrong Question", answerArgs{SessionID: "s", QuestionID: "Q2", Option: intPtr(0)}, domain.ErrQuestionMismatch},
		{"Bad Option", answerArgs{SessionID: "s", QuestionID: "Q1", Option: intPtr(5)}, domain.ErrInvalidOption},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := srv.handleNavigate(ctx, req, tt.args)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	_, err = srv.handleNavigate(ctx, req, answerArgs{SessionID: "s", QuestionID: "Q1"})
	assert.ErrorContains(t, err, "required")
}

func TestStartSession_LoadFailurePersistsRetry(t *testing.T) {
	nav, err := navi.New("test", navi.WithLoader(failingLoader{}))
	require.NoError(t, err)
	sessions := session.NewManager(memory.NewStore())
	srv := NewServer(nav, sessions, "test")
	ctx := context.Background()

	_, err = srv.handleStartSession(ctx, mcp.CallToolRequest{}, sessionArgs{SessionID: "down"})
	assert.ErrorIs(t, err, domain.ErrGraphUnavailable)

	stored, err := sessions.Load(ctx, "down")
	require.NoError(t, err)
	assert.True(t, stored.LoadFailed)
	assert.Equal(t, domain.PhaseNotStarted, stored.Phase)

	result, err := srv.handleGetGraph(ctx, mcp.CallToolRequest{})
	require.NoError(t, err)
	assert.True(t, result.IsError)
}

func TestGraphTools(t *testing.T) {
	srv, _ := newTestServer(t)
	ctx := context.Background()
	_, err := srv.handleStartSession(ctx, mcp.CallToolRequest{}, sessionArgs{SessionID: "m"})
	require.NoError(t, err)

	result, err := srv.handleGetGraph(ctx, mcp.CallToolRequest{})
	require.NoError(t, err)
	require.False(t, result.IsError)
	require.Len(t, result.Content, 1)
	text, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok)
	var g domain.Graph
	require.NoError(t, json.Unmarshal([]byte(text.Text), &g))
	assert.Len(t, g.Questions, 2)

	req := mcp.CallToolRequest{}
	req.Params.Arguments = map[string]any{"session_id": "m"}
	result, err = srv.handleGetMermaid(ctx, req)
	require.NoError(t, err)
	text, ok = result.Content[0].(mcp.TextContent)
	require.True(t, ok)
	assert.Contains(t, text.Text, "graph TD")
	assert.Contains(t, text.Text, "class Q1 current;")

	req.Params.Arguments = map[string]any{"session_id": "missing"}
	result, err = srv.handleGetMermaid(ctx, req)
	require.NoError(t, err)
	assert.True(t, result.IsError)
}

func TestSSEHandler_CORS(t *testing.T) {
	srv, _ := newTestServer(t)
	ts := httptest.NewServer(srv.SSEHandler("http://localhost"))
	defer ts.Close()

	req, err := http.NewRequest(http.MethodOptions, ts.URL+"/message", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "http://agent.local")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
}
