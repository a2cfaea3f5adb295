// Package mcp exposes the survival navigator as Model Context Protocol tools,
// so an agent can walk a stored session the same way the JSON API does.
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/meiyaku-knights/navi/internal/logging"
	"github.com/meiyaku-knights/navi/internal/presentation/graph"
	"github.com/meiyaku-knights/navi/pkg/domain"
	"github.com/meiyaku-knights/navi/pkg/session"
)

// GraphURI is the resource holding the navigator graph.
const GraphURI = "navi://graph"

// Navigator is the subset of navi.Navigator the tools drive.
type Navigator interface {
	Start(ctx context.Context, s *domain.Session) (*domain.Session, domain.Step, error)
	Answer(ctx context.Context, s *domain.Session, questionID string, optionIndex int) (*domain.Session, domain.Step, error)
	Restart(ctx context.Context, s *domain.Session) (*domain.Session, domain.Step, error)
	Timeline(ctx context.Context, s *domain.Session) ([]domain.Step, error)
	Graph(ctx context.Context) (*domain.Graph, error)
	StartID() string
}

// View is the structured result of every session tool.
type View struct {
	Session  *domain.Session `json:"session" jsonschema_description:"The stored navigator session"`
	Steps    []domain.Step   `json:"steps" jsonschema_description:"Questions and result shown so far, in order"`
	Terminal bool            `json:"terminal" jsonschema_description:"True once a result is shown; only restart_session continues"`
}

type sessionArgs struct {
	SessionID string `json:"session_id"`
}

type answerArgs struct {
	SessionID  string `json:"session_id"`
	QuestionID string `json:"question_id"`
	Option     *int   `json:"option"`
}

var startSessionTool = mcp.NewTool("start_session",
	mcp.WithDescription("Create a navigator session, or resume it, and show the start question."),
	mcp.WithString("session_id", mcp.Description("Session to resume (a new id is generated when omitted)")),
	mcp.WithOutputSchema[View](),
)

var renderStateTool = mcp.NewTool("render_state",
	mcp.WithDescription("Show the steps of a session without changing it."),
	mcp.WithString("session_id", mcp.Required(), mcp.Description("Session id")),
	mcp.WithOutputSchema[View](),
)

var navigateTool = mcp.NewTool("navigate",
	mcp.WithDescription("Answer the current question of a session with the index of one of its options."),
	mcp.WithString("session_id", mcp.Required(), mcp.Description("Session id")),
	mcp.WithString("question_id", mcp.Required(), mcp.Description("The question being answered; must be the current one")),
	mcp.WithNumber("option", mcp.Required(), mcp.Description("Zero-based option index")),
	mcp.WithOutputSchema[View](),
)

var restartSessionTool = mcp.NewTool("restart_session",
	mcp.WithDescription("Clear the answers of a session and show the start question again."),
	mcp.WithString("session_id", mcp.Required(), mcp.Description("Session id")),
	mcp.WithOutputSchema[View](),
)

var getGraphTool = mcp.NewTool("get_graph",
	mcp.WithDescription("Get the full question and result graph for introspection."),
)

var getMermaidTool = mcp.NewTool("get_mermaid",
	mcp.WithDescription("Get the graph as a Mermaid flowchart, highlighting a session's path when session_id is given."),
	mcp.WithString("session_id", mcp.Description("Session whose path is highlighted (optional)")),
)

// Server wraps the navigator and exposes it as an MCP server.
type Server struct {
	nav       Navigator
	sessions  *session.Manager
	logger    *slog.Logger
	mcpServer *server.MCPServer
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger. Under stdio it must not write to stdout.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// NewServer creates an MCP server over the navigator and session manager.
func NewServer(nav Navigator, sessions *session.Manager, version string, opts ...Option) *Server {
	s := &Server{
		nav:      nav,
		sessions: sessions,
		logger:   logging.NewNop(),
		mcpServer: server.NewMCPServer("navi-mcp", version,
			server.WithToolCapabilities(false),
			server.WithResourceCapabilities(false, false),
		),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registerTools()
	s.registerResources()
	return s
}

// ServeStdio serves on stdin/stdout until the client disconnects.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// SSEHandler serves the SSE transport on /sse and /message.
// baseURL is the externally visible address clients post messages to.
func (s *Server) SSEHandler(baseURL string) http.Handler {
	sse := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "Authorization", "X-Requested-With"},
	}))
	r.Handle("/sse", sse.SSEHandler())
	r.Handle("/message", sse.MessageHandler())
	return r
}

func (s *Server) registerTools() {
	s.mcpServer.AddTool(startSessionTool, mcp.NewStructuredToolHandler(s.handleStartSession))
	s.mcpServer.AddTool(renderStateTool, mcp.NewStructuredToolHandler(s.handleRenderState))
	s.mcpServer.AddTool(navigateTool, mcp.NewStructuredToolHandler(s.handleNavigate))
	s.mcpServer.AddTool(restartSessionTool, mcp.NewStructuredToolHandler(s.handleRestart))
	s.mcpServer.AddTool(getGraphTool, s.handleGetGraph)
	s.mcpServer.AddTool(getMermaidTool, s.handleGetMermaid)
}

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource(GraphURI, "Navigator graph",
		mcp.WithResourceDescription("Questions, options and results of the survival navigator"),
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		data, err := s.graphJSON(ctx)
		if err != nil {
			return nil, err
		}
		return []mcp.ResourceContents{
			mcp.TextResourceContents{URI: GraphURI, MIMEType: "application/json", Text: data},
		}, nil
	})
}

func (s *Server) handleStartSession(ctx context.Context, _ mcp.CallToolRequest, args sessionArgs) (View, error) {
	id := args.SessionID
	if id == "" {
		id = uuid.NewString()
	}
	if _, err := s.sessions.LoadOrCreate(ctx, id); err != nil {
		return View{}, err
	}
	return s.apply(ctx, id, func(cur *domain.Session) (*domain.Session, error) {
		if cur.Started() {
			return nil, nil
		}
		next, _, err := s.nav.Start(ctx, cur)
		return next, err
	})
}

func (s *Server) handleRenderState(ctx context.Context, _ mcp.CallToolRequest, args sessionArgs) (View, error) {
	if args.SessionID == "" {
		return View{}, errors.New("session_id is required")
	}
	sess, err := s.sessions.Load(ctx, args.SessionID)
	if err != nil {
		return View{}, err
	}
	return s.view(ctx, sess)
}

func (s *Server) handleNavigate(ctx context.Context, _ mcp.CallToolRequest, args answerArgs) (View, error) {
	if args.SessionID == "" || args.QuestionID == "" || args.Option == nil {
		return View{}, errors.New("session_id, question_id and option are required")
	}
	return s.apply(ctx, args.SessionID, func(cur *domain.Session) (*domain.Session, error) {
		next, _, err := s.nav.Answer(ctx, cur, args.QuestionID, *args.Option)
		return next, err
	})
}

func (s *Server) handleRestart(ctx context.Context, _ mcp.CallToolRequest, args sessionArgs) (View, error) {
	if args.SessionID == "" {
		return View{}, errors.New("session_id is required")
	}
	return s.apply(ctx, args.SessionID, func(cur *domain.Session) (*domain.Session, error) {
		if !cur.Started() {
			next, _, err := s.nav.Start(ctx, domain.NewSession(cur.ID))
			return next, err
		}
		next, _, err := s.nav.Restart(ctx, cur)
		return next, err
	})
}

func (s *Server) handleGetGraph(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	data, err := s.graphJSON(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(data), nil
}

func (s *Server) handleGetMermaid(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	g, err := s.nav.Graph(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var overlay *graph.GraphOverlay
	if id := request.GetString("session_id", ""); id != "" {
		sess, err := s.sessions.Load(ctx, id)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		overlay = graph.OverlayFor(sess)
	}
	return mcp.NewToolResultText(graph.GenerateMermaid(g, s.nav.StartID(), overlay)), nil
}

// apply runs a transition under the session lock and returns the resulting view.
// A failed graph load still persists the retry indicator before the error is reported.
func (s *Server) apply(ctx context.Context, id string, fn func(*domain.Session) (*domain.Session, error)) (View, error) {
	sess, err := s.sessions.Update(ctx, id, fn)
	if err != nil {
		s.logger.Warn("mcp tool failed", "session_id", id, "err", err)
		return View{}, err
	}
	return s.view(ctx, sess)
}

func (s *Server) view(ctx context.Context, sess *domain.Session) (View, error) {
	steps, err := s.nav.Timeline(ctx, sess)
	if err != nil {
		return View{}, err
	}
	if steps == nil {
		steps = []domain.Step{}
	}
	return View{Session: sess, Steps: steps, Terminal: sess.Terminated()}, nil
}

func (s *Server) graphJSON(ctx context.Context) (string, error) {
	g, err := s.nav.Graph(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to load graph: %w", err)
	}
	data, err := json.Marshal(g)
	if err != nil {
		return "", fmt.Errorf("failed to encode graph: %w", err)
	}
	return string(data), nil
}
