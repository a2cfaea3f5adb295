// Package http exposes the navigator, the video carousel and the judgment
// browser over a JSON API.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/google/uuid"

	"github.com/meiyaku-knights/navi/internal/logging"
	"github.com/meiyaku-knights/navi/internal/presentation/graph"
	"github.com/meiyaku-knights/navi/pkg/catalog"
	"github.com/meiyaku-knights/navi/pkg/domain"
	"github.com/meiyaku-knights/navi/pkg/observability"
	"github.com/meiyaku-knights/navi/pkg/session"
	"github.com/meiyaku-knights/navi/pkg/videos"
)

// Navigator is the part of navi.Navigator the server drives.
type Navigator interface {
	Start(ctx context.Context, s *domain.Session) (*domain.Session, domain.Step, error)
	Answer(ctx context.Context, s *domain.Session, questionID string, optionIndex int) (*domain.Session, domain.Step, error)
	Restart(ctx context.Context, s *domain.Session) (*domain.Session, domain.Step, error)
	Timeline(ctx context.Context, s *domain.Session) ([]domain.Step, error)
	Graph(ctx context.Context) (*domain.Graph, error)
	StartID() string
}

// JudgmentSource provides the judgment dataset.
type JudgmentSource interface {
	Judgments(ctx context.Context) ([]domain.Judgment, error)
}

// VideoResolver resolves the video carousel. Resolve never fails.
type VideoResolver interface {
	Resolve(ctx context.Context) videos.Resolution
}

// Server holds the dependencies of the HTTP handlers.
type Server struct {
	nav       Navigator
	sessions  *session.Manager
	judgments JudgmentSource
	videos    VideoResolver
	metrics   *observability.Metrics
	taxonomy  catalog.Taxonomy
	minTags   int
	origins   []string
	timeout   time.Duration
	version   string
	logger    *slog.Logger
}

// Option configures the Server.
type Option func(*Server)

// WithJudgments enables the /judgments routes.
func WithJudgments(src JudgmentSource) Option {
	return func(s *Server) { s.judgments = src }
}

// WithVideos enables the /videos route.
func WithVideos(r VideoResolver) Option {
	return func(s *Server) { s.videos = r }
}

// WithMetrics mounts the Prometheus handler on /metrics.
func WithMetrics(m *observability.Metrics) Option {
	return func(s *Server) { s.metrics = m }
}

// WithTaxonomy overrides the default tag taxonomy.
func WithTaxonomy(t catalog.Taxonomy) Option {
	return func(s *Server) { s.taxonomy = t }
}

// WithMinTagCount sets the frequency threshold of /judgments/filters.
func WithMinTagCount(n int) Option {
	return func(s *Server) {
		if n > 0 {
			s.minTags = n
		}
	}
}

// WithAllowedOrigins configures CORS. Defaults to "*".
func WithAllowedOrigins(origins ...string) Option {
	return func(s *Server) {
		if len(origins) > 0 {
			s.origins = origins
		}
	}
}

// WithRequestTimeout bounds each request.
func WithRequestTimeout(d time.Duration) Option {
	return func(s *Server) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// WithVersion is reported by /info.
func WithVersion(v string) Option {
	return func(s *Server) { s.version = v }
}

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewServer builds a Server. nav and sessions are required.
func NewServer(nav Navigator, sessions *session.Manager, opts ...Option) *Server {
	s := &Server{
		nav:      nav,
		sessions: sessions,
		taxonomy: catalog.DefaultTaxonomy(),
		minTags:  catalog.MinTagCount,
		origins:  []string{"*"},
		timeout:  60 * time.Second,
		version:  "dev",
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewHandler is a shorthand for NewServer(...).Handler().
func NewHandler(nav Navigator, sessions *session.Manager, opts ...Option) http.Handler {
	return NewServer(nav, sessions, opts...).Handler()
}

// Handler builds the router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(s.timeout))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.origins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/health", s.health)
	r.Get("/info", s.info)
	if s.metrics != nil {
		r.Handle("/metrics", s.metrics.Handler())
	}

	r.Get("/graph", s.getGraph)
	r.Get("/graph/mermaid", s.getMermaid)

	r.Route("/sessions", func(r chi.Router) {
		r.Get("/", s.listSessions)
		r.Post("/", s.createSession)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.getSession)
			r.Delete("/", s.deleteSession)
			r.Post("/start", s.startSession)
			r.Post("/answers", s.answer)
			r.Post("/restart", s.restart)
			r.Get("/mermaid", s.getSessionMermaid)
		})
	})

	if s.videos != nil {
		r.Get("/videos", s.getVideos)
	}

	if s.judgments != nil {
		r.Route("/judgments", func(r chi.Router) {
			r.Get("/latest", s.latestJudgments)
			r.Get("/tags", s.tagFrequency)
			r.Get("/filters", s.filters)
			r.Get("/search", s.searchJudgments)
		})
	}

	return r
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) info(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"app":        "navi",
		"version":    s.version,
		"start_node": s.nav.StartID(),
	})
}

func (s *Server) getGraph(w http.ResponseWriter, r *http.Request) {
	g, err := s.nav.Graph(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, g)
}

func (s *Server) getMermaid(w http.ResponseWriter, r *http.Request) {
	s.writeMermaid(w, r, nil)
}

func (s *Server) getSessionMermaid(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessions.Load(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeMermaid(w, r, graph.OverlayFor(sess))
}

func (s *Server) writeMermaid(w http.ResponseWriter, r *http.Request, overlay *graph.GraphOverlay) {
	g, err := s.nav.Graph(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(graph.GenerateMermaid(g, s.nav.StartID(), overlay)))
}

// SessionView is the response body of the session routes.
type SessionView struct {
	Session *domain.Session `json:"session"`
	Steps   []domain.Step   `json:"steps"`
}

type createRequest struct {
	ID string `json:"id"`
}

type answerRequest struct {
	QuestionID string `json:"question_id"`
	Option     *int   `json:"option"`
}

func (s *Server) listSessions(w http.ResponseWriter, r *http.Request) {
	ids, err := s.sessions.List(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	if ids == nil {
		ids = []string{}
	}
	writeJSON(w, http.StatusOK, ids)
}

// createSession creates (or resumes) a session and starts it.
func (s *Server) createSession(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
			writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid request body"})
			return
		}
	}
	if req.ID == "" {
		req.ID = uuid.NewString()
	}

	if _, err := s.sessions.LoadOrCreate(r.Context(), req.ID); err != nil {
		s.writeError(w, err)
		return
	}
	s.apply(w, r, req.ID, http.StatusCreated, func(ctx context.Context, cur *domain.Session) (*domain.Session, error) {
		if cur.Phase == domain.PhaseAtQuestion || cur.Phase == domain.PhaseAtResult {
			return nil, nil
		}
		next, _, err := s.nav.Start(ctx, cur)
		return next, err
	})
}

func (s *Server) startSession(w http.ResponseWriter, r *http.Request) {
	s.apply(w, r, chi.URLParam(r, "id"), http.StatusOK, func(ctx context.Context, cur *domain.Session) (*domain.Session, error) {
		next, _, err := s.nav.Start(ctx, cur)
		return next, err
	})
}

func (s *Server) getSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessions.Load(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeView(w, r, http.StatusOK, sess)
}

func (s *Server) deleteSession(w http.ResponseWriter, r *http.Request) {
	if err := s.sessions.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) answer(w http.ResponseWriter, r *http.Request) {
	var req answerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid request body"})
		return
	}
	if req.QuestionID == "" || req.Option == nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "question_id and option are required"})
		return
	}
	s.apply(w, r, chi.URLParam(r, "id"), http.StatusOK, func(ctx context.Context, cur *domain.Session) (*domain.Session, error) {
		next, _, err := s.nav.Answer(ctx, cur, req.QuestionID, *req.Option)
		return next, err
	})
}

func (s *Server) restart(w http.ResponseWriter, r *http.Request) {
	s.apply(w, r, chi.URLParam(r, "id"), http.StatusOK, func(ctx context.Context, cur *domain.Session) (*domain.Session, error) {
		next, _, err := s.nav.Restart(ctx, cur)
		return next, err
	})
}

// apply runs a transition under the session lock and writes the resulting timeline.
func (s *Server) apply(w http.ResponseWriter, r *http.Request, id string, status int,
	fn func(context.Context, *domain.Session) (*domain.Session, error)) {
	ctx := r.Context()
	sess, err := s.sessions.Update(ctx, id, func(cur *domain.Session) (*domain.Session, error) {
		return fn(ctx, cur)
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeView(w, r, status, sess)
}

func (s *Server) writeView(w http.ResponseWriter, r *http.Request, status int, sess *domain.Session) {
	steps, err := s.nav.Timeline(r.Context(), sess)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if steps == nil {
		steps = []domain.Step{}
	}
	writeJSON(w, status, SessionView{Session: sess, Steps: steps})
}

func (s *Server) getVideos(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.videos.Resolve(r.Context()))
}

func (s *Server) loadJudgments(w http.ResponseWriter, r *http.Request) ([]domain.Judgment, bool) {
	items, err := s.judgments.Judgments(r.Context())
	if err != nil {
		s.logger.Error("failed to load judgments", "err", err)
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "judgments unavailable"})
		return nil, false
	}
	return items, true
}

func (s *Server) latestJudgments(w http.ResponseWriter, r *http.Request) {
	n, ok := intParam(w, r, "n", catalog.LatestCount)
	if !ok {
		return
	}
	items, ok := s.loadJudgments(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, catalog.Previews(catalog.Latest(items, n), catalog.PreviewTags))
}

func (s *Server) tagFrequency(w http.ResponseWriter, r *http.Request) {
	min, ok := intParam(w, r, "min", 1)
	if !ok {
		return
	}
	items, ok := s.loadJudgments(w, r)
	if !ok {
		return
	}
	rows := catalog.CountTags(items).AtLeast(min)
	if rows == nil {
		rows = []catalog.TagCount{}
	}
	writeJSON(w, http.StatusOK, rows)
}

func (s *Server) filters(w http.ResponseWriter, r *http.Request) {
	min, ok := intParam(w, r, "min", s.minTags)
	if !ok {
		return
	}
	items, ok := s.loadJudgments(w, r)
	if !ok {
		return
	}
	groups := catalog.BuildFilters(catalog.CountTags(items), s.taxonomy, min)
	if groups == nil {
		groups = []catalog.FilterGroup{}
	}
	writeJSON(w, http.StatusOK, groups)
}

func (s *Server) searchJudgments(w http.ResponseWriter, r *http.Request) {
	q := catalog.Query{
		Tags: r.URL.Query()["tag"],
		From: r.URL.Query().Get("from"),
		To:   r.URL.Query().Get("to"),
	}
	if err := q.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: err.Error()})
		return
	}
	items, ok := s.loadJudgments(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, q.Apply(items))
}

func intParam(w http.ResponseWriter, r *http.Request, name string, def int) (int, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: name + " must be a non-negative integer"})
		return 0, false
	}
	return n, true
}

type errorBody struct {
	Error string `json:"error"`
	Retry bool   `json:"retry,omitempty"`
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrSessionNotFound):
		writeJSON(w, http.StatusNotFound, errorBody{Error: err.Error()})
	case errors.Is(err, domain.ErrInvalidOption):
		writeJSON(w, http.StatusBadRequest, errorBody{Error: err.Error()})
	case errors.Is(err, domain.ErrQuestionMismatch), errors.Is(err, domain.ErrNotStarted):
		writeJSON(w, http.StatusConflict, errorBody{Error: err.Error()})
	case errors.Is(err, domain.ErrGraphUnavailable):
		writeJSON(w, http.StatusServiceUnavailable, errorBody{Error: err.Error(), Retry: true})
	default:
		s.logger.Error("request failed", "err", err)
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "internal error"})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
