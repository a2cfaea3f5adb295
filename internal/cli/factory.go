package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	backend "github.com/redis/go-redis/v9"

	"github.com/meiyaku-knights/navi"
	"github.com/meiyaku-knights/navi/internal/config"
	"github.com/meiyaku-knights/navi/internal/logging"
	"github.com/meiyaku-knights/navi/pkg/adapters/file"
	"github.com/meiyaku-knights/navi/pkg/adapters/memory"
	"github.com/meiyaku-knights/navi/pkg/adapters/redis"
	"github.com/meiyaku-knights/navi/pkg/catalog"
	"github.com/meiyaku-knights/navi/pkg/domain"
	"github.com/meiyaku-knights/navi/pkg/observability"
	"github.com/meiyaku-knights/navi/pkg/persistence/middleware"
	"github.com/meiyaku-knights/navi/pkg/ports"
	"github.com/meiyaku-knights/navi/pkg/session"
	"github.com/meiyaku-knights/navi/pkg/videos"
	"github.com/meiyaku-knights/navi/pkg/youtube"
)

// App is the wired set of components shared by the commands.
type App struct {
	Config    *config.Config
	Logger    *slog.Logger
	Navigator *navi.Navigator
	Sessions  *session.Manager
	Videos    *videos.Loader
	Judgments file.Judgments
	Taxonomy  catalog.Taxonomy
	// Metrics is nil unless requested.
	Metrics *observability.Metrics

	redis *backend.Client
}

// AppOptions tune NewApp for a command.
type AppOptions struct {
	Debug    bool
	JSONLogs bool
	Metrics  bool
	// Logger overrides the logger derived from the config.
	Logger *slog.Logger
}

// NewLogger configures the application logger from the config.
// Debug forces debug level. Logs always go to stderr.
func NewLogger(cfg *config.Config, debug, jsonLogs bool) (*slog.Logger, error) {
	level, err := logging.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, err
	}
	if debug {
		level = slog.LevelDebug
	}
	if jsonLogs || cfg.Log.Format == "json" {
		return logging.NewJSON(level), nil
	}
	return logging.New(level), nil
}

// NewApp builds every component the config asks for.
func NewApp(ctx context.Context, cfg *config.Config, opts AppOptions) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	logger := opts.Logger
	if logger == nil {
		var err error
		if logger, err = NewLogger(cfg, opts.Debug, opts.JSONLogs); err != nil {
			return nil, err
		}
	}

	app := &App{
		Config:    cfg,
		Logger:    logger,
		Judgments: file.Judgments{Path: cfg.Data.Judgments},
	}

	if cfg.Store.Backend == config.BackendRedis || cfg.Cache.Backend == config.BackendRedis {
		app.redis = redis.NewClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	}

	hooks := []domain.LifecycleHooks{observability.LogHooks(logger)}
	if opts.Metrics {
		app.Metrics = observability.NewMetrics()
		hooks = append(hooks, app.Metrics.Hooks())
	}

	nav, err := navi.New(cfg.Data.Graph,
		navi.WithLogger(logger),
		navi.WithStartNode(cfg.Navigator.StartNode),
		navi.WithResultPrefix(cfg.Navigator.ResultPrefix),
		navi.WithLifecycleHooks(observability.Combine(hooks...)),
	)
	if err != nil {
		app.Close()
		return nil, err
	}
	app.Navigator = nav

	store, err := app.sessionStore()
	if err != nil {
		app.Close()
		return nil, err
	}
	app.Sessions = session.NewManager(store, app.sessionOptions()...)

	tax, err := catalog.LoadTaxonomy(cfg.Data.Taxonomy)
	if err != nil {
		app.Close()
		return nil, err
	}
	app.Taxonomy = tax

	loader, err := app.videoLoader(ctx)
	if err != nil {
		app.Close()
		return nil, err
	}
	app.Videos = loader

	return app, nil
}

func (a *App) sessionStore() (ports.SessionStore, error) {
	var store ports.SessionStore
	switch a.Config.Store.Backend {
	case config.BackendRedis:
		store = redis.NewFromClient(a.redis, redis.WithTTL(a.Config.Store.TTL))
	case config.BackendMemory:
		store = memory.NewStore()
	default:
		store = file.NewStore(a.Config.Store.Dir)
	}

	if a.Config.Store.EncryptionKey == "" {
		return store, nil
	}
	keys, err := middleware.ParseKeys(a.Config.Store.EncryptionKey, a.Config.Store.FallbackKeys...)
	if err != nil {
		return nil, err
	}
	encrypt, err := middleware.NewEncryptionMiddleware(keys)
	if err != nil {
		return nil, err
	}
	a.Logger.Debug("session encryption enabled", "fallback_keys", len(keys.FallbackKeys))
	return middleware.Chain(store, encrypt), nil
}

func (a *App) sessionOptions() []session.Option {
	opts := []session.Option{session.WithLogger(a.Logger)}
	if a.Config.Store.Backend == config.BackendRedis {
		opts = append(opts, session.WithLocker(redis.NewLocker(a.redis, "navi:")))
	}
	return opts
}

func (a *App) videoCache() ports.VideoCache {
	switch a.Config.Cache.Backend {
	case config.BackendRedis:
		return redis.NewCache(a.redis)
	case config.BackendMemory:
		return memory.NewCache()
	case config.BackendNone:
		return nil
	default:
		return file.NewCache(a.Config.Cache.Dir)
	}
}

func (a *App) videoLoader(ctx context.Context) (*videos.Loader, error) {
	cfg := a.Config
	opts := []videos.Option{
		videos.WithTTL(cfg.Cache.TTL),
		videos.WithMaxResults(cfg.YouTube.MaxResults),
		videos.WithLogger(a.Logger),
	}
	if c := a.videoCache(); c != nil {
		opts = append(opts, videos.WithCache(c))
	}
	if a.Metrics != nil {
		opts = append(opts, videos.WithObserver(func(s videos.Source) {
			a.Metrics.VideoResolved(string(s))
		}))
	}

	if cfg.YouTube.APIKey != "" {
		client, err := youtube.NewClient(ctx, cfg.YouTube.APIKey, nil, youtube.WithLogger(a.Logger))
		if err != nil {
			return nil, fmt.Errorf("failed to create youtube client: %w", err)
		}
		opts = append(opts, videos.WithRemote(client, cfg.YouTube.Handle))
	} else {
		a.Logger.Debug("no YouTube API key, remote video fetch disabled")
	}

	return videos.NewLoader(file.Videos{Path: cfg.Data.Videos}, opts...), nil
}

// Close releases the shared Redis client.
func (a *App) Close() error {
	if a.redis == nil {
		return nil
	}
	err := a.redis.Close()
	a.redis = nil
	if errors.Is(err, backend.ErrClosed) {
		return nil
	}
	return err
}
