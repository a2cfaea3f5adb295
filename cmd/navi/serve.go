package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/meiyaku-knights/navi"
	"github.com/meiyaku-knights/navi/internal/cli"
	httpAdapter "github.com/meiyaku-knights/navi/pkg/adapters/http"
)

const shutdownTimeout = 5 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Long: `Serves the navigator sessions, the video carousel and the judgment browser as a JSON
API. Prometheus metrics are exposed on /metrics.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		jsonLogs, _ := cmd.Flags().GetBool("json-logs")
		app, err := newApp(cmd, cli.AppOptions{JSONLogs: jsonLogs, Metrics: true})
		if err != nil {
			return err
		}
		defer app.Close()

		cfg := app.Config
		if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
			cfg.Server.Addr = addr
		}

		handler := httpAdapter.NewHandler(app.Navigator, app.Sessions,
			httpAdapter.WithJudgments(app.Judgments),
			httpAdapter.WithVideos(app.Videos),
			httpAdapter.WithMetrics(app.Metrics),
			httpAdapter.WithTaxonomy(app.Taxonomy),
			httpAdapter.WithMinTagCount(cfg.MinTagCount),
			httpAdapter.WithAllowedOrigins(cfg.Server.AllowedOrigins...),
			httpAdapter.WithRequestTimeout(cfg.Server.RequestTimeout),
			httpAdapter.WithVersion(navi.Version),
			httpAdapter.WithLogger(app.Logger),
		)

		srv := &http.Server{
			Addr:              cfg.Server.Addr,
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		}

		sigCtx := cli.NewSignalContext(context.Background())
		defer sigCtx.Cancel()
		g, ctx := errgroup.WithContext(sigCtx)

		g.Go(func() error {
			app.Logger.Info("starting navi server", "addr", srv.Addr, "graph", cfg.Data.Graph, "version", navi.Version)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})

		g.Go(func() error {
			<-ctx.Done()
			app.Logger.Info("shutting down", "signal", sigCtx.Signal())

			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				app.Logger.Warn("graceful shutdown did not complete", "timeout", shutdownTimeout, "err", err)
				return srv.Close()
			}
			app.Logger.Info("navi server stopped gracefully")
			return nil
		})

		return g.Wait()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("addr", "", "Listen address (overrides server.addr)")
	serveCmd.Flags().Bool("json-logs", false, "Write logs as JSON")
}
