package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/meiyaku-knights/navi"
	"github.com/meiyaku-knights/navi/internal/cli"
	mcpAdapter "github.com/meiyaku-knights/navi/pkg/adapters/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run the navigator as a Model Context Protocol server",
	Long: `Exposes the survival navigator to AI agents as MCP tools over the configured session store.

Supported transports:
- stdio (default): JSON-RPC on stdin/stdout. Logs go to stderr.
- sse: Server-Sent Events over HTTP on --addr.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		transport, _ := cmd.Flags().GetString("transport")
		if transport != "stdio" && transport != "sse" {
			return fmt.Errorf("unknown transport %q: must be stdio or sse", transport)
		}

		app, err := newApp(cmd, cli.AppOptions{})
		if err != nil {
			return err
		}
		defer app.Close()

		srv := mcpAdapter.NewServer(app.Navigator, app.Sessions, navi.Version, mcpAdapter.WithLogger(app.Logger))

		if transport == "stdio" {
			app.Logger.Info("starting navi MCP server", "transport", transport)
			return srv.ServeStdio()
		}

		addr, _ := cmd.Flags().GetString("addr")
		baseURL, _ := cmd.Flags().GetString("base-url")
		if baseURL == "" {
			baseURL = "http://localhost" + addr
		}
		httpSrv := &http.Server{
			Addr:              addr,
			Handler:           srv.SSEHandler(baseURL),
			ReadHeaderTimeout: 10 * time.Second,
		}

		sigCtx := cli.NewSignalContext(context.Background())
		defer sigCtx.Cancel()
		g, ctx := errgroup.WithContext(sigCtx)

		g.Go(func() error {
			app.Logger.Info("starting navi MCP server", "transport", transport, "addr", addr)
			if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})

		g.Go(func() error {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := httpSrv.Shutdown(shutdownCtx); err != nil {
				app.Logger.Warn("graceful shutdown did not complete", "timeout", shutdownTimeout, "err", err)
				return httpSrv.Close()
			}
			app.Logger.Info("navi MCP server stopped gracefully")
			return nil
		})

		return g.Wait()
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
	mcpCmd.Flags().String("transport", "stdio", "Transport protocol: stdio or sse")
	mcpCmd.Flags().String("addr", ":8081", "Listen address for the sse transport")
	mcpCmd.Flags().String("base-url", "", "Public base URL for the sse transport (defaults to http://localhost<addr>)")
}
