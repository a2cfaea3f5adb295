package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/meiyaku-knights/navi/internal/cli"
	"github.com/meiyaku-knights/navi/internal/presentation/graph"
)

var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Export the navigator graph as a Mermaid diagram",
	Long: `Outputs a Mermaid diagram (graph TD) of the questions and results. With --session the
path of a stored session is highlighted.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp(cmd, cli.AppOptions{})
		if err != nil {
			return err
		}
		defer app.Close()

		g, err := app.Navigator.Graph(cmd.Context())
		if err != nil {
			return err
		}

		var overlay *graph.GraphOverlay
		if id, _ := cmd.Flags().GetString("session"); id != "" {
			s, err := app.Sessions.Load(cmd.Context(), id)
			if err != nil {
				return fmt.Errorf("failed to load session '%s': %w", id, err)
			}
			overlay = graph.OverlayFor(s)
		}

		fmt.Fprint(cmd.OutOrStdout(), graph.GenerateMermaid(g, app.Navigator.StartID(), overlay))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
	graphCmd.Flags().StringP("session", "s", "", "Highlight the path of this session")
}
