package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/meiyaku-knights/navi/internal/cli"
	"github.com/meiyaku-knights/navi/internal/validator"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the navigator graph for broken links and cycles",
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

		report := validator.Validate(g, app.Navigator.StartID(), app.Navigator.ResultPrefix())
		out := cmd.OutOrStdout()
		for _, w := range report.Warnings {
			fmt.Fprintf(out, "⚠️  %s\n", w)
		}
		if err := report.Err(); err != nil {
			return err
		}
		fmt.Fprintf(out, "✅ %d questions and %d results are valid.\n", len(g.Questions), len(g.Results))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
