package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/meiyaku-knights/navi"
	"github.com/meiyaku-knights/navi/internal/cli"
	"github.com/meiyaku-knights/navi/internal/presentation/tui"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Answer the survival navigator in the terminal",
	Long: `Walks the question graph interactively. Type an option number to answer, "r" to
start over and "q" to leave. With --session the progress is stored and resumed.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		sessionID, _ := cmd.Flags().GetString("session")
		fresh, _ := cmd.Flags().GetBool("fresh")
		plain, _ := cmd.Flags().GetBool("plain")

		app, err := newApp(cmd, cli.AppOptions{})
		if err != nil {
			return err
		}
		defer app.Close()

		out := cmd.OutOrStdout()
		interactive := term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))

		render := tui.PlainRenderer
		if interactive && !plain {
			tui.PrintBanner(out, navi.Version)
			render = tui.NewRenderer()
		}

		sigCtx := cli.NewSignalContext(context.Background())
		defer sigCtx.Cancel()

		err = cli.Run(sigCtx, app.Navigator, app.Sessions, cmd.InOrStdin(), cli.RunOptions{
			SessionID: sessionID,
			Fresh:     fresh,
			Printer:   tui.NewStepPrinter(out, render),
		})
		if sig := sigCtx.Signal(); sig != nil {
			cli.PrintSystemMessage(out, "Interrupted (%s).", sig)
		}
		return err
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().StringP("session", "s", "", "Session ID to store and resume progress")
	runCmd.Flags().Bool("fresh", false, "Discard stored progress for --session")
	runCmd.Flags().Bool("plain", false, "Disable the banner and markdown rendering")
}
