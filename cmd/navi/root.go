package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/meiyaku-knights/navi/internal/cli"
	"github.com/meiyaku-knights/navi/internal/config"
)

var rootCmd = &cobra.Command{
	Use:   "navi",
	Short: "Divorce survival navigator and data tooling",
	Long: `navi runs the survival navigator in the terminal or over HTTP, and maintains the
datasets behind the site: judgment tags and filters, and the YouTube video carousel.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("config", config.DefaultPath, "Path to the navi config file")
	rootCmd.PersistentFlags().String("graph", "", "Override data.graph")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
}

// loadConfig reads the config file and applies the persistent flag overrides.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if g, _ := cmd.Flags().GetString("graph"); g != "" {
		cfg.Data.Graph = g
	}
	return cfg, nil
}

func newApp(cmd *cobra.Command, opts cli.AppOptions) (*cli.App, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	opts.Debug, _ = cmd.Flags().GetBool("debug")
	return cli.NewApp(cmd.Context(), cfg, opts)
}
