package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/meiyaku-knights/navi/internal/cli"
	"github.com/meiyaku-knights/navi/internal/config"
	"github.com/meiyaku-knights/navi/pkg/adapters/file"
	"github.com/meiyaku-knights/navi/pkg/youtube"
)

var videosCmd = &cobra.Command{
	Use:   "videos",
	Short: "Maintain the video carousel dataset",
}

var videosTransformCmd = &cobra.Command{
	Use:   "transform",
	Short: "Normalize a stored playlistItems response into the carousel dataset",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		in, out := ioPaths(cmd, cfg)

		data, err := os.ReadFile(in)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", in, err)
		}
		payload, err := youtube.ParseRaw(data)
		if err != nil {
			return err
		}
		videos, err := youtube.Transform(payload)
		if err != nil {
			return err
		}
		if err := file.WriteVideos(out, videos); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✅ %d videos written to %s\n", len(videos), out)
		return nil
	},
}

var videosFetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Download the latest uploads from the YouTube Data API",
	Long: `Resolves the channel's uploads playlist, stores the raw response and writes the
normalized dataset without private or deleted videos. Requires YOUTUBE_API_KEY.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if cfg.YouTube.APIKey == "" {
			return fmt.Errorf("%s is not set", config.APIKeyEnvVar)
		}
		raw, out := ioPaths(cmd, cfg)
		max, _ := cmd.Flags().GetInt64("max")
		channel, _ := cmd.Flags().GetString("channel")
		if channel == "" {
			channel = cfg.YouTube.Handle
		}

		debug, _ := cmd.Flags().GetBool("debug")
		logger, err := cli.NewLogger(cfg, debug, false)
		if err != nil {
			return err
		}
		client, err := youtube.NewClient(cmd.Context(), cfg.YouTube.APIKey, nil, youtube.WithLogger(logger))
		if err != nil {
			return err
		}

		payload, err := client.Raw(cmd.Context(), channel, max)
		if err != nil {
			return err
		}
		data, err := json.MarshalIndent(payload, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal raw payload: %w", err)
		}
		if err := os.WriteFile(raw, data, 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", raw, err)
		}

		videos, err := youtube.Transform(payload)
		if err != nil {
			return err
		}
		kept := youtube.DropUnavailable(videos)
		if err := file.WriteVideos(out, kept); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✅ %d videos written to %s (%d unavailable skipped)\n", len(kept), out, len(videos)-len(kept))
		return nil
	},
}

var videosResolveCmd = &cobra.Command{
	Use:   "resolve",
	Short: "Run the carousel resolution chain and print the outcome",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp(cmd, cli.AppOptions{})
		if err != nil {
			return err
		}
		defer app.Close()
		return writeJSON(cmd.OutOrStdout(), app.Videos.Resolve(cmd.Context()))
	},
}

// ioPaths returns the raw and normalized dataset paths, honoring --in/--out.
func ioPaths(cmd *cobra.Command, cfg *config.Config) (string, string) {
	in, out := cfg.Data.VideosRaw, cfg.Data.Videos
	if v, _ := cmd.Flags().GetString("in"); v != "" {
		in = v
	}
	if v, _ := cmd.Flags().GetString("out"); v != "" {
		out = v
	}
	return in, out
}

func init() {
	rootCmd.AddCommand(videosCmd)
	videosCmd.AddCommand(videosTransformCmd, videosFetchCmd, videosResolveCmd)

	videosTransformCmd.Flags().String("in", "", "Raw payload (default data.videos_raw)")
	videosTransformCmd.Flags().String("out", "", "Normalized dataset (default data.videos)")

	videosFetchCmd.Flags().String("in", "", "Where to store the raw payload (default data.videos_raw)")
	videosFetchCmd.Flags().String("out", "", "Normalized dataset (default data.videos)")
	videosFetchCmd.Flags().Int64("max", 10, "Number of uploads to request")
	videosFetchCmd.Flags().String("channel", "", "Channel @handle or ID (default youtube.handle)")
}
