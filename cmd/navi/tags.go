package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/meiyaku-knights/navi/pkg/adapters/file"
	"github.com/meiyaku-knights/navi/pkg/catalog"
)

var tagsCmd = &cobra.Command{
	Use:   "tags",
	Short: "Report tag frequencies of the judgment dataset",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		min, _ := cmd.Flags().GetInt("min")
		asJSON, _ := cmd.Flags().GetBool("json")

		items, err := file.ReadJudgments(cfg.Data.Judgments)
		if err != nil {
			return err
		}
		freq := catalog.CountTags(items)
		rows := freq.AtLeast(min)

		out := cmd.OutOrStdout()
		if asJSON {
			return writeJSON(out, rows)
		}
		fmt.Fprintf(out, "%d judgments, %d distinct tags, %d with at least %d uses\n\n", len(items), len(freq.Sorted), len(rows), min)
		for _, tc := range rows {
			fmt.Fprintf(out, "%5d  %s\n", tc.Count, tc.Tag)
		}
		return nil
	},
}

var tagsFiltersCmd = &cobra.Command{
	Use:   "filters",
	Short: "Print the filter groups built from frequent tags",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		min := cfg.MinTagCount
		if cmd.Flags().Changed("min") {
			min, _ = cmd.Flags().GetInt("min")
		}
		asJSON, _ := cmd.Flags().GetBool("json")

		items, err := file.ReadJudgments(cfg.Data.Judgments)
		if err != nil {
			return err
		}
		tax, err := catalog.LoadTaxonomy(cfg.Data.Taxonomy)
		if err != nil {
			return err
		}
		groups := catalog.BuildFilters(catalog.CountTags(items), tax, min)

		out := cmd.OutOrStdout()
		if asJSON {
			return writeJSON(out, groups)
		}
		for _, g := range groups {
			fmt.Fprintf(out, "%s (%d)\n", g.Name, len(g.Tags))
			for _, tag := range g.Tags {
				fmt.Fprintf(out, "  - %s\n", tag)
			}
		}
		return nil
	},
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func init() {
	rootCmd.AddCommand(tagsCmd)
	tagsCmd.AddCommand(tagsFiltersCmd)
	tagsCmd.Flags().Int("min", 1, "Only report tags used at least this often")
	tagsCmd.PersistentFlags().Bool("json", false, "Print JSON")
	tagsFiltersCmd.Flags().Int("min", catalog.MinTagCount, "Frequency threshold (overrides min_tag_count)")
}
