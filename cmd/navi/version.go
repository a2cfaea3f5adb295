package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/meiyaku-knights/navi"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of navi",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "navi version %s\n", strings.TrimSpace(navi.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
