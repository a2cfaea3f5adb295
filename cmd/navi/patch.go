package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/meiyaku-knights/navi/internal/patcher"
)

var patchCmd = &cobra.Command{
	Use:   "patch <file>",
	Short: "Replace one block of text in a file",
	Long: `Replaces the first occurrence of the --old text with the --new text. When no exact
match exists the file is retried with Windows line endings normalized.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		oldText, err := textFlag(cmd, "old")
		if err != nil {
			return err
		}
		newText, err := textFlag(cmd, "new")
		if err != nil {
			return err
		}

		status, err := patcher.Patch(args[0], oldText, newText)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		switch status {
		case patcher.Replaced:
			fmt.Fprintf(out, "✅ %s updated successfully!\n", args[0])
		case patcher.ReplacedNormalized:
			fmt.Fprintf(out, "❌ Exact text not found. Trying with normalized line endings...\n")
			fmt.Fprintf(out, "✅ %s updated (normalized line endings)!\n", args[0])
		default:
			fmt.Fprintf(out, "❌ Text not found in %s. Check the file manually.\n", args[0])
			return fmt.Errorf("patch not applied")
		}
		return nil
	},
}

// textFlag reads --<name>, or the file named by --<name>-file.
func textFlag(cmd *cobra.Command, name string) (string, error) {
	if path, _ := cmd.Flags().GetString(name + "-file"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("failed to read --%s-file: %w", name, err)
		}
		return string(data), nil
	}
	if !cmd.Flags().Changed(name) {
		return "", fmt.Errorf("--%s or --%s-file is required", name, name)
	}
	v, _ := cmd.Flags().GetString(name)
	return v, nil
}

func init() {
	rootCmd.AddCommand(patchCmd)
	patchCmd.Flags().String("old", "", "Text to replace")
	patchCmd.Flags().String("new", "", "Replacement text")
	patchCmd.Flags().String("old-file", "", "Read the text to replace from a file")
	patchCmd.Flags().String("new-file", "", "Read the replacement from a file")
}
