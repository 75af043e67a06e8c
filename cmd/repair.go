package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/neuromind/internal/config"
)

var repairCmd = &cobra.Command{
	Use:   "repair [file]",
	Short: "Repair model-written mindmap text",
	Long: `Reads Mermaid mindmap text from a file or stdin, normalizes it to a single
root with keyword-selected branches, and prints the result. Unusable input is
replaced by the fallback outline.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		raw, err := readInput(cmd, args)
		if err != nil {
			return err
		}

		res := cfg.RepairPolicy().Repair(raw)
		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(map[string]any{
				"code":          res.Code,
				"root":          res.Root,
				"branches":      res.Branches,
				"nested_items":  res.NestedItems,
				"dropped":       res.Dropped,
				"used_fallback": res.UsedFallback,
			})
		}
		if res.UsedFallback {
			warnColor.Fprintln(cmd.ErrOrStderr(), "Warning: too few usable lines; printing the fallback mindmap")
		}
		fmt.Fprintln(cmd.OutOrStdout(), res.Code)
		return nil
	},
}

func init() {
	repairCmd.Flags().Bool("json", false, "print the repair report as JSON")
	rootCmd.AddCommand(repairCmd)
}

// readInput returns the contents of args[0], or stdin when no file is
// given or the file is "-".
func readInput(cmd *cobra.Command, args []string) (string, error) {
	if len(args) == 0 || args[0] == "-" {
		b, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("reading stdin: %w", err)
		}
		return string(b), nil
	}
	b, err := os.ReadFile(args[0])
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", args[0], err)
	}
	return string(b), nil
}
