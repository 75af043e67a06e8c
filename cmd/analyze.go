package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/neuromind/internal/config"
	"github.com/ziadkadry99/neuromind/internal/render"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [file]",
	Short: "Report the complexity of Mermaid diagram text",
	Long: `Reads diagram text from a file or stdin and prints its complexity report as
JSON: kind, node and edge counts, depth, text density, score and the
recommended viewer height. With --html the viewer is written as well.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		code, err := readInput(cmd, args)
		if err != nil {
			return err
		}

		report := cfg.HeightPolicy().Analyze(code)
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			return err
		}

		htmlOut, _ := cmd.Flags().GetString("html")
		if htmlOut == "" {
			return nil
		}
		renderer, err := render.New(cfg.Render.MermaidURL, cfg.Render.FontAwesomeURL)
		if err != nil {
			return err
		}
		page, err := renderer.Viewer(code, report)
		if err != nil {
			return err
		}
		if err := os.WriteFile(htmlOut, []byte(page), 0o644); err != nil {
			return fmt.Errorf("writing viewer: %w", err)
		}
		successColor.Fprintf(cmd.ErrOrStderr(), "Viewer written to %s\n", htmlOut)
		return nil
	},
}

func init() {
	analyzeCmd.Flags().String("html", "", "also write the diagram viewer to this path")
	rootCmd.AddCommand(analyzeCmd)
}
