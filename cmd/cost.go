package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/neuromind/internal/config"
	"github.com/ziadkadry99/neuromind/internal/fetch"
	"github.com/ziadkadry99/neuromind/internal/generator"
	"github.com/ziadkadry99/neuromind/internal/mermaid"
)

var costCmd = &cobra.Command{
	Use:   "cost <url>",
	Short: "Estimate API costs for mapping a page",
	Long: `Fetches and extracts the page, sizes the summary and diagram prompts, and
prints the worst-case API cost without calling the model.`,
	Args: cobra.ExactArgs(1),
	RunE: runCost,
}

func init() {
	costCmd.Flags().StringP("type", "t", string(mermaid.KindMindmap), "diagram type to estimate")
	rootCmd.AddCommand(costCmd)
}

func runCost(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	typeFlag, _ := cmd.Flags().GetString("type")
	kind, err := mermaid.ParseKind(typeFlag)
	if err != nil {
		return err
	}

	target := fetch.NormalizeURL(args[0])
	if target == "" {
		return errors.New("please enter a URL")
	}
	page, err := newFetcher(cfg).Fetch(ctx, target)
	if err != nil {
		return err
	}
	content, err := newExtractor(cfg).Extract(page)
	if err != nil {
		return err
	}
	if content.Text == "" {
		return fmt.Errorf("no readable text found at %s", target)
	}

	estimate, err := generator.EstimateRun(cfg.Model, kind, content.Text)
	if err != nil {
		return err
	}

	fmt.Println("Cost Estimate")
	fmt.Println("=============")
	fmt.Printf("  URL:                 %s\n", target)
	if content.Title != "" {
		fmt.Printf("  Title:               %s\n", content.Title)
	}
	fmt.Printf("  Extracted chars:     %d\n", len(content.Text))
	fmt.Printf("  Input tokens:        %d\n", estimate.InputTokens)
	fmt.Printf("  Max output tokens:   %d\n", estimate.MaxOutputTokens)
	fmt.Printf("  Max cost:            $%.4f\n", estimate.MaxCostUSD)
	fmt.Println()

	fmt.Println("  Tier Comparison:")
	fmt.Println("  ────────────────────────────────────────")
	for _, tier := range []config.QualityTier{config.QualityLite, config.QualityNormal, config.QualityMax} {
		preset := config.GetPreset(cfg.Provider, tier)
		tierEstimate, err := generator.EstimateRun(preset.Model, kind, content.Text)
		if err != nil {
			continue
		}
		marker := " "
		if tier == cfg.Quality {
			marker = "*"
		}
		fmt.Printf("  %s %-8s  ~$%.4f  (model: %s)\n", marker, tier, tierEstimate.MaxCostUSD, preset.Model)
	}
	fmt.Println()
	fmt.Println("  * = current configuration")
	fmt.Println("  A second diagram type for the same page only repeats the diagram call.")
	fmt.Println()
	fmt.Printf("  Provider: %s\n", cfg.Provider)
	fmt.Printf("  Model:    %s\n", cfg.Model)
	fmt.Printf("  Quality:  %s\n", cfg.Quality)

	return nil
}
