package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/ziadkadry99/neuromind/internal/fetch"
	"github.com/ziadkadry99/neuromind/internal/mermaid"
	"github.com/ziadkadry99/neuromind/internal/pipeline"
	"github.com/ziadkadry99/neuromind/internal/progress"
	"github.com/ziadkadry99/neuromind/internal/session"
)

var generateCmd = &cobra.Command{
	Use:   "generate [url]",
	Short: "Generate a diagram viewer for a web page",
	Long: `Fetches the page, summarizes it, asks the model for a diagram of the
requested type, repairs and measures it, and writes a standalone HTML viewer.
Without a URL argument you are prompted for one.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().StringP("type", "t", string(mermaid.KindMindmap), "diagram type: mindmap, flowchart, timeline or network")
	generateCmd.Flags().StringP("out", "o", "", "viewer output path (default neuromind-<type>.html)")
	generateCmd.Flags().Bool("code", false, "print the diagram code to stdout")
	generateCmd.Flags().Bool("no-summary", false, "do not print the summary")
	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	typeFlag, _ := cmd.Flags().GetString("type")
	kind, err := mermaid.ParseKind(typeFlag)
	if err != nil {
		return err
	}
	out, _ := cmd.Flags().GetString("out")
	if out == "" {
		out = fmt.Sprintf("neuromind-%s.html", kind)
	}
	printCode, _ := cmd.Flags().GetBool("code")
	noSummary, _ := cmd.Flags().GetBool("no-summary")

	var rawURL string
	if len(args) == 1 {
		rawURL = args[0]
	} else if rawURL, err = promptURL(); err != nil {
		return err
	}

	p, _, err := newPipeline(cfg, newLogger(cfg), nil)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reporter := progress.NewReporter(os.Stderr)
	res, err := p.Run(ctx, session.New(), pipeline.Request{URL: rawURL, Kind: kind}, reporter.Observe)
	reporter.Finish()
	if err != nil {
		return err
	}

	if err := os.WriteFile(out, []byte(res.HTML), 0o644); err != nil {
		return fmt.Errorf("writing viewer: %w", err)
	}

	if res.SummaryError != nil {
		warnColor.Fprintf(os.Stderr, "Warning: %v\n", res.SummaryError)
	} else if !noSummary {
		fmt.Printf("%s\n\n", strings.TrimSpace(res.Summary))
	}
	if res.Repair != nil && res.Repair.UsedFallback {
		warnColor.Fprintln(os.Stderr, "Warning: the model's mindmap was unusable; a generic outline was drawn instead")
	}
	if printCode {
		fmt.Println(res.Diagram)
	}

	c := res.Complexity
	successColor.Fprintf(os.Stderr, "%s %s written to %s\n", kind.Icon(), kind.Title(), out)
	fmt.Fprintf(os.Stderr, "  Complexity %d/100, %d nodes, recommended height %dpx\n", c.Score, c.NodeCount, c.RecommendedHeight)
	fmt.Fprintf(os.Stderr, "  %d model calls, %d input / %d output tokens, ~$%.4f\n",
		res.Usage.Calls, res.Usage.InputTokens, res.Usage.OutputTokens, res.Usage.CostUSD)
	return nil
}

// promptURL asks for a URL and shows what will actually be fetched.
func promptURL() (string, error) {
	prompt := promptui.Prompt{
		Label: "Article URL",
		Validate: func(s string) error {
			if fetch.NormalizeURL(s) == "" {
				return errors.New("please enter a URL")
			}
			return nil
		},
	}
	raw, err := prompt.Run()
	if err != nil {
		return "", fmt.Errorf("url prompt: %w", err)
	}
	hintColor.Fprintf(os.Stderr, "Will fetch: %s\n", fetch.NormalizeURL(raw))
	return raw, nil
}
