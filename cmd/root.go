package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ziadkadry99/neuromind/internal/apperr"
	"github.com/ziadkadry99/neuromind/internal/config"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "neuromind",
	Short: "Turn web articles into visual diagrams for neurodiverse learners",
	Long: `NeuroMind Mapper fetches a web page, summarizes it with a language model
and draws its content as a Mermaid mind map, flowchart, timeline or concept
network. Diagrams are repaired, measured for complexity and rendered in an
interactive viewer. Run it as a CLI, a web app or an MCP server.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if _, err := config.LoadEnv(config.DefaultEnvFile); err != nil {
			return fmt.Errorf("loading %s: %w", config.DefaultEnvFile, err)
		}
		return nil
	},
}

func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		printError(err)
	}
	return err
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", config.DefaultPath, "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

var (
	errorColor   = color.New(color.FgRed, color.Bold)
	warnColor    = color.New(color.FgYellow)
	successColor = color.New(color.FgGreen, color.Bold)
	hintColor    = color.New(color.FgCyan)
)

// printError writes err and any remediation hints to stderr.
func printError(err error) {
	errorColor.Fprintf(os.Stderr, "Error: %v\n", err)
	var ae *apperr.Error
	if errors.As(err, &ae) {
		for _, h := range ae.Hints() {
			hintColor.Fprintf(os.Stderr, "  • %s\n", h)
		}
	}
}
