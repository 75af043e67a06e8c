package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	mcpserver "github.com/ziadkadry99/neuromind/internal/mcp"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server for AI agent integration",
	Long: `Starts a Model Context Protocol (MCP) server on stdio, exposing diagram
generation, mindmap repair and complexity analysis as tools.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		// stdout carries the protocol, so logs go to stderr.
		logger := newLogger(cfg)
		p, _, err := newPipeline(cfg, logger, nil)
		if err != nil {
			return err
		}

		mcpserver.Version = Version
		fmt.Fprintf(os.Stderr, "neuromind MCP server started on stdio (provider=%s, model=%s)\n", cfg.Provider, cfg.Model)

		srv := mcpserver.NewServer(p, cfg.RepairPolicy())
		return srv.Serve()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
