package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/neuromind/internal/db"
	"github.com/ziadkadry99/neuromind/internal/logging"
	"github.com/ziadkadry99/neuromind/internal/metrics"
	"github.com/ziadkadry99/neuromind/internal/server"
	"github.com/ziadkadry99/neuromind/internal/session"
	"github.com/ziadkadry99/neuromind/internal/web"
)

const sessionMaxAge = 24 * time.Hour

var serverPort int

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the web interface",
	Long: `Starts the NeuroMind Mapper web interface: the mapper page, the diagram
library, a JSON API, progress streaming over WebSocket and Prometheus metrics.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("port") {
			cfg.Server.Port = serverPort
		}

		logger := newLogger(cfg)
		collector := metrics.New()

		p, renderer, err := newPipeline(cfg, logger, collector)
		if err != nil {
			return err
		}

		database, err := db.OpenPath(cfg.Server.SessionDB)
		if err != nil {
			return fmt.Errorf("opening session database: %w", err)
		}
		defer database.Close()
		sessions := session.NewSQLStore(database)

		srv := server.New(server.Config{
			Port:         cfg.Server.Port,
			AllowAll:     cfg.Server.AllowAllOrigins,
			WriteTimeout: time.Duration(cfg.Server.RequestTimeoutSeconds+30) * time.Second,
		}, logger, collector)

		h, err := web.New(web.Options{
			Pipeline:       p,
			Sessions:       sessions,
			Renderer:       renderer,
			Logger:         logger,
			RequestTimeout: time.Duration(cfg.Server.RequestTimeoutSeconds) * time.Second,
			FontAwesomeURL: cfg.Render.FontAwesomeURL,
		})
		if err != nil {
			return err
		}
		h.RegisterRoutes(srv.Router())

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		go pruneSessions(ctx, sessions, logger)
		go func() {
			<-ctx.Done()
			fmt.Fprintln(os.Stderr, "\nShutting down server...")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			srv.Shutdown(shutdownCtx)
		}()

		fmt.Fprintf(os.Stderr, "neuromind server v%s starting on port %d\n", Version, cfg.Server.Port)
		fmt.Fprintf(os.Stderr, "  Provider: %s (%s)\n", cfg.Provider, cfg.Model)
		if cfg.Server.SessionDB != "" {
			fmt.Fprintf(os.Stderr, "  Sessions: %s\n", database.Path())
		} else {
			fmt.Fprintln(os.Stderr, "  Sessions: in memory")
		}

		return srv.Start()
	},
}

// pruneSessions drops idle sessions every hour until ctx is cancelled.
func pruneSessions(ctx context.Context, store *session.SQLStore, logger logging.Logger) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := store.Prune(ctx, sessionMaxAge)
			if err != nil {
				logger.WithError(err).Warn("session prune failed")
				continue
			}
			if n > 0 {
				logger.WithField("removed", n).Debug("pruned idle sessions")
			}
		}
	}
}

func init() {
	serverCmd.Flags().IntVar(&serverPort, "port", 8080, "Port to listen on (overrides server.port)")
	rootCmd.AddCommand(serverCmd)
}
