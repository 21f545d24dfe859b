package cmd

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/open-wander/tracks/internal/db"
	"github.com/open-wander/tracks/internal/retention"
	"github.com/open-wander/tracks/internal/server"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve run history and the DNS cache over HTTP",
	Long: `Start the HTTP API. Exposes /healthz, /api/runs (processing history)
and /api/hosts (the reverse DNS cache). Basic auth is enabled when an
htpasswd file or TRACKS_AUTH_USER/TRACKS_AUTH_PASS are configured.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		return err
	}
	defer database.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Prune stale DNS cache entries in the background
	cleaner := retention.New(db.NewDNSCache(database), cfg.DNSCacheMaxDays)
	go func() {
		if err := cleaner.Run(ctx); err != nil && err != context.Canceled {
			log.Printf("retention error: %v", err)
		}
	}()

	srv := server.New(cfg, database)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
		if err := srv.Shutdown(); err != nil {
			log.Printf("shutdown error: %v", err)
		}
	}()

	return srv.Start()
}
