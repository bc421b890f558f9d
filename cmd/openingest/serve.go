package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/dgallion1/openingest/internal/api"
	"github.com/dgallion1/openingest/internal/config"
	"github.com/dgallion1/openingest/internal/ingest"
	"github.com/dgallion1/openingest/internal/render"
)

var flagAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP ingestion API",
	Long: `Serve exposes synchronous document ingestion over HTTP: upload a file
to POST /api/ingest and receive the converted content and metadata in
the response. Set OPENINGEST_API_KEY to require bearer authentication.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagAddr, "addr", "", "listen address (default from config)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	if flagAddr != "" {
		cfg.Addr = flagAddr
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	log, cleanup := config.SetupLogger(cfg.LogFile, config.ParseLogLevel(cfg.LogLevel))
	defer cleanup()

	format, err := render.ParseFormat(cfg.DefaultFormat)
	if err != nil {
		return err
	}
	ing, err := ingest.New(ingest.Config{
		Format:               format,
		ChunkSize:            cfg.DefaultChunkSize,
		ExtractTables:        cfg.ExtractTables,
		ExtractImages:        cfg.ExtractImages,
		PDFFallbackPdftotext: cfg.PDFFallbackPdftotext,
	}, log)
	if err != nil {
		return err
	}

	srv := api.NewServer(ing, log, cfg)

	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown.
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		httpServer.Shutdown(shutdownCtx)
	}()

	log.Info("starting openingest", "addr", cfg.Addr)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}
