package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/jfmyers9/scrobblemend/internal/config"
	"github.com/jfmyers9/scrobblemend/internal/history"
	"github.com/jfmyers9/scrobblemend/internal/server"
	"github.com/jfmyers9/scrobblemend/pkg/lastfm"
)

var (
	serveListenAddr string
	serveLogLevel   string
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server",
	Long: `Run the HTTP server that backs the scrobblemend web application.

The server will:
- Handle the Last.fm web authentication flow and keep the session in a cookie
- Proxy listening-data reads (recent tracks, profile, top lists, album lookups)
- Submit manual and batch scrobbles through the signed API
- Run bulk edits: delete matching scrobbles one by one and recreate
  corrected records with their original timestamps
- Persist edit history in a local SQLite database

Configuration is read from ~/.config/scrobblemend/config.yaml and
SCROBBLEMEND_* environment variables. The Last.fm API key and secret are
required.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveListenAddr, "listen", "", "Listen address (overrides config)")
	serveCmd.Flags().StringVar(&serveLogLevel, "log-level", "", "Log level (debug, info, warn, error; overrides config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if serveListenAddr != "" {
		cfg.ListenAddr = serveListenAddr
	}
	if serveLogLevel != "" {
		cfg.LogLevel = serveLogLevel
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger := setupLogger(cfg.LogLevel)

	logger.Info().
		Str("version", version).
		Str("listen_addr", cfg.ListenAddr).
		Msg("Starting scrobblemend")

	client, err := lastfm.NewClient(lastfm.Config{
		APIKey:     cfg.LastFM.APIKey,
		APISecret:  cfg.LastFM.APISecret,
		APIBaseURL: cfg.LastFM.APIBaseURL,
		WebBaseURL: cfg.LastFM.WebBaseURL,
	})
	if err != nil {
		return fmt.Errorf("failed to create Last.fm client: %w", err)
	}

	hist, err := history.NewStore(cfg.HistoryDB)
	if err != nil {
		return fmt.Errorf("failed to open history database: %w", err)
	}
	defer func() { _ = hist.Close() }()

	logger.Info().Str("history_db", cfg.HistoryDB).Msg("Using history database")

	srv := server.New(client, hist, server.Options{
		BaseURL:       cfg.BaseURL,
		Window:        time.Duration(cfg.EditWindowDays) * 24 * time.Hour,
		DeleteDelay:   cfg.DeleteDelay,
		SecureCookies: cfg.SecureCookies,
		Logger:        logger,
	})

	httpServer := &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      srv.Router(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 5 * time.Minute, // bulk edits pace deletions and can run long
	}

	errCh := make(chan error, 1)
	go func() {
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case sig := <-sigCh:
		logger.Info().Str("signal", sig.String()).Msg("Shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("Error during shutdown")
		return err
	}

	logger.Info().Msg("Server stopped")
	return nil
}

// setupLogger creates a logger with the specified configuration
func setupLogger(logLevel string) zerolog.Logger {
	level := zerolog.InfoLevel
	switch logLevel {
	case "debug":
		level = zerolog.DebugLevel
	case "info":
		level = zerolog.InfoLevel
	case "warn":
		level = zerolog.WarnLevel
	case "error":
		level = zerolog.ErrorLevel
	}

	logger := zerolog.New(os.Stderr).
		Level(level).
		With().
		Timestamp().
		Logger()

	return logger.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
}
