package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"parliament-interests/internal/app"
	"parliament-interests/pkg/logger"
)

const shutdownTimeout = 5 * time.Second

func main() {
	log := logger.NewFromEnv()

	rootCmd := &cobra.Command{
		Use:           "parliament-interests",
		Short:         "Ingest UK Parliament members and interests and serve a search API",
		Version:       app.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context(), log)
		},
	}

	rootCmd.AddCommand(serveCmd(log))
	rootCmd.AddCommand(ingestCmd(log))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		log.Critical("app: failed", "err", err)
		stop()
		os.Exit(1)
	}
}

func serveCmd(log logger.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the search API, ingesting first when the store is empty",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context(), log)
		},
	}
}

func ingestCmd(log logger.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "ingest",
		Short: "Fetch all active members and interests into the store, then exit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			application, err := app.New(log)
			if err != nil {
				return err
			}
			defer closeApp(application, log)

			result, err := application.Ingest(cmd.Context())
			if err != nil {
				return err
			}
			log.Info("app: ingest complete",
				"members", result.Members.Total(),
				"interests", result.Interests.Total(),
				"duration", result.Duration.String(),
			)
			return nil
		},
	}
}

func serve(ctx context.Context, log logger.Logger) error {
	log.Info("app: starting", "version", app.Version)

	application, err := app.New(log)
	if err != nil {
		return err
	}
	defer closeApp(application, log)

	shouldIngest, err := application.ShouldIngestOnStartup(ctx)
	if err != nil {
		return err
	}
	if shouldIngest {
		log.Info("app: ingesting before serving")
		if _, err := application.Ingest(ctx); err != nil {
			return err
		}
	}

	srv := application.HTTPServer()
	log.Info("http: listening", "addr", srv.Addr)

	serverErrCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrCh <- err
		}
		close(serverErrCh)
	}()

	var serveErr error
	select {
	case <-ctx.Done():
		log.Info("app: shutdown signal received")
	case err := <-serverErrCh:
		if err != nil {
			log.Critical("http: server failed", "addr", srv.Addr, "err", err)
			serveErr = err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error("http: graceful shutdown failed", "err", err)
		if serveErr == nil {
			serveErr = err
		}
	}

	if serveErr == nil {
		log.Info("app: stopped")
	}
	return serveErr
}

func closeApp(application *app.App, log logger.Logger) {
	if err := application.Close(); err != nil {
		log.Error("app: close failed", "err", err)
	}
}
