package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
)

// shutdownTimeout bounds how long in-flight requests may finish.
const shutdownTimeout = 10 * time.Second

// WaitForShutdown blocks until a signal, ctx cancellation or a serve error, then
// stops srv gracefully and closes the application.
func (app *App) WaitForShutdown(ctx context.Context, srv *http.Server, serveErr <-chan error) error {
	logger := app.Observability.Logger

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(interrupt)

	logger.Info("Waiting for shutdown signal...")
	select {
	case sig := <-interrupt:
		logger.Info("Shutting down application...", slog.String("signal", sig.String()))
	case <-ctx.Done():
		logger.Info("Application context canceled")
	case err, ok := <-serveErr:
		if ok && err != nil {
			_ = app.Close()
			return err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		_ = app.Close()
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	if err := app.Close(); err != nil {
		return err
	}

	logger.Info("Application shut down gracefully.")
	return nil
}
