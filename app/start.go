package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/Black-And-White-Club/sudoku-leaderboard/app/web"
)

// Start serves the web shell on the configured address until ctx is cancelled
// or the process is signalled.
func (app *App) Start(ctx context.Context) error {
	logger := app.Observability.Logger

	server, err := web.NewServer(app.NewSession, app.Feed, app.Observability.Registry, logger)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:    app.Config.HTTP.Address,
		Handler: server.Routes(app.Config.HTTP),
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("Starting web shell", slog.String("address", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- fmt.Errorf("ListenAndServe(): %w", err)
		}
		close(serveErr)
	}()

	return app.WaitForShutdown(ctx, srv, serveErr)
}
