package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/Black-And-White-Club/sudoku-leaderboard/app/activity"
	"github.com/Black-And-White-Club/sudoku-leaderboard/app/eventbus"
	leaderboardservice "github.com/Black-And-White-Club/sudoku-leaderboard/app/modules/leaderboard/application"
	leaderboarddomain "github.com/Black-And-White-Club/sudoku-leaderboard/app/modules/leaderboard/domain"
	scoreservice "github.com/Black-And-White-Club/sudoku-leaderboard/app/modules/score/application"
	"github.com/Black-And-White-Club/sudoku-leaderboard/app/observability"
	"github.com/Black-And-White-Club/sudoku-leaderboard/app/session"
	"github.com/Black-And-White-Club/sudoku-leaderboard/config"
	"github.com/Black-And-White-Club/sudoku-leaderboard/internal/scoringapi"
)

// eventBufferSize bounds each activity subscriber's queue.
const eventBufferSize = 64

// App wires the services shared by every shell.
type App struct {
	Config        *config.Config
	Observability observability.Observability
	Client        *scoringapi.Client
	EventBus      eventbus.EventBus
	Feed          *activity.Feed
	Scores        *scoreservice.ScoreService
	Leaderboard   *leaderboardservice.LeaderboardService

	defaultSort leaderboarddomain.StatKey
}

// NewApp initializes the application with the necessary services and configuration.
// Logs are written to logOut.
func NewApp(ctx context.Context, cfg *config.Config, logOut io.Writer) (*App, error) {
	defaultSort, err := leaderboarddomain.ParseStatKey(cfg.Leaderboard.DefaultSort)
	if err != nil {
		return nil, fmt.Errorf("invalid leaderboard.default_sort: %w", err)
	}

	obs := observability.New(cfg.Observability, logOut)
	logger := obs.Logger

	client := scoringapi.NewClient(scoringapi.Config{
		BaseURL:   cfg.Scoring.BaseURL,
		Timeout:   cfg.Scoring.RequestTimeout,
		UserAgent: cfg.Scoring.UserAgent,
	}, logger, obs.Metrics)

	bus := eventbus.NewEventBus(logger, eventBufferSize)

	feed := activity.NewFeed(activity.DefaultCapacity, logger)
	if err := feed.Subscribe(ctx, bus); err != nil {
		_ = bus.Close()
		return nil, fmt.Errorf("failed to subscribe activity feed: %w", err)
	}

	logger.Info("Application initialized",
		slog.String("scoring_base_url", client.BaseURL()),
		slog.Duration("request_timeout", cfg.Scoring.RequestTimeout),
		slog.Bool("metrics_enabled", cfg.Observability.MetricsEnabled),
	)

	return &App{
		Config:        cfg,
		Observability: obs,
		Client:        client,
		EventBus:      bus,
		Feed:          feed,
		Scores:        scoreservice.NewScoreService(client, bus, logger, obs.Metrics, obs.Tracer),
		Leaderboard:   leaderboardservice.NewLeaderboardService(client, bus, logger, obs.Metrics, obs.Tracer),
		defaultSort:   defaultSort,
	}, nil
}

// NewSession starts a fresh user session that reports alerts to notifier.
func (app *App) NewSession(notifier session.Notifier) *session.Session {
	return session.New(app.Scores, app.Leaderboard, notifier, app.Observability.Logger, app.defaultSort)
}

// Close releases the event bus.
func (app *App) Close() error {
	return app.EventBus.Close()
}
