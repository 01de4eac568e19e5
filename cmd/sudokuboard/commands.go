package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/Black-And-White-Club/sudoku-leaderboard/app"
	leaderboardservice "github.com/Black-And-White-Club/sudoku-leaderboard/app/modules/leaderboard/application"
	leaderboarddomain "github.com/Black-And-White-Club/sudoku-leaderboard/app/modules/leaderboard/domain"
	scoredomain "github.com/Black-And-White-Club/sudoku-leaderboard/app/modules/score/domain"
	"github.com/Black-And-White-Club/sudoku-leaderboard/app/session"
	"github.com/Black-And-White-Club/sudoku-leaderboard/config"
)

// errNotSubmitted is returned after the user has already been shown why.
var errNotSubmitted = errors.New("score was not submitted")

func newCLIApp(stdout, stderr io.Writer) *cli.App {
	return &cli.App{
		Name:      "sudokuboard",
		Usage:     "submit Sudoku times and browse the leaderboard",
		Writer:    stdout,
		ErrWriter: stderr,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Value:   "config.yaml",
				Usage:   "path to the configuration file",
				EnvVars: []string{"SUDOKU_CONFIG"},
			},
			&cli.StringFlag{
				Name:  "base-url",
				Usage: "scoring service root, overrides the configuration",
			},
		},
		Commands: []*cli.Command{
			serveCommand(),
			submitCommand(),
			leaderboardCommand(),
			exportCommand(),
		},
	}
}

// withApp loads configuration, builds the application and closes it afterwards.
func withApp(c *cli.Context, fn func(ctx context.Context, application *app.App) error) error {
	cfg, err := config.LoadConfig(c.String("config"))
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if baseURL := c.String("base-url"); baseURL != "" {
		cfg.Scoring.BaseURL = baseURL
	}

	application, err := app.NewApp(c.Context, cfg, c.App.ErrWriter)
	if err != nil {
		return fmt.Errorf("failed to initialize app: %w", err)
	}
	defer application.Close()

	return fn(c.Context, application)
}

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "run the web shell",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "addr", Usage: "listen address, overrides the configuration"},
		},
		Action: func(c *cli.Context) error {
			return withApp(c, func(ctx context.Context, application *app.App) error {
				if addr := c.String("addr"); addr != "" {
					application.Config.HTTP.Address = addr
				}
				return application.Start(ctx)
			})
		},
	}
}

// stderrNotifier prints alerts for the terminal shell.
func stderrNotifier(w io.Writer) session.Notifier {
	return session.NotifierFunc(func(_ context.Context, message string) {
		fmt.Fprintln(w, message)
	})
}

func submitCommand() *cli.Command {
	return &cli.Command{
		Name:  "submit",
		Usage: "submit a completion time, then print the leaderboard",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "name", Usage: "player name"},
			&cli.StringFlag{Name: "time", Usage: "completion time in seconds"},
			&cli.StringFlag{Name: "level", Value: string(scoredomain.DefaultLevel), Usage: "easy, medium or hard"},
		},
		Action: func(c *cli.Context) error {
			return withApp(c, func(ctx context.Context, application *app.App) error {
				sess := application.NewSession(stderrNotifier(c.App.ErrWriter))
				sess.EditName(c.String("name"))
				sess.EditTime(c.String("time"))
				if err := sess.SelectLevel(c.String("level")); err != nil {
					return err
				}

				if !sess.Submit(ctx) {
					return errNotSubmitted
				}
				return leaderboardservice.WriteTable(c.App.Writer, sess.Snapshot().Rows())
			})
		},
	}
}

func sortFlag() cli.Flag {
	return &cli.StringFlag{
		Name:  "sort",
		Usage: "statistic to rank by, e.g. easy_avg",
	}
}

// fetchRanked shows the leaderboard in a fresh session and returns its rows.
func fetchRanked(ctx context.Context, c *cli.Context, application *app.App) ([]leaderboarddomain.PlayerEntry, leaderboarddomain.StatKey, error) {
	sess := application.NewSession(stderrNotifier(c.App.ErrWriter))
	if key := c.String("sort"); key != "" {
		if err := sess.SelectSort(key); err != nil {
			return nil, "", err
		}
	}
	sess.ShowLeaderboard(ctx)
	st := sess.Snapshot()
	return st.Rows(), st.SortBy, nil
}

func leaderboardCommand() *cli.Command {
	return &cli.Command{
		Name:  "leaderboard",
		Usage: "print the leaderboard",
		Flags: []cli.Flag{sortFlag()},
		Action: func(c *cli.Context) error {
			return withApp(c, func(ctx context.Context, application *app.App) error {
				rows, _, err := fetchRanked(ctx, c, application)
				if err != nil {
					return err
				}
				return leaderboardservice.WriteTable(c.App.Writer, rows)
			})
		},
	}
}

func exportCommand() *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "write the leaderboard to a spreadsheet or chart",
		Flags: []cli.Flag{
			sortFlag(),
			&cli.StringFlag{Name: "format", Value: "xlsx", Usage: "xlsx or png"},
			&cli.StringFlag{Name: "out", Required: true, Usage: "output file"},
		},
		Action: func(c *cli.Context) error {
			format := c.String("format")
			if format != "xlsx" && format != "png" {
				return fmt.Errorf("unsupported export format %q", format)
			}

			return withApp(c, func(ctx context.Context, application *app.App) error {
				rows, key, err := fetchRanked(ctx, c, application)
				if err != nil {
					return err
				}

				var data []byte
				if format == "png" {
					data, err = leaderboardservice.GenerateLeaderboardChart(rows, key, leaderboardservice.DefaultPalette)
				} else {
					data, err = leaderboardservice.ExportXLSX(rows)
				}
				if err != nil {
					return err
				}

				if err := os.WriteFile(c.String("out"), data, 0o644); err != nil {
					return fmt.Errorf("failed to write %s: %w", c.String("out"), err)
				}
				fmt.Fprintf(c.App.Writer, "Wrote %d players to %s\n", len(rows), c.String("out"))
				return nil
			})
		},
	}
}
