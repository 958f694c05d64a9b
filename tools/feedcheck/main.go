package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/orgball2608/mozimo-site/internal/feedclient"
	"github.com/orgball2608/mozimo-site/internal/feedview"
	"github.com/orgball2608/mozimo-site/pkg/logger"
	"github.com/urfave/cli/v2"
)

type result struct {
	Status         string `json:"status"`
	View           string `json:"view"`
	Error          string `json:"error,omitempty"`
	IsTokenExpired bool   `json:"isTokenExpired"`
	Posts          int    `json:"posts"`
	Displayed      int    `json:"displayed"`
}

func main() {
	app := &cli.App{
		Name:  "feedcheck",
		Usage: "Call the feed proxy once and report what the home page would show",
		Description: `Exit status is 0 for a live feed, 2 when the Instagram access
		token has expired and 1 for any other failure.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "endpoint",
				Aliases: []string{"e"},
				Value:   "http://127.0.0.1:8080/api/feed",
				Usage:   "Feed proxy URL",
				EnvVars: []string{"SITE_FEED_ENDPOINT"},
			},
			&cli.DurationFlag{
				Name:  "timeout",
				Value: 15 * time.Second,
				Usage: "Request timeout",
			},
		},
		Action: run,
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx *cli.Context) error {
	reqCtx, cancel := context.WithTimeout(context.Background(), ctx.Duration("timeout"))
	defer cancel()

	client := feedclient.New(feedclient.Opts{
		Endpoint: ctx.String("endpoint"),
		Logger:   logger.New(logger.Opts{Env: "production", Output: os.Stderr}),
	})
	state := client.Fetch(reqCtx, nil)
	view := feedview.Select(state)

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result{
		Status:         state.Status.String(),
		View:           view.Kind.String(),
		Error:          state.Error,
		IsTokenExpired: state.TokenExpired,
		Posts:          len(state.Posts),
		Displayed:      len(view.Posts),
	}); err != nil {
		return fmt.Errorf("failed to write result: %w", err)
	}

	switch view.Kind {
	case feedview.KindLive:
		return nil
	case feedview.KindExpired:
		return cli.Exit("Instagram access token has expired", 2)
	default:
		return cli.Exit(state.Error, 1)
	}
}
