// Copyright 2025 Skysift Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/skysift/apodex"
	"github.com/skysift/apodex/config"
	"github.com/skysift/apodex/relevance"
	"github.com/skysift/apodex/server"
)

func main() {
	app := &cli.App{
		Name:  "apodex",
		Usage: "Enrich and archive the Astronomy Picture of the Day feed",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to YAML configuration file",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:   "run",
				Usage:  "Process a date range through the enrichment pipeline",
				Action: runCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "start",
						Usage:    "First date to process (YYYY-MM-DD)",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "end",
						Usage: "Last date to process, inclusive (defaults to start)",
					},
				},
			},
			{
				Name:   "serve",
				Usage:  "Run the HTTP trigger server",
				Action: serveCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "addr",
						Usage: "Listen address (overrides config)",
					},
				},
			},
			{
				Name:   "similar",
				Usage:  "Search the archive for entries similar to a text query",
				Action: similarCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "query",
						Aliases:  []string{"q"},
						Usage:    "Query text",
						Required: true,
					},
					&cli.IntFlag{
						Name:  "top",
						Usage: "Number of matches to return",
						Value: 10,
					},
				},
			},
			{
				Name:   "validate",
				Usage:  "Check a title/explanation pair against the relevance rules (offline)",
				Action: validateCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "title",
						Usage:    "Entry title",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "explanation",
						Usage: "Entry explanation text",
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func loadConfig(c *cli.Context) (*config.Config, error) {
	return config.Load(c.String("config"))
}

func runCommand(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	arch, err := apodex.Open(cfg)
	if err != nil {
		return fmt.Errorf("opening archive: %w", err)
	}
	defer arch.Close()

	start := c.String("start")
	end := c.String("end")
	if end == "" {
		end = start
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	entries, err := arch.Feed().FetchRange(ctx, start, end)
	if err != nil {
		return fmt.Errorf("fetching feed range: %w", err)
	}
	slog.Info("fetched feed range", "start", start, "end", end, "entries", len(entries))

	metrics, err := arch.Processor().Run(ctx, entries)
	if err != nil {
		return fmt.Errorf("processing batch: %w", err)
	}

	out, err := json.MarshalIndent(metrics, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))

	if metrics.Failed > 0 {
		return fmt.Errorf("%d of %d entries failed", metrics.Failed, metrics.Total())
	}
	return nil
}

func serveCommand(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	if addr := c.String("addr"); addr != "" {
		cfg.Server.Addr = addr
	}

	arch, err := apodex.Open(cfg)
	if err != nil {
		return fmt.Errorf("opening archive: %w", err)
	}
	defer arch.Close()

	srv, err := server.New(arch.Processor(), arch.Coordinator(), arch.Provider(), arch.Feed(), cfg.Server.PoolSize)
	if err != nil {
		return fmt.Errorf("wiring server: %w", err)
	}
	defer srv.Close()

	httpSrv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		slog.Info("listening", "addr", cfg.Server.Addr)
		errCh <- httpSrv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		slog.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		return httpSrv.Shutdown(shutdownCtx)
	}
}

func similarCommand(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	arch, err := apodex.Open(cfg)
	if err != nil {
		return fmt.Errorf("opening archive: %w", err)
	}
	defer arch.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	vector, err := arch.Provider().Embedder().EmbedText(ctx, c.String("query"))
	if err != nil {
		return fmt.Errorf("embedding query: %w", err)
	}

	matches, err := arch.Coordinator().FindSimilar(ctx, vector, c.Int("top"))
	if err != nil {
		return fmt.Errorf("searching: %w", err)
	}

	if len(matches) == 0 {
		fmt.Println("no matches")
		return nil
	}
	for _, m := range matches {
		fmt.Printf("%s  %.4f  %-24s %s\n", m.ID, m.Score, m.Category, m.Title)
	}
	return nil
}

func validateCommand(c *cli.Context) error {
	result := relevance.Validate(c.String("title"), c.String("explanation"))

	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))

	if !result.Valid {
		return cli.Exit("not relevant", 1)
	}
	return nil
}

func setupLogger(c *cli.Context) error {
	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
