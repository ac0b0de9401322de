// Copyright 2025 Poiesic Systems
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
	"os"
	"strings"
	"time"

	"github.com/poiesic/matchmaker"
	"github.com/poiesic/matchmaker/ai"
	"github.com/poiesic/matchmaker/core"
	"github.com/poiesic/matchmaker/pipeline"
	"github.com/poiesic/matchmaker/reembed"
	"github.com/poiesic/matchmaker/storage/postgres"
	"github.com/urfave/cli/v2"
)

// extraOptions are appended to every service opened by a command.
var extraOptions []matchmaker.Option

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "matchmaker",
		Usage: "Match user profiles to interest communities",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
				EnvVars: []string{"MATCHMAKER_LOG_LEVEL"},
			},
			&cli.StringFlag{
				Name:     "db",
				Aliases:  []string{"d"},
				Usage:    "Path to BadgerDB database directory",
				EnvVars:  []string{"MATCHMAKER_DB"},
				Required: true,
			},
			&cli.StringFlag{
				Name:    "postgres-url",
				Usage:   "Keep tasks, communities and memberships in Postgres",
				EnvVars: []string{"MATCHMAKER_POSTGRES_URL"},
			},
			&cli.IntFlag{
				Name:  "postgres-max-conns",
				Usage: "Maximum Postgres pool connections",
				Value: 10,
			},
			&cli.StringFlag{
				Name:    "llm-host",
				Usage:   "OpenAI-compatible service host URL",
				Value:   "http://localhost:11434/v1",
				EnvVars: []string{"MATCHMAKER_LLM_HOST"},
			},
			&cli.StringFlag{
				Name:    "embedding-model",
				Usage:   "Embedding model name",
				Value:   "text-embedding-3-small",
				EnvVars: []string{"MATCHMAKER_EMBEDDING_MODEL"},
			},
			&cli.StringFlag{
				Name:    "chat-model",
				Usage:   "Chat model used for redaction, introductions and safety scoring",
				Value:   "qwen2.5:3b",
				EnvVars: []string{"MATCHMAKER_CHAT_MODEL"},
			},
			&cli.StringFlag{
				Name:    "api-key",
				Usage:   "API key for the language-model service",
				EnvVars: []string{"MATCHMAKER_API_KEY", "OPENAI_API_KEY"},
			},
			&cli.Float64Flag{
				Name:  "rate-limit",
				Usage: "Maximum language-model requests per second (0 for unlimited)",
			},
			&cli.DurationFlag{
				Name:  "request-timeout",
				Usage: "Timeout of a single language-model call",
				Value: 5 * time.Second,
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:   "seed",
				Usage:  "Load communities and members from a JSON seed file",
				Action: seedCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "file",
						Aliases:  []string{"f"},
						Usage:    "Seed file path",
						Required: true,
					},
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Number of communities to embed per call",
						Value: reembed.DefaultBatchSize,
					},
				},
			},
			{
				Name:   "reembed",
				Usage:  "Recompute every community vector with the configured embedding model",
				Action: reembedCommand,
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Number of communities to process in each batch",
						Value: 100,
					},
					&cli.IntFlag{
						Name:  "report-interval",
						Usage: "Report progress every N communities",
						Value: 100,
					},
					&cli.IntFlag{
						Name:  "max-retries",
						Usage: "Maximum attempts for each embedding call",
						Value: 3,
					},
					&cli.DurationFlag{
						Name:  "retry-delay",
						Usage: "Base delay for exponential backoff",
						Value: 1 * time.Second,
					},
				},
			},
			{
				Name:   "match",
				Usage:  "Submit a profile and wait for its match result",
				Action: matchCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "user", Usage: "User id", Required: true},
					&cli.StringFlag{Name: "bio", Usage: "Free-text bio (10-500 characters)", Required: true},
					&cli.StringSliceFlag{Name: "tag", Usage: "Interest tag (repeatable)", Required: true},
					&cli.StringFlag{Name: "city", Usage: "City", Required: true},
					&cli.StringFlag{Name: "timezone", Usage: "IANA timezone", Required: true},
					&cli.DurationFlag{
						Name:  "task-timeout",
						Usage: "Wall-clock budget of the matching task",
						Value: 10 * time.Second,
					},
					&cli.DurationFlag{
						Name:  "wait",
						Usage: "How long to wait for the completion event",
						Value: 30 * time.Second,
					},
				},
			},
			{
				Name:   "status",
				Usage:  "Print the state of a task",
				Action: statusCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "task", Usage: "Task id", Required: true},
				},
			},
			{
				Name:   "recover",
				Usage:  "Re-run tasks left unfinished by a previous process",
				Action: recoverCommand,
				Flags: []cli.Flag{
					&cli.DurationFlag{
						Name:  "wait",
						Usage: "How long to let recovered tasks run before exiting",
						Value: 30 * time.Second,
					},
				},
			},
		},
	}
}

func aiConfig(c *cli.Context) *ai.Config {
	return ai.NewConfig(
		ai.WithHost(c.String("llm-host")),
		ai.WithEmbeddingModel(c.String("embedding-model")),
		ai.WithChatModel(c.String("chat-model")),
		ai.WithAPIKey(c.String("api-key")),
		ai.WithRateLimit(c.Float64("rate-limit")),
		ai.WithRequestTimeout(c.Duration("request-timeout")),
	)
}

func openService(c *cli.Context, opts ...matchmaker.Option) (*matchmaker.Service, error) {
	base := []matchmaker.Option{
		matchmaker.WithAIConfig(aiConfig(c)),
	}
	if url := c.String("postgres-url"); url != "" {
		base = append(base, matchmaker.WithPostgres(url, &postgres.PoolConfig{
			MaxConns: int32(c.Int("postgres-max-conns")),
		}))
	}
	opts = append(append(base, opts...), extraOptions...)
	return matchmaker.Open(c.Context, c.String("db"), opts...)
}

func seedCommand(c *cli.Context) error {
	f, err := os.Open(c.String("file"))
	if err != nil {
		return fmt.Errorf("failed to open seed file: %w", err)
	}
	defer f.Close()
	seed, err := reembed.ReadSeedFile(f)
	if err != nil {
		return err
	}

	svc, err := openService(c)
	if err != nil {
		return fmt.Errorf("failed to open service: %w", err)
	}
	defer svc.Close()

	seeder, err := svc.NewSeeder(reembed.WithSeedBatchSize(c.Int("batch-size")))
	if err != nil {
		return err
	}
	stats, err := seeder.Seed(c.Context, seed)
	if err != nil {
		return fmt.Errorf("seeding failed: %w", err)
	}
	fmt.Fprintf(c.App.Writer, "Seeded %d communities and %d members\n", stats.Communities, stats.Members)
	return nil
}

func reembedCommand(c *cli.Context) error {
	svc, err := openService(c)
	if err != nil {
		return fmt.Errorf("failed to open service: %w", err)
	}
	defer svc.Close()

	cfg := reembed.DefaultConfig()
	cfg.BatchSize = c.Int("batch-size")
	cfg.ReportInterval = c.Int("report-interval")
	cfg.MaxRetries = c.Int("max-retries")
	cfg.RetryDelay = c.Duration("retry-delay")

	r, err := svc.NewReembedder(cfg, c.App.ErrWriter)
	if err != nil {
		return err
	}
	if err := r.Run(c.Context); err != nil {
		return fmt.Errorf("reembedding failed: %w", err)
	}
	return nil
}

func matchCommand(c *cli.Context) error {
	svc, err := openService(c, matchmaker.WithPipelineConfig(
		pipeline.NewConfig(pipeline.WithTaskTimeout(c.Duration("task-timeout")))))
	if err != nil {
		return fmt.Errorf("failed to open service: %w", err)
	}
	defer svc.Close()

	ctx, cancel := context.WithTimeout(c.Context, c.Duration("wait"))
	defer cancel()

	task, err := svc.Match(ctx, &core.ProfileInput{
		UserID:       c.String("user"),
		Bio:          c.String("bio"),
		InterestTags: c.StringSlice("tag"),
		City:         c.String("city"),
		Timezone:     c.String("timezone"),
	})
	if err != nil {
		return fmt.Errorf("match failed: %w", err)
	}
	return printJSON(c, task)
}

func statusCommand(c *cli.Context) error {
	svc, err := openService(c)
	if err != nil {
		return fmt.Errorf("failed to open service: %w", err)
	}
	defer svc.Close()

	task, err := svc.Get(c.Context, core.TaskID(c.String("task")))
	if err != nil {
		return err
	}
	return printJSON(c, task)
}

func recoverCommand(c *cli.Context) error {
	svc, err := openService(c)
	if err != nil {
		return fmt.Errorf("failed to open service: %w", err)
	}
	defer svc.Close()

	n, err := svc.Recover(c.Context)
	if err != nil {
		return fmt.Errorf("recovery failed: %w", err)
	}
	fmt.Fprintf(c.App.Writer, "Recovered %d tasks\n", n)
	if n == 0 {
		return nil
	}

	// Close waits for queued tasks; the wait only bounds a stuck run.
	done := make(chan error, 1)
	go func() { done <- svc.Close() }()
	select {
	case err := <-done:
		return err
	case <-time.After(c.Duration("wait")):
		return fmt.Errorf("recovered tasks still running after %s", c.Duration("wait"))
	}
}

func printJSON(c *cli.Context, v any) error {
	enc := json.NewEncoder(c.App.Writer)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
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
