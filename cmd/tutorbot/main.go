// Copyright 2025 Openclass
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
	"bufio"
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"github.com/openclass/tutorbot"
	"github.com/openclass/tutorbot/ai"
	"github.com/openclass/tutorbot/ingestion"
	"github.com/openclass/tutorbot/metadata"
	"github.com/openclass/tutorbot/query"
	"github.com/openclass/tutorbot/transcribe"
	vectorqdrant "github.com/openclass/tutorbot/vectorstore/qdrant"
)

func main() {
	app := &cli.App{
		Name:  "tutorbot",
		Usage: "Tutoring chatbot grounded in a creator's video catalog",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
			&cli.StringFlag{
				Name:    "db",
				Aliases: []string{"d"},
				Usage:   "Path to the data directory",
				Value:   "tutorbot-data",
				EnvVars: []string{"TUTORBOT_DATA"},
			},
			&cli.StringFlag{
				Name:    "ai-host",
				Usage:   "OpenAI-compatible API host for embeddings and completions",
				EnvVars: []string{"TUTORBOT_AI_HOST"},
			},
			&cli.StringFlag{
				Name:    "ai-token",
				Usage:   "API token for the model provider",
				EnvVars: []string{"GEMINI_API_KEY"},
			},
			&cli.StringFlag{
				Name:    "embedding-model",
				Usage:   "Embedding model name",
				EnvVars: []string{"TUTORBOT_EMBEDDING_MODEL"},
			},
			&cli.StringFlag{
				Name:    "chat-model",
				Usage:   "Completion model name",
				EnvVars: []string{"TUTORBOT_CHAT_MODEL"},
			},
			&cli.StringFlag{
				Name:    "qdrant-addr",
				Usage:   "Qdrant gRPC address",
				Value:   "localhost:6334",
				EnvVars: []string{"TUTORBOT_QDRANT_ADDR"},
			},
		},
		Before: setup,
		Commands: []*cli.Command{
			{
				Name:   "ingest",
				Usage:  "Ingest a creator channel into the catalog",
				Action: ingestCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "tenant",
						Aliases:  []string{"t"},
						Usage:    "Tenant identifier for the creator",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "channel",
						Aliases:  []string{"c"},
						Usage:    "Channel URL to ingest",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "title",
						Usage: "Display title for the channel",
					},
					&cli.IntFlag{
						Name:  "max-videos",
						Usage: "Maximum number of videos to process",
						Value: ingestion.MaxVideosPerRun,
					},
					&cli.BoolFlag{
						Name:  "replace",
						Usage: "Drop and rebuild the tenant's index instead of converging",
					},
					&cli.StringFlag{
						Name:    "apify-token",
						Usage:   "Apify API token for channel listing",
						EnvVars: []string{"APIFY_TOKEN"},
					},
					&cli.StringFlag{
						Name:  "workspace",
						Usage: "Scratch directory for audio and transcripts",
					},
					&cli.StringFlag{
						Name:  "whisper-model",
						Usage: "Whisper model for transcription",
						Value: "base",
					},
				},
			},
			{
				Name:      "ask",
				Usage:     "Ask a question against a tenant's catalog",
				ArgsUsage: "[question]",
				Action:    askCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "tenant",
						Aliases:  []string{"t"},
						Usage:    "Tenant identifier for the creator",
						Required: true,
					},
				},
			},
			{
				Name:   "tenants",
				Usage:  "List ingested tenants",
				Action: tenantsCommand,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func ingestCommand(c *cli.Context) error {
	app, err := buildApp(c,
		tutorbot.WithApifyConfig(metadata.ApifyConfig{
			Token: c.String("apify-token"),
		}),
		tutorbot.WithToolConfig(transcribe.ToolConfig{
			Model: c.String("whisper-model"),
		}),
		tutorbot.WithWorkspaceDir(c.String("workspace")),
	)
	if err != nil {
		return err
	}
	defer app.Close()

	pipeline, err := app.NewIngestionPipeline(
		ingestion.WithReplaceNamespace(c.Bool("replace")),
	)
	if err != nil {
		return fmt.Errorf("failed to create ingestion pipeline: %w", err)
	}
	defer pipeline.Release()

	report, err := pipeline.Run(context.Background(), ingestion.Request{
		TenantID:     c.String("tenant"),
		ChannelURL:   c.String("channel"),
		ChannelTitle: c.String("title"),
		MaxVideos:    c.Int("max-videos"),
	})
	if err != nil {
		return fmt.Errorf("ingestion failed: %w", err)
	}

	color.Green("Ingested %d of %d videos into %s (%d chunks)",
		report.VideosTranscribed, report.VideosListed, report.Namespace, report.Chunks)
	for _, failure := range report.Failures {
		color.Yellow("  skipped %s: %v", failure.VideoID, failure.Err)
	}
	return nil
}

func askCommand(c *cli.Context) error {
	app, err := buildApp(c)
	if err != nil {
		return err
	}
	defer app.Close()

	resolver, err := app.NewResolver()
	if err != nil {
		return fmt.Errorf("failed to create resolver: %w", err)
	}

	session := app.NewSession(c.String("tenant"))
	ctx := context.Background()

	// One-shot when a question is given, interactive otherwise
	if question := strings.TrimSpace(strings.Join(c.Args().Slice(), " ")); question != "" {
		return askOnce(ctx, resolver, session, question)
	}

	fmt.Println("Ask away. Empty line to exit.")
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return scanner.Err()
		}
		question := strings.TrimSpace(scanner.Text())
		if question == "" {
			return nil
		}
		if err := askOnce(ctx, resolver, session, question); err != nil {
			color.Red("error: %v", err)
		}
	}
}

func askOnce(ctx context.Context, resolver *query.Resolver, session *query.Session, question string) error {
	answer, err := resolver.Answer(ctx, session, question)
	if err != nil {
		return err
	}

	fmt.Println(answer.Answer)
	if answer.Cited() {
		color.Cyan("— %s (%s–%s)", answer.Title, answer.StartTime, answer.EndTime)
		color.Cyan("  %s", answer.VideoURL)
	}
	return nil
}

func tenantsCommand(c *cli.Context) error {
	app, err := buildApp(c)
	if err != nil {
		return err
	}
	defer app.Close()

	records, err := app.TenantRepository().ListTenantRecords(context.Background())
	if err != nil {
		return fmt.Errorf("failed to list tenants: %w", err)
	}

	if len(records) == 0 {
		fmt.Println("no tenants ingested yet")
		return nil
	}
	for _, record := range records {
		color.Green("%s", record.TenantID)
		fmt.Printf("  %s (%s)\n", record.ChannelTitle, record.ChannelURL)
		fmt.Printf("  %d videos, ingested %s\n", len(record.Videos), record.IngestedAt.Format("2006-01-02 15:04"))
	}
	return nil
}

func buildApp(c *cli.Context, extra ...tutorbot.AppOption) (*tutorbot.App, error) {
	var aiOpts []ai.ConfigOption
	if host := c.String("ai-host"); host != "" {
		aiOpts = append(aiOpts, ai.WithHost(host))
	}
	if token := c.String("ai-token"); token != "" {
		aiOpts = append(aiOpts, ai.WithToken(token))
	}
	if model := c.String("embedding-model"); model != "" {
		aiOpts = append(aiOpts, ai.WithEmbeddingModel(model))
	}
	if model := c.String("chat-model"); model != "" {
		aiOpts = append(aiOpts, ai.WithChatModel(model))
	}

	aiConfig := ai.NewConfig(aiOpts...)
	if err := aiConfig.Validate(); err != nil {
		return nil, fmt.Errorf("invalid AI configuration: %w", err)
	}

	opts := []tutorbot.AppOption{
		tutorbot.WithAIConfig(aiConfig),
		tutorbot.WithQdrantConfig(vectorqdrant.Config{Address: c.String("qdrant-addr")}),
	}
	opts = append(opts, extra...)

	return tutorbot.NewApp(c.String("db"), opts...)
}

func setup(c *cli.Context) error {
	// Optional .env for local development
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		slog.Warn("could not load .env file", "err", err)
	}

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
