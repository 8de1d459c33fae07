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
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	eduscale "github.com/JedouEdu/digiEduHack-hackathon"
	"github.com/JedouEdu/digiEduHack-hackathon/ai"
	"github.com/JedouEdu/digiEduHack-hackathon/ai/openai"
	"github.com/JedouEdu/digiEduHack-hackathon/catalog"
	"github.com/JedouEdu/digiEduHack-hackathon/core"
	"github.com/JedouEdu/digiEduHack-hackathon/ingest"
	"github.com/JedouEdu/digiEduHack-hackathon/reembed"
	"github.com/JedouEdu/digiEduHack-hackathon/storage/badger"
	"github.com/JedouEdu/digiEduHack-hackathon/tabular"
)

func main() {
	app := &cli.App{
		Name:  "eduscale",
		Usage: "Semantic ingestion pipeline for freshly digitized school data",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:      "ingest",
				Usage:     "Ingest digitized records (markdown with YAML frontmatter)",
				ArgsUsage: "FILE [FILE...]",
				Action:    ingestCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Usage:    "Path to BadgerDB database directory",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "catalog",
						Usage: "Path to a catalog definition YAML (defaults to the built-in catalog)",
					},
					&cli.StringFlag{
						Name:  "host",
						Usage: "OpenAI-compatible service host URL for embeddings and analysis",
						Value: "http://localhost:11434/v1",
					},
					&cli.StringFlag{
						Name:     "embedding-model",
						Usage:    "Embedding model name",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "analyzer-model",
						Usage:    "Analyzer model name for mention and sentiment extraction",
						Required: true,
					},
					&cli.IntFlag{
						Name:  "pool-size",
						Usage: "Number of concurrent region workers (0 = half the CPUs)",
					},
					&cli.BoolFlag{
						Name:  "pseudonymize",
						Usage: "Hash identifier columns in normalized tables",
					},
				},
			},
			{
				Name:   "seed-entities",
				Usage:  "Load an entity roster into the registry and embed display names",
				Action: seedEntitiesCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Usage:    "Path to BadgerDB database directory",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "src",
						Usage:    "Path to the entity roster YAML",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "host",
						Usage: "Embedding service host URL",
						Value: "http://localhost:11434/v1",
					},
					&cli.StringFlag{
						Name:     "embedding-model",
						Usage:    "Embedding model name",
						Required: true,
					},
				},
			},
			{
				Name:   "reembed-entities",
				Usage:  "Reembed entity display names with a new embedding model",
				Action: reembedEntitiesCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Usage:    "Path to BadgerDB database directory",
						Required: true,
					},
					&cli.StringSliceFlag{
						Name:     "region",
						Aliases:  []string{"r"},
						Usage:    "Region to reembed (repeatable)",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "host",
						Usage: "Embedding service host URL",
						Value: "http://localhost:11434/v1",
					},
					&cli.StringFlag{
						Name:     "embedding-model",
						Usage:    "Embedding model name",
						Required: true,
					},
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Number of entities to embed in each batch",
						Value: 100,
					},
					&cli.IntFlag{
						Name:  "report-interval",
						Usage: "Report progress every N entities",
						Value: 100,
					},
					&cli.IntFlag{
						Name:  "max-retries",
						Usage: "Maximum retry attempts for failed operations",
						Value: 3,
					},
					&cli.DurationFlag{
						Name:  "retry-delay",
						Usage: "Base delay for exponential backoff",
						Value: 1 * time.Second,
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func ingestCommand(c *cli.Context) error {
	ctx := context.Background()

	paths := c.Args().Slice()
	if len(paths) == 0 {
		return fmt.Errorf("at least one input file is required")
	}

	aiConfig := ai.NewConfig(
		ai.WithHost(c.String("host")),
		ai.WithEmbeddingModel(c.String("embedding-model")),
		ai.WithAnalyzerModel(c.String("analyzer-model")),
	)
	if err := aiConfig.Validate(); err != nil {
		return fmt.Errorf("invalid AI configuration: %w", err)
	}

	opts := []eduscale.Option{eduscale.WithAIConfig(aiConfig)}
	if path := c.String("catalog"); path != "" {
		def, err := catalog.Load(path)
		if err != nil {
			return fmt.Errorf("failed to load catalog: %w", err)
		}
		opts = append(opts, eduscale.WithCatalogDefinition(def))
	}

	platform, err := eduscale.Open(ctx, c.String("db"), opts...)
	if err != nil {
		return fmt.Errorf("failed to open platform: %w", err)
	}
	defer platform.Close()

	var orchOpts []ingest.OrchestratorOption
	if c.Bool("pseudonymize") {
		orchOpts = append(orchOpts, ingest.WithNormalizer(
			tabular.NewNormalizer(tabular.WithPseudonymization(true))))
	}

	orchestrator, err := platform.NewOrchestrator(orchOpts...)
	if err != nil {
		return fmt.Errorf("failed to create orchestrator: %w", err)
	}

	var batchOpts []ingest.BatchOption
	if size := c.Int("pool-size"); size > 0 {
		batchOpts = append(batchOpts, ingest.WithPoolSize(size))
	}

	batch, err := ingest.NewBatch(orchestrator, batchOpts...)
	if err != nil {
		return fmt.Errorf("failed to create batch ingester: %w", err)
	}
	defer batch.Release()

	results := batch.IngestFiles(ctx, paths)

	failed := 0
	for i, result := range results {
		printResult(paths[i], result)
		if result.Status == core.StatusFailed {
			failed++
		}
	}

	fmt.Fprintf(os.Stderr, "\nIngested %d/%d file(s)\n", len(results)-failed, len(results))
	if failed > 0 {
		return fmt.Errorf("%d file(s) failed", failed)
	}
	return nil
}

func printResult(path string, result *core.IngestResult) {
	fmt.Fprintf(os.Stderr, "%s: %s", path, result.Status)
	if result.TableType != "" {
		fmt.Fprintf(os.Stderr, " type=%s", result.TableType)
	}
	fmt.Fprintf(os.Stderr, " rows=%d (%dms)\n", result.RowsLoaded, result.ProcessingTimeMS)
	if result.ErrorMessage != "" {
		fmt.Fprintf(os.Stderr, "  error: %s\n", result.ErrorMessage)
	}
	for _, warning := range result.Warnings {
		fmt.Fprintf(os.Stderr, "  warning: %s\n", warning)
	}
}

func seedEntitiesCommand(c *cli.Context) error {
	ctx := context.Background()

	backend, err := badger.OpenBackend(c.String("db"), false)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer backend.Close()

	repo, err := badger.NewEntityRepository(backend)
	if err != nil {
		return fmt.Errorf("failed to create repository: %w", err)
	}

	aiConfig := ai.NewConfig(
		ai.WithHost(c.String("host")),
		ai.WithEmbeddingModel(c.String("embedding-model")),
		ai.WithAnalyzerModel("unused"),
	)
	if err := aiConfig.Validate(); err != nil {
		return fmt.Errorf("invalid AI configuration: %w", err)
	}

	embedder, err := openai.NewEmbedder(aiConfig)
	if err != nil {
		return fmt.Errorf("failed to create embedder: %w", err)
	}

	entities, err := loadRoster(c.String("src"))
	if err != nil {
		return fmt.Errorf("failed to load roster: %w", err)
	}

	saved, err := seedRoster(ctx, repo, embedder, entities)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "Seeded %d entities from %s\n", saved, c.String("src"))
	return nil
}

func reembedEntitiesCommand(c *cli.Context) error {
	ctx := context.Background()

	backend, err := badger.OpenBackend(c.String("db"), false)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer backend.Close()

	repo, err := badger.NewEntityRepository(backend)
	if err != nil {
		return fmt.Errorf("failed to create repository: %w", err)
	}

	aiConfig := ai.NewConfig(
		ai.WithHost(c.String("host")),
		ai.WithEmbeddingModel(c.String("embedding-model")),
		ai.WithAnalyzerModel("unused"),
	)
	if err := aiConfig.Validate(); err != nil {
		return fmt.Errorf("invalid AI configuration: %w", err)
	}

	embedder, err := openai.NewEmbedder(aiConfig)
	if err != nil {
		return fmt.Errorf("failed to create embedder: %w", err)
	}

	reembedConfig := &reembed.Config{
		BatchSize:      c.Int("batch-size"),
		ReportInterval: c.Int("report-interval"),
		MaxRetries:     c.Int("max-retries"),
		RetryDelay:     c.Duration("retry-delay"),
	}
	if reembedConfig.BatchSize <= 0 {
		return fmt.Errorf("batch-size must be greater than 0")
	}
	if reembedConfig.ReportInterval <= 0 {
		return fmt.Errorf("report-interval must be greater than 0")
	}
	if reembedConfig.MaxRetries <= 0 {
		return fmt.Errorf("max-retries must be greater than 0")
	}

	reembedder := reembed.NewReembedder(repo, embedder, reembedConfig, os.Stderr)

	fmt.Fprintf(os.Stderr, "Database: %s\n", c.String("db"))
	fmt.Fprintf(os.Stderr, "Embedding host: %s\n", c.String("host"))
	fmt.Fprintf(os.Stderr, "Embedding model: %s\n", c.String("embedding-model"))
	fmt.Fprintln(os.Stderr)

	if err := reembedder.Run(ctx, c.StringSlice("region")...); err != nil {
		return fmt.Errorf("reembedding failed: %w", err)
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
