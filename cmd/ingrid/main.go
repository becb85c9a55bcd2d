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

	"github.com/urfave/cli/v2"

	"github.com/poiesic/ingrid"
	"github.com/poiesic/ingrid/core"
	"github.com/poiesic/ingrid/ingestion"
	"github.com/poiesic/ingrid/reindex"
)

func main() {
	app := &cli.App{
		Name:  "ingrid",
		Usage: "Hybrid search over a raw material ingredient catalog",
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
				Usage:   "Path to a TOML configuration file",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:   "index",
				Usage:  "Ingest ingredient records from a JSON file into the catalog",
				Action: indexCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "db",
						Aliases: []string{"d"},
						Usage:   "Path to BadgerDB database directory",
					},
					&cli.StringFlag{
						Name:     "file",
						Aliases:  []string{"f"},
						Usage:    "JSON file containing an array of ingredient records",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "embedding-host",
						Usage: "Embedding service host URL",
					},
					&cli.StringFlag{
						Name:  "embedding-model",
						Usage: "Embedding model name",
					},
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Number of records to ingest per batch",
						Value: 100,
					},
				},
			},
			{
				Name:      "search",
				Usage:     "Search the catalog",
				ArgsUsage: "<query>",
				Action:    searchCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "db",
						Aliases: []string{"d"},
						Usage:   "Path to BadgerDB database directory",
					},
					&cli.StringFlag{
						Name:  "embedding-host",
						Usage: "Embedding service host URL",
					},
					&cli.StringFlag{
						Name:  "embedding-model",
						Usage: "Embedding model name",
					},
					&cli.IntFlag{
						Name:  "top-k",
						Usage: "Maximum number of results",
					},
					&cli.Float64Flag{
						Name:  "threshold",
						Usage: "Minimum relevance score for a result",
					},
					&cli.BoolFlag{
						Name:  "rerank",
						Usage: "Enable second-pass reranking",
					},
					&cli.StringFlag{
						Name:  "category",
						Usage: "Restrict results to one category",
					},
					&cli.StringFlag{
						Name:  "supplier",
						Usage: "Restrict results to one supplier",
					},
					&cli.StringSliceFlag{
						Name:  "exclude-code",
						Usage: "Ingredient code to exclude (repeatable)",
					},
				},
			},
			{
				Name:   "reindex",
				Usage:  "Rebuild all chunks and embeddings for the stored catalog",
				Action: reindexCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "db",
						Aliases: []string{"d"},
						Usage:   "Path to BadgerDB database directory",
					},
					&cli.StringFlag{
						Name:  "embedding-host",
						Usage: "Embedding service host URL",
					},
					&cli.StringFlag{
						Name:  "embedding-model",
						Usage: "Embedding model name",
					},
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Number of records to process in each batch",
						Value: 100,
					},
					&cli.IntFlag{
						Name:  "report-interval",
						Usage: "Report progress every N records",
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

// loadConfig resolves the effective configuration: the TOML file when
// --config is given, defaults otherwise, with command-line flags winning.
func loadConfig(c *cli.Context) (*ingrid.Config, error) {
	cfg := ingrid.DefaultEngineConfig()
	if path := c.String("config"); path != "" {
		loaded, err := ingrid.LoadConfig(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if c.IsSet("db") {
		cfg.Storage.Path = c.String("db")
	}
	if c.IsSet("embedding-host") {
		cfg.AI.EmbeddingHost = c.String("embedding-host")
	}
	if c.IsSet("embedding-model") {
		cfg.AI.EmbeddingModel = c.String("embedding-model")
	}
	if cfg.Storage.Path == "" {
		return nil, fmt.Errorf("database path is required (--db or storage.path in the config file)")
	}
	return cfg, nil
}

func openEngine(cfg *ingrid.Config) (*ingrid.Engine, error) {
	aiConfig := cfg.AIConfig()
	if err := aiConfig.Validate(); err != nil {
		return nil, fmt.Errorf("invalid AI configuration: %w", err)
	}
	engine, err := ingrid.NewEngine(cfg.Storage.Path, ingrid.WithAIConfig(aiConfig))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return engine, nil
}

// ingredientRecord is the JSON shape accepted by the index command.
type ingredientRecord struct {
	Code      string            `json:"code"`
	TradeName string            `json:"trade_name"`
	INCIName  string            `json:"inci_name"`
	Supplier  string            `json:"supplier"`
	Company   string            `json:"company"`
	Cost      string            `json:"cost"`
	Benefits  string            `json:"benefits"`
	Details   string            `json:"details"`
	Category  string            `json:"category"`
	Function  string            `json:"function"`
	Localized map[string]string `json:"localized"`
	Extra     map[string]string `json:"extra"`
}

func (r *ingredientRecord) toIngredient() *core.Ingredient {
	return &core.Ingredient{
		Code:      r.Code,
		TradeName: r.TradeName,
		INCIName:  r.INCIName,
		Supplier:  r.Supplier,
		Company:   r.Company,
		Cost:      r.Cost,
		Benefits:  r.Benefits,
		Details:   r.Details,
		Category:  r.Category,
		Function:  r.Function,
		Localized: r.Localized,
		Extra:     r.Extra,
	}
}

func indexCommand(c *cli.Context) error {
	ctx := context.Background()

	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	batchSize := c.Int("batch-size")
	if batchSize <= 0 {
		return fmt.Errorf("batch-size must be greater than 0")
	}

	data, err := os.ReadFile(c.String("file"))
	if err != nil {
		return fmt.Errorf("failed to read input file: %w", err)
	}
	var records []*ingredientRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return fmt.Errorf("failed to parse input file: %w", err)
	}
	if len(records) == 0 {
		fmt.Fprintln(os.Stderr, "No records found in input file")
		return nil
	}

	engine, err := openEngine(cfg)
	if err != nil {
		return err
	}
	defer engine.Close()

	pipeline, err := engine.NewIngestionPipeline(ingestion.WithChunkConfig(cfg.ChunkConfig()))
	if err != nil {
		return fmt.Errorf("failed to create ingestion pipeline: %w", err)
	}
	defer pipeline.Release()

	fmt.Fprintf(os.Stderr, "Database: %s\n", cfg.Storage.Path)
	fmt.Fprintf(os.Stderr, "Indexing %d records (batch size: %d)\n", len(records), batchSize)

	start := time.Now()
	indexed := 0
	for offset := 0; offset < len(records); offset += batchSize {
		end := min(offset+batchSize, len(records))
		batch := make([]*core.Ingredient, 0, end-offset)
		for _, record := range records[offset:end] {
			batch = append(batch, record.toIngredient())
		}
		if _, err := pipeline.IngestSync(ctx, batch...); err != nil {
			return fmt.Errorf("ingestion failed after %d records: %w", indexed, err)
		}
		indexed += len(batch)
		fmt.Fprintf(os.Stderr, "Indexed %d/%d records\n", indexed, len(records))
	}

	fmt.Fprintf(os.Stderr, "Index complete. %d records in %v\n", indexed, time.Since(start).Round(time.Millisecond))
	return nil
}

func searchCommand(c *cli.Context) error {
	ctx := context.Background()

	query := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if query == "" {
		return fmt.Errorf("a search query is required")
	}

	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	engine, err := openEngine(cfg)
	if err != nil {
		return err
	}
	defer engine.Close()

	searcher, err := engine.NewSearcher()
	if err != nil {
		return fmt.Errorf("failed to create searcher: %w", err)
	}

	opts := cfg.SearchOptions()
	if c.IsSet("top-k") {
		opts.TopK = c.Int("top-k")
	}
	if c.IsSet("threshold") {
		opts.Threshold = float32(c.Float64("threshold"))
	}
	if c.IsSet("rerank") {
		opts.Rerank = c.Bool("rerank")
	}
	opts.Category = c.String("category")
	opts.Supplier = c.String("supplier")
	opts.ExcludeCodes = c.StringSlice("exclude-code")

	formatted, err := searcher.SearchAndFormat(ctx, query, opts)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}
	fmt.Println(formatted)
	return nil
}

func reindexCommand(c *cli.Context) error {
	ctx := context.Background()

	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	// Create reindexing config
	reindexConfig := &reindex.Config{
		BatchSize:      c.Int("batch-size"),
		ReportInterval: c.Int("report-interval"),
		MaxRetries:     c.Int("max-retries"),
		RetryDelay:     c.Duration("retry-delay"),
		ChunkConfig:    cfg.ChunkConfig(),
	}

	// Validate config
	if reindexConfig.BatchSize <= 0 {
		return fmt.Errorf("batch-size must be greater than 0")
	}
	if reindexConfig.ReportInterval <= 0 {
		return fmt.Errorf("report-interval must be greater than 0")
	}
	if reindexConfig.MaxRetries <= 0 {
		return fmt.Errorf("max-retries must be greater than 0")
	}

	engine, err := openEngine(cfg)
	if err != nil {
		return err
	}
	defer engine.Close()

	reindexer, err := engine.NewReindexer(reindexConfig, os.Stderr)
	if err != nil {
		return fmt.Errorf("failed to create reindexer: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Database: %s\n", cfg.Storage.Path)
	fmt.Fprintf(os.Stderr, "Embedding host: %s\n", cfg.AI.EmbeddingHost)
	fmt.Fprintf(os.Stderr, "Embedding model: %s\n", cfg.AI.EmbeddingModel)
	fmt.Fprintln(os.Stderr)

	if err := reindexer.Run(ctx); err != nil {
		return fmt.Errorf("reindexing failed: %w", err)
	}

	return nil
}

func setupLogger(c *cli.Context) error {
	// Get log level from flag and normalize to lowercase
	levelStr := strings.ToLower(c.String("log-level"))

	// Map string to slog.Level
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

	// Configure slog with the specified level
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
