package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"horse.fit/newswash/internal/cli"
	"horse.fit/newswash/internal/config"
	"horse.fit/newswash/internal/db"
	"horse.fit/newswash/internal/logging"
	"horse.fit/newswash/internal/pipeline"
	"horse.fit/newswash/internal/scoring"
)

func runProcess(args []string) int {
	fs := flag.NewFlagSet("process", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	envLoader := cli.AddEnvFlag(fs, ".env", "Path to the .env file")
	timeout := fs.Duration("timeout", 30*time.Minute, "Command timeout")
	dedupeOnly := fs.Bool("dedupe-only", false, "Skip scoring; only delete duplicates")
	symbol := fs.String("symbol", "", "Restrict the re-sweep to one symbol")
	pageSize := fs.Int("page-size", pipeline.DefaultPageSize, "Unscored records fetched per page")
	pace := fs.Duration("pace", pipeline.DefaultPace, "Delay between scoring API calls")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	if *pageSize <= 0 {
		fmt.Fprintln(os.Stderr, "--page-size must be > 0")
		return 2
	}

	if envLoader != nil {
		if _, err := envLoader.Load(); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		}
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		return 1
	}

	logger, err := logging.New(cfg.Environment, cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		return 1
	}

	var scorer pipeline.Scorer
	if !*dedupeOnly {
		if err := cfg.ValidateScoring(); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
			return 1
		}
		client, err := scoring.NewClient(scoring.Options{
			BaseURL: cfg.GeminiBaseURL,
			Model:   cfg.GeminiModel,
			APIKey:  cfg.GeminiAPIKey,
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to build scoring client: %v\n", err)
			return 1
		}
		scorer = client
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		logger.Error().Err(err).Msg("process command failed to connect to database")
		fmt.Fprintf(os.Stderr, "Failed to connect to database: %v\n", err)
		return 1
	}
	defer pool.Close()

	svc := pipeline.NewService(pool, scorer, nil, logger)
	result, err := svc.Run(ctx, pipeline.Options{
		PageSize:   *pageSize,
		Pace:       *pace,
		DedupeOnly: *dedupeOnly,
		Symbol:     strings.ToUpper(strings.TrimSpace(*symbol)),
	})
	if err != nil {
		logger.Error().Err(err).Msg("process run failed")
		fmt.Fprintf(os.Stderr, "Process failed: %v\n", err)
		return 1
	}

	logger.Info().
		Int("processed", result.Processed).
		Int("noise_deleted", result.NoiseDeleted).
		Int("dup_deleted", result.DupDeleted).
		Int("scored", result.Scored).
		Int("score_failed", result.ScoreFailed).
		Int("resweep_deleted", result.ResweepDeleted).
		Msg("process completed")
	fmt.Printf("process processed=%d noise_deleted=%d dup_deleted=%d scored=%d score_failed=%d resweep_deleted=%d\n",
		result.Processed, result.NoiseDeleted, result.DupDeleted, result.Scored, result.ScoreFailed, result.ResweepDeleted)
	return 0
}
