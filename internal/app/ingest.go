package app

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"horse.fit/newswash/internal/cli"
	"horse.fit/newswash/internal/config"
	"horse.fit/newswash/internal/db"
	"horse.fit/newswash/internal/langdetect"
	"horse.fit/newswash/internal/logging"
	"horse.fit/newswash/internal/schema"
)

func runIngest(args []string) int {
	fs := flag.NewFlagSet("ingest", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	envLoader := cli.AddEnvFlag(fs, ".env", "Path to the .env file")
	timeout := fs.Duration("timeout", 20*time.Second, "Command timeout")
	payload := fs.String("payload", "", "News record payload JSON")
	payloadFile := fs.String("payload-file", "", "Path to payload JSON file (overrides --payload)")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
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

	payloadJSON, err := loadJSONInput(*payload, *payloadFile, "payload")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid payload: %v\n", err)
		return 2
	}

	record, err := schema.ValidateNewsRecordPayload(payloadJSON)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid payload: %v\n", err)
		return 2
	}

	publishedAt, err := schema.ParsePublishedAt(record)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid payload: %v\n", err)
		return 2
	}

	language := strings.TrimSpace(record.Language)
	if language == "" {
		language = langdetect.DetectISO6391(record.Title + " " + record.Content)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		logger.Error().Err(err).Msg("database connection failed")
		fmt.Fprintf(os.Stderr, "Failed to connect to database: %v\n", err)
		return 1
	}
	defer pool.Close()

	id, err := pool.InsertRecord(ctx, db.NewsRecord{
		Symbol:             record.Symbol,
		NewsTitle:          strings.TrimSpace(record.Title),
		NewsContent:        strings.TrimSpace(record.Content),
		PublishedAt:        publishedAt,
		Source:             strings.TrimSpace(record.Source),
		NewsURL:            record.NewsURL,
		Language:           language,
		MktCapChange1Month: record.MktCapChange1Month,
	})
	if err != nil {
		logger.Error().Err(err).Str("symbol", record.Symbol).Msg("ingest failed")
		fmt.Fprintf(os.Stderr, "Ingest failed: %v\n", err)
		return 1
	}

	logger.Info().
		Int64("record_id", id).
		Str("symbol", record.Symbol).
		Str("language", language).
		Msg("record ingested")
	fmt.Printf("record_id=%d symbol=%s language=%s\n", id, record.Symbol, language)
	return 0
}

func loadJSONInput(inlineValue, filePath, label string) (json.RawMessage, error) {
	if path := strings.TrimSpace(filePath); path != "" {
		payload, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read %s file %q: %w", label, path, err)
		}
		trimmed := strings.TrimSpace(string(payload))
		if trimmed == "" {
			return nil, fmt.Errorf("%s file %q is empty", label, path)
		}
		return json.RawMessage(trimmed), nil
	}

	trimmed := strings.TrimSpace(inlineValue)
	if trimmed == "" {
		return nil, fmt.Errorf("%s JSON is empty", label)
	}
	return json.RawMessage(trimmed), nil
}
