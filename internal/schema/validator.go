// Package schema validates ingest payloads for news records before they
// reach the database.
package schema

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed news_record.schema.json
var newsRecordSchemaJSON string

// NewsRecordPayload is one record as submitted by an ingest source.
type NewsRecordPayload struct {
	PayloadVersion     string  `json:"payload_version"`
	Symbol             string  `json:"symbol"`
	Title              string  `json:"title"`
	Content            string  `json:"content,omitempty"`
	PublishedAt        *string `json:"published_at,omitempty"`
	Source             string  `json:"source,omitempty"`
	NewsURL            *string `json:"news_url,omitempty"`
	Language           string  `json:"language,omitempty"`
	MktCapChange1Month *string `json:"mkt_cap_change_1_month,omitempty"`
}

var (
	compileOnce       sync.Once
	compiledSchema    *jsonschema.Schema
	compiledSchemaErr error
)

// ValidateNewsRecordPayload checks a raw payload against the embedded JSON
// schema plus the semantic rules the schema cannot express, and returns the
// decoded payload with the symbol uppercased.
func ValidateNewsRecordPayload(payload json.RawMessage) (*NewsRecordPayload, error) {
	value, err := decodeStrictJSON(payload)
	if err != nil {
		return nil, fmt.Errorf("decode payload JSON: %w", err)
	}

	schema, err := loadSchema()
	if err != nil {
		return nil, fmt.Errorf("load schema: %w", err)
	}

	if err := schema.Validate(value); err != nil {
		return nil, fmt.Errorf("schema validation failed: %w", err)
	}

	normalized, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("normalize payload JSON: %w", err)
	}

	var record NewsRecordPayload
	if err := json.Unmarshal(normalized, &record); err != nil {
		return nil, fmt.Errorf("unmarshal payload: %w", err)
	}

	if err := validateSemantics(&record); err != nil {
		return nil, err
	}

	record.Symbol = strings.ToUpper(strings.TrimSpace(record.Symbol))
	return &record, nil
}

func loadSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		compiler.Draft = jsonschema.Draft2020
		compiler.AssertFormat = true

		if err := compiler.AddResource("news_record.schema.json", strings.NewReader(newsRecordSchemaJSON)); err != nil {
			compiledSchemaErr = fmt.Errorf("add schema resource: %w", err)
			return
		}

		schema, err := compiler.Compile("news_record.schema.json")
		if err != nil {
			compiledSchemaErr = fmt.Errorf("compile schema: %w", err)
			return
		}

		compiledSchema = schema
	})

	if compiledSchemaErr != nil {
		return nil, compiledSchemaErr
	}
	if compiledSchema == nil {
		return nil, fmt.Errorf("schema not initialized")
	}
	return compiledSchema, nil
}

func decodeStrictJSON(raw []byte) (any, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("payload is empty")
	}

	decoder := json.NewDecoder(bytes.NewReader(trimmed))
	decoder.UseNumber()

	var value any
	if err := decoder.Decode(&value); err != nil {
		return nil, err
	}

	if err := decoder.Decode(&struct{}{}); err != io.EOF {
		return nil, fmt.Errorf("payload contains trailing content")
	}

	return value, nil
}

func validateSemantics(record *NewsRecordPayload) error {
	if record == nil {
		return fmt.Errorf("payload is nil")
	}

	if strings.TrimSpace(record.PayloadVersion) != "v1" {
		return fmt.Errorf("payload_version must be v1")
	}
	if strings.TrimSpace(record.Symbol) == "" {
		return fmt.Errorf("symbol must not be empty")
	}
	if strings.TrimSpace(record.Title) == "" {
		return fmt.Errorf("title must not be empty")
	}

	if record.PublishedAt != nil {
		if _, err := time.Parse(time.RFC3339, strings.TrimSpace(*record.PublishedAt)); err != nil {
			return fmt.Errorf("published_at must be RFC3339: %w", err)
		}
	}
	if record.NewsURL != nil {
		trimmed := strings.TrimSpace(*record.NewsURL)
		if trimmed == "" {
			return fmt.Errorf("news_url must not be empty")
		}
		if _, err := url.ParseRequestURI(trimmed); err != nil {
			return fmt.Errorf("news_url is not a valid URI: %w", err)
		}
	}

	return nil
}

// ParsePublishedAt converts a validated payload timestamp to UTC.
func ParsePublishedAt(record *NewsRecordPayload) (*time.Time, error) {
	if record == nil || record.PublishedAt == nil {
		return nil, nil
	}
	parsed, err := time.Parse(time.RFC3339, strings.TrimSpace(*record.PublishedAt))
	if err != nil {
		return nil, fmt.Errorf("parse published_at: %w", err)
	}
	utc := parsed.UTC()
	return &utc, nil
}
