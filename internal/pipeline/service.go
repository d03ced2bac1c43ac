// Package pipeline drives the batch cleanup run over stored news records:
// a scoring pass that classifies, deduplicates, and grades every unscored
// record, followed by a full chronological re-sweep per symbol that catches
// duplicates the bounded lookback window missed.
package pipeline

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"horse.fit/newswash/internal/classify"
	"horse.fit/newswash/internal/db"
	"horse.fit/newswash/internal/dedupe"
	"horse.fit/newswash/internal/scoring"
)

const (
	DefaultPageSize = 30
	DefaultPace     = 600 * time.Millisecond
)

// RecordStore is the slice of the record store the pipeline consumes.
type RecordStore interface {
	SelectUnscored(ctx context.Context, limit int) ([]db.NewsRecord, error)
	SelectRecentBySymbol(ctx context.Context, symbol string, beforeID int64, limit int) ([]db.NewsRecord, error)
	SelectAllBySymbolChronological(ctx context.Context, symbol string, limit int) ([]db.NewsRecord, error)
	DistinctSymbols(ctx context.Context) ([]string, error)
	DeleteRecord(ctx context.Context, id int64) error
	UpdateScore(ctx context.Context, id int64, grade float64, reason string) error
}

// Scorer grades one record; any error is a retryable failure and the record
// stays unscored.
type Scorer interface {
	Score(ctx context.Context, req scoring.Request) (scoring.Result, error)
}

// Options controls one pipeline run.
type Options struct {
	PageSize   int
	Pace       time.Duration
	DedupeOnly bool
	Symbol     string
}

// Result reports end-of-run counters.
type Result struct {
	Processed      int
	NoiseDeleted   int
	DupDeleted     int
	Scored         int
	ScoreFailed    int
	ResweepDeleted int
}

type Service struct {
	store    RecordStore
	scorer   Scorer
	detector *dedupe.Detector
	logger   zerolog.Logger
}

func NewService(store RecordStore, scorer Scorer, detector *dedupe.Detector, logger zerolog.Logger) *Service {
	if detector == nil {
		detector = dedupe.NewDetector(dedupe.DefaultConfig(), nil)
	}
	return &Service{
		store:    store,
		scorer:   scorer,
		detector: detector,
		logger:   logger,
	}
}

// Run executes the scoring pass (unless DedupeOnly) and then the full
// re-sweep. The scoring pass only ever touches unscored records, so a run
// killed midway resumes cleanly from store state.
func (s *Service) Run(ctx context.Context, opts Options) (Result, error) {
	if s == nil || s.store == nil {
		return Result{}, fmt.Errorf("pipeline service is not initialized")
	}

	var result Result

	if !opts.DedupeOnly {
		if s.scorer == nil {
			return result, fmt.Errorf("scorer is required unless running dedupe-only")
		}
		if err := s.runScoringPass(ctx, opts, &result); err != nil {
			return result, err
		}
	}

	if err := s.runResweep(ctx, opts.Symbol, &result); err != nil {
		return result, err
	}

	return result, nil
}

// runScoringPass pages through unscored records oldest-first. Per record:
// market noise is deleted, duplicates of the recent window are deleted, and
// everything else is graded. A record whose grading or deletion failed is
// skipped for the rest of the run so a page of persistent failures cannot
// loop forever.
func (s *Service) runScoringPass(ctx context.Context, opts Options, result *Result) error {
	pageSize := opts.PageSize
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	pace := opts.Pace
	if pace <= 0 {
		pace = DefaultPace
	}

	skipped := make(map[int64]struct{})

	for {
		records, err := s.store.SelectUnscored(ctx, pageSize)
		if err != nil {
			return fmt.Errorf("select unscored records: %w", err)
		}
		if len(records) == 0 {
			return nil
		}

		progressed := false
		for _, rec := range records {
			if _, ok := skipped[rec.ID]; ok {
				continue
			}
			progressed = true
			result.Processed++

			if classify.IsMarketNoise(rec.NewsTitle, rec.NewsContent) {
				if err := s.store.DeleteRecord(ctx, rec.ID); err != nil {
					s.logger.Error().Err(err).Int64("record_id", rec.ID).Msg("failed to delete market noise record")
					skipped[rec.ID] = struct{}{}
					continue
				}
				s.logger.Info().Int64("record_id", rec.ID).Str("symbol", rec.Symbol).Msg("deleted market noise record")
				result.NoiseDeleted++
				continue
			}

			if s.isDuplicate(ctx, rec) {
				if err := s.store.DeleteRecord(ctx, rec.ID); err != nil {
					s.logger.Error().Err(err).Int64("record_id", rec.ID).Msg("failed to delete duplicate record")
					skipped[rec.ID] = struct{}{}
					continue
				}
				s.logger.Info().Int64("record_id", rec.ID).Str("symbol", rec.Symbol).Msg("deleted duplicate record")
				result.DupDeleted++
				continue
			}

			if err := s.scoreRecord(ctx, rec); err != nil {
				s.logger.Warn().Err(err).Int64("record_id", rec.ID).Str("symbol", rec.Symbol).Msg("scoring failed, record left unscored")
				result.ScoreFailed++
				skipped[rec.ID] = struct{}{}
			} else {
				result.Scored++
			}

			// Fixed pacing between external calls; the scoring service is
			// quota-limited and there is no adaptive backoff.
			if err := sleepContext(ctx, pace); err != nil {
				return err
			}
		}

		if !progressed {
			return nil
		}
	}
}

// isDuplicate checks the candidate against a bounded window of earlier
// same-symbol records, most recent first. Window read failures degrade to
// "not a duplicate": wrongly keeping a record is recoverable by the
// re-sweep, wrongly deleting one is not.
func (s *Service) isDuplicate(ctx context.Context, rec db.NewsRecord) bool {
	if strings.TrimSpace(rec.Symbol) == "" {
		return false
	}

	lookback := s.detector.Config().RecentLookback
	priors, err := s.store.SelectRecentBySymbol(ctx, rec.Symbol, rec.ID, lookback)
	if err != nil {
		s.logger.Warn().Err(err).Int64("record_id", rec.ID).Str("symbol", rec.Symbol).Msg("duplicate lookback query failed, treating record as unique")
		return false
	}
	if len(priors) == 0 {
		return false
	}

	candidate := s.detector.Fingerprint(toDetectorRecord(rec))
	return s.detector.IsDuplicateOf(candidate, toDetectorRecords(priors))
}

func (s *Service) scoreRecord(ctx context.Context, rec db.NewsRecord) error {
	scored, err := s.scorer.Score(ctx, scoring.Request{
		Symbol:  rec.Symbol,
		Title:   rec.NewsTitle,
		Content: rec.NewsContent,
	})
	if err != nil {
		return err
	}

	if err := s.store.UpdateScore(ctx, rec.ID, scored.Grade, scored.Reason); err != nil {
		return fmt.Errorf("persist score: %w", err)
	}

	s.logger.Info().
		Int64("record_id", rec.ID).
		Str("symbol", rec.Symbol).
		Float64("grade", scored.Grade).
		Msg("scored record")
	return nil
}

// runResweep walks each symbol's full kept set chronologically and deletes
// later duplicates of earlier records. One symbol's failure is logged and
// the rest continue.
func (s *Service) runResweep(ctx context.Context, onlySymbol string, result *Result) error {
	var symbols []string
	if trimmed := strings.TrimSpace(onlySymbol); trimmed != "" {
		symbols = []string{trimmed}
	} else {
		var err error
		symbols, err = s.store.DistinctSymbols(ctx)
		if err != nil {
			s.logger.Warn().Err(err).Msg("resweep skipped: listing symbols failed")
			return nil
		}
	}

	for _, symbol := range symbols {
		deleted, err := s.resweepSymbol(ctx, symbol)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			s.logger.Warn().Err(err).Str("symbol", symbol).Msg("resweep failed for symbol")
			continue
		}
		result.ResweepDeleted += deleted
	}
	return nil
}

func (s *Service) resweepSymbol(ctx context.Context, symbol string) (int, error) {
	limit := s.detector.Config().SweepLimit
	records, err := s.store.SelectAllBySymbolChronological(ctx, symbol, limit)
	if err != nil {
		return 0, fmt.Errorf("select records for resweep: %w", err)
	}
	if len(records) <= 1 {
		return 0, nil
	}

	deleted := 0
	for _, deletion := range s.detector.Sweep(toDetectorRecords(records)) {
		if err := s.store.DeleteRecord(ctx, deletion.Record.ID); err != nil {
			s.logger.Error().Err(err).Int64("record_id", deletion.Record.ID).Str("symbol", symbol).Msg("failed to delete resweep duplicate")
			continue
		}
		s.logger.Info().
			Int64("record_id", deletion.Record.ID).
			Int64("kept_id", deletion.KeptID).
			Str("symbol", symbol).
			Msg("deleted resweep duplicate")
		deleted++
	}
	return deleted, nil
}

func toDetectorRecord(rec db.NewsRecord) dedupe.Record {
	return dedupe.Record{
		ID:          rec.ID,
		Symbol:      rec.Symbol,
		Source:      rec.Source,
		Title:       rec.NewsTitle,
		Content:     rec.NewsContent,
		PublishedAt: rec.PublishedAt,
	}
}

func toDetectorRecords(records []db.NewsRecord) []dedupe.Record {
	out := make([]dedupe.Record, 0, len(records))
	for _, rec := range records {
		out = append(out, toDetectorRecord(rec))
	}
	return out
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
