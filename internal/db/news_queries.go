package db

import (
	"context"
	"fmt"
	"strings"
	"time"
)

const newsRecordColumns = `
	id,
	symbol,
	news_title,
	news_content,
	published_at,
	source,
	news_url,
	language,
	grade,
	reason,
	mkt_cap_change_1_month,
	created_at
`

// SelectUnscored returns records that have not been graded yet, oldest
// published first. The scoring pass pages through these until empty.
func (p *Pool) SelectUnscored(ctx context.Context, limit int) ([]NewsRecord, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("limit must be > 0")
	}

	q := `
SELECT ` + newsRecordColumns + `
FROM cn_company_news
WHERE grade IS NULL
ORDER BY published_at ASC NULLS LAST, id ASC
LIMIT ?
`
	return p.queryNewsRecords(ctx, q, limit)
}

// SelectRecentBySymbol returns up to limit records for the symbol with an id
// lower than beforeID, most recently published first. This is the bounded
// lookback window for per-record duplicate checks.
func (p *Pool) SelectRecentBySymbol(ctx context.Context, symbol string, beforeID int64, limit int) ([]NewsRecord, error) {
	if strings.TrimSpace(symbol) == "" {
		return nil, fmt.Errorf("symbol is required")
	}
	if limit <= 0 {
		return nil, fmt.Errorf("limit must be > 0")
	}

	q := `
SELECT ` + newsRecordColumns + `
FROM cn_company_news
WHERE symbol = ?
  AND id < ?
ORDER BY published_at DESC NULLS LAST, id DESC
LIMIT ?
`
	return p.queryNewsRecords(ctx, q, symbol, beforeID, limit)
}

// SelectAllBySymbolChronological returns the symbol's records in publication
// order with id as the tie-break, capped at limit. The re-sweep walks this
// order so the earliest copy of a duplicate cluster is the one kept.
func (p *Pool) SelectAllBySymbolChronological(ctx context.Context, symbol string, limit int) ([]NewsRecord, error) {
	if strings.TrimSpace(symbol) == "" {
		return nil, fmt.Errorf("symbol is required")
	}
	if limit <= 0 {
		return nil, fmt.Errorf("limit must be > 0")
	}

	q := `
SELECT ` + newsRecordColumns + `
FROM cn_company_news
WHERE symbol = ?
ORDER BY published_at ASC NULLS LAST, id ASC
LIMIT ?
`
	return p.queryNewsRecords(ctx, q, symbol, limit)
}

// DistinctSymbols lists every symbol that has at least one record.
func (p *Pool) DistinctSymbols(ctx context.Context) ([]string, error) {
	q := `
SELECT DISTINCT symbol
FROM cn_company_news
WHERE symbol IS NOT NULL AND symbol <> ''
ORDER BY symbol ASC
`
	rows, err := p.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("query distinct symbols: %w", err)
	}
	defer rows.Close()

	var symbols []string
	for rows.Next() {
		var symbol string
		if err := rows.Scan(&symbol); err != nil {
			return nil, fmt.Errorf("scan symbol: %w", err)
		}
		symbols = append(symbols, symbol)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate symbols: %w", err)
	}
	return symbols, nil
}

// DeleteRecord removes one record. Deletions are final; there is no
// soft-delete for news records.
func (p *Pool) DeleteRecord(ctx context.Context, id int64) error {
	tag, err := p.Exec(ctx, `DELETE FROM cn_company_news WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete record id=%d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("delete record id=%d: %w", id, ErrNoRows)
	}
	return nil
}

// UpdateScore persists grade and reason together; both null and both set are
// the only valid states for a record.
func (p *Pool) UpdateScore(ctx context.Context, id int64, grade float64, reason string) error {
	trimmedReason := strings.TrimSpace(reason)
	if trimmedReason == "" {
		return fmt.Errorf("reason is required")
	}

	tag, err := p.Exec(ctx, `UPDATE cn_company_news SET grade = ?, reason = ? WHERE id = ?`, grade, trimmedReason, id)
	if err != nil {
		return fmt.Errorf("update score id=%d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update score id=%d: %w", id, ErrNoRows)
	}
	return nil
}

// InsertRecord stores a new, unscored record and returns its id.
func (p *Pool) InsertRecord(ctx context.Context, rec NewsRecord) (int64, error) {
	if strings.TrimSpace(rec.Symbol) == "" {
		return 0, fmt.Errorf("symbol is required")
	}
	if strings.TrimSpace(rec.NewsTitle) == "" {
		return 0, fmt.Errorf("news title is required")
	}

	q := `
INSERT INTO cn_company_news (symbol, news_title, news_content, published_at, source, news_url, language, mkt_cap_change_1_month)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
RETURNING id
`
	var id int64
	err := p.QueryRow(ctx, q,
		rec.Symbol,
		rec.NewsTitle,
		rec.NewsContent,
		rec.PublishedAt,
		rec.Source,
		rec.NewsURL,
		rec.Language,
		rec.MktCapChange1Month,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert record: %w", err)
	}
	return id, nil
}

// GetRecord loads one record by id.
func (p *Pool) GetRecord(ctx context.Context, id int64) (*NewsRecord, error) {
	q := `
SELECT ` + newsRecordColumns + `
FROM cn_company_news
WHERE id = ?
`
	records, err := p.queryNewsRecords(ctx, q, id)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, ErrNoRows
	}
	return &records[0], nil
}

// RecordListOptions controls record listing queries.
type RecordListOptions struct {
	Symbol   string
	Unscored bool
	Limit    int
}

// ListRecords lists records for the CLI and API, newest published first.
func (p *Pool) ListRecords(ctx context.Context, opts RecordListOptions) ([]NewsRecord, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = 50
	}

	conditions := make([]string, 0, 2)
	args := make([]any, 0, 3)
	if symbol := strings.TrimSpace(opts.Symbol); symbol != "" {
		conditions = append(conditions, "symbol = ?")
		args = append(args, symbol)
	}
	if opts.Unscored {
		conditions = append(conditions, "grade IS NULL")
	}

	where := ""
	if len(conditions) > 0 {
		where = "WHERE " + strings.Join(conditions, " AND ")
	}

	q := `
SELECT ` + newsRecordColumns + `
FROM cn_company_news
` + where + `
ORDER BY published_at DESC NULLS LAST, id DESC
LIMIT ?
`
	args = append(args, limit)
	return p.queryNewsRecords(ctx, q, args...)
}

// SymbolCount is used by the symbols CLI command.
type SymbolCount struct {
	Symbol        string     `json:"symbol"`
	RecordCount   int64      `json:"record_count"`
	UnscoredCount int64      `json:"unscored_count"`
	EarliestAt    *time.Time `json:"earliest_at,omitempty"`
	LatestAt      *time.Time `json:"latest_at,omitempty"`
}

// SymbolCounts aggregates per-symbol record totals.
func (p *Pool) SymbolCounts(ctx context.Context) ([]SymbolCount, error) {
	q := `
SELECT
	symbol,
	COUNT(*) AS record_count,
	COUNT(*) FILTER (WHERE grade IS NULL) AS unscored_count,
	MIN(published_at) AS earliest_at,
	MAX(published_at) AS latest_at
FROM cn_company_news
WHERE symbol IS NOT NULL AND symbol <> ''
GROUP BY symbol
ORDER BY record_count DESC, symbol ASC
`
	rows, err := p.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("query symbol counts: %w", err)
	}
	defer rows.Close()

	var counts []SymbolCount
	for rows.Next() {
		var row SymbolCount
		if err := rows.Scan(&row.Symbol, &row.RecordCount, &row.UnscoredCount, &row.EarliestAt, &row.LatestAt); err != nil {
			return nil, fmt.Errorf("scan symbol count: %w", err)
		}
		counts = append(counts, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate symbol counts: %w", err)
	}
	return counts, nil
}

func (p *Pool) queryNewsRecords(ctx context.Context, query string, args ...any) ([]NewsRecord, error) {
	rows, err := p.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query news records: %w", err)
	}
	defer rows.Close()

	var records []NewsRecord
	for rows.Next() {
		var rec NewsRecord
		if err := rows.Scan(
			&rec.ID,
			&rec.Symbol,
			&rec.NewsTitle,
			&rec.NewsContent,
			&rec.PublishedAt,
			&rec.Source,
			&rec.NewsURL,
			&rec.Language,
			&rec.Grade,
			&rec.Reason,
			&rec.MktCapChange1Month,
			&rec.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan news record: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate news records: %w", err)
	}
	return records, nil
}
