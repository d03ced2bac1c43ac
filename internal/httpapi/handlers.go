package httpapi

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"horse.fit/newswash/internal/db"
	"horse.fit/newswash/internal/globaltime"
	"horse.fit/newswash/internal/reader"
)

type checkStockResponse struct {
	Valid    bool    `json:"valid"`
	Company  string  `json:"company,omitempty"`
	Exchange string  `json:"exchange,omitempty"`
	Error    *string `json:"error"`
}

type recordPreviewResponse struct {
	RecordID  int64  `json:"record_id"`
	Symbol    string `json:"symbol"`
	Title     string `json:"title"`
	Text      string `json:"text"`
	Truncated bool   `json:"truncated"`
}

func (s *Server) handleHealth(c echo.Context) error {
	return success(c, map[string]any{
		"service": "newswash",
		"time":    globaltime.UTC(),
	})
}

// handleCheckStock reports whether a symbol is a listed A-share. Symbols on
// exchanges other than SSE and SZSE exist in the listing table but are not
// valid for this corpus.
func (s *Server) handleCheckStock(c echo.Context) error {
	symbol := strings.ToUpper(strings.TrimSpace(c.QueryParam("symbol")))
	if symbol == "" {
		message := "缺少股票代码"
		return c.JSON(http.StatusBadRequest, checkStockResponse{Valid: false, Error: &message})
	}

	listing, err := s.store.LookupCompany(c.Request().Context(), symbol)
	if err != nil {
		if db.IsNoRows(err) {
			message := "股票代码不存在"
			return c.JSON(http.StatusNotFound, checkStockResponse{Valid: false, Error: &message})
		}
		s.logger.Error().Err(err).Str("symbol", symbol).Msg("company lookup failed")
		message := "查询数据库失败"
		return c.JSON(http.StatusInternalServerError, checkStockResponse{Valid: false, Error: &message})
	}

	exchange := strings.ToUpper(strings.TrimSpace(listing.Exchange))
	isCN := exchange == "SSE" || exchange == "SZSE"

	resp := checkStockResponse{
		Valid:    isCN,
		Company:  listing.Description,
		Exchange: listing.Exchange,
	}
	if !isCN {
		message := "非A股市场股票"
		resp.Error = &message
	}
	return c.JSON(http.StatusOK, resp)
}

func (s *Server) handleRecords(c echo.Context) error {
	limit, err := parsePositiveInt(c.QueryParam("limit"), defaultListLimit, 1, maxListLimit)
	if err != nil {
		return failValidation(c, map[string]string{"limit": err.Error()})
	}

	unscored := false
	if raw := strings.TrimSpace(c.QueryParam("unscored")); raw != "" {
		unscored, err = strconv.ParseBool(raw)
		if err != nil {
			return failValidation(c, map[string]string{"unscored": "must be a boolean"})
		}
	}

	records, err := s.store.ListRecords(c.Request().Context(), db.RecordListOptions{
		Symbol:   strings.ToUpper(strings.TrimSpace(c.QueryParam("symbol"))),
		Unscored: unscored,
		Limit:    limit,
	})
	if err != nil {
		s.logger.Error().Err(err).Msg("list records failed")
		return internalError(c, "Failed to load records")
	}

	return success(c, map[string]any{
		"items": records,
		"count": len(records),
	})
}

func (s *Server) handleRecordDetail(c echo.Context) error {
	id, err := parseRecordID(c.Param("id"))
	if err != nil {
		return failValidation(c, map[string]string{"id": err.Error()})
	}

	record, err := s.store.GetRecord(c.Request().Context(), id)
	if err != nil {
		if db.IsNoRows(err) {
			return failNotFound(c, "Record not found")
		}
		s.logger.Error().Err(err).Int64("record_id", id).Msg("load record failed")
		return internalError(c, "Failed to load record")
	}

	return success(c, record)
}

// handleRecordPreview fetches the article behind the record's URL and
// returns its readable text. Nothing is persisted; stored content stays as
// ingested.
func (s *Server) handleRecordPreview(c echo.Context) error {
	id, err := parseRecordID(c.Param("id"))
	if err != nil {
		return failValidation(c, map[string]string{"id": err.Error()})
	}

	record, err := s.store.GetRecord(c.Request().Context(), id)
	if err != nil {
		if db.IsNoRows(err) {
			return failNotFound(c, "Record not found")
		}
		s.logger.Error().Err(err).Int64("record_id", id).Msg("load record failed")
		return internalError(c, "Failed to load record")
	}

	if record.NewsURL == nil || strings.TrimSpace(*record.NewsURL) == "" {
		return fail(c, http.StatusUnprocessableEntity, "Record has no news URL", nil)
	}

	text, err := s.fetchArticle(c.Request().Context(), *record.NewsURL, record.NewsTitle)
	if err != nil {
		s.logger.Warn().Err(err).Int64("record_id", id).Msg("article preview fetch failed")
		return fail(c, http.StatusBadGateway, "Failed to fetch article", nil)
	}

	clipped, truncated := reader.TruncateText(text, reader.DefaultPreviewChars)
	return success(c, recordPreviewResponse{
		RecordID:  record.ID,
		Symbol:    record.Symbol,
		Title:     record.NewsTitle,
		Text:      clipped,
		Truncated: truncated,
	})
}

func (s *Server) handleSymbols(c echo.Context) error {
	counts, err := s.store.SymbolCounts(c.Request().Context())
	if err != nil {
		s.logger.Error().Err(err).Msg("query symbol counts failed")
		return internalError(c, "Failed to load symbols")
	}
	return success(c, map[string]any{
		"items": counts,
		"count": len(counts),
	})
}

func parseRecordID(raw string) (int64, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return 0, fmt.Errorf("is required")
	}
	id, err := strconv.ParseInt(trimmed, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("must be a positive integer")
	}
	return id, nil
}

func parsePositiveInt(raw string, defaultValue, minValue, maxValue int) (int, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return defaultValue, nil
	}

	value, err := strconv.Atoi(trimmed)
	if err != nil {
		return 0, fmt.Errorf("must be an integer")
	}
	if value < minValue || value > maxValue {
		return 0, fmt.Errorf("must be between %d and %d", minValue, maxValue)
	}
	return value, nil
}
