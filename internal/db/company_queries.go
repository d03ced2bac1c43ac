package db

import (
	"context"
	"fmt"
	"strings"
)

// LookupCompany finds one listing by symbol. Returns ErrNoRows when the
// symbol is unknown.
func (p *Pool) LookupCompany(ctx context.Context, symbol string) (*CompanyListing, error) {
	trimmed := strings.TrimSpace(symbol)
	if trimmed == "" {
		return nil, fmt.Errorf("symbol is required")
	}

	q := `
SELECT symbol, description, exchange
FROM company_list
WHERE symbol = ?
LIMIT 1
`
	var listing CompanyListing
	err := p.QueryRow(ctx, q, trimmed).Scan(&listing.Symbol, &listing.Description, &listing.Exchange)
	if err != nil {
		if IsNoRows(err) {
			return nil, ErrNoRows
		}
		return nil, fmt.Errorf("lookup company %s: %w", trimmed, err)
	}
	return &listing, nil
}
