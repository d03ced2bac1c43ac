package app

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"horse.fit/newswash/internal/cli"
	"horse.fit/newswash/internal/db"
)

func runRecords(args []string) int {
	fs := flag.NewFlagSet("records", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	envLoader := cli.AddEnvFlag(fs, ".env", "Path to the .env file")
	timeout := fs.Duration("timeout", 30*time.Second, "Command timeout")
	symbol := fs.String("symbol", "", "Filter by symbol")
	unscored := fs.Bool("unscored", false, "Only records without a grade")
	limit := fs.Int("limit", 50, "Maximum records to list")
	format := fs.String("format", outputFormatTable, "Output format: table or json")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	if *limit <= 0 {
		fmt.Fprintln(os.Stderr, "--limit must be > 0")
		return 2
	}

	outputFormat, err := parseOutputFormat(*format, outputFormatTable)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	ctx, cancel, pool, err := connectReadPool(*timeout, envLoader)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return 1
	}
	defer cancel()
	defer pool.Close()

	records, err := pool.ListRecords(ctx, db.RecordListOptions{
		Symbol:   strings.ToUpper(strings.TrimSpace(*symbol)),
		Unscored: *unscored,
		Limit:    *limit,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to list records: %v\n", err)
		return 1
	}

	if outputFormat == outputFormatJSON {
		if err := printJSON(records); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to encode records: %v\n", err)
			return 1
		}
		return 0
	}

	rows := make([][]string, 0, len(records))
	for _, rec := range records {
		rows = append(rows, []string{
			fmt.Sprintf("%d", rec.ID),
			rec.Symbol,
			truncateForTable(rec.NewsTitle, 48),
			rec.Source,
			formatUTCTimestampPtr(rec.PublishedAt),
			formatGrade(rec.Grade),
		})
	}
	if err := writeTable([]string{"ID", "SYMBOL", "TITLE", "SOURCE", "PUBLISHED_AT", "GRADE"}, rows); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to write table: %v\n", err)
		return 1
	}
	return 0
}
