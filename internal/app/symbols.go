package app

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"horse.fit/newswash/internal/cli"
)

func runSymbols(args []string) int {
	fs := flag.NewFlagSet("symbols", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	envLoader := cli.AddEnvFlag(fs, ".env", "Path to the .env file")
	timeout := fs.Duration("timeout", 30*time.Second, "Command timeout")
	format := fs.String("format", outputFormatTable, "Output format: table or json")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
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

	counts, err := pool.SymbolCounts(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load symbol counts: %v\n", err)
		return 1
	}

	if outputFormat == outputFormatJSON {
		if err := printJSON(counts); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to encode symbol counts: %v\n", err)
			return 1
		}
		return 0
	}

	rows := make([][]string, 0, len(counts))
	for _, row := range counts {
		rows = append(rows, []string{
			row.Symbol,
			fmt.Sprintf("%d", row.RecordCount),
			fmt.Sprintf("%d", row.UnscoredCount),
			formatUTCTimestampPtr(row.EarliestAt),
			formatUTCTimestampPtr(row.LatestAt),
		})
	}
	if err := writeTable([]string{"SYMBOL", "RECORDS", "UNSCORED", "EARLIEST", "LATEST"}, rows); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to write table: %v\n", err)
		return 1
	}
	return 0
}
