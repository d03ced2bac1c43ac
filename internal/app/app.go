package app

import (
	"fmt"
	"os"
	"strings"
)

// Run executes the CLI command and returns a process exit code.
func Run(args []string) int {
	if len(args) == 0 {
		printUsage()
		return 2
	}

	switch strings.ToLower(strings.TrimSpace(args[0])) {
	case "help", "--help", "-h":
		printUsage()
		return 0
	case "health":
		return runHealth(args[1:])
	case "ingest":
		return runIngest(args[1:])
	case "process", "run-once":
		return runProcess(args[1:])
	case "records":
		return runRecords(args[1:])
	case "symbols":
		return runSymbols(args[1:])
	case "serve":
		return runServe(args[1:])
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n\n", args[0])
		printUsage()
		return 2
	}
}

func printUsage() {
	fmt.Fprintln(os.Stderr, "newswash CLI")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "Usage:")
	fmt.Fprintln(os.Stderr, "  newswash <command> [flags]")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "Commands:")
	fmt.Fprintln(os.Stderr, "  health   Verify database connectivity")
	fmt.Fprintln(os.Stderr, "  ingest   Insert one news record from a JSON payload")
	fmt.Fprintln(os.Stderr, "  process  Score unscored records, delete noise and duplicates, re-sweep")
	fmt.Fprintln(os.Stderr, "  run-once Alias for process")
	fmt.Fprintln(os.Stderr, "  records  List stored news records")
	fmt.Fprintln(os.Stderr, "  symbols  Show per-symbol record counts")
	fmt.Fprintln(os.Stderr, "  serve    Start the JSON API server")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "Use \"newswash <command> -h\" for command-specific flags.")
}
