// Command integrity-check runs the full integrity rule set against the
// configured store and reports violations. It exits non-zero when blocking
// violations are present, making it usable as an operational health gate.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"schedcore/internal/core"
	"schedcore/pkg/domain"
)

var exitFunc = os.Exit

func main() {
	exitFunc(cli(os.Args[1:], os.Stdout, os.Stderr))
}

type report struct {
	Checked    int                `json:"rules_checked"`
	Violations []domain.Violation `json:"violations"`
	Blocking   int                `json:"blocking"`
}

func cli(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("integrity-check", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var format string
	fs.StringVar(&format, "format", "text", "output format: text|json")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if format != "text" && format != "json" {
		fmt.Fprintf(stderr, "unknown format %q\n", format)
		return 2
	}

	engine := core.NewDefaultRulesEngine()
	store, err := core.OpenPersistentStore(engine)
	if err != nil {
		fmt.Fprintf(stderr, "open store: %v\n", err)
		return 2
	}

	ctx := context.Background()
	var result domain.Result
	if err := store.View(ctx, func(view domain.TransactionView) error {
		var evalErr error
		result, evalErr = engine.Evaluate(ctx, view, nil)
		return evalErr
	}); err != nil {
		fmt.Fprintf(stderr, "evaluate rules: %v\n", err)
		return 2
	}

	blocking := 0
	for _, v := range result.Violations {
		if v.Severity == domain.SeverityBlock {
			blocking++
		}
	}

	switch format {
	case "json":
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(report{
			Checked:    len(engine.Rules()),
			Violations: result.Violations,
			Blocking:   blocking,
		}); err != nil {
			fmt.Fprintf(stderr, "encode report: %v\n", err)
			return 2
		}
	default:
		fmt.Fprintf(stdout, "rules checked: %d\n", len(engine.Rules()))
		fmt.Fprintln(stdout, domain.FormatViolations(result))
	}

	if blocking > 0 {
		return 1
	}
	return 0
}
