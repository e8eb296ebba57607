// internal/cli/examples.go
package cli

import (
	"errors"
	"fmt"
	"io"
)

// ErrPrintedAndExitOK is returned by ParseArgs when the caller requested examples.
// Apps should catch this and exit 0 after printing examples.
var ErrPrintedAndExitOK = errors.New("examples requested")

// PrintExamples prints a small quickstart, followed by a one-line tip
// to discover full help.
func PrintExamples(out io.Writer) {
	if out == nil {
		return
	}
	_, _ = fmt.Fprintln(out, "peergrade — quickstart")
	_, _ = fmt.Fprintln(out, "\nCompile one survey export against a gradebook roster:")
	_, _ = fmt.Fprintln(out, "  peergrade \\")
	_, _ = fmt.Fprintln(out, "    --roster gradebook.csv \\")
	_, _ = fmt.Fprintln(out, "    --out compiled.xlsx \\")
	_, _ = fmt.Fprintln(out, "    \"Group Survey (Responses).xlsx\"")
	_, _ = fmt.Fprintln(out, "\nNon-interactive run, CSV on STDOUT:")
	_, _ = fmt.Fprintln(out, "  peergrade --roster gradebook.csv --batch --format csv --out - survey.xlsx")
	_, _ = fmt.Fprintln(out, "\nRemember manual resolutions across runs:")
	_, _ = fmt.Fprintln(out, "  peergrade --roster gradebook.csv --alias-db aliases.db survey.xlsx")
	_, _ = fmt.Fprintln(out, "\nTip: run with --help for all flags.")
}
