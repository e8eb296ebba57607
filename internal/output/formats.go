// internal/output/formats.go
package output

import (
	"fmt"
	"io"
	"sort"
)

// Output format names accepted by --format.
const (
	FormatXLSX = "xlsx"
	FormatCSV  = "csv"
	FormatText = "text"
	FormatJSON = "json"
)

// writers maps format name to renderer (format → handler). Each format
// file registers itself in init; registration is last-wins.
var writers = map[string]func(io.Writer, *Doc) error{}

func register(format string, fn func(io.Writer, *Doc) error) { writers[format] = fn }

// Formats lists the registered format names, sorted, for usage text
// and flag validation.
func Formats() []string {
	names := make([]string, 0, len(writers))
	for f := range writers {
		names = append(names, f)
	}
	sort.Strings(names)
	return names
}

// Known reports whether format has a registered writer.
func Known(format string) bool {
	_, ok := writers[format]
	return ok
}

// Write renders doc to w in the named format.
func Write(format string, w io.Writer, doc *Doc) error {
	fn, ok := writers[format]
	if !ok {
		return fmt.Errorf("unknown output format %q (no writer registered)", format)
	}
	return fn(w, doc)
}
