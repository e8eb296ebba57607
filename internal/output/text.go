// internal/output/text.go
package output

import (
	"bufio"
	"io"
	"strings"
)

func init() {
	register(FormatText, writeText)
}

// writeText prints the compiled table as TSV, one row per student.
func writeText(w io.Writer, doc *Doc) error {
	bw := bufio.NewWriter(w)
	t := doc.Result.Table
	if doc.Header {
		if _, err := bw.WriteString(strings.Join(t.Columns, "\t") + "\n"); err != nil {
			return err
		}
	}
	cells := make([]string, len(t.Columns))
	for _, row := range t.Rows {
		for i, c := range row {
			cells[i] = c.String()
		}
		if _, err := bw.WriteString(strings.Join(cells, "\t") + "\n"); err != nil {
			return err
		}
	}
	return bw.Flush()
}
