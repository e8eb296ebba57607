// internal/output/csv.go
package output

import (
	"encoding/csv"
	"io"
)

func init() {
	register(FormatCSV, writeCSV)
}

// writeCSV prints the compiled table as RFC 4180 CSV, header included.
func writeCSV(w io.Writer, doc *Doc) error {
	cw := csv.NewWriter(w)
	t := doc.Result.Table
	if err := cw.Write(t.Columns); err != nil {
		return err
	}
	record := make([]string, len(t.Columns))
	for _, row := range t.Rows {
		for i, c := range row {
			record[i] = c.String()
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
