// internal/output/xlsx.go
package output

import (
	"io"
	"sort"
	"time"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"

	"peergrade/internal/compile"
	"peergrade/internal/namematch"
)

func init() {
	register(FormatXLSX, writeXLSX)
}

const maxColWidth = 40

// writeXLSX builds the three-sheet workbook: the compiled table, the
// unmatched report, and a run summary.
func writeXLSX(w io.Writer, doc *Doc) error {
	sheets := doc.Sheets.withDefaults()
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheets.Compiled); err != nil {
		return err
	}
	if err := writeCompiledSheet(f, sheets.Compiled, doc.Result.Table); err != nil {
		return err
	}
	if err := writeUnmatchedSheet(f, sheets.Unmatched, doc.Result.Unmatched); err != nil {
		return err
	}
	if err := writeSummarySheet(f, sheets.Summary, doc); err != nil {
		return err
	}
	return f.Write(w)
}

func writeCompiledSheet(f *excelize.File, sheet string, t *compile.Table) error {
	widths := make([]int, len(t.Columns))
	for i, h := range t.Columns {
		if err := setCell(f, sheet, i+1, 1, h); err != nil {
			return err
		}
		widths[i] = utf8.RuneCountInString(h)
	}
	for r, row := range t.Rows {
		for c, cell := range row {
			if cell.IsEmpty() {
				continue
			}
			if err := setCell(f, sheet, c+1, r+2, cell.Value()); err != nil {
				return err
			}
			if n := utf8.RuneCountInString(cell.String()); n > widths[c] {
				widths[c] = n
			}
		}
	}
	if err := styleHeader(f, sheet, len(t.Columns)); err != nil {
		return err
	}
	return setWidths(f, sheet, widths)
}

var unmatchedHeader = []string{"Kind", "Entered", "Email", "Section", "Team", "Source", "Reason"}

func writeUnmatchedSheet(f *excelize.File, sheet string, list []compile.Unmatched) error {
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}
	widths := make([]int, len(unmatchedHeader))
	for i, h := range unmatchedHeader {
		if err := setCell(f, sheet, i+1, 1, h); err != nil {
			return err
		}
		widths[i] = utf8.RuneCountInString(h)
	}
	for r, u := range list {
		record := []string{string(u.Kind), u.Entered, u.Email, u.Section, u.Team, u.Ref.String(), u.Reason}
		for c, v := range record {
			if v == "" {
				continue
			}
			if err := setCell(f, sheet, c+1, r+2, v); err != nil {
				return err
			}
			if n := utf8.RuneCountInString(v); n > widths[c] {
				widths[c] = n
			}
		}
	}
	if err := styleHeader(f, sheet, len(unmatchedHeader)); err != nil {
		return err
	}
	return setWidths(f, sheet, widths)
}

func writeSummarySheet(f *excelize.File, sheet string, doc *Doc) error {
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}
	st := doc.Result.Stats
	rows := [][2]any{
		{"Tool", doc.Meta.Tool},
		{"Version", doc.Meta.Version},
		{"Run ID", doc.Meta.RunID},
		{"Generated at", doc.Meta.GeneratedAt.Format(time.RFC3339)},
	}
	for _, src := range doc.Meta.Sources {
		rows = append(rows, [2]any{"Source", src})
	}
	rows = append(rows,
		[2]any{"Roster students", st.RosterStudents},
		[2]any{"Response rows", st.ResponseRows},
		[2]any{"Self matched", st.SelfMatched},
		[2]any{"Peer evals", st.PeerEvals},
		[2]any{"Peer matched", st.PeerMatched},
		[2]any{"Unmatched", st.Unmatched},
	)
	methods := make([]string, 0, len(st.Methods))
	for m := range st.Methods {
		methods = append(methods, string(m))
	}
	sort.Strings(methods)
	for _, m := range methods {
		rows = append(rows, [2]any{"Matched by " + m, st.Methods[namematch.Method(m)]})
	}
	for r, kv := range rows {
		if err := setCell(f, sheet, 1, r+1, kv[0]); err != nil {
			return err
		}
		if err := setCell(f, sheet, 2, r+1, kv[1]); err != nil {
			return err
		}
	}
	return f.SetColWidth(sheet, "A", "A", 20)
}

func setCell(f *excelize.File, sheet string, col, row int, v any) error {
	name, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return err
	}
	return f.SetCellValue(sheet, name, v)
}

// styleHeader bolds the header row and freezes it.
func styleHeader(f *excelize.File, sheet string, cols int) error {
	if cols == 0 {
		return nil
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	last, err := excelize.CoordinatesToCellName(cols, 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", last, bold); err != nil {
		return err
	}
	return f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
}

func setWidths(f *excelize.File, sheet string, widths []int) error {
	for i, w := range widths {
		name, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		cw := float64(w + 2)
		if cw > maxColWidth {
			cw = maxColWidth
		}
		if err := f.SetColWidth(sheet, name, name, cw); err != nil {
			return err
		}
	}
	return nil
}
