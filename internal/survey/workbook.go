// internal/survey/workbook.go
package survey

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"peergrade/internal/common"
)

// LoadWorkbook reads a survey workbook from path ("-" for stdin). The
// embedded ResponseMap/PointMap sheets are parsed when present; the
// returned survey has a nil Map when they are not (a map file must
// supply one, see LoadMapFile).
func LoadWorkbook(path string) (*Survey, error) {
	f, err := openWorkbook(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	headers, rows, refs, err := readResponses(f, path)
	if err != nil {
		return nil, err
	}

	if !hasSheet(f, SheetMap) {
		return &Survey{Source: path, Headers: headers, Rows: rows, Refs: refs}, nil
	}
	m, err := readMap(f, path)
	if err != nil {
		return nil, err
	}
	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %v", path, err)
	}
	return Bind(path, headers, rows, refs, m)
}

func openWorkbook(path string) (*excelize.File, error) {
	if path == "-" {
		return excelize.OpenReader(os.Stdin)
	}
	return excelize.OpenFile(path)
}

func hasSheet(f *excelize.File, name string) bool {
	i, err := f.GetSheetIndex(name)
	return err == nil && i >= 0
}

func readResponses(f *excelize.File, src string) ([]string, [][]string, []RowRef, error) {
	if !hasSheet(f, SheetResponses) {
		return nil, nil, nil, fmt.Errorf("%s: no %q sheet", src, SheetResponses)
	}
	raw, err := f.GetRows(SheetResponses)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("%s: %v", src, err)
	}
	if len(raw) == 0 {
		return nil, nil, nil, fmt.Errorf("%s: %q sheet is empty", src, SheetResponses)
	}
	headers := make([]string, len(raw[0]))
	for i, h := range raw[0] {
		headers[i] = strings.TrimSpace(h)
	}
	var rows [][]string
	var refs []RowRef
	for i, r := range raw[1:] {
		row := padRow(r, len(headers))
		if allBlank(row) {
			continue
		}
		rows = append(rows, row)
		refs = append(refs, RowRef{Source: src, Row: i + 2})
	}
	return headers, rows, refs, nil
}

// padRow restores the trailing cells GetRows trims from short rows.
func padRow(r []string, n int) []string {
	row := make([]string, n)
	for i := 0; i < n && i < len(r); i++ {
		row[i] = strings.TrimSpace(r[i])
	}
	return row
}

func allBlank(row []string) bool {
	for _, c := range row {
		if c != "" {
			return false
		}
	}
	return true
}

func readMap(f *excelize.File, src string) (*Map, error) {
	raw, err := f.GetRows(SheetMap)
	if err != nil {
		return nil, fmt.Errorf("%s: %v", src, err)
	}
	head, start, err := findHeaderRow(raw, []string{"student", "category", "newhead"})
	if err != nil {
		return nil, fmt.Errorf("%s: %q: %v", src, SheetMap, err)
	}
	na := common.NewNASet()
	cell := func(r []string, col int) string {
		if col >= len(r) {
			return ""
		}
		v := strings.TrimSpace(r[col])
		if na.Has(v) {
			return ""
		}
		return v
	}

	m := &Map{Points: map[string]float64{}}
	for _, r := range raw[start:] {
		target := strings.ToLower(cell(r, head["student"]))
		if target == "" {
			target = TargetGeneral
		}
		m.Entries = append(m.Entries, Entry{
			Target:   target,
			Category: strings.ToLower(cell(r, head["category"])),
			Header:   cell(r, head["newhead"]),
		})
	}

	if hasSheet(f, SheetPoints) {
		if err := readPoints(f, src, m); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func readPoints(f *excelize.File, src string, m *Map) error {
	raw, err := f.GetRows(SheetPoints)
	if err != nil {
		return fmt.Errorf("%s: %v", src, err)
	}
	head, start, err := findHeaderRow(raw, []string{"rating", "points"})
	if err != nil {
		return fmt.Errorf("%s: %q: %v", src, SheetPoints, err)
	}
	for i, r := range raw[start:] {
		var rating, pts string
		if head["rating"] < len(r) {
			rating = strings.TrimSpace(r[head["rating"]])
		}
		if head["points"] < len(r) {
			pts = strings.TrimSpace(r[head["points"]])
		}
		if rating == "" && pts == "" {
			continue
		}
		v, err := strconv.ParseFloat(pts, 64)
		if err != nil {
			return fmt.Errorf("%s: %q row %d: bad points %q", src, SheetPoints, start+i+1, pts)
		}
		if prev, dup := m.Points[rating]; dup && prev != v {
			return fmt.Errorf("%s: %q row %d: rating %q maps to both %v and %v",
				src, SheetPoints, start+i+1, rating, prev, v)
		}
		m.Points[rating] = v
	}
	return nil
}

// findHeaderRow scans the first rows of a sheet for the row carrying
// all wanted column names (case-insensitive). It returns the name to
// column-index binding and the index of the first data row. Sheets may
// carry instruction rows above the header; position is not assumed.
func findHeaderRow(raw [][]string, want []string) (map[string]int, int, error) {
	const scan = 10
	for i := 0; i < len(raw) && i < scan; i++ {
		head := map[string]int{}
		for col, h := range raw[i] {
			head[strings.ToLower(strings.TrimSpace(h))] = col
		}
		ok := true
		for _, w := range want {
			if _, found := head[w]; !found {
				ok = false
				break
			}
		}
		if ok {
			return head, i + 1, nil
		}
	}
	return nil, 0, fmt.Errorf("header row (%s) not found", strings.Join(want, ", "))
}
