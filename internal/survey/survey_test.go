package survey

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

type sheet struct {
	name string
	rows [][]string
}

func writeWorkbook(t *testing.T, path string, sheets []sheet) {
	t.Helper()
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()
	for si, s := range sheets {
		if si == 0 {
			if err := f.SetSheetName("Sheet1", s.name); err != nil {
				t.Fatalf("rename sheet: %v", err)
			}
		} else {
			if _, err := f.NewSheet(s.name); err != nil {
				t.Fatalf("new sheet: %v", err)
			}
		}
		for r, row := range s.rows {
			for c, v := range row {
				cell, err := excelize.CoordinatesToCellName(c+1, r+1)
				if err != nil {
					t.Fatalf("cell name: %v", err)
				}
				if err := f.SetCellValue(s.name, cell, v); err != nil {
					t.Fatalf("set cell: %v", err)
				}
			}
		}
	}
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("save workbook: %v", err)
	}
}

// fixtureSheets is a small but complete survey: general timestamp,
// self block, and two mirrored peer blocks.
func fixtureSheets() []sheet {
	responses := [][]string{
		{"Timestamp", "Email", "Your name", "Section", "Team", "Effort [self]", "Self comments",
			"Peer 1 name", "Peer 1 effort", "Peer 1 comments",
			"Peer 2 name", "Peer 2 effort", "Peer 2 comments"},
		{"2026-02-01 9:00", "achen@school.edu", "Alex Chen", "S10", "Alpha", "5 - Excellent", "went well",
			"Thi Minh Nguyen", "3 - OK", "solid work",
			"NA", "NA", "NA"},
		{"2026-02-01 9:05", "", "Nguyen Thi Minh", "S10", "Alpha", "3 - OK", "",
			"Alex Chen", "5 - Excellent", "great partner",
			"Mara Lee", "1 - Poor", "missed meetings"},
	}
	respMap := [][]string{
		{"How to fill this sheet", "", ""},
		{"", "", ""},
		{"student", "category", "newhead"},
		{"NA", "timestamp", "Timestamp"},
		{"self", "email", "NA"},
		{"self", "name", "Name"},
		{"self", "section", "Section"},
		{"self", "team", "Team"},
		{"self", "rating", "Effort"},
		{"self", "comments", "Comments"},
		{"peer1", "name", "NA"},
		{"peer1", "rating", "Effort"},
		{"peer1", "comments", "Comments"},
		{"peer2", "name", "NA"},
		{"peer2", "rating", "Effort"},
		{"peer2", "comments", "Comments"},
	}
	points := [][]string{
		{"ignore this row", ""},
		{"Rating", "Points"},
		{"5 - Excellent", "5"},
		{"3 - OK", "3"},
		{"1 - Poor", "1"},
	}
	return []sheet{
		{SheetResponses, responses},
		{SheetMap, respMap},
		{SheetPoints, points},
	}
}

func writeFixture(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "survey.xlsx")
	writeWorkbook(t, path, fixtureSheets())
	return path
}

func TestLoadWorkbook(t *testing.T) {
	sv, err := LoadWorkbook(writeFixture(t))
	if err != nil {
		t.Fatalf("LoadWorkbook: %v", err)
	}
	if len(sv.Headers) != 13 {
		t.Fatalf("headers = %d; want 13", len(sv.Headers))
	}
	if len(sv.Rows) != 2 || len(sv.Refs) != 2 {
		t.Fatalf("rows = %d refs = %d; want 2, 2", len(sv.Rows), len(sv.Refs))
	}
	if sv.Refs[1].Row != 3 {
		t.Errorf("second data row ref = %d; want sheet row 3", sv.Refs[1].Row)
	}
	if sv.Map == nil {
		t.Fatalf("embedded map not loaded")
	}
	if len(sv.Map.Entries) != 13 {
		t.Fatalf("map entries = %d; want 13", len(sv.Map.Entries))
	}
	if e := sv.Map.Entries[0]; e.Target != TargetGeneral || e.Category != "timestamp" {
		t.Errorf("entry 0 = %+v; want general/timestamp", e)
	}
	if e := sv.Map.Entries[4]; e.Target != TargetSelf || e.Category != CatTeam {
		t.Errorf("entry 4 = %+v; want self/team", e)
	}
	if v, ok := sv.Map.Points["3 - OK"]; !ok || v != 3 {
		t.Errorf("Points[3 - OK] = %v, %v", v, ok)
	}
	// Short rows come back padded to the header width.
	for i, r := range sv.Rows {
		if len(r) != len(sv.Headers) {
			t.Errorf("row %d width = %d; want %d", i, len(r), len(sv.Headers))
		}
	}
}

func TestLoadWorkbookColumnCountMismatch(t *testing.T) {
	sheets := fixtureSheets()
	sheets[1].rows = sheets[1].rows[:len(sheets[1].rows)-3] // drop the peer2 block
	path := filepath.Join(t.TempDir(), "bad.xlsx")
	writeWorkbook(t, path, sheets)
	_, err := LoadWorkbook(path)
	if err == nil {
		t.Fatalf("want column count mismatch error")
	}
	if !strings.Contains(err.Error(), "10") || !strings.Contains(err.Error(), "13") {
		t.Fatalf("err = %v; want both counts named", err)
	}
}

func TestLoadWorkbookMissingResponses(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.xlsx")
	writeWorkbook(t, path, []sheet{{"Other", [][]string{{"x"}}}})
	_, err := LoadWorkbook(path)
	if err == nil || !strings.Contains(err.Error(), SheetResponses) {
		t.Fatalf("err = %v; want missing responses sheet", err)
	}
}

func TestLoadWorkbookWithoutMapSheets(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bare.xlsx")
	writeWorkbook(t, path, []sheet{fixtureSheets()[0]})
	sv, err := LoadWorkbook(path)
	if err != nil {
		t.Fatalf("LoadWorkbook: %v", err)
	}
	if sv.Map != nil {
		t.Fatalf("Map = %+v; want nil without map sheets", sv.Map)
	}
}

func TestPeerGroupsNumericOrder(t *testing.T) {
	m := &Map{Entries: []Entry{
		{Target: "peer10", Category: CatName},
		{Target: "peer2", Category: CatName},
		{Target: "peer1", Category: CatName},
	}}
	got := m.PeerGroups()
	want := []string{"peer1", "peer2", "peer10"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("PeerGroups = %v; want %v", got, want)
		}
	}
}

func TestMapValidate(t *testing.T) {
	base := func() *Map {
		return &Map{
			Entries: []Entry{
				{Target: TargetSelf, Category: CatName, Header: "Name"},
				{Target: "peer1", Category: CatName},
				{Target: "peer1", Category: CatRating, Header: "Effort"},
				{Target: "peer2", Category: CatName},
				{Target: "peer2", Category: CatRating, Header: "Effort"},
			},
			Points: map[string]float64{"ok": 1},
		}
	}

	if err := base().Validate(); err != nil {
		t.Fatalf("valid map rejected: %v", err)
	}

	m := base()
	m.Entries[4].Header = "Quality" // peer2 no longer mirrors peer1
	if err := m.Validate(); err == nil || !strings.Contains(err.Error(), "peer2") {
		t.Errorf("shape mismatch err = %v", err)
	}

	m = base()
	m.Entries[0].Category = CatTeam
	if err := m.Validate(); err == nil || !strings.Contains(err.Error(), "self name or email") {
		t.Errorf("missing self identity err = %v", err)
	}

	m = base()
	m.Points = nil
	if err := m.Validate(); err == nil || !strings.Contains(err.Error(), "point scale") {
		t.Errorf("missing points err = %v", err)
	}

	m = base()
	m.Entries[1].Category = CatComments
	m.Entries[3].Category = CatComments
	if err := m.Validate(); err == nil || !strings.Contains(err.Error(), "no name column") {
		t.Errorf("peer without name err = %v", err)
	}
}

func TestMerge(t *testing.T) {
	a := &Survey{Source: "a.xlsx", Headers: []string{"x", "y"},
		Rows: [][]string{{"1", "2"}}, Refs: []RowRef{{"a.xlsx", 2}}}
	b := &Survey{Source: "b.xlsx", Headers: []string{"x", "y"},
		Rows: [][]string{{"3", "4"}}, Refs: []RowRef{{"b.xlsx", 2}}}
	merged, err := Merge(a, b)
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	if len(merged.Rows) != 2 || merged.Refs[1].Source != "b.xlsx" {
		t.Fatalf("merged = %d rows, refs %+v", len(merged.Rows), merged.Refs)
	}

	c := &Survey{Source: "c.xlsx", Headers: []string{"x", "z"}}
	if _, err := Merge(a, c); err == nil || !strings.Contains(err.Error(), "column 2") {
		t.Fatalf("header mismatch err = %v", err)
	}
}

func TestLoadMapFile(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "map.yaml")
	writeFile(t, good, `
columns:
  - {target: general, category: timestamp}
  - {target: self, category: name, header: Name}
  - {target: peer1, category: name}
  - {target: peer1, category: rating, header: Effort}
points:
  "5 - Excellent": 5
`)
	m, err := LoadMapFile(good)
	if err != nil {
		t.Fatalf("LoadMapFile: %v", err)
	}
	if len(m.Entries) != 4 || m.Entries[1].Header != "Name" {
		t.Fatalf("entries = %+v", m.Entries)
	}
	if m.Points["5 - Excellent"] != 5 {
		t.Fatalf("points = %v", m.Points)
	}

	bad := filepath.Join(dir, "bad.yaml")
	writeFile(t, bad, "columns:\n  - {target: general, category: timestamp}\n")
	if _, err := LoadMapFile(bad); err == nil || !strings.Contains(err.Error(), "self name or email") {
		t.Fatalf("err = %v; want self identity error", err)
	}
}
