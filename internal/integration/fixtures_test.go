// internal/integration/fixtures_test.go
package integration

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"
)

const rosterCSV = `Student,ID,SIS User ID,SIS Login ID,Root Account,Section
"Chen, Alex",101,1,achen,school,S10
"Nguyen, Thi Minh",102,2,tnguyen,school,S10
"Lee, Mara",103,3,mlee2,school,S11
"Lee, Mark",104,4,mlee1,school,S11
`

// surveyHeaders is the response sheet header row. The map below
// describes the columns positionally, so both must stay in step.
var surveyHeaders = []string{
	"Timestamp", "Email Address", "Your name", "Section", "Team",
	"Rate your own effort", "Any comments?",
	"Peer 1 name", "Peer 1 effort", "Peer 1 comments",
	"Peer 2 name", "Peer 2 effort", "Peer 2 comments",
}

var mapRows = [][]string{
	{"general", "timestamp", "Timestamp"},
	{"self", "email", ""},
	{"self", "name", "Name"},
	{"self", "section", "Section"},
	{"self", "team", "Team"},
	{"self", "rating", "Effort"},
	{"self", "comments", "Comments"},
	{"peer1", "name", ""},
	{"peer1", "rating", "Effort"},
	{"peer1", "comments", "Comments"},
	{"peer2", "name", ""},
	{"peer2", "rating", "Effort"},
	{"peer2", "comments", "Comments"},
}

var pointRows = [][]string{
	{"5 - Excellent", "5"},
	{"3 - OK", "3"},
	{"1 - Poor", "1"},
}

// happyRows carries two fully matchable responses: Alex by email,
// Thi Minh by surname-first name.
func happyRows() [][]string {
	return [][]string{
		{"t1", "achen@school.edu", "Alex Chen", "S10", "Alpha", "5 - Excellent", "went well",
			"Thi Minh Nguyen", "3 - OK", "solid work",
			"NA", "NA", "NA"},
		{"t2", "", "Nguyen Thi Minh", "S10", "Alpha", "3 - OK", "",
			"Alex Chen", "5 - Excellent", "great partner",
			"Mara Lee", "1 - Poor", "missed meetings"},
	}
}

func writeRoster(t *testing.T, dir string) string {
	t.Helper()
	p := filepath.Join(dir, "gradebook.csv")
	if err := os.WriteFile(p, []byte(rosterCSV), 0o644); err != nil {
		t.Fatalf("write roster: %v", err)
	}
	return p
}

// writeSurvey builds a survey workbook at path. With withMap false the
// workbook carries only the response sheet, as bare Forms downloads do.
func writeSurvey(t *testing.T, path string, rows [][]string, withMap bool) string {
	t.Helper()
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()
	if err := f.SetSheetName("Sheet1", "Form Responses 1"); err != nil {
		t.Fatalf("rename sheet: %v", err)
	}

	setRow := func(sheet string, row int, cells []string) {
		vals := make([]interface{}, len(cells))
		for i, c := range cells {
			vals[i] = c
		}
		cell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			t.Fatalf("cell name: %v", err)
		}
		if err := f.SetSheetRow(sheet, cell, &vals); err != nil {
			t.Fatalf("set row: %v", err)
		}
	}

	setRow("Form Responses 1", 1, surveyHeaders)
	for i, r := range rows {
		setRow("Form Responses 1", i+2, r)
	}

	if withMap {
		if _, err := f.NewSheet("ResponseMap"); err != nil {
			t.Fatalf("new sheet: %v", err)
		}
		// Banner rows above the header, like the real template.
		setRow("ResponseMap", 1, []string{"Response map"})
		setRow("ResponseMap", 3, []string{"student", "category", "newhead"})
		for i, r := range mapRows {
			setRow("ResponseMap", i+4, r)
		}

		if _, err := f.NewSheet("PointMap"); err != nil {
			t.Fatalf("new sheet: %v", err)
		}
		setRow("PointMap", 1, []string{"Rating", "Points"})
		for i, r := range pointRows {
			setRow("PointMap", i+2, r)
		}
	}

	if err := f.SaveAs(path); err != nil {
		t.Fatalf("save survey: %v", err)
	}
	return path
}

const sidecarMapYAML = `columns:
  - {target: general, category: timestamp, header: Timestamp}
  - {target: self, category: email}
  - {target: self, category: name, header: Name}
  - {target: self, category: section, header: Section}
  - {target: self, category: team, header: Team}
  - {target: self, category: rating, header: Effort}
  - {target: self, category: comments, header: Comments}
  - {target: peer1, category: name}
  - {target: peer1, category: rating, header: Effort}
  - {target: peer1, category: comments, header: Comments}
  - {target: peer2, category: name}
  - {target: peer2, category: rating, header: Effort}
  - {target: peer2, category: comments, header: Comments}
points:
  "5 - Excellent": 5
  "3 - OK": 3
  "1 - Poor": 1
`

func writeSidecarMap(t *testing.T, dir string) string {
	t.Helper()
	p := filepath.Join(dir, "map.yaml")
	if err := os.WriteFile(p, []byte(sidecarMapYAML), 0o644); err != nil {
		t.Fatalf("write map: %v", err)
	}
	return p
}
