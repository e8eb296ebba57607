package roster

import (
	"compress/gzip"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const sampleCSV = `Student,ID,SIS User ID,SIS Login ID,Root Account,Section
"    Points Possible",,,,,
"Chen, Alex",101,9001,achen1,school,BIO-1101-S10
"Chen, Alex",102,9002,achen2,school,BIO-1101-S11
"Nguyen, Thi Minh",103,9003,tnguyen@school.edu,school,BIO-1101-S10
"Student, Test",999,,,school,BIO-1101-S10
,,,,,
`

func TestParseFiltersArtifactRows(t *testing.T) {
	ro, err := Parse(strings.NewReader(sampleCSV), "roster.csv")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if ro.Len() != 3 {
		t.Fatalf("Len = %d; want 3 (artifact rows dropped)", ro.Len())
	}
	if got := ro.Students[2].Name; got != "Thi Minh Nguyen" {
		t.Errorf("Name = %q; want %q", got, "Thi Minh Nguyen")
	}
}

func TestParseIndexes(t *testing.T) {
	ro, err := Parse(strings.NewReader(sampleCSV), "roster.csv")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	// Login lookups fold case and strip the mail domain.
	i, ok := ro.ByLogin(LoginKey("ACHEN1"))
	if !ok || ro.Students[i].ID != "101" {
		t.Fatalf("ByLogin(achen1) = %d, %v", i, ok)
	}
	i, ok = ro.ByLogin(LoginKey("tnguyen@students.school.edu"))
	if !ok || ro.Students[i].ID != "103" {
		t.Fatalf("ByLogin(tnguyen@...) = %d, %v", i, ok)
	}
	if hits := ro.ByName("Alex Chen"); len(hits) != 2 {
		t.Fatalf("ByName(Alex Chen) = %d hits; want 2", len(hits))
	}
	if hits := ro.ByName("Nobody Here"); hits != nil {
		t.Fatalf("ByName(unknown) = %v; want nil", hits)
	}
}

func TestParseMissingColumns(t *testing.T) {
	_, err := Parse(strings.NewReader("Student,ID\n\"Chen, Alex\",101\n"), "r.csv")
	if err == nil || !strings.Contains(err.Error(), "SIS Login ID") {
		t.Fatalf("err = %v; want missing-column error naming SIS Login ID", err)
	}
}

func TestParseDuplicateLogin(t *testing.T) {
	csv := "Student,ID,SIS User ID,SIS Login ID,Root Account,Section\n" +
		"\"Chen, Alex\",101,1,achen,school,S10\n" +
		"\"Chen, Alexa\",102,2,ACHEN@school.edu,school,S10\n"
	_, err := Parse(strings.NewReader(csv), "r.csv")
	if err == nil || !strings.Contains(err.Error(), "duplicate SIS Login ID") {
		t.Fatalf("err = %v; want duplicate login error", err)
	}
}

func TestLoadGzip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "roster.csv.gz")
	fh, err := os.Create(path)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	gw := gzip.NewWriter(fh)
	if _, err := gw.Write([]byte(sampleCSV)); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := gw.Close(); err != nil {
		t.Fatalf("close gzip: %v", err)
	}
	if err := fh.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	ro, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if ro.Len() != 3 {
		t.Fatalf("Len = %d; want 3", ro.Len())
	}
}

func TestDisplayName(t *testing.T) {
	cases := map[string]string{
		"Chen, Alex":       "Alex Chen",
		"Nguyen, Thi Minh": "Thi Minh Nguyen",
		"Madonna":          "Madonna",
		"  Lee ,  Bo  ":    "Bo Lee",
	}
	for in, want := range cases {
		if got := DisplayName(in); got != want {
			t.Errorf("DisplayName(%q) = %q; want %q", in, got, want)
		}
	}
}
