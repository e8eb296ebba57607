// internal/roster/load.go
package roster

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// Columns a gradebook export must carry. Order in the file is free; the
// header row decides the binding.
var requiredColumns = []string{
	"Student", "ID", "SIS User ID", "SIS Login ID", "Root Account", "Section",
}

// Load reads a gradebook CSV from path ("-" for stdin; .gz transparent).
func Load(path string) (*Roster, error) {
	rc, err := openReader(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rc.Close() }()
	return Parse(rc, path)
}

// Parse reads a gradebook CSV from r. src names the source in errors.
func Parse(r io.Reader, src string) (*Roster, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("%s: empty roster", src)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %v", src, err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\uFEFF")
	}

	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.TrimSpace(h)] = i
	}
	var missing []string
	for _, want := range requiredColumns {
		if _, ok := cols[want]; !ok {
			missing = append(missing, want)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%s: missing roster columns: %s", src, strings.Join(missing, ", "))
	}

	field := func(rec []string, name string) string {
		i := cols[name]
		if i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}

	ro := &Roster{}
	seenLogin := map[string]int{}
	ln := 1
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		ln++
		if err != nil {
			return nil, fmt.Errorf("%s:%d %v", src, ln, err)
		}
		raw := field(rec, "Student")
		if !isStudentRow(raw) {
			continue
		}
		s := Student{
			Student:     raw,
			ID:          field(rec, "ID"),
			SISUserID:   field(rec, "SIS User ID"),
			SISLoginID:  field(rec, "SIS Login ID"),
			RootAccount: field(rec, "Root Account"),
			Section:     field(rec, "Section"),
			Name:        DisplayName(raw),
		}
		if k := LoginKey(s.SISLoginID); k != "" {
			if prev, dup := seenLogin[k]; dup {
				return nil, fmt.Errorf("%s:%d duplicate SIS Login ID %q (also line %d)", src, ln, s.SISLoginID, prev)
			}
			seenLogin[k] = ln
		}
		ro.Students = append(ro.Students, s)
	}
	ro.index()
	return ro, nil
}

// isStudentRow filters the artifact rows gradebook exports carry: the
// points row, the test student, and blank padding. Matching is by
// content, not position, so exports with or without them both work.
func isStudentRow(name string) bool {
	switch {
	case name == "":
		return false
	case strings.EqualFold(name, "Points Possible"):
		return false
	case strings.EqualFold(name, "Student, Test"):
		return false
	}
	return true
}
