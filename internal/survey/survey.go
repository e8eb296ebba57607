// internal/survey/survey.go
package survey

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Sheet names a survey workbook is expected to carry. Responses is the
// Google Forms export; the other two describe it and may be replaced by
// a YAML map file.
const (
	SheetResponses = "Form Responses 1"
	SheetMap       = "ResponseMap"
	SheetPoints    = "PointMap"
)

// Targets and categories a map entry can carry. Any target starting
// with "peer" names a peer block; an empty target means general.
const (
	TargetGeneral = "general"
	TargetSelf    = "self"
	peerPrefix    = "peer"

	CatEmail    = "email"
	CatName     = "name"
	CatSection  = "section"
	CatTeam     = "team"
	CatRating   = "rating"
	CatComments = "comments"
	CatScore    = "score"
)

// Entry describes one response column: whose answer it is (Target),
// what kind of answer (Category), and the output header (Header, empty
// for context-only columns). Entries are positional; Entry i describes
// response column i.
type Entry struct {
	Target   string
	Category string
	Header   string
}

// Map is the positional description of a response sheet plus the
// rating scale.
type Map struct {
	Entries []Entry
	Points  map[string]float64
}

// RowRef names where a response row came from, for messages that
// survive merging.
type RowRef struct {
	Source string
	Row    int
}

func (r RowRef) String() string { return fmt.Sprintf("%s row %d", r.Source, r.Row) }

// Survey is one loaded response sheet bound to its map. Refs runs
// parallel to Rows.
type Survey struct {
	Source  string
	Headers []string
	Rows    [][]string
	Refs    []RowRef
	Map     *Map
}

// IsPeer reports whether target names a peer block.
func IsPeer(target string) bool { return strings.HasPrefix(target, peerPrefix) }

// peerNum extracts the trailing number of a peer target (peer10 -> 10).
func peerNum(target string) int {
	d := strings.TrimLeft(target, "abcdefghijklmnopqrstuvwxyz")
	n, err := strconv.Atoi(d)
	if err != nil {
		return 0
	}
	return n
}

// PeerGroups lists the peer targets in numeric order (peer2 before
// peer10).
func (m *Map) PeerGroups() []string {
	seen := map[string]struct{}{}
	var groups []string
	for _, e := range m.Entries {
		if !IsPeer(e.Target) {
			continue
		}
		if _, ok := seen[e.Target]; ok {
			continue
		}
		seen[e.Target] = struct{}{}
		groups = append(groups, e.Target)
	}
	sort.Slice(groups, func(i, j int) bool {
		ni, nj := peerNum(groups[i]), peerNum(groups[j])
		if ni != nj {
			return ni < nj
		}
		return groups[i] < groups[j]
	})
	return groups
}

// Find returns the indexes of entries with the given target and
// category, in column order.
func (m *Map) Find(target, category string) []int {
	var idx []int
	for i, e := range m.Entries {
		if e.Target == target && e.Category == category {
			idx = append(idx, i)
		}
	}
	return idx
}

// FindOne returns the first entry index for target/category, or false.
func (m *Map) FindOne(target, category string) (int, bool) {
	idx := m.Find(target, category)
	if len(idx) == 0 {
		return -1, false
	}
	return idx[0], true
}

// shape is the (category, header) sequence of a target's columns, used
// to check that peer blocks align.
func (m *Map) shape(target string) []string {
	var s []string
	for _, e := range m.Entries {
		if e.Target == target {
			s = append(s, e.Category+"\x00"+e.Header)
		}
	}
	return s
}

// Validate checks the structural rules every map must satisfy,
// whichever source it came from.
func (m *Map) Validate() error {
	if len(m.Entries) == 0 {
		return fmt.Errorf("response map has no columns")
	}
	if _, ok := m.FindOne(TargetSelf, CatName); !ok {
		if _, ok := m.FindOne(TargetSelf, CatEmail); !ok {
			return fmt.Errorf("response map has no self name or email column")
		}
	}

	groups := m.PeerGroups()
	if len(groups) > 0 {
		first := m.shape(groups[0])
		for _, g := range groups[1:] {
			if got := m.shape(g); !equalShape(first, got) {
				return fmt.Errorf("peer block %s does not mirror %s (same categories and headers, same order)", g, groups[0])
			}
		}
		if _, ok := m.FindOne(groups[0], CatName); !ok {
			return fmt.Errorf("peer block %s has no name column", groups[0])
		}
	}

	if len(m.ratingTargets()) > 0 && len(m.Points) == 0 {
		return fmt.Errorf("rating columns are mapped but the point scale is empty")
	}
	return nil
}

func (m *Map) ratingTargets() []int {
	var idx []int
	for i, e := range m.Entries {
		if e.Category == CatRating {
			idx = append(idx, i)
		}
	}
	return idx
}

func equalShape(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// Bind attaches m to headers, enforcing the positional contract.
func Bind(src string, headers []string, rows [][]string, refs []RowRef, m *Map) (*Survey, error) {
	if len(m.Entries) != len(headers) {
		return nil, fmt.Errorf("%s: response map describes %d columns but %q has %d",
			src, len(m.Entries), SheetResponses, len(headers))
	}
	return &Survey{Source: src, Headers: headers, Rows: rows, Refs: refs, Map: m}, nil
}

// Merge concatenates additional surveys onto base. Headers must match
// column for column; the base map stays in force.
func Merge(base *Survey, more ...*Survey) (*Survey, error) {
	for _, s := range more {
		if len(s.Headers) != len(base.Headers) {
			return nil, fmt.Errorf("%s: %d response columns, %s has %d",
				s.Source, len(s.Headers), base.Source, len(base.Headers))
		}
		for i := range s.Headers {
			if s.Headers[i] != base.Headers[i] {
				return nil, fmt.Errorf("%s: column %d is %q, %s has %q",
					s.Source, i+1, s.Headers[i], base.Source, base.Headers[i])
			}
		}
		base.Rows = append(base.Rows, s.Rows...)
		base.Refs = append(base.Refs, s.Refs...)
	}
	return base, nil
}
