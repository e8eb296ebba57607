// internal/common/na.go
package common

import "strings"

// DefaultNATokens are the blank markers Google Forms and spreadsheet
// round-trips produce for unanswered questions. Matching is
// case-insensitive and the empty cell always counts.
var DefaultNATokens = []string{"NA", "N/A", "NaN", "#N/A"}

// NASet decides whether a survey cell counts as "not answered".
type NASet map[string]struct{}

// NewNASet builds a set from the default tokens plus any extras.
func NewNASet(extra ...string) NASet {
	s := make(NASet, len(DefaultNATokens)+len(extra))
	for _, t := range DefaultNATokens {
		s[strings.ToLower(t)] = struct{}{}
	}
	for _, t := range extra {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		s[strings.ToLower(t)] = struct{}{}
	}
	return s
}

// Has reports whether cell is empty or one of the NA tokens.
func (s NASet) Has(cell string) bool {
	cell = strings.TrimSpace(cell)
	if cell == "" {
		return true
	}
	_, ok := s[strings.ToLower(cell)]
	return ok
}
