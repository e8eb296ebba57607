// internal/points/points.go
package points

import (
	"fmt"
	"sort"
	"strings"

	"peergrade/internal/common"
)

// Scale converts rating answer text to points. Lookups fold case and
// whitespace so "5 - Excellent" and "5 -  excellent " score the same.
type Scale struct {
	points   map[string]float64
	spelling []string
}

func fold(s string) string {
	return strings.ToLower(common.CollapseSpaces(s))
}

// New builds a scale from rating text to points. Two spellings that fold
// to the same key with different points are an error.
func New(m map[string]float64) (*Scale, error) {
	s := &Scale{points: make(map[string]float64, len(m))}
	for text, pts := range m {
		k := fold(text)
		if k == "" {
			return nil, fmt.Errorf("points: blank rating text")
		}
		if prev, dup := s.points[k]; dup && prev != pts {
			return nil, fmt.Errorf("points: rating %q maps to both %v and %v", text, prev, pts)
		}
		s.points[k] = pts
		s.spelling = append(s.spelling, text)
	}
	sort.Strings(s.spelling)
	return s, nil
}

// Lookup returns the points for a rating answer; ok is false for
// unknown text.
func (s *Scale) Lookup(text string) (float64, bool) {
	v, ok := s.points[fold(text)]
	return v, ok
}

// Known lists the rating spellings the scale accepts, sorted.
func (s *Scale) Known() []string { return s.spelling }

func (s *Scale) Len() int { return len(s.points) }
