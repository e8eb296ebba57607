// internal/namematch/match.go
package namematch

import (
	"strings"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"

	"peergrade/internal/roster"
)

/* ----------------------- types --------------------- */

// Method records which stage produced a match.
type Method string

const (
	MethodEmail   Method = "email"
	MethodExact   Method = "exact"
	MethodCleaned Method = "cleaned"
	MethodAlias   Method = "alias"
	MethodFuzzy   Method = "fuzzy"
	MethodManual  Method = "manual"
)

// AliasLookup resolves a remembered alias key to a SIS login.
type AliasLookup interface {
	Lookup(key string) (login string, ok bool)
}

// Result is the outcome of one lookup. Index is the roster index, -1
// when nothing matched. Candidates carries the tie set when a stage
// found more than one student; ties are never matched automatically.
type Result struct {
	Index      int
	Method     Method
	Distance   int
	Candidates []int
}

func (r Result) Matched() bool   { return r.Index >= 0 }
func (r Result) Ambiguous() bool { return len(r.Candidates) > 1 }

func noMatch() Result { return Result{Index: -1} }

/* ---------------------- matcher -------------------- */

// Matcher resolves survey answers to roster students through staged
// lookups: exact name, cleaned name, remembered alias, then bounded
// edit distance. Each stage only runs when the previous found nothing.
type Matcher struct {
	ro      *roster.Roster
	maxDist int
	aliases AliasLookup

	// Warnf, when set, receives notes about degraded lookups (stale
	// alias entries). May be left nil.
	Warnf func(format string, a ...any)

	folded map[string][]int
	keys   []string
}

func (m *Matcher) warnf(format string, a ...any) {
	if m.Warnf != nil {
		m.Warnf(format, a...)
	}
}

// New builds a matcher over ro. maxDist bounds the fuzzy stage (0
// disables it). aliases may be nil.
func New(ro *roster.Roster, maxDist int, aliases AliasLookup) *Matcher {
	m := &Matcher{
		ro:      ro,
		maxDist: maxDist,
		aliases: aliases,
		folded:  make(map[string][]int, ro.Len()),
	}
	for i, s := range ro.Students {
		k := Fold(s.Name)
		if _, seen := m.folded[k]; !seen {
			m.keys = append(m.keys, k)
		}
		m.folded[k] = append(m.folded[k], i)
	}
	return m
}

// MatchEmail resolves a survey email against roster logins. The local
// part is compared case-insensitively; full addresses and bare logins
// both work.
func (m *Matcher) MatchEmail(email string) Result {
	k := roster.LoginKey(email)
	if k == "" {
		return noMatch()
	}
	if i, ok := m.ro.ByLogin(k); ok {
		return Result{Index: i, Method: MethodEmail}
	}
	return noMatch()
}

// MatchName resolves an entered name through the staged lookups.
func (m *Matcher) MatchName(entered string) Result {
	entered = strings.TrimSpace(entered)
	if entered == "" {
		return noMatch()
	}

	// Exact display form.
	if hits := m.ro.ByName(entered); len(hits) > 0 {
		return pick(hits, MethodExact, 0)
	}

	// Cleaned and reordered forms.
	var hits []int
	for _, k := range variantKeys(entered) {
		hits = merge(hits, m.folded[k])
	}
	if len(hits) > 0 {
		return pick(hits, MethodCleaned, 0)
	}

	// Remembered alias.
	if m.aliases != nil {
		if login, ok := m.aliases.Lookup(AliasKey(entered)); ok {
			if i, ok := m.ro.ByLogin(roster.LoginKey(login)); ok {
				return Result{Index: i, Method: MethodAlias}
			}
			m.warnf("alias for %q points at unknown login %q; ignoring", entered, login)
		}
	}

	return m.fuzzy(entered)
}

// fuzzy finds the roster names closest to the entered name within the
// distance budget. A tie at the best distance is ambiguous.
func (m *Matcher) fuzzy(entered string) Result {
	if m.maxDist <= 0 {
		return noMatch()
	}
	variants := variantKeys(entered)
	budget := m.maxDist
	// Short names get a tighter budget: two edits in four runes is a
	// different person, not a typo.
	if utf8.RuneCountInString(variants[0]) < 5 && budget > 1 {
		budget = 1
	}

	best := budget + 1
	var hits []int
	for _, k := range m.keys {
		d := budget + 1
		for _, v := range variants {
			if vd := levenshtein.ComputeDistance(v, k); vd < d {
				d = vd
			}
		}
		if d > budget || d > best {
			continue
		}
		if d < best {
			best = d
			hits = hits[:0]
		}
		hits = merge(hits, m.folded[k])
	}
	if len(hits) == 0 {
		return noMatch()
	}
	return pick(hits, MethodFuzzy, best)
}

func pick(hits []int, method Method, dist int) Result {
	if len(hits) == 1 {
		return Result{Index: hits[0], Method: method, Distance: dist}
	}
	return Result{Index: -1, Method: method, Distance: dist, Candidates: hits}
}

func merge(dst, src []int) []int {
	for _, i := range src {
		dup := false
		for _, j := range dst {
			if i == j {
				dup = true
				break
			}
		}
		if !dup {
			dst = append(dst, i)
		}
	}
	return dst
}
