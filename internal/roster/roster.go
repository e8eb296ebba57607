// internal/roster/roster.go
package roster

import "strings"

// Student is one gradebook row. Student holds the raw "Last, First" form
// from the export; Name is the derived "First Last" display form.
type Student struct {
	Student     string
	ID          string
	SISUserID   string
	SISLoginID  string
	RootAccount string
	Section     string
	Name        string
}

// Roster is an indexed class list loaded from a gradebook export.
type Roster struct {
	Students []Student

	byLogin map[string]int
	byName  map[string][]int
}

func (r *Roster) Len() int { return len(r.Students) }

// ByLogin looks up a student by login key (see LoginKey); ok is false
// when the key is unknown.
func (r *Roster) ByLogin(key string) (int, bool) {
	i, ok := r.byLogin[key]
	return i, ok
}

// ByName returns the indexes of every student whose display name equals
// name exactly. More than one index means the name is ambiguous.
func (r *Roster) ByName(name string) []int {
	return r.byName[name]
}

// LoginKey folds a login or email for index lookups: lower-cased,
// trimmed, and cut at the first '@' so full addresses and bare logins
// compare equal.
func LoginKey(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if at := strings.IndexByte(s, '@'); at >= 0 {
		s = s[:at]
	}
	return s
}

// DisplayName converts an export name ("Last, First") to display form
// ("First Last"). Names without a comma pass through trimmed.
func DisplayName(raw string) string {
	raw = strings.TrimSpace(raw)
	last, first, ok := strings.Cut(raw, ",")
	if !ok {
		return raw
	}
	return strings.TrimSpace(first) + " " + strings.TrimSpace(last)
}

func (r *Roster) index() {
	r.byLogin = make(map[string]int, len(r.Students))
	r.byName = make(map[string][]int, len(r.Students))
	for i, s := range r.Students {
		if k := LoginKey(s.SISLoginID); k != "" {
			r.byLogin[k] = i
		}
		r.byName[s.Name] = append(r.byName[s.Name], i)
	}
}
