// internal/compile/aggregate.go
package compile

import (
	"fmt"
	"strconv"
	"strings"

	"peergrade/internal/namematch"
	"peergrade/internal/points"
	"peergrade/internal/stats"
	"peergrade/internal/survey"
)

// RosterColumns head every compiled table, in this order.
var RosterColumns = []string{
	"Student", "ID", "SIS User ID", "SIS Login ID", "Root Account", "Section", "Name",
}

// acc collects one student's compiled values.
type acc struct {
	general  map[string]Cell
	selfC    map[string]Cell
	selfPts  map[string]float64
	team     string
	n        int
	ratings  map[string][]float64
	comments map[string][]string
}

// Aggregate applies decisions (request ID -> roster index) and builds
// the gradebook. Requests left undecided go to the unmatched report.
func (ms *MatchSet) Aggregate(decisions map[int]int, opts *Options) (*Result, error) {
	scale, err := points.New(ms.sv.Map.Points)
	if err != nil {
		return nil, err
	}
	ms.applyDecisions(decisions)
	ms.dedupeSelf(opts)

	groups := ms.sv.Map.PeerGroups()
	ms.warnIgnoredPeerColumns(groups, opts)

	accs := make([]acc, ms.ro.Len())
	if err := ms.fillSelf(accs, scale, opts); err != nil {
		return nil, err
	}
	if err := ms.fillPeers(accs, scale, opts); err != nil {
		return nil, err
	}

	defs, err := ms.columnDefs(groups, opts)
	if err != nil {
		return nil, err
	}
	table := &Table{Columns: make([]string, len(defs))}
	for i, d := range defs {
		table.Columns[i] = d.name
	}
	for _, si := range ms.order(accs, opts.SortBy) {
		row := make([]Cell, len(defs))
		for ci, d := range defs {
			row[ci] = d.cell(si, &accs[si])
		}
		table.Rows = append(table.Rows, row)
	}

	um := ms.unmatchedEntries(decisions)
	res := &Result{Table: table, Unmatched: um, Stats: ms.runStats(um)}
	if len(groups) > 0 {
		res.PeerCountColumn = opts.PeerPrefix + ": N"
	}
	return res, nil
}

// applyDecisions turns resolved requests into manual matches.
func (ms *MatchSet) applyDecisions(decisions map[int]int) {
	if len(decisions) == 0 {
		return
	}
	for i := range ms.self {
		sm := &ms.self[i]
		if sm.student == -1 && sm.reqID >= 0 {
			if idx, ok := decisions[sm.reqID]; ok {
				sm.student = idx
				sm.method = namematch.MethodManual
			}
		}
	}
	for i := range ms.peers {
		pe := &ms.peers[i]
		if pe.student == -1 && pe.reqID >= 0 {
			if idx, ok := decisions[pe.reqID]; ok {
				pe.student = idx
				pe.method = namematch.MethodManual
			}
		}
	}
}

// dedupeSelf keeps the last response per student; a resubmitted form
// replaces the earlier answers.
func (ms *MatchSet) dedupeSelf(opts *Options) {
	owner := map[int]int{}
	for i := range ms.self {
		s := ms.self[i].student
		if s < 0 {
			continue
		}
		if prev, dup := owner[s]; dup {
			opts.warnf("%s: duplicate self response for %s; keeping %s",
				ms.sv.Refs[ms.self[prev].row], ms.ro.Students[s].Name, ms.sv.Refs[ms.self[i].row])
			ms.self[prev].student = -2
		}
		owner[s] = i
	}
}

// warnIgnoredPeerColumns flags mapped peer columns aggregation has no
// rule for, once per column.
func (ms *MatchSet) warnIgnoredPeerColumns(groups []string, opts *Options) {
	if len(groups) == 0 {
		return
	}
	for _, i := range ms.targetCols(groups[0]) {
		e := ms.sv.Map.Entries[i]
		if e.Header == "" {
			continue
		}
		switch e.Category {
		case survey.CatRating, survey.CatComments, survey.CatName:
		default:
			opts.warnf("peer column %q (category %q) has no aggregation rule; ignored", e.Header, e.Category)
		}
	}
}

func (ms *MatchSet) targetCols(target string) []int {
	var idx []int
	for i, e := range ms.sv.Map.Entries {
		if e.Target == target {
			idx = append(idx, i)
		}
	}
	return idx
}

func textOrEmpty(raw string, isNA bool) Cell {
	if isNA {
		return EmptyCell()
	}
	return TextCell(raw)
}

func numericCell(raw string, isNA bool) Cell {
	if isNA {
		return EmptyCell()
	}
	if v, err := strconv.ParseFloat(raw, 64); err == nil {
		return NumCell(v)
	}
	return TextCell(raw)
}

// fillSelf copies each matched respondent's general and self columns.
func (ms *MatchSet) fillSelf(accs []acc, scale *points.Scale, opts *Options) error {
	m := ms.sv.Map
	teamCol, hasTeam := m.FindOne(survey.TargetSelf, survey.CatTeam)
	for _, sm := range ms.self {
		if sm.student < 0 {
			continue
		}
		a := &accs[sm.student]
		a.general = map[string]Cell{}
		a.selfC = map[string]Cell{}
		a.selfPts = map[string]float64{}
		for i, e := range m.Entries {
			if e.Header == "" {
				continue
			}
			raw := ms.sv.Rows[sm.row][i]
			isNA := opts.NA.Has(raw)
			switch e.Target {
			case survey.TargetGeneral:
				a.general[e.Header] = textOrEmpty(raw, isNA)
			case survey.TargetSelf:
				switch e.Category {
				case survey.CatRating:
					if isNA {
						a.selfC[e.Header] = EmptyCell()
						break
					}
					v, ok := scale.Lookup(raw)
					if !ok {
						if opts.RatingsRequired {
							return fmt.Errorf("%s: unknown rating %q in %q (known: %s)",
								ms.sv.Refs[sm.row], raw, e.Header, strings.Join(scale.Known(), ", "))
						}
						opts.warnf("%s: unknown rating %q in %q; left empty", ms.sv.Refs[sm.row], raw, e.Header)
						a.selfC[e.Header] = EmptyCell()
						break
					}
					a.selfC[e.Header] = NumCell(v)
					a.selfPts[e.Header] = v
				case survey.CatScore:
					a.selfC[e.Header] = numericCell(raw, isNA)
				default:
					a.selfC[e.Header] = textOrEmpty(raw, isNA)
				}
			}
		}
		if hasTeam {
			if v := ms.sv.Rows[sm.row][teamCol]; !opts.NA.Has(v) {
				a.team = v
			}
		}
	}
	return nil
}

// fillPeers stacks every matched eval onto its ratee.
func (ms *MatchSet) fillPeers(accs []acc, scale *points.Scale, opts *Options) error {
	m := ms.sv.Map
	for _, pe := range ms.peers {
		if pe.student < 0 {
			continue
		}
		a := &accs[pe.student]
		a.n++
		if a.ratings == nil {
			a.ratings = map[string][]float64{}
			a.comments = map[string][]string{}
		}
		for _, i := range ms.targetCols(pe.group) {
			e := m.Entries[i]
			if e.Header == "" {
				continue
			}
			raw := ms.sv.Rows[pe.row][i]
			if opts.NA.Has(raw) {
				continue
			}
			switch e.Category {
			case survey.CatRating:
				v, ok := scale.Lookup(raw)
				if !ok {
					if opts.RatingsRequired {
						return fmt.Errorf("%s: unknown rating %q in %q (known: %s)",
							ms.sv.Refs[pe.row], raw, e.Header, strings.Join(scale.Known(), ", "))
					}
					opts.warnf("%s: unknown rating %q in %q; skipped", ms.sv.Refs[pe.row], raw, e.Header)
					continue
				}
				a.ratings[e.Header] = append(a.ratings[e.Header], v)
			case survey.CatComments:
				a.comments[e.Header] = append(a.comments[e.Header], raw)
			}
		}
	}
	return nil
}

// colDef names one output column and computes its cell.
type colDef struct {
	name string
	cell func(si int, a *acc) Cell
}

// columnDefs lays out the table: roster columns, general headers,
// self columns, then the peer block and self-minus-peer differences.
func (ms *MatchSet) columnDefs(groups []string, opts *Options) ([]colDef, error) {
	m := ms.sv.Map
	var defs []colDef

	rosterField := []func(s int) string{
		func(s int) string { return ms.ro.Students[s].Student },
		func(s int) string { return ms.ro.Students[s].ID },
		func(s int) string { return ms.ro.Students[s].SISUserID },
		func(s int) string { return ms.ro.Students[s].SISLoginID },
		func(s int) string { return ms.ro.Students[s].RootAccount },
		func(s int) string { return ms.ro.Students[s].Section },
		func(s int) string { return ms.ro.Students[s].Name },
	}
	for i, name := range RosterColumns {
		get := rosterField[i]
		defs = append(defs, colDef{name, func(si int, _ *acc) Cell { return TextCell(get(si)) }})
	}

	for _, e := range m.Entries {
		if e.Header == "" {
			continue
		}
		h := e.Header
		switch e.Target {
		case survey.TargetGeneral:
			defs = append(defs, colDef{h, func(_ int, a *acc) Cell { return a.general[h] }})
		case survey.TargetSelf:
			defs = append(defs, colDef{
				opts.SelfPrefix + ": " + h,
				func(_ int, a *acc) Cell { return a.selfC[h] },
			})
		}
	}

	if len(groups) > 0 {
		defs = append(defs, colDef{
			opts.PeerPrefix + ": N",
			func(_ int, a *acc) Cell { return NumCell(float64(a.n)) },
		})
		// Comment joins first, then the rating avg/std pairs.
		for _, i := range ms.targetCols(groups[0]) {
			e := m.Entries[i]
			if e.Header == "" || e.Category != survey.CatComments {
				continue
			}
			h := e.Header
			sep := opts.CommentSep
			defs = append(defs, colDef{
				opts.PeerPrefix + ": " + h,
				func(_ int, a *acc) Cell {
					if len(a.comments[h]) == 0 {
						return EmptyCell()
					}
					return TextCell(strings.Join(a.comments[h], sep))
				},
			})
		}
		var ratingHeaders []string
		for _, i := range ms.targetCols(groups[0]) {
			e := m.Entries[i]
			if e.Header == "" || e.Category != survey.CatRating {
				continue
			}
			h := e.Header
			ratingHeaders = append(ratingHeaders, h)
			defs = append(defs, colDef{
				opts.PeerPrefix + ": " + h + " (avg)",
				func(_ int, a *acc) Cell {
					mn, ok := stats.Mean(a.ratings[h])
					if !ok {
						return EmptyCell()
					}
					return NumCell(stats.Round2(mn))
				},
			}, colDef{
				opts.PeerPrefix + ": " + h + " (std)",
				func(_ int, a *acc) Cell {
					sd, ok := stats.SampleStdDev(a.ratings[h])
					if !ok {
						return EmptyCell()
					}
					return NumCell(stats.Round2(sd))
				},
			})
		}

		peerRatings := map[string]struct{}{}
		for _, h := range ratingHeaders {
			peerRatings[h] = struct{}{}
		}
		for _, i := range m.Find(survey.TargetSelf, survey.CatRating) {
			h := m.Entries[i].Header
			if h == "" {
				continue
			}
			if _, shared := peerRatings[h]; !shared {
				continue
			}
			hh := h
			defs = append(defs, colDef{
				opts.DiffPrefix + ": " + hh,
				func(_ int, a *acc) Cell {
					sp, ok := a.selfPts[hh]
					if !ok {
						return EmptyCell()
					}
					mn, ok := stats.Mean(a.ratings[hh])
					if !ok {
						return EmptyCell()
					}
					return NumCell(stats.Round2(sp - mn))
				},
			})
		}
	}

	seen := map[string]struct{}{}
	for _, d := range defs {
		if _, dup := seen[d.name]; dup {
			return nil, fmt.Errorf("output column %q appears twice; adjust the response map headers", d.name)
		}
		seen[d.name] = struct{}{}
	}
	return defs, nil
}

// unmatchedEntries builds the report of everything left unresolved.
func (ms *MatchSet) unmatchedEntries(decisions map[int]int) []Unmatched {
	var out []Unmatched
	for _, sm := range ms.self {
		if sm.student == -1 && sm.reqID == -1 {
			out = append(out, Unmatched{Kind: KindSelf, Ref: ms.sv.Refs[sm.row], Reason: "no name or email"})
		}
	}
	for _, r := range ms.Requests {
		if _, ok := decisions[r.ID]; ok {
			continue
		}
		reason := r.Reason
		if r.Count > 1 {
			reason = fmt.Sprintf("%s (%d rows)", r.Reason, r.Count)
		}
		out = append(out, Unmatched{
			Kind: r.Kind, Entered: r.Entered, Email: r.Email,
			Section: r.Section, Team: r.Team, Ref: r.Ref, Reason: reason,
		})
	}
	return out
}

func (ms *MatchSet) runStats(um []Unmatched) Stats {
	st := Stats{
		RosterStudents: ms.ro.Len(),
		ResponseRows:   len(ms.sv.Rows),
		PeerEvals:      len(ms.peers),
		Unmatched:      len(um),
		Methods:        map[namematch.Method]int{},
	}
	for _, sm := range ms.self {
		if sm.student >= 0 {
			st.SelfMatched++
			st.Methods[sm.method]++
		}
	}
	for _, pe := range ms.peers {
		if pe.student >= 0 {
			st.PeerMatched++
			st.Methods[pe.method]++
		}
	}
	return st
}
