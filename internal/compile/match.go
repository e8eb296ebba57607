// internal/compile/match.go
package compile

import (
	"fmt"

	"peergrade/internal/common"
	"peergrade/internal/namematch"
	"peergrade/internal/roster"
	"peergrade/internal/survey"
)

// selfMatch ties one response row to its respondent. student is the
// roster index (-1 unresolved, -2 superseded by a later duplicate);
// reqID points into Requests when a decision is pending.
type selfMatch struct {
	row     int
	student int
	reqID   int
	method  namematch.Method
}

// peerEval is one stacked peer evaluation: row × peer block.
type peerEval struct {
	row     int
	group   string
	student int
	reqID   int
	method  namematch.Method
}

// MatchSet is the outcome of the matching pass, ready for Aggregate
// once any Requests have been decided.
type MatchSet struct {
	ro *roster.Roster
	sv *survey.Survey

	self  []selfMatch
	peers []peerEval

	Requests []Request

	reqByKey map[string]int
}

// Match runs the staged matcher over every response row: the self
// block first (email, then name), then each peer block's name column.
// Nothing interactive happens here; unresolved names become Requests.
func Match(ro *roster.Roster, sv *survey.Survey, m *namematch.Matcher, opts *Options) *MatchSet {
	ms := &MatchSet{
		ro:       ro,
		sv:       sv,
		reqByKey: map[string]int{},
	}

	selfName, _ := sv.Map.FindOne(survey.TargetSelf, survey.CatName)
	selfEmail, _ := sv.Map.FindOne(survey.TargetSelf, survey.CatEmail)
	selfSection, _ := sv.Map.FindOne(survey.TargetSelf, survey.CatSection)
	selfTeam, _ := sv.Map.FindOne(survey.TargetSelf, survey.CatTeam)
	groups := sv.Map.PeerGroups()

	cell := func(row, col int) string {
		if col < 0 {
			return ""
		}
		v := sv.Rows[row][col]
		if opts.NA.Has(v) {
			return ""
		}
		return v
	}

	// Fuzzy hits are accepted, but loudly; a typo fix should be visible
	// in the run log.
	warnFuzzy := func(row int, entered string, res namematch.Result) {
		if res.Method == namematch.MethodFuzzy {
			opts.warnf("%s: %q fuzzy-matched to %s (distance %d)",
				sv.Refs[row], entered, ro.Students[res.Index].Name, res.Distance)
		}
	}

	for row := range sv.Rows {
		entered := cell(row, selfName)
		email := cell(row, selfEmail)
		section := cell(row, selfSection)
		team := cell(row, selfTeam)

		sm := selfMatch{row: row, student: -1, reqID: -1}
		switch {
		case email == "" && entered == "":
			opts.warnf("%s: response has no name or email; self answers dropped", sv.Refs[row])
		default:
			res := namematch.Result{Index: -1}
			if email != "" {
				res = m.MatchEmail(email)
			}
			if !res.Matched() && entered != "" {
				res = m.MatchName(entered)
			}
			if res.Matched() {
				sm.student = res.Index
				sm.method = res.Method
				warnFuzzy(row, entered, res)
			} else {
				sm.reqID = ms.request(Request{
					Kind:       KindSelf,
					Entered:    entered,
					Email:      email,
					Section:    section,
					Team:       team,
					Rated:      ratedNames(sv, groups, row, opts.NA),
					Ref:        sv.Refs[row],
					Candidates: res.Candidates,
					Reason:     reason(res),
				})
			}
		}
		ms.self = append(ms.self, sm)

		respondent := entered
		if sm.student >= 0 {
			respondent = ro.Students[sm.student].Name
		}
		for _, g := range groups {
			nameCol, _ := sv.Map.FindOne(g, survey.CatName)
			ratee := cell(row, nameCol)
			if ratee == "" {
				continue // empty peer slot
			}
			pe := peerEval{row: row, group: g, student: -1, reqID: -1}
			res := m.MatchName(ratee)
			if res.Matched() {
				pe.student = res.Index
				pe.method = res.Method
				warnFuzzy(row, ratee, res)
			} else {
				pe.reqID = ms.request(Request{
					Kind:       KindPeer,
					Entered:    ratee,
					Section:    section,
					Team:       team,
					Respondent: respondent,
					Ref:        sv.Refs[row],
					Candidates: res.Candidates,
					Reason:     reason(res),
				})
			}
			ms.peers = append(ms.peers, pe)
		}
	}
	return ms
}

// request files a Request, reusing one already open for the same
// folded name and kind.
func (ms *MatchSet) request(r Request) int {
	key := string(r.Kind) + "\x00" + r.AliasKey()
	if id, ok := ms.reqByKey[key]; ok {
		ms.Requests[id].Count++
		return id
	}
	r.ID = len(ms.Requests)
	r.Count = 1
	ms.reqByKey[key] = r.ID
	ms.Requests = append(ms.Requests, r)
	return r.ID
}

func reason(res namematch.Result) string {
	if res.Ambiguous() {
		return fmt.Sprintf("ambiguous (%d candidates)", len(res.Candidates))
	}
	return "no match"
}

// ratedNames lists the peers a row rated, shown as context when the
// respondent's own name needs resolving.
func ratedNames(sv *survey.Survey, groups []string, row int, na common.NASet) []string {
	var names []string
	for _, g := range groups {
		col, ok := sv.Map.FindOne(g, survey.CatName)
		if !ok {
			continue
		}
		if v := sv.Rows[row][col]; !na.Has(v) {
			names = append(names, v)
		}
	}
	return names
}
