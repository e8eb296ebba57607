// internal/output/json.go
package output

import (
	"io"

	"peergrade/internal/compile"
	"peergrade/internal/jsonutil"
	"peergrade/pkg/api"
)

func init() {
	register(FormatJSON, writeJSON)
}

// writeJSON emits the versioned wire schema, pretty-indented.
func writeJSON(w io.Writer, doc *Doc) error {
	return jsonutil.EncodePretty(w, ToAPIGradebook(doc))
}

// ToAPIGradebook converts a compiled result to the stable wire schema
// (v1).
func ToAPIGradebook(doc *Doc) api.GradebookV1 {
	res := doc.Result
	g := api.GradebookV1{
		Meta:    doc.Meta,
		Columns: res.Table.Columns,
		Stats:   toAPIStats(res.Stats),
	}
	peerCol := columnIndex(res.Table.Columns, res.PeerCountColumn)
	for _, row := range res.Table.Rows {
		g.Students = append(g.Students, toAPIStudent(res.Table.Columns, row, peerCol))
	}
	for _, u := range res.Unmatched {
		g.Unmatched = append(g.Unmatched, toAPIEntry(u))
	}
	return g
}

func columnIndex(columns []string, name string) int {
	if name == "" {
		return -1
	}
	for i, c := range columns {
		if c == name {
			return i
		}
	}
	return -1
}

func toAPIStudent(columns []string, row []compile.Cell, peerCol int) api.StudentV1 {
	s := api.StudentV1{
		Student:     row[0].Text,
		ID:          row[1].Text,
		SISUserID:   row[2].Text,
		SISLoginID:  row[3].Text,
		RootAccount: row[4].Text,
		Section:     row[5].Text,
		Name:        row[6].Text,
	}
	if peerCol >= 0 {
		s.PeerEvals = int(row[peerCol].Num)
	}
	for i := len(compile.RosterColumns); i < len(row); i++ {
		if i == peerCol || row[i].IsEmpty() {
			continue
		}
		if s.Fields == nil {
			s.Fields = map[string]any{}
		}
		s.Fields[columns[i]] = row[i].Value()
	}
	return s
}

func toAPIEntry(u compile.Unmatched) api.EntryV1 {
	return api.EntryV1{
		Kind:    string(u.Kind),
		Entered: u.Entered,
		Email:   u.Email,
		Section: u.Section,
		Team:    u.Team,
		Source:  u.Ref.String(),
		Reason:  u.Reason,
	}
}

func toAPIStats(st compile.Stats) api.RunStatsV1 {
	out := api.RunStatsV1{
		RosterStudents: st.RosterStudents,
		ResponseRows:   st.ResponseRows,
		SelfMatched:    st.SelfMatched,
		PeerEvals:      st.PeerEvals,
		PeerMatched:    st.PeerMatched,
		Unmatched:      st.Unmatched,
	}
	if len(st.Methods) > 0 {
		out.Methods = make(map[string]int, len(st.Methods))
		for m, n := range st.Methods {
			out.Methods[string(m)] = n
		}
	}
	return out
}
