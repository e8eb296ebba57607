// internal/compile/compile.go
//
// Package compile turns matched survey responses into the gradebook
// table. Matching and aggregation are split so a resolver (interactive
// or batch) can run between them: Match finds what it can and collects
// Requests; Aggregate applies the decisions and builds the table.
package compile

import (
	"peergrade/internal/common"
	"peergrade/internal/namematch"
	"peergrade/internal/survey"
)

// Kind says which side of the survey an unresolved name came from.
type Kind string

const (
	KindSelf Kind = "self"
	KindPeer Kind = "peer"
)

// Request is one distinct entered name that needs a human decision.
// Occurrences of the same folded name share a request.
type Request struct {
	ID         int
	Kind       Kind
	Entered    string
	Email      string
	Section    string
	Team       string
	Respondent string
	Rated      []string
	Ref        survey.RowRef
	Candidates []int
	Reason     string
	Count      int
}

// AliasKey returns the key a decision for this request should be
// remembered under.
func (r Request) AliasKey() string { return namematch.AliasKey(r.Entered) }

// Unmatched is a survey answer that stayed unresolved.
type Unmatched struct {
	Kind    Kind
	Entered string
	Email   string
	Section string
	Team    string
	Ref     survey.RowRef
	Reason  string
}

// Stats summarizes one run for the summary sheet and JSON output.
type Stats struct {
	RosterStudents int
	ResponseRows   int
	SelfMatched    int
	PeerEvals      int
	PeerMatched    int
	Unmatched      int
	Methods        map[namematch.Method]int
}

// Result is the finished compilation. PeerCountColumn names the
// evals-received column; empty when the survey had no peer blocks.
type Result struct {
	Table           *Table
	Unmatched       []Unmatched
	Stats           Stats
	PeerCountColumn string
}

// Options carries the tunables aggregation needs. Warnf may be nil.
type Options struct {
	CommentSep      string
	SelfPrefix      string
	PeerPrefix      string
	DiffPrefix      string
	SortBy          string
	NA              common.NASet
	RatingsRequired bool
	Warnf           func(format string, a ...any)
}

func (o *Options) warnf(format string, a ...any) {
	if o.Warnf != nil {
		o.Warnf(format, a...)
	}
}

// Sort keys accepted by Options.SortBy.
const (
	SortStudent = "student"
	SortName    = "name"
	SortTeam    = "team"
	SortSection = "section"
)
