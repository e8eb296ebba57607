// pkg/api/gradebook_v1.go
package api

import "time"

// GradebookV1 is the stable JSON schema for compiled gradebooks.
// Keep fields, names, and types stable. Add new fields only with ",omitempty".
type GradebookV1 struct {
	Meta      RunMetaV1   `json:"meta"`
	Columns   []string    `json:"columns"`
	Students  []StudentV1 `json:"students"`
	Unmatched []EntryV1   `json:"unmatched,omitempty"`
	Stats     RunStatsV1  `json:"stats"`
}

// RunMetaV1 identifies one compile run.
type RunMetaV1 struct {
	Tool        string    `json:"tool"`
	Version     string    `json:"version"`
	RunID       string    `json:"run_id"`
	GeneratedAt time.Time `json:"generated_at"`
	Sources     []string  `json:"sources"`
}

// StudentV1 is one compiled gradebook row. Fields holds the survey
// columns keyed by output header; values are numbers or strings, and
// unanswered columns are absent.
type StudentV1 struct {
	Student     string         `json:"student"`
	ID          string         `json:"id"`
	SISUserID   string         `json:"sis_user_id,omitempty"`
	SISLoginID  string         `json:"sis_login_id,omitempty"`
	RootAccount string         `json:"root_account,omitempty"`
	Section     string         `json:"section,omitempty"`
	Name        string         `json:"name"`
	PeerEvals   int            `json:"peer_evals"`
	Fields      map[string]any `json:"fields,omitempty"`
}

// EntryV1 is a survey answer that could not be resolved to a student.
type EntryV1 struct {
	Kind    string `json:"kind"` // "self" | "peer"
	Entered string `json:"entered"`
	Email   string `json:"email,omitempty"`
	Section string `json:"section,omitempty"`
	Team    string `json:"team,omitempty"`
	Source  string `json:"source,omitempty"`
	Reason  string `json:"reason"`
}

// RunStatsV1 summarizes matching for one run.
type RunStatsV1 struct {
	RosterStudents int            `json:"roster_students"`
	ResponseRows   int            `json:"response_rows"`
	SelfMatched    int            `json:"self_matched"`
	PeerEvals      int            `json:"peer_evals"`
	PeerMatched    int            `json:"peer_matched"`
	Unmatched      int            `json:"unmatched"`
	Methods        map[string]int `json:"methods,omitempty"`
}
