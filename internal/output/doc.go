// internal/output/doc.go
package output

import (
	"peergrade/internal/compile"
	"peergrade/pkg/api"
)

// SheetNames titles the three xlsx sheets.
type SheetNames struct {
	Compiled  string
	Unmatched string
	Summary   string
}

// DefaultSheetNames returns the standard sheet titles.
func DefaultSheetNames() SheetNames {
	return SheetNames{Compiled: "Compiled", Unmatched: "Unmatched", Summary: "Summary"}
}

func (s SheetNames) withDefaults() SheetNames {
	d := DefaultSheetNames()
	if s.Compiled == "" {
		s.Compiled = d.Compiled
	}
	if s.Unmatched == "" {
		s.Unmatched = d.Unmatched
	}
	if s.Summary == "" {
		s.Summary = d.Summary
	}
	return s
}

// Doc is one compiled gradebook ready to render. Header only affects
// the text format; Sheets only affects xlsx.
type Doc struct {
	Result *compile.Result
	Meta   api.RunMetaV1
	Header bool
	Sheets SheetNames
}
