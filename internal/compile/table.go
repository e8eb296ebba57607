// internal/compile/table.go
package compile

import "strconv"

// CellKind tags what a table cell holds.
type CellKind int

const (
	CellEmpty CellKind = iota
	CellText
	CellNumber
)

// Cell is one typed table value. Empty cells render as "" everywhere;
// numbers keep their numeric type for xlsx/json and render with
// minimal digits in csv/text.
type Cell struct {
	Kind CellKind
	Text string
	Num  float64
}

func TextCell(s string) Cell { return Cell{Kind: CellText, Text: s} }
func NumCell(f float64) Cell { return Cell{Kind: CellNumber, Num: f} }
func EmptyCell() Cell { return Cell{} }

func (c Cell) IsEmpty() bool { return c.Kind == CellEmpty }

// String renders the cell for csv/text output.
func (c Cell) String() string {
	switch c.Kind {
	case CellText:
		return c.Text
	case CellNumber:
		return strconv.FormatFloat(c.Num, 'f', -1, 64)
	}
	return ""
}

// Value returns the native value for xlsx/json output; nil when empty.
func (c Cell) Value() any {
	switch c.Kind {
	case CellText:
		return c.Text
	case CellNumber:
		return c.Num
	}
	return nil
}

// Table is the compiled gradebook: one row per roster student, cells
// aligned to Columns.
type Table struct {
	Columns []string
	Rows    [][]Cell
}
