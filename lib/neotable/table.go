// Package neotable holds the normalized tabular data model every parsed
// portal payload is converted into: ordered typed columns, ordered rows,
// and an explicit missing marker that is never conflated with a zero value.
package neotable

import (
	"fmt"
	"time"
)

type Kind int

const (
	// KindAny defers typing to the token itself: numeric tokens become
	// floats, everything else free text. Used by property tabs whose
	// "Values" column mixes measurements and classifications.
	KindAny Kind = iota
	KindInt
	KindFloat
	KindDate
	KindEnum
	KindMagnitude
	KindText
)

func (k Kind) String() string {
	switch k {
	case KindAny:
		return "any"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindDate:
		return "date"
	case KindEnum:
		return "enum"
	case KindMagnitude:
		return "magnitude"
	case KindText:
		return "text"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Value is a single typed cell. Kind tells which payload field is live;
// Missing set means no payload field is live at all.
type Value struct {
	Kind    Kind
	Missing bool

	Int   int64
	Float float64
	Time  time.Time
	Str   string
	// set when the portal flags a measurement as uncertain
	// (trailing asterisks in the raw token)
	Uncertain bool
}

func MissingValue(kind Kind) Value {
	return Value{Kind: kind, Missing: true}
}

func IntValue(v int64) Value {
	return Value{Kind: KindInt, Int: v}
}

func FloatValue(v float64) Value {
	return Value{Kind: KindFloat, Float: v}
}

func DateValue(t time.Time) Value {
	return Value{Kind: KindDate, Time: t.UTC()}
}

func EnumValue(s string) Value {
	return Value{Kind: KindEnum, Str: s}
}

func MagnitudeValue(v float64, uncertain bool) Value {
	return Value{Kind: KindMagnitude, Float: v, Uncertain: uncertain}
}

func TextValue(s string) Value {
	return Value{Kind: KindText, Str: s}
}

func (v Value) IsMissing() bool {
	return v.Missing
}

type Column struct {
	Name string
	Kind Kind
	// measurement unit, empty when not applicable
	Unit string
}

// Table is an ordered set of named typed columns plus rows. Every row holds
// exactly one value per column; AppendRow rejects partial rows.
type Table struct {
	Columns []Column
	Rows    [][]Value
	// non-fatal annotations attached during extraction, e.g. an
	// ephemeris service snapping to a supported step size
	Warnings []string
}

func New(columns []Column) *Table {
	return &Table{Columns: columns}
}

func (t *Table) AppendRow(row []Value) error {
	if len(row) != len(t.Columns) {
		return fmt.Errorf(
			"row has %d cells, table declares %d columns",
			len(row), len(t.Columns),
		)
	}
	t.Rows = append(t.Rows, row)
	return nil
}

func (t *Table) Len() int {
	return len(t.Rows)
}

// ColumnIndex returns the position of the named column, or -1.
func (t *Table) ColumnIndex(name string) int {
	for i, c := range t.Columns {
		if c.Name == name {
			return i
		}
	}
	return -1
}

// Cell fetches by row index and column name.
func (t *Table) Cell(row int, column string) (Value, bool) {
	i := t.ColumnIndex(column)
	if i < 0 || row < 0 || row >= len(t.Rows) {
		return Value{}, false
	}
	return t.Rows[row][i], true
}

// FindRow returns the index of the first row whose cell in the given column
// equals the wanted text, comparing the rendered token. Returns -1 when
// absent.
func (t *Table) FindRow(column, want string) int {
	i := t.ColumnIndex(column)
	if i < 0 {
		return -1
	}
	for row := range t.Rows {
		if t.Rows[row][i].Token() == want {
			return row
		}
	}
	return -1
}
