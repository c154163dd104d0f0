package neotable

import (
	"strconv"
)

// MissingToken is the canonical token emitted for a missing cell on export.
const MissingToken = "-"

// DateLayout is the canonical ISO-8601 rendering for date cells.
const DateLayout = "2006-01-02T15:04:05Z"

// Token renders the cell back into its canonical string form, the inverse
// of field coercion. Missing cells render as MissingToken.
func (v Value) Token() string {
	if v.Missing {
		return MissingToken
	}
	switch v.Kind {
	case KindInt:
		return strconv.FormatInt(v.Int, 10)
	case KindFloat:
		return strconv.FormatFloat(v.Float, 'g', -1, 64)
	case KindMagnitude:
		s := strconv.FormatFloat(v.Float, 'g', -1, 64)
		if v.Uncertain {
			s += "*"
		}
		return s
	case KindDate:
		return v.Time.UTC().Format(DateLayout)
	default:
		return v.Str
	}
}

// Record is the columnar export substrate: ordered column declarations and
// ordered rows of canonical tokens. It is lossless with respect to the
// missing marker, so a Record can be re-coerced into an identical Table.
type Record struct {
	Columns []Column
	Rows    [][]string
}

func (t *Table) ToRecord() Record {
	rec := Record{Columns: make([]Column, len(t.Columns))}
	copy(rec.Columns, t.Columns)
	rec.Rows = make([][]string, len(t.Rows))
	for i, row := range t.Rows {
		out := make([]string, len(row))
		for j, cell := range row {
			out[j] = cell.Token()
		}
		rec.Rows[i] = out
	}
	return rec
}
