package coerce

import (
	"errors"
	"fmt"

	"neocc-backend/lib/neotable"
	"neocc-backend/lib/schema"
)

// TableFromRecord rebuilds a typed table from its exported form. Tokens are
// coerced through the same path as raw portal data, so a table survives an
// export/import cycle without loss.
func TableFromRecord(rec neotable.Record, cols []schema.Column) (*neotable.Table, error) {
	if len(rec.Columns) != len(cols) {
		return nil, fmt.Errorf(
			"record has %d columns, schema declares %d",
			len(rec.Columns), len(cols),
		)
	}
	for i, col := range cols {
		if rec.Columns[i].Name != col.Name {
			return nil, fmt.Errorf(
				"record column %d is %q, schema declares %q",
				i, rec.Columns[i].Name, col.Name,
			)
		}
	}

	out := make([]neotable.Column, len(cols))
	for i, col := range cols {
		out[i] = neotable.Column{Name: col.Name, Kind: col.Kind, Unit: col.Unit}
	}
	table := neotable.New(out)

	for i, tokens := range rec.Rows {
		if len(tokens) != len(cols) {
			return nil, fmt.Errorf("record row %d has %d cells, want %d", i, len(tokens), len(cols))
		}
		row := make([]neotable.Value, len(tokens))
		for j, token := range tokens {
			value, err := Field(token, cols[j])
			if err != nil {
				var cerr *Error
				if errors.As(err, &cerr) {
					cerr.Row = i
				}
				return nil, err
			}
			row[j] = value
		}
		if err := table.AppendRow(row); err != nil {
			return nil, err
		}
	}

	return table, nil
}
