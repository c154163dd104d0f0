package extract

import (
	"fmt"

	"neocc-backend/lib/coerce"
	"neocc-backend/lib/neotable"
	"neocc-backend/lib/schema"
	"neocc-backend/lib/sections"
)

// PropertyTab extracts a per-object property tab. Unlike catalogs these are
// browsed row by row, so a short row is padded with missing markers instead
// of failing the whole table. A row with more cells than the schema still
// fails, that means the portal layout changed.
func PropertyTab(data sections.Section, spec schema.Spec) (*neotable.Table, error) {
	table := neotable.New(spec.TableColumns())

	for i, line := range data.Lines {
		cells := splitRow(line, spec.Layout)
		if len(cells) > len(spec.Columns) {
			return nil, &SchemaMismatchError{
				Category: spec.Category,
				Row:      i,
				Reason: fmt.Sprintf(
					"got %d cells, schema declares %d columns",
					len(cells), len(spec.Columns),
				),
			}
		}

		row := make([]neotable.Value, len(spec.Columns))
		for j, col := range spec.Columns {
			if j >= len(cells) {
				row[j] = neotable.MissingValue(col.Kind)
				continue
			}
			value, err := coerce.Field(cells[j], col)
			if err != nil {
				return nil, rowError(err, i)
			}
			row[j] = value
		}
		if err := table.AppendRow(row); err != nil {
			return nil, err
		}
	}

	return table, nil
}
