package extract

import (
	"fmt"

	"neocc-backend/lib/coerce"
	"neocc-backend/lib/neotable"
	"neocc-backend/lib/schema"
	"neocc-backend/lib/sections"
)

// Catalog extracts a homogeneous catalog section. Catalogs are consumed as a
// whole, so a single row that fails to coerce fails the entire extraction: a
// corrupt row means the portal changed its format and partial tables would
// hide that.
func Catalog(data sections.Section, spec schema.Spec) (*neotable.Table, error) {
	table := neotable.New(spec.TableColumns())

	for i, line := range data.Lines {
		cells := splitRow(line, spec.Layout)
		cells = mergeOverflowToken(cells, spec)
		if len(cells) != len(spec.Columns) {
			return nil, &SchemaMismatchError{
				Category: spec.Category,
				Row:      i,
				Reason: fmt.Sprintf(
					"got %d cells, schema declares %d columns",
					len(cells), len(spec.Columns),
				),
			}
		}

		row := make([]neotable.Value, len(cells))
		for j, token := range cells {
			value, err := coerce.Field(token, spec.Columns[j])
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

// mergeOverflowToken repairs whitespace-split rows whose designation column
// holds two tokens, e.g. "455176 1999VF22": numbered objects carry both the
// catalog number and the designation.
func mergeOverflowToken(cells []string, spec schema.Spec) []string {
	if spec.Layout != schema.LayoutWhitespace || len(cells) != len(spec.Columns)+1 {
		return cells
	}
	nameAt := -1
	for i, col := range spec.Columns {
		if col.Kind == neotable.KindText {
			nameAt = i
			break
		}
	}
	if nameAt < 0 {
		return cells
	}
	merged := make([]string, 0, len(cells)-1)
	merged = append(merged, cells[:nameAt]...)
	merged = append(merged, cells[nameAt]+" "+cells[nameAt+1])
	merged = append(merged, cells[nameAt+2:]...)
	return merged
}

// ValidateColumns checks the payload's own column header row against the
// schema where the layout makes the comparison meaningful.
func ValidateColumns(columns sections.Section, spec schema.Spec) error {
	if spec.Layout != schema.LayoutPipe || len(columns.Lines) == 0 {
		return nil
	}
	got := len(splitRow(columns.Lines[0], spec.Layout))
	if got != len(spec.Columns) {
		return &SchemaMismatchError{
			Category: spec.Category,
			Row:      -1,
			Reason: fmt.Sprintf(
				"header row declares %d columns, schema declares %d",
				got, len(spec.Columns),
			),
		}
	}
	return nil
}
