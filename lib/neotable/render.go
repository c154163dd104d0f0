package neotable

import (
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
)

// Render writes a human-readable rendering of the table, one header row plus
// one line per data row, to the given writer.
func (t *Table) Render(w io.Writer) {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.SetOutputMirror(w)

	header := make(table.Row, len(t.Columns))
	for i, c := range t.Columns {
		name := c.Name
		if c.Unit != "" {
			name += " (" + c.Unit + ")"
		}
		header[i] = name
	}
	tw.AppendHeader(header)

	for _, row := range t.Rows {
		out := make(table.Row, len(row))
		for i, cell := range row {
			out[i] = cell.Token()
		}
		tw.AppendRow(out)
	}
	tw.Render()
}
