// Package extract converts sections into normalized tables, one strategy per
// data category class: catalogs (homogeneous, all-or-nothing), property tabs
// (heterogeneous, missing cells tolerated) and ephemerides (time-ordered,
// step-checked). Extraction is schema-driven: column positions, kinds and
// units all come from the registry spec, never from the payload itself.
package extract

import (
	"errors"
	"fmt"
	"strings"

	"neocc-backend/lib/coerce"
	"neocc-backend/lib/neotable"
	"neocc-backend/lib/schema"
	"neocc-backend/lib/sections"
)

// SchemaMismatchError means the payload structure was recognized but its
// column shape disagrees with the registry spec, which indicates upstream
// format drift rather than a transient failure.
type SchemaMismatchError struct {
	Category schema.Category
	Row      int
	Reason   string
}

func (e *SchemaMismatchError) Error() string {
	return fmt.Sprintf(
		"schema mismatch in %s (row %d): %s",
		e.Category, e.Row, e.Reason,
	)
}

// ForSpec dispatches to the extraction strategy of the spec's class. The
// category set is closed, so unhandled classes are a programming error
// surfaced as SchemaMismatchError.
func ForSpec(data sections.Section, spec schema.Spec) (*neotable.Table, error) {
	switch spec.Class {
	case schema.ClassCatalog:
		return Catalog(data, spec)
	case schema.ClassPropertyTab:
		return PropertyTab(data, spec)
	case schema.ClassEphemeris:
		return Ephemeris(data, spec, EphemerisOptions{})
	}
	return nil, &SchemaMismatchError{
		Category: spec.Category,
		Row:      -1,
		Reason:   fmt.Sprintf("no extractor for class %d", spec.Class),
	}
}

// splitRow cuts one raw line into cell tokens according to the layout.
// Sections produced from HTML pages, keyword blocks and fixed-width
// observation rows always carry tab-separated lines.
func splitRow(line string, layout schema.Layout) []string {
	switch layout {
	case schema.LayoutPipe:
		cells := strings.Split(line, "|")
		for i := range cells {
			cells[i] = strings.TrimSpace(cells[i])
		}
		return cells
	case schema.LayoutLines:
		return []string{strings.TrimSpace(line)}
	case schema.LayoutHTMLProperties, schema.LayoutKeywordBlocks, schema.LayoutObservations:
		return strings.Split(line, "\t")
	default:
		fields := strings.Fields(line)
		// impact monitoring files join the distance and its width with a
		// literal "+/-" column, drop it
		out := fields[:0]
		for _, f := range fields {
			if f == "+/-" {
				continue
			}
			out = append(out, f)
		}
		return out
	}
}

// rowError stamps the row index onto a coercion failure before propagating.
func rowError(err error, row int) error {
	var cerr *coerce.Error
	if errors.As(err, &cerr) {
		cerr.Row = row
	}
	return err
}
