// Package schema is the single source of truth for the structure the NEOCC
// portal is expected to publish: which categories exist, how their payloads
// are laid out, and the ordered typed columns of each table. Extractors are
// driven entirely by these specs instead of hard-coding fields.
package schema

import (
	"fmt"
	"slices"

	"neocc-backend/lib/neotable"
)

type Category string

// Catalog lists published as downloadable files.
const (
	NEAList               Category = "nea_list"
	RiskList              Category = "risk_list"
	RiskListSpecial       Category = "risk_list_special"
	CloseApproachUpcoming Category = "close_appr_upcoming"
	CloseApproachRecent   Category = "close_appr_recent"
	PriorityList          Category = "priority_list"
	PriorityListFaint     Category = "priority_list_faint"
)

// Per-object tabs.
const (
	PhysicalProperties Category = "physical_properties"
	Summary            Category = "summary"
	CloseApproaches    Category = "close_approaches"
	Impacts            Category = "impacts"
	OrbitProperties    Category = "orbit_properties"
	Observations       Category = "observations"
)

// Ephemerides is parameterized per call (time range, step, observer).
const Ephemerides Category = "ephemerides"

// Class selects the extraction strategy. The set is closed: catalogs are
// homogeneous all-or-nothing tables, property tabs tolerate missing cells
// per row, ephemerides add time-ordering checks.
type Class int

const (
	ClassCatalog Class = iota
	ClassPropertyTab
	ClassEphemeris
)

// Layout tells the section splitter how the raw payload is structured.
type Layout int

const (
	// one bare value per line, no header
	LayoutLines Layout = iota
	// pipe-delimited columns, header row followed by a dashed separator
	LayoutPipe
	// whitespace-separated columns under a marker header line
	LayoutWhitespace
	// heterogeneous name/value/unit rows, sourced from an HTML tab
	LayoutHTMLProperties
	// keyword-style "name = value" header lines plus named blocks
	LayoutKeywordBlocks
	// keyword header lines, then a marker header row and fixed rows
	LayoutEphemeris
	// keyword header, then fixed-width observation rows in several flavors
	LayoutObservations
)

type Column struct {
	Name string
	Kind neotable.Kind
	Unit string
	// allowed values for KindEnum columns
	Enum []string
}

type Spec struct {
	Category Category
	Class    Class
	Layout   Layout
	Columns  []Column
	// first token of the header row the splitter must find; empty for
	// layouts without a header marker
	HeaderMarker string
	// first token of the footer block terminating the data rows, if any
	FooterMarker string
}

// TableColumns projects the spec into the column declarations of the
// normalized table it produces.
func (s Spec) TableColumns() []neotable.Column {
	out := make([]neotable.Column, len(s.Columns))
	for i, c := range s.Columns {
		out[i] = neotable.Column{Name: c.Name, Kind: c.Kind, Unit: c.Unit}
	}
	return out
}

type UnknownCategoryError struct {
	Category Category
}

func (e *UnknownCategoryError) Error() string {
	return fmt.Sprintf("unknown category %q", e.Category)
}

// Registry maps categories to their specs. It is immutable after NewRegistry
// and therefore safe for unsynchronized concurrent reads.
type Registry struct {
	specs map[Category]Spec
}

func (r *Registry) Lookup(c Category) (Spec, error) {
	spec, ok := r.specs[c]
	if !ok {
		return Spec{}, &UnknownCategoryError{Category: c}
	}
	return spec, nil
}

// Categories returns every registered category in lexical order.
func (r *Registry) Categories() []Category {
	out := make([]Category, 0, len(r.specs))
	for c := range r.specs {
		out = append(out, c)
	}
	slices.Sort(out)
	return out
}
