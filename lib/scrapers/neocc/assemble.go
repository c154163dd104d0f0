package neocc

import (
	"context"
	"log/slog"
	"net/url"
	"time"

	"neocc-backend/lib/extract"
	"neocc-backend/lib/neotable"
	"neocc-backend/lib/schema"
	"neocc-backend/lib/sections"
)

// ObjectRecord is the assembled result of one per-object tab query: the
// normalized tables keyed by name, plus tab-specific metadata.
type ObjectRecord struct {
	Designation string
	Tab         schema.Category
	Retrieved   time.Time
	Tables      map[string]*neotable.Table
	// observation arc metadata, impacts tab only
	Footer *extract.ImpactsFooter
	// error-model metadata, observations tab only
	ObsHeader *extract.ObservationsHeader
}

// Table returns the tab's main data table.
func (r *ObjectRecord) Table() *neotable.Table {
	return r.Tables[string(r.Tab)]
}

// Ephemeris is the assembled result of one ephemerides query.
type Ephemeris struct {
	Designation string
	Header      *extract.EphemerisHeader
	Table       *neotable.Table
	Retrieved   time.Time
}

type namedTable struct {
	Name  string
	Table *neotable.Table
}

// referenceColumns describes the source references accompanying the HTML
// property tabs.
var referenceColumns = []schema.Column{
	{Name: "Ref", Kind: neotable.KindText},
	{Name: "Name", Kind: neotable.KindText},
	{Name: "Info", Kind: neotable.KindText},
}

// Column sets of the secondary observation flavors; the optical columns
// live in the registry as the tab's main table.
var rovingColumns = []schema.Column{
	{Name: "Designation", Kind: neotable.KindText},
	{Name: "K", Kind: neotable.KindText},
	{Name: "Type", Kind: neotable.KindText},
	{Name: "N", Kind: neotable.KindText},
	{Name: "Date", Kind: neotable.KindDate},
	{Name: "E Longitude", Kind: neotable.KindFloat, Unit: "deg"},
	{Name: "Latitude", Kind: neotable.KindFloat, Unit: "deg"},
	{Name: "Altitude", Kind: neotable.KindFloat, Unit: "m"},
	{Name: "Obs Code", Kind: neotable.KindText},
}

var satelliteColumns = []schema.Column{
	{Name: "Designation", Kind: neotable.KindText},
	{Name: "K", Kind: neotable.KindText},
	{Name: "Type", Kind: neotable.KindText},
	{Name: "N", Kind: neotable.KindText},
	{Name: "Date", Kind: neotable.KindDate},
	{Name: "Parallax Unit", Kind: neotable.KindText},
	{Name: "X", Kind: neotable.KindFloat},
	{Name: "Y", Kind: neotable.KindFloat},
	{Name: "Z", Kind: neotable.KindFloat},
	{Name: "Obs Code", Kind: neotable.KindText},
}

var radarColumns = []schema.Column{
	{Name: "Designation", Kind: neotable.KindText},
	{Name: "K", Kind: neotable.KindText},
	{Name: "Type", Kind: neotable.KindText},
	{Name: "Date", Kind: neotable.KindDate},
	{Name: "Measure", Kind: neotable.KindFloat},
	{Name: "Accuracy", Kind: neotable.KindFloat},
	{Name: "RMS", Kind: neotable.KindFloat},
}

func (c *Client) queryObjectRecord(ctx context.Context, designation string, spec schema.Spec, params url.Values) (*ObjectRecord, error) {
	res, err := c.queryTable(ctx, spec, params, extract.EphemerisOptions{})
	if err != nil {
		return nil, err
	}

	record := &ObjectRecord{
		Designation: designation,
		Tab:         spec.Category,
		Retrieved:   res.retrieved,
		Tables:      map[string]*neotable.Table{},
	}
	named := []namedTable{{Name: string(spec.Category), Table: res.table}}

	if src := sectionByName(res.parts, sections.SectionSources); len(src.Lines) > 0 {
		refs, err := extract.PropertyTab(src, schema.Spec{
			Category: spec.Category,
			Class:    schema.ClassPropertyTab,
			Layout:   schema.LayoutHTMLProperties,
			Columns:  referenceColumns,
		})
		if err != nil {
			return nil, err
		}
		named = append(named, namedTable{Name: "sources", Table: refs})
	}

	if spec.Category == schema.Impacts {
		if footer := sectionByName(res.parts, sections.SectionFooter); len(footer.Lines) > 0 {
			record.Footer, err = extract.ParseImpactsFooter(footer, spec.Category)
			if err != nil {
				return nil, err
			}
		}
	}

	if spec.Category == schema.Observations {
		record.ObsHeader, err = extract.ParseObservationsHeader(
			sectionByName(res.parts, sections.SectionHeader), spec.Category)
		if err != nil {
			return nil, err
		}

		flavors := []struct {
			section string
			columns []schema.Column
		}{
			{sections.SectionRoving, rovingColumns},
			{sections.SectionSatellite, satelliteColumns},
			{sections.SectionRadar, radarColumns},
		}
		for _, flavor := range flavors {
			sec := sectionByName(res.parts, flavor.section)
			if len(sec.Lines) == 0 {
				continue
			}
			table, err := extract.Catalog(sec, schema.Spec{
				Category: spec.Category,
				Class:    schema.ClassCatalog,
				Layout:   schema.LayoutObservations,
				Columns:  flavor.columns,
			})
			if err != nil {
				return nil, err
			}
			named = append(named, namedTable{Name: flavor.section, Table: table})
		}
	}

	assemble(ctx, record, named)
	return record, nil
}

// assemble merges named tables into the record. Names are expected to be
// unique per tab; on a collision the later table wins so a refreshed fetch
// always shadows stale data.
func assemble(ctx context.Context, record *ObjectRecord, named []namedTable) {
	for _, n := range named {
		if _, exists := record.Tables[n.Name]; exists {
			slog.WarnContext(
				ctx, "replacing duplicate table",
				"tab", record.Tab, "name", n.Name,
			)
		}
		record.Tables[n.Name] = n.Table
	}
}
