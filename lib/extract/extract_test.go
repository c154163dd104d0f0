package extract

import (
	"errors"
	"testing"
	"time"

	"neocc-backend/lib/coerce"
	"neocc-backend/lib/neotable"
	"neocc-backend/lib/schema"
	"neocc-backend/lib/sections"

	"github.com/stretchr/testify/require"
)

var registry = schema.NewRegistry()

func mustSpec(t *testing.T, category schema.Category) schema.Spec {
	t.Helper()
	spec, err := registry.Lookup(category)
	require.NoError(t, err)
	return spec
}

func dataSection(category schema.Category, lines ...string) sections.Section {
	return sections.Section{
		Name:     sections.SectionData,
		Category: category,
		Lines:    lines,
	}
}

func TestCatalogPipeRows(t *testing.T) {
	spec := mustSpec(t, schema.RiskList)
	data := dataSection(schema.RiskList,
		"2021QM1           |      50.0 | 2052-04-02 09:22 | 2.48e-04 | -2.78 | 0 | 23.71",
		"99942 Apophis     |     375.0 | 2068-10-12 00:00 | 6.10e-06 | -2.97 | 0 |  7.43",
	)

	table, err := Catalog(data, spec)
	require.NoError(t, err)
	require.Equal(t, 2, table.Len())

	row := table.FindRow("Object Name", "99942 Apophis")
	require.Equal(t, 1, row)
	diameter, ok := table.Cell(row, "Diameter")
	require.True(t, ok)
	require.Equal(t, 375.0, diameter.Float)
}

func TestCatalogIsAllOrNothing(t *testing.T) {
	spec := mustSpec(t, schema.RiskList)
	data := dataSection(schema.RiskList,
		"2021QM1           |      50.0 | 2052-04-02 09:22 | 2.48e-04 | -2.78 | 0 | 23.71",
		"99942 Apophis     |   corrupt | 2068-10-12 00:00 | 6.10e-06 | -2.97 | 0 |  7.43",
	)

	_, err := Catalog(data, spec)
	var cerr *coerce.Error
	require.True(t, errors.As(err, &cerr))
	require.Equal(t, 1, cerr.Row)
	require.Equal(t, "Diameter", cerr.Column)
}

func TestCatalogCellCountMismatch(t *testing.T) {
	spec := mustSpec(t, schema.RiskList)
	data := dataSection(schema.RiskList, "2021QM1 | 50.0 | 2052-04-02 09:22")

	_, err := Catalog(data, spec)
	var serr *SchemaMismatchError
	require.True(t, errors.As(err, &serr))
	require.Equal(t, 0, serr.Row)
}

func TestCatalogMergesNumberedDesignations(t *testing.T) {
	spec := mustSpec(t, schema.PriorityList)
	data := dataSection(schema.PriorityList,
		"1  2021DE1         11.21  -15.31  112.2  21.5  0.5  2026/09/04",
		"0  455176 1999VF22 10.02  +11.09  098.4  20.1  0.2  2026/10/11",
	)

	table, err := Catalog(data, spec)
	require.NoError(t, err)
	require.Equal(t, 2, table.Len())
	require.Equal(t, 1, table.FindRow("Object", "455176 1999VF22"))
}

func TestCatalogMissingTokens(t *testing.T) {
	spec := mustSpec(t, schema.RiskList)
	data := dataSection(schema.RiskList,
		"2021QM1 | - | 2052-04-02 09:22 | N/A | -2.78 | 0 | 23.71",
	)

	table, err := Catalog(data, spec)
	require.NoError(t, err)

	diameter, _ := table.Cell(0, "Diameter")
	require.True(t, diameter.IsMissing())
	ip, _ := table.Cell(0, "IP max")
	require.True(t, ip.IsMissing())
	ps, _ := table.Cell(0, "PS max")
	require.Equal(t, -2.78, ps.Float)
}

func TestPropertyTabRows(t *testing.T) {
	spec := mustSpec(t, schema.PhysicalProperties)
	data := dataSection(schema.PhysicalProperties,
		"Rotation Period\t30.56\th\t[4]",
		"Taxonomy\tS/Sq\t-\t[2]",
	)

	table, err := PropertyTab(data, spec)
	require.NoError(t, err)
	require.Equal(t, 2, table.Len())

	row := table.FindRow("Property", "Rotation Period")
	require.Equal(t, 0, row)
	v, _ := table.Cell(row, "Values")
	require.Equal(t, neotable.KindFloat, v.Kind)
	require.Equal(t, 30.56, v.Float)
	unit, _ := table.Cell(row, "Unit")
	require.Equal(t, "h", unit.Str)

	row = table.FindRow("Property", "Taxonomy")
	require.Equal(t, 1, row)
	v, _ = table.Cell(row, "Values")
	require.Equal(t, neotable.KindText, v.Kind)
	require.Equal(t, "S/Sq", v.Str)
	unit, _ = table.Cell(row, "Unit")
	require.True(t, unit.IsMissing())
}

func TestPropertyTabPadsShortRows(t *testing.T) {
	spec := mustSpec(t, schema.PhysicalProperties)
	data := dataSection(schema.PhysicalProperties, "Absolute Magnitude (H)\t19.09")

	table, err := PropertyTab(data, spec)
	require.NoError(t, err)

	src, _ := table.Cell(0, "Source")
	require.True(t, src.IsMissing())
}

func TestPropertyTabRejectsExcessCells(t *testing.T) {
	spec := mustSpec(t, schema.PhysicalProperties)
	data := dataSection(schema.PhysicalProperties, "a\tb\tc\td\te")

	_, err := PropertyTab(data, spec)
	var serr *SchemaMismatchError
	require.True(t, errors.As(err, &serr))
}

func ephemerisRows() []string {
	return []string{
		"2026-08-01T00:00  61253.0  182.11  -7.23  21.5  1.20  1.08  0.11  42.1",
		"2026-08-02T00:00  61254.0  183.02  -7.51  21.6  1.25  1.08  0.12  42.9",
		"2026-08-03T00:00  61255.0  183.94  -7.80  21.6  1.31  1.09  0.12  43.6",
	}
}

func TestEphemerisOrderedRows(t *testing.T) {
	spec := mustSpec(t, schema.Ephemerides)
	data := dataSection(schema.Ephemerides, ephemerisRows()...)

	table, err := Ephemeris(data, spec, EphemerisOptions{Step: 24 * time.Hour})
	require.NoError(t, err)
	require.Equal(t, 3, table.Len())
	require.Empty(t, table.Warnings)
}

func TestEphemerisRejectsShuffledRows(t *testing.T) {
	spec := mustSpec(t, schema.Ephemerides)
	rows := ephemerisRows()
	rows[0], rows[1] = rows[1], rows[0]
	data := dataSection(schema.Ephemerides, rows...)

	_, err := Ephemeris(data, spec, EphemerisOptions{})
	var merr *sections.MalformedPayloadError
	require.True(t, errors.As(err, &merr))
	require.Contains(t, merr.Reason, "out of order")
}

func TestEphemerisWarnsOnStepDrift(t *testing.T) {
	spec := mustSpec(t, schema.Ephemerides)
	data := dataSection(schema.Ephemerides, ephemerisRows()...)

	table, err := Ephemeris(data, spec, EphemerisOptions{Step: 12 * time.Hour})
	require.NoError(t, err)
	require.Len(t, table.Warnings, 1)
	require.Contains(t, table.Warnings[0], "deviates from declared step")
}

func TestParseEphemerisHeader(t *testing.T) {
	header := sections.Section{
		Name:     sections.SectionHeader,
		Category: schema.Ephemerides,
		Lines: []string{
			"Observatory: 500 - Geocentric",
			"Initial Date: 2026-08-01T00:00Z",
			"Final Date: 2026-08-03T00:00Z",
			"Time step: 1 days",
		},
	}

	parsed, err := ParseEphemerisHeader(header, schema.Ephemerides)
	require.NoError(t, err)
	require.Equal(t, "500 - Geocentric", parsed.Observatory)
	require.Equal(t, time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC), parsed.InitialDate)
	require.Equal(t, 24*time.Hour, parsed.Step)
}

func TestParseImpactsFooter(t *testing.T) {
	footer := sections.Section{
		Name:     sections.SectionFooter,
		Category: schema.Impacts,
		Lines: []string{
			"Based on 100 optical observations (of which 2 are rejected as outliers) from 2021/08/14.113 to 2026/05/12.231.",
			"The list may not be complete.",
			"= = = Date of computation = 2026/05/13.502 = = =",
		},
	}

	parsed, err := ParseImpactsFooter(footer, schema.Impacts)
	require.NoError(t, err)
	require.Equal(t, 100, parsed.TotalObservations)
	require.Equal(t, 2, parsed.RejectedObservations)
	require.Equal(t, time.Date(2021, 8, 14, 2, 42, 43, 0, time.UTC), parsed.ArcStart)
	require.Equal(t, time.Date(2026, 5, 13, 12, 2, 52, 0, time.UTC), parsed.ComputedAt)
	require.Contains(t, parsed.Note, "The list may not be complete.")

	table := parsed.Table()
	row := table.FindRow("Parameter", "observations")
	require.Equal(t, 0, row)
	v, _ := table.Cell(row, "Value")
	require.Equal(t, int64(100), v.Int)
}

func TestParseImpactsFooterRequiresObservationLine(t *testing.T) {
	footer := sections.Section{
		Name:     sections.SectionFooter,
		Category: schema.Impacts,
		Lines:    []string{"nothing to see"},
	}

	_, err := ParseImpactsFooter(footer, schema.Impacts)
	var merr *sections.MalformedPayloadError
	require.True(t, errors.As(err, &merr))
}
