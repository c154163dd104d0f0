package sections

import (
	"errors"
	"testing"

	"neocc-backend/lib/schema"

	"github.com/stretchr/testify/require"
)

var registry = schema.NewRegistry()

func mustSpec(t *testing.T, category schema.Category) schema.Spec {
	t.Helper()
	spec, err := registry.Lookup(category)
	require.NoError(t, err)
	return spec
}

const errorPage = `<!DOCTYPE html>
<html lang="en">
<head><title>ESA NEOCC</title></head>
<body><p>The page you requested is temporarily unavailable.</p></body>
</html>`

func TestHTMLErrorPageIsMalformed(t *testing.T) {
	spec := mustSpec(t, schema.RiskList)

	_, err := Split(RawPayload{Category: schema.RiskList, Body: []byte(errorPage)}, spec)
	var merr *MalformedPayloadError
	require.True(t, errors.As(err, &merr))
	require.Equal(t, schema.RiskList, merr.Category)
}

func TestEmptyPayloadIsMalformed(t *testing.T) {
	spec := mustSpec(t, schema.NEAList)

	_, err := Split(RawPayload{Category: schema.NEAList, Body: []byte("  \n \n")}, spec)
	var merr *MalformedPayloadError
	require.True(t, errors.As(err, &merr))
}

func TestSplitBareLines(t *testing.T) {
	spec := mustSpec(t, schema.NEAList)
	body := "433 Eros\n99942 Apophis\n\n2021QM1\n"

	parts, err := Split(RawPayload{Category: schema.NEAList, Body: []byte(body)}, spec)
	require.NoError(t, err)
	require.Len(t, parts, 1)
	require.Equal(t, SectionData, parts[0].Name)
	require.Equal(t, []string{"433 Eros", "99942 Apophis", "2021QM1"}, parts[0].Lines)
}

const riskListPayload = `Risk list as of 2026-08-20

Num/des. Name     |  Diameter | Date/Time        | IP max   | PS max | TS | Vel
--------------------------------------------------------------------------------
2021QM1           |      50.0 | 2052-04-02 09:22 | 2.48e-04 | -2.78  |  0 | 23.71
99942 Apophis     |     375.0 | 2068-10-12 00:00 | 6.10e-06 | -2.97  |  0 |  7.43

end of list
`

func TestSplitPipeTable(t *testing.T) {
	spec := mustSpec(t, schema.RiskList)

	parts, err := Split(RawPayload{Category: schema.RiskList, Body: []byte(riskListPayload)}, spec)
	require.NoError(t, err)

	byName := map[string]Section{}
	for _, s := range parts {
		byName[s.Name] = s
	}
	require.Equal(t, []string{"Risk list as of 2026-08-20"}, byName[SectionHeader].Lines)
	require.Len(t, byName[SectionColumns].Lines, 1)
	require.Len(t, byName[SectionData].Lines, 2)
	require.Contains(t, byName[SectionData].Lines[1], "99942 Apophis")
}

func TestSplitPipeTableWithoutSeparatorIsMalformed(t *testing.T) {
	spec := mustSpec(t, schema.RiskList)
	body := "Num/des. Name | Diameter | Date/Time | IP max | PS max | TS | Vel\ndata | 1 | 2 | 3 | 4 | 5 | 6\n"

	_, err := Split(RawPayload{Category: schema.RiskList, Body: []byte(body)}, spec)
	var merr *MalformedPayloadError
	require.True(t, errors.As(err, &merr))
}

const impactsPayload = `Impactor Table for 2021QM1

date       MJD     sigma  sigimp    dist +/- width     p_RE  exp. en.  PS   TS
--------------------------------------------------------------------------------
2052-04-02.389  71266.389  0.31  0.0  0.82 +/- 0.13  2.48e-04  3.2e-01  -2.78  0

Based on 100 optical observations (of which 2 are rejected as outliers) from 2021/08/14.113 to 2026/05/12.231.

= = = Date of computation = 2026/05/13.502 = = =
`

func TestSplitWhitespaceTableWithFooter(t *testing.T) {
	spec := mustSpec(t, schema.Impacts)

	parts, err := Split(RawPayload{Category: schema.Impacts, Body: []byte(impactsPayload)}, spec)
	require.NoError(t, err)

	byName := map[string]Section{}
	for _, s := range parts {
		byName[s.Name] = s
	}
	require.Len(t, byName[SectionData].Lines, 1)
	require.Contains(t, byName[SectionData].Lines[0], "71266.389")
	require.NotEmpty(t, byName[SectionFooter].Lines)
	require.Contains(t, byName[SectionFooter].Lines[0], "Based on 100")
}

const propertiesPage = `<!DOCTYPE html>
<html><body>
<div class="property-row">
  <div class="property-name">Rotation Period</div>
  <div class="property-value">30.56</div>
  <div class="property-unit">h</div>
  <div class="property-source">[4]</div>
</div>
<div class="property-row">
  <div class="property-name">Taxonomy</div>
  <div class="property-value">S/Sq</div>
  <div class="property-unit">-</div>
  <div class="property-source">[2]</div>
</div>
<div class="source-row">
  <div class="source-num">[2]</div>
  <div class="source-name">SMASS II</div>
  <div class="source-info">spectral survey</div>
</div>
</body></html>`

func TestSplitHTMLProperties(t *testing.T) {
	spec := mustSpec(t, schema.PhysicalProperties)

	parts, err := Split(RawPayload{Category: schema.PhysicalProperties, Body: []byte(propertiesPage)}, spec)
	require.NoError(t, err)

	byName := map[string]Section{}
	for _, s := range parts {
		byName[s.Name] = s
	}
	require.Equal(t, []string{
		"Rotation Period\t30.56\th\t[4]",
		"Taxonomy\tS/Sq\t-\t[2]",
	}, byName[SectionData].Lines)
	require.Equal(t, []string{"[2]\tSMASS II\tspectral survey"}, byName[SectionSources].Lines)
}

func TestSplitHTMLPropertiesWithoutRowsIsMalformed(t *testing.T) {
	spec := mustSpec(t, schema.PhysicalProperties)

	_, err := Split(RawPayload{Category: schema.PhysicalProperties, Body: []byte(errorPage)}, spec)
	var merr *MalformedPayloadError
	require.True(t, errors.As(err, &merr))
	require.Contains(t, merr.Reason, "no property rows")
}

const ephemeridesPayload = `Observatory: 500 - Geocentric
Initial Date: 2026-08-01T00:00Z
Final Date: 2026-08-03T00:00Z
Time step: 1 days

Timestamp            MJD        RA       DEC      Mag    Airmass  R       Delta   Phase
----------------------------------------------------------------------------------------
2026-08-01T00:00     61253.0    182.11   -7.23    21.5   1.20     1.08    0.11    42.1
2026-08-02T00:00     61254.0    183.02   -7.51    21.6   1.25     1.08    0.12    42.9
2026-08-03T00:00     61255.0    183.94   -7.80    21.6   1.31     1.09    0.12    43.6
`

func TestSplitEphemeris(t *testing.T) {
	spec := mustSpec(t, schema.Ephemerides)

	parts, err := Split(RawPayload{Category: schema.Ephemerides, Body: []byte(ephemeridesPayload)}, spec)
	require.NoError(t, err)

	byName := map[string]Section{}
	for _, s := range parts {
		byName[s.Name] = s
	}
	require.Len(t, byName[SectionHeader].Lines, 4)
	require.Len(t, byName[SectionData].Lines, 3)
}

func TestSplitEphemerisMissingHeaderIsMalformed(t *testing.T) {
	spec := mustSpec(t, schema.Ephemerides)
	body := `Observatory: 500 - Geocentric
Timestamp MJD RA DEC Mag Airmass R Delta Phase
2026-08-01T00:00 61253.0 182.11 -7.23 21.5 1.20 1.08 0.11 42.1
`

	_, err := Split(RawPayload{Category: schema.Ephemerides, Body: []byte(body)}, spec)
	var merr *MalformedPayloadError
	require.True(t, errors.As(err, &merr))
	require.Contains(t, merr.Reason, "Initial Date")
}
