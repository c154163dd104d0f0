package neocc

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"neocc-backend/lib/extract"
	"neocc-backend/lib/neotable"
	"neocc-backend/lib/schema"
	"neocc-backend/lib/sections"

	"go.opentelemetry.io/otel/codes"
)

// OrbitElements selects the element set of an orbit properties file.
type OrbitElements string

const (
	Keplerian   OrbitElements = "keplerian"
	Equinoctial OrbitElements = "equinoctial"
)

// OrbitEpoch selects the reference epoch of an orbit properties file.
type OrbitEpoch string

const (
	EpochPresent OrbitEpoch = "present"
	EpochMiddle  OrbitEpoch = "middle"
)

// orbitSuffix maps element set and epoch onto the portal's file suffix.
func orbitSuffix(elements OrbitElements, epoch OrbitEpoch) (string, error) {
	switch {
	case elements == Keplerian && epoch == EpochPresent:
		return ".ke1", nil
	case elements == Keplerian && epoch == EpochMiddle:
		return ".ke0", nil
	case elements == Equinoctial && epoch == EpochPresent:
		return ".eq1", nil
	case elements == Equinoctial && epoch == EpochMiddle:
		return ".eq0", nil
	}
	return "", fmt.Errorf("no orbit file for elements %q at epoch %q", elements, epoch)
}

// QueryCatalog fetches and extracts one of the portal's catalog lists.
func (c *Client) QueryCatalog(ctx context.Context, category schema.Category) (*neotable.Table, error) {
	ctx, span := tracer.Start(ctx, "QueryCatalog")
	defer span.End()

	spec, err := c.registry.Lookup(category)
	if err != nil {
		return nil, err
	}
	file, ok := catalogFiles[category]
	if !ok {
		return nil, &schema.UnknownCategoryError{Category: category}
	}

	params := url.Values{}
	params.Set("path", downloadPath)
	params.Set("file", file)

	res, err := c.queryTable(ctx, spec, params, extract.EphemerisOptions{})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to query catalog")
		return nil, err
	}
	return res.table, nil
}

// QueryObject fetches one per-object tab and assembles it into a record.
// Orbit properties default to keplerian elements at the present-day epoch,
// use QueryOrbitProperties to pick others.
func (c *Client) QueryObject(ctx context.Context, designation string, tab schema.Category) (*ObjectRecord, error) {
	if tab == schema.OrbitProperties {
		return c.QueryOrbitProperties(ctx, designation, Keplerian, EpochPresent)
	}

	ctx, span := tracer.Start(ctx, "QueryObject")
	defer span.End()

	spec, err := c.registry.Lookup(tab)
	if err != nil {
		return nil, err
	}

	params := url.Values{}
	switch tab {
	case schema.Impacts:
		params.Set("path", downloadPath)
		params.Set("file", designation+".risk")
	case schema.CloseApproaches:
		params.Set("path", downloadPath)
		params.Set("file", designation+".clolin")
	case schema.Observations:
		params.Set("path", downloadPath)
		params.Set("file", designation+".rwo")
	case schema.PhysicalProperties:
		params.Set("path", searchPath)
		params.Set("tab", "physprops")
		params.Set("des", designation)
	case schema.Summary:
		params.Set("path", searchPath)
		params.Set("sum", "1")
		params.Set("des", designation)
	default:
		return nil, &schema.UnknownCategoryError{Category: tab}
	}

	record, err := c.queryObjectRecord(ctx, designation, spec, params)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to query object tab")
		return nil, err
	}
	return record, nil
}

// QueryOrbitProperties fetches the orbit properties tab for a specific
// element set and epoch.
func (c *Client) QueryOrbitProperties(ctx context.Context, designation string, elements OrbitElements, epoch OrbitEpoch) (*ObjectRecord, error) {
	ctx, span := tracer.Start(ctx, "QueryOrbitProperties")
	defer span.End()

	spec, err := c.registry.Lookup(schema.OrbitProperties)
	if err != nil {
		return nil, err
	}
	suffix, err := orbitSuffix(elements, epoch)
	if err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("path", downloadPath)
	params.Set("file", designation+suffix)

	record, err := c.queryObjectRecord(ctx, designation, spec, params)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to query orbit properties")
		return nil, err
	}
	return record, nil
}

// EphemerisRequest parameterizes an ephemerides query. Step counts the
// units between rows, e.g. Step=2 StepUnit=hours.
type EphemerisRequest struct {
	Designation string
	// observatory code, e.g. "500" for geocentric
	Observatory string
	Start       time.Time
	End         time.Time
	Step        float64
	StepUnit    string
}

var stepUnits = map[string]time.Duration{
	"days":    24 * time.Hour,
	"hours":   time.Hour,
	"minutes": time.Minute,
	"seconds": time.Second,
}

func (r EphemerisRequest) stepDuration() (time.Duration, error) {
	unit, ok := stepUnits[r.StepUnit]
	if !ok {
		return 0, fmt.Errorf("unknown step unit %q", r.StepUnit)
	}
	if r.Step <= 0 {
		return 0, fmt.Errorf("step must be positive, got %g", r.Step)
	}
	return time.Duration(r.Step * float64(unit)), nil
}

const ephemerisTimeLayout = "2006-01-02T15:04Z"

// QueryEphemeris fetches an ephemerides table for the requested time range
// and cadence.
func (c *Client) QueryEphemeris(ctx context.Context, req EphemerisRequest) (*Ephemeris, error) {
	ctx, span := tracer.Start(ctx, "QueryEphemeris")
	defer span.End()

	spec, err := c.registry.Lookup(schema.Ephemerides)
	if err != nil {
		return nil, err
	}
	step, err := req.stepDuration()
	if err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("path", ephemeridesPath)
	params.Set("des", req.Designation)
	params.Set("oc", req.Observatory)
	params.Set("t0", req.Start.UTC().Format(ephemerisTimeLayout))
	params.Set("t1", req.End.UTC().Format(ephemerisTimeLayout))
	params.Set("ti", strconv.FormatFloat(req.Step, 'f', -1, 64))
	params.Set("tiu", req.StepUnit)

	payload, err := c.fetcher.Fetch(ctx, spec.Category, params)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch ephemerides")
		return nil, err
	}
	parts, err := sections.Split(payload, spec)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to split ephemerides")
		return nil, err
	}

	header, err := extract.ParseEphemerisHeader(sectionByName(parts, sections.SectionHeader), spec.Category)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to parse ephemeris header")
		return nil, err
	}
	table, err := extract.Ephemeris(
		sectionByName(parts, sections.SectionData),
		spec,
		extract.EphemerisOptions{Step: step},
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to extract ephemerides")
		return nil, err
	}

	return &Ephemeris{
		Designation: req.Designation,
		Header:      header,
		Table:       table,
		Retrieved:   payload.Retrieved,
	}, nil
}

type queryResult struct {
	table     *neotable.Table
	parts     []sections.Section
	retrieved time.Time
}

// queryTable runs the fetch/split/extract pipeline for single-table
// categories and returns the sections alongside the main table.
func (c *Client) queryTable(ctx context.Context, spec schema.Spec, params url.Values, opts extract.EphemerisOptions) (queryResult, error) {
	payload, err := c.fetcher.Fetch(ctx, spec.Category, params)
	if err != nil {
		return queryResult{}, err
	}
	parts, err := sections.Split(payload, spec)
	if err != nil {
		return queryResult{}, err
	}
	if err := extract.ValidateColumns(sectionByName(parts, sections.SectionColumns), spec); err != nil {
		return queryResult{}, err
	}

	var table *neotable.Table
	switch spec.Class {
	case schema.ClassEphemeris:
		table, err = extract.Ephemeris(sectionByName(parts, sections.SectionData), spec, opts)
	default:
		table, err = extract.ForSpec(sectionByName(parts, sections.SectionData), spec)
	}
	if err != nil {
		return queryResult{}, err
	}
	return queryResult{table: table, parts: parts, retrieved: payload.Retrieved}, nil
}

func sectionByName(parts []sections.Section, name string) sections.Section {
	for _, s := range parts {
		if s.Name == name {
			return s
		}
	}
	return sections.Section{Name: name}
}
