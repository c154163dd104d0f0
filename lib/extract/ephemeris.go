package extract

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"neocc-backend/lib/coerce"
	"neocc-backend/lib/neotable"
	"neocc-backend/lib/schema"
	"neocc-backend/lib/sections"
)

// EphemerisOptions carries the expected cadence of an ephemeris payload,
// taken from its own header. A zero Step disables the cadence check.
type EphemerisOptions struct {
	Step time.Duration
}

// EphemerisHeader is the parsed keyword preamble of an ephemeris payload.
type EphemerisHeader struct {
	Observatory string
	InitialDate time.Time
	FinalDate   time.Time
	Step        time.Duration
}

// stepTolerance is the fraction by which row spacing may drift from the
// declared step before the table gets annotated.
const stepTolerance = 0.01

// Ephemeris extracts a time-ordered ephemeris section. Timestamps must be
// non-decreasing: out-of-order rows are treated as a corrupt payload rather
// than silently resorted, since resorting would mask truncated or
// interleaved responses.
func Ephemeris(data sections.Section, spec schema.Spec, opts EphemerisOptions) (*neotable.Table, error) {
	table := neotable.New(spec.TableColumns())

	timeAt := -1
	for i, col := range spec.Columns {
		if col.Kind == neotable.KindDate {
			timeAt = i
			break
		}
	}

	var prev time.Time
	stepDrift := false
	for i, line := range data.Lines {
		cells := splitRow(line, spec.Layout)
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

		if timeAt >= 0 && !row[timeAt].Missing {
			ts := row[timeAt].Time
			if i > 0 {
				if ts.Before(prev) {
					return nil, &sections.MalformedPayloadError{
						Category: spec.Category,
						Reason: fmt.Sprintf(
							"timestamps out of order at row %d: %s precedes %s",
							i, ts.Format(neotable.DateLayout), prev.Format(neotable.DateLayout),
						),
					}
				}
				if opts.Step > 0 && !stepDrift {
					gap := ts.Sub(prev)
					drift := math.Abs(gap.Seconds()-opts.Step.Seconds()) / opts.Step.Seconds()
					if drift > stepTolerance {
						table.Warnings = append(table.Warnings, fmt.Sprintf(
							"row spacing %s deviates from declared step %s at row %d",
							gap, opts.Step, i,
						))
						stepDrift = true
					}
				}
			}
			prev = ts
		}

		if err := table.AppendRow(row); err != nil {
			return nil, err
		}
	}

	return table, nil
}

// ParseEphemerisHeader reads the keyword preamble collected by the section
// splitter into a typed header.
func ParseEphemerisHeader(header sections.Section, category schema.Category) (*EphemerisHeader, error) {
	out := &EphemerisHeader{}
	for _, line := range header.Lines {
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)
		switch key {
		case "Observatory":
			out.Observatory = value
		case "Initial Date":
			t, err := parseHeaderDate(value, category)
			if err != nil {
				return nil, err
			}
			out.InitialDate = t
		case "Final Date":
			t, err := parseHeaderDate(value, category)
			if err != nil {
				return nil, err
			}
			out.FinalDate = t
		case "Time step":
			step, err := parseStep(value)
			if err != nil {
				return nil, &sections.MalformedPayloadError{
					Category: category,
					Reason:   fmt.Sprintf("bad time step %q: %v", value, err),
				}
			}
			out.Step = step
		}
	}
	if out.Observatory == "" {
		return nil, &sections.MalformedPayloadError{
			Category: category,
			Reason:   "header missing observatory",
		}
	}
	return out, nil
}

func parseHeaderDate(value string, category schema.Category) (time.Time, error) {
	v, err := coerce.Field(value, schema.Column{Name: "Date", Kind: neotable.KindDate})
	if err != nil {
		return time.Time{}, &sections.MalformedPayloadError{
			Category: category,
			Reason:   fmt.Sprintf("bad header date %q", value),
		}
	}
	return v.Time, nil
}

// parseStep parses the portal's "<count> <unit>" step notation, e.g.
// "1 days" or "30 minutes".
func parseStep(value string) (time.Duration, error) {
	fields := strings.Fields(value)
	if len(fields) != 2 {
		return 0, fmt.Errorf("want \"<count> <unit>\"")
	}
	count, err := strconv.ParseFloat(fields[0], 64)
	if err != nil || count <= 0 {
		return 0, fmt.Errorf("bad count %q", fields[0])
	}
	var unit time.Duration
	switch strings.ToLower(strings.TrimSuffix(fields[1], "s")) {
	case "day":
		unit = 24 * time.Hour
	case "hour":
		unit = time.Hour
	case "minute":
		unit = time.Minute
	case "second":
		unit = time.Second
	default:
		return 0, fmt.Errorf("unknown unit %q", fields[1])
	}
	return time.Duration(count * float64(unit)), nil
}
