package extract

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"neocc-backend/lib/coerce"
	"neocc-backend/lib/neotable"
	"neocc-backend/lib/schema"
	"neocc-backend/lib/sections"
)

// ImpactsFooter carries the free-text metadata trailing an impacts table:
// the observation arc the solution is based on, and when it was computed.
type ImpactsFooter struct {
	TotalObservations    int
	RejectedObservations int
	ArcStart             time.Time
	ArcEnd               time.Time
	ComputedAt           time.Time
	Note                 string
}

var (
	observationsRe = regexp.MustCompile(
		`Based on (\d+) optical observations \(of which (\d+) are rejected as outliers\)`)
	arcRe = regexp.MustCompile(`from (\S+) to (\S+?)\.?$`)
)

// ParseImpactsFooter reads the footer section of an impacts payload. The
// observation line is mandatory, everything else is attached when present.
func ParseImpactsFooter(footer sections.Section, category schema.Category) (*ImpactsFooter, error) {
	out := &ImpactsFooter{}
	found := false

	var note []string
	for _, line := range footer.Lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if m := observationsRe.FindStringSubmatch(line); m != nil {
			found = true
			out.TotalObservations, _ = strconv.Atoi(m[1])
			out.RejectedObservations, _ = strconv.Atoi(m[2])
			if a := arcRe.FindStringSubmatch(line); a != nil {
				out.ArcStart = footerDate(a[1])
				out.ArcEnd = footerDate(a[2])
			}
			continue
		}
		if a := arcRe.FindStringSubmatch(line); a != nil && strings.HasPrefix(line, "from ") {
			out.ArcStart = footerDate(a[1])
			out.ArcEnd = footerDate(a[2])
			continue
		}
		if strings.Contains(strings.ToLower(line), "computation") && strings.Contains(line, "=") {
			// decorative "= = =" borders may trail the actual value
			raw := strings.TrimRight(line, "= ")
			if at := strings.LastIndex(raw, "="); at >= 0 {
				out.ComputedAt = footerDate(strings.TrimSpace(raw[at+1:]))
			}
			continue
		}
		note = append(note, line)
	}
	out.Note = strings.Join(note, "\n")

	if !found {
		return nil, &sections.MalformedPayloadError{
			Category: category,
			Reason:   "footer missing observation summary",
		}
	}
	return out, nil
}

// footerDate coerces one of the footer's loosely formatted dates, tolerating
// fractional-day notation. Unparseable dates come back zero, the footer is
// informational and must not fail an otherwise good table.
func footerDate(token string) time.Time {
	v, err := coerce.Field(token, schema.Column{Name: "Date", Kind: neotable.KindDate})
	if err != nil || v.Missing {
		return time.Time{}
	}
	return v.Time
}

// Table renders the footer as a property-style table so the CLI shows it the
// same way it shows any other tab.
func (f *ImpactsFooter) Table() *neotable.Table {
	t := neotable.New([]neotable.Column{
		{Name: "Parameter", Kind: neotable.KindText},
		{Name: "Value", Kind: neotable.KindAny},
	})
	row := func(name string, value neotable.Value) {
		_ = t.AppendRow([]neotable.Value{neotable.TextValue(name), value})
	}
	row("observations", neotable.IntValue(int64(f.TotalObservations)))
	row("rejected observations", neotable.IntValue(int64(f.RejectedObservations)))
	row("arc start", dateOrMissing(f.ArcStart))
	row("arc end", dateOrMissing(f.ArcEnd))
	row("computed at", dateOrMissing(f.ComputedAt))
	if f.Note != "" {
		row("note", neotable.TextValue(f.Note))
	}
	return t
}

func dateOrMissing(t time.Time) neotable.Value {
	if t.IsZero() {
		return neotable.MissingValue(neotable.KindDate)
	}
	return neotable.DateValue(t)
}
