package extract

import (
	"fmt"
	"strconv"
	"strings"

	"neocc-backend/lib/neotable"
	"neocc-backend/lib/schema"
	"neocc-backend/lib/sections"
)

// ObservationsHeader carries the error-model metadata of an observations
// file: which weighting model produced the residuals and their RMS.
type ObservationsHeader struct {
	Version    int
	ErrorModel string
	RMSAst     float64
	// zero when the file reports no magnitude residuals
	RMSMag float64
}

// ParseObservationsHeader reads the keyword header of an observations file.
// The version, error model and astrometric RMS lines are mandatory; the
// magnitude RMS is absent for objects without photometry.
func ParseObservationsHeader(header sections.Section, category schema.Category) (*ObservationsHeader, error) {
	malformed := func(reason string) (*ObservationsHeader, error) {
		return nil, &sections.MalformedPayloadError{Category: category, Reason: reason}
	}

	out := &ObservationsHeader{}
	seen := map[string]bool{}
	for _, line := range header.Lines {
		key, value, found := strings.Cut(line, "=")
		if !found {
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)
		seen[key] = true

		switch key {
		case "version":
			n, err := strconv.Atoi(value)
			if err != nil {
				return malformed(fmt.Sprintf("bad observations version %q", value))
			}
			out.Version = n
		case "errmod":
			out.ErrorModel = strings.Trim(value, "'")
		case "RMSast":
			f, err := strconv.ParseFloat(value, 64)
			if err != nil {
				return malformed(fmt.Sprintf("bad RMSast %q", value))
			}
			out.RMSAst = f
		case "RMSmag":
			f, err := strconv.ParseFloat(value, 64)
			if err != nil {
				return malformed(fmt.Sprintf("bad RMSmag %q", value))
			}
			out.RMSMag = f
		}
	}

	if !seen["version"] || !seen["errmod"] || !seen["RMSast"] {
		return malformed("observations header missing error model")
	}
	return out, nil
}

// Table renders the header metadata property-style for display.
func (h *ObservationsHeader) Table() *neotable.Table {
	t := neotable.New([]neotable.Column{
		{Name: "Parameter", Kind: neotable.KindText},
		{Name: "Value", Kind: neotable.KindAny},
	})
	row := func(name string, value neotable.Value) {
		_ = t.AppendRow([]neotable.Value{neotable.TextValue(name), value})
	}
	row("version", neotable.IntValue(int64(h.Version)))
	row("error model", neotable.TextValue(h.ErrorModel))
	row("RMS astrometry", neotable.FloatValue(h.RMSAst))
	if h.RMSMag != 0 {
		row("RMS magnitude", neotable.FloatValue(h.RMSMag))
	}
	return t
}
