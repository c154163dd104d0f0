package sections

import (
	"strings"
)

// orbit element names in file order for the two element sets
var keplerianElements = []struct{ name, unit string }{
	{"a", "au"},
	{"e", ""},
	{"i", "deg"},
	{"long. node", "deg"},
	{"arg. peric.", "deg"},
	{"mean anomaly", "deg"},
}

var equinoctialElements = []struct{ name, unit string }{
	{"a", "au"},
	{"e*sin(LP)", ""},
	{"e*cos(LP)", ""},
	{"tan(i/2)*sin(LN)", ""},
	{"tan(i/2)*cos(LN)", ""},
	{"mean long.", "deg"},
}

var orbitParameterUnits = map[string]string{
	"PERIHELION": "au",
	"APHELION":   "au",
	"ANODE":      "au",
	"DNODE":      "au",
	"MOID":       "au",
	"PERIOD":     "d",
	"PHA":        "",
	"VINFTY":     "km/s",
	"U_PAR":      "",
}

// splitKeywordBlocks handles OEF-style orbit property files: a keyword
// header ("format = ...") terminated by END_OF_HEADER, then element and
// parameter records. Each recognized record normalizes into tab-separated
// "parameter, value, unit" lines; covariance/correlation matrix blocks are
// not carried into the normalized table.
func splitKeywordBlocks(p RawPayload, lines []string) ([]Section, error) {
	header := Section{Name: SectionHeader, Category: p.Category}
	bodyStart := -1
	for i, line := range lines {
		stripped := strings.TrimSpace(line)
		if stripped == "END_OF_HEADER" {
			bodyStart = i + 1
			break
		}
		if strings.Contains(stripped, "=") {
			header.Lines = append(header.Lines, stripped)
		}
	}
	if bodyStart < 0 || !hasKeywordLine(header.Lines, "format") {
		return nil, &MalformedPayloadError{
			Category: p.Category,
			Reason:   "missing OEF keyword header",
		}
	}

	data := Section{Name: SectionData, Category: p.Category}
	addRow := func(name, value, unit string) {
		data.Lines = append(data.Lines, name+"\t"+value+"\t"+unit)
	}

	for _, line := range lines[bodyStart:] {
		stripped := strings.TrimSpace(line)
		if stripped == "" || strings.HasPrefix(stripped, "!") {
			continue
		}
		fields := strings.Fields(stripped)

		switch fields[0] {
		case "KEP", "EQU":
			elements := keplerianElements
			if fields[0] == "EQU" {
				elements = equinoctialElements
			}
			if len(fields) != len(elements)+1 {
				continue
			}
			for i, el := range elements {
				addRow(el.name, fields[i+1], el.unit)
			}
		case "MJD":
			if len(fields) >= 2 {
				addRow("epoch", fields[1], "MJD")
			}
		case "MAG":
			if len(fields) >= 2 {
				addRow("absolute magnitude", fields[1], "mag")
			}
			if len(fields) >= 3 {
				addRow("slope parameter", fields[2], "")
			}
		default:
			unit, known := orbitParameterUnits[fields[0]]
			if !known || len(fields) < 2 {
				continue
			}
			addRow(strings.ToLower(fields[0]), fields[1], unit)
		}
	}

	if len(data.Lines) == 0 {
		return nil, &MalformedPayloadError{
			Category: p.Category,
			Reason:   "no orbit element records after header",
		}
	}
	return []Section{header, data}, nil
}
