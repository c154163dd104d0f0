package sections

import (
	"fmt"
	"strings"
)

// char span of a fixed-width .rwo observation field, end exclusive
type span struct{ start, end int }

func (s span) cut(line string) string {
	if s.start >= len(line) {
		return ""
	}
	end := s.end
	if end > len(line) {
		end = len(line)
	}
	return strings.TrimSpace(line[s.start:end])
}

// observation type flag; "v" marks roving observer rows, "s" satellite rows
var obsTypeSpan = span{12, 15}

// obsDate joins the split year/month/fractional-day fields into the
// calendar form the coercion layer already understands.
func obsDate(line string, daySpan span) string {
	year := span{17, 21}.cut(line)
	month := span{22, 24}.cut(line)
	day := daySpan.cut(line)
	if year == "" || month == "" || day == "" {
		return ""
	}
	return year + "/" + month + "/" + day
}

func opticalRow(line string) string {
	cells := []string{
		span{0, 10}.cut(line),   // designation
		span{11, 12}.cut(line),  // K
		obsTypeSpan.cut(line),   // type
		span{15, 16}.cut(line),  // N
		obsDate(line, span{25, 38}),
		span{40, 49}.cut(line),   // date accuracy
		span{50, 62}.cut(line),   // RA
		span{64, 73}.cut(line),   // RA accuracy
		span{76, 82}.cut(line),   // RA RMS
		span{96, 102}.cut(line),  // RA resid
		span{103, 115}.cut(line), // DEC
		span{117, 126}.cut(line), // DEC accuracy
		span{129, 135}.cut(line), // DEC RMS
		span{149, 155}.cut(line), // DEC resid
		span{156, 161}.cut(line), // mag
		span{177, 179}.cut(line), // ast cat
		span{180, 183}.cut(line), // obs code
		span{188, 193}.cut(line), // chi
	}
	return strings.Join(cells, "\t")
}

func rovingRow(line string) string {
	cells := []string{
		span{0, 10}.cut(line),
		span{11, 12}.cut(line),
		span{12, 14}.cut(line),
		span{15, 16}.cut(line),
		obsDate(line, span{25, 34}),
		span{34, 44}.cut(line), // east longitude
		span{45, 55}.cut(line), // latitude
		span{56, 64}.cut(line), // altitude
		span{65, 68}.cut(line), // obs code
	}
	return strings.Join(cells, "\t")
}

func satelliteRow(line string) string {
	cells := []string{
		span{0, 10}.cut(line),
		span{11, 12}.cut(line),
		obsTypeSpan.cut(line),
		span{15, 16}.cut(line),
		obsDate(line, span{25, 34}),
		span{34, 35}.cut(line),   // parallax unit flag
		span{40, 59}.cut(line),   // X
		span{64, 83}.cut(line),   // Y
		span{88, 107}.cut(line),  // Z
		span{108, 111}.cut(line), // obs code
	}
	return strings.Join(cells, "\t")
}

// radarRow normalizes one radar observation; unlike the optical rows these
// split cleanly on whitespace up to the measurement fields.
func radarRow(line string) (string, error) {
	fields := strings.Fields(line)
	if len(fields) < 10 {
		return "", fmt.Errorf("radar row has %d fields, want at least 10", len(fields))
	}
	cells := []string{
		fields[0],
		fields[1],
		fields[2],
		fields[3] + "-" + fields[4] + "-" + fields[5] + " " + fields[6],
		fields[7],
		fields[8],
		fields[9],
	}
	return strings.Join(cells, "\t"), nil
}

// splitObservations handles .rwo observation files: a keyword header
// (version, error model, residual RMS values) terminated by END_OF_HEADER,
// a column header row, fixed-width optical rows — roving observer and
// satellite rows interleaved among them — and an optional radar block
// introduced by a "! Object" header. Every row normalizes into
// tab-separated cells in its flavor's column order.
func splitObservations(p RawPayload, lines []string) ([]Section, error) {
	malformed := func(reason string) ([]Section, error) {
		return nil, &MalformedPayloadError{Category: p.Category, Reason: reason}
	}

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
	if bodyStart < 0 || !hasKeywordLine(header.Lines, "version") {
		return malformed("missing observations keyword header")
	}

	columns := Section{Name: SectionColumns, Category: p.Category}
	data := Section{Name: SectionData, Category: p.Category}
	roving := Section{Name: SectionRoving, Category: p.Category}
	satellite := Section{Name: SectionSatellite, Category: p.Category}
	radar := Section{Name: SectionRadar, Category: p.Category}

	inRadar := false
	for _, line := range lines[bodyStart:] {
		if strings.TrimSpace(line) == "" {
			continue
		}
		if strings.HasPrefix(line, "! Object") {
			inRadar = true
			continue
		}
		if strings.HasPrefix(line, "!") {
			if len(columns.Lines) == 0 {
				columns.Lines = append(columns.Lines, strings.TrimSpace(line))
			}
			continue
		}
		if inRadar {
			row, err := radarRow(line)
			if err != nil {
				return malformed(err.Error())
			}
			radar.Lines = append(radar.Lines, row)
			continue
		}
		switch obsTypeSpan.cut(line) {
		case "v":
			roving.Lines = append(roving.Lines, rovingRow(line))
		case "s":
			satellite.Lines = append(satellite.Lines, satelliteRow(line))
		default:
			data.Lines = append(data.Lines, opticalRow(line))
		}
	}

	if len(columns.Lines) == 0 {
		return malformed("missing observations column header")
	}

	out := []Section{header, columns, data}
	for _, s := range []Section{roving, satellite, radar} {
		if len(s.Lines) > 0 {
			out = append(out, s)
		}
	}
	return out, nil
}
