// Package sections partitions raw portal payloads into named sections based
// on the structural markers each category is known to carry. Downstream
// extractors assume header-validated structure, so an unrecognizable payload
// (typically an HTML error or redirect page where data was expected) is a
// hard failure here, never an empty result.
package sections

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"neocc-backend/lib/schema"
)

// RawPayload is the opaque result of one portal fetch: the body plus the
// category and query parameters that produced it. It is consumed once by
// Split and then discarded.
type RawPayload struct {
	Category  schema.Category
	Params    url.Values
	Body      []byte
	Retrieved time.Time
}

// Section is a named, ordered slice of raw lines cut out of one payload.
// For HTML-sourced and keyword-block layouts the splitter normalizes each
// logical row into a single tab-separated line.
type Section struct {
	Name     string
	Category schema.Category
	Lines    []string
}

// Conventional section names produced by Split.
const (
	SectionHeader  = "header"
	SectionColumns = "columns"
	SectionData    = "data"
	SectionFooter  = "footer"
	SectionSources = "sources"
)

// Extra observation flavors carried by .rwo files alongside the optical
// data rows.
const (
	SectionRoving    = "roving"
	SectionSatellite = "satellite"
	SectionRadar     = "radar"
)

type MalformedPayloadError struct {
	Category schema.Category
	Reason   string
}

func (e *MalformedPayloadError) Error() string {
	return fmt.Sprintf("malformed %s payload: %s", e.Category, e.Reason)
}

// Split partitions the payload according to the layout its spec declares.
func Split(p RawPayload, spec schema.Spec) ([]Section, error) {
	malformed := func(reason string) ([]Section, error) {
		return nil, &MalformedPayloadError{Category: p.Category, Reason: reason}
	}

	body := string(p.Body)
	if strings.TrimSpace(body) == "" {
		return malformed("empty payload")
	}

	switch spec.Layout {
	case schema.LayoutHTMLProperties:
		return splitHTMLProperties(p, body)
	}

	if looksLikeHTML(body) {
		return malformed("got an HTML page where tabular data was expected")
	}

	lines := splitLines(body)
	switch spec.Layout {
	case schema.LayoutLines:
		return splitBareLines(p, lines)
	case schema.LayoutPipe:
		return splitPipeTable(p, spec, lines)
	case schema.LayoutWhitespace:
		return splitWhitespaceTable(p, spec, lines)
	case schema.LayoutKeywordBlocks:
		return splitKeywordBlocks(p, lines)
	case schema.LayoutEphemeris:
		return splitEphemeris(p, spec, lines)
	case schema.LayoutObservations:
		return splitObservations(p, lines)
	}
	return malformed(fmt.Sprintf("no splitting strategy for layout %d", spec.Layout))
}

// splitLines tolerates CRLF endings and trailing padding.
func splitLines(body string) []string {
	body = strings.ReplaceAll(body, "\r\n", "\n")
	lines := strings.Split(body, "\n")
	for i := range lines {
		lines[i] = strings.TrimRight(lines[i], " \t")
	}
	return lines
}

func looksLikeHTML(body string) bool {
	head := strings.ToLower(strings.TrimSpace(body))
	if len(head) > 512 {
		head = head[:512]
	}
	return strings.HasPrefix(head, "<!doctype") ||
		strings.HasPrefix(head, "<html") ||
		strings.Contains(head, "<html")
}

func splitBareLines(p RawPayload, lines []string) ([]Section, error) {
	data := Section{Name: SectionData, Category: p.Category}
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		data.Lines = append(data.Lines, line)
	}
	if len(data.Lines) == 0 {
		return nil, &MalformedPayloadError{Category: p.Category, Reason: "no data lines"}
	}
	return []Section{data}, nil
}

// splitPipeTable handles pipe-delimited catalogs: free-form header lines,
// a column header row, a dashed separator row, then homogeneous data rows
// until a blank line or EOF.
func splitPipeTable(p RawPayload, spec schema.Spec, lines []string) ([]Section, error) {
	headerAt := -1
	for i, line := range lines {
		if !strings.Contains(line, "|") {
			continue
		}
		if spec.HeaderMarker != "" && !strings.HasPrefix(strings.TrimSpace(line), spec.HeaderMarker) {
			continue
		}
		headerAt = i
		break
	}
	if headerAt < 0 {
		return nil, &MalformedPayloadError{
			Category: p.Category,
			Reason:   fmt.Sprintf("column header row %q not found", spec.HeaderMarker),
		}
	}
	if headerAt+1 >= len(lines) || !isSeparatorRow(lines[headerAt+1]) {
		return nil, &MalformedPayloadError{
			Category: p.Category,
			Reason:   "column header row is not followed by a separator row",
		}
	}

	out := []Section{
		{Name: SectionHeader, Category: p.Category, Lines: trimmed(lines[:headerAt])},
		{Name: SectionColumns, Category: p.Category, Lines: []string{lines[headerAt]}},
	}
	data := Section{Name: SectionData, Category: p.Category}
	for _, line := range lines[headerAt+2:] {
		if strings.TrimSpace(line) == "" {
			break
		}
		data.Lines = append(data.Lines, line)
	}
	return append(out, data), nil
}

// splitWhitespaceTable handles whitespace-separated tables: a header row
// identified by its first token, data rows until a blank line or the
// category's footer marker, then optional footer lines.
func splitWhitespaceTable(p RawPayload, spec schema.Spec, lines []string) ([]Section, error) {
	headerAt := -1
	for i, line := range lines {
		fields := strings.Fields(line)
		if len(fields) > 0 && fields[0] == spec.HeaderMarker {
			headerAt = i
			break
		}
	}
	if headerAt < 0 {
		return nil, &MalformedPayloadError{
			Category: p.Category,
			Reason:   fmt.Sprintf("column header row %q not found", spec.HeaderMarker),
		}
	}

	out := []Section{
		{Name: SectionHeader, Category: p.Category, Lines: trimmed(lines[:headerAt])},
		{Name: SectionColumns, Category: p.Category, Lines: []string{lines[headerAt]}},
	}
	data := Section{Name: SectionData, Category: p.Category}
	footer := Section{Name: SectionFooter, Category: p.Category}

	rest := lines[headerAt+1:]
	// skip a decorative separator row if present
	if len(rest) > 0 && isSeparatorRow(rest[0]) {
		rest = rest[1:]
	}
	inFooter := false
	for _, line := range rest {
		stripped := strings.TrimSpace(line)
		if !inFooter {
			if stripped == "" {
				inFooter = true
				continue
			}
			if spec.FooterMarker != "" && strings.HasPrefix(stripped, spec.FooterMarker) {
				inFooter = true
				footer.Lines = append(footer.Lines, stripped)
				continue
			}
			data.Lines = append(data.Lines, line)
			continue
		}
		if stripped != "" {
			footer.Lines = append(footer.Lines, stripped)
		}
	}

	out = append(out, data)
	if len(footer.Lines) > 0 {
		out = append(out, footer)
	}
	return out, nil
}

// splitEphemeris handles the ephemeris service response: a keyword header
// block (Observatory, Initial Date, Final Date, Time step), a column header
// row, and fixed data rows.
func splitEphemeris(p RawPayload, spec schema.Spec, lines []string) ([]Section, error) {
	header := Section{Name: SectionHeader, Category: p.Category}
	headerAt := -1
	for i, line := range lines {
		stripped := strings.TrimSpace(line)
		fields := strings.Fields(stripped)
		if len(fields) > 0 && fields[0] == spec.HeaderMarker {
			headerAt = i
			break
		}
		if strings.Contains(stripped, ":") {
			header.Lines = append(header.Lines, stripped)
		}
	}
	if headerAt < 0 {
		return nil, &MalformedPayloadError{
			Category: p.Category,
			Reason:   fmt.Sprintf("column header row %q not found", spec.HeaderMarker),
		}
	}
	for _, want := range []string{"Observatory:", "Initial Date:", "Final Date:", "Time step:"} {
		if !hasKeywordLine(header.Lines, want) {
			return nil, &MalformedPayloadError{
				Category: p.Category,
				Reason:   fmt.Sprintf("missing %q header line", want),
			}
		}
	}

	out := []Section{
		header,
		{Name: SectionColumns, Category: p.Category, Lines: []string{lines[headerAt]}},
	}
	data := Section{Name: SectionData, Category: p.Category}
	rest := lines[headerAt+1:]
	if len(rest) > 0 && isSeparatorRow(rest[0]) {
		rest = rest[1:]
	}
	for _, line := range rest {
		if strings.TrimSpace(line) == "" {
			break
		}
		data.Lines = append(data.Lines, line)
	}
	return append(out, data), nil
}

func hasKeywordLine(lines []string, prefix string) bool {
	for _, line := range lines {
		if strings.HasPrefix(line, prefix) {
			return true
		}
	}
	return false
}

func isSeparatorRow(line string) bool {
	line = strings.TrimSpace(line)
	if line == "" {
		return false
	}
	for _, r := range line {
		switch r {
		case '-', '=', '+', '|', ' ':
		default:
			return false
		}
	}
	return true
}

func trimmed(lines []string) []string {
	var out []string
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}
