package sections

import (
	"strings"

	"neocc-backend/lib/htmlutil"

	"github.com/PuerkitoBio/goquery"
)

// splitHTMLProperties extracts property rows out of an object-tab HTML page.
// Each row normalizes into one tab-separated line: name, value, unit, source
// (unit and source only when the page carries them). A page without a single
// property row is the portal's "object not found" or error page.
func splitHTMLProperties(p RawPayload, body string) ([]Section, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return nil, &MalformedPayloadError{Category: p.Category, Reason: err.Error()}
	}

	data := Section{Name: SectionData, Category: p.Category}
	doc.Find("div.property-row").Each(func(_ int, row *goquery.Selection) {
		cells := []string{
			cellText(row, "div.property-name"),
			cellText(row, "div.property-value"),
		}
		if unit := row.Find("div.property-unit"); unit.Length() > 0 {
			cells = append(cells, cellText(row, "div.property-unit"))
		}
		if src := row.Find("div.property-source"); src.Length() > 0 {
			cells = append(cells, cellText(row, "div.property-source"))
		}
		data.Lines = append(data.Lines, strings.Join(cells, "\t"))
	})
	if len(data.Lines) == 0 {
		return nil, &MalformedPayloadError{
			Category: p.Category,
			Reason:   "no property rows found, object name may be wrong or misspelt",
		}
	}
	out := []Section{data}

	sources := Section{Name: SectionSources, Category: p.Category}
	doc.Find("div.source-row").Each(func(_ int, row *goquery.Selection) {
		sources.Lines = append(sources.Lines, strings.Join([]string{
			cellText(row, "div.source-num"),
			cellText(row, "div.source-name"),
			cellText(row, "div.source-info"),
		}, "\t"))
	})
	if len(sources.Lines) > 0 {
		out = append(out, sources)
	}
	return out, nil
}

func cellText(row *goquery.Selection, selector string) string {
	sel := row.Find(selector)
	if len(sel.Nodes) == 0 {
		return ""
	}
	return htmlutil.CleanText(sel.Nodes[0])
}
