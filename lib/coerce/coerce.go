// Package coerce converts raw portal tokens into typed table cells. It never
// substitutes defaults: a token either coerces cleanly, maps to the explicit
// missing marker, or fails with an Error carrying enough context to diagnose
// upstream format drift.
package coerce

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"neocc-backend/lib/neotable"
	"neocc-backend/lib/schema"
)

// Error reports a token that failed typed conversion. Row is filled in by
// extractors, which know the position; -1 means unknown.
type Error struct {
	Token  string
	Column string
	Want   neotable.Kind
	Row    int
	Reason string
}

func (e *Error) Error() string {
	return fmt.Sprintf(
		"cannot coerce %q into %s column %q (row %d): %s",
		e.Token, e.Want, e.Column, e.Row, e.Reason,
	)
}

// MissingTokens is the set of tokens the portal uses for "no value
// reported". They coerce to the missing marker for every column kind.
var MissingTokens = map[string]struct{}{
	"":    {},
	"-":   {},
	"N/A": {},
	"n/a": {},
}

func IsMissingToken(token string) bool {
	_, ok := MissingTokens[strings.TrimSpace(token)]
	return ok
}

var innerWhitespace = regexp.MustCompile(`\s+`)

// fractional-day calendar form, e.g. "1957/04/01.13908"
var fractionalDay = regexp.MustCompile(`^(\d{4})[-/](\d{1,2})[-/](\d{1,2})\.(\d+)$`)

// accepted source layouts mapping onto the canonical ISO-8601 form; all are
// four-digit-year layouts on purpose, two-digit years are rejected rather
// than guessed
var dateLayouts = []string{
	neotable.DateLayout,
	"2006-01-02T15:04Z",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"2006/01/02T15:04",
	"2006/01/02 15:04",
	"2006/01/02",
	"02 Jan 2006 15:04",
	"02 Jan 2006",
}

// Field coerces a single raw token according to the column schema.
func Field(token string, col schema.Column) (neotable.Value, error) {
	token = strings.TrimSpace(token)
	if IsMissingToken(token) {
		return neotable.MissingValue(col.Kind), nil
	}
	token = innerWhitespace.ReplaceAllString(token, " ")

	fail := func(reason string) (neotable.Value, error) {
		return neotable.Value{}, &Error{
			Token:  token,
			Column: col.Name,
			Want:   col.Kind,
			Row:    -1,
			Reason: reason,
		}
	}

	switch col.Kind {
	case neotable.KindInt:
		n, err := strconv.ParseInt(stripUnit(token, col.Unit), 10, 64)
		if err != nil {
			return fail("not an integer")
		}
		return neotable.IntValue(n), nil

	case neotable.KindFloat:
		f, err := strconv.ParseFloat(stripUnit(token, col.Unit), 64)
		if err != nil {
			return fail("not a float")
		}
		return neotable.FloatValue(f), nil

	case neotable.KindMagnitude:
		bare, uncertain := stripUncertainty(stripUnit(token, col.Unit))
		f, err := strconv.ParseFloat(bare, 64)
		if err != nil {
			return fail("not a magnitude")
		}
		return neotable.MagnitudeValue(f, uncertain), nil

	case neotable.KindDate:
		t, ok := parseDate(token)
		if !ok {
			return fail("unrecognized date format")
		}
		if t.Year() < 1000 {
			return fail("ambiguous two-digit year")
		}
		return neotable.DateValue(t), nil

	case neotable.KindEnum:
		for _, allowed := range col.Enum {
			if token == allowed {
				return neotable.EnumValue(token), nil
			}
		}
		return fail(fmt.Sprintf("not in enum %v", col.Enum))

	case neotable.KindAny:
		bare, uncertain := stripUncertainty(stripUnit(token, col.Unit))
		if f, err := strconv.ParseFloat(bare, 64); err == nil {
			if uncertain {
				return neotable.MagnitudeValue(f, true), nil
			}
			return neotable.FloatValue(f), nil
		}
		return neotable.TextValue(token), nil

	case neotable.KindText:
		return neotable.TextValue(token), nil
	}

	return fail("unsupported column kind")
}

// stripUnit removes a declared trailing unit suffix (with or without a
// separating space) before numeric conversion.
func stripUnit(token, unit string) string {
	if unit == "" {
		return token
	}
	trimmed := strings.TrimSuffix(token, unit)
	if trimmed == token {
		return token
	}
	return strings.TrimSpace(trimmed)
}

// stripUncertainty removes the portal's trailing asterisk markers, e.g.
// "0.46**", reporting whether any were present.
func stripUncertainty(token string) (string, bool) {
	bare := strings.TrimRight(token, "*")
	return strings.TrimSpace(bare), bare != token
}

func parseDate(token string) (time.Time, bool) {
	if m := fractionalDay.FindStringSubmatch(token); m != nil {
		year, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		day, _ := strconv.Atoi(m[3])
		frac, err := strconv.ParseFloat("0."+m[4], 64)
		if err != nil {
			return time.Time{}, false
		}
		t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
		return t.Add(time.Duration(frac * 24 * float64(time.Hour))).Truncate(time.Second), true
	}

	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, token)
		if err == nil {
			return t.UTC().Truncate(time.Second), true
		}
	}
	return time.Time{}, false
}
