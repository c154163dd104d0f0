// Package resolve maps user-supplied object names onto the portal's
// canonical designations. Exact matches (after normalization) win outright,
// otherwise the closest designation above a similarity floor is suggested.
package resolve

import (
	"fmt"

	"neocc-backend/lib/neotable"
	"neocc-backend/lib/textutil"

	"github.com/antzucaro/matchr"
)

// MinSimilarity is the floor below which no suggestion is offered; looser
// matches are more misleading than a plain not-found.
const MinSimilarity = 0.85

type Match struct {
	Designation string
	// 1 for an exact or unambiguous partial match
	Similarity float64
}

// NotFoundError reports a designation that matched nothing in the catalog.
type NotFoundError struct {
	Query string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no object matching %q", e.Query)
}

// Resolver holds the known designations, typically the NEA list.
type Resolver struct {
	designations []string
}

// New builds a resolver from the catalog's designation list.
func New(designations []string) *Resolver {
	return &Resolver{designations: designations}
}

// FromTable builds a resolver out of a single-column catalog table.
func FromTable(table *neotable.Table, column string) (*Resolver, error) {
	idx := table.ColumnIndex(column)
	if idx < 0 {
		return nil, fmt.Errorf("table has no %q column", column)
	}
	designations := make([]string, 0, table.Len())
	for _, row := range table.Rows {
		if row[idx].Missing {
			continue
		}
		designations = append(designations, row[idx].Str)
	}
	return New(designations), nil
}

// Resolve finds the canonical designation for a query. Normalized equality
// is tried first, then a partial designation matching exactly one catalog
// entry, then the most similar designation above MinSimilarity.
func (r *Resolver) Resolve(query string) (Match, error) {
	normalized := textutil.NormalizeDesignation(query)
	if normalized == "" {
		return Match{}, &NotFoundError{Query: query}
	}

	var best Match
	var containing []string
	for _, designation := range r.designations {
		candidate := textutil.NormalizeDesignation(designation)
		if candidate == normalized {
			return Match{Designation: designation, Similarity: 1}, nil
		}
		if textutil.MatchDesignation(designation, []string{normalized}) {
			containing = append(containing, designation)
		}
		similarity := matchr.JaroWinkler(normalized, candidate, false)
		if similarity > best.Similarity {
			best = Match{Designation: designation, Similarity: similarity}
		}
	}

	// a partial designation only resolves when it is unambiguous
	if len(containing) == 1 {
		return Match{Designation: containing[0], Similarity: 1}, nil
	}

	if best.Similarity < MinSimilarity {
		return Match{}, &NotFoundError{Query: query}
	}
	return best, nil
}
