package document

import (
	"fmt"
	"strconv"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/cliptube/cliptube/pkg/apperr"
)

// Pagination defaults applied when page or limit are absent or malformed.
const (
	DefaultPage  = 1
	DefaultLimit = 10
)

// DefaultSortField is used when an unknown or empty sort field is requested.
const DefaultSortField = "createdAt"

// SortOrder defines the direction of sorting.
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// Sort specifies field and direction for ordering results.
type Sort struct {
	Field string
	Order SortOrder
}

// Page specifies the 1-based page window of a query.
type Page struct {
	Number int
	Limit  int
}

// Offset returns the number of documents skipped before this page.
func (p Page) Offset() int {
	if p.Number <= 1 {
		return 0
	}
	return (p.Number - 1) * p.Limit
}

// Window returns the skip and fetch counts for this page. Fetch is one more
// than the page limit so callers can detect a following page from a single
// round trip; the extra document is trimmed before it reaches the caller.
func (p Page) Window() (skip, fetch int) {
	return p.Offset(), p.Limit + 1
}

// TextMatch is a case-insensitive substring predicate on one text field.
// An empty term matches every document.
type TextMatch struct {
	Field string
	Term  string
}

// Match is the normalized filter predicate of a query: an optional text
// predicate plus exact-value criteria, all combined with AND.
type Match struct {
	Text   TextMatch
	Equals Filter
}

// Join declares a left-outer enrichment of the primary documents: for each
// primary document the related document whose _id equals LocalField is
// attached under As. When no relation exists the field is absent and the
// primary document is still returned. When several match (a store
// inconsistency), the first match wins deterministically.
//
// Multi joins array-valued local fields and attach every match instead.
type Join struct {
	From       string
	LocalField string
	As         string
	Multi      bool
}

// Plan is a complete, executable read query: filter, enrichment, ordering
// and page window. Plans are side-effect free.
type Plan struct {
	Match Match
	Joins []Join
	Sort  Sort
	Page  Page
}

// ParseID validates and converts a raw identifier. Malformed identifiers
// fail with reference.invalid before any store call is made.
func ParseID(raw string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(strings.TrimSpace(raw))
	if err != nil {
		return primitive.NilObjectID, apperr.NewInvalidReference(fmt.Sprintf("invalid identifier %q", raw))
	}
	return id, nil
}

// BuildMatch normalizes feed filter parameters into a Match. The text term
// may be empty (matches all). Every reference in refs must be a well-formed
// identifier or the whole operation fails fast with reference.invalid.
func BuildMatch(textField, term string, refs map[string]string) (Match, error) {
	match := Match{
		Text:   TextMatch{Field: textField, Term: strings.TrimSpace(term)},
		Equals: Filter{},
	}
	for field, raw := range refs {
		if strings.TrimSpace(raw) == "" {
			continue
		}
		id, err := ParseID(raw)
		if err != nil {
			return Match{}, err
		}
		match.Equals[field] = id
	}
	return match, nil
}

// ParsePage normalizes raw page and limit parameters. Non-numeric or
// non-positive values fall back to the defaults.
func ParsePage(rawPage, rawLimit string) Page {
	page := Page{Number: DefaultPage, Limit: DefaultLimit}
	if n, err := strconv.Atoi(strings.TrimSpace(rawPage)); err == nil && n > 0 {
		page.Number = n
	}
	if n, err := strconv.Atoi(strings.TrimSpace(rawLimit)); err == nil && n > 0 {
		page.Limit = n
	}
	return page
}

// ParseSort normalizes raw sort parameters against the set of sortable
// fields. Unknown fields fall back to DefaultSortField; any direction other
// than ascending is treated as descending, the feed default.
func ParseSort(rawField, rawOrder string, sortable map[string]struct{}) Sort {
	field := strings.TrimSpace(rawField)
	if _, ok := sortable[field]; !ok {
		field = DefaultSortField
	}

	order := SortDesc
	switch strings.ToLower(strings.TrimSpace(rawOrder)) {
	case "asc", "ascending", "1":
		order = SortAsc
	}
	return Sort{Field: field, Order: order}
}
