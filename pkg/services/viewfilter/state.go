package viewfilter

import (
	"slices"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

const DefaultPageSize = 10

type SortKey string

// Comparator orders two rows: negative when a sorts first.
type Comparator[T any] func(a, b T) int

// Schema describes how rows of one collection are searched, filtered and sorted.
type Schema[T any] struct {
	// SearchFields are matched case-insensitively; a row matches when any
	// field contains the term.
	SearchFields []func(T) string
	// Category returns the foreign key compared against Filters.Category.
	Category func(T) string
	Sorts    map[SortKey]Comparator[T]
}

type Filters struct {
	Search   string
	Category string
}

// ViewState is one immutable configuration of a list screen together with
// the slice it shows. Transitions return a new value.
type ViewState[T any] struct {
	schema *Schema[T]

	Collection []T
	Filters    Filters
	SortKey    SortKey
	Page       int
	PageSize   int

	// Derived by Recompute.
	Visible []T
	Total   int
}

func New[T any](schema *Schema[T], collection []T, sortKey SortKey, pageSize int) ViewState[T] {
	return Recompute(ViewState[T]{
		schema:     schema,
		Collection: slices.Clone(collection),
		SortKey:    sortKey,
		PageSize:   pageSize,
	})
}

// Recompute derives Visible and Total from the collection, filters, sort and
// page. Equal inputs always produce equal output.
func Recompute[T any](s ViewState[T]) ViewState[T] {
	if s.PageSize <= 0 {
		s.PageSize = DefaultPageSize
	}
	if s.Page < 0 {
		s.Page = 0
	}

	matched := s.filter()
	if cmp, ok := s.comparator(); ok {
		slices.SortStableFunc(matched, cmp)
	}

	s.Total = len(matched)
	// Page and PageSize come from user input; keep the arithmetic in range.
	start := len(matched)
	if s.Page <= len(matched)/s.PageSize {
		start = s.Page * s.PageSize
	}
	end := start + min(s.PageSize, len(matched)-start)
	s.Visible = slices.Clone(matched[start:end])
	return s
}

// PageCount is the number of pages of the filtered collection, at least 1.
func (s ViewState[T]) PageCount() int {
	if s.Total == 0 || s.PageSize <= 0 {
		return 1
	}
	return (s.Total-1)/s.PageSize + 1
}

func (s ViewState[T]) WithCollection(collection []T) ViewState[T] {
	s.Collection = slices.Clone(collection)
	s.Page = 0
	return Recompute(s)
}

func (s ViewState[T]) WithSearch(term string) ViewState[T] {
	s.Filters.Search = term
	s.Page = 0
	return Recompute(s)
}

func (s ViewState[T]) WithCategory(category string) ViewState[T] {
	s.Filters.Category = category
	s.Page = 0
	return Recompute(s)
}

func (s ViewState[T]) WithSort(key SortKey) ViewState[T] {
	s.SortKey = key
	s.Page = 0
	return Recompute(s)
}

func (s ViewState[T]) WithPageSize(size int) ViewState[T] {
	s.PageSize = size
	s.Page = 0
	return Recompute(s)
}

// WithPage moves to page, clamped to the existing pages.
func (s ViewState[T]) WithPage(page int) ViewState[T] {
	s = Recompute(s)
	s.Page = max(0, min(page, s.PageCount()-1))
	return Recompute(s)
}

func (s ViewState[T]) filter() []T {
	term := fold(strings.TrimSpace(s.Filters.Search))
	category := s.Filters.Category

	out := make([]T, 0, len(s.Collection))
	for _, row := range s.Collection {
		if category != "" && (s.schema == nil || s.schema.Category == nil || s.schema.Category(row) != category) {
			continue
		}
		if term != "" && !s.matches(row, term) {
			continue
		}
		out = append(out, row)
	}
	return out
}

func (s ViewState[T]) matches(row T, term string) bool {
	if s.schema == nil {
		return false
	}
	for _, field := range s.schema.SearchFields {
		if v := field(row); v != "" && strings.Contains(fold(v), term) {
			return true
		}
	}
	return false
}

func (s ViewState[T]) comparator() (Comparator[T], bool) {
	if s.schema == nil || s.SortKey == "" {
		return nil, false
	}
	cmp, ok := s.schema.Sorts[s.SortKey]
	return cmp, ok
}

func fold(v string) string {
	return cases.Fold().String(norm.NFC.String(v))
}

// Clone copies the slices so the result can be handed out without sharing.
func (s ViewState[T]) Clone() ViewState[T] {
	s.Collection = slices.Clone(s.Collection)
	s.Visible = slices.Clone(s.Visible)
	return s
}
