package viewfilter

import (
	"github.com/de-tools/ecfr-atlas/pkg/models/domain"
)

const (
	SortNone        SortKey = ""
	SortByNumber    SortKey = "number"
	SortByName      SortKey = "name"
	SortByWordCount SortKey = "wordCount"
)

var AgencySchema = &Schema[domain.Agency]{
	SearchFields: []func(domain.Agency) string{
		func(a domain.Agency) string { return a.Name },
		func(a domain.Agency) string { return a.Acronym },
		func(a domain.Agency) string { return a.ShortName },
	},
	Sorts: map[SortKey]Comparator[domain.Agency]{
		SortByName: func(a, b domain.Agency) int { return CompareNames(a.Name, b.Name) },
	},
}

// TitleSchema filters titles by name or number and by owning agency. Word
// count sorts largest first with missing counts last.
var TitleSchema = &Schema[domain.Title]{
	SearchFields: []func(domain.Title) string{
		func(t domain.Title) string { return t.Name },
		func(t domain.Title) string { return t.Number },
	},
	Category: domain.Title.AgencyID,
	Sorts: map[SortKey]Comparator[domain.Title]{
		SortByNumber: func(a, b domain.Title) int { return CompareDesignators(a.Number, b.Number) },
		SortByName:   func(a, b domain.Title) int { return CompareNames(a.Name, b.Name) },
		SortByWordCount: Descending(func(a, b domain.Title) int {
			return CompareMissingLowest(a.WordCount, b.WordCount)
		}),
	},
}

var SectionSchema = &Schema[domain.Section]{
	SearchFields: []func(domain.Section) string{
		func(s domain.Section) string { return s.Number },
		func(s domain.Section) string { return s.Heading },
	},
	Category: func(s domain.Section) string {
		if s.Title == nil {
			return ""
		}
		return s.Title.ID
	},
	Sorts: map[SortKey]Comparator[domain.Section]{
		SortByNumber: func(a, b domain.Section) int { return CompareDesignators(a.Number, b.Number) },
		SortByWordCount: Descending(func(a, b domain.Section) int {
			return CompareMissingLowest(a.WordCount, b.WordCount)
		}),
	},
}

// SortKeys lists the sort modes a schema accepts.
func SortKeys[T any](schema *Schema[T]) []SortKey {
	keys := make([]SortKey, 0, len(schema.Sorts))
	for _, k := range []SortKey{SortByNumber, SortByName, SortByWordCount} {
		if _, ok := schema.Sorts[k]; ok {
			keys = append(keys, k)
		}
	}
	return keys
}
