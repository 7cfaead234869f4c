package aggregation

import (
	"cmp"
	"slices"

	"github.com/de-tools/ecfr-atlas/pkg/models/domain"
)

// Selector extracts the value records are ranked by.
type Selector func(domain.AggregateRecord) float64

// TopN returns the n records with the highest selector value, descending.
// Equal values keep their input order. The input slice is not modified.
func TopN(records []domain.AggregateRecord, n int, selector Selector) []domain.AggregateRecord {
	if n <= 0 || len(records) == 0 {
		return []domain.AggregateRecord{}
	}
	if selector == nil {
		selector = domain.MetricValue
	}

	sorted := slices.Clone(records)
	slices.SortStableFunc(sorted, func(a, b domain.AggregateRecord) int {
		return cmp.Compare(selector(b), selector(a))
	})

	limit := min(n, len(sorted))
	return slices.Clip(sorted[:limit])
}

// FilterByEntities keeps records whose entity id is in ids, preserving order.
// Apply it before TopN: the top N of a subset differs from the subset of the
// overall top N.
func FilterByEntities(records []domain.AggregateRecord, ids []string) []domain.AggregateRecord {
	allowed := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		allowed[id] = struct{}{}
	}

	out := make([]domain.AggregateRecord, 0, len(records))
	for _, r := range records {
		if _, ok := allowed[r.EntityID]; ok {
			out = append(out, r)
		}
	}
	return out
}

// TitleIDs lists the ids of titles, the usual input of FilterByEntities.
func TitleIDs(titles []domain.Title) []string {
	ids := make([]string, 0, len(titles))
	for _, t := range titles {
		ids = append(ids, t.ID)
	}
	return ids
}

type Stats struct {
	Count     int
	Total     float64
	Mean      float64
	Max       float64
	MaxEntity string
}

// Summarize computes headline numbers for a metric.
func Summarize(records []domain.AggregateRecord, selector Selector) Stats {
	if selector == nil {
		selector = domain.MetricValue
	}

	var s Stats
	for i, r := range records {
		v := selector(r)
		s.Total += v
		if i == 0 || v > s.Max {
			s.Max = v
			s.MaxEntity = r.EntityName
		}
	}
	s.Count = len(records)
	if s.Count > 0 {
		s.Mean = s.Total / float64(s.Count)
	}
	return s
}
