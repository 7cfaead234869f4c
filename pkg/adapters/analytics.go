package adapters

import (
	"fmt"
	"maps"

	"github.com/de-tools/ecfr-atlas/pkg/models/domain"
	"github.com/de-tools/ecfr-atlas/pkg/models/store"
)

func MapWordCountToAggregate(r store.WordCountResult) (domain.AggregateRecord, error) {
	var value int64
	if r.WordCount != nil {
		value = *r.WordCount
	}
	if value < 0 {
		return domain.AggregateRecord{}, fmt.Errorf("entity %s has negative word count %d", r.EntityID, value)
	}

	var pct *float64
	if r.PercentageOfTotal != nil {
		p := *r.PercentageOfTotal
		pct = &p
	}

	return domain.AggregateRecord{
		EntityID:          r.EntityID,
		EntityName:        r.EntityName,
		EntityType:        domain.EntityType(r.EntityType),
		MetricValue:       float64(value),
		PercentageOfTotal: pct,
	}, nil
}

func MapWordCountsToAggregates(results []store.WordCountResult) ([]domain.AggregateRecord, error) {
	out := make([]domain.AggregateRecord, 0, len(results))
	for _, r := range results {
		rec, err := MapWordCountToAggregate(r)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

func MapChangeFrequencyToAggregate(r store.ChangeFrequencyResult) (domain.AggregateRecord, error) {
	var total int64
	if r.TotalChanges != nil {
		total = *r.TotalChanges
	}
	if total < 0 {
		return domain.AggregateRecord{}, fmt.Errorf("entity %s has negative change total %d", r.EntityID, total)
	}
	for date, count := range r.ChangesByDate {
		if count < 0 {
			return domain.AggregateRecord{}, fmt.Errorf("entity %s has negative count %d for %s", r.EntityID, count, date)
		}
	}

	return domain.AggregateRecord{
		EntityID:           r.EntityID,
		EntityName:         r.EntityName,
		EntityType:         domain.EntityType(r.EntityType),
		MetricValue:        float64(total),
		DateBucketedCounts: maps.Clone(r.ChangesByDate),
	}, nil
}

func MapChangeFrequenciesToAggregates(results []store.ChangeFrequencyResult) ([]domain.AggregateRecord, error) {
	out := make([]domain.AggregateRecord, 0, len(results))
	for _, r := range results {
		rec, err := MapChangeFrequencyToAggregate(r)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}
