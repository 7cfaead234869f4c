package domain

// AggregateRecord is one precomputed metric for one entity. DateBucketedCounts
// is only populated for time-series metrics and maps a date key to a
// non-negative count.
type AggregateRecord struct {
	EntityID           string
	EntityName         string
	EntityType         EntityType
	MetricValue        float64
	PercentageOfTotal  *float64
	DateBucketedCounts map[string]int64
}

// MetricValue selects the primary metric of a record.
func MetricValue(r AggregateRecord) float64 {
	return r.MetricValue
}
