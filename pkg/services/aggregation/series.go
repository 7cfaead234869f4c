package aggregation

import (
	"slices"
	"time"

	"github.com/de-tools/ecfr-atlas/pkg/models/domain"
)

type Granularity int

const (
	Year Granularity = iota
	Month
)

var bucketLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01",
	"2006",
}

// ColorForIndex rotates the hue by 30 degrees per rank so the same input
// order always gets the same colors.
func ColorForIndex(i int) domain.Color {
	return domain.Color{
		Hue:        (i * 30) % 360,
		Saturation: 70,
		Lightness:  50,
	}
}

// ToBarSeries builds a single-dataset series, one bar per record in input
// order. Each bar is colored by its rank.
func ToBarSeries(title string, records []domain.AggregateRecord, transform LabelTransform) domain.ChartSeries {
	if transform == nil {
		transform = Identity
	}

	labels := make([]string, 0, len(records))
	values := make([]float64, 0, len(records))
	colors := make([]domain.Color, 0, len(records))
	for i, r := range records {
		labels = append(labels, transform(r.EntityName))
		values = append(values, r.MetricValue)
		colors = append(colors, ColorForIndex(i))
	}

	return domain.ChartSeries{
		Title:  title,
		Labels: labels,
		Datasets: []domain.Dataset{{
			Label:  title,
			Values: values,
			Colors: colors,
		}},
	}
}

// ToTimeSeries builds one dataset per record over the union of the date
// buckets of all records. Buckets a record has no count for are zero so all
// datasets share the same label axis. Keys that are not dates are ignored.
func ToTimeSeries(
	title string,
	records []domain.AggregateRecord,
	granularity Granularity,
	transform LabelTransform,
) domain.ChartSeries {
	if transform == nil {
		transform = Identity
	}

	perRecord := make([]map[string]int64, len(records))
	seen := make(map[string]struct{})
	for i, r := range records {
		counts := make(map[string]int64)
		for key, count := range r.DateBucketedCounts {
			bucket, ok := bucketOf(key, granularity)
			if !ok {
				continue
			}
			counts[bucket] += count
			seen[bucket] = struct{}{}
		}
		perRecord[i] = counts
	}

	labels := make([]string, 0, len(seen))
	for bucket := range seen {
		labels = append(labels, bucket)
	}
	slices.Sort(labels)

	datasets := make([]domain.Dataset, 0, len(records))
	for i, r := range records {
		values := make([]float64, len(labels))
		for j, bucket := range labels {
			values[j] = float64(perRecord[i][bucket])
		}
		datasets = append(datasets, domain.Dataset{
			Label:  transform(r.EntityName),
			Values: values,
			Colors: []domain.Color{ColorForIndex(i)},
		})
	}

	return domain.ChartSeries{
		Title:    title,
		Labels:   labels,
		Datasets: datasets,
	}
}

func bucketOf(key string, granularity Granularity) (string, bool) {
	for _, layout := range bucketLayouts {
		t, err := time.Parse(layout, key)
		if err != nil {
			continue
		}
		if granularity == Month {
			if layout == "2006" {
				return "", false
			}
			return t.Format("2006-01"), true
		}
		return t.Format("2006"), true
	}
	return "", false
}
