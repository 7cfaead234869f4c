package aggregation

import (
	"fmt"
	"testing"

	"github.com/de-tools/ecfr-atlas/pkg/models/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestStripTitlePrefix(t *testing.T) {
	tests := []struct {
		in       string
		expected string
	}{
		{"Title 49: Transportation", "Transportation"},
		{"Title 5: Administrative Personnel", "Administrative Personnel"},
		{"Title X: Unknown", "Title X: Unknown"},
		{"Subtitle 1: Title 2: Grants", "Subtitle 1: Title 2: Grants"},
		{"Transportation", "Transportation"},
	}

	for _, tc := range tests {
		assert.Equal(t, tc.expected, StripTitlePrefix(tc.in), tc.in)
	}
}

func TestTruncateLabel(t *testing.T) {
	assert.Equal(t, "Department of Transpor...", TruncateLabel("Department of Transportation Safety", DefaultLabelLimit))
	assert.Len(t, TruncateLabel("Department of Transportation Safety", DefaultLabelLimit), DefaultLabelLimit)
	assert.Equal(t, "Short", TruncateLabel("Short", DefaultLabelLimit))
	assert.Equal(t, "Ab", TruncateLabel("Abcdef", 2))
	assert.Equal(t, "Abcdef", TruncateLabel("Abcdef", 0))
}

func TestToBarSeries(t *testing.T) {
	input := []domain.AggregateRecord{
		{EntityID: "t49", EntityName: "Title 49: Transportation", MetricValue: 900},
		{EntityID: "t14", EntityName: "Title 14: Aeronautics and Space", MetricValue: 400},
	}

	series := ToBarSeries("Word Count", input, StripTitlePrefix)

	require.NoError(t, series.Validate())
	assert.Equal(t, []string{"Transportation", "Aeronautics and Space"}, series.Labels)
	require.Len(t, series.Datasets, 1)
	assert.Equal(t, "Word Count", series.Datasets[0].Label)
	assert.Equal(t, []float64{900, 400}, series.Datasets[0].Values)
	assert.Equal(t, []domain.Color{ColorForIndex(0), ColorForIndex(1)}, series.Datasets[0].Colors)
}

func TestToBarSeries_ColorsAreDeterministic(t *testing.T) {
	input := records(5, 4, 3, 2, 1, 0, 9, 8, 7, 6, 5, 4, 3)

	first := ToBarSeries("x", input, nil)
	second := ToBarSeries("x", input, nil)

	assert.Equal(t, first, second)
	assert.Equal(t, 0, first.Datasets[0].Colors[0].Hue)
	assert.Equal(t, 330, first.Datasets[0].Colors[11].Hue)
	assert.Equal(t, 0, first.Datasets[0].Colors[12].Hue)
	assert.Equal(t, "hsl(30, 70%, 50%)", first.Datasets[0].Colors[1].Border())
	assert.Equal(t, "hsla(30, 70%, 50%, 0.5)", first.Datasets[0].Colors[1].Fill())
}

func TestToTimeSeries_ZeroFill(t *testing.T) {
	input := []domain.AggregateRecord{
		{EntityName: "Title 1: General", DateBucketedCounts: map[string]int64{"2019-01-01": 2, "2021-01-01": 1}},
		{EntityName: "Title 2: Grants", DateBucketedCounts: map[string]int64{"2020-01-01": 4, "2020-06-30": 1}},
		{EntityName: "Title 3: President"},
	}

	series := ToTimeSeries("Changes", input, Year, StripTitlePrefix)

	require.NoError(t, series.Validate())
	assert.Equal(t, []string{"2019", "2020", "2021"}, series.Labels)
	require.Len(t, series.Datasets, 3)
	assert.Equal(t, "General", series.Datasets[0].Label)
	assert.Equal(t, []float64{2, 0, 1}, series.Datasets[0].Values)
	assert.Equal(t, []float64{0, 5, 0}, series.Datasets[1].Values)
	assert.Equal(t, []float64{0, 0, 0}, series.Datasets[2].Values)
	assert.Equal(t, []domain.Color{ColorForIndex(2)}, series.Datasets[2].Colors)
}

func TestToTimeSeries_MonthAndInvalidKeys(t *testing.T) {
	input := []domain.AggregateRecord{
		{EntityName: "a", DateBucketedCounts: map[string]int64{"2020-01-15": 1, "2020-03-01": 2, "not-a-date": 7}},
		{EntityName: "b", DateBucketedCounts: map[string]int64{"2020-02": 3, "2021": 9}},
	}

	series := ToTimeSeries("Changes", input, Month, nil)

	assert.Equal(t, []string{"2020-01", "2020-02", "2020-03"}, series.Labels)
	assert.Equal(t, []float64{1, 0, 2}, series.Datasets[0].Values)
	assert.Equal(t, []float64{0, 3, 0}, series.Datasets[1].Values)
}

func TestToTimeSeries_Empty(t *testing.T) {
	series := ToTimeSeries("Changes", nil, Year, nil)

	assert.True(t, series.Empty())
	assert.Empty(t, series.Datasets)
}

func TestToTimeSeries_AlignedProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		yearGen := rapid.IntRange(1990, 2030)
		n := rapid.IntRange(0, 8).Draw(t, "records")

		input := make([]domain.AggregateRecord, n)
		distinct := make(map[string]struct{})
		for i := range input {
			years := rapid.SliceOfN(yearGen, 0, 6).Draw(t, fmt.Sprintf("years-%d", i))
			counts := make(map[string]int64, len(years))
			for _, y := range years {
				key := fmt.Sprintf("%d-01-01", y)
				counts[key] = rapid.Int64Range(0, 50).Draw(t, key)
				distinct[fmt.Sprintf("%d", y)] = struct{}{}
			}
			input[i] = domain.AggregateRecord{EntityName: fmt.Sprintf("r%d", i), DateBucketedCounts: counts}
		}

		series := ToTimeSeries("p", input, Year, nil)

		if len(series.Labels) != len(distinct) {
			t.Fatalf("expected %d buckets, got %d", len(distinct), len(series.Labels))
		}
		if len(series.Datasets) != n {
			t.Fatalf("expected %d datasets, got %d", n, len(series.Datasets))
		}
		for _, ds := range series.Datasets {
			if len(ds.Values) != len(series.Labels) {
				t.Fatalf("dataset %s has %d values for %d labels", ds.Label, len(ds.Values), len(series.Labels))
			}
		}
		for i := 1; i < len(series.Labels); i++ {
			if series.Labels[i-1] >= series.Labels[i] {
				t.Fatalf("labels not ascending: %v", series.Labels)
			}
		}
	})
}
