package domain

import "fmt"

// Color is an HSL color assigned to a dataset or a single bar.
type Color struct {
	Hue        int
	Saturation int
	Lightness  int
}

func (c Color) Border() string {
	return fmt.Sprintf("hsl(%d, %d%%, %d%%)", c.Hue, c.Saturation, c.Lightness)
}

func (c Color) Fill() string {
	return fmt.Sprintf("hsla(%d, %d%%, %d%%, 0.5)", c.Hue, c.Saturation, c.Lightness)
}

type Dataset struct {
	Label  string
	Values []float64
	// Colors holds one entry for the whole dataset, or one per value when
	// each bar is colored by rank.
	Colors []Color
}

// ChartSeries is the presentation-agnostic input of any chart renderer.
type ChartSeries struct {
	Title    string
	Labels   []string
	Datasets []Dataset
}

// Validate checks that every dataset is aligned to the label axis.
func (c ChartSeries) Validate() error {
	for _, ds := range c.Datasets {
		if len(ds.Values) != len(c.Labels) {
			return fmt.Errorf("dataset %q has %d values for %d labels", ds.Label, len(ds.Values), len(c.Labels))
		}
	}
	return nil
}

// Empty reports whether the series has nothing to plot.
func (c ChartSeries) Empty() bool {
	return len(c.Labels) == 0
}

// Clone returns a deep copy so callers never share slices with a snapshot.
func (c ChartSeries) Clone() ChartSeries {
	out := ChartSeries{
		Title:    c.Title,
		Labels:   append([]string(nil), c.Labels...),
		Datasets: make([]Dataset, len(c.Datasets)),
	}
	for i, ds := range c.Datasets {
		out.Datasets[i] = Dataset{
			Label:  ds.Label,
			Values: append([]float64(nil), ds.Values...),
			Colors: append([]Color(nil), ds.Colors...),
		}
	}
	return out
}
