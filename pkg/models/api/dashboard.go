package api

import "time"

type Readiness struct {
	Phase   string `json:"phase"`
	Message string `json:"message,omitempty"`
	Attempt int    `json:"attempt"`
}

type Color struct {
	Border string `json:"border"`
	Fill   string `json:"fill"`
}

type Dataset struct {
	Label  string    `json:"label"`
	Values []float64 `json:"values"`
	Colors []Color   `json:"colors"`
}

type ChartSeries struct {
	Title    string    `json:"title"`
	Labels   []string  `json:"labels"`
	Datasets []Dataset `json:"datasets"`
}

// ChartSlot is one independently loaded chart: exactly one of Chart and
// Error is set once Loading is false.
type ChartSlot struct {
	Loading bool         `json:"loading"`
	Chart   *ChartSeries `json:"chart,omitempty"`
	Error   string       `json:"error,omitempty"`
}

type TextSlot struct {
	Loading bool   `json:"loading"`
	Text    string `json:"text,omitempty"`
	Error   string `json:"error,omitempty"`
}

type Headline struct {
	Count     int     `json:"count"`
	Total     float64 `json:"total"`
	Mean      float64 `json:"mean"`
	Max       float64 `json:"max"`
	MaxEntity string  `json:"max_entity,omitempty"`
}

type Screen struct {
	State     string    `json:"state"`
	Message   string    `json:"message,omitempty"`
	Readiness Readiness `json:"readiness"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Dashboard struct {
	Screen          Screen    `json:"screen"`
	WordCount       ChartSlot `json:"word_count"`
	ChangeFrequency ChartSlot `json:"change_frequency"`
	Summary         TextSlot  `json:"summary"`
	Headline        Headline  `json:"headline"`
}

type Error struct {
	Error string `json:"error"`
}
