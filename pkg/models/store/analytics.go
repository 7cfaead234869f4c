package store

// WordCountResult is one row of the /api/analytics/word-count/* endpoints.
type WordCountResult struct {
	EntityID          string   `json:"entityId"`
	EntityName        string   `json:"entityName"`
	EntityType        string   `json:"entityType"` // AGENCY, TITLE, SECTION
	WordCount         *int64   `json:"wordCount"`
	PercentageOfTotal *float64 `json:"percentageOfTotal,omitempty"`
}

// ChangeFrequencyResult is one row of the /api/analytics/change-frequency/* endpoints.
// ChangesByDate is keyed by ISO date (2006-01-02).
type ChangeFrequencyResult struct {
	EntityID       string           `json:"entityId"`
	EntityName     string           `json:"entityName"`
	EntityType     string           `json:"entityType"`
	TotalChanges   *int64           `json:"totalChanges"`
	ChangesByDate  map[string]int64 `json:"changesByDate,omitempty"`
	ChangesPerYear *float64         `json:"changesPerYear,omitempty"`
}
