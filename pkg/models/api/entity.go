package api

import "time"

type EntityRef struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
}

type Agency struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	ShortName   string `json:"short_name,omitempty"`
	DisplayName string `json:"display_name,omitempty"`
	Acronym     string `json:"acronym,omitempty"`
	Slug        string `json:"slug,omitempty"`
}

type Title struct {
	ID              string     `json:"id"`
	Number          string     `json:"number"`
	Name            string     `json:"name"`
	WordCount       *int64     `json:"word_count,omitempty"`
	TotalChanges    *int64     `json:"total_changes,omitempty"`
	Agency          *EntityRef `json:"agency,omitempty"`
	LatestAmendedOn *time.Time `json:"latest_amended_on,omitempty"`
	UpToDateAsOf    *time.Time `json:"up_to_date_as_of,omitempty"`
	Reserved        bool       `json:"reserved"`
}

type Section struct {
	ID         string `json:"id"`
	Number     string `json:"number"`
	Heading    string `json:"heading"`
	Identifier string `json:"identifier,omitempty"`
	WordCount  *int64 `json:"word_count,omitempty"`
	Reserved   bool   `json:"reserved"`
}

// Page is one page of a filtered and sorted collection. Page is zero based.
type Page[T any] struct {
	Items     []T    `json:"items"`
	Total     int    `json:"total"`
	Page      int    `json:"page"`
	PageSize  int    `json:"page_size"`
	PageCount int    `json:"page_count"`
	Search    string `json:"search,omitempty"`
	Category  string `json:"category,omitempty"`
	Sort      string `json:"sort,omitempty"`
}

type TitleList struct {
	Titles   Page[Title] `json:"titles"`
	Agencies []EntityRef `json:"agencies"`
	// AgenciesError is set when the filter options could not be loaded.
	AgenciesError string `json:"agencies_error,omitempty"`
}

type AgencyDetail struct {
	Agency          Agency    `json:"agency"`
	Titles          []Title   `json:"titles"`
	WordCount       ChartSlot `json:"word_count"`
	ChangesOverTime ChartSlot `json:"changes_over_time"`
}

type TitleDetail struct {
	Title     Title         `json:"title"`
	Sections  Page[Section] `json:"sections"`
	WordCount ChartSlot     `json:"word_count"`
}
