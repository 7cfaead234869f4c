package store

// Status is the body of GET /api/status.
type Status struct {
	Status    string `json:"status"`
	Timestamp *int64 `json:"timestamp,omitempty"`
}

// EntityRef is the parent stub embedded in child entities.
type EntityRef struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
}

type Agency struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	ShortName    string `json:"shortName,omitempty"`
	DisplayName  string `json:"displayName,omitempty"`
	SortableName string `json:"sortableName,omitempty"`
	Slug         string `json:"slug,omitempty"`
	Acronym      string `json:"acronym,omitempty"`
}

type Title struct {
	ID                   string     `json:"id"`
	Name                 string     `json:"name"`
	TitleNumber          string     `json:"titleNumber"`
	LatestAmendedOn      *string    `json:"latestAmendedOn,omitempty"`
	LatestIssueDate      *string    `json:"latestIssueDate,omitempty"`
	UpToDateAsOf         *string    `json:"upToDateAsOf,omitempty"`
	Reserved             bool       `json:"reserved"`
	ProcessingInProgress bool       `json:"processingInProgress"`
	Agency               *EntityRef `json:"agency,omitempty"`
	WordCount            *int64     `json:"wordCount,omitempty"`
	TotalChanges         *int64     `json:"totalChanges,omitempty"`
}

type Section struct {
	ID               string     `json:"id"`
	Number           string     `json:"number"`
	Heading          string     `json:"heading"`
	Identifier       string     `json:"identifier,omitempty"`
	Reserved         bool       `json:"reserved"`
	Type             string     `json:"type,omitempty"`
	LabelLevel       string     `json:"labelLevel,omitempty"`
	LabelDescription string     `json:"labelDescription,omitempty"`
	Title            *EntityRef `json:"title,omitempty"`
	WordCount        *int64     `json:"wordCount,omitempty"`
}
