package domain

import "time"

type EntityType string

const (
	EntityTypeAgency  EntityType = "AGENCY"
	EntityTypeTitle   EntityType = "TITLE"
	EntityTypeSection EntityType = "SECTION"
)

// EntityRef points at a parent entity. It is a lookup key, the child never
// owns the parent.
type EntityRef struct {
	ID   string
	Name string
}

type Agency struct {
	ID          string
	Name        string
	ShortName   string
	DisplayName string
	Acronym     string
	Slug        string
}

type Title struct {
	ID              string
	Name            string
	Number          string // designator, numeric text such as "9" or "10"
	WordCount       *int64
	TotalChanges    *int64
	Agency          *EntityRef
	LatestAmendedOn *time.Time
	UpToDateAsOf    *time.Time
	Reserved        bool
	Processing      bool
}

// AgencyID returns the parent agency id or "" when the title is unassigned.
func (t Title) AgencyID() string {
	if t.Agency == nil {
		return ""
	}
	return t.Agency.ID
}

type Section struct {
	ID         string
	Number     string
	Heading    string
	Identifier string
	WordCount  *int64
	Title      *EntityRef
	Reserved   bool
}

// Name is the display label of a section, "1.1 Purpose" style.
func (s Section) Name() string {
	switch {
	case s.Number == "":
		return s.Heading
	case s.Heading == "":
		return s.Number
	default:
		return s.Number + " " + s.Heading
	}
}
