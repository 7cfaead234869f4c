package adapters

import (
	"fmt"
	"time"

	"github.com/de-tools/ecfr-atlas/pkg/models/domain"
	"github.com/de-tools/ecfr-atlas/pkg/models/store"
)

const isoDate = "2006-01-02"

func MapStoreAgencyToDomain(a store.Agency) domain.Agency {
	return domain.Agency{
		ID:          a.ID,
		Name:        a.Name,
		ShortName:   a.ShortName,
		DisplayName: a.DisplayName,
		Acronym:     a.Acronym,
		Slug:        a.Slug,
	}
}

func MapStoreAgenciesToDomain(agencies []store.Agency) []domain.Agency {
	out := make([]domain.Agency, 0, len(agencies))
	for _, a := range agencies {
		out = append(out, MapStoreAgencyToDomain(a))
	}
	return out
}

func MapStoreTitleToDomain(t store.Title) (domain.Title, error) {
	amended, err := parseOptionalDate(t.LatestAmendedOn)
	if err != nil {
		return domain.Title{}, fmt.Errorf("title %s latestAmendedOn: %w", t.ID, err)
	}
	upToDate, err := parseOptionalDate(t.UpToDateAsOf)
	if err != nil {
		return domain.Title{}, fmt.Errorf("title %s upToDateAsOf: %w", t.ID, err)
	}
	if t.WordCount != nil && *t.WordCount < 0 {
		return domain.Title{}, fmt.Errorf("title %s has negative word count %d", t.ID, *t.WordCount)
	}

	return domain.Title{
		ID:              t.ID,
		Name:            t.Name,
		Number:          t.TitleNumber,
		WordCount:       cloneInt(t.WordCount),
		TotalChanges:    cloneInt(t.TotalChanges),
		Agency:          mapRef(t.Agency),
		LatestAmendedOn: amended,
		UpToDateAsOf:    upToDate,
		Reserved:        t.Reserved,
		Processing:      t.ProcessingInProgress,
	}, nil
}

func MapStoreTitlesToDomain(titles []store.Title) ([]domain.Title, error) {
	out := make([]domain.Title, 0, len(titles))
	for _, t := range titles {
		title, err := MapStoreTitleToDomain(t)
		if err != nil {
			return nil, err
		}
		out = append(out, title)
	}
	return out, nil
}

func MapStoreSectionToDomain(s store.Section) (domain.Section, error) {
	if s.WordCount != nil && *s.WordCount < 0 {
		return domain.Section{}, fmt.Errorf("section %s has negative word count %d", s.ID, *s.WordCount)
	}
	return domain.Section{
		ID:         s.ID,
		Number:     s.Number,
		Heading:    s.Heading,
		Identifier: s.Identifier,
		WordCount:  cloneInt(s.WordCount),
		Title:      mapRef(s.Title),
		Reserved:   s.Reserved,
	}, nil
}

func MapStoreSectionsToDomain(sections []store.Section) ([]domain.Section, error) {
	out := make([]domain.Section, 0, len(sections))
	for _, s := range sections {
		section, err := MapStoreSectionToDomain(s)
		if err != nil {
			return nil, err
		}
		out = append(out, section)
	}
	return out, nil
}

func mapRef(ref *store.EntityRef) *domain.EntityRef {
	if ref == nil || ref.ID == "" {
		return nil
	}
	return &domain.EntityRef{ID: ref.ID, Name: ref.Name}
}

func cloneInt(v *int64) *int64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

func parseOptionalDate(v *string) (*time.Time, error) {
	if v == nil || *v == "" {
		return nil, nil
	}
	t, err := time.Parse(isoDate, *v)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
