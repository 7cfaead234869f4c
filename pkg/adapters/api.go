package adapters

import (
	"github.com/de-tools/ecfr-atlas/pkg/models/api"
	"github.com/de-tools/ecfr-atlas/pkg/models/domain"
)

func MapReadinessDomainToApi(s domain.ReadinessState) api.Readiness {
	return api.Readiness{
		Phase:   string(s.Phase),
		Message: s.Message,
		Attempt: s.Attempt,
	}
}

func MapChartDomainToApi(c domain.ChartSeries) api.ChartSeries {
	res := api.ChartSeries{
		Title:    c.Title,
		Labels:   append([]string{}, c.Labels...),
		Datasets: make([]api.Dataset, 0, len(c.Datasets)),
	}
	for _, ds := range c.Datasets {
		colors := make([]api.Color, 0, len(ds.Colors))
		for _, color := range ds.Colors {
			colors = append(colors, api.Color{Border: color.Border(), Fill: color.Fill()})
		}
		res.Datasets = append(res.Datasets, api.Dataset{
			Label:  ds.Label,
			Values: append([]float64{}, ds.Values...),
			Colors: colors,
		})
	}
	return res
}

func MapEntityRefDomainToApi(ref *domain.EntityRef) *api.EntityRef {
	if ref == nil {
		return nil
	}
	return &api.EntityRef{ID: ref.ID, Name: ref.Name}
}

func MapAgencyDomainToApi(a domain.Agency) api.Agency {
	return api.Agency{
		ID:          a.ID,
		Name:        a.Name,
		ShortName:   a.ShortName,
		DisplayName: a.DisplayName,
		Acronym:     a.Acronym,
		Slug:        a.Slug,
	}
}

func MapAgenciesDomainToApi(agencies []domain.Agency) []api.Agency {
	res := make([]api.Agency, 0, len(agencies))
	for _, a := range agencies {
		res = append(res, MapAgencyDomainToApi(a))
	}
	return res
}

func MapTitleDomainToApi(t domain.Title) api.Title {
	return api.Title{
		ID:              t.ID,
		Number:          t.Number,
		Name:            t.Name,
		WordCount:       cloneInt(t.WordCount),
		TotalChanges:    cloneInt(t.TotalChanges),
		Agency:          MapEntityRefDomainToApi(t.Agency),
		LatestAmendedOn: t.LatestAmendedOn,
		UpToDateAsOf:    t.UpToDateAsOf,
		Reserved:        t.Reserved,
	}
}

func MapTitlesDomainToApi(titles []domain.Title) []api.Title {
	res := make([]api.Title, 0, len(titles))
	for _, t := range titles {
		res = append(res, MapTitleDomainToApi(t))
	}
	return res
}

func MapSectionDomainToApi(s domain.Section) api.Section {
	return api.Section{
		ID:         s.ID,
		Number:     s.Number,
		Heading:    s.Heading,
		Identifier: s.Identifier,
		WordCount:  cloneInt(s.WordCount),
		Reserved:   s.Reserved,
	}
}

func MapSectionsDomainToApi(sections []domain.Section) []api.Section {
	res := make([]api.Section, 0, len(sections))
	for _, s := range sections {
		res = append(res, MapSectionDomainToApi(s))
	}
	return res
}
