package ecfr

import (
	"github.com/de-tools/ecfr-atlas/pkg/adapters"
	"github.com/de-tools/ecfr-atlas/pkg/models/api"
	"github.com/de-tools/ecfr-atlas/pkg/models/domain"
	"github.com/de-tools/ecfr-atlas/pkg/services/viewfilter"
	"github.com/de-tools/ecfr-atlas/pkg/services/viewmodel"
)

func mapScreen(s viewmodel.Status) api.Screen {
	return api.Screen{
		State:     string(s.Screen),
		Message:   s.Message,
		Readiness: adapters.MapReadinessDomainToApi(s.Readiness),
		UpdatedAt: s.UpdatedAt,
	}
}

func mapChartSlot(s viewmodel.Slot[domain.ChartSeries]) api.ChartSlot {
	res := api.ChartSlot{Loading: s.Loading}
	switch {
	case s.Failed():
		res.Error = s.Err.Error()
	case s.Loaded:
		chart := adapters.MapChartDomainToApi(s.Value)
		res.Chart = &chart
	}
	return res
}

func mapDashboard(s viewmodel.DashboardSnapshot) api.Dashboard {
	res := api.Dashboard{
		Screen:          mapScreen(s.Status),
		WordCount:       mapChartSlot(s.WordCount),
		ChangeFrequency: mapChartSlot(s.ChangeFrequency),
		Summary:         api.TextSlot{Loading: s.Summary.Loading, Text: s.Summary.Value},
		Headline: api.Headline{
			Count:     s.Headline.Count,
			Total:     s.Headline.Total,
			Mean:      s.Headline.Mean,
			Max:       s.Headline.Max,
			MaxEntity: s.Headline.MaxEntity,
		},
	}
	if s.Summary.Failed() {
		res.Summary.Error = s.Summary.Err.Error()
	}
	return res
}

func mapPage[T, R any](v viewfilter.ViewState[T], mapItem func(T) R) api.Page[R] {
	items := make([]R, 0, len(v.Visible))
	for _, row := range v.Visible {
		items = append(items, mapItem(row))
	}
	return api.Page[R]{
		Items:     items,
		Total:     v.Total,
		Page:      v.Page,
		PageSize:  v.PageSize,
		PageCount: v.PageCount(),
		Search:    v.Filters.Search,
		Category:  v.Filters.Category,
		Sort:      string(v.SortKey),
	}
}

func mapTitleList(s viewmodel.ListSnapshot[domain.Title]) api.TitleList {
	res := api.TitleList{
		Titles:   mapPage(s.View, adapters.MapTitleDomainToApi),
		Agencies: []api.EntityRef{},
	}
	if s.FilterOptions.Failed() {
		res.AgenciesError = s.FilterOptions.Err.Error()
	}
	for _, ref := range s.FilterOptions.Value {
		res.Agencies = append(res.Agencies, *adapters.MapEntityRefDomainToApi(&ref))
	}
	return res
}

func mapAgencyDetail(s viewmodel.AgencyDetailSnapshot) api.AgencyDetail {
	return api.AgencyDetail{
		Agency:          adapters.MapAgencyDomainToApi(s.Agency),
		Titles:          adapters.MapTitlesDomainToApi(s.Titles),
		WordCount:       mapChartSlot(s.WordCount),
		ChangesOverTime: mapChartSlot(s.ChangesOverTime),
	}
}

func mapTitleDetail(s viewmodel.TitleDetailSnapshot) api.TitleDetail {
	return api.TitleDetail{
		Title:     adapters.MapTitleDomainToApi(s.Title),
		Sections:  mapPage(s.Sections, adapters.MapSectionDomainToApi),
		WordCount: mapChartSlot(s.WordCount),
	}
}
