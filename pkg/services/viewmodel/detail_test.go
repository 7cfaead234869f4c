package viewmodel

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/de-tools/ecfr-atlas/pkg/models/domain"
	"github.com/de-tools/ecfr-atlas/pkg/services/viewfilter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func titleRecord(id, name string, value float64, buckets map[string]int64) domain.AggregateRecord {
	return domain.AggregateRecord{
		EntityID:           id,
		EntityName:         name,
		EntityType:         domain.EntityTypeTitle,
		MetricValue:        value,
		DateBucketedCounts: buckets,
	}
}

func agencyTitles() []domain.Title {
	dot := &domain.EntityRef{ID: "dot"}
	return []domain.Title{
		{ID: "t1", Number: "1", Name: "Title 1: General", Agency: dot},
		{ID: "t2", Number: "2", Name: "Title 2: Grants", Agency: dot},
		{ID: "t3", Number: "3", Name: "Title 3: The President", Agency: dot},
	}
}

func TestAgencyDetail_Load(t *testing.T) {
	// Given
	repo := new(mockRepository)
	repo.On("GetAgency", mock.Anything, "dot").Return(domain.Agency{ID: "dot", Name: "Department of Transportation"}, nil)
	repo.On("ListAgencyTitles", mock.Anything, "dot").Return(agencyTitles(), nil)
	repo.On("WordCountsByTitle", mock.Anything).Return([]domain.AggregateRecord{
		titleRecord("t1", "Title 1: General", 100, nil),
		titleRecord("t4", "Title 4: Accounts", 9000, nil),
		titleRecord("t2", "Title 2: Grants", 300, nil),
		titleRecord("t5", "Title 5: Administrative Personnel", 8000, nil),
		titleRecord("t3", "Title 3: The President", 200, nil),
	}, nil)
	repo.On("ChangeFrequencyByTitle", mock.Anything).Return([]domain.AggregateRecord{
		titleRecord("t1", "Title 1: General", 3, map[string]int64{"2020-01-01": 2, "2021-03-01": 1}),
		titleRecord("t4", "Title 4: Accounts", 50, map[string]int64{"2019-01-01": 50}),
		titleRecord("t2", "Title 2: Grants", 4, map[string]int64{"2021-01-01": 4}),
	}, nil)
	a := NewAgencyDetail("dot", repo, readyScript, Options{DetailTopN: 2})

	// When
	err := a.Load(context.Background())

	// Then
	require.NoError(t, err)
	snap := a.Snapshot()
	assert.Equal(t, ScreenReady, snap.Screen)
	assert.Equal(t, "Department of Transportation", snap.Agency.Name)
	assert.Len(t, snap.Titles, 3)

	require.True(t, snap.WordCount.Loaded)
	assert.Equal(t, []string{"Grants", "The President"}, snap.WordCount.Value.Labels)

	require.True(t, snap.ChangesOverTime.Loaded)
	changes := snap.ChangesOverTime.Value
	assert.Equal(t, []string{"2020", "2021"}, changes.Labels)
	require.Len(t, changes.Datasets, 2)
	assert.Equal(t, "Grants", changes.Datasets[0].Label)
	assert.Equal(t, []float64{0, 4}, changes.Datasets[0].Values)
	assert.Equal(t, "General", changes.Datasets[1].Label)
	assert.Equal(t, []float64{2, 1}, changes.Datasets[1].Values)
	assert.NoError(t, changes.Validate())
}

func TestAgencyDetail_ChartFailureIsIsolated(t *testing.T) {
	repo := new(mockRepository)
	repo.On("GetAgency", mock.Anything, "dot").Return(domain.Agency{ID: "dot"}, nil)
	repo.On("ListAgencyTitles", mock.Anything, "dot").Return(agencyTitles(), nil)
	repo.On("WordCountsByTitle", mock.Anything).Return([]domain.AggregateRecord{titleRecord("t1", "Title 1: General", 1, nil)}, nil)
	repo.On("ChangeFrequencyByTitle", mock.Anything).Return(nil, &domain.ServerError{Resource: "/api/analytics/change-frequency/by-title", StatusCode: 502})
	a := NewAgencyDetail("dot", repo, nil, Options{})

	require.NoError(t, a.Load(context.Background()))

	snap := a.Snapshot()
	assert.Equal(t, ScreenReady, snap.Screen)
	assert.True(t, snap.WordCount.Loaded)
	assert.True(t, snap.ChangesOverTime.Failed())
	assert.True(t, domain.IsServer(snap.ChangesOverTime.Err))
}

func TestAgencyDetail_NotFound(t *testing.T) {
	repo := new(mockRepository)
	repo.On("GetAgency", mock.Anything, "nope").Return(domain.Agency{}, &domain.NotFoundError{Resource: "/api/agencies/nope", StatusCode: 404})
	repo.On("ListAgencyTitles", mock.Anything, "nope").Return([]domain.Title{}, nil).Maybe()
	a := NewAgencyDetail("nope", repo, nil, Options{})

	err := a.Load(context.Background())

	require.Error(t, err)
	snap := a.Snapshot()
	assert.Equal(t, ScreenError, snap.Screen)
	assert.True(t, domain.IsNotFound(snap.Err))
	assert.Equal(t, "The requested record was not found.", snap.Message)
	repo.AssertNotCalled(t, "WordCountsByTitle", mock.Anything)
}

func sections(n int) ([]domain.Section, []domain.AggregateRecord) {
	rows := make([]domain.Section, n)
	records := make([]domain.AggregateRecord, n)
	for i := range rows {
		number := fmt.Sprintf("1.%d", n-i)
		rows[i] = domain.Section{ID: fmt.Sprintf("s%d", i), Number: number, Heading: fmt.Sprintf("Heading %d", i), Title: &domain.EntityRef{ID: "t49"}}
		records[i] = domain.AggregateRecord{EntityID: rows[i].ID, EntityName: rows[i].Name(), EntityType: domain.EntityTypeSection, MetricValue: float64(i)}
	}
	return rows, records
}

func TestTitleDetail_Load(t *testing.T) {
	// Given
	rows, records := sections(20)
	repo := new(mockRepository)
	repo.On("GetTitle", mock.Anything, "t49").Return(domain.Title{ID: "t49", Number: "49", Name: "Title 49: Transportation"}, nil)
	repo.On("ListTitleSections", mock.Anything, "t49").Return(rows, nil)
	repo.On("WordCountsBySection", mock.Anything, "t49").Return(records, nil)
	td := NewTitleDetail("t49", repo, readyScript, Options{})

	// When
	err := td.Load(context.Background())

	// Then
	require.NoError(t, err)
	snap := td.Snapshot()
	assert.Equal(t, ScreenReady, snap.Screen)
	assert.Equal(t, "49", snap.Title.Number)

	require.True(t, snap.WordCount.Loaded)
	chart := snap.WordCount.Value
	assert.Len(t, chart.Labels, 15)
	assert.Equal(t, "1.1 Heading 19", chart.Labels[0])

	assert.Equal(t, 20, snap.Sections.Total)
	require.Len(t, snap.Sections.Visible, 10)
	assert.Equal(t, "1.1", snap.Sections.Visible[0].Number)
	assert.Equal(t, "1.10", snap.Sections.Visible[9].Number)

	next := td.SetSectionPage(1)
	assert.Equal(t, "1.11", next.Sections.Visible[0].Number)

	found := td.SearchSections("heading 3")
	assert.Equal(t, 0, found.Sections.Page)
	assert.Equal(t, 1, found.Sections.Total)

	byWords := td.SortSections(viewfilter.SortByWordCount)
	assert.Equal(t, viewfilter.SortByWordCount, byWords.Sections.SortKey)
}

func TestTitleDetail_SectionChartFailure(t *testing.T) {
	rows, _ := sections(3)
	repo := new(mockRepository)
	repo.On("GetTitle", mock.Anything, "t49").Return(domain.Title{ID: "t49"}, nil)
	repo.On("ListTitleSections", mock.Anything, "t49").Return(rows, nil)
	repo.On("WordCountsBySection", mock.Anything, "t49").Return(nil, &domain.NetworkError{Op: "GET", Err: errors.New("reset")})
	td := NewTitleDetail("t49", repo, nil, Options{})

	require.NoError(t, td.Load(context.Background()))

	snap := td.Snapshot()
	assert.Equal(t, ScreenReady, snap.Screen)
	assert.True(t, snap.WordCount.Failed())
	assert.Equal(t, 3, snap.Sections.Total)
}
