package viewmodel

import (
	"context"
	"fmt"
	"slices"

	"github.com/de-tools/ecfr-atlas/pkg/models/domain"
	"github.com/de-tools/ecfr-atlas/pkg/services/aggregation"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

const (
	TitleWordCountChartTitle  = "Word Count by Title"
	ChangesOverTimeChartTitle = "Changes Over Time"
)

type AgencyDetailRepository interface {
	GetAgency(ctx context.Context, id string) (domain.Agency, error)
	ListAgencyTitles(ctx context.Context, agencyID string) ([]domain.Title, error)
	WordCountsByTitle(ctx context.Context) ([]domain.AggregateRecord, error)
	ChangeFrequencyByTitle(ctx context.Context) ([]domain.AggregateRecord, error)
}

type AgencyDetailSnapshot struct {
	Status
	Agency domain.Agency
	Titles []domain.Title
	// Both charts only cover the agency's own titles.
	WordCount       Slot[domain.ChartSeries]
	ChangesOverTime Slot[domain.ChartSeries]
}

func (s AgencyDetailSnapshot) withStatus(st Status) AgencyDetailSnapshot {
	s.Status = st
	return s
}

func (s AgencyDetailSnapshot) clone() AgencyDetailSnapshot {
	s.Titles = slices.Clone(s.Titles)
	s.WordCount.Value = s.WordCount.Value.Clone()
	s.ChangesOverTime.Value = s.ChangesOverTime.Value.Clone()
	return s
}

type AgencyDetail struct {
	id      string
	repo    AgencyDetailRepository
	ready   Readiness
	options Options
	store   *stateStore[AgencyDetailSnapshot]
}

func NewAgencyDetail(id string, repo AgencyDetailRepository, ready Readiness, options Options) *AgencyDetail {
	return &AgencyDetail{
		id:      id,
		repo:    repo,
		ready:   ready,
		options: options.withDefaults(),
		store:   newStateStore(AgencyDetailSnapshot{Status: Status{Screen: ScreenLoading}}),
	}
}

func (a *AgencyDetail) Snapshot() AgencyDetailSnapshot {
	return a.store.get()
}

func (a *AgencyDetail) OnChange(fn func(AgencyDetailSnapshot)) {
	a.store.subscribe(fn)
}

func (a *AgencyDetail) Load(ctx context.Context) error {
	return a.load(ctx, a.store.begin())
}

func (a *AgencyDetail) load(ctx context.Context, gen uint64) error {
	log := zerolog.Ctx(ctx).With().Str("agency_id", a.id).Logger()

	if err := a.store.await(ctx, gen, a.ready); err != nil {
		a.store.fail(ctx, gen, err)
		return fmt.Errorf("waiting for backend: %w", err)
	}

	var (
		agency domain.Agency
		titles []domain.Title
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		agency, err = a.repo.GetAgency(gctx, a.id)
		return err
	})
	g.Go(func() error {
		var err error
		titles, err = a.repo.ListAgencyTitles(gctx, a.id)
		return err
	})
	if err := g.Wait(); err != nil {
		log.Error().Err(err).Msg("failed to load agency")
		a.store.fail(ctx, gen, err)
		return fmt.Errorf("loading agency %s: %w", a.id, err)
	}

	ids := aggregation.TitleIDs(titles)
	var words, changes Slot[domain.ChartSeries]
	var charts errgroup.Group
	charts.Go(func() error {
		records, err := a.repo.WordCountsByTitle(ctx)
		if err != nil {
			log.Warn().Err(err).Msg("title word counts unavailable")
			words = resolve(domain.ChartSeries{}, err)
			return nil
		}
		top := aggregation.TopN(aggregation.FilterByEntities(records, ids), a.options.DetailTopN, nil)
		words = resolve(aggregation.ToBarSeries(TitleWordCountChartTitle, top, aggregation.StripTitlePrefix), nil)
		return nil
	})
	charts.Go(func() error {
		records, err := a.repo.ChangeFrequencyByTitle(ctx)
		if err != nil {
			log.Warn().Err(err).Msg("title change frequency unavailable")
			changes = resolve(domain.ChartSeries{}, err)
			return nil
		}
		top := aggregation.TopN(aggregation.FilterByEntities(records, ids), a.options.DetailTopN, nil)
		changes = resolve(aggregation.ToTimeSeries(ChangesOverTimeChartTitle, top, aggregation.Year, aggregation.StripTitlePrefix), nil)
		return nil
	})
	_ = charts.Wait()

	if !a.store.replace(ctx, gen, func(cur AgencyDetailSnapshot) AgencyDetailSnapshot {
		cur.Status = cur.Status.ready()
		cur.Agency = agency
		cur.Titles = titles
		cur.WordCount = words
		cur.ChangesOverTime = changes
		return cur
	}) {
		return ctx.Err()
	}
	return nil
}

func (a *AgencyDetail) Retry(ctx context.Context) error {
	gen, ok := a.store.beginRetry()
	if !ok {
		return nil
	}
	return a.load(ctx, gen)
}
