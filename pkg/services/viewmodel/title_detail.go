package viewmodel

import (
	"context"
	"fmt"

	"github.com/de-tools/ecfr-atlas/pkg/models/domain"
	"github.com/de-tools/ecfr-atlas/pkg/services/aggregation"
	"github.com/de-tools/ecfr-atlas/pkg/services/viewfilter"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

const SectionWordCountChartTitle = "Word Count by Section"

type TitleDetailRepository interface {
	GetTitle(ctx context.Context, id string) (domain.Title, error)
	ListTitleSections(ctx context.Context, titleID string) ([]domain.Section, error)
	WordCountsBySection(ctx context.Context, titleID string) ([]domain.AggregateRecord, error)
}

type TitleDetailSnapshot struct {
	Status
	Title     domain.Title
	Sections  viewfilter.ViewState[domain.Section]
	WordCount Slot[domain.ChartSeries]
}

func (s TitleDetailSnapshot) withStatus(st Status) TitleDetailSnapshot {
	s.Status = st
	return s
}

func (s TitleDetailSnapshot) clone() TitleDetailSnapshot {
	s.Sections = s.Sections.Clone()
	s.WordCount.Value = s.WordCount.Value.Clone()
	return s
}

type TitleDetail struct {
	id      string
	repo    TitleDetailRepository
	ready   Readiness
	options Options
	store   *stateStore[TitleDetailSnapshot]
}

func NewTitleDetail(id string, repo TitleDetailRepository, ready Readiness, options Options) *TitleDetail {
	options = options.withDefaults()
	return &TitleDetail{
		id:      id,
		repo:    repo,
		ready:   ready,
		options: options,
		store: newStateStore(TitleDetailSnapshot{
			Status:   Status{Screen: ScreenLoading},
			Sections: viewfilter.New(viewfilter.SectionSchema, nil, viewfilter.SortByNumber, options.PageSize),
		}),
	}
}

func (t *TitleDetail) Snapshot() TitleDetailSnapshot {
	return t.store.get()
}

func (t *TitleDetail) OnChange(fn func(TitleDetailSnapshot)) {
	t.store.subscribe(fn)
}

func (t *TitleDetail) Load(ctx context.Context) error {
	return t.load(ctx, t.store.begin())
}

func (t *TitleDetail) load(ctx context.Context, gen uint64) error {
	log := zerolog.Ctx(ctx).With().Str("title_id", t.id).Logger()

	if err := t.store.await(ctx, gen, t.ready); err != nil {
		t.store.fail(ctx, gen, err)
		return fmt.Errorf("waiting for backend: %w", err)
	}

	var (
		title    domain.Title
		sections []domain.Section
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		title, err = t.repo.GetTitle(gctx, t.id)
		return err
	})
	g.Go(func() error {
		var err error
		sections, err = t.repo.ListTitleSections(gctx, t.id)
		return err
	})
	if err := g.Wait(); err != nil {
		log.Error().Err(err).Msg("failed to load title")
		t.store.fail(ctx, gen, err)
		return fmt.Errorf("loading title %s: %w", t.id, err)
	}

	var words Slot[domain.ChartSeries]
	records, err := t.repo.WordCountsBySection(ctx, t.id)
	if err != nil {
		log.Warn().Err(err).Msg("section word counts unavailable")
		words = resolve(domain.ChartSeries{}, err)
	} else {
		top := aggregation.TopN(records, t.options.SectionTopN, nil)
		words = resolve(aggregation.ToBarSeries(SectionWordCountChartTitle, top, aggregation.Identity), nil)
	}

	if !t.store.replace(ctx, gen, func(cur TitleDetailSnapshot) TitleDetailSnapshot {
		cur.Status = cur.Status.ready()
		cur.Title = title
		cur.Sections = cur.Sections.WithCollection(sections)
		cur.WordCount = words
		return cur
	}) {
		return ctx.Err()
	}
	return nil
}

func (t *TitleDetail) Retry(ctx context.Context) error {
	gen, ok := t.store.beginRetry()
	if !ok {
		return nil
	}
	return t.load(ctx, gen)
}

func (t *TitleDetail) SearchSections(term string) TitleDetailSnapshot {
	return t.store.update(func(cur TitleDetailSnapshot) TitleDetailSnapshot {
		cur.Sections = cur.Sections.WithSearch(term)
		return cur
	})
}

func (t *TitleDetail) SortSections(key viewfilter.SortKey) TitleDetailSnapshot {
	return t.store.update(func(cur TitleDetailSnapshot) TitleDetailSnapshot {
		cur.Sections = cur.Sections.WithSort(key)
		return cur
	})
}

func (t *TitleDetail) SetSectionPage(page int) TitleDetailSnapshot {
	return t.store.update(func(cur TitleDetailSnapshot) TitleDetailSnapshot {
		cur.Sections = cur.Sections.WithPage(page)
		return cur
	})
}

func (t *TitleDetail) SetSectionPageSize(size int) TitleDetailSnapshot {
	return t.store.update(func(cur TitleDetailSnapshot) TitleDetailSnapshot {
		cur.Sections = cur.Sections.WithPageSize(size)
		return cur
	})
}
