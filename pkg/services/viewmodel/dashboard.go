package viewmodel

import (
	"context"
	"fmt"
	"sync"

	"github.com/de-tools/ecfr-atlas/pkg/models/domain"
	"github.com/de-tools/ecfr-atlas/pkg/services/aggregation"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

const (
	WordCountChartTitle       = "Word Count by Agency"
	ChangeFrequencyChartTitle = "Change Frequency by Agency"
)

type DashboardRepository interface {
	WordCountsByAgency(ctx context.Context) ([]domain.AggregateRecord, error)
	ChangeFrequencyByAgency(ctx context.Context) ([]domain.AggregateRecord, error)
	Summary(ctx context.Context) (string, error)
}

type DashboardSnapshot struct {
	Status
	WordCount       Slot[domain.ChartSeries]
	ChangeFrequency Slot[domain.ChartSeries]
	Summary         Slot[string]
	// Headline summarizes all agencies, not only the charted ones.
	Headline aggregation.Stats
}

func (s DashboardSnapshot) withStatus(st Status) DashboardSnapshot {
	s.Status = st
	return s
}

func (s DashboardSnapshot) clone() DashboardSnapshot {
	s.WordCount.Value = s.WordCount.Value.Clone()
	s.ChangeFrequency.Value = s.ChangeFrequency.Value.Clone()
	return s
}

type Dashboard struct {
	repo    DashboardRepository
	ready   Readiness
	options Options
	store   *stateStore[DashboardSnapshot]

	mu       sync.Mutex
	lifetime context.Context
	running  sync.WaitGroup
}

// NewDashboard creates the overview screen. ready may be nil when the caller
// already knows the backend is populated.
func NewDashboard(repo DashboardRepository, ready Readiness, options Options) *Dashboard {
	return &Dashboard{
		repo:    repo,
		ready:   ready,
		options: options.withDefaults(),
		store:   newStateStore(DashboardSnapshot{Status: Status{Screen: ScreenLoading}}),
	}
}

func (d *Dashboard) Snapshot() DashboardSnapshot {
	return d.store.get()
}

func (d *Dashboard) OnChange(fn func(DashboardSnapshot)) {
	d.store.subscribe(fn)
}

// Load waits for readiness, then builds both charts and the summary. It
// returns the error that put the screen into Error, or nil once Ready.
func (d *Dashboard) Load(ctx context.Context) error {
	return d.load(ctx, d.store.begin())
}

func (d *Dashboard) load(ctx context.Context, gen uint64) error {
	log := zerolog.Ctx(ctx)

	if err := d.store.await(ctx, gen, d.ready); err != nil {
		d.store.fail(ctx, gen, err)
		return fmt.Errorf("waiting for backend: %w", err)
	}

	var words, changes []domain.AggregateRecord
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		words, err = d.repo.WordCountsByAgency(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		changes, err = d.repo.ChangeFrequencyByAgency(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		log.Error().Err(err).Msg("failed to load dashboard charts")
		d.store.fail(ctx, gen, err)
		return fmt.Errorf("loading dashboard: %w", err)
	}

	wordChart := aggregation.ToBarSeries(WordCountChartTitle,
		aggregation.TopN(words, d.options.TopN, nil), aggregation.Identity)
	changeChart := aggregation.ToBarSeries(ChangeFrequencyChartTitle,
		aggregation.TopN(changes, d.options.TopN, nil), aggregation.Identity)

	published := d.store.replace(ctx, gen, func(cur DashboardSnapshot) DashboardSnapshot {
		cur.Status = cur.Status.ready()
		cur.WordCount = resolve(wordChart, nil)
		cur.ChangeFrequency = resolve(changeChart, nil)
		cur.Summary = pending[string]()
		cur.Headline = aggregation.Summarize(words, nil)
		return cur
	})
	if !published {
		return ctx.Err()
	}

	summary, err := d.repo.Summary(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("summary unavailable")
	}
	d.store.replace(ctx, gen, func(cur DashboardSnapshot) DashboardSnapshot {
		cur.Summary = resolve(summary, err)
		return cur
	})
	return nil
}

// Retry reloads after a failure. It is a no-op unless the screen is Error.
func (d *Dashboard) Retry(ctx context.Context) error {
	gen, ok := d.store.beginRetry()
	if !ok {
		return nil
	}
	return d.load(ctx, gen)
}

// Watch loads in the background until ctx ends or stop is called. Retries
// started with RetryAsync share this lifetime. stop returns once every such
// load has finished, after which no snapshot is published.
func (d *Dashboard) Watch(ctx context.Context) (stop func()) {
	ctx, cancel := context.WithCancel(ctx)

	d.mu.Lock()
	d.lifetime = ctx
	d.running.Add(1)
	d.mu.Unlock()

	go func() {
		defer d.running.Done()
		_ = d.Load(ctx)
	}()

	return func() {
		d.mu.Lock()
		cancel()
		d.mu.Unlock()
		d.running.Wait()
	}
}

// RetryAsync restarts a failed load in the background under the Watch
// lifetime. It reports whether a load started; outside Error or without an
// active Watch nothing happens.
func (d *Dashboard) RetryAsync() bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	ctx := d.lifetime
	if ctx == nil || ctx.Err() != nil {
		return false
	}
	gen, ok := d.store.beginRetry()
	if !ok {
		return false
	}

	d.running.Add(1)
	go func() {
		defer d.running.Done()
		if err := d.load(ctx, gen); err != nil {
			zerolog.Ctx(ctx).Error().Err(err).Msg("dashboard retry failed")
		}
	}()
	return true
}
