package viewmodel

import (
	"context"
	"fmt"
	"slices"

	"github.com/de-tools/ecfr-atlas/pkg/models/domain"
	"github.com/de-tools/ecfr-atlas/pkg/services/viewfilter"
	"github.com/rs/zerolog"
)

type AgencyLister interface {
	ListAgencies(ctx context.Context) ([]domain.Agency, error)
}

type TitleLister interface {
	AgencyLister
	ListTitles(ctx context.Context) ([]domain.Title, error)
}

type ListSnapshot[T any] struct {
	Status
	View viewfilter.ViewState[T]
	// FilterOptions lists the categories the view can be narrowed to. It is
	// loaded next to the collection and may fail on its own.
	FilterOptions Slot[[]domain.EntityRef]
}

func (s ListSnapshot[T]) withStatus(st Status) ListSnapshot[T] {
	s.Status = st
	return s
}

func (s ListSnapshot[T]) clone() ListSnapshot[T] {
	s.View = s.View.Clone()
	s.FilterOptions.Value = slices.Clone(s.FilterOptions.Value)
	return s
}

// List drives a searchable, sortable, paginated collection screen.
type List[T any] struct {
	name    string
	fetch   func(context.Context) ([]T, error)
	options func(context.Context) ([]domain.EntityRef, error)
	ready   Readiness
	store   *stateStore[ListSnapshot[T]]
}

func NewAgencyList(repo AgencyLister, ready Readiness, options Options) *List[domain.Agency] {
	options = options.withDefaults()
	return &List[domain.Agency]{
		name:  "agencies",
		fetch: repo.ListAgencies,
		ready: ready,
		store: newStateStore(ListSnapshot[domain.Agency]{
			Status: Status{Screen: ScreenLoading},
			View:   viewfilter.New(viewfilter.AgencySchema, nil, viewfilter.SortByName, options.PageSize),
		}),
	}
}

// NewTitleList creates the titles screen. Its filter options are the
// agencies, so titles can be narrowed to one owning agency.
func NewTitleList(repo TitleLister, ready Readiness, options Options) *List[domain.Title] {
	options = options.withDefaults()
	return &List[domain.Title]{
		name:  "titles",
		fetch: repo.ListTitles,
		options: func(ctx context.Context) ([]domain.EntityRef, error) {
			agencies, err := repo.ListAgencies(ctx)
			if err != nil {
				return nil, err
			}
			slices.SortStableFunc(agencies, func(a, b domain.Agency) int {
				return viewfilter.CompareNames(a.Name, b.Name)
			})
			refs := make([]domain.EntityRef, 0, len(agencies))
			for _, a := range agencies {
				refs = append(refs, domain.EntityRef{ID: a.ID, Name: a.Name})
			}
			return refs, nil
		},
		ready: ready,
		store: newStateStore(ListSnapshot[domain.Title]{
			Status: Status{Screen: ScreenLoading},
			View:   viewfilter.New(viewfilter.TitleSchema, nil, viewfilter.SortByNumber, options.PageSize),
		}),
	}
}

func (l *List[T]) Snapshot() ListSnapshot[T] {
	return l.store.get()
}

func (l *List[T]) OnChange(fn func(ListSnapshot[T])) {
	l.store.subscribe(fn)
}

// Load fetches the collection and keeps the current filters, sort and page
// size. The page is reset.
func (l *List[T]) Load(ctx context.Context) error {
	return l.load(ctx, l.store.begin())
}

func (l *List[T]) load(ctx context.Context, gen uint64) error {
	log := zerolog.Ctx(ctx).With().Str("list", l.name).Logger()

	if err := l.store.await(ctx, gen, l.ready); err != nil {
		l.store.fail(ctx, gen, err)
		return fmt.Errorf("waiting for backend: %w", err)
	}

	var filterOptions Slot[[]domain.EntityRef]
	done := make(chan struct{})
	go func() {
		defer close(done)
		if l.options == nil {
			return
		}
		refs, err := l.options(ctx)
		if err != nil {
			log.Warn().Err(err).Msg("filter options unavailable")
		}
		filterOptions = resolve(refs, err)
	}()

	rows, err := l.fetch(ctx)
	<-done
	if err != nil {
		log.Error().Err(err).Msg("failed to load list")
		l.store.fail(ctx, gen, err)
		return fmt.Errorf("loading %s: %w", l.name, err)
	}

	if !l.store.replace(ctx, gen, func(cur ListSnapshot[T]) ListSnapshot[T] {
		cur.Status = cur.Status.ready()
		cur.View = cur.View.WithCollection(rows)
		cur.FilterOptions = filterOptions
		return cur
	}) {
		return ctx.Err()
	}
	return nil
}

func (l *List[T]) Retry(ctx context.Context) error {
	gen, ok := l.store.beginRetry()
	if !ok {
		return nil
	}
	return l.load(ctx, gen)
}

func (l *List[T]) Search(term string) ListSnapshot[T] {
	return l.apply(func(v viewfilter.ViewState[T]) viewfilter.ViewState[T] { return v.WithSearch(term) })
}

// FilterAgency narrows the list to one agency; an empty id clears the filter.
func (l *List[T]) FilterAgency(id string) ListSnapshot[T] {
	return l.apply(func(v viewfilter.ViewState[T]) viewfilter.ViewState[T] { return v.WithCategory(id) })
}

func (l *List[T]) Sort(key viewfilter.SortKey) ListSnapshot[T] {
	return l.apply(func(v viewfilter.ViewState[T]) viewfilter.ViewState[T] { return v.WithSort(key) })
}

func (l *List[T]) SetPage(page int) ListSnapshot[T] {
	return l.apply(func(v viewfilter.ViewState[T]) viewfilter.ViewState[T] { return v.WithPage(page) })
}

func (l *List[T]) SetPageSize(size int) ListSnapshot[T] {
	return l.apply(func(v viewfilter.ViewState[T]) viewfilter.ViewState[T] { return v.WithPageSize(size) })
}

func (l *List[T]) apply(fn func(viewfilter.ViewState[T]) viewfilter.ViewState[T]) ListSnapshot[T] {
	return l.store.update(func(cur ListSnapshot[T]) ListSnapshot[T] {
		cur.View = fn(cur.View)
		return cur
	})
}
