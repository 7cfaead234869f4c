package viewmodel

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/de-tools/ecfr-atlas/pkg/models/domain"
	"github.com/de-tools/ecfr-atlas/pkg/services/readiness"
	"github.com/stretchr/testify/mock"
)

type mockRepository struct {
	mock.Mock
}

func (m *mockRepository) records(method string, args ...interface{}) ([]domain.AggregateRecord, error) {
	ret := m.MethodCalled(method, args...)
	if ret.Get(0) == nil {
		return nil, ret.Error(1)
	}
	return ret.Get(0).([]domain.AggregateRecord), ret.Error(1)
}

func (m *mockRepository) WordCountsByAgency(ctx context.Context) ([]domain.AggregateRecord, error) {
	return m.records("WordCountsByAgency", ctx)
}

func (m *mockRepository) ChangeFrequencyByAgency(ctx context.Context) ([]domain.AggregateRecord, error) {
	return m.records("ChangeFrequencyByAgency", ctx)
}

func (m *mockRepository) WordCountsByTitle(ctx context.Context) ([]domain.AggregateRecord, error) {
	return m.records("WordCountsByTitle", ctx)
}

func (m *mockRepository) ChangeFrequencyByTitle(ctx context.Context) ([]domain.AggregateRecord, error) {
	return m.records("ChangeFrequencyByTitle", ctx)
}

func (m *mockRepository) WordCountsBySection(ctx context.Context, titleID string) ([]domain.AggregateRecord, error) {
	return m.records("WordCountsBySection", ctx, titleID)
}

func (m *mockRepository) Summary(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

func (m *mockRepository) GetAgency(ctx context.Context, id string) (domain.Agency, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Agency), args.Error(1)
}

func (m *mockRepository) ListAgencies(ctx context.Context) ([]domain.Agency, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Agency), args.Error(1)
}

func (m *mockRepository) ListAgencyTitles(ctx context.Context, agencyID string) ([]domain.Title, error) {
	args := m.Called(ctx, agencyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Title), args.Error(1)
}

func (m *mockRepository) ListTitles(ctx context.Context) ([]domain.Title, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Title), args.Error(1)
}

func (m *mockRepository) GetTitle(ctx context.Context, id string) (domain.Title, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Title), args.Error(1)
}

func (m *mockRepository) ListTitleSections(ctx context.Context, titleID string) ([]domain.Section, error) {
	args := m.Called(ctx, titleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Section), args.Error(1)
}

// scriptedReadiness replays fixed poller states.
type scriptedReadiness struct {
	states []domain.ReadinessState
	err    error
}

func (s scriptedReadiness) AwaitReadiness(_ context.Context, onUpdate readiness.UpdateFunc) error {
	for _, st := range s.states {
		if onUpdate != nil {
			onUpdate(st)
		}
	}
	return s.err
}

// blockedReadiness reports pending and then never becomes ready.
type blockedReadiness struct {
	entered chan struct{}
}

func (b blockedReadiness) AwaitReadiness(ctx context.Context, onUpdate readiness.UpdateFunc) error {
	onUpdate(domain.ReadinessState{Phase: domain.ReadinessPending, Attempt: 1})
	close(b.entered)
	<-ctx.Done()
	return ctx.Err()
}

// failThenBlockReadiness fails the first wait, then blocks until the context
// ends.
type failThenBlockReadiness struct {
	mu    sync.Mutex
	calls int
}

func (f *failThenBlockReadiness) AwaitReadiness(ctx context.Context, onUpdate readiness.UpdateFunc) error {
	f.mu.Lock()
	f.calls++
	first := f.calls == 1
	f.mu.Unlock()

	if first {
		onUpdate(domain.ReadinessState{Phase: domain.ReadinessUnavailable, Message: "down"})
		return &domain.NetworkError{Op: "GET /api/status", Err: errors.New("refused")}
	}
	onUpdate(domain.ReadinessState{Phase: domain.ReadinessPending, Attempt: 1})
	<-ctx.Done()
	return ctx.Err()
}

type screenRecorder struct {
	mu      sync.Mutex
	screens []Screen
}

func (r *screenRecorder) record(s Screen) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.screens = append(r.screens, s)
}

func (r *screenRecorder) all() []Screen {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Screen(nil), r.screens...)
}

func ranked(entityType domain.EntityType, prefix string, values ...float64) []domain.AggregateRecord {
	out := make([]domain.AggregateRecord, len(values))
	for i, v := range values {
		out[i] = domain.AggregateRecord{
			EntityID:    fmt.Sprintf("%s%d", prefix, i),
			EntityName:  fmt.Sprintf("%s %d", prefix, i),
			EntityType:  entityType,
			MetricValue: v,
		}
	}
	return out
}

func count(v int64) *int64 {
	return &v
}
