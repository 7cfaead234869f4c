package readiness

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/de-tools/ecfr-atlas/pkg/models/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockSource struct {
	mock.Mock
}

func (m *mockSource) Status(ctx context.Context) (domain.ServiceStatus, error) {
	args := m.Called(ctx)
	return args.Get(0).(domain.ServiceStatus), args.Error(1)
}

func (m *mockSource) WordCountsByAgency(ctx context.Context) ([]domain.AggregateRecord, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AggregateRecord), args.Error(1)
}

type recorder struct {
	mu     sync.Mutex
	states []domain.ReadinessState
}

func (r *recorder) record(s domain.ReadinessState) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.states = append(r.states, s)
}

func (r *recorder) phases() []domain.ReadinessPhase {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.ReadinessPhase, 0, len(r.states))
	for _, s := range r.states {
		out = append(out, s.Phase)
	}
	return out
}

var populated = []domain.AggregateRecord{{EntityID: "a1", EntityName: "DOT", MetricValue: 10}}

func TestNewPoller_DefaultInterval(t *testing.T) {
	p := NewPoller(new(mockSource), Config{})
	assert.Equal(t, 5*time.Second, p.Interval())
}

func TestPoller_AwaitReadiness(t *testing.T) {
	tests := []struct {
		name     string
		setup    func(*mockSource)
		expected []domain.ReadinessPhase
		checkErr func(*testing.T, error)
	}{
		{
			name: "ready on first attempt",
			setup: func(m *mockSource) {
				m.On("Status", mock.Anything).Return(domain.ServiceRunning, nil)
				m.On("WordCountsByAgency", mock.Anything).Return(populated, nil)
			},
			expected: []domain.ReadinessPhase{domain.ReadinessPending, domain.ReadinessReady},
			checkErr: func(t *testing.T, err error) { assert.NoError(t, err) },
		},
		{
			name: "not running then empty then ready",
			setup: func(m *mockSource) {
				m.On("Status", mock.Anything).Return(domain.ServiceNotRunning, nil).Once()
				m.On("Status", mock.Anything).Return(domain.ServiceRunning, nil)
				m.On("WordCountsByAgency", mock.Anything).Return([]domain.AggregateRecord{}, nil).Once()
				m.On("WordCountsByAgency", mock.Anything).Return(populated, nil)
			},
			expected: []domain.ReadinessPhase{
				domain.ReadinessPending, domain.ReadinessUnready,
				domain.ReadinessPending, domain.ReadinessUnready,
				domain.ReadinessPending, domain.ReadinessReady,
			},
			checkErr: func(t *testing.T, err error) { assert.NoError(t, err) },
		},
		{
			name: "probe not found is retried",
			setup: func(m *mockSource) {
				m.On("Status", mock.Anything).Return(domain.ServiceRunning, nil)
				m.On("WordCountsByAgency", mock.Anything).
					Return(nil, &domain.NotFoundError{Resource: "/api/analytics/word-count/by-agency", StatusCode: 404}).Once()
				m.On("WordCountsByAgency", mock.Anything).Return(populated, nil)
			},
			expected: []domain.ReadinessPhase{
				domain.ReadinessPending, domain.ReadinessUnready,
				domain.ReadinessPending, domain.ReadinessReady,
			},
			checkErr: func(t *testing.T, err error) { assert.NoError(t, err) },
		},
		{
			name: "status network error is fatal",
			setup: func(m *mockSource) {
				m.On("Status", mock.Anything).
					Return(domain.ServiceStatus(""), &domain.NetworkError{Op: "GET /api/status", Err: errors.New("refused")})
			},
			expected: []domain.ReadinessPhase{domain.ReadinessPending, domain.ReadinessUnavailable},
			checkErr: func(t *testing.T, err error) { assert.True(t, domain.IsNetwork(err)) },
		},
		{
			name: "status not found is retried",
			setup: func(m *mockSource) {
				m.On("Status", mock.Anything).
					Return(domain.ServiceStatus(""), &domain.NotFoundError{Resource: "/api/status", StatusCode: 404}).Once()
				m.On("Status", mock.Anything).Return(domain.ServiceRunning, nil)
				m.On("WordCountsByAgency", mock.Anything).Return(populated, nil)
			},
			expected: []domain.ReadinessPhase{
				domain.ReadinessPending, domain.ReadinessUnready,
				domain.ReadinessPending, domain.ReadinessReady,
			},
			checkErr: func(t *testing.T, err error) { assert.NoError(t, err) },
		},
		{
			name: "status server error is retried",
			setup: func(m *mockSource) {
				m.On("Status", mock.Anything).
					Return(domain.ServiceStatus(""), &domain.ServerError{Resource: "/api/status", StatusCode: 502}).Once()
				m.On("Status", mock.Anything).Return(domain.ServiceRunning, nil)
				m.On("WordCountsByAgency", mock.Anything).Return(populated, nil)
			},
			expected: []domain.ReadinessPhase{
				domain.ReadinessPending, domain.ReadinessUnready,
				domain.ReadinessPending, domain.ReadinessReady,
			},
			checkErr: func(t *testing.T, err error) { assert.NoError(t, err) },
		},
		{
			name: "probe server error is retried",
			setup: func(m *mockSource) {
				m.On("Status", mock.Anything).Return(domain.ServiceRunning, nil)
				m.On("WordCountsByAgency", mock.Anything).
					Return(nil, &domain.ServerError{Resource: "/api/analytics/word-count/by-agency", StatusCode: 503}).Once()
				m.On("WordCountsByAgency", mock.Anything).Return(populated, nil)
			},
			expected: []domain.ReadinessPhase{
				domain.ReadinessPending, domain.ReadinessUnready,
				domain.ReadinessPending, domain.ReadinessReady,
			},
			checkErr: func(t *testing.T, err error) { assert.NoError(t, err) },
		},
		{
			name: "probe network error is fatal",
			setup: func(m *mockSource) {
				m.On("Status", mock.Anything).Return(domain.ServiceRunning, nil)
				m.On("WordCountsByAgency", mock.Anything).
					Return(nil, &domain.NetworkError{Op: "GET /api/analytics/word-count/by-agency", Err: errors.New("reset")})
			},
			expected: []domain.ReadinessPhase{domain.ReadinessPending, domain.ReadinessUnavailable},
			checkErr: func(t *testing.T, err error) { assert.True(t, domain.IsNetwork(err)) },
		},
		{
			name: "unclassified error is fatal",
			setup: func(m *mockSource) {
				m.On("Status", mock.Anything).Return(domain.ServiceStatus(""), errors.New("boom"))
			},
			expected: []domain.ReadinessPhase{domain.ReadinessPending, domain.ReadinessError},
			checkErr: func(t *testing.T, err error) { assert.EqualError(t, err, "boom") },
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			src := new(mockSource)
			tc.setup(src)
			rec := &recorder{}

			p := NewPoller(src, Config{Interval: 5 * time.Millisecond})
			err := p.AwaitReadiness(context.Background(), rec.record)

			tc.checkErr(t, err)
			assert.Equal(t, tc.expected, rec.phases())
		})
	}
}

func TestPoller_StopsEmittingAfterCancel(t *testing.T) {
	src := new(mockSource)
	src.On("Status", mock.Anything).Return(domain.ServiceNotRunning, nil)

	unready := make(chan struct{}, 16)
	rec := &recorder{}
	p := NewPoller(src, Config{Interval: 20 * time.Millisecond})

	h := p.Start(context.Background(), func(s domain.ReadinessState) {
		rec.record(s)
		if s.Phase == domain.ReadinessUnready {
			unready <- struct{}{}
		}
	})

	select {
	case <-unready:
	case <-time.After(time.Second):
		t.Fatal("poller never reported unready")
	}

	h.Stop()
	emitted := len(rec.phases())
	time.Sleep(60 * time.Millisecond)

	assert.Equal(t, emitted, len(rec.phases()), "no state may be emitted after cancellation")
	assert.Contains(t, rec.phases(), domain.ReadinessUnready)
	assert.ErrorIs(t, h.Err(), context.Canceled)
}

func TestPoller_RetryWaitsForInterval(t *testing.T) {
	src := new(mockSource)
	var mu sync.Mutex
	var calls []time.Time
	src.On("Status", mock.Anything).Run(func(mock.Arguments) {
		mu.Lock()
		calls = append(calls, time.Now())
		mu.Unlock()
	}).Return(domain.ServiceNotRunning, nil)

	interval := 30 * time.Millisecond
	p := NewPoller(src, Config{Interval: interval})
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	err := p.AwaitReadiness(ctx, nil)
	require.ErrorIs(t, err, context.DeadlineExceeded)

	mu.Lock()
	defer mu.Unlock()
	require.GreaterOrEqual(t, len(calls), 2)
	for i := 1; i < len(calls); i++ {
		assert.GreaterOrEqual(t, calls[i].Sub(calls[i-1]), interval)
	}
}

func TestPoller_MaxWait(t *testing.T) {
	src := new(mockSource)
	src.On("Status", mock.Anything).Return(domain.ServiceRunning, nil)
	src.On("WordCountsByAgency", mock.Anything).Return([]domain.AggregateRecord{}, nil)

	rec := &recorder{}
	p := NewPoller(src, Config{Interval: 10 * time.Millisecond, MaxWait: 35 * time.Millisecond})

	err := p.AwaitReadiness(context.Background(), rec.record)
	require.ErrorIs(t, err, domain.ErrReadinessTimeout)

	phases := rec.phases()
	assert.Equal(t, domain.ReadinessError, phases[len(phases)-1])
}

func TestHandle_ErrBeforeDone(t *testing.T) {
	src := new(mockSource)
	src.On("Status", mock.Anything).Return(domain.ServiceNotRunning, nil)

	h := NewPoller(src, Config{Interval: time.Hour}).Start(context.Background(), nil)
	assert.NoError(t, h.Err())

	h.Stop()
	select {
	case <-h.Done():
	default:
		t.Fatal("done channel must be closed after Stop")
	}
}

func TestPoller_Check(t *testing.T) {
	src := new(mockSource)
	src.On("Status", mock.Anything).Return(domain.ServiceRunning, nil)
	src.On("WordCountsByAgency", mock.Anything).Return([]domain.AggregateRecord{}, nil)

	state, err := NewPoller(src, Config{}).Check(context.Background())

	require.NoError(t, err)
	assert.Equal(t, domain.ReadinessUnready, state.Phase)
	assert.Equal(t, 1, state.Attempt)
	src.AssertNumberOfCalls(t, "Status", 1)
}
