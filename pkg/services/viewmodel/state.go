package viewmodel

import (
	"context"
	"sync"
	"time"

	"github.com/de-tools/ecfr-atlas/pkg/models/domain"
	"github.com/de-tools/ecfr-atlas/pkg/services/readiness"
)

type Screen string

const (
	ScreenLoading Screen = "loading"
	ScreenReady   Screen = "ready"
	ScreenUnready Screen = "unready"
	ScreenError   Screen = "error"
)

// Readiness waits for the backend dataset. *readiness.Poller implements it.
type Readiness interface {
	AwaitReadiness(ctx context.Context, onUpdate readiness.UpdateFunc) error
}

type Options struct {
	TopN        int
	DetailTopN  int
	SectionTopN int
	PageSize    int
}

func (o Options) withDefaults() Options {
	if o.TopN <= 0 {
		o.TopN = 10
	}
	if o.DetailTopN <= 0 {
		o.DetailTopN = 10
	}
	if o.SectionTopN <= 0 {
		o.SectionTopN = 15
	}
	if o.PageSize <= 0 {
		o.PageSize = 10
	}
	return o
}

// Status is the screen-level part every snapshot carries.
type Status struct {
	Screen    Screen
	Readiness domain.ReadinessState
	Message   string
	Err       error
	UpdatedAt time.Time
}

func (s Status) status() Status {
	return s
}

// ready keeps the readiness that led here.
func (s Status) ready() Status {
	return Status{Screen: ScreenReady, Readiness: s.Readiness, UpdatedAt: time.Now()}
}

// Slot holds one derived data product. A failed slot does not change the
// screen it belongs to.
type Slot[T any] struct {
	Loading bool
	Loaded  bool
	Value   T
	Err     error
}

func (s Slot[T]) Failed() bool {
	return s.Err != nil
}

func pending[T any]() Slot[T] {
	return Slot[T]{Loading: true}
}

func resolve[T any](value T, err error) Slot[T] {
	if err != nil {
		return Slot[T]{Err: err}
	}
	return Slot[T]{Loaded: true, Value: value}
}

type snapshot[S any] interface {
	status() Status
	withStatus(Status) S
	clone() S
}

// stateStore owns the state of one view model. State is only ever replaced
// as a whole; writes from a superseded load generation or a cancelled
// context are dropped.
type stateStore[S snapshot[S]] struct {
	mu        sync.Mutex
	state     S
	gen       uint64
	listeners []func(S)
}

func newStateStore[S snapshot[S]](initial S) *stateStore[S] {
	return &stateStore[S]{state: initial}
}

func (s *stateStore[S]) get() S {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.clone()
}

func (s *stateStore[S]) subscribe(fn func(S)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// begin starts a new load generation and enters Loading.
func (s *stateStore[S]) begin() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.beginLocked()
}

// beginRetry starts a new generation only when the screen is Error, so
// concurrent retries start at most one load.
func (s *stateStore[S]) beginRetry() (uint64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.status().Screen != ScreenError {
		return 0, false
	}
	return s.beginLocked(), true
}

func (s *stateStore[S]) beginLocked() uint64 {
	s.gen++
	s.setLocked(s.state.withStatus(Status{Screen: ScreenLoading, UpdatedAt: time.Now()}))
	return s.gen
}

// replace applies fn if gen is still current and ctx is live. Listeners run
// synchronously under the lock and must not call back into the view model.
func (s *stateStore[S]) replace(ctx context.Context, gen uint64, fn func(S) S) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen || ctx.Err() != nil {
		return false
	}
	s.setLocked(fn(s.state))
	return true
}

// update applies a user interaction regardless of the load generation.
func (s *stateStore[S]) update(fn func(S) S) S {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.setLocked(fn(s.state))
	return s.state.clone()
}

func (s *stateStore[S]) setLocked(next S) {
	s.state = next
	for _, l := range s.listeners {
		l(next.clone())
	}
}

func (s *stateStore[S]) setStatus(ctx context.Context, gen uint64, status Status) bool {
	status.UpdatedAt = time.Now()
	return s.replace(ctx, gen, func(cur S) S {
		return cur.withStatus(status)
	})
}

func (s *stateStore[S]) fail(ctx context.Context, gen uint64, err error) {
	s.replace(ctx, gen, func(cur S) S {
		return cur.withStatus(Status{
			Screen:    ScreenError,
			Readiness: cur.status().Readiness,
			Message:   errorMessage(err),
			Err:       err,
			UpdatedAt: time.Now(),
		})
	})
}

// await blocks until the backend is ready, mirroring every readiness
// transition into the screen status.
func (s *stateStore[S]) await(ctx context.Context, gen uint64, r Readiness) error {
	if r == nil {
		return nil
	}
	return r.AwaitReadiness(ctx, func(rs domain.ReadinessState) {
		s.setStatus(ctx, gen, Status{
			Screen:    screenFor(rs),
			Readiness: rs,
			Message:   rs.Message,
		})
	})
}

func screenFor(rs domain.ReadinessState) Screen {
	switch rs.Phase {
	case domain.ReadinessUnready:
		return ScreenUnready
	case domain.ReadinessUnavailable, domain.ReadinessError:
		return ScreenError
	default:
		// Pending shows the spinner; Ready keeps it while data is fetched.
		return ScreenLoading
	}
}

func errorMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case domain.IsNotFound(err):
		return "The requested record was not found."
	case domain.IsNetwork(err):
		return "Backend service is not available. Please try again later."
	case domain.IsServer(err):
		return "The backend returned an error. Please try again later."
	default:
		return err.Error()
	}
}
