package readiness

import (
	"context"
	"fmt"
	"time"

	"github.com/de-tools/ecfr-atlas/pkg/models/domain"
	"github.com/rs/zerolog"
)

const DefaultInterval = 5 * time.Second

// Source is the subset of the repository the poller depends on.
type Source interface {
	Status(ctx context.Context) (domain.ServiceStatus, error)
	WordCountsByAgency(ctx context.Context) ([]domain.AggregateRecord, error)
}

type Config struct {
	// Interval between two attempts.
	Interval time.Duration
	// MaxWait bounds the whole wait. Zero waits until ready or cancelled.
	MaxWait time.Duration
}

type UpdateFunc func(domain.ReadinessState)

// Poller decides whether the backend finished its batch ingestion and retries
// until it has.
type Poller struct {
	source Source
	config Config
}

func NewPoller(source Source, config Config) *Poller {
	if config.Interval <= 0 {
		config.Interval = DefaultInterval
	}
	return &Poller{
		source: source,
		config: config,
	}
}

func (p *Poller) Interval() time.Duration {
	return p.config.Interval
}

func (p *Poller) CheckStatus(ctx context.Context) (domain.ServiceStatus, error) {
	return p.source.Status(ctx)
}

// Probe fetches the primary aggregate collection. An empty collection means
// the service process is up but nothing has been ingested yet.
func (p *Poller) Probe(ctx context.Context) error {
	records, err := p.source.WordCountsByAgency(ctx)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		return domain.ErrEmptyDataset
	}
	return nil
}

// AwaitReadiness polls until the dataset is ready, a fatal error occurs, the
// optional MaxWait expires or ctx is cancelled. onUpdate receives every state
// transition; nothing is emitted once ctx is done.
func (p *Poller) AwaitReadiness(ctx context.Context, onUpdate UpdateFunc) error {
	logger := zerolog.Ctx(ctx)
	if onUpdate == nil {
		onUpdate = func(domain.ReadinessState) {}
	}

	emit := func(state domain.ReadinessState) {
		if ctx.Err() != nil {
			return
		}
		onUpdate(state)
	}

	var deadline <-chan time.Time
	if p.config.MaxWait > 0 {
		timer := time.NewTimer(p.config.MaxWait)
		defer timer.Stop()
		deadline = timer.C
	}

	for attempt := 1; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		emit(domain.ReadinessState{Phase: domain.ReadinessPending, Attempt: attempt})
		state, err := p.attempt(ctx, attempt)
		if ctxErr := ctx.Err(); ctxErr != nil {
			logger.Debug().Int("attempt", attempt).Msg("readiness polling cancelled")
			return ctxErr
		}
		emit(state)

		if state.Terminal() {
			if err != nil {
				logger.Error().Err(err).Str("phase", string(state.Phase)).Msg("readiness polling stopped")
			} else {
				logger.Info().Int("attempt", attempt).Msg("dataset is ready")
			}
			return err
		}

		logger.Info().
			Int("attempt", attempt).
			Dur("retry_in", p.config.Interval).
			Str("reason", state.Message).
			Msg("dataset not ready")

		wait := time.NewTimer(p.config.Interval)
		select {
		case <-ctx.Done():
			wait.Stop()
			return ctx.Err()
		case <-deadline:
			wait.Stop()
			emit(domain.ReadinessState{
				Phase:   domain.ReadinessError,
				Message: fmt.Sprintf("dataset was not ready within %s", p.config.MaxWait),
				Attempt: attempt,
			})
			return domain.ErrReadinessTimeout
		case <-wait.C:
		}
	}
}

// Check runs a single readiness attempt without retrying.
func (p *Poller) Check(ctx context.Context) (domain.ReadinessState, error) {
	return p.attempt(ctx, 1)
}

// attempt classifies one status call plus probe. Only a transport failure
// ends polling; a missing resource or a failing backend is retried.
func (p *Poller) attempt(ctx context.Context, attempt int) (domain.ReadinessState, error) {
	status, err := p.CheckStatus(ctx)
	if err != nil {
		return classify(err, attempt, "backend is still starting")
	}

	if status != domain.ServiceRunning {
		return domain.ReadinessState{
			Phase:   domain.ReadinessUnready,
			Message: "backend is still starting",
			Attempt: attempt,
		}, nil
	}

	if err := p.Probe(ctx); err != nil {
		return classify(err, attempt, "the system is still processing eCFR data")
	}
	return domain.ReadinessState{Phase: domain.ReadinessReady, Attempt: attempt}, nil
}

func classify(err error, attempt int, notReady string) (domain.ReadinessState, error) {
	switch {
	case domain.IsNotReady(err):
		return domain.ReadinessState{
			Phase:   domain.ReadinessUnready,
			Message: notReady,
			Attempt: attempt,
		}, nil
	case domain.IsNetwork(err):
		return domain.ReadinessState{
			Phase:   domain.ReadinessUnavailable,
			Message: fmt.Sprintf("backend service is not available: %v", err),
			Attempt: attempt,
		}, err
	case domain.IsServer(err):
		return domain.ReadinessState{
			Phase:   domain.ReadinessUnready,
			Message: fmt.Sprintf("backend is not answering yet: %v", err),
			Attempt: attempt,
		}, nil
	default:
		return domain.ReadinessState{
			Phase:   domain.ReadinessError,
			Message: fmt.Sprintf("failed to check readiness: %v", err),
			Attempt: attempt,
		}, err
	}
}
