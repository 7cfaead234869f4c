package domain

type ServiceStatus string

const (
	ServiceRunning    ServiceStatus = "running"
	ServiceNotRunning ServiceStatus = "not_running"
)

type ReadinessPhase string

const (
	ReadinessPending     ReadinessPhase = "pending"
	ReadinessReady       ReadinessPhase = "ready"
	ReadinessUnready     ReadinessPhase = "unready"
	ReadinessUnavailable ReadinessPhase = "unavailable"
	ReadinessError       ReadinessPhase = "error"
)

// ReadinessState is emitted by the readiness poller after every attempt.
type ReadinessState struct {
	Phase   ReadinessPhase
	Message string
	Attempt int
}

// Terminal reports whether polling stops in this state.
func (s ReadinessState) Terminal() bool {
	switch s.Phase {
	case ReadinessReady, ReadinessUnavailable, ReadinessError:
		return true
	default:
		return false
	}
}
