package util

import (
	"go.uber.org/zap"
)

// CircuitState represents the state of the circuit breaker
type CircuitState string

const (
	CircuitStateClosed CircuitState = "CLOSED"
	CircuitStateOpen   CircuitState = "OPEN"
)

// String implements Stringer interface
func (s CircuitState) String() string {
	return string(s)
}

// CircuitBreaker stops a batch once the browser has failed too many items in
// a row. A single success closes it again. The run is single threaded so the
// breaker carries no lock.
type CircuitBreaker struct {
	state            CircuitState
	failureCount     int
	failureThreshold int
	logger           *zap.Logger
}

// NewCircuitBreaker creates a breaker. A threshold <= 0 disables it.
func NewCircuitBreaker(failureThreshold int, logger *zap.Logger) *CircuitBreaker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CircuitBreaker{
		state:            CircuitStateClosed,
		failureThreshold: failureThreshold,
		logger:           logger,
	}
}

// CanExecute reports whether the next item should be attempted.
func (cb *CircuitBreaker) CanExecute() bool {
	return cb.state != CircuitStateOpen
}

// RecordSuccess records a successful item.
func (cb *CircuitBreaker) RecordSuccess() {
	if cb.failureCount > 0 {
		cb.logger.Debug("Circuit Breaker: Resetting failure count",
			zap.Int("was", cb.failureCount),
		)
	}
	cb.failureCount = 0
	if cb.state == CircuitStateOpen {
		cb.transitionTo(CircuitStateClosed)
	}
}

// RecordFailure records a failed item and opens the breaker at the threshold.
func (cb *CircuitBreaker) RecordFailure() {
	cb.failureCount++

	cb.logger.Warn("Circuit Breaker: Failure recorded",
		zap.Int("count", cb.failureCount),
		zap.Int("threshold", cb.failureThreshold),
	)

	if cb.failureThreshold > 0 && cb.failureCount >= cb.failureThreshold && cb.state == CircuitStateClosed {
		cb.logger.Error("Circuit Breaker: Threshold reached, OPENING circuit",
			zap.Int("threshold", cb.failureThreshold),
		)
		cb.transitionTo(CircuitStateOpen)
	}
}

func (cb *CircuitBreaker) transitionTo(newState CircuitState) {
	oldState := cb.state
	cb.state = newState

	cb.logger.Info("Circuit Breaker: State transition",
		zap.String("from", oldState.String()),
		zap.String("to", newState.String()),
		zap.Int("failure_count", cb.failureCount),
	)
}

// GetStatus returns the current status
func (cb *CircuitBreaker) GetStatus() CircuitBreakerStatus {
	return CircuitBreakerStatus{
		State:        cb.state,
		FailureCount: cb.failureCount,
	}
}

// CircuitBreakerStatus represents the circuit breaker status
type CircuitBreakerStatus struct {
	State        CircuitState
	FailureCount int
}
