package stateful

import (
	"sync/atomic"
	"time"
)

// Observer defines hooks for observability and metrics collection.
// Implementations must be safe for concurrent use.
type Observer interface {
	// OnDispatch is called when a call goes in flight.
	OnDispatch(store, action string)

	// OnSkip is called when a call is dropped because the same action is
	// already in flight.
	OnSkip(store, action string)

	// OnSuccess is called after a successful call has been applied.
	OnSuccess(store, action string, duration time.Duration)

	// OnFailure is called after a call failed, with the recorded error.
	OnFailure(store, action string, err error, duration time.Duration)
}

// NoopObserver is a no-op implementation of Observer.
type NoopObserver struct{}

func (NoopObserver) OnDispatch(store, action string)                                   {}
func (NoopObserver) OnSkip(store, action string)                                       {}
func (NoopObserver) OnSuccess(store, action string, duration time.Duration)            {}
func (NoopObserver) OnFailure(store, action string, err error, duration time.Duration) {}

// MetricsObserver counts dispatch outcomes.
// All counters use atomic operations.
type MetricsObserver struct {
	dispatchCount  atomic.Int64
	skipCount      atomic.Int64
	successCount   atomic.Int64
	failureCount   atomic.Int64
	totalLatencyNs atomic.Int64 // stored as nanoseconds for atomic operations
}

// NewMetricsObserver creates a new metrics observer.
func NewMetricsObserver() *MetricsObserver {
	return &MetricsObserver{}
}

func (m *MetricsObserver) OnDispatch(store, action string) {
	m.dispatchCount.Add(1)
}

func (m *MetricsObserver) OnSkip(store, action string) {
	m.skipCount.Add(1)
}

func (m *MetricsObserver) OnSuccess(store, action string, duration time.Duration) {
	m.successCount.Add(1)
	m.totalLatencyNs.Add(int64(duration))
}

func (m *MetricsObserver) OnFailure(store, action string, err error, duration time.Duration) {
	m.failureCount.Add(1)
	m.totalLatencyNs.Add(int64(duration))
}

// Snapshot returns a copy of the current metrics.
func (m *MetricsObserver) Snapshot() MetricsSnapshot {
	return MetricsSnapshot{
		DispatchCount: m.dispatchCount.Load(),
		SkipCount:     m.skipCount.Load(),
		SuccessCount:  m.successCount.Load(),
		FailureCount:  m.failureCount.Load(),
		TotalLatency:  time.Duration(m.totalLatencyNs.Load()),
	}
}

// Reset clears all counters.
func (m *MetricsObserver) Reset() {
	m.dispatchCount.Store(0)
	m.skipCount.Store(0)
	m.successCount.Store(0)
	m.failureCount.Store(0)
	m.totalLatencyNs.Store(0)
}

// MetricsSnapshot is a point-in-time snapshot of metrics.
type MetricsSnapshot struct {
	DispatchCount int64         `json:"dispatchCount"`
	SkipCount     int64         `json:"skipCount"`
	SuccessCount  int64         `json:"successCount"`
	FailureCount  int64         `json:"failureCount"`
	TotalLatency  time.Duration `json:"totalLatencyNs"`
}

// Completed returns the number of calls that ran to completion.
func (s MetricsSnapshot) Completed() int64 {
	return s.SuccessCount + s.FailureCount
}
