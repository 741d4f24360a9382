package companion

import "sync/atomic"

// Recorder observes lifecycle operations. The zero state records nothing;
// install an implementation with SetRecorder (pkg/metrics/prometheus provides
// a Prometheus-backed one). Recorders are called synchronously after the
// service call they observe and must not panic.
type Recorder interface {
	// ObserveStart records that a service with the given name was started.
	ObserveStart(service string)
	// ObserveStop records that a service with the given name was stopped.
	ObserveStop(service string)
	// ObserveRestart records that a service with the given name was restarted.
	ObserveRestart(service string)
}

var activeRecorder atomic.Pointer[Recorder]

// SetRecorder installs r as the process-wide lifecycle recorder. Passing nil
// removes the current recorder. Safe to call at any time, including before
// Bootstrap to capture the bootstrap starts.
func SetRecorder(r Recorder) {
	if r == nil {
		activeRecorder.Store(nil)
		return
	}
	activeRecorder.Store(&r)
}

// nopRecorder drops every observation.
type nopRecorder struct{}

func (nopRecorder) ObserveStart(string)   {}
func (nopRecorder) ObserveStop(string)    {}
func (nopRecorder) ObserveRestart(string) {}

func recorder() Recorder {
	if r := activeRecorder.Load(); r != nil {
		return *r
	}
	return nopRecorder{}
}
