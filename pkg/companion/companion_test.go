package companion

import (
	"sync/atomic"
	"testing"
)

// counterService mirrors the reference sanity service: Start increments an
// atomic counter, Stop decrements it. The counter going negative is allowed
// (stopping an already-stopped service must be tolerated).
type counterService struct {
	name    string
	counter atomic.Int64
}

func (s *counterService) Name() string { return s.name }
func (s *counterService) Start()       { s.counter.Add(1) }
func (s *counterService) Stop()        { s.counter.Add(-1) }

// eventService records every lifecycle call it receives, for ordering and
// filtering assertions.
type eventService struct {
	name   string
	events *[]string
	label  string
}

func (s *eventService) Name() string { return s.name }
func (s *eventService) Start()       { *s.events = append(*s.events, s.label+":start") }
func (s *eventService) Stop()        { *s.events = append(*s.events, s.label+":stop") }

// customRestartService overrides the default stop-then-start composition.
type customRestartService struct {
	eventService
}

func (s *customRestartService) Restart() {
	*s.events = append(*s.events, s.label+":restart")
}

// resetRegistry returns the package globals to their pre-init state so each
// test starts from an empty, unfrozen registry.
func resetRegistry(t *testing.T) {
	t.Helper()
	registryMu.Lock()
	registry = nil
	frozen = false
	started = false
	stopped = false
	registryMu.Unlock()
	SetRecorder(nil)
}

func TestEndToEndCounter(t *testing.T) {
	resetRegistry(t)

	svc := &counterService{name: "test service"}
	Register(svc)

	// Bootstrap hook: started exactly once.
	Bootstrap()
	if got := svc.counter.Load(); got != 1 {
		t.Fatalf("after bootstrap: counter = %d, want 1", got)
	}

	Stop("test service")
	if got := svc.counter.Load(); got != 0 {
		t.Fatalf("after stop: counter = %d, want 0", got)
	}

	Start("test service")
	if got := svc.counter.Load(); got != 1 {
		t.Fatalf("after start: counter = %d, want 1", got)
	}

	// Restart is stop-then-start: net effect on the counter is neutral.
	Restart("test service")
	if got := svc.counter.Load(); got != 1 {
		t.Fatalf("after restart: counter = %d, want 1", got)
	}

	// Teardown hook: stopped exactly once more.
	Shutdown()
	if got := svc.counter.Load(); got != 0 {
		t.Fatalf("after shutdown: counter = %d, want 0", got)
	}
}

func TestBootstrapEffectiveOnce(t *testing.T) {
	resetRegistry(t)

	svc := &counterService{name: "db"}
	Register(svc)

	Bootstrap()
	Bootstrap()
	Bootstrap()
	if got := svc.counter.Load(); got != 1 {
		t.Errorf("counter = %d after repeated Bootstrap, want 1", got)
	}
}

func TestShutdownEffectiveOnce(t *testing.T) {
	resetRegistry(t)

	svc := &counterService{name: "db"}
	Register(svc)

	Bootstrap()
	Shutdown()
	Shutdown()
	if got := svc.counter.Load(); got != 0 {
		t.Errorf("counter = %d after repeated Shutdown, want 0", got)
	}
}

func TestShutdownStopsManuallyStoppedServiceAgain(t *testing.T) {
	resetRegistry(t)

	svc := &counterService{name: "db"}
	Register(svc)

	Bootstrap()
	Stop("db") // counter back to 0
	Shutdown() // stops unconditionally, counter goes negative
	if got := svc.counter.Load(); got != -1 {
		t.Errorf("counter = %d, want -1 (teardown stop is unconditional)", got)
	}
}

func TestNameFiltering(t *testing.T) {
	resetRegistry(t)

	matched := &counterService{name: "postgres"}
	other := &counterService{name: "redis"}
	Register(matched)
	Register(other)

	Start("postgres")
	if got := matched.counter.Load(); got != 1 {
		t.Errorf("matched counter = %d, want 1", got)
	}
	if got := other.counter.Load(); got != 0 {
		t.Errorf("non-matching counter = %d, want 0 (untouched)", got)
	}

	Stop("postgres")
	if got := other.counter.Load(); got != 0 {
		t.Errorf("non-matching counter = %d after Stop, want 0", got)
	}
}

func TestNoMatchesIsNoOp(t *testing.T) {
	resetRegistry(t)

	svc := &counterService{name: "db"}
	Register(svc)

	// Must not panic, must not touch anything.
	Start("no such service")
	Stop("no such service")
	Restart("no such service")
	if got := svc.counter.Load(); got != 0 {
		t.Errorf("counter = %d, want 0", got)
	}
}

func TestEmptyRegistry(t *testing.T) {
	resetRegistry(t)

	// All operations are no-ops on an empty registry.
	Bootstrap()
	Start("anything")
	Stop("anything")
	Restart("anything")
	Shutdown()
}

func TestDoubleStopSurfacesNoError(t *testing.T) {
	resetRegistry(t)

	svc := &counterService{name: "db"}
	Register(svc)

	Stop("db")
	Stop("db")
	if got := svc.counter.Load(); got != -2 {
		t.Errorf("counter = %d, want -2", got)
	}
}

func TestDuplicateNamesActedOnInRegistryOrder(t *testing.T) {
	resetRegistry(t)

	var events []string
	Register(&eventService{name: "db", events: &events, label: "a"})
	Register(&eventService{name: "other", events: &events, label: "b"})
	Register(&eventService{name: "db", events: &events, label: "c"})

	Start("db")
	want := []string{"a:start", "c:start"}
	if len(events) != len(want) {
		t.Fatalf("events = %v, want %v", events, want)
	}
	for i := range want {
		if events[i] != want[i] {
			t.Fatalf("events = %v, want %v", events, want)
		}
	}
}

func TestRestartDefaultsToStopThenStart(t *testing.T) {
	resetRegistry(t)

	var events []string
	Register(&eventService{name: "db", events: &events, label: "a"})

	Restart("db")
	want := []string{"a:stop", "a:start"}
	if len(events) != 2 || events[0] != want[0] || events[1] != want[1] {
		t.Fatalf("events = %v, want %v", events, want)
	}
}

func TestRestartUsesRestarterWhenImplemented(t *testing.T) {
	resetRegistry(t)

	var events []string
	svc := &customRestartService{eventService{name: "db", events: &events, label: "a"}}
	Register(svc)

	Restart("db")
	if len(events) != 1 || events[0] != "a:restart" {
		t.Fatalf("events = %v, want [a:restart]", events)
	}
}

func TestHooksPreserveRegistrationOrder(t *testing.T) {
	resetRegistry(t)

	var events []string
	Register(&eventService{name: "first", events: &events, label: "a"})
	Register(&eventService{name: "second", events: &events, label: "b"})
	Register(&eventService{name: "third", events: &events, label: "c"})

	Bootstrap()
	Shutdown()

	want := []string{"a:start", "b:start", "c:start", "a:stop", "b:stop", "c:stop"}
	if len(events) != len(want) {
		t.Fatalf("events = %v, want %v", events, want)
	}
	for i := range want {
		if events[i] != want[i] {
			t.Fatalf("events = %v, want %v", events, want)
		}
	}
}

func TestRegisterNilPanics(t *testing.T) {
	resetRegistry(t)

	defer func() {
		if recover() == nil {
			t.Error("Register(nil) did not panic")
		}
	}()
	Register(nil)
}

func TestRegisterAfterBootstrapPanics(t *testing.T) {
	resetRegistry(t)

	Bootstrap()

	defer func() {
		if recover() == nil {
			t.Error("Register after Bootstrap did not panic")
		}
	}()
	Register(&counterService{name: "late"})
}

func TestServicesReturnsSnapshot(t *testing.T) {
	resetRegistry(t)

	a := &counterService{name: "a"}
	b := &counterService{name: "b"}
	Register(a)
	Register(b)

	services := Services()
	if len(services) != 2 || services[0] != Service(a) || services[1] != Service(b) {
		t.Fatalf("Services() = %v, want [a b] in registration order", services)
	}

	// Mutating the snapshot must not affect the registry.
	services[0] = b
	if got := Services(); got[0] != Service(a) {
		t.Error("mutating the Services() result leaked into the registry")
	}
}

// countingRecorder tallies observations per operation.
type countingRecorder struct {
	starts, stops, restarts atomic.Int64
}

func (r *countingRecorder) ObserveStart(string)   { r.starts.Add(1) }
func (r *countingRecorder) ObserveStop(string)    { r.stops.Add(1) }
func (r *countingRecorder) ObserveRestart(string) { r.restarts.Add(1) }

func TestRecorderObservesLifecycle(t *testing.T) {
	resetRegistry(t)

	rec := &countingRecorder{}
	SetRecorder(rec)
	Register(&counterService{name: "db"})
	Register(&counterService{name: "db"})

	Bootstrap()     // 2 starts
	Stop("db")      // 2 stops
	Restart("db")   // 2 restarts
	Start("other")  // no match, nothing recorded
	Shutdown()      // 2 stops

	if got := rec.starts.Load(); got != 2 {
		t.Errorf("starts = %d, want 2", got)
	}
	if got := rec.stops.Load(); got != 4 {
		t.Errorf("stops = %d, want 4", got)
	}
	if got := rec.restarts.Load(); got != 2 {
		t.Errorf("restarts = %d, want 2", got)
	}
}
