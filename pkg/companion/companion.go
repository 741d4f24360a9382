// Package companion runs auxiliary services alongside an executable.
//
// A companion service is anything with a start/stop lifecycle that a program
// needs around itself while it runs: a test database, a message broker, an
// embedded store. Services register themselves into a process-wide registry
// from their own init functions, so no central list of services exists
// anywhere in the program. The host brackets its execution with Bootstrap and
// Shutdown (or companiontest.Run for test binaries), which start and stop
// every registered service, and may address subsets by name in between with
// Start, Stop, and Restart.
//
// Example usage:
//
//	func init() {
//		companion.Register(postgres.New(postgres.Config{}))
//	}
//
//	func TestMain(m *testing.M) {
//		os.Exit(companiontest.Run(m))
//	}
package companion

// Service is the contract every companion service implements.
//
// The intent is a very generic interface for implementors that manage the
// runtime of an external program (e.g. a database server) or an in-process
// resource.
//
// Thread safety:
// This package never serializes calls into a Service. If callers invoke
// lifecycle operations from multiple goroutines, any required mutual
// exclusion belongs to the implementation.
type Service interface {
	// Name returns the name of this service, used as the filter key for
	// Start, Stop, and Restart. It must be pure and return the same value
	// on every call. Names are not unique: several services may share one
	// name and are then controlled as a group.
	Name() string

	// Start starts the service. Called once by Bootstrap before the host's
	// main logic, and again whenever Start is called with this service's
	// name. Failures are the implementation's own concern; this package
	// neither catches nor reports them.
	Start()

	// Stop stops the service. Called once by Shutdown after the host's main
	// logic, unconditionally, so implementations must tolerate being
	// stopped when already stopped.
	Stop()
}

// Restarter is implemented by services that need a restart sequence other
// than the default Stop-then-Start composition. Implementations should
// preserve the fully-stopped-then-fully-started observable effect unless
// they document otherwise.
type Restarter interface {
	Restart()
}

// restart runs the service's own Restart if it has one, and the default
// stop-then-start composition otherwise. The two calls are strictly
// sequential on the caller's goroutine.
func restart(svc Service) {
	if r, ok := svc.(Restarter); ok {
		r.Restart()
		return
	}
	svc.Stop()
	svc.Start()
}
