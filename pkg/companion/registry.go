package companion

import "sync"

// The registry is a process-wide, append-only sequence of services. It is
// assembled during package initialization (every contributor calls Register
// from its own init function) and frozen by the first Bootstrap or Shutdown
// call; after that it is never mutated again, so iteration needs no lock.
var (
	registryMu sync.Mutex
	registry   []Service

	// frozen is set by the first Bootstrap or Shutdown call. Once set, the
	// registry is immutable for the rest of the process lifetime.
	frozen bool

	// started and stopped make the bootstrap and teardown hooks effective
	// exactly once each.
	started bool
	stopped bool
)

// Register adds svc to the process-wide registry.
//
// Register is meant to be called from an init function (or a package-level
// variable initializer) of the contributing package, which the runtime
// guarantees completes before main or TestMain. Registration order is init
// execution order: stable for a given build, unspecified across independent
// registration sites.
//
// Register panics if svc is nil, or if it is called after Bootstrap or
// Shutdown has already frozen the registry — at that point the bootstrap
// hook has fired and a late entry could never be started exactly once.
func Register(svc Service) {
	if svc == nil {
		panic("companion: Register called with nil service")
	}
	registryMu.Lock()
	defer registryMu.Unlock()
	if frozen {
		panic("companion: Register called after Bootstrap")
	}
	registry = append(registry, svc)
}

// Services returns the registered services in registration order. The
// returned slice is a copy; mutating it does not affect the registry.
func Services() []Service {
	registryMu.Lock()
	defer registryMu.Unlock()
	out := make([]Service, len(registry))
	copy(out, registry)
	return out
}

// snapshot returns the current registry contents for a lifecycle traversal.
func snapshot() []Service {
	registryMu.Lock()
	defer registryMu.Unlock()
	return registry
}
