package companion

import "github.com/marmos91/companion/internal/logger"

// Bootstrap starts every registered service, in registration order, and
// freezes the registry. It is the load-time hook: call it at the very start
// of main, before any logic that depends on a companion service. Test
// binaries should use companiontest.Run instead, which calls it from
// TestMain.
//
// Only the first call has any effect; later calls return immediately. The
// "starts every service exactly once before user logic" guarantee is only as
// strong as the host's discipline in calling Bootstrap first — Go offers no
// before-main hook for library code.
func Bootstrap() {
	registryMu.Lock()
	if started {
		registryMu.Unlock()
		return
	}
	started = true
	frozen = true
	services := registry
	registryMu.Unlock()

	logger.Info("starting companion services", "count", len(services))
	for _, svc := range services {
		logger.Debug("starting companion service", "service", svc.Name())
		svc.Start()
		recorder().ObserveStart(svc.Name())
	}
}

// Shutdown stops every registered service, in registration order. It is the
// unload-time hook: call it at the very end of main (or let companiontest.Run
// call it after m.Run). Stops are unconditional — a service manually stopped
// earlier is stopped again, which implementations must tolerate.
//
// Only the first call has any effect. Shutdown also freezes the registry if
// Bootstrap never ran, so a late Register can never slip in between the
// hooks.
func Shutdown() {
	registryMu.Lock()
	if stopped {
		registryMu.Unlock()
		return
	}
	stopped = true
	frozen = true
	services := registry
	registryMu.Unlock()

	logger.Info("stopping companion services", "count", len(services))
	for _, svc := range services {
		logger.Debug("stopping companion service", "service", svc.Name())
		svc.Stop()
		recorder().ObserveStop(svc.Name())
	}
}
