package companion

import "github.com/marmos91/companion/internal/logger"

// Start starts every registered service whose name equals name, in
// registration order. Zero matches is not an error: the call silently does
// nothing. No isolation exists between entries — if one service's Start
// panics, later entries in the traversal are not reached.
func Start(name string) {
	for _, svc := range snapshot() {
		if svc.Name() == name {
			logger.Debug("starting companion service", "service", name)
			svc.Start()
			recorder().ObserveStart(name)
		}
	}
}

// Stop stops every registered service whose name equals name, in
// registration order. Zero matches is not an error.
func Stop(name string) {
	for _, svc := range snapshot() {
		if svc.Name() == name {
			logger.Debug("stopping companion service", "service", name)
			svc.Stop()
			recorder().ObserveStop(name)
		}
	}
}

// Restart restarts every registered service whose name equals name, in
// registration order. Each matching entry is restarted independently and to
// completion before the next one is visited. Services that implement
// Restarter get their own sequence; everything else is stopped and then
// started.
func Restart(name string) {
	for _, svc := range snapshot() {
		if svc.Name() == name {
			logger.Debug("restarting companion service", "service", name)
			restart(svc)
			recorder().ObserveRestart(name)
		}
	}
}
