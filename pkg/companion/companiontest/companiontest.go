// Package companiontest brackets a test binary with the companion service
// hooks: every registered service is started before the tests run and
// stopped after they finish, the closest Go equivalent of running them
// around the whole `go test` invocation.
package companiontest

import (
	"testing"

	"github.com/marmos91/companion/pkg/companion"
)

// Run runs the test binary between the companion bootstrap and teardown
// hooks and returns the exit code to pass to os.Exit. Services must already
// be registered when Run is called; registering them from init functions
// guarantees that.
//
// Example usage:
//
//	func TestMain(m *testing.M) {
//		os.Exit(companiontest.Run(m))
//	}
func Run(m *testing.M) int {
	companion.Bootstrap()
	code := m.Run()
	companion.Shutdown()
	return code
}
