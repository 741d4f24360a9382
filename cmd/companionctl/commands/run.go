package commands

import (
	"errors"
	"os"
	"os/exec"

	"github.com/spf13/cobra"

	"github.com/marmos91/companion/internal/logger"
	"github.com/marmos91/companion/pkg/companion"
)

var runCmd = &cobra.Command{
	Use:   "run -- command [args...]",
	Short: "Run a command bracketed by the companion services",
	Long: `Start the selected companion services, run the given command, and stop
the services when it exits. The command's exit code is propagated.

Connection details of the running services are exported to the command's
environment (COMPANION_POSTGRES_DSN, COMPANION_S3_ENDPOINT).

Examples:
  # Run a test suite against a disposable database
  companionctl --with-postgres run -- go test ./...

  # Run a script against S3 and a scratch KV store
  companionctl --with-localstack --with-badger run -- ./load-fixtures.sh`,
	Args: cobra.MinimumNArgs(1),
	RunE: runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	companion.Bootstrap()
	defer companion.Shutdown()

	child := exec.Command(args[0], args[1:]...)
	child.Stdin = os.Stdin
	child.Stdout = os.Stdout
	child.Stderr = os.Stderr
	child.Env = append(os.Environ(), serviceEnv()...)

	logger.Info("running command", "command", args[0])
	err := child.Run()

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		// Stop services first, then propagate the child's exit code.
		companion.Shutdown()
		os.Exit(exitErr.ExitCode())
	}
	return err
}

// serviceEnv exposes connection details of the enabled services to the child
// process.
func serviceEnv() []string {
	var env []string
	if postgresService != nil {
		env = append(env, "COMPANION_POSTGRES_DSN="+postgresService.DSN())
	}
	if localstackService != nil {
		env = append(env, "COMPANION_S3_ENDPOINT="+localstackService.Endpoint())
	}
	return env
}
