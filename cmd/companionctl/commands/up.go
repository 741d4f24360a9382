package commands

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/marmos91/companion/internal/logger"
	"github.com/marmos91/companion/pkg/companion"
)

var upCmd = &cobra.Command{
	Use:   "up",
	Short: "Start companion services and keep them running",
	Long: `Start the selected companion services and block until interrupted
(SIGINT/SIGTERM), then stop them.

Examples:
  # Keep a database around for manual poking
  companionctl --with-postgres up`,
	RunE: runUp,
}

func init() {
	rootCmd.AddCommand(upCmd)
}

func runUp(cmd *cobra.Command, args []string) error {
	companion.Bootstrap()

	for _, env := range serviceEnv() {
		cmd.Println(env)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	logger.Info("received signal, stopping companion services", "signal", sig.String())

	companion.Shutdown()
	return nil
}
