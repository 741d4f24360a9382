// Package commands implements the CLI commands for companionctl.
package commands

import (
	"github.com/spf13/cobra"

	"github.com/marmos91/companion/internal/logger"
	"github.com/marmos91/companion/pkg/companion"
	"github.com/marmos91/companion/pkg/services/badgerdb"
	"github.com/marmos91/companion/pkg/services/localstack"
	"github.com/marmos91/companion/pkg/services/postgres"
)

var (
	// Version information injected at build time.
	Version = "dev"
	Commit  = "none"
)

// Bundled services, constructed on demand from flags and registered before
// any subcommand runs.
var (
	postgresService   *postgres.Service
	localstackService *localstack.Service
	badgerService     *badgerdb.Service
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "companionctl",
	Short: "Run companion services around a command",
	Long: `companionctl starts companion services (databases, brokers) before a
command and stops them afterwards, the same bracketing the companion library
provides to Go programs.

Select services with the --with-* flags, then use "run" to bracket a command,
"up" to keep services running until interrupted, or "list" to inspect the
registry.

Use "companionctl [command] --help" for more information about a command.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level, _ := cmd.Flags().GetString("log-level")
		format, _ := cmd.Flags().GetString("log-format")
		if err := logger.Init(logger.Config{Level: level, Format: format}); err != nil {
			return err
		}
		return registerSelectedServices(cmd)
	},
}

// registerSelectedServices contributes one registry entry per enabled flag.
// In a regular program this happens in init functions of the importing
// packages; a CLI only knows its selection after flag parsing.
func registerSelectedServices(cmd *cobra.Command) error {
	if on, _ := cmd.Flags().GetBool("with-postgres"); on {
		postgresService = postgres.New(postgres.Config{})
		companion.Register(postgresService)
	}
	if on, _ := cmd.Flags().GetBool("with-localstack"); on {
		localstackService = localstack.New(localstack.Config{})
		companion.Register(localstackService)
	}
	if on, _ := cmd.Flags().GetBool("with-badger"); on {
		path, _ := cmd.Flags().GetString("badger-path")
		badgerService = badgerdb.New(badgerdb.Config{Path: path, InMemory: path == ""})
		companion.Register(badgerService)
	}
	return nil
}

// Execute adds all child commands to the root command and runs it.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("log-level", "INFO", "Log level (DEBUG|INFO|WARN|ERROR)")
	rootCmd.PersistentFlags().String("log-format", "text", "Log format (text|json)")
	rootCmd.PersistentFlags().StringP("output", "o", "table", "Output format (table|json)")
	rootCmd.PersistentFlags().Bool("with-postgres", false, "Enable the PostgreSQL companion")
	rootCmd.PersistentFlags().Bool("with-localstack", false, "Enable the LocalStack S3 companion")
	rootCmd.PersistentFlags().Bool("with-badger", false, "Enable the embedded Badger companion")
	rootCmd.PersistentFlags().String("badger-path", "", "Badger data directory (in-memory when empty)")

	rootCmd.AddCommand(versionCmd)
}

// PrintErr prints an error message to stderr.
func PrintErr(format string, args ...any) {
	rootCmd.PrintErrf(format+"\n", args...)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Printf("companionctl %s (%s)\n", Version, Commit)
	},
}
