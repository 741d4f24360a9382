package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/marmos91/companion/internal/cli/output"
	"github.com/marmos91/companion/pkg/companion"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered companion services",
	Long: `Display every service in the registry, in registration order.

Examples:
  # List services enabled by flags
  companionctl --with-postgres --with-badger list

  # Output as JSON
  companionctl --with-postgres list -o json`,
	RunE: runList,
}

func init() {
	rootCmd.AddCommand(listCmd)
}

// serviceInfo is one registry entry for display.
type serviceInfo struct {
	Position int    `json:"position"`
	Name     string `json:"name"`
}

func runList(cmd *cobra.Command, args []string) error {
	formatFlag, _ := cmd.Flags().GetString("output")
	format, err := output.ParseFormat(formatFlag)
	if err != nil {
		return err
	}

	services := companion.Services()
	infos := make([]serviceInfo, 0, len(services))
	for i, svc := range services {
		infos = append(infos, serviceInfo{Position: i, Name: svc.Name()})
	}

	if format == output.FormatJSON {
		return output.PrintJSON(cmd.OutOrStdout(), infos)
	}

	if len(infos) == 0 {
		cmd.Println("No companion services registered. Enable some with the --with-* flags.")
		return nil
	}

	rows := make([][]string, 0, len(infos))
	for _, info := range infos {
		rows = append(rows, []string{fmt.Sprintf("%d", info.Position), info.Name})
	}
	output.PrintTable(cmd.OutOrStdout(), []string{"#", "Name"}, rows)
	return nil
}
