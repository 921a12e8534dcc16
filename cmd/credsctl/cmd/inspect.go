package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/terraconstructs/credentials/internal/auth"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect [file]",
	Short: "Validate serialized credentials and print their forms",
	Long: `Read the JSON form of a credentials value from a file (or stdin when the file is
omitted or "-"), validate it against the v1 wire schema and print it back.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var name string
		if len(args) == 1 {
			name = args[0]
		}

		data, err := readInput(cmd.InOrStdin(), name, os.ReadFile)
		if err != nil {
			return fmt.Errorf("failed to read credentials: %w", err)
		}

		creds, err := auth.ParseCredentials(data)
		if err != nil {
			return err
		}
		slog.Debug("parsed credentials", "credentials", creds)

		return renderCredentials(cmd.OutOrStdout(), creds, output)
	},
}
