package cmd

import (
	"github.com/spf13/cobra"

	"github.com/terraconstructs/credentials/internal/auth"
)

var noneCmd = &cobra.Command{
	Use:   "none",
	Short: "Create credentials for an anonymous caller",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return renderCredentials(cmd.OutOrStdout(), auth.NewNonePrincipalCredentials(), output)
	},
}
