package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/terraconstructs/credentials/internal/auth"
)

var (
	serviceToken       string
	servicePermissions []string
	serviceAttributes  []string
)

var serviceCmd = &cobra.Command{
	Use:   "service [subject]",
	Short: "Create credentials for a service principal",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		attributes, err := parseAttributeArgs(serviceAttributes)
		if err != nil {
			return err
		}

		opts := []auth.CredentialsOption{auth.WithToken(serviceToken)}
		if len(servicePermissions) > 0 || len(attributes) > 0 {
			opts = append(opts, auth.WithAccessRestrictions(auth.AccessRestrictions{
				PermissionNames:      servicePermissions,
				PermissionAttributes: attributes,
			}))
		}

		creds, err := auth.NewServicePrincipalCredentials(args[0], opts...)
		if err != nil {
			return fmt.Errorf("failed to create service credentials: %w", err)
		}
		slog.Debug("created credentials", "credentials", creds)

		return renderCredentials(cmd.OutOrStdout(), creds, output)
	},
}

func init() {
	serviceCmd.Flags().StringVar(&serviceToken, "token", "", "Token the service authenticated with (never printed)")
	serviceCmd.Flags().StringSliceVar(&servicePermissions, "permission", []string{}, "Permission name(s) the service is restricted to")
	serviceCmd.Flags().StringArrayVar(&serviceAttributes, "attribute", []string{}, "Permission attribute restriction as key=value (repeatable)")
}
