package cmd

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/terraconstructs/credentials/internal/auth"
)

var (
	userToken     string
	userActor     string
	userExpiresIn time.Duration
)

var userCmd = &cobra.Command{
	Use:   "user [entity-ref]",
	Short: "Create credentials for a user principal",
	Long: `Create credentials for a user principal. The entity ref may be given in short
form ("mock", "user:mock"); it is normalised to kind:namespace/name.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ref, err := auth.ParseEntityRef(args[0], cfg.Claims.UserEntityKind)
		if err != nil {
			return err
		}
		if !strings.EqualFold(ref.Kind, cfg.Claims.UserEntityKind) {
			return fmt.Errorf("entity ref %q is not of kind %q (env: CLAIMS_USER_ENTITY_KIND)", args[0], cfg.Claims.UserEntityKind)
		}

		opts := []auth.CredentialsOption{auth.WithToken(userToken)}
		if cmd.Flags().Changed("actor") {
			opts = append(opts, auth.WithActor(userActor))
		}
		if userExpiresIn > 0 {
			opts = append(opts, auth.WithExpiresAt(time.Now().Add(userExpiresIn)))
		}

		creds, err := auth.NewUserPrincipalCredentials(ref.String(), opts...)
		if err != nil {
			return fmt.Errorf("failed to create user credentials: %w", err)
		}
		if expiresAt, ok := creds.ExpiresAt(); ok {
			slog.Debug("created credentials", "credentials", creds, "expires_at", expiresAt)
		} else {
			slog.Debug("created credentials", "credentials", creds)
		}

		return renderCredentials(cmd.OutOrStdout(), creds, output)
	},
}

func init() {
	userCmd.Flags().StringVar(&userToken, "token", "", "Token the user authenticated with (never printed)")
	userCmd.Flags().StringVar(&userActor, "actor", "", "Subject of the service acting on the user's behalf")
	userCmd.Flags().DurationVar(&userExpiresIn, "expires-in", 0, "Token lifetime, e.g. 1h")
}
