package cmd

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/golang-jwt/jwt/v5"
	"github.com/spf13/cobra"

	"github.com/terraconstructs/credentials/internal/auth"
)

var claimsToken string

var fromClaimsCmd = &cobra.Command{
	Use:   "from-claims [file]",
	Short: "Map verified JWT claims onto credentials",
	Long: `Read a JSON object of already verified JWT claims from a file (or stdin) and
print the credentials they map to. Claim field names come from the
CLAIMS_* environment variables. No signature or expiry checks are made.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var name string
		if len(args) == 1 {
			name = args[0]
		}

		data, err := readInput(cmd.InOrStdin(), name, os.ReadFile)
		if err != nil {
			return fmt.Errorf("failed to read claims: %w", err)
		}

		var claims jwt.MapClaims
		if err := json.Unmarshal(data, &claims); err != nil {
			return fmt.Errorf("failed to decode claims: %w", err)
		}

		creds, err := auth.CredentialsFromClaims(claims, claimsToken, cfg.Claims)
		if err != nil {
			return err
		}
		slog.Debug("mapped claims", "credentials", creds, "claims", len(claims))

		return renderCredentials(cmd.OutOrStdout(), creds, output)
	},
}

func init() {
	fromClaimsCmd.Flags().StringVar(&claimsToken, "token", "", "Raw token the claims were taken from (never printed)")
}
