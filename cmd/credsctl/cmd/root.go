package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/terraconstructs/credentials/internal/config"
)

var (
	cfg          *config.Config
	outputFormat string
	output       outputMode
	debug        bool
)

var rootCmd = &cobra.Command{
	Use:   "credsctl",
	Short: "Build and inspect backstage credentials values",
	Long: `credsctl constructs credentials for service, user and anonymous callers and
prints their diagnostic string and JSON wire forms. Tokens passed in are never printed.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		if cmd.Flags().Changed("debug") {
			cfg.Debug = debug
		}

		level := slog.LevelInfo
		if cfg.Debug {
			level = slog.LevelDebug
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level})))

		output, err = parseOutputFormat(outputFormat)
		return err
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", string(outputBoth), "Output format: string, json or both")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging (env: DEBUG)")

	rootCmd.AddCommand(serviceCmd)
	rootCmd.AddCommand(userCmd)
	rootCmd.AddCommand(noneCmd)
	rootCmd.AddCommand(inspectCmd)
	rootCmd.AddCommand(fromClaimsCmd)
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
