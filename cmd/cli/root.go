package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

const (
	Major  = "1"
	Minor  = "0"
	Fix    = "0"
	Verbal = "Send Flow"
)

var rootCmd = &cobra.Command{ //nolint:gochecknoglobals
	Use:          "wallet",
	Short:        "NEO wallet session service.",
	Long:         "Wallet - NEP-2 key login and multi-recipient NEO, GAS and token transfers.",
	SilenceUsage: true,
}

// configDirFlag overrides the directory the server reads its YAML files from.
var configDirFlag string //nolint:gochecknoglobals

// Run enters into the cobra command to start the service.
func Run() error {
	if os.Getenv("CONFIG_ENV") == "" {
		_, _ = fmt.Fprintln(os.Stderr, "Warning: CONFIG_ENV is not set. Using 'local' as default.")
	}
	if err := rootCmd.Execute(); err != nil {
		return fmt.Errorf("error executing root command: %w", err)
	}

	return nil
}

var versionCmd = &cobra.Command{ //nolint:gochecknoglobals
	Use:   "version",
	Short: "Describes version.",
	Run: func(_ *cobra.Command, _ []string) {
		fmt.Printf("wallet %s.%s.%s (%s)\n", Major, Minor, Fix, Verbal)
	},
}

func init() { //nolint:gochecknoinits
	rootCmd.PersistentFlags().StringVar(&configDirFlag, "config-dir", "",
		"directory holding app-config.yaml and <CONFIG_ENV>.yaml (default cmd/config/server)")
	rootCmd.AddCommand(versionCmd)
}
