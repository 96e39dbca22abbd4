package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/andrescamacho/gasstation-go/internal/infrastructure/config"
)

var (
	// Global flags
	configPath string
	verbose    bool
)

// NewRootCommand creates the root command for the CLI
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "gasstation",
		Short: "Gas station simulator - concurrent fuel sales against shared pumps",
		Long: `gasstation runs a fuel station whose pumps are shared by concurrent customers.
Each purchase either completes at the current price, or is cancelled because
the price is above the customer's limit or no pump can serve the amount.

Examples:
  gasstation simulate --duration 60s
  gasstation serve --config ./configs/config.yaml
  gasstation buy --grade SUPER --amount 50 --max-price 1.42
  gasstation config show`,
		SilenceUsage: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "",
		"Path to config file (default: search ., ./configs, /etc/gasstation)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"Enable debug logging")

	rootCmd.AddCommand(NewSimulateCommand())
	rootCmd.AddCommand(NewServeCommand())
	rootCmd.AddCommand(NewBuyCommand())
	rootCmd.AddCommand(NewConfigCommand())

	return rootCmd
}

// loadConfig loads configuration honoring the global flags
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if verbose {
		cfg.Logging.Level = "debug"
	}
	return cfg, nil
}

// Execute runs the root command
func Execute() {
	rootCmd := NewRootCommand()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
