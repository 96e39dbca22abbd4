package cli

import (
	"fmt"
	"io"
	"net/url"
	"sort"

	"github.com/spf13/cobra"

	"github.com/andrescamacho/gasstation-go/internal/infrastructure/config"
)

// NewConfigCommand creates the config command with subcommands
func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect configuration settings",
		Long: `Inspect gas station configuration settings.

Configuration is loaded from multiple sources with priority:
1. Environment variables (GS_* prefix, plus DATABASE_URL)
2. Config file (config.yaml)
3. Default values

Examples:
  gasstation config show
  gasstation config show --config ./configs/config.yaml`,
	}

	cmd.AddCommand(newConfigShowCommand())

	return cmd
}

// newConfigShowCommand creates the config show subcommand
func newConfigShowCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			cfg, err := loadConfig()
			if err != nil {
				fmt.Fprintf(out, "Warning: %v\n", err)
				fmt.Fprintln(out, "Using default configuration.")
				cfg = config.DefaultConfig()
			}

			displayConfig(out, cfg)
			return nil
		},
	}

	return cmd
}

func displayConfig(out io.Writer, cfg *config.Config) {
	fmt.Fprintln(out, "Gas Station Configuration")
	fmt.Fprintln(out, "=========================")

	fmt.Fprintln(out, "\nStation:")
	fmt.Fprintf(out, "  Dispense Rate:    %.2f units/s\n", cfg.Station.DispenseRate)
	for i, p := range cfg.Station.Pumps {
		fmt.Fprintf(out, "  Pump %-2d          %s %.2f\n", i+1, p.Grade, p.Quantity)
	}
	grades := make([]string, 0, len(cfg.Station.Prices))
	for grade := range cfg.Station.Prices {
		grades = append(grades, grade)
	}
	sort.Strings(grades)
	for _, grade := range grades {
		fmt.Fprintf(out, "  Price %-10s %.2f\n", grade, cfg.Station.Prices[grade])
	}

	fmt.Fprintln(out, "\nSimulation:")
	fmt.Fprintf(out, "  Duration:         %s\n", cfg.Simulation.Duration)
	for _, c := range cfg.Simulation.Customers {
		fmt.Fprintf(out, "  Customer %-8s %s %.2f at max %.2f every %s\n",
			c.Name, c.Grade, c.Amount, c.MaxPrice, c.Interval)
	}

	fmt.Fprintln(out, "\nDatabase:")
	fmt.Fprintf(out, "  Type:             %s\n", cfg.Database.Type)
	switch {
	case cfg.Database.URL != "":
		fmt.Fprintf(out, "  URL:              %s\n", maskPassword(cfg.Database.URL))
	case cfg.Database.Type == "sqlite":
		fmt.Fprintf(out, "  Path:             %s\n", cfg.Database.Path)
	default:
		fmt.Fprintf(out, "  Host:             %s\n", cfg.Database.Host)
		fmt.Fprintf(out, "  Port:             %d\n", cfg.Database.Port)
		fmt.Fprintf(out, "  Database:         %s\n", cfg.Database.Name)
		fmt.Fprintf(out, "  User:             %s\n", cfg.Database.User)
		fmt.Fprintf(out, "  Max Connections:  %d\n", cfg.Database.Pool.MaxOpen)
	}

	fmt.Fprintln(out, "\nDaemon:")
	fmt.Fprintf(out, "  PID File:         %s\n", cfg.Daemon.PIDFile)
	fmt.Fprintf(out, "  Shutdown Timeout: %s\n", cfg.Daemon.ShutdownTimeout)

	fmt.Fprintln(out, "\nLogging:")
	fmt.Fprintf(out, "  Level:            %s\n", cfg.Logging.Level)
	fmt.Fprintf(out, "  Format:           %s\n", cfg.Logging.Format)
	fmt.Fprintf(out, "  Output:           %s\n", cfg.Logging.Output)

	fmt.Fprintln(out, "\nMetrics:")
	fmt.Fprintf(out, "  Enabled:          %t\n", cfg.Metrics.Enabled)
	fmt.Fprintf(out, "  Endpoint:         %s:%d%s\n", cfg.Metrics.Host, cfg.Metrics.Port, cfg.Metrics.Path)
}

// maskPassword hides the password of a connection URL
func maskPassword(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return "(unparseable URL)"
	}
	return u.Redacted()
}
