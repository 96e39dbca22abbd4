package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/andrescamacho/gasstation-go/internal/application/setup"
	"github.com/andrescamacho/gasstation-go/internal/application/station/simulation"
)

// NewSimulateCommand creates the simulate command
func NewSimulateCommand() *cobra.Command {
	var duration time.Duration

	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Run the customer simulation and print a report",
		Long: `Build the configured station, let every configured customer buy fuel
in a loop for the given duration, then print per-customer results,
remaining pump quantities and station totals.

Purchases already dispensing when the duration elapses are completed
before the report is printed.

Examples:
  gasstation simulate
  gasstation simulate --duration 10s
  gasstation simulate --config ./configs/rush-hour.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("duration") {
				cfg.Simulation.Duration = duration
			}
			if cfg.Simulation.Duration <= 0 {
				return fmt.Errorf("--duration must be positive")
			}

			rt, err := newStationRuntime(cfg, false)
			if err != nil {
				return err
			}
			defer rt.Close()

			customers, err := setup.BuildCustomers(cfg.Simulation)
			if err != nil {
				return fmt.Errorf("invalid customers: %w", err)
			}
			sim, err := simulation.NewSimulator(rt.purchaser(), customers)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			ctx, cancel := context.WithTimeout(rt.withLogger(ctx), cfg.Simulation.Duration)
			defer cancel()

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Simulating %d customers for %s...\n", len(customers), cfg.Simulation.Duration)

			report, err := sim.Run(ctx)
			if err != nil {
				return fmt.Errorf("simulation failed: %w", err)
			}

			displayReport(out, report)
			return displayJournalSummary(context.Background(), out, rt.journal)
		},
	}

	cmd.Flags().DurationVar(&duration, "duration", 0, "Simulation length (default: simulation.duration from config)")

	return cmd
}
