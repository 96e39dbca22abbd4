package cli

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/andrescamacho/gasstation-go/internal/adapters/persistence"
	"github.com/andrescamacho/gasstation-go/internal/application/station/simulation"
	"github.com/andrescamacho/gasstation-go/internal/domain/station"
)

// displayReport prints customer, pump and station totals of a simulation run
func displayReport(out io.Writer, report *simulation.Report) {
	fmt.Fprintf(out, "\nSimulation finished after %s\n\n", report.Elapsed.Round(time.Millisecond))

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "Customer\tGrade\tAttempts\tSold\tToo Expensive\tNo Gas\tDispensed\tSpent")
	fmt.Fprintln(w, "────────\t─────\t────────\t────\t─────────────\t──────\t─────────\t─────")
	for _, c := range report.Customers {
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%d\t%d\t%.2f\t%.2f\n",
			c.Customer.Name,
			c.Customer.Grade,
			c.Attempts,
			c.Sold,
			c.TooExpensive,
			c.NoGas,
			c.Dispensed,
			c.Spent,
		)
	}
	w.Flush()

	fmt.Fprintln(out)
	displayPumps(out, report.Pumps.All())

	stats := report.Statistics
	fmt.Fprintln(out, "\nStation Totals:")
	fmt.Fprintf(out, "  Sales:                        %d\n", stats.Sales)
	fmt.Fprintf(out, "  Cancellations (too expensive): %d\n", stats.CancellationsTooExpensive)
	fmt.Fprintf(out, "  Cancellations (no gas):        %d\n", stats.CancellationsNoGas)
	fmt.Fprintf(out, "  Revenue:                      %.2f\n", stats.Revenue)
}

// displayPumps prints pump state in registration order
func displayPumps(out io.Writer, pumps []station.PumpSnapshot) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "Pump\tGrade\tInitial\tRemaining\tDispensed")
	fmt.Fprintln(w, "────\t─────\t───────\t─────────\t─────────")
	for i, p := range pumps {
		fmt.Fprintf(w, "%d\t%s\t%.2f\t%.2f\t%.2f\n", i+1, p.Grade, p.Initial, p.Remaining, p.Dispensed())
	}
	w.Flush()
}

// displayJournalSummary prints what the sale journal recorded
func displayJournalSummary(ctx context.Context, out io.Writer, journal *persistence.GormSaleJournal) error {
	fmt.Fprintln(out, "\nSale Journal:")
	for _, outcome := range station.AllOutcomes() {
		count, err := journal.CountByOutcome(ctx, outcome)
		if err != nil {
			return fmt.Errorf("failed to count %s records: %w", outcome, err)
		}
		fmt.Fprintf(out, "  %-14s %d\n", outcome.String()+":", count)
	}

	revenue, err := journal.SumRevenue(ctx)
	if err != nil {
		return fmt.Errorf("failed to sum journal revenue: %w", err)
	}
	fmt.Fprintf(out, "  %-14s %.2f\n", "Revenue:", revenue)
	return nil
}
