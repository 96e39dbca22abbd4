package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/andrescamacho/gasstation-go/internal/application/station/commands"
	"github.com/andrescamacho/gasstation-go/internal/application/station/queries"
	"github.com/andrescamacho/gasstation-go/internal/domain/station"
)

// NewBuyCommand creates the buy command
func NewBuyCommand() *cobra.Command {
	var (
		grade    string
		amount   float64
		maxPrice float64
	)

	cmd := &cobra.Command{
		Use:   "buy",
		Short: "Make a single purchase against a freshly configured station",
		Long: `Buy fuel once from a station built from configuration and print the outcome.

The purchase waits for the pump to dispense the full amount at the configured
dispense rate. A price above --max-price or a lack of fuel cancels the purchase;
both are reported as outcomes, not errors.

Examples:
  gasstation buy --grade SUPER --amount 50 --max-price 1.42
  gasstation buy --grade DIESEL --amount 151 --max-price 1.50`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			rt, err := newStationRuntime(cfg, false)
			if err != nil {
				return err
			}
			defer rt.Close()

			ctx := rt.withLogger(cmd.Context())
			resp, err := rt.mediator.Send(ctx, &commands.PurchaseFuelCommand{
				Grade:    grade,
				Amount:   amount,
				MaxPrice: maxPrice,
			})
			if err != nil {
				return fmt.Errorf("purchase failed: %w", err)
			}
			result := resp.(*commands.PurchaseFuelResponse)

			out := cmd.OutOrStdout()
			displayPurchase(out, result)

			pumpsResp, err := rt.mediator.Send(ctx, &queries.ListPumpsQuery{Grade: grade})
			if err != nil {
				return fmt.Errorf("failed to list pumps: %w", err)
			}
			fmt.Fprintln(out)
			displayPumps(out, pumpsResp.(*queries.ListPumpsResponse).Pumps)

			return nil
		},
	}

	cmd.Flags().StringVar(&grade, "grade", "", "Fuel grade: REGULAR, SUPER or DIESEL [required]")
	cmd.Flags().Float64Var(&amount, "amount", 0, "Units to buy [required]")
	cmd.Flags().Float64Var(&maxPrice, "max-price", 0, "Highest acceptable unit price [required]")
	cmd.MarkFlagRequired("grade")
	cmd.MarkFlagRequired("amount")
	cmd.MarkFlagRequired("max-price")

	return cmd
}

// displayPurchase prints the outcome of one purchase
func displayPurchase(out io.Writer, result *commands.PurchaseFuelResponse) {
	r := result.Receipt

	if result.Cancelled {
		fmt.Fprintf(out, "✗ Purchase cancelled (%s)\n", r.Outcome)
		var tooExpensive *station.ErrTooExpensive
		if errors.As(result.Reason, &tooExpensive) {
			fmt.Fprintf(out, "  Price:     %.2f\n", tooExpensive.Price)
			fmt.Fprintf(out, "  Max price: %.2f\n", tooExpensive.MaxPrice)
		} else {
			fmt.Fprintf(out, "  Reason:    %v\n", result.Reason)
		}
		return
	}

	fmt.Fprintln(out, "✓ Purchase complete")
	fmt.Fprintf(out, "  Grade:     %s\n", r.Grade)
	fmt.Fprintf(out, "  Amount:    %.2f\n", r.Amount)
	fmt.Fprintf(out, "  Price:     %.2f\n", r.Price)
	fmt.Fprintf(out, "  Revenue:   %.2f\n", r.Revenue)
	fmt.Fprintf(out, "  Pump:      %s\n", r.PumpID)
	fmt.Fprintf(out, "  Dispensed: %s\n", r.DispenseDuration)
}
