package steps

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/cucumber/godog"

	"github.com/andrescamacho/gasstation-go/internal/adapters/persistence"
	appStation "github.com/andrescamacho/gasstation-go/internal/application/station"
	"github.com/andrescamacho/gasstation-go/internal/domain/shared"
	"github.com/andrescamacho/gasstation-go/internal/domain/station"
	"github.com/andrescamacho/gasstation-go/test/helpers"
)

const floatTolerance = 1e-9

type purchaseResult struct {
	receipt *appStation.Receipt
	err     error
}

type stationContext struct {
	clock     shared.Clock
	gateClock *helpers.GateClock
	journal   *persistence.GormSaleJournal
	station   *appStation.GasStation

	lastResult purchaseResult
	results    []purchaseResult
}

func (ctx *stationContext) reset() {
	ctx.clock = shared.NewMockClock(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	ctx.gateClock = nil
	ctx.journal = nil
	ctx.station = nil
	ctx.lastResult = purchaseResult{}
	ctx.results = nil
}

// ensureStation creates the station lazily so clock and journal steps can run first
func (ctx *stationContext) ensureStation() *appStation.GasStation {
	if ctx.station == nil {
		var journal station.SaleJournal
		if ctx.journal != nil {
			journal = ctx.journal
		}
		ctx.station = appStation.NewGasStation(journal, ctx.clock)
	}
	return ctx.station
}

// Setup steps

func (ctx *stationContext) theStationKeepsASaleJournal() error {
	if helpers.SharedTestDB == nil {
		return fmt.Errorf("shared test database not initialized")
	}
	if err := helpers.TruncateAllTables(); err != nil {
		return err
	}
	ctx.journal = persistence.NewGormSaleJournal(helpers.SharedTestDB)
	return nil
}

func (ctx *stationContext) dispensesAreHeldUntilReleased() error {
	ctx.gateClock = helpers.NewGateClock(64)
	ctx.clock = ctx.gateClock
	return nil
}

func (ctx *stationContext) aPumpHoldingUnits(gradeName string, quantity float64) error {
	grade, err := station.ParseFuelGrade(gradeName)
	if err != nil {
		return err
	}
	_, err = ctx.ensureStation().NewPump(grade, quantity, station.DefaultDispenseRate)
	return err
}

func (ctx *stationContext) pumpsHoldingUnits(gradeName, quantities string) error {
	for _, q := range strings.Split(quantities, " and ") {
		var quantity float64
		if _, err := fmt.Sscanf(strings.TrimSpace(q), "%g", &quantity); err != nil {
			return fmt.Errorf("invalid quantity %q: %w", q, err)
		}
		if err := ctx.aPumpHoldingUnits(gradeName, quantity); err != nil {
			return err
		}
	}
	return nil
}

func (ctx *stationContext) thePriceOfIs(gradeName string, price float64) error {
	grade, err := station.ParseFuelGrade(gradeName)
	if err != nil {
		return err
	}
	return ctx.ensureStation().SetPrice(grade, price)
}

// Action steps

func (ctx *stationContext) aCustomerBuys(amount float64, gradeName string, maxPrice float64) error {
	// unknown grade names reach the station as-is so the precondition error is observable
	grade := station.FuelGrade(gradeName)
	if parsed, err := station.ParseFuelGrade(gradeName); err == nil {
		grade = parsed
	}

	receipt, err := ctx.ensureStation().Purchase(context.Background(), grade, amount, maxPrice)
	ctx.lastResult = purchaseResult{receipt: receipt, err: err}
	ctx.results = append(ctx.results, ctx.lastResult)
	return nil
}

func (ctx *stationContext) customersConcurrentlyBuy(count int, amount float64, gradeName string, maxPrice float64) error {
	grade, err := station.ParseFuelGrade(gradeName)
	if err != nil {
		return err
	}
	gs := ctx.ensureStation()

	results := make([]purchaseResult, count)
	var wg sync.WaitGroup
	wg.Add(count)
	for i := 0; i < count; i++ {
		go func(i int) {
			defer wg.Done()
			receipt, err := gs.Purchase(context.Background(), grade, amount, maxPrice)
			results[i] = purchaseResult{receipt: receipt, err: err}
		}(i)
	}

	if ctx.gateClock != nil {
		// every buyer that found a pump must be dispensing at the same time
		expected := count
		if n := gs.Pumps().Len(); n < expected {
			expected = n
		}
		entered := ctx.gateClock.WaitEntered(expected, 2*time.Second)
		ctx.gateClock.Open()
		if !entered {
			wg.Wait()
			return fmt.Errorf("expected %d dispenses in flight at once", expected)
		}
	}

	wg.Wait()
	ctx.results = append(ctx.results, results...)
	return nil
}

// Outcome assertions

func (ctx *stationContext) thePurchaseShouldBeSold() error {
	if ctx.lastResult.err != nil {
		return fmt.Errorf("expected a sale, got error: %v", ctx.lastResult.err)
	}
	if ctx.lastResult.receipt == nil || ctx.lastResult.receipt.Outcome != station.OutcomeSold {
		return fmt.Errorf("expected outcome SOLD, got %+v", ctx.lastResult.receipt)
	}
	return nil
}

func (ctx *stationContext) thePurchaseShouldBeCancelledAsTooExpensive() error {
	if !station.IsTooExpensive(ctx.lastResult.err) {
		return fmt.Errorf("expected TooExpensive, got %v", ctx.lastResult.err)
	}
	return nil
}

func (ctx *stationContext) thePurchaseShouldBeCancelledForLackOfGas() error {
	if !station.IsNoGas(ctx.lastResult.err) {
		return fmt.Errorf("expected NoGas, got %v", ctx.lastResult.err)
	}
	return nil
}

func (ctx *stationContext) thePurchaseShouldFailWithAnUnknownGradeError() error {
	var unknown *station.ErrUnknownFuelGrade
	if !errors.As(ctx.lastResult.err, &unknown) {
		return fmt.Errorf("expected ErrUnknownFuelGrade, got %v", ctx.lastResult.err)
	}
	return nil
}

func (ctx *stationContext) thePurchaseShouldFailWithAnInvalidAmountError() error {
	var invalid *station.ErrInvalidAmount
	if !errors.As(ctx.lastResult.err, &invalid) {
		return fmt.Errorf("expected ErrInvalidAmount, got %v", ctx.lastResult.err)
	}
	return nil
}

func (ctx *stationContext) thePurchaseShouldFailBecauseNoPriceIsSet() error {
	var notSet *station.ErrPriceNotSet
	if !errors.As(ctx.lastResult.err, &notSet) {
		return fmt.Errorf("expected ErrPriceNotSet, got %v", ctx.lastResult.err)
	}
	return nil
}

func (ctx *stationContext) allPurchasesShouldBeSold(count int) error {
	if len(ctx.results) != count {
		return fmt.Errorf("expected %d purchases, got %d", count, len(ctx.results))
	}
	for i, r := range ctx.results {
		if r.err != nil {
			return fmt.Errorf("purchase %d failed: %v", i, r.err)
		}
	}
	return nil
}

func (ctx *stationContext) eachSaleShouldUseADistinctPump() error {
	seen := make(map[string]bool)
	for _, r := range ctx.results {
		if r.err != nil {
			continue
		}
		if seen[r.receipt.PumpID] {
			return fmt.Errorf("pump %s served more than one sale", r.receipt.PumpID)
		}
		seen[r.receipt.PumpID] = true
	}
	return nil
}

// Station state assertions

func (ctx *stationContext) theRevenueShouldBe(expected float64) error {
	if got := ctx.ensureStation().Revenue(); math.Abs(got-expected) > floatTolerance {
		return fmt.Errorf("expected revenue %.4f, got %.4f", expected, got)
	}
	return nil
}

func (ctx *stationContext) theRevenueShouldEqualTheSumOfSoldReceipts() error {
	sum := 0.0
	for _, r := range ctx.results {
		if r.err == nil {
			sum += r.receipt.Price * r.receipt.Amount
		}
	}
	return ctx.theRevenueShouldBe(sum)
}

func (ctx *stationContext) theCountersShouldBe(sales, tooExpensive, noGas int) error {
	stats := ctx.ensureStation().Statistics()
	if stats.Sales != sales || stats.CancellationsTooExpensive != tooExpensive || stats.CancellationsNoGas != noGas {
		return fmt.Errorf("expected %d/%d/%d sales/too expensive/no gas, got %d/%d/%d",
			sales, tooExpensive, noGas,
			stats.Sales, stats.CancellationsTooExpensive, stats.CancellationsNoGas)
	}
	return nil
}

func (ctx *stationContext) theNumberOfTransactionsShouldBe(expected int) error {
	if got := ctx.ensureStation().Statistics().Transactions(); got != expected {
		return fmt.Errorf("expected %d transactions, got %d", expected, got)
	}
	return nil
}

func (ctx *stationContext) thePumpsShouldHaveUnitsRemaining(gradeName string, expected float64) error {
	grade, err := station.ParseFuelGrade(gradeName)
	if err != nil {
		return err
	}
	if got := ctx.ensureStation().Pumps().TotalRemaining(grade); math.Abs(got-expected) > floatTolerance {
		return fmt.Errorf("expected %.2f %s units remaining, got %.2f", expected, grade, got)
	}
	return nil
}

func (ctx *stationContext) thePumpsShouldHaveLostExactlyTheFuelSold(gradeName string) error {
	grade, err := station.ParseFuelGrade(gradeName)
	if err != nil {
		return err
	}
	sold := 0.0
	for _, r := range ctx.results {
		if r.err == nil && r.receipt.Grade == grade {
			sold += r.receipt.Amount
		}
	}
	dispensed := 0.0
	for _, p := range ctx.ensureStation().Pumps().ByGrade(grade) {
		dispensed += p.Dispensed()
	}
	if math.Abs(dispensed-sold) > floatTolerance {
		return fmt.Errorf("pumps dispensed %.2f %s units but %.2f were sold", dispensed, grade, sold)
	}
	return nil
}

func (ctx *stationContext) noPumpShouldHaveANegativeRemainingQuantity() error {
	for _, p := range ctx.ensureStation().Pumps().All() {
		if p.Remaining < 0 {
			return fmt.Errorf("pump %s has negative remaining quantity %.2f", p.ID, p.Remaining)
		}
	}
	return nil
}

func (ctx *stationContext) noPumpShouldBeInUse() error {
	if n := ctx.ensureStation().PumpsInUse(); n != 0 {
		return fmt.Errorf("expected no pumps in use, got %d", n)
	}
	return nil
}

// Journal assertions

func (ctx *stationContext) theJournalShouldContainRecords(expected int, outcomeName string) error {
	outcome, err := station.ParseOutcome(outcomeName)
	if err != nil {
		return err
	}
	count, err := ctx.journal.CountByOutcome(context.Background(), outcome)
	if err != nil {
		return err
	}
	if count != expected {
		return fmt.Errorf("expected %d %s records, got %d", expected, outcome, count)
	}
	return nil
}

func (ctx *stationContext) theJournalRevenueShouldBe(expected float64) error {
	revenue, err := ctx.journal.SumRevenue(context.Background())
	if err != nil {
		return err
	}
	if math.Abs(revenue-expected) > floatTolerance {
		return fmt.Errorf("expected journal revenue %.4f, got %.4f", expected, revenue)
	}
	return nil
}

// InitializeStationScenario registers the purchase, concurrency and journal steps
func InitializeStationScenario(sc *godog.ScenarioContext) {
	stationCtx := &stationContext{}

	sc.Before(func(ctx context.Context, s *godog.Scenario) (context.Context, error) {
		stationCtx.reset()
		return ctx, nil
	})

	sc.After(func(ctx context.Context, s *godog.Scenario, err error) (context.Context, error) {
		if stationCtx.gateClock != nil {
			stationCtx.gateClock.Open()
		}
		return ctx, nil
	})

	// Setup
	sc.Step(`^the station keeps a sale journal$`, stationCtx.theStationKeepsASaleJournal)
	sc.Step(`^dispenses are held until released$`, stationCtx.dispensesAreHeldUntilReleased)
	sc.Step(`^a ([A-Z]+) pump holding (\d+(?:\.\d+)?) units$`, stationCtx.aPumpHoldingUnits)
	sc.Step(`^([A-Z]+) pumps holding ([\d. and]+) units$`, stationCtx.pumpsHoldingUnits)
	sc.Step(`^the price of ([A-Z]+) is (\d+(?:\.\d+)?)$`, stationCtx.thePriceOfIs)

	// Actions
	sc.Step(`^a customer buys (-?\d+(?:\.\d+)?) units? of ([A-Z]+) at a max price of (-?\d+(?:\.\d+)?)$`, stationCtx.aCustomerBuys)
	sc.Step(`^(\d+) customers concurrently buy (\d+(?:\.\d+)?) units of ([A-Z]+) at a max price of (\d+(?:\.\d+)?)$`, stationCtx.customersConcurrentlyBuy)

	// Outcomes
	sc.Step(`^the purchase should be sold$`, stationCtx.thePurchaseShouldBeSold)
	sc.Step(`^the purchase should be cancelled as too expensive$`, stationCtx.thePurchaseShouldBeCancelledAsTooExpensive)
	sc.Step(`^the purchase should be cancelled for lack of gas$`, stationCtx.thePurchaseShouldBeCancelledForLackOfGas)
	sc.Step(`^the purchase should fail with an unknown grade error$`, stationCtx.thePurchaseShouldFailWithAnUnknownGradeError)
	sc.Step(`^the purchase should fail with an invalid amount error$`, stationCtx.thePurchaseShouldFailWithAnInvalidAmountError)
	sc.Step(`^the purchase should fail because no price is set$`, stationCtx.thePurchaseShouldFailBecauseNoPriceIsSet)
	sc.Step(`^all (\d+) purchases should be sold$`, stationCtx.allPurchasesShouldBeSold)
	sc.Step(`^each sale should use a distinct pump$`, stationCtx.eachSaleShouldUseADistinctPump)

	// Station state
	sc.Step(`^the revenue should be (\d+(?:\.\d+)?)$`, stationCtx.theRevenueShouldBe)
	sc.Step(`^the revenue should equal the sum of sold receipts$`, stationCtx.theRevenueShouldEqualTheSumOfSoldReceipts)
	sc.Step(`^the station should count (\d+) sales?, (\d+) too-expensive cancellations? and (\d+) no-gas cancellations?$`, stationCtx.theCountersShouldBe)
	sc.Step(`^the station should count (\d+) transactions$`, stationCtx.theNumberOfTransactionsShouldBe)
	sc.Step(`^the ([A-Z]+) pumps should have (\d+(?:\.\d+)?) units remaining$`, stationCtx.thePumpsShouldHaveUnitsRemaining)
	sc.Step(`^the ([A-Z]+) pumps should have lost exactly the fuel sold$`, stationCtx.thePumpsShouldHaveLostExactlyTheFuelSold)
	sc.Step(`^no pump should have a negative remaining quantity$`, stationCtx.noPumpShouldHaveANegativeRemainingQuantity)
	sc.Step(`^no pump should be in use$`, stationCtx.noPumpShouldBeInUse)

	// Journal
	sc.Step(`^the journal should contain (\d+) ([A-Z_]+) records?$`, stationCtx.theJournalShouldContainRecords)
	sc.Step(`^the journal revenue should be (\d+(?:\.\d+)?)$`, stationCtx.theJournalRevenueShouldBe)
}
