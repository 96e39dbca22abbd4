package cli

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/andrescamacho/gasstation-go/internal/adapters/logging"
	"github.com/andrescamacho/gasstation-go/internal/adapters/metrics"
	"github.com/andrescamacho/gasstation-go/internal/adapters/persistence"
	"github.com/andrescamacho/gasstation-go/internal/application/common"
	"github.com/andrescamacho/gasstation-go/internal/application/mediator"
	"github.com/andrescamacho/gasstation-go/internal/application/setup"
	appStation "github.com/andrescamacho/gasstation-go/internal/application/station"
	"github.com/andrescamacho/gasstation-go/internal/application/station/commands"
	"github.com/andrescamacho/gasstation-go/internal/domain/shared"
	"github.com/andrescamacho/gasstation-go/internal/domain/station"
	"github.com/andrescamacho/gasstation-go/internal/infrastructure/config"
	"github.com/andrescamacho/gasstation-go/internal/infrastructure/database"
)

// stationRuntime is everything a command needs to talk to a configured station
type stationRuntime struct {
	cfg      *config.Config
	logger   *logging.ZapLogger
	db       *gorm.DB
	journal  *persistence.GormSaleJournal
	station  *appStation.GasStation
	mediator mediator.Mediator
}

// newStationRuntime wires logger, journal, metrics, station and mediator.
// Metrics are registered only when withMetrics is set.
func newStationRuntime(cfg *config.Config, withMetrics bool) (*stationRuntime, error) {
	logger, err := logging.NewZapLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	db, err := database.NewConnection(&cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		_ = database.Close(db)
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	journal := persistence.NewGormSaleJournal(db)

	var commandMetrics *metrics.CommandMetricsCollector
	if withMetrics {
		metrics.InitRegistry()

		stationMetrics := metrics.NewStationMetricsCollector()
		if err := stationMetrics.Register(); err != nil {
			_ = database.Close(db)
			return nil, fmt.Errorf("failed to register station metrics: %w", err)
		}
		metrics.SetGlobalStationCollector(stationMetrics)

		commandMetrics = metrics.NewCommandMetricsCollector()
		if err := commandMetrics.Register(); err != nil {
			_ = database.Close(db)
			return nil, fmt.Errorf("failed to register command metrics: %w", err)
		}
	}

	gs, err := setup.BuildStation(cfg.Station, journal, shared.NewRealClock())
	if err != nil {
		_ = database.Close(db)
		return nil, fmt.Errorf("failed to build station: %w", err)
	}

	med := mediator.NewMediator()
	med.RegisterMiddleware(metrics.PrometheusMiddleware(commandMetrics))
	if err := setup.NewHandlerRegistry(gs).RegisterStationHandlers(med); err != nil {
		_ = database.Close(db)
		return nil, fmt.Errorf("failed to register handlers: %w", err)
	}

	return &stationRuntime{
		cfg:      cfg,
		logger:   logger,
		db:       db,
		journal:  journal,
		station:  gs,
		mediator: med,
	}, nil
}

// withLogger attaches the runtime logger to ctx
func (r *stationRuntime) withLogger(ctx context.Context) context.Context {
	return common.WithLogger(ctx, r.logger)
}

// Close flushes the logger, closes the journal and drops global metrics state
func (r *stationRuntime) Close() {
	_ = r.logger.Sync()
	_ = database.Close(r.db)
	metrics.Reset()
}

// mediatedStation sends simulated purchases through the mediator so the
// command middleware observes them
type mediatedStation struct {
	mediator mediator.Mediator
	station  *appStation.GasStation
}

func (r *stationRuntime) purchaser() *mediatedStation {
	return &mediatedStation{mediator: r.mediator, station: r.station}
}

func (s *mediatedStation) Purchase(ctx context.Context, grade station.FuelGrade, amount, maxPrice float64) (*appStation.Receipt, error) {
	resp, err := s.mediator.Send(ctx, &commands.PurchaseFuelCommand{
		Grade:    grade.String(),
		Amount:   amount,
		MaxPrice: maxPrice,
	})
	if err != nil {
		return nil, err
	}

	result, ok := resp.(*commands.PurchaseFuelResponse)
	if !ok {
		return nil, fmt.Errorf("unexpected response type %T", resp)
	}
	if result.Cancelled {
		return result.Receipt, result.Reason
	}
	return result.Receipt, nil
}

func (s *mediatedStation) Statistics() appStation.StatisticsSnapshot {
	return s.station.Statistics()
}

func (s *mediatedStation) Pumps() station.PumpView {
	return s.station.Pumps()
}
