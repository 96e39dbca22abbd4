package cli

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/andrescamacho/gasstation-go/internal/adapters/metrics"
	"github.com/andrescamacho/gasstation-go/internal/application/common"
	"github.com/andrescamacho/gasstation-go/internal/application/setup"
	"github.com/andrescamacho/gasstation-go/internal/application/station/simulation"
	"github.com/andrescamacho/gasstation-go/internal/infrastructure/config"
	"github.com/andrescamacho/gasstation-go/internal/infrastructure/pidfile"
)

// NewServeCommand creates the serve command
func NewServeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the station continuously with a Prometheus endpoint",
		Long: `Run the configured customers against the station until SIGINT or SIGTERM.

While running, station and command metrics are exposed on the configured
metrics endpoint when metrics.enabled is true. On shutdown, purchases in
progress are completed (bounded by daemon.shutdown_timeout) and the final
report is printed.

Examples:
  gasstation serve
  GS_METRICS_ENABLED=true gasstation serve --config ./configs/config.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			return runServe(cmd, cfg)
		},
	}

	return cmd
}

func runServe(cmd *cobra.Command, cfg *config.Config) error {
	pf := pidfile.New(cfg.Daemon.PIDFile)
	if err := pf.Acquire(); err != nil {
		return fmt.Errorf("failed to acquire PID file lock: %w", err)
	}
	defer func() {
		if err := pf.Release(); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Warning: failed to release PID file: %v\n", err)
		}
	}()

	rt, err := newStationRuntime(cfg, cfg.Metrics.Enabled)
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
	ctx = rt.withLogger(ctx)
	logger := common.LoggerFromContext(ctx)

	var metricsServer *http.Server
	if cfg.Metrics.Enabled {
		metricsServer = newMetricsServer(cfg.Metrics)
		go func() {
			if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Log("ERROR", "Metrics server failed", map[string]interface{}{
					"addr":  metricsServer.Addr,
					"error": err.Error(),
				})
			}
		}()
		logger.Log("INFO", "Metrics server listening", map[string]interface{}{
			"addr": metricsServer.Addr,
			"path": cfg.Metrics.Path,
		})
	}

	type runResult struct {
		report *simulation.Report
		err    error
	}
	done := make(chan runResult, 1)
	go func() {
		report, err := sim.Run(ctx)
		done <- runResult{report: report, err: err}
	}()

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Station serving %d customers (PID file %s)\n", len(customers), pf.Path())
	fmt.Fprintln(out, "Press Ctrl+C to stop")

	var result runResult
	select {
	case result = <-done:
	case <-ctx.Done():
		logger.Log("INFO", "Shutdown signal received, draining purchases", map[string]interface{}{
			"timeout": cfg.Daemon.ShutdownTimeout.String(),
		})
		select {
		case result = <-done:
		case <-time.After(cfg.Daemon.ShutdownTimeout):
			result.err = fmt.Errorf("purchases still in progress after %s", cfg.Daemon.ShutdownTimeout)
		}
	}

	if metricsServer != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Daemon.ShutdownTimeout)
		defer cancel()
		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			logger.Log("WARNING", "Metrics server shutdown failed", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}

	if result.err != nil {
		return fmt.Errorf("station stopped: %w", result.err)
	}

	displayReport(out, result.report)
	fmt.Fprintln(out, "\nStation stopped")
	return nil
}

// newMetricsServer serves the global registry on the configured endpoint
func newMetricsServer(cfg config.MetricsConfig) *http.Server {
	mux := http.NewServeMux()
	mux.Handle(cfg.Path, promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{}))

	return &http.Server{
		Addr:              net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
}
