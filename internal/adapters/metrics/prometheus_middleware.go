package metrics

import (
	"context"
	"reflect"
	"strings"
	"time"

	"github.com/andrescamacho/gasstation-go/internal/application/mediator"
)

// PrometheusMiddleware creates a middleware that records command execution metrics
//
// This middleware wraps all command/query execution and records:
// - Execution duration (histogram)
// - Success/failure counts (counter)
//
// Command names are extracted via reflection with the package prefix removed,
// so "*commands.PurchaseFuelCommand" is recorded as "PurchaseFuelCommand".
func PrometheusMiddleware(collector *CommandMetricsCollector) mediator.Middleware {
	return func(ctx context.Context, request mediator.Request, next mediator.HandlerFunc) (mediator.Response, error) {
		// Skip metrics if collector is nil (metrics disabled)
		if collector == nil {
			return next(ctx, request)
		}

		commandName := extractCommandName(request)
		start := time.Now()

		response, err := next(ctx, request)

		collector.RecordCommandExecution(commandName, time.Since(start).Seconds(), err == nil)
		return response, err
	}
}

// extractCommandName returns the bare type name of the request
func extractCommandName(request mediator.Request) string {
	if request == nil {
		return "UnknownCommand"
	}

	fullName := strings.TrimPrefix(reflect.TypeOf(request).String(), "*")
	if idx := strings.LastIndex(fullName, "."); idx >= 0 {
		return fullName[idx+1:]
	}
	return fullName
}
