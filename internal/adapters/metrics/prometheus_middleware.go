package metrics

import (
	"context"
	"reflect"
	"strings"
	"time"

	"github.com/andrescamacho/amalgam-go/internal/application/mediator"
)

// PrometheusMiddleware records duration and success/failure of every mediator request.
// Request names drop the package prefix: "*commands.SubmitDirectionCommand" becomes "SubmitDirectionCommand".
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

// extractCommandName strips the pointer and package prefix from the request type name
//   - "*commands.SubmitDirectionCommand" → "SubmitDirectionCommand"
//   - "*queries.GetTurnHistoryQuery" → "GetTurnHistoryQuery"
func extractCommandName(request mediator.Request) string {
	if request == nil {
		return "UnknownCommand"
	}

	fullName := strings.TrimPrefix(reflect.TypeOf(request).String(), "*")
	if i := strings.LastIndex(fullName, "."); i >= 0 {
		return fullName[i+1:]
	}
	return fullName
}
