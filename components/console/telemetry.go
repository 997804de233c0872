package console

import (
	"context"

	"go.uber.org/zap"
)

// Telemetry records console events for observability.
type Telemetry interface {
	Record(ctx context.Context, event string, payload map[string]any)
}

type noopTelemetry struct{}

func (noopTelemetry) Record(context.Context, string, map[string]any) {}

func normalizeTelemetry(t Telemetry) Telemetry {
	if t == nil {
		return noopTelemetry{}
	}
	return t
}

// ZapTelemetry forwards console events to a zap logger.
type ZapTelemetry struct {
	Logger *zap.Logger
}

// Record implements Telemetry.
func (z ZapTelemetry) Record(_ context.Context, event string, payload map[string]any) {
	if z.Logger == nil {
		return
	}
	fields := make([]zap.Field, 0, len(payload))
	for key, value := range payload {
		fields = append(fields, zap.Any(key, value))
	}
	z.Logger.Info(event, fields...)
}
