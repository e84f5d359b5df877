package telemetry

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

// TracerName is the instrumentation scope of spans emitted by the anchor
// service packages.
const TracerName = "github.com/redbco/redb-driverhub/services/anchor"

// Tracer returns the anchor tracer from the global provider.
func Tracer() trace.Tracer {
	return otel.Tracer(TracerName)
}
