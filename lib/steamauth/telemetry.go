package steamauth

import "go.opentelemetry.io/otel"

var tracer = otel.Tracer("steamweb.lib.steamauth")
