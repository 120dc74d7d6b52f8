package telemetry

// Span and attribute names used for instrumentation.
const (
	// Spans
	SpanNightCalculate = "NightService.Calculate"
	SpanRecalcActivity = "RecalculateFlight"
	SpanDirectoryLoad  = "AirportService.Load"

	// Flight attributes
	AttrFlightFrom     = "flight.from"
	AttrFlightTo       = "flight.to"
	AttrFlightDuration = "flight.duration_hours"
	AttrNightHours     = "flight.night_hours"
	AttrCacheHit       = "cache.hit"

	// Directory attributes
	AttrDirectoryAirports = "directory.airports"

	// Workflow attributes
	AttrActivityAttempt = "temporal.attempt"
)
