package usecases

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/samirrijal/skylog/internal/core/domain"
	"github.com/samirrijal/skylog/internal/core/ports"
	"github.com/samirrijal/skylog/internal/pkg/clock"
	"github.com/samirrijal/skylog/internal/pkg/geospatial"
	"github.com/samirrijal/skylog/internal/pkg/metrics"
	"github.com/samirrijal/skylog/internal/pkg/nightcalc"
	"github.com/samirrijal/skylog/internal/pkg/solar"
	"github.com/samirrijal/skylog/internal/pkg/telemetry"
)

const reportCacheTTL = 3600

// NightService produces flight night reports.
type NightService struct {
	airports  ports.AirportDirectory
	times     *TimeService
	cache     ports.CacheService
	publisher ports.EventPublisher
	segments  int
	now       func() time.Time
}

// NewNightService creates a new NightService. cache and publisher may be nil.
func NewNightService(
	airports ports.AirportDirectory,
	cache ports.CacheService,
	publisher ports.EventPublisher,
	segments int,
) *NightService {
	if segments <= 0 {
		segments = nightcalc.DefaultSegments
	}
	return &NightService{
		airports:  airports,
		times:     NewTimeService(airports),
		cache:     cache,
		publisher: publisher,
		segments:  segments,
		now:       time.Now,
	}
}

// Calculate resolves both airports and integrates night time along the
// great-circle path between them.
func (s *NightService) Calculate(ctx context.Context, req domain.FlightRequest) (*domain.FlightReport, error) {
	ctx, span := telemetry.Tracer().Start(ctx, telemetry.SpanNightCalculate)
	defer span.End()
	span.SetAttributes(
		attribute.String(telemetry.AttrFlightFrom, req.From),
		attribute.String(telemetry.AttrFlightTo, req.To),
		attribute.Float64(telemetry.AttrFlightDuration, req.DurationHours),
	)

	report, err := s.calculate(ctx, req)
	if err != nil {
		metrics.NightCalculations.WithLabelValues("error").Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	span.SetAttributes(attribute.Float64(telemetry.AttrNightHours, report.NightHours))
	return report, nil
}

func (s *NightService) calculate(ctx context.Context, req domain.FlightRequest) (*domain.FlightReport, error) {
	if !nightcalc.ValidDuration(req.DurationHours) {
		return nil, fmt.Errorf("%w: duration %v", domain.ErrInvalidInput, req.DurationHours)
	}
	dep, err := clock.Combine(req.DepartureDate, req.DepartureTime)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	from, ok := s.airports.Lookup(req.From)
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrAirportNotFound, req.From)
	}
	to, ok := s.airports.Lookup(req.To)
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrAirportNotFound, req.To)
	}

	cacheKey := fmt.Sprintf("night:%s:%s:%d:%s:%d",
		from.Code(), to.Code(), dep.Unix(), strconv.FormatFloat(req.DurationHours, 'g', -1, 64), s.segments)
	if s.cache != nil {
		if data, err := s.cache.Get(ctx, cacheKey); err == nil {
			var report domain.FlightReport
			if err := json.Unmarshal(data, &report); err == nil {
				metrics.CacheHits.WithLabelValues("night").Inc()
				trace.SpanFromContext(ctx).SetAttributes(attribute.Bool(telemetry.AttrCacheHit, true))
				metrics.NightCalculations.WithLabelValues("cached").Inc()
				report.FlightID = req.ID
				s.publish(ctx, &report)
				return &report, nil
			}
		}
		metrics.CacheMisses.WithLabelValues("night").Inc()
	}

	start := time.Now()
	night := nightcalc.NightHours(from.Location, to.Location, dep, req.DurationHours, s.segments)
	metrics.NightCalcDuration.Observe(time.Since(start).Seconds())

	arr := dep.Add(time.Duration(req.DurationHours * float64(time.Hour)))
	report := &domain.FlightReport{
		FlightID:       req.ID,
		From:           from.Code(),
		To:             to.Code(),
		DepartureUTC:   dep,
		ArrivalUTC:     arr,
		DurationHours:  req.DurationHours,
		NightHours:     night,
		DayHours:       req.DurationHours - night,
		DistanceNM:     geospatial.NauticalMiles(from.Location.Lat, from.Location.Lon, to.Location.Lat, to.Location.Lon),
		NightTakeoff:   solar.IsNight(from.Location.Lat, from.Location.Lon, dep),
		NightLanding:   solar.IsNight(to.Location.Lat, to.Location.Lon, arr),
		DepartureLocal: s.times.Stamp(dep, from),
		ArrivalLocal:   s.times.Stamp(arr, to),
		ComputedAt:     s.now().UTC(),
	}
	metrics.NightCalculations.WithLabelValues("computed").Inc()

	if s.cache != nil {
		if data, err := json.Marshal(report); err == nil {
			_ = s.cache.Set(ctx, cacheKey, data, reportCacheTTL)
		}
	}

	s.publish(ctx, report)
	return report, nil
}

// publish sends a report to subscribers. Cached reports are published too so
// every request, queued ones included, gets a report carrying its own ID.
func (s *NightService) publish(ctx context.Context, report *domain.FlightReport) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishReport(ctx, report); err != nil {
		metrics.ReportsPublished.WithLabelValues("error").Inc()
		slog.Warn("publish flight report", "from", report.From, "to", report.To, "error", err)
		return
	}
	metrics.ReportsPublished.WithLabelValues("ok").Inc()
}

// Enqueue validates a request and queues it for asynchronous calculation.
// The request must carry an ID so the report can be matched to it.
func (s *NightService) Enqueue(ctx context.Context, req domain.FlightRequest) error {
	if s.publisher == nil {
		return fmt.Errorf("%w: no event publisher", domain.ErrUnavailable)
	}
	if req.ID == "" {
		return fmt.Errorf("%w: flight id is required", domain.ErrInvalidInput)
	}
	if !nightcalc.ValidDuration(req.DurationHours) {
		return fmt.Errorf("%w: duration %v", domain.ErrInvalidInput, req.DurationHours)
	}
	if _, err := clock.Combine(req.DepartureDate, req.DepartureTime); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	for _, code := range []string{req.From, req.To} {
		if _, ok := s.airports.Lookup(code); !ok {
			return fmt.Errorf("%w: %q", domain.ErrAirportNotFound, code)
		}
	}
	if err := s.publisher.PublishFlightRequest(ctx, &req); err != nil {
		return fmt.Errorf("queue flight %s: %w", req.ID, err)
	}
	return nil
}

// IsNightAt reports whether it is night at an airport at the UTC instant
// given by a "dd/MM/yyyy" date and a time of day.
func (s *NightService) IsNightAt(code, date, clk string) (bool, error) {
	a, ok := s.airports.Lookup(code)
	if !ok {
		return false, fmt.Errorf("%w: %q", domain.ErrAirportNotFound, code)
	}
	at, err := clock.Combine(date, clk)
	if err != nil {
		return false, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	return solar.IsNight(a.Location.Lat, a.Location.Lon, at), nil
}

// Path returns the sampled flight path for a request, for plotting.
func (s *NightService) Path(req domain.FlightRequest) ([]domain.FlightSegment, error) {
	if !nightcalc.ValidDuration(req.DurationHours) {
		return nil, fmt.Errorf("%w: duration %v", domain.ErrInvalidInput, req.DurationHours)
	}
	dep, err := clock.Combine(req.DepartureDate, req.DepartureTime)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	from, ok := s.airports.Lookup(req.From)
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrAirportNotFound, req.From)
	}
	to, ok := s.airports.Lookup(req.To)
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrAirportNotFound, req.To)
	}
	return nightcalc.Segments(from.Location, to.Location, dep, req.DurationHours, s.segments), nil
}
