package usecases

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync/atomic"

	"go.opentelemetry.io/otel/attribute"

	"github.com/samirrijal/skylog/internal/core/domain"
	"github.com/samirrijal/skylog/internal/core/ports"
	"github.com/samirrijal/skylog/internal/pkg/metrics"
	"github.com/samirrijal/skylog/internal/pkg/telemetry"
)

// directory is an immutable snapshot of the airport reference data.
type directory struct {
	byICAO map[string]domain.Airport
	byIATA map[string]domain.Airport
	sorted []domain.Airport
}

// AirportService is the in-memory airport directory. It is loaded from an
// AirportSource and replaced wholesale on every Load, so lookups never lock.
type AirportService struct {
	source ports.AirportSource
	snap   atomic.Pointer[directory]
}

// NewAirportService creates a new AirportService. Lookups miss until Load
// has succeeded once.
func NewAirportService(source ports.AirportSource) *AirportService {
	return &AirportService{source: source}
}

// Load fetches every airport from the source and swaps in a new snapshot.
// Airports without an ICAO or IATA code, or with a non-finite or
// out-of-range position or offset, are skipped.
func (s *AirportService) Load(ctx context.Context) error {
	ctx, span := telemetry.Tracer().Start(ctx, telemetry.SpanDirectoryLoad)
	defer span.End()

	airports, err := s.source.List(ctx)
	if err != nil {
		metrics.DirectoryLoads.WithLabelValues("error").Inc()
		span.RecordError(err)
		return fmt.Errorf("list airports: %w", err)
	}

	d := &directory{
		byICAO: make(map[string]domain.Airport, len(airports)),
		byIATA: make(map[string]domain.Airport, len(airports)),
		sorted: make([]domain.Airport, 0, len(airports)),
	}
	skipped := 0
	for _, a := range airports {
		a.ICAO = strings.ToUpper(strings.TrimSpace(a.ICAO))
		a.IATA = strings.ToUpper(strings.TrimSpace(a.IATA))
		if (a.ICAO == "" && a.IATA == "") || !validProfile(a) {
			skipped++
			continue
		}
		if a.ICAO != "" {
			d.byICAO[a.ICAO] = a
		}
		if a.IATA != "" {
			d.byIATA[a.IATA] = a
		}
		d.sorted = append(d.sorted, a)
	}
	sort.Slice(d.sorted, func(i, j int) bool { return d.sorted[i].Code() < d.sorted[j].Code() })

	s.snap.Store(d)
	span.SetAttributes(attribute.Int(telemetry.AttrDirectoryAirports, len(d.sorted)))
	metrics.DirectoryLoads.WithLabelValues("ok").Inc()
	metrics.DirectoryAirports.Set(float64(len(d.sorted)))
	slog.Info("airport directory loaded", "airports", len(d.sorted), "skipped", skipped)
	return nil
}

func validProfile(a domain.Airport) bool {
	in := func(v, limit float64) bool { return v >= -limit && v <= limit }
	return in(a.Location.Lat, 90) && in(a.Location.Lon, 180) && in(a.UTCOffset, 14)
}

// Loaded reports whether a snapshot is available.
func (s *AirportService) Loaded() bool {
	return s.snap.Load() != nil
}

// Lookup resolves a case-insensitive ICAO (4-letter) or IATA (3-letter) code.
func (s *AirportService) Lookup(code string) (domain.Airport, bool) {
	d := s.snap.Load()
	if d == nil {
		return domain.Airport{}, false
	}
	code = strings.ToUpper(strings.TrimSpace(code))
	switch len(code) {
	case 4:
		a, ok := d.byICAO[code]
		return a, ok
	case 3:
		a, ok := d.byIATA[code]
		return a, ok
	}
	return domain.Airport{}, false
}

// Get is Lookup with a domain.ErrAirportNotFound error on a miss.
func (s *AirportService) Get(code string) (*domain.Airport, error) {
	a, ok := s.Lookup(code)
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrAirportNotFound, code)
	}
	return &a, nil
}

// Coordinates returns the location of an airport.
func (s *AirportService) Coordinates(code string) (domain.GeoPoint, bool) {
	a, ok := s.Lookup(code)
	return a.Location, ok
}

// ToICAO translates any known code to the airport's ICAO code.
func (s *AirportService) ToICAO(code string) (string, bool) {
	a, ok := s.Lookup(code)
	if !ok || a.ICAO == "" {
		return "", false
	}
	return a.ICAO, true
}

// ToIATA translates any known code to the airport's IATA code.
func (s *AirportService) ToIATA(code string) (string, bool) {
	a, ok := s.Lookup(code)
	if !ok || a.IATA == "" {
		return "", false
	}
	return a.IATA, true
}

// List returns a page of airports ordered by code, plus the total count.
func (s *AirportService) List(offset, limit int) ([]domain.Airport, int) {
	d := s.snap.Load()
	if d == nil {
		return nil, 0
	}
	total := len(d.sorted)
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset >= total {
		return []domain.Airport{}, total
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return append([]domain.Airport(nil), d.sorted[offset:end]...), total
}
