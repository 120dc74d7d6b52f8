package usecases

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/samirrijal/skylog/internal/core/domain"
	"github.com/samirrijal/skylog/internal/core/ports"
	"github.com/samirrijal/skylog/internal/pkg/clock"
	"github.com/samirrijal/skylog/internal/pkg/dst"
	"github.com/samirrijal/skylog/internal/pkg/metrics"
)

// australianPrefixes are the ICAO prefixes of the Australian FIRs.
var australianPrefixes = []string{"YB", "YM", "YP", "YS"}

// TimeService converts logbook dates and times between UTC and an airport's
// local civil time. Conversions never fail outward: on any error the input
// strings are returned unchanged.
type TimeService struct {
	airports ports.AirportDirectory
}

// NewTimeService creates a new TimeService.
func NewTimeService(airports ports.AirportDirectory) *TimeService {
	return &TimeService{airports: airports}
}

// UTCToLocal converts a UTC "dd/MM/yyyy" date and "HHMM" or "HH:MM" time to
// the airport's local date and "HHMM" time.
func (s *TimeService) UTCToLocal(date, clk, code string) (string, string) {
	local, err := s.toLocal(date, clk, code)
	if err != nil {
		return s.unchanged("to_local", date, clk, code, err)
	}
	metrics.Conversions.WithLabelValues("to_local", "converted").Inc()
	return clock.FormatDate(local), clock.Of(local).Compact()
}

// LocalToUTC converts an airport-local date and time to a UTC date and
// "HH:MM" time.
//
// DST is resolved on a provisional instant that reads the local fields as if
// they were UTC. Within a few hours of a DST boundary this can pick the
// offset from the other side of the change.
func (s *TimeService) LocalToUTC(date, clk, code string) (string, string) {
	utc, err := s.toUTC(date, clk, code)
	if err != nil {
		return s.unchanged("to_utc", date, clk, code, err)
	}
	metrics.Conversions.WithLabelValues("to_utc", "converted").Inc()
	return clock.FormatDate(utc), clock.Of(utc).String()
}

// IsAustralianAirport reports whether code has an Australian ICAO prefix.
// IATA codes are translated through the directory first; unknown 4-letter
// codes are classified as given.
func (s *TimeService) IsAustralianAirport(code string) bool {
	icao := strings.ToUpper(strings.TrimSpace(code))
	if a, ok := s.airports.Lookup(code); ok {
		icao = a.ICAO
	}
	if len(icao) != 4 {
		return false
	}
	for _, p := range australianPrefixes {
		if strings.HasPrefix(icao, p) {
			return true
		}
	}
	return false
}

// Stamp renders a UTC instant as the airport's local date and "HHMM" time.
func (s *TimeService) Stamp(t time.Time, a domain.Airport) domain.LocalStamp {
	local := t.In(Zone(a, t))
	return domain.LocalStamp{Date: clock.FormatDate(local), Time: clock.Of(local).Compact()}
}

// Zone returns a fixed zone carrying the airport's total offset at the UTC
// instant t.
func Zone(a domain.Airport, t time.Time) *time.Location {
	off := dst.Offset(t, a.UTCOffset, a.DST)
	secs := int(math.Round(off * 3600))
	return time.FixedZone(a.Code(), secs)
}

func (s *TimeService) toLocal(date, clk, code string) (time.Time, error) {
	a, ok := s.airports.Lookup(code)
	if !ok {
		return time.Time{}, fmt.Errorf("%w: %q", domain.ErrAirportNotFound, code)
	}
	utc, err := clock.Combine(date, clk)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	return utc.In(Zone(a, utc)), nil
}

func (s *TimeService) toUTC(date, clk, code string) (time.Time, error) {
	a, ok := s.airports.Lookup(code)
	if !ok {
		return time.Time{}, fmt.Errorf("%w: %q", domain.ErrAirportNotFound, code)
	}
	provisional, err := clock.Combine(date, clk)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	y, m, d := provisional.Date()
	local := time.Date(y, m, d, provisional.Hour(), provisional.Minute(), 0, 0, Zone(a, provisional))
	return local.UTC(), nil
}

func (s *TimeService) unchanged(direction, date, clk, code string, err error) (string, string) {
	outcome := "unchanged"
	if errors.Is(err, domain.ErrAirportNotFound) {
		outcome = "unknown_airport"
	}
	metrics.Conversions.WithLabelValues(direction, outcome).Inc()
	slog.Debug("time conversion skipped",
		"direction", direction, "airport", code, "date", date, "time", clk, "error", err)
	return date, clk
}
