package usecases

import (
	"fmt"

	"github.com/nathan-osman/go-sunrise"

	"github.com/samirrijal/skylog/internal/core/domain"
	"github.com/samirrijal/skylog/internal/core/ports"
	"github.com/samirrijal/skylog/internal/pkg/clock"
	"github.com/samirrijal/skylog/internal/pkg/solar"
)

// SunService reports sunrise, sunset and civil twilight at airports.
type SunService struct {
	airports ports.AirportDirectory
}

// NewSunService creates a new SunService.
func NewSunService(airports ports.AirportDirectory) *SunService {
	return &SunService{airports: airports}
}

// Events returns the sun events at an airport on a "dd/MM/yyyy" UTC date.
// Events that do not happen that day, such as sunset during the midnight
// sun, are left zero.
func (s *SunService) Events(code, date string) (*domain.SunEvents, error) {
	a, ok := s.airports.Lookup(code)
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrAirportNotFound, code)
	}
	day, err := clock.ParseDate(date)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}

	lat, lon := a.Location.Lat, a.Location.Lon
	y, m, d := day.Date()
	rise, set := sunrise.SunriseSunset(lat, lon, y, m, d)
	dawn, dusk := sunrise.TimeOfElevation(lat, lon, solar.CivilTwilight, y, m, d)

	return &domain.SunEvents{
		Airport:   a.Code(),
		Date:      clock.FormatDate(day),
		CivilDawn: dawn,
		Sunrise:   rise,
		Sunset:    set,
		CivilDusk: dusk,
	}, nil
}
