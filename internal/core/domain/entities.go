package domain

import (
	"errors"
	"time"

	"github.com/samirrijal/skylog/internal/pkg/dst"
)

var (
	// ErrAirportNotFound is returned when a code resolves to no airport.
	ErrAirportNotFound = errors.New("airport not found")
	// ErrInvalidInput is returned for malformed dates, times or durations.
	ErrInvalidInput = errors.New("invalid input")
	// ErrUnavailable is returned when an optional backend is not configured.
	ErrUnavailable = errors.New("backend unavailable")
)

// Airport is the time profile of an airport: where it is and which civil
// time it keeps. UTCOffset is the standard-time offset in hours, with no DST
// applied.
type Airport struct {
	ICAO      string     `json:"icao"`
	IATA      string     `json:"iata,omitempty"`
	Name      string     `json:"name"`
	City      string     `json:"city,omitempty"`
	Country   string     `json:"country,omitempty"`
	Location  GeoPoint   `json:"location"`
	UTCOffset float64    `json:"utc_offset"`
	DST       dst.Region `json:"dst"`
	TZName    string     `json:"tz_name,omitempty"`
}

// Code returns the ICAO code, falling back to IATA.
func (a Airport) Code() string {
	if a.ICAO != "" {
		return a.ICAO
	}
	return a.IATA
}

// FlightSegment is one sample of a flight's great-circle path.
type FlightSegment struct {
	Position GeoPoint  `json:"position"`
	Time     time.Time `json:"time"`
	Night    bool      `json:"night"`
}

// FlightRequest asks for the night/local-time breakdown of a flight. The
// departure date and time are UTC, in dd/MM/yyyy and HHMM or HH:MM form.
type FlightRequest struct {
	ID            string  `json:"id,omitempty"`
	From          string  `json:"from"`
	To            string  `json:"to"`
	DepartureDate string  `json:"departure_date"`
	DepartureTime string  `json:"departure_time"`
	DurationHours float64 `json:"duration_hours"`
}

// LocalStamp is a wall-clock date and time at an airport.
type LocalStamp struct {
	Date string `json:"date"`
	Time string `json:"time"`
}

// FlightReport is the computed breakdown for a FlightRequest.
type FlightReport struct {
	FlightID       string     `json:"flight_id,omitempty"`
	From           string     `json:"from"`
	To             string     `json:"to"`
	DepartureUTC   time.Time  `json:"departure_utc"`
	ArrivalUTC     time.Time  `json:"arrival_utc"`
	DurationHours  float64    `json:"duration_hours"`
	NightHours     float64    `json:"night_hours"`
	DayHours       float64    `json:"day_hours"`
	DistanceNM     float64    `json:"distance_nm"`
	NightTakeoff   bool       `json:"night_takeoff"`
	NightLanding   bool       `json:"night_landing"`
	DepartureLocal LocalStamp `json:"departure_local"`
	ArrivalLocal   LocalStamp `json:"arrival_local"`
	ComputedAt     time.Time  `json:"computed_at"`
}

// SunEvents are the civil twilight and sunrise/sunset instants (UTC) at an
// airport on a date. Zero values mean the event does not occur that day.
type SunEvents struct {
	Airport   string    `json:"airport"`
	Date      string    `json:"date"`
	CivilDawn time.Time `json:"civil_dawn"`
	Sunrise   time.Time `json:"sunrise"`
	Sunset    time.Time `json:"sunset"`
	CivilDusk time.Time `json:"civil_dusk"`
}
