// Package nightcalc estimates how much of a flight is flown in darkness by
// sampling the Sun's elevation along the great-circle path.
package nightcalc

import (
	"time"

	"github.com/samirrijal/skylog/internal/core/domain"
	"github.com/samirrijal/skylog/internal/pkg/geospatial"
	"github.com/samirrijal/skylog/internal/pkg/solar"
)

// DefaultSegments is the number of equal-time samples used when the caller
// passes zero or a negative count.
const DefaultSegments = 200

// MaxDurationHours is the longest flight accepted. Beyond it segment instants
// would eventually overflow time.Duration.
const MaxDurationHours = 48.0

// ValidDuration reports whether h is a usable flight duration in hours:
// positive, finite and at most MaxDurationHours.
func ValidDuration(h float64) bool {
	return h > 0 && h <= MaxDurationHours
}

// NightHours returns the hours of a flight from `from` to `to` spent with the
// Sun below civil twilight. Each of the equal-time segments is classified by
// the solar elevation at its start.
func NightHours(from, to domain.GeoPoint, departure time.Time, durationHours float64, segments int) float64 {
	var night int
	n := walk(from, to, departure, durationHours, segments, func(s domain.FlightSegment) {
		if s.Night {
			night++
		}
	})
	if n == 0 {
		return 0
	}
	return durationHours * float64(night) / float64(n)
}

// Segments returns the sampled path, one entry per segment start.
func Segments(from, to domain.GeoPoint, departure time.Time, durationHours float64, segments int) []domain.FlightSegment {
	var out []domain.FlightSegment
	walk(from, to, departure, durationHours, segments, func(s domain.FlightSegment) {
		out = append(out, s)
	})
	return out
}

// walk calls fn for each segment and returns the segment count, or 0 when
// the duration is not valid.
func walk(from, to domain.GeoPoint, departure time.Time, durationHours float64, segments int, fn func(domain.FlightSegment)) int {
	if !ValidDuration(durationHours) {
		return 0
	}
	if segments <= 0 {
		segments = DefaultSegments
	}

	d := geospatial.AngularDistance(from.Lat, from.Lon, to.Lat, to.Lon)
	step := durationHours * float64(time.Hour) / float64(segments)
	departure = departure.UTC()

	for i := 0; i < segments; i++ {
		f := float64(i) / float64(segments)
		lat, lon := geospatial.Interpolate(from.Lat, from.Lon, to.Lat, to.Lon, d, f)
		at := departure.Add(time.Duration(float64(i) * step))
		fn(domain.FlightSegment{
			Position: domain.GeoPoint{Lat: lat, Lon: lon},
			Time:     at,
			Night:    solar.IsNight(lat, lon, at),
		})
	}
	return segments
}
