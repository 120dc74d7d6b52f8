// Package solar computes the Sun's elevation for an observer using a
// low-precision ephemeris, good to roughly 0.01 degrees.
package solar

import (
	"math"
	"time"

	"github.com/mooncaker816/learnmeeus/v3/julian"
)

// CivilTwilight is the solar elevation, in degrees, below which it is night.
const CivilTwilight = -6.0

const (
	j2000          = 2451545.0
	daysPerCentury = 36525.0
	deg            = math.Pi / 180
)

// IsNight reports whether the Sun is below civil twilight at the given
// position and instant. No refraction correction is applied. NaN inputs
// compare false and so report daylight.
func IsNight(lat, lon float64, t time.Time) bool {
	return Elevation(lat, lon, t) < CivilTwilight
}

// Elevation returns the geometric elevation of the Sun's centre in degrees.
func Elevation(lat, lon float64, t time.Time) float64 {
	jd := julian.TimeToJD(t.UTC())
	T := (jd - j2000) / daysPerCentury

	decl, ra := equatorial(T)

	gst := normalize(280.46061837+360.98564736629*(jd-j2000)+
		T*T*(0.000387933-T/38710000)) * deg
	ha := gst + lon*deg - ra

	phi := lat * deg
	sinElev := math.Sin(phi)*math.Sin(decl) + math.Cos(phi)*math.Cos(decl)*math.Cos(ha)
	return math.Asin(clamp(sinElev)) / deg
}

// Declination returns the Sun's apparent declination in degrees.
func Declination(t time.Time) float64 {
	T := (julian.TimeToJD(t.UTC()) - j2000) / daysPerCentury
	decl, _ := equatorial(T)
	return decl / deg
}

// equatorial returns apparent declination and right ascension in radians
// for T Julian centuries since J2000.
func equatorial(T float64) (decl, ra float64) {
	l0 := normalize(280.46646+T*(36000.76983+T*0.0003032)) * deg
	m := normalize(357.52911+T*(35999.05029-T*0.0001537)) * deg

	c := (math.Sin(m)*(1.914602-T*(0.004817+T*0.000014)) +
		math.Sin(2*m)*(0.019993-T*0.000101) +
		math.Sin(3*m)*0.000289) * deg
	trueLong := l0 + c

	omega := (125.04 - 1934.136*T) * deg
	lambda := trueLong - (0.00569+0.00478*math.Sin(omega))*deg

	eps0 := 23 + (26+(21.448-T*(46.815+T*(0.00059-T*0.001813)))/60)/60
	eps := (eps0 + 0.00256*math.Cos(omega)) * deg

	decl = math.Asin(clamp(math.Sin(eps) * math.Sin(lambda)))
	ra = math.Atan2(math.Cos(eps)*math.Sin(lambda), math.Cos(lambda))
	return decl, ra
}

func normalize(d float64) float64 {
	d = math.Mod(d, 360)
	if d < 0 {
		d += 360
	}
	return d
}

// clamp keeps asin arguments inside [-1, 1] against rounding; NaN passes through.
func clamp(x float64) float64 {
	switch {
	case x > 1:
		return 1
	case x < -1:
		return -1
	}
	return x
}
