package geospatial

import "math"

// degenerate is the sin(d) below which two points are treated as coincident
// or antipodal.
const degenerate = 1e-9

// AngularDistance returns the central angle in radians between two points
// using the spherical law of cosines.
func AngularDistance(lat1, lon1, lat2, lon2 float64) float64 {
	p1, p2 := toRad(lat1), toRad(lat2)
	cosD := math.Sin(p1)*math.Sin(p2) + math.Cos(p1)*math.Cos(p2)*math.Cos(toRad(lon2-lon1))
	// Rounding can push identical points just past 1.
	return math.Acos(math.Max(-1, math.Min(1, cosD)))
}

// Interpolate returns the point a fraction f of the way along the great
// circle from (lat1, lon1) to (lat2, lon2), where d is their angular
// distance from AngularDistance.
//
// Coincident points return the start. Antipodal points have no unique great
// circle, so the start is returned for f < 0.5 and the end otherwise.
func Interpolate(lat1, lon1, lat2, lon2, d, f float64) (lat, lon float64) {
	sinD := math.Sin(d)
	if math.Abs(sinD) < degenerate || math.IsNaN(sinD) {
		if d > math.Pi/2 && f >= 0.5 {
			return lat2, lon2
		}
		return lat1, lon1
	}

	a := math.Sin((1-f)*d) / sinD
	b := math.Sin(f*d) / sinD

	p1, l1 := toRad(lat1), toRad(lon1)
	p2, l2 := toRad(lat2), toRad(lon2)

	x := a*math.Cos(p1)*math.Cos(l1) + b*math.Cos(p2)*math.Cos(l2)
	y := a*math.Cos(p1)*math.Sin(l1) + b*math.Cos(p2)*math.Sin(l2)
	z := a*math.Sin(p1) + b*math.Sin(p2)

	return toDeg(math.Atan2(z, math.Sqrt(x*x+y*y))), toDeg(math.Atan2(y, x))
}
