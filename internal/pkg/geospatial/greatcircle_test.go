package geospatial_test

import (
	"math"
	"testing"

	"github.com/samirrijal/skylog/internal/pkg/geospatial"
)

func TestHaversine(t *testing.T) {
	// Heathrow to JFK is about 5540 km.
	got := geospatial.Haversine(51.4775, -0.4614, 40.6398, -73.7789) / 1000
	if got < 5500 || got > 5580 {
		t.Errorf("EGLL-KJFK = %.1f km, want ~5540", got)
	}
	if d := geospatial.Haversine(10, 20, 10, 20); d != 0 {
		t.Errorf("same point distance = %v, want 0", d)
	}
}

func TestNauticalMiles(t *testing.T) {
	// One degree of latitude is 60 NM on a 6371 km sphere, give or take.
	got := geospatial.NauticalMiles(0, 0, 1, 0)
	if math.Abs(got-60.04) > 0.1 {
		t.Errorf("1 degree = %.3f NM", got)
	}
}

func TestAngularDistance(t *testing.T) {
	tests := []struct {
		name                   string
		lat1, lon1, lat2, lon2 float64
		want                   float64
	}{
		{"same point", 51.47, -0.46, 51.47, -0.46, 0},
		{"quarter meridian", 0, 0, 90, 0, math.Pi / 2},
		{"equator quarter", 0, 0, 0, 90, math.Pi / 2},
		{"antipodal", 0, 0, 0, 180, math.Pi},
		{"pole to pole", 90, 0, -90, 0, math.Pi},
	}
	for _, tc := range tests {
		got := geospatial.AngularDistance(tc.lat1, tc.lon1, tc.lat2, tc.lon2)
		if math.Abs(got-tc.want) > 1e-6 {
			t.Errorf("%s: got %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestAngularDistance_MatchesHaversine(t *testing.T) {
	d := geospatial.AngularDistance(-33.9461, 151.1772, 33.9425, -118.4081)
	h := geospatial.Haversine(-33.9461, 151.1772, 33.9425, -118.4081) / 1000 / 6371
	if math.Abs(d-h) > 1e-6 {
		t.Errorf("law of cosines %v vs haversine %v", d, h)
	}
}

func TestInterpolate_Endpoints(t *testing.T) {
	lat1, lon1, lat2, lon2 := 51.4775, -0.4614, 40.6398, -73.7789
	d := geospatial.AngularDistance(lat1, lon1, lat2, lon2)

	lat, lon := geospatial.Interpolate(lat1, lon1, lat2, lon2, d, 0)
	if math.Abs(lat-lat1) > 1e-9 || math.Abs(lon-lon1) > 1e-9 {
		t.Errorf("f=0 gave (%v, %v)", lat, lon)
	}
	lat, lon = geospatial.Interpolate(lat1, lon1, lat2, lon2, d, 1)
	if math.Abs(lat-lat2) > 1e-9 || math.Abs(lon-lon2) > 1e-9 {
		t.Errorf("f=1 gave (%v, %v)", lat, lon)
	}
}

func TestInterpolate_Midpoint(t *testing.T) {
	lat, lon := geospatial.Interpolate(0, 0, 0, 90, math.Pi/2, 0.5)
	if math.Abs(lat) > 1e-9 || math.Abs(lon-45) > 1e-9 {
		t.Errorf("equator midpoint = (%v, %v), want (0, 45)", lat, lon)
	}

	// The transatlantic great circle bulges north of both endpoints.
	lat1, lon1, lat2, lon2 := 51.4775, -0.4614, 40.6398, -73.7789
	d := geospatial.AngularDistance(lat1, lon1, lat2, lon2)
	lat, _ = geospatial.Interpolate(lat1, lon1, lat2, lon2, d, 0.3)
	if lat <= lat1 {
		t.Errorf("expected northern bulge, got lat %v", lat)
	}
}

func TestInterpolate_StaysOnPath(t *testing.T) {
	lat1, lon1, lat2, lon2 := -33.9461, 151.1772, 33.9425, -118.4081
	d := geospatial.AngularDistance(lat1, lon1, lat2, lon2)
	for _, f := range []float64{0.1, 0.25, 0.5, 0.75, 0.9} {
		lat, lon := geospatial.Interpolate(lat1, lon1, lat2, lon2, d, f)
		a := geospatial.AngularDistance(lat1, lon1, lat, lon)
		b := geospatial.AngularDistance(lat, lon, lat2, lon2)
		if math.Abs(a-f*d) > 1e-9 || math.Abs(a+b-d) > 1e-9 {
			t.Errorf("f=%v: %v + %v != %v", f, a, b, d)
		}
		if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
			t.Errorf("f=%v: out of range (%v, %v)", f, lat, lon)
		}
	}
}

func TestInterpolate_Degenerate(t *testing.T) {
	lat, lon := geospatial.Interpolate(10, 20, 10, 20, 0, 0.5)
	if lat != 10 || lon != 20 {
		t.Errorf("coincident: got (%v, %v)", lat, lon)
	}

	lat, lon = geospatial.Interpolate(0, 0, 0, 180, math.Pi, 0.25)
	if lat != 0 || lon != 0 {
		t.Errorf("antipodal f=0.25: got (%v, %v)", lat, lon)
	}
	lat, lon = geospatial.Interpolate(0, 0, 0, 180, math.Pi, 0.75)
	if lat != 0 || lon != 180 {
		t.Errorf("antipodal f=0.75: got (%v, %v)", lat, lon)
	}
	for _, v := range []float64{lat, lon} {
		if math.IsNaN(v) {
			t.Fatal("NaN from degenerate path")
		}
	}
}
