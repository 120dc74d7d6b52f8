package domain

// GeoPoint represents a geographic coordinate (WGS 84) in degrees.
type GeoPoint struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}
