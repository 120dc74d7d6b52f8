// Package dst decides whether daylight-saving time is in effect for an
// airport's DST region at a UTC instant.
package dst

import (
	"strings"
	"time"
)

// Region is the DST rule family an airport follows.
type Region int

const (
	None Region = iota
	Unknown
	Europe
	USCanada
	SouthAmerica
	Australia
	NewZealand
)

var regionNames = [...]string{
	"none",
	"unknown",
	"europe",
	"us_canada",
	"south_america",
	"australia",
	"new_zealand",
}

// regionCodes are the single-letter DST codes used by the OpenFlights airport
// database.
var regionCodes = [...]string{"N", "U", "E", "A", "S", "O", "Z"}

func (r Region) String() string {
	if r < None || int(r) >= len(regionNames) {
		return regionNames[Unknown]
	}
	return regionNames[r]
}

// Code returns the OpenFlights single-letter code for the region.
func (r Region) Code() string {
	if r < None || int(r) >= len(regionCodes) {
		return regionCodes[Unknown]
	}
	return regionCodes[r]
}

// ParseRegion accepts either an OpenFlights DST letter or a region name as
// returned by String. Anything unrecognised maps to Unknown.
func ParseRegion(s string) Region {
	s = strings.TrimSpace(s)
	for i, c := range regionCodes {
		if strings.EqualFold(s, c) {
			return Region(i)
		}
	}
	for i, n := range regionNames {
		if strings.EqualFold(s, n) {
			return Region(i)
		}
	}
	return Unknown
}

// MarshalText encodes the region by name so JSON and BSON carry readable values.
func (r Region) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// UnmarshalText is the inverse of MarshalText and also accepts letter codes.
func (r *Region) UnmarshalText(b []byte) error {
	*r = ParseRegion(string(b))
	return nil
}

// Rule returns the strategy implementing the region's DST calendar.
func (r Region) Rule() Rule {
	if rule, ok := rules[r]; ok {
		return rule
	}
	return never{}
}

// IsActive reports whether DST is in effect at t for the region.
func IsActive(t time.Time, r Region) bool {
	return r.Rule().Active(t)
}

// Offset returns the total UTC offset in hours at t: base plus one hour while
// DST is active.
func Offset(t time.Time, base float64, r Region) float64 {
	if IsActive(t, r) {
		return base + 1.0
	}
	return base
}
