// Package openflights reads the OpenFlights airports.dat reference file.
package openflights

import (
	"encoding/csv"
	"errors"
	"fmt"
	"html"
	"io"
	"log/slog"
	"math"
	"strconv"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"github.com/samirrijal/skylog/internal/core/domain"
	"github.com/samirrijal/skylog/internal/pkg/dst"
)

// Column positions in airports.dat.
const (
	colName = 1 + iota
	colCity
	colCountry
	colIATA
	colICAO
	colLat
	colLon
	colAltitude
	colOffset
	colDST
	colTZ

	minColumns = colDST + 1
)

const null = `\N`

var policy = bluemonday.StrictPolicy()

// Parse reads airports.dat records. Rows without a usable code, position or
// UTC offset are skipped and counted.
func Parse(r io.Reader) (airports []domain.Airport, skipped int, err error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	line := 0
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, skipped, fmt.Errorf("airports.dat line %d: %w", line, err)
		}
		a, err := parseRecord(rec)
		if err != nil {
			slog.Debug("skipping airport", "line", line, "error", err)
			skipped++
			continue
		}
		airports = append(airports, a)
	}
	return airports, skipped, nil
}

func parseRecord(rec []string) (domain.Airport, error) {
	if len(rec) < minColumns {
		return domain.Airport{}, fmt.Errorf("%d columns", len(rec))
	}
	a := domain.Airport{
		Name:    clean(rec[colName]),
		City:    clean(rec[colCity]),
		Country: clean(rec[colCountry]),
		IATA:    code(rec[colIATA], 3),
		ICAO:    code(rec[colICAO], 4),
		DST:     dst.ParseRegion(field(rec[colDST])),
	}
	if len(rec) > colTZ {
		a.TZName = field(rec[colTZ])
	}
	if a.ICAO == "" && a.IATA == "" {
		return a, errors.New("no ICAO or IATA code")
	}

	var err error
	if a.Location.Lat, err = number(rec[colLat], 90); err != nil {
		return a, fmt.Errorf("latitude: %w", err)
	}
	if a.Location.Lon, err = number(rec[colLon], 180); err != nil {
		return a, fmt.Errorf("longitude: %w", err)
	}
	if a.UTCOffset, err = number(rec[colOffset], 14); err != nil {
		return a, fmt.Errorf("utc offset: %w", err)
	}
	return a, nil
}

// field maps the \N null marker to "".
func field(s string) string {
	s = strings.TrimSpace(s)
	if s == null {
		return ""
	}
	return s
}

// clean strips markup from free-text columns.
func clean(s string) string {
	return strings.TrimSpace(html.UnescapeString(policy.Sanitize(field(s))))
}

// code returns s upper-cased when it is an n-character alphanumeric code.
func code(s string, n int) string {
	s = strings.ToUpper(field(s))
	if len(s) != n {
		return ""
	}
	for _, r := range s {
		if (r < 'A' || r > 'Z') && (r < '0' || r > '9') {
			return ""
		}
	}
	return s
}

func number(s string, limit float64) (float64, error) {
	s = field(s)
	if s == "" {
		return 0, errors.New("missing")
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) || v < -limit || v > limit {
		return 0, fmt.Errorf("%v out of range", v)
	}
	return v, nil
}
