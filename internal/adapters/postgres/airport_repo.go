package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/samirrijal/skylog/internal/core/domain"
	"github.com/samirrijal/skylog/internal/pkg/dst"
)

const airportColumns = `COALESCE(icao, ''), COALESCE(iata, ''), name, city, country,
	lat, lon, utc_offset, dst_region, tz_name`

// AirportRepo implements ports.AirportRepository with pgx.
type AirportRepo struct {
	db *DB
}

// NewAirportRepo creates a new AirportRepo.
func NewAirportRepo(db *DB) *AirportRepo {
	return &AirportRepo{db: db}
}

// UpsertBatch inserts or updates many airports using pgx.Batch.
func (r *AirportRepo) UpsertBatch(ctx context.Context, airports []domain.Airport) error {
	batch := &pgx.Batch{}
	for _, a := range airports {
		batch.Queue(`
			INSERT INTO airports (code, icao, iata, name, city, country, lat, lon, utc_offset, dst_region, tz_name)
			VALUES ($1, NULLIF($2, ''), NULLIF($3, ''), $4, $5, $6, $7, $8, $9, $10, $11)
			ON CONFLICT (code) DO UPDATE
			SET icao = EXCLUDED.icao, iata = EXCLUDED.iata, name = EXCLUDED.name,
			    city = EXCLUDED.city, country = EXCLUDED.country,
			    lat = EXCLUDED.lat, lon = EXCLUDED.lon,
			    utc_offset = EXCLUDED.utc_offset, dst_region = EXCLUDED.dst_region,
			    tz_name = EXCLUDED.tz_name, updated_at = now()
		`, a.Code(), a.ICAO, a.IATA, a.Name, a.City, a.Country,
			a.Location.Lat, a.Location.Lon, a.UTCOffset, a.DST.Code(), a.TZName)
	}
	br := r.db.Pool.SendBatch(ctx, batch)
	defer br.Close()
	for _, a := range airports {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("batch exec %s: %w", a.Code(), err)
		}
	}
	return nil
}

// GetByCode returns an airport by ICAO or IATA code.
func (r *AirportRepo) GetByCode(ctx context.Context, code string) (*domain.Airport, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	row := r.db.Pool.QueryRow(ctx, `
		SELECT `+airportColumns+`
		FROM airports WHERE icao = $1 OR iata = $1
		ORDER BY icao IS NULL
		LIMIT 1
	`, code)
	a, err := scanAirport(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: %q", domain.ErrAirportNotFound, code)
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// List returns every airport ordered by code.
func (r *AirportRepo) List(ctx context.Context) ([]domain.Airport, error) {
	rows, err := r.db.Pool.Query(ctx, `SELECT `+airportColumns+` FROM airports ORDER BY code`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var airports []domain.Airport
	for rows.Next() {
		a, err := scanAirport(rows)
		if err != nil {
			return nil, err
		}
		airports = append(airports, a)
	}
	return airports, rows.Err()
}

// Count returns the number of stored airports.
func (r *AirportRepo) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.Pool.QueryRow(ctx, `SELECT count(*) FROM airports`).Scan(&n)
	return n, err
}

func scanAirport(row pgx.Row) (domain.Airport, error) {
	var (
		a      domain.Airport
		region string
	)
	err := row.Scan(&a.ICAO, &a.IATA, &a.Name, &a.City, &a.Country,
		&a.Location.Lat, &a.Location.Lon, &a.UTCOffset, &region, &a.TZName)
	a.DST = dst.ParseRegion(region)
	return a, err
}
