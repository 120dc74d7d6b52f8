package mongoadapter

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/samirrijal/skylog/internal/core/domain"
	"github.com/samirrijal/skylog/internal/pkg/dst"
)

const airportsCollection = "airports"

// airportDoc is the stored shape of an airport. Location is a GeoJSON point
// so the collection can carry a 2dsphere index.
type airportDoc struct {
	Code      string   `bson:"_id"`
	ICAO      string   `bson:"icao,omitempty"`
	IATA      string   `bson:"iata,omitempty"`
	Name      string   `bson:"name"`
	City      string   `bson:"city,omitempty"`
	Country   string   `bson:"country,omitempty"`
	Location  geoPoint `bson:"location"`
	UTCOffset float64  `bson:"utc_offset"`
	DST       string   `bson:"dst"`
	TZName    string   `bson:"tz_name,omitempty"`
}

type geoPoint struct {
	Type        string     `bson:"type"`
	Coordinates [2]float64 `bson:"coordinates"` // lon, lat
}

func toDoc(a domain.Airport) airportDoc {
	return airportDoc{
		Code:      a.Code(),
		ICAO:      a.ICAO,
		IATA:      a.IATA,
		Name:      a.Name,
		City:      a.City,
		Country:   a.Country,
		Location:  geoPoint{Type: "Point", Coordinates: [2]float64{a.Location.Lon, a.Location.Lat}},
		UTCOffset: a.UTCOffset,
		DST:       a.DST.Code(),
		TZName:    a.TZName,
	}
}

func (d airportDoc) airport() domain.Airport {
	return domain.Airport{
		ICAO:      d.ICAO,
		IATA:      d.IATA,
		Name:      d.Name,
		City:      d.City,
		Country:   d.Country,
		Location:  domain.GeoPoint{Lat: d.Location.Coordinates[1], Lon: d.Location.Coordinates[0]},
		UTCOffset: d.UTCOffset,
		DST:       dst.ParseRegion(d.DST),
		TZName:    d.TZName,
	}
}

// AirportRepo implements ports.AirportRepository on a MongoDB collection.
type AirportRepo struct {
	col *mongo.Collection
}

// NewAirportRepo creates a new AirportRepo.
func NewAirportRepo(c *Client) *AirportRepo {
	return &AirportRepo{col: c.DB.Collection(airportsCollection)}
}

// EnsureIndexes creates the lookup and geo indexes.
func (r *AirportRepo) EnsureIndexes(ctx context.Context) error {
	_, err := r.col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "icao", Value: 1}}},
		{Keys: bson.D{{Key: "iata", Value: 1}}},
		{Keys: bson.D{{Key: "location", Value: "2dsphere"}}},
	})
	return err
}

// UpsertBatch replaces airports keyed by code in one unordered bulk write.
func (r *AirportRepo) UpsertBatch(ctx context.Context, airports []domain.Airport) error {
	if len(airports) == 0 {
		return nil
	}
	writes := make([]mongo.WriteModel, 0, len(airports))
	for _, a := range airports {
		d := toDoc(a)
		writes = append(writes, mongo.NewReplaceOneModel().
			SetFilter(bson.M{"_id": d.Code}).
			SetReplacement(d).
			SetUpsert(true))
	}
	if _, err := r.col.BulkWrite(ctx, writes, options.BulkWrite().SetOrdered(false)); err != nil {
		return fmt.Errorf("bulk upsert airports: %w", err)
	}
	return nil
}

// GetByCode returns an airport by ICAO or IATA code.
func (r *AirportRepo) GetByCode(ctx context.Context, code string) (*domain.Airport, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	var d airportDoc
	err := r.col.FindOne(ctx, bson.M{"$or": bson.A{bson.M{"icao": code}, bson.M{"iata": code}}}).Decode(&d)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("%w: %q", domain.ErrAirportNotFound, code)
	}
	if err != nil {
		return nil, err
	}
	a := d.airport()
	return &a, nil
}

// List returns every airport ordered by code.
func (r *AirportRepo) List(ctx context.Context) ([]domain.Airport, error) {
	cur, err := r.col.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("find airports: %w", err)
	}
	defer cur.Close(ctx)

	var airports []domain.Airport
	for cur.Next(ctx) {
		var d airportDoc
		if err := cur.Decode(&d); err != nil {
			return nil, err
		}
		airports = append(airports, d.airport())
	}
	return airports, cur.Err()
}

// Count returns the number of stored airports.
func (r *AirportRepo) Count(ctx context.Context) (int, error) {
	n, err := r.col.CountDocuments(ctx, bson.M{})
	return int(n), err
}
