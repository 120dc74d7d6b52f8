package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/graphql-go/graphql"

	"github.com/samirrijal/skylog/internal/core/domain"
)

// buildSchema creates the GraphQL schema wired to our services.
func buildSchema(deps *Dependencies) (graphql.Schema, error) {
	geoPointType := graphql.NewObject(graphql.ObjectConfig{
		Name: "GeoPoint",
		Fields: graphql.Fields{
			"lat": &graphql.Field{Type: graphql.Float},
			"lon": &graphql.Field{Type: graphql.Float},
		},
	})

	airportType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Airport",
		Fields: graphql.Fields{
			"icao":       &graphql.Field{Type: graphql.String},
			"iata":       &graphql.Field{Type: graphql.String},
			"name":       &graphql.Field{Type: graphql.String},
			"city":       &graphql.Field{Type: graphql.String},
			"country":    &graphql.Field{Type: graphql.String},
			"location":   &graphql.Field{Type: geoPointType},
			"utc_offset": &graphql.Field{Type: graphql.Float},
			"dst": &graphql.Field{
				Type: graphql.String,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					if a, ok := p.Source.(*domain.Airport); ok {
						return a.DST.String(), nil
					}
					return nil, nil
				},
			},
			"tz_name": &graphql.Field{Type: graphql.String},
		},
	})

	stampType := graphql.NewObject(graphql.ObjectConfig{
		Name: "DateTime",
		Fields: graphql.Fields{
			"date": &graphql.Field{Type: graphql.String},
			"time": &graphql.Field{Type: graphql.String},
		},
	})

	reportType := graphql.NewObject(graphql.ObjectConfig{
		Name: "NightReport",
		Fields: graphql.Fields{
			"flight_id":       &graphql.Field{Type: graphql.String},
			"from":            &graphql.Field{Type: graphql.String},
			"to":              &graphql.Field{Type: graphql.String},
			"departure_utc":   timeField(func(r *domain.FlightReport) time.Time { return r.DepartureUTC }),
			"arrival_utc":     timeField(func(r *domain.FlightReport) time.Time { return r.ArrivalUTC }),
			"duration_hours":  &graphql.Field{Type: graphql.Float},
			"night_hours":     &graphql.Field{Type: graphql.Float},
			"day_hours":       &graphql.Field{Type: graphql.Float},
			"distance_nm":     &graphql.Field{Type: graphql.Float},
			"night_takeoff":   &graphql.Field{Type: graphql.Boolean},
			"night_landing":   &graphql.Field{Type: graphql.Boolean},
			"departure_local": &graphql.Field{Type: stampType},
			"arrival_local":   &graphql.Field{Type: stampType},
		},
	})

	sunType := graphql.NewObject(graphql.ObjectConfig{
		Name: "SunEvents",
		Fields: graphql.Fields{
			"airport":    &graphql.Field{Type: graphql.String},
			"date":       &graphql.Field{Type: graphql.String},
			"civil_dawn": sunField(func(e *domain.SunEvents) time.Time { return e.CivilDawn }),
			"sunrise":    sunField(func(e *domain.SunEvents) time.Time { return e.Sunrise }),
			"sunset":     sunField(func(e *domain.SunEvents) time.Time { return e.Sunset }),
			"civil_dusk": sunField(func(e *domain.SunEvents) time.Time { return e.CivilDusk }),
		},
	})

	conversionArgs := graphql.FieldConfigArgument{
		"date":    &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
		"time":    &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
		"airport": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
	}

	queryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"airport": &graphql.Field{
				Type:        airportType,
				Description: "Get an airport by ICAO or IATA code",
				Args: graphql.FieldConfigArgument{
					"code": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return deps.Airports.Get(p.Args["code"].(string))
				},
			},
			"localTime": &graphql.Field{
				Type:        stampType,
				Description: "Convert a UTC date and time to local time at an airport",
				Args:        conversionArgs,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					d, t := deps.Times.UTCToLocal(p.Args["date"].(string), p.Args["time"].(string), p.Args["airport"].(string))
					return domain.LocalStamp{Date: d, Time: t}, nil
				},
			},
			"utcTime": &graphql.Field{
				Type:        stampType,
				Description: "Convert a local date and time at an airport to UTC",
				Args:        conversionArgs,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					d, t := deps.Times.LocalToUTC(p.Args["date"].(string), p.Args["time"].(string), p.Args["airport"].(string))
					return domain.LocalStamp{Date: d, Time: t}, nil
				},
			},
			"nightReport": &graphql.Field{
				Type:        reportType,
				Description: "Night hours along the great-circle path of a flight",
				Args: graphql.FieldConfigArgument{
					"from":     &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"to":       &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"date":     &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"time":     &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"duration": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return deps.Night.Calculate(p.Context, domain.FlightRequest{
						From:          p.Args["from"].(string),
						To:            p.Args["to"].(string),
						DepartureDate: p.Args["date"].(string),
						DepartureTime: p.Args["time"].(string),
						DurationHours: p.Args["duration"].(float64),
					})
				},
			},
			"sunEvents": &graphql.Field{
				Type:        sunType,
				Description: "Civil twilight and sunrise/sunset at an airport on a dd/MM/yyyy date",
				Args: graphql.FieldConfigArgument{
					"airport": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"date":    &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return deps.Sun.Events(p.Args["airport"].(string), p.Args["date"].(string))
				},
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{
		Query: queryType,
	})
}

// timeField renders a report instant as RFC 3339.
func timeField(get func(*domain.FlightReport) time.Time) *graphql.Field {
	return &graphql.Field{
		Type: graphql.String,
		Resolve: func(p graphql.ResolveParams) (interface{}, error) {
			if r, ok := p.Source.(*domain.FlightReport); ok {
				return get(r).Format(time.RFC3339), nil
			}
			return nil, nil
		},
	}
}

// sunField renders a sun event as RFC 3339, or null when it does not occur.
func sunField(get func(*domain.SunEvents) time.Time) *graphql.Field {
	return &graphql.Field{
		Type: graphql.String,
		Resolve: func(p graphql.ResolveParams) (interface{}, error) {
			e, ok := p.Source.(*domain.SunEvents)
			if !ok || get(e).IsZero() {
				return nil, nil
			}
			return get(e).Format(time.RFC3339), nil
		},
	}
}

// GraphQLHandler serves the GraphQL endpoint.
func GraphQLHandler(deps *Dependencies) fiber.Handler {
	schema, err := buildSchema(deps)
	if err != nil {
		panic("graphql schema build: " + err.Error())
	}

	type gqlRequest struct {
		Query         string                 `json:"query"`
		OperationName string                 `json:"operationName"`
		Variables     map[string]interface{} `json:"variables"`
	}

	return func(c *fiber.Ctx) error {
		var req gqlRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid request body")
		}

		result := graphql.Do(graphql.Params{
			Schema:         schema,
			RequestString:  req.Query,
			VariableValues: req.Variables,
			OperationName:  req.OperationName,
			Context:        c.UserContext(),
		})

		return c.JSON(result)
	}
}
