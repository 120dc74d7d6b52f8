package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/samirrijal/skylog/internal/core/domain"
	"github.com/samirrijal/skylog/internal/pkg/clock"
)

// maxBatchFlights caps a single recalculation request.
const maxBatchFlights = 1000

// ConversionResponse is returned by the local/UTC time endpoints.
type ConversionResponse struct {
	Airport    string `json:"airport"`
	Australian bool   `json:"australian"`
	InputDate  string `json:"input_date"`
	InputTime  string `json:"input_time"`
	Date       string `json:"date"`
	Time       string `json:"time"`
}

// NightPointResponse is returned by the point check endpoint.
type NightPointResponse struct {
	Airport string `json:"airport"`
	Date    string `json:"date"`
	Time    string `json:"time"`
	Night   bool   `json:"night"`
}

// RecalculationRequest is the body of POST /v1/recalculations.
type RecalculationRequest struct {
	BatchID string                 `json:"batch_id"`
	Flights []domain.FlightRequest `json:"flights"`
}

// ListAirportsHandler returns a page of the airport directory.
func ListAirportsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		offset, limit := pageQuery(c)
		airports, total := deps.Airports.List(offset, limit)
		if airports == nil {
			airports = []domain.Airport{}
		}

		pg := Pagination{Offset: offset, Limit: limit, Total: total}
		SetLinkHeaders(c, pg)
		return c.JSON(PaginatedResponse{Data: airports, Pagination: pg})
	}
}

// GetAirportHandler returns a single airport by ICAO or IATA code.
func GetAirportHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		a, err := deps.Airports.Get(c.Params("code"))
		if err != nil {
			return errFromDomain(c, err)
		}
		return c.JSON(a)
	}
}

// SunEventsHandler returns twilight and sunrise/sunset times at an airport.
// The date defaults to today (UTC).
func SunEventsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		date := c.Query("date", clock.FormatDate(time.Now().UTC()))
		ev, err := deps.Sun.Events(c.Params("code"), date)
		if err != nil {
			return errFromDomain(c, err)
		}
		return c.JSON(ev)
	}
}

// LocalTimeHandler converts a UTC date and time to local time at an airport.
// Unresolvable input is echoed back unchanged.
func LocalTimeHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		date, clk, code, ok := conversionQuery(c)
		if !ok {
			return errBadRequest(c, missingConversionParams)
		}
		d, t := deps.Times.UTCToLocal(date, clk, code)
		return c.JSON(ConversionResponse{
			Airport:    code,
			Australian: deps.Times.IsAustralianAirport(code),
			InputDate:  date,
			InputTime:  clk,
			Date:       d,
			Time:       t,
		})
	}
}

// UTCTimeHandler converts a local date and time at an airport to UTC.
// Unresolvable input is echoed back unchanged.
func UTCTimeHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		date, clk, code, ok := conversionQuery(c)
		if !ok {
			return errBadRequest(c, missingConversionParams)
		}
		d, t := deps.Times.LocalToUTC(date, clk, code)
		return c.JSON(ConversionResponse{
			Airport:    code,
			Australian: deps.Times.IsAustralianAirport(code),
			InputDate:  date,
			InputTime:  clk,
			Date:       d,
			Time:       t,
		})
	}
}

const missingConversionParams = "date, time and airport query parameters are required"

func conversionQuery(c *fiber.Ctx) (date, clk, code string, ok bool) {
	date, clk, code = c.Query("date"), c.Query("time"), c.Query("airport")
	return date, clk, code, date != "" && clk != "" && code != ""
}

// NightPointHandler reports whether it is night at an airport at a UTC instant.
func NightPointHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		date, clk, code, ok := conversionQuery(c)
		if !ok {
			return errBadRequest(c, missingConversionParams)
		}
		night, err := deps.Night.IsNightAt(code, date, clk)
		if err != nil {
			return errFromDomain(c, err)
		}
		return c.JSON(NightPointResponse{Airport: code, Date: date, Time: clk, Night: night})
	}
}

// NightReportHandler computes the night breakdown for a flight.
func NightReportHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req domain.FlightRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid request body")
		}
		if req.From == "" || req.To == "" {
			return errBadRequest(c, "from and to are required")
		}

		report, err := deps.Night.Calculate(c.UserContext(), req)
		if err != nil {
			return errFromDomain(c, err)
		}
		c.Set(fiber.HeaderCacheControl, "no-store")
		return c.JSON(report)
	}
}

// QueueNightHandler queues a flight for asynchronous calculation. The report
// is delivered over NATS and the WebSocket feed.
func QueueNightHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req domain.FlightRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid request body")
		}
		if req.ID == "" {
			req.ID = uuid.NewString()
		}

		if err := deps.Night.Enqueue(c.UserContext(), req); err != nil {
			return errFromDomain(c, err)
		}
		return c.Status(fiber.StatusAccepted).JSON(fiber.Map{"id": req.ID, "status": "queued"})
	}
}

// NightPathHandler returns the sampled great-circle path of a flight with the
// night flag at each sample.
func NightPathHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req domain.FlightRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid request body")
		}

		segments, err := deps.Night.Path(req)
		if err != nil {
			return errFromDomain(c, err)
		}
		if segments == nil {
			segments = []domain.FlightSegment{}
		}
		return c.JSON(fiber.Map{"segments": segments})
	}
}

// RecalculationHandler starts a batch recalculation workflow.
func RecalculationHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if deps.Workflows == nil {
			return errUnavailable(c, "recalculation workflows are not enabled")
		}

		var req RecalculationRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid request body")
		}
		if len(req.Flights) == 0 {
			return errBadRequest(c, "flights must not be empty")
		}
		if len(req.Flights) > maxBatchFlights {
			return errBadRequest(c, "too many flights (max 1000)")
		}
		if req.BatchID == "" {
			req.BatchID = uuid.NewString()
		}

		runID, err := deps.Workflows.StartRecalculation(c.UserContext(), req.BatchID, req.Flights)
		if err != nil {
			return errFromDomain(c, err)
		}
		return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
			"batch_id": req.BatchID,
			"run_id":   runID,
			"flights":  len(req.Flights),
		})
	}
}
