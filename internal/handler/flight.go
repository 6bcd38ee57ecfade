package handler

import (
	"errors"
	"fmt"
	"math/rand"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/skylane/flight-seat-booking/internal/clock"
	"github.com/skylane/flight-seat-booking/internal/lock"
	"github.com/skylane/flight-seat-booking/internal/model"
	"github.com/skylane/flight-seat-booking/internal/repository"
	"github.com/skylane/flight-seat-booking/internal/seatmap"
)

// FlightHandler implements flight CRUD plus the break-seats maintenance
// operation.  Flight creation generates the seat map from the plane's
// dimensions; every later seat mutation goes through the per-flight
// lock.
type FlightHandler struct {
	Flights *repository.FlightRepo
	Planes  *repository.PlaneRepo
	Locks   *lock.FlightLocks
	Clock   clock.Clock
	Log     *logrus.Logger
}

type flightRequest struct {
	PlaneID       string  `json:"planeId"`
	Departure     string  `json:"departure"`
	Destination   string  `json:"destination"`
	Date          string  `json:"date"`
	DepartureTime string  `json:"departureTime"`
	Price         float64 `json:"price"`
	Duration      string  `json:"duration"`
}

// Create schedules a flight.  The plane must exist; its name and a
// freshly generated seat map are snapshotted onto the flight.
func (h *FlightHandler) Create(c echo.Context) error {
	var req flightRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if req.PlaneID == "" || req.Departure == "" || req.Destination == "" ||
		req.Date == "" || req.DepartureTime == "" || req.Price <= 0 || req.Duration == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "All fields (planeId, departure, destination, date, departureTime, price, duration) are required.",
		})
	}

	depTime, err := time.Parse(time.RFC3339, req.DepartureTime)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Invalid departureTime. Use ISO 8601 format with timezone (e.g. 2025-05-21T14:30:00+05:30).",
		})
	}
	date, err := normalizeDate(req.Date)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid date. Use YYYY-MM-DD."})
	}

	ctx := c.Request().Context()
	plane, err := h.Planes.GetByID(ctx, req.PlaneID)
	if err != nil {
		if errors.Is(err, repository.ErrPlaneNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Invalid planeId. Plane not found."})
		}
		h.Log.WithError(err).Error("create flight: lookup plane")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create flight"})
	}

	f := &model.Flight{
		ID:            uuid.NewString(),
		PlaneID:       plane.ID,
		PlaneName:     plane.Name,
		Departure:     req.Departure,
		Destination:   req.Destination,
		Date:          date,
		DepartureTime: depTime.UTC(),
		Price:         req.Price,
		Duration:      req.Duration,
		Seats:         seatmap.Generate(plane.Rows, plane.Columns),
		CreatedAt:     h.Clock.Now(),
	}
	if err := h.Flights.Create(ctx, f); err != nil {
		h.Log.WithError(err).Error("create flight: insert")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create flight"})
	}

	h.Log.WithFields(logrus.Fields{"flight_id": f.ID, "seats": len(f.Seats)}).Info("flight created")
	return c.JSON(http.StatusCreated, f)
}

// List returns upcoming flights matching the optional departure,
// destination and date query filters.  Seat maps are omitted; flights
// already departed (relative to the injected clock) are filtered out.
func (h *FlightHandler) List(c echo.Context) error {
	flights, err := h.Flights.List(c.Request().Context(), repository.FlightFilter{
		Departure:   c.QueryParam("departure"),
		Destination: c.QueryParam("destination"),
		Date:        c.QueryParam("date"),
	})
	if err != nil {
		h.Log.WithError(err).Error("list flights")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not list flights"})
	}

	now := h.Clock.Now()
	upcoming := make([]model.Flight, 0, len(flights))
	for _, f := range flights {
		if f.DepartureTime.After(now) {
			upcoming = append(upcoming, f)
		}
	}
	return c.JSON(http.StatusOK, upcoming)
}

// Get returns one flight including its full seat map.
func (h *FlightHandler) Get(c echo.Context) error {
	f, err := h.Flights.GetByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrFlightNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Flight not found."})
		}
		h.Log.WithError(err).Error("get flight")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not load flight"})
	}
	return c.JSON(http.StatusOK, f)
}

type flightUpdateRequest struct {
	PlaneID       *string  `json:"planeId"`
	Departure     *string  `json:"departure"`
	Destination   *string  `json:"destination"`
	Date          *string  `json:"date"`
	DepartureTime *string  `json:"departureTime"`
	Price         *float64 `json:"price"`
	Duration      *string  `json:"duration"`
}

// Update partially updates a flight's schedule fields.  The seat map is
// never resized or regenerated here, even when planeId changes; only
// the plane reference and its name snapshot move.
func (h *FlightHandler) Update(c echo.Context) error {
	var req flightUpdateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}

	ctx := c.Request().Context()
	var u repository.FlightUpdate

	if req.PlaneID != nil {
		plane, err := h.Planes.GetByID(ctx, *req.PlaneID)
		if err != nil {
			if errors.Is(err, repository.ErrPlaneNotFound) {
				return c.JSON(http.StatusBadRequest, echo.Map{"error": "Updated planeId is invalid."})
			}
			h.Log.WithError(err).Error("update flight: lookup plane")
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not update flight"})
		}
		u.PlaneID = &plane.ID
		u.PlaneName = &plane.Name
	}
	if req.DepartureTime != nil {
		t, err := time.Parse(time.RFC3339, *req.DepartureTime)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{
				"error": "Invalid departureTime. Use ISO 8601 format with timezone (e.g. 2025-05-21T14:30:00+05:30).",
			})
		}
		utc := t.UTC()
		u.DepartureTime = &utc
	}
	if req.Date != nil {
		date, err := normalizeDate(*req.Date)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid date. Use YYYY-MM-DD."})
		}
		u.Date = &date
	}
	u.Departure = req.Departure
	u.Destination = req.Destination
	u.Price = req.Price
	u.Duration = req.Duration

	if err := h.Flights.Update(ctx, c.Param("id"), u); err != nil {
		if errors.Is(err, repository.ErrFlightNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Flight not found."})
		}
		h.Log.WithError(err).Error("update flight")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not update flight"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Flight updated"})
}

// Delete removes a flight and its seat map.
func (h *FlightHandler) Delete(c echo.Context) error {
	if err := h.Flights.Delete(c.Request().Context(), c.Param("id")); err != nil {
		if errors.Is(err, repository.ErrFlightNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Flight not found."})
		}
		h.Log.WithError(err).Error("delete flight")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not delete flight"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Flight deleted"})
}

type breakSeatsRequest struct {
	SeatCount int `json:"seatCount"`
}

// BreakSeats marks seatCount randomly chosen available seats as broken,
// taking them out of circulation.  Booked seats are never touched.
func (h *FlightHandler) BreakSeats(c echo.Context) error {
	var req breakSeatsRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if req.SeatCount < 1 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "seatCount must be a positive integer."})
	}

	ctx := c.Request().Context()
	flightID := c.Param("id")

	release, err := h.Locks.Acquire(ctx, flightID)
	if err != nil {
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "flight is busy, try again"})
	}
	defer release()

	f, err := h.Flights.GetByID(ctx, flightID)
	if err != nil {
		if errors.Is(err, repository.ErrFlightNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Flight not found."})
		}
		h.Log.WithError(err).Error("break seats: load flight")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not load flight"})
	}

	available := f.AvailableSeats()
	if len(available) < req.SeatCount {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": fmt.Sprintf("Only %d available seats; cannot break %d.", len(available), req.SeatCount),
		})
	}

	rand.Shuffle(len(available), func(i, j int) {
		available[i], available[j] = available[j], available[i]
	})
	broken := make([]echo.Map, 0, req.SeatCount)
	for _, seat := range available[:req.SeatCount] {
		seat.Status = model.SeatBroken
		broken = append(broken, echo.Map{"row": seat.Row, "column": seat.Column})
	}

	if err := h.Flights.UpdateSeats(ctx, flightID, f.Seats); err != nil {
		h.Log.WithError(err).Error("break seats: persist")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not update seats"})
	}

	h.Log.WithFields(logrus.Fields{"flight_id": flightID, "count": req.SeatCount}).Info("seats broken")
	return c.JSON(http.StatusOK, echo.Map{"brokenSeats": broken})
}

// normalizeDate accepts a plain date or a full timestamp and returns
// the YYYY-MM-DD form.
func normalizeDate(s string) (string, error) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t.Format("2006-01-02"), nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.Format("2006-01-02"), nil
	}
	return "", fmt.Errorf("unrecognized date %q", s)
}
