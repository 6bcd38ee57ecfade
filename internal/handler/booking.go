package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/skylane/flight-seat-booking/internal/clock"
	"github.com/skylane/flight-seat-booking/internal/lock"
	"github.com/skylane/flight-seat-booking/internal/model"
	"github.com/skylane/flight-seat-booking/internal/queue"
	"github.com/skylane/flight-seat-booking/internal/repository"
	"github.com/skylane/flight-seat-booking/internal/seatmap"
	"github.com/skylane/flight-seat-booking/internal/service"
)

// BookingHandler coordinates seat assignment against flights.  Every
// operation that mutates a seat map runs under the per-flight lock so
// concurrent bookings never overwrite each other's seat document.
type BookingHandler struct {
	Flights  *repository.FlightRepo
	Bookings *repository.BookingRepo
	Locks    *lock.FlightLocks
	Selector *seatmap.Selector
	Clock    clock.Clock
	Events   *service.BookingPublisher
	Log      *logrus.Logger
}

type createBookingRequest struct {
	FlightID   string            `json:"flightId"`
	Passengers []model.Passenger `json:"passengers"`
}

// Create books seats for 1 to 7 passengers on one flight.  Seats are
// chosen by the selector; the updated seat map is persisted before the
// booking document, and the whole sequence holds the flight lock so a
// failed request never leaves partial seat state behind.
func (h *BookingHandler) Create(c echo.Context) error {
	var req createBookingRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if req.FlightID == "" || len(req.Passengers) == 0 || len(req.Passengers) > 7 {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Flight ID and between 1-7 passengers are required.",
		})
	}

	ctx := c.Request().Context()

	release, err := h.Locks.Acquire(ctx, req.FlightID)
	if err != nil {
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "flight is busy, try again"})
	}
	defer release()

	f, err := h.Flights.GetByID(ctx, req.FlightID)
	if err != nil {
		if errors.Is(err, repository.ErrFlightNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Flight not found."})
		}
		h.Log.WithError(err).Error("create booking: load flight")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not load flight"})
	}
	if len(f.Seats) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "No seats are configured on this flight."})
	}
	if len(f.AvailableSeats()) < len(req.Passengers) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Not enough available seats for that many passengers."})
	}

	bookingID := uuid.NewString()
	assigned, err := h.Selector.Assign(f.Seats, req.Passengers, bookingID)
	if err != nil {
		// Selector failures are all client errors: an unsatisfiable
		// request or a malformed date of birth.  The in-memory seat
		// map may be partially marked but is never persisted here.
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	if err := h.Flights.UpdateSeats(ctx, req.FlightID, f.Seats); err != nil {
		h.Log.WithError(err).Error("create booking: persist seats")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not persist seat assignment"})
	}

	booking := &model.Booking{
		BookingID:  bookingID,
		FlightID:   req.FlightID,
		Passengers: assigned,
		CreatedAt:  h.Clock.Now(),
	}
	if uid, err := getUserID(c); err == nil {
		booking.UserID = &uid
	}
	if err := h.Bookings.Create(ctx, booking); err != nil {
		h.Log.WithError(err).Error("create booking: persist booking")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not persist booking"})
	}

	h.Log.WithFields(logrus.Fields{
		"booking_id": bookingID,
		"flight_id":  req.FlightID,
		"passengers": len(assigned),
	}).Info("booking created")
	h.Events.PublishBookingCreated(bookingEvent(booking))

	return c.JSON(http.StatusCreated, echo.Map{
		"message":    "Booking successful",
		"bookingId":  bookingID,
		"passengers": assigned,
	})
}

type manualBookingRequest struct {
	FlightID string `json:"flightId"`
	Seat     struct {
		Row    int    `json:"row"`
		Column string `json:"column"`
	} `json:"seat"`
	Passenger model.Passenger `json:"passenger"`
}

// Manual books one named seat for one passenger, bypassing the
// selector.  Admin only.
func (h *BookingHandler) Manual(c echo.Context) error {
	var req manualBookingRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if req.FlightID == "" || req.Seat.Row == 0 || req.Seat.Column == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "flightId and seat (row, column) are required"})
	}

	ctx := c.Request().Context()

	release, err := h.Locks.Acquire(ctx, req.FlightID)
	if err != nil {
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "flight is busy, try again"})
	}
	defer release()

	f, err := h.Flights.GetByID(ctx, req.FlightID)
	if err != nil {
		if errors.Is(err, repository.ErrFlightNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Flight not found"})
		}
		h.Log.WithError(err).Error("manual booking: load flight")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not load flight"})
	}

	seat := f.SeatAt(req.Seat.Row, req.Seat.Column)
	if seat == nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Seat not found"})
	}
	if seat.Status != model.SeatAvailable {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Seat is not available"})
	}

	bookingID := uuid.NewString()
	seat.Status = model.SeatBooked
	seat.AssignedTo = &bookingID

	p := req.Passenger
	p.Row = seat.Row
	p.Column = seat.Column
	booking := &model.Booking{
		BookingID:  bookingID,
		FlightID:   req.FlightID,
		Passengers: []model.Passenger{p},
		CreatedAt:  h.Clock.Now(),
	}
	if err := h.Bookings.Create(ctx, booking); err != nil {
		h.Log.WithError(err).Error("manual booking: persist booking")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not persist booking"})
	}
	if err := h.Flights.UpdateSeats(ctx, req.FlightID, f.Seats); err != nil {
		h.Log.WithError(err).Error("manual booking: persist seats")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not persist seat assignment"})
	}

	h.Log.WithFields(logrus.Fields{"booking_id": bookingID, "flight_id": req.FlightID}).Info("manual booking created")
	h.Events.PublishBookingCreated(bookingEvent(booking))

	return c.JSON(http.StatusCreated, echo.Map{"message": "Manual booking successful", "bookingId": bookingID})
}

// Get returns one booking document.
func (h *BookingHandler) Get(c echo.Context) error {
	b, err := h.Bookings.GetByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrBookingNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Booking not found"})
		}
		h.Log.WithError(err).Error("get booking")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not load booking"})
	}
	return c.JSON(http.StatusOK, b)
}

type moveSeatRequest struct {
	NewRow    int    `json:"newRow"`
	NewColumn string `json:"newColumn"`
}

// UpdatePassengerSeat moves the passenger currently holding the seat
// named in the path to a different seat on the same flight.
func (h *BookingHandler) UpdatePassengerSeat(c echo.Context) error {
	bookingID := c.Param("bookingId")
	row, column, err := seatParams(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "row must be an integer"})
	}

	var req moveSeatRequest
	if err := c.Bind(&req); err != nil || req.NewRow == 0 || req.NewColumn == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "newRow and newColumn are required."})
	}

	ctx := c.Request().Context()

	booking, err := h.Bookings.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, repository.ErrBookingNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Booking not found."})
		}
		h.Log.WithError(err).Error("move seat: load booking")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not load booking"})
	}
	idx := booking.PassengerAt(row, column)
	if idx < 0 {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Passenger not found at that seat."})
	}

	release, err := h.Locks.Acquire(ctx, booking.FlightID)
	if err != nil {
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "flight is busy, try again"})
	}
	defer release()

	f, err := h.Flights.GetByID(ctx, booking.FlightID)
	if err != nil {
		if errors.Is(err, repository.ErrFlightNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Flight not found."})
		}
		h.Log.WithError(err).Error("move seat: load flight")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not load flight"})
	}

	// The old seat is freed before the target check, so moving a
	// passenger onto their current seat is a valid no-op.  Nothing is
	// persisted until both steps succeed.
	if old := f.SeatAt(row, column); old != nil {
		old.Status = model.SeatAvailable
		old.AssignedTo = nil
	}

	target := f.SeatAt(req.NewRow, req.NewColumn)
	if target == nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Requested seat does not exist."})
	}
	if target.Status != model.SeatAvailable {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Requested seat is not available."})
	}
	target.Status = model.SeatBooked
	target.AssignedTo = &bookingID

	booking.Passengers[idx].Row = req.NewRow
	booking.Passengers[idx].Column = req.NewColumn

	if err := h.Flights.UpdateSeats(ctx, booking.FlightID, f.Seats); err != nil {
		h.Log.WithError(err).Error("move seat: persist seats")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not persist seat change"})
	}
	if err := h.Bookings.UpdatePassengers(ctx, bookingID, booking.Passengers); err != nil {
		h.Log.WithError(err).Error("move seat: persist booking")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not persist seat change"})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"message":  "Passenger seat updated",
		"passport": booking.Passengers[idx].Passport,
	})
}

// RemovePassenger frees the seat named in the path and drops that
// passenger from the booking.  The booking document survives even when
// its last passenger is removed.
func (h *BookingHandler) RemovePassenger(c echo.Context) error {
	bookingID := c.Param("bookingId")
	row, column, err := seatParams(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "row must be an integer"})
	}

	ctx := c.Request().Context()

	booking, err := h.Bookings.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, repository.ErrBookingNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Booking not found."})
		}
		h.Log.WithError(err).Error("remove passenger: load booking")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not load booking"})
	}
	idx := booking.PassengerAt(row, column)
	if idx < 0 {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Passenger not found at that seat."})
	}

	release, err := h.Locks.Acquire(ctx, booking.FlightID)
	if err != nil {
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "flight is busy, try again"})
	}
	defer release()

	f, err := h.Flights.GetByID(ctx, booking.FlightID)
	if err != nil {
		if errors.Is(err, repository.ErrFlightNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Flight not found."})
		}
		h.Log.WithError(err).Error("remove passenger: load flight")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not load flight"})
	}

	if seat := f.SeatAt(row, column); seat != nil {
		seat.Status = model.SeatAvailable
		seat.AssignedTo = nil
	}
	remaining := append(booking.Passengers[:idx:idx], booking.Passengers[idx+1:]...)

	if err := h.Flights.UpdateSeats(ctx, booking.FlightID, f.Seats); err != nil {
		h.Log.WithError(err).Error("remove passenger: persist seats")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not persist seat change"})
	}
	if err := h.Bookings.UpdatePassengers(ctx, bookingID, remaining); err != nil {
		h.Log.WithError(err).Error("remove passenger: persist booking")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not persist seat change"})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"message": "Passenger removed",
		"seat":    echo.Map{"row": row, "column": column},
	})
}

func seatParams(c echo.Context) (int, string, error) {
	row, err := strconv.Atoi(c.Param("row"))
	if err != nil {
		return 0, "", fmt.Errorf("bad row param: %w", err)
	}
	return row, c.Param("column"), nil
}

func bookingEvent(b *model.Booking) queue.BookingCreatedEvent {
	seats := make([]string, 0, len(b.Passengers))
	for _, p := range b.Passengers {
		seats = append(seats, fmt.Sprintf("%d%s", p.Row, p.Column))
	}
	return queue.BookingCreatedEvent{
		BookingID:      b.BookingID,
		FlightID:       b.FlightID,
		UserID:         b.UserID,
		Seats:          seats,
		PassengerCount: len(b.Passengers),
		CreatedAt:      b.CreatedAt,
	}
}
