package handler

import (
	"encoding/json"
	"net/http"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skylane/flight-seat-booking/internal/lock"
	"github.com/skylane/flight-seat-booking/internal/model"
	"github.com/skylane/flight-seat-booking/internal/repository"
)

var planeRowCols = []string{"id", "name", "seat_rows", "seat_cols", "created_at"}

func newFlightHandler(t *testing.T) (*FlightHandler, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return &FlightHandler{
		Flights: repository.NewFlightRepo(db),
		Planes:  repository.NewPlaneRepo(db),
		Locks:   lock.New(nil),
		Clock:   testClock(),
		Log:     quietLogger(),
	}, mock
}

func TestCreateFlightGeneratesSeatMap(t *testing.T) {
	h, mock := newFlightHandler(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM planes WHERE id=?")).
		WithArgs("p-1").
		WillReturnRows(sqlmock.NewRows(planeRowCols).AddRow("p-1", "A320", 3, 4, testNow))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO flights")).
		WillReturnResult(sqlmock.NewResult(1, 1))

	c, rec := newJSONContext(t, http.MethodPost, "/v1/flights",
		`{"planeId":"p-1","departure":"OSL","destination":"CDG","date":"2026-07-01",
		  "departureTime":"2026-07-01T09:00:00+02:00","price":129.5,"duration":"2h30m"}`)
	require.NoError(t, h.Create(c))

	assert.Equal(t, http.StatusCreated, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "A320", body["planeName"])

	seats := body["seats"].([]interface{})
	require.Len(t, seats, 12)
	first := seats[0].(map[string]interface{})
	assert.Equal(t, "window", first["type"])
	assert.Equal(t, "accessible", first["zone"])
	assert.Equal(t, "available", first["status"])
	last := seats[11].(map[string]interface{})
	assert.Equal(t, "VIP", last["zone"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateFlightRequiresAllFields(t *testing.T) {
	h, _ := newFlightHandler(t)

	c, rec := newJSONContext(t, http.MethodPost, "/v1/flights", `{"planeId":"p-1"}`)
	require.NoError(t, h.Create(c))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t,
		"All fields (planeId, departure, destination, date, departureTime, price, duration) are required.",
		decodeBody(t, rec)["error"])
}

func TestCreateFlightRejectsBadDepartureTime(t *testing.T) {
	h, _ := newFlightHandler(t)

	c, rec := newJSONContext(t, http.MethodPost, "/v1/flights",
		`{"planeId":"p-1","departure":"OSL","destination":"CDG","date":"2026-07-01",
		  "departureTime":"tomorrow at nine","price":100,"duration":"2h"}`)
	require.NoError(t, h.Create(c))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decodeBody(t, rec)["error"], "Invalid departureTime")
}

func TestCreateFlightUnknownPlane(t *testing.T) {
	h, mock := newFlightHandler(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM planes WHERE id=?")).
		WithArgs("ghost").
		WillReturnRows(sqlmock.NewRows(planeRowCols))

	c, rec := newJSONContext(t, http.MethodPost, "/v1/flights",
		`{"planeId":"ghost","departure":"OSL","destination":"CDG","date":"2026-07-01",
		  "departureTime":"2026-07-01T09:00:00Z","price":100,"duration":"2h"}`)
	require.NoError(t, h.Create(c))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Invalid planeId. Plane not found.", decodeBody(t, rec)["error"])
}

func TestListFlightsDropsDepartedOnes(t *testing.T) {
	h, mock := newFlightHandler(t)

	cols := []string{
		"id", "plane_id", "plane_name", "departure", "destination",
		"fly_date", "departure_time", "price", "duration", "created_at",
	}
	past := testNow.Add(-2 * time.Hour)
	future := testNow.Add(48 * time.Hour)
	mock.ExpectQuery(regexp.QuoteMeta("FROM flights")).
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow("f-old", "p-1", "A320", "OSL", "CDG", "2026-06-15", past, 99.0, "2h", past).
			AddRow("f-new", "p-1", "A320", "OSL", "CDG", "2026-06-17", future, 99.0, "2h", past))

	c, rec := newJSONContext(t, http.MethodGet, "/v1/flights", "")
	require.NoError(t, h.List(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	var out []model.Flight
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	require.Len(t, out, 1)
	assert.Equal(t, "f-new", out[0].ID)
}

func TestBreakSeatsRejectsNonPositiveCount(t *testing.T) {
	h, _ := newFlightHandler(t)

	c, rec := newJSONContext(t, http.MethodPost, "/v1/flights/f-1/breakSeats", `{"seatCount":0}`)
	c.SetPath("/v1/flights/:id/breakSeats")
	c.SetParamNames("id")
	c.SetParamValues("f-1")
	require.NoError(t, h.BreakSeats(c))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "seatCount must be a positive integer.", decodeBody(t, rec)["error"])
}

func TestBreakSeatsRejectsBreakingMoreThanAvailable(t *testing.T) {
	h, mock := newFlightHandler(t)

	bid := "b-1"
	seats := []model.Seat{
		{Row: 1, Column: "A", Type: model.SeatTypeWindow, Zone: model.ZoneAccessible, Status: model.SeatAvailable},
		{Row: 1, Column: "B", Type: model.SeatTypeAisle, Zone: model.ZoneAccessible, Status: model.SeatBooked, AssignedTo: &bid},
	}
	expectBreakSeatsFlightLoad(t, mock, "f-1", seats)

	c, rec := newJSONContext(t, http.MethodPost, "/v1/flights/f-1/breakSeats", `{"seatCount":2}`)
	c.SetPath("/v1/flights/:id/breakSeats")
	c.SetParamNames("id")
	c.SetParamValues("f-1")
	require.NoError(t, h.BreakSeats(c))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Only 1 available seats; cannot break 2.", decodeBody(t, rec)["error"])
}

func TestBreakSeatsNeverTouchesBookedSeats(t *testing.T) {
	h, mock := newFlightHandler(t)

	bid := "b-1"
	seats := []model.Seat{
		{Row: 1, Column: "A", Type: model.SeatTypeWindow, Zone: model.ZoneAccessible, Status: model.SeatAvailable},
		{Row: 1, Column: "B", Type: model.SeatTypeAisle, Zone: model.ZoneAccessible, Status: model.SeatBooked, AssignedTo: &bid},
	}
	expectBreakSeatsFlightLoad(t, mock, "f-1", seats)
	mock.ExpectExec(regexp.QuoteMeta("UPDATE flights SET seats=? WHERE id=?")).
		WillReturnResult(sqlmock.NewResult(0, 1))

	c, rec := newJSONContext(t, http.MethodPost, "/v1/flights/f-1/breakSeats", `{"seatCount":1}`)
	c.SetPath("/v1/flights/:id/breakSeats")
	c.SetParamNames("id")
	c.SetParamValues("f-1")
	require.NoError(t, h.BreakSeats(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	broken := body["brokenSeats"].([]interface{})
	require.Len(t, broken, 1)
	seat := broken[0].(map[string]interface{})
	assert.Equal(t, "A", seat["column"], "only the available seat may break")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func expectBreakSeatsFlightLoad(t *testing.T, mock sqlmock.Sqlmock, flightID string, seats []model.Seat) {
	t.Helper()
	dep := time.Date(2026, 7, 1, 9, 0, 0, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta("FROM flights WHERE id=?")).
		WithArgs(flightID).
		WillReturnRows(sqlmock.NewRows(flightRowCols).AddRow(
			flightID, "p-1", "A320", "OSL", "CDG", "2026-07-01", dep, 99.0, "2h", seatsJSON(t, seats), dep,
		))
}
