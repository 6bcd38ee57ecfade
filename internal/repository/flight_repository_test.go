package repository

import (
	"context"
	"encoding/json"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skylane/flight-seat-booking/internal/model"
)

var flightCols = []string{
	"id", "plane_id", "plane_name", "departure", "destination",
	"fly_date", "departure_time", "price", "duration", "seats", "created_at",
}

func mustSeatsJSON(t *testing.T, seats []model.Seat) []byte {
	t.Helper()
	bs, err := json.Marshal(seats)
	require.NoError(t, err)
	return bs
}

func TestFlightGetByIDUnmarshalsSeats(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	seats := []model.Seat{
		{Row: 1, Column: "A", Type: model.SeatTypeWindow, Zone: model.ZoneAccessible, Status: model.SeatAvailable},
		{Row: 1, Column: "B", Type: model.SeatTypeAisle, Zone: model.ZoneAccessible, Status: model.SeatBooked},
	}
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("FROM flights WHERE id=?")).
		WithArgs("f-1").
		WillReturnRows(sqlmock.NewRows(flightCols).AddRow(
			"f-1", "p-1", "A320", "OSL", "CDG", "2026-03-15", now, 129.5, "2h30m",
			mustSeatsJSON(t, seats), now,
		))

	f, err := NewFlightRepo(db).GetByID(context.Background(), "f-1")
	require.NoError(t, err)
	assert.Equal(t, "A320", f.PlaneName)
	require.Len(t, f.Seats, 2)
	assert.Equal(t, model.SeatBooked, f.Seats[1].Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFlightGetByIDNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta("FROM flights WHERE id=?")).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows(flightCols))

	_, err = NewFlightRepo(db).GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrFlightNotFound)
}

func TestFlightListAppliesFilters(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	cols := []string{
		"id", "plane_id", "plane_name", "departure", "destination",
		"fly_date", "departure_time", "price", "duration", "created_at",
	}
	mock.ExpectQuery(regexp.QuoteMeta("WHERE departure=? AND fly_date=? ORDER BY departure_time")).
		WithArgs("OSL", "2026-03-15").
		WillReturnRows(sqlmock.NewRows(cols).AddRow(
			"f-1", "p-1", "A320", "OSL", "CDG", "2026-03-15", now, 129.5, "2h30m", now,
		))

	out, err := NewFlightRepo(db).List(context.Background(), FlightFilter{Departure: "OSL", Date: "2026-03-15"})
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Empty(t, out[0].Seats, "list must not carry seat maps")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFlightUpdateSeatsRewritesDocument(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	seats := []model.Seat{{Row: 1, Column: "A", Type: model.SeatTypeWindow, Zone: model.ZoneAccessible, Status: model.SeatBroken}}
	mock.ExpectExec(regexp.QuoteMeta("UPDATE flights SET seats=? WHERE id=?")).
		WithArgs(mustSeatsJSON(t, seats), "f-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, NewFlightRepo(db).UpdateSeats(context.Background(), "f-1", seats))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFlightUpdateSeatsMissingFlight(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta("UPDATE flights SET seats=? WHERE id=?")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err = NewFlightRepo(db).UpdateSeats(context.Background(), "missing", nil)
	assert.ErrorIs(t, err, ErrFlightNotFound)
}
