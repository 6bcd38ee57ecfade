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

var bookingCols = []string{"id", "flight_id", "user_id", "passengers", "created_at"}

func TestBookingGetByIDUnmarshalsPassengers(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	passengers := []model.Passenger{
		{Name: "Alice", Passport: "P1", DOB: "1990-01-01", Row: 2, Column: "A"},
	}
	doc, err := json.Marshal(passengers)
	require.NoError(t, err)
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("FROM bookings WHERE id=?")).
		WithArgs("b-1").
		WillReturnRows(sqlmock.NewRows(bookingCols).AddRow("b-1", "f-1", int64(7), doc, now))

	b, err := NewBookingRepo(db).GetByID(context.Background(), "b-1")
	require.NoError(t, err)
	require.NotNil(t, b.UserID)
	assert.Equal(t, uint64(7), *b.UserID)
	require.Len(t, b.Passengers, 1)
	assert.Equal(t, "Alice", b.Passengers[0].Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookingGetByIDAdminBookingHasNoUser(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta("FROM bookings WHERE id=?")).
		WithArgs("b-2").
		WillReturnRows(sqlmock.NewRows(bookingCols).AddRow("b-2", "f-1", nil, []byte("[]"), now))

	b, err := NewBookingRepo(db).GetByID(context.Background(), "b-2")
	require.NoError(t, err)
	assert.Nil(t, b.UserID)
}

func TestBookingGetByIDNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta("FROM bookings WHERE id=?")).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows(bookingCols))

	_, err = NewBookingRepo(db).GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestBookingUpdatePassengersMissingBooking(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta("UPDATE bookings SET passengers=? WHERE id=?")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err = NewBookingRepo(db).UpdatePassengers(context.Background(), "missing", nil)
	assert.ErrorIs(t, err, ErrBookingNotFound)
}
