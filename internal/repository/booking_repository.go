package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/skylane/flight-seat-booking/internal/model"
)

// ErrBookingNotFound is returned when a booking ID does not exist.
var ErrBookingNotFound = errors.New("booking not found")

// BookingRepo persists bookings.  Like flights, a booking stores its
// passenger list as one JSON document that is rewritten whole whenever a
// passenger's seat changes or a passenger is removed.
type BookingRepo struct {
	db *sql.DB
}

// NewBookingRepo constructs a BookingRepo given a DB handle.
func NewBookingRepo(db *sql.DB) *BookingRepo {
	return &BookingRepo{db: db}
}

// Create inserts a new booking document.
func (r *BookingRepo) Create(ctx context.Context, b *model.Booking) error {
	passengers, err := json.Marshal(b.Passengers)
	if err != nil {
		return fmt.Errorf("marshal passengers: %w", err)
	}
	var userID sql.NullInt64
	if b.UserID != nil {
		userID = sql.NullInt64{Int64: int64(*b.UserID), Valid: true}
	}
	_, err = r.db.ExecContext(ctx,
		"INSERT INTO bookings (id, flight_id, user_id, passengers, created_at) VALUES (?,?,?,?,?)",
		b.BookingID, b.FlightID, userID, passengers, b.CreatedAt)
	return err
}

// GetByID loads one booking with its passenger list.
func (r *BookingRepo) GetByID(ctx context.Context, id string) (*model.Booking, error) {
	var (
		b          model.Booking
		userID     sql.NullInt64
		passengers []byte
	)
	err := r.db.QueryRowContext(ctx,
		"SELECT id, flight_id, user_id, passengers, created_at FROM bookings WHERE id=? LIMIT 1", id).
		Scan(&b.BookingID, &b.FlightID, &userID, &passengers, &b.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	if userID.Valid {
		uid := uint64(userID.Int64)
		b.UserID = &uid
	}
	if len(passengers) > 0 {
		if err := json.Unmarshal(passengers, &b.Passengers); err != nil {
			return nil, fmt.Errorf("unmarshal passengers: %w", err)
		}
	}
	return &b, nil
}

// UpdatePassengers rewrites the booking's whole passenger document.
func (r *BookingRepo) UpdatePassengers(ctx context.Context, id string, passengers []model.Passenger) error {
	doc, err := json.Marshal(passengers)
	if err != nil {
		return fmt.Errorf("marshal passengers: %w", err)
	}
	res, err := r.db.ExecContext(ctx, "UPDATE bookings SET passengers=? WHERE id=?", doc, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrBookingNotFound
	}
	return nil
}
