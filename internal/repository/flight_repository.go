package repository // repository implements the persistence layer over MySQL

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/skylane/flight-seat-booking/internal/model"
)

// ErrFlightNotFound is returned when a flight ID does not exist.
var ErrFlightNotFound = errors.New("flight not found")

// FlightRepo persists flights.  A flight row owns its entire seat map as
// one JSON document; every seat mutation rewrites that document
// wholesale.  There is no version column or optimistic check at this
// level — callers serialize concurrent writers per flight themselves.
type FlightRepo struct {
	db *sql.DB
}

// NewFlightRepo constructs a FlightRepo given a DB handle.
func NewFlightRepo(db *sql.DB) *FlightRepo {
	return &FlightRepo{db: db}
}

// Create inserts a new flight including its generated seat map.
func (r *FlightRepo) Create(ctx context.Context, f *model.Flight) error {
	seats, err := json.Marshal(f.Seats)
	if err != nil {
		return fmt.Errorf("marshal seats: %w", err)
	}
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO flights
		 (id, plane_id, plane_name, departure, destination, fly_date, departure_time, price, duration, seats, created_at)
		 VALUES (?,?,?,?,?,?,?,?,?,?,?)`,
		f.ID, f.PlaneID, f.PlaneName, f.Departure, f.Destination, f.Date,
		f.DepartureTime, f.Price, f.Duration, seats, f.CreatedAt)
	return err
}

// GetByID loads one flight with its full seat map.
func (r *FlightRepo) GetByID(ctx context.Context, id string) (*model.Flight, error) {
	var (
		f     model.Flight
		seats []byte
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT id, plane_id, plane_name, departure, destination, fly_date, departure_time, price, duration, seats, created_at
		 FROM flights WHERE id=? LIMIT 1`, id).
		Scan(&f.ID, &f.PlaneID, &f.PlaneName, &f.Departure, &f.Destination, &f.Date,
			&f.DepartureTime, &f.Price, &f.Duration, &seats, &f.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrFlightNotFound
		}
		return nil, err
	}
	if len(seats) > 0 {
		if err := json.Unmarshal(seats, &f.Seats); err != nil {
			return nil, fmt.Errorf("unmarshal seats: %w", err)
		}
	}
	return &f, nil
}

// FlightFilter narrows List results.  Empty fields are ignored.
type FlightFilter struct {
	Departure   string
	Destination string
	Date        string
}

// List returns flights matching the filter without their seat maps.
// Departure-time filtering (only future flights) is applied by the
// handler so that the cutoff comes from the injected clock.
func (r *FlightRepo) List(ctx context.Context, filter FlightFilter) ([]model.Flight, error) {
	query := `SELECT id, plane_id, plane_name, departure, destination, fly_date, departure_time, price, duration, created_at FROM flights`
	var (
		where []string
		args  []interface{}
	)
	if filter.Departure != "" {
		where = append(where, "departure=?")
		args = append(args, filter.Departure)
	}
	if filter.Destination != "" {
		where = append(where, "destination=?")
		args = append(args, filter.Destination)
	}
	if filter.Date != "" {
		where = append(where, "fly_date=?")
		args = append(args, filter.Date)
	}
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY departure_time"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Flight
	for rows.Next() {
		var f model.Flight
		if err := rows.Scan(&f.ID, &f.PlaneID, &f.PlaneName, &f.Departure, &f.Destination,
			&f.Date, &f.DepartureTime, &f.Price, &f.Duration, &f.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

// UpdateSeats rewrites the flight's whole seat document.
func (r *FlightRepo) UpdateSeats(ctx context.Context, id string, seats []model.Seat) error {
	doc, err := json.Marshal(seats)
	if err != nil {
		return fmt.Errorf("marshal seats: %w", err)
	}
	res, err := r.db.ExecContext(ctx, "UPDATE flights SET seats=? WHERE id=?", doc, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrFlightNotFound
	}
	return nil
}

// FlightUpdate describes a partial flight update; nil fields are left
// untouched.
type FlightUpdate struct {
	PlaneID       *string
	PlaneName     *string
	Departure     *string
	Destination   *string
	Date          *string
	DepartureTime *time.Time
	Price         *float64
	Duration      *string
}

// Update applies a partial update to one flight.  The seat map is never
// touched here; it only changes through UpdateSeats.
func (r *FlightRepo) Update(ctx context.Context, id string, u FlightUpdate) error {
	var (
		set  []string
		args []interface{}
	)
	add := func(col string, v interface{}) {
		set = append(set, col+"=?")
		args = append(args, v)
	}
	if u.PlaneID != nil {
		add("plane_id", *u.PlaneID)
	}
	if u.PlaneName != nil {
		add("plane_name", *u.PlaneName)
	}
	if u.Departure != nil {
		add("departure", *u.Departure)
	}
	if u.Destination != nil {
		add("destination", *u.Destination)
	}
	if u.Date != nil {
		add("fly_date", *u.Date)
	}
	if u.DepartureTime != nil {
		add("departure_time", *u.DepartureTime)
	}
	if u.Price != nil {
		add("price", *u.Price)
	}
	if u.Duration != nil {
		add("duration", *u.Duration)
	}
	if len(set) == 0 {
		return nil
	}
	args = append(args, id)
	res, err := r.db.ExecContext(ctx, "UPDATE flights SET "+strings.Join(set, ", ")+" WHERE id=?", args...)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrFlightNotFound
	}
	return nil
}

// Delete removes a flight.
func (r *FlightRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM flights WHERE id=?", id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrFlightNotFound
	}
	return nil
}
