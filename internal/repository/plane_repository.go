package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/skylane/flight-seat-booking/internal/model"
)

// ErrPlaneNotFound is returned when a plane ID does not exist.
var ErrPlaneNotFound = errors.New("plane not found")

// PlaneRepo persists aircraft configurations.  Planes carry no seats
// themselves; their row/column dimensions are snapshotted into a seat
// map when a flight is created.
type PlaneRepo struct {
	db *sql.DB
}

// NewPlaneRepo constructs a PlaneRepo given a DB handle.
func NewPlaneRepo(db *sql.DB) *PlaneRepo {
	return &PlaneRepo{db: db}
}

// Create inserts a new plane.
func (r *PlaneRepo) Create(ctx context.Context, p *model.Plane) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO planes (id, name, seat_rows, seat_cols, created_at) VALUES (?,?,?,?,?)",
		p.ID, p.Name, p.Rows, p.Columns, p.CreatedAt)
	return err
}

// GetByID loads one plane.
func (r *PlaneRepo) GetByID(ctx context.Context, id string) (*model.Plane, error) {
	var p model.Plane
	err := r.db.QueryRowContext(ctx,
		"SELECT id, name, seat_rows, seat_cols, created_at FROM planes WHERE id=? LIMIT 1", id).
		Scan(&p.ID, &p.Name, &p.Rows, &p.Columns, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPlaneNotFound
		}
		return nil, err
	}
	return &p, nil
}

// List returns all planes in creation order.
func (r *PlaneRepo) List(ctx context.Context) ([]model.Plane, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, name, seat_rows, seat_cols, created_at FROM planes ORDER BY created_at")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Plane
	for rows.Next() {
		var p model.Plane
		if err := rows.Scan(&p.ID, &p.Name, &p.Rows, &p.Columns, &p.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// PlaneUpdate describes a partial plane update; nil fields are left
// untouched.  Changing dimensions never resizes existing flights.
type PlaneUpdate struct {
	Name    *string
	Rows    *int
	Columns *int
}

// Update applies a partial update to one plane.
func (r *PlaneRepo) Update(ctx context.Context, id string, u PlaneUpdate) error {
	var (
		set  []string
		args []interface{}
	)
	if u.Name != nil {
		set = append(set, "name=?")
		args = append(args, *u.Name)
	}
	if u.Rows != nil {
		set = append(set, "seat_rows=?")
		args = append(args, *u.Rows)
	}
	if u.Columns != nil {
		set = append(set, "seat_cols=?")
		args = append(args, *u.Columns)
	}
	if len(set) == 0 {
		return nil
	}
	args = append(args, id)
	res, err := r.db.ExecContext(ctx, "UPDATE planes SET "+strings.Join(set, ", ")+" WHERE id=?", args...)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrPlaneNotFound
	}
	return nil
}

// Delete removes a plane.
func (r *PlaneRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM planes WHERE id=?", id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrPlaneNotFound
	}
	return nil
}
