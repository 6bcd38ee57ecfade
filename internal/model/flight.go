package model

import "time"

// Flight is a scheduled departure owning exactly one seat map.  The seat
// map is generated once from the plane's dimensions at flight creation
// and is rewritten wholesale on every booking, seat edit or break-seats
// operation.
//
// Fields:
//  ID            – UUID primary key.
//  PlaneID       – owning aircraft configuration.
//  PlaneName     – aircraft name snapshotted at creation.
//  Departure     – origin airport or city.
//  Destination   – destination airport or city.
//  Date          – calendar date of the flight (YYYY-MM-DD).
//  DepartureTime – full departure instant, stored in UTC.
//  Price         – ticket price, currency agnostic.
//  Duration      – human readable flight duration.
//  Seats         – the full seat map; empty only for malformed flights.
//  CreatedAt     – creation timestamp.
type Flight struct {
	ID            string    `json:"id"`
	PlaneID       string    `json:"planeId"`
	PlaneName     string    `json:"planeName"`
	Departure     string    `json:"departure"`
	Destination   string    `json:"destination"`
	Date          string    `json:"date"`
	DepartureTime time.Time `json:"departureTime"`
	Price         float64   `json:"price"`
	Duration      string    `json:"duration"`
	Seats         []Seat    `json:"seats,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
}

// AvailableSeats returns pointers into the flight's seat map for every
// seat that can still be booked.
func (f *Flight) AvailableSeats() []*Seat {
	out := make([]*Seat, 0, len(f.Seats))
	for i := range f.Seats {
		if f.Seats[i].Status == SeatAvailable {
			out = append(out, &f.Seats[i])
		}
	}
	return out
}

// SeatAt looks up a seat by row number and column letter.  It returns
// nil when no such seat exists.
func (f *Flight) SeatAt(row int, column string) *Seat {
	for i := range f.Seats {
		if f.Seats[i].Row == row && f.Seats[i].Column == column {
			return &f.Seats[i]
		}
	}
	return nil
}
