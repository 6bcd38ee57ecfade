package model

import "time"

// Passenger is one seated traveller inside a booking.  The descriptor
// fields (name, passport, dob, zone) come from the booking request; row
// and column are filled in once a seat has been assigned.
type Passenger struct {
	Name     string `json:"name"`
	Passport string `json:"passport"`
	DOB      string `json:"dob"`
	Zone     string `json:"zone,omitempty"`
	Row      int    `json:"row"`
	Column   string `json:"column"`
}

// Booking groups one or more seated passengers under a single identifier
// for one flight.  UserID is nil for administrator-created bookings.
// Bookings are created atomically with seat assignment and mutated when
// a passenger's seat changes or a passenger is removed; they are never
// merged.
type Booking struct {
	BookingID  string      `json:"bookingId"`
	FlightID   string      `json:"flightId"`
	UserID     *uint64     `json:"userId,omitempty"`
	Passengers []Passenger `json:"passengers"`
	CreatedAt  time.Time   `json:"createdAt"`
}

// PassengerAt finds the passenger seated at the given seat.  It returns
// the index into Passengers, or -1 when nobody in the booking holds that
// seat.
func (b *Booking) PassengerAt(row int, column string) int {
	for i := range b.Passengers {
		if b.Passengers[i].Row == row && b.Passengers[i].Column == column {
			return i
		}
	}
	return -1
}
