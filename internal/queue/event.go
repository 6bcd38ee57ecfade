package queue

import "time"

// QueueName is the RabbitMQ queue booking events are published to and
// consumed from.
const QueueName = "booking.created"

// BookingCreatedEvent is emitted after a booking has been persisted.
// Seats holds the assigned seats as "row+column" labels, e.g. "3C".
type BookingCreatedEvent struct {
	BookingID      string    `json:"bookingId"`
	FlightID       string    `json:"flightId"`
	UserID         *uint64   `json:"userId,omitempty"`
	Seats          []string  `json:"seats"`
	PassengerCount int       `json:"passengerCount"`
	CreatedAt      time.Time `json:"createdAt"`
}
