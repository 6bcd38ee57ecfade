package model

// SeatType classifies a seat by its column position within the row.
// The value is fixed when the seat map is generated and never changes
// afterwards.
type SeatType string

// Seat types.  A row has window seats at both ends, a pair of aisle
// seats straddling the center aisle, and middle seats everywhere else.
const (
	SeatTypeWindow SeatType = "window"
	SeatTypeAisle  SeatType = "aisle"
	SeatTypeMiddle SeatType = "middle"
)

// Zone names a cabin partition derived from the row position: the first
// row is accessible, the last row is VIP and everything in between is
// standard.  Zones are independent of seat type.
type Zone string

const (
	ZoneAccessible Zone = "accessible"
	ZoneStandard   Zone = "standard"
	ZoneVIP        Zone = "VIP"
)

// SeatStatus tracks the booking state of a seat.  Broken seats are
// permanently out of service until reset by an administrator.
type SeatStatus string

const (
	SeatAvailable SeatStatus = "available"
	SeatBooked    SeatStatus = "booked"
	SeatBroken    SeatStatus = "broken"
)

// Seat is one position in a flight's seat map.  Exactly one seat exists
// per (row, column) pair.  AssignedTo holds the owning booking ID and is
// non-nil exactly when Status is SeatBooked.
//
// Fields:
//  Row        – 1-indexed row number.
//  Column     – single uppercase letter, unique within the row.
//  Type       – window, aisle or middle; derived from the column index.
//  Zone       – accessible, standard or VIP; derived from the row number.
//  Status     – available, booked or broken.
//  AssignedTo – booking ID when booked, nil otherwise.
type Seat struct {
	Row        int        `json:"row"`
	Column     string     `json:"column"`
	Type       SeatType   `json:"type"`
	Zone       Zone       `json:"zone"`
	Status     SeatStatus `json:"status"`
	AssignedTo *string    `json:"assignedTo"`
}
