package seatmap

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/skylane/flight-seat-booking/internal/clock"
	"github.com/skylane/flight-seat-booking/internal/model"
)

// ErrInfeasible matches (via errors.Is) every selector error that means
// "the request is valid but no seats satisfy it".  Handlers translate
// these into 400 responses; the message always names the offending
// passenger and is returned to the client verbatim.
var ErrInfeasible = errors.New("infeasible booking")

// InfeasibleError carries the client-facing reason an otherwise valid
// booking could not be seated.
type InfeasibleError struct {
	Reason string
}

func (e *InfeasibleError) Error() string { return e.Reason }

func (e *InfeasibleError) Is(target error) bool { return target == ErrInfeasible }

func infeasible(format string, args ...interface{}) error {
	return &InfeasibleError{Reason: fmt.Sprintf(format, args...)}
}

// Selector assigns seats to passengers against a flight's seat map.  Age
// classification uses the injected clock so behaviour is deterministic
// under test.
//
// The selector mutates the seat slice it is given: chosen seats are
// marked booked with the booking ID immediately, which also removes
// them from consideration for later passengers in the same request.  On
// failure the slice may be partially mutated; callers must only persist
// the map when Assign returns without error.
type Selector struct {
	clk clock.Clock
}

// NewSelector builds a Selector around the given clock.
func NewSelector(clk clock.Clock) *Selector {
	return &Selector{clk: clk}
}

// Assign books one seat per passenger and returns the passengers with
// their assigned row and column filled in, in input order for single and
// multi-zone bookings and in children/seniors/adults order for same-zone
// groups.  Group size must already be validated by the caller (1..7).
func (s *Selector) Assign(seats []model.Seat, passengers []model.Passenger, bookingID string) ([]model.Passenger, error) {
	now := s.clk.Now()

	dobs := make([]time.Time, len(passengers))
	for i, p := range passengers {
		t, err := time.Parse(DOBLayout, p.DOB)
		if err != nil {
			return nil, fmt.Errorf("invalid date of birth %q for %s", p.DOB, p.Name)
		}
		dobs[i] = t
	}

	if len(passengers) == 1 {
		seated, err := s.assignOne(seats, passengers[0], dobs[0], now, bookingID, false)
		if err != nil {
			return nil, err
		}
		return []model.Passenger{seated}, nil
	}

	// A group spanning several zones falls back to per-passenger
	// assignment; contiguity only applies within one shared zone.
	zones := make(map[string]struct{}, len(passengers))
	for _, p := range passengers {
		zones[strings.ToLower(p.Zone)] = struct{}{}
	}
	if len(zones) > 1 {
		out := make([]model.Passenger, 0, len(passengers))
		for i, p := range passengers {
			seated, err := s.assignOne(seats, p, dobs[i], now, bookingID, true)
			if err != nil {
				return nil, err
			}
			out = append(out, seated)
		}
		return out, nil
	}

	return s.assignGroup(seats, passengers, dobs, now, bookingID)
}

// assignOne seats a single passenger in their requested zone.  The
// candidate list keeps seat-generation order; age preferences narrow it
// and the first survivor wins.  nameZone controls whether the failure
// message mentions the requested zone (multi-zone group errors do).
func (s *Selector) assignOne(seats []model.Seat, p model.Passenger, dob, now time.Time, bookingID string, nameZone bool) (model.Passenger, error) {
	cands := availableInZone(seats, p.Zone)

	switch Classify(dob, now) {
	case BandChild:
		cands = withoutType(cands, model.SeatTypeAisle)
	case BandSenior:
		if aisle := firstOfType(cands, model.SeatTypeAisle); aisle != nil {
			cands = []*model.Seat{aisle}
		}
	default:
		// Adults prefer a window, then an aisle, then anything.
		if win := firstOfType(cands, model.SeatTypeWindow); win != nil {
			cands = []*model.Seat{win}
		} else if aisle := firstOfType(cands, model.SeatTypeAisle); aisle != nil {
			cands = []*model.Seat{aisle}
		}
	}

	if len(cands) == 0 {
		if nameZone {
			return model.Passenger{}, infeasible("No suitable %s seat available for %s", p.Zone, p.Name)
		}
		return model.Passenger{}, infeasible("No suitable seat available for %s", p.Name)
	}

	book(cands[0], bookingID)
	p.Row = cands[0].Row
	p.Column = cands[0].Column
	return p, nil
}

// assignGroup seats a group that shares one zone.  Children go first and
// never onto an aisle seat; the remaining passengers (seniors, then
// adults) are placed into the first contiguous same-row block of the
// right size, falling back to the first seats in (row, column) order
// when no such block exists.  Seniors take aisle seats from the block
// while any remain.
func (s *Selector) assignGroup(seats []model.Seat, passengers []model.Passenger, dobs []time.Time, now time.Time, bookingID string) ([]model.Passenger, error) {
	zone := passengers[0].Zone
	pool := availableInZone(seats, zone)

	var children, seniors, adults []model.Passenger
	for i, p := range passengers {
		switch Classify(dobs[i], now) {
		case BandChild:
			children = append(children, p)
		case BandSenior:
			seniors = append(seniors, p)
		default:
			adults = append(adults, p)
		}
	}

	seated := make([]model.Passenger, 0, len(passengers))

	for _, ch := range children {
		idx := -1
		for i, seat := range pool {
			if seat.Type == model.SeatTypeWindow || seat.Type == model.SeatTypeMiddle {
				idx = i
				break
			}
		}
		if idx < 0 {
			for i, seat := range pool {
				if seat.Type != model.SeatTypeAisle {
					idx = i
					break
				}
			}
		}
		if idx < 0 {
			return nil, infeasible("No non-aisle seat available for child %s", ch.Name)
		}
		seat := pool[idx]
		pool = append(pool[:idx], pool[idx+1:]...)
		book(seat, bookingID)
		ch.Row = seat.Row
		ch.Column = seat.Column
		seated = append(seated, ch)
	}

	ordered := append(seniors, adults...)
	if len(ordered) == 0 {
		return seated, nil
	}
	m := len(ordered)
	if len(pool) < m {
		return nil, infeasible("Not enough %s seats for %d passengers.", zone, len(passengers))
	}

	block := contiguousBlock(pool, m)
	if block == nil {
		sorted := make([]*model.Seat, len(pool))
		copy(sorted, pool)
		sort.Slice(sorted, func(i, j int) bool {
			if sorted[i].Row != sorted[j].Row {
				return sorted[i].Row < sorted[j].Row
			}
			return sorted[i].Column < sorted[j].Column
		})
		block = sorted[:m]
	}

	// Consume the block in seniors-first order.  Only the seniors
	// scanned before the block's aisle seats run out get one.
	isSenior := make(map[int]bool, m)
	for i := range seniors {
		isSenior[i] = true
	}
	for i, p := range ordered {
		pick := -1
		if isSenior[i] {
			for j, seat := range block {
				if seat.Type == model.SeatTypeAisle {
					pick = j
					break
				}
			}
		}
		if pick < 0 {
			pick = 0
		}
		seat := block[pick]
		block = append(block[:pick], block[pick+1:]...)
		book(seat, bookingID)
		p.Row = seat.Row
		p.Column = seat.Column
		seated = append(seated, p)
	}
	return seated, nil
}

// contiguousBlock finds the first run of m seats that sit in the same
// row, adjacent in column-sorted order.  Rows are visited in ascending
// numeric order so the search is deterministic.  Returns nil when no
// row holds such a run.
func contiguousBlock(pool []*model.Seat, m int) []*model.Seat {
	byRow := make(map[int][]*model.Seat)
	for _, seat := range pool {
		byRow[seat.Row] = append(byRow[seat.Row], seat)
	}
	rows := make([]int, 0, len(byRow))
	for r := range byRow {
		rows = append(rows, r)
	}
	sort.Ints(rows)

	for _, r := range rows {
		inRow := byRow[r]
		sort.Slice(inRow, func(i, j int) bool { return inRow[i].Column < inRow[j].Column })
		if len(inRow) >= m {
			block := make([]*model.Seat, m)
			copy(block, inRow[:m])
			return block
		}
	}
	return nil
}

// availableInZone returns pointers to every available seat whose zone
// matches the requested one, case-insensitively, in seat map order.
func availableInZone(seats []model.Seat, zone string) []*model.Seat {
	var out []*model.Seat
	for i := range seats {
		if seats[i].Status == model.SeatAvailable && strings.EqualFold(string(seats[i].Zone), zone) {
			out = append(out, &seats[i])
		}
	}
	return out
}

func withoutType(seats []*model.Seat, t model.SeatType) []*model.Seat {
	var out []*model.Seat
	for _, s := range seats {
		if s.Type != t {
			out = append(out, s)
		}
	}
	return out
}

func firstOfType(seats []*model.Seat, t model.SeatType) *model.Seat {
	for _, s := range seats {
		if s.Type == t {
			return s
		}
	}
	return nil
}

func book(seat *model.Seat, bookingID string) {
	id := bookingID
	seat.Status = model.SeatBooked
	seat.AssignedTo = &id
}
