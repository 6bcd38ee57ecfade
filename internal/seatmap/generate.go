// Package seatmap holds the seat-assignment core: seat map generation,
// age classification and the constraint-solving seat selector.  Nothing
// in this package touches persistence; callers load a flight's seat map,
// run the selector against it and persist the mutated result themselves.
package seatmap

import "github.com/skylane/flight-seat-booking/internal/model"

// Generate builds the full seat map for an aircraft with the given
// dimensions.  Columns are mapped to letters starting at A.  Seat type
// is derived from the column index (window at both ends, aisle for the
// two seats straddling the center, middle otherwise) and zone from the
// row number (first row accessible, last row VIP, rest standard).  The
// output is deterministic and ordered row by row, column by column.
// Called exactly once per flight, at flight creation.
func Generate(rows, columns int) []model.Seat {
	if rows <= 0 || columns <= 0 {
		return nil
	}
	midLeft := columns/2 - 1
	midRight := midLeft + 1

	seats := make([]model.Seat, 0, rows*columns)
	for row := 1; row <= rows; row++ {
		for col := 0; col < columns; col++ {
			var typ model.SeatType
			switch {
			case col == 0 || col == columns-1:
				typ = model.SeatTypeWindow
			case col == midLeft || col == midRight:
				typ = model.SeatTypeAisle
			default:
				typ = model.SeatTypeMiddle
			}

			zone := model.ZoneStandard
			if row == 1 {
				zone = model.ZoneAccessible
			} else if row == rows {
				zone = model.ZoneVIP
			}

			seats = append(seats, model.Seat{
				Row:    row,
				Column: string(rune('A' + col)),
				Type:   typ,
				Zone:   zone,
				Status: model.SeatAvailable,
			})
		}
	}
	return seats
}
