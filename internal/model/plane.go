package model

import "time"

// Plane describes an aircraft configuration.  The row and column counts
// fix the seat layout of every flight created from this plane; flights
// snapshot these dimensions at creation time and are never resized.
//
// Fields:
//  ID        – UUID primary key.
//  Name      – human readable aircraft name.
//  Rows      – number of seat rows, positive.
//  Columns   – number of seats per row, mapped to letters A, B, C, …
//  CreatedAt – creation timestamp.
type Plane struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Rows      int       `json:"rows"`
	Columns   int       `json:"columns"`
	CreatedAt time.Time `json:"createdAt"`
}
