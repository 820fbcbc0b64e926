package models

import (
	"fmt"
	"strconv"
)

// SeatLabels are the column letters of a seat row
const SeatLabels = "ABCDEF"

// SeatsPerRow is the number of columns generated for every aircraft
const SeatsPerRow = len(SeatLabels)

// Seat states as stored in seats.json
const (
	SeatStatusAvailable = "available"
	SeatStatusBooked    = "booked"
)

// SeatMap is the seat grid of one flight
type SeatMap struct {
	Rows  int               `json:"rows"`
	Cols  int               `json:"cols"`
	Seats map[string]string `json:"seats"`
}

// SeatMaps is the whole seats.json document keyed by flight number
type SeatMaps map[string]*SeatMap

// SeatID builds a seat identifier such as "12A" from a 1-based row and 0-based column
func SeatID(row, col int) string {
	return strconv.Itoa(row) + string(SeatLabels[col])
}

// NewSeatMap creates a grid with every seat available
func NewSeatMap(rows, cols int) (*SeatMap, error) {
	if rows < 0 {
		return nil, fmt.Errorf("invalid row count %d", rows)
	}
	if cols < 1 || cols > SeatsPerRow {
		return nil, fmt.Errorf("invalid column count %d (1-%d)", cols, SeatsPerRow)
	}
	sm := &SeatMap{
		Rows:  rows,
		Cols:  cols,
		Seats: make(map[string]string, rows*cols),
	}
	for row := 1; row <= rows; row++ {
		for col := 0; col < cols; col++ {
			sm.Seats[SeatID(row, col)] = SeatStatusAvailable
		}
	}
	return sm, nil
}

// IsAvailable reports whether the seat exists and is free
func (sm *SeatMap) IsAvailable(seatID string) bool {
	return sm.Seats[seatID] == SeatStatusAvailable
}

// Has reports whether the seat exists in the grid
func (sm *SeatMap) Has(seatID string) bool {
	_, ok := sm.Seats[seatID]
	return ok
}

// CountAvailable returns the number of available seats
func (sm *SeatMap) CountAvailable() int {
	n := 0
	for _, state := range sm.Seats {
		if state == SeatStatusAvailable {
			n++
		}
	}
	return n
}

// Layout returns the seat ids in row-major display order
func (sm *SeatMap) Layout() [][]string {
	rows := make([][]string, 0, sm.Rows)
	for row := 1; row <= sm.Rows; row++ {
		line := make([]string, 0, sm.Cols)
		for col := 0; col < sm.Cols; col++ {
			line = append(line, SeatID(row, col))
		}
		rows = append(rows, line)
	}
	return rows
}

// Clone returns a deep copy of the seat map
func (sm *SeatMap) Clone() *SeatMap {
	c := &SeatMap{Rows: sm.Rows, Cols: sm.Cols, Seats: make(map[string]string, len(sm.Seats))}
	for k, v := range sm.Seats {
		c.Seats[k] = v
	}
	return c
}
