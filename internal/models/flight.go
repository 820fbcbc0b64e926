package models

import (
	"fmt"
	"strings"
	"time"
)

// TimestampLayout is the layout used for departure and arrival timestamps
const TimestampLayout = "2006-01-02 15:04:05"

// Flight represents a single scheduled flight
type Flight struct {
	FlightNumber     string     `json:"flightNumber"`
	Origin           string     `json:"origin"`
	Destination      string     `json:"destination"`
	Departure        string     `json:"departure"`
	Arrival          string     `json:"arrival"`
	AircraftModel    string     `json:"aircraftModel"`
	Status           string     `json:"status"`
	TotalSeats       int        `json:"totalSeats"`
	AvailableSeats   int        `json:"availableSeats"`
	Price            float64    `json:"price"`
	Pilot            *CrewRef   `json:"pilot,omitempty"`
	FlightAttendants []*CrewRef `json:"flightAttendants,omitempty"`
}

// CrewRef is the crew summary embedded in a flight record
type CrewRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Role string `json:"role"`
}

// FlightStatus constants
const (
	FlightStatusScheduled = "Scheduled"
	FlightStatusDelayed   = "Delayed"
	FlightStatusCanceled  = "Canceled"
	FlightStatusCompleted = "Completed"
)

// IsValidFlightStatus checks if the flight status is valid
func IsValidFlightStatus(status string) bool {
	validStatuses := []string{
		FlightStatusScheduled,
		FlightStatusDelayed,
		FlightStatusCanceled,
		FlightStatusCompleted,
	}

	for _, s := range validStatuses {
		if status == s {
			return true
		}
	}
	return false
}

// SearchRequest represents a flight search
type SearchRequest struct {
	Origin        string
	Destination   string
	DepartureDate string // YYYY-MM-DD
	SortBy        string // "cheapest" or "fastest"
}

// DepartureDate returns the date part of the departure timestamp
func (f *Flight) DepartureDate() string {
	if i := strings.IndexByte(f.Departure, ' '); i >= 0 {
		return f.Departure[:i]
	}
	return f.Departure
}

// DepartureMonth returns the YYYY-MM prefix of the departure timestamp
func (f *Flight) DepartureMonth() string {
	date := f.DepartureDate()
	if len(date) < 7 {
		return date
	}
	return date[:7]
}

// Duration returns the scheduled block time
func (f *Flight) Duration() (time.Duration, error) {
	dep, err := time.Parse(TimestampLayout, f.Departure)
	if err != nil {
		return 0, fmt.Errorf("invalid departure %q: %w", f.Departure, err)
	}
	arr, err := time.Parse(TimestampLayout, f.Arrival)
	if err != nil {
		return 0, fmt.Errorf("invalid arrival %q: %w", f.Arrival, err)
	}
	return arr.Sub(dep), nil
}

// DurationHours returns the flight duration in whole hours
func (f *Flight) DurationHours() (float64, error) {
	d, err := f.Duration()
	if err != nil {
		return 0, err
	}
	return float64(int(d.Hours())), nil
}

// HasSeatsLeft reports whether the availability counter is above zero
func (f *Flight) HasSeatsLeft() bool {
	return f.AvailableSeats > 0
}

// AttendantIDs returns the ids of the assigned flight attendants
func (f *Flight) AttendantIDs() []string {
	ids := make([]string, 0, len(f.FlightAttendants))
	for _, a := range f.FlightAttendants {
		ids = append(ids, a.ID)
	}
	return ids
}
