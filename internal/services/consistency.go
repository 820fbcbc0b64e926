package services

import (
	"context"
	"fmt"
	"sort"

	"airline_reservations/internal/models"
)

// Violation is one broken link between the catalog, the seat maps and the ledger
type Violation struct {
	FlightNumber  string `json:"flight_number"`
	SeatNumber    string `json:"seat_number,omitempty"`
	ReservationID string `json:"reservation_id,omitempty"`
	Message       string `json:"message"`
}

func (v Violation) String() string {
	s := v.FlightNumber
	if v.SeatNumber != "" {
		s += "/" + v.SeatNumber
	}
	if v.ReservationID != "" {
		s += " (" + v.ReservationID + ")"
	}
	return s + ": " + v.Message
}

// VerifyConsistency audits the three booking documents. It returns every
// violation found, sorted by flight and seat.
func (bs *BookingService) VerifyConsistency(ctx context.Context) ([]Violation, error) {
	state, err := bs.loadState(ctx)
	if err != nil {
		return nil, err
	}
	return checkConsistency(state), nil
}

func checkConsistency(state *bookingState) []Violation {
	var violations []Violation

	known := make(map[string]bool, len(state.flights))
	for _, f := range state.flights {
		known[f.FlightNumber] = true

		if f.AvailableSeats < 0 || f.AvailableSeats > f.TotalSeats {
			violations = append(violations, Violation{
				FlightNumber: f.FlightNumber,
				Message:      fmt.Sprintf("availableSeats %d outside 0..%d", f.AvailableSeats, f.TotalSeats),
			})
		}

		sm, ok := state.seats[f.FlightNumber]
		if !ok {
			violations = append(violations, Violation{FlightNumber: f.FlightNumber, Message: "flight has no seat map"})
			continue
		}
		if n := sm.CountAvailable(); n != f.AvailableSeats {
			violations = append(violations, Violation{
				FlightNumber: f.FlightNumber,
				Message:      fmt.Sprintf("availableSeats is %d but seat map has %d available", f.AvailableSeats, n),
			})
		}
	}

	for flightNumber := range state.seats {
		if !known[flightNumber] {
			violations = append(violations, Violation{FlightNumber: flightNumber, Message: "seat map without flight"})
		}
	}

	holders := make(map[string]map[string]string)
	for _, r := range state.reservations {
		if !r.IsActive() {
			continue
		}
		sm, ok := state.seats[r.FlightNumber]
		if !ok {
			violations = append(violations, Violation{
				FlightNumber:  r.FlightNumber,
				SeatNumber:    r.SeatNumber,
				ReservationID: r.ReservationID,
				Message:       "reservation on flight without seat map",
			})
			continue
		}
		if sm.Seats[r.SeatNumber] != models.SeatStatusBooked {
			violations = append(violations, Violation{
				FlightNumber:  r.FlightNumber,
				SeatNumber:    r.SeatNumber,
				ReservationID: r.ReservationID,
				Message:       "reserved seat is not booked",
			})
		}
		if holders[r.FlightNumber] == nil {
			holders[r.FlightNumber] = make(map[string]string)
		}
		if other, taken := holders[r.FlightNumber][r.SeatNumber]; taken {
			violations = append(violations, Violation{
				FlightNumber:  r.FlightNumber,
				SeatNumber:    r.SeatNumber,
				ReservationID: r.ReservationID,
				Message:       "seat also held by " + other,
			})
			continue
		}
		holders[r.FlightNumber][r.SeatNumber] = r.ReservationID
	}

	for flightNumber, sm := range state.seats {
		for seatID, status := range sm.Seats {
			if status != models.SeatStatusBooked {
				continue
			}
			if _, held := holders[flightNumber][seatID]; !held {
				violations = append(violations, Violation{
					FlightNumber: flightNumber,
					SeatNumber:   seatID,
					Message:      "booked seat without active reservation",
				})
			}
		}
	}

	sort.Slice(violations, func(i, j int) bool {
		if violations[i].FlightNumber != violations[j].FlightNumber {
			return violations[i].FlightNumber < violations[j].FlightNumber
		}
		return violations[i].SeatNumber < violations[j].SeatNumber
	})
	return violations
}
