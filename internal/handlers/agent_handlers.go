package handlers

import (
	"context"
	"errors"

	"airline_reservations/internal/models"
	"airline_reservations/internal/services"
)

// AgentHandlers serves the booking agent menus
type AgentHandlers struct {
	app  *App
	user *models.User
	// scanned holds the boarding passes accepted in this session
	scanned []models.BoardingPass
}

// NewAgentHandlers creates the booking agent menus for a logged in user
func NewAgentHandlers(app *App, user *models.User) *AgentHandlers {
	return &AgentHandlers{app: app, user: user}
}

func (h *AgentHandlers) record(ctx context.Context, action, details string) {
	h.app.svc.Activity.Record(ctx, h.user.ID, "booking agent", action, details)
}

// Run shows the booking agent menu until logout
func (h *AgentHandlers) Run(ctx context.Context) error {
	for {
		choice, err := h.app.console.Menu("Booking Agent Menu", []string{
			"Search Flights",
			"View All Flights",
			"Book a Flight",
			"Modify Reservation",
			"Cancel Reservation",
			"Scan Boarding Pass",
			"Logout",
		})
		if err != nil {
			return err
		}

		var action func() error
		var capability services.Capability
		switch choice {
		case 1:
			capability = services.CapSearchFlights
			action = func() error {
				if err := h.app.searchFlights(ctx); err != nil {
					return err
				}
				h.record(ctx, "Searched flights", "")
				return nil
			}
		case 2:
			capability = services.CapSearchFlights
			action = func() error {
				flights, err := h.app.svc.Flights.ListFlights(ctx)
				if err != nil {
					return err
				}
				h.app.printFlights(flights)
				return nil
			}
		case 3:
			capability = services.CapBookFlight
			action = func() error { return h.bookFlight(ctx) }
		case 4:
			capability = services.CapModifyReservation
			action = func() error { return h.modifyReservation(ctx) }
		case 5:
			capability = services.CapCancelReservation
			action = func() error { return h.cancelReservation(ctx) }
		case 6:
			capability = services.CapScanBoardingPass
			action = func() error { return h.scanBoardingPass(ctx) }
		case 7:
			h.record(ctx, "Logged out", "")
			return nil
		}
		if err := h.app.perform(h.user, capability, action); err != nil {
			return err
		}
	}
}

func (h *AgentHandlers) bookFlight(ctx context.Context) error {
	c := h.app.console
	flights, err := h.app.svc.Flights.ListFlights(ctx)
	if err != nil {
		return err
	}
	h.app.printFlights(flights)

	c.Println("\n--- Book a Flight ---")
	passengerID, err := c.Prompt("Enter Passenger ID: ")
	if err != nil {
		return err
	}
	passengerName, err := c.Prompt("Enter Passenger Name: ")
	if err != nil {
		return err
	}
	flightNumber, err := c.Prompt("Enter Flight Number: ")
	if err != nil {
		return err
	}
	draft, err := h.app.promptBooking(ctx, flightNumber)
	if err != nil {
		return err
	}
	gate, err := c.PromptDefault("Enter Gate Number", models.DefaultGate)
	if err != nil {
		return err
	}
	boardingTime, err := c.PromptDefault("Enter Boarding Time", models.DefaultBoardingTime)
	if err != nil {
		return err
	}

	r := draft.reservation
	r.PassengerID = passengerID
	r.PassengerName = passengerName
	r.Gate = gate
	r.BoardingTime = boardingTime
	r.Status = models.ReservationStatusConfirmed

	payment, err := h.app.svc.Booking.BookFlight(ctx, r, draft.method, draft.details)
	if err != nil {
		return err
	}
	c.Printf("Booking successful! Transaction %s\n", payment.TransactionID)
	h.app.printReservation(r)
	h.record(ctx, "Booked flight", "Reservation ID: "+r.ReservationID)
	return nil
}

func (h *AgentHandlers) modifyReservation(ctx context.Context) error {
	c := h.app.console
	reservationID, err := c.Prompt("Enter Reservation ID: ")
	if err != nil {
		return err
	}

	for {
		r, err := h.app.svc.Reservations.FindReservation(ctx, reservationID)
		if err != nil {
			return err
		}
		h.app.printReservation(r)

		choice, err := c.Menu("Modify Reservation", []string{
			"Change Seat",
			"Update Passenger Details",
			"Update Reservation Status",
			"Back",
		})
		if err != nil {
			return err
		}

		switch choice {
		case 1:
			err = h.changeSeat(ctx, r)
		case 2:
			var name string
			if name, err = c.Prompt("Enter new passenger name: "); err == nil {
				err = h.app.svc.Reservations.UpdatePassengerName(ctx, reservationID, name)
			}
			if err == nil {
				c.Println("Passenger details updated.")
				h.record(ctx, "Updated passenger name", "Reservation ID: "+reservationID)
			}
		case 3:
			var status string
			if status, err = c.Prompt("Enter new status (Pending/Confirmed/Checked-In/Canceled): "); err == nil {
				err = h.app.svc.Booking.UpdateReservationStatus(ctx, reservationID, status)
			}
			if err == nil {
				c.Println("Reservation status updated.")
				h.record(ctx, "Updated reservation status", "Reservation ID: "+reservationID+", Status: "+status)
			}
		case 4:
			return nil
		}

		if err != nil {
			if errors.Is(err, ErrQuit) {
				return err
			}
			h.app.showError(err)
		}
	}
}

func (h *AgentHandlers) changeSeat(ctx context.Context, r *models.Reservation) error {
	if err := h.app.showSeatMap(ctx, r.FlightNumber); err != nil {
		return err
	}
	newSeat, err := h.app.console.Prompt("Enter new seat number: ")
	if err != nil {
		return err
	}
	if err := h.app.svc.Booking.ChangeReservationSeat(ctx, r.ReservationID, newSeat); err != nil {
		return err
	}
	h.app.console.Println("Seat changed successfully")
	h.record(ctx, "Changed seat", "Reservation ID: "+r.ReservationID+", Seat: "+r.SeatNumber+" -> "+newSeat)
	return nil
}

func (h *AgentHandlers) cancelReservation(ctx context.Context) error {
	c := h.app.console
	c.Println("--- Cancel Reservation ---")
	reservationID, err := c.Prompt("Enter Reservation ID: ")
	if err != nil {
		return err
	}
	r, err := h.app.svc.Reservations.FindReservation(ctx, reservationID)
	if err != nil {
		return err
	}
	h.app.printReservation(r)
	ok, err := c.Confirm("Cancel this reservation?")
	if err != nil || !ok {
		return err
	}

	result, err := h.app.svc.Booking.CancelReservation(ctx, reservationID)
	if err != nil {
		return err
	}
	switch {
	case result.RefundErr != nil:
		c.Println("Refund could not be processed; please refund manually.")
	case result.Refund != nil:
		c.Printf("Refund of $%.2f processed (transaction %s).\n", result.Refund.Amount, result.Refund.TransactionID)
	}
	if result.Reservation.IsActive() && !result.SeatReleased {
		c.Println("Seat could not be found in the seat map.")
	}
	c.Println("Reservation canceled successfully.")
	h.record(ctx, "Canceled reservation", "Reservation ID: "+reservationID)
	return nil
}

func (h *AgentHandlers) scanBoardingPass(ctx context.Context) error {
	c := h.app.console
	reservationID, err := c.Prompt("Enter Reservation ID on the boarding pass: ")
	if err != nil {
		return err
	}
	flightNumber, err := c.Prompt("Enter Flight Number on the boarding pass: ")
	if err != nil {
		return err
	}
	passengerName, err := c.Prompt("Enter Passenger Name on the boarding pass: ")
	if err != nil {
		return err
	}

	pass := models.BoardingPass{
		ReservationID: reservationID,
		FlightNumber:  flightNumber,
		PassengerName: passengerName,
	}
	ok, err := h.app.svc.Booking.ValidateBoardingPass(ctx, &pass)
	if err != nil {
		return err
	}
	if !ok {
		c.Println("Invalid boarding pass")
		return nil
	}
	h.scanned = append(h.scanned, pass)
	c.Printf("Boarding pass scanned for passenger %s (%d scanned this session)\n", passengerName, len(h.scanned))
	h.record(ctx, "Scanned boarding pass", "Reservation ID: "+reservationID)
	return nil
}
