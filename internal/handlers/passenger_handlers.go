package handlers

import (
	"context"

	"airline_reservations/internal/models"
	"airline_reservations/internal/services"
)

// PassengerHandlers serves the passenger menus
type PassengerHandlers struct {
	app  *App
	user *models.User
	// loyaltyPoints is one point per dollar booked in this session
	loyaltyPoints int
}

// NewPassengerHandlers creates the passenger menus for a logged in user
func NewPassengerHandlers(app *App, user *models.User) *PassengerHandlers {
	return &PassengerHandlers{app: app, user: user}
}

func (h *PassengerHandlers) record(ctx context.Context, action, details string) {
	h.app.svc.Activity.Record(ctx, h.user.ID, "passenger", action, details)
}

// LoyaltyPoints returns the points earned in this session
func (h *PassengerHandlers) LoyaltyPoints() int {
	return h.loyaltyPoints
}

// Run shows the passenger menu until logout
func (h *PassengerHandlers) Run(ctx context.Context) error {
	for {
		choice, err := h.app.console.Menu("Passenger Menu", []string{
			"Search and Book Flights",
			"View my Reservations",
			"Check In",
			"Loyalty Points",
			"Logout",
		})
		if err != nil {
			return err
		}

		var action func() error
		var capability services.Capability
		switch choice {
		case 1:
			capability = services.CapBookFlight
			action = func() error { return h.searchAndBook(ctx) }
		case 2:
			capability = services.CapViewOwnReservation
			action = func() error { return h.viewReservations(ctx) }
		case 3:
			capability = services.CapCheckIn
			action = func() error { return h.checkIn(ctx) }
		case 4:
			capability = services.CapViewOwnReservation
			action = func() error { return h.loyalty() }
		case 5:
			h.record(ctx, "Logged out", "")
			return nil
		}
		if err := h.app.perform(h.user, capability, action); err != nil {
			return err
		}
	}
}

func (h *PassengerHandlers) searchAndBook(ctx context.Context) error {
	c := h.app.console
	c.Println("--- Search Flights ---")
	if err := h.app.searchFlights(ctx); err != nil {
		return err
	}
	h.record(ctx, "Searched flights", "")

	flightNumber, err := c.Prompt("Enter the Flight Number you wish to book (or '0' to cancel): ")
	if err != nil || flightNumber == "0" || flightNumber == "" {
		return err
	}
	passengerName, err := c.Prompt("Enter Passenger Name: ")
	if err != nil {
		return err
	}
	draft, err := h.app.promptBooking(ctx, flightNumber)
	if err != nil {
		return err
	}

	r := draft.reservation
	r.PassengerID = h.user.ID
	r.PassengerName = passengerName
	r.Gate = models.DefaultGate
	r.BoardingTime = models.DefaultBoardingTime
	r.Status = models.ReservationStatusPending

	payment, err := h.app.svc.Booking.BookFlight(ctx, r, draft.method, draft.details)
	if err != nil {
		return err
	}
	earned := int(r.Price)
	h.loyaltyPoints += earned

	c.Printf("Booking successful! Transaction %s\n", payment.TransactionID)
	h.app.printReservation(r)
	c.Printf("You earned %d loyalty points.\n", earned)
	h.record(ctx, "Booked flight", "Reservation ID: "+r.ReservationID)
	return nil
}

func (h *PassengerHandlers) viewReservations(ctx context.Context) error {
	reservations, err := h.app.svc.Reservations.ListByPassenger(ctx, h.user.ID)
	if err != nil {
		return err
	}
	h.app.console.Println("--- View My Reservations ---")
	if len(reservations) == 0 {
		h.app.console.Println("No reservations found.")
	}
	for i := range reservations {
		h.app.printReservation(&reservations[i])
	}
	h.record(ctx, "Viewed reservations", "")
	return nil
}

func (h *PassengerHandlers) checkIn(ctx context.Context) error {
	c := h.app.console
	c.Println("--- Check In ---")
	reservationID, err := c.Prompt("Enter Reservation ID: ")
	if err != nil {
		return err
	}
	pass, err := h.app.svc.Booking.CheckIn(ctx, h.user.ID, reservationID)
	if err != nil {
		return err
	}
	h.app.printBoardingPass(pass)
	c.Println("Check-in successful!")
	h.record(ctx, "Checked in", "Reservation ID: "+reservationID)
	return nil
}

func (h *PassengerHandlers) loyalty() error {
	c := h.app.console
	c.Printf("You have %d loyalty points.\n", h.loyaltyPoints)
	if h.loyaltyPoints == 0 {
		return nil
	}
	points, err := c.PromptInt("Points to redeem (0 to skip): ")
	if err != nil || points <= 0 {
		return err
	}
	if points > h.loyaltyPoints {
		c.Println("Not enough points to redeem")
		return nil
	}
	h.loyaltyPoints -= points
	c.Printf("Redeemed %d points, Remaining points: %d\n", points, h.loyaltyPoints)
	return nil
}
