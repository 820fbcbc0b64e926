package handlers

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"airline_reservations/internal/models"
	"airline_reservations/internal/services"

	"go.uber.org/zap"
)

// Services are the dependencies of the console handlers
type Services struct {
	Flights      *services.FlightService
	Seats        *services.SeatService
	Reservations *services.ReservationService
	Aircraft     *services.AircraftService
	Crew         *services.CrewService
	Users        *services.UserService
	Activity     *services.ActivityLogger
	Reports      *services.ReportService
	Booking      *services.BookingService
}

// App is the interactive console: a login menu dispatching to the role menus
type App struct {
	console *Console
	svc     Services
	logger  *zap.Logger
}

// NewApp creates the console application
func NewApp(console *Console, svc Services, logger *zap.Logger) *App {
	return &App{
		console: console,
		svc:     svc,
		logger:  logger,
	}
}

// Run shows the login menu until the user exits or the input ends
func (a *App) Run(ctx context.Context) error {
	a.console.Println("Welcome to the Airline Reservation System")
	for {
		choice, err := a.console.Menu("Login", []string{
			"Administrator",
			"Booking Agent",
			"Passenger",
			"Exit",
		})
		if err != nil {
			return quietQuit(err)
		}

		var role string
		switch choice {
		case 1:
			role = models.RoleAdministrator
		case 2:
			role = models.RoleBookingAgent
		case 3:
			role = models.RolePassenger
		case 4:
			a.console.Println("Exiting...")
			return nil
		}

		user, err := a.login(ctx, role)
		if err != nil {
			if errors.Is(err, ErrQuit) {
				return nil
			}
			a.showError(err)
			continue
		}

		switch role {
		case models.RoleAdministrator:
			err = NewAdminHandlers(a, user).Run(ctx)
		case models.RoleBookingAgent:
			err = NewAgentHandlers(a, user).Run(ctx)
		case models.RolePassenger:
			err = NewPassengerHandlers(a, user).Run(ctx)
		}
		if err != nil {
			return quietQuit(err)
		}
		a.console.Println("Logged out successfully")
	}
}

func (a *App) login(ctx context.Context, role string) (*models.User, error) {
	a.console.Printf("\n--- %s Login ---\n", role)
	username, err := a.console.Prompt("Username: ")
	if err != nil {
		return nil, err
	}
	password, err := a.console.PromptPassword("Password: ")
	if err != nil {
		return nil, err
	}

	user, err := a.svc.Users.Login(ctx, username, password, role)
	if err != nil {
		return nil, err
	}
	a.console.Println("Login successful!")
	a.svc.Activity.Record(ctx, user.ID, user.Role, "Logged in", "")
	return user, nil
}

// showError prints a user-facing message for err
func (a *App) showError(err error) {
	a.logger.Debug("operation failed", zap.Error(err))

	var msg string
	switch {
	case errors.Is(err, models.ErrPermissionDenied):
		msg = "Invalid username/password or not allowed"
	case errors.Is(err, models.ErrSeatUnavailable), errors.Is(err, models.ErrSeatAlreadyBooked):
		msg = "Seat is not available"
	case errors.Is(err, models.ErrSeatNotBooked):
		msg = "The current seat is not booked"
	case errors.Is(err, models.ErrSeatNotFound):
		msg = "Seat not found"
	case errors.Is(err, models.ErrFlightNotFound):
		msg = "Flight not found"
	case errors.Is(err, models.ErrNoSeatsLeft):
		msg = "No seats left on this flight"
	case errors.Is(err, models.ErrPaymentInvalid):
		msg = "Payment failed: invalid payment details"
	case errors.Is(err, models.ErrDuplicateReservationID):
		msg = "Reservation ID already exists"
	case errors.Is(err, models.ErrNotOwner):
		msg = "Reservation does not belong to you"
	case errors.Is(err, models.ErrAlreadyCheckedIn):
		msg = "You have already checked in for this flight"
	case errors.Is(err, models.ErrCrewHoursExceeded):
		msg = "Crew member has exceeded maximum flight hours"
	case errors.Is(err, models.ErrDuplicateUser):
		msg = "A user with the same ID or username already exists"
	case errors.Is(err, models.ErrInvalidRole):
		msg = "Invalid role. Role must be 'Passenger', 'Booking Agent', or 'Administrator'"
	case errors.Is(err, models.ErrInvalidStatus):
		msg = "Invalid status"
	case errors.Is(err, models.ErrAlreadyExists):
		msg = "Already exists"
	case errors.Is(err, models.ErrNotFound):
		msg = "Not found"
	default:
		msg = "Error: " + err.Error()
	}
	a.console.Println(msg)
}

func (a *App) printFlights(flights []models.Flight) {
	if len(flights) == 0 {
		a.console.Println("No flights available.")
		return
	}
	a.console.Printf("%-8s %-15s %-15s %-20s %-20s %-10s %6s %9s\n",
		"Flight", "From", "To", "Departure", "Arrival", "Status", "Seats", "Price")
	for _, f := range flights {
		a.console.Printf("%-8s %-15s %-15s %-20s %-20s %-10s %3d/%-3d %9.2f\n",
			f.FlightNumber, f.Origin, f.Destination, f.Departure, f.Arrival,
			f.Status, f.AvailableSeats, f.TotalSeats, f.Price)
	}
}

func (a *App) printReservation(r *models.Reservation) {
	a.console.Printf("Reservation %s: %s (%s) on %s seat %s, gate %s at %s, %s, $%.2f\n",
		r.ReservationID, r.PassengerName, r.PassengerID, r.FlightNumber, r.SeatNumber,
		r.Gate, r.BoardingTime, r.Status, r.Price)
}

func (a *App) printBoardingPass(p *models.BoardingPass) {
	a.console.Println("----------------------------------------")
	a.console.Println("BOARDING PASS")
	a.console.Printf("Passenger:   %s\n", p.PassengerName)
	a.console.Printf("Reservation: %s\n", p.ReservationID)
	a.console.Printf("Flight:      %s  %s -> %s\n", p.FlightNumber, p.Origin, p.Destination)
	a.console.Printf("Departure:   %s\n", p.Departure)
	a.console.Printf("Seat:        %s\n", p.SeatNumber)
	a.console.Printf("Gate:        %s  Boarding: %s\n", p.Gate, p.BoardingTime)
	a.console.Println("----------------------------------------")
}

// showSeatMap prints the grid of a flight with [AVL] and [BKD] markers
func (a *App) showSeatMap(ctx context.Context, flightNumber string) error {
	sm, err := a.svc.Seats.GetSeatMap(ctx, flightNumber)
	if err != nil {
		return err
	}
	a.console.Printf("\nSeat map for %s (%d available)\n", flightNumber, sm.CountAvailable())
	for _, row := range sm.Layout() {
		cells := make([]string, 0, len(row))
		for _, seatID := range row {
			marker := "BKD"
			if sm.IsAvailable(seatID) {
				marker = "AVL"
			}
			cells = append(cells, fmt.Sprintf("%4s[%s]", seatID, marker))
		}
		a.console.Println(strings.Join(cells, " "))
	}
	return nil
}

// searchFlights asks for a route and date and prints the matches, or the
// whole catalog when nothing matched
func (a *App) searchFlights(ctx context.Context) error {
	var req models.SearchRequest
	var err error
	if req.Origin, err = a.console.Prompt("Origin: "); err != nil {
		return err
	}
	if req.Destination, err = a.console.Prompt("Destination: "); err != nil {
		return err
	}
	if req.DepartureDate, err = a.console.Prompt("Departure date (YYYY-MM-DD): "); err != nil {
		return err
	}
	if req.SortBy, err = a.console.Prompt("Sort by (cheapest/fastest/departure) [cheapest]: "); err != nil {
		return err
	}

	flights, matched, err := a.svc.Flights.SearchFlights(ctx, &req)
	if err != nil {
		return err
	}
	if !matched {
		a.console.Println("No flights found matching the criteria. Showing all flights:")
	}
	a.printFlights(flights)
	return nil
}

// bookingDraft is what the booking prompts collect
type bookingDraft struct {
	reservation *models.Reservation
	method      string
	details     *string
}

// promptBooking asks for seat and payment on a flight. The caller fills in
// the passenger, status, gate and boarding time.
func (a *App) promptBooking(ctx context.Context, flightNumber string) (*bookingDraft, error) {
	flight, err := a.svc.Flights.FindFlight(ctx, flightNumber)
	if err != nil {
		return nil, err
	}
	if err := a.showSeatMap(ctx, flightNumber); err != nil {
		return nil, err
	}
	seat, err := a.console.Prompt("Enter Seat Number (e.g., 12A): ")
	if err != nil {
		return nil, err
	}
	methodInput, err := a.console.Prompt("Enter Payment Method (Credit Card/Cash/PayPal): ")
	if err != nil {
		return nil, err
	}
	method := services.NormalizePaymentMethod(methodInput)

	var details *string
	if services.RequiresDetails(method) {
		d, err := a.console.Prompt("Enter Payment Details: ")
		if err != nil {
			return nil, err
		}
		details = &d
	}

	id, err := a.svc.Reservations.GenerateReservationID(ctx)
	if err != nil {
		return nil, err
	}

	return &bookingDraft{
		reservation: &models.Reservation{
			ReservationID: id,
			FlightNumber:  flight.FlightNumber,
			SeatNumber:    strings.ToUpper(seat),
			Price:         flight.Price,
		},
		method:  method,
		details: details,
	}, nil
}

// perform checks the capability and runs action. Failures are shown to the
// user; only the end of input is returned.
func (a *App) perform(user *models.User, c services.Capability, action func() error) error {
	err := services.Authorize(user.Role, c)
	if err == nil {
		err = action()
	}
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrQuit) {
		return err
	}
	a.showError(err)
	return nil
}

// pause waits for Enter
func (a *App) pause() error {
	_, err := a.console.Prompt("Press Enter to continue... ")
	return err
}

// quietQuit turns the end of input into a clean exit
func quietQuit(err error) error {
	if errors.Is(err, ErrQuit) {
		return nil
	}
	return err
}
