package handlers

import (
	"bytes"
	"context"
	"math/rand"
	"strings"
	"testing"

	"airline_reservations/internal/database"
	"airline_reservations/internal/models"
	"airline_reservations/internal/services"
	"airline_reservations/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestServices(t *testing.T) (context.Context, Services) {
	t.Helper()
	ctx := context.Background()
	st := store.New(database.NewFileBackend(t.TempDir()))
	logger := zap.NewNop()

	_, err := st.EnsureDocuments(ctx, store.DefaultDocuments())
	require.NoError(t, err)

	flights := services.NewFlightService(st, logger)
	seats := services.NewSeatService(st, logger)
	reservations := services.NewReservationService(st, logger, rand.New(rand.NewSource(7)))
	payments := services.NewPaymentService(logger)
	aircraft := services.NewAircraftService(st, logger)
	activity := services.NewActivityLogger(st, logger)
	svc := Services{
		Flights:      flights,
		Seats:        seats,
		Reservations: reservations,
		Aircraft:     aircraft,
		Crew:         services.NewCrewService(st, flights, logger),
		Users:        services.NewUserService(st, logger),
		Activity:     activity,
		Reports:      services.NewReportService(flights, reservations, aircraft, activity, logger),
		Booking:      services.NewBookingService(st, flights, seats, reservations, payments, aircraft, logger),
	}

	for _, u := range []models.User{
		{ID: "A1", Username: "admin", Password: "adminpw", Role: models.RoleAdministrator},
		{ID: "G1", Username: "agent", Password: "agentpw", Role: models.RoleBookingAgent},
		{ID: "P1", Username: "pat", Password: "secret", Role: models.RolePassenger},
	} {
		require.NoError(t, svc.Users.CreateUser(ctx, u))
	}
	require.NoError(t, aircraft.AddAircraft(ctx, models.Aircraft{AircraftID: "AC1", Type: "Embraer E170", Capacity: 6}))
	require.NoError(t, svc.Booking.AddFlight(ctx, models.Flight{
		FlightNumber:  "AA100",
		Origin:        "New York",
		Destination:   "Chicago",
		Departure:     "2025-03-10 08:00:00",
		Arrival:       "2025-03-10 10:30:00",
		AircraftModel: "Embraer E170",
		Price:         250,
	}))
	return ctx, svc
}

// runScript feeds one answer per line to a fresh console app
func runScript(t *testing.T, ctx context.Context, svc Services, lines ...string) string {
	t.Helper()
	in := strings.NewReader(strings.Join(lines, "\n") + "\n")
	out := &bytes.Buffer{}
	app := NewApp(NewConsole(in, out), svc, zap.NewNop())
	require.NoError(t, app.Run(ctx))
	return out.String()
}

func TestApp_PassengerBooksAndRedeems(t *testing.T) {
	ctx, svc := newTestServices(t)

	out := runScript(t, ctx, svc,
		"3", "pat", "secret",
		"1", "new york", "chicago", "2025-03-10", "",
		"AA100", "Pat Doe", "1a", "cash",
		"4", "100",
		"5",
		"4",
	)

	assert.Contains(t, out, "1A[AVL]")
	assert.Contains(t, out, "Booking successful!")
	assert.Contains(t, out, "You earned 250 loyalty points.")
	assert.Contains(t, out, "Remaining points: 150")
	assert.Contains(t, out, "Exiting...")

	mine, err := svc.Reservations.ListByPassenger(ctx, "P1")
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "1A", mine[0].SeatNumber)
	assert.Equal(t, models.ReservationStatusPending, mine[0].Status)
	assert.Equal(t, models.DefaultGate, mine[0].Gate)

	f, err := svc.Flights.FindFlight(ctx, "AA100")
	require.NoError(t, err)
	assert.Equal(t, 5, f.AvailableSeats)

	activity, err := svc.Activity.List(ctx, "P1")
	require.NoError(t, err)
	var actions []string
	for _, a := range activity {
		actions = append(actions, a.Action)
	}
	assert.Contains(t, actions, "Booked flight")
}

func TestApp_PassengerCheckIn(t *testing.T) {
	ctx, svc := newTestServices(t)
	r := &models.Reservation{
		ReservationID: "R1234",
		PassengerID:   "P1",
		PassengerName: "Pat Doe",
		FlightNumber:  "AA100",
		SeatNumber:    "1B",
		Gate:          models.DefaultGate,
		BoardingTime:  models.DefaultBoardingTime,
		Status:        models.ReservationStatusPending,
	}
	_, err := svc.Booking.BookFlight(ctx, r, models.PaymentMethodCash, nil)
	require.NoError(t, err)

	out := runScript(t, ctx, svc,
		"3", "pat", "secret",
		"3", "R1234",
		"3", "R1234",
		"5", "4",
	)

	assert.Contains(t, out, "BOARDING PASS")
	assert.Contains(t, out, "Check-in successful!")
	assert.Contains(t, out, "You have already checked in for this flight")
}

func TestApp_AgentBooksAndCancels(t *testing.T) {
	ctx, svc := newTestServices(t)

	out := runScript(t, ctx, svc,
		"2", "agent", "agentpw",
		"3", "P7", "Sam Roe", "AA100", "1C", "paypal", "sam-example.com", "", "",
		"3", "P7", "Sam Roe", "AA100", "1C", "paypal", "sam@example.com", "B4", "9:15",
		"7", "4",
	)
	assert.Contains(t, out, "Payment failed: invalid payment details")
	assert.Contains(t, out, "Booking successful!")

	ledger, err := svc.Reservations.ListByPassenger(ctx, "P7")
	require.NoError(t, err)
	require.Len(t, ledger, 1)
	assert.Equal(t, models.ReservationStatusConfirmed, ledger[0].Status)
	assert.Equal(t, "B4", ledger[0].Gate)
	id := ledger[0].ReservationID

	out = runScript(t, ctx, svc,
		"2", "agent", "agentpw",
		"6", id, "AA100", "Sam Roe",
		"5", id, "y",
		"7", "4",
	)
	assert.Contains(t, out, "Boarding pass scanned for passenger Sam Roe")
	assert.Contains(t, out, "Refund of $250.00 processed")
	assert.Contains(t, out, "Reservation canceled successfully.")

	f, err := svc.Flights.FindFlight(ctx, "AA100")
	require.NoError(t, err)
	assert.Equal(t, 6, f.AvailableSeats)
}

func TestApp_AdminAddsFlight(t *testing.T) {
	ctx, svc := newTestServices(t)

	out := runScript(t, ctx, svc,
		"1", "admin", "adminpw",
		"1", "1", "BA200", "London", "Paris", "2025-03-12 09:00:00", "2025-03-12 10:15:00", "Embraer E170", "", "120",
		"9", "5", "4",
	)
	assert.Contains(t, out, "Flight BA200 added successfully.")

	f, err := svc.Flights.FindFlight(ctx, "BA200")
	require.NoError(t, err)
	assert.Equal(t, 6, f.TotalSeats)
	assert.Equal(t, models.FlightStatusScheduled, f.Status)
	assert.Equal(t, 120.0, f.Price)
}

func TestApp_BadLoginAndEOF(t *testing.T) {
	ctx, svc := newTestServices(t)

	out := runScript(t, ctx, svc, "1", "pat", "secret")
	assert.Contains(t, out, "Invalid username/password")

	out = runScript(t, ctx, svc, "abc", "9")
	assert.Contains(t, out, "Please enter a number.")
	assert.Contains(t, out, "Invalid choice. Please try again")
}

func TestApp_AgentCancelsThroughStatusMenu(t *testing.T) {
	ctx, svc := newTestServices(t)
	r := &models.Reservation{
		ReservationID: "R2222",
		PassengerID:   "P9",
		PassengerName: "Lee Park",
		FlightNumber:  "AA100",
		SeatNumber:    "1D",
		Status:        models.ReservationStatusConfirmed,
	}
	_, err := svc.Booking.BookFlight(ctx, r, models.PaymentMethodCash, nil)
	require.NoError(t, err)

	out := runScript(t, ctx, svc,
		"2", "agent", "agentpw",
		"4", "R2222", "3", "Canceled", "4",
		"7", "4",
	)
	assert.Contains(t, out, "Reservation status updated.")

	f, err := svc.Flights.FindFlight(ctx, "AA100")
	require.NoError(t, err)
	assert.Equal(t, 6, f.AvailableSeats)
	sm, err := svc.Seats.GetSeatMap(ctx, "AA100")
	require.NoError(t, err)
	assert.True(t, sm.IsAvailable("1D"))

	violations, err := svc.Booking.VerifyConsistency(ctx)
	require.NoError(t, err)
	assert.Empty(t, violations)
}
