package services

import (
	"context"
	"math/rand"
	"testing"

	"airline_reservations/internal/database"
	"airline_reservations/internal/models"
	"airline_reservations/internal/store"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type testEnv struct {
	ctx          context.Context
	store        *store.Store
	dir          string
	flights      *FlightService
	seats        *SeatService
	reservations *ReservationService
	payments     *PaymentService
	aircraft     *AircraftService
	crew         *CrewService
	users        *UserService
	activity     *ActivityLogger
	reports      *ReportService
	booking      *BookingService
}

func strPtr(s string) *string { return &s }

// newTestEnv wires every service over a file store in a temp dir holding
// flight AA100 with one row of six available seats
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	dir := t.TempDir()
	st := store.New(database.NewFileBackend(dir))
	logger := zap.NewNop()

	env := &testEnv{ctx: context.Background(), store: st, dir: dir}
	env.flights = NewFlightService(st, logger)
	env.seats = NewSeatService(st, logger)
	env.reservations = NewReservationService(st, logger, rand.New(rand.NewSource(1)))
	env.payments = NewPaymentService(logger)
	env.aircraft = NewAircraftService(st, logger)
	env.crew = NewCrewService(st, env.flights, logger)
	env.users = NewUserService(st, logger)
	env.activity = NewActivityLogger(st, logger)
	env.reports = NewReportService(env.flights, env.reservations, env.aircraft, env.activity, logger)
	env.booking = NewBookingService(st, env.flights, env.seats, env.reservations, env.payments, env.aircraft, logger)

	_, err := st.EnsureDocuments(env.ctx, store.DefaultDocuments())
	require.NoError(t, err)

	env.save(t, store.AircraftDocument, []models.Aircraft{
		{AircraftID: "AC1", Type: "Embraer E170", Capacity: 6, MaintenanceDue: "2025-06-01", Status: "Active"},
		{AircraftID: "AC2", Type: "Boeing 737", Capacity: 24, MaintenanceDue: "2025-09-01", Status: "Active"},
	})
	env.save(t, store.FlightsDocument, []models.Flight{
		{
			FlightNumber:   "AA100",
			Origin:         "New York",
			Destination:    "Chicago",
			Departure:      "2025-03-10 08:00:00",
			Arrival:        "2025-03-10 10:30:00",
			AircraftModel:  "Embraer E170",
			Status:         models.FlightStatusScheduled,
			TotalSeats:     6,
			AvailableSeats: 6,
			Price:          250,
		},
	})
	sm, err := models.NewSeatMap(1, models.SeatsPerRow)
	require.NoError(t, err)
	env.save(t, store.SeatsDocument, models.SeatMaps{"AA100": sm})

	return env
}

func (env *testEnv) save(t *testing.T, name string, v interface{}) {
	t.Helper()
	require.NoError(t, env.store.Save(env.ctx, name, v))
}

func (env *testEnv) flight(t *testing.T, flightNumber string) *models.Flight {
	t.Helper()
	f, err := env.flights.FindFlight(env.ctx, flightNumber)
	require.NoError(t, err)
	return f
}

func (env *testEnv) seatStatus(t *testing.T, flightNumber, seatID string) string {
	t.Helper()
	sm, err := env.seats.GetSeatMap(env.ctx, flightNumber)
	require.NoError(t, err)
	return sm.Seats[seatID]
}

func (env *testEnv) ledger(t *testing.T) []models.Reservation {
	t.Helper()
	reservations, err := env.reservations.ListReservations(env.ctx)
	require.NoError(t, err)
	return reservations
}

func newReservation(id, passengerID, flightNumber, seat string) *models.Reservation {
	return &models.Reservation{
		ReservationID: id,
		PassengerID:   passengerID,
		PassengerName: "Passenger " + passengerID,
		FlightNumber:  flightNumber,
		SeatNumber:    seat,
		Gate:          models.DefaultGate,
		BoardingTime:  models.DefaultBoardingTime,
		Status:        models.ReservationStatusPending,
		Price:         250,
	}
}

// book books a reservation paid in cash and fails the test on error
func (env *testEnv) book(t *testing.T, r *models.Reservation) {
	t.Helper()
	_, err := env.booking.BookFlight(env.ctx, r, models.PaymentMethodCash, nil)
	require.NoError(t, err)
}
