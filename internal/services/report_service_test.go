package services

import (
	"testing"

	"airline_reservations/internal/models"
	"airline_reservations/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlightPerformanceReport(t *testing.T) {
	env := newTestEnv(t)
	env.save(t, store.FlightsDocument, []models.Flight{
		{FlightNumber: "M1", Departure: "2025-05-02 08:00:00", Arrival: "2025-05-02 10:00:00", Status: models.FlightStatusCompleted},
		{FlightNumber: "M2", Departure: "2025-05-10 08:00:00", Arrival: "2025-05-10 10:00:00", Status: models.FlightStatusDelayed},
		{FlightNumber: "M3", Departure: "2025-05-20 08:00:00", Arrival: "2025-05-20 10:00:00", Status: models.FlightStatusCanceled},
		{FlightNumber: "M4", Departure: "2025-05-30 08:00:00", Arrival: "2025-05-30 10:00:00", Status: models.FlightStatusScheduled},
		{FlightNumber: "J1", Departure: "2025-06-01 08:00:00", Arrival: "2025-06-01 10:00:00", Status: models.FlightStatusCompleted},
	})
	for _, r := range []models.Reservation{
		{ReservationID: "R1", FlightNumber: "M1", Price: 100},
		{ReservationID: "R2", FlightNumber: "M1", Price: 150},
		{ReservationID: "R3", FlightNumber: "M2", Price: 80},
		{ReservationID: "R4", FlightNumber: "J1", Price: 999},
	} {
		require.NoError(t, env.reservations.Create(env.ctx, r))
	}

	report, err := env.reports.FlightPerformanceReport(env.ctx, "05", "2025")
	require.NoError(t, err)
	assert.Equal(t, 4, report.TotalScheduled)
	assert.Equal(t, 1, report.Completed)
	assert.Equal(t, 1, report.Delayed)
	assert.Equal(t, 1, report.Canceled)
	assert.Equal(t, 3, report.TotalReservations)
	assert.InDelta(t, 330.0, report.TotalRevenue, 0.001)
	require.Len(t, report.Flights, 4)
	assert.Equal(t, 2, report.Flights[0].Reservations)

	empty, err := env.reports.FlightPerformanceReport(env.ctx, "01", "2024")
	require.NoError(t, err)
	assert.Zero(t, empty.TotalScheduled)
}

func TestMaintenanceReport(t *testing.T) {
	env := newTestEnv(t)
	require.NoError(t, env.flights.UpdateFlightStatus(env.ctx, "AA100", models.FlightStatusCompleted))
	require.NoError(t, env.aircraft.AddMaintenanceLog(env.ctx, "AC1", "2025-01-15", "Engine inspection"))
	require.NoError(t, env.aircraft.ScheduleMaintenance(env.ctx, "AC1", "2025-05-01", "Tyre change"))

	report, err := env.reports.MaintenanceReport(env.ctx, "AC1")
	require.NoError(t, err)
	assert.Equal(t, "Embraer E170", report.Aircraft.Type)
	require.Len(t, report.Logs, 1)
	assert.Equal(t, "Engine inspection", report.Logs[0].Description)
	require.Len(t, report.Schedule, 1)
	assert.Equal(t, 2.0, report.Utilization)

	// Earlier schedule date moves maintenanceDue
	a, err := env.aircraft.FindAircraft(env.ctx, "AC1")
	require.NoError(t, err)
	assert.Equal(t, "2025-05-01", a.MaintenanceDue)

	_, err = env.reports.MaintenanceReport(env.ctx, "AC9")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestAircraftCRUD(t *testing.T) {
	env := newTestEnv(t)

	require.NoError(t, env.aircraft.AddAircraft(env.ctx, models.Aircraft{AircraftID: "AC3", Type: "Airbus A320", Capacity: 180}))
	assert.ErrorIs(t, env.aircraft.AddAircraft(env.ctx, models.Aircraft{AircraftID: "AC3"}), models.ErrAlreadyExists)

	require.NoError(t, env.aircraft.UpdateAircraft(env.ctx, "AC3", models.Aircraft{Type: "Airbus A321", Capacity: 186, Status: "Maintenance"}))
	a, err := env.aircraft.FindByType(env.ctx, "Airbus A321")
	require.NoError(t, err)
	assert.Equal(t, "AC3", a.AircraftID)
	assert.Equal(t, 31, a.Rows())

	require.NoError(t, env.aircraft.DeleteAircraft(env.ctx, "AC3"))
	assert.ErrorIs(t, env.aircraft.DeleteAircraft(env.ctx, "AC3"), models.ErrNotFound)
	assert.ErrorIs(t, env.aircraft.UpdateAircraft(env.ctx, "AC3", models.Aircraft{}), models.ErrNotFound)
}
