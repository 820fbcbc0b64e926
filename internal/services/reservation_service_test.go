package services

import (
	"regexp"
	"testing"

	"airline_reservations/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReservationLedger(t *testing.T) {
	env := newTestEnv(t)

	require.NoError(t, env.reservations.Create(env.ctx, *newReservation("R1", "P1", "AA100", "1A")))
	require.NoError(t, env.reservations.Create(env.ctx, *newReservation("R2", "P2", "AA100", "1B")))
	require.NoError(t, env.reservations.Create(env.ctx, *newReservation("R3", "P1", "BB200", "2C")))

	err := env.reservations.Create(env.ctx, *newReservation("R1", "P3", "AA100", "1C"))
	assert.ErrorIs(t, err, models.ErrDuplicateReservationID)

	mine, err := env.reservations.ListByPassenger(env.ctx, "P1")
	require.NoError(t, err)
	assert.Len(t, mine, 2)

	onFlight, err := env.reservations.ListByFlight(env.ctx, "AA100")
	require.NoError(t, err)
	assert.Len(t, onFlight, 2)

	count, revenue, err := env.reservations.CountReservationsAndRevenue(env.ctx, "AA100")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	assert.InDelta(t, 500.0, revenue, 0.001)

	require.NoError(t, env.reservations.UpdateStatus(env.ctx, "R2", models.ReservationStatusConfirmed))
	require.NoError(t, env.reservations.UpdatePassengerName(env.ctx, "R2", "Ada Lovelace"))
	require.NoError(t, env.reservations.UpdateSeatNumber(env.ctx, "R2", "1E"))
	r, err := env.reservations.FindReservation(env.ctx, "R2")
	require.NoError(t, err)
	assert.Equal(t, models.ReservationStatusConfirmed, r.Status)
	assert.Equal(t, "Ada Lovelace", r.PassengerName)
	assert.Equal(t, "1E", r.SeatNumber)

	assert.ErrorIs(t, env.reservations.UpdateStatus(env.ctx, "R2", "Lost"), models.ErrInvalidStatus)
	assert.ErrorIs(t, env.reservations.UpdateStatus(env.ctx, "R9", models.ReservationStatusConfirmed), models.ErrNotFound)

	require.NoError(t, env.reservations.Remove(env.ctx, "R1"))
	assert.ErrorIs(t, env.reservations.Remove(env.ctx, "R1"), models.ErrNotFound)
	assert.Len(t, env.ledger(t), 2)
}

func TestGenerateReservationID(t *testing.T) {
	env := newTestEnv(t)
	pattern := regexp.MustCompile(`^R\d{4}$`)

	seen := make(map[string]bool)
	for i := 0; i < 20; i++ {
		id, err := env.reservations.GenerateReservationID(env.ctx)
		require.NoError(t, err)
		assert.Regexp(t, pattern, id)
		require.NoError(t, env.reservations.Create(env.ctx, models.Reservation{ReservationID: id}))
		assert.False(t, seen[id], "id %s generated twice", id)
		seen[id] = true
	}
}

func TestReservationUpdate_KeepsID(t *testing.T) {
	env := newTestEnv(t)
	require.NoError(t, env.reservations.Create(env.ctx, *newReservation("R1", "P1", "AA100", "1A")))

	updated := *newReservation("R999", "P1", "AA100", "1A")
	updated.Gate = "C3"
	updated.Status = models.ReservationStatusConfirmed
	require.NoError(t, env.reservations.Update(env.ctx, "R1", updated))

	r, err := env.reservations.FindReservation(env.ctx, "R1")
	require.NoError(t, err)
	assert.Equal(t, "C3", r.Gate)
	assert.Equal(t, models.ReservationStatusConfirmed, r.Status)
	assert.Len(t, env.ledger(t), 1)

	updated.Status = "Lost"
	assert.ErrorIs(t, env.reservations.Update(env.ctx, "R1", updated), models.ErrInvalidStatus)
	updated.Status = models.ReservationStatusPending
	assert.ErrorIs(t, env.reservations.Update(env.ctx, "R2", updated), models.ErrNotFound)
}
