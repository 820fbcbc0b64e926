package services

import (
	"testing"

	"airline_reservations/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestCreateSeatMap(t *testing.T) {
	env := newTestEnv(t)

	require.NoError(t, env.seats.CreateSeatMap(env.ctx, "NW1", 3, 4))
	sm, err := env.seats.GetSeatMap(env.ctx, "NW1")
	require.NoError(t, err)
	assert.Len(t, sm.Seats, 12)
	assert.Equal(t, 12, sm.CountAvailable())
	assert.True(t, sm.Has("3D"))
	assert.False(t, sm.Has("3E"))

	err = env.seats.CreateSeatMap(env.ctx, "AA100", 10, 6)
	assert.ErrorIs(t, err, models.ErrAlreadyExists)
	sm, err = env.seats.GetSeatMap(env.ctx, "AA100")
	require.NoError(t, err)
	assert.Len(t, sm.Seats, 6, "existing map untouched")

	assert.Error(t, env.seats.CreateSeatMap(env.ctx, "NW2", 2, 7))
}

func TestMarkBookedAndAvailable(t *testing.T) {
	env := newTestEnv(t)

	require.NoError(t, env.seats.MarkBooked(env.ctx, "AA100", "1D"))
	assert.Equal(t, models.SeatStatusBooked, env.seatStatus(t, "AA100", "1D"))

	assert.ErrorIs(t, env.seats.MarkBooked(env.ctx, "AA100", "1D"), models.ErrSeatAlreadyBooked)
	assert.ErrorIs(t, env.seats.MarkBooked(env.ctx, "AA100", "7D"), models.ErrSeatNotFound)
	assert.ErrorIs(t, env.seats.MarkBooked(env.ctx, "XX1", "1A"), models.ErrFlightNotFound)

	require.NoError(t, env.seats.MarkAvailable(env.ctx, "AA100", "1D"))
	assert.Equal(t, models.SeatStatusAvailable, env.seatStatus(t, "AA100", "1D"))
	// Releasing an available seat is a no-op
	require.NoError(t, env.seats.MarkAvailable(env.ctx, "AA100", "1D"))
}

func TestSwapSeat_MissingOldSeat(t *testing.T) {
	sm, err := models.NewSeatMap(1, 6)
	require.NoError(t, err)
	maps := models.SeatMaps{"AA100": sm}

	err = swapSeat(maps, "AA100", "9A", "1B")
	assert.ErrorIs(t, err, models.ErrSeatNotFound)
	assert.True(t, sm.IsAvailable("1B"), "new seat stays available")
}

func TestRemoveFlightSeatMap(t *testing.T) {
	env := newTestEnv(t)

	removed, err := env.seats.RemoveFlightSeatMap(env.ctx, "AA100")
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = env.seats.RemoveFlightSeatMap(env.ctx, "AA100")
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestRemoveSeatMap_LeavesOthers(t *testing.T) {
	a, _ := models.NewSeatMap(1, 6)
	b, _ := models.NewSeatMap(2, 6)
	maps := models.SeatMaps{"A": a, "B": b}

	assert.True(t, removeSeatMap(maps, "A", zap.NewNop()))
	assert.NotContains(t, maps, "A")
	assert.Contains(t, maps, "B")
}
