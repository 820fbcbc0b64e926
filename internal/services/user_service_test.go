package services

import (
	"testing"
	"time"

	"airline_reservations/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserLifecycle(t *testing.T) {
	env := newTestEnv(t)

	require.NoError(t, env.users.CreateUser(env.ctx, models.User{ID: "U1", Username: "root", Password: "pw", Role: "administrator"}))
	require.NoError(t, env.users.CreateUser(env.ctx, models.User{ID: "U2", Username: "agent", Password: "pw", Role: "Booking Agent"}))

	assert.ErrorIs(t, env.users.CreateUser(env.ctx, models.User{ID: "U1", Username: "other", Role: "Passenger"}), models.ErrDuplicateUser)
	assert.ErrorIs(t, env.users.CreateUser(env.ctx, models.User{ID: "U3", Username: "root", Role: "Passenger"}), models.ErrDuplicateUser)
	assert.ErrorIs(t, env.users.CreateUser(env.ctx, models.User{ID: "U4", Username: "pilot", Role: "Pilot"}), models.ErrInvalidRole)

	u, err := env.users.Login(env.ctx, "root", "pw", models.RoleAdministrator)
	require.NoError(t, err)
	assert.Equal(t, "U1", u.ID)
	assert.Equal(t, models.RoleAdministrator, u.Role, "role stored in canonical form")

	_, err = env.users.Login(env.ctx, "root", "pw", models.RolePassenger)
	assert.ErrorIs(t, err, models.ErrPermissionDenied)
	_, err = env.users.Login(env.ctx, "root", "wrong", models.RoleAdministrator)
	assert.ErrorIs(t, err, models.ErrPermissionDenied)

	require.NoError(t, env.users.UpdateUser(env.ctx, "U2", models.User{Username: "agent2", Password: "pw2", Role: "passenger"}))
	u, err = env.users.FindUser(env.ctx, "U2")
	require.NoError(t, err)
	assert.Equal(t, "agent2", u.Username)
	assert.Equal(t, models.RolePassenger, u.Role)
	assert.ErrorIs(t, env.users.UpdateUser(env.ctx, "U2", models.User{Username: "root", Role: "Passenger"}), models.ErrDuplicateUser)
	assert.ErrorIs(t, env.users.UpdateUser(env.ctx, "U9", models.User{Username: "x", Role: "Passenger"}), models.ErrNotFound)

	require.NoError(t, env.users.DeleteUser(env.ctx, "U2"))
	assert.ErrorIs(t, env.users.DeleteUser(env.ctx, "U2"), models.ErrNotFound)
	users, err := env.users.ListUsers(env.ctx)
	require.NoError(t, err)
	assert.Len(t, users, 1)
}

func TestActivityLogger(t *testing.T) {
	env := newTestEnv(t)
	env.activity.now = func() time.Time { return time.Date(2025, 3, 1, 9, 30, 0, 0, time.UTC) }

	require.NoError(t, env.activity.Log(env.ctx, "U1", "admin", "Added flight", "Flight: AA100"))
	env.activity.Record(env.ctx, "P1", "passenger", "Searched Flights", "")

	all, err := env.activity.List(env.ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "2025-03-01 09:30:00", all[0].Timestamp)

	mine, err := env.reports.UserActivityReport(env.ctx, "P1")
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "Searched Flights", mine[0].Action)
}

func TestAuthorize(t *testing.T) {
	assert.NoError(t, Authorize(models.RoleAdministrator, CapManageFlights))
	assert.NoError(t, Authorize("booking agent", CapScanBoardingPass))
	assert.NoError(t, Authorize(models.RolePassenger, CapCheckIn))
	assert.ErrorIs(t, Authorize(models.RolePassenger, CapManageUsers), models.ErrPermissionDenied)
	assert.ErrorIs(t, Authorize(models.RoleBookingAgent, CapCheckIn), models.ErrPermissionDenied)
	assert.ErrorIs(t, Authorize("Pilot", CapSearchFlights), models.ErrPermissionDenied)
}
