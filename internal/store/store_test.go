package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"airline_reservations/internal/database"
	"airline_reservations/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	dir := t.TempDir()
	return New(database.NewFileBackend(dir)), dir
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestLoadList_NotFound(t *testing.T) {
	s, _ := newTestStore(t)

	_, err := LoadList[models.Flight](context.Background(), s, FlightsDocument)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestLoadList_RejectsObject(t *testing.T) {
	s, dir := newTestStore(t)
	writeFile(t, dir, ReservationsDocument, `{"R1": {}}`)

	_, err := LoadList[models.Reservation](context.Background(), s, ReservationsDocument)
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestLoadList_RejectsGarbage(t *testing.T) {
	s, dir := newTestStore(t)
	writeFile(t, dir, FlightsDocument, `[{"flightNumber": `)

	_, err := LoadList[models.Flight](context.Background(), s, FlightsDocument)
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestLoadList_NullIsEmpty(t *testing.T) {
	s, dir := newTestStore(t)
	writeFile(t, dir, ReservationsDocument, "null\n")

	records, err := LoadList[models.Reservation](context.Background(), s, ReservationsDocument)
	require.NoError(t, err)
	assert.Empty(t, records)
	assert.NotNil(t, records)
}

func TestLoadObject_RejectsArray(t *testing.T) {
	s, dir := newTestStore(t)
	writeFile(t, dir, SeatsDocument, `[]`)

	_, err := LoadObject[models.SeatMaps](context.Background(), s, SeatsDocument)
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestSave_ReplacesDocument(t *testing.T) {
	s, dir := newTestStore(t)
	ctx := context.Background()

	flights := []models.Flight{{FlightNumber: "AA100", TotalSeats: 6, AvailableSeats: 6}}
	require.NoError(t, s.Save(ctx, FlightsDocument, flights))
	require.NoError(t, s.Save(ctx, FlightsDocument, flights[:0]))

	loaded, err := LoadList[models.Flight](ctx, s, FlightsDocument)
	require.NoError(t, err)
	assert.Empty(t, loaded)

	raw, err := os.ReadFile(filepath.Join(dir, FlightsDocument))
	require.NoError(t, err)
	assert.Equal(t, "[]\n", string(raw))
}

func TestSave_UsesFourSpaceIndent(t *testing.T) {
	s, dir := newTestStore(t)
	sm, err := models.NewSeatMap(1, 1)
	require.NoError(t, err)

	require.NoError(t, s.Save(context.Background(), SeatsDocument, models.SeatMaps{"AA100": sm}))

	raw, err := os.ReadFile(filepath.Join(dir, SeatsDocument))
	require.NoError(t, err)
	assert.Contains(t, string(raw), "\n    \"AA100\": {")
}

func TestEnsureDocuments_KeepsExisting(t *testing.T) {
	s, dir := newTestStore(t)
	ctx := context.Background()
	writeFile(t, dir, FlightsDocument, `[{"flightNumber":"AA100"}]`)

	created, err := s.EnsureDocuments(ctx, DefaultDocuments())
	require.NoError(t, err)
	assert.NotContains(t, created, FlightsDocument)
	assert.Contains(t, created, ActivityDocument)

	flights, err := LoadList[models.Flight](ctx, s, FlightsDocument)
	require.NoError(t, err)
	require.Len(t, flights, 1)

	crew, err := LoadObject[models.CrewRoster](ctx, s, CrewDocument)
	require.NoError(t, err)
	assert.Empty(t, crew.Pilots)
}

func TestCopyTo_CopiesExistingDocuments(t *testing.T) {
	src, srcDir := newTestStore(t)
	dst, dstDir := newTestStore(t)
	writeFile(t, srcDir, FlightsDocument, "[]\n")

	err := src.CopyTo(context.Background(), dst, []string{FlightsDocument, SeatsDocument})
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dstDir, FlightsDocument))
	require.NoError(t, err)
	assert.Equal(t, "[]\n", string(data))

	exists, err := dst.Exists(context.Background(), SeatsDocument)
	require.NoError(t, err)
	assert.False(t, exists)
}
