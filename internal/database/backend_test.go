package database

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestFileBackend_ReadMissing(t *testing.T) {
	fb := NewFileBackend(t.TempDir())

	_, err := fb.Read(context.Background(), "flights.json")
	assert.ErrorIs(t, err, ErrDocumentNotFound)
}

func TestFileBackend_WriteReplacesDocument(t *testing.T) {
	dir := t.TempDir()
	fb := NewFileBackend(dir)
	ctx := context.Background()

	require.NoError(t, fb.Write(ctx, "flights.json", []byte(`[{"flightNumber":"AA100"}]`)))
	require.NoError(t, fb.Write(ctx, "flights.json", []byte(`[]`)))

	data, err := fb.Read(ctx, "flights.json")
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))

	// no temp files left behind
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestFileBackend_WriteCreatesSubdirectory(t *testing.T) {
	dir := t.TempDir()
	fb := NewFileBackend(dir)

	require.NoError(t, fb.Write(context.Background(), "reports/user_activity.json", []byte(`[]`)))

	_, err := os.Stat(filepath.Join(dir, "reports", "user_activity.json"))
	assert.NoError(t, err)
}

func TestFileBackend_WriteKeepsMode(t *testing.T) {
	dir := t.TempDir()
	fb := NewFileBackend(dir)
	ctx := context.Background()
	target := filepath.Join(dir, "users.json")

	require.NoError(t, fb.Write(ctx, "users.json", []byte(`[]`)))
	info, err := os.Stat(target)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o644), info.Mode().Perm())

	require.NoError(t, os.Chmod(target, 0o640))
	require.NoError(t, fb.Write(ctx, "users.json", []byte(`[{}]`)))
	info, err = os.Stat(target)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o640), info.Mode().Perm())
}

func TestRedisBackend_RoundTrip(t *testing.T) {
	mr := miniredis.RunT(t)
	ctx := context.Background()

	client, err := NewRedisClient(ctx, mr.Addr(), 0)
	require.NoError(t, err)
	rb := NewRedisBackend(client)
	defer rb.Close()

	_, err = rb.Read(ctx, "seats.json")
	assert.ErrorIs(t, err, ErrDocumentNotFound)

	require.NoError(t, rb.Write(ctx, "seats.json", []byte(`{}`)))

	exists, err := rb.KeyExists(ctx, "seats.json")
	require.NoError(t, err)
	assert.True(t, exists)

	data, err := rb.Read(ctx, "seats.json")
	require.NoError(t, err)
	assert.Equal(t, "{}", string(data))

	raw, err := mr.Get("document:seats.json")
	require.NoError(t, err)
	assert.Equal(t, "{}", raw)
}

func TestNewRedisClient_Unreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	_, err := NewRedisClient(context.Background(), addr, 0)
	assert.Error(t, err)
}

func newMockPostgres(t *testing.T) (*PostgresBackend, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewPostgresBackend(&DB{db}), mock
}

func TestPostgresBackend_Read(t *testing.T) {
	pb, mock := newMockPostgres(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT body FROM documents WHERE name = $1")).
		WithArgs("reservations.json").
		WillReturnRows(sqlmock.NewRows([]string{"body"}).AddRow(`[]`))

	data, err := pb.Read(context.Background(), "reservations.json")
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresBackend_ReadMissing(t *testing.T) {
	pb, mock := newMockPostgres(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT body FROM documents WHERE name = $1")).
		WithArgs("crew.json").
		WillReturnError(sql.ErrNoRows)

	_, err := pb.Read(context.Background(), "crew.json")
	assert.ErrorIs(t, err, ErrDocumentNotFound)
}

func TestPostgresBackend_WriteUpserts(t *testing.T) {
	pb, mock := newMockPostgres(t)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO documents")).
		WithArgs("flights.json", `[]`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, pb.Write(context.Background(), "flights.json", []byte(`[]`)))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresBackend_EnsureSchema(t *testing.T) {
	pb, mock := newMockPostgres(t)

	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS documents")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, pb.EnsureSchema(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNewBackend_SelectsKind(t *testing.T) {
	logger := zap.NewNop()
	ctx := context.Background()

	b, err := NewBackend(ctx, Options{Kind: BackendFile, DataDir: t.TempDir()}, logger)
	require.NoError(t, err)
	assert.IsType(t, &FileBackend{}, b)

	mr := miniredis.RunT(t)
	b, err = NewBackend(ctx, Options{Kind: BackendRedis, RedisAddr: mr.Addr()}, logger)
	require.NoError(t, err)
	assert.IsType(t, &RedisBackend{}, b)
	b.Close()

	_, err = NewBackend(ctx, Options{Kind: "sqlite"}, logger)
	assert.Error(t, err)
}
