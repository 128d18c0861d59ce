package db

import (
	"path/filepath"
	"testing"

	"punchclock/internal/db/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	database, err := New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })
	return database
}

func TestLoadEmptyStore(t *testing.T) {
	database := openTestDB(t)

	punches, err := database.Load()
	require.NoError(t, err)
	assert.Empty(t, punches)
}

func TestPersistLoadRoundTrip(t *testing.T) {
	database := openTestDB(t)

	want := []models.Punch{
		{ID: uuid.New(), Kind: models.KindOut, Timestamp: 2000},
		{ID: uuid.New(), Kind: models.KindIn, Timestamp: 1000},
	}
	require.NoError(t, database.Persist(want))

	got, err := database.Load()
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestAppendPrependsAndPersists(t *testing.T) {
	database := openTestDB(t)

	first, err := database.Append(models.KindIn)
	require.NoError(t, err)
	second, err := database.Append(models.KindOut)
	require.NoError(t, err)

	punches, err := database.Load()
	require.NoError(t, err)
	require.Len(t, punches, 2)

	// Most-recent-first order.
	assert.Equal(t, second.ID, punches[0].ID)
	assert.Equal(t, first.ID, punches[1].ID)
	assert.Equal(t, models.KindOut, punches[0].Kind)
	assert.GreaterOrEqual(t, punches[0].Timestamp, punches[1].Timestamp)
}

func TestAppendDoesNotEnforceAlternation(t *testing.T) {
	database := openTestDB(t)

	_, err := database.Append(models.KindOut)
	require.NoError(t, err)
	_, err = database.Append(models.KindOut)
	require.NoError(t, err)

	punches, err := database.Load()
	require.NoError(t, err)
	assert.Len(t, punches, 2)
}

func TestLoadMalformedDataTreatedAsEmpty(t *testing.T) {
	database := openTestDB(t)

	_, err := database.Exec(
		`INSERT INTO store (key, value) VALUES (?, ?)`,
		"punches", "{not json",
	)
	require.NoError(t, err)

	punches, err := database.Load()
	require.NoError(t, err)
	assert.Empty(t, punches)
}

func TestClear(t *testing.T) {
	database := openTestDB(t)

	_, err := database.Append(models.KindIn)
	require.NoError(t, err)
	require.NoError(t, database.Clear())

	punches, err := database.Load()
	require.NoError(t, err)
	assert.Empty(t, punches)
}

func TestPersistNilWritesEmptyList(t *testing.T) {
	database := openTestDB(t)

	require.NoError(t, database.Persist(nil))
	punches, err := database.Load()
	require.NoError(t, err)
	assert.Empty(t, punches)
}
