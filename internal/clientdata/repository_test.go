package clientdata

import (
	"database/sql"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func setupTestDB(t *testing.T) *sql.DB {
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)

	repo := NewRepository(db)
	require.NoError(t, repo.InitSchema())

	return db
}

func TestNewRepository(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	repo := NewRepository(db)
	assert.NotNil(t, repo)
}

func TestStore(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	repo := NewRepository(db)

	data := map[string]interface{}{
		"from": "USD",
		"to":   "NZD",
		"rate": 1.66,
	}

	err := repo.Store("fxrates", "USD:NZD", data, TTLExchangeRate)
	require.NoError(t, err)

	// Verify data was stored
	var storedData string
	var expiresAt int64
	err = db.QueryRow("SELECT data, expires_at FROM fxrates WHERE pair = ?", "USD:NZD").Scan(&storedData, &expiresAt)
	require.NoError(t, err)

	var parsed map[string]interface{}
	err = json.Unmarshal([]byte(storedData), &parsed)
	require.NoError(t, err)
	assert.Equal(t, "USD", parsed["from"])
	assert.Equal(t, 1.66, parsed["rate"])

	// Verify expiration is roughly TTL from now
	expectedExpires := time.Now().Add(TTLExchangeRate).Unix()
	assert.InDelta(t, expectedExpires, expiresAt, 5) // Allow 5 second tolerance
}

func TestStoreUpsert(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	repo := NewRepository(db)

	// Store initial data
	data1 := map[string]string{"version": "1"}
	err := repo.Store("fxrates", "USD:EUR", data1, time.Hour)
	require.NoError(t, err)

	// Store updated data with same key
	data2 := map[string]string{"version": "2"}
	err = repo.Store("fxrates", "USD:EUR", data2, time.Hour)
	require.NoError(t, err)

	// Verify only one row exists with updated data
	var count int
	err = db.QueryRow("SELECT COUNT(*) FROM fxrates WHERE pair = ?", "USD:EUR").Scan(&count)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	result, err := repo.GetIfFresh("fxrates", "USD:EUR")
	require.NoError(t, err)
	require.NotNil(t, result)

	var parsed map[string]string
	err = json.Unmarshal(result, &parsed)
	require.NoError(t, err)
	assert.Equal(t, "2", parsed["version"])
}

func TestGetIfFresh_Fresh(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	repo := NewRepository(db)

	data := map[string]string{"status": "fresh"}
	err := repo.Store("currencies", "all", data, time.Hour)
	require.NoError(t, err)

	result, err := repo.GetIfFresh("currencies", "all")
	require.NoError(t, err)
	require.NotNil(t, result)

	var parsed map[string]string
	err = json.Unmarshal(result, &parsed)
	require.NoError(t, err)
	assert.Equal(t, "fresh", parsed["status"])
}

func TestGetIfFresh_Expired(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	repo := NewRepository(db)

	// Insert expired data directly (expired 1 hour ago)
	expiredAt := time.Now().Add(-time.Hour).Unix()
	_, err := db.Exec(
		"INSERT INTO fxrates (pair, data, expires_at) VALUES (?, ?, ?)",
		"USD:NZD",
		`{"status":"expired"}`,
		expiredAt,
	)
	require.NoError(t, err)

	result, err := repo.GetIfFresh("fxrates", "USD:NZD")
	require.NoError(t, err)
	assert.Nil(t, result, "Expected nil for expired data")
}

func TestGet_ReturnsStaleData(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	repo := NewRepository(db)

	expiredAt := time.Now().Add(-time.Hour).Unix()
	_, err := db.Exec(
		"INSERT INTO fxrates (pair, data, expires_at) VALUES (?, ?, ?)",
		"USD:NZD",
		`{"status":"stale_but_useful"}`,
		expiredAt,
	)
	require.NoError(t, err)

	// GetIfFresh should return nil
	result, err := repo.GetIfFresh("fxrates", "USD:NZD")
	require.NoError(t, err)
	assert.Nil(t, result, "GetIfFresh should return nil for expired data")

	// Get should return the stale data (useful when API fails)
	result, err = repo.Get("fxrates", "USD:NZD")
	require.NoError(t, err)
	require.NotNil(t, result, "Get should return stale data")

	var parsed map[string]string
	err = json.Unmarshal(result, &parsed)
	require.NoError(t, err)
	assert.Equal(t, "stale_but_useful", parsed["status"])
}

func TestGet_NotFound(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	repo := NewRepository(db)

	result, err := repo.Get("fxrates", "NONEXISTENT")
	require.NoError(t, err)
	assert.Nil(t, result)
}

func TestDelete(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	repo := NewRepository(db)

	data := map[string]string{"to_delete": "true"}
	err := repo.Store("currencies", "all", data, time.Hour)
	require.NoError(t, err)

	result, err := repo.GetIfFresh("currencies", "all")
	require.NoError(t, err)
	require.NotNil(t, result)

	err = repo.Delete("currencies", "all")
	require.NoError(t, err)

	result, err = repo.GetIfFresh("currencies", "all")
	require.NoError(t, err)
	assert.Nil(t, result)
}

func TestDeleteExpired(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	repo := NewRepository(db)

	now := time.Now()

	// 3 expired entries and 2 fresh entries
	expiredAt := now.Add(-time.Hour).Unix()
	freshAt := now.Add(time.Hour).Unix()

	for _, pair := range []string{"EUR:USD", "GBP:USD", "JPY:USD"} {
		_, err := db.Exec("INSERT INTO fxrates (pair, data, expires_at) VALUES (?, ?, ?)", pair, `{}`, expiredAt)
		require.NoError(t, err)
	}
	for _, pair := range []string{"CHF:USD", "AUD:USD"} {
		_, err := db.Exec("INSERT INTO fxrates (pair, data, expires_at) VALUES (?, ?, ?)", pair, `{}`, freshAt)
		require.NoError(t, err)
	}

	deleted, err := repo.DeleteExpired("fxrates")
	require.NoError(t, err)
	assert.Equal(t, int64(3), deleted)

	var count int
	err = db.QueryRow("SELECT COUNT(*) FROM fxrates").Scan(&count)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestDeleteAllExpired(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	repo := NewRepository(db)

	now := time.Now()
	expiredAt := now.Add(-time.Hour).Unix()
	freshAt := now.Add(time.Hour).Unix()

	_, err := db.Exec("INSERT INTO fxrates (pair, data, expires_at) VALUES (?, ?, ?)", "EUR:USD", `{}`, expiredAt)
	require.NoError(t, err)
	_, err = db.Exec("INSERT INTO fxrates (pair, data, expires_at) VALUES (?, ?, ?)", "GBP:USD", `{}`, freshAt)
	require.NoError(t, err)
	_, err = db.Exec("INSERT INTO currencies (key, data, expires_at) VALUES (?, ?, ?)", "all", `{}`, expiredAt)
	require.NoError(t, err)

	results, err := repo.DeleteAllExpired()
	require.NoError(t, err)

	assert.Equal(t, int64(1), results["fxrates"])
	assert.Equal(t, int64(1), results["currencies"])

	var count int
	db.QueryRow("SELECT COUNT(*) FROM fxrates").Scan(&count)
	assert.Equal(t, 1, count)

	db.QueryRow("SELECT COUNT(*) FROM currencies").Scan(&count)
	assert.Equal(t, 0, count)
}

func TestGetKeyColumn(t *testing.T) {
	tests := []struct {
		table    string
		expected string
	}{
		{"fxrates", "pair"},
		{"currencies", "key"},
	}

	for _, tc := range tests {
		t.Run(tc.table, func(t *testing.T) {
			result := getKeyColumn(tc.table)
			assert.Equal(t, tc.expected, result)
		})
	}
}

func TestInvalidTableName(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	repo := NewRepository(db)

	t.Run("Store", func(t *testing.T) {
		err := repo.Store("invalid_table; DROP TABLE fxrates;--", "key", map[string]string{}, time.Hour)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid table name")
	})

	t.Run("GetIfFresh", func(t *testing.T) {
		_, err := repo.GetIfFresh("users", "key")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid table name")
	})

	t.Run("Get", func(t *testing.T) {
		_, err := repo.Get("passwords", "key")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid table name")
	})

	t.Run("Delete", func(t *testing.T) {
		err := repo.Delete("secrets", "key")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid table name")
	})

	t.Run("DeleteExpired", func(t *testing.T) {
		_, err := repo.DeleteExpired("nonexistent")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid table name")
	})
}

func TestValidateTable(t *testing.T) {
	for _, table := range AllTables {
		t.Run(table, func(t *testing.T) {
			err := validateTable(table)
			assert.NoError(t, err)
		})
	}
}
