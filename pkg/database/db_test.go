package database

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenSQLiteInMemory(t *testing.T) {
	db, err := Open(Config{Driver: "sqlite", DSN: "file::memory:", MaxOpenConns: 1})
	require.NoError(t, err)
	t.Cleanup(func() { _ = Close(db) })

	assert.NoError(t, Ping(db))

	var fk int
	require.NoError(t, db.Raw("PRAGMA foreign_keys").Scan(&fk).Error)
	assert.Equal(t, 1, fk)
}

func TestOpenUnknownDriver(t *testing.T) {
	_, err := Open(Config{Driver: "oracle"})
	assert.ErrorContains(t, err, "unsupported DB_DRIVER")
}

func TestCloseNil(t *testing.T) {
	assert.NoError(t, Close(nil))
}

func TestForeignKeysOnEveryPooledConnection(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "fk.db")
	db, err := Open(Config{Driver: "sqlite", DSN: dsn, MaxOpenConns: 4})
	require.NoError(t, err)
	t.Cleanup(func() { _ = Close(db) })

	sqlDB, err := db.DB()
	require.NoError(t, err)

	ctx := context.Background()
	var held []*sql.Conn
	for i := 0; i < 4; i++ {
		conn, err := sqlDB.Conn(ctx)
		require.NoError(t, err)
		held = append(held, conn)

		var fk int
		require.NoError(t, conn.QueryRowContext(ctx, "PRAGMA foreign_keys").Scan(&fk))
		assert.Equal(t, 1, fk, "connection %d", i)
	}
	for _, c := range held {
		_ = c.Close()
	}
}

func TestSQLiteDSN(t *testing.T) {
	assert.Equal(t, "file::memory:?_foreign_keys=on", SQLiteDSN("file::memory:"))
	assert.Equal(t, "app.db?_busy_timeout=5000&_foreign_keys=on", SQLiteDSN("app.db?_busy_timeout=5000"))
	assert.Equal(t, "app.db?_fk=off", SQLiteDSN("app.db?_fk=off"))
}
