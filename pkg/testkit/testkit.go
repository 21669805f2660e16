// Package testkit holds helpers shared by package tests: a throwaway SQLite
// database and thin wrappers around httptest for JSON APIs.
package testkit

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/shashiranjanraj/storefront/pkg/database"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// DB opens a private in-memory SQLite database, auto-migrates models into it
// and closes it when the test ends.
func DB(t testing.TB, models ...interface{}) *gorm.DB {
	t.Helper()
	db, err := database.Open(database.Config{Driver: "sqlite", DSN: "file::memory:", MaxOpenConns: 1})
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })

	if len(models) > 0 {
		require.NoError(t, db.AutoMigrate(models...))
	}
	return db
}

// PooledDB opens a file-backed SQLite database under t.TempDir() with a real
// connection pool, for tests where callers must race on separate
// connections. Transactions take the write lock at BEGIN so contending
// writers wait on the busy timeout instead of failing a lock upgrade.
func PooledDB(t testing.TB, models ...interface{}) *gorm.DB {
	t.Helper()
	dsn := filepath.Join(t.TempDir(), "pooled.db") + "?_busy_timeout=10000&_txlock=immediate"
	db, err := database.Open(database.Config{Driver: "sqlite", DSN: dsn, MaxOpenConns: 8, MaxIdleConns: 8})
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })

	if len(models) > 0 {
		require.NoError(t, db.AutoMigrate(models...))
	}
	return db
}

// Request describes one call against a handler.
type Request struct {
	Method string
	Path   string
	Body   interface{} // marshalled to JSON unless already a string
	Token  string      // sent as a bearer token when set
}

// Do serves req through h and returns the recorded response.
func Do(t testing.TB, h http.Handler, req Request) *httptest.ResponseRecorder {
	t.Helper()

	var body io.Reader
	switch b := req.Body.(type) {
	case nil:
	case string:
		body = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		body = bytes.NewReader(raw)
	}

	r := httptest.NewRequest(req.Method, req.Path, body)
	if body != nil {
		r.Header.Set("Content-Type", "application/json")
	}
	if req.Token != "" {
		r.Header.Set("Authorization", "Bearer "+req.Token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, r)
	return rec
}

// Envelope mirrors the API response envelope with Data left raw.
type Envelope struct {
	Status  int               `json:"status"`
	Message string            `json:"message"`
	Data    json.RawMessage   `json:"data"`
	Errors  map[string]string `json:"errors"`
}

// Decode parses the envelope and, when dest is non-nil, its data field.
func Decode(t testing.TB, rec *httptest.ResponseRecorder, dest interface{}) Envelope {
	t.Helper()
	var env Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), "body: %s", rec.Body.String())
	if dest != nil {
		require.NotEmpty(t, env.Data, "response has no data: %s", rec.Body.String())
		require.NoError(t, json.Unmarshal(env.Data, dest))
	}
	return env
}
