package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"time"

	"github.com/takaio/ipgate/internal/store"

	_ "modernc.org/sqlite"
)

// timeLayout matches the textual timestamps in the auth_data table. Local
// time, second precision.
const timeLayout = "2006-01-02 15:04:05"

// Store is the sqlite driver. It owns the *sql.DB and the single
// process-wide mutex that serializes every repository call. The mutex is
// held for the full storage round trip of one logical operation and
// released on every exit path; there is no finer granularity by design.
type Store struct {
	mu  sync.Mutex
	db  *sql.DB
	dsn string
}

func NewStore(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	// A second connection would defeat the mutex; the pool must stay at one.
	db.SetMaxOpenConns(1)

	return &Store{
		db:  db,
		dsn: dsn,
	}, nil
}

func (s *Store) Close() error { return s.db.Close() }

// Ping verifies the database connection is still alive.
func (s *Store) Ping(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.PingContext(ctx)
}

func (s *Store) Authorizations() store.Authorizations { return &authorizationsRepo{s: s} }
func (s *Store) Settings() store.Settings             { return &settingsRepo{s: s} }

func mapNotFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return store.ErrNotFound
	}
	return err
}

func formatTime(t time.Time) string {
	return t.Local().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	return time.ParseInLocation(timeLayout, s, time.Local)
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
