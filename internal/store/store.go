package store

import (
	"context"
	"errors"
	"time"

	"github.com/takaio/ipgate/internal/domain"
)

var ErrNotFound = errors.New("store: not found")

// Store is the root data access interface. Concrete drivers (sqlite today)
// implement this. It exposes sub-repositories to keep concerns tidy and
// testable. Every repository method serializes against a single
// process-wide lock owned by the driver: the underlying embedded-file
// engine is not safe for concurrent writers, and at this call volume full
// serialization is the simplest correct policy.
type Store interface {
	Authorizations() Authorizations
	Settings() Settings

	ApplyMigrations() error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

type Authorizations interface {
	// Upsert inserts or replaces the record for rec.IP. Any prior record
	// for that IP is overwritten, whatever its state. No uniqueness check
	// is made against other IPs' codes; the schema's UNIQUE(auth_id)
	// makes a colliding insert replace the older row instead.
	Upsert(ctx context.Context, rec domain.Authorization) error

	// GetByIP returns the record keyed by ip, or ErrNotFound.
	GetByIP(ctx context.Context, ip string) (domain.Authorization, error)

	// GetByCode returns the record holding code, or ErrNotFound.
	GetByCode(ctx context.Context, code string) (domain.Authorization, error)

	// MarkAuthenticated flips the record matching code to authenticated
	// and moves its expiry. Returns ErrNotFound when no record matches.
	MarkAuthenticated(ctx context.Context, code string, expiresAt time.Time) error

	// DeleteExpiredPending removes the record for ip only when it is
	// still pending and its expiry has passed at now.
	DeleteExpiredPending(ctx context.Context, ip string, now time.Time) error

	// DeleteAllExpiredPending is the housekeeping bulk variant. Expired
	// authenticated rows are deliberately left alone.
	DeleteAllExpiredPending(ctx context.Context, now time.Time) error
}

type Settings interface {
	// Get returns the value for key, or ErrNotFound.
	Get(ctx context.Context, key string) (string, error)

	// Set creates or overwrites the value for key.
	Set(ctx context.Context, key, value string) error
}
