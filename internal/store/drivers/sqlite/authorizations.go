package sqlite

import (
	"context"
	"time"

	"github.com/takaio/ipgate/internal/domain"
	"github.com/takaio/ipgate/internal/store"
)

type authorizationsRepo struct {
	s *Store
}

func (r *authorizationsRepo) Upsert(ctx context.Context, rec domain.Authorization) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	_, err := r.s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO auth_data (ip_address, auth_id, is_authenticated, expires_at)
		VALUES (?, ?, ?, ?)`,
		rec.IP, rec.Code, boolToInt(rec.Authenticated), formatTime(rec.ExpiresAt),
	)
	return err
}

func (r *authorizationsRepo) GetByIP(ctx context.Context, ip string) (domain.Authorization, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	row := r.s.db.QueryRowContext(ctx, `
		SELECT ip_address, auth_id, is_authenticated, expires_at
		FROM auth_data WHERE ip_address = ?`, ip)
	return scanAuthorization(row)
}

func (r *authorizationsRepo) GetByCode(ctx context.Context, code string) (domain.Authorization, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	// UNIQUE(auth_id) makes this at most one row; if a collision ever
	// replaced an older record the survivor is the one returned.
	row := r.s.db.QueryRowContext(ctx, `
		SELECT ip_address, auth_id, is_authenticated, expires_at
		FROM auth_data WHERE auth_id = ?`, code)
	return scanAuthorization(row)
}

func (r *authorizationsRepo) MarkAuthenticated(ctx context.Context, code string, expiresAt time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	res, err := r.s.db.ExecContext(ctx, `
		UPDATE auth_data
		SET is_authenticated = 1, expires_at = ?
		WHERE auth_id = ?`,
		formatTime(expiresAt), code,
	)
	if err != nil {
		return err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *authorizationsRepo) DeleteExpiredPending(ctx context.Context, ip string, now time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	_, err := r.s.db.ExecContext(ctx, `
		DELETE FROM auth_data
		WHERE ip_address = ? AND is_authenticated = 0 AND expires_at <= ?`,
		ip, formatTime(now),
	)
	return err
}

func (r *authorizationsRepo) DeleteAllExpiredPending(ctx context.Context, now time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	_, err := r.s.db.ExecContext(ctx, `
		DELETE FROM auth_data
		WHERE is_authenticated = 0 AND expires_at <= ?`,
		formatTime(now),
	)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAuthorization(row rowScanner) (domain.Authorization, error) {
	var (
		rec           domain.Authorization
		authenticated int
		expiresAt     string
	)

	if err := row.Scan(&rec.IP, &rec.Code, &authenticated, &expiresAt); err != nil {
		return domain.Authorization{}, mapNotFound(err)
	}

	t, err := parseTime(expiresAt)
	if err != nil {
		return domain.Authorization{}, err
	}

	rec.Authenticated = authenticated == 1
	rec.ExpiresAt = t
	return rec, nil
}
