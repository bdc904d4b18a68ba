package sqlite

import "context"

type settingsRepo struct {
	s *Store
}

func (r *settingsRepo) Get(ctx context.Context, key string) (string, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var value string
	err := r.s.db.QueryRowContext(ctx, `SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if err != nil {
		return "", mapNotFound(err)
	}
	return value, nil
}

func (r *settingsRepo) Set(ctx context.Context, key, value string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	_, err := r.s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO settings (key, value) VALUES (?, ?)`,
		key, value,
	)
	return err
}
