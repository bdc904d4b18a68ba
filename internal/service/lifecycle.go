package service

import (
	"context"
	"errors"
	"time"

	"github.com/takaio/ipgate/internal/domain"
	"github.com/takaio/ipgate/internal/store"
	"github.com/takaio/ipgate/pkg/slogx"
)

var (
	// ErrAlreadyAuthenticated reports that the identifier already holds a
	// valid authenticated record, so no new code is issued.
	ErrAlreadyAuthenticated = errors.New("already_authenticated")

	// ErrCodeNotFound reports an approval attempt with an unknown code.
	ErrCodeNotFound = errors.New("code_not_found")
)

const (
	DefaultCodeTTL = 5 * time.Minute
	DefaultAuthTTL = 7 * 24 * time.Hour
)

// LifecycleService implements the authorization state machine atop the
// Store: NoRecord -> Pending -> Authenticated, with lazy expiry. Expired
// pending records are purged on observation; expired authenticated records
// are reported unauthenticated but left in storage until the same IP
// requests a fresh code and overwrites them.
type LifecycleService struct {
	Store   store.Store
	CodeTTL time.Duration
	AuthTTL time.Duration
}

// IsAuthenticated reports whether ip currently holds a valid authenticated
// record. Observing an expired pending record deletes it as a side effect;
// the authenticated branch never deletes. Storage faults degrade to false
// with a log line, so callers cannot distinguish absence from a store
// error.
func (s *LifecycleService) IsAuthenticated(ctx context.Context, ip string) bool {
	log := slogx.FromContext(ctx)
	now := time.Now()

	rec, err := s.Store.Authorizations().GetByIP(ctx, ip)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			log.Error("authorization lookup failed", "ip", ip, "error", err)
		}
		return false
	}

	if rec.GrantsAccessAt(now) {
		return true
	}

	if !rec.Authenticated && rec.ExpiredAt(now) {
		if err := s.Store.Authorizations().DeleteExpiredPending(ctx, ip, now); err != nil {
			log.Error("expired pending cleanup failed", "ip", ip, "error", err)
		}
	}

	return false
}

// IssueCode generates a fresh code for ip, stores it as a pending record
// expiring after CodeTTL and returns it. Returns ErrAlreadyAuthenticated
// when the IP already holds a valid authenticated record. Issuing
// overwrites and invalidates any previously issued, still-valid pending
// code for the same IP.
func (s *LifecycleService) IssueCode(ctx context.Context, ip string) (string, error) {
	if s.IsAuthenticated(ctx, ip) {
		return "", ErrAlreadyAuthenticated
	}

	code, err := generateCode()
	if err != nil {
		return "", err
	}

	rec := domain.Authorization{
		IP:        ip,
		Code:      code,
		ExpiresAt: time.Now().Add(s.codeTTL()),
	}
	if err := s.Store.Authorizations().Upsert(ctx, rec); err != nil {
		slogx.FromContext(ctx).Error("storing pending authorization failed", "ip", ip, "error", err)
		return "", err
	}

	return code, nil
}

// Approve transitions the record holding code to authenticated with a
// fresh AuthTTL expiry and returns the IP it belongs to. Approving a code
// whose record is already authenticated re-extends the expiry. Unknown
// codes and storage faults both surface as ErrCodeNotFound per the
// degradation policy; faults are logged here.
func (s *LifecycleService) Approve(ctx context.Context, code string) (string, error) {
	log := slogx.FromContext(ctx)

	rec, err := s.Store.Authorizations().GetByCode(ctx, code)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			log.Error("code lookup failed", "error", err)
		}
		return "", ErrCodeNotFound
	}

	expiresAt := time.Now().Add(s.authTTL())
	if err := s.Store.Authorizations().MarkAuthenticated(ctx, code, expiresAt); err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			log.Error("marking authorization failed", "ip", rec.IP, "error", err)
		}
		return "", ErrCodeNotFound
	}

	log.Info("authorization approved", "ip", rec.IP, "expires_at", expiresAt)
	return rec.IP, nil
}

func (s *LifecycleService) codeTTL() time.Duration {
	if s.CodeTTL <= 0 {
		return DefaultCodeTTL
	}
	return s.CodeTTL
}

func (s *LifecycleService) authTTL() time.Duration {
	if s.AuthTTL <= 0 {
		return DefaultAuthTTL
	}
	return s.AuthTTL
}
