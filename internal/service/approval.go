package service

import (
	"context"
	"errors"
	"strings"

	"github.com/takaio/ipgate/internal/domain"
	"github.com/takaio/ipgate/internal/store"
	"github.com/takaio/ipgate/pkg/idx"
	"github.com/takaio/ipgate/pkg/slogx"
)

// Notifier delivers approval confirmations to the operator-configured
// channel. Implemented by the Discord layer. Delivery is best effort and
// happens strictly after the store call has returned, never inside the
// store lock.
type Notifier interface {
	NotifyApproval(ctx context.Context, channelID string, notice ApprovalNotice) error
}

// ApprovalNotice is the human-readable confirmation payload sent to the
// log channel after a successful approval.
type ApprovalNotice struct {
	ID        idx.ID
	IP        string
	Code      string
	Submitter string
}

// ApprovalService is the bridge turning an externally submitted code
// string into a lifecycle transition plus a side notification.
type ApprovalService struct {
	Lifecycle *LifecycleService
	Store     store.Store
	Notifier  Notifier
}

// Submit normalizes raw (uppercase, trimmed), attempts approval and
// returns the IP the code belonged to. ErrCodeNotFound means rejection
// with no state change. A notification or configuration fault never rolls
// back or masks a committed approval; it is logged and swallowed.
func (s *ApprovalService) Submit(ctx context.Context, raw, submitter string) (string, error) {
	code := strings.ToUpper(strings.TrimSpace(raw))
	if code == "" {
		return "", ErrCodeNotFound
	}

	ip, err := s.Lifecycle.Approve(ctx, code)
	if err != nil {
		return "", err
	}

	s.notify(ctx, ApprovalNotice{
		ID:        idx.New(),
		IP:        ip,
		Code:      code,
		Submitter: submitter,
	})

	return ip, nil
}

func (s *ApprovalService) notify(ctx context.Context, notice ApprovalNotice) {
	log := slogx.FromContext(ctx)

	if s.Notifier == nil {
		return
	}

	channelID, err := s.Store.Settings().Get(ctx, domain.SettingLogChannel)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			log.Debug("no log channel configured, skipping approval notification")
		} else {
			log.Error("log channel lookup failed", "error", err)
		}
		return
	}

	if err := s.Notifier.NotifyApproval(ctx, channelID, notice); err != nil {
		log.Error("approval notification failed", "channel_id", channelID, "notice_id", notice.ID, "error", err)
	}
}
