package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/takaio/ipgate/internal/domain"
)

type fakeNotifier struct {
	calls []ApprovalNotice
	chans []string
	err   error
}

func (f *fakeNotifier) NotifyApproval(ctx context.Context, channelID string, notice ApprovalNotice) error {
	f.calls = append(f.calls, notice)
	f.chans = append(f.chans, channelID)
	return f.err
}

func newTestApproval(t *testing.T, notifier Notifier) (*ApprovalService, *LifecycleService) {
	t.Helper()

	lifecycle, st := newTestLifecycle(t)
	return &ApprovalService{
		Lifecycle: lifecycle,
		Store:     st,
		Notifier:  notifier,
	}, lifecycle
}

func TestSubmitNormalizesCode(t *testing.T) {
	ctx := context.Background()
	notifier := &fakeNotifier{}
	svc, lifecycle := newTestApproval(t, notifier)

	require.NoError(t, lifecycle.Store.Authorizations().Upsert(ctx, domain.Authorization{
		IP:        "1.2.3.4",
		Code:      "A1B2C3",
		ExpiresAt: time.Now().Add(5 * time.Minute),
	}))

	ip, err := svc.Submit(ctx, "  a1b2c3 ", "tester (42)")
	require.NoError(t, err)
	require.Equal(t, "1.2.3.4", ip)
	require.True(t, lifecycle.IsAuthenticated(ctx, "1.2.3.4"))
}

func TestSubmitRejectsUnknownAndBlank(t *testing.T) {
	ctx := context.Background()
	notifier := &fakeNotifier{}
	svc, _ := newTestApproval(t, notifier)

	t.Run("unknown code", func(t *testing.T) {
		_, err := svc.Submit(ctx, "ZZZZZZ", "tester (42)")
		require.ErrorIs(t, err, ErrCodeNotFound)
	})

	t.Run("blank code", func(t *testing.T) {
		_, err := svc.Submit(ctx, "   ", "tester (42)")
		require.ErrorIs(t, err, ErrCodeNotFound)
	})

	require.Empty(t, notifier.calls)
}

func TestSubmitNotifiesConfiguredChannel(t *testing.T) {
	ctx := context.Background()
	notifier := &fakeNotifier{}
	svc, lifecycle := newTestApproval(t, notifier)

	require.NoError(t, lifecycle.Store.Settings().Set(ctx, domain.SettingLogChannel, "chan-123"))

	code, err := lifecycle.IssueCode(ctx, "1.2.3.4")
	require.NoError(t, err)

	_, err = svc.Submit(ctx, code, "tester (42)")
	require.NoError(t, err)

	require.Len(t, notifier.calls, 1)
	require.Equal(t, []string{"chan-123"}, notifier.chans)

	notice := notifier.calls[0]
	require.Equal(t, "1.2.3.4", notice.IP)
	require.Equal(t, code, notice.Code)
	require.Equal(t, "tester (42)", notice.Submitter)
	require.False(t, notice.ID.IsZero())
}

func TestSubmitSwallowsNotificationFaults(t *testing.T) {
	ctx := context.Background()

	t.Run("no channel configured", func(t *testing.T) {
		notifier := &fakeNotifier{}
		svc, lifecycle := newTestApproval(t, notifier)

		code, err := lifecycle.IssueCode(ctx, "1.2.3.4")
		require.NoError(t, err)

		ip, err := svc.Submit(ctx, code, "tester (42)")
		require.NoError(t, err)
		require.Equal(t, "1.2.3.4", ip)
		require.Empty(t, notifier.calls)
	})

	t.Run("delivery failure does not undo the approval", func(t *testing.T) {
		notifier := &fakeNotifier{err: errors.New("gateway down")}
		svc, lifecycle := newTestApproval(t, notifier)

		require.NoError(t, lifecycle.Store.Settings().Set(ctx, domain.SettingLogChannel, "chan-123"))

		code, err := lifecycle.IssueCode(ctx, "1.2.3.4")
		require.NoError(t, err)

		ip, err := svc.Submit(ctx, code, "tester (42)")
		require.NoError(t, err)
		require.Equal(t, "1.2.3.4", ip)
		require.True(t, lifecycle.IsAuthenticated(ctx, "1.2.3.4"))
	})

	t.Run("nil notifier is safe", func(t *testing.T) {
		svc, lifecycle := newTestApproval(t, nil)

		code, err := lifecycle.IssueCode(ctx, "1.2.3.4")
		require.NoError(t, err)

		ip, err := svc.Submit(ctx, code, "tester (42)")
		require.NoError(t, err)
		require.Equal(t, "1.2.3.4", ip)
	})
}
