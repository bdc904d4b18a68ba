package service

import (
	"context"
	"errors"
	"strings"

	"github.com/takaio/ipgate/internal/domain"
	"github.com/takaio/ipgate/internal/store"
)

// ErrInvalidChannel reports an empty or blank notification channel ID.
var ErrInvalidChannel = errors.New("invalid_channel")

// SettingsService manages operator configuration. Privilege checks belong
// to the caller (the Discord command restricts bot-setup to
// administrators); this layer just persists.
type SettingsService struct {
	Store store.Store
}

// SetNotificationChannel stores the channel that receives approval
// notifications, overwriting any previous value.
func (s *SettingsService) SetNotificationChannel(ctx context.Context, channelID string) error {
	channelID = strings.TrimSpace(channelID)
	if channelID == "" {
		return ErrInvalidChannel
	}
	return s.Store.Settings().Set(ctx, domain.SettingLogChannel, channelID)
}

// NotificationChannel returns the configured channel ID, or
// store.ErrNotFound when none has been set yet.
func (s *SettingsService) NotificationChannel(ctx context.Context) (string, error) {
	return s.Store.Settings().Get(ctx, domain.SettingLogChannel)
}
