package discord

import (
	"fmt"
	"log/slog"

	"github.com/bwmarrin/discordgo"
	"github.com/takaio/ipgate/internal/service"
)

// Bot is the chat-command surface: slash commands and the persistent
// approval panel, plus the notification sender for the Approval Bridge.
type Bot struct {
	session *discordgo.Session
	logger  *slog.Logger

	ApprovalService *service.ApprovalService
	SettingsService *service.SettingsService
}

func NewBot(token string, logger *slog.Logger) (*Bot, error) {
	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("create discord session: %w", err)
	}

	// Slash commands and components only; no message content needed.
	session.Identify.Intents = discordgo.IntentsGuilds

	b := &Bot{
		session: session,
		logger:  logger,
	}

	session.AddHandler(b.onReady)
	session.AddHandler(b.onInteraction)

	return b, nil
}

// Open connects the gateway session and registers the slash commands
// globally. Command registration is idempotent: the bulk overwrite
// replaces any stale definitions left from a previous version.
func (b *Bot) Open() error {
	if err := b.session.Open(); err != nil {
		return fmt.Errorf("open discord session: %w", err)
	}

	if _, err := b.session.ApplicationCommandBulkOverwrite(b.session.State.User.ID, "", commands()); err != nil {
		_ = b.session.Close()
		return fmt.Errorf("register commands: %w", err)
	}

	return nil
}

func (b *Bot) Close() error {
	return b.session.Close()
}

func (b *Bot) onReady(s *discordgo.Session, r *discordgo.Ready) {
	b.logger.Info("discord session ready",
		"username", r.User.Username,
		"user_id", r.User.ID,
		"guilds", len(r.Guilds),
	)
}
