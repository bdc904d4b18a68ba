package discord

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/takaio/ipgate/internal/service"
)

// NotifyApproval implements service.Notifier: a green embed in the
// configured log channel. Errors are returned for the bridge to log and
// swallow; a failed delivery never affects the committed approval.
func (b *Bot) NotifyApproval(ctx context.Context, channelID string, notice service.ApprovalNotice) error {
	embed := &discordgo.MessageEmbed{
		Title:       "IP authorization approved",
		Description: fmt.Sprintf("Code `%s` for IP `%s` has been approved.", notice.Code, notice.IP),
		Color:       0x2ecc71,
		Footer: &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf("Approved by %s • %s", notice.Submitter, notice.ID),
		},
	}

	if _, err := b.session.ChannelMessageSendEmbed(channelID, embed); err != nil {
		return fmt.Errorf("send approval embed: %w", err)
	}
	return nil
}
