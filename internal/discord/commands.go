package discord

import (
	"context"
	"errors"

	"github.com/bwmarrin/discordgo"
	"github.com/takaio/ipgate/internal/service"
	"github.com/takaio/ipgate/pkg/slogx"
)

// Component custom IDs are stable across restarts so that approval panels
// posted by an earlier process keep working (the IDs, not handler state,
// are what Discord round-trips back to us).
const (
	customIDApproveButton = "ipgate:approve:button"
	customIDApproveModal  = "ipgate:approve:modal"
	customIDCodeInput     = "ipgate:approve:code"
)

const (
	commandApproveCode   = "approve-code"
	commandBotSetup      = "bot-setup"
	commandApprovalPanel = "approval-panel"
)

func commands() []*discordgo.ApplicationCommand {
	adminOnly := int64(discordgo.PermissionAdministrator)

	return []*discordgo.ApplicationCommand{
		{
			Name:        commandApproveCode,
			Description: "Approve an issued authorization code.",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "code",
					Description: "The 6-character code shown on the gate page",
					Required:    true,
				},
			},
		},
		{
			Name:                     commandBotSetup,
			Description:              "Set the channel that receives approval notifications.",
			DefaultMemberPermissions: &adminOnly,
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:         discordgo.ApplicationCommandOptionChannel,
					Name:         "channel",
					Description:  "Notification channel",
					ChannelTypes: []discordgo.ChannelType{discordgo.ChannelTypeGuildText},
					Required:     true,
				},
			},
		},
		{
			Name:                     commandApprovalPanel,
			Description:              "Post a persistent approval panel in this channel.",
			DefaultMemberPermissions: &adminOnly,
		},
	}
}

func (b *Bot) onInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := slogx.WithContext(context.Background(), b.logger)

	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		switch i.ApplicationCommandData().Name {
		case commandApproveCode:
			b.handleApproveCommand(ctx, s, i)
		case commandBotSetup:
			b.handleSetupCommand(ctx, s, i)
		case commandApprovalPanel:
			b.handlePanelCommand(ctx, s, i)
		}

	case discordgo.InteractionMessageComponent:
		if i.MessageComponentData().CustomID == customIDApproveButton {
			b.handleApproveButton(ctx, s, i)
		}

	case discordgo.InteractionModalSubmit:
		if i.ModalSubmitData().CustomID == customIDApproveModal {
			b.handleApproveModal(ctx, s, i)
		}
	}
}

func (b *Bot) handleApproveCommand(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate) {
	code := i.ApplicationCommandData().Options[0].StringValue()
	b.submitApproval(ctx, s, i, code)
}

func (b *Bot) handleSetupCommand(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate) {
	channel := i.ApplicationCommandData().Options[0].ChannelValue(s)

	if err := b.SettingsService.SetNotificationChannel(ctx, channel.ID); err != nil {
		b.logger.Error("storing notification channel failed", "channel_id", channel.ID, "error", err)
		b.respondEphemeral(s, i, "Could not save the notification channel. Please try again.")
		return
	}

	b.respondEphemeral(s, i, "Approval notifications will be sent to <#"+channel.ID+">.")
}

func (b *Bot) handlePanelCommand(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate) {
	_, err := s.ChannelMessageSendComplex(i.ChannelID, &discordgo.MessageSend{
		Content: "Press the button to approve an authorization code from the gate page.",
		Components: []discordgo.MessageComponent{
			discordgo.ActionsRow{
				Components: []discordgo.MessageComponent{
					discordgo.Button{
						Label:    "Approve a code",
						Style:    discordgo.PrimaryButton,
						CustomID: customIDApproveButton,
					},
				},
			},
		},
	})
	if err != nil {
		b.logger.Error("posting approval panel failed", "channel_id", i.ChannelID, "error", err)
		b.respondEphemeral(s, i, "Could not post the panel in this channel.")
		return
	}

	b.respondEphemeral(s, i, "Approval panel posted.")
}

func (b *Bot) handleApproveButton(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate) {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseModal,
		Data: &discordgo.InteractionResponseData{
			CustomID: customIDApproveModal,
			Title:    "Approve authorization code",
			Components: []discordgo.MessageComponent{
				discordgo.ActionsRow{
					Components: []discordgo.MessageComponent{
						discordgo.TextInput{
							CustomID:  customIDCodeInput,
							Label:     "Code",
							Style:     discordgo.TextInputShort,
							Required:  true,
							MinLength: 6,
							MaxLength: 6,
						},
					},
				},
			},
		},
	})
	if err != nil {
		b.logger.Error("opening approval modal failed", "error", err)
	}
}

func (b *Bot) handleApproveModal(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate) {
	var code string
	for _, row := range i.ModalSubmitData().Components {
		actionsRow, ok := row.(*discordgo.ActionsRow)
		if !ok {
			continue
		}
		for _, c := range actionsRow.Components {
			if input, ok := c.(*discordgo.TextInput); ok && input.CustomID == customIDCodeInput {
				code = input.Value
			}
		}
	}

	b.submitApproval(ctx, s, i, code)
}

// submitApproval runs the Approval Bridge for a code submitted via either
// the slash command or the modal and reports the outcome ephemerally.
func (b *Bot) submitApproval(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, code string) {
	submitter := interactionUser(i)

	ip, err := b.ApprovalService.Submit(ctx, code, submitter)
	if err != nil {
		if !errors.Is(err, service.ErrCodeNotFound) {
			b.logger.Error("approval failed", "error", err)
		}
		b.respondEphemeral(s, i, "Invalid authorization code. Check it or have the visitor issue a new one.")
		return
	}

	b.logger.Info("code approved", "ip", ip, "submitter", submitter)
	b.respondEphemeral(s, i, "Approved. The visitor's page will switch over shortly.")
}

func (b *Bot) respondEphemeral(s *discordgo.Session, i *discordgo.InteractionCreate, content string) {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		b.logger.Error("interaction response failed", "error", err)
	}
}

// interactionUser returns a "name (id)" reference for the acting user,
// which lives on Member in guilds and User in DMs.
func interactionUser(i *discordgo.InteractionCreate) string {
	var u *discordgo.User
	if i.Member != nil {
		u = i.Member.User
	} else {
		u = i.User
	}
	if u == nil {
		return "unknown"
	}
	return u.Username + " (" + u.ID + ")"
}
