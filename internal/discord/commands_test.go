package discord

import (
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/require"
)

func TestCommandDefinitions(t *testing.T) {
	t.Parallel()

	defs := commands()
	byName := make(map[string]*discordgo.ApplicationCommand, len(defs))
	for _, def := range defs {
		byName[def.Name] = def
	}
	require.Len(t, byName, 3)

	t.Run("approve-code takes a required code string", func(t *testing.T) {
		def, ok := byName[commandApproveCode]
		require.True(t, ok)
		require.Nil(t, def.DefaultMemberPermissions)
		require.Len(t, def.Options, 1)
		require.Equal(t, discordgo.ApplicationCommandOptionString, def.Options[0].Type)
		require.True(t, def.Options[0].Required)
	})

	t.Run("bot-setup is admin only and takes a text channel", func(t *testing.T) {
		def, ok := byName[commandBotSetup]
		require.True(t, ok)
		require.NotNil(t, def.DefaultMemberPermissions)
		require.Equal(t, int64(discordgo.PermissionAdministrator), *def.DefaultMemberPermissions)
		require.Len(t, def.Options, 1)
		require.Equal(t, discordgo.ApplicationCommandOptionChannel, def.Options[0].Type)
		require.Equal(t, []discordgo.ChannelType{discordgo.ChannelTypeGuildText}, def.Options[0].ChannelTypes)
	})

	t.Run("approval-panel is admin only", func(t *testing.T) {
		def, ok := byName[commandApprovalPanel]
		require.True(t, ok)
		require.NotNil(t, def.DefaultMemberPermissions)
		require.Equal(t, int64(discordgo.PermissionAdministrator), *def.DefaultMemberPermissions)
	})
}

func TestInteractionUser(t *testing.T) {
	t.Parallel()

	user := &discordgo.User{ID: "42", Username: "tester"}

	t.Run("guild interactions carry a member", func(t *testing.T) {
		i := &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{
			Member: &discordgo.Member{User: user},
		}}
		require.Equal(t, "tester (42)", interactionUser(i))
	})

	t.Run("dm interactions carry a bare user", func(t *testing.T) {
		i := &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{
			User: user,
		}}
		require.Equal(t, "tester (42)", interactionUser(i))
	})

	t.Run("missing user", func(t *testing.T) {
		i := &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{}}
		require.Equal(t, "unknown", interactionUser(i))
	})
}
