package domain

// Setting keys persisted in the settings table.
const (
	// SettingLogChannel holds the Discord channel ID that receives
	// approval notifications. Written by the bot-setup command.
	SettingLogChannel = "log_channel_id"
)

type Setting struct {
	Key   string
	Value string
}
