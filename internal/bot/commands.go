package bot

// Command constants for Telegram bot commands.
const (
	CommandStart  = "/start"
	CommandCancel = "/cancel"
)

// Callback data constants for the inline menu buttons.
const (
	CallbackCompletar = "completar"
	CallbackTotal     = "total"
)
