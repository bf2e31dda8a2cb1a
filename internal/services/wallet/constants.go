package wallet

// Default configuration values
const (
	DefaultCurrency            = "USD"
	DefaultSystemUserDiscordID = "system"

	DefaultPageLimit = 20
	MaxPageLimit     = 100
)

// referencePrefix tags generated transaction references.
const referencePrefix = "WTX"
