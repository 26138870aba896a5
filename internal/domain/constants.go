package domain

// Default configuration values
const (
	DefaultTimezone         = "Europe/Paris"
	DefaultSessionStartHour = 14
	DefaultSessionEndHour   = 18
	DefaultShortNoticeDays  = 2
	DefaultCircuitCapacity  = 20
)

// Business validation constants
const (
	MaxCircuitCapacity    = 500
	MaxPilotsPerBooking   = 50
	MaxCancelReasonLength = 1000
	MaxMessageLength      = 5000
	MaxReplyLength        = 5000
	MaxContactNameLength  = 200
	MaxContactEmailLength = 320
)

// Time format constants
const (
	DateFormat = "2006-01-02" // YYYY-MM-DD
)
