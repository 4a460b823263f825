package domain

// Streak defaults
const (
	// DefaultGraceBreaks is the grace-break budget used when a streak
	// configuration omits it: one single-day gap may be bridged.
	DefaultGraceBreaks = 1
)

// Level subsystem defaults
const (
	// DefaultActiveUserWindowDays is the trailing window for creator and
	// teacher active-user counts.
	DefaultActiveUserWindowDays = 30
)
