package logger

// Service Configuration Values
const (
	DefaultServiceName = "questline-engine"
)

// Log Level String Values
const (
	LogLevelDebug = "debug"
	LogLevelInfo  = "info"
	LogLevelWarn  = "warn"
	LogLevelError = "error"
)

// Log Format String Values
const (
	LogFormatJSON = "json"
	LogFormatText = "text"
)
