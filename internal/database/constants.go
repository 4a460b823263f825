package database

// Connection pool constants
const (
	// DefaultMinConnections keeps a couple of warm connections so the first
	// orchestrator run after an idle period does not pay dial latency.
	DefaultMinConnections = 2
)

// Error messages
const (
	ErrMsgFailedToParseConnString = "failed to parse connection string"
	ErrMsgFailedToCreatePool      = "failed to create connection pool"
	ErrMsgFailedToPingDatabase    = "failed to ping database"
)

// Log messages
const (
	LogMsgConnectedToDatabase = "Connected to the database"
)
