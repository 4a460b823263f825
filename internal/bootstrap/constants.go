package bootstrap

// File system permissions
const (
	// DirPermission is the standard permission for creating directories
	DirPermission = 0755

	// LogFilePermission is the permission for log files
	LogFilePermission = 0666
)

// Logger configuration
const (
	// LogFileTimestampFormat is the timestamp format for log filenames
	LogFileTimestampFormat = "2006-01-02_15-04-05"

	// LogFileNamePattern is the format string for log filenames
	LogFileNamePattern = "session_%s.log"

	// LogFileExtension is the file extension for log files
	LogFileExtension = ".log"

	// LogFileRetentionCount is the number of log files to retain after cleanup
	LogFileRetentionCount = 9
)

// Log messages for startup
const (
	LogMsgLoggingInitialized   = "Logging initialized"
	LogMsgStartingService      = "Starting questline"
	LogMsgConfigurationLoaded  = "Configuration loaded"
	LogMsgMigrationsApplied    = "Database migrations applied"
	LogMsgLaddersSynced        = "Tier ladders synced from config"
	LogMsgEventSystemReady     = "Event system initialized"
	LogMsgEventAuditRegistered = "Event audit logger registered"
)

// Log messages for shutdown
const (
	LogMsgShuttingDownServer         = "Shutting down server..."
	LogMsgShuttingDownScheduler      = "Shutting down scheduler..."
	LogMsgShuttingDownWorkers        = "Shutting down worker pool..."
	LogMsgShuttingDownEventPublisher = "Shutting down event publisher..."
	LogMsgServerForcedShutdown       = "Server forced to shutdown"
	LogMsgResilientPublisherFailed   = "Resilient publisher shutdown failed"
	LogMsgRedisCloseFailed           = "Redis client close failed"
	LogMsgServerStopped              = "Server stopped"
)
