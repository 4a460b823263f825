package orchestrator

// Log messages
const (
	LogMsgRunStarted        = "Orchestrator run started"
	LogMsgRunFinished       = "Orchestrator run finished"
	LogMsgParticipantFailed = "Failed to process participant"
	LogMsgRecordFailed      = "Failed to recalculate tier record"
	LogMsgPayoutFailed      = "Failed to pay tier stipend"
	LogMsgChallengeExpired  = "Challenge expired"
	LogMsgDriftDetected     = "Balance drift detected"
)
