package level

// Log messages
const (
	LogMsgTierRecalculated = "Tier recalculated"
	LogMsgTierPromoted     = "Tier changed"
	LogMsgLadderReloaded   = "Tier ladders reloaded"
)
