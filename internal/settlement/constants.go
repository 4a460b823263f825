package settlement

// Log messages
const (
	LogMsgRewardSettled       = "Reward settled"
	LogMsgSettlementLost      = "Settlement claim lost"
	LogMsgChallengeReserved   = "Challenge reserve held"
	LogMsgReserveRefunded     = "Unspent reserve refunded"
	LogMsgTierRewardPaid      = "Tier reward paid"
	LogMsgRecurringRewardPaid = "Recurring tier stipend paid"
	LogMsgEventPublishFailed  = "Failed to publish settlement event"
)
