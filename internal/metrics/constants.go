package metrics

// Metric names
const (
	MetricNameParticipantsProcessed = "participants_processed_total"
	MetricNameChallengesCompleted   = "challenges_completed_total"
	MetricNameValidationErrors      = "validation_errors_total"
	MetricNameTransfers             = "ledger_transfers_total"
	MetricNameSettlementConflicts   = "settlement_claim_conflicts_total"
	MetricNameTierPromotions        = "tier_promotions_total"
	MetricNameTierPayouts           = "tier_payouts_total"
	MetricNameRunDuration           = "orchestrator_run_duration_seconds"
	MetricNameHTTPRequests          = "http_requests_total"
	MetricNameHTTPDuration          = "http_request_duration_seconds"
	MetricNameHTTPInFlight          = "http_requests_in_flight"
)

// Metric help text
const (
	HelpTextParticipantsProcessed = "Total number of participants processed by the orchestrator"
	HelpTextChallengesCompleted   = "Total number of participants that completed a challenge"
	HelpTextValidationErrors      = "Total number of validation errors, by challenge type"
	HelpTextTransfers             = "Total number of ledger transfers, by kind"
	HelpTextSettlementConflicts   = "Total number of settlement calls that lost the completion claim"
	HelpTextTierPromotions        = "Total number of tier promotions and demotions, by kind"
	HelpTextTierPayouts           = "Total number of tier payouts settled, promotion and recurring"
	HelpTextRunDuration           = "Orchestrator run latency in seconds, by run kind"
	HelpTextHTTPRequests          = "Total number of HTTP requests, by method, path and status"
	HelpTextHTTPDuration          = "HTTP request latency in seconds, by method and path"
	HelpTextHTTPInFlight          = "Number of HTTP requests currently being served"
)

// Metric label names
const (
	LabelChallengeType = "challenge_type"
	LabelKind          = "kind"
	LabelRun           = "run"
	LabelMethod        = "method"
	LabelPath          = "path"
	LabelStatus        = "status"
)

// Run label values
const (
	RunChallenges = "challenges"
	RunLevels     = "levels"
	RunPayouts    = "payouts"
	RunExpiry     = "expiry"
	RunReconcile  = "reconcile"
)
