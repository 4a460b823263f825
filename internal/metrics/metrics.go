package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Orchestrator metrics
var (
	ParticipantsProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameParticipantsProcessed,
			Help: HelpTextParticipantsProcessed,
		},
		[]string{LabelChallengeType},
	)

	ChallengesCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameChallengesCompleted,
			Help: HelpTextChallengesCompleted,
		},
		[]string{LabelChallengeType},
	)

	ValidationErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameValidationErrors,
			Help: HelpTextValidationErrors,
		},
		[]string{LabelChallengeType},
	)

	RunDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    MetricNameRunDuration,
			Help:    HelpTextRunDuration,
			Buckets: prometheus.ExponentialBuckets(0.05, 2, 12),
		},
		[]string{LabelRun},
	)
)

// Settlement metrics
var (
	Transfers = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameTransfers,
			Help: HelpTextTransfers,
		},
		[]string{LabelKind},
	)

	SettlementConflicts = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameSettlementConflicts,
			Help: HelpTextSettlementConflicts,
		},
	)
)

// Level subsystem metrics
var (
	TierPromotions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameTierPromotions,
			Help: HelpTextTierPromotions,
		},
		[]string{LabelKind},
	)

	TierPayouts = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameTierPayouts,
			Help: HelpTextTierPayouts,
		},
	)
)
