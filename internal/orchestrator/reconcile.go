package orchestrator

import (
	"context"
	"time"

	"github.com/questline-app/questline/internal/logger"
	"github.com/questline-app/questline/internal/metrics"
)

// RunReconciliation audits every user recently party to a transfer. Drift is
// reported loudly and counted, never silently repaired: a mismatch means a
// bug upstream, and overwriting the balance would only bury it.
func (s *service) RunReconciliation(ctx context.Context) RunSummary {
	ctx, finish := s.startRun(ctx, metrics.RunReconcile)
	log := logger.FromContext(ctx)

	var summary RunSummary
	since := time.Now().UTC().Add(-s.reconcileWindow)
	users, err := s.ledger.ListRecentTransferUsers(ctx, since)
	if err != nil {
		log.Error("Failed to list users for reconciliation", "error", err)
		summary.Errors++
		finish(summary)
		return summary
	}

	for _, userID := range users {
		summary.Processed++
		if err := s.settlement.Reconcile(ctx, userID); err != nil {
			summary.Errors++
			log.Error(LogMsgDriftDetected, "user_id", userID, "error", err)
			continue
		}
		summary.Completed++
	}

	finish(summary)
	return summary
}
