package repository

import (
	"context"

	"github.com/questline-app/questline/internal/domain"
	"github.com/questline-app/questline/internal/logger"
)

// SafeRollback rolls back a settlement transaction, swallowing the rollback
// that follows a successful commit. Deferred at the top of every LedgerTx
// user so an early error return always releases the row locks.
func SafeRollback(ctx context.Context, tx Tx) {
	err := tx.Rollback(ctx)
	if err == nil || err.Error() == domain.ErrMsgTxClosed {
		return
	}
	logger.FromContext(ctx).Error("Failed to rollback transaction", "error", err)
}
