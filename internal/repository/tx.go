package repository

import "context"

// Tx is the minimal contract shared by all transactional handles.
type Tx interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}
