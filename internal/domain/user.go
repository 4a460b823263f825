package domain

import (
	"time"

	"github.com/google/uuid"
)

// User is a platform user as seen by the engine. Balance is a non-negative
// cache over the ledger, mutated exclusively by the settlement engine under
// transaction; the ledger remains the source of truth.
type User struct {
	ID        uuid.UUID `json:"id"`
	Username  string    `json:"username"`
	Balance   int64     `json:"balance"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
