package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/questline-app/questline/internal/repository"
)

// BalanceResponse represents a user's current point balance.
type BalanceResponse struct {
	UserID  uuid.UUID `json:"user_id"`
	Balance int64     `json:"balance"`
}

// HandleGetBalance returns the cached balance for a user
func HandleGetBalance(ledger repository.Ledger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := uuid.Parse(chi.URLParam(r, "userID"))
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid user id")
			return
		}

		balance, err := ledger.GetBalance(r.Context(), userID)
		if err != nil {
			respondServiceError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, BalanceResponse{UserID: userID, Balance: balance})
	}
}

// HandleGetTransfers returns the full transfer history for a user, newest
// first. Reserves, awards, refunds and stipends all show here.
func HandleGetTransfers(ledger repository.Ledger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := uuid.Parse(chi.URLParam(r, "userID"))
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid user id")
			return
		}

		transfers, err := ledger.ListTransfersForUser(r.Context(), userID)
		if err != nil {
			respondServiceError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, transfers)
	}
}
