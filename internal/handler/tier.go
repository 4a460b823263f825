package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/questline-app/questline/internal/domain"
	"github.com/questline-app/questline/internal/repository"
)

// parseTierKind validates the kind query parameter against the known kinds.
func parseTierKind(raw string) (domain.TierKind, bool) {
	kind := domain.TierKind(raw)
	for _, known := range domain.TierKinds {
		if kind == known {
			return kind, true
		}
	}
	return "", false
}

// HandleGetTierRecord returns a user's tier record for a kind. Topic-scoped
// kinds take the scope from the "scope" query parameter; platform-wide kinds
// leave it unset.
func HandleGetTierRecord(tiers repository.Tier) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := uuid.Parse(chi.URLParam(r, "userID"))
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid user id")
			return
		}
		kind, ok := parseTierKind(r.URL.Query().Get("kind"))
		if !ok {
			respondError(w, http.StatusBadRequest, "unknown tier kind")
			return
		}

		var scope *string
		if raw := r.URL.Query().Get("scope"); raw != "" {
			scope = &raw
		}

		record, err := tiers.GetTierRecord(r.Context(), userID, kind, scope)
		if err != nil {
			respondServiceError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, record)
	}
}

// HandleGetPromotions returns a user's promotion history for a kind, newest
// first.
func HandleGetPromotions(tiers repository.Tier) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := uuid.Parse(chi.URLParam(r, "userID"))
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid user id")
			return
		}
		kind, ok := parseTierKind(r.URL.Query().Get("kind"))
		if !ok {
			respondError(w, http.StatusBadRequest, "unknown tier kind")
			return
		}

		promotions, err := tiers.ListPromotions(r.Context(), userID, kind)
		if err != nil {
			respondServiceError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, promotions)
	}
}
