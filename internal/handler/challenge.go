package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/questline-app/questline/internal/challenge"
	"github.com/questline-app/questline/internal/domain"
	"github.com/questline-app/questline/internal/logger"
	"github.com/questline-app/questline/internal/repository"
	"github.com/questline-app/questline/internal/settlement"
)

// CreateChallengeRequest represents the request to create a draft challenge.
type CreateChallengeRequest struct {
	CreatorID       uuid.UUID              `json:"creator_id"`
	Title           string                 `json:"title"`
	Type            domain.ChallengeType   `json:"type"`
	Config          domain.ChallengeConfig `json:"config"`
	PrizeAmount     int64                  `json:"prize_amount"`
	BonusAmount     int64                  `json:"bonus_amount"`
	MaxParticipants int                    `json:"max_participants"`
	StartsAt        time.Time              `json:"starts_at"`
	EndsAt          time.Time              `json:"ends_at"`
}

// HandleCreateChallenge creates a challenge in draft. The config is checked
// against the type's schema here, so a draft that exists is also activatable.
func HandleCreateChallenge(challenges repository.Challenge, validator challenge.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		var req CreateChallengeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Warn("Failed to decode create challenge request", "error", err)
			respondError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		if req.CreatorID == uuid.Nil || req.Title == "" {
			respondError(w, http.StatusBadRequest, "creator_id and title are required")
			return
		}
		if req.PrizeAmount < 0 || req.BonusAmount < 0 || req.MaxParticipants <= 0 {
			respondError(w, http.StatusBadRequest, "amounts must be non-negative and max_participants positive")
			return
		}
		if !req.EndsAt.After(req.StartsAt) {
			respondError(w, http.StatusBadRequest, "ends_at must be after starts_at")
			return
		}

		ch := domain.Challenge{
			ID:              uuid.New(),
			CreatorID:       req.CreatorID,
			Title:           req.Title,
			Type:            req.Type,
			Config:          req.Config,
			PrizeAmount:     req.PrizeAmount,
			BonusAmount:     req.BonusAmount,
			MaxParticipants: req.MaxParticipants,
			StartsAt:        req.StartsAt,
			EndsAt:          req.EndsAt,
			Status:          domain.ChallengeStatusDraft,
		}
		if err := validator.CheckConfig(&ch); err != nil {
			log.Warn("Challenge config rejected", "type", ch.Type, "error", err)
			respondServiceError(w, err)
			return
		}

		if err := challenges.CreateChallenge(r.Context(), &ch); err != nil {
			log.Error("Failed to create challenge", "error", err)
			respondServiceError(w, err)
			return
		}

		log.Info("Challenge created", "challenge_id", ch.ID, "type", ch.Type)
		respondJSON(w, http.StatusCreated, ch)
	}
}

// HandleGetChallenge returns a challenge by ID
func HandleGetChallenge(challenges repository.Challenge) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "challengeID"))
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid challenge id")
			return
		}

		ch, err := challenges.GetChallenge(r.Context(), id)
		if err != nil {
			respondServiceError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, ch)
	}
}

// HandleActivateChallenge moves a draft challenge to active, holding the full
// reserve against the creator's balance. Activation either fully reserves or
// fails outright.
func HandleActivateChallenge(challenges repository.Challenge, settlementSvc settlement.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		id, err := uuid.Parse(chi.URLParam(r, "challengeID"))
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid challenge id")
			return
		}

		ch, err := challenges.GetChallenge(r.Context(), id)
		if err != nil {
			respondServiceError(w, err)
			return
		}

		if err := settlementSvc.Reserve(r.Context(), ch); err != nil {
			log.Warn("Challenge activation failed", "challenge_id", id, "error", err)
			respondServiceError(w, err)
			return
		}

		log.Info("Challenge activated", "challenge_id", id, "reserve", ch.ReserveRequired())
		respondJSON(w, http.StatusOK, SuccessResponse{Message: "challenge activated"})
	}
}
