package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/questline-app/questline/internal/domain"
	"github.com/questline-app/questline/internal/logger"
	"github.com/questline-app/questline/internal/repository"
)

// JoinChallengeRequest represents the request to join an active challenge.
type JoinChallengeRequest struct {
	ChallengeID uuid.UUID `json:"challenge_id"`
	UserID      uuid.UUID `json:"user_id"`
}

// HandleJoinChallenge enrolls a user into an active, in-window challenge
func HandleJoinChallenge(participants repository.Participant, challenges repository.Challenge) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		var req JoinChallengeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if req.ChallengeID == uuid.Nil || req.UserID == uuid.Nil {
			respondError(w, http.StatusBadRequest, "challenge_id and user_id are required")
			return
		}

		ch, err := challenges.GetChallenge(r.Context(), req.ChallengeID)
		if err != nil {
			respondServiceError(w, err)
			return
		}

		now := time.Now().UTC()
		if !ch.IsOpenAt(now) {
			respondError(w, http.StatusConflict, domain.ErrMsgNotActive)
			return
		}

		participant := domain.Participant{
			ID:          uuid.New(),
			ChallengeID: ch.ID,
			UserID:      req.UserID,
			Status:      domain.ParticipantStatusActive,
			JoinedAt:    now,
		}

		// The cap bounds the reserve: more participants than the reserve
		// covers would make a full sweep of completions overdraw it. The
		// repository enforces it under the challenge row lock so concurrent
		// joins cannot slip past it together.
		created, err := participants.CreateParticipantCapped(r.Context(), &participant)
		if err != nil {
			log.Error("Failed to create participant", "challenge_id", ch.ID, "error", err)
			respondServiceError(w, err)
			return
		}
		if !created {
			respondError(w, http.StatusConflict, "challenge is full")
			return
		}

		log.Info("Participant joined", "participant_id", participant.ID, "challenge_id", ch.ID)
		respondJSON(w, http.StatusCreated, participant)
	}
}

// HandleGetParticipant returns a participant with its latest progress snapshot
func HandleGetParticipant(participants repository.Participant) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "participantID"))
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid participant id")
			return
		}

		participant, err := participants.GetParticipant(r.Context(), id)
		if err != nil {
			respondServiceError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, participant)
	}
}
