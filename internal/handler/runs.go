package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/questline-app/questline/internal/level"
	"github.com/questline-app/questline/internal/logger"
	"github.com/questline-app/questline/internal/orchestrator"
)

// Admin run names accepted by HandleTriggerRun.
const (
	RunNameChallenges = "challenges"
	RunNameLevels     = "levels"
	RunNamePayouts    = "payouts"
	RunNameExpiry     = "expiry"
	RunNameReconcile  = "reconcile"
)

// RunResponse reports what a manually triggered run did.
type RunResponse struct {
	Run       string `json:"run"`
	Processed int    `json:"processed"`
	Completed int    `json:"completed"`
	Errors    int    `json:"errors"`
}

// HandleTriggerRun fires one orchestrator run synchronously. Runs are
// re-entrant, so triggering one that the scheduler is already executing is
// harmless.
func HandleTriggerRun(orch orchestrator.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		run := chi.URLParam(r, "run")

		var summary orchestrator.RunSummary
		switch run {
		case RunNameChallenges:
			summary = orch.RunChallenges(r.Context())
		case RunNameLevels:
			summary = orch.RunLevels(r.Context())
		case RunNamePayouts:
			summary = orch.RunTierPayouts(r.Context())
		case RunNameExpiry:
			summary = orch.ExpireChallenges(r.Context())
		case RunNameReconcile:
			summary = orch.RunReconciliation(r.Context())
		default:
			respondError(w, http.StatusNotFound, "unknown run")
			return
		}

		logger.FromContext(r.Context()).Info("Manual run triggered",
			"run", run,
			"processed", summary.Processed,
			"completed", summary.Completed,
			"errors", summary.Errors)

		respondJSON(w, http.StatusOK, RunResponse{
			Run:       run,
			Processed: summary.Processed,
			Completed: summary.Completed,
			Errors:    summary.Errors,
		})
	}
}

// HandleReloadLadders drops the in-memory tier ladder cache so the next
// lookup picks up definitions changed in the database.
func HandleReloadLadders(levels level.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		levels.ReloadLadders(r.Context())
		logger.FromContext(r.Context()).Info("Tier ladders reloaded")
		respondJSON(w, http.StatusOK, SuccessResponse{Message: "ladders reloaded"})
	}
}
