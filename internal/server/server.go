package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/questline-app/questline/internal/challenge"
	"github.com/questline-app/questline/internal/database"
	"github.com/questline-app/questline/internal/handler"
	"github.com/questline-app/questline/internal/level"
	"github.com/questline-app/questline/internal/logger"
	"github.com/questline-app/questline/internal/metrics"
	"github.com/questline-app/questline/internal/orchestrator"
	"github.com/questline-app/questline/internal/repository"
	"github.com/questline-app/questline/internal/settlement"
)

// Deps carries everything the HTTP surface needs. The server owns no
// business logic; every route delegates to a service or repository.
type Deps struct {
	DBPool       database.Pool
	Challenges   repository.Challenge
	Participants repository.Participant
	Ledger       repository.Ledger
	Tiers        repository.Tier

	Validator    challenge.Service
	Settlement   settlement.Service
	Levels       level.Service
	Orchestrator orchestrator.Service
}

type Server struct {
	httpServer *http.Server
}

// NewServer builds the router and middleware stack around the given services.
func NewServer(port int, apiKey string, trustedProxies []string, deps Deps) *Server {
	r := chi.NewRouter()

	// Chi middleware executes in the order defined, outermost first.
	detector := NewSuspiciousActivityDetector()

	r.Use(SecurityHeadersMiddleware())
	r.Use(AuthMiddleware(apiKey, trustedProxies, detector))
	r.Use(RateLimitMiddleware(trustedProxies, detector))
	r.Use(RequestSizeLimitMiddleware(maxRequestBodyBytes))
	r.Use(metrics.Middleware)
	r.Use(loggingMiddleware)

	// Health check routes (unversioned)
	r.Get("/healthz", handler.HandleHealthz())
	r.Get("/readyz", handler.HandleReadyz(deps.DBPool))

	// Version endpoint (public, for deployment verification)
	r.Get("/version", handler.HandleVersion())

	// Metrics endpoint (public, for Prometheus scraping)
	r.Handle("/metrics", promhttp.Handler())

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/challenges", func(r chi.Router) {
			r.Post("/", handler.HandleCreateChallenge(deps.Challenges, deps.Validator))
			r.Get("/{challengeID}", handler.HandleGetChallenge(deps.Challenges))
			r.Post("/{challengeID}/activate", handler.HandleActivateChallenge(deps.Challenges, deps.Settlement))
		})

		r.Route("/participants", func(r chi.Router) {
			r.Post("/", handler.HandleJoinChallenge(deps.Participants, deps.Challenges))
			r.Get("/{participantID}", handler.HandleGetParticipant(deps.Participants))
		})

		r.Route("/users/{userID}", func(r chi.Router) {
			r.Get("/balance", handler.HandleGetBalance(deps.Ledger))
			r.Get("/transfers", handler.HandleGetTransfers(deps.Ledger))
			r.Get("/tier", handler.HandleGetTierRecord(deps.Tiers))
			r.Get("/promotions", handler.HandleGetPromotions(deps.Tiers))
		})

		// Admin routes
		r.Route("/admin", func(r chi.Router) {
			r.Post("/runs/{run}", handler.HandleTriggerRun(deps.Orchestrator))
			r.Post("/ladders/reload", handler.HandleReloadLadders(deps.Levels))
		})
	})

	return &Server{
		httpServer: &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           r,
			ReadHeaderTimeout: 5 * time.Second,
		},
	}
}

// responseWriter wraps http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
	written    bool
}

func newResponseWriter(w http.ResponseWriter) *responseWriter {
	return &responseWriter{
		ResponseWriter: w,
		statusCode:     http.StatusOK,
	}
}

func (rw *responseWriter) WriteHeader(statusCode int) {
	if !rw.written {
		rw.statusCode = statusCode
		rw.written = true
		rw.ResponseWriter.WriteHeader(statusCode)
	}
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	if !rw.written {
		rw.WriteHeader(http.StatusOK)
	}
	return rw.ResponseWriter.Write(b)
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		// Health and metrics endpoints are scraped constantly; logging them
		// would drown everything else.
		if strings.HasPrefix(r.URL.Path, "/healthz") ||
			strings.HasPrefix(r.URL.Path, "/readyz") ||
			strings.HasPrefix(r.URL.Path, "/metrics") {
			next.ServeHTTP(w, r)
			return
		}

		// Each request gets its own run ID so handler and service logs for
		// one request correlate the same way orchestrator run logs do.
		runID := logger.GenerateRunID()
		ctx := logger.WithRunID(r.Context(), runID)
		r = r.WithContext(ctx)

		log := logger.FromContext(ctx)
		log.Info(LogMsgRequestStarted,
			"method", r.Method,
			"path", r.URL.Path,
			"remote_addr", r.RemoteAddr,
			"content_length", r.ContentLength,
			"user_agent", r.UserAgent())

		sanitizedHeaders := make(http.Header)
		for k, v := range r.Header {
			if strings.EqualFold(k, HeaderAPIKey) || strings.EqualFold(k, HeaderAuthorization) {
				sanitizedHeaders[k] = []string{RedactedValue}
			} else {
				sanitizedHeaders[k] = v
			}
		}
		log.Debug("Request headers", "headers", sanitizedHeaders)

		rw := newResponseWriter(w)
		next.ServeHTTP(rw, r)

		duration := time.Since(start)
		log.Info(LogMsgRequestCompleted,
			"method", r.Method,
			"path", r.URL.Path,
			"status", rw.statusCode,
			"duration_ms", duration.Milliseconds())
	})
}

// Start starts the server
func (s *Server) Start() error {
	slog.Default().Info(LogMsgServerStarting, "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Stop stops the server gracefully
func (s *Server) Stop(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
