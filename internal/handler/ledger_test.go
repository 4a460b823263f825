package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/questline-app/questline/internal/domain"
)

func ledgerRouter(ledger *MockLedgerRepo) *chi.Mux {
	r := chi.NewRouter()
	r.Get("/users/{userID}/balance", HandleGetBalance(ledger))
	r.Get("/users/{userID}/transfers", HandleGetTransfers(ledger))
	return r
}

func TestHandleGetBalance(t *testing.T) {
	t.Run("returns balance", func(t *testing.T) {
		ledger := &MockLedgerRepo{}
		userID := uuid.New()
		ledger.On("GetBalance", mock.Anything, userID).Return(int64(420), nil)

		req := httptest.NewRequest("GET", "/users/"+userID.String()+"/balance", nil)
		w := httptest.NewRecorder()
		ledgerRouter(ledger).ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"balance":420`)
	})

	t.Run("unknown user", func(t *testing.T) {
		ledger := &MockLedgerRepo{}
		userID := uuid.New()
		ledger.On("GetBalance", mock.Anything, userID).Return(int64(0), domain.ErrUserNotFound)

		req := httptest.NewRequest("GET", "/users/"+userID.String()+"/balance", nil)
		w := httptest.NewRecorder()
		ledgerRouter(ledger).ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("bad id", func(t *testing.T) {
		ledger := &MockLedgerRepo{}
		req := httptest.NewRequest("GET", "/users/nope/balance", nil)
		w := httptest.NewRecorder()
		ledgerRouter(ledger).ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestHandleGetTransfers(t *testing.T) {
	t.Run("returns history", func(t *testing.T) {
		ledger := &MockLedgerRepo{}
		userID := uuid.New()
		transfers := []domain.LedgerTransfer{
			{ID: uuid.New(), ToUserID: &userID, Amount: 120, Kind: domain.TransferKindAward, Status: domain.TransferStatusCompleted},
			{ID: uuid.New(), FromUserID: &userID, Amount: 600, Kind: domain.TransferKindReserve, Status: domain.TransferStatusCompleted},
		}
		ledger.On("ListTransfersForUser", mock.Anything, userID).Return(transfers, nil)

		req := httptest.NewRequest("GET", "/users/"+userID.String()+"/transfers", nil)
		w := httptest.NewRecorder()
		ledgerRouter(ledger).ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"kind":"award"`)
		assert.Contains(t, w.Body.String(), `"kind":"reserve"`)
	})

	t.Run("repository error", func(t *testing.T) {
		ledger := &MockLedgerRepo{}
		userID := uuid.New()
		ledger.On("ListTransfersForUser", mock.Anything, userID).Return(nil, assert.AnError)

		req := httptest.NewRequest("GET", "/users/"+userID.String()+"/transfers", nil)
		w := httptest.NewRecorder()
		ledgerRouter(ledger).ServeHTTP(w, req)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}
