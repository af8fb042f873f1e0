package http

import (
	"net/http"
	"strings"
	"time"

	"fintrack/internal/auth"
	"fintrack/internal/core"
	"fintrack/internal/services"
)

type createTransactionRequest struct {
	Description string     `json:"description"`
	Amount      core.Money `json:"amount"`
	Category    string     `json:"category"`
	Type        string     `json:"type"`
	Date        string     `json:"date"`
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var req createTransactionRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	// Untyped transactions count as spending.
	txType := core.TxType(strings.ToLower(strings.TrimSpace(req.Type)))
	if txType == "" {
		txType = core.Spending
	}

	date := core.DateOf(time.Now())
	if strings.TrimSpace(req.Date) != "" {
		parsed, err := core.ParseDate(req.Date)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		date = parsed
	}

	tx, err := s.transactions.Create(r.Context(), userID, services.NewTransaction{
		Description: strings.TrimSpace(req.Description),
		Amount:      req.Amount,
		Category:    strings.TrimSpace(req.Category),
		Type:        txType,
		Date:        date,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, tx)
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	txs, err := s.transactions.List(r.Context(), userID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if txs == nil {
		txs = []core.Transaction{}
	}

	writeJSON(w, http.StatusOK, txs)
}
