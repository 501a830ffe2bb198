package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"poolledger/internal/domain"
	"poolledger/internal/middleware"
)

const maxPayBodyBytes = 64 << 10

type payRequest struct {
	PoolID   json.RawMessage `json:"poolId"`
	UserName string          `json:"user_name"`
	Phone    string          `json:"phone"`
	Amount   json.RawMessage `json:"amount"`
}

func (a *App) ContributionsPay(w http.ResponseWriter, r *http.Request) {
	var req payRequest
	body := http.MaxBytesReader(w, r.Body, maxPayBodyBytes)
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		middleware.ContributionsTotal.WithLabelValues("invalid").Inc()
		a.error(w, http.StatusBadRequest, "Invalid or missing fields")
		return
	}

	contribution, err := a.Ledger.Submit(r.Context(), domain.ContributionInput{
		PoolID:   req.PoolID,
		UserName: req.UserName,
		Phone:    req.Phone,
		Amount:   req.Amount,
	})
	switch {
	case errors.Is(err, domain.ErrValidation):
		middleware.ContributionsTotal.WithLabelValues("invalid").Inc()
		a.error(w, http.StatusBadRequest, "Invalid or missing fields")
		return
	case errors.Is(err, domain.ErrNotFound):
		middleware.ContributionsTotal.WithLabelValues("pool_not_found").Inc()
		a.error(w, http.StatusNotFound, "Pool not found")
		return
	case err != nil:
		middleware.ContributionsTotal.WithLabelValues("failed").Inc()
		a.requestLogger(r).Error().Err(err).Msg("payment failed")
		a.error(w, http.StatusInternalServerError, "Payment failed")
		return
	}

	middleware.ContributionsTotal.WithLabelValues("accepted").Inc()
	middleware.ContributedAmountTotal.Add(float64(contribution.Amount))
	a.requestLogger(r).Info().
		Int64("pool_id", contribution.PoolID).
		Int64("contribution_id", contribution.ID).
		Int64("amount", contribution.Amount).
		Msg("payment received")
	a.json(w, http.StatusOK, map[string]string{"message": "Payment received successfully!"})
}
