package handlers

import "net/http"

type poolResponse struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	TotalAmount int64  `json:"total_amount"`
}

func (a *App) PoolsList(w http.ResponseWriter, r *http.Request) {
	pools, err := a.Ledger.ListPools(r.Context())
	if err != nil {
		a.requestLogger(r).Error().Err(err).Msg("list pools failed")
		a.error(w, http.StatusInternalServerError, "Failed to fetch pools")
		return
	}
	items := make([]poolResponse, 0, len(pools))
	for _, p := range pools {
		items = append(items, poolResponse{ID: p.ID, Name: p.Name, TotalAmount: p.TotalAmount})
	}
	a.json(w, http.StatusOK, items)
}
