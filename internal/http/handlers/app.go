package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	"poolledger/internal/ledger"
	"poolledger/internal/middleware"
	"poolledger/internal/storage"
)

// App carries the dependencies shared by every handler.
type App struct {
	Ledger   *ledger.Service
	Logger   zerolog.Logger
	Frontend *storage.Frontend
}

// NewApp builds the handler container. frontend may be nil when no static
// frontend is served.
func NewApp(svc *ledger.Service, logger zerolog.Logger, frontend *storage.Frontend) *App {
	return &App{Ledger: svc, Logger: logger, Frontend: frontend}
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) error(w http.ResponseWriter, code int, message string) {
	a.json(w, code, map[string]string{"error": message})
}

func (a *App) requestLogger(r *http.Request) *zerolog.Logger {
	l := a.Logger.With().Str("request_id", middleware.RequestIDFromContext(r.Context())).Logger()
	return &l
}
