package handlers

import (
	"net/http"
	"strings"
)

// NotFound serves the frontend for unknown GET paths outside /api and
// answers everything else with a JSON 404.
func (a *App) NotFound(w http.ResponseWriter, r *http.Request) {
	if a.Frontend != nil && !isAPIPath(r.URL.Path) &&
		(r.Method == http.MethodGet || r.Method == http.MethodHead) {
		if path, ok := a.Frontend.Resolve(r.URL.Path); ok {
			http.ServeFile(w, r, path)
			return
		}
	}
	a.error(w, http.StatusNotFound, "Not found")
}

func isAPIPath(p string) bool {
	return p == "/api" || strings.HasPrefix(p, "/api/")
}

func (a *App) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	a.error(w, http.StatusMethodNotAllowed, "Method not allowed")
}
