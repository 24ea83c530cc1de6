// Package handlers provides response helpers shared by JSON and page handlers.
package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// RespondJSON writes data as a JSON body with the given status code.
func RespondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// RespondError logs err and writes it as {"error": message} with the given status.
func RespondError(w http.ResponseWriter, logger *slog.Logger, status int, err error) {
	logger.Error("handler error", "error", err, "status", status)
	RespondJSON(w, status, map[string]string{"error": err.Error()})
}

// Redirect sends the client to target. Safe methods keep their method with
// 307; anything else is converted to a GET with 303 so a refreshed result page
// never resubmits a form.
func Redirect(w http.ResponseWriter, r *http.Request, target string) {
	status := http.StatusSeeOther
	if r.Method == http.MethodGet || r.Method == http.MethodHead {
		status = http.StatusTemporaryRedirect
	}
	http.Redirect(w, r, target, status)
}
