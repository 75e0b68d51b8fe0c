package httpadapter

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"healthboard/internal/domain"
)

// All responses wrap their payload in a success envelope; errors carry a
// timestamp and the offending path, matching the dashboard's expectations.

type envelope struct {
	Success    bool   `json:"success"`
	Data       any    `json:"data,omitempty"`
	Message    string `json:"message,omitempty"`
	Pagination any    `json:"pagination,omitempty"`
}

type errorEnvelope struct {
	Success   bool   `json:"success"`
	Error     string `json:"error"`
	Message   string `json:"message,omitempty"`
	Timestamp string `json:"timestamp"`
	Path      string `json:"path"`
}

type pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeData(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, envelope{Success: true, Data: data})
}

func writeError(w http.ResponseWriter, r *http.Request, status int, errMsg, detail string) {
	writeJSON(w, status, errorEnvelope{
		Success:   false,
		Error:     errMsg,
		Message:   detail,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Path:      r.URL.Path,
	})
}

// writeServiceError maps a component-level failure to the response taxonomy:
// not-found, database error, or generic internal error. Components bubble
// errors unchanged; classification happens only here.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, r, http.StatusNotFound, "Customer not found", "")
	case errors.Is(err, domain.ErrDataAccess):
		writeError(w, r, http.StatusInternalServerError, "Database Error", "")
	default:
		writeError(w, r, http.StatusInternalServerError, "Internal Server Error", "")
	}
}
