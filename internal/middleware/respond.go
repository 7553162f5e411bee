package middleware

import (
	"encoding/json"
	"net/http"
)

// WriteError writes the {"error": msg} body used by every non-2xx API response.
func WriteError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
