package middleware

import (
	"encoding/json"
	"net/http"
)

// errorResponse rejects a request before it reaches a handler. The body uses
// the same {"error": ...} envelope the handler package produces, so clients
// see one error shape regardless of which layer refused them.
func errorResponse(w http.ResponseWriter, status int, message string) {
	body, err := json.Marshal(map[string]string{"error": message})
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(body)
}
