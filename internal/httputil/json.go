package httputil

import (
	"encoding/json"
	"net/http"
)

// MakeJSONResponse writes a JSON response with the given status code.
// Used by plain net/http handlers that live outside the gin router.
func MakeJSONResponse(w http.ResponseWriter, statusCode int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(body)
}
