package helpers

import (
	"encoding/json"
	"net/http"
)

// messageBody is the JSON body used for validation failures and the
// confirmation success message.
type messageBody struct {
	Message string `json:"message"`
}

// errorBody is the JSON body used for not-found responses.
type errorBody struct {
	Error string `json:"error"`
}

// WriteJSON sets Content-Type to application/json, writes statusCode, and
// encodes v into the response body.
func WriteJSON(w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteMessage writes a {"message": ...} JSON body with the given status.
func WriteMessage(w http.ResponseWriter, statusCode int, message string) {
	WriteJSON(w, statusCode, messageBody{Message: message})
}

// WriteError writes an {"error": ...} JSON body with the given status.
func WriteError(w http.ResponseWriter, statusCode int, message string) {
	WriteJSON(w, statusCode, errorBody{Error: message})
}

// DecodeJSON decodes the request body into dest with DisallowUnknownFields.
// On failure it writes a 400 {"message": ...} response and returns false;
// callers should return immediately when DecodeJSON returns false.
func DecodeJSON(w http.ResponseWriter, r *http.Request, dest any) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dest); err != nil {
		WriteMessage(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return false
	}
	return true
}
