package httpx

import (
	"encoding/json"
	"net/http"
)

// MessageBody is the JSON envelope carried by every non-data response.
type MessageBody struct {
	Msg string `json:"msg"`
}

// FieldError describes a single rejected request field.
type FieldError struct {
	Param string `json:"param"`
	Msg   string `json:"msg"`
}

type validationBody struct {
	Errors []FieldError `json:"errors"`
}

// JSON sends a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// Message sends {"msg": msg}.
func Message(w http.ResponseWriter, status int, msg string) {
	JSON(w, status, MessageBody{Msg: msg})
}

// ValidationErrors sends a 400 with the rejected fields.
func ValidationErrors(w http.ResponseWriter, errs []FieldError) {
	JSON(w, http.StatusBadRequest, validationBody{Errors: errs})
}

// MaxBodyBytes bounds the request bodies DecodeJSON will read.
const MaxBodyBytes = 1 << 20

// DecodeJSON decodes JSON request body into the target struct. Bodies larger
// than MaxBodyBytes fail.
func DecodeJSON(w http.ResponseWriter, r *http.Request, target any) error {
	return json.NewDecoder(http.MaxBytesReader(w, r.Body, MaxBodyBytes)).Decode(target)
}
