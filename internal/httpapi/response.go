package httpapi

import (
	"encoding/json"
	"net/http"
)

const (
	msgQuestionRequired = "Question is required."
	msgTooManyRequests  = "Too many requests, please try again later."
	msgInternalError    = "An error occurred while processing your request."
	msgBodyTooLarge     = "Request body too large."
	msgMethodNotAllowed = "Method not allowed."
)

type successResponse struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
}

type errorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Success: false, Message: message})
}
