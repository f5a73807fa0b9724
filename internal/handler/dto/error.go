// Package dto provides Data Transfer Objects for API responses.
package dto

// ErrorResponse is the body of every non-2xx JSON response.
type ErrorResponse struct {
	OK    bool   `json:"ok"`
	Error string `json:"error"`
}

// NewError builds an ErrorResponse with the given message.
func NewError(msg string) ErrorResponse {
	return ErrorResponse{OK: false, Error: msg}
}
