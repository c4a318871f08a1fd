package dto

import "time"

// ErrorResponse is the standard JSON body for failed API requests.
//
// Example:
//
//	{"message":"invalid period","error":"invalid period \"2w\"","timestamp":"2025-01-01T00:00:00Z"}
type ErrorResponse struct {
	Message      string    `json:"message" example:"invalid period"`
	ErrorDetails string    `json:"error,omitempty" example:"invalid period \"2w\""`
	Timestamp    time.Time `json:"timestamp"`
}

// Error implements the error interface so the response can travel through gin's error list.
func (e ErrorResponse) Error() string {
	if e.ErrorDetails == "" {
		return e.Message
	}
	return e.Message + ": " + e.ErrorDetails
}

// NewErrorResponse builds an ErrorResponse stamped with the current time.
// err may be nil.
func NewErrorResponse(message string, err error) ErrorResponse {
	resp := ErrorResponse{Message: message, Timestamp: time.Now().UTC()}
	if err != nil {
		resp.ErrorDetails = err.Error()
	}
	return resp
}
