// Package models defines request and response types for the control-plane
// REST API. All types are JSON-serializable.
package models

import "time"

// Envelope wraps every non-204 API response: {success, data?, error?,
// timestamp}. On error Data is omitted; on success Error is omitted.
type Envelope struct {
	Success   bool        `json:"success"`
	Data      interface{} `json:"data,omitempty"`
	Error     string      `json:"error,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// Success builds a successful envelope carrying data.
func Success(data interface{}) Envelope {
	return Envelope{Success: true, Data: data, Timestamp: time.Now().UTC()}
}

// Failure builds a failed envelope carrying a message.
func Failure(message string) Envelope {
	return Envelope{Success: false, Error: message, Timestamp: time.Now().UTC()}
}

// ErrorResponse represents a bare API error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// StatusResponse represents a simple status response.
type StatusResponse struct {
	Status string `json:"status"`
}
