// Package types defines the wire envelopes shared by every API response.
package types

// SuccessEnvelope wraps successful payloads: {"data": ...}.
type SuccessEnvelope struct {
	Data any `json:"data"`
}

// APIError is the public error shape. Details carries field-level messages
// only when the error code permits exposing them.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// ErrorEnvelope wraps failures: {"error": {code, message, details}}.
type ErrorEnvelope struct {
	Error APIError `json:"error"`
}
