// Package response provides helpers for writing consistent JSON HTTP
// responses from the students API.
//
// Every body shares one envelope:
//
//	{ "success": true,  "message": "...", "data": ... }
//	{ "success": false, "message": "email must be a valid email address",
//	  "errors": { "email": "email must be a valid email address" } }
//
// The front-end shows "message" verbatim when a request fails, so error
// messages are written for people, not for logs.
package response

import (
	"encoding/json"
	"net/http"
)

// Response is the standard envelope.
type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`

	// Errors maps json field names to their message on a 400.
	Errors map[string]string `json:"errors,omitempty"`
}

// WriteJSON writes a JSON-encoded response with the given HTTP status code.
//
// IMPORTANT ORDER: Header() → WriteHeader() → body writes.
func WriteJSON(w http.ResponseWriter, status int, data any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(data)
}

// OK wraps data in a successful envelope.
func OK(data any) Response {
	return Response{Success: true, Data: data}
}

// OKMessage is a successful envelope with a message and no data.
func OKMessage(msg string) Response {
	return Response{Success: true, Message: msg}
}

// Fail is a failed envelope carrying msg.
func Fail(msg string) Response {
	return Response{Success: false, Message: msg}
}

// GeneralError wraps any Go error into a failed envelope.
// Use this for unexpected errors (DB failures, decode errors, etc.)
func GeneralError(err error) Response {
	return Fail(err.Error())
}

// Translator turns a validation error into readable messages.
type Translator interface {
	Message(err error) string
	TranslateErrors(err error) map[string]string
}

// ValidationError converts a validator error into a failed envelope, e.g.
//
//	{
//	  "success": false,
//	  "message": "name is a required field, age must be 120 or less",
//	  "errors": { "name": "name is a required field", "age": "age must be 120 or less" }
//	}
func ValidationError(t Translator, err error) Response {
	resp := Fail(t.Message(err))
	resp.Errors = t.TranslateErrors(err)
	return resp
}
