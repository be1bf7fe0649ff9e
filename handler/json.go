package handler

import (
	"encoding/json"
	"net/http"
)

// Envelope is the JSON body written by Success and Failure.
type Envelope struct {
	Success bool `json:"success"`
	Data    any  `json:"data"`
}

type jsonResponse struct {
	status int
	body   Envelope
}

func (j jsonResponse) Render(w http.ResponseWriter, _ *http.Request) error {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(j.status)
	return json.NewEncoder(w).Encode(j.body)
}

// JSONOption configures a JSON response.
type JSONOption func(*jsonResponse)

// WithStatus overrides the response status code.
func WithStatus(status int) JSONOption {
	return func(r *jsonResponse) {
		r.status = status
	}
}

// Success writes {"success": true, "data": data} with status 200.
func Success(data any, opts ...JSONOption) Response {
	r := &jsonResponse{status: http.StatusOK, body: Envelope{Success: true, Data: data}}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Failure writes {"success": false, "data": message}.
// The status defaults to 400, or to the code of an HTTPError.
func Failure(err error, opts ...JSONOption) Response {
	r := &jsonResponse{status: http.StatusBadRequest, body: Envelope{Success: false}}
	if httpErr, ok := err.(HTTPError); ok {
		r.status = httpErr.Code
	}
	if err != nil {
		r.body.Data = err.Error()
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}
