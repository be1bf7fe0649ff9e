package handler

import (
	"net/http"

	"github.com/a-h/templ"
)

type templResponse struct {
	component templ.Component
	status    int
}

func (t templResponse) Render(w http.ResponseWriter, r *http.Request) error {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if t.status != 0 {
		w.WriteHeader(t.status)
	}
	return t.component.Render(r.Context(), w)
}

// Templ renders component as an HTML page.
func Templ(component templ.Component) Response {
	return templResponse{component: component}
}

// TemplStatus renders component with an explicit status code.
func TemplStatus(component templ.Component, status int) Response {
	return templResponse{component: component, status: status}
}
