// Package handler adapts typed handler functions to net/http.
//
// A HandlerFunc receives a Context and a request struct filled by binders and
// returns a Response that renders itself:
//
//	type CallbackRequest struct {
//		Code  string `query:"code"`
//		State string `query:"state"`
//	}
//
//	r.Get("/callback", handler.Wrap(svc.callback,
//		handler.WithBinders[handler.Context, CallbackRequest](binder.Query()),
//	))
//
// Responses cover the cases a login flow needs: HTML through templ components,
// redirects and a JSON envelope of the form {"success": bool, "data": ...}.
package handler
