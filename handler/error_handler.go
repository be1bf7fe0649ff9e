package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/a-h/templ"

	"github.com/dmitrymomot/googlelogin/pkg/logger"
)

// ErrorPageParams is passed to the error page view.
type ErrorPageParams struct {
	StatusCode int
	Message    string
}

// NewErrorHandler logs err and renders page (or plain text when page is nil).
// Internal error details never reach the client.
func NewErrorHandler(log *slog.Logger, page func(ErrorPageParams) templ.Component) ErrorHandler[Context] {
	if log == nil {
		log = logger.Discard()
	}
	return func(ctx Context, err error) {
		params := ErrorPageParams{
			StatusCode: http.StatusInternalServerError,
			Message:    http.StatusText(http.StatusInternalServerError),
		}
		var httpErr HTTPError
		if errors.As(err, &httpErr) {
			params.StatusCode = httpErr.Code
			params.Message = httpErr.Message
		}

		level := slog.LevelError
		if params.StatusCode < http.StatusInternalServerError {
			level = slog.LevelWarn
		}
		r := ctx.Request()
		log.LogAttrs(ctx, level, "request failed",
			logger.Component("handler"),
			logger.Error(err),
			logger.Status(params.StatusCode),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
		)

		w := ctx.ResponseWriter()
		if page == nil {
			http.Error(w, params.Message, params.StatusCode)
			return
		}
		if rerr := TemplStatus(page(params), params.StatusCode).Render(w, r); rerr != nil {
			log.ErrorContext(ctx, "render error page", logger.Error(rerr), logger.Component("handler"))
		}
	}
}
