package googlelogin

import (
	"context"
	"net/http"

	"github.com/dmitrymomot/googlelogin/pkg/logger"
)

type visitorKey struct{}

// WithVisitor stores the visitor id that nonces are bound to.
func WithVisitor(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, visitorKey{}, id)
}

// VisitorFromContext returns the visitor id set by WithVisitor or the Visitor middleware.
func VisitorFromContext(ctx context.Context) string {
	id, _ := ctx.Value(visitorKey{}).(string)
	return id
}

// Visitor is a middleware that resolves the visitor cookie and stores its id
// in the request context.
func (f *Flow) Visitor(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if VisitorFromContext(r.Context()) != "" {
			next.ServeHTTP(w, r)
			return
		}
		id, err := f.visitors.VisitorID(w, r)
		if err != nil {
			f.logger.WarnContext(r.Context(), "visitor id unavailable",
				logger.Component("googlelogin"),
				logger.Error(err),
			)
			next.ServeHTTP(w, r)
			return
		}
		next.ServeHTTP(w, r.WithContext(WithVisitor(r.Context(), id)))
	})
}
