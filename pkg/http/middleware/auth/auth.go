package auth

import (
	"net/http"
	"strings"
)

// OperatorResolver maps a bearer token to an operator name. An empty result
// means the token is unknown.
type OperatorResolver func(token string) string

// ContextSetter stamps the resolved operator into the request context. It
// is injected so this package stays free of service imports.
type ContextSetter func(r *http.Request, operator string) *http.Request

// NewAuthMiddleware restricts order-mutating routes to authenticated
// operators. The operator identity travels in the context, not in ambient
// framework state.
func NewAuthMiddleware(resolve OperatorResolver, set ContextSetter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				http.Error(w, "missing bearer token", http.StatusUnauthorized)

				return
			}

			operator := resolve(token)
			if operator == "" {
				http.Error(w, "invalid token", http.StatusUnauthorized)

				return
			}

			next.ServeHTTP(w, set(r, operator))
		})
	}
}
