package auth

import "net/http"

// Middleware injects the session principal, when present, into the request context.
// Requests without a valid session pass through anonymously; handlers decide
// whether they need one via RequirePrincipal or RequireAdmin.
func Middleware(s *Sessions) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if p, ok := s.FromRequest(r); ok {
				r = r.WithContext(WithPrincipal(r.Context(), p))
			}
			next.ServeHTTP(w, r)
		})
	}
}
