package web

import (
	"errors"
	"net/http"

	"bookstore/internal/shop"
)

const (
	msgAdminOnly      = "Admin access only."
	msgBookNotFound   = "Book not found."
	msgInvalidInput   = "Please fill in the required fields."
	msgNotInitialized = "Store is not initialized; run bookstorectl migrate."
	msgInternal       = "Something went wrong."
)

// fail turns a service error into a flash notice and a redirect. loginMsg is
// the notice shown when the caller has to log in first; fallback is where
// recoverable errors send the browser.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error, loginMsg, fallback string) {
	switch {
	case errors.Is(err, shop.ErrUnauthenticated):
		redirectWithFlash(w, r, "/login", loginMsg)
	case errors.Is(err, shop.ErrForbidden):
		redirectWithFlash(w, r, "/login", msgAdminOnly)
	case errors.Is(err, shop.ErrNotFound):
		redirectWithFlash(w, r, fallback, msgBookNotFound)
	case errors.Is(err, shop.ErrInvalidInput):
		redirectWithFlash(w, r, fallback, msgInvalidInput)
	case errors.Is(err, shop.ErrNotInitialized):
		s.log.WarnContext(r.Context(), "store not initialized", "path", r.URL.Path, "error", err)
		s.render(w, r, http.StatusServiceUnavailable, "error", pageData{
			Title:   "Service unavailable",
			Message: msgNotInitialized,
		})
	default:
		s.log.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "error", err)
		redirectWithFlash(w, r, "/", msgInternal)
	}
}

// apiStatus maps a service error to an HTTP status for the JSON API.
func apiStatus(err error) (int, string) {
	switch {
	case errors.Is(err, shop.ErrNotFound):
		return http.StatusNotFound, "book not found"
	case errors.Is(err, shop.ErrNotInitialized):
		return http.StatusServiceUnavailable, "store not initialized"
	default:
		return http.StatusInternalServerError, "internal error"
	}
}
