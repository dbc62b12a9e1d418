package web

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"bookstore/internal/shop"
)

const (
	msgRegistered    = "Registration successful. Please log in."
	msgUsernameTaken = "Username taken or error."
	msgBadSignup     = "Username and password are required; passwords are limited to 72 bytes."
	msgLoggedIn      = "Logged in successfully."
	msgBadLogin      = "Invalid credentials."
	msgLoggedOut     = "Logged out."
	msgAddedToCart   = "Added to cart."
	msgPaid          = "Payment successful! Your order has been placed."
	msgBookAdded     = "Book added."
	msgBookDeleted   = "Book deleted."

	msgLoginForCart   = "Please login to add to cart."
	msgLoginToView    = "Please login to view cart."
	msgLoginToProceed = "Please login to proceed."
)

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	sf, err := s.shop.Storefront(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		s.fail(w, r, err, "", "/")
		return
	}
	s.render(w, r, http.StatusOK, "index", pageData{Storefront: sf})
}

func (s *Server) handleRegisterForm(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusOK, "register", pageData{Title: "Register"})
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	_, err := s.shop.Register(r.Context(), r.FormValue("username"), r.FormValue("password"))
	if err != nil {
		msg := msgUsernameTaken
		switch {
		case errors.Is(err, shop.ErrInvalidInput):
			msg = msgBadSignup
		case !errors.Is(err, shop.ErrDuplicateUsername):
			s.log.ErrorContext(r.Context(), "register", "error", err)
		}
		s.render(w, r, http.StatusOK, "register", pageData{Title: "Register", Flash: msg})
		return
	}
	redirectWithFlash(w, r, "/login", msgRegistered)
}

func (s *Server) handleLoginForm(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusOK, "login", pageData{Title: "Login"})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	p, err := s.shop.Login(r.Context(), r.FormValue("username"), r.FormValue("password"))
	if err != nil {
		if !errors.Is(err, shop.ErrInvalidCredentials) {
			s.fail(w, r, err, "", "/login")
			return
		}
		s.render(w, r, http.StatusOK, "login", pageData{Title: "Login", Flash: msgBadLogin})
		return
	}
	if err := s.sessions.SetCookie(w, p); err != nil {
		s.fail(w, r, err, "", "/login")
		return
	}
	redirectWithFlash(w, r, "/", msgLoggedIn)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.sessions.ClearCookie(w)
	redirectWithFlash(w, r, "/", msgLoggedOut)
}

func (s *Server) handleAddToCart(w http.ResponseWriter, r *http.Request) {
	id, ok := bookIDParam(r)
	if !ok {
		redirectWithFlash(w, r, "/", msgBookNotFound)
		return
	}
	if err := s.shop.AddToCart(r.Context(), id); err != nil {
		s.fail(w, r, err, msgLoginForCart, "/")
		return
	}
	redirectWithFlash(w, r, "/", msgAddedToCart)
}

func (s *Server) handleCart(w http.ResponseWriter, r *http.Request) {
	cart, err := s.shop.ViewCart(r.Context())
	if err != nil {
		s.fail(w, r, err, msgLoginToView, "/")
		return
	}
	s.render(w, r, http.StatusOK, "cart", pageData{Title: "Cart", Cart: cart})
}

func (s *Server) handlePaymentSummary(w http.ResponseWriter, r *http.Request) {
	cart, err := s.shop.PaymentSummary(r.Context())
	if err != nil {
		s.fail(w, r, err, msgLoginToProceed, "/")
		return
	}
	s.render(w, r, http.StatusOK, "payment", pageData{Title: "Payment", Cart: cart})
}

func (s *Server) handleCheckout(w http.ResponseWriter, r *http.Request) {
	// Skipped lines are logged by the service; the shopper always sees the payment notice.
	if _, err := s.shop.Checkout(r.Context()); err != nil {
		s.fail(w, r, err, msgLoginToProceed, "/cart")
		return
	}
	redirectWithFlash(w, r, "/", msgPaid)
}

func (s *Server) handleAdmin(w http.ResponseWriter, r *http.Request) {
	books, err := s.shop.AdminBooks(r.Context())
	if err != nil {
		s.fail(w, r, err, msgAdminOnly, "/")
		return
	}
	s.render(w, r, http.StatusOK, "admin", pageData{Title: "Admin", Books: books})
}

func (s *Server) handleAddBook(w http.ResponseWriter, r *http.Request) {
	in := shop.ParseBookForm(
		r.FormValue("title"),
		r.FormValue("author"),
		r.FormValue("price"),
		r.FormValue("stock"),
		r.FormValue("cover_image"),
	)
	if _, err := s.shop.AddBook(r.Context(), in); err != nil {
		s.fail(w, r, err, msgAdminOnly, "/admin")
		return
	}
	redirectWithFlash(w, r, "/admin", msgBookAdded)
}

func (s *Server) handleDeleteBook(w http.ResponseWriter, r *http.Request) {
	id, ok := bookIDParam(r)
	if !ok {
		redirectWithFlash(w, r, "/admin", msgBookNotFound)
		return
	}
	if err := s.shop.DeleteBook(r.Context(), id); err != nil {
		s.fail(w, r, err, msgAdminOnly, "/admin")
		return
	}
	redirectWithFlash(w, r, "/admin", msgBookDeleted)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.shop.Ping(r.Context()); err != nil {
		s.writeJSON(w, r, http.StatusServiceUnavailable, map[string]any{"ok": false, "error": err.Error()})
		return
	}
	s.writeJSON(w, r, http.StatusOK, map[string]any{"ok": true})
}

func bookIDParam(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "bookID"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
