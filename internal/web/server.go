// Package web serves the storefront over HTTP: server-rendered pages for shoppers
// and admins, plus a small JSON catalog API.
package web

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"bookstore/internal/auth"
	"bookstore/internal/shop"
)

// Options configures a Server.
type Options struct {
	Shop        *shop.Service
	Sessions    *auth.Sessions
	Logger      *slog.Logger
	StaticDir   string
	CORSOrigins []string
}

// Server holds the HTTP dependencies. Create it with New.
type Server struct {
	shop        *shop.Service
	sessions    *auth.Sessions
	log         *slog.Logger
	pages       *pages
	staticDir   string
	corsOrigins []string
}

// New validates opts and parses the page templates.
func New(opts Options) (*Server, error) {
	if opts.Shop == nil {
		return nil, errors.New("web: shop service is required")
	}
	if opts.Sessions == nil {
		return nil, errors.New("web: sessions are required")
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	p, err := parsePages()
	if err != nil {
		return nil, err
	}
	origins := opts.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return &Server{
		shop:        opts.Shop,
		sessions:    opts.Sessions,
		log:         opts.Logger,
		pages:       p,
		staticDir:   strings.TrimSpace(opts.StaticDir),
		corsOrigins: origins,
	}, nil
}

// Handler builds the router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(s.log))
	r.Use(middleware.Recoverer)
	r.Use(auth.Middleware(s.sessions))

	r.Get("/", s.handleIndex)

	r.Get("/register", s.handleRegisterForm)
	r.Post("/register", s.handleRegister)
	r.Get("/login", s.handleLoginForm)
	r.Post("/login", s.handleLogin)
	r.Get("/logout", s.handleLogout)

	r.Get("/add_to_cart/{bookID}", s.handleAddToCart)
	r.Post("/add_to_cart/{bookID}", s.handleAddToCart)
	r.Get("/cart", s.handleCart)
	r.Post("/cart", s.handleCart)
	r.Get("/payment", s.handlePaymentSummary)
	r.Post("/payment", s.handleCheckout)

	r.Get("/admin", s.handleAdmin)
	r.Post("/admin", s.handleAddBook)
	r.Get("/delete_book/{bookID}", s.handleDeleteBook)
	r.Post("/delete_book/{bookID}", s.handleDeleteBook)

	r.Get("/healthz", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: s.corsOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodOptions},
			AllowedHeaders: []string{"Accept", "Content-Type"},
			MaxAge:         300,
		}))
		r.Get("/books", s.handleAPIBooks)
		r.Get("/books/{bookID}", s.handleAPIBook)
	})

	if s.staticDir != "" {
		fs := http.StripPrefix("/static/", http.FileServer(http.Dir(s.staticDir)))
		r.Handle("/static/*", fs)
	}
	return r
}

// NewHTTPServer wraps h with the timeouts used in production.
func NewHTTPServer(addr string, h http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       2 * time.Minute,
	}
}
