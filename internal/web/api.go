package web

import (
	"encoding/json"
	"net/http"

	"bookstore/models"
)

type bookListResponse struct {
	Query string        `json:"query,omitempty"`
	Count int           `json:"count"`
	Books []models.Book `json:"books"`
}

// writeJSON encodes data before touching the response so an unencodable value
// becomes a 500 instead of an empty 200.
func (s *Server) writeJSON(w http.ResponseWriter, r *http.Request, status int, data any) {
	body, err := json.Marshal(data)
	if err != nil {
		s.log.ErrorContext(r.Context(), "encode json response", "path", r.URL.Path, "error", err)
		status = http.StatusInternalServerError
		body = []byte(`{"error":"internal error"}`)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(append(body, '\n'))
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	s.writeJSON(w, r, status, map[string]any{"error": msg})
}

func (s *Server) handleAPIBooks(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	books, err := s.shop.ListBooks(r.Context(), q)
	if err != nil {
		status, msg := apiStatus(err)
		if status >= http.StatusInternalServerError {
			s.log.ErrorContext(r.Context(), "api list books", "error", err)
		}
		s.writeError(w, r, status, msg)
		return
	}
	if books == nil {
		books = []models.Book{}
	}
	s.writeJSON(w, r, http.StatusOK, bookListResponse{Query: q, Count: len(books), Books: books})
}

func (s *Server) handleAPIBook(w http.ResponseWriter, r *http.Request) {
	id, ok := bookIDParam(r)
	if !ok {
		s.writeError(w, r, http.StatusBadRequest, "invalid book id")
		return
	}
	b, err := s.shop.GetBook(r.Context(), id)
	if err != nil {
		status, msg := apiStatus(err)
		s.writeError(w, r, status, msg)
		return
	}
	s.writeJSON(w, r, http.StatusOK, b)
}
