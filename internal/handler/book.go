package handler

import (
	"context"
	"net/http"
	"net/url"

	"github.com/forgo/shelf/internal/model"
	"github.com/gorilla/mux"
)

// BookService is the catalog behaviour the book endpoints depend on
type BookService interface {
	CreateBook(ctx context.Context, req *model.BookRequest) (*model.Book, error)
	ListBooks(ctx context.Context) ([]*model.Book, error)
	GetBook(ctx context.Context, id string) (*model.Book, error)
	ListByCategory(ctx context.Context, category string) ([]*model.Book, error)
	ListPublishedAfter(ctx context.Context, yearText string) ([]*model.Book, error)
	ReplaceBook(ctx context.Context, id string, req *model.BookRequest) (*model.Book, error)
	AddCopies(ctx context.Context, id string, req *model.AddCopiesRequest) (*model.Book, error)
	RenameCategory(ctx context.Context, id string, req *model.CategoryRequest) (*model.Book, error)
	DeleteBook(ctx context.Context, id string) error
}

// BookHandler handles catalog endpoints
type BookHandler struct {
	bookService BookService
}

// NewBookHandler creates a new book handler
func NewBookHandler(bookService BookService) *BookHandler {
	return &BookHandler{
		bookService: bookService,
	}
}

// RegisterRoutes registers book routes on the /api subrouter
func (h *BookHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/books", h.Create).Methods(http.MethodPost)
	r.HandleFunc("/books", h.List).Methods(http.MethodGet)
	r.HandleFunc("/books/", h.Create).Methods(http.MethodPost)
	r.HandleFunc("/books/", h.List).Methods(http.MethodGet)
	r.HandleFunc("/books/category/{category}", h.ListByCategory).Methods(http.MethodGet)
	r.HandleFunc("/books/after/{year}", h.ListPublishedAfter).Methods(http.MethodGet)
	r.HandleFunc("/books/{id}", h.Get).Methods(http.MethodGet)
	r.HandleFunc("/books/{id}", h.Replace).Methods(http.MethodPut)
	r.HandleFunc("/books/{id}", h.Delete).Methods(http.MethodDelete)
	r.HandleFunc("/books/{id}/copies", h.AddCopies).Methods(http.MethodPatch)
	r.HandleFunc("/books/{id}/category", h.RenameCategory).Methods(http.MethodPatch)
}

// pathVar returns the decoded route variable. Routes match on the escaped
// path, so a value may carry an encoded slash.
func pathVar(w http.ResponseWriter, r *http.Request, name string) (string, bool) {
	value, err := url.PathUnescape(mux.Vars(r)[name])
	if err != nil {
		WriteError(w, model.NewBadRequestError("Invalid request"))
		return "", false
	}
	return value, true
}

// Create handles POST /api/books
func (h *BookHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.BookRequest
	if err := DecodeJSON(w, r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}

	book, err := h.bookService.CreateBook(r.Context(), &req)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusCreated, book)
}

// List handles GET /api/books
func (h *BookHandler) List(w http.ResponseWriter, r *http.Request) {
	books, err := h.bookService.ListBooks(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, books)
}

// Get handles GET /api/books/{id}
func (h *BookHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathVar(w, r, "id")
	if !ok {
		return
	}

	book, err := h.bookService.GetBook(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, book)
}

// ListByCategory handles GET /api/books/category/{category}
func (h *BookHandler) ListByCategory(w http.ResponseWriter, r *http.Request) {
	category, ok := pathVar(w, r, "category")
	if !ok {
		return
	}

	books, err := h.bookService.ListByCategory(r.Context(), category)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, books)
}

// ListPublishedAfter handles GET /api/books/after/{year}
func (h *BookHandler) ListPublishedAfter(w http.ResponseWriter, r *http.Request) {
	year, ok := pathVar(w, r, "year")
	if !ok {
		return
	}

	books, err := h.bookService.ListPublishedAfter(r.Context(), year)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, books)
}

// Replace handles PUT /api/books/{id}
func (h *BookHandler) Replace(w http.ResponseWriter, r *http.Request) {
	id, ok := pathVar(w, r, "id")
	if !ok {
		return
	}

	var req model.BookRequest
	if err := DecodeJSON(w, r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}

	book, err := h.bookService.ReplaceBook(r.Context(), id, &req)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, book)
}

// AddCopies handles PATCH /api/books/{id}/copies
func (h *BookHandler) AddCopies(w http.ResponseWriter, r *http.Request) {
	id, ok := pathVar(w, r, "id")
	if !ok {
		return
	}

	var req model.AddCopiesRequest
	if err := DecodeJSON(w, r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}

	book, err := h.bookService.AddCopies(r.Context(), id, &req)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, book)
}

// RenameCategory handles PATCH /api/books/{id}/category
func (h *BookHandler) RenameCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathVar(w, r, "id")
	if !ok {
		return
	}

	var req model.CategoryRequest
	if err := DecodeJSON(w, r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}

	book, err := h.bookService.RenameCategory(r.Context(), id, &req)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, book)
}

// Delete handles DELETE /api/books/{id}
func (h *BookHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathVar(w, r, "id")
	if !ok {
		return
	}

	if err := h.bookService.DeleteBook(r.Context(), id); err != nil {
		writeServiceError(w, err)
		return
	}

	WriteMessage(w, http.StatusOK, "Book deleted")
}
