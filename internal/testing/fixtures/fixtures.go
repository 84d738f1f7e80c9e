package fixtures

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"testing"
	"time"

	"github.com/forgo/shelf/internal/model"
	"github.com/forgo/shelf/internal/repository"
)

// Factory creates test books in a store
type Factory struct {
	store repository.BookStore
}

// New creates a new fixture factory
func New(store repository.BookStore) *Factory {
	return &Factory{store: store}
}

// randomID generates a random hex suffix
func randomID() string {
	b := make([]byte, 4)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

// ctx returns a context with timeout
func ctx() context.Context {
	c, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	_ = cancel
	return c
}

// ============================================================================
// Book Fixtures
// ============================================================================

// BookOpts customizes book creation
type BookOpts struct {
	Title           string
	Author          string
	Category        string
	PublishedYear   int
	AvailableCopies int
}

// WithCategory sets the book's category
func WithCategory(category string) func(*BookOpts) {
	return func(o *BookOpts) { o.Category = category }
}

// WithYear sets the book's publication year
func WithYear(year int) func(*BookOpts) {
	return func(o *BookOpts) { o.PublishedYear = year }
}

// WithCopies sets the book's available copies
func WithCopies(n int) func(*BookOpts) {
	return func(o *BookOpts) { o.AvailableCopies = n }
}

// WithTitle sets the book's title
func WithTitle(title string) func(*BookOpts) {
	return func(o *BookOpts) { o.Title = title }
}

// NewBook builds an unsaved book with optional customizations
func NewBook(opts ...func(*BookOpts)) *model.Book {
	o := &BookOpts{
		Title:           fmt.Sprintf("Book %s", randomID()),
		Author:          "Test Author",
		Category:        "General",
		PublishedYear:   2000,
		AvailableCopies: 1,
	}
	for _, fn := range opts {
		fn(o)
	}

	return &model.Book{
		Title:           o.Title,
		Author:          o.Author,
		Category:        o.Category,
		PublishedYear:   o.PublishedYear,
		AvailableCopies: o.AvailableCopies,
	}
}

// Dune returns the unsaved reference book used across scenario tests
func Dune() *model.Book {
	return &model.Book{
		Title:           "Dune",
		Author:          "Herbert",
		Category:        "SciFi",
		PublishedYear:   1965,
		AvailableCopies: 2,
	}
}

// CreateBook stores a book with optional customizations
func (f *Factory) CreateBook(t *testing.T, opts ...func(*BookOpts)) *model.Book {
	t.Helper()

	book := NewBook(opts...)
	if err := f.store.Create(ctx(), book); err != nil {
		t.Fatalf("fixtures: failed to create book: %v", err)
	}
	return book
}

// CreateBooks stores n books, in order, with the same customizations
func (f *Factory) CreateBooks(t *testing.T, n int, opts ...func(*BookOpts)) []*model.Book {
	t.Helper()

	books := make([]*model.Book, 0, n)
	for i := 0; i < n; i++ {
		books = append(books, f.CreateBook(t, opts...))
	}
	return books
}
