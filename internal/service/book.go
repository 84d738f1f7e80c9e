package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/forgo/shelf/internal/database"
	"github.com/forgo/shelf/internal/model"
)

// BookRepository defines the interface for book storage
type BookRepository interface {
	Create(ctx context.Context, book *model.Book) error
	GetByID(ctx context.Context, id string) (*model.Book, error)
	List(ctx context.Context, filter model.BookFilter) ([]*model.Book, error)
	Replace(ctx context.Context, book *model.Book) error
	IncrementCopies(ctx context.Context, id string, delta int) (*model.Book, error)
	UpdateCategory(ctx context.Context, id, category string) (*model.Book, error)
	DeleteIfNoCopies(ctx context.Context, id string) error
}

// BookService handles catalog business logic
type BookService struct {
	repo      BookRepository
	opTimeout time.Duration
}

// BookServiceConfig holds configuration for the book service
type BookServiceConfig struct {
	BookRepo BookRepository
	// OpTimeout bounds each store call; zero uses database.DefaultOpTimeout.
	OpTimeout time.Duration
}

// NewBookService creates a new book service
func NewBookService(cfg BookServiceConfig) *BookService {
	timeout := cfg.OpTimeout
	if timeout <= 0 {
		timeout = database.DefaultOpTimeout
	}
	return &BookService{
		repo:      cfg.BookRepo,
		opTimeout: timeout,
	}
}

func (s *BookService) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.opTimeout)
}

// classify maps a repository error onto the service vocabulary. Malformed ids
// become invalidKind, missing records ErrBookNotFound, and anything else a
// StoreError of storeKind.
func classify(err, invalidKind, storeKind error) error {
	switch {
	case errors.Is(err, database.ErrInvalidID):
		return fmt.Errorf("%w: %w", invalidKind, err)
	case errors.Is(err, database.ErrNotFound):
		return ErrBookNotFound
	default:
		return &StoreError{Kind: storeKind, Err: err}
	}
}

// CreateBook validates a create request and persists the new book
func (s *BookService) CreateBook(ctx context.Context, req *model.BookRequest) (*model.Book, error) {
	if req == nil || !req.HasRequiredFields() {
		return nil, ErrFieldsRequired
	}

	fields, errs := req.Fields()
	errs = append(errs, fields.Validate()...)
	if len(errs) > 0 {
		return nil, &ValidationError{Fields: errs}
	}

	book := &model.Book{}
	fields.Apply(book)

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	if err := s.repo.Create(ctx, book); err != nil {
		return nil, &StoreError{Kind: ErrStoreFailure, Err: err}
	}
	return book, nil
}

// ListBooks returns every book, newest first
func (s *BookService) ListBooks(ctx context.Context) ([]*model.Book, error) {
	return s.list(ctx, model.BookFilter{})
}

// ListByCategory returns books whose category matches exactly, newest first
func (s *BookService) ListByCategory(ctx context.Context, category string) ([]*model.Book, error) {
	return s.list(ctx, model.BookFilter{Category: &category})
}

// ListPublishedAfter returns books published strictly after the given year,
// most recent publication first. yearText is coerced like Number().
func (s *BookService) ListPublishedAfter(ctx context.Context, yearText string) ([]*model.Book, error) {
	year := model.ParseNumber(yearText)
	if math.IsNaN(year) {
		return nil, ErrInvalidYear
	}
	return s.list(ctx, model.BookFilter{PublishedAfter: &year})
}

func (s *BookService) list(ctx context.Context, filter model.BookFilter) ([]*model.Book, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	books, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, &StoreError{Kind: ErrStoreFailure, Err: err}
	}
	if books == nil {
		books = []*model.Book{}
	}
	return books, nil
}

// GetBook retrieves a book by ID
func (s *BookService) GetBook(ctx context.Context, id string) (*model.Book, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	book, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, classify(err, ErrInvalidBookID, ErrInvalidBookID)
	}
	return book, nil
}

// ReplaceBook overwrites all caller-editable fields of a book. Missing fields
// are not defaulted; they fail validation instead.
func (s *BookService) ReplaceBook(ctx context.Context, id string, req *model.BookRequest) (*model.Book, error) {
	if req == nil {
		req = &model.BookRequest{}
	}

	fields, errs := req.Fields()
	errs = append(errs, fields.Validate()...)
	if len(errs) > 0 {
		return nil, &ValidationError{Fields: errs}
	}

	book := &model.Book{ID: id}
	fields.Apply(book)

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	if err := s.repo.Replace(ctx, book); err != nil {
		return nil, classify(err, ErrInvalidBookID, ErrUpdateRejected)
	}
	return book, nil
}

// AddCopies increments availableCopies by a positive whole amount
func (s *BookService) AddCopies(ctx context.Context, id string, req *model.AddCopiesRequest) (*model.Book, error) {
	if req == nil {
		return nil, ErrInvalidCopies
	}

	delta := model.NumberOf(req.AddCopies)
	if math.IsNaN(delta) || math.IsInf(delta, 0) || delta <= 0 {
		return nil, ErrInvalidCopies
	}
	if !model.IsInteger(delta) || delta > model.MaxSafeInteger {
		return nil, ErrInvalidRequest
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	book, err := s.repo.IncrementCopies(ctx, id, int(delta))
	if err != nil {
		return nil, classify(err, ErrInvalidRequest, ErrInvalidRequest)
	}
	return book, nil
}

// RenameCategory moves a book to another category
func (s *BookService) RenameCategory(ctx context.Context, id string, req *model.CategoryRequest) (*model.Book, error) {
	if req == nil || !model.Truthy(req.Category) {
		return nil, ErrCategoryRequired
	}

	category, ok := model.AsString(req.Category)
	if !ok {
		return nil, ErrInvalidRequest
	}
	category = strings.TrimSpace(category)
	if category == "" {
		return nil, ErrCategoryRequired
	}
	if errs := model.ValidateCategory(category); len(errs) > 0 {
		return nil, &ValidationError{Fields: errs}
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	book, err := s.repo.UpdateCategory(ctx, id, category)
	if err != nil {
		return nil, classify(err, ErrInvalidRequest, ErrInvalidRequest)
	}
	return book, nil
}

// DeleteBook removes a book once it has no available copies
func (s *BookService) DeleteBook(ctx context.Context, id string) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	book, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return classify(err, ErrInvalidBookID, ErrInvalidBookID)
	}
	if book.AvailableCopies != 0 {
		return ErrCopiesRemaining
	}

	// The store re-checks availableCopies == 0 atomically.
	if err := s.repo.DeleteIfNoCopies(ctx, id); err != nil {
		if errors.Is(err, database.ErrPrecondition) {
			return ErrCopiesRemaining
		}
		return classify(err, ErrInvalidBookID, ErrInvalidBookID)
	}
	return nil
}
