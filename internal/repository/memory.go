package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/forgo/shelf/internal/database"
	"github.com/forgo/shelf/internal/model"
	"github.com/google/uuid"
)

var _ BookStore = (*MemoryBookRepository)(nil)

type memoryRecord struct {
	book *model.Book
	seq  int64
}

// MemoryBookRepository keeps books in process. Data is lost on restart.
type MemoryBookRepository struct {
	mu      sync.RWMutex
	nextSeq int64
	books   map[string]*memoryRecord
	now     func() time.Time
}

// NewMemoryBookRepository creates an empty in-memory repository
func NewMemoryBookRepository() *MemoryBookRepository {
	return &MemoryBookRepository{
		books: make(map[string]*memoryRecord),
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// Create stores a new book
func (r *MemoryBookRepository) Create(ctx context.Context, book *model.Book) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	book.ID = uuid.NewString()
	book.CreatedAt = now
	book.UpdatedAt = now

	r.nextSeq++
	r.books[book.ID] = &memoryRecord{book: cloneBook(book), seq: r.nextSeq}
	return nil
}

// GetByID retrieves a book by ID
func (r *MemoryBookRepository) GetByID(ctx context.Context, id string) (*model.Book, error) {
	key, err := normalizeUUID(id)
	if err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.books[key]
	if !ok {
		return nil, database.ErrNotFound
	}
	return cloneBook(rec.book), nil
}

// List returns books matching filter, newest first, or by publishedYear
// descending when filtering on publication year.
func (r *MemoryBookRepository) List(ctx context.Context, filter model.BookFilter) ([]*model.Book, error) {
	r.mu.RLock()
	matched := make([]*memoryRecord, 0, len(r.books))
	for _, rec := range r.books {
		if filter.Category != nil && rec.book.Category != *filter.Category {
			continue
		}
		if filter.PublishedAfter != nil && !(float64(rec.book.PublishedYear) > *filter.PublishedAfter) {
			continue
		}
		matched = append(matched, &memoryRecord{book: cloneBook(rec.book), seq: rec.seq})
	}
	r.mu.RUnlock()

	byYear := filter.PublishedAfter != nil
	sort.Slice(matched, func(i, j int) bool {
		a, b := matched[i], matched[j]
		if byYear && a.book.PublishedYear != b.book.PublishedYear {
			return a.book.PublishedYear > b.book.PublishedYear
		}
		if !a.book.CreatedAt.Equal(b.book.CreatedAt) {
			return a.book.CreatedAt.After(b.book.CreatedAt)
		}
		return a.seq > b.seq
	})

	books := make([]*model.Book, len(matched))
	for i, rec := range matched {
		books[i] = rec.book
	}
	return books, nil
}

// Replace overwrites a book's content fields
func (r *MemoryBookRepository) Replace(ctx context.Context, book *model.Book) error {
	key, err := normalizeUUID(book.ID)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.books[key]
	if !ok {
		return database.ErrNotFound
	}

	stored := rec.book
	stored.Title = book.Title
	stored.Author = book.Author
	stored.Category = book.Category
	stored.PublishedYear = book.PublishedYear
	stored.AvailableCopies = book.AvailableCopies
	stored.UpdatedAt = r.now()

	*book = *cloneBook(stored)
	return nil
}

// IncrementCopies adds delta to availableCopies
func (r *MemoryBookRepository) IncrementCopies(ctx context.Context, id string, delta int) (*model.Book, error) {
	return r.update(id, func(b *model.Book) {
		b.AvailableCopies += delta
	})
}

// UpdateCategory moves a book to another category
func (r *MemoryBookRepository) UpdateCategory(ctx context.Context, id, category string) (*model.Book, error) {
	return r.update(id, func(b *model.Book) {
		b.Category = category
	})
}

// DeleteIfNoCopies removes a book whose availableCopies is 0
func (r *MemoryBookRepository) DeleteIfNoCopies(ctx context.Context, id string) error {
	key, err := normalizeUUID(id)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.books[key]
	if !ok {
		return database.ErrNotFound
	}
	if rec.book.AvailableCopies != 0 {
		return database.ErrPrecondition
	}
	delete(r.books, key)
	return nil
}

// Ping always succeeds
func (r *MemoryBookRepository) Ping(ctx context.Context) error {
	return nil
}

// Close drops all books
func (r *MemoryBookRepository) Close(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.books = make(map[string]*memoryRecord)
	return nil
}

func (r *MemoryBookRepository) update(id string, mutate func(*model.Book)) (*model.Book, error) {
	key, err := normalizeUUID(id)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.books[key]
	if !ok {
		return nil, database.ErrNotFound
	}
	mutate(rec.book)
	rec.book.UpdatedAt = r.now()
	return cloneBook(rec.book), nil
}
