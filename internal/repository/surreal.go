package repository

import (
	"context"
	"strings"

	"github.com/forgo/shelf/internal/database"
	"github.com/forgo/shelf/internal/model"
	"github.com/google/uuid"
)

var _ BookStore = (*SurrealBookRepository)(nil)

// SurrealBookRepository handles book data access in SurrealDB
type SurrealBookRepository struct {
	db database.Database
}

// NewSurrealBookRepository creates a new SurrealDB book repository
func NewSurrealBookRepository(db database.Database) *SurrealBookRepository {
	return &SurrealBookRepository{db: db}
}

// Create creates a new book record keyed by a fresh UUID
func (r *SurrealBookRepository) Create(ctx context.Context, book *model.Book) error {
	query := `
		CREATE type::thing("book", $id) CONTENT {
			title: $title,
			author: $author,
			category: $category,
			publishedYear: $publishedYear,
			availableCopies: $availableCopies,
			createdAt: time::now(),
			updatedAt: time::now()
		}
	`

	vars := bookVars(book)
	vars["id"] = uuid.NewString()

	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		return err
	}

	created, err := parseBookRecord(result)
	if err != nil {
		return err
	}
	*book = *created
	return nil
}

// GetByID retrieves a book by ID
func (r *SurrealBookRepository) GetByID(ctx context.Context, id string) (*model.Book, error) {
	key, err := normalizeUUID(id)
	if err != nil {
		return nil, err
	}

	query := `SELECT * FROM type::thing("book", $id)`
	result, err := r.db.QueryOne(ctx, query, map[string]interface{}{"id": key})
	if err != nil {
		return nil, err
	}
	return parseBookRecord(result)
}

// List returns books matching filter
func (r *SurrealBookRepository) List(ctx context.Context, filter model.BookFilter) ([]*model.Book, error) {
	var conditions []string
	vars := map[string]interface{}{}
	order := "createdAt DESC"

	if filter.Category != nil {
		conditions = append(conditions, "category = $category")
		vars["category"] = *filter.Category
	}
	if filter.PublishedAfter != nil {
		conditions = append(conditions, "publishedYear > $year")
		vars["year"] = *filter.PublishedAfter
		order = "publishedYear DESC, createdAt DESC"
	}

	query := "SELECT * FROM book"
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY " + order

	results, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return nil, err
	}
	return parseBookRecords(extractQueryResults(results))
}

// Replace overwrites a book's content fields
func (r *SurrealBookRepository) Replace(ctx context.Context, book *model.Book) error {
	query := `
		UPDATE book SET
			title = $title,
			author = $author,
			category = $category,
			publishedYear = $publishedYear,
			availableCopies = $availableCopies,
			updatedAt = time::now()
		WHERE id = type::thing("book", $id)
		RETURN AFTER
	`

	key, err := normalizeUUID(book.ID)
	if err != nil {
		return err
	}
	vars := bookVars(book)
	vars["id"] = key

	updated, err := r.updateOne(ctx, query, vars)
	if err != nil {
		return err
	}
	*book = *updated
	return nil
}

// IncrementCopies atomically adds delta to availableCopies
func (r *SurrealBookRepository) IncrementCopies(ctx context.Context, id string, delta int) (*model.Book, error) {
	key, err := normalizeUUID(id)
	if err != nil {
		return nil, err
	}

	query := `
		UPDATE book SET availableCopies += $delta, updatedAt = time::now()
		WHERE id = type::thing("book", $id)
		RETURN AFTER
	`
	return r.updateOne(ctx, query, map[string]interface{}{"id": key, "delta": delta})
}

// UpdateCategory moves a book to another category
func (r *SurrealBookRepository) UpdateCategory(ctx context.Context, id, category string) (*model.Book, error) {
	key, err := normalizeUUID(id)
	if err != nil {
		return nil, err
	}

	query := `
		UPDATE book SET category = $category, updatedAt = time::now()
		WHERE id = type::thing("book", $id)
		RETURN AFTER
	`
	return r.updateOne(ctx, query, map[string]interface{}{"id": key, "category": category})
}

// DeleteIfNoCopies removes a book only while availableCopies is 0
func (r *SurrealBookRepository) DeleteIfNoCopies(ctx context.Context, id string) error {
	key, err := normalizeUUID(id)
	if err != nil {
		return err
	}

	query := `
		DELETE book
		WHERE id = type::thing("book", $id) AND availableCopies = 0
		RETURN BEFORE
	`
	results, err := r.db.Query(ctx, query, map[string]interface{}{"id": key})
	if err != nil {
		return err
	}
	if len(extractQueryResults(results)) > 0 {
		return nil
	}

	if _, err := r.GetByID(ctx, key); err != nil {
		return err
	}
	return database.ErrPrecondition
}

// Ping checks the database connection
func (r *SurrealBookRepository) Ping(ctx context.Context) error {
	return r.db.Ping(ctx)
}

// Close closes the database connection
func (r *SurrealBookRepository) Close(ctx context.Context) error {
	return r.db.Close()
}

func (r *SurrealBookRepository) updateOne(ctx context.Context, query string, vars map[string]interface{}) (*model.Book, error) {
	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		return nil, err
	}
	return parseBookRecord(result)
}

func bookVars(book *model.Book) map[string]interface{} {
	return map[string]interface{}{
		"title":           book.Title,
		"author":          book.Author,
		"category":        book.Category,
		"publishedYear":   book.PublishedYear,
		"availableCopies": book.AvailableCopies,
	}
}

func parseBookRecords(records []interface{}) ([]*model.Book, error) {
	books := make([]*model.Book, 0, len(records))
	for _, rec := range records {
		book, err := parseBookRecord(rec)
		if err != nil {
			return nil, err
		}
		books = append(books, book)
	}
	return books, nil
}
