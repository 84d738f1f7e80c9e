package repository

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/forgo/shelf/internal/database"
	"github.com/forgo/shelf/internal/model"
)

// BookStore is the full contract every book backend implements.
type BookStore interface {
	// Create assigns the id and timestamps and persists the book.
	Create(ctx context.Context, book *model.Book) error
	GetByID(ctx context.Context, id string) (*model.Book, error)
	List(ctx context.Context, filter model.BookFilter) ([]*model.Book, error)
	// Replace overwrites the content fields of the book with book.ID and
	// refreshes book's timestamps from the stored record.
	Replace(ctx context.Context, book *model.Book) error
	IncrementCopies(ctx context.Context, id string, delta int) (*model.Book, error)
	UpdateCategory(ctx context.Context, id, category string) (*model.Book, error)
	// DeleteIfNoCopies removes the book only while availableCopies is 0 and
	// returns database.ErrPrecondition otherwise.
	DeleteIfNoCopies(ctx context.Context, id string) error

	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

// Open connects to the store named by cfg.URI and returns its repository.
func Open(ctx context.Context, cfg database.Config) (BookStore, error) {
	driver, err := database.DriverFor(cfg.URI)
	if err != nil {
		return nil, err
	}

	switch driver {
	case database.DriverMongo:
		_, db, err := database.ConnectMongo(ctx, cfg)
		if err != nil {
			return nil, err
		}
		repo := NewMongoBookRepository(db.Collection(BooksCollection))
		if err := repo.EnsureIndexes(ctx); err != nil {
			_ = repo.Close(context.Background())
			return nil, fmt.Errorf("%w: creating indexes: %v", database.ErrConnection, err)
		}
		return repo, nil

	case database.DriverSurreal:
		db := database.NewSurrealDB(cfg)
		if err := db.Connect(ctx); err != nil {
			return nil, err
		}
		return NewSurrealBookRepository(db), nil

	default:
		return NewMemoryBookRepository(), nil
	}
}

// OpenWithRetry calls Open up to retries+1 times, waiting backoff between
// attempts. Configuration errors are returned without retrying.
func OpenWithRetry(ctx context.Context, cfg database.Config, retries int, backoff time.Duration) (BookStore, error) {
	var lastErr error
	for attempt := 0; attempt <= retries; attempt++ {
		if attempt > 0 {
			slog.Warn("retrying store connection",
				slog.Int("attempt", attempt+1),
				slog.Duration("backoff", backoff),
				slog.String("error", lastErr.Error()),
			)
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
		}

		store, err := Open(ctx, cfg)
		if err == nil {
			return store, nil
		}
		if errors.Is(err, database.ErrMissingURI) || errors.Is(err, database.ErrUnsupportedScheme) {
			return nil, err
		}
		lastErr = err
	}
	return nil, lastErr
}
