package testdb

import (
	"context"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/forgo/shelf/internal/database"
	"github.com/forgo/shelf/internal/repository"
	"github.com/google/uuid"
)

// TestDB provides an isolated store for testing.
// Each live TestDB gets a unique database or namespace.
type TestDB struct {
	Store  repository.BookStore
	Driver database.Driver
	Name   string

	// MissingID is well formed for this store but names no book.
	MissingID string

	cleanup func(ctx context.Context)
}

var (
	// counterMu protects the name counter
	counterMu sync.Mutex
	counter   int64
)

// uniqueName generates a unique database or namespace name
func uniqueName() string {
	counterMu.Lock()
	defer counterMu.Unlock()
	counter++
	return fmt.Sprintf("test_%d_%d", time.Now().UnixNano(), counter)
}

// NewMemory creates an in-process store.
func NewMemory(t *testing.T) *TestDB {
	t.Helper()
	return &TestDB{
		Store:     repository.NewMemoryBookRepository(),
		Driver:    database.DriverMemory,
		Name:      "memory",
		MissingID: uuid.NewString(),
	}
}

// NewMongo creates a store in a fresh MongoDB database that is dropped on Close.
func NewMongo(t *testing.T) *TestDB {
	t.Helper()

	uri := os.Getenv("TEST_MONGO_URI")
	if uri == "" {
		t.Skipf("TEST_MONGO_URI not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	name := uniqueName()
	_, db, err := database.ConnectMongo(ctx, database.Config{URI: uri, Database: name})
	if err != nil {
		t.Fatalf("testdb: failed to connect: %v", err)
	}

	repo := repository.NewMongoBookRepository(db.Collection(repository.BooksCollection))
	if err := repo.EnsureIndexes(ctx); err != nil {
		_ = db.Client().Disconnect(ctx)
		t.Fatalf("testdb: failed to create indexes: %v", err)
	}

	return &TestDB{
		Store:     repo,
		Driver:    database.DriverMongo,
		Name:      name,
		MissingID: "000000000000000000000000",
		cleanup: func(ctx context.Context) {
			_ = db.Drop(ctx)
		},
	}
}

// NewSurreal creates a store in a fresh SurrealDB namespace that is removed on Close.
func NewSurreal(t *testing.T) *TestDB {
	t.Helper()

	endpoint := os.Getenv("TEST_SURREAL_URL")
	if endpoint == "" {
		t.Skipf("TEST_SURREAL_URL not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cfg := database.Config{
		URI:       endpoint,
		Namespace: uniqueName(),
		Database:  "test",
		User:      getEnv("TEST_DB_USER", "root"),
		Password:  getEnv("TEST_DB_PASSWORD", "root"),
	}

	db := database.NewSurrealDB(cfg)
	if err := db.Connect(ctx); err != nil {
		t.Fatalf("testdb: failed to connect: %v", err)
	}

	return &TestDB{
		Store:     repository.NewSurrealBookRepository(db),
		Driver:    database.DriverSurreal,
		Name:      cfg.Namespace,
		MissingID: uuid.NewString(),
		cleanup: func(ctx context.Context) {
			// Ignore errors on cleanup
			_ = db.Execute(ctx, fmt.Sprintf("REMOVE NAMESPACE %s", cfg.Namespace), nil)
		},
	}
}

// Close removes the test data and closes the store.
func (tdb *TestDB) Close() {
	if tdb.Store == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if tdb.cleanup != nil {
		tdb.cleanup(ctx)
	}
	_ = tdb.Store.Close(ctx)
}

// Ctx returns a context with a reasonable timeout for test operations.
func (tdb *TestDB) Ctx() context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	_ = cancel
	return ctx
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
