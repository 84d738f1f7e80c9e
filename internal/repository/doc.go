// Package repository implements book storage for the catalog.
//
// Every backend satisfies BookStore:
//
//   - MongoBookRepository stores documents in the "books" collection
//   - SurrealBookRepository stores records in the "book" table via database.Database
//   - MemoryBookRepository keeps books in process for development and tests
//   - Deferred forwards to one of the above once the store connection resolves
//
// # Repository Pattern
//
// All repositories follow a consistent pattern:
//
//   - Constructor function (NewXxxBookRepository) accepts a store handle
//   - Methods map store failures onto database sentinels (ErrNotFound,
//     ErrInvalidID, ErrPrecondition)
//   - Writes that depend on current state are conditional at the store, so
//     increments and the zero-copies delete guard are atomic
//
// # Example Usage
//
//	store, err := repository.Open(ctx, database.Config{URI: "mongodb://localhost:27017/shelf"})
//	if err != nil {
//	    return err
//	}
//	book, err := store.GetByID(ctx, id)
//	if errors.Is(err, database.ErrNotFound) {
//	    // Handle not found
//	}
package repository
