// Package service implements the catalog's business rules.
//
// BookService validates requests with the model schema, applies the
// catalog's rules (for example, a book may only be deleted once it has no
// available copies) and delegates persistence to a BookRepository.
//
// # Repository Interfaces
//
// Services define their own repository interfaces, allowing:
//
//   - Easy mocking for unit tests
//   - Any backend from the repository package to be plugged in
//
// # Error Handling
//
// Services return sentinel errors defined in errors.go. Persistence
// failures are wrapped in *StoreError, whose Kind records how the failing
// operation classifies them:
//
//	var se *service.StoreError
//	if errors.As(err, &se) && errors.Is(err, service.ErrStoreFailure) {
//	    // 500
//	}
//
// # Example Usage
//
//	books := service.NewBookService(service.BookServiceConfig{
//	    BookRepo:  store,
//	    OpTimeout: 5 * time.Second,
//	})
//	book, err := books.CreateBook(ctx, req)
package service
