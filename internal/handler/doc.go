// Package handler provides HTTP request handlers for the Shelf API.
//
// BookHandler serves the catalog endpoints under /api/books; Health and Ready
// report liveness and store readiness; StaticHandler serves the browser bundle
// with a single-page-app fallback. NewRouter mounts all of them on a
// gorilla/mux router.
//
// # Handler Pattern
//
//   - Constructor function (NewXxxHandler) accepts its dependencies
//   - Methods handle specific HTTP endpoints
//   - Response helpers from response.go standardize output format
//   - Errors are mapped to RFC 9457 Problem Details responses by MapServiceError
//
// # Response Format
//
// Successful responses are the bare resource (a book or an array of books) so
// the bundled UI can consume them directly. Errors are application/problem+json
// and always carry a "message" member.
//
// # Example Usage
//
//	router := handler.NewRouter(handler.RouterConfig{
//	    Books:     bookService,
//	    Store:     store,
//	    StaticDir: "./frontend",
//	})
package handler
