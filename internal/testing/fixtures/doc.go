// Package fixtures provides test data factories for the catalog.
//
// # Factory Pattern
//
// Create a factory over any book store:
//
//	f := fixtures.New(tdb.Store)
//
// # Creating Test Data
//
//	book := f.CreateBook(t)                               // Default book
//	book := f.CreateBook(t, fixtures.WithCopies(0))       // Deletable book
//	books := f.CreateBooks(t, 3, fixtures.WithCategory("SciFi"))
//
// NewBook and Dune build unsaved books for request bodies and mocks.
//
// # Random Data
//
// Titles get a random suffix so repeated books stay distinguishable.
package fixtures
