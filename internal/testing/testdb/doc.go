// Package testdb provides test store utilities for the catalog.
//
// # Test Store Setup
//
// Create a store for each test:
//
//	func TestSomething(t *testing.T) {
//	    tdb := testdb.NewMemory(t)
//	    defer tdb.Close()
//
//	    // Use tdb.Store for repository operations
//	}
//
// # Isolation
//
// Each live store gets its own database (MongoDB) or namespace (SurrealDB):
//
//	func TestA(t *testing.T) {
//	    tdb := testdb.NewMongo(t) // database: test_1700000000_1
//	}
//
// # Skipping
//
// NewMongo and NewSurreal call t.Skipf when TEST_MONGO_URI or
// TEST_SURREAL_URL is unset, so the default test run needs no servers.
package testdb
