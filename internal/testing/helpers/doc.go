// Package helpers provides test utility functions for the Shelf API.
//
// # Request Helpers
//
// Build and serve requests against any http.Handler:
//
//	resp := helpers.NewRequest(t, http.MethodPost, "/api/books").
//	    WithBody(map[string]interface{}{"title": "Dune"}).
//	    Do(srv)
//
// # Assertion Helpers
//
// Common response and store assertions:
//
//	helpers.AssertStatus(t, resp, http.StatusCreated)
//	helpers.AssertProblemDetails(t, resp, http.StatusNotFound, model.ErrCodeNotFound)
//	helpers.AssertBookNotExists(t, store, id)
package helpers
