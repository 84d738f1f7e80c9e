package handler_test

import (
	"net/http"
	"testing"

	"github.com/forgo/shelf/internal/handler"
	"github.com/forgo/shelf/internal/middleware"
	"github.com/forgo/shelf/internal/model"
	"github.com/forgo/shelf/internal/service"
	"github.com/forgo/shelf/internal/testing/fixtures"
	"github.com/forgo/shelf/internal/testing/helpers"
	"github.com/forgo/shelf/internal/testing/testdb"
)

// newServer wires the full request path the way cmd/server does, minus rate
// limiting.
func newServer(t *testing.T, tdb *testdb.TestDB) http.Handler {
	t.Helper()
	books := service.NewBookService(service.BookServiceConfig{BookRepo: tdb.Store})
	router := handler.NewRouter(handler.RouterConfig{
		Books:     books,
		Store:     tdb.Store,
		StaticDir: t.TempDir(),
	})
	return middleware.Chain(router,
		middleware.RequestID,
		middleware.Logger,
		middleware.Recovery,
		middleware.CORS(),
		middleware.Compress,
	)
}

func TestCatalog_EndToEnd(t *testing.T) {
	tdb := testdb.NewMemory(t)
	defer tdb.Close()
	srv := newServer(t, tdb)

	// Create
	resp := helpers.NewRequest(t, http.MethodPost, "/api/books").
		WithBody(map[string]interface{}{
			"title":           "Dune",
			"author":          "Herbert",
			"category":        "SciFi",
			"publishedYear":   "1965",
			"availableCopies": 2,
		}).
		Do(srv)
	helpers.AssertStatus(t, resp, http.StatusCreated)
	created := helpers.DecodeBook(t, resp)
	if created.ID == "" {
		t.Fatal("expected generated _id")
	}
	if resp.Header().Get("X-Request-ID") == "" {
		t.Error("expected X-Request-ID on response")
	}
	helpers.AssertBookExists(t, tdb.Store, created.ID)

	// Add copies
	resp = helpers.NewRequest(t, http.MethodPatch, "/api/books/"+created.ID+"/copies").
		WithBody(map[string]interface{}{"addCopies": "3"}).
		Do(srv)
	helpers.AssertStatus(t, resp, http.StatusOK)
	helpers.AssertJSONContains(t, resp, map[string]interface{}{"availableCopies": 5})

	// Delete refused while copies remain
	resp = helpers.NewRequest(t, http.MethodDelete, "/api/books/"+created.ID).Do(srv)
	msg := helpers.AssertProblemDetails(t, resp, http.StatusBadRequest, model.ErrCodeRuleViolation)
	if msg != "Cannot delete unless availableCopies is 0." {
		t.Errorf("unexpected message %q", msg)
	}

	// Replace with zero copies, then delete
	resp = helpers.NewRequest(t, http.MethodPut, "/api/books/"+created.ID).
		WithBody(map[string]interface{}{
			"title":           "Dune",
			"author":          "Frank Herbert",
			"category":        "SciFi",
			"publishedYear":   1965,
			"availableCopies": 0,
		}).
		Do(srv)
	helpers.AssertStatus(t, resp, http.StatusOK)
	helpers.AssertJSONContains(t, resp, map[string]interface{}{"author": "Frank Herbert", "availableCopies": 0})

	resp = helpers.NewRequest(t, http.MethodDelete, "/api/books/"+created.ID).Do(srv)
	helpers.AssertStatus(t, resp, http.StatusOK)
	helpers.AssertJSONContains(t, resp, map[string]interface{}{"message": "Book deleted"})
	helpers.AssertBookNotExists(t, tdb.Store, created.ID)

	resp = helpers.NewRequest(t, http.MethodGet, "/api/books/"+created.ID).Do(srv)
	helpers.AssertProblemDetails(t, resp, http.StatusNotFound, model.ErrCodeNotFound)
}

func TestCatalog_FiltersSeededBooks(t *testing.T) {
	tdb := testdb.NewMemory(t)
	defer tdb.Close()
	srv := newServer(t, tdb)

	f := fixtures.New(tdb.Store)
	f.CreateBook(t, fixtures.WithTitle("Old"), fixtures.WithCategory("History"), fixtures.WithYear(1950))
	f.CreateBook(t, fixtures.WithTitle("Mid"), fixtures.WithCategory("History"), fixtures.WithYear(1990))
	f.CreateBook(t, fixtures.WithTitle("New"), fixtures.WithCategory("Poetry"), fixtures.WithYear(2010))

	resp := helpers.NewRequest(t, http.MethodGet, "/api/books/category/History").Do(srv)
	helpers.AssertStatus(t, resp, http.StatusOK)
	if got := helpers.Titles(helpers.DecodeBooks(t, resp)); len(got) != 2 || got[0] != "Mid" || got[1] != "Old" {
		t.Errorf("expected [Mid Old], got %v", got)
	}

	resp = helpers.NewRequest(t, http.MethodGet, "/api/books/after/1960").Do(srv)
	helpers.AssertStatus(t, resp, http.StatusOK)
	if got := helpers.Titles(helpers.DecodeBooks(t, resp)); len(got) != 2 || got[0] != "New" || got[1] != "Mid" {
		t.Errorf("expected [New Mid], got %v", got)
	}

	resp = helpers.NewRequest(t, http.MethodGet, "/api/books/after/soon").Do(srv)
	helpers.AssertProblemDetails(t, resp, http.StatusBadRequest, model.ErrCodeInvalidInput)
}

func TestCatalog_RejectsBadInput(t *testing.T) {
	tdb := testdb.NewMemory(t)
	defer tdb.Close()
	srv := newServer(t, tdb)

	resp := helpers.NewRequest(t, http.MethodPost, "/api/books").
		WithBody(map[string]interface{}{
			"title":           "Dune",
			"author":          "Herbert",
			"category":        "SciFi",
			"publishedYear":   1965,
			"availableCopies": -1,
		}).
		Do(srv)
	helpers.AssertValidationError(t, resp, "availableCopies")

	resp = helpers.NewRequest(t, http.MethodPost, "/api/books").
		WithRawBody(`{"title":`).
		Do(srv)
	helpers.AssertProblemDetails(t, resp, http.StatusBadRequest, model.ErrCodeInvalidInput)

	resp = helpers.NewRequest(t, http.MethodGet, "/api/books/not-an-id").Do(srv)
	msg := helpers.AssertProblemDetails(t, resp, http.StatusBadRequest, model.ErrCodeInvalidInput)
	if msg != "Invalid book id" {
		t.Errorf("unexpected message %q", msg)
	}

	resp = helpers.NewRequest(t, http.MethodGet, "/api/books/"+tdb.MissingID).Do(srv)
	helpers.AssertProblemDetails(t, resp, http.StatusNotFound, model.ErrCodeNotFound)

	resp = helpers.NewRequest(t, http.MethodGet, "/api/nothing-here").Do(srv)
	helpers.AssertProblemDetails(t, resp, http.StatusNotFound, model.ErrCodeNotFound)
}

func TestCatalog_HealthAndReady(t *testing.T) {
	tdb := testdb.NewMemory(t)
	defer tdb.Close()
	srv := newServer(t, tdb)

	resp := helpers.NewRequest(t, http.MethodGet, "/api/health").Do(srv)
	helpers.AssertStatus(t, resp, http.StatusOK)
	helpers.AssertJSONContains(t, resp, map[string]interface{}{"ok": true, "message": "API is running"})

	resp = helpers.NewRequest(t, http.MethodGet, "/api/ready").
		WithHeader("X-Request-ID", "req-1").
		Do(srv)
	helpers.AssertStatus(t, resp, http.StatusOK)
	if got := resp.Header().Get("X-Request-ID"); got != "req-1" {
		t.Errorf("expected caller request id to be echoed, got %q", got)
	}
}
