package handler

import (
	"net/http"

	"github.com/gorilla/mux"
)

// RouterConfig holds the dependencies mounted by NewRouter
type RouterConfig struct {
	Books     BookService
	Store     Pinger
	StaticDir string
}

// NewRouter builds the application router: the API under /api and the
// static bundle for everything else. Routes match on the escaped path so an
// encoded slash stays inside a single route variable.
func NewRouter(cfg RouterConfig) *mux.Router {
	router := mux.NewRouter().UseEncodedPath()

	api := router.PathPrefix(apiPrefix).Subrouter()
	api.HandleFunc("/health", Health).Methods(http.MethodGet)
	api.HandleFunc("/ready", Ready(cfg.Store)).Methods(http.MethodGet)
	NewBookHandler(cfg.Books).RegisterRoutes(api)

	static := NewStaticHandler(cfg.StaticDir)
	router.NotFoundHandler = static
	api.NotFoundHandler = http.HandlerFunc(NotFound)

	return router
}
