package handler

import (
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/forgo/shelf/internal/model"
)

// apiPrefix is the path every API route is mounted under
const apiPrefix = "/api"

// StaticHandler serves the browser bundle from a directory. Paths that do not
// name a file get index.html so client-side routes survive a reload.
type StaticHandler struct {
	dir     string
	fileSrv http.Handler
}

// NewStaticHandler creates a static handler rooted at dir
func NewStaticHandler(dir string) *StaticHandler {
	return &StaticHandler{
		dir:     dir,
		fileSrv: http.FileServer(http.Dir(dir)),
	}
}

// ServeHTTP implements http.Handler. Unmatched /api paths get a JSON 404
// instead of the fallback document.
func (h *StaticHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path == apiPrefix || strings.HasPrefix(r.URL.Path, apiPrefix+"/") {
		NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		WriteError(w, model.NewMethodNotAllowedError("GET"))
		return
	}

	name := filepath.Join(h.dir, filepath.FromSlash(path.Clean("/"+r.URL.Path)))
	if info, err := os.Stat(name); err == nil && !info.IsDir() {
		h.fileSrv.ServeHTTP(w, r)
		return
	}

	index := filepath.Join(h.dir, "index.html")
	if _, err := os.Stat(index); err != nil {
		NotFound(w, r)
		return
	}
	http.ServeFile(w, r, index)
}

// NotFound writes a JSON 404 for routes that do not exist
func NotFound(w http.ResponseWriter, r *http.Request) {
	WriteError(w, model.NewNotFoundError("Route "+r.URL.Path))
}
