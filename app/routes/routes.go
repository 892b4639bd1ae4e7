// Package routes mounts the catalog handlers under /catalog.
package routes

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/lotustea/tea-catalog/app/catalog"
	"github.com/lotustea/tea-catalog/app/categories"
	"github.com/lotustea/tea-catalog/app/observability"
	"github.com/lotustea/tea-catalog/logging"
)

type Config struct {
	Teas       *catalog.CatalogHandler
	Categories *categories.CategoryHandler

	// Images serves stored pictures under /images/. Nil when pictures are
	// served from elsewhere.
	Images  http.Handler
	Metrics *observability.Metrics
	Logger  *zap.Logger
}

// New returns the application handler with request logging and metrics
// wrapped around the mux.
func New(cfg Config) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/catalog/", http.StatusFound)
	})

	teas := cfg.Teas
	mux.HandleFunc("GET /catalog/{$}", teas.HandleIndex)
	mux.HandleFunc("GET /catalog/teas", teas.HandleList)
	mux.HandleFunc("GET /catalog/tea/create", teas.HandleCreateForm)
	mux.HandleFunc("POST /catalog/tea/create", teas.HandleCreate)
	mux.HandleFunc("GET /catalog/tea/{id}", teas.HandleDetail)
	mux.HandleFunc("GET /catalog/tea/{id}/delete", teas.HandleDeleteForm)
	mux.HandleFunc("POST /catalog/tea/{id}/delete", teas.HandleDelete)
	mux.HandleFunc("GET /catalog/tea/{id}/update", teas.HandleUpdateForm)
	mux.HandleFunc("POST /catalog/tea/{id}/update", teas.HandleUpdate)

	cats := cfg.Categories
	mux.HandleFunc("GET /catalog/categories", cats.HandleList)
	mux.HandleFunc("GET /catalog/category/create", cats.HandleCreateForm)
	mux.HandleFunc("POST /catalog/category/create", cats.HandleCreate)
	mux.HandleFunc("GET /catalog/category/{id}", cats.HandleDetail)
	mux.HandleFunc("GET /catalog/category/{id}/delete", cats.HandleDeleteForm)
	mux.HandleFunc("POST /catalog/category/{id}/delete", cats.HandleDelete)
	mux.HandleFunc("GET /catalog/category/{id}/update", cats.HandleUpdateForm)
	mux.HandleFunc("POST /catalog/category/{id}/update", cats.HandleUpdate)

	if cfg.Images != nil {
		mux.Handle("GET /images/", cfg.Images)
	}

	var handler http.Handler = mux
	if cfg.Metrics != nil {
		mux.Handle("GET /metrics", cfg.Metrics.Handler())
		handler = cfg.Metrics.Middleware(handler)
	}
	if cfg.Logger != nil {
		handler = logging.Middleware(cfg.Logger)(handler)
	}
	return handler
}

// Images serves files below root, such as /images/uploads/<name>. Directory
// listings are refused.
func Images(root string) http.Handler {
	files := http.FileServer(http.Dir(root))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "" || r.URL.Path[len(r.URL.Path)-1] == '/' {
			http.NotFound(w, r)
			return
		}
		files.ServeHTTP(w, r)
	})
}
