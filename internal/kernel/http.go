// Package kernel assembles the HTTP handler: global middleware, the
// metrics endpoint, uploaded files, the API and the single-page admin app.
package kernel

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/beautydb/backoffice/app/routes"
	"github.com/beautydb/backoffice/config"
	"github.com/beautydb/backoffice/pkg/metrics"
	"github.com/beautydb/backoffice/pkg/middleware"
	"github.com/beautydb/backoffice/pkg/reqid"
	"github.com/beautydb/backoffice/pkg/response"
	"github.com/beautydb/backoffice/pkg/router"
	"github.com/beautydb/backoffice/pkg/storage"
)

// HTTPKernel owns the router the server listens with.
type HTTPKernel struct {
	router *router.Router
}

// NewHTTPKernel wires the middleware stack and every route.
//
// Middleware order, outermost first:
//  1. metrics   total latency per route
//  2. Recovery  catches panics before they kill the goroutine
//  3. reqid     request ID before anything logs
//  4. Logger
//  5. CORS
//  6. RateLimit
func NewHTTPKernel(deps routes.Deps) *HTTPKernel {
	r := router.New()

	r.Use(metrics.Middleware())
	r.Use(middleware.Recovery)
	r.Use(reqid.Middleware())
	r.Use(middleware.Logger)
	r.Use(middleware.CORS(middleware.DefaultCORSOptions(config.Get("CORS_ORIGINS", "*"))))
	r.Use(middleware.RateLimit(config.RateLimit(), time.Minute))

	r.Get("/metrics", "metrics", metrics.Handler())

	if deps.Images != nil {
		if local, ok := deps.Images.Disk().(*storage.LocalDisk); ok {
			dir := deps.Images.Dir()
			r.Static("/"+dir, http.FileServer(http.Dir(filepath.Join(local.Root(), dir))))
		}
	}

	routes.RegisterAPI(r, deps)

	if dir := config.SPADir(); dir != "" {
		r.NotFound(spa(dir))
	}

	return &HTTPKernel{router: r}
}

// Handler returns the http.Handler to serve.
func (k *HTTPKernel) Handler() http.Handler {
	return k.router.Handler()
}

// Router exposes the route table, used by route:list.
func (k *HTTPKernel) Router() *router.Router {
	return k.router
}

// spa serves files from dir and falls back to index.html so client side
// routes survive a reload. API paths keep their JSON 404.
func spa(dir string) http.HandlerFunc {
	files := http.FileServer(http.Dir(dir))
	index := filepath.Join(dir, "index.html")
	return func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/api/") {
			response.Write(w, http.StatusNotFound, response.Envelope{Status: http.StatusNotFound, Message: "Not found"})
			return
		}
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			http.NotFound(w, r)
			return
		}
		clean := filepath.Clean("/" + r.URL.Path)
		if info, err := os.Stat(filepath.Join(dir, clean)); err == nil && !info.IsDir() {
			files.ServeHTTP(w, r)
			return
		}
		http.ServeFile(w, r, index)
	}
}
