package router_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/beautydb/backoffice/pkg/router"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ok(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusNoContent) }

func TestGroupsNamesAndMethods(t *testing.T) {
	r := router.New()

	var hits []string
	tag := func(name string) router.Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
				hits = append(hits, name)
				next.ServeHTTP(w, req)
			})
		}
	}

	api := r.Group("/api/", tag("api"))
	admin := api.Group("admin", tag("admin"))
	admin.Put("/products/{id}", "products.update", ok)
	admin.Delete("/products/{id}", "products.destroy", ok)
	api.Get("/products", "products.index", ok)

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/api/admin/products/3", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, []string{"api", "admin"}, hits)

	url, err := r.URL("products.destroy", map[string]string{"id": "9"})
	require.NoError(t, err)
	assert.Equal(t, "/api/admin/products/9", url)

	_, err = r.URL("products.update", nil)
	assert.Error(t, err)

	routes := r.Routes()
	require.Len(t, routes, 3)
	assert.Equal(t, "/api/admin/products/{id}", routes[0].Path)
	assert.Equal(t, http.MethodDelete, routes[0].Method)
}

func TestStatic(t *testing.T) {
	r := router.New()
	r.Static("/uploads", http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		_, _ = w.Write([]byte(req.URL.Path))
	}))

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/uploads/a.jpg", nil))
	assert.Equal(t, "/a.jpg", rec.Body.String())
}
