package kernel_test

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/beautydb/backoffice/app/imagestore"
	"github.com/beautydb/backoffice/app/models"
	"github.com/beautydb/backoffice/app/routes"
	"github.com/beautydb/backoffice/internal/kernel"
	"github.com/beautydb/backoffice/pkg/auth"
	"github.com/beautydb/backoffice/pkg/database"
	"github.com/beautydb/backoffice/pkg/event"
	"github.com/beautydb/backoffice/pkg/storage"
	"github.com/beautydb/backoffice/pkg/testkit"
)

const baseURL = "http://img.test"

func newHandler(t *testing.T) (http.Handler, *imagestore.Store) {
	t.Helper()

	db, err := database.Open("sqlite", "file::memory:", 1)
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(models.All()...))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	images := imagestore.New(storage.NewLocalDisk(t.TempDir(), baseURL), "uploads", 2)
	t.Cleanup(images.Close)

	k := kernel.NewHTTPKernel(routes.Deps{
		DB:       database.NewGateway(db),
		Images:   images,
		Events:   event.New(),
		CacheTTL: time.Minute,
	})
	return k.Handler(), images
}

func adminToken(t *testing.T) string {
	t.Helper()
	tok, err := auth.GenerateToken(1, models.RoleAdmin)
	require.NoError(t, err)
	return tok
}

func TestAPIScenarios(t *testing.T) {
	h, _ := newHandler(t)
	testkit.RunDir(t, h, "testdata", testkit.Vars{"admin_token": adminToken(t)})
}

func TestProductMultipartUploadIsServed(t *testing.T) {
	h, _ := newHandler(t)
	token := adminToken(t)

	send := func(method, url, contentType string, body *bytes.Buffer) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, url, body)
		req.Header.Set("Authorization", "Bearer "+token)
		if contentType != "" {
			req.Header.Set("Content-Type", contentType)
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec
	}

	rec := send(http.MethodPost, "/api/admin/categories", "application/json",
		bytes.NewBufferString(`{"category_name":"Skin care"}`))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	rec = send(http.MethodPost, "/api/admin/properties", "application/json",
		bytes.NewBufferString(`{"name":"Vegan"}`))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	require.NoError(t, mw.WriteField("payload", `{
		"product_name": "Rose Serum",
		"category_id": 1,
		"variants": [{"size": "30ml", "price": 12.5, "stock_quantity": 3}],
		"properties": [{"property_id": 1}]
	}`))
	fw, err := mw.CreateFormFile("primary_image", "rose.png")
	require.NoError(t, err)
	_, err = fw.Write([]byte("\x89PNG fake"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	rec = send(http.MethodPost, "/api/admin/products", mw.FormDataContentType(), &body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created struct {
		Data models.ProductDetail `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	require.NotNil(t, created.Data.ImageURLPrimary)
	assert.Nil(t, created.Data.ImageURLSecondary)

	path := strings.TrimPrefix(*created.Data.ImageURLPrimary, baseURL)
	assert.True(t, strings.HasPrefix(path, "/uploads/"), path)

	get := httptest.NewRequest(http.MethodGet, path, nil)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, get)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "\x89PNG fake", rec.Body.String())
}

func TestRejectsNonImageUpload(t *testing.T) {
	h, images := newHandler(t)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	require.NoError(t, mw.WriteField("title", "Spring workshop"))
	require.NoError(t, mw.WriteField("price", "40"))
	fw, err := mw.CreateFormFile("image", "notes.txt")
	require.NoError(t, err)
	_, _ = fw.Write([]byte("hello"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/admin/courses", &body)
	req.Header.Set("Authorization", "Bearer "+adminToken(t))
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Only image files can be uploaded")

	files, err := images.Disk().Files(req.Context(), "uploads")
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestMetricsEndpoint(t *testing.T) {
	h, _ := newHandler(t)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "backoffice_http_requests_in_flight")
}
