package services_test

import (
	"context"
	"strings"
	"testing"

	"github.com/beautydb/backoffice/app/imagestore"
	"github.com/alicebob/miniredis/v2"
	"github.com/beautydb/backoffice/app/models"
	"github.com/beautydb/backoffice/pkg/cache"
	"github.com/beautydb/backoffice/pkg/database"
	"github.com/beautydb/backoffice/pkg/event"
	"github.com/beautydb/backoffice/pkg/storage"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type env struct {
	db     *gorm.DB
	gw     database.Gateway
	images *imagestore.Store
	bus    *event.Bus
}

func newEnv(t *testing.T) *env {
	t.Helper()

	db, err := database.Open("sqlite", "file::memory:", 1)
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(models.All()...))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	images := imagestore.New(storage.NewLocalDisk(t.TempDir(), "http://img.test"), "uploads", 2)
	t.Cleanup(images.Close)

	return &env{db: db, gw: database.NewGateway(db), images: images, bus: event.New()}
}

// withRedis points the cache at an in-memory Redis for the test.
func withRedis(t *testing.T) {
	t.Helper()
	mr := miniredis.RunT(t)
	cache.RDB = redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = cache.Close() })
}

func (e *env) upload(t *testing.T, slot imagestore.Slot, name string) imagestore.File {
	t.Helper()
	f, err := e.images.Save(context.Background(), slot, name, strings.NewReader("img:"+name))
	require.NoError(t, err)
	return f
}

func (e *env) exists(t *testing.T, f imagestore.File) bool {
	t.Helper()
	ok, err := e.images.Disk().Exists(context.Background(), f.Key)
	require.NoError(t, err)
	return ok
}

func (e *env) count(t *testing.T, model any) int64 {
	t.Helper()
	var n int64
	require.NoError(t, e.db.Model(model).Count(&n).Error)
	return n
}

// seedCatalog inserts category 1, brand 1 and properties 1 and 2.
func (e *env) seedCatalog(t *testing.T) {
	t.Helper()
	require.NoError(t, e.db.Create(&models.Category{CategoryID: 1, CategoryName: "Skin care"}).Error)
	require.NoError(t, e.db.Create(&models.Brand{BrandID: 1, BrandName: "Acme"}).Error)
	require.NoError(t, e.db.Create(&[]models.Property{{PropertyID: 1, Name: "Vegan"}, {PropertyID: 2, Name: "Organic"}}).Error)
}

func price(v float64) *float64 { return &v }
