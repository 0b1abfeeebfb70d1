package migration

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type widget struct {
	ID   uint
	Name string
}

type createWidgets struct{}

func (createWidgets) Up(db *gorm.DB) error   { return db.AutoMigrate(&widget{}) }
func (createWidgets) Down(db *gorm.DB) error { return db.Migrator().DropTable(&widget{}) }

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

func withRegistry(t *testing.T, entries ...entry) {
	t.Helper()
	saved := registry
	registry = entries
	t.Cleanup(func() { registry = saved })
}

func TestRunAndRollback(t *testing.T) {
	withRegistry(t, entry{name: "20260101000000_create_widgets", m: createWidgets{}})
	db := testDB(t)
	var out bytes.Buffer
	r := New(db, &out)

	n, err := r.Run()
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.True(t, db.Migrator().HasTable(&widget{}))

	n, err = r.Run()
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Contains(t, out.String(), "Nothing to migrate.")

	pending, err := r.Pending()
	require.NoError(t, err)
	assert.Empty(t, pending)

	n, err = r.Rollback()
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.False(t, db.Migrator().HasTable(&widget{}))

	n, err = r.Rollback()
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestStatusListsPending(t *testing.T) {
	withRegistry(t, entry{name: "20260101000000_create_widgets", m: createWidgets{}})
	var out bytes.Buffer
	require.NoError(t, New(testDB(t), &out).Status())
	assert.Contains(t, out.String(), "Pending")
}
