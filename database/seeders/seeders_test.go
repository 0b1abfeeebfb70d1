package seeders_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/beautydb/backoffice/app/models"
	"github.com/beautydb/backoffice/database/seeders"
	"github.com/beautydb/backoffice/pkg/auth"
	"github.com/beautydb/backoffice/pkg/database"
)

func TestRunAllIsIdempotent(t *testing.T) {
	db, err := database.Open("sqlite", "file::memory:", 1)
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(models.All()...))

	require.NoError(t, seeders.RunAll(db, nil))
	require.NoError(t, seeders.RunAll(db, nil))

	var admins []models.User
	require.NoError(t, db.Where("role = ?", models.RoleAdmin).Find(&admins).Error)
	require.Len(t, admins, 1)
	assert.Equal(t, "admin@beautydb.local", admins[0].Email)
	assert.True(t, auth.CheckPassword(admins[0].Password, "change-me"))

	var categories, properties int64
	db.Model(&models.Category{}).Count(&categories)
	db.Model(&models.Property{}).Count(&properties)
	assert.EqualValues(t, 4, categories)
	assert.EqualValues(t, 4, properties)
}
