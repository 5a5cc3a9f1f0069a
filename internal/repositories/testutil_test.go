package repositories

import (
	"testing"

	"contactbook/internal/models"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens a per-test in-memory sqlite database with the schema
// migrated and roles seeded.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := "file:" + t.Name() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(&models.Role{}, &models.User{}, &models.Contact{}))
	require.NoError(t, NewGORMRoleRepository(db).Seed())
	return db
}

func createTestUser(t *testing.T, db *gorm.DB, username, email string) *models.User {
	t.Helper()

	repo := NewGORMUserRepository(db, NewGORMRoleRepository(db))
	user, err := repo.Create(&models.UserCreate{
		Username: username,
		Email:    email,
		Password: "password123",
	})
	require.NoError(t, err)
	return user
}
