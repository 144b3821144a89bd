package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/avezhov/pulse/models"
)

// newTestDB opens a private in-memory database migrated with the full
// schema. A single connection keeps sqlite's :memory: database alive and
// shared across the test.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Group{},
		&models.Post{},
		&models.Comment{},
		&models.Follow{},
		&models.UploadedImage{},
	))
	return db
}

func seedUser(t *testing.T, db *gorm.DB, username string) models.User {
	t.Helper()
	user := models.User{Username: username}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func seedGroup(t *testing.T, db *gorm.DB, title, slug string) models.Group {
	t.Helper()
	group := models.Group{Title: title, Slug: slug, Description: title + " description"}
	require.NoError(t, db.Create(&group).Error)
	return group
}

func seedPost(t *testing.T, db *gorm.DB, author models.User, text string, pubDate time.Time) models.Post {
	t.Helper()
	post := models.Post{AuthorID: author.ID, Text: text, PubDate: pubDate}
	require.NoError(t, db.Create(&post).Error)
	return post
}

func seedGroupPost(t *testing.T, db *gorm.DB, author models.User, group models.Group, text string, pubDate time.Time) models.Post {
	t.Helper()
	post := models.Post{AuthorID: author.ID, GroupID: &group.ID, Text: text, PubDate: pubDate}
	require.NoError(t, db.Create(&post).Error)
	return post
}
