package crud

import (
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"recipebook/domain"
)

// testDB opens a throwaway sqlite database for one test and migrates
// the full schema into it.
func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}
	// sqlite allows only one writer at a time; a single pooled
	// connection queues concurrent transactions instead of failing
	// them with a busy error.
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("unwrapping test database: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	err = db.AutoMigrate(
		domain.User{},
		domain.OAuth{},
		domain.Post{},
		domain.Comment{},
		domain.Follow{},
		domain.Like{},
	)
	if err != nil {
		t.Fatalf("migrating test database: %v", err)
	}
	return db
}

// seedUser inserts a user directly, bypassing the validation chain so
// tests don't pay for bcrypt.
func seedUser(t *testing.T, db *gorm.DB, username string) *domain.User {
	t.Helper()
	user := domain.User{
		Username:     username,
		Name:         username,
		Email:        fmt.Sprintf("%s@example.com", username),
		PasswordHash: "x",
		RememberHash: "hash-" + username,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("seeding user %s: %v", username, err)
	}
	return &user
}

// seedPost inserts a post directly with the given counters and age.
func seedPost(t *testing.T, db *gorm.DB, userID int, title string, createdAt time.Time) *domain.Post {
	t.Helper()
	post := domain.Post{
		UserID:      userID,
		Title:       title,
		Description: "a test recipe",
		Steps:       []string{"chop", "cook"},
		Ingredients: []domain.Ingredient{{Name: "salt", Quantity: "1 tsp"}},
		CreatedAt:   createdAt,
	}
	if err := db.Create(&post).Error; err != nil {
		t.Fatalf("seeding post %s: %v", title, err)
	}
	return &post
}

// countEdges counts the like edges currently attached to a target.
func countEdges(t *testing.T, db *gorm.DB, ownerType string, ownerID int) int {
	t.Helper()
	var count int64
	err := db.Model(&domain.Like{}).
		Where("owner_type = ? AND owner_id = ?", ownerType, ownerID).
		Count(&count).Error
	if err != nil {
		t.Fatalf("counting like edges: %v", err)
	}
	return int(count)
}

// postCounter reads a post's cached like counter back out of the database.
func postCounter(t *testing.T, db *gorm.DB, postID int) int {
	t.Helper()
	var post domain.Post
	if err := db.First(&post, "id = ?", postID).Error; err != nil {
		t.Fatalf("reloading post: %v", err)
	}
	return post.TotalLike
}
