package testutil

import (
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/unscripted/unscripted-server/internal/model"
)

// SetupTestDB 创建测试数据库（SQLite 内存模式）
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("Failed to connect test database: %v", err)
	}

	// 自动迁移所有模型
	err = db.AutoMigrate(
		&model.User{},
		&model.Show{},
		&model.Season{},
		&model.Episode{},
		&model.Review{},
		&model.Discussion{},
		&model.Prediction{},
		&model.Position{},
		&model.Comment{},
		&model.CommentVote{},
		&model.ActivityRecord{},
		&model.PrivacySetting{},
		&model.Poll{},
		&model.PollOption{},
		&model.PollVote{},
		&model.Follow{},
		&model.WatchlistItem{},
		&model.PointLog{},
	)
	if err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	return db
}

// CleanupTestDB 清理测试数据库
func CleanupTestDB(t *testing.T, db *gorm.DB) {
	t.Helper()

	sqlDB, err := db.DB()
	if err != nil {
		t.Logf("Warning: Failed to get underlying DB: %v", err)
		return
	}

	if err := sqlDB.Close(); err != nil {
		t.Logf("Warning: Failed to close test database: %v", err)
	}
}

// TruncateTables 清空所有表数据
func TruncateTables(t *testing.T, db *gorm.DB) {
	t.Helper()

	tables := []string{
		"point_logs",
		"watchlist_items",
		"follows",
		"poll_votes",
		"poll_options",
		"polls",
		"privacy_settings",
		"activity_records",
		"comment_votes",
		"comments",
		"positions",
		"predictions",
		"discussions",
		"reviews",
		"episodes",
		"seasons",
		"shows",
		"users",
	}
	for _, table := range tables {
		if err := db.Exec("DELETE FROM " + table).Error; err != nil {
			t.Logf("Warning: Failed to truncate %s: %v", table, err)
		}
	}
}
