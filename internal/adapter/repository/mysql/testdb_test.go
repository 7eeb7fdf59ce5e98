package mysql

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"approval-backend/internal/domain/approval"
	infradb "approval-backend/internal/infrastructure/db"
)

// activityRow is a stand-in for an attached entity table: its own columns
// plus the embedded approval state.
type activityRow struct {
	ID                  uint64 `gorm:"primaryKey;autoIncrement;column:id"`
	Title               string `gorm:"column:title;size:200"`
	Category            string `gorm:"column:category;size:50"`
	WordCount           int64  `gorm:"column:word_count"`
	approval.Approvable `gorm:"embedded"`
}

func (activityRow) TableName() string { return "activities" }

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("db handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if err := infradb.MigrateApprovalTables(db); err != nil {
		t.Fatalf("migrate approval tables: %v", err)
	}
	if err := db.AutoMigrate(&activityRow{}); err != nil {
		t.Fatalf("migrate activities: %v", err)
	}
	return db
}

func seedActivity(t *testing.T, db *gorm.DB, row *activityRow) uint64 {
	t.Helper()
	if err := db.Create(row).Error; err != nil {
		t.Fatalf("seed activity: %v", err)
	}
	return row.ID
}

func strptr(s string) *string { return &s }

func timeptr(tm time.Time) *time.Time { return &tm }
