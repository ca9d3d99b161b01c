package store

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"github.com/ymurata/peoplewiki/internal/models"
	"github.com/ymurata/peoplewiki/internal/pkg/logger"
)

// testDB opens a fresh in-memory sqlite database. Each call gets its own
// named shared-cache DSN so pooled connections see the same data while
// tests stay isolated from each other.
func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormLogger.Default.LogMode(gormLogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("get sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := db.AutoMigrate(&models.Person{}, &models.Event{}, &models.FamilyMember{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func mustCreatePerson(t *testing.T, s *PersonStore, in PersonInput) *models.Person {
	t.Helper()
	p, err := s.Create(context.Background(), in)
	if err != nil {
		t.Fatalf("create person %q: %v", in.Name, err)
	}
	return p
}

// backdate pushes a person's updated_at into the past so a later
// mutation observably advances it.
func backdate(t *testing.T, db *gorm.DB, personID uuid.UUID, d time.Duration) {
	t.Helper()
	err := db.Model(&models.Person{}).
		Where("id = ?", personID).
		Update("updated_at", time.Now().Add(-d)).Error
	if err != nil {
		t.Fatalf("backdate person: %v", err)
	}
}

func personUpdatedAt(t *testing.T, db *gorm.DB, personID uuid.UUID) time.Time {
	t.Helper()
	var p models.Person
	if err := db.First(&p, "id = ?", personID).Error; err != nil {
		t.Fatalf("reload person: %v", err)
	}
	return p.UpdatedAt
}

func testLogger() *logger.Logger {
	return logger.NewNop()
}
