package services

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/rutkovskaya/habita/internal/db"
	"github.com/rutkovskaya/habita/internal/models"
	"gorm.io/gorm"
)

func openTestDatabase(t *testing.T) *gorm.DB {
	t.Helper()

	database, err := db.OpenSQLite(filepath.Join(t.TempDir(), "habita-test.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := database.DB()
	if err != nil {
		t.Fatalf("open sql db: %v", err)
	}
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})
	return database
}

func createTestUser(t *testing.T, database *gorm.DB, email string) models.User {
	t.Helper()

	user := models.User{
		Email:        email,
		Username:     "tester",
		PasswordHash: "not-a-real-hash",
		CreatedAt:    time.Now(),
	}
	if err := database.Create(&user).Error; err != nil {
		t.Fatalf("create test user: %v", err)
	}
	return user
}

func newTestHabitService(t *testing.T) (*HabitService, *gorm.DB) {
	t.Helper()

	database := openTestDatabase(t)
	return NewHabitService(db.NewHabitRepository(database), time.UTC), database
}

func validHabitInput() HabitInput {
	return HabitInput{
		Place:       "park",
		TimeOfDay:   "07:30",
		Action:      "morning run",
		Periodicity: 1,
		Reward:      "smoothie",
		Duration:    60,
	}
}

func pleasantHabitInput() HabitInput {
	return HabitInput{
		Place:       "home",
		TimeOfDay:   "21:00",
		Action:      "read comics",
		IsPleasant:  true,
		Periodicity: 1,
		Duration:    30,
	}
}
