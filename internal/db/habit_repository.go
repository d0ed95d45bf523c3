package db

import (
	"context"

	"github.com/rutkovskaya/habita/internal/models"
	"gorm.io/gorm"
)

type HabitRepository struct {
	database *gorm.DB
}

func NewHabitRepository(database *gorm.DB) *HabitRepository {
	return &HabitRepository{database: database}
}

func (repo *HabitRepository) FindByID(habitID uint) (models.Habit, error) {
	var habit models.Habit
	if err := repo.database.First(&habit, habitID).Error; err != nil {
		return models.Habit{}, err
	}
	return habit, nil
}

// FindOwnedByID scopes the lookup to the owner so a foreign habit is
// indistinguishable from a missing one.
func (repo *HabitRepository) FindOwnedByID(ownerID uint, habitID uint) (models.Habit, error) {
	var habit models.Habit
	if err := repo.database.
		Where("id = ? AND user_id = ?", habitID, ownerID).
		First(&habit).Error; err != nil {
		return models.Habit{}, err
	}
	return habit, nil
}

// FindForReminder loads a habit with its owner and optional related habit
// resolved, as the reminder formatter needs both.
func (repo *HabitRepository) FindForReminder(ctx context.Context, habitID uint) (models.Habit, error) {
	var habit models.Habit
	if err := repo.database.WithContext(ctx).
		Preload("User").
		Preload("RelatedHabit").
		First(&habit, habitID).Error; err != nil {
		return models.Habit{}, err
	}
	return habit, nil
}

func (repo *HabitRepository) Create(habit *models.Habit) error {
	return repo.database.Create(habit).Error
}

func (repo *HabitRepository) Save(habit *models.Habit) error {
	return repo.database.Save(habit).Error
}

// DeleteOwned removes the habit and clears inbound related-habit references
// in the same transaction. Returns gorm.ErrRecordNotFound when the habit is
// absent or owned by someone else.
func (repo *HabitRepository) DeleteOwned(ownerID uint, habitID uint) error {
	return repo.database.Transaction(func(tx *gorm.DB) error {
		var habit models.Habit
		if err := tx.Where("id = ? AND user_id = ?", habitID, ownerID).First(&habit).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Habit{}).
			Where("related_habit_id = ?", habit.ID).
			Update("related_habit_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Habit{}, habit.ID).Error
	})
}

func (repo *HabitRepository) CountOwned(ownerID uint) (int64, error) {
	var count int64
	if err := repo.database.Model(&models.Habit{}).
		Where("user_id = ?", ownerID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (repo *HabitRepository) ListOwned(ownerID uint, offset int, limit int) ([]models.Habit, error) {
	habits := make([]models.Habit, 0)
	if err := repo.database.
		Where("user_id = ?", ownerID).
		Order("created_at DESC, id DESC").
		Offset(offset).
		Limit(limit).
		Find(&habits).Error; err != nil {
		return nil, err
	}
	return habits, nil
}

func (repo *HabitRepository) CountPublic() (int64, error) {
	var count int64
	if err := repo.database.Model(&models.Habit{}).
		Where("is_public = ?", true).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (repo *HabitRepository) ListPublic(offset int, limit int) ([]models.Habit, error) {
	habits := make([]models.Habit, 0)
	if err := repo.database.
		Preload("User").
		Where("is_public = ?", true).
		Order("created_at DESC, id DESC").
		Offset(offset).
		Limit(limit).
		Find(&habits).Error; err != nil {
		return nil, err
	}
	return habits, nil
}

// ListDueBetween selects habits scheduled inside the [start, end] wall-clock
// window whose owner has a notification target. A window crossing midnight
// (start > end) is matched as two half-open ranges.
func (repo *HabitRepository) ListDueBetween(ctx context.Context, start string, end string) ([]models.Habit, error) {
	query := repo.database.WithContext(ctx).
		Joins("JOIN users ON users.id = habits.user_id").
		Where("trim(users.telegram_chat_id) <> ''")

	if start <= end {
		query = query.Where("habits.time >= ? AND habits.time <= ?", start, end)
	} else {
		query = query.Where("habits.time >= ? OR habits.time <= ?", start, end)
	}

	habits := make([]models.Habit, 0)
	if err := query.
		Preload("User").
		Preload("RelatedHabit").
		Order("habits.time ASC, habits.id ASC").
		Find(&habits).Error; err != nil {
		return nil, err
	}
	return habits, nil
}
