package models

import "time"

const (
	// MinDurationSeconds and MaxDurationSeconds bound how long a habit may take.
	MinDurationSeconds = 1
	MaxDurationSeconds = 120

	// MinPeriodicityDays and MaxPeriodicityDays bound the repetition interval:
	// a habit repeats at least once every 7 days.
	MinPeriodicityDays = 1
	MaxPeriodicityDays = 7

	DefaultPeriodicityDays = 1
)

// TimeOfDayLayout is the wall-clock format habits are scheduled with.
// There is no date component; the reminder sweep compares these values
// lexicographically, which is order-preserving for zero-padded HH:MM.
const TimeOfDayLayout = "15:04"

// Habit is either useful (rewarded by a reward text or a linked pleasant
// habit) or pleasant (a self-reward activity with neither).
type Habit struct {
	ID             uint   `gorm:"primaryKey" json:"id"`
	UserID         uint   `gorm:"not null;index:idx_habits_owner_created" json:"-"`
	Place          string `gorm:"not null" json:"place"`
	TimeOfDay      string `gorm:"column:time;not null" json:"time"`
	Action         string `gorm:"not null" json:"action"`
	IsPleasant     bool   `gorm:"not null;default:false" json:"is_pleasant"`
	RelatedHabitID *uint  `gorm:"index" json:"related_habit"`
	Periodicity    int    `gorm:"not null;default:1" json:"periodicity"`
	Reward         string `gorm:"not null;default:''" json:"reward"`
	Duration       int    `gorm:"not null" json:"duration"`
	IsPublic       bool   `gorm:"not null;default:false;index:idx_habits_public_created" json:"is_public"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	User         *User  `gorm:"foreignKey:UserID" json:"-"`
	RelatedHabit *Habit `gorm:"foreignKey:RelatedHabitID" json:"-"`
}

// HasReward reports whether the habit declares a reward text. Empty and
// whitespace-only values count as absent.
func (habit *Habit) HasReward() bool {
	return trimmedNonEmpty(habit.Reward)
}

func trimmedNonEmpty(value string) bool {
	for _, r := range value {
		if r != ' ' && r != '\t' && r != '\n' && r != '\r' {
			return true
		}
	}
	return false
}
