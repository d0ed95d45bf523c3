package services

import (
	"errors"
	"strings"
	"time"

	"github.com/rutkovskaya/habita/internal/db"
	"github.com/rutkovskaya/habita/internal/models"
	"gorm.io/gorm"
)

// ErrHabitNotFound covers both a genuinely missing habit and one owned by
// another user, so existence never leaks across accounts.
var ErrHabitNotFound = errors.New("habit not found")

// Field-shape messages, reported before the rule engine runs.
const (
	ViolationPlaceRequired  = "place is required"
	ViolationActionRequired = "action is required"
	ViolationTimeFormat     = "time must be in HH:MM format"
)

// HabitInput is the full field set for a create.
type HabitInput struct {
	Place          string
	TimeOfDay      string
	Action         string
	IsPleasant     bool
	RelatedHabitID *uint
	Periodicity    int
	Reward         string
	Duration       int
	IsPublic       bool
}

// HabitPatch carries only the fields present in an update request; nil means
// "keep the stored value". ClearRelatedHabit distinguishes an explicit null
// from an absent field.
type HabitPatch struct {
	Place             *string
	TimeOfDay         *string
	Action            *string
	IsPleasant        *bool
	RelatedHabitID    *uint
	ClearRelatedHabit bool
	Periodicity       *int
	Reward            *string
	Duration          *int
	IsPublic          *bool
}

type HabitService struct {
	habits   *db.HabitRepository
	location *time.Location
}

func NewHabitService(habits *db.HabitRepository, location *time.Location) *HabitService {
	if location == nil {
		location = time.Local
	}
	return &HabitService{habits: habits, location: location}
}

// Create validates the draft and persists a habit owned by ownerID. Any rule
// violation aborts the whole write.
func (service *HabitService) Create(ownerID uint, input HabitInput) (models.Habit, error) {
	normalizedTime, err := normalizeTimeOfDay(input.TimeOfDay)
	if err != nil {
		return models.Habit{}, err
	}
	if fieldErr := validateRequiredFields(input.Place, input.Action); fieldErr != nil {
		return models.Habit{}, fieldErr
	}

	relatedHabit, err := service.resolveRelatedHabit(input.RelatedHabitID)
	if err != nil {
		return models.Habit{}, err
	}

	draft := HabitDraft{
		Place:        strings.TrimSpace(input.Place),
		TimeOfDay:    normalizedTime,
		Action:       strings.TrimSpace(input.Action),
		IsPleasant:   input.IsPleasant,
		Periodicity:  input.Periodicity,
		Reward:       strings.TrimSpace(input.Reward),
		Duration:     input.Duration,
		RelatedHabit: relatedHabit,
	}
	if err := ValidateHabitDraft(draft); err != nil {
		return models.Habit{}, err
	}

	habit := models.Habit{
		UserID:         ownerID,
		Place:          draft.Place,
		TimeOfDay:      draft.TimeOfDay,
		Action:         draft.Action,
		IsPleasant:     draft.IsPleasant,
		RelatedHabitID: input.RelatedHabitID,
		Periodicity:    draft.Periodicity,
		Reward:         draft.Reward,
		Duration:       draft.Duration,
		IsPublic:       input.IsPublic,
	}
	if err := service.habits.Create(&habit); err != nil {
		return models.Habit{}, err
	}
	return habit, nil
}

// Update applies the patch onto the stored habit and re-validates the merged
// state, not just the changed fields.
func (service *HabitService) Update(ownerID uint, habitID uint, patch HabitPatch) (models.Habit, error) {
	habit, err := service.habits.FindOwnedByID(ownerID, habitID)
	if err != nil {
		return models.Habit{}, mapNotFound(err)
	}

	if patch.Place != nil {
		habit.Place = strings.TrimSpace(*patch.Place)
	}
	if patch.TimeOfDay != nil {
		normalizedTime, err := normalizeTimeOfDay(*patch.TimeOfDay)
		if err != nil {
			return models.Habit{}, err
		}
		habit.TimeOfDay = normalizedTime
	}
	if patch.Action != nil {
		habit.Action = strings.TrimSpace(*patch.Action)
	}
	if patch.IsPleasant != nil {
		habit.IsPleasant = *patch.IsPleasant
	}
	if patch.ClearRelatedHabit {
		habit.RelatedHabitID = nil
	} else if patch.RelatedHabitID != nil {
		habit.RelatedHabitID = patch.RelatedHabitID
	}
	if patch.Periodicity != nil {
		habit.Periodicity = *patch.Periodicity
	}
	if patch.Reward != nil {
		habit.Reward = strings.TrimSpace(*patch.Reward)
	}
	if patch.Duration != nil {
		habit.Duration = *patch.Duration
	}
	if patch.IsPublic != nil {
		habit.IsPublic = *patch.IsPublic
	}

	if fieldErr := validateRequiredFields(habit.Place, habit.Action); fieldErr != nil {
		return models.Habit{}, fieldErr
	}

	relatedHabit, err := service.resolveRelatedHabit(habit.RelatedHabitID)
	if err != nil {
		return models.Habit{}, err
	}

	draft := HabitDraft{
		Place:        habit.Place,
		TimeOfDay:    habit.TimeOfDay,
		Action:       habit.Action,
		IsPleasant:   habit.IsPleasant,
		Periodicity:  habit.Periodicity,
		Reward:       habit.Reward,
		Duration:     habit.Duration,
		RelatedHabit: relatedHabit,
	}
	if err := ValidateHabitDraft(draft); err != nil {
		return models.Habit{}, err
	}

	habit.RelatedHabit = nil
	if err := service.habits.Save(&habit); err != nil {
		return models.Habit{}, err
	}
	return habit, nil
}

func (service *HabitService) Get(ownerID uint, habitID uint) (models.Habit, error) {
	habit, err := service.habits.FindOwnedByID(ownerID, habitID)
	if err != nil {
		return models.Habit{}, mapNotFound(err)
	}
	return habit, nil
}

func (service *HabitService) Delete(ownerID uint, habitID uint) error {
	if err := service.habits.DeleteOwned(ownerID, habitID); err != nil {
		return mapNotFound(err)
	}
	return nil
}

type HabitPage struct {
	Count    int64
	Page     int
	PageSize int
	Habits   []models.Habit
}

func (service *HabitService) ListOwned(ownerID uint, request PageRequest) (HabitPage, error) {
	count, err := service.habits.CountOwned(ownerID)
	if err != nil {
		return HabitPage{}, err
	}
	habits, err := service.habits.ListOwned(ownerID, request.Offset(), request.PageSize)
	if err != nil {
		return HabitPage{}, err
	}
	return HabitPage{Count: count, Page: request.Page, PageSize: request.PageSize, Habits: habits}, nil
}

func (service *HabitService) ListPublic(request PageRequest) (HabitPage, error) {
	count, err := service.habits.CountPublic()
	if err != nil {
		return HabitPage{}, err
	}
	habits, err := service.habits.ListPublic(request.Offset(), request.PageSize)
	if err != nil {
		return HabitPage{}, err
	}
	return HabitPage{Count: count, Page: request.Page, PageSize: request.PageSize, Habits: habits}, nil
}

// resolveRelatedHabit looks up the referenced habit so the rule engine can
// inspect its pleasant flag. A dangling reference is a validation error, not
// a server fault.
func (service *HabitService) resolveRelatedHabit(relatedHabitID *uint) (*models.Habit, error) {
	if relatedHabitID == nil {
		return nil, nil
	}
	related, err := service.habits.FindByID(*relatedHabitID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, newHabitValidationError(ViolationRelatedNotFound)
		}
		return nil, err
	}
	return &related, nil
}

func validateRequiredFields(place string, action string) error {
	violations := make([]string, 0, 2)
	if strings.TrimSpace(place) == "" {
		violations = append(violations, ViolationPlaceRequired)
	}
	if strings.TrimSpace(action) == "" {
		violations = append(violations, ViolationActionRequired)
	}
	if len(violations) > 0 {
		return &HabitValidationError{Violations: violations}
	}
	return nil
}

// normalizeTimeOfDay canonicalizes the scheduled wall-clock value to HH:MM.
func normalizeTimeOfDay(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	for _, layout := range []string{models.TimeOfDayLayout, "15:04:05"} {
		if parsed, err := time.Parse(layout, trimmed); err == nil {
			return parsed.Format(models.TimeOfDayLayout), nil
		}
	}
	return "", newHabitValidationError(ViolationTimeFormat)
}

func mapNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrHabitNotFound
	}
	return err
}
