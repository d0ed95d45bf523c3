package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"time"

	"github.com/rutkovskaya/habita/internal/models"
	"github.com/rutkovskaya/habita/internal/services"
)

// habitPayload covers both create and update bodies. Pointers distinguish an
// absent field from a zero value; related_habit is kept raw so an explicit
// JSON null (clear the link) is distinguishable from the field being absent.
type habitPayload struct {
	Place        *string         `json:"place"`
	TimeOfDay    *string         `json:"time"`
	Action       *string         `json:"action"`
	IsPleasant   *bool           `json:"is_pleasant"`
	RelatedHabit json.RawMessage `json:"related_habit"`
	Periodicity  *int            `json:"periodicity"`
	Reward       *string         `json:"reward"`
	Duration     *int            `json:"duration"`
	IsPublic     *bool           `json:"is_public"`
}

var errInvalidRelatedHabit = errors.New("related_habit must be a habit id or null")

func (payload habitPayload) relatedHabitRef() (id *uint, clear bool, err error) {
	if len(payload.RelatedHabit) == 0 {
		return nil, false, nil
	}
	if bytes.Equal(bytes.TrimSpace(payload.RelatedHabit), []byte("null")) {
		return nil, true, nil
	}
	var parsed uint
	if err := json.Unmarshal(payload.RelatedHabit, &parsed); err != nil || parsed == 0 {
		return nil, false, errInvalidRelatedHabit
	}
	return &parsed, false, nil
}

// missingCreateField names the first required field a create body lacks.
func (payload habitPayload) missingCreateField() string {
	switch {
	case payload.Place == nil:
		return "place"
	case payload.TimeOfDay == nil:
		return "time"
	case payload.Action == nil:
		return "action"
	case payload.Duration == nil:
		return "duration"
	default:
		return ""
	}
}

type habitResponse struct {
	ID           uint      `json:"id"`
	Place        string    `json:"place"`
	Time         string    `json:"time"`
	Action       string    `json:"action"`
	IsPleasant   bool      `json:"is_pleasant"`
	RelatedHabit *uint     `json:"related_habit"`
	Periodicity  int       `json:"periodicity"`
	Reward       string    `json:"reward"`
	Duration     int       `json:"duration"`
	IsPublic     bool      `json:"is_public"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func newHabitResponse(habit models.Habit) habitResponse {
	return habitResponse{
		ID:           habit.ID,
		Place:        habit.Place,
		Time:         habit.TimeOfDay,
		Action:       habit.Action,
		IsPleasant:   habit.IsPleasant,
		RelatedHabit: habit.RelatedHabitID,
		Periodicity:  habit.Periodicity,
		Reward:       habit.Reward,
		Duration:     habit.Duration,
		IsPublic:     habit.IsPublic,
		CreatedAt:    habit.CreatedAt,
		UpdatedAt:    habit.UpdatedAt,
	}
}

// publicHabitResponse is the whitelist for the shared listing: never the
// reward or the related habit link.
type publicHabitResponse struct {
	ID         uint      `json:"id"`
	OwnerEmail string    `json:"owner_email"`
	Place      string    `json:"place"`
	Time       string    `json:"time"`
	Action     string    `json:"action"`
	IsPleasant bool      `json:"is_pleasant"`
	Periodicity int      `json:"periodicity"`
	Duration   int       `json:"duration"`
	CreatedAt  time.Time `json:"created_at"`
}

func newPublicHabitResponse(habit models.Habit) publicHabitResponse {
	ownerEmail := ""
	if habit.User != nil {
		ownerEmail = habit.User.Email
	}
	return publicHabitResponse{
		ID:          habit.ID,
		OwnerEmail:  ownerEmail,
		Place:       habit.Place,
		Time:        habit.TimeOfDay,
		Action:      habit.Action,
		IsPleasant:  habit.IsPleasant,
		Periodicity: habit.Periodicity,
		Duration:    habit.Duration,
		CreatedAt:   habit.CreatedAt,
	}
}

type pageResponse struct {
	Count    int64 `json:"count"`
	Page     int   `json:"page"`
	PageSize int   `json:"page_size"`
	Results  any   `json:"results"`
}

func newHabitPageResponse(page services.HabitPage) pageResponse {
	results := make([]habitResponse, 0, len(page.Habits))
	for _, habit := range page.Habits {
		results = append(results, newHabitResponse(habit))
	}
	return pageResponse{Count: page.Count, Page: page.Page, PageSize: page.PageSize, Results: results}
}

func newPublicHabitPageResponse(page services.HabitPage) pageResponse {
	results := make([]publicHabitResponse, 0, len(page.Habits))
	for _, habit := range page.Habits {
		results = append(results, newPublicHabitResponse(habit))
	}
	return pageResponse{Count: page.Count, Page: page.Page, PageSize: page.PageSize, Results: results}
}

type userResponse struct {
	ID             uint      `json:"id"`
	Email          string    `json:"email"`
	Username       string    `json:"username"`
	TelegramChatID string    `json:"telegram_chat_id"`
	CreatedAt      time.Time `json:"created_at"`
}

func newUserResponse(user models.User) userResponse {
	return userResponse{
		ID:             user.ID,
		Email:          user.Email,
		Username:       user.Username,
		TelegramChatID: user.TelegramChatID,
		CreatedAt:      user.CreatedAt,
	}
}
