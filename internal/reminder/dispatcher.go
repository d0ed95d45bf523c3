package reminder

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rutkovskaya/habita/internal/db"
	"github.com/rutkovskaya/habita/internal/models"
	"gorm.io/gorm"
)

// Sender is the external delivery capability. Implementations report failure
// as false and never panic or propagate errors to the dispatcher.
type Sender interface {
	Send(ctx context.Context, chatID string, text string) bool
}

const (
	StatusSuccess = "success"
	StatusSkipped = "skipped"
	StatusError   = "error"
)

// Outcome is the per-habit result of a reminder send attempt.
type Outcome struct {
	HabitID uint   `json:"habit_id"`
	Status  string `json:"status"`
	Message string `json:"message"`
}

// SweepStats is the observable contract of one sweep run, used for
// monitoring only.
type SweepStats struct {
	Sent      int       `json:"sent"`
	Skipped   int       `json:"skipped"`
	Errors    int       `json:"errors"`
	CheckedAt time.Time `json:"checked_at"`
}

const (
	defaultWindow      = 30 * time.Minute
	defaultSendTimeout = 10 * time.Second
)

// Dispatcher runs the periodic reminder sweep: it finds habits scheduled
// inside a ±30-minute window around now and sends one notification per due
// habit through the Sender. Sends within a sweep are independent; one
// failing delivery never blocks the others.
type Dispatcher struct {
	habits      *db.HabitRepository
	sender      Sender
	location    *time.Location
	window      time.Duration
	sendTimeout time.Duration
	log         zerolog.Logger
}

func NewDispatcher(habits *db.HabitRepository, sender Sender, location *time.Location, log zerolog.Logger) *Dispatcher {
	if location == nil {
		location = time.Local
	}
	return &Dispatcher{
		habits:      habits,
		sender:      sender,
		location:    location,
		window:      defaultWindow,
		sendTimeout: defaultSendTimeout,
		log:         log,
	}
}

// SendHabitReminder delivers one reminder. The habit row is fetched fresh so
// a habit deleted between selection and send degrades to a not-found
// outcome rather than a fault.
func (dispatcher *Dispatcher) SendHabitReminder(ctx context.Context, habitID uint) Outcome {
	habit, err := dispatcher.habits.FindForReminder(ctx, habitID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			dispatcher.log.Warn().Uint("habit_id", habitID).Msg("reminder habit not found")
			return Outcome{HabitID: habitID, Status: StatusError, Message: "habit not found"}
		}
		dispatcher.log.Error().Err(err).Uint("habit_id", habitID).Msg("load reminder habit failed")
		return Outcome{HabitID: habitID, Status: StatusError, Message: "failed to load habit"}
	}

	if habit.User == nil || strings.TrimSpace(habit.User.TelegramChatID) == "" {
		dispatcher.log.Info().Uint("habit_id", habitID).Msg("owner has no telegram chat id, reminder skipped")
		return Outcome{HabitID: habitID, Status: StatusSkipped, Message: "user has no telegram chat id"}
	}

	if dispatcher.sender == nil {
		dispatcher.log.Warn().Uint("habit_id", habitID).Msg("telegram delivery is not configured")
		return Outcome{HabitID: habitID, Status: StatusError, Message: "telegram delivery is not configured"}
	}

	text := FormatHabitReminder(habit)

	sendCtx, cancel := context.WithTimeout(ctx, dispatcher.sendTimeout)
	defer cancel()
	if !dispatcher.sender.Send(sendCtx, habit.User.TelegramChatID, text) {
		dispatcher.log.Error().Uint("habit_id", habitID).Msg("telegram delivery failed")
		return Outcome{HabitID: habitID, Status: StatusError, Message: "failed to send telegram message"}
	}

	dispatcher.log.Info().Uint("habit_id", habitID).Str("action", habit.Action).Msg("reminder sent")
	return Outcome{
		HabitID: habitID,
		Status:  StatusSuccess,
		Message: fmt.Sprintf("reminder sent for: %s", habit.Action),
	}
}

// Sweep selects every habit due in [now-30m, now+30m] whose owner has a
// notification target, dispatches each send concurrently and aggregates the
// outcomes. Successive hourly sweeps evaluate their windows independently;
// there is no already-reminded bookkeeping.
func (dispatcher *Dispatcher) Sweep(ctx context.Context) SweepStats {
	now := time.Now().In(dispatcher.location)
	stats := SweepStats{CheckedAt: now}

	windowStart := now.Add(-dispatcher.window).Format(models.TimeOfDayLayout)
	windowEnd := now.Add(dispatcher.window).Format(models.TimeOfDayLayout)

	dueHabits, err := dispatcher.habits.ListDueBetween(ctx, windowStart, windowEnd)
	if err != nil {
		dispatcher.log.Error().Err(err).Msg("reminder sweep: selecting due habits failed")
		stats.Errors++
		return stats
	}

	outcomes := make(chan Outcome, len(dueHabits))
	var pending sync.WaitGroup
	for _, habit := range dueHabits {
		pending.Add(1)
		go func(habitID uint) {
			defer pending.Done()
			outcomes <- dispatcher.SendHabitReminder(ctx, habitID)
		}(habit.ID)
	}
	pending.Wait()
	close(outcomes)

	for outcome := range outcomes {
		switch outcome.Status {
		case StatusSuccess:
			stats.Sent++
		case StatusSkipped:
			stats.Skipped++
		default:
			stats.Errors++
		}
	}

	dispatcher.log.Info().
		Str("window_start", windowStart).
		Str("window_end", windowEnd).
		Int("sent", stats.Sent).
		Int("skipped", stats.Skipped).
		Int("errors", stats.Errors).
		Msg("reminder sweep complete")
	return stats
}
