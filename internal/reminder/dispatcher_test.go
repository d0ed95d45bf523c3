package reminder

import (
	"context"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/rutkovskaya/habita/internal/db"
	"github.com/rutkovskaya/habita/internal/models"
	"gorm.io/gorm"
)

type sentMessage struct {
	ChatID string
	Text   string
}

type recordingSender struct {
	mu     sync.Mutex
	result bool
	sent   []sentMessage
}

func (sender *recordingSender) Send(_ context.Context, chatID string, text string) bool {
	sender.mu.Lock()
	defer sender.mu.Unlock()
	sender.sent = append(sender.sent, sentMessage{ChatID: chatID, Text: text})
	return sender.result
}

func (sender *recordingSender) calls() []sentMessage {
	sender.mu.Lock()
	defer sender.mu.Unlock()
	return append([]sentMessage(nil), sender.sent...)
}

func openTestDatabase(t *testing.T) *gorm.DB {
	t.Helper()

	database, err := db.OpenSQLite(filepath.Join(t.TempDir(), "habita-reminder-test.db"))
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

func newTestDispatcher(t *testing.T, sender Sender) (*Dispatcher, *gorm.DB) {
	t.Helper()

	database := openTestDatabase(t)
	dispatcher := NewDispatcher(db.NewHabitRepository(database), sender, time.UTC, zerolog.Nop())
	return dispatcher, database
}

func seedUser(t *testing.T, database *gorm.DB, email string, chatID string) models.User {
	t.Helper()

	user := models.User{Email: email, Username: "tester", PasswordHash: "x", TelegramChatID: chatID, CreatedAt: time.Now()}
	if err := database.Create(&user).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return user
}

func seedHabit(t *testing.T, database *gorm.DB, ownerID uint, timeOfDay string) models.Habit {
	t.Helper()

	habit := models.Habit{
		UserID:      ownerID,
		Place:       "park",
		TimeOfDay:   timeOfDay,
		Action:      "morning run",
		Periodicity: 1,
		Reward:      "smoothie",
		Duration:    60,
	}
	if err := database.Create(&habit).Error; err != nil {
		t.Fatalf("seed habit: %v", err)
	}
	return habit
}

func TestSendHabitReminderNotFound(t *testing.T) {
	sender := &recordingSender{result: true}
	dispatcher, _ := newTestDispatcher(t, sender)

	outcome := dispatcher.SendHabitReminder(context.Background(), 9999)
	if outcome.Status != StatusError {
		t.Fatalf("expected %q, got %q", StatusError, outcome.Status)
	}
	if outcome.Message != "habit not found" {
		t.Fatalf("unexpected message %q", outcome.Message)
	}
	if len(sender.calls()) != 0 {
		t.Fatal("expected no delivery attempt for a missing habit")
	}
}

func TestSendHabitReminderSkipsOwnerWithoutChatID(t *testing.T) {
	sender := &recordingSender{result: true}
	dispatcher, database := newTestDispatcher(t, sender)

	owner := seedUser(t, database, "owner@example.com", "")
	habit := seedHabit(t, database, owner.ID, "07:30")

	outcome := dispatcher.SendHabitReminder(context.Background(), habit.ID)
	if outcome.Status != StatusSkipped {
		t.Fatalf("expected %q, got %q", StatusSkipped, outcome.Status)
	}
	if len(sender.calls()) != 0 {
		t.Fatal("expected no delivery attempt without a chat id")
	}
}

func TestSendHabitReminderSuccess(t *testing.T) {
	sender := &recordingSender{result: true}
	dispatcher, database := newTestDispatcher(t, sender)

	owner := seedUser(t, database, "owner@example.com", "123456")
	habit := seedHabit(t, database, owner.ID, "07:30")

	outcome := dispatcher.SendHabitReminder(context.Background(), habit.ID)
	if outcome.Status != StatusSuccess {
		t.Fatalf("expected %q, got %q (%s)", StatusSuccess, outcome.Status, outcome.Message)
	}

	calls := sender.calls()
	if len(calls) != 1 {
		t.Fatalf("expected exactly one delivery, got %d", len(calls))
	}
	if calls[0].ChatID != "123456" {
		t.Fatalf("expected chat id 123456, got %q", calls[0].ChatID)
	}
	if !strings.Contains(calls[0].Text, "morning run") {
		t.Fatalf("expected formatted reminder, got %q", calls[0].Text)
	}
}

func TestSendHabitReminderDeliveryFailure(t *testing.T) {
	sender := &recordingSender{result: false}
	dispatcher, database := newTestDispatcher(t, sender)

	owner := seedUser(t, database, "owner@example.com", "123456")
	habit := seedHabit(t, database, owner.ID, "07:30")

	outcome := dispatcher.SendHabitReminder(context.Background(), habit.ID)
	if outcome.Status != StatusError {
		t.Fatalf("expected %q, got %q", StatusError, outcome.Status)
	}
	if len(sender.calls()) != 1 {
		t.Fatal("delivery should have been attempted exactly once")
	}
}

func TestSendHabitReminderWithoutConfiguredSender(t *testing.T) {
	dispatcher, database := newTestDispatcher(t, nil)

	owner := seedUser(t, database, "owner@example.com", "123456")
	habit := seedHabit(t, database, owner.ID, "07:30")

	outcome := dispatcher.SendHabitReminder(context.Background(), habit.ID)
	if outcome.Status != StatusError {
		t.Fatalf("expected %q, got %q", StatusError, outcome.Status)
	}
}

func TestSweepSelectsOnlyDueHabitsWithNotificationTargets(t *testing.T) {
	sender := &recordingSender{result: true}
	dispatcher, database := newTestDispatcher(t, sender)

	now := time.Now().UTC()
	withTarget := seedUser(t, database, "target@example.com", "111")
	withoutTarget := seedUser(t, database, "silent@example.com", "")

	due := seedHabit(t, database, withTarget.ID, now.Format(models.TimeOfDayLayout))
	seedHabit(t, database, withTarget.ID, now.Add(2*time.Hour).Format(models.TimeOfDayLayout))
	seedHabit(t, database, withoutTarget.ID, now.Format(models.TimeOfDayLayout))

	stats := dispatcher.Sweep(context.Background())
	if stats.Sent != 1 {
		t.Fatalf("expected 1 sent, got %+v", stats)
	}
	if stats.Skipped != 0 || stats.Errors != 0 {
		t.Fatalf("expected clean sweep, got %+v", stats)
	}
	if stats.CheckedAt.IsZero() {
		t.Fatal("expected sweep timestamp")
	}

	calls := sender.calls()
	if len(calls) != 1 {
		t.Fatalf("expected one delivery, got %d", len(calls))
	}
	if !strings.Contains(calls[0].Text, due.Action) {
		t.Fatalf("expected reminder for due habit, got %q", calls[0].Text)
	}
}

func TestSweepAggregatesFailuresWithoutAborting(t *testing.T) {
	sender := &recordingSender{result: false}
	dispatcher, database := newTestDispatcher(t, sender)

	now := time.Now().UTC()
	owner := seedUser(t, database, "owner@example.com", "111")
	seedHabit(t, database, owner.ID, now.Format(models.TimeOfDayLayout))
	seedHabit(t, database, owner.ID, now.Format(models.TimeOfDayLayout))

	stats := dispatcher.Sweep(context.Background())
	if stats.Errors != 2 {
		t.Fatalf("expected 2 errors, got %+v", stats)
	}
	if stats.Sent != 0 {
		t.Fatalf("expected 0 sent, got %+v", stats)
	}
	if len(sender.calls()) != 2 {
		t.Fatalf("every habit must be attempted independently, got %d calls", len(sender.calls()))
	}
}
