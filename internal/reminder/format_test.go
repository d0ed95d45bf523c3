package reminder

import (
	"strings"
	"testing"

	"github.com/rutkovskaya/habita/internal/models"
)

func reminderHabit() models.Habit {
	return models.Habit{
		ID:        1,
		Place:     "park",
		TimeOfDay: "07:30",
		Action:    "morning run",
		Duration:  60,
	}
}

func TestFormatHabitReminderContainsCoreFields(t *testing.T) {
	message := FormatHabitReminder(reminderHabit())

	for _, want := range []string{"morning run", "park", "07:30", "60 seconds"} {
		if !strings.Contains(message, want) {
			t.Fatalf("expected message to contain %q:\n%s", want, message)
		}
	}
	if strings.Contains(message, "Reward:") || strings.Contains(message, "Pleasant habit:") {
		t.Fatalf("expected neither reward nor related line:\n%s", message)
	}
}

func TestFormatHabitReminderIsDeterministic(t *testing.T) {
	habit := reminderHabit()
	if FormatHabitReminder(habit) != FormatHabitReminder(habit) {
		t.Fatal("same habit state must produce the same message")
	}
}

func TestFormatHabitReminderWithReward(t *testing.T) {
	habit := reminderHabit()
	habit.Reward = "smoothie"
	habit.RelatedHabit = &models.Habit{Action: "read comics", IsPleasant: true}

	message := FormatHabitReminder(habit)
	if !strings.Contains(message, "Reward:</b> smoothie") {
		t.Fatalf("expected reward line:\n%s", message)
	}
	// reward wins when both are somehow present; exactly one extra line
	if strings.Contains(message, "Pleasant habit:") {
		t.Fatalf("expected no related-habit line when a reward is set:\n%s", message)
	}
}

func TestFormatHabitReminderWithRelatedHabit(t *testing.T) {
	habit := reminderHabit()
	habit.RelatedHabit = &models.Habit{Action: "read comics", IsPleasant: true}

	message := FormatHabitReminder(habit)
	if !strings.Contains(message, "Pleasant habit:</b> read comics") {
		t.Fatalf("expected related-habit line:\n%s", message)
	}
}

func TestFormatHabitReminderEscapesUserText(t *testing.T) {
	habit := reminderHabit()
	habit.Action = "run <fast> & far"

	message := FormatHabitReminder(habit)
	if strings.Contains(message, "<fast>") {
		t.Fatalf("expected HTML-escaped action:\n%s", message)
	}
	if !strings.Contains(message, "run &lt;fast&gt; &amp; far") {
		t.Fatalf("expected escaped action text:\n%s", message)
	}
}
