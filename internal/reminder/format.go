package reminder

import (
	"fmt"
	"html"
	"strings"

	"github.com/rutkovskaya/habita/internal/models"
)

// FormatHabitReminder renders the Telegram notification for a habit. The
// habit must arrive with its optional related habit resolved. The output is
// deterministic: same habit state, same string.
func FormatHabitReminder(habit models.Habit) string {
	var message strings.Builder

	message.WriteString("🔔 <b>Reminder: time for your habit!</b>\n\n")
	fmt.Fprintf(&message, "📝 <b>Action:</b> %s\n", html.EscapeString(habit.Action))
	fmt.Fprintf(&message, "📍 <b>Place:</b> %s\n", html.EscapeString(habit.Place))
	fmt.Fprintf(&message, "⏰ <b>Time:</b> %s\n", habit.TimeOfDay)
	fmt.Fprintf(&message, "⏱ <b>Duration:</b> %d seconds\n", habit.Duration)

	if habit.HasReward() {
		fmt.Fprintf(&message, "🎁 <b>Reward:</b> %s\n", html.EscapeString(habit.Reward))
	} else if habit.RelatedHabit != nil {
		fmt.Fprintf(&message, "😊 <b>Pleasant habit:</b> %s\n", html.EscapeString(habit.RelatedHabit.Action))
	}

	message.WriteString("\n💪 You can do it!")
	return message.String()
}
