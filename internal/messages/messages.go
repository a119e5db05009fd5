// Package messages renders all user-facing Telegram copy (HTML parse mode).
package messages

import (
	"fmt"
	"html"
	"math"
	"strings"
	"time"

	"accountability/internal/model"
	"accountability/internal/parser"
)

var bucketNames = map[model.Bucket]string{
	model.BucketToday:    "Today",
	model.BucketThisWeek: "This Week",
	model.BucketLater:    "Later",
	model.BucketDone:     "Done",
}

var bucketEmojis = map[model.Bucket]string{
	model.BucketToday:    "🔴",
	model.BucketThisWeek: "🟡",
	model.BucketLater:    "🟢",
	model.BucketDone:     "✅",
}

// Reminder renders the escalation message for a delivered level (1..3).
// Level 1 is a gentle inquiry, 2 asks what is blocking, 3 is an urgent
// imperative. Deterministic given its inputs.
func Reminder(level int, title string, deadline, now time.Time) string {
	level = clampLevel(level)

	urgency := "📋"
	switch {
	case level >= 3:
		urgency = "🚨"
	case level >= 2:
		urgency = "⚠️"
	}

	status := fmt.Sprintf("Due: %s", deadline.Format("1/2/2006"))
	if deadline.Before(now) {
		status = "⏰ OVERDUE"
	}

	escaped := html.EscapeString(title)
	switch level {
	case 1:
		return fmt.Sprintf("%s <b>Friendly Reminder</b>\n\nHey! You said you'd work on:\n<b>%s</b>\n\n%s\n\nReady to start?", urgency, escaped, status)
	case 2:
		return fmt.Sprintf("%s <b>Task Waiting</b>\n\nThis task is still waiting:\n<b>%s</b>\n\n%s\n\nWhat's blocking you?", urgency, escaped, status)
	default:
		return fmt.Sprintf("%s <b>Urgent: Action Required!</b>\n\nThis task needs your attention NOW:\n<b>%s</b>\n\n%s\n\nDeal with it or reschedule!", urgency, escaped, status)
	}
}

// DailySummary renders the daily digest. The overdue banner appears only
// when something is overdue and the closing line varies with what remains.
func DailySummary(pendingCount, overdueCount, completedToday int) string {
	var b strings.Builder
	b.WriteString("📊 <b>Daily Summary</b>\n\n")

	if overdueCount > 0 {
		b.WriteString(fmt.Sprintf("🚨 <b>%d</b> overdue task%s\n", overdueCount, plural(overdueCount)))
	}
	b.WriteString(fmt.Sprintf("📋 <b>%d</b> pending task%s\n", pendingCount, plural(pendingCount)))
	b.WriteString(fmt.Sprintf("✅ <b>%d</b> completed today\n\n", completedToday))

	switch {
	case overdueCount > 0:
		b.WriteString("⚡ Time to take action on those overdue tasks!")
	case pendingCount > 0:
		b.WriteString("💪 You've got this! Focus on your top priority.")
	default:
		b.WriteString("🎉 All caught up! Great job!")
	}

	return b.String()
}

// TaskConfirmation renders the reply sent after a task is created from a
// chat message.
func TaskConfirmation(task parser.ParsedTask, bucket model.Bucket, warning string, now time.Time) string {
	var tagText string
	if len(task.Tags) > 0 {
		labels := make([]string, 0, len(task.Tags))
		for _, tag := range task.Tags {
			labels = append(labels, tag.Label)
		}
		tagText = fmt.Sprintf("\n🏷️ Tags: %s", strings.Join(labels, ", "))
	}

	var confidenceNote string
	if task.Confidence == parser.ConfidenceLow {
		confidenceNote = "\n\n<i>📅 No deadline detected - defaulting to today</i>"
	}

	var warningText string
	if warning != "" {
		warningText = fmt.Sprintf("\n\n⚠️ %s", html.EscapeString(warning))
	}

	return fmt.Sprintf(`✅ <b>Task Created!</b>

📝 %s
📅 %s
📊 Column: %s %s%s%s%s

<i>View in app to edit details</i>`,
		html.EscapeString(task.Title),
		HumanDeadline(task.Deadline, now),
		bucketEmojis[bucket], bucketNames[bucket],
		tagText, confidenceNote, warningText)
}

// ParseError renders a parse failure with example phrasings.
func ParseError(err error) string {
	var b strings.Builder
	b.WriteString("❌ <b>Couldn't create task</b>\n\n")
	if err != nil {
		b.WriteString(html.EscapeString(err.Error()))
		b.WriteString("\n\n")
	}
	b.WriteString(`<b>Try formats like:</b>
• "Buy groceries tomorrow"
• "Call mom Friday at 3pm"
• "Submit report by Jan 20th #work"

<i>Send /help for more examples</i>`)
	return b.String()
}

// Help renders the task creation help text.
func Help() string {
	return `📚 <b>Task Creation Help</b>

<b>Create tasks by sending a message:</b>
• "Buy groceries tomorrow"
• "Call mom on Friday"
• "Meeting at 3pm next Monday"
• "Submit report by Jan 20 #work"

<b>Supported tags:</b>
#management #design #development
#research #marketing

<b>Tag shortcuts:</b>
#work #dev #code #ui #learn

<b>Date formats:</b>
• "tomorrow", "today"
• "next Monday", "this Friday"
• "in 3 days", "in 2 weeks"
• "January 20th", "Jan 20"
• Times: "at 3pm", "at 14:00"

<b>Commands:</b>
/status - Check connection status
/focus &lt;minutes&gt; - Pause reminders while you focus
/vacation &lt;days&gt; - Pause everything while you're away
/summary - Get your daily summary now
/disconnect - Unlink your account
/help - Show this message`
}

// DatabaseError renders the reply for a failed task insert.
func DatabaseError() string {
	return `❌ <b>Failed to create task</b>

Something went wrong while saving your task. Please try again.

If the problem persists, try creating the task directly in the app.`
}

// NotConnected renders the reply for an unlinked chat.
func NotConnected() string {
	return `❌ <b>Account not connected</b>

Your Telegram is not linked to any account.

Please use the "Connect Telegram" button in the app to link your account first.`
}

// Connected renders the linking confirmation.
func Connected(name string) string {
	return fmt.Sprintf(`✅ <b>Connected successfully!</b>

Hey %s! Your Telegram is now linked to Accountability.

You'll receive:
• Task reminders
• Daily summaries
• Overdue alerts

Stay productive! 💪`, html.EscapeString(name))
}

// Welcome renders the /start reply when no link code was supplied.
func Welcome() string {
	return `👋 <b>Welcome to Accountability Bot!</b>

To connect your account, please use the "Connect Telegram" button in the app.

This will link your Telegram to receive task reminders.`
}

// HumanDeadline renders a deadline relative to now, the way a person
// would say it.
func HumanDeadline(deadline, now time.Time) string {
	diffDays := calendarDays(deadline, now)

	// Show the clock only when the deadline carries a real time of day.
	var timeStr string
	if deadline.Hour() != 23 || deadline.Minute() != 59 {
		timeStr = fmt.Sprintf(" at %s", deadline.Format("3:04 PM"))
	}

	switch {
	case diffDays < 0:
		overdue := -diffDays
		return fmt.Sprintf("%d day%s overdue", overdue, plural(overdue))
	case diffDays == 0:
		return "Today" + timeStr
	case diffDays == 1:
		return "Tomorrow" + timeStr
	case diffDays <= 7:
		return deadline.Weekday().String() + timeStr
	default:
		return deadline.Format("Jan 2") + timeStr
	}
}

func calendarDays(deadline, now time.Time) int {
	nowDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	deadlineDay := time.Date(deadline.Year(), deadline.Month(), deadline.Day(), 0, 0, 0, 0, deadline.Location())
	return int(math.Round(deadlineDay.Sub(nowDay).Hours() / 24))
}

func clampLevel(level int) int {
	if level < 1 {
		return 1
	}
	if level > 3 {
		return 3
	}
	return level
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}
