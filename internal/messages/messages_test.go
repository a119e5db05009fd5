package messages_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"accountability/internal/messages"
	"accountability/internal/model"
	"accountability/internal/parser"
)

var now = time.Date(2024, time.January, 15, 10, 0, 0, 0, time.UTC)

func TestReminderEscalationLevels(t *testing.T) {
	deadline := now.Add(24 * time.Hour)

	level1 := messages.Reminder(1, "Write report", deadline, now)
	assert.Contains(t, level1, "Friendly Reminder")
	assert.Contains(t, level1, "📋")
	assert.Contains(t, level1, "Write report")

	level2 := messages.Reminder(2, "Write report", deadline, now)
	assert.Contains(t, level2, "Task Waiting")
	assert.Contains(t, level2, "What's blocking you?")
	assert.Contains(t, level2, "⚠️")

	level3 := messages.Reminder(3, "Write report", deadline, now)
	assert.Contains(t, level3, "Urgent: Action Required!")
	assert.Contains(t, level3, "🚨")
}

func TestReminderLevelClamping(t *testing.T) {
	deadline := now.Add(24 * time.Hour)

	assert.Equal(t, messages.Reminder(1, "x", deadline, now), messages.Reminder(0, "x", deadline, now))
	assert.Equal(t, messages.Reminder(3, "x", deadline, now), messages.Reminder(7, "x", deadline, now))
}

func TestReminderOverdueStatus(t *testing.T) {
	past := now.Add(-time.Hour)
	future := time.Date(2024, time.January, 20, 23, 59, 59, 0, time.UTC)

	assert.Contains(t, messages.Reminder(1, "x", past, now), "⏰ OVERDUE")

	msg := messages.Reminder(1, "x", future, now)
	assert.Contains(t, msg, "Due: 1/20/2024")
	assert.NotContains(t, msg, "OVERDUE")
}

func TestReminderEscapesTitle(t *testing.T) {
	msg := messages.Reminder(1, "fix <b>bold</b> & co", now.Add(time.Hour), now)
	assert.Contains(t, msg, "fix &lt;b&gt;bold&lt;/b&gt; &amp; co")
	assert.NotContains(t, msg, "fix <b>bold</b>")
}

func TestDailySummaryOverdueBanner(t *testing.T) {
	msg := messages.DailySummary(3, 2, 1)
	assert.Contains(t, msg, "Daily Summary")
	assert.Contains(t, msg, "<b>2</b> overdue tasks")
	assert.Contains(t, msg, "<b>3</b> pending tasks")
	assert.Contains(t, msg, "<b>1</b> completed today")
	assert.Contains(t, msg, "Time to take action")
}

func TestDailySummaryNoOverdue(t *testing.T) {
	msg := messages.DailySummary(1, 0, 0)
	assert.NotContains(t, msg, "overdue task")
	assert.Contains(t, msg, "<b>1</b> pending task\n")
	assert.Contains(t, msg, "You've got this!")
}

func TestDailySummaryAllCaughtUp(t *testing.T) {
	msg := messages.DailySummary(0, 0, 2)
	assert.Contains(t, msg, "All caught up!")
}

func TestTaskConfirmation(t *testing.T) {
	task := parser.ParsedTask{
		Title:      "Buy groceries",
		Deadline:   time.Date(2024, time.January, 16, 23, 59, 59, 0, time.UTC),
		Tags:       []model.Tag{{Category: model.TagDevelopment, Label: "Development"}},
		Confidence: parser.ConfidenceMedium,
	}

	msg := messages.TaskConfirmation(task, model.BucketToday, "", now)
	assert.Contains(t, msg, "Task Created!")
	assert.Contains(t, msg, "Buy groceries")
	assert.Contains(t, msg, "Tomorrow")
	assert.Contains(t, msg, "🔴 Today")
	assert.Contains(t, msg, "Tags: Development")
	assert.NotContains(t, msg, "No deadline detected")
	assert.NotContains(t, msg, "⚠️")
}

func TestTaskConfirmationLowConfidenceAndWarning(t *testing.T) {
	task := parser.ParsedTask{
		Title:      "Something",
		Deadline:   time.Date(2024, time.January, 15, 23, 59, 59, 0, time.UTC),
		Confidence: parser.ConfidenceLow,
	}

	msg := messages.TaskConfirmation(task, model.BucketToday, "Unknown tag(s): #foo", now)
	assert.Contains(t, msg, "No deadline detected - defaulting to today")
	assert.Contains(t, msg, "⚠️ Unknown tag(s): #foo")
	assert.NotContains(t, msg, "Tags:")
}

func TestParseErrorIncludesReason(t *testing.T) {
	msg := messages.ParseError(parser.ErrMessageTooShort)
	assert.Contains(t, msg, "Couldn't create task")
	assert.Contains(t, msg, "Message too short")
	assert.Contains(t, msg, "Buy groceries tomorrow")
}

func TestHumanDeadline(t *testing.T) {
	endOfDay := func(y int, m time.Month, d int) time.Time {
		return time.Date(y, m, d, 23, 59, 59, 0, time.UTC)
	}

	tests := []struct {
		name     string
		deadline time.Time
		want     string
	}{
		{"today", endOfDay(2024, time.January, 15), "Today"},
		{"today with time", time.Date(2024, time.January, 15, 15, 0, 0, 0, time.UTC), "Today at 3:00 PM"},
		{"tomorrow", endOfDay(2024, time.January, 16), "Tomorrow"},
		{"within a week", endOfDay(2024, time.January, 19), "Friday"},
		{"beyond a week", endOfDay(2024, time.January, 30), "Jan 30"},
		{"one day overdue", endOfDay(2024, time.January, 14), "1 day overdue"},
		{"several days overdue", endOfDay(2024, time.January, 10), "5 days overdue"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, messages.HumanDeadline(tt.deadline, now))
		})
	}
}

func TestConnectedEscapesName(t *testing.T) {
	msg := messages.Connected("<script>")
	assert.Contains(t, msg, "&lt;script&gt;")
}
