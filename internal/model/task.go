package model

import "time"

// Bucket is a task's active lifecycle stage on the board.
type Bucket string

const (
	BucketToday    Bucket = "today"
	BucketThisWeek Bucket = "this_week"
	BucketLater    Bucket = "later"
	BucketDone     Bucket = "done"
)

// ReminderFrequency controls the minimum re-notify interval for a task.
type ReminderFrequency string

const (
	FrequencyHourly     ReminderFrequency = "hourly"
	FrequencyFewHours   ReminderFrequency = "few_hours"
	FrequencyTwiceDaily ReminderFrequency = "twice_daily"
)

// Interval maps a frequency to its minimum gap between reminders.
// Unknown values fall back to hourly.
func (f ReminderFrequency) Interval() time.Duration {
	switch f {
	case FrequencyFewHours:
		return 3 * time.Hour
	case FrequencyTwiceDaily:
		return 12 * time.Hour
	default:
		return time.Hour
	}
}

// Task represents a single item on the accountability board.
type Task struct {
	ID                string `gorm:"primaryKey"`
	UserID            string `gorm:"index"`
	Title             string
	Notes             string
	Deadline          time.Time
	Bucket            Bucket `gorm:"index;default:later"`
	CompletedAt       *time.Time
	DelegatedTo       *string
	ReminderFrequency ReminderFrequency `gorm:"default:hourly"`
	LastRemindedAt    *time.Time
	EscalationLevel   int   `gorm:"default:0"`
	Tags              []Tag `gorm:"serializer:json"`
	RecurPattern      string // daily, weekly or monthly; empty for one-off tasks
	RecurEndDate      *time.Time
	RecurDayOfWeek    *int
	RecurDayOfMonth   *int
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

func (t *Task) IsRecurring() bool {
	return t.RecurPattern != ""
}

func (t *Task) IsDelegated() bool {
	return t.DelegatedTo != nil && *t.DelegatedTo != ""
}

// Overdue reports whether the deadline instant has passed.
func (t *Task) Overdue(now time.Time) bool {
	return t.Deadline.Before(now)
}
