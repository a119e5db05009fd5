package model

import (
	"slices"
	"time"
)

// CommitmentDateLayout is the calendar-day format used for the morning
// commitment ritual.
const CommitmentDateLayout = "2006-01-02"

// UserSettings stores per-user delivery and suppression state. A row is
// created on first access and never hard-deleted.
type UserSettings struct {
	UserID                string `gorm:"primaryKey"`
	TelegramChatID        *int64 `gorm:"uniqueIndex"`
	FocusUntil            *time.Time
	VacationUntil         *time.Time
	LastCommitmentDate    string
	CommittedTaskIDs      []string `gorm:"serializer:json"`
	DismissedStaleTaskIDs []string `gorm:"serializer:json"`
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

// Linked reports whether a Telegram chat is connected as delivery target.
func (s *UserSettings) Linked() bool {
	return s.TelegramChatID != nil
}

// FocusActive reports whether a focus window suppresses reminders at now.
func (s *UserSettings) FocusActive(now time.Time) bool {
	return s.FocusUntil != nil && s.FocusUntil.After(now)
}

// VacationActive reports whether a vacation window suppresses all
// outbound messaging at now.
func (s *UserSettings) VacationActive(now time.Time) bool {
	return s.VacationUntil != nil && s.VacationUntil.After(now)
}

// Suppressed reports whether reminder emission is withheld at now.
func (s *UserSettings) Suppressed(now time.Time) bool {
	return s.FocusActive(now) || s.VacationActive(now)
}

func (s *UserSettings) StaleDismissed(taskID string) bool {
	return slices.Contains(s.DismissedStaleTaskIDs, taskID)
}

// NeedsMorningCommitment reports whether the user still has to run the
// morning commitment ritual today. Vacation pauses the ritual.
func (s *UserSettings) NeedsMorningCommitment(now time.Time) bool {
	if s.VacationActive(now) {
		return false
	}
	return s.LastCommitmentDate != now.Format(CommitmentDateLayout)
}
