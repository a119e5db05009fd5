package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"accountability/internal/logger"
	"accountability/internal/messages"
	"accountability/internal/model"
)

// SweepReport summarizes one sweep invocation.
type SweepReport struct {
	Processed int       `json:"processed"`
	Sent      int       `json:"sent"`
	Errors    int       `json:"errors"`
	Timestamp time.Time `json:"timestamp"`
}

// ReminderOptions tune evaluator behavior.
type ReminderOptions struct {
	// SkipDelegated excludes delegated tasks from escalation. Off by
	// default: a delegated task keeps reminding its owner.
	SkipDelegated bool
}

// ReminderService runs the periodic reminder sweep and the daily summary.
// It keeps no state of its own; every invocation works from a fresh
// snapshot, so an external scheduler can trigger it at any cadence.
type ReminderService struct {
	tasks    TaskStore
	settings SettingsStore
	delivery Delivery
	opts     ReminderOptions
}

func NewReminderService(tasks TaskStore, settings SettingsStore, delivery Delivery, opts ReminderOptions) *ReminderService {
	return &ReminderService{tasks: tasks, settings: settings, delivery: delivery, opts: opts}
}

// ProcessReminders evaluates every linked, unsuppressed user's active
// tasks and delivers escalating reminders for those that are due one.
// A task is a candidate when it sits in the today bucket or is overdue;
// the per-task frequency interval gates re-delivery, which also makes the
// sweep idempotent when invoked twice within one interval window.
func (s *ReminderService) ProcessReminders(ctx context.Context, now time.Time) (SweepReport, error) {
	report := SweepReport{Timestamp: now}

	users, err := s.settings.ListLinked(ctx)
	if err != nil {
		return report, fmt.Errorf("list linked users: %w", err)
	}

	for _, user := range users {
		if user.Suppressed(now) {
			continue
		}
		report.Processed++

		tasks, err := s.tasks.ListActiveForUser(ctx, user.UserID)
		if err != nil {
			logger.Error("fetch tasks for reminder sweep", err, zap.String("user", user.UserID))
			report.Errors++
			continue
		}

		for i := range tasks {
			task := &tasks[i]
			if !s.dueForReminder(task, now) {
				continue
			}

			nextLevel := task.EscalationLevel + 1
			if nextLevel > 3 {
				nextLevel = 3
			}

			text := messages.Reminder(nextLevel, task.Title, task.Deadline, now)
			if !s.delivery.Send(ctx, *user.TelegramChatID, text) {
				// State stays untouched; the next sweep retries at the
				// same level.
				report.Errors++
				continue
			}

			committed, err := s.tasks.CommitReminder(ctx, task, now, nextLevel)
			switch {
			case err != nil:
				// Delivered but not recorded: the next sweep will send a
				// duplicate at the same level. Known at-least-once gap.
				logger.Error("commit reminder state", err, zap.String("task", task.ID))
				report.Errors++
			case !committed:
				logger.Warn("reminder commit lost race to concurrent sweep", zap.String("task", task.ID))
			default:
				report.Sent++
			}
		}
	}

	return report, nil
}

func (s *ReminderService) dueForReminder(task *model.Task, now time.Time) bool {
	if task.Bucket == model.BucketDone {
		return false
	}
	if s.opts.SkipDelegated && task.IsDelegated() {
		return false
	}
	if task.Bucket != model.BucketToday && !task.Overdue(now) {
		return false
	}
	if task.LastRemindedAt == nil {
		return true
	}
	return now.Sub(*task.LastRemindedAt) >= task.ReminderFrequency.Interval()
}

// SendDailySummaries delivers one digest per linked user. Only vacation
// suppresses the summary; focus mode does not. Users with nothing pending
// and nothing completed today get no message.
func (s *ReminderService) SendDailySummaries(ctx context.Context, now time.Time) (SweepReport, error) {
	report := SweepReport{Timestamp: now}

	users, err := s.settings.ListLinked(ctx)
	if err != nil {
		return report, fmt.Errorf("list linked users: %w", err)
	}

	for _, user := range users {
		if user.VacationActive(now) {
			continue
		}
		report.Processed++

		text, send, err := s.summaryFor(ctx, user.UserID, now)
		if err != nil {
			logger.Error("fetch tasks for daily summary", err, zap.String("user", user.UserID))
			report.Errors++
			continue
		}
		if !send {
			continue
		}

		if s.delivery.Send(ctx, *user.TelegramChatID, text) {
			report.Sent++
		} else {
			report.Errors++
		}
	}

	return report, nil
}

// SummaryFor renders the digest for a single user on demand, regardless
// of whether there is anything to report.
func (s *ReminderService) SummaryFor(ctx context.Context, userID string, now time.Time) (string, error) {
	text, _, err := s.summaryFor(ctx, userID, now)
	return text, err
}

func (s *ReminderService) summaryFor(ctx context.Context, userID string, now time.Time) (text string, worthSending bool, err error) {
	tasks, err := s.tasks.ListForUser(ctx, userID)
	if err != nil {
		return "", false, err
	}

	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	var pending, overdue, completedToday int
	for _, task := range tasks {
		if task.Bucket == model.BucketDone {
			if task.CompletedAt != nil && !task.CompletedAt.Before(todayStart) {
				completedToday++
			}
			continue
		}
		pending++
		if task.Overdue(now) {
			overdue++
		}
	}

	return messages.DailySummary(pending, overdue, completedToday), pending > 0 || completedToday > 0, nil
}
