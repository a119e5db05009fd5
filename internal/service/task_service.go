package service

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"

	"accountability/internal/model"
	"accountability/internal/parser"
	"accountability/internal/recurrence"
)

// StaleAfter is how old an unfinished task must be before it shows up in
// the stale-task confrontation.
const StaleAfter = 7 * 24 * time.Hour

// TaskService wraps task-related business logic.
type TaskService struct {
	tasks    TaskStore
	settings SettingsStore
	parser   *parser.Parser
}

func NewTaskService(tasks TaskStore, settings SettingsStore, p *parser.Parser) *TaskService {
	return &TaskService{tasks: tasks, settings: settings, parser: p}
}

// CreateFromMessage parses a free-form chat message into a task and
// persists it. Parse failures come back as parser errors and nothing is
// stored; no partial task is ever persisted.
func (s *TaskService) CreateFromMessage(ctx context.Context, userID, message string, now time.Time) (*model.Task, *parser.ParseResult, error) {
	result, err := s.parser.Parse(message, now)
	if err != nil {
		return nil, nil, err
	}

	task := &model.Task{
		ID:                uuid.NewString(),
		UserID:            userID,
		Title:             result.Task.Title,
		Deadline:          result.Task.Deadline,
		Bucket:            parser.ClassifyDeadline(result.Task.Deadline, now),
		ReminderFrequency: model.FrequencyHourly,
		Tags:              result.Task.Tags,
	}

	if err := s.tasks.Create(ctx, task); err != nil {
		return nil, result, fmt.Errorf("persist task: %w", err)
	}
	return task, result, nil
}

// Complete moves a task into the done bucket. A recurring task spawns at
// most one successor with a fresh reminder state; the successor always
// starts in the later bucket no matter how soon its deadline is.
func (s *TaskService) Complete(ctx context.Context, userID, taskID string, now time.Time) (*model.Task, error) {
	task, err := s.tasks.FindByID(ctx, userID, taskID)
	if err != nil {
		return nil, err
	}

	task.Bucket = model.BucketDone
	task.CompletedAt = &now
	if err := s.tasks.Save(ctx, task); err != nil {
		return nil, err
	}

	if !task.IsRecurring() {
		return nil, nil
	}

	next := recurrence.Next(recurrence.Config{
		Pattern:         recurrence.Pattern(task.RecurPattern),
		CurrentDeadline: task.Deadline,
		EndDate:         task.RecurEndDate,
		DayOfWeek:       task.RecurDayOfWeek,
		DayOfMonth:      task.RecurDayOfMonth,
	}, now)
	if next == nil {
		return nil, nil
	}

	successor := &model.Task{
		ID:                uuid.NewString(),
		UserID:            task.UserID,
		Title:             task.Title,
		Notes:             task.Notes,
		Deadline:          *next,
		Bucket:            model.BucketLater,
		ReminderFrequency: task.ReminderFrequency,
		Tags:              task.Tags,
		RecurPattern:      task.RecurPattern,
		RecurEndDate:      task.RecurEndDate,
		RecurDayOfWeek:    task.RecurDayOfWeek,
		RecurDayOfMonth:   task.RecurDayOfMonth,
	}
	if err := s.tasks.Create(ctx, successor); err != nil {
		return nil, fmt.Errorf("spawn successor: %w", err)
	}
	return successor, nil
}

// Reopen moves a done task back onto the board and clears its completion
// timestamp.
func (s *TaskService) Reopen(ctx context.Context, userID, taskID string, bucket model.Bucket) (*model.Task, error) {
	task, err := s.tasks.FindByID(ctx, userID, taskID)
	if err != nil {
		return nil, err
	}
	task.Bucket = bucket
	task.CompletedAt = nil
	if err := s.tasks.Save(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

// Reschedule gives a task a new deadline and resets its reminder
// escalation to zero. This is the only way escalation ever resets.
func (s *TaskService) Reschedule(ctx context.Context, userID, taskID string, deadline time.Time) (*model.Task, error) {
	task, err := s.tasks.FindByID(ctx, userID, taskID)
	if err != nil {
		return nil, err
	}
	task.Deadline = deadline
	task.EscalationLevel = 0
	task.LastRemindedAt = nil
	if err := s.tasks.Save(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

// Delegate marks a task as blocked on somebody else.
func (s *TaskService) Delegate(ctx context.Context, userID, taskID, who string) (*model.Task, error) {
	task, err := s.tasks.FindByID(ctx, userID, taskID)
	if err != nil {
		return nil, err
	}
	if who == "" {
		task.DelegatedTo = nil
	} else {
		task.DelegatedTo = &who
	}
	if err := s.tasks.Save(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

// StaleTasks returns unfinished tasks created more than a week ago that
// the user has not explicitly dismissed from confrontation.
func (s *TaskService) StaleTasks(ctx context.Context, userID string, now time.Time) ([]model.Task, error) {
	settings, err := s.settings.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	tasks, err := s.tasks.ListActiveForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	threshold := now.Add(-StaleAfter)
	var stale []model.Task
	for _, task := range tasks {
		if task.CreatedAt.Before(threshold) && !settings.StaleDismissed(task.ID) {
			stale = append(stale, task)
		}
	}
	return stale, nil
}

// DismissStale suppresses further confrontation for a task. The dismissal
// does not expire.
func (s *TaskService) DismissStale(ctx context.Context, userID, taskID string) error {
	settings, err := s.settings.Get(ctx, userID)
	if err != nil {
		return err
	}
	if settings.StaleDismissed(taskID) {
		return nil
	}
	settings.DismissedStaleTaskIDs = append(settings.DismissedStaleTaskIDs, taskID)
	return s.settings.Save(ctx, settings)
}

// CompleteMorningCommitment records today's commitment ritual together
// with the tasks the user committed to.
func (s *TaskService) CompleteMorningCommitment(ctx context.Context, userID string, taskIDs []string, now time.Time) error {
	settings, err := s.settings.Get(ctx, userID)
	if err != nil {
		return err
	}
	settings.LastCommitmentDate = now.Format(model.CommitmentDateLayout)
	settings.CommittedTaskIDs = slices.Clone(taskIDs)
	return s.settings.Save(ctx, settings)
}

// NeedsMorningCommitment reports whether the ritual is still due today.
func (s *TaskService) NeedsMorningCommitment(ctx context.Context, userID string, now time.Time) (bool, error) {
	settings, err := s.settings.Get(ctx, userID)
	if err != nil {
		return false, err
	}
	return settings.NeedsMorningCommitment(now), nil
}
