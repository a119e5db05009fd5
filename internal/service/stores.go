package service

import (
	"context"
	"time"

	"accountability/internal/model"
)

// TaskStore is the task persistence boundary the services depend on.
type TaskStore interface {
	Create(ctx context.Context, task *model.Task) error
	ListForUser(ctx context.Context, userID string) ([]model.Task, error)
	ListActiveForUser(ctx context.Context, userID string) ([]model.Task, error)
	FindByID(ctx context.Context, userID, taskID string) (*model.Task, error)
	Save(ctx context.Context, task *model.Task) error
	CommitReminder(ctx context.Context, task *model.Task, now time.Time, level int) (bool, error)
	Delete(ctx context.Context, userID, taskID string) error
}

// SettingsStore is the suppression-state persistence boundary.
type SettingsStore interface {
	Get(ctx context.Context, userID string) (*model.UserSettings, error)
	FindByChatID(ctx context.Context, chatID int64) (*model.UserSettings, error)
	LinkChat(ctx context.Context, userID string, chatID int64) (*model.UserSettings, error)
	UnlinkChat(ctx context.Context, chatID int64) error
	ListLinked(ctx context.Context) ([]model.UserSettings, error)
	Save(ctx context.Context, settings *model.UserSettings) error
}

// Delivery sends a message to a chat. Implementations reduce every
// transport failure to false; a sweep must never abort on delivery.
type Delivery interface {
	Send(ctx context.Context, chatID int64, text string) bool
}
