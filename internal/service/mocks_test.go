package service_test

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"accountability/internal/model"
)

type mockTaskStore struct {
	mock.Mock
}

func (m *mockTaskStore) Create(ctx context.Context, task *model.Task) error {
	args := m.Called(ctx, task)
	return args.Error(0)
}

func (m *mockTaskStore) ListForUser(ctx context.Context, userID string) ([]model.Task, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Task), args.Error(1)
}

func (m *mockTaskStore) ListActiveForUser(ctx context.Context, userID string) ([]model.Task, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Task), args.Error(1)
}

func (m *mockTaskStore) FindByID(ctx context.Context, userID, taskID string) (*model.Task, error) {
	args := m.Called(ctx, userID, taskID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Task), args.Error(1)
}

func (m *mockTaskStore) Save(ctx context.Context, task *model.Task) error {
	args := m.Called(ctx, task)
	return args.Error(0)
}

func (m *mockTaskStore) CommitReminder(ctx context.Context, task *model.Task, now time.Time, level int) (bool, error) {
	args := m.Called(ctx, task, now, level)
	return args.Bool(0), args.Error(1)
}

func (m *mockTaskStore) Delete(ctx context.Context, userID, taskID string) error {
	args := m.Called(ctx, userID, taskID)
	return args.Error(0)
}

type mockSettingsStore struct {
	mock.Mock
}

func (m *mockSettingsStore) Get(ctx context.Context, userID string) (*model.UserSettings, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.UserSettings), args.Error(1)
}

func (m *mockSettingsStore) FindByChatID(ctx context.Context, chatID int64) (*model.UserSettings, error) {
	args := m.Called(ctx, chatID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.UserSettings), args.Error(1)
}

func (m *mockSettingsStore) LinkChat(ctx context.Context, userID string, chatID int64) (*model.UserSettings, error) {
	args := m.Called(ctx, userID, chatID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.UserSettings), args.Error(1)
}

func (m *mockSettingsStore) UnlinkChat(ctx context.Context, chatID int64) error {
	args := m.Called(ctx, chatID)
	return args.Error(0)
}

func (m *mockSettingsStore) ListLinked(ctx context.Context) ([]model.UserSettings, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.UserSettings), args.Error(1)
}

func (m *mockSettingsStore) Save(ctx context.Context, settings *model.UserSettings) error {
	args := m.Called(ctx, settings)
	return args.Error(0)
}

type mockDelivery struct {
	mock.Mock
}

func (m *mockDelivery) Send(ctx context.Context, chatID int64, text string) bool {
	args := m.Called(ctx, chatID, text)
	return args.Bool(0)
}
