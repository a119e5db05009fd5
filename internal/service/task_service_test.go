package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"accountability/internal/model"
	"accountability/internal/parser"
	"accountability/internal/service"
)

var createNow = time.Date(2024, time.January, 15, 10, 0, 0, 0, time.UTC)

func newTaskService(tasks *mockTaskStore, settings *mockSettingsStore) *service.TaskService {
	return service.NewTaskService(tasks, settings, parser.New())
}

func intPtr(n int) *int { return &n }

func TestCreateFromMessage(t *testing.T) {
	tasks := new(mockTaskStore)
	settings := new(mockSettingsStore)

	var created *model.Task
	tasks.On("Create", mock.Anything, mock.AnythingOfType("*model.Task")).Run(func(args mock.Arguments) {
		created = args.Get(1).(*model.Task)
	}).Return(nil)

	task, result, err := newTaskService(tasks, settings).CreateFromMessage(context.Background(), "u1", "Buy groceries tomorrow #work", createNow)

	assert.NoError(t, err)
	assert.Same(t, created, task)
	assert.Equal(t, "u1", task.UserID)
	assert.Equal(t, "Buy groceries", task.Title)
	assert.NotEmpty(t, task.ID)
	assert.Equal(t, model.BucketThisWeek, task.Bucket)
	assert.Equal(t, model.FrequencyHourly, task.ReminderFrequency)
	assert.Equal(t, 0, task.EscalationLevel)
	assert.Nil(t, task.LastRemindedAt)
	assert.Equal(t, []model.Tag{model.NewTag(model.TagManagement)}, task.Tags)
	assert.Equal(t, parser.ConfidenceMedium, result.Task.Confidence)
}

func TestCreateFromMessageParseErrorStoresNothing(t *testing.T) {
	tasks := new(mockTaskStore)
	settings := new(mockSettingsStore)

	task, result, err := newTaskService(tasks, settings).CreateFromMessage(context.Background(), "u1", "hi", createNow)

	assert.ErrorIs(t, err, parser.ErrMessageTooShort)
	assert.Nil(t, task)
	assert.Nil(t, result)
	tasks.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateFromMessagePersistError(t *testing.T) {
	tasks := new(mockTaskStore)
	settings := new(mockSettingsStore)

	tasks.On("Create", mock.Anything, mock.Anything).Return(errors.New("db down"))

	task, result, err := newTaskService(tasks, settings).CreateFromMessage(context.Background(), "u1", "Buy groceries tomorrow", createNow)

	assert.Error(t, err)
	assert.Nil(t, task)
	assert.NotNil(t, result)
}

func TestCompleteOneOffTask(t *testing.T) {
	tasks := new(mockTaskStore)
	settings := new(mockSettingsStore)

	task := &model.Task{ID: "t1", UserID: "u1", Title: "x", Bucket: model.BucketToday, Deadline: createNow}
	tasks.On("FindByID", mock.Anything, "u1", "t1").Return(task, nil)
	tasks.On("Save", mock.Anything, task).Return(nil)

	successor, err := newTaskService(tasks, settings).Complete(context.Background(), "u1", "t1", createNow)

	assert.NoError(t, err)
	assert.Nil(t, successor)
	assert.Equal(t, model.BucketDone, task.Bucket)
	assert.Equal(t, createNow, *task.CompletedAt)
	tasks.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCompleteRecurringSpawnsSuccessor(t *testing.T) {
	tasks := new(mockTaskStore)
	settings := new(mockSettingsStore)

	lastReminded := createNow.Add(-time.Hour)
	task := &model.Task{
		ID:                "t1",
		UserID:            "u1",
		Title:             "Water plants",
		Notes:             "kitchen and balcony",
		Deadline:          createNow.Add(-2 * time.Hour),
		Bucket:            model.BucketToday,
		ReminderFrequency: model.FrequencyFewHours,
		LastRemindedAt:    &lastReminded,
		EscalationLevel:   2,
		Tags:              []model.Tag{model.NewTag(model.TagManagement)},
		RecurPattern:      "daily",
	}
	tasks.On("FindByID", mock.Anything, "u1", "t1").Return(task, nil)
	tasks.On("Save", mock.Anything, task).Return(nil)

	var spawned *model.Task
	tasks.On("Create", mock.Anything, mock.AnythingOfType("*model.Task")).Run(func(args mock.Arguments) {
		spawned = args.Get(1).(*model.Task)
	}).Return(nil)

	successor, err := newTaskService(tasks, settings).Complete(context.Background(), "u1", "t1", createNow)

	assert.NoError(t, err)
	assert.Same(t, spawned, successor)
	assert.NotEqual(t, task.ID, successor.ID)
	assert.Equal(t, task.Title, successor.Title)
	assert.Equal(t, task.Notes, successor.Notes)
	assert.Equal(t, task.Tags, successor.Tags)
	assert.Equal(t, task.ReminderFrequency, successor.ReminderFrequency)
	assert.Equal(t, "daily", successor.RecurPattern)
	// Fresh reminder state, and always parked in later no matter how
	// soon the next occurrence is.
	assert.Equal(t, model.BucketLater, successor.Bucket)
	assert.Equal(t, 0, successor.EscalationLevel)
	assert.Nil(t, successor.LastRemindedAt)
	assert.Nil(t, successor.CompletedAt)
	assert.True(t, successor.Deadline.After(createNow))
}

func TestCompleteRecurringPastEndDate(t *testing.T) {
	tasks := new(mockTaskStore)
	settings := new(mockSettingsStore)

	end := createNow.Add(-24 * time.Hour)
	task := &model.Task{
		ID:           "t1",
		UserID:       "u1",
		Title:        "Weekly review",
		Deadline:     createNow.Add(-time.Hour),
		Bucket:       model.BucketToday,
		RecurPattern: "weekly",
		RecurEndDate: &end,
	}
	tasks.On("FindByID", mock.Anything, "u1", "t1").Return(task, nil)
	tasks.On("Save", mock.Anything, task).Return(nil)

	successor, err := newTaskService(tasks, settings).Complete(context.Background(), "u1", "t1", createNow)

	assert.NoError(t, err)
	assert.Nil(t, successor)
	assert.Equal(t, model.BucketDone, task.Bucket)
	tasks.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCompleteMonthlyUsesConfiguredDay(t *testing.T) {
	tasks := new(mockTaskStore)
	settings := new(mockSettingsStore)

	task := &model.Task{
		ID:              "t1",
		UserID:          "u1",
		Title:           "Pay rent",
		Deadline:        time.Date(2024, time.January, 31, 18, 0, 0, 0, time.UTC),
		Bucket:          model.BucketToday,
		RecurPattern:    "monthly",
		RecurDayOfMonth: intPtr(31),
	}
	tasks.On("FindByID", mock.Anything, "u1", "t1").Return(task, nil)
	tasks.On("Save", mock.Anything, task).Return(nil)

	var spawned *model.Task
	tasks.On("Create", mock.Anything, mock.AnythingOfType("*model.Task")).Run(func(args mock.Arguments) {
		spawned = args.Get(1).(*model.Task)
	}).Return(nil)

	now := time.Date(2024, time.January, 31, 20, 0, 0, 0, time.UTC)
	_, err := newTaskService(tasks, settings).Complete(context.Background(), "u1", "t1", now)

	assert.NoError(t, err)
	// February has no 31st; the occurrence clamps to the last day.
	assert.Equal(t, time.February, spawned.Deadline.Month())
	assert.Equal(t, 29, spawned.Deadline.Day())
}

func TestReopen(t *testing.T) {
	tasks := new(mockTaskStore)
	settings := new(mockSettingsStore)

	completed := createNow.Add(-time.Hour)
	task := &model.Task{ID: "t1", UserID: "u1", Bucket: model.BucketDone, CompletedAt: &completed}
	tasks.On("FindByID", mock.Anything, "u1", "t1").Return(task, nil)
	tasks.On("Save", mock.Anything, task).Return(nil)

	got, err := newTaskService(tasks, settings).Reopen(context.Background(), "u1", "t1", model.BucketThisWeek)

	assert.NoError(t, err)
	assert.Equal(t, model.BucketThisWeek, got.Bucket)
	assert.Nil(t, got.CompletedAt)
}

func TestRescheduleResetsEscalation(t *testing.T) {
	tasks := new(mockTaskStore)
	settings := new(mockSettingsStore)

	lastReminded := createNow.Add(-time.Hour)
	task := &model.Task{
		ID:              "t1",
		UserID:          "u1",
		Deadline:        createNow.Add(-24 * time.Hour),
		Bucket:          model.BucketToday,
		LastRemindedAt:  &lastReminded,
		EscalationLevel: 3,
	}
	tasks.On("FindByID", mock.Anything, "u1", "t1").Return(task, nil)
	tasks.On("Save", mock.Anything, task).Return(nil)

	newDeadline := createNow.Add(48 * time.Hour)
	got, err := newTaskService(tasks, settings).Reschedule(context.Background(), "u1", "t1", newDeadline)

	assert.NoError(t, err)
	assert.Equal(t, newDeadline, got.Deadline)
	assert.Equal(t, 0, got.EscalationLevel)
	assert.Nil(t, got.LastRemindedAt)
}

func TestDelegate(t *testing.T) {
	tasks := new(mockTaskStore)
	settings := new(mockSettingsStore)

	task := &model.Task{ID: "t1", UserID: "u1"}
	tasks.On("FindByID", mock.Anything, "u1", "t1").Return(task, nil)
	tasks.On("Save", mock.Anything, task).Return(nil)

	svc := newTaskService(tasks, settings)

	got, err := svc.Delegate(context.Background(), "u1", "t1", "alice")
	assert.NoError(t, err)
	assert.True(t, got.IsDelegated())
	assert.Equal(t, "alice", *got.DelegatedTo)

	got, err = svc.Delegate(context.Background(), "u1", "t1", "")
	assert.NoError(t, err)
	assert.False(t, got.IsDelegated())
}

func TestStaleTasks(t *testing.T) {
	tasks := new(mockTaskStore)
	settings := new(mockSettingsStore)

	old := createNow.Add(-8 * 24 * time.Hour)
	fresh := createNow.Add(-2 * 24 * time.Hour)

	settings.On("Get", mock.Anything, "u1").Return(&model.UserSettings{
		UserID:                "u1",
		DismissedStaleTaskIDs: []string{"t-dismissed"},
	}, nil)
	tasks.On("ListActiveForUser", mock.Anything, "u1").Return([]model.Task{
		{ID: "t-old", CreatedAt: old},
		{ID: "t-dismissed", CreatedAt: old},
		{ID: "t-fresh", CreatedAt: fresh},
	}, nil)

	stale, err := newTaskService(tasks, settings).StaleTasks(context.Background(), "u1", createNow)

	assert.NoError(t, err)
	assert.Len(t, stale, 1)
	assert.Equal(t, "t-old", stale[0].ID)
}

func TestDismissStaleIdempotent(t *testing.T) {
	tasks := new(mockTaskStore)
	settings := new(mockSettingsStore)

	stored := &model.UserSettings{UserID: "u1", DismissedStaleTaskIDs: []string{"t1"}}
	settings.On("Get", mock.Anything, "u1").Return(stored, nil)

	err := newTaskService(tasks, settings).DismissStale(context.Background(), "u1", "t1")

	assert.NoError(t, err)
	settings.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestMorningCommitment(t *testing.T) {
	tasks := new(mockTaskStore)
	settings := new(mockSettingsStore)

	stored := &model.UserSettings{UserID: "u1"}
	settings.On("Get", mock.Anything, "u1").Return(stored, nil)
	settings.On("Save", mock.Anything, stored).Return(nil)

	svc := newTaskService(tasks, settings)

	due, err := svc.NeedsMorningCommitment(context.Background(), "u1", createNow)
	assert.NoError(t, err)
	assert.True(t, due)

	assert.NoError(t, svc.CompleteMorningCommitment(context.Background(), "u1", []string{"t1", "t2"}, createNow))
	assert.Equal(t, "2024-01-15", stored.LastCommitmentDate)
	assert.Equal(t, []string{"t1", "t2"}, stored.CommittedTaskIDs)

	due, err = svc.NeedsMorningCommitment(context.Background(), "u1", createNow)
	assert.NoError(t, err)
	assert.False(t, due)
}
