package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"accountability/internal/model"
)

// TaskRepository handles CRUD for tasks.
type TaskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

func (r *TaskRepository) Create(ctx context.Context, task *model.Task) error {
	if err := r.db.WithContext(ctx).Create(task).Error; err != nil {
		return fmt.Errorf("create task: %w", err)
	}
	return nil
}

// ListForUser returns every task a user owns, including done ones.
func (r *TaskRepository) ListForUser(ctx context.Context, userID string) ([]model.Task, error) {
	var tasks []model.Task
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).
		Order("deadline, created_at DESC").
		Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// ListActiveForUser returns a user's tasks outside the done bucket.
func (r *TaskRepository) ListActiveForUser(ctx context.Context, userID string) ([]model.Task, error) {
	var tasks []model.Task
	if err := r.db.WithContext(ctx).Where("user_id = ? AND bucket <> ?", userID, model.BucketDone).
		Order("deadline, created_at DESC").
		Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

func (r *TaskRepository) FindByID(ctx context.Context, userID, taskID string) (*model.Task, error) {
	var task model.Task
	if err := r.db.WithContext(ctx).Where("user_id = ? AND id = ?", userID, taskID).First(&task).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

func (r *TaskRepository) Save(ctx context.Context, task *model.Task) error {
	if err := r.db.WithContext(ctx).Save(task).Error; err != nil {
		return fmt.Errorf("save task: %w", err)
	}
	return nil
}

// CommitReminder records a delivered reminder. The update is conditional
// on the last_reminded_at value observed before delivery, so an
// overlapping sweep that already committed loses the race instead of
// double-counting. Returns false when the guard did not match.
func (r *TaskRepository) CommitReminder(ctx context.Context, task *model.Task, now time.Time, level int) (bool, error) {
	q := r.db.WithContext(ctx).Model(&model.Task{}).Where("id = ?", task.ID)
	if task.LastRemindedAt == nil {
		q = q.Where("last_reminded_at IS NULL")
	} else {
		q = q.Where("last_reminded_at = ?", *task.LastRemindedAt)
	}
	res := q.Updates(map[string]interface{}{
		"last_reminded_at": now,
		"escalation_level": level,
	})
	if res.Error != nil {
		return false, fmt.Errorf("commit reminder: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return false, nil
	}
	task.LastRemindedAt = &now
	task.EscalationLevel = level
	return true, nil
}

// Delete removes a task for the given user.
func (r *TaskRepository) Delete(ctx context.Context, userID, taskID string) error {
	if err := r.db.WithContext(ctx).Where("user_id = ? AND id = ?", userID, taskID).
		Delete(&model.Task{}).Error; err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	return nil
}
