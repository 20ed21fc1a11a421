package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"taskapp/internal/event"
	"taskapp/internal/model"
)

// TaskRepository handles CRUD for tasks.
type TaskRepository struct {
	db  *gorm.DB
	bus *event.Bus
}

func NewTaskRepository(db *gorm.DB, bus *event.Bus) *TaskRepository {
	return &TaskRepository{db: db, bus: bus}
}

// List returns every task ordered by due time, newest first.
func (r *TaskRepository) List(ctx context.Context) ([]model.Task, error) {
	var tasks []model.Task
	if err := r.db.WithContext(ctx).Order("due_at DESC").Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return tasks, nil
}

// ListByCategory returns tasks referencing the given category name, ordered
// by due time, newest first.
func (r *TaskRepository) ListByCategory(ctx context.Context, categoryName string) ([]model.Task, error) {
	var tasks []model.Task
	if err := r.db.WithContext(ctx).Where("category_name = ?", categoryName).
		Order("due_at DESC").Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("list tasks by category: %w", err)
	}
	return tasks, nil
}

// ListDueAfter returns tasks whose due time is strictly after t, for re-arming
// alarms on startup.
func (r *TaskRepository) ListDueAfter(ctx context.Context, t time.Time) ([]model.Task, error) {
	var tasks []model.Task
	if err := r.db.WithContext(ctx).Where("due_at > ?", t).
		Order("due_at ASC").Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("list pending tasks: %w", err)
	}
	return tasks, nil
}

// FindByID returns the task with the given id, or nil when absent.
func (r *TaskRepository) FindByID(ctx context.Context, id int) (*model.Task, error) {
	var task model.Task
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&task).Error
	switch {
	case err == nil:
		return &task, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, nil
	default:
		return nil, fmt.Errorf("find task: %w", err)
	}
}

// Create allocates an id and inserts the task in one transaction.
func (r *TaskRepository) Create(ctx context.Context, task *model.Task) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		id, err := nextID(tx, &model.Task{})
		if err != nil {
			return err
		}
		task.ID = id
		if err := tx.Create(task).Error; err != nil {
			return fmt.Errorf("create task: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	r.bus.Publish(event.Change{Kind: event.KindTask, ID: task.ID})
	return nil
}

// Update replaces all fields of the task identified by task.ID.
func (r *TaskRepository) Update(ctx context.Context, task *model.Task) error {
	res := r.db.WithContext(ctx).Model(&model.Task{}).Where("id = ?", task.ID).
		Select("*").Updates(task)
	if res.Error != nil {
		return fmt.Errorf("update task: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return model.ErrNotFound
	}

	r.bus.Publish(event.Change{Kind: event.KindTask, ID: task.ID})
	return nil
}

// Delete removes the task with the given id.
func (r *TaskRepository) Delete(ctx context.Context, id int) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Task{})
	if res.Error != nil {
		return fmt.Errorf("delete task: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return model.ErrNotFound
	}

	r.bus.Publish(event.Change{Kind: event.KindTask, ID: id})
	return nil
}
