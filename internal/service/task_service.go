package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"taskapp/internal/model"
	"taskapp/internal/repository"
)

// TaskService wraps task CRUD and the alarm side effects of save/delete.
type TaskService struct {
	tasks      *repository.TaskRepository
	categories *repository.CategoryRepository
	alarms     *AlarmService
}

func NewTaskService(tasks *repository.TaskRepository, categories *repository.CategoryRepository, alarms *AlarmService) *TaskService {
	return &TaskService{tasks: tasks, categories: categories, alarms: alarms}
}

// List returns tasks ordered by due time descending. Passing the "All"
// sentinel returns every task; any other category restricts the result to
// tasks referencing its name.
func (s *TaskService) List(ctx context.Context, filter model.Category) ([]model.Task, error) {
	if filter.IsAll() {
		return s.tasks.List(ctx)
	}
	return s.tasks.ListByCategory(ctx, filter.Name)
}

// GetByID returns the task with the given id, or nil when absent.
func (s *TaskService) GetByID(ctx context.Context, id int) (*model.Task, error) {
	return s.tasks.FindByID(ctx, id)
}

// Save validates and persists the task, creating it when its id is
// unassigned, replacing all fields otherwise. On success a wake-up is
// registered for the due time; a task with an unchanged id keeps exactly one
// pending wake-up because Schedule replaces. Alarm registration failure is
// reported as a warning only, the committed write stays.
func (s *TaskService) Save(ctx context.Context, task *model.Task) (*model.Task, error) {
	if err := s.validate(ctx, task); err != nil {
		return nil, err
	}
	task.DueAt = task.DueAt.Truncate(time.Minute)

	if task.IsNew() {
		if err := s.tasks.Create(ctx, task); err != nil {
			return nil, err
		}
	} else {
		if err := s.tasks.Update(ctx, task); err != nil {
			return nil, err
		}
	}

	if err := s.alarms.Schedule(task); err != nil {
		log.Printf("[warn] schedule reminder for task %d: %v", task.ID, err)
	}
	return task, nil
}

// Delete removes the task and cancels any pending wake-up for its id.
func (s *TaskService) Delete(ctx context.Context, taskID int) error {
	if err := s.tasks.Delete(ctx, taskID); err != nil {
		return err
	}
	s.alarms.Cancel(taskID)
	return nil
}

// RestorePending re-arms wake-ups for every task due after now and returns
// how many were scheduled. Timers live in-process only, so the daemon calls
// this at startup and periodically to pick up writes from other processes.
// Re-scheduling an already armed task is harmless: Schedule replaces.
func (s *TaskService) RestorePending(ctx context.Context, now time.Time) (int, error) {
	tasks, err := s.tasks.ListDueAfter(ctx, now)
	if err != nil {
		return 0, err
	}

	restored := 0
	for i := range tasks {
		if err := s.alarms.Schedule(&tasks[i]); err != nil {
			log.Printf("[warn] restore reminder for task %d: %v", tasks[i].ID, err)
			continue
		}
		restored++
	}
	return restored, nil
}

// validate enforces the required fields and the category reference. Due
// times in the past are allowed; they fire immediately.
func (s *TaskService) validate(ctx context.Context, task *model.Task) error {
	if task.Title == "" {
		return fmt.Errorf("%w: task title is required", model.ErrInvalidInput)
	}
	if task.Contents == "" {
		return fmt.Errorf("%w: task contents are required", model.ErrInvalidInput)
	}
	if task.DueAt.IsZero() {
		return fmt.Errorf("%w: task due time is required", model.ErrInvalidInput)
	}

	category, err := s.categories.FindByName(ctx, task.CategoryName)
	if err != nil {
		return err
	}
	if category == nil {
		return fmt.Errorf("%w: unknown category %q", model.ErrInvalidInput, task.CategoryName)
	}
	return nil
}
