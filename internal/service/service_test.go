package service

import (
	"context"
	"testing"
	"time"

	"taskapp/internal/event"
	"taskapp/internal/model"
	"taskapp/internal/repository"
)

type testEnv struct {
	categories *CategoryService
	tasks      *TaskService
	reminders  *ReminderService
	alarms     *AlarmService
}

func setupEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := repository.NewDB(":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	// A :memory: database exists per connection, so keep the pool at one.
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("unwrap db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	bus := event.NewBus()
	categoryRepo := repository.NewCategoryRepository(db, bus)
	taskRepo := repository.NewTaskRepository(db, bus)

	alarms := NewAlarmService(func(int) {})
	t.Cleanup(alarms.Stop)

	return &testEnv{
		categories: NewCategoryService(categoryRepo),
		tasks:      NewTaskService(taskRepo, categoryRepo, alarms),
		reminders:  NewReminderService(taskRepo),
		alarms:     alarms,
	}
}

func (e *testEnv) mustCategory(t *testing.T, name string) model.Category {
	t.Helper()

	category, err := e.categories.Create(context.Background(), name)
	if err != nil {
		t.Fatalf("create category %q: %v", name, err)
	}
	return *category
}

func (e *testEnv) mustTask(t *testing.T, title, categoryName string, dueAt time.Time) model.Task {
	t.Helper()

	task := &model.Task{
		ID:           model.UnassignedID,
		Title:        title,
		Contents:     "contents of " + title,
		DueAt:        dueAt,
		CategoryName: categoryName,
	}
	saved, err := e.tasks.Save(context.Background(), task)
	if err != nil {
		t.Fatalf("save task %q: %v", title, err)
	}
	return *saved
}
