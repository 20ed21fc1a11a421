package repository

import (
	"context"
	"testing"
	"time"

	"gorm.io/gorm"

	"taskapp/internal/event"
	"taskapp/internal/model"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := NewDB(":memory:")
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
	return db
}

func setupRepos(t *testing.T) (*CategoryRepository, *TaskRepository, *event.Bus) {
	t.Helper()

	db := setupDB(t)
	bus := event.NewBus()
	return NewCategoryRepository(db, bus), NewTaskRepository(db, bus), bus
}

func mustCreateCategory(t *testing.T, repo *CategoryRepository, name string) model.Category {
	t.Helper()

	category, err := repo.Create(context.Background(), name)
	if err != nil {
		t.Fatalf("create category %q: %v", name, err)
	}
	return *category
}

func mustCreateTask(t *testing.T, repo *TaskRepository, title, categoryName string, dueAt time.Time) model.Task {
	t.Helper()

	task := model.Task{
		ID:           model.UnassignedID,
		Title:        title,
		Contents:     "contents of " + title,
		DueAt:        dueAt,
		CategoryName: categoryName,
	}
	if err := repo.Create(context.Background(), &task); err != nil {
		t.Fatalf("create task %q: %v", title, err)
	}
	return task
}
