package service

import (
	"context"
	"fmt"
	"html"
	"strings"
	"time"

	"taskapp/internal/model"
	"taskapp/internal/repository"
)

// ReminderService builds human-readable notification texts. The task is
// reloaded when an alarm fires so the notification always shows the current
// title and contents, not the ones from scheduling time.
type ReminderService struct {
	tasks *repository.TaskRepository
}

func NewReminderService(tasks *repository.TaskRepository) *ReminderService {
	return &ReminderService{tasks: tasks}
}

// DueMessage resolves the fired task id into notification text. A task
// deleted between scheduling and firing yields model.ErrNotFound; the caller
// drops the notification.
func (s *ReminderService) DueMessage(ctx context.Context, taskID int) (string, error) {
	task, err := s.tasks.FindByID(ctx, taskID)
	if err != nil {
		return "", err
	}
	if task == nil {
		return "", fmt.Errorf("%w: task %d", model.ErrNotFound, taskID)
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("⏰ <b>%s</b>", html.EscapeString(strings.TrimSpace(task.Title))))
	if task.CategoryName != "" {
		sb.WriteString(fmt.Sprintf(" <i>(%s)</i>", html.EscapeString(task.CategoryName)))
	}
	sb.WriteString(fmt.Sprintf("\n📝 %s", html.EscapeString(strings.TrimSpace(task.Contents))))
	sb.WriteString(fmt.Sprintf("\n🗓 %s", task.DueAt.In(time.Local).Format("2006-01-02 15:04")))
	return sb.String(), nil
}

// DailySummary renders an overview of all tasks grouped into overdue, due
// within 48 hours, and later.
func (s *ReminderService) DailySummary(ctx context.Context, now time.Time) (string, error) {
	tasks, err := s.tasks.List(ctx)
	if err != nil {
		return "", err
	}

	var overdue, soon, later []model.Task
	for _, task := range tasks {
		due := task.DueAt.In(now.Location())
		switch {
		case now.After(due):
			overdue = append(overdue, task)
		case due.Sub(now) <= 48*time.Hour:
			soon = append(soon, task)
		default:
			later = append(later, task)
		}
	}

	var sb strings.Builder
	sb.WriteString("📋 <b>Task summary</b>\n")
	sb.WriteString(fmt.Sprintf("🗓 %s\n", now.Format("2006-01-02")))

	writeSection(&sb, "⚠️ <b>Overdue</b>", overdue, now)
	writeSection(&sb, "⏳ <b>Due soon</b>", soon, now)
	writeSection(&sb, "🟢 <b>Later</b>", later, now)

	return strings.TrimSpace(sb.String()), nil
}

func writeSection(sb *strings.Builder, header string, tasks []model.Task, now time.Time) {
	sb.WriteString("\n" + header + "\n")
	if len(tasks) == 0 {
		sb.WriteString("— none\n")
		return
	}
	for _, task := range tasks {
		sb.WriteString(fmt.Sprintf("• %s", html.EscapeString(strings.TrimSpace(task.Title))))
		if task.CategoryName != "" {
			sb.WriteString(fmt.Sprintf(" <i>(%s)</i>", html.EscapeString(task.CategoryName)))
		}
		sb.WriteString(fmt.Sprintf(" — %s\n", task.DueAt.In(now.Location()).Format("2006-01-02 15:04")))
	}
}
