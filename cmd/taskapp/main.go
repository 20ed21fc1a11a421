package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"

	"taskapp/internal/config"
	"taskapp/internal/event"
	"taskapp/internal/model"
	"taskapp/internal/notify"
	"taskapp/internal/repository"
	"taskapp/internal/service"
)

const dueTimeLayout = "2006-01-02 15:04"

type app struct {
	cfg         config.Config
	bus         *event.Bus
	categorySvc *service.CategoryService
	taskSvc     *service.TaskService
	reminderSvc *service.ReminderService
	alarms      *service.AlarmService
	notifier    notify.Notifier
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	db, err := repository.NewDB(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	sqlDB, err := db.DB()
	if err == nil {
		defer sqlDB.Close()
	}

	bus := event.NewBus()
	categoryRepo := repository.NewCategoryRepository(db, bus)
	taskRepo := repository.NewTaskRepository(db, bus)

	reminderSvc := service.NewReminderService(taskRepo)

	var notifier notify.Notifier = notify.LogNotifier{}
	if cfg.TelegramToken != "" {
		notifier, err = notify.NewTelegramNotifier(cfg.TelegramToken, cfg.TelegramChatID)
		if err != nil {
			log.Fatalf("notifier: %v", err)
		}
	}

	alarms := service.NewAlarmService(func(taskID int) {
		fireCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		text, err := reminderSvc.DueMessage(fireCtx, taskID)
		if errors.Is(err, model.ErrNotFound) {
			// Deleted between scheduling and firing.
			return
		}
		if err != nil {
			log.Printf("[warn] resolve reminder for task %d: %v", taskID, err)
			return
		}
		if err := notifier.Notify(fireCtx, text); err != nil {
			log.Printf("[warn] deliver reminder for task %d: %v", taskID, err)
		}
	})
	defer alarms.Stop()

	a := &app{
		cfg:         cfg,
		bus:         bus,
		categorySvc: service.NewCategoryService(categoryRepo),
		taskSvc:     service.NewTaskService(taskRepo, categoryRepo, alarms),
		reminderSvc: reminderSvc,
		alarms:      alarms,
		notifier:    notifier,
	}

	cmd := "serve"
	args := os.Args[1:]
	if len(args) > 0 {
		cmd = args[0]
		args = args[1:]
	}

	if err := a.run(ctx, cmd, args); err != nil {
		log.Fatalf("%s: %v", cmd, err)
	}
}

func (a *app) run(ctx context.Context, cmd string, args []string) error {
	switch cmd {
	case "serve":
		return a.serve(ctx)
	case "add":
		return a.addTask(ctx, args)
	case "tasks":
		return a.listTasks(ctx, args)
	case "rm":
		return a.removeTask(ctx, args)
	case "categories":
		return a.listCategories(ctx)
	case "category-add":
		return a.addCategory(ctx, args)
	case "category-rename":
		return a.renameCategory(ctx, args)
	case "category-rm":
		return a.removeCategory(ctx, args)
	case "help", "-h", "--help":
		usage()
		return nil
	default:
		usage()
		return fmt.Errorf("unknown command %q", cmd)
	}
}

// serve keeps alarms armed and delivers notifications until interrupted.
func (a *app) serve(ctx context.Context) error {
	unsubscribe := a.bus.Subscribe(func(c event.Change) {
		log.Printf("[info] %s %d changed", c.Kind, c.ID)
	})
	defer unsubscribe()

	restored, err := a.taskSvc.RestorePending(ctx, time.Now())
	if err != nil {
		return fmt.Errorf("restore alarms: %w", err)
	}
	log.Printf("[info] restored %d pending alarm(s)", restored)

	cr := cron.New(cron.WithLocation(time.Local))

	resyncSpec := fmt.Sprintf("@every %ds", int(a.cfg.AlarmResync.Seconds()))
	if _, err := cr.AddFunc(resyncSpec, func() {
		jobCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if _, err := a.taskSvc.RestorePending(jobCtx, time.Now()); err != nil {
			log.Printf("[warn] alarm resync: %v", err)
		}
	}); err != nil {
		return fmt.Errorf("schedule alarm resync: %w", err)
	}

	if a.cfg.ReportInterval > 0 {
		reportSpec := fmt.Sprintf("@every %ds", int(a.cfg.ReportInterval.Seconds()))
		if _, err := cr.AddFunc(reportSpec, func() {
			jobCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			text, err := a.reminderSvc.DailySummary(jobCtx, time.Now())
			if err != nil {
				log.Printf("[warn] build summary: %v", err)
				return
			}
			if err := a.notifier.Notify(jobCtx, text); err != nil {
				log.Printf("[warn] deliver summary: %v", err)
			}
		}); err != nil {
			return fmt.Errorf("schedule summary: %w", err)
		}
	}

	cr.Start()
	defer func() {
		stopCtx := cr.Stop()
		<-stopCtx.Done()
	}()

	log.Println("[info] taskapp daemon started")
	<-ctx.Done()
	log.Println("[info] shutdown complete")
	return nil
}

func (a *app) addTask(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("add", flag.ContinueOnError)
	title := fs.String("title", "", "task title")
	contents := fs.String("contents", "", "task contents")
	due := fs.String("due", "", "due time, e.g. \"2026-09-01 09:00\"")
	category := fs.String("category", "", "category name")
	id := fs.Int("id", model.UnassignedID, "task id to update (omit to create)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	dueAt, err := time.ParseInLocation(dueTimeLayout, *due, time.Local)
	if err != nil {
		return fmt.Errorf("parse due time %q (want %q): %w", *due, dueTimeLayout, err)
	}

	task := &model.Task{
		ID:           *id,
		Title:        *title,
		Contents:     *contents,
		DueAt:        dueAt,
		CategoryName: *category,
	}
	if _, err := a.taskSvc.Save(ctx, task); err != nil {
		return err
	}

	fmt.Printf("saved task %d\n", task.ID)
	return nil
}

func (a *app) listTasks(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("tasks", flag.ContinueOnError)
	category := fs.String("category", "", "only tasks in this category")
	if err := fs.Parse(args); err != nil {
		return err
	}

	filter := model.AllCategory()
	if *category != "" {
		filter = model.Category{Name: *category}
	}

	tasks, err := a.taskSvc.List(ctx, filter)
	if err != nil {
		return err
	}
	for _, task := range tasks {
		fmt.Printf("%4d  %s  [%s]  %s\n", task.ID, task.DueAt.In(time.Local).Format(dueTimeLayout), task.CategoryName, task.Title)
	}
	return nil
}

func (a *app) removeTask(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: taskapp rm <task-id>")
	}
	id, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid task id %q", args[0])
	}
	return a.taskSvc.Delete(ctx, id)
}

func (a *app) listCategories(ctx context.Context) error {
	categories, err := a.categorySvc.List(ctx)
	if err != nil {
		return err
	}
	for _, category := range categories {
		fmt.Printf("%4d  %s\n", category.ID, category.Name)
	}
	return nil
}

func (a *app) addCategory(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: taskapp category-add <name>")
	}
	category, err := a.categorySvc.Create(ctx, args[0])
	if err != nil {
		return err
	}
	fmt.Printf("created category %d\n", category.ID)
	return nil
}

func (a *app) renameCategory(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: taskapp category-rename <name> <new-name>")
	}
	category, err := a.findCategory(ctx, args[0])
	if err != nil {
		return err
	}
	_, err = a.categorySvc.Rename(ctx, *category, args[1])
	return err
}

func (a *app) removeCategory(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: taskapp category-rm <name>")
	}
	category, err := a.findCategory(ctx, args[0])
	if err != nil {
		return err
	}
	return a.categorySvc.Delete(ctx, *category)
}

func (a *app) findCategory(ctx context.Context, name string) (*model.Category, error) {
	categories, err := a.categorySvc.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, category := range categories {
		if category.Name == name {
			return &category, nil
		}
	}
	return nil, fmt.Errorf("%w: category %q", model.ErrNotFound, name)
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage: taskapp <command> [flags]

commands:
  serve                              run the reminder daemon (default)
  add -title -contents -due -category [-id]
                                     create or update a task
  tasks [-category <name>]           list tasks, newest due first
  rm <task-id>                       delete a task
  categories                         list categories
  category-add <name>                create a category
  category-rename <name> <new-name>  rename a category
  category-rm <name>                 delete an unused category`)
}
