package service

import (
	"sync"
	"testing"
	"time"

	"taskapp/internal/model"
)

type fireRecorder struct {
	mu    sync.Mutex
	fired []int
	ch    chan int
}

func newFireRecorder() *fireRecorder {
	return &fireRecorder{ch: make(chan int, 16)}
}

func (r *fireRecorder) fire(taskID int) {
	r.mu.Lock()
	r.fired = append(r.fired, taskID)
	r.mu.Unlock()
	r.ch <- taskID
}

func (r *fireRecorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.fired)
}

func (r *fireRecorder) wait(t *testing.T) int {
	t.Helper()
	select {
	case id := <-r.ch:
		return id
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for wake-up to fire")
		return 0
	}
}

func taskDueIn(id int, d time.Duration) *model.Task {
	return &model.Task{ID: id, Title: "t", Contents: "c", DueAt: time.Now().Add(d)}
}

func TestAlarmServiceFiresWithTaskID(t *testing.T) {
	rec := newFireRecorder()
	alarms := NewAlarmService(rec.fire)
	defer alarms.Stop()

	if err := alarms.Schedule(taskDueIn(5, 20*time.Millisecond)); err != nil {
		t.Fatalf("schedule: %v", err)
	}
	if id := rec.wait(t); id != 5 {
		t.Fatalf("fired with id %d, want 5", id)
	}
	if alarms.Pending(5) {
		t.Fatal("wake-up still pending after firing")
	}
}

func TestAlarmSchedulePastDueFiresImmediately(t *testing.T) {
	rec := newFireRecorder()
	alarms := NewAlarmService(rec.fire)
	defer alarms.Stop()

	if err := alarms.Schedule(taskDueIn(1, -time.Hour)); err != nil {
		t.Fatalf("schedule: %v", err)
	}
	rec.wait(t)
}

func TestAlarmScheduleReplacesPendingWakeup(t *testing.T) {
	rec := newFireRecorder()
	alarms := NewAlarmService(rec.fire)
	defer alarms.Stop()

	// First registration far in the future, the replacement near. Exactly
	// one wake-up fires, at the most recently scheduled time.
	if err := alarms.Schedule(taskDueIn(3, time.Hour)); err != nil {
		t.Fatalf("schedule: %v", err)
	}
	if err := alarms.Schedule(taskDueIn(3, 20*time.Millisecond)); err != nil {
		t.Fatalf("reschedule: %v", err)
	}

	rec.wait(t)
	time.Sleep(50 * time.Millisecond)
	if got := rec.count(); got != 1 {
		t.Fatalf("fired %d times, want exactly 1", got)
	}
}

func TestAlarmCancelIsIdempotent(t *testing.T) {
	rec := newFireRecorder()
	alarms := NewAlarmService(rec.fire)
	defer alarms.Stop()

	if err := alarms.Schedule(taskDueIn(2, time.Hour)); err != nil {
		t.Fatalf("schedule: %v", err)
	}
	alarms.Cancel(2)
	if alarms.Pending(2) {
		t.Fatal("wake-up still pending after cancel")
	}

	// A second cancel, and a cancel for an unknown id, are no-ops.
	alarms.Cancel(2)
	alarms.Cancel(99)
}

func TestAlarmCancelPreventsFiring(t *testing.T) {
	rec := newFireRecorder()
	alarms := NewAlarmService(rec.fire)
	defer alarms.Stop()

	if err := alarms.Schedule(taskDueIn(4, 40*time.Millisecond)); err != nil {
		t.Fatalf("schedule: %v", err)
	}
	alarms.Cancel(4)

	time.Sleep(100 * time.Millisecond)
	if got := rec.count(); got != 0 {
		t.Fatalf("fired %d times after cancel, want 0", got)
	}
}

func TestAlarmScheduleRejectsUnassignedID(t *testing.T) {
	rec := newFireRecorder()
	alarms := NewAlarmService(rec.fire)
	defer alarms.Stop()

	if err := alarms.Schedule(taskDueIn(model.UnassignedID, time.Hour)); err == nil {
		t.Fatal("schedule with unassigned id succeeded, want error")
	}
}
