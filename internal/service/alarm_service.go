package service

import (
	"fmt"
	"sync"
	"time"

	"taskapp/internal/model"
)

// AlarmService keeps at most one pending one-shot wake-up per task id. When a
// wake-up fires it invokes the handler with the task id only; the caller
// resolves the display content at fire time, since the task may have been
// edited or deleted since scheduling.
type AlarmService struct {
	mu     sync.Mutex
	timers map[int]*time.Timer
	fire   func(taskID int)
}

func NewAlarmService(fire func(taskID int)) *AlarmService {
	return &AlarmService{
		timers: make(map[int]*time.Timer),
		fire:   fire,
	}
}

// Schedule registers a wake-up for the task at its due time, replacing any
// wake-up already pending for the same id. Due times in the past fire
// immediately.
func (s *AlarmService) Schedule(task *model.Task) error {
	if task.IsNew() {
		return fmt.Errorf("task has no assigned id")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if timer, ok := s.timers[task.ID]; ok {
		timer.Stop()
	}

	id := task.ID
	var timer *time.Timer
	timer = time.AfterFunc(time.Until(task.DueAt), func() {
		// A replacement may have raced an already-expired timer; only the
		// timer still registered for the id removes itself.
		s.mu.Lock()
		if s.timers[id] == timer {
			delete(s.timers, id)
		}
		s.mu.Unlock()
		s.fire(id)
	})
	s.timers[id] = timer
	return nil
}

// Cancel removes the pending wake-up for the given task id. Cancelling an id
// with no pending wake-up is a no-op.
func (s *AlarmService) Cancel(taskID int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if timer, ok := s.timers[taskID]; ok {
		timer.Stop()
		delete(s.timers, taskID)
	}
}

// Pending reports whether a wake-up is currently registered for the task id.
func (s *AlarmService) Pending(taskID int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.timers[taskID]
	return ok
}

// Stop cancels every pending wake-up.
func (s *AlarmService) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, timer := range s.timers {
		timer.Stop()
		delete(s.timers, id)
	}
}
