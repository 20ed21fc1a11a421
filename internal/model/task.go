package model

import "time"

// Task represents a single reminder item. DueAt carries minute precision and
// drives the one-shot alarm; CategoryName references Category.Name at save
// time.
type Task struct {
	ID           int `gorm:"primaryKey;autoIncrement:false"`
	Title        string
	Contents     string
	DueAt        time.Time `gorm:"index"`
	CategoryName string    `gorm:"index"`
}

// IsNew reports whether the task has not been persisted yet.
func (t Task) IsNew() bool {
	return t.ID < 0
}
