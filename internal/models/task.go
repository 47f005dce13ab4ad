package models

import (
	"fmt"
	"time"
)

// DateLayout is the wire and form format for calendar dates.
const DateLayout = "2006-01-02"

// Priority bounds for a task.
const (
	MinPriority = 1
	MaxPriority = 10
)

// TaskStatus is stored as an integer: 1 = open, 0 = complete.
type TaskStatus int

const (
	StatusComplete TaskStatus = 0
	StatusOpen     TaskStatus = 1
)

// String returns the lowercase name of the status.
func (s TaskStatus) String() string {
	switch s {
	case StatusOpen:
		return "open"
	case StatusComplete:
		return "complete"
	}
	return fmt.Sprintf("TaskStatus(%d)", int(s))
}

// ParseTaskStatus maps "open" or "complete" to a status.
func ParseTaskStatus(s string) (TaskStatus, error) {
	switch s {
	case "open":
		return StatusOpen, nil
	case "complete":
		return StatusComplete, nil
	}
	return 0, fmt.Errorf("unknown task status %q", s)
}

// CalendarDate truncates t to midnight UTC of its calendar day.
func CalendarDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a YYYY-MM-DD string into a calendar date.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, err
	}
	return CalendarDate(t), nil
}

// Task is a to-do item owned by exactly one user.
type Task struct {
	ID         int64      `json:"id" gorm:"primaryKey"`
	Name       string     `json:"name" gorm:"not null"`
	DueDate    time.Time  `json:"due_date" gorm:"type:date;not null;index"`
	Priority   int        `json:"priority" gorm:"not null"`
	PostedDate time.Time  `json:"posted_date" gorm:"type:date;not null"`
	Status     TaskStatus `json:"status" gorm:"not null;default:1"`
	UserID     int64      `json:"user_id" gorm:"not null;index"`
	User       *User      `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

// TableName returns the database table name for the Task model.
func (Task) TableName() string {
	return "tasks"
}

// IsOpen reports whether the task has not been completed yet.
func (t *Task) IsOpen() bool {
	return t.Status == StatusOpen
}
