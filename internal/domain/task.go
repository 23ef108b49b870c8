package domain

import "time"

// TaskStatus enumerates task progress.
type TaskStatus string

const (
	TaskStatusToDo       TaskStatus = "To Do"
	TaskStatusInProgress TaskStatus = "In Progress"
	TaskStatusDone       TaskStatus = "Done"
)

// Valid reports whether s is a known status. Any valid status may follow any other.
func (s TaskStatus) Valid() bool {
	switch s {
	case TaskStatusToDo, TaskStatusInProgress, TaskStatusDone:
		return true
	}
	return false
}

// Task is an internal crew work item.
type Task struct {
	ID           string
	Title        string
	Description  string
	Status       TaskStatus
	AssigneeID   string
	AssigneeName string
	TeamID       *string
	DueDate      *time.Time
	CreatedAt    time.Time
	CreatedBy    string
	CreatorName  string
}
