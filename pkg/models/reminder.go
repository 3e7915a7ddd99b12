package models

import (
	"time"

	"github.com/google/uuid"
)

type TaskStatus string

const (
	TaskPending   TaskStatus = "pending"
	TaskFired     TaskStatus = "fired"
	TaskCancelled TaskStatus = "cancelled"
)

// ReminderTask is a delayed one-shot notification. It transitions
// pending->fired or pending->cancelled, exactly once; both are terminal.
type ReminderTask struct {
	ID      uuid.UUID  `json:"id"`
	Target  string     `json:"target"`
	FireAt  time.Time  `json:"fire_at"`
	Message string     `json:"message"`
	Status  TaskStatus `json:"status"`
}
