package model

import (
	"time"
)

type TaskStatus string

const (
	StatusInbox      TaskStatus = "inbox"
	StatusNextAction TaskStatus = "next-action"
	StatusScheduled  TaskStatus = "scheduled"
	StatusSomeday    TaskStatus = "someday"
	StatusCompleted  TaskStatus = "completed"
	StatusReference  TaskStatus = "reference"
)

// TaskStatuses lists every status in the order the views present them.
var TaskStatuses = []TaskStatus{
	StatusInbox,
	StatusNextAction,
	StatusScheduled,
	StatusSomeday,
	StatusCompleted,
	StatusReference,
}

func (s TaskStatus) Valid() bool {
	for _, v := range TaskStatuses {
		if s == v {
			return true
		}
	}
	return false
}

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

func (p Priority) Valid() bool {
	return p == PriorityLow || p == PriorityMedium || p == PriorityHigh
}

// Task is a single GTD item. Status decides which view surfaces it and a
// task belongs to at most one project.
type Task struct {
	ID            string     `json:"id" firestore:"id"`
	Title         string     `json:"title" firestore:"title"`
	Description   string     `json:"description,omitempty" firestore:"description,omitempty"`
	Status        TaskStatus `json:"status" firestore:"status"`
	ProjectID     string     `json:"projectId,omitempty" firestore:"projectId,omitempty"`
	ContextIDs    []string   `json:"contextIds" firestore:"contextIds"`
	DueDate       *time.Time `json:"dueDate,omitempty" firestore:"dueDate,omitempty"`
	ScheduledDate *time.Time `json:"scheduledDate,omitempty" firestore:"scheduledDate,omitempty"`
	Priority      Priority   `json:"priority" firestore:"priority"`
	CreatedAt     time.Time  `json:"createdAt" firestore:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt" firestore:"updatedAt"`
	CompletedAt   *time.Time `json:"completedAt,omitempty" firestore:"completedAt,omitempty"`
	EnergyLevel   Priority   `json:"energyLevel,omitempty" firestore:"energyLevel,omitempty"` // low, medium, high
	EstimatedTime int        `json:"estimatedTime,omitempty" firestore:"estimatedTime,omitempty"` // minutes
	Notes         string     `json:"notes,omitempty" firestore:"notes,omitempty"`
}

func (t Task) Key() string { return t.ID }

// HasContext reports whether the task is tagged with the context id.
func (t Task) HasContext(contextID string) bool {
	for _, id := range t.ContextIDs {
		if id == contextID {
			return true
		}
	}
	return false
}
