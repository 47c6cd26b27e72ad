package model

import "time"

type ProjectStatus string

const (
	ProjectActive    ProjectStatus = "active"
	ProjectCompleted ProjectStatus = "completed"
	ProjectOnHold    ProjectStatus = "on-hold"
)

func (s ProjectStatus) Valid() bool {
	return s == ProjectActive || s == ProjectCompleted || s == ProjectOnHold
}

// Project groups tasks by id. Deleting a project leaves its tasks in place.
type Project struct {
	ID          string        `json:"id" firestore:"id"`
	Name        string        `json:"name" firestore:"name"`
	Description string        `json:"description,omitempty" firestore:"description,omitempty"`
	Tasks       []string      `json:"tasks" firestore:"tasks"`
	CreatedAt   time.Time     `json:"createdAt" firestore:"createdAt"`
	UpdatedAt   time.Time     `json:"updatedAt" firestore:"updatedAt"`
	CompletedAt *time.Time    `json:"completedAt,omitempty" firestore:"completedAt,omitempty"`
	Status      ProjectStatus `json:"status" firestore:"status"`
}

func (p Project) Key() string { return p.ID }
