package dto

import (
	"time"

	"gtdagent/model"
)

// TaskRequest is the body of POST /api/tasks and PUT /api/tasks/:id. A PUT
// replaces every field listed here.
type TaskRequest struct {
	ID            string           `json:"id"` // honoured on create only
	Title         string           `json:"title" binding:"required"`
	Description   string           `json:"description"`
	Status        model.TaskStatus `json:"status"`
	ProjectID     string           `json:"projectId"`
	ContextIDs    []string         `json:"contextIds"`
	DueDate       *time.Time       `json:"dueDate"`
	ScheduledDate *time.Time       `json:"scheduledDate"`
	Priority      model.Priority   `json:"priority"`
	EnergyLevel   model.Priority   `json:"energyLevel"`
	EstimatedTime int              `json:"estimatedTime" binding:"gte=0"`
	Notes         string           `json:"notes"`
}

// Apply copies the request onto t, keeping identity and timestamps.
// Missing status and priority fall back to inbox and medium.
func (r TaskRequest) Apply(t model.Task) model.Task {
	t.Title = r.Title
	t.Description = r.Description
	t.Status = r.Status
	if t.Status == "" {
		t.Status = model.StatusInbox
	}
	t.ProjectID = r.ProjectID
	t.ContextIDs = r.ContextIDs
	t.DueDate = r.DueDate
	t.ScheduledDate = r.ScheduledDate
	t.Priority = r.Priority
	if t.Priority == "" {
		t.Priority = model.PriorityMedium
	}
	t.EnergyLevel = r.EnergyLevel
	t.EstimatedTime = r.EstimatedTime
	t.Notes = r.Notes
	if t.Status != model.StatusCompleted {
		t.CompletedAt = nil
	}
	return t
}

// Validate reports the first enum field holding an unknown value.
func (r TaskRequest) Validate() string {
	if r.Status != "" && !r.Status.Valid() {
		return "Invalid status"
	}
	if r.Priority != "" && !r.Priority.Valid() {
		return "Invalid priority"
	}
	if r.EnergyLevel != "" && !r.EnergyLevel.Valid() {
		return "Invalid energy level"
	}
	return ""
}

type TaskStatusRequest struct {
	Status model.TaskStatus `json:"status" binding:"required"`
}
