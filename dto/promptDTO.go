package dto

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"

	"gtdagent/model"
)

// Layouts accepted for dates sent by the browser: full timestamps and plain
// calendar dates.
var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// FlexDate is a date that decodes from any of dateLayouts. Empty strings,
// null and values it cannot read leave it unset.
type FlexDate struct {
	t *time.Time
}

func (d *FlexDate) UnmarshalJSON(b []byte) error {
	d.t = nil
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return nil
	}
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			d.t = &t
			return nil
		}
	}
	return nil
}

func (d FlexDate) Time() *time.Time { return d.t }

// FlexMinutes decodes a duration in minutes from a number or a numeric
// string, rounding fractions. Anything else reads as zero.
type FlexMinutes int

func (m *FlexMinutes) UnmarshalJSON(b []byte) error {
	*m = 0
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return nil
	}
	var f float64
	switch x := v.(type) {
	case float64:
		f = x
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return nil
		}
		f = parsed
	default:
		return nil
	}
	if f > 0 && !math.IsInf(f, 0) {
		*m = FlexMinutes(math.Round(f))
	}
	return nil
}

// PromptTask is the part of a task the assistant reads. It is decoded
// leniently since the browser sends whatever it holds in memory.
type PromptTask struct {
	ID            string           `json:"id"`
	Title         string           `json:"title"`
	Description   string           `json:"description"`
	Status        model.TaskStatus `json:"status"`
	Priority      model.Priority   `json:"priority"`
	ProjectID     string           `json:"projectId"`
	DueDate       FlexDate         `json:"dueDate"`
	ScheduledDate FlexDate         `json:"scheduledDate"`
	EstimatedTime FlexMinutes      `json:"estimatedTime"`
}

func (p PromptTask) Task() model.Task {
	return model.Task{
		ID:            p.ID,
		Title:         p.Title,
		Description:   p.Description,
		Status:        p.Status,
		Priority:      p.Priority,
		ProjectID:     p.ProjectID,
		DueDate:       p.DueDate.Time(),
		ScheduledDate: p.ScheduledDate.Time(),
		EstimatedTime: int(p.EstimatedTime),
	}
}

type PromptProject struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (p PromptProject) Project() model.Project {
	return model.Project{ID: p.ID, Name: p.Name, Description: p.Description}
}

func PromptTasks(list []PromptTask) []model.Task {
	tasks := make([]model.Task, 0, len(list))
	for _, p := range list {
		tasks = append(tasks, p.Task())
	}
	return tasks
}

func PromptProjects(list []PromptProject) []model.Project {
	projects := make([]model.Project, 0, len(list))
	for _, p := range list {
		projects = append(projects, p.Project())
	}
	return projects
}
