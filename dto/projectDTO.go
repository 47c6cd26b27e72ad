package dto

import "gtdagent/model"

type ProjectRequest struct {
	ID          string              `json:"id"` // honoured on create only
	Name        string              `json:"name" binding:"required"`
	Description string              `json:"description"`
	Tasks       []string            `json:"tasks"`
	Status      model.ProjectStatus `json:"status"`
}

func (r ProjectRequest) Apply(p model.Project) model.Project {
	p.Name = r.Name
	p.Description = r.Description
	p.Tasks = r.Tasks
	p.Status = r.Status
	if p.Status == "" {
		p.Status = model.ProjectActive
	}
	if p.Status != model.ProjectCompleted {
		p.CompletedAt = nil
	}
	return p
}
