package dto

import "gtdagent/model"

type ContextRequest struct {
	ID    string `json:"id"` // honoured on create only
	Name  string `json:"name" binding:"required"`
	Icon  string `json:"icon"`
	Color string `json:"color"`
}

func (r ContextRequest) Apply(c model.Context) model.Context {
	c.Name = r.Name
	c.Icon = r.Icon
	c.Color = r.Color
	return c
}
