package dto

import "gtdagent/model"

type ReferenceRequest struct {
	ID      string              `json:"id"` // honoured on create only
	Title   string              `json:"title" binding:"required"`
	Content string              `json:"content"`
	Type    model.ReferenceType `json:"type"`
	URL     string              `json:"url"`
	Tags    []string            `json:"tags"`
}

func (r ReferenceRequest) Apply(ref model.Reference) model.Reference {
	ref.Title = r.Title
	ref.Content = r.Content
	ref.Type = r.Type
	if ref.Type == "" {
		ref.Type = model.ReferenceNote
	}
	ref.URL = r.URL
	ref.Tags = r.Tags
	if ref.Tags == nil {
		ref.Tags = []string{}
	}
	return ref
}
