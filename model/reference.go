package model

import "time"

type ReferenceType string

const (
	ReferenceNote ReferenceType = "note"
	ReferenceLink ReferenceType = "link"
	ReferenceFile ReferenceType = "file"
)

func (t ReferenceType) Valid() bool {
	return t == ReferenceNote || t == ReferenceLink || t == ReferenceFile
}

// Reference is stored reference material. It is independent of tasks in the
// "reference" status.
type Reference struct {
	ID        string        `json:"id" firestore:"id"`
	Title     string        `json:"title" firestore:"title"`
	Content   string        `json:"content" firestore:"content"`
	Type      ReferenceType `json:"type" firestore:"type"`
	URL       string        `json:"url,omitempty" firestore:"url,omitempty"`
	Tags      []string      `json:"tags" firestore:"tags"`
	CreatedAt time.Time     `json:"createdAt" firestore:"createdAt"`
	UpdatedAt time.Time     `json:"updatedAt" firestore:"updatedAt"`
}

func (r Reference) Key() string { return r.ID }
