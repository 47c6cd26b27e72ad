package model

import "time"

type AdviceType string

const (
	AdviceOrganization   AdviceType = "organization"
	AdviceScheduling     AdviceType = "scheduling"
	AdviceImplementation AdviceType = "implementation"
	AdviceSelection      AdviceType = "selection"
	AdviceReview         AdviceType = "review"
)

// AIAdvice is a logged assistant suggestion for one task.
type AIAdvice struct {
	ID         string     `json:"id" firestore:"id"`
	TaskID     string     `json:"taskId" firestore:"taskId"`
	Advice     string     `json:"advice" firestore:"advice"`
	Type       AdviceType `json:"type" firestore:"type"`
	Timestamp  time.Time  `json:"timestamp" firestore:"timestamp"`
	Confidence *float64   `json:"confidence,omitempty" firestore:"confidence,omitempty"`
}

func (a AIAdvice) Key() string { return a.ID }
