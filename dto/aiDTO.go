package dto

import (
	"bytes"
	"encoding/json"
)

const (
	AdviceWhatToDoNow    = "what-to-do-now"
	AdviceOrganization   = "organization"
	AdviceScheduling     = "scheduling"
	AdviceImplementation = "implementation"
)

// AdviceRequest is the body of POST /api/ai/advice. The list fields stay raw
// so the handler can tell an absent list from one of the wrong shape.
type AdviceRequest struct {
	Type     string          `json:"type"`
	Task     *PromptTask     `json:"task"`
	Tasks    json.RawMessage `json:"tasks"`
	Projects json.RawMessage `json:"projects"`
	Contexts json.RawMessage `json:"contexts"`
	Context  *AdviceContext  `json:"context"`
}

type AdviceContext struct {
	CurrentContext string `json:"currentContext"`
}

func (r AdviceRequest) CurrentContext() string {
	if r.Context == nil {
		return ""
	}
	return r.Context.CurrentContext
}

type AdviceResponse struct {
	Advice string `json:"advice"`
}

type ChatRequest struct {
	Message string       `json:"message"`
	Context *ChatContext `json:"context"`
}

type ChatContext struct {
	Tasks       []PromptTask    `json:"tasks"`
	Projects    []PromptProject `json:"projects"`
	CurrentTask *PromptTask     `json:"currentTask"`
}

type ChatResponse struct {
	Response string `json:"response"`
}

// DecodeList decodes raw as a JSON array of T. An absent value decodes to an
// empty list. isArray is false when raw holds anything other than an array,
// including null.
func DecodeList[T any](raw json.RawMessage) (list []T, isArray bool, err error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return []T{}, true, nil
	}
	if trimmed[0] != '[' {
		return []T{}, false, nil
	}
	list = []T{}
	if err := json.Unmarshal(trimmed, &list); err != nil {
		return []T{}, true, err
	}
	return list, true, nil
}
