// Package mcptools exposes the GTD store and advisor as MCP tools so an
// agent can capture and triage tasks over stdio.
package mcptools

import (
	"context"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"gtdagent/model"
	"gtdagent/services"
	"gtdagent/store"
)

// CaptureTaskArgs is the input for the capture_task tool.
type CaptureTaskArgs struct {
	Title       string `json:"title" jsonschema:"Short task title"`
	Description string `json:"description,omitempty" jsonschema:"Optional details"`
	Priority    string `json:"priority,omitempty" jsonschema:"low, medium or high (default medium)"`
}

// ListTasksArgs is the input for the list_tasks tool.
type ListTasksArgs struct {
	Status string `json:"status,omitempty" jsonschema:"Only tasks in this status (inbox, next-action, scheduled, someday, completed, reference)"`
	Query  string `json:"query,omitempty" jsonschema:"Case-insensitive text to match in title or description"`
}

// SetTaskStatusArgs is the input for the set_task_status tool.
type SetTaskStatusArgs struct {
	ID     string `json:"id" jsonschema:"Task ID"`
	Status string `json:"status" jsonschema:"New status"`
}

// WhatToDoNowArgs is the input for the what_to_do_now tool.
type WhatToDoNowArgs struct {
	CurrentContext string `json:"current_context,omitempty" jsonschema:"Where the user is or what they have at hand, e.g. @home"`
}

// TaskSummary is the compact task view returned by the tools.
type TaskSummary struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Status    string `json:"status"`
	Priority  string `json:"priority"`
	ProjectID string `json:"project_id,omitempty"`
	DueDate   string `json:"due_date,omitempty"`
}

type TaskOutput struct {
	Task TaskSummary `json:"task"`
}

type ListTasksOutput struct {
	Tasks []TaskSummary `json:"tasks"`
}

type AdviceOutput struct {
	Advice string `json:"advice"`
}

// Tools holds the tool handlers.
type Tools struct {
	store   *store.Store
	advisor *services.Advisor
}

func NewTools(s *store.Store, advisor *services.Advisor) *Tools {
	return &Tools{store: s, advisor: advisor}
}

// NewServer registers every tool on a new MCP server.
func NewServer(t *Tools, version string) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{Name: "gtd-agent", Version: version}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "capture_task",
		Description: "Capture a new task into the GTD inbox.",
	}, t.CaptureTask)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_tasks",
		Description: "List tasks, optionally filtered by status and text.",
	}, t.ListTasks)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "set_task_status",
		Description: "Move a task to another GTD list, e.g. inbox to next-action, or mark it completed.",
	}, t.SetTaskStatus)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "what_to_do_now",
		Description: "Ask the assistant which next actions to do now, given the current context.",
	}, t.WhatToDoNow)

	return server
}

func (t *Tools) CaptureTask(ctx context.Context, _ *mcp.CallToolRequest, args CaptureTaskArgs) (*mcp.CallToolResult, TaskOutput, error) {
	title := strings.TrimSpace(args.Title)
	if title == "" {
		return nil, TaskOutput{}, fmt.Errorf("title is required")
	}
	priority := model.Priority(args.Priority)
	if priority == "" {
		priority = model.PriorityMedium
	}
	if !priority.Valid() {
		return nil, TaskOutput{}, fmt.Errorf("invalid priority %q", args.Priority)
	}

	created, err := t.store.AddTask(ctx, model.Task{
		Title:       title,
		Description: args.Description,
		Status:      model.StatusInbox,
		Priority:    priority,
	})
	if err != nil {
		return nil, TaskOutput{}, fmt.Errorf("capture task: %w", err)
	}
	return nil, TaskOutput{Task: summarize(created)}, nil
}

func (t *Tools) ListTasks(_ context.Context, _ *mcp.CallToolRequest, args ListTasksArgs) (*mcp.CallToolResult, ListTasksOutput, error) {
	tasks := t.store.Tasks()
	if args.Status != "" {
		status := model.TaskStatus(args.Status)
		if !status.Valid() {
			return nil, ListTasksOutput{}, fmt.Errorf("invalid status %q", args.Status)
		}
		tasks = t.store.TasksByStatus(status)
	}
	tasks = store.Search(tasks, args.Query)

	out := ListTasksOutput{Tasks: make([]TaskSummary, 0, len(tasks))}
	for _, task := range tasks {
		out.Tasks = append(out.Tasks, summarize(task))
	}
	return nil, out, nil
}

func (t *Tools) SetTaskStatus(ctx context.Context, _ *mcp.CallToolRequest, args SetTaskStatusArgs) (*mcp.CallToolResult, TaskOutput, error) {
	status := model.TaskStatus(args.Status)
	if !status.Valid() {
		return nil, TaskOutput{}, fmt.Errorf("invalid status %q", args.Status)
	}
	task, ok := t.store.Task(args.ID)
	if !ok {
		return nil, TaskOutput{}, fmt.Errorf("task %s not found", args.ID)
	}

	task.Status = status
	if status != model.StatusCompleted {
		task.CompletedAt = nil
	}
	updated, err := t.store.UpdateTask(ctx, task)
	if err != nil {
		return nil, TaskOutput{}, fmt.Errorf("update task: %w", err)
	}
	return nil, TaskOutput{Task: summarize(updated)}, nil
}

func (t *Tools) WhatToDoNow(ctx context.Context, _ *mcp.CallToolRequest, args WhatToDoNowArgs) (*mcp.CallToolResult, AdviceOutput, error) {
	advice, err := t.advisor.WhatToDoNowAdvice(ctx, t.store.Tasks(), t.store.Contexts(), args.CurrentContext)
	if err != nil {
		return nil, AdviceOutput{}, err
	}
	return nil, AdviceOutput{Advice: advice}, nil
}

func summarize(t model.Task) TaskSummary {
	s := TaskSummary{
		ID:        t.ID,
		Title:     t.Title,
		Status:    string(t.Status),
		Priority:  string(t.Priority),
		ProjectID: t.ProjectID,
	}
	if t.DueDate != nil {
		s.DueDate = t.DueDate.Format("2006-01-02")
	}
	return s
}
