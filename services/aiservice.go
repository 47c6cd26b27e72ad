package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gtdagent/model"
)

const (
	dateLayout      = "2006-01-02"
	maxChatTasks    = 10
	noTasksText     = "No tasks"
	noProjectsText  = "No projects"
	unspecifiedText = "not specified"
)

// Advisor builds GTD prompts from the caller's records and asks the chat
// backend for free-text advice. Every call is a single stateless exchange.
type Advisor struct {
	provider ChatProvider
}

func NewAdvisor(provider ChatProvider) *Advisor {
	return &Advisor{provider: provider}
}

// ChatContext seeds the open-ended chat with what the user is looking at.
type ChatContext struct {
	Tasks       []model.Task
	Projects    []model.Project
	CurrentTask *model.Task
}

// OrganizationAdvice suggests a project, context tags, a priority check and
// a possible split for one task.
func (a *Advisor) OrganizationAdvice(ctx context.Context, task model.Task, allTasks []model.Task, projects []model.Project, contexts []model.Context) (string, error) {
	return a.provider.Complete(ctx, organizationPrompt(task, allTasks, projects, contexts))
}

// SchedulingAdvice proposes an order and dates for the given tasks.
func (a *Advisor) SchedulingAdvice(ctx context.Context, tasks []model.Task, now time.Time) (string, error) {
	return a.provider.Complete(ctx, schedulingPrompt(tasks, now))
}

// WhatToDoNowAdvice recommends 1-3 of the next-action and scheduled tasks
// for the current situation.
func (a *Advisor) WhatToDoNowAdvice(ctx context.Context, tasks []model.Task, contexts []model.Context, currentContext string) (string, error) {
	return a.provider.Complete(ctx, whatToDoNowPrompt(tasks, contexts, currentContext))
}

// ImplementationGuidance breaks one task into ordered steps.
func (a *Advisor) ImplementationGuidance(ctx context.Context, task model.Task) (string, error) {
	return a.provider.Complete(ctx, implementationPrompt(task))
}

// Chat answers a free-form question. cc may be nil.
func (a *Advisor) Chat(ctx context.Context, message string, cc *ChatContext) (string, error) {
	return a.provider.Complete(ctx, chatPrompt(message, cc))
}

func organizationPrompt(task model.Task, allTasks []model.Task, projects []model.Project, contexts []model.Context) []Message {
	var b strings.Builder
	b.WriteString("You are a GTD (Getting Things Done) task management expert. Your job is to help the user organize and manage their tasks.\n\n")
	b.WriteString("Current task:\n")
	fmt.Fprintf(&b, "- Title: %s\n", task.Title)
	if task.Description != "" {
		fmt.Fprintf(&b, "- Description: %s\n", task.Description)
	}
	fmt.Fprintf(&b, "- Status: %s\n", task.Status)
	fmt.Fprintf(&b, "- Priority: %s\n", task.Priority)
	fmt.Fprintf(&b, "- Other tasks on the user's lists: %d\n\n", countOthers(allTasks, task.ID))
	b.WriteString("The user's projects:\n")
	b.WriteString(formatProjects(projects))
	b.WriteString("\n\nThe user's context tags:\n")
	b.WriteString(formatContexts(contexts))
	b.WriteString("\n\nPlease suggest:\n")
	b.WriteString("1. Which project should this task belong to (if a suitable one exists)?\n")
	b.WriteString("2. Which context tags should it use?\n")
	b.WriteString("3. Is the priority appropriate?\n")
	b.WriteString("4. Should it be split into several subtasks?\n\n")
	b.WriteString("Keep the answer short and clear.")

	return []Message{
		{Role: "system", Content: b.String()},
		{Role: "user", Content: "Please give me organization advice for this task."},
	}
}

func schedulingPrompt(tasks []model.Task, now time.Time) []Message {
	var b strings.Builder
	b.WriteString("You are a GTD time management expert. Analyze the user's task list and give scheduling advice.\n\n")
	fmt.Fprintf(&b, "Today: %s\n\n", now.Format(dateLayout))
	b.WriteString("The user's tasks:\n")
	b.WriteString(FormatTasks(tasks))
	b.WriteString("\n\nPlease analyze and suggest:\n")
	b.WriteString("1. Which tasks should come first?\n")
	b.WriteString("2. A suggested order for the tasks\n")
	b.WriteString("3. Which tasks can be put on specific dates?\n")
	b.WriteString("4. Time management tips\n\n")
	b.WriteString("Keep the answer short and practical.")

	return []Message{
		{Role: "system", Content: b.String()},
		{Role: "user", Content: "Please give me scheduling advice for my tasks."},
	}
}

func whatToDoNowPrompt(tasks []model.Task, contexts []model.Context, currentContext string) []Message {
	available := []model.Task{}
	for _, t := range tasks {
		if t.Status == model.StatusNextAction || t.Status == model.StatusScheduled {
			available = append(available, t)
		}
	}
	if currentContext == "" {
		currentContext = unspecifiedText
	}

	var b strings.Builder
	b.WriteString("You are a GTD productivity assistant. Help the user pick the task they should do right now.\n\n")
	fmt.Fprintf(&b, "Current context: %s\n\n", currentContext)
	b.WriteString("Available context tags:\n")
	b.WriteString(formatContexts(contexts))
	b.WriteString("\n\nActionable tasks:\n")
	b.WriteString(FormatTasks(available))
	b.WriteString("\n\nRecommend 1-3 tasks, weighing:\n")
	b.WriteString("1. Priority\n")
	b.WriteString("2. Due date\n")
	b.WriteString("3. Current context\n")
	b.WriteString("4. Time required\n")
	b.WriteString("5. Dependencies between tasks\n\n")
	b.WriteString("Name the specific tasks and explain why.")

	return []Message{
		{Role: "system", Content: b.String()},
		{Role: "user", Content: "What should I do now?"},
	}
}

func implementationPrompt(task model.Task) []Message {
	var b strings.Builder
	b.WriteString("You are an expert in getting tasks done. Help the user break the task into actionable steps.\n\n")
	b.WriteString("Task:\n")
	fmt.Fprintf(&b, "- Title: %s\n", task.Title)
	if task.Description != "" {
		fmt.Fprintf(&b, "- Description: %s\n", task.Description)
	}
	if task.EstimatedTime > 0 {
		fmt.Fprintf(&b, "- Estimated time: %d minutes\n", task.EstimatedTime)
	}
	b.WriteString("\nPlease provide:\n")
	b.WriteString("1. The concrete steps, in order\n")
	b.WriteString("2. A short explanation of each step\n")
	b.WriteString("3. Resources or tools that may be needed\n")
	b.WriteString("4. Things to watch out for\n\n")
	b.WriteString("Make the steps clear and unambiguous.")

	return []Message{
		{Role: "system", Content: b.String()},
		{Role: "user", Content: "Please give me guidance on carrying out this task."},
	}
}

func chatPrompt(message string, cc *ChatContext) []Message {
	var b strings.Builder
	b.WriteString("You are a GTD (Getting Things Done) task management AI assistant. Help the user manage tasks and be more productive.\n\n")
	b.WriteString("GTD principles:\n")
	b.WriteString("- Capture: put every task into the inbox\n")
	b.WriteString("- Clarify: decide the next action for each task\n")
	b.WriteString("- Organize: sort tasks into projects, contexts and lists\n")
	b.WriteString("- Reflect: review tasks and projects regularly\n")
	b.WriteString("- Engage: choose tasks by context and priority")

	if cc != nil {
		if len(cc.Tasks) > 0 {
			tasks := cc.Tasks
			if len(tasks) > maxChatTasks {
				tasks = tasks[:maxChatTasks]
			}
			b.WriteString("\n\nThe user's current tasks:\n")
			b.WriteString(FormatTasks(tasks))
		}
		if len(cc.Projects) > 0 {
			b.WriteString("\n\nThe user's projects:\n")
			b.WriteString(formatProjects(cc.Projects))
		}
		if cc.CurrentTask != nil {
			fmt.Fprintf(&b, "\n\nTask currently being viewed: %s", cc.CurrentTask.Title)
		}
	}

	return []Message{
		{Role: "system", Content: b.String()},
		{Role: "user", Content: message},
	}
}

// FormatTasks renders tasks as a numbered list with their scheduling
// details, one blank line between tasks.
func FormatTasks(tasks []model.Task) string {
	if len(tasks) == 0 {
		return noTasksText
	}
	entries := make([]string, 0, len(tasks))
	for i, t := range tasks {
		lines := []string{fmt.Sprintf("%d. %s", i+1, t.Title)}
		if t.Description != "" {
			lines = append(lines, "   Description: "+t.Description)
		}
		if t.Priority != "" {
			lines = append(lines, "   Priority: "+string(t.Priority))
		}
		if t.DueDate != nil {
			lines = append(lines, "   Due: "+t.DueDate.Format(dateLayout))
		}
		if t.ScheduledDate != nil {
			lines = append(lines, "   Scheduled: "+t.ScheduledDate.Format(dateLayout))
		}
		if t.EstimatedTime > 0 {
			lines = append(lines, fmt.Sprintf("   Estimated time: %d minutes", t.EstimatedTime))
		}
		entries = append(entries, strings.Join(lines, "\n"))
	}
	return strings.Join(entries, "\n\n")
}

func countOthers(tasks []model.Task, id string) int {
	n := 0
	for _, t := range tasks {
		if t.ID != id || id == "" {
			n++
		}
	}
	return n
}

func formatProjects(projects []model.Project) string {
	if len(projects) == 0 {
		return noProjectsText
	}
	lines := make([]string, 0, len(projects))
	for _, p := range projects {
		lines = append(lines, "- "+p.Name)
	}
	return strings.Join(lines, "\n")
}

func formatContexts(contexts []model.Context) string {
	lines := make([]string, 0, len(contexts))
	for _, c := range contexts {
		lines = append(lines, "- "+c.Name)
	}
	return strings.Join(lines, "\n")
}
