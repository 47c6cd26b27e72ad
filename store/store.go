// Package store is the in-memory source of truth for the GTD records. It
// writes through to storage and then reloads the affected collection, so the
// cached slices always mirror what is persisted.
//
// Storage failures are logged and leave the cached state untouched; they are
// also returned so callers can decide whether to surface them.
package store

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"gtdagent/model"
	"gtdagent/storage"
)

// Store caches every task, project, context and reference record.
type Store struct {
	db *storage.DB

	mu         sync.RWMutex
	tasks      []model.Task
	projects   []model.Project
	contexts   []model.Context
	references []model.Reference
	loading    bool

	now   func() time.Time
	newID func() string
}

// New creates an empty store over db. Call LoadAll to populate it.
func New(db *storage.DB) *Store {
	return &Store{
		db:    db,
		now:   func() time.Time { return time.Now().UTC() },
		newID: func() string { return uuid.New().String() },
	}
}

// ---------------------------------------------------------------------------
// Loaders
// ---------------------------------------------------------------------------

// LoadAll reloads every collection. The returned error joins every loader
// failure.
func (s *Store) LoadAll(ctx context.Context) error {
	return errors.Join(
		s.LoadTasks(ctx),
		s.LoadProjects(ctx),
		s.LoadContexts(ctx),
		s.LoadReferences(ctx),
	)
}

func (s *Store) LoadTasks(ctx context.Context) error {
	s.mu.Lock()
	s.loading = true
	s.mu.Unlock()

	tasks, err := s.db.Tasks.GetAll(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	if err != nil {
		log.Printf("Failed to load tasks: %v", err)
		return err
	}
	s.tasks = tasks
	return nil
}

func (s *Store) LoadProjects(ctx context.Context) error {
	projects, err := s.db.Projects.GetAll(ctx)
	if err != nil {
		log.Printf("Failed to load projects: %v", err)
		return err
	}
	s.mu.Lock()
	s.projects = projects
	s.mu.Unlock()
	return nil
}

func (s *Store) LoadContexts(ctx context.Context) error {
	contexts, err := s.db.Contexts.GetAll(ctx)
	if err != nil {
		log.Printf("Failed to load contexts: %v", err)
		return err
	}
	s.mu.Lock()
	s.contexts = contexts
	s.mu.Unlock()
	return nil
}

func (s *Store) LoadReferences(ctx context.Context) error {
	refs, err := s.db.References.GetAll(ctx)
	if err != nil {
		log.Printf("Failed to load references: %v", err)
		return err
	}
	s.mu.Lock()
	s.references = refs
	s.mu.Unlock()
	return nil
}

// IsLoading reports whether a task load is in flight.
func (s *Store) IsLoading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// ---------------------------------------------------------------------------
// Snapshots
// ---------------------------------------------------------------------------

func (s *Store) Tasks() []model.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.Task{}, s.tasks...)
}

func (s *Store) Projects() []model.Project {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.Project{}, s.projects...)
}

func (s *Store) Contexts() []model.Context {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.Context{}, s.contexts...)
}

func (s *Store) References() []model.Reference {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.Reference{}, s.references...)
}

// Task returns the cached task with the given id.
func (s *Store) Task(id string) (model.Task, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, t := range s.tasks {
		if t.ID == id {
			return t, true
		}
	}
	return model.Task{}, false
}

func (s *Store) Project(id string) (model.Project, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.projects {
		if p.ID == id {
			return p, true
		}
	}
	return model.Project{}, false
}

func (s *Store) Context(id string) (model.Context, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range s.contexts {
		if c.ID == id {
			return c, true
		}
	}
	return model.Context{}, false
}

func (s *Store) Reference(id string) (model.Reference, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, r := range s.references {
		if r.ID == id {
			return r, true
		}
	}
	return model.Reference{}, false
}

// ---------------------------------------------------------------------------
// Task mutators
// ---------------------------------------------------------------------------

// AddTask stores a new task, filling in an id and creation timestamps when
// they are missing, and returns the stored record.
func (s *Store) AddTask(ctx context.Context, task model.Task) (model.Task, error) {
	now := s.now()
	if task.ID == "" {
		task.ID = s.newID()
	}
	if task.CreatedAt.IsZero() {
		task.CreatedAt = now
	}
	if task.UpdatedAt.IsZero() {
		task.UpdatedAt = now
	}
	if task.ContextIDs == nil {
		task.ContextIDs = []string{}
	}
	if err := s.db.Tasks.Add(ctx, task); err != nil {
		log.Printf("Failed to add task: %v", err)
		return task, err
	}
	return task, s.LoadTasks(ctx)
}

// UpdateTask replaces the whole stored task. UpdatedAt is always stamped
// here, whatever the caller sent.
func (s *Store) UpdateTask(ctx context.Context, task model.Task) (model.Task, error) {
	now := s.now()
	task.UpdatedAt = now
	if task.Status == model.StatusCompleted && task.CompletedAt == nil {
		task.CompletedAt = &now
	}
	if task.ContextIDs == nil {
		task.ContextIDs = []string{}
	}
	if err := s.db.Tasks.Put(ctx, task); err != nil {
		log.Printf("Failed to update task: %v", err)
		return task, err
	}
	return task, s.LoadTasks(ctx)
}

func (s *Store) DeleteTask(ctx context.Context, id string) error {
	if err := s.db.Tasks.Delete(ctx, id); err != nil {
		log.Printf("Failed to delete task: %v", err)
		return err
	}
	return s.LoadTasks(ctx)
}

// ---------------------------------------------------------------------------
// Project mutators
// ---------------------------------------------------------------------------

func (s *Store) AddProject(ctx context.Context, project model.Project) (model.Project, error) {
	now := s.now()
	if project.ID == "" {
		project.ID = s.newID()
	}
	if project.Status == "" {
		project.Status = model.ProjectActive
	}
	if project.CreatedAt.IsZero() {
		project.CreatedAt = now
	}
	if project.UpdatedAt.IsZero() {
		project.UpdatedAt = now
	}
	if project.Tasks == nil {
		project.Tasks = []string{}
	}
	if err := s.db.Projects.Add(ctx, project); err != nil {
		log.Printf("Failed to add project: %v", err)
		return project, err
	}
	return project, s.LoadProjects(ctx)
}

func (s *Store) UpdateProject(ctx context.Context, project model.Project) (model.Project, error) {
	now := s.now()
	project.UpdatedAt = now
	if project.Status == model.ProjectCompleted && project.CompletedAt == nil {
		project.CompletedAt = &now
	}
	if project.Tasks == nil {
		project.Tasks = []string{}
	}
	if err := s.db.Projects.Put(ctx, project); err != nil {
		log.Printf("Failed to update project: %v", err)
		return project, err
	}
	return project, s.LoadProjects(ctx)
}

// DeleteProject removes only the project. Tasks that reference it keep their
// projectId.
func (s *Store) DeleteProject(ctx context.Context, id string) error {
	if err := s.db.Projects.Delete(ctx, id); err != nil {
		log.Printf("Failed to delete project: %v", err)
		return err
	}
	return s.LoadProjects(ctx)
}

// ---------------------------------------------------------------------------
// Context mutators
// ---------------------------------------------------------------------------

func (s *Store) AddContext(ctx context.Context, c model.Context) (model.Context, error) {
	if c.ID == "" {
		c.ID = s.newID()
	}
	if err := s.db.Contexts.Add(ctx, c); err != nil {
		log.Printf("Failed to add context: %v", err)
		return c, err
	}
	return c, s.LoadContexts(ctx)
}

// UpdateContext replaces the context. Contexts carry no timestamps.
func (s *Store) UpdateContext(ctx context.Context, c model.Context) (model.Context, error) {
	if err := s.db.Contexts.Put(ctx, c); err != nil {
		log.Printf("Failed to update context: %v", err)
		return c, err
	}
	return c, s.LoadContexts(ctx)
}

func (s *Store) DeleteContext(ctx context.Context, id string) error {
	if err := s.db.Contexts.Delete(ctx, id); err != nil {
		log.Printf("Failed to delete context: %v", err)
		return err
	}
	return s.LoadContexts(ctx)
}

// ---------------------------------------------------------------------------
// Reference mutators
// ---------------------------------------------------------------------------

func (s *Store) AddReference(ctx context.Context, ref model.Reference) (model.Reference, error) {
	now := s.now()
	if ref.ID == "" {
		ref.ID = s.newID()
	}
	if ref.Type == "" {
		ref.Type = model.ReferenceNote
	}
	if ref.CreatedAt.IsZero() {
		ref.CreatedAt = now
	}
	if ref.UpdatedAt.IsZero() {
		ref.UpdatedAt = now
	}
	if ref.Tags == nil {
		ref.Tags = []string{}
	}
	if err := s.db.References.Add(ctx, ref); err != nil {
		log.Printf("Failed to add reference: %v", err)
		return ref, err
	}
	return ref, s.LoadReferences(ctx)
}

func (s *Store) UpdateReference(ctx context.Context, ref model.Reference) (model.Reference, error) {
	ref.UpdatedAt = s.now()
	if ref.Tags == nil {
		ref.Tags = []string{}
	}
	if err := s.db.References.Put(ctx, ref); err != nil {
		log.Printf("Failed to update reference: %v", err)
		return ref, err
	}
	return ref, s.LoadReferences(ctx)
}

func (s *Store) DeleteReference(ctx context.Context, id string) error {
	if err := s.db.References.Delete(ctx, id); err != nil {
		log.Printf("Failed to delete reference: %v", err)
		return err
	}
	return s.LoadReferences(ctx)
}

// ---------------------------------------------------------------------------
// Advice log
// ---------------------------------------------------------------------------

// RecordAdvice appends an advice record for a task.
func (s *Store) RecordAdvice(ctx context.Context, advice model.AIAdvice) (model.AIAdvice, error) {
	if advice.TaskID == "" {
		return advice, fmt.Errorf("advice: task id is required")
	}
	if advice.ID == "" {
		advice.ID = s.newID()
	}
	if advice.Timestamp.IsZero() {
		advice.Timestamp = s.now()
	}
	if err := s.db.Advice.Add(ctx, advice); err != nil {
		log.Printf("Failed to record advice: %v", err)
		return advice, err
	}
	return advice, nil
}

// AdviceForTask reads the advice log of one task, straight from storage.
func (s *Store) AdviceForTask(ctx context.Context, taskID string) ([]model.AIAdvice, error) {
	advice, err := s.db.Advice.GetAllByIndex(ctx, storage.IndexByTask, taskID)
	if err != nil {
		log.Printf("Failed to load advice for task %s: %v", taskID, err)
		return nil, err
	}
	return advice, nil
}

// ---------------------------------------------------------------------------
// Derived views
// ---------------------------------------------------------------------------

func (s *Store) TasksByStatus(status model.TaskStatus) []model.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := []model.Task{}
	for _, t := range s.tasks {
		if t.Status == status {
			result = append(result, t)
		}
	}
	return result
}

func (s *Store) TasksByProject(projectID string) []model.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := []model.Task{}
	for _, t := range s.tasks {
		if t.ProjectID == projectID {
			result = append(result, t)
		}
	}
	return result
}

func (s *Store) InboxTasks() []model.Task     { return s.TasksByStatus(model.StatusInbox) }
func (s *Store) NextActions() []model.Task    { return s.TasksByStatus(model.StatusNextAction) }
func (s *Store) ScheduledTasks() []model.Task { return s.TasksByStatus(model.StatusScheduled) }
func (s *Store) SomedayTasks() []model.Task   { return s.TasksByStatus(model.StatusSomeday) }
func (s *Store) ReferenceItems() []model.Task { return s.TasksByStatus(model.StatusReference) }

// TasksDueBetween reads tasks due in [from, to) through the due-date index.
func (s *Store) TasksDueBetween(ctx context.Context, from, to time.Time) ([]model.Task, error) {
	tasks, err := s.db.Tasks.GetAllByIndexRange(ctx, storage.IndexByDueDate, from, to)
	if err != nil {
		log.Printf("Failed to load due tasks: %v", err)
		return nil, err
	}
	return tasks, nil
}

// Search keeps the tasks whose title or description contains query, ignoring
// case. A blank query keeps everything.
func Search(tasks []model.Task, query string) []model.Task {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return tasks
	}
	result := []model.Task{}
	for _, t := range tasks {
		if strings.Contains(strings.ToLower(t.Title), q) ||
			strings.Contains(strings.ToLower(t.Description), q) {
			result = append(result, t)
		}
	}
	return result
}
