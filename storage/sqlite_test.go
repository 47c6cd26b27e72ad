package storage

import (
	"context"
	"errors"
	"path/filepath"
	"reflect"
	"sort"
	"testing"
	"time"

	"gtdagent/model"
)

// createTestDB opens a SQLite store in a per-test temp dir.
func createTestDB(t *testing.T) *DB {
	t.Helper()

	db, err := OpenSQLite(filepath.Join(t.TempDir(), "gtd.db"))
	if err != nil {
		t.Fatalf("Failed to open store: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func makeTask(id string, status model.TaskStatus, projectID string) model.Task {
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	return model.Task{
		ID:         id,
		Title:      "Task " + id,
		Status:     status,
		ProjectID:  projectID,
		ContextIDs: []string{"ctx-home"},
		Priority:   model.PriorityMedium,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

func taskIDs(tasks []model.Task) []string {
	ids := make([]string, 0, len(tasks))
	for _, t := range tasks {
		ids = append(ids, t.ID)
	}
	sort.Strings(ids)
	return ids
}

// =============================================================================
// Add / Get / Put / Delete
// =============================================================================

func TestAddThenGetReturnsEqualRecord(t *testing.T) {
	db := createTestDB(t)
	ctx := context.Background()

	due := time.Date(2026, 3, 5, 17, 30, 0, 0, time.FixedZone("CST", 8*3600))
	task := makeTask("t1", model.StatusInbox, "p1")
	task.Description = "call the bank"
	task.DueDate = &due
	task.EnergyLevel = model.PriorityLow
	task.EstimatedTime = 25
	task.Notes = "ask about fees"

	if err := db.Tasks.Add(ctx, task); err != nil {
		t.Fatalf("Add: %v", err)
	}
	got, err := db.Tasks.Get(ctx, "t1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}

	if !got.DueDate.Equal(due) {
		t.Fatalf("expected due %v, got %v", due, got.DueDate)
	}
	got.DueDate, task.DueDate = nil, nil
	got.CreatedAt, task.CreatedAt = time.Time{}, time.Time{}
	got.UpdatedAt, task.UpdatedAt = time.Time{}, time.Time{}
	if !reflect.DeepEqual(got, task) {
		t.Fatalf("round trip mismatch:\n got  %#v\n want %#v", got, task)
	}
}

func TestAddDuplicateFails(t *testing.T) {
	db := createTestDB(t)
	ctx := context.Background()

	if err := db.Tasks.Add(ctx, makeTask("t1", model.StatusInbox, "")); err != nil {
		t.Fatalf("Add: %v", err)
	}
	err := db.Tasks.Add(ctx, makeTask("t1", model.StatusSomeday, ""))
	if !errors.Is(err, ErrExists) {
		t.Fatalf("expected ErrExists, got %v", err)
	}
}

func TestAddRequiresID(t *testing.T) {
	db := createTestDB(t)
	if err := db.Contexts.Add(context.Background(), model.Context{Name: "@home"}); !errors.Is(err, ErrMissingID) {
		t.Fatalf("expected ErrMissingID, got %v", err)
	}
}

func TestPutUpserts(t *testing.T) {
	db := createTestDB(t)
	ctx := context.Background()

	p := model.Project{ID: "p1", Name: "Move house", Status: model.ProjectActive}
	if err := db.Projects.Put(ctx, p); err != nil {
		t.Fatalf("Put insert: %v", err)
	}
	p.Name = "Move flat"
	if err := db.Projects.Put(ctx, p); err != nil {
		t.Fatalf("Put replace: %v", err)
	}

	all, err := db.Projects.GetAll(ctx)
	if err != nil {
		t.Fatalf("GetAll: %v", err)
	}
	if len(all) != 1 || all[0].Name != "Move flat" {
		t.Fatalf("expected one replaced project, got %#v", all)
	}
}

func TestGetNotFound(t *testing.T) {
	db := createTestDB(t)
	_, err := db.References.Get(context.Background(), "nope")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteMissingIsNoop(t *testing.T) {
	db := createTestDB(t)
	ctx := context.Background()

	if err := db.Tasks.Delete(ctx, "ghost"); err != nil {
		t.Fatalf("Delete missing: %v", err)
	}
	if err := db.Tasks.Add(ctx, makeTask("t1", model.StatusInbox, "")); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := db.Tasks.Delete(ctx, "t1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := db.Tasks.Get(ctx, "t1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected deleted task to be gone, got %v", err)
	}
}

func TestGetAllOrderedByID(t *testing.T) {
	db := createTestDB(t)
	ctx := context.Background()

	for _, id := range []string{"c", "a", "b"} {
		if err := db.Contexts.Add(ctx, model.Context{ID: id, Name: "@" + id}); err != nil {
			t.Fatalf("Add %s: %v", id, err)
		}
	}
	all, err := db.Contexts.GetAll(ctx)
	if err != nil {
		t.Fatalf("GetAll: %v", err)
	}
	if len(all) != 3 || all[0].ID != "a" || all[1].ID != "b" || all[2].ID != "c" {
		t.Fatalf("unexpected order: %#v", all)
	}
}

func TestGetAllEmptyIsNotNil(t *testing.T) {
	db := createTestDB(t)
	all, err := db.Tasks.GetAll(context.Background())
	if err != nil {
		t.Fatalf("GetAll: %v", err)
	}
	if all == nil || len(all) != 0 {
		t.Fatalf("expected empty slice, got %#v", all)
	}
}

// =============================================================================
// Secondary indexes
// =============================================================================

func TestGetAllByIndex(t *testing.T) {
	db := createTestDB(t)
	ctx := context.Background()

	seed := []model.Task{
		makeTask("t1", model.StatusInbox, "p1"),
		makeTask("t2", model.StatusNextAction, "p1"),
		makeTask("t3", model.StatusInbox, ""),
		makeTask("t4", model.StatusSomeday, "p2"),
	}
	for _, task := range seed {
		if err := db.Tasks.Add(ctx, task); err != nil {
			t.Fatalf("Add %s: %v", task.ID, err)
		}
	}

	tests := []struct {
		name  string
		index string
		key   any
		want  []string
	}{
		{name: "status as named type", index: IndexByStatus, key: model.StatusInbox, want: []string{"t1", "t3"}},
		{name: "status as string", index: IndexByStatus, key: "next-action", want: []string{"t2"}},
		{name: "status with no matches", index: IndexByStatus, key: model.StatusCompleted, want: []string{}},
		{name: "project", index: IndexByProject, key: "p1", want: []string{"t1", "t2"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := db.Tasks.GetAllByIndex(ctx, tt.index, tt.key)
			if err != nil {
				t.Fatalf("GetAllByIndex: %v", err)
			}
			if ids := taskIDs(got); !reflect.DeepEqual(ids, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, ids)
			}
		})
	}
}

func TestGetAllByIndexUnknown(t *testing.T) {
	db := createTestDB(t)
	_, err := db.Projects.GetAllByIndex(context.Background(), IndexByStatus, "active")
	if !errors.Is(err, ErrUnknownIndex) {
		t.Fatalf("expected ErrUnknownIndex, got %v", err)
	}
}

func TestAdviceByTask(t *testing.T) {
	db := createTestDB(t)
	ctx := context.Background()

	now := time.Now().UTC()
	for i, taskID := range []string{"t1", "t2", "t1"} {
		rec := model.AIAdvice{
			ID:        string(rune('a' + i)),
			TaskID:    taskID,
			Advice:    "split it up",
			Type:      model.AdviceOrganization,
			Timestamp: now,
		}
		if err := db.Advice.Add(ctx, rec); err != nil {
			t.Fatalf("Add advice: %v", err)
		}
	}
	got, err := db.Advice.GetAllByIndex(ctx, IndexByTask, "t1")
	if err != nil {
		t.Fatalf("GetAllByIndex: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 advice records, got %d", len(got))
	}
}

func TestDueDateRange(t *testing.T) {
	db := createTestDB(t)
	ctx := context.Background()

	utc := func(day, hour int) *time.Time {
		v := time.Date(2026, 3, day, hour, 0, 0, 0, time.UTC)
		return &v
	}
	// Same instant as 2026-03-02 02:00 UTC, written with a +08:00 offset.
	shanghai := time.Date(2026, 3, 2, 10, 0, 0, 0, time.FixedZone("CST", 8*3600))

	seed := []struct {
		id  string
		due *time.Time
	}{
		{"t1", utc(1, 12)},
		{"t2", &shanghai},
		{"t3", utc(3, 0)},
		{"t4", nil},
	}
	for _, s := range seed {
		task := makeTask(s.id, model.StatusNextAction, "")
		task.DueDate = s.due
		if err := db.Tasks.Add(ctx, task); err != nil {
			t.Fatalf("Add %s: %v", s.id, err)
		}
	}

	got, err := db.Tasks.GetAllByIndexRange(ctx, IndexByDueDate,
		time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("GetAllByIndexRange: %v", err)
	}
	if len(got) != 2 || got[0].ID != "t1" || got[1].ID != "t2" {
		t.Fatalf("expected [t1 t2] in due order, got %v", taskIDs(got))
	}
}

func TestRangeRejectsNonTimeKey(t *testing.T) {
	db := createTestDB(t)
	_, err := db.Tasks.GetAllByIndexRange(context.Background(), IndexByDueDate, 1, 2)
	if err == nil {
		t.Fatal("expected error for non-time range keys")
	}
}

func TestReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gtd.db")
	ctx := context.Background()

	db, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	ref := model.Reference{ID: "r1", Title: "Router manual", Content: "admin/admin", Type: model.ReferenceNote, Tags: []string{"home"}}
	if err := db.References.Add(ctx, ref); err != nil {
		t.Fatalf("Add: %v", err)
	}
	db.Close()

	db, err = OpenSQLite(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer db.Close()
	got, err := db.References.Get(ctx, "r1")
	if err != nil {
		t.Fatalf("Get after reopen: %v", err)
	}
	if got.Title != "Router manual" || len(got.Tags) != 1 {
		t.Fatalf("unexpected reference %#v", got)
	}
}
