// Package storage is the local object store: one keyed collection per record
// kind, with secondary indexes on selected fields.
package storage

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"time"

	"gtdagent/model"
)

var (
	ErrNotFound     = errors.New("record not found")
	ErrExists       = errors.New("record already exists")
	ErrUnknownIndex = errors.New("unknown index")
	ErrMissingID    = errors.New("record id is required")
)

// Index names, shared by every backend.
const (
	IndexByStatus  = "by-status"
	IndexByProject = "by-project"
	IndexByDueDate = "by-due-date"
	IndexByTask    = "by-task"
)

// Record is anything stored under its own primary key.
type Record interface {
	Key() string
}

// Collection is durable CRUD over one record kind. Every call is atomic per
// record; there are no multi-record transactions.
type Collection[T Record] interface {
	// Add inserts rec and fails with ErrExists if its id is already stored.
	Add(ctx context.Context, rec T) error
	// Put inserts or replaces rec.
	Put(ctx context.Context, rec T) error
	Get(ctx context.Context, id string) (T, error)
	// GetAll returns every record ordered by id.
	GetAll(ctx context.Context) ([]T, error)
	GetAllByIndex(ctx context.Context, index string, key any) ([]T, error)
	// GetAllByIndexRange returns records whose indexed value is in [lower, upper).
	GetAllByIndexRange(ctx context.Context, index string, lower, upper any) ([]T, error)
	// Delete removes the record; deleting a missing id is not an error.
	Delete(ctx context.Context, id string) error
}

// Index is a secondary lookup on one record field. Field is the JSON name,
// which is also the Firestore field path.
type Index struct {
	Name  string
	Field string
	Time  bool
}

// Schema names a collection and its indexes.
type Schema struct {
	Name    string
	Indexes []Index
}

func (s Schema) index(name string) (Index, error) {
	for _, idx := range s.Indexes {
		if idx.Name == name {
			return idx, nil
		}
	}
	return Index{}, fmt.Errorf("%s: %w %q", s.Name, ErrUnknownIndex, name)
}

var (
	TasksSchema = Schema{
		Name: "tasks",
		Indexes: []Index{
			{Name: IndexByStatus, Field: "status"},
			{Name: IndexByProject, Field: "projectId"},
			{Name: IndexByDueDate, Field: "dueDate", Time: true},
		},
	}
	ProjectsSchema   = Schema{Name: "projects"}
	ContextsSchema   = Schema{Name: "contexts"}
	AdviceSchema     = Schema{Name: "aiAdvice", Indexes: []Index{{Name: IndexByTask, Field: "taskId"}}}
	ReferencesSchema = Schema{Name: "references"}
)

// DB bundles the five record collections of one store instance.
type DB struct {
	Tasks      Collection[model.Task]
	Projects   Collection[model.Project]
	Contexts   Collection[model.Context]
	Advice     Collection[model.AIAdvice]
	References Collection[model.Reference]

	close func() error
}

// Close releases the underlying database handle.
func (db *DB) Close() error {
	if db.close == nil {
		return nil
	}
	return db.close()
}

// indexKey normalizes an index lookup value. Named string types (statuses)
// become plain strings and time-valued indexes require a time.Time.
func indexKey(idx Index, v any) (any, error) {
	if idx.Time {
		switch t := v.(type) {
		case time.Time:
			return t, nil
		case *time.Time:
			if t == nil {
				return nil, fmt.Errorf("index %s: nil time", idx.Name)
			}
			return *t, nil
		case string:
			parsed, err := time.Parse(time.RFC3339, t)
			if err != nil {
				return nil, fmt.Errorf("index %s: %w", idx.Name, err)
			}
			return parsed, nil
		}
		return nil, fmt.Errorf("index %s: expected time value, got %T", idx.Name, v)
	}
	if s, ok := v.(string); ok {
		return s, nil
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.String {
		return rv.String(), nil
	}
	return nil, fmt.Errorf("index %s: expected string value, got %T", idx.Name, v)
}
