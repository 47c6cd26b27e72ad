package storage

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"gtdagent/model"
)

// NewFirestore wraps an open Firestore client as an object store. Each record
// kind is a top-level collection with the record id as document id. Closing
// the returned DB closes the client.
func NewFirestore(client *firestore.Client) *DB {
	return &DB{
		Tasks:      &firestoreCollection[model.Task]{client: client, schema: TasksSchema},
		Projects:   &firestoreCollection[model.Project]{client: client, schema: ProjectsSchema},
		Contexts:   &firestoreCollection[model.Context]{client: client, schema: ContextsSchema},
		Advice:     &firestoreCollection[model.AIAdvice]{client: client, schema: AdviceSchema},
		References: &firestoreCollection[model.Reference]{client: client, schema: ReferencesSchema},
		close:      client.Close,
	}
}

type firestoreCollection[T Record] struct {
	client *firestore.Client
	schema Schema
}

func (c *firestoreCollection[T]) col() *firestore.CollectionRef {
	return c.client.Collection(c.schema.Name)
}

func (c *firestoreCollection[T]) Add(ctx context.Context, rec T) error {
	if rec.Key() == "" {
		return ErrMissingID
	}
	_, err := c.col().Doc(rec.Key()).Create(ctx, rec)
	if status.Code(err) == codes.AlreadyExists {
		return fmt.Errorf("%s %q: %w", c.schema.Name, rec.Key(), ErrExists)
	}
	return err
}

func (c *firestoreCollection[T]) Put(ctx context.Context, rec T) error {
	if rec.Key() == "" {
		return ErrMissingID
	}
	_, err := c.col().Doc(rec.Key()).Set(ctx, rec)
	return err
}

func (c *firestoreCollection[T]) Get(ctx context.Context, id string) (T, error) {
	var rec T
	snap, err := c.col().Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return rec, fmt.Errorf("%s %q: %w", c.schema.Name, id, ErrNotFound)
		}
		return rec, err
	}
	if err := snap.DataTo(&rec); err != nil {
		return rec, fmt.Errorf("decode %s %q: %w", c.schema.Name, id, err)
	}
	return rec, nil
}

func (c *firestoreCollection[T]) GetAll(ctx context.Context) ([]T, error) {
	return c.collect(c.col().OrderBy(firestore.DocumentID, firestore.Asc).Documents(ctx))
}

func (c *firestoreCollection[T]) GetAllByIndex(ctx context.Context, index string, key any) ([]T, error) {
	idx, err := c.schema.index(index)
	if err != nil {
		return nil, err
	}
	value, err := indexKey(idx, key)
	if err != nil {
		return nil, err
	}
	return c.collect(c.col().Where(idx.Field, "==", value).Documents(ctx))
}

func (c *firestoreCollection[T]) GetAllByIndexRange(ctx context.Context, index string, lower, upper any) ([]T, error) {
	idx, err := c.schema.index(index)
	if err != nil {
		return nil, err
	}
	lo, err := indexKey(idx, lower)
	if err != nil {
		return nil, err
	}
	hi, err := indexKey(idx, upper)
	if err != nil {
		return nil, err
	}
	q := c.col().Where(idx.Field, ">=", lo).Where(idx.Field, "<", hi).OrderBy(idx.Field, firestore.Asc)
	return c.collect(q.Documents(ctx))
}

// Delete succeeds for missing documents, matching the Firestore semantics.
func (c *firestoreCollection[T]) Delete(ctx context.Context, id string) error {
	_, err := c.col().Doc(id).Delete(ctx)
	return err
}

func (c *firestoreCollection[T]) collect(iter *firestore.DocumentIterator) ([]T, error) {
	defer iter.Stop()

	recs := []T{}
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, err
		}
		var rec T
		if err := doc.DataTo(&rec); err != nil {
			return nil, fmt.Errorf("decode %s %q: %w", c.schema.Name, doc.Ref.ID, err)
		}
		recs = append(recs, rec)
	}
	return recs, nil
}
