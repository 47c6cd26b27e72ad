package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mattn/go-sqlite3"

	"gtdagent/model"
)

// OpenSQLite opens (creating on first run) the SQLite-backed object store at
// dbPath. Each record is kept as a JSON document keyed by id; secondary
// indexes are expression indexes over the JSON fields.
func OpenSQLite(dbPath string) (*DB, error) {
	if strings.HasPrefix(dbPath, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, err
	}

	sqlDB, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}
	// SQLite allows a single writer; one connection keeps writes ordered.
	sqlDB.SetMaxOpenConns(1)

	schemas := []Schema{TasksSchema, ProjectsSchema, ContextsSchema, AdviceSchema, ReferencesSchema}
	for _, s := range schemas {
		if err := migrateSQLite(sqlDB, s); err != nil {
			sqlDB.Close()
			return nil, fmt.Errorf("create %s: %w", s.Name, err)
		}
	}

	return &DB{
		Tasks:      &sqliteCollection[model.Task]{db: sqlDB, schema: TasksSchema},
		Projects:   &sqliteCollection[model.Project]{db: sqlDB, schema: ProjectsSchema},
		Contexts:   &sqliteCollection[model.Context]{db: sqlDB, schema: ContextsSchema},
		Advice:     &sqliteCollection[model.AIAdvice]{db: sqlDB, schema: AdviceSchema},
		References: &sqliteCollection[model.Reference]{db: sqlDB, schema: ReferencesSchema},
		close:      sqlDB.Close,
	}, nil
}

func migrateSQLite(db *sql.DB, s Schema) error {
	stmts := []string{
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %q (id TEXT PRIMARY KEY, data TEXT NOT NULL)`, s.Name),
	}
	for _, idx := range s.Indexes {
		name := fmt.Sprintf("idx_%s_%s", s.Name, strings.ReplaceAll(idx.Name, "-", "_"))
		stmts = append(stmts, fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %q ON %q (%s)`, name, s.Name, fieldExpr(idx)))
	}
	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// fieldExpr is the SQL expression an index is built on. Time fields are
// compared as julian day numbers so differing offsets still order correctly.
func fieldExpr(idx Index) string {
	expr := fmt.Sprintf("json_extract(data, '$.%s')", idx.Field)
	if idx.Time {
		return "julianday(" + expr + ")"
	}
	return expr
}

func paramExpr(idx Index) string {
	if idx.Time {
		return "julianday(?)"
	}
	return "?"
}

type sqliteCollection[T Record] struct {
	db     *sql.DB
	schema Schema
}

func (c *sqliteCollection[T]) Add(ctx context.Context, rec T) error {
	if rec.Key() == "" {
		return ErrMissingID
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode %s: %w", c.schema.Name, err)
	}
	_, err = c.db.ExecContext(ctx,
		fmt.Sprintf(`INSERT INTO %q (id, data) VALUES (?, ?)`, c.schema.Name),
		rec.Key(), string(data))
	if err != nil {
		var se sqlite3.Error
		if errors.As(err, &se) && se.Code == sqlite3.ErrConstraint {
			return fmt.Errorf("%s %q: %w", c.schema.Name, rec.Key(), ErrExists)
		}
		return err
	}
	return nil
}

func (c *sqliteCollection[T]) Put(ctx context.Context, rec T) error {
	if rec.Key() == "" {
		return ErrMissingID
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode %s: %w", c.schema.Name, err)
	}
	_, err = c.db.ExecContext(ctx,
		fmt.Sprintf(`INSERT OR REPLACE INTO %q (id, data) VALUES (?, ?)`, c.schema.Name),
		rec.Key(), string(data))
	return err
}

func (c *sqliteCollection[T]) Get(ctx context.Context, id string) (T, error) {
	var rec T
	var data string
	row := c.db.QueryRowContext(ctx, fmt.Sprintf(`SELECT data FROM %q WHERE id = ?`, c.schema.Name), id)
	if err := row.Scan(&data); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return rec, fmt.Errorf("%s %q: %w", c.schema.Name, id, ErrNotFound)
		}
		return rec, err
	}
	if err := json.Unmarshal([]byte(data), &rec); err != nil {
		return rec, fmt.Errorf("decode %s %q: %w", c.schema.Name, id, err)
	}
	return rec, nil
}

func (c *sqliteCollection[T]) GetAll(ctx context.Context) ([]T, error) {
	return c.query(ctx, fmt.Sprintf(`SELECT data FROM %q ORDER BY id`, c.schema.Name))
}

func (c *sqliteCollection[T]) GetAllByIndex(ctx context.Context, index string, key any) ([]T, error) {
	idx, err := c.schema.index(index)
	if err != nil {
		return nil, err
	}
	arg, err := sqliteArg(idx, key)
	if err != nil {
		return nil, err
	}
	q := fmt.Sprintf(`SELECT data FROM %q WHERE %s = %s ORDER BY id`, c.schema.Name, fieldExpr(idx), paramExpr(idx))
	return c.query(ctx, q, arg)
}

func (c *sqliteCollection[T]) GetAllByIndexRange(ctx context.Context, index string, lower, upper any) ([]T, error) {
	idx, err := c.schema.index(index)
	if err != nil {
		return nil, err
	}
	lo, err := sqliteArg(idx, lower)
	if err != nil {
		return nil, err
	}
	hi, err := sqliteArg(idx, upper)
	if err != nil {
		return nil, err
	}
	expr := fieldExpr(idx)
	q := fmt.Sprintf(`SELECT data FROM %q WHERE %s >= %s AND %s < %s ORDER BY %s, id`,
		c.schema.Name, expr, paramExpr(idx), expr, paramExpr(idx), expr)
	return c.query(ctx, q, lo, hi)
}

func (c *sqliteCollection[T]) Delete(ctx context.Context, id string) error {
	_, err := c.db.ExecContext(ctx, fmt.Sprintf(`DELETE FROM %q WHERE id = ?`, c.schema.Name), id)
	return err
}

func (c *sqliteCollection[T]) query(ctx context.Context, q string, args ...any) ([]T, error) {
	rows, err := c.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	recs := []T{}
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, err
		}
		var rec T
		if err := json.Unmarshal([]byte(data), &rec); err != nil {
			return nil, fmt.Errorf("decode %s: %w", c.schema.Name, err)
		}
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}

func sqliteArg(idx Index, v any) (any, error) {
	key, err := indexKey(idx, v)
	if err != nil {
		return nil, err
	}
	if t, ok := key.(time.Time); ok {
		return t.Format(time.RFC3339Nano), nil
	}
	return key, nil
}
