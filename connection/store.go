package connection

import (
	"context"
	"fmt"
	"log"

	"gtdagent/config"
	"gtdagent/storage"
	"gtdagent/store"
)

// OpenStore opens the configured backend, seeds the default contexts and
// loads every collection. The caller closes the returned DB.
func OpenStore(ctx context.Context, cfg *config.Config) (*store.Store, *storage.DB, error) {
	var (
		db  *storage.DB
		err error
	)
	switch cfg.Store {
	case config.BackendFirestore:
		client, ferr := FBConnection(ctx, cfg)
		if ferr != nil {
			return nil, nil, ferr
		}
		db = storage.NewFirestore(client)
	default:
		db, err = storage.OpenSQLite(cfg.DBPath)
		if err != nil {
			return nil, nil, fmt.Errorf("open sqlite store: %w", err)
		}
		log.Printf("Using SQLite store at %s", cfg.DBPath)
	}

	s := store.New(db)
	if err := s.EnsureDefaultContexts(ctx); err != nil {
		db.Close()
		return nil, nil, err
	}
	if err := s.LoadAll(ctx); err != nil {
		db.Close()
		return nil, nil, err
	}
	return s, db, nil
}
