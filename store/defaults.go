package store

import (
	"context"
	_ "embed"
	"fmt"
	"log"

	"gopkg.in/yaml.v3"

	"gtdagent/model"
)

//go:embed defaults.yaml
var defaultContextsYAML []byte

type seedContext struct {
	ID    string `yaml:"id"`
	Name  string `yaml:"name"`
	Icon  string `yaml:"icon"`
	Color string `yaml:"color"`
}

// DefaultContexts returns the built-in context tags.
func DefaultContexts() ([]model.Context, error) {
	var seeds []seedContext
	if err := yaml.Unmarshal(defaultContextsYAML, &seeds); err != nil {
		return nil, fmt.Errorf("parse default contexts: %w", err)
	}
	contexts := make([]model.Context, 0, len(seeds))
	for _, s := range seeds {
		contexts = append(contexts, model.Context{ID: s.ID, Name: s.Name, Icon: s.Icon, Color: s.Color})
	}
	return contexts, nil
}

// EnsureDefaultContexts seeds the default contexts when none exist yet.
func (s *Store) EnsureDefaultContexts(ctx context.Context) error {
	existing, err := s.db.Contexts.GetAll(ctx)
	if err != nil {
		log.Printf("Failed to read contexts: %v", err)
		return err
	}
	if len(existing) > 0 {
		return nil
	}

	defaults, err := DefaultContexts()
	if err != nil {
		return err
	}
	for _, c := range defaults {
		if err := s.db.Contexts.Add(ctx, c); err != nil {
			log.Printf("Failed to seed context %s: %v", c.ID, err)
			return err
		}
	}
	log.Printf("Seeded %d default contexts", len(defaults))
	return s.LoadContexts(ctx)
}
