package main

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/JedouEdu/digiEduHack-hackathon/ai"
	"github.com/JedouEdu/digiEduHack-hackathon/core"
	"github.com/JedouEdu/digiEduHack-hackathon/reembed"
	"github.com/JedouEdu/digiEduHack-hackathon/storage"
)

// rosterEntry is one entity in the seed roster file.
type rosterEntry struct {
	ID        string   `yaml:"id"`
	Type      string   `yaml:"type"`
	Region    string   `yaml:"region"`
	Name      string   `yaml:"name"`
	SourceIDs []string `yaml:"source_ids,omitempty"`
}

type rosterFile struct {
	Entities []rosterEntry `yaml:"entities"`
}

// loadRoster reads an entity roster YAML file.
func loadRoster(path string) ([]*core.Entity, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var roster rosterFile
	if err := yaml.Unmarshal(data, &roster); err != nil {
		return nil, fmt.Errorf("parse roster: %w", err)
	}
	if len(roster.Entities) == 0 {
		return nil, fmt.Errorf("roster contains no entities")
	}

	entities := make([]*core.Entity, len(roster.Entities))
	for i, entry := range roster.Entities {
		entityType := core.EntityType(entry.Type)
		if !entityType.Valid() {
			return nil, fmt.Errorf("entry %d (%s): invalid entity type %q", i, entry.ID, entry.Type)
		}
		entities[i] = &core.Entity{
			ID:        entry.ID,
			Type:      entityType,
			Region:    entry.Region,
			Name:      entry.Name,
			SourceIDs: entry.SourceIDs,
		}
	}
	return entities, nil
}

// seedRoster embeds the roster's display names in one batch and saves the
// entities. Returns the number of entities saved.
func seedRoster(ctx context.Context, repo storage.EntityRepository, embedder ai.Embedder, entities []*core.Entity) (int, error) {
	names := make([]string, len(entities))
	for i, ent := range entities {
		names[i] = ent.Name
	}

	vectors, err := embedder.EmbedTexts(ctx, names)
	if err != nil {
		return 0, fmt.Errorf("failed to embed names: %w", err)
	}
	if len(vectors) != len(entities) {
		return 0, fmt.Errorf("embedding count mismatch: expected %d, got %d", len(entities), len(vectors))
	}

	for i := range entities {
		entities[i].Vector = reembed.NormalizeVector(vectors[i])
	}

	saved, err := repo.SaveEntities(ctx, entities...)
	if err != nil {
		return 0, fmt.Errorf("failed to save entities: %w", err)
	}
	return len(saved), nil
}
