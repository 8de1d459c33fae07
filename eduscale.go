// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


// Package eduscale wires the ingestion pipeline together: storage backend,
// repositories, AI provider and the embedded catalog, behind one Platform
// handle.
package eduscale

import (
	"context"
	"io"
	"log/slog"

	"github.com/JedouEdu/digiEduHack-hackathon/ai"
	"github.com/JedouEdu/digiEduHack-hackathon/ai/openai"
	"github.com/JedouEdu/digiEduHack-hackathon/catalog"
	"github.com/JedouEdu/digiEduHack-hackathon/entity"
	"github.com/JedouEdu/digiEduHack-hackathon/ingest"
	"github.com/JedouEdu/digiEduHack-hackathon/reembed"
	"github.com/JedouEdu/digiEduHack-hackathon/storage"
	"github.com/JedouEdu/digiEduHack-hackathon/storage/badger"
)

// Platform bundles the storage backend, repositories, AI provider and
// embedded catalog. Construct one with Open, release it with Close.
type Platform struct {
	backend   *badger.Backend
	entities  storage.EntityRepository
	warehouse storage.Warehouse
	runs      storage.RunRepository
	provider  ai.AIProvider
	catalog   *catalog.Catalog
	logger    *slog.Logger
}

// Option configures a Platform.
type Option func(*platformOptions)

type platformOptions struct {
	aiConfig   *ai.Config
	provider   ai.AIProvider
	definition *catalog.Definition
	inMemory   bool
}

// WithAIConfig sets the AI provider configuration.
func WithAIConfig(config *ai.Config) Option {
	return func(o *platformOptions) {
		o.aiConfig = config
	}
}

// WithProvider injects a prebuilt AI provider instead of constructing one
// from the AI config. The platform takes ownership and closes it.
func WithProvider(provider ai.AIProvider) Option {
	return func(o *platformOptions) {
		o.provider = provider
	}
}

// WithCatalogDefinition replaces the built-in catalog definition.
func WithCatalogDefinition(def *catalog.Definition) Option {
	return func(o *platformOptions) {
		o.definition = def
	}
}

// WithInMemoryStorage keeps all data in memory. For tests and one-off runs.
func WithInMemoryStorage() Option {
	return func(o *platformOptions) {
		o.inMemory = true
	}
}

// Open opens the storage backend at filePath, builds the repositories and
// embeds the catalog. The context bounds the catalog embedding calls.
func Open(ctx context.Context, filePath string, opts ...Option) (*Platform, error) {
	options := &platformOptions{
		aiConfig:   ai.DefaultConfig(),
		definition: catalog.DefaultDefinition(),
	}
	for _, opt := range opts {
		opt(options)
	}

	backend, err := badger.OpenBackend(filePath, options.inMemory)
	if err != nil {
		return nil, err
	}

	entities, err := badger.NewEntityRepository(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}

	warehouse, err := badger.NewWarehouse(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}

	runs, err := badger.NewRunRepository(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}

	provider := options.provider
	if provider == nil {
		provider, err = openai.NewProvider(options.aiConfig)
		if err != nil {
			backend.Close()
			return nil, err
		}
	}

	cat, err := catalog.Build(ctx, options.definition, provider.Embedder())
	if err != nil {
		provider.Close()
		backend.Close()
		return nil, err
	}

	return &Platform{
		backend:   backend,
		entities:  entities,
		warehouse: warehouse,
		runs:      runs,
		provider:  provider,
		catalog:   cat,
		logger:    slog.Default(),
	}, nil
}

// Close releases the AI provider and the storage backend.
func (p *Platform) Close() error {
	if err := p.provider.Close(); err != nil {
		p.logger.Error("error closing AI provider", "err", err)
	}

	if err := p.backend.Close(); err != nil {
		p.logger.Error("error closing backend storage", "err", err)
		return err
	}
	return nil
}

func (p *Platform) EntityRepository() storage.EntityRepository {
	return p.entities
}

func (p *Platform) Warehouse() storage.Warehouse {
	return p.warehouse
}

func (p *Platform) RunRepository() storage.RunRepository {
	return p.runs
}

func (p *Platform) Catalog() *catalog.Catalog {
	return p.catalog
}

// NewOrchestrator builds a single-record ingestion orchestrator over the
// platform's repositories. Run auditing is wired in by default.
func (p *Platform) NewOrchestrator(opts ...ingest.OrchestratorOption) (*ingest.Orchestrator, error) {
	merged := append([]ingest.OrchestratorOption{ingest.WithRunRepository(p.runs)}, opts...)
	return ingest.NewOrchestrator(p.catalog, p.provider, p.entities, p.warehouse, merged...)
}

// NewBatch builds a batch ingester over a fresh orchestrator.
func (p *Platform) NewBatch(opts ...ingest.BatchOption) (*ingest.Batch, error) {
	orchestrator, err := p.NewOrchestrator()
	if err != nil {
		return nil, err
	}
	return ingest.NewBatch(orchestrator, opts...)
}

// LoadEntityCache loads a region's entities into a fresh cache. Callers that
// ingest many records from one region can hold the cache and pass it to
// Orchestrator.IngestWithCache.
func (p *Platform) LoadEntityCache(ctx context.Context, region string) (*entity.Cache, error) {
	ents, err := p.entities.LoadRegion(ctx, region)
	if err != nil {
		return nil, err
	}
	return entity.NewCache(region, ents), nil
}

// NewReembedder builds an entity reembedder writing progress to the given
// writer.
func (p *Platform) NewReembedder(config *reembed.Config, progress io.Writer) *reembed.Reembedder {
	return reembed.NewReembedder(p.entities, p.provider.Embedder(), config, progress)
}
