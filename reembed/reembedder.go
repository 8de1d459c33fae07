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


package reembed

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/JedouEdu/digiEduHack-hackathon/ai"
	"github.com/JedouEdu/digiEduHack-hackathon/core"
	"github.com/JedouEdu/digiEduHack-hackathon/storage"
)

const (
	// DefaultBatchSize is the default number of entities embedded per call.
	DefaultBatchSize = 100
)

// Config holds configuration for the reembedding operation.
type Config struct {
	// BatchSize is the number of entities to embed in each batch
	BatchSize int

	// ReportInterval is how often to report progress (number of entities)
	ReportInterval int

	// MaxRetries is the maximum number of retry attempts for failed operations
	MaxRetries int

	// RetryDelay is the base delay for exponential backoff
	RetryDelay time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		BatchSize:      DefaultBatchSize,
		ReportInterval: 100,
		MaxRetries:     3,
		RetryDelay:     1 * time.Second,
	}
}

// Reembedder orchestrates reembedding of the entity registry, one region at
// a time.
type Reembedder struct {
	repo      storage.EntityRepository
	config    *Config
	progress  io.Writer
	processor *BatchProcessor
}

// NewReembedder creates a new reembedder.
// progress: where to write progress output (typically os.Stderr)
func NewReembedder(repo storage.EntityRepository, embedder ai.Embedder, config *Config, progress io.Writer) *Reembedder {
	if config == nil {
		config = DefaultConfig()
	}

	return &Reembedder{
		repo:      repo,
		config:    config,
		progress:  progress,
		processor: NewBatchProcessor(repo, embedder, config.MaxRetries, config.RetryDelay),
	}
}

// Run reembeds every entity in the given regions. Progress is reported to
// the configured writer. Stops on the first failed batch so a broken
// embedding backend does not half-update the registry region by region.
func (r *Reembedder) Run(ctx context.Context, regions ...string) error {
	if len(regions) == 0 {
		return ErrNoRegions
	}

	byRegion := make(map[string][]*core.Entity, len(regions))
	total := 0
	for _, region := range regions {
		entities, err := r.repo.LoadRegion(ctx, region)
		if err != nil {
			return fmt.Errorf("failed to load region %q: %w", region, err)
		}
		byRegion[region] = entities
		total += len(entities)
	}

	if total == 0 {
		fmt.Fprintf(r.progress, "No entities found in %d region(s)\n", len(regions))
		return nil
	}

	fmt.Fprintf(r.progress, "Starting reembedding of %d entities across %d region(s) (batch size: %d)\n",
		total, len(regions), r.config.BatchSize)

	tracker := NewProgressTracker(r.progress, total, r.config.ReportInterval)
	tracker.Start()

	for _, region := range regions {
		entities := byRegion[region]
		for i := 0; i < len(entities); i += r.config.BatchSize {
			end := i + r.config.BatchSize
			if end > len(entities) {
				end = len(entities)
			}

			if err := r.processor.Process(ctx, entities[i:end]); err != nil {
				return fmt.Errorf("region %q: %w", region, err)
			}
			tracker.Increment(end - i)

			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
		}
	}

	tracker.Finish()

	elapsed := tracker.Elapsed()
	fmt.Fprintf(r.progress, "Reembedding complete. Processed %d entities in %v (%.1f entities/sec)\n",
		total, elapsed.Round(time.Second), float64(total)/elapsed.Seconds())

	return nil
}
