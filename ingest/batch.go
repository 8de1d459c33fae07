package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"sync"

	"github.com/panjf2000/ants/v2"

	"github.com/JedouEdu/digiEduHack-hackathon/core"
	"github.com/JedouEdu/digiEduHack-hackathon/entity"
)

// Batch runs independent ingestion calls in parallel. Files are grouped by
// region and each region is processed serially within one pool task, which
// keeps entity-cache reads free of concurrent mutation and lets a whole
// group share one cache load.
type Batch struct {
	orchestrator *Orchestrator
	pool         *ants.Pool
	logger       *slog.Logger
}

// BatchOption configures a Batch.
type BatchOption func(*Batch) error

// WithPoolSize sets the worker pool size.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) BatchOption {
	return func(b *Batch) error {
		if size < 1 {
			size = 1
		}
		if b.pool != nil {
			b.pool.Release()
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		b.pool = pool
		return nil
	}
}

// NewBatch creates a batch ingester on top of an orchestrator.
func NewBatch(orchestrator *Orchestrator, opts ...BatchOption) (*Batch, error) {
	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	b := &Batch{
		orchestrator: orchestrator,
		pool:         pool,
		logger:       slog.Default().With("component", "batch-ingester"),
	}
	for _, opt := range opts {
		if optErr := opt(b); optErr != nil {
			b.Release()
			return nil, optErr
		}
	}
	return b, nil
}

// IngestFiles reads and ingests the given files. Results are returned in
// input order; a file that cannot be read or parsed yields a FAILED result
// instead of aborting the batch.
func (b *Batch) IngestFiles(ctx context.Context, paths []string) []*core.IngestResult {
	results := make([]*core.IngestResult, len(paths))

	type record struct {
		index int
		fm    *Frontmatter
		raw   string
	}
	byRegion := make(map[string][]record)
	regions := make([]string, 0)

	for i, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			results[i] = &core.IngestResult{
				Status:       core.StatusFailed,
				ErrorMessage: fmt.Sprintf("read file: %v", err),
			}
			continue
		}
		raw := string(data)

		fm, _, err := ParseFrontmatter(raw)
		if err != nil {
			// Run it through the orchestrator anyway so the failure is
			// reported and audited uniformly.
			results[i] = b.orchestrator.Ingest(ctx, raw)
			continue
		}

		if _, ok := byRegion[fm.RegionID]; !ok {
			regions = append(regions, fm.RegionID)
		}
		byRegion[fm.RegionID] = append(byRegion[fm.RegionID], record{index: i, fm: fm, raw: raw})
	}

	var wg sync.WaitGroup
	for _, region := range regions {
		group := byRegion[region]
		region := region

		wg.Add(1)
		err := b.pool.Submit(func() {
			defer wg.Done()

			cache := b.loadCache(ctx, region)
			for _, rec := range group {
				results[rec.index] = b.orchestrator.IngestWithCache(ctx, rec.raw, cache)
			}
		})
		if err != nil {
			// Pool rejected the task; run the group inline.
			b.logger.Warn("pool submit failed, running inline", "region", region, "err", err)
			cache := b.loadCache(ctx, region)
			for _, rec := range group {
				results[rec.index] = b.orchestrator.IngestWithCache(ctx, rec.raw, cache)
			}
			wg.Done()
		}
	}
	wg.Wait()

	return results
}

// loadCache loads the region's entity cache once for a group. A failed load
// degrades to an empty cache; per-record warnings are not available here so
// the failure is only logged.
func (b *Batch) loadCache(ctx context.Context, region string) *entity.Cache {
	ents, err := b.orchestrator.entities.LoadRegion(ctx, region)
	if err != nil {
		b.logger.Warn("entity cache load failed for batch", "region", region, "err", err)
	}
	return entity.NewCache(region, ents)
}

// Release releases the worker pool.
// The batch ingester should not be used after calling Release.
func (b *Batch) Release() {
	if b.pool != nil {
		b.pool.Release()
	}
}
