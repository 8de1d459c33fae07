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


package ingest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/JedouEdu/digiEduHack-hackathon/ai"
	"github.com/JedouEdu/digiEduHack-hackathon/catalog"
	"github.com/JedouEdu/digiEduHack-hackathon/core"
	"github.com/JedouEdu/digiEduHack-hackathon/entity"
	"github.com/JedouEdu/digiEduHack-hackathon/freeform"
	"github.com/JedouEdu/digiEduHack-hackathon/storage"
	"github.com/JedouEdu/digiEduHack-hackathon/table"
	"github.com/JedouEdu/digiEduHack-hackathon/tabular"
)

// minAutoMappings is the number of AUTO column mappings below which a
// tabular record gets a data-quality warning.
const minAutoMappings = 2

// Orchestrator drives one ingestion call through the routing state machine.
// Metadata parsing is the only hard-fail point; everything downstream
// degrades to warnings where possible.
type Orchestrator struct {
	catalog    *catalog.Catalog
	classifier *tabular.Classifier
	mapper     *tabular.Mapper
	normalizer *tabular.Normalizer
	analyzer   *freeform.Analyzer
	entities   storage.EntityRepository
	warehouse  storage.Warehouse
	runs       storage.RunRepository
	now        func() time.Time
	logger     *slog.Logger
}

// OrchestratorOption configures an Orchestrator.
type OrchestratorOption func(*Orchestrator)

// WithNormalizer overrides the default normalizer, e.g. to enable
// pseudonymization.
func WithNormalizer(n *tabular.Normalizer) OrchestratorOption {
	return func(o *Orchestrator) {
		o.normalizer = n
	}
}

// WithRunRepository enables the ingestion-run audit trail.
func WithRunRepository(runs storage.RunRepository) OrchestratorOption {
	return func(o *Orchestrator) {
		o.runs = runs
	}
}

// WithClock overrides the timestamp source. Test hook.
func WithClock(now func() time.Time) OrchestratorOption {
	return func(o *Orchestrator) {
		o.now = now
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) OrchestratorOption {
	return func(o *Orchestrator) {
		if logger == nil {
			logger = slog.Default()
		}
		o.logger = logger
	}
}

// NewOrchestrator creates an ingestion orchestrator.
func NewOrchestrator(
	cat *catalog.Catalog,
	provider ai.AIProvider,
	entities storage.EntityRepository,
	warehouse storage.Warehouse,
	opts ...OrchestratorOption,
) (*Orchestrator, error) {
	if cat == nil {
		return nil, ErrCatalogRequired
	}
	if provider == nil {
		return nil, ErrAIProviderRequired
	}
	if entities == nil {
		return nil, ErrEntityRepositoryRequired
	}
	if warehouse == nil {
		return nil, ErrWarehouseRequired
	}

	embedder := provider.Embedder()
	resolver := entity.NewResolver(embedder)

	o := &Orchestrator{
		catalog:    cat,
		classifier: tabular.NewClassifier(cat, embedder),
		mapper:     tabular.NewMapper(cat, embedder),
		normalizer: tabular.NewNormalizer(),
		analyzer:   freeform.NewAnalyzer(provider.TextAnalyzer(), embedder, resolver),
		entities:   entities,
		warehouse:  warehouse,
		now:        time.Now,
		logger:     slog.Default().With("component", "orchestrator"),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o, nil
}

// Ingest processes one raw record (frontmatter envelope plus content) and
// returns its result. The entity cache for the region is loaded fresh.
func (o *Orchestrator) Ingest(ctx context.Context, raw string) *core.IngestResult {
	return o.IngestWithCache(ctx, raw, nil)
}

// IngestWithCache is Ingest with a caller-held entity cache. Passing a cache
// skips the per-call region load and marks the result as a cache hit. The
// caller owns freshness; the cache must match the record's region.
func (o *Orchestrator) IngestWithCache(ctx context.Context, raw string, cache *entity.Cache) (result *core.IngestResult) {
	start := o.now()
	result = &core.IngestResult{Status: core.StatusIngested}

	// Single boundary catch: nothing below may take the process down.
	defer func() {
		if r := recover(); r != nil {
			o.logger.Error("ingestion panicked", "record_id", result.RecordID, "panic", r)
			result.Status = core.StatusFailed
			result.ErrorMessage = fmt.Sprintf("internal error: %v", r)
		}
		result.ProcessingTimeMS = o.now().Sub(start).Milliseconds()
		result.CompletedAt = o.now()
		o.recordRun(ctx, result)
	}()

	fm, text, err := ParseFrontmatter(raw)
	if err != nil {
		result.Status = core.StatusFailed
		result.ErrorMessage = fmt.Sprintf("metadata: %v", err)
		return result
	}
	result.RecordID = fm.FileID
	result.CacheHit = cache != nil

	if fm.IsTabular() {
		o.ingestTabular(ctx, fm, text, cache, result)
	} else {
		o.ingestFreeForm(ctx, fm, text, cache, result)
	}

	o.logger.Info("record ingested",
		"record_id", result.RecordID,
		"status", result.Status,
		"table_type", result.TableType,
		"rows", result.RowsLoaded,
		"warnings", len(result.Warnings))
	return result
}

// ingestTabular runs load -> classify -> map -> normalize -> validate ->
// persist. Low classification confidence and load failures reroute to the
// free-form path with a warning.
func (o *Orchestrator) ingestTabular(ctx context.Context, fm *Frontmatter, text string, cache *entity.Cache, result *core.IngestResult) {
	tbl, err := table.LoadText(text, fm.ContentType())
	if err != nil {
		if errors.Is(err, table.ErrTooManyRows) {
			result.Status = core.StatusFailed
			result.ErrorMessage = fmt.Sprintf("table load: %v", err)
			return
		}
		result.Warnings = append(result.Warnings, fmt.Sprintf("tabular load failed, treating as free-form: %v", err))
		o.ingestFreeForm(ctx, fm, text, cache, result)
		return
	}

	tableType, score, err := o.classifier.Classify(ctx, tbl)
	if err != nil {
		result.Warnings = append(result.Warnings, fmt.Sprintf("classification failed, treating as free-form: %v", err))
		o.ingestFreeForm(ctx, fm, text, cache, result)
		return
	}
	if tableType == tabular.FreeFormType {
		result.Warnings = append(result.Warnings, fmt.Sprintf("classification confidence %.3f below threshold, treating as free-form", score))
		o.ingestFreeForm(ctx, fm, text, cache, result)
		return
	}
	result.TableType = tableType

	mappings, err := o.mapper.MapColumns(ctx, tbl)
	if err != nil {
		result.Warnings = append(result.Warnings, fmt.Sprintf("column mapping failed, keeping original headers: %v", err))
	}
	autoCount := 0
	for _, m := range mappings {
		if m.Status == core.MappingAuto {
			autoCount++
		}
	}
	if autoCount < minAutoMappings {
		result.Warnings = append(result.Warnings, fmt.Sprintf("only %d columns mapped automatically", autoCount))
	}

	normalized := o.normalizer.Normalize(tbl, tableType, mappings, fm.RegionID, fm.FileID)

	if tt, ok := o.catalog.TableType(tableType); ok {
		warnings, err := tabular.ValidateSchema(normalized, tt)
		result.Warnings = append(result.Warnings, warnings...)
		if err != nil {
			result.Status = core.StatusFailed
			result.ErrorMessage = fmt.Sprintf("schema validation: %v", err)
			return
		}
	}

	stats, err := o.warehouse.InsertTable(ctx, normalized)
	if err != nil {
		// Transformation succeeded; durability is tracked separately.
		result.Warnings = append(result.Warnings, fmt.Sprintf("warehouse write failed: %v", err))
		result.RowsLoaded = len(normalized.Rows)
		return
	}
	result.RowsLoaded = stats.RowsLoaded
	result.BytesProcessed = stats.BytesProcessed
}

// ingestFreeForm runs cache load -> analyze -> persist.
func (o *Orchestrator) ingestFreeForm(ctx context.Context, fm *Frontmatter, text string, cache *entity.Cache, result *core.IngestResult) {
	if result.TableType == "" {
		result.TableType = tabular.FreeFormType
	}

	if cache == nil {
		ents, err := o.entities.LoadRegion(ctx, fm.RegionID)
		if err != nil {
			result.Warnings = append(result.Warnings, fmt.Sprintf("entity cache load failed: %v", err))
		}
		cache = entity.NewCache(fm.RegionID, ents)
	}

	info := freeform.RecordInfo{
		RecordID:        fm.FileID,
		RegionID:        fm.RegionID,
		ContentType:     fm.FileCategory,
		AudioDurationMS: fm.AudioDurationMS(),
		AudioConfidence: fm.Audio.Confidence,
		AudioLanguage:   fm.Audio.Language,
		PageCount:       fm.Document.PageCount,
	}
	obs, targets, err := o.analyzer.Analyze(ctx, text, info, cache)
	if err != nil {
		result.Warnings = append(result.Warnings, fmt.Sprintf("free-form analysis degraded: %v", err))
		return
	}

	if err := o.warehouse.InsertObservation(ctx, obs, targets); err != nil {
		result.Warnings = append(result.Warnings, fmt.Sprintf("warehouse write failed: %v", err))
	}
	result.RowsLoaded = 1
	result.BytesProcessed = int64(len(text))
}

// recordRun writes the audit record when a run repository is configured.
func (o *Orchestrator) recordRun(ctx context.Context, result *core.IngestResult) {
	if o.runs == nil || result.RecordID == "" {
		return
	}
	if err := o.runs.RecordRun(ctx, result); err != nil {
		o.logger.Warn("failed to record ingestion run", "record_id", result.RecordID, "err", err)
		result.Warnings = append(result.Warnings, fmt.Sprintf("audit write failed: %v", err))
	}
}
