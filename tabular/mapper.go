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


package tabular

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/JedouEdu/digiEduHack-hackathon/ai"
	"github.com/JedouEdu/digiEduHack-hackathon/catalog"
	"github.com/JedouEdu/digiEduHack-hackathon/core"
	"github.com/JedouEdu/digiEduHack-hackathon/table"
)

// Mapping status thresholds: AUTO at and above 0.75, LOW_CONFIDENCE in
// [0.55, 0.75), UNKNOWN below.
const (
	AutoThreshold          = 0.75
	LowConfidenceThreshold = 0.55
)

// Score adjustments applied after cosine scoring, based on whether the
// column's inferred value type agrees with the concept's declared type.
const (
	exactTypeBonus = 0.10
	softTypeBonus  = 0.05
	mismatchMalus  = 0.15
)

const (
	mapperSampleSize = 5
	topCandidates    = 3
)

// Mapper assigns canonical concepts to source columns by embedding
// similarity with type-aware adjustment.
type Mapper struct {
	catalog  *catalog.Catalog
	embedder ai.Embedder
	logger   *slog.Logger
}

// NewMapper creates a mapper over an embedded catalog.
func NewMapper(cat *catalog.Catalog, embedder ai.Embedder) *Mapper {
	return &Mapper{
		catalog:  cat,
		embedder: embedder,
		logger:   slog.Default().With("component", "column-mapper"),
	}
}

// MapColumns maps every column of the table to its best concept, preserving
// input column order. An empty table yields an empty mapping list.
// Embedding failures propagate to the caller.
func (m *Mapper) MapColumns(ctx context.Context, tbl *table.Table) ([]core.ColumnMapping, error) {
	if tbl == nil || len(tbl.Columns) == 0 {
		return []core.ColumnMapping{}, nil
	}

	descriptions := make([]string, len(tbl.Columns))
	for i, col := range tbl.Columns {
		descriptions[i] = columnDescription(tbl, col)
	}

	vectors, err := m.embedder.EmbedTexts(ctx, descriptions)
	if err != nil {
		return nil, fmt.Errorf("embed column descriptions: %w", err)
	}

	concepts := m.catalog.Concepts()
	mappings := make([]core.ColumnMapping, len(tbl.Columns))
	for i, col := range tbl.Columns {
		inferred := inferredType(tbl.Column(col))

		candidates := make([]core.ConceptCandidate, 0, len(concepts))
		for _, concept := range concepts {
			score := ai.CosineSimilarity(vectors[i], concept.Vector)
			score = adjustScore(score, inferred, concept.ExpectedType)
			candidates = append(candidates, core.ConceptCandidate{
				ConceptKey: concept.Key,
				Score:      score,
			})
		}

		sort.SliceStable(candidates, func(a, b int) bool {
			return candidates[a].Score > candidates[b].Score
		})
		if len(candidates) > topCandidates {
			candidates = candidates[:topCandidates]
		}

		mapping := core.ColumnMapping{
			SourceColumn: col,
			Status:       core.MappingUnknown,
			Candidates:   candidates,
		}
		if len(candidates) > 0 {
			best := candidates[0]
			mapping.Score = best.Score
			mapping.Status = statusFor(best.Score)
			if mapping.Status != core.MappingUnknown {
				mapping.ConceptKey = best.ConceptKey
			}
		}
		mappings[i] = mapping

		m.logger.Debug("mapped column",
			"column", col,
			"concept", mapping.ConceptKey,
			"score", mapping.Score,
			"status", mapping.Status)
	}

	return mappings, nil
}

// statusFor buckets an adjusted score into a mapping status. Both
// boundaries are inclusive on the higher tier.
func statusFor(score float64) core.MappingStatus {
	switch {
	case score >= AutoThreshold:
		return core.MappingAuto
	case score >= LowConfidenceThreshold:
		return core.MappingLowConfidence
	default:
		return core.MappingUnknown
	}
}

// columnDescription builds the embedding input for one column.
func columnDescription(tbl *table.Table, col string) string {
	samples := tbl.Sample(col, mapperSampleSize)
	if len(samples) == 0 {
		return fmt.Sprintf("Column name: %s.", col)
	}
	return fmt.Sprintf("Column name: %s. Sample values: %s", col, strings.Join(samples, ", "))
}

// inferredType translates a column's inferred kind into catalog type terms.
func inferredType(values []string) string {
	switch table.InferKind(values) {
	case table.KindNumeric:
		return catalog.TypeNumber
	case table.KindDate:
		return catalog.TypeDate
	case table.KindCategorical:
		return catalog.TypeCategorical
	default:
		return catalog.TypeString
	}
}

// adjustScore applies the type-agreement adjustment and clamps to [0, 1].
// Exact number/date agreement earns the full bonus; string and categorical
// are soft-compatible with each other; anything else is a mismatch.
func adjustScore(score float64, inferred, expected string) float64 {
	switch {
	case inferred == expected && (expected == catalog.TypeNumber || expected == catalog.TypeDate):
		score += exactTypeBonus
	case isTextual(inferred) && isTextual(expected):
		score += softTypeBonus
	default:
		score -= mismatchMalus
	}

	if score > 1 {
		return 1
	}
	if score < 0 {
		return 0
	}
	return score
}

func isTextual(t string) bool {
	return t == catalog.TypeString || t == catalog.TypeCategorical
}
