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


// Package tabular implements the structured-data half of the pipeline:
// table-type classification, column-to-concept mapping, normalization into
// the canonical warehouse form, and per-type schema validation.
package tabular

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strings"

	"github.com/JedouEdu/digiEduHack-hackathon/ai"
	"github.com/JedouEdu/digiEduHack-hackathon/catalog"
	"github.com/JedouEdu/digiEduHack-hackathon/table"
)

// FreeFormType is the pseudo table type for content that should take the
// free-form path instead of the warehouse path.
const FreeFormType = "FREE_FORM"

// DefaultClassifyThreshold is the softmax score below which a table is
// rerouted to free-form handling. Policy constant, tunable per deployment.
const DefaultClassifyThreshold = 0.4

// classifierSampleSize caps how many sample values go into each column's
// feature string.
const classifierSampleSize = 5

// Classifier scores a table against the catalog's table-type anchors via
// embedding similarity.
type Classifier struct {
	catalog   *catalog.Catalog
	embedder  ai.Embedder
	threshold float64
	logger    *slog.Logger
}

// ClassifierOption configures a Classifier.
type ClassifierOption func(*Classifier)

// WithClassifyThreshold overrides the free-form reroute threshold.
func WithClassifyThreshold(threshold float64) ClassifierOption {
	return func(c *Classifier) {
		c.threshold = threshold
	}
}

// NewClassifier creates a classifier over an embedded catalog.
func NewClassifier(cat *catalog.Catalog, embedder ai.Embedder, opts ...ClassifierOption) *Classifier {
	c := &Classifier{
		catalog:   cat,
		embedder:  embedder,
		threshold: DefaultClassifyThreshold,
		logger:    slog.Default().With("component", "table-classifier"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Classify assigns a table type and calibrated confidence to a table.
//
// Empty input yields (FreeFormType, 0.0) without error. A winning score
// below the threshold also routes to FreeFormType; exactly at the threshold
// counts as classified. Embedding failures propagate to the caller.
func (c *Classifier) Classify(ctx context.Context, tbl *table.Table) (string, float64, error) {
	if tbl == nil || len(tbl.Columns) == 0 || tbl.NumRows() == 0 {
		return FreeFormType, 0.0, nil
	}

	features := make([]string, len(tbl.Columns))
	for i, col := range tbl.Columns {
		features[i] = columnFeature(tbl, col)
	}

	vectors, err := c.embedder.EmbedTexts(ctx, features)
	if err != nil {
		return "", 0, fmt.Errorf("embed column features: %w", err)
	}

	types := c.catalog.TableTypes()
	means := make([]float64, len(types))
	for i, tt := range types {
		var sum float64
		for _, vec := range vectors {
			sum += ai.CosineSimilarity(vec, tt.Vector)
		}
		means[i] = sum / float64(len(vectors))
	}

	scores := softmax(means)

	best := 0
	for i := range scores {
		if scores[i] > scores[best] {
			best = i
		}
	}

	name := types[best].Name
	score := scores[best]
	c.logger.Debug("classified table",
		"type", name,
		"score", score,
		"columns", len(tbl.Columns))

	if score < c.threshold {
		return FreeFormType, score, nil
	}
	return name, score, nil
}

// columnFeature builds the embedding input for one column: its name plus a
// few sample values.
func columnFeature(tbl *table.Table, col string) string {
	samples := tbl.Sample(col, classifierSampleSize)
	if len(samples) == 0 {
		return fmt.Sprintf("Column: %s", col)
	}
	return fmt.Sprintf("Column: %s | Values: %s", col, strings.Join(samples, "; "))
}

// softmax converts raw mean similarities into a calibrated distribution,
// subtracting the max before exponentiating for numeric stability.
func softmax(scores []float64) []float64 {
	if len(scores) == 0 {
		return nil
	}

	max := scores[0]
	for _, s := range scores[1:] {
		if s > max {
			max = s
		}
	}

	out := make([]float64, len(scores))
	var sum float64
	for i, s := range scores {
		out[i] = math.Exp(s - max)
		sum += out[i]
	}
	for i := range out {
		out[i] /= sum
	}
	return out
}
