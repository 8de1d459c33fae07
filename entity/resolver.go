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


package entity

import (
	"context"
	"log/slog"
	"strings"

	"github.com/xrash/smetrics"

	"github.com/JedouEdu/digiEduHack-hackathon/ai"
	"github.com/JedouEdu/digiEduHack-hackathon/core"
)

// Resolution policy defaults. The HIGH-confidence boundaries (0.85 fuzzy,
// 0.75 embedding) are fixed; the acceptance thresholds are tunable.
const (
	DefaultFuzzyThreshold     = 0.85
	DefaultEmbeddingThreshold = 0.75

	fuzzyHighBoundary     = 0.85
	embeddingHighBoundary = 0.75

	// initialsScore is the fixed score for initials-expansion hits. It sits
	// below genuine fuzzy matches because the expansion is a heuristic, not
	// a distance measurement.
	initialsScore = 0.80

	maxInitialsCandidates = 5
)

// ValueType tells the resolver whether the source value is an identifier
// or a display name.
type ValueType int

const (
	ValueName ValueType = iota
	ValueID
)

// Query is one resolution request as seen by the strategies.
type Query struct {
	Value      string
	Normalized string
	Type       core.EntityType
	ValueType  ValueType
}

// Strategy attempts one resolution approach. It returns the match and true
// on a hit, and must not mutate the cache.
type Strategy func(ctx context.Context, q Query, cache *Cache) (core.EntityMatch, bool)

// Resolver maps source values to canonical entities using an ordered
// strategy chain: exact ID, exact name, fuzzy name, initials expansion,
// embedding similarity. The first satisfied strategy wins.
type Resolver struct {
	strategies         []Strategy
	fuzzyThreshold     float64
	embeddingThreshold float64
	embedder           ai.Embedder
	nameBook           NameBook
	logger             *slog.Logger
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithFuzzyThreshold overrides the fuzzy acceptance threshold.
func WithFuzzyThreshold(threshold float64) Option {
	return func(r *Resolver) {
		r.fuzzyThreshold = threshold
	}
}

// WithEmbeddingThreshold overrides the embedding acceptance threshold.
func WithEmbeddingThreshold(threshold float64) Option {
	return func(r *Resolver) {
		r.embeddingThreshold = threshold
	}
}

// WithNameBook plugs in a locale-specific given-name book for initials
// expansion.
func WithNameBook(book NameBook) Option {
	return func(r *Resolver) {
		r.nameBook = book
	}
}

// NewResolver creates a resolver with the default strategy chain. The
// embedder may be nil, which disables the embedding strategy.
func NewResolver(embedder ai.Embedder, opts ...Option) *Resolver {
	r := &Resolver{
		fuzzyThreshold:     DefaultFuzzyThreshold,
		embeddingThreshold: DefaultEmbeddingThreshold,
		embedder:           embedder,
		nameBook:           DefaultNameBook(),
		logger:             slog.Default().With("component", "entity-resolver"),
	}
	for _, opt := range opts {
		opt(r)
	}

	r.strategies = []Strategy{
		r.idExact,
		r.nameExact,
		r.fuzzy,
		r.initials,
		r.embedding,
	}
	return r
}

// Resolve runs the strategy chain for one source value. Empty or
// whitespace-only values short-circuit to an unresolved outcome. Resolve
// never fails; an embedding service error just skips that strategy.
func (r *Resolver) Resolve(ctx context.Context, value string, entityType core.EntityType, valueType ValueType, cache *Cache) Resolution {
	q := Query{
		Value:      strings.TrimSpace(value),
		Normalized: NormalizeName(value),
		Type:       entityType,
		ValueType:  valueType,
	}
	if q.Value == "" {
		return Unresolved(value)
	}

	for _, strategy := range r.strategies {
		if match, ok := strategy(ctx, q, cache); ok {
			r.logger.Debug("resolved entity",
				"value", q.Value,
				"type", entityType,
				"method", match.MatchMethod,
				"score", match.SimilarityScore)
			return Resolved(match)
		}
	}

	r.logger.Debug("unresolved entity", "value", q.Value, "type", entityType)
	return Unresolved(value)
}

// idExact matches the raw value against the kind's source-ID index.
// Only attempted for identifier values.
func (r *Resolver) idExact(_ context.Context, q Query, cache *Cache) (core.EntityMatch, bool) {
	if q.ValueType != ValueID {
		return core.EntityMatch{}, false
	}
	id, ok := cache.LookupID(q.Type, q.Value)
	if !ok {
		return core.EntityMatch{}, false
	}
	return r.match(q, cache, id, core.MatchIDExact, 1.0, core.ConfidenceHigh), true
}

// nameExact matches the normalized value against the kind's name index.
func (r *Resolver) nameExact(_ context.Context, q Query, cache *Cache) (core.EntityMatch, bool) {
	id, ok := cache.LookupName(q.Type, q.Normalized)
	if !ok {
		return core.EntityMatch{}, false
	}
	return r.match(q, cache, id, core.MatchNameExact, 1.0, core.ConfidenceHigh), true
}

// fuzzy finds the closest cached name by edit distance and accepts it when
// the derived similarity clears the threshold.
func (r *Resolver) fuzzy(_ context.Context, q Query, cache *Cache) (core.EntityMatch, bool) {
	var bestID string
	bestScore := -1.0

	for name, id := range cache.NormalizedNames(q.Type) {
		maxLen := len(q.Normalized)
		if len(name) > maxLen {
			maxLen = len(name)
		}
		if maxLen == 0 {
			continue
		}
		distance := smetrics.WagnerFischer(q.Normalized, name, 1, 1, 1)
		score := 1.0 - float64(distance)/float64(maxLen)
		if score > bestScore {
			bestScore = score
			bestID = id
		}
	}

	if bestID == "" || bestScore < r.fuzzyThreshold {
		return core.EntityMatch{}, false
	}

	confidence := core.ConfidenceMedium
	if bestScore >= fuzzyHighBoundary {
		confidence = core.ConfidenceHigh
	}
	return r.match(q, cache, bestID, core.MatchFuzzy, bestScore, confidence), true
}

// initials expands "J. Novak"-style values into candidate full names using
// the name book and retries exact lookup. A hit is reported as FUZZY with a
// fixed score since the expansion is heuristic.
func (r *Resolver) initials(_ context.Context, q Query, cache *Cache) (core.EntityMatch, bool) {
	if r.nameBook == nil {
		return core.EntityMatch{}, false
	}

	fields := strings.Fields(q.Normalized)
	if len(fields) != 2 {
		return core.EntityMatch{}, false
	}
	initial := []rune(fields[0])
	surname := fields[1]
	if len(initial) != 1 || len([]rune(surname)) < 2 {
		return core.EntityMatch{}, false
	}

	candidates := r.nameBook.GivenNames(initial[0])
	if len(candidates) > maxInitialsCandidates {
		candidates = candidates[:maxInitialsCandidates]
	}

	for _, given := range candidates {
		id, ok := cache.LookupName(q.Type, given+" "+surname)
		if !ok {
			continue
		}
		return r.match(q, cache, id, core.MatchFuzzy, initialsScore, core.ConfidenceMedium), true
	}
	return core.EntityMatch{}, false
}

// embedding scores the raw value against the kind's cached entity vectors
// and accepts the best match above the threshold. Skipped when the kind has
// no vectors, no embedder is configured, or the embedding call fails.
func (r *Resolver) embedding(ctx context.Context, q Query, cache *Cache) (core.EntityMatch, bool) {
	vectors := cache.Embeddings(q.Type)
	if r.embedder == nil || len(vectors) == 0 {
		return core.EntityMatch{}, false
	}

	queryVec, err := r.embedder.EmbedText(ctx, q.Value)
	if err != nil {
		r.logger.Warn("embedding strategy skipped", "value", q.Value, "err", err)
		return core.EntityMatch{}, false
	}

	var bestID string
	bestScore := -1.0
	for id, vec := range vectors {
		score := ai.CosineSimilarity(queryVec, vec)
		if score > bestScore {
			bestScore = score
			bestID = id
		}
	}

	if bestID == "" || bestScore < r.embeddingThreshold {
		return core.EntityMatch{}, false
	}

	confidence := core.ConfidenceMedium
	if bestScore >= embeddingHighBoundary {
		confidence = core.ConfidenceHigh
	}
	return r.match(q, cache, bestID, core.MatchEmbedding, bestScore, confidence), true
}

func (r *Resolver) match(q Query, cache *Cache, entityID string, method core.MatchMethod, score float64, confidence core.Confidence) core.EntityMatch {
	return core.EntityMatch{
		EntityID:        entityID,
		EntityName:      cache.DisplayName(entityID),
		EntityType:      q.Type,
		SimilarityScore: score,
		MatchMethod:     method,
		Confidence:      confidence,
		SourceValue:     q.Value,
	}
}
