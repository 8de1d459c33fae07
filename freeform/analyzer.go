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


// Package freeform analyzes unstructured text records: entity mentions and
// sentiment from the AI collaborator, mention resolution through the entity
// resolver, and assembly of relevance-ranked target records.
package freeform

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"github.com/JedouEdu/digiEduHack-hackathon/ai"
	"github.com/JedouEdu/digiEduHack-hackathon/core"
	"github.com/JedouEdu/digiEduHack-hackathon/entity"
)

// Policy defaults. The target cap bounds record fan-out, not data quality.
const (
	DefaultMaxTargets        = 10
	DefaultFeedbackThreshold = 0.75
)

// RecordInfo carries the arrival metadata of one free-form record into the
// observation it produces.
type RecordInfo struct {
	RecordID        string
	RegionID        string
	ContentType     string
	AudioDurationMS int64
	AudioConfidence float64
	AudioLanguage   string
	PageCount       int
}

// FeedbackRow is one row of a feedback table for batch analysis.
type FeedbackRow struct {
	FeedbackID string
	Text       string
}

// Analyzer turns free-form text into observations and entity targets.
// AI collaborator failures degrade the output, they never fail a record.
type Analyzer struct {
	textAnalyzer      ai.TextAnalyzer
	embedder          ai.Embedder
	resolver          *entity.Resolver
	maxTargets        int
	feedbackThreshold float64
	now               func() time.Time
	logger            *slog.Logger
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithMaxTargets overrides the per-record target cap.
func WithMaxTargets(max int) Option {
	return func(a *Analyzer) {
		a.maxTargets = max
	}
}

// WithFeedbackThreshold overrides the embedding-pass acceptance threshold
// used in batch mode.
func WithFeedbackThreshold(threshold float64) Option {
	return func(a *Analyzer) {
		a.feedbackThreshold = threshold
	}
}

// WithClock overrides the ingest timestamp source. Test hook.
func WithClock(now func() time.Time) Option {
	return func(a *Analyzer) {
		a.now = now
	}
}

// NewAnalyzer creates a free-form analyzer. The text analyzer may be nil,
// which disables mention extraction and sentiment (both degrade to empty).
func NewAnalyzer(textAnalyzer ai.TextAnalyzer, embedder ai.Embedder, resolver *entity.Resolver, opts ...Option) *Analyzer {
	a := &Analyzer{
		textAnalyzer:      textAnalyzer,
		embedder:          embedder,
		resolver:          resolver,
		maxTargets:        DefaultMaxTargets,
		feedbackThreshold: DefaultFeedbackThreshold,
		now:               time.Now,
		logger:            slog.Default().With("component", "freeform-analyzer"),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Analyze processes a single free-form text into an observation and its
// resolved targets.
func (a *Analyzer) Analyze(ctx context.Context, text string, info RecordInfo, cache *entity.Cache) (*core.Observation, []core.ObservationTarget, error) {
	analysis := a.analyzeText(ctx, text)

	matches := a.resolveMentions(ctx, analysis.Mentions, cache)
	targets := make([]core.ObservationTarget, 0, len(matches))
	for _, m := range assembleTargets(matches, a.maxTargets) {
		targets = append(targets, core.ObservationTarget{
			ObservationID:  info.RecordID,
			TargetType:     m.EntityType,
			TargetID:       m.EntityID,
			RelevanceScore: m.SimilarityScore,
			Confidence:     core.ConfidenceFromRelevance(m.SimilarityScore),
		})
	}

	obs := &core.Observation{
		RecordID:        info.RecordID,
		RegionID:        info.RegionID,
		Text:            text,
		Mentions:        observedMentions(analysis.Mentions),
		SentimentScore:  analysis.Sentiment,
		ContentType:     info.ContentType,
		AudioDurationMS: info.AudioDurationMS,
		AudioConfidence: info.AudioConfidence,
		AudioLanguage:   info.AudioLanguage,
		PageCount:       info.PageCount,
		IngestTimestamp: a.now(),
	}

	a.logger.Debug("analyzed free-form record",
		"record_id", info.RecordID,
		"mentions", len(analysis.Mentions),
		"targets", len(targets),
		"sentiment", analysis.Sentiment)
	return obs, targets, nil
}

// AnalyzeBatch processes a table of feedback rows. On top of the mention
// pass, each row's whole-text embedding is scored against every cached
// entity vector; hits above the feedback threshold become additional
// targets. The embedding pass is additive, not a fallback.
func (a *Analyzer) AnalyzeBatch(ctx context.Context, rows []FeedbackRow, cache *entity.Cache) ([]core.FeedbackTarget, error) {
	var out []core.FeedbackTarget

	for _, row := range rows {
		if row.Text == "" {
			continue
		}

		analysis := a.analyzeText(ctx, row.Text)
		matches := a.resolveMentions(ctx, analysis.Mentions, cache)
		matches = append(matches, a.embeddingMatches(ctx, row.Text, cache)...)

		for _, m := range assembleTargets(matches, a.maxTargets) {
			out = append(out, core.FeedbackTarget{
				FeedbackID:     row.FeedbackID,
				TargetType:     m.EntityType,
				TargetID:       m.EntityID,
				RelevanceScore: m.SimilarityScore,
				Confidence:     core.ConfidenceFromRelevance(m.SimilarityScore),
			})
		}
	}

	return out, nil
}

// analyzeText calls the AI collaborator, degrading to an empty analysis on
// any failure.
func (a *Analyzer) analyzeText(ctx context.Context, text string) *ai.TextAnalysis {
	empty := &ai.TextAnalysis{Mentions: []ai.Mention{}}
	if a.textAnalyzer == nil || text == "" {
		return empty
	}

	analysis, err := a.textAnalyzer.AnalyzeText(ctx, text)
	if err != nil {
		a.logger.Warn("text analysis failed, proceeding without mentions", "err", err)
		return empty
	}

	if analysis.Sentiment > 1 {
		analysis.Sentiment = 1
	}
	if analysis.Sentiment < -1 {
		analysis.Sentiment = -1
	}
	return analysis
}

// resolveMentions routes each mention to the entity kinds its kind implies:
// person across teacher, student and parent keeping the best score; subject
// against subjects; location against region first, then school.
func (a *Analyzer) resolveMentions(ctx context.Context, mentions []ai.Mention, cache *entity.Cache) []core.EntityMatch {
	var matches []core.EntityMatch

	for _, m := range mentions {
		switch m.Kind {
		case "person":
			var best core.EntityMatch
			found := false
			for _, t := range []core.EntityType{core.EntityTeacher, core.EntityStudent, core.EntityParent} {
				res := a.resolver.Resolve(ctx, m.Text, t, entity.ValueName, cache)
				if !res.IsResolved() {
					continue
				}
				if !found || res.Match().SimilarityScore > best.SimilarityScore {
					best = res.Match()
					found = true
				}
			}
			if found {
				matches = append(matches, best)
			}

		case "subject":
			if res := a.resolver.Resolve(ctx, m.Text, core.EntitySubject, entity.ValueName, cache); res.IsResolved() {
				matches = append(matches, res.Match())
			}

		case "location":
			for _, t := range []core.EntityType{core.EntityRegion, core.EntitySchool} {
				if res := a.resolver.Resolve(ctx, m.Text, t, entity.ValueName, cache); res.IsResolved() {
					matches = append(matches, res.Match())
					break
				}
			}
		}
	}

	return matches
}

// embeddingMatches scores a whole text against every cached entity vector
// across all kinds. Failures degrade to no matches.
func (a *Analyzer) embeddingMatches(ctx context.Context, text string, cache *entity.Cache) []core.EntityMatch {
	if a.embedder == nil {
		return nil
	}

	textVec, err := a.embedder.EmbedText(ctx, text)
	if err != nil {
		a.logger.Warn("feedback embedding failed, skipping embedding pass", "err", err)
		return nil
	}

	var matches []core.EntityMatch
	for _, t := range core.EntityTypes {
		for id, vec := range cache.Embeddings(t) {
			score := ai.CosineSimilarity(textVec, vec)
			if score < a.feedbackThreshold {
				continue
			}
			matches = append(matches, core.EntityMatch{
				EntityID:        id,
				EntityName:      cache.DisplayName(id),
				EntityType:      t,
				SimilarityScore: score,
				MatchMethod:     core.MatchEmbedding,
				Confidence:      core.ConfidenceFromRelevance(score),
			})
		}
	}
	return matches
}

// assembleTargets deduplicates matches by (type, id) keeping the higher
// score, sorts by relevance descending, and truncates to the cap.
func assembleTargets(matches []core.EntityMatch, limit int) []core.EntityMatch {
	type key struct {
		t  core.EntityType
		id string
	}

	best := make(map[key]core.EntityMatch, len(matches))
	order := make([]key, 0, len(matches))
	for _, m := range matches {
		if m.EntityID == "" {
			continue
		}
		k := key{m.EntityType, m.EntityID}
		existing, seen := best[k]
		if !seen {
			order = append(order, k)
		}
		if !seen || m.SimilarityScore > existing.SimilarityScore {
			best[k] = m
		}
	}

	out := make([]core.EntityMatch, 0, len(order))
	for _, k := range order {
		out = append(out, best[k])
	}
	sort.SliceStable(out, func(a, b int) bool {
		return out[a].SimilarityScore > out[b].SimilarityScore
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

// observedMentions converts AI mentions to the audit records kept on the
// observation.
func observedMentions(mentions []ai.Mention) []core.ObservedMention {
	out := make([]core.ObservedMention, len(mentions))
	for i, m := range mentions {
		out[i] = core.ObservedMention{Text: m.Text, Kind: m.Kind}
	}
	return out
}
