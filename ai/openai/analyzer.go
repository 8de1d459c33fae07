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


package openai

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/JedouEdu/digiEduHack-hackathon/ai"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// TextAnalyzer implements ai.TextAnalyzer using OpenAI-compatible chat APIs.
type TextAnalyzer struct {
	client      llms.Model
	maxMentions int
	logger      *slog.Logger
}

// mention is an internal type used for JSON unmarshaling.
// It matches the structure expected from the LLM.
type mention struct {
	Text string `json:"text"`
	Kind string `json:"kind"`
}

// analysis is the wrapper structure for the LLM's JSON response.
type analysis struct {
	Mentions  []mention `json:"mentions"`
	Sentiment float64   `json:"sentiment"`
}

// newTextAnalyzer is an internal constructor that returns the concrete type.
// Used by Provider to manage the instance.
func newTextAnalyzer(config *ai.Config) (*TextAnalyzer, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	// Create OpenAI client configured for chat/analysis
	// Use "none" as token for local OpenAI-compatible services that don't require authentication
	client, err := openai.New(
		openai.WithBaseURL(config.AnalyzerHost),
		openai.WithToken("none"),
		openai.WithModel(config.AnalyzerModel),
	)
	if err != nil {
		return nil, err
	}

	return &TextAnalyzer{
		client:      client,
		maxMentions: config.MaxMentions,
		logger:      slog.Default().With("component", "openai-analyzer"),
	}, nil
}

// NewTextAnalyzer creates a new text analyzer using the provided configuration.
//
// Returns ai.TextAnalyzer interface to enforce abstraction.
func NewTextAnalyzer(config *ai.Config) (ai.TextAnalyzer, error) {
	return newTextAnalyzer(config)
}

// AnalyzeText detects entity mentions and sentiment in free-form text using an LLM.
// Mentions with unrecognized kinds are dropped; the sentiment score is clamped
// to [-1, 1].
func (a *TextAnalyzer) AnalyzeText(ctx context.Context, text string) (*ai.TextAnalysis, error) {
	// Cap input size so oversized transcripts don't blow the context window
	text = truncateText(text, maxAnalysisInput)

	systemPrompt := buildAnalysisPrompt()
	content := []llms.MessageContent{
		{
			Role: llms.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{
				llms.TextPart(systemPrompt),
			},
		},
		{
			Role: llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{
				llms.TextPart(text),
			},
		},
	}

	// Try up to 3 times in case of malformed JSON
	var result analysis
	var lastErr error
	for attempt := 0; attempt < 3; attempt++ {
		response, err := a.client.GenerateContent(ctx, content, llms.WithTemperature(0.0), llms.WithJSONMode())
		if err != nil {
			a.logger.Error("failed to generate content", "attempt", attempt+1, "err", err)
			return nil, err
		}

		if len(response.Choices) < 1 {
			a.logger.Debug("no choices returned from model")
			return &ai.TextAnalysis{Mentions: []ai.Mention{}}, nil
		}

		choice := response.Choices[0]

		// Strip markdown code fences if present
		responseText := strings.TrimSpace(choice.Content)
		responseText = strings.TrimPrefix(responseText, "```json")
		responseText = strings.TrimPrefix(responseText, "```")
		responseText = strings.TrimSuffix(responseText, "```")
		responseText = strings.TrimSpace(responseText)

		// Try to repair common JSON issues
		responseText = repairJSON(responseText)

		if err := json.Unmarshal([]byte(responseText), &result); err != nil {
			// A truncated array can still hold complete mentions; keep
			// those instead of retrying. Sentiment is lost with the tail.
			if salvaged := salvageMentions(responseText); len(salvaged) > 0 {
				a.logger.Warn("recovered mentions from truncated response",
					"attempt", attempt+1,
					"recovered", len(salvaged))
				result = analysis{Mentions: salvaged}
				lastErr = nil
				break
			}
			lastErr = err
			a.logger.Warn("error parsing analyzer response",
				"attempt", attempt+1,
				"response", responseText,
				"err", err)
			continue
		}

		// Success
		lastErr = nil
		break
	}

	if lastErr != nil {
		a.logger.Error("failed to parse analyzer response after retries", "err", lastErr)
		return nil, lastErr
	}

	// Drop invalid kinds and cap the mention count
	mentions := make([]ai.Mention, 0, len(result.Mentions))
	for _, m := range result.Mentions {
		kind := strings.ToLower(strings.TrimSpace(m.Kind))
		text := strings.TrimSpace(m.Text)
		if text == "" || !ai.ValidMentionKind(kind) {
			continue
		}
		mentions = append(mentions, ai.Mention{Text: text, Kind: kind})
		if len(mentions) >= a.maxMentions {
			break
		}
	}

	sentiment := result.Sentiment
	if sentiment > 1 {
		sentiment = 1
	}
	if sentiment < -1 {
		sentiment = -1
	}

	a.logger.Debug("analyzed text",
		"raw_mentions", len(result.Mentions),
		"kept", len(mentions),
		"sentiment", sentiment)

	return &ai.TextAnalysis{
		Mentions:  mentions,
		Sentiment: sentiment,
	}, nil
}
