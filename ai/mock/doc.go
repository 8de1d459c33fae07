// Package mock provides test double implementations of AI service interfaces.
//
// This package contains mock implementations of ai.Embedder, ai.TextAnalyzer,
// and ai.AIProvider for use in unit tests. The mocks allow tests to run without
// external AI service dependencies and enable controlled, deterministic behavior.
//
// # Usage in Tests
//
//	// Basic usage with default behavior
//	mockProvider := mock.NewMockProvider()
//	embeddings, err := mockProvider.Embedder().EmbedText(ctx, "test")
//
//	// Custom behavior injection
//	mockAnalyzer := mock.NewMockTextAnalyzer()
//	mockAnalyzer.AnalyzeTextFunc = func(ctx context.Context, text string) (*ai.TextAnalysis, error) {
//	    return &ai.TextAnalysis{Sentiment: 0.5}, nil
//	}
//
//	// Check call counts
//	count := mockAnalyzer.CallCount()
//
// # Default Behavior
//
// The mock implementations provide sensible defaults:
//
//   - MockEmbedder: Returns deterministic vectors based on text hash
//   - MockTextAnalyzer: Treats capitalized words as person mentions, neutral sentiment
//   - MockProvider: Aggregates mock embedder and analyzer
package mock
