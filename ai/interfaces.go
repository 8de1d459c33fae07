package ai

import "context"

// Embedder generates vector embeddings from text for semantic similarity.
// Implementations must be thread-safe for concurrent use.
type Embedder interface {
	// EmbedText generates a vector embedding for a single text string.
	// The returned vector represents the semantic meaning of the text.
	// Returns an error if the embedding generation fails.
	EmbedText(ctx context.Context, text string) ([]float32, error)

	// EmbedTexts generates vector embeddings for multiple text strings in a batch.
	// Batch processing is more efficient than calling EmbedText multiple times.
	// The returned slice contains embeddings in the same order as the input texts.
	// Returns an error if any embedding generation fails.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// TextAnalyzer extracts entity mentions and sentiment from free-form text.
// Implementations must be thread-safe for concurrent use.
type TextAnalyzer interface {
	// AnalyzeText analyzes feedback or document text and returns the entity
	// mentions it contains together with an overall sentiment score.
	// Returns an analysis with no mentions if nothing is found.
	// Returns an error if the analysis fails.
	AnalyzeText(ctx context.Context, text string) (*TextAnalysis, error)
}

// Mention is one entity reference detected in text.
type Mention struct {
	// Text is the mention as it appears in the source, e.g. "pani Novakova".
	Text string

	// Kind categorizes the mention. Must be one of MentionKinds:
	// "person", "subject" or "location".
	Kind string
}

// TextAnalysis is the result of analyzing one piece of free-form text.
type TextAnalysis struct {
	// Mentions are the entity references found in the text.
	Mentions []Mention

	// Sentiment is the overall tone of the text in [-1, 1],
	// where -1 is strongly negative and 1 strongly positive.
	Sentiment float64
}

// AIProvider aggregates AI services for convenient initialization and lifecycle management.
// A provider creates and manages Embedder and TextAnalyzer instances,
// ensuring they share configuration and resources appropriately.
type AIProvider interface {
	// Embedder returns the text embedding service.
	// The returned Embedder is safe for concurrent use.
	Embedder() Embedder

	// TextAnalyzer returns the mention and sentiment analysis service.
	// The returned TextAnalyzer is safe for concurrent use.
	TextAnalyzer() TextAnalyzer

	// Close releases resources held by the provider and its services.
	// After Close is called, the provider and its services should not be used.
	Close() error
}
