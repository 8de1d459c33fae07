package mock

import (
	"context"
	"hash/fnv"
	"math"
)

// mockDim matches the dimensionality of the production embedding model.
const mockDim = 384

// MockEmbedder is a test double for ai.Embedder.
// Behavior can be overridden per test via the function fields; without
// them it returns stable pseudo-embeddings, where the same text always
// maps to the same unit vector.
type MockEmbedder struct {
	// EmbedTextFunc, when set, replaces the default behavior of EmbedText.
	EmbedTextFunc func(ctx context.Context, text string) ([]float32, error)

	// EmbedTextsFunc, when set, replaces the default behavior of EmbedTexts.
	EmbedTextsFunc func(ctx context.Context, texts []string) ([][]float32, error)

	callCount int
}

// NewMockEmbedder creates a mock embedder with default deterministic
// behavior. Returns the concrete type so tests can reach the mock fields.
func NewMockEmbedder() *MockEmbedder {
	return &MockEmbedder{}
}

// EmbedText returns a stable pseudo-embedding for the text.
func (m *MockEmbedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	m.callCount++
	if m.EmbedTextFunc != nil {
		return m.EmbedTextFunc(ctx, text)
	}
	return pseudoEmbedding(text), nil
}

// EmbedTexts returns stable pseudo-embeddings for each text.
func (m *MockEmbedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	m.callCount++
	if m.EmbedTextsFunc != nil {
		return m.EmbedTextsFunc(ctx, texts)
	}

	out := make([][]float32, len(texts))
	for i, text := range texts {
		out[i] = pseudoEmbedding(text)
	}
	return out, nil
}

// CallCount returns the number of times any method was called.
func (m *MockEmbedder) CallCount() int {
	return m.callCount
}

// Reset clears the call count and custom functions.
func (m *MockEmbedder) Reset() {
	m.callCount = 0
	m.EmbedTextFunc = nil
	m.EmbedTextsFunc = nil
}

// pseudoEmbedding derives a unit vector from the FNV-64 hash of the text.
// Each component comes from a splitmix-style scramble of the hash, so
// similar texts still land on unrelated vectors.
func pseudoEmbedding(text string) []float32 {
	h := fnv.New64a()
	h.Write([]byte(text))
	state := h.Sum64()

	vec := make([]float32, mockDim)
	var sum float64
	for i := range vec {
		state += 0x9e3779b97f4a7c15
		z := state
		z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
		z = (z ^ (z >> 27)) * 0x94d049bb133111eb
		z ^= z >> 31
		vec[i] = float32(z>>40)/float32(1<<24) - 0.5
		sum += float64(vec[i]) * float64(vec[i])
	}

	norm := math.Sqrt(sum)
	if norm == 0 {
		return vec
	}
	for i := range vec {
		vec[i] = float32(float64(vec[i]) / norm)
	}
	return vec
}
