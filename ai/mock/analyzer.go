package mock

import (
	"context"
	"strings"
	"unicode"

	"github.com/JedouEdu/digiEduHack-hackathon/ai"
)

// MockTextAnalyzer is a test double for ai.TextAnalyzer.
// It allows custom behavior injection via function fields.
type MockTextAnalyzer struct {
	// AnalyzeTextFunc is called by AnalyzeText if set.
	// If nil, uses default heuristic behavior.
	AnalyzeTextFunc func(ctx context.Context, text string) (*ai.TextAnalysis, error)

	callCount int
}

// NewMockTextAnalyzer creates a mock text analyzer with default behavior.
// Note: Returns concrete type to allow test assertions via GetMockAnalyzer().
func NewMockTextAnalyzer() *MockTextAnalyzer {
	return &MockTextAnalyzer{}
}

// AnalyzeText produces a simple heuristic analysis.
// Default behavior: capitalized words become person mentions (up to 5) and
// sentiment is neutral.
func (m *MockTextAnalyzer) AnalyzeText(ctx context.Context, text string) (*ai.TextAnalysis, error) {
	m.callCount++

	if m.AnalyzeTextFunc != nil {
		return m.AnalyzeTextFunc(ctx, text)
	}

	mentions := make([]ai.Mention, 0, 5)
	for _, word := range strings.Fields(text) {
		if len(mentions) >= 5 {
			break
		}

		word = strings.Trim(word, ".,!?;:\"'()[]{}")
		if word == "" {
			continue
		}

		runes := []rune(word)
		if unicode.IsUpper(runes[0]) {
			mentions = append(mentions, ai.Mention{Text: word, Kind: "person"})
		}
	}

	return &ai.TextAnalysis{
		Mentions:  mentions,
		Sentiment: 0,
	}, nil
}

// CallCount returns the number of times AnalyzeText was called.
func (m *MockTextAnalyzer) CallCount() int {
	return m.callCount
}

// Reset clears the call count and custom functions.
func (m *MockTextAnalyzer) Reset() {
	m.callCount = 0
	m.AnalyzeTextFunc = nil
}
