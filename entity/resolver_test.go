package entity

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JedouEdu/digiEduHack-hackathon/ai/mock"
	"github.com/JedouEdu/digiEduHack-hackathon/core"
)

func testCache() *Cache {
	return NewCache("CZ010", []*core.Entity{
		{
			ID:        "T-1",
			Type:      core.EntityTeacher,
			Region:    "CZ010",
			Name:      "Ivan Petrov",
			SourceIDs: []string{"EMP-100"},
		},
		{
			ID:   "T-2",
			Type: core.EntityTeacher,
			Name: "Jana Novakova",
		},
		{
			ID:   "S-1",
			Type: core.EntityStudent,
			Name: "Ivan Petrov", // same name, different kind
		},
	})
}

func TestResolve_IDExact(t *testing.T) {
	r := NewResolver(nil)
	cache := testCache()

	res := r.Resolve(context.Background(), "EMP-100", core.EntityTeacher, ValueID, cache)

	require.True(t, res.IsResolved())
	m := res.Match()
	assert.Equal(t, "T-1", m.EntityID)
	assert.Equal(t, core.MatchIDExact, m.MatchMethod)
	assert.Equal(t, 1.0, m.SimilarityScore)
	assert.Equal(t, core.ConfidenceHigh, m.Confidence)
	assert.Equal(t, "Ivan Petrov", m.EntityName)
}

func TestResolve_IDExactBeatsFuzzy(t *testing.T) {
	// A value that is both a valid source ID and a near-name must be
	// reported as ID_EXACT, never FUZZY.
	cache := NewCache("CZ010", []*core.Entity{
		{ID: "T-1", Type: core.EntityTeacher, Name: "EMP 100", SourceIDs: []string{"EMP-100"}},
	})
	r := NewResolver(nil)

	res := r.Resolve(context.Background(), "EMP-100", core.EntityTeacher, ValueID, cache)

	require.True(t, res.IsResolved())
	assert.Equal(t, core.MatchIDExact, res.Match().MatchMethod)
}

func TestResolve_NameExact(t *testing.T) {
	r := NewResolver(nil)
	cache := testCache()

	// Normalization handles case, periods and extra whitespace
	res := r.Resolve(context.Background(), "  JANA   Novakova. ", core.EntityTeacher, ValueName, cache)

	require.True(t, res.IsResolved())
	m := res.Match()
	assert.Equal(t, "T-2", m.EntityID)
	assert.Equal(t, core.MatchNameExact, m.MatchMethod)
	assert.Equal(t, core.ConfidenceHigh, m.Confidence)
}

func TestResolve_KindIsolation(t *testing.T) {
	r := NewResolver(nil)
	cache := testCache()

	res := r.Resolve(context.Background(), "Ivan Petrov", core.EntityStudent, ValueName, cache)

	require.True(t, res.IsResolved())
	assert.Equal(t, "S-1", res.Match().EntityID)
}

func TestResolve_Fuzzy(t *testing.T) {
	r := NewResolver(nil)
	cache := testCache()

	// One substitution away from "jana novakova" (13 chars): 1 - 1/13 ≈ 0.92
	res := r.Resolve(context.Background(), "Jana Novakove", core.EntityTeacher, ValueName, cache)

	require.True(t, res.IsResolved())
	m := res.Match()
	assert.Equal(t, "T-2", m.EntityID)
	assert.Equal(t, core.MatchFuzzy, m.MatchMethod)
	assert.InDelta(t, 1.0-1.0/13.0, m.SimilarityScore, 1e-9)
	assert.Equal(t, core.ConfidenceHigh, m.Confidence)
}

func TestResolve_FuzzyBelowThreshold(t *testing.T) {
	r := NewResolver(nil)
	cache := testCache()

	res := r.Resolve(context.Background(), "Karel Svoboda", core.EntityTeacher, ValueName, cache)

	assert.False(t, res.IsResolved())
	assert.Equal(t, core.MatchNew, res.Match().MatchMethod)
}

func TestResolve_FuzzyThresholdConfigurable(t *testing.T) {
	cache := NewCache("CZ010", []*core.Entity{
		{ID: "T-9", Type: core.EntityTeacher, Name: "abcdefghij"},
	})

	// "abcdefghXX" is 2 edits from "abcdefghij": score 0.8
	strict := NewResolver(nil)
	res := strict.Resolve(context.Background(), "abcdefghXX", core.EntityTeacher, ValueName, cache)
	assert.False(t, res.IsResolved())

	lenient := NewResolver(nil, WithFuzzyThreshold(0.75))
	res = lenient.Resolve(context.Background(), "abcdefghXX", core.EntityTeacher, ValueName, cache)
	require.True(t, res.IsResolved())
	m := res.Match()
	assert.Equal(t, core.MatchFuzzy, m.MatchMethod)
	// Below the fixed 0.85 boundary, so MEDIUM despite acceptance
	assert.Equal(t, core.ConfidenceMedium, m.Confidence)
}

func TestResolve_InitialsExpansion(t *testing.T) {
	r := NewResolver(nil)
	cache := testCache()

	res := r.Resolve(context.Background(), "I. Petrov", core.EntityTeacher, ValueName, cache)

	require.True(t, res.IsResolved())
	m := res.Match()
	assert.Equal(t, "T-1", m.EntityID)
	assert.Equal(t, core.MatchFuzzy, m.MatchMethod)
	assert.Equal(t, 0.80, m.SimilarityScore)
	assert.Equal(t, core.ConfidenceMedium, m.Confidence)
}

func TestResolve_InitialsNoHit(t *testing.T) {
	r := NewResolver(nil)
	cache := testCache()

	res := r.Resolve(context.Background(), "X. Vrabec", core.EntityTeacher, ValueName, cache)
	assert.False(t, res.IsResolved())
}

func TestResolve_Embedding(t *testing.T) {
	queryVec := []float32{1, 0, 0}
	cache := NewCache("CZ010", []*core.Entity{
		{ID: "SUB-1", Type: core.EntitySubject, Name: "matematika", Vector: []float32{0.9, 0.1, 0}},
		{ID: "SUB-2", Type: core.EntitySubject, Name: "dejepis", Vector: []float32{0, 1, 0}},
	})

	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextFunc = func(_ context.Context, _ string) ([]float32, error) {
		return queryVec, nil
	}
	r := NewResolver(embedder)

	res := r.Resolve(context.Background(), "matika", core.EntitySubject, ValueName, cache)

	require.True(t, res.IsResolved())
	m := res.Match()
	assert.Equal(t, "SUB-1", m.EntityID)
	assert.Equal(t, core.MatchEmbedding, m.MatchMethod)
	assert.Equal(t, core.ConfidenceHigh, m.Confidence)
	assert.Greater(t, m.SimilarityScore, 0.75)
}

func TestResolve_EmbeddingSkippedWithoutVectors(t *testing.T) {
	embedder := mock.NewMockEmbedder()
	r := NewResolver(embedder)
	cache := testCache() // no vectors loaded

	res := r.Resolve(context.Background(), "matika", core.EntitySubject, ValueName, cache)

	assert.False(t, res.IsResolved())
	assert.Equal(t, 0, embedder.CallCount(), "embedder must not be called without cached vectors")
}

func TestResolve_EmbeddingFailureIsNotFatal(t *testing.T) {
	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextFunc = func(_ context.Context, _ string) ([]float32, error) {
		return nil, assert.AnError
	}
	cache := NewCache("CZ010", []*core.Entity{
		{ID: "SUB-1", Type: core.EntitySubject, Name: "matematika", Vector: []float32{1, 0}},
	})
	r := NewResolver(embedder)

	res := r.Resolve(context.Background(), "matika", core.EntitySubject, ValueName, cache)
	assert.False(t, res.IsResolved())
}

func TestResolve_EmptyValue(t *testing.T) {
	r := NewResolver(nil)
	cache := testCache()

	for _, value := range []string{"", "   ", "\t"} {
		res := r.Resolve(context.Background(), value, core.EntityTeacher, ValueName, cache)

		assert.False(t, res.IsResolved())
		m := res.Match()
		assert.Equal(t, core.MatchNew, m.MatchMethod)
		assert.Equal(t, core.ConfidenceLow, m.Confidence)
		assert.Empty(t, m.EntityID)
		assert.Equal(t, 0.0, m.SimilarityScore)
	}
}

func TestNewEntity_Idempotent(t *testing.T) {
	a := NewEntity(core.EntityTeacher, "Pavel Dvorak", "CZ010")
	b := NewEntity(core.EntityTeacher, "Pavel Dvorak", "CZ010")
	c := NewEntity(core.EntityTeacher, "Pavel Dvorak", "CZ020")

	assert.Equal(t, a.ID, b.ID)
	assert.NotEqual(t, a.ID, c.ID)
	assert.Equal(t, "Pavel Dvorak", a.Name)
	assert.Equal(t, core.EntityTeacher, a.Type)
	assert.NoError(t, core.ValidateEntity(a))
}

func TestNormalizeName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Ivan Petrov", "ivan petrov"},
		{"  I.  PETROV ", "i petrov"},
		{"Mgr. Jana Novakova", "mgr jana novakova"},
		{"", ""},
		{" . ", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeName(tt.in), "NormalizeName(%q)", tt.in)
	}
}
