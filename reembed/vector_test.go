package reembed

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeVector(t *testing.T) {
	sqrt2 := float32(math.Sqrt(2))

	tests := []struct {
		name string
		in   []float32
		want []float32
	}{
		{"already unit", []float32{0, 1, 0, 0}, []float32{0, 1, 0, 0}},
		{"scaled embedding", []float32{3, 4}, []float32{0.6, 0.8}},
		{"mixed signs", []float32{-1, 1}, []float32{-1 / sqrt2, 1 / sqrt2}},
		{"near-zero magnitudes", []float32{0.001, 0.002, 0.002}, []float32{1.0 / 3, 2.0 / 3, 2.0 / 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeVector(tt.in)
			require.Len(t, got, len(tt.want))
			for i := range got {
				assert.InDelta(t, tt.want[i], got[i], 1e-6, "element %d", i)
			}

			var mag float64
			for _, v := range got {
				mag += float64(v) * float64(v)
			}
			assert.InDelta(t, 1.0, math.Sqrt(mag), 1e-6)
		})
	}
}

func TestNormalizeVector_FullDimension(t *testing.T) {
	// The shape entity embeddings actually have.
	in := make([]float32, 384)
	for i := range in {
		in[i] = 0.5
	}

	got := NormalizeVector(in)
	require.Len(t, got, 384)

	want := float32(1.0 / math.Sqrt(384))
	var mag float64
	for _, v := range got {
		assert.InDelta(t, want, v, 1e-6)
		mag += float64(v) * float64(v)
	}
	assert.InDelta(t, 1.0, math.Sqrt(mag), 1e-6)
}

func TestNormalizeVector_ZeroVector(t *testing.T) {
	got := NormalizeVector([]float32{0, 0, 0})
	assert.Equal(t, []float32{0, 0, 0}, got)
}

func TestNormalizeVector_Empty(t *testing.T) {
	assert.Empty(t, NormalizeVector(nil))
	assert.Empty(t, NormalizeVector([]float32{}))
}

func TestNormalizeVector_DoesNotMutateInput(t *testing.T) {
	in := []float32{3, 4}
	_ = NormalizeVector(in)
	assert.Equal(t, []float32{3, 4}, in)
}
