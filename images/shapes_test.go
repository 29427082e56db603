package images

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBoxFromCenter(t *testing.T) {
	tests := []struct {
		name           string
		in             [4]float32 // cx, cy, w, h
		expected       Box
		expectedRight  float32
		expectedBottom float32
	}{
		{
			name:           "integral",
			in:             [4]float32{100, 50, 20, 10},
			expected:       Box{Left: 90, Top: 45, Width: 20, Height: 10},
			expectedRight:  110,
			expectedBottom: 55,
		},
		{
			name:           "odd size",
			in:             [4]float32{11, 7, 3, 5},
			expected:       Box{Left: 9.5, Top: 4.5, Width: 3, Height: 5},
			expectedRight:  12.5,
			expectedBottom: 9.5,
		},
		{
			name:           "degenerate",
			in:             [4]float32{4, 4, 0, 0},
			expected:       Box{Left: 4, Top: 4},
			expectedRight:  4,
			expectedBottom: 4,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := BoxFromCenter(tt.in[0], tt.in[1], tt.in[2], tt.in[3])
			assert.Equal(t, tt.expected, b)
			assert.Equal(t, tt.expectedRight, b.Right())
			assert.Equal(t, tt.expectedBottom, b.Bottom())
			assert.Equal(t, Point{X: tt.in[0], Y: tt.in[1]}, b.Center())
		})
	}
}

func TestBoxCorners(t *testing.T) {
	b := Box{Left: 90, Top: 45, Width: 20, Height: 10}

	t.Run("unrotated", func(t *testing.T) {
		c := b.Corners(0)
		assert.Equal(t, [4]Point{{90, 45}, {110, 45}, {110, 55}, {90, 55}}, c)
	})

	t.Run("quarter turn", func(t *testing.T) {
		c := b.Corners(math.Pi / 2)
		expected := [4]Point{{105, 40}, {105, 60}, {95, 60}, {95, 40}}
		for i := range c {
			assert.InDelta(t, expected[i].X, c[i].X, 1e-4, "corner %d x", i)
			assert.InDelta(t, expected[i].Y, c[i].Y, 1e-4, "corner %d y", i)
		}
	})
}
