package images

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestIoU_Correctness validates the IoU implementation against known test cases
func TestIoU_Correctness(t *testing.T) {
	tests := []struct {
		name     string
		a        [4]float64
		b        [4]float64
		format   BoxFormat
		expected float64
	}{
		{
			name:     "Identical rectangles",
			a:        [4]float64{0, 0, 100, 100},
			b:        [4]float64{0, 0, 100, 100},
			format:   FormatCorners,
			expected: 1.0,
		},
		{
			name:     "No overlap",
			a:        [4]float64{0, 0, 100, 100},
			b:        [4]float64{200, 200, 300, 300},
			format:   FormatCorners,
			expected: 0.0,
		},
		{
			name:     "Touching edges",
			a:        [4]float64{0, 0, 100, 100},
			b:        [4]float64{100, 0, 200, 100},
			format:   FormatCorners,
			expected: 0.0,
		},
		{
			name:     "Half overlap",
			a:        [4]float64{0, 0, 100, 100},
			b:        [4]float64{50, 50, 150, 150},
			format:   FormatCorners,
			expected: 0.142857, // 2500 / (10000 + 10000 - 2500)
		},
		{
			name:     "Small overlap",
			a:        [4]float64{0, 0, 100, 100},
			b:        [4]float64{90, 90, 190, 190},
			format:   FormatCorners,
			expected: 0.005025, // 100 / 19900
		},
		{
			name:     "One inside other",
			a:        [4]float64{0, 0, 100, 100},
			b:        [4]float64{25, 25, 75, 75},
			format:   FormatCorners,
			expected: 0.25,
		},
		{
			name:     "Midpoint identical",
			a:        [4]float64{0.55, 0.2, 0.3, 0.2},
			b:        [4]float64{0.55, 0.2, 0.3, 0.2},
			format:   FormatMidpoint,
			expected: 1.0,
		},
		{
			name:     "Midpoint half shifted",
			a:        [4]float64{0.5, 0.5, 0.2, 0.2},
			b:        [4]float64{0.6, 0.5, 0.2, 0.2},
			format:   FormatMidpoint,
			expected: 1.0 / 3.0, // 0.02 / (0.04 + 0.04 - 0.02)
		},
		{
			name:     "Midpoint disjoint",
			a:        [4]float64{0.15, 0.25, 0.1, 0.1},
			b:        [4]float64{0.55, 0.2, 0.3, 0.2},
			format:   FormatMidpoint,
			expected: 0.0,
		},
		{
			name:     "Zero area boxes",
			a:        [4]float64{5, 5, 5, 5},
			b:        [4]float64{5, 5, 5, 5},
			format:   FormatCorners,
			expected: 0.0,
		},
		{
			name:     "Inverted box is clamped",
			a:        [4]float64{10, 10, 0, 0},
			b:        [4]float64{0, 0, 10, 10},
			format:   FormatCorners,
			expected: 0.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := CalculateIoU(tt.a, tt.b, tt.format)
			assert.InDelta(t, tt.expected, result, 1e-4)
			assert.GreaterOrEqual(t, result, 0.0)
			assert.LessOrEqual(t, result, 1.0)

			// IoU(A, B) must equal IoU(B, A).
			assert.Equal(t, result, CalculateIoU(tt.b, tt.a, tt.format), "IoU not symmetric")
		})
	}
}

func TestToCorners(t *testing.T) {
	r := ToCorners([4]float64{0.5, 0.5, 0.2, 0.4}, FormatMidpoint)
	assert.InDelta(t, 0.4, r.X1, 1e-9)
	assert.InDelta(t, 0.3, r.Y1, 1e-9)
	assert.InDelta(t, 0.6, r.X2, 1e-9)
	assert.InDelta(t, 0.7, r.Y2, 1e-9)

	assert.Equal(t, Rect{1, 2, 3, 4}, ToCorners([4]float64{1, 2, 3, 4}, FormatCorners))
}

func TestRectArea(t *testing.T) {
	assert.Equal(t, 200.0, Rect{0, 0, 10, 20}.Area())
	assert.Equal(t, 0.0, Rect{10, 0, 0, 20}.Area(), "negative width must clamp to zero")
	assert.Equal(t, 0.0, Rect{0, 0, 100, 100}.Intersect(Rect{200, 200, 300, 300}).Area())
}

func TestParseBoxFormat(t *testing.T) {
	format, err := ParseBoxFormat("Midpoint")
	require.NoError(t, err)
	assert.Equal(t, FormatMidpoint, format)

	format, err = ParseBoxFormat("corners")
	require.NoError(t, err)
	assert.Equal(t, FormatCorners, format)

	_, err = ParseBoxFormat("xywh")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownBoxFormat))
}
