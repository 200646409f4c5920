package uptime

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func at(minute int) time.Time {
	return time.Date(2026, 3, 1, 0, minute, 0, 0, time.UTC)
}

func TestMergeIntervals(t *testing.T) {
	tests := []struct {
		name     string
		input    []interval
		expected []interval
	}{
		{
			name:     "empty",
			input:    nil,
			expected: nil,
		},
		{
			name:     "single interval unchanged",
			input:    []interval{{at(0), at(10)}},
			expected: []interval{{at(0), at(10)}},
		},
		{
			name:     "overlapping intervals merge",
			input:    []interval{{at(0), at(10)}, {at(5), at(15)}, {at(20), at(30)}},
			expected: []interval{{at(0), at(15)}, {at(20), at(30)}},
		},
		{
			name:     "touching intervals merge",
			input:    []interval{{at(0), at(10)}, {at(10), at(20)}},
			expected: []interval{{at(0), at(20)}},
		},
		{
			name:     "contained interval absorbed",
			input:    []interval{{at(0), at(30)}, {at(5), at(10)}},
			expected: []interval{{at(0), at(30)}},
		},
		{
			name:     "unsorted input",
			input:    []interval{{at(20), at(25)}, {at(0), at(10)}},
			expected: []interval{{at(0), at(10)}, {at(20), at(25)}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, mergeIntervals(tt.input))
		})
	}
}

func TestTotalSeconds(t *testing.T) {
	merged := mergeIntervals([]interval{{at(0), at(10)}, {at(5), at(15)}, {at(20), at(30)}})
	assert.Equal(t, float64(25*60), totalSeconds(merged))
}

func TestRoundHalfUp(t *testing.T) {
	tests := []struct {
		value    float64
		expected float64
	}{
		{99.994, 99.99},
		{12.125, 12.13},
		{99.996, 100},
		{75, 75},
		{100 * 2700.0 / 3600.0, 75},
		{100.0 / 3.0, 33.33},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, roundHalfUp(tt.value), "roundHalfUp(%v)", tt.value)
	}
}
