package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitCost(t *testing.T) {
	cases := []struct {
		name  string
		total float64
		k     int
		want  float64
	}{
		{name: "sole member carries everything", total: 100, k: 1, want: 100},
		{name: "even split", total: 100, k: 2, want: 50},
		{name: "thirds round half up", total: 100, k: 3, want: 33.33},
		{name: "exact cents", total: 99.99, k: 3, want: 33.33},
		{name: "half cent rounds up", total: 0.03, k: 2, want: 0.02},
		{name: "free session", total: 0, k: 5, want: 0},
		{name: "zero members", total: 100, k: 0, want: 0},
		{name: "negative members", total: 100, k: -2, want: 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, SplitCost(tc.total, tc.k))
		})
	}
}

// Growing then shrinking the roster must land back on the original
// per-person share.
func TestSplitCostRoundTrip(t *testing.T) {
	assert.Equal(t, 100.0, SplitCost(100, 1))
	assert.Equal(t, 50.0, SplitCost(100, 2))
	assert.Equal(t, 100.0, SplitCost(100, 1))
}
