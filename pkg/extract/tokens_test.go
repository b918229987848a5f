package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestEstimateTokens_CeilingNotFloor exercises spec.md §8 property 7:
// estimate(s) == ceil(chars(s)/4), including the literal assertions
// estimate("A")==1 and estimate("你好")==1 — both of which a floor division
// would under-count to 0.
func TestEstimateTokens_CeilingNotFloor(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want int
	}{
		{"single ascii char", "A", 1},
		{"two multibyte chars", "你好", 1},
		{"empty string", "", 0},
		{"exact multiple of four", "abcd", 1},
		{"one over a multiple of four", "abcde", 2},
		{"eight ascii chars", "abcdefgh", 2},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, estimateTokens(tc.in))
		})
	}
}
