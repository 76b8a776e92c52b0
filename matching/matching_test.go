package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmptyGraph(t *testing.T) {
	assert.Empty(t, MaxWeightMatching(nil, false))
	assert.Empty(t, MaxWeightMatching([]Edge{}, true))
}

func TestSingleEdge(t *testing.T) {
	mates := MaxWeightMatching([]Edge{{0, 1, 1}}, false)
	assert.Equal(t, []int{1, 0}, mates)
}

func TestPathPrefersHeavierEdge(t *testing.T) {
	mates := MaxWeightMatching([]Edge{{1, 2, 10}, {2, 3, 11}}, false)
	assert.Equal(t, []int{Unmatched, Unmatched, 3, 2}, mates)
}

func TestPathMiddleEdgeWins(t *testing.T) {
	mates := MaxWeightMatching([]Edge{{1, 2, 5}, {2, 3, 11}, {3, 4, 5}}, false)
	assert.Equal(t, []int{Unmatched, Unmatched, 3, 2, Unmatched}, mates)
}

func TestMaxCardinalityForcesFullMatching(t *testing.T) {
	edges := []Edge{{1, 2, 5}, {2, 3, 11}, {3, 4, 5}}
	mates := MaxWeightMatching(edges, true)
	assert.Equal(t, []int{Unmatched, 2, 1, 4, 3}, mates)
}

func TestNegativeWeights(t *testing.T) {
	edges := []Edge{{1, 2, 2}, {1, 3, -2}, {2, 3, 1}, {2, 4, -1}, {3, 4, -6}}

	mates := MaxWeightMatching(edges, false)
	assert.Equal(t, []int{Unmatched, 2, 1, Unmatched, Unmatched}, mates)

	mates = MaxWeightMatching(edges, true)
	assert.Equal(t, []int{Unmatched, 3, 4, 1, 2}, mates)
}

func TestSBlossomAndRelabel(t *testing.T) {
	mates := MaxWeightMatching([]Edge{{1, 2, 8}, {1, 3, 9}, {2, 3, 10}, {3, 4, 7}}, false)
	assert.Equal(t, []int{Unmatched, 2, 1, 4, 3}, mates)

	mates = MaxWeightMatching([]Edge{
		{1, 2, 8}, {1, 3, 9}, {2, 3, 10}, {3, 4, 7}, {1, 6, 5}, {4, 5, 6},
	}, false)
	assert.Equal(t, []int{Unmatched, 6, 3, 2, 5, 4, 1}, mates)
}

func TestNestedSBlossom(t *testing.T) {
	mates := MaxWeightMatching([]Edge{
		{1, 2, 9}, {1, 3, 9}, {2, 3, 10}, {2, 4, 8}, {3, 5, 8}, {4, 5, 10}, {5, 6, 6},
	}, false)
	assert.Equal(t, []int{Unmatched, 3, 4, 1, 2, 6, 5}, mates)
}

func TestMatchingIsSymmetric(t *testing.T) {
	edges := []Edge{
		{0, 1, 6}, {0, 2, 10}, {1, 2, 5}, {1, 3, 4}, {2, 3, 6}, {0, 3, 1},
	}
	mates := MaxWeightMatching(edges, true)
	require.Len(t, mates, 4)
	for v, mate := range mates {
		if mate == Unmatched {
			continue
		}
		assert.Equal(t, v, mates[mate], "mate of %d's mate should be %d", v, v)
	}
}
