package ranking

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWilsonLowerBound_ZeroVotes(t *testing.T) {
	assert.Equal(t, 0.0, WilsonLowerBound(0, 0))
}

func TestWilsonLowerBound_Deterministic(t *testing.T) {
	a := WilsonLowerBound(17, 5)
	b := WilsonLowerBound(17, 5)
	assert.Equal(t, a, b)
}

func TestWilsonLowerBound_MonotonicInUpvotes(t *testing.T) {
	// Holding downvotes fixed, more upvotes never lowers the score
	prev := WilsonLowerBound(0, 3)
	for up := 1; up <= 50; up++ {
		cur := WilsonLowerBound(up, 3)
		assert.GreaterOrEqual(t, cur, prev, "up=%d", up)
		prev = cur
	}
}

func TestWilsonLowerBound_MonotonicInDownvotes(t *testing.T) {
	// Holding upvotes fixed, more downvotes never raises the score
	prev := WilsonLowerBound(10, 0)
	for down := 1; down <= 50; down++ {
		cur := WilsonLowerBound(10, down)
		assert.LessOrEqual(t, cur, prev, "down=%d", down)
		prev = cur
	}
}

func TestWilsonLowerBound_ConfidenceGrowsWithSampleSize(t *testing.T) {
	// Same unanimous ratio, more votes -> higher lower bound
	assert.Greater(t, WilsonLowerBound(10, 0), WilsonLowerBound(1, 0))
}

func TestWilsonLowerBound_KnownValue(t *testing.T) {
	// Hand-checked against the closed form with z = 1.96
	score := WilsonLowerBound(5, 1)
	assert.InDelta(t, 0.4368, score, 0.001)
}

func TestWilsonLowerBound_Bounds(t *testing.T) {
	cases := [][2]int{{1, 0}, {0, 1}, {100, 80}, {3, 0}, {1000, 1}}
	for _, c := range cases {
		s := WilsonLowerBound(c[0], c[1])
		assert.GreaterOrEqual(t, s, 0.0)
		assert.Less(t, s, 1.0)
	}
}

func TestNetScore(t *testing.T) {
	assert.Equal(t, 4, NetScore(5, 1))
	assert.Equal(t, 0, NetScore(2, 2))
	assert.Equal(t, -3, NetScore(0, 3))
}

func TestRankingDivergence_TopVsBest(t *testing.T) {
	// top prefers raw net score, best prefers the confidence-adjusted ratio.
	// (100,80) has net 20 vs net 3 for (3,0), but the formula's actual output
	// decides best, so assert against it rather than an assumed ranking.
	assert.Greater(t, NetScore(100, 80), NetScore(3, 0))

	// At z=1.96 the formula puts (100,80) ~0.483 above (3,0) ~0.438: the large
	// sample's lower bound on a 55% ratio still beats three unanimous votes.
	bigMixed := WilsonLowerBound(100, 80)
	smallClean := WilsonLowerBound(3, 0)
	assert.InDelta(t, 0.4826, bigMixed, 0.001)
	assert.InDelta(t, 0.4385, smallClean, 0.001)
	assert.Greater(t, bigMixed, smallClean)
}

func TestWilsonLowerBound_ScenarioOrdering(t *testing.T) {
	// (5,1) > (2,2) > (0,3) under best; identical order under top here
	s51 := WilsonLowerBound(5, 1)
	s22 := WilsonLowerBound(2, 2)
	s03 := WilsonLowerBound(0, 3)
	assert.Greater(t, s51, s22)
	assert.Greater(t, s22, s03)
	assert.False(t, math.IsNaN(s51) || math.IsNaN(s22) || math.IsNaN(s03))
}
