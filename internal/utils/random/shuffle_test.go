package random

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShuffleKeepsElements(t *testing.T) {
	in := []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	out := append([]int(nil), in...)
	Shuffle(out, MustIntn)

	sort.Ints(out)
	assert.Equal(t, in, out)
}

func TestShuffleSmallSlices(t *testing.T) {
	Shuffle([]string{}, MustIntn)
	one := []string{"a"}
	Shuffle(one, MustIntn)
	assert.Equal(t, []string{"a"}, one)
}

func TestShuffleFirstPositionRoughlyUniform(t *testing.T) {
	const runs = 6000
	counts := map[int]int{}
	for i := 0; i < runs; i++ {
		s := []int{0, 1, 2}
		Shuffle(s, MustIntn)
		counts[s[0]]++
	}
	for v := 0; v < 3; v++ {
		assert.InDelta(t, runs/3, counts[v], runs*0.05, "value %d", v)
	}
}

func TestIntnRange(t *testing.T) {
	for i := 0; i < 100; i++ {
		v, err := Intn(4)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, v, 0)
		assert.Less(t, v, 4)
	}
}
