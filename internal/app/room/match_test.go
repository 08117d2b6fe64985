package room

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatchMutualPairAndLeftover(t *testing.T) {
	voters := []string{"a", "b", "c"}
	selections := map[string]string{
		"a": "b",
		"b": "a",
		"c": "a",
	}

	result := Match(voters, selections)

	require.Len(t, result.Pairs, 1)
	assert.Equal(t, Pair{A: "a", B: "b"}, result.Pairs[0])
	assert.Equal(t, []string{"c"}, result.Leftovers)
}

func TestMatchEveryVoterAppearsExactlyOnce(t *testing.T) {
	voters := []string{"a", "b", "c", "d", "e"}
	selections := map[string]string{
		"a": "b",
		"b": "a",
		"c": "d",
		"d": "c",
		"e": "a",
	}

	result := Match(voters, selections)

	seen := make(map[string]int)
	for _, p := range result.Pairs {
		seen[p.A]++
		seen[p.B]++

		// Every emitted pair must be mutual.
		assert.Equal(t, p.B, selections[p.A])
		assert.Equal(t, p.A, selections[p.B])
	}
	for _, id := range result.Leftovers {
		seen[id]++
	}

	for _, v := range voters {
		assert.Equal(t, 1, seen[v], "voter %s must appear exactly once", v)
	}
}

func TestMatchNoMutualSelections(t *testing.T) {
	voters := []string{"a", "b", "c"}
	selections := map[string]string{
		"a": "b",
		"b": "c",
		"c": "a",
	}

	result := Match(voters, selections)

	assert.Empty(t, result.Pairs)
	assert.ElementsMatch(t, voters, result.Leftovers)
}

func TestMatchIsDeterministic(t *testing.T) {
	voters := []string{"d", "b", "a", "c"}
	selections := map[string]string{
		"a": "b",
		"b": "a",
		"c": "d",
		"d": "c",
	}

	first := Match(voters, selections)
	for range 10 {
		assert.Equal(t, first, Match(voters, selections))
	}
}

func TestMatchEmptyInput(t *testing.T) {
	result := Match(nil, map[string]string{})

	assert.Empty(t, result.Pairs)
	assert.Empty(t, result.Leftovers)
}
