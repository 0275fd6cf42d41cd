package fmindex

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAlphabetConstructors(t *testing.T) {
	tests := map[string]struct {
		alphabet   Alphabet
		size       int
		searchable int
	}{
		"DNA":                {DNA(), 5, 4},
		"DNAWithN":           {DNAWithN(), 6, 4},
		"DNAIupac":           {DNAIupac(), 16, 15},
		"DNAIupacAsDNA":      {DNAIupacAsDNA(), 5, 4},
		"DNAIupacAsDNAWithN": {DNAIupacAsDNAWithN(), 6, 4},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.size, tc.alphabet.Size())
			assert.Equal(t, tc.searchable, tc.alphabet.NumSearchable())
		})
	}
}

func TestAlphabetCaseFolding(t *testing.T) {
	a := DNAWithN()
	for _, b := range []byte("ACGTN") {
		upper, ok := a.Dense(b)
		require.True(t, ok, "byte %q", b)
		lower, ok := a.Dense(b | 0x20)
		require.True(t, ok, "byte %q", b|0x20)
		assert.Equal(t, upper, lower, "byte %q", b)
		assert.NotZero(t, upper, "byte %q maps to the sentinel", b)
	}

	_, ok := a.Dense('X')
	assert.False(t, ok)
	_, ok = a.Dense(0)
	assert.False(t, ok)
}

func TestIupacFolding(t *testing.T) {
	asDNA := DNAIupacAsDNA()
	asN := DNAIupacAsDNAWithN()
	n, _ := asN.Dense('N')

	for _, b := range []byte("RYKMSWBDHV") {
		sym, ok := asDNA.Dense(b)
		require.True(t, ok, "byte %q", b)
		assert.LessOrEqual(t, sym, byte(4), "byte %q folds outside plain DNA", b)

		sym, ok = asN.Dense(b)
		require.True(t, ok, "byte %q", b)
		assert.Equal(t, n, sym, "byte %q", b)
	}
}

func TestNewAlphabet(t *testing.T) {
	a, err := NewAlphabet([][]byte{{'a', 'A'}, {'b'}, {'#'}}, 1)
	require.NoError(t, err)
	assert.Equal(t, 4, a.Size())
	assert.Equal(t, 2, a.NumSearchable())

	sa, ok := a.Dense('a')
	require.True(t, ok)
	sA, ok := a.Dense('A')
	require.True(t, ok)
	assert.Equal(t, sa, sA)
	sb, _ := a.Dense('b')
	assert.NotEqual(t, sa, sb)

	errCases := map[string]struct {
		groups         [][]byte
		numNotSearched int
	}{
		"no groups":           {nil, 0},
		"empty group":         {[][]byte{{'a'}, {}}, 0},
		"duplicate byte":      {[][]byte{{'a'}, {'b', 'a'}}, 0},
		"nothing searchable":  {[][]byte{{'a'}}, 1},
		"negative unsearched": {[][]byte{{'a'}}, -1},
	}
	for name, tc := range errCases {
		t.Run(name, func(t *testing.T) {
			_, err := NewAlphabet(tc.groups, tc.numNotSearched)
			assert.ErrorIs(t, err, ErrInvalidAlphabet)
		})
	}
}

func TestCustomAlphabetIndex(t *testing.T) {
	a, err := NewAlphabet([][]byte{{'0'}, {'1'}, {'2'}}, 0)
	require.NoError(t, err)

	texts := [][]byte{[]byte("0110210"), []byte("2101")}
	x, err := NewBuilder(texts).Alphabet(a).Build()
	require.NoError(t, err)

	for _, q := range []string{"0", "10", "210", "21", "0110"} {
		checkQuery(t, x, texts, []byte(q))
	}
}
