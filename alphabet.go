package fmindex

import (
	"github.com/pkg/errors"
)

var (
	ErrInvalidAlphabet = errors.New("fmindex: invalid alphabet definition")
)

// invalidSymbol marks bytes that are not part of an alphabet.
const invalidSymbol = 0xFF

// maxDenseSymbols bounds the alphabet size so that dense symbols,
// including the sentinel, fit into a byte with 0xFF left over as the
// invalid marker.
const maxDenseSymbols = 255

// Alphabet maps input bytes to a dense symbol representation in [0, Size).
// Rank 0 is reserved for the sentinel that separates texts inside the index,
// so no input byte ever maps to it.
//
// An Alphabet is a plain value. Once an index is built with it, the alphabet
// is owned by the index and reused read-only by every query.
type Alphabet struct {
	translation    [256]byte
	size           int
	numNotSearched int
}

// NewAlphabet builds a custom alphabet. Each group of bytes is assigned one
// dense symbol, in order, starting at 1 (0 is the sentinel). Groups are the
// way to express case folding: the group {'A', 'a'} makes both bytes the
// same symbol.
//
// The last numNotSearched groups are indexable but excluded from the k-mer
// lookup table, which keeps the table small for symbols that rarely appear
// in queries (like N in DNA data).
func NewAlphabet(groups [][]byte, numNotSearched int) (Alphabet, error) {
	if len(groups) == 0 || len(groups) > maxDenseSymbols-1 {
		return Alphabet{}, errors.Wrapf(ErrInvalidAlphabet, "need between 1 and %d symbol groups, got %d", maxDenseSymbols-1, len(groups))
	}
	if numNotSearched < 0 || numNotSearched >= len(groups) {
		return Alphabet{}, errors.Wrapf(ErrInvalidAlphabet, "numNotSearched %d leaves no searchable symbols", numNotSearched)
	}

	a := newEmptyAlphabet(len(groups)+1, numNotSearched)
	for i, group := range groups {
		if len(group) == 0 {
			return Alphabet{}, errors.Wrapf(ErrInvalidAlphabet, "symbol group %d is empty", i)
		}
		for _, b := range group {
			if a.translation[b] != invalidSymbol {
				return Alphabet{}, errors.Wrapf(ErrInvalidAlphabet, "byte %q appears in more than one symbol group", b)
			}
			a.translation[b] = byte(i + 1)
		}
	}
	return a, nil
}

func newEmptyAlphabet(size, numNotSearched int) Alphabet {
	a := Alphabet{size: size, numNotSearched: numNotSearched}
	for i := range a.translation {
		a.translation[i] = invalidSymbol
	}
	return a
}

// DNA is the case-insensitive {A, C, G, T} alphabet.
func DNA() Alphabet {
	a := newEmptyAlphabet(5, 0)
	a.assign('A', 1)
	a.assign('C', 2)
	a.assign('G', 3)
	a.assign('T', 4)
	return a
}

// DNAWithN extends DNA with the symbol N. N is indexable and searchable,
// but excluded from the k-mer lookup table.
func DNAWithN() Alphabet {
	a := DNA()
	a.size = 6
	a.numNotSearched = 1
	a.assign('N', 5)
	return a
}

// DNAIupac covers all 15 IUPAC nucleotide codes as distinct symbols.
// Note that with 15 searchable symbols the lookup table grows quickly;
// lower depths than the default are advisable.
func DNAIupac() Alphabet {
	a := DNAWithN()
	a.size = 16
	a.numNotSearched = 0
	for i, b := range []byte{'R', 'Y', 'K', 'M', 'S', 'W', 'B', 'D', 'H', 'V'} {
		a.assign(b, byte(6+i))
	}
	return a
}

// DNAIupacAsDNA accepts all IUPAC codes but folds every ambiguity code onto
// one of its possible plain bases, yielding a 4-symbol index.
func DNAIupacAsDNA() Alphabet {
	a := DNA()
	a.assign('R', 1)
	a.assign('Y', 2)
	a.assign('K', 3)
	a.assign('M', 1)
	a.assign('S', 2)
	a.assign('W', 1)
	a.assign('B', 2)
	a.assign('D', 1)
	a.assign('H', 1)
	a.assign('V', 1)
	return a
}

// DNAIupacAsDNAWithN accepts all IUPAC codes, folding every ambiguity code
// onto N.
func DNAIupacAsDNAWithN() Alphabet {
	a := DNAWithN()
	for _, b := range []byte{'R', 'Y', 'K', 'M', 'S', 'W', 'B', 'D', 'H', 'V'} {
		a.assign(b, 5)
	}
	return a
}

// assign maps both cases of an ASCII letter to the given dense symbol.
func (a *Alphabet) assign(b byte, symbol byte) {
	a.translation[b] = symbol
	a.translation[b|0x20] = symbol
}

// Size returns the number of dense symbols, including the sentinel.
func (a Alphabet) Size() int {
	return a.size
}

// NumSearchable returns the number of dense symbols covered by the k-mer
// lookup table: everything except the sentinel and the trailing
// not-searched symbols.
func (a Alphabet) NumSearchable() int {
	return a.size - 1 - a.numNotSearched
}

// Dense translates an input byte to its dense symbol. The second return
// value is false for bytes outside the alphabet.
func (a Alphabet) Dense(b byte) (byte, bool) {
	s := a.translation[b]
	return s, s != invalidSymbol
}

// encodeInto translates src into dst, which must be at least len(src) long.
// On the first byte outside the alphabet it stops and returns its offset
// and false.
func (a Alphabet) encodeInto(dst, src []byte) (int, bool) {
	for i, b := range src {
		s := a.translation[b]
		if s == invalidSymbol {
			return i, false
		}
		dst[i] = s
	}
	return len(src), true
}
