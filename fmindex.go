// Package fmindex implements an FM-Index over collections of texts for
// exact substring counting and locating, aimed at large biological sequence
// collections like genomes.
//
// The index is built from the Burrows-Wheeler transform of the concatenated
// texts, with a condensed rank-support encoding, a sampled suffix array for
// position recovery and a k-mer lookup table that skips the first search
// steps. Once built, an index is immutable and safe for concurrent use.
package fmindex

import (
	"github.com/pkg/errors"
)

// ErrQuerySymbol reports a query byte outside the index alphabet. The index
// and any other query are unaffected.
var ErrQuerySymbol = errors.New("fmindex: query symbol outside alphabet")

func queryError(b byte, offset int) error {
	return errors.Wrapf(ErrQuerySymbol, "byte %q at query offset %d", b, offset)
}

// FmIndex is an immutable full-text index over a set of texts. Build one
// with a Builder; afterwards any number of goroutines may query it
// concurrently without locking, because no operation mutates it.
type FmIndex struct {
	alphabet Alphabet

	// count[c] is the number of corpus symbols lexicographically smaller
	// than the dense symbol c.
	count []int

	rank   *RankText
	sa     *sampledSuffixArray
	bounds *textBoundaries
	lookup *lookupTables
}

// AlphabetUsed returns the alphabet the index was built with.
func (x *FmIndex) AlphabetUsed() Alphabet {
	return x.alphabet
}

// NumTexts returns the number of indexed texts.
func (x *FmIndex) NumTexts() int {
	return x.bounds.numTexts()
}

// TotalLen is the length of the concatenated corpus, including one sentinel
// per text.
func (x *FmIndex) TotalLen() int {
	return x.rank.Len()
}

// SamplingRate returns the suffix-array sampling rate the index was built
// with.
func (x *FmIndex) SamplingRate() int {
	return x.sa.rate
}

// LookupDepth returns the k-mer lookup table depth the index was built with.
func (x *FmIndex) LookupDepth() int {
	return x.lookup.maxDepth()
}

// Count returns the number of occurrences of query across all indexed
// texts. A zero count is a normal outcome; the only error is a query byte
// outside the alphabet.
func (x *FmIndex) Count(query []byte) (int, error) {
	dense, err := x.translate(query)
	if err != nil {
		return 0, err
	}
	return x.searchDense(dense).Len(), nil
}

// Locate returns one Hit per occurrence of query. Hits are in suffix-array
// order, not text order.
func (x *FmIndex) Locate(query []byte) ([]Hit, error) {
	dense, err := x.translate(query)
	if err != nil {
		return nil, err
	}
	return x.locateInterval(x.searchDense(dense)), nil
}

// Search runs a full backward search for query and returns the resulting
// cursor, which can be inspected, extended further or located.
func (x *FmIndex) Search(query []byte) (Cursor, error) {
	dense, err := x.translate(query)
	if err != nil {
		return Cursor{}, err
	}
	return Cursor{index: x, iv: x.searchDense(dense), matched: len(query)}, nil
}

// CursorEmpty returns a cursor over the full interval, i.e. with the empty
// query currently searched.
func (x *FmIndex) CursorEmpty() Cursor {
	return Cursor{index: x, iv: x.fullInterval()}
}

func (x *FmIndex) fullInterval() Interval {
	return Interval{0, x.rank.Len()}
}

// translate maps an input query to dense symbols.
func (x *FmIndex) translate(query []byte) ([]byte, error) {
	dense := make([]byte, len(query))
	if at, ok := x.alphabet.encodeInto(dense, query); !ok {
		return nil, queryError(query[at], at)
	}
	return dense, nil
}

// searchDense is the single search path: prime the interval from the
// lookup table, then extend symbol by symbol right to left. An emptied
// interval short-circuits the loop.
func (x *FmIndex) searchDense(dense []byte) Interval {
	consumed, iv := x.prime(dense)
	for i := len(dense) - consumed - 1; i >= 0 && !iv.Empty(); i-- {
		iv = x.step(dense[i], iv)
	}
	return iv
}

// step is the backward-search interval transition: the interval of rows
// whose suffixes match (symbol ++ current match). Both cursor extension and
// lookup-table construction go through this one primitive.
func (x *FmIndex) step(symbol byte, iv Interval) Interval {
	if iv.Empty() {
		return iv
	}
	return Interval{
		Lo: x.lfStep(symbol, iv.Lo),
		Hi: x.lfStep(symbol, iv.Hi),
	}
}

// lfStep is the LF mapping: the suffix-array row of the corpus position
// preceding the suffix at row pos, assuming that position holds symbol.
func (x *FmIndex) lfStep(symbol byte, pos int) int {
	return x.count[symbol] + x.rank.Rank(symbol, pos)
}

// locateInterval resolves every row of iv to a Hit via the sampled suffix
// array and the text boundary table.
func (x *FmIndex) locateInterval(iv Interval) []Hit {
	if iv.Empty() {
		return nil
	}
	hits := make([]Hit, 0, iv.Len())
	for row := iv.Lo; row < iv.Hi; row++ {
		textID, pos := x.bounds.resolve(x.resolveSA(row))
		hits = append(hits, Hit{TextID: textID, Position: pos})
	}
	return hits
}

// resolveSA recovers the suffix-array value at row by LF-walking to the
// nearest sampled row. At most samplingRate-1 steps are needed; a walk that
// lands on a sentinel symbol stops early at the cached text-border value,
// since LF across text borders is not position-preserving.
func (x *FmIndex) resolveSA(row int) int {
	steps := 0
	for !x.sa.sampled(row) {
		sym := x.rank.SymbolAt(row)
		if sym == 0 {
			v, _ := x.sa.border(row)
			return v + steps
		}
		row = x.lfStep(sym, row)
		steps++
	}
	return x.sa.value(row) + steps
}
