package fmindex

import "github.com/jgallagher/gosaca"

// SuffixArraySource supplies the suffix array of a dense-encoded text. The
// contract is narrow on purpose: given a text over a small alphabet whose
// sentinel is the minimal symbol, fill sa (which has len(text) entries) with
// a permutation of 0..len(text)-1 ordering all suffixes lexicographically.
//
// The rest of index construction does not care which algorithm is behind
// this, so slower or lower-memory implementations can be swapped in through
// Builder.SuffixArraySource.
type SuffixArraySource interface {
	ComputeSuffixArray(text []byte, sa []int)
}

// gosacaSource is the default backend, the SACA-K implementation from
// github.com/jgallagher/gosaca.
type gosacaSource struct{}

func (gosacaSource) ComputeSuffixArray(text []byte, sa []int) {
	if len(text) == 0 {
		return
	}
	if len(text) == 1 {
		sa[0] = 0
		return
	}
	ws := &gosaca.WorkSpace{}
	ws.ComputeSuffixArray(text, sa)
}
