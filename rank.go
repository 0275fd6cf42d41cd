package fmindex

import (
	"math/bits"
	"sort"

	"golang.org/x/sync/errgroup"
)

const (
	blockBits = 64
	// Block offsets are uint16 counts relative to the enclosing superblock,
	// so the superblock size is forced to 1<<16.
	superblockSize = 1 << 16
)

// RankText is a condensed representation of a text over a small dense
// alphabet with O(1) rank support. The text is stored as ceil(log2(sigma))
// interleaved bit planes per 64-symbol block. Per block and per symbol a
// uint16 offset counts occurrences since the superblock start, and per
// superblock a full cumulative count is kept.
//
// Rank(c, p) is the superblock checkpoint plus the block checkpoint plus a
// popcount over the single block containing p, so queries touch a fixed
// number of cache lines regardless of text length.
type RankText struct {
	n      int
	sigma  int
	planes int

	// blocks holds `planes` words per 64 positions. Plane words for the
	// same positions are adjacent, so one rank query reads one contiguous
	// word group.
	blocks       []uint64
	blockOffsets []uint16
	superOffsets []uint64
}

// newRankText encodes text, whose symbols must all be < sigma. Superblocks
// are filled in parallel; their running totals are combined by a sequential
// prefix sum afterwards.
func newRankText(text []byte, sigma, workers int) *RankText {
	// One position past the end stays addressable so Rank(c, len(text))
	// is a valid query.
	n1 := len(text) + 1
	numBlocks := ceilDiv(n1, blockBits)
	numSuper := ceilDiv(n1, superblockSize)
	planes := bits.Len(uint(sigma - 1))

	t := &RankText{
		n:            len(text),
		sigma:        sigma,
		planes:       planes,
		blocks:       make([]uint64, numBlocks*planes),
		blockOffsets: make([]uint16, numBlocks*sigma),
		superOffsets: make([]uint64, numSuper*sigma),
	}

	g := new(errgroup.Group)
	g.SetLimit(workers)
	for s := 0; s < numSuper; s++ {
		s := s
		g.Go(func() error {
			t.fillSuperblock(text, s)
			return nil
		})
	}
	// fillSuperblock never fails; the group is only used for the join.
	_ = g.Wait()

	prev := make([]uint64, sigma)
	for s := 0; s < numSuper; s++ {
		row := t.superOffsets[s*sigma : (s+1)*sigma]
		for c := range row {
			row[c], prev[c] = prev[c], prev[c]+row[c]
		}
	}

	return t
}

// fillSuperblock packs one superblock's worth of text into bit planes and
// records block offsets plus the superblock's local symbol totals. Each
// superblock touches a disjoint slice of every array, so all superblocks
// can be filled concurrently.
func (t *RankText) fillSuperblock(text []byte, s int) {
	start := s * superblockSize
	chunk := text[start:min(start+superblockSize, t.n)]

	blockStart := start / blockBits
	blockEnd := ceilDiv(min(start+superblockSize, t.n+1), blockBits)

	superRow := t.superOffsets[s*t.sigma : (s+1)*t.sigma]
	counts := make([]uint16, t.sigma)

	for b := blockStart; b < blockEnd; b++ {
		offRow := t.blockOffsets[b*t.sigma : (b+1)*t.sigma]
		copy(offRow, counts)

		lo := b*blockBits - start
		hi := min(lo+blockBits, len(chunk))
		words := t.blocks[b*t.planes : (b+1)*t.planes]

		for i := lo; i < hi; i++ {
			sym := chunk[i]
			superRow[sym]++
			counts[sym]++

			bit := uint(i - lo)
			w := uint64(sym)
			for p := range words {
				words[p] |= (w & 1) << bit
				w >>= 1
			}
		}
	}
}

// Len returns the length of the encoded text.
func (t *RankText) Len() int {
	return t.n
}

// Rank returns the number of occurrences of symbol in the text before
// position pos, i.e. in text[0:pos). pos may be anywhere in [0, Len()];
// anything else is a caller bug and panics.
func (t *RankText) Rank(symbol byte, pos int) int {
	super := t.superOffsets[(pos>>16)*t.sigma+int(symbol)]
	block := t.blockOffsets[(pos>>6)*t.sigma+int(symbol)]

	words := t.blocks[(pos>>6)*t.planes:]
	acc := words[0]
	if symbol&1 == 0 {
		acc = ^acc
	}
	s := symbol
	for p := 1; p < t.planes; p++ {
		w := words[p]
		s >>= 1
		if s&1 == 0 {
			w = ^w
		}
		acc &= w
	}
	acc &= (uint64(1) << uint(pos&63)) - 1

	return int(super) + int(block) + bits.OnesCount64(acc)
}

// SymbolAt recovers the text symbol at pos by gathering one bit per plane.
func (t *RankText) SymbolAt(pos int) byte {
	words := t.blocks[(pos>>6)*t.planes:]
	bit := uint(pos & 63)

	var sym byte
	for p := 0; p < t.planes; p++ {
		sym |= byte((words[p]>>bit)&1) << p
	}
	return sym
}

// RankBatch answers len(symbols) rank queries at once, writing results to
// out in input order. Queries are processed grouped by block so that
// lookups touching the same cache lines run back to back; this is purely a
// throughput optimization and equivalent to calling Rank in a loop.
func (t *RankText) RankBatch(symbols []byte, positions []int, out []int) {
	order := make([]int, len(positions))
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool {
		return positions[order[a]]>>6 < positions[order[b]]>>6
	})

	for _, i := range order {
		out[i] = t.Rank(symbols[i], positions[i])
	}
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}
