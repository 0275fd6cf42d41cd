package fmindex

import "github.com/pkg/errors"

// batchSize is the number of queries advanced in lockstep. Large enough to
// give RankBatch a useful amount of lookups to group per round, small
// enough that the round buffers stay cache-resident.
const batchSize = 64

type batchQuery struct {
	dense    []byte
	iv       Interval
	consumed int
	orig     int
}

// SearchBatch runs backward search for many queries and returns one cursor
// per query, in input order. Results are identical to calling Search per
// query; the batching only changes the memory access pattern. Queries are
// advanced in lockstep rounds of one backward-search step each, so the two
// rank lookups per query and round can be grouped by block across the whole
// batch. Queries whose interval empties or whose symbols run out drop out
// of later rounds without affecting the others.
//
// A query with a byte outside the alphabet fails the call and reports the
// query's index; the index itself is never affected.
func (x *FmIndex) SearchBatch(queries [][]byte) ([]Cursor, error) {
	cursors := make([]Cursor, len(queries))

	active := make([]batchQuery, 0, batchSize)
	syms := make([]byte, 0, 2*batchSize)
	poss := make([]int, 0, 2*batchSize)
	outs := make([]int, 2*batchSize)

	for start := 0; start < len(queries); start += batchSize {
		end := min(start+batchSize, len(queries))

		active = active[:0]
		for qi := start; qi < end; qi++ {
			dense, err := x.translate(queries[qi])
			if err != nil {
				return nil, errors.Wrapf(err, "query %d", qi)
			}
			consumed, iv := x.prime(dense)
			q := batchQuery{dense: dense, iv: iv, consumed: consumed, orig: qi}
			if q.iv.Empty() || q.consumed == len(q.dense) {
				cursors[qi] = Cursor{index: x, iv: q.iv, matched: len(q.dense)}
			} else {
				active = append(active, q)
			}
		}

		for len(active) > 0 {
			syms = syms[:0]
			poss = poss[:0]
			for i := range active {
				q := &active[i]
				sym := q.dense[len(q.dense)-1-q.consumed]
				syms = append(syms, sym, sym)
				poss = append(poss, q.iv.Lo, q.iv.Hi)
			}

			out := outs[:len(poss)]
			x.rank.RankBatch(syms, poss, out)

			next := active[:0]
			for i := range active {
				q := active[i]
				sym := syms[2*i]
				q.iv = Interval{
					Lo: x.count[sym] + out[2*i],
					Hi: x.count[sym] + out[2*i+1],
				}
				q.consumed++
				if q.iv.Empty() || q.consumed == len(q.dense) {
					cursors[q.orig] = Cursor{index: x, iv: q.iv, matched: len(q.dense)}
				} else {
					next = append(next, q)
				}
			}
			active = next
		}
	}

	return cursors, nil
}

// CountBatch returns the occurrence count of every query, in input order.
func (x *FmIndex) CountBatch(queries [][]byte) ([]int, error) {
	cursors, err := x.SearchBatch(queries)
	if err != nil {
		return nil, err
	}
	counts := make([]int, len(cursors))
	for i := range cursors {
		counts[i] = cursors[i].Count()
	}
	return counts, nil
}

// LocateBatch returns the hits of every query, in input order.
func (x *FmIndex) LocateBatch(queries [][]byte) ([][]Hit, error) {
	cursors, err := x.SearchBatch(queries)
	if err != nil {
		return nil, err
	}
	hits := make([][]Hit, len(cursors))
	for i := range cursors {
		hits[i] = cursors[i].Locate()
	}
	return hits, nil
}
