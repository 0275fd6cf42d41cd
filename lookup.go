package fmindex

// lookupTables holds one table per k-mer length 0..maxDepth. Table d maps
// every k-mer of length d over the searchable symbols to the suffix-array
// interval backward search would reach after matching it, so a query skips
// its first min(len, maxDepth) search steps with one array read.
//
// Table entries are keyed by the k-mer's symbols in backward-search
// processing order (last symbol first, highest place value).
type lookupTables struct {
	numSymbols int
	tables     []lookupTable
}

type lookupTable struct {
	data []Interval
}

func (l *lookupTables) maxDepth() int {
	return len(l.tables) - 1
}

// fillLookupTables builds tables for every depth up to maxDepth. Table d is
// derived from table d-1 by one interval step per entry, which is the same
// transition a cursor performs; table priming and stepwise search therefore
// compute the same function by construction.
func fillLookupTables(x *FmIndex, maxDepth int) {
	m := x.alphabet.NumSearchable()
	l := &lookupTables{numSymbols: m}
	x.lookup = l

	l.tables = append(l.tables, lookupTable{data: []Interval{x.fullInterval()}})

	size := 1
	for d := 1; d <= maxDepth; d++ {
		size *= m
		prev := l.tables[d-1].data
		data := make([]Interval, size)
		for idx := range data {
			// idx/m addresses the entry for the k-mer minus its final
			// processed symbol, idx%m encodes that final symbol.
			sym := byte(idx%m) + 1
			data[idx] = x.step(sym, prev[idx/m])
		}
		l.tables = append(l.tables, lookupTable{data: data})
	}
}

// prime returns the interval for the longest table-covered suffix of the
// dense query, along with the number of symbols it consumed. Queries whose
// relevant suffix contains a symbol outside the table (sentinel or
// not-searched symbols like N) consume nothing and start from the full
// interval.
func (x *FmIndex) prime(dense []byte) (int, Interval) {
	l := x.lookup
	if l == nil || len(l.tables) == 0 {
		return 0, x.fullInterval()
	}

	depth := min(len(dense), l.maxDepth())
	idx := 0
	for i := 0; i < depth; i++ {
		sym := dense[len(dense)-1-i]
		if sym == 0 || int(sym) > l.numSymbols {
			return 0, x.fullInterval()
		}
		idx = idx*l.numSymbols + int(sym-1)
	}
	return depth, l.tables[depth].data[idx]
}
