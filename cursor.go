package fmindex

// Interval is a half-open range [Lo, Hi) of rows in suffix-array order.
// Lo == Hi means the searched query does not occur; that is a normal
// terminal state, not an error.
type Interval struct {
	Lo, Hi int
}

// Empty reports whether the interval contains no rows.
func (iv Interval) Empty() bool {
	return iv.Lo >= iv.Hi
}

// Len returns the number of rows in the interval.
func (iv Interval) Len() int {
	return iv.Hi - iv.Lo
}

// Hit is one occurrence of a searched query: the text it occurs in and
// the position within that text.
type Hit struct {
	TextID   int
	Position int
}

// Cursor is the resumable state of a backward search. It holds the interval
// of suffix-array rows matching the query searched so far and the number of
// symbols matched.
//
// A Cursor is a small value: copying it forks the search, which is the
// intended way to explore several extensions from a common state. Cursors
// never alias each other.
type Cursor struct {
	index   *FmIndex
	iv      Interval
	matched int
}

// Extend grows the searched query by one symbol at the front. The symbol is
// an input byte and is translated through the index alphabet; a byte outside
// the alphabet is reported as an error and leaves the cursor unchanged.
func (c *Cursor) Extend(symbol byte) error {
	dense, ok := c.index.alphabet.Dense(symbol)
	if !ok {
		return queryError(symbol, c.matched)
	}
	c.extendDense(dense)
	return nil
}

// extendDense is the backward-search step. Once the interval is empty it
// stays empty and no rank lookups are issued.
func (c *Cursor) extendDense(symbol byte) {
	c.iv = c.index.step(symbol, c.iv)
	c.matched++
}

// Interval returns the current suffix-array interval.
func (c *Cursor) Interval() Interval {
	return c.iv
}

// Matched returns the number of symbols extended into this cursor.
func (c *Cursor) Matched() int {
	return c.matched
}

// Count returns the number of occurrences of the currently searched query.
func (c *Cursor) Count() int {
	return c.iv.Len()
}

// Locate resolves every row of the current interval to a Hit. Hits come out
// in suffix-array order, not in text order; callers that need positional
// order must sort. Each hit costs a sampled-suffix-array walk of at most
// samplingRate-1 LF steps.
func (c *Cursor) Locate() []Hit {
	return c.index.locateInterval(c.iv)
}
