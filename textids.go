package fmindex

import "sort"

// textBoundaries maps positions in the concatenated corpus back to the text
// they belong to. sentinels holds the corpus offset of every text's
// terminating sentinel, in ascending order; text i covers the half-open
// range (sentinels[i-1], sentinels[i]].
type textBoundaries struct {
	sentinels []int
}

func (t *textBoundaries) numTexts() int {
	return len(t.sentinels)
}

// resolve turns a corpus offset into (text id, position within that text).
func (t *textBoundaries) resolve(pos int) (int, int) {
	id := sort.Search(len(t.sentinels), func(i int) bool {
		return t.sentinels[i] >= pos
	})
	if id == 0 {
		return 0, pos
	}
	return id, pos - t.sentinels[id-1] - 1
}
