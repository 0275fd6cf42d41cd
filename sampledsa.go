package fmindex

// sampledSuffixArray retains every samplingRate-th suffix-array value.
// Values for non-sampled rows are recovered by LF-walking towards a sampled
// row; a walk hitting a sentinel symbol instead reads the cached border
// value, because LF is not meaningful across text borders. borders has one
// entry per indexed text.
//
// Storage is either 32 or 64 bits wide per value. The 32-bit layout halves
// the dominant memory cost of an index over corpora that fit into uint32.
type sampledSuffixArray struct {
	rate     int
	values32 []uint32
	values64 []uint64
	borders  map[int]int
}

// sampleSuffixArray compacts sa in place (sampled values move to its
// prefix) and copies the retained values into width-appropriate storage, so
// the full array can be released right after.
func sampleSuffixArray(sa []int, rate int, borders map[int]int, wide bool) *sampledSuffixArray {
	retained := 0
	for i := 0; i < len(sa); i += rate {
		sa[retained] = sa[i]
		retained++
	}

	s := &sampledSuffixArray{rate: rate, borders: borders}
	if wide {
		s.values64 = make([]uint64, retained)
		for i, v := range sa[:retained] {
			s.values64[i] = uint64(v)
		}
	} else {
		s.values32 = make([]uint32, retained)
		for i, v := range sa[:retained] {
			s.values32[i] = uint32(v)
		}
	}
	return s
}

func (s *sampledSuffixArray) sampled(pos int) bool {
	return pos%s.rate == 0
}

func (s *sampledSuffixArray) value(pos int) int {
	if s.values64 != nil {
		return int(s.values64[pos/s.rate])
	}
	return int(s.values32[pos/s.rate])
}

func (s *sampledSuffixArray) border(pos int) (int, bool) {
	v, ok := s.borders[pos]
	return v, ok
}
