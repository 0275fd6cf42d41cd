package fmindex

import (
	"sort"
	"testing"
)

// naiveSACA sorts all suffixes directly. Useless at scale, but any
// SuffixArraySource must produce the same index as the default backend.
type naiveSACA struct {
	calls int
}

func (s *naiveSACA) ComputeSuffixArray(text []byte, sa []int) {
	s.calls++
	for i := range sa {
		sa[i] = i
	}
	sort.Slice(sa, func(a, b int) bool {
		return string(text[sa[a]:]) < string(text[sa[b]:])
	})
}

func TestSuffixArraySourceInjection(t *testing.T) {
	texts := [][]byte{[]byte("ACGTACGT"), []byte("NTAG"), []byte("GGC")}

	saca := &naiveSACA{}
	injected := mustBuild(t, texts, func(b *Builder) *Builder { return b.SuffixArraySource(saca) })
	if saca.calls != 1 {
		t.Fatalf("suffix array source called %d times", saca.calls)
	}

	def := mustBuild(t, texts, nil)
	for _, q := range []string{"A", "ACGT", "GG", "NTAG", "TA", "GC"} {
		a, err := injected.Count([]byte(q))
		if err != nil {
			t.Fatal(err)
		}
		b, err := def.Count([]byte(q))
		if err != nil {
			t.Fatal(err)
		}
		if a != b {
			t.Errorf("query %q: injected count %d, default count %d", q, a, b)
		}
		checkQuery(t, injected, texts, []byte(q))
	}
}

func TestSingleSymbolCorpus(t *testing.T) {
	x := mustBuild(t, [][]byte{[]byte("A")}, nil)
	checkQuery(t, x, [][]byte{[]byte("A")}, []byte("A"))
	count, err := x.Count([]byte("AA"))
	if err != nil || count != 0 {
		t.Errorf("Count(AA) = %d, %v", count, err)
	}
}

func TestTextBoundariesResolve(t *testing.T) {
	// Texts of lengths 2, 0 and 3 give sentinels at offsets 2, 3 and 7.
	b := &textBoundaries{sentinels: []int{2, 3, 7}}
	if b.numTexts() != 3 {
		t.Fatalf("numTexts = %d", b.numTexts())
	}

	tests := []struct {
		pos    int
		textID int
		offset int
	}{
		{0, 0, 0},
		{1, 0, 1},
		{2, 0, 2}, // first sentinel, one past the first text
		{3, 1, 0}, // second sentinel, the empty text
		{4, 2, 0},
		{6, 2, 2},
		{7, 2, 3},
	}
	for _, tc := range tests {
		id, off := b.resolve(tc.pos)
		if id != tc.textID || off != tc.offset {
			t.Errorf("resolve(%d) = (%d, %d), want (%d, %d)", tc.pos, id, off, tc.textID, tc.offset)
		}
	}
}
