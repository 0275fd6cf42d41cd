package fmindex

import (
	"math/rand"
	"testing"
)

// Locate recovers positions through the sampled suffix array; a rate-1 index
// keeps every value and needs no walking, so it serves as the reference for
// all other rates.
func TestLocateAcrossSamplingRates(t *testing.T) {
	r := rand.New(rand.NewSource(21))
	letters := []byte("ACGTN")
	texts := make([][]byte, 5)
	for i := range texts {
		text := make([]byte, 100+r.Intn(200))
		for j := range text {
			text[j] = letters[r.Intn(len(letters))]
		}
		texts[i] = text
	}

	reference := mustBuild(t, texts, func(b *Builder) *Builder { return b.SamplingRate(1) })

	for _, rate := range []int{2, 3, 4, 8, 16, 64} {
		x := mustBuild(t, texts, func(b *Builder) *Builder { return b.SamplingRate(rate) })
		if x.SamplingRate() != rate {
			t.Fatalf("SamplingRate = %d, want %d", x.SamplingRate(), rate)
		}
		for i := 0; i < 100; i++ {
			text := texts[r.Intn(len(texts))]
			n := 1 + r.Intn(8)
			start := r.Intn(len(text) - n + 1)
			q := text[start : start+n]

			got, err := x.Locate(q)
			if err != nil {
				t.Fatal(err)
			}
			want, err := reference.Locate(q)
			if err != nil {
				t.Fatal(err)
			}
			sortHits(got)
			sortHits(want)
			if len(got) != len(want) {
				t.Fatalf("rate %d query %q: %d hits, want %d", rate, q, len(got), len(want))
			}
			for j := range got {
				if got[j] != want[j] {
					t.Fatalf("rate %d query %q hit %d: %+v, want %+v", rate, q, j, got[j], want[j])
				}
			}
		}
	}
}

// A short first text, an empty text and matches near text ends force locate
// walks that would cross text borders if they kept LF-stepping; the cached
// border values must stop them.
func TestLocateNearTextBorders(t *testing.T) {
	texts := [][]byte{
		[]byte("A"),
		{},
		[]byte("NTACGTA"),
		[]byte("TA"),
	}

	for _, rate := range []int{1, 2, 5, 16} {
		x := mustBuild(t, texts, func(b *Builder) *Builder { return b.SamplingRate(rate) })

		for _, q := range []string{"A", "TA", "N", "NT", "GTA", "ACGTA"} {
			checkQuery(t, x, texts, []byte(q))
		}
	}
}

func TestSingleEmptyText(t *testing.T) {
	x := mustBuild(t, [][]byte{{}}, nil)
	if x.TotalLen() != 1 {
		t.Errorf("TotalLen = %d", x.TotalLen())
	}
	for _, q := range []string{"A", "N", "ACGT"} {
		count, err := x.Count([]byte(q))
		if err != nil || count != 0 {
			t.Errorf("Count(%q) = %d, %v", q, count, err)
		}
	}
}

func TestEmptyTextsOnly(t *testing.T) {
	x := mustBuild(t, [][]byte{{}, {}}, nil)
	if x.NumTexts() != 2 {
		t.Errorf("NumTexts = %d", x.NumTexts())
	}
	if x.TotalLen() != 2 {
		t.Errorf("TotalLen = %d", x.TotalLen())
	}
	count, err := x.Count([]byte("A"))
	if err != nil || count != 0 {
		t.Errorf("Count = %d, %v", count, err)
	}
}

func TestWidth64Locate(t *testing.T) {
	texts := [][]byte{[]byte("ACGTACGTNN"), []byte("TTACGT")}
	narrow := mustBuild(t, texts, nil)
	wide := mustBuild(t, texts, func(b *Builder) *Builder { return b.IndexWidth(Width64) })

	for _, q := range []string{"ACGT", "TT", "NN", "CG"} {
		a, err := narrow.Locate([]byte(q))
		if err != nil {
			t.Fatal(err)
		}
		b, err := wide.Locate([]byte(q))
		if err != nil {
			t.Fatal(err)
		}
		sortHits(a)
		sortHits(b)
		if len(a) != len(b) {
			t.Fatalf("query %q: %d vs %d hits", q, len(a), len(b))
		}
		for i := range a {
			if a[i] != b[i] {
				t.Fatalf("query %q hit %d: %+v vs %+v", q, i, a[i], b[i])
			}
		}
	}
}
