package fmindex

import (
	"math/rand"
	"testing"
)

// stepwise replays the backward search for a dense query without the lookup
// table.
func stepwise(x *FmIndex, dense []byte) Interval {
	iv := x.fullInterval()
	for i := len(dense) - 1; i >= 0; i-- {
		iv = x.step(dense[i], iv)
	}
	return iv
}

func TestLookupTablesMatchStepwise(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	letters := []byte("ACGTN")
	texts := make([][]byte, 4)
	for i := range texts {
		text := make([]byte, 300)
		for j := range text {
			text[j] = letters[r.Intn(len(letters))]
		}
		texts[i] = text
	}

	x := mustBuild(t, texts, func(b *Builder) *Builder { return b.LookupDepth(3) })
	if x.LookupDepth() != 3 {
		t.Fatalf("LookupDepth = %d, want 3", x.LookupDepth())
	}
	m := x.alphabet.NumSearchable()

	for depth := 0; depth <= x.LookupDepth(); depth++ {
		size := 1
		for d := 0; d < depth; d++ {
			size *= m
		}
		for idx := 0; idx < size; idx++ {
			// Decode idx back into a k-mer. The loop below assigns the
			// highest place value to the last query symbol, matching the
			// processing order the tables are keyed in.
			dense := make([]byte, depth)
			rem := idx
			for i := 0; i < depth; i++ {
				dense[i] = byte(rem%m) + 1
				rem /= m
			}

			consumed, iv := x.prime(dense)
			if consumed != depth {
				t.Fatalf("depth %d idx %d: consumed %d", depth, idx, consumed)
			}
			if want := stepwise(x, dense); iv != want {
				t.Fatalf("depth %d idx %d: primed %+v, stepwise %+v", depth, idx, iv, want)
			}
		}
	}
}

func TestPrimeFallsBackOnUncoveredSymbols(t *testing.T) {
	texts := [][]byte{[]byte("ACGTNACGT")}
	x := mustBuild(t, texts, func(b *Builder) *Builder { return b.LookupDepth(3) })

	// N is indexable but not covered by the tables, so a query ending in it
	// must start from the full interval and still search correctly.
	nSym, ok := x.alphabet.Dense('N')
	if !ok {
		t.Fatal("N not in alphabet")
	}
	dense := []byte{1, 2, nSym}
	consumed, iv := x.prime(dense)
	if consumed != 0 || iv != x.fullInterval() {
		t.Errorf("prime over N: consumed %d, interval %+v", consumed, iv)
	}
	checkQuery(t, x, texts, []byte("GTN"))
	checkQuery(t, x, texts, []byte("NACG"))
}

func TestPrimeLongQuery(t *testing.T) {
	texts := [][]byte{[]byte("ACGTACGTACGTACGT")}
	x := mustBuild(t, texts, func(b *Builder) *Builder { return b.LookupDepth(2) })

	dense, err := x.translate([]byte("CGTACGT"))
	if err != nil {
		t.Fatal(err)
	}
	consumed, iv := x.prime(dense)
	if consumed != 2 {
		t.Fatalf("consumed = %d, want 2", consumed)
	}
	if want := stepwise(x, dense[len(dense)-2:]); iv != want {
		t.Errorf("primed %+v, stepwise suffix %+v", iv, want)
	}
}

func TestDefaultLookupDepthClamped(t *testing.T) {
	// 15 searchable symbols make the default depth of 8 far too large; the
	// builder clamps instead of failing.
	x, err := NewBuilder([][]byte{[]byte("ACGT")}).Alphabet(DNAIupac()).Build()
	if err != nil {
		t.Fatal(err)
	}
	if d := x.LookupDepth(); d < 1 || d >= defaultLookupDepth {
		t.Errorf("clamped depth = %d", d)
	}
}
