package fmindex

import (
	"math"
	"runtime"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

var (
	ErrNoTexts             = errors.New("fmindex: no texts to index")
	ErrNoAlphabet          = errors.New("fmindex: no alphabet configured")
	ErrInvalidSamplingRate = errors.New("fmindex: sampling rate must be at least 1")
	ErrInvalidLookupDepth  = errors.New("fmindex: invalid lookup table depth")
	ErrCorpusTooLarge      = errors.New("fmindex: corpus too large for configured index width")
	ErrTextSymbol          = errors.New("fmindex: text symbol outside alphabet")
)

// Width selects the integer width used to store suffix-array values.
type Width int

const (
	// WidthAuto picks 32 bits when the corpus fits, 64 otherwise.
	WidthAuto Width = iota
	Width32
	Width64
)

const (
	defaultSamplingRate = 4
	defaultLookupDepth  = 8

	// Lookup tables above these entry counts are refused (explicit config)
	// or clamped (default config). Entries are two ints each.
	maxLookupEntries        = 1 << 24
	defaultMaxLookupEntries = 1 << 20
)

// Builder configures and constructs an FmIndex.
//
//	index, err := fmindex.NewBuilder(texts).
//		Alphabet(fmindex.DNAWithN()).
//		SamplingRate(8).
//		Build()
type Builder struct {
	texts        [][]byte
	alphabet     Alphabet
	hasAlphabet  bool
	samplingRate int
	lookupDepth  int
	width        Width
	lowMemory    bool
	saca         SuffixArraySource
}

// NewBuilder starts index construction over the given texts. The builder
// does not copy the texts; they are only read during Build.
func NewBuilder(texts [][]byte) *Builder {
	return &Builder{
		texts:        texts,
		samplingRate: defaultSamplingRate,
		lookupDepth:  -1,
		saca:         gosacaSource{},
	}
}

// Alphabet sets the alphabet the texts are encoded with. Required.
func (b *Builder) Alphabet(a Alphabet) *Builder {
	b.alphabet = a
	b.hasAlphabet = true
	return b
}

// SamplingRate sets the suffix-array sampling rate: every rate-th value is
// retained. Larger rates use less memory but make locate walks longer.
// The default is 4.
func (b *Builder) SamplingRate(rate int) *Builder {
	b.samplingRate = rate
	return b
}

// LookupDepth sets the k-mer lookup table depth. The table size grows as
// numSearchable^depth, so deep tables only pay off for small alphabets over
// large corpora. The default is 8, clamped to a memory-reasonable size for
// the alphabet.
func (b *Builder) LookupDepth(depth int) *Builder {
	b.lookupDepth = depth
	return b
}

// IndexWidth forces the storage width for suffix-array values. With
// Width32, Build fails if the corpus does not fit into uint32.
func (b *Builder) IndexWidth(w Width) *Builder {
	b.width = w
	return b
}

// LowMemory trades construction speed for peak memory: the BWT and rank
// checkpoint passes run single-threaded without per-worker buffers. The
// resulting index is identical to one built without this option.
func (b *Builder) LowMemory() *Builder {
	b.lowMemory = true
	return b
}

// SuffixArraySource replaces the default suffix-array construction backend.
func (b *Builder) SuffixArraySource(s SuffixArraySource) *Builder {
	b.saca = s
	return b
}

// Build runs the whole construction pipeline: concatenate and encode the
// texts with sentinel separators, obtain the suffix array, derive the BWT
// and the sampled suffix array in one pass, encode the BWT with rank
// support, and fill the lookup tables. Configuration and input errors are
// reported before any expensive work happens.
func (b *Builder) Build() (*FmIndex, error) {
	if len(b.texts) == 0 {
		return nil, ErrNoTexts
	}
	if !b.hasAlphabet {
		return nil, ErrNoAlphabet
	}
	if b.samplingRate < 1 {
		return nil, errors.Wrapf(ErrInvalidSamplingRate, "got %d", b.samplingRate)
	}

	depth, err := b.resolveLookupDepth()
	if err != nil {
		return nil, err
	}

	total := len(b.texts)
	for _, t := range b.texts {
		total += len(t)
	}

	wide, err := b.resolveWidth(total)
	if err != nil {
		return nil, err
	}

	text, freq, sentinels, err := concatenate(b.texts, b.alphabet)
	if err != nil {
		return nil, err
	}

	count := make([]int, b.alphabet.Size())
	sum := 0
	for c, f := range freq {
		count[c] = sum
		sum += f
	}

	sa := make([]int, total)
	b.saca.ComputeSuffixArray(text, sa)

	bwt, borders := deriveBWT(text, sa, b.workers())
	text = nil

	sampled := sampleSuffixArray(sa, b.samplingRate, borders, wide)
	sa = nil

	x := &FmIndex{
		alphabet: b.alphabet,
		count:    count,
		rank:     newRankText(bwt, b.alphabet.Size(), b.workers()),
		sa:       sampled,
		bounds:   &textBoundaries{sentinels: sentinels},
	}
	fillLookupTables(x, depth)

	return x, nil
}

// workers returns the construction parallelism. Low-memory builds run
// single-threaded to avoid per-worker buffers.
func (b *Builder) workers() int {
	if b.lowMemory {
		return 1
	}
	return runtime.GOMAXPROCS(0)
}

func (b *Builder) resolveLookupDepth() (int, error) {
	m := b.alphabet.NumSearchable()
	if m < 1 {
		// NewAlphabet guarantees this; custom tables could not.
		return 0, errors.Wrap(ErrInvalidAlphabet, "no searchable symbols")
	}

	if b.lookupDepth < 0 {
		return clampLookupDepth(m, defaultLookupDepth, defaultMaxLookupEntries), nil
	}
	if clampLookupDepth(m, b.lookupDepth, maxLookupEntries) != b.lookupDepth {
		return 0, errors.Wrapf(ErrInvalidLookupDepth, "depth %d over %d searchable symbols needs more than %d table entries", b.lookupDepth, m, maxLookupEntries)
	}
	return b.lookupDepth, nil
}

// clampLookupDepth returns the largest depth <= want whose table stays
// within maxEntries.
func clampLookupDepth(m, want, maxEntries int) int {
	entries := 1
	for d := 0; d < want; d++ {
		if entries > maxEntries/m {
			return d
		}
		entries *= m
	}
	return want
}

func (b *Builder) resolveWidth(total int) (bool, error) {
	switch b.width {
	case Width64:
		return true, nil
	case Width32:
		if total > math.MaxUint32 {
			return false, errors.Wrapf(ErrCorpusTooLarge, "corpus length %d does not fit into 32 bits", total)
		}
		return false, nil
	default:
		return total > math.MaxUint32, nil
	}
}

// concatenate joins the dense-encoded texts with one sentinel after each,
// returning the corpus, per-symbol frequencies and the sentinel offsets.
func concatenate(texts [][]byte, alphabet Alphabet) ([]byte, []int, []int, error) {
	total := len(texts)
	for _, t := range texts {
		total += len(t)
	}

	text := make([]byte, total)
	freq := make([]int, alphabet.Size())
	sentinels := make([]int, 0, len(texts))

	pos := 0
	for ti, t := range texts {
		if at, ok := alphabet.encodeInto(text[pos:pos+len(t)], t); !ok {
			return nil, nil, nil, errors.Wrapf(ErrTextSymbol, "text %d: byte %q at offset %d", ti, t[at], at)
		}
		for _, sym := range text[pos : pos+len(t)] {
			freq[sym]++
		}
		pos += len(t)
		// text[pos] is already the zero sentinel
		sentinels = append(sentinels, pos)
		pos++
	}
	freq[0] = len(texts)

	return text, freq, sentinels, nil
}

// deriveBWT computes BWT[i] = text[SA[i]-1] (wrapping) in parallel chunks.
// Rows whose BWT symbol is the sentinel get their suffix-array value cached
// in the borders map, one entry per text; the locate walk stops there
// because LF across a text border does not track positions.
func deriveBWT(text []byte, sa []int, workers int) ([]byte, map[int]int) {
	total := len(text)
	bwt := make([]byte, total)

	chunk := ceilDiv(total, workers)
	locals := make([]map[int]int, workers)

	g := new(errgroup.Group)
	for w := 0; w < workers; w++ {
		w := w
		start := w * chunk
		end := min(start+chunk, total)
		if start >= end {
			break
		}
		g.Go(func() error {
			local := make(map[int]int)
			for i := start; i < end; i++ {
				j := sa[i]
				if j == 0 {
					j = total
				}
				c := text[j-1]
				bwt[i] = c
				if c == 0 {
					local[i] = sa[i]
				}
			}
			locals[w] = local
			return nil
		})
	}
	_ = g.Wait()

	borders := make(map[int]int, len(locals))
	for _, local := range locals {
		for k, v := range local {
			borders[k] = v
		}
	}
	return bwt, borders
}
