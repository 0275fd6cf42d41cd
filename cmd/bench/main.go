package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"
	"runtime"
	"runtime/pprof"
	"time"

	"github.com/viniciusth/fmindex"
)

type variant struct {
	name   string
	config func(*fmindex.Builder) *fmindex.Builder
}

var variants = map[string]variant{
	"default":  {name: "default", config: func(b *fmindex.Builder) *fmindex.Builder { return b }},
	"rate1":    {name: "rate1", config: func(b *fmindex.Builder) *fmindex.Builder { return b.SamplingRate(1) }},
	"rate16":   {name: "rate16", config: func(b *fmindex.Builder) *fmindex.Builder { return b.SamplingRate(16) }},
	"depth0":   {name: "depth0", config: func(b *fmindex.Builder) *fmindex.Builder { return b.LookupDepth(0) }},
	"depth12":  {name: "depth12", config: func(b *fmindex.Builder) *fmindex.Builder { return b.LookupDepth(12) }},
	"width64":  {name: "width64", config: func(b *fmindex.Builder) *fmindex.Builder { return b.IndexWidth(fmindex.Width64) }},
	"lowmem":   {name: "lowmem", config: func(b *fmindex.Builder) *fmindex.Builder { return b.LowMemory() }},
}

type memMonitor struct {
	maxAlloc uint64
	stop     chan struct{}
}

func newMemMonitor() *memMonitor {
	mm := &memMonitor{stop: make(chan struct{})}
	go func() {
		for {
			var m runtime.MemStats
			runtime.ReadMemStats(&m)
			if m.Alloc > mm.maxAlloc {
				mm.maxAlloc = m.Alloc
			}
			select {
			case <-mm.stop:
				return
			default:
				time.Sleep(10 * time.Millisecond)
			}
		}
	}()
	return mm
}

func (mm *memMonitor) Stop() uint64 {
	close(mm.stop)
	return mm.maxAlloc
}

func getCurrentAlloc() uint64 {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return m.Alloc
}

func measureBuild(texts [][]byte, config func(*fmindex.Builder) *fmindex.Builder) (time.Duration, uint64, uint64, *fmindex.FmIndex) {
	runtime.GC()
	mm := newMemMonitor()
	start := time.Now()
	builder := fmindex.NewBuilder(texts).Alphabet(fmindex.DNAWithN())
	builder = config(builder)
	index, err := builder.Build()
	if err != nil {
		panic(err)
	}
	dur := time.Since(start)
	peak := mm.Stop()
	runtime.GC()
	alloc := getCurrentAlloc()
	return dur, peak, alloc, index
}

func measureQuery(index *fmindex.FmIndex, queries [][]byte, batched bool, locate bool) (time.Duration, uint64, uint64) {
	runtime.GC()
	mm := newMemMonitor()
	start := time.Now()
	if batched {
		if locate {
			if _, err := index.LocateBatch(queries); err != nil {
				panic(err)
			}
		} else {
			if _, err := index.CountBatch(queries); err != nil {
				panic(err)
			}
		}
	} else {
		for _, q := range queries {
			var err error
			if locate {
				_, err = index.Locate(q)
			} else {
				_, err = index.Count(q)
			}
			if err != nil {
				panic(err)
			}
		}
	}
	dur := time.Since(start)
	peak := mm.Stop()
	runtime.GC()
	alloc := getCurrentAlloc()
	return dur, peak, alloc
}

func runBenchmark(v variant, T, L, P, Q, runs int, batched, locate bool) {
	letters := []byte("ACGT")
	for run := 0; run < runs; run++ {
		r := rand.New(rand.NewSource(int64(run)))

		texts := make([][]byte, T)
		for i := range texts {
			text := make([]byte, L)
			for j := range text {
				text[j] = letters[r.Intn(len(letters))]
			}
			texts[i] = text
		}

		bt, bp, ba, index := measureBuild(texts, v.config)

		queries := make([][]byte, Q)
		for i := range queries {
			text := texts[r.Intn(T)]
			start := r.Intn(L - P + 1)
			queries[i] = text[start : start+P]
		}

		qt, qp, qa := measureQuery(index, queries, batched, locate)
		fmt.Printf("%s,%d,%d,%d,%d,%t,%t,%.0f,%d,%d,%.0f,%d,%d\n",
			v.name, T, L, P, Q, batched, locate,
			float64(bt.Nanoseconds()), bp, ba,
			float64(qt.Nanoseconds()), qp, qa)
	}
}

func main() {
	variantName := flag.String("variant", "", "Variant to benchmark")
	t := flag.Int("t", 0, "Number of texts T")
	l := flag.Int("l", 0, "Text length L")
	p := flag.Int("p", 0, "Query length P")
	q := flag.Int("q", 0, "Number of queries Q")
	runs := flag.Int("runs", 3, "Number of runs for averaging")
	batched := flag.Bool("batched", false, "Use the batched search path")
	locate := flag.Bool("locate", false, "Locate hits instead of counting")
	cpuprofile := flag.String("cpuprofile", "", "Write CPU profile to file")
	flag.Parse()

	if *cpuprofile != "" {
		f, err := os.Create(*cpuprofile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "could not create CPU profile: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			fmt.Fprintf(os.Stderr, "could not start CPU profile: %v\n", err)
			os.Exit(1)
		}
		defer pprof.StopCPUProfile()
	}

	if *variantName == "" || *t <= 0 || *l <= 0 || *p <= 0 || *q <= 0 || *p > *l {
		fmt.Println("Usage: go run main.go -variant=<variant> -t=<T> -l=<L> -p=<P> -q=<Q> [-batched] [-locate] [-runs=<runs>]")
		fmt.Println("Available variants:", variants)
		os.Exit(1)
	}

	v, ok := variants[*variantName]
	if !ok {
		fmt.Println("Invalid variant:", *variantName)
		os.Exit(1)
	}

	runBenchmark(v, *t, *l, *p, *q, *runs, *batched, *locate)
}
