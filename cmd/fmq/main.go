package main

import (
	"fmt"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"gopkg.in/alecthomas/kingpin.v2"

	"github.com/viniciusth/fmindex"
)

var (
	app = kingpin.New("fmq", "Build and query FM-indexes over FASTA sequence collections")

	indexCmd  = app.Command("index", "Build an index from FASTA files and save it")
	countCmd  = app.Command("count", "Count occurrences of queries in a saved index")
	locateCmd = app.Command("locate", "Locate occurrences of queries in a saved index")
)

var indexArgs = struct {
	out      *string
	fastas   *[]string
	alphabet *string
	rate     *int
	depth    *int
	width    *string
	lowMem   *bool
}{
	out:      indexCmd.Flag("out", "File to write the index to").Short('o').Required().String(),
	fastas:   indexCmd.Arg("fasta", "FASTA files to index").Required().ExistingFiles(),
	alphabet: indexCmd.Flag("alphabet", "Alphabet: dna, dna-n, iupac, iupac-as-dna, iupac-as-dna-n").Default("dna-n").Enum("dna", "dna-n", "iupac", "iupac-as-dna", "iupac-as-dna-n"),
	rate:     indexCmd.Flag("sampling-rate", "Suffix array sampling rate").Default("4").Int(),
	depth:    indexCmd.Flag("lookup-depth", "k-mer lookup table depth (-1 for default)").Default("-1").Int(),
	width:    indexCmd.Flag("width", "Suffix array value width: auto, 32, 64").Default("auto").Enum("auto", "32", "64"),
	lowMem:   indexCmd.Flag("low-memory", "Build with reduced peak memory").Bool(),
}

var countArgs = struct {
	index   *string
	queries *[]string
}{
	index:   countCmd.Flag("index", "Index file").Short('i').Required().ExistingFile(),
	queries: countCmd.Arg("query", "Query sequences").Required().Strings(),
}

var locateArgs = struct {
	index   *string
	queries *[]string
}{
	index:   locateCmd.Flag("index", "Index file").Short('i').Required().ExistingFile(),
	queries: locateCmd.Arg("query", "Query sequences").Required().Strings(),
}

func main() {
	switch kingpin.MustParse(app.Parse(os.Args[1:])) {
	case indexCmd.FullCommand():
		must(doIndex())
	case countCmd.FullCommand():
		must(doCount())
	case locateCmd.FullCommand():
		must(doLocate())
	}
}

func must(err error) {
	if err != nil {
		color.Red("error: %+v", err)
		os.Exit(1)
	}
}

func alphabetByName(name string) fmindex.Alphabet {
	switch name {
	case "dna":
		return fmindex.DNA()
	case "iupac":
		return fmindex.DNAIupac()
	case "iupac-as-dna":
		return fmindex.DNAIupacAsDNA()
	case "iupac-as-dna-n":
		return fmindex.DNAIupacAsDNAWithN()
	default:
		return fmindex.DNAWithN()
	}
}

func doIndex() error {
	var texts [][]byte
	for _, path := range *indexArgs.fastas {
		records, err := readFasta(path)
		if err != nil {
			return err
		}
		for _, r := range records {
			color.White("%s: %s (%s)", path, r.name, humanize.Comma(int64(len(r.seq))))
			texts = append(texts, r.seq)
		}
	}

	builder := fmindex.NewBuilder(texts).
		Alphabet(alphabetByName(*indexArgs.alphabet)).
		SamplingRate(*indexArgs.rate)
	if *indexArgs.depth >= 0 {
		builder = builder.LookupDepth(*indexArgs.depth)
	}
	switch *indexArgs.width {
	case "32":
		builder = builder.IndexWidth(fmindex.Width32)
	case "64":
		builder = builder.IndexWidth(fmindex.Width64)
	}
	if *indexArgs.lowMem {
		builder = builder.LowMemory()
	}

	start := time.Now()
	index, err := builder.Build()
	if err != nil {
		return err
	}
	color.Green("indexed %d texts, %s symbols in %s",
		index.NumTexts(), humanize.Comma(int64(index.TotalLen())), time.Since(start).Round(time.Millisecond))

	f, err := os.Create(*indexArgs.out)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := index.Save(f); err != nil {
		return err
	}
	info, err := f.Stat()
	if err != nil {
		return err
	}
	color.Green("wrote %s (%s)", *indexArgs.out, humanize.IBytes(uint64(info.Size())))
	return nil
}

func loadIndex(path string) (*fmindex.FmIndex, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	index := &fmindex.FmIndex{}
	if err := index.Load(f); err != nil {
		return nil, err
	}
	return index, nil
}

func doCount() error {
	index, err := loadIndex(*countArgs.index)
	if err != nil {
		return err
	}

	queries := make([][]byte, len(*countArgs.queries))
	for i, q := range *countArgs.queries {
		queries[i] = []byte(q)
	}
	counts, err := index.CountBatch(queries)
	if err != nil {
		return err
	}
	for i, q := range *countArgs.queries {
		fmt.Printf("%s\t%d\n", q, counts[i])
	}
	return nil
}

func doLocate() error {
	index, err := loadIndex(*locateArgs.index)
	if err != nil {
		return err
	}

	queries := make([][]byte, len(*locateArgs.queries))
	for i, q := range *locateArgs.queries {
		queries[i] = []byte(q)
	}
	hits, err := index.LocateBatch(queries)
	if err != nil {
		return err
	}
	for i, q := range *locateArgs.queries {
		for _, h := range hits[i] {
			fmt.Printf("%s\ttext %d\tposition %d\n", q, h.TextID, h.Position)
		}
		if len(hits[i]) == 0 {
			fmt.Printf("%s\tno matches\n", q)
		}
	}
	return nil
}
