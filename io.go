package fmindex

import (
	"bufio"
	"encoding/binary"
	"io"
	"sort"

	"github.com/pkg/errors"
)

// ErrBadIndexFormat reports an index stream that is not a saved FmIndex or
// was saved with an incompatible format version.
var ErrBadIndexFormat = errors.New("fmindex: bad index format")

var indexMagic = [4]byte{'F', 'M', 'I', 'X'}

const indexFormatVersion uint32 = 1

// Save writes the index to w as a flat, versioned, little-endian byte
// layout. Every component is a plain slice copy; there are no internal
// pointers in the encoding.
func (x *FmIndex) Save(w io.Writer) error {
	bw := bufio.NewWriter(w)
	e := &indexEncoder{w: bw}

	e.write(indexMagic)
	e.write(indexFormatVersion)

	e.write(x.alphabet.translation)
	e.write(uint32(x.alphabet.size))
	e.write(uint32(x.alphabet.numNotSearched))

	e.writeInts(x.count)

	e.write(uint64(x.rank.n))
	e.write(uint32(x.rank.sigma))
	e.write(uint32(x.rank.planes))
	e.write(uint64(len(x.rank.blocks)))
	e.write(x.rank.blocks)
	e.write(uint64(len(x.rank.blockOffsets)))
	e.write(x.rank.blockOffsets)
	e.write(uint64(len(x.rank.superOffsets)))
	e.write(x.rank.superOffsets)

	e.write(uint32(x.sa.rate))
	wide := x.sa.values64 != nil
	e.write(wide)
	if wide {
		e.write(uint64(len(x.sa.values64)))
		e.write(x.sa.values64)
	} else {
		e.write(uint64(len(x.sa.values32)))
		e.write(x.sa.values32)
	}
	borderRows := make([]int, 0, len(x.sa.borders))
	for row := range x.sa.borders {
		borderRows = append(borderRows, row)
	}
	sort.Ints(borderRows)
	e.write(uint32(len(borderRows)))
	for _, row := range borderRows {
		e.write(uint64(row))
		e.write(uint64(x.sa.borders[row]))
	}

	e.writeInts(x.bounds.sentinels)

	e.write(uint32(x.lookup.numSymbols))
	e.write(uint32(len(x.lookup.tables)))
	for _, table := range x.lookup.tables {
		e.write(uint64(len(table.data)))
		flat := make([]uint64, 2*len(table.data))
		for i, iv := range table.data {
			flat[2*i] = uint64(iv.Lo)
			flat[2*i+1] = uint64(iv.Hi)
		}
		e.write(flat)
	}

	if e.err != nil {
		return errors.Wrap(e.err, "fmindex: saving index")
	}
	return errors.Wrap(bw.Flush(), "fmindex: saving index")
}

// Load reads an index previously written by Save.
func (x *FmIndex) Load(r io.Reader) error {
	d := &indexDecoder{r: bufio.NewReader(r)}

	var magic [4]byte
	var version uint32
	d.read(&magic)
	d.read(&version)
	if d.err == nil && magic != indexMagic {
		return errors.Wrap(ErrBadIndexFormat, "missing magic bytes")
	}
	if d.err == nil && version != indexFormatVersion {
		return errors.Wrapf(ErrBadIndexFormat, "version %d, want %d", version, indexFormatVersion)
	}

	var size, numNotSearched uint32
	d.read(&x.alphabet.translation)
	d.read(&size)
	d.read(&numNotSearched)
	x.alphabet.size = int(size)
	x.alphabet.numNotSearched = int(numNotSearched)

	x.count = d.readInts()

	rank := &RankText{}
	var n uint64
	var sigma, planes uint32
	d.read(&n)
	d.read(&sigma)
	d.read(&planes)
	rank.n = int(n)
	rank.sigma = int(sigma)
	rank.planes = int(planes)
	rank.blocks = make([]uint64, d.readLen())
	d.read(rank.blocks)
	rank.blockOffsets = make([]uint16, d.readLen())
	d.read(rank.blockOffsets)
	rank.superOffsets = make([]uint64, d.readLen())
	d.read(rank.superOffsets)
	x.rank = rank

	sa := &sampledSuffixArray{}
	var rate uint32
	var wide bool
	d.read(&rate)
	d.read(&wide)
	sa.rate = int(rate)
	if wide {
		sa.values64 = make([]uint64, d.readLen())
		d.read(sa.values64)
	} else {
		sa.values32 = make([]uint32, d.readLen())
		d.read(sa.values32)
	}
	var numBorders uint32
	d.read(&numBorders)
	sa.borders = make(map[int]int, numBorders)
	for i := uint32(0); i < numBorders && d.err == nil; i++ {
		var row, value uint64
		d.read(&row)
		d.read(&value)
		sa.borders[int(row)] = int(value)
	}
	x.sa = sa

	x.bounds = &textBoundaries{sentinels: d.readInts()}

	lookup := &lookupTables{}
	var numSymbols, numTables uint32
	d.read(&numSymbols)
	d.read(&numTables)
	lookup.numSymbols = int(numSymbols)
	for t := uint32(0); t < numTables && d.err == nil; t++ {
		flat := make([]uint64, 2*d.readLen())
		d.read(flat)
		data := make([]Interval, len(flat)/2)
		for i := range data {
			data[i] = Interval{Lo: int(flat[2*i]), Hi: int(flat[2*i+1])}
		}
		lookup.tables = append(lookup.tables, lookupTable{data: data})
	}
	x.lookup = lookup

	return errors.Wrap(d.err, "fmindex: loading index")
}

type indexEncoder struct {
	w   io.Writer
	err error
}

func (e *indexEncoder) write(v any) {
	if e.err != nil {
		return
	}
	e.err = binary.Write(e.w, binary.LittleEndian, v)
}

func (e *indexEncoder) writeInts(values []int) {
	flat := make([]uint64, len(values))
	for i, v := range values {
		flat[i] = uint64(v)
	}
	e.write(uint64(len(flat)))
	e.write(flat)
}

type indexDecoder struct {
	r   io.Reader
	err error
}

func (d *indexDecoder) read(v any) {
	if d.err != nil {
		return
	}
	d.err = binary.Read(d.r, binary.LittleEndian, v)
}

func (d *indexDecoder) readLen() uint64 {
	var n uint64
	d.read(&n)
	if d.err != nil {
		return 0
	}
	return n
}

func (d *indexDecoder) readInts() []int {
	flat := make([]uint64, d.readLen())
	d.read(flat)
	values := make([]int, len(flat))
	for i, v := range flat {
		values[i] = int(v)
	}
	return values
}
