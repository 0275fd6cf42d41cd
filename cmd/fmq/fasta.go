package main

import (
	"bufio"
	"bytes"
	"os"

	"github.com/pkg/errors"
)

type fastaRecord struct {
	name string
	seq  []byte
}

// readFasta reads every record of a FASTA file. Sequence lines are
// concatenated per record; whitespace is stripped.
func readFasta(path string) ([]fastaRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "opening FASTA file")
	}
	defer f.Close()

	var records []fastaRecord
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 1<<20), 1<<20)

	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		if line[0] == '>' {
			var name string
			if fields := bytes.Fields(line[1:]); len(fields) > 0 {
				name = string(fields[0])
			}
			records = append(records, fastaRecord{name: name})
			continue
		}
		if len(records) == 0 {
			return nil, errors.Errorf("%s: sequence data before first FASTA header", path)
		}
		last := &records[len(records)-1]
		last.seq = append(last.seq, line...)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrapf(err, "reading %s", path)
	}
	if len(records) == 0 {
		return nil, errors.Errorf("%s: no FASTA records", path)
	}
	return records, nil
}
