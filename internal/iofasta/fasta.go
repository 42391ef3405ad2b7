// Package iofasta reads sample records from FASTA files and writes
// sequences back. A header has the form `>name key=value key=value`,
// the `molecule` (or `mol`) key selects the target molecule, other keys
// are sample properties.
package iofasta

import (
	"io"
	"os"
	"strings"

	"github.com/biogo/biogo/alphabet"
	"github.com/biogo/biogo/io/seqio"
	"github.com/biogo/biogo/io/seqio/fasta"
	"github.com/biogo/biogo/seq/linear"
	"github.com/gnames/gnvariants/pkg/sample"
)

// LineWidth is the width of sequence lines in written files.
const LineWidth = 60

// Read returns records of a FASTA stream. A record with a malformed
// header is returned with its Err set, only stream errors fail the read.
func Read(r io.Reader) ([]sample.Record, error) {
	var res []sample.Record
	fr := fasta.NewReader(r, linear.NewSeq("", nil, alphabet.DNAredundant))
	sc := seqio.NewScanner(fr)
	for sc.Next() {
		s, ok := sc.Seq().(*linear.Seq)
		if !ok {
			continue
		}
		rec, err := parseHeader(s.Name(), s.Description())
		if err != nil {
			rec.Err = err
			if rec.Name == "" {
				rec.Name = strings.TrimSpace(s.Description())
			}
		}
		rec.Sequence = letters(s.Seq)
		res = append(res, rec)
	}
	if err := sc.Error(); err != nil {
		return nil, err
	}
	return res, nil
}

// ReadFile reads records from a FASTA file.
func ReadFile(path string) ([]sample.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, ReadError(path, err)
	}
	defer f.Close()
	res, err := Read(f)
	if err != nil {
		return nil, ReadError(path, err)
	}
	return res, nil
}

func letters(ll alphabet.Letters) string {
	b := make([]byte, len(ll))
	for i := range ll {
		b[i] = byte(ll[i])
	}
	return string(b)
}

func parseHeader(name, desc string) (sample.Record, error) {
	res := sample.Record{Name: strings.TrimSpace(name)}
	if res.Name == "" {
		return res, HeaderError(desc, "sample name is empty")
	}
	for _, f := range strings.Fields(desc) {
		k, v, ok := strings.Cut(f, "=")
		if !ok {
			continue
		}
		if k == "" || v == "" {
			res.Properties, res.Molecule = nil, ""
			return res, HeaderError(name+" "+desc, "empty key or value in "+f)
		}
		switch strings.ToLower(k) {
		case "molecule", "mol":
			res.Molecule = v
		default:
			if res.Properties == nil {
				res.Properties = make(map[string]string)
			}
			res.Properties[k] = v
		}
	}
	return res, nil
}

// Entry is a sequence to write.
type Entry struct {
	Name        string
	Description string
	Sequence    string
}

// Write writes entries in FASTA format.
func Write(w io.Writer, entries ...Entry) error {
	fw := fasta.NewWriter(w, LineWidth)
	for _, e := range entries {
		s := linear.NewSeq(e.Name, alphabet.BytesToLetters([]byte(e.Sequence)),
			alphabet.DNAredundant)
		s.Desc = e.Description
		if _, err := fw.Write(s); err != nil {
			return err
		}
	}
	return nil
}

// WriteFile writes entries to a new file.
func WriteFile(path string, entries ...Entry) error {
	f, err := os.Create(path)
	if err != nil {
		return WriteError(path, err)
	}
	if err = Write(f, entries...); err != nil {
		_ = f.Close()
		return WriteError(path, err)
	}
	if err = f.Close(); err != nil {
		return WriteError(path, err)
	}
	return nil
}
