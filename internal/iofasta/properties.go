package iofasta

import (
	"encoding/csv"
	"errors"
	"io"
	"os"
	"strings"
)

// ReadProperties reads a tab-separated table of sample properties. The
// first row is a header, its first column holds sample names and the
// other columns are property names. Empty cells are skipped.
func ReadProperties(path string) (map[string]map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, ReadError(path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.Comma = '\t'
	r.Comment = '#'
	r.LazyQuotes = true

	header, err := r.Read()
	if err != nil {
		return nil, PropertiesError(path, 1, "cannot read header")
	}
	if len(header) < 2 {
		return nil, PropertiesError(path, 1, "header needs a sample column and properties")
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	res := make(map[string]map[string]string)
	for line := 2; ; line++ {
		row, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, PropertiesError(path, line, err.Error())
		}
		name := strings.TrimSpace(row[0])
		if name == "" {
			return nil, PropertiesError(path, line, "sample name is empty")
		}
		vals := res[name]
		if vals == nil {
			vals = make(map[string]string)
			res[name] = vals
		}
		for i := 1; i < len(row); i++ {
			if v := strings.TrimSpace(row[i]); v != "" {
				vals[header[i]] = v
			}
		}
	}
	return res, nil
}
