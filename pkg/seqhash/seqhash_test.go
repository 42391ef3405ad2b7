package seqhash_test

import (
	"testing"

	"github.com/gnames/gnvariants/pkg/seqhash"
	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		msg, raw, res string
	}{
		{"empty", "", ""},
		{"upper", "acgt", "ACGT"},
		{"whitespace", " AC\nG\tT \r\n", "ACGT"},
		{"rna", "acgu", "ACGT"},
		{"ambiguity kept", "ACNRYt", "ACNRYT"},
	}

	for _, v := range tests {
		assert.Equal(t, v.res, seqhash.Normalize(v.raw), v.msg)
	}
}

func TestHash(t *testing.T) {
	assert := assert.New(t)
	h1 := seqhash.Hash("ACGT")
	h2 := seqhash.Hash(seqhash.Normalize("ac\ngu"))
	assert.Equal(h1, h2)
	assert.Len(h1, 43)
	assert.NotContains(h1, "=")
	assert.NotContains(h1, "+")
	assert.NotContains(h1, "/")
	assert.NotEqual(h1, seqhash.Hash("ACGA"))
}

func TestFanOut(t *testing.T) {
	tests := []struct {
		msg    string
		hash   string
		width  int
		prefix string
	}{
		{"default", "AbCdEf", 2, "Ab"},
		{"wider", "AbCdEf", 3, "AbC"},
		{"zero", "AbCdEf", 0, ""},
		{"too wide", "Ab", 4, "Ab"},
	}

	for _, v := range tests {
		prefix, name := seqhash.FanOut(v.hash, v.width)
		assert.Equal(t, v.prefix, prefix, v.msg)
		assert.Equal(t, v.hash, name, v.msg)
	}
}
