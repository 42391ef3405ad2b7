package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gnames/gnvariants/internal/iotesting"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestGetRootCmd_Exists verifies getRootCmd returns
// a valid command.
func TestGetRootCmd_Exists(t *testing.T) {
	cmd := getRootCmd()
	require.NotNil(t, cmd, "Root command should exist")
	assert.Equal(t, "gnvariants", cmd.Use)

	var names []string
	for _, c := range cmd.Commands() {
		names = append(names, c.Name())
	}
	for _, name := range []string{"create", "import", "match", "restore", "delete"} {
		assert.Contains(t, names, name)
	}
}

// TestGetRootCmd_VersionFormat verifies version
// output format.
func TestGetRootCmd_VersionFormat(t *testing.T) {
	for _, flag := range []string{"--version", "-V"} {
		cmd := getRootCmd()
		cmd.Version = "version: v1.2.3\nbuild:   abc123"

		buf := new(bytes.Buffer)
		cmd.SetOut(buf)
		cmd.SetArgs([]string{flag})

		err := cmd.Execute()
		require.NoError(t, err, flag)
		assert.Contains(t, buf.String(), "v1.2.3", flag)
		assert.Contains(t, buf.String(), "abc123", flag)
	}
}

// TestGetRootCmd_HelpText verifies help text content.
func TestGetRootCmd_HelpText(t *testing.T) {
	cmd := getRootCmd()

	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"--help"})

	err := cmd.Execute()
	require.NoError(t, err)

	helpText := buf.String()
	assert.Contains(t, helpText, "GNvariants")
	assert.Contains(t, helpText, "GNVARIANTS_")
	assert.Contains(t, helpText, "--db-driver")
}

func TestParsePropertyFlags(t *testing.T) {
	res, err := parsePropertyFlags([]string{"COUNTRY=DE", "COUNTRY=^FR", "DEPTH=>10"})
	require.NoError(t, err)
	assert.Equal(t, map[string][]string{
		"COUNTRY": {"DE", "^FR"},
		"DEPTH":   {">10"},
	}, res)

	for _, bad := range []string{"COUNTRY", "=DE", "COUNTRY="} {
		_, err = parsePropertyFlags([]string{bad})
		assert.Error(t, err, bad)
	}

	res, err = parsePropertyFlags(nil)
	require.NoError(t, err)
	assert.Nil(t, res)
}

func TestSeparator(t *testing.T) {
	tests := []struct {
		format string
		sep    rune
		err    bool
	}{
		{"tsv", '\t', false},
		{"CSV", ',', false},
		{"json", 0, false},
		{"xml", 0, true},
	}
	for _, v := range tests {
		sep, err := separator(v.format)
		assert.Equal(t, v.err, err != nil, v.format)
		assert.Equal(t, v.sep, sep, v.format)
	}
}

// execute runs the CLI in a temporary home with a SQLite store.
func execute(t *testing.T, args ...string) string {
	t.Helper()
	cmd := getRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetIn(strings.NewReader("yes\n"))
	cmd.SetArgs(args)
	require.NoError(t, cmd.Execute(), strings.Join(args, " "))
	return buf.String()
}

func TestLifecycle(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping CLI lifecycle test in short mode")
	}
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("GNVARIANTS_DATABASE_DRIVER", "sqlite")
	t.Setenv("GNVARIANTS_LOG_DESTINATION", "file")

	refPath := filepath.Join(home, "toy.yaml")
	require.NoError(t, os.WriteFile(refPath, []byte(iotesting.ToyYAML), 0644))
	fastaPath := filepath.Join(home, "samples.fasta")
	fasta := `>s1 COUNTRY=DE DEPTH=100
ATGTATAAATAAGGCTTGACCCATGGTTTC
>s2 mol=main COUNTRY=FR
ATGAATAAATAAGGCTTGACCCATGGTTTC
`
	require.NoError(t, os.WriteFile(fastaPath, []byte(fasta), 0644))

	out := execute(t, "create", "-r", refPath)
	assert.Contains(t, out, "TOY.1")
	assert.Contains(t, out, "P1")

	out = execute(t, "import", "-q", fastaPath)
	assert.Empty(t, out)
	_, err := os.Stat(filepath.Join(home, ".cache", "gnvariants", "gnvariants.sqlite"))
	require.NoError(t, err)

	out = execute(t, "match", "-M", "count", "-p", "A4T")
	assert.Equal(t, "1\n", out)

	out = execute(t, "match", "-p", "A4T")
	assert.Contains(t, out, "name\tntProfile\taaProfile")
	assert.Contains(t, out, "s1\tA4T\tP1:N2Y")

	out = execute(t, "match", "-M", "count", "--property", "COUNTRY=FR")
	assert.Equal(t, "1\n", out)

	out = execute(t, "match", "-M", "vcf")
	assert.Contains(t, out, "##fileformat=VCFv4.2")
	assert.Contains(t, out, "TOY.1\t4\t.\tA\tT")

	out = execute(t, "restore", "s1")
	assert.Contains(t, out, ">s1")
	assert.Contains(t, out, "ATGTATAAATAAGGCTTGACCCATGGTTTC")

	execute(t, "delete", "--vacuum", "s2")
	out = execute(t, "match", "-M", "count")
	assert.Equal(t, "1\n", out)

	// the cache keeps the alignment of s2
	execute(t, "import", "-q", fastaPath)
	out = execute(t, "match", "-M", "count")
	assert.Equal(t, "2\n", out)
}
