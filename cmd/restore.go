/*
Copyright © 2025 Dmitry Mozzherin <dmozzherin@gmail.com>

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in
all copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
THE SOFTWARE.
*/
package cmd

import (
	"context"

	"github.com/gnames/gn"
	"github.com/gnames/gnvariants/internal/iofasta"
	"github.com/gnames/gnvariants/internal/iomatch"
	"github.com/spf13/cobra"
)

// getRestoreCmd returns the restore command.
func getRestoreCmd() *cobra.Command {
	var (
		aligned bool
		output  string
	)

	restoreCmd := &cobra.Command{
		Use:   "restore SAMPLE...",
		Short: "Rebuild sample sequences from stored variants",
		Long: `Rebuild sample sequences from the reference and stored variants.

Sequences are printed in FASTA format. The aligned form keeps the
coordinates of the reference: deletions are shown as '-' and insertions
in lower case.

Examples:
  gnvariants restore sample-1 sample-2
  gnvariants restore --aligned -o aligned.fasta sample-1`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			err := runRestore(cmd, args, aligned, output)
			if err != nil {
				gn.PrintErrorMessage(err)
			}
			return err
		},
	}

	restoreCmd.Flags().BoolVarP(&aligned, "aligned", "a", false,
		"show restored sequences aligned to the reference")
	restoreCmd.Flags().StringVarP(&output, "output", "o", "",
		"write FASTA to a file instead of STDOUT")

	return restoreCmd
}

func runRestore(cmd *cobra.Command, names []string, aligned bool, output string) error {
	ctx := context.Background()

	op, err := connect(ctx)
	if err != nil {
		return err
	}
	defer op.Close()

	d, err := loadDomain(ctx, op)
	if err != nil {
		return err
	}

	m := iomatch.New(op, d.catalog, d.props, d.lineages)
	entries := make([]iofasta.Entry, 0, len(names))
	for _, name := range names {
		seq, err := m.Restore(ctx, name, aligned)
		if err != nil {
			return err
		}
		entries = append(entries, iofasta.Entry{Name: name, Sequence: seq})
	}

	if output != "" {
		return iofasta.WriteFile(output, entries...)
	}
	return iofasta.Write(cmd.OutOrStdout(), entries...)
}
