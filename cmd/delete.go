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
	"bufio"
	"context"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/gnames/gn"
	"github.com/gnames/gnvariants/internal/iofs"
	"github.com/gnames/gnvariants/internal/iostore"
	"github.com/spf13/cobra"
)

// getDeleteCmd returns the delete command.
func getDeleteCmd() *cobra.Command {
	var (
		namesFile string
		vacuum    bool
	)

	deleteCmd := &cobra.Command{
		Use:   "delete [SAMPLE...]",
		Short: "Remove samples from the database",
		Long: `Remove samples with their properties.

Sequences, alignments and variants that are not used by any other
sample are removed as well. The artifact cache is kept, a deleted
sample imported again does not need a new alignment.

Examples:
  gnvariants delete sample-1 sample-2
  gnvariants delete --file names.txt --vacuum`,
		RunE: func(cmd *cobra.Command, args []string) error {
			err := runDelete(args, namesFile, vacuum)
			if err != nil {
				gn.PrintErrorMessage(err)
			}
			return err
		},
	}

	deleteCmd.Flags().StringVarP(&namesFile, "file", "F", "",
		"file with sample names, one per line")
	deleteCmd.Flags().BoolVar(&vacuum, "vacuum", false,
		"reclaim space and update statistics after deletion")

	return deleteCmd
}

func runDelete(names []string, namesFile string, vacuum bool) error {
	ctx := context.Background()

	if namesFile != "" {
		fromFile, err := readNames(namesFile)
		if err != nil {
			return err
		}
		names = append(names, fromFile...)
	}
	if len(names) == 0 {
		gn.Warn("No samples to delete")
		return nil
	}

	op, err := connect(ctx)
	if err != nil {
		return err
	}
	defer op.Close()

	store := iostore.New(op, cfg.Database.BatchSize)
	n, err := store.DeleteSamples(ctx, names)
	if err != nil {
		return err
	}
	gn.Info("Deleted <em>%s</em> of %s samples",
		humanize.Comma(int64(n)), humanize.Comma(int64(len(names))))

	if vacuum {
		return store.Vacuum(ctx)
	}
	return nil
}

func readNames(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, iofs.ReadFileError(path, err)
	}
	defer f.Close()

	var res []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		if s := strings.TrimSpace(sc.Text()); s != "" && !strings.HasPrefix(s, "#") {
			res = append(res, s)
		}
	}
	if err = sc.Err(); err != nil {
		return nil, iofs.ReadFileError(path, err)
	}
	return res, nil
}
