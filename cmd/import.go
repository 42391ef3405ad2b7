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
	"fmt"
	"log/slog"

	"github.com/gnames/gn"
	"github.com/gnames/gnvariants/internal/ioblob"
	"github.com/gnames/gnvariants/internal/iocache"
	"github.com/gnames/gnvariants/internal/iofasta"
	"github.com/gnames/gnvariants/internal/ioimport"
	"github.com/gnames/gnvariants/internal/iostore"
	"github.com/gnames/gnvariants/pkg/config"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

type importFlags struct {
	propsFile    string
	metricsFile  string
	failDir      string
	band         int
	ignoreErrors bool
	paranoid     bool
	quiet        bool
}

// getImportCmd returns the import command.
func getImportCmd() *cobra.Command {
	var flags importFlags

	importCmd := &cobra.Command{
		Use:   "import FASTA...",
		Short: "Import samples from FASTA files",
		Long: `Import samples from FASTA files.

Every record is a sample. The header line holds the sample name and
optional key=value pairs: 'molecule' (or 'mol') selects the target
molecule, other keys are property values.

  >sample-1 molecule=MN908947.3 COUNTRY=Germany DEPTH=120

Properties can also be given in a tab-separated file with sample names
in the first column. Values of FASTA headers win.

Sequences are aligned once, artifacts are kept in the content-addressed
cache, so interrupted imports can be restarted. With the paranoid check
(default) stored variants are replayed onto the reference, samples that
do not restore their sequence are removed and written to the fail
directory.

Examples:
  gnvariants import samples.fasta
  gnvariants import -p properties.tsv samples.fasta
  gnvariants import --ignore-errors --metrics import.prom *.fasta`,
		Aliases: []string{"add"},
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			err := runImport(cmd, args, flags)
			if err != nil {
				gn.PrintErrorMessage(err)
			}
			return err
		},
	}

	f := importCmd.Flags()
	f.StringVarP(&flags.propsFile, "properties", "p", "",
		"tab-separated file with sample properties")
	f.StringVarP(&flags.metricsFile, "metrics", "m", "",
		"write import metrics in Prometheus text format to a file")
	f.StringVar(&flags.failDir, "fail-dir", "",
		"directory for samples that fail the consistency check")
	f.IntVar(&flags.band, "band", 0, "minimal aligner band half-width")
	f.BoolVarP(&flags.ignoreErrors, "ignore-errors", "i", false,
		"skip samples with unknown molecules instead of aborting")
	f.BoolVar(&flags.paranoid, "paranoid", true,
		"check that stored variants restore every sequence")
	f.BoolVarP(&flags.quiet, "quiet", "q", false, "do not show progress bar")

	return importCmd
}

func runImport(cmd *cobra.Command, files []string, flags importFlags) error {
	ctx := context.Background()

	var importOpts []config.Option
	f := cmd.Flags()
	if f.Changed("ignore-errors") {
		importOpts = append(importOpts, config.OptImportIgnoreErrors(flags.ignoreErrors))
	}
	if f.Changed("paranoid") {
		importOpts = append(importOpts, config.OptImportParanoid(flags.paranoid))
	}
	if f.Changed("fail-dir") {
		importOpts = append(importOpts, config.OptImportFailDir(flags.failDir))
	}
	if f.Changed("band") {
		importOpts = append(importOpts, config.OptImportBand(flags.band))
	}
	cfg.Update(importOpts)

	var props map[string]map[string]string
	var err error
	if flags.propsFile != "" {
		if props, err = iofasta.ReadProperties(flags.propsFile); err != nil {
			return err
		}
	}

	op, err := connect(ctx)
	if err != nil {
		return err
	}
	defer op.Close()

	d, err := loadDomain(ctx, op)
	if err != nil {
		return err
	}

	blobs, err := ioblob.Open(ctx, cfg)
	if err != nil {
		return err
	}
	cache := iocache.New(blobs, d.catalog, cfg.Cache.FanOut, nil)
	store := iostore.New(op, cfg.Database.BatchSize)
	reg := prometheus.NewRegistry()
	imp := ioimport.New(cfg, d.props, cache, store, ioimport.NewMetrics(reg))
	imp.Progress = !flags.quiet

	var failed int
	for _, file := range files {
		recs, err := iofasta.ReadFile(file)
		if err != nil {
			return err
		}
		gn.Info("Importing <em>%d</em> records from <em>%s</em>", len(recs), file)
		res, err := imp.ImportBatch(ctx, recs, props)
		for _, v := range res.Failed {
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\n", file, v.Name, v.Reason)
		}
		failed += len(res.Failed)
		if err != nil {
			return err
		}
	}

	if flags.metricsFile != "" {
		if err = prometheus.WriteToTextfile(flags.metricsFile, reg); err != nil {
			return err
		}
		slog.Info("Metrics saved", "file", flags.metricsFile)
	}
	if failed > 0 {
		gn.Warn("<warn>%d samples were not imported</warn>", failed)
	}
	return nil
}
