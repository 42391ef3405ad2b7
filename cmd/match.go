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
	"io"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/gnames/gn"
	"github.com/gnames/gnfmt"
	"github.com/gnames/gnvariants/internal/iomatch"
	"github.com/gnames/gnvariants/pkg/query"
	"github.com/spf13/cobra"
)

type matchFlags struct {
	profiles   []string
	properties []string
	mode       string
	sql        string
	reference  string
	format     string
}

// getMatchCmd returns the match command.
func getMatchCmd() *cobra.Command {
	var flags matchFlags

	matchCmd := &cobra.Command{
		Use:   "match",
		Short: "Find samples by mutation profiles and properties",
		Long: `Find samples by mutation profiles and properties.

A profile is a space-separated list of mutations that all have to be
present. Several profiles are alternatives. Mutations are written as

  A23403G           nucleotide substitution (1-based position)
  del:21765-21770   nucleotide deletion
  S:N501Y           amino acid substitution of a gene
  S:del:69-70       amino acid deletion
  ^S:N501Y          the mutation must be absent
  MN908947.3:C241T  mutation on a named molecule

Property filters are NAME=VALUE, a value starting with '^' negates it.
Numbers and dates accept ranges 'a:b' and comparisons '>a'. Pango
lineages match their sublineages.

Modes:
  rows   matched samples with profiles and properties (default)
  count  number of matched samples
  vcf    nucleotide variants of matched samples as VCF
  sql    a read-only SQL statement given by --sql

Examples:
  gnvariants match -p "S:N501Y S:E484K"
  gnvariants match -p S:N501Y -p S:E484K --property COUNTRY=Germany
  gnvariants match --mode count --property LINEAGE=B.1.1.7
  gnvariants match --mode sql --sql "SELECT COUNT(*) FROM sample"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			err := runMatch(cmd, flags)
			if err != nil {
				gn.PrintErrorMessage(err)
			}
			return err
		},
	}

	f := matchCmd.Flags()
	f.StringArrayVarP(&flags.profiles, "profile", "p", nil,
		"mutation profile, can be repeated")
	f.StringArrayVar(&flags.properties, "property", nil,
		"property filter NAME=VALUE, can be repeated")
	f.StringVarP(&flags.mode, "mode", "M", "rows", "rows, count, vcf or sql")
	f.StringVar(&flags.sql, "sql", "", "statement for sql mode")
	f.StringVarP(&flags.reference, "reference", "r", "",
		"reference accession, default reference if empty")
	f.StringVarP(&flags.format, "format", "f", "tsv",
		"output of rows and sql modes: tsv, csv or json")

	return matchCmd
}

func runMatch(cmd *cobra.Command, flags matchFlags) error {
	ctx := context.Background()

	mode, err := query.ParseMode(flags.mode)
	if err != nil {
		return err
	}
	sep, err := separator(flags.format)
	if err != nil {
		return err
	}
	props, err := parsePropertyFlags(flags.properties)
	if err != nil {
		return err
	}
	req := query.Request{
		Profiles:   flags.profiles,
		Properties: props,
		Reference:  flags.reference,
		Mode:       mode,
		SQL:        flags.sql,
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

	m := iomatch.New(op, d.catalog, d.props, d.lineages)
	res, err := m.Match(ctx, req)
	if err != nil {
		return err
	}
	return writeResult(cmd.OutOrStdout(), res, sep)
}

// parsePropertyFlags groups NAME=VALUE pairs by name.
func parsePropertyFlags(pairs []string) (map[string][]string, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	res := make(map[string][]string)
	for _, p := range pairs {
		k, v, ok := strings.Cut(p, "=")
		k = strings.TrimSpace(k)
		if !ok || k == "" || v == "" {
			return nil, fmt.Errorf("property filter %q must be NAME=VALUE", p)
		}
		res[k] = append(res[k], v)
	}
	return res, nil
}

// separator returns 0 for JSON output.
func separator(format string) (rune, error) {
	switch strings.ToLower(format) {
	case "tsv", "":
		return '\t', nil
	case "csv":
		return ',', nil
	case "json":
		return 0, nil
	}
	return 0, fmt.Errorf("unknown output format %q, use tsv, csv or json", format)
}

func writeResult(w io.Writer, res query.Result, sep rune) error {
	switch res.Mode {
	case query.Count:
		_, err := fmt.Fprintln(w, res.Count)
		return err
	case query.VCF:
		return res.VCF.Write(w)
	case query.SQL:
		if sep == 0 {
			return writeJSON(w, sqlObjects(res))
		}
		fmt.Fprintln(w, gnfmt.ToCSV(res.Columns, sep))
		for _, r := range res.Records {
			fmt.Fprintln(w, gnfmt.ToCSV(r, sep))
		}
		return nil
	}

	if sep == 0 {
		return writeJSON(w, res.Rows)
	}
	names := make(map[string]struct{})
	for _, r := range res.Rows {
		for k := range r.Properties {
			names[k] = struct{}{}
		}
	}
	propNames := slices.Sorted(maps.Keys(names))
	head := append([]string{"name", "ntProfile", "aaProfile"}, propNames...)
	fmt.Fprintln(w, gnfmt.ToCSV(head, sep))
	for _, r := range res.Rows {
		rec := []string{r.Name, r.NtProfile, r.AaProfile}
		for _, k := range propNames {
			rec = append(rec, r.Properties[k])
		}
		fmt.Fprintln(w, gnfmt.ToCSV(rec, sep))
	}
	return nil
}

func sqlObjects(res query.Result) []map[string]string {
	out := make([]map[string]string, len(res.Records))
	for i, r := range res.Records {
		obj := make(map[string]string, len(r))
		for j, v := range r {
			col := res.Columns[j]
			if _, ok := obj[col]; ok {
				col += "_" + strconv.Itoa(j)
			}
			obj[col] = v
		}
		out[i] = obj
	}
	return out
}

func writeJSON(w io.Writer, obj any) error {
	enc := gnfmt.GNjson{Pretty: true}
	data, err := enc.Encode(obj)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
