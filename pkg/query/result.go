package query

import (
	"bufio"
	"cmp"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/gnames/gnvariants/pkg/reference"
	"github.com/gnames/gnvariants/pkg/variant"
)

// SampleRow is a row of the samples statement.
type SampleRow struct {
	ID   string
	Name string
}

// VariantRow is a row of the variants statement.
type VariantRow struct {
	SampleID    string
	Label       string
	ElementType string
	Symbol      string
	Molecule    string
}

// PropertyRow is a property value of a sample converted to text.
type PropertyRow struct {
	SampleID string
	Name     string
	Value    string
}

// Row is a matched sample of rows mode.
type Row struct {
	Name       string            `json:"name"`
	Properties map[string]string `json:"properties,omitempty"`
	// NtProfile lists nucleotide variant labels separated by spaces.
	NtProfile string `json:"ntProfile"`
	// AaProfile lists `gene:label` amino acid variants.
	AaProfile string `json:"aaProfile"`
}

// AssembleRows joins the results of rows mode statements. Samples keep
// their order. Nucleotide labels of molecules other than defaultMol get
// the molecule prefix.
func AssembleRows(
	defaultMol string,
	samples []SampleRow,
	vars []VariantRow,
	props []PropertyRow,
) []Row {
	nt := make(map[string][]string)
	aa := make(map[string][]string)
	for _, v := range vars {
		switch reference.ElementType(v.ElementType) {
		case reference.Source:
			l := v.Label
			if v.Molecule != defaultMol {
				l = v.Molecule + ":" + l
			}
			nt[v.SampleID] = append(nt[v.SampleID], l)
		case reference.CDS:
			aa[v.SampleID] = append(aa[v.SampleID], v.Symbol+":"+v.Label)
		}
	}
	pm := make(map[string]map[string]string)
	for _, p := range props {
		if pm[p.SampleID] == nil {
			pm[p.SampleID] = make(map[string]string)
		}
		pm[p.SampleID][p.Name] = p.Value
	}

	res := make([]Row, len(samples))
	for i, s := range samples {
		res[i] = Row{
			Name:       s.Name,
			Properties: pm[s.ID],
			NtProfile:  strings.Join(nt[s.ID], " "),
			AaProfile:  strings.Join(aa[s.ID], " "),
		}
	}
	return res
}

// VCFVariant is a nucleotide variant of a sample as read from the store.
type VCFVariant struct {
	Sample   string
	Molecule string
	Start    int
	End      int
	Ref      string
	Alt      string
	PreRef   string
}

// VCFRecord is a line of a VCF file.
type VCFRecord struct {
	Chrom string
	// Pos is 1-based.
	Pos  int
	Ref  string
	Alts []string
	// Genotypes are indices of ALT alleles per sample, 0 is the reference.
	Genotypes []int
}

// VCFTable keeps samples and variant records of vcf mode.
type VCFTable struct {
	Samples []string
	Records []VCFRecord
}

// vcfAllele converts a stored variant to VCF coordinates. Terminal
// deletions and leading insertions have no VCF form.
func vcfAllele(v VCFVariant) (pos int, ref, alt string, ok bool) {
	switch {
	case v.Alt == variant.TerminalAlt || v.Ref == variant.Anchor:
		return 0, "", "", false
	case v.Alt == variant.DeletionAlt:
		if v.PreRef == "" {
			return 0, "", "", false
		}
		return v.Start, v.PreRef + v.Ref, v.PreRef, true
	}
	return v.Start + 1, v.Ref, v.Alt, true
}

// PivotVCF groups variants by position and reference allele and builds a
// genotype column per sample.
func PivotVCF(samples []string, vars []VCFVariant) VCFTable {
	type key struct {
		chrom string
		pos   int
		ref   string
	}
	type calls struct {
		alts    []string
		samples map[string]string
	}

	col := make(map[string]int, len(samples))
	for i, s := range samples {
		col[s] = i
	}

	recs := make(map[key]*calls)
	for _, v := range vars {
		if _, ok := col[v.Sample]; !ok {
			continue
		}
		pos, ref, alt, ok := vcfAllele(v)
		if !ok {
			continue
		}
		k := key{v.Molecule, pos, ref}
		c, ok := recs[k]
		if !ok {
			c = &calls{samples: make(map[string]string)}
			recs[k] = c
		}
		if !slices.Contains(c.alts, alt) {
			c.alts = append(c.alts, alt)
		}
		if _, ok := c.samples[v.Sample]; !ok {
			c.samples[v.Sample] = alt
		}
	}

	res := VCFTable{Samples: samples}
	for k, c := range recs {
		slices.Sort(c.alts)
		r := VCFRecord{
			Chrom:     k.chrom,
			Pos:       k.pos,
			Ref:       k.ref,
			Alts:      c.alts,
			Genotypes: make([]int, len(samples)),
		}
		for s, alt := range c.samples {
			r.Genotypes[col[s]] = slices.Index(c.alts, alt) + 1
		}
		res.Records = append(res.Records, r)
	}
	slices.SortFunc(res.Records, func(a, b VCFRecord) int {
		return cmp.Or(
			cmp.Compare(a.Chrom, b.Chrom),
			cmp.Compare(a.Pos, b.Pos),
			cmp.Compare(a.Ref, b.Ref),
		)
	})
	return res
}

// Write renders the table as VCF 4.2 with haploid genotypes.
func (t VCFTable) Write(w io.Writer) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, "##fileformat=VCFv4.2")
	fmt.Fprintln(bw, `##FORMAT=<ID=GT,Number=1,Type=String,Description="Genotype">`)
	head := []string{
		"#CHROM", "POS", "ID", "REF", "ALT", "QUAL", "FILTER", "INFO", "FORMAT",
	}
	fmt.Fprintln(bw, strings.Join(append(head, t.Samples...), "\t"))

	for _, r := range t.Records {
		fields := []string{
			r.Chrom, strconv.Itoa(r.Pos), ".", r.Ref, strings.Join(r.Alts, ","),
			".", ".", ".", "GT",
		}
		for _, g := range r.Genotypes {
			fields = append(fields, strconv.Itoa(g))
		}
		fmt.Fprintln(bw, strings.Join(fields, "\t"))
	}
	return bw.Flush()
}

// Result is the outcome of a request.
type Result struct {
	Mode Mode
	// Count is set in count mode, and to the number of matched samples in
	// rows and vcf modes.
	Count int
	Rows  []Row
	VCF   VCFTable
	// Columns and Records keep the result of sql mode as text.
	Columns []string
	Records [][]string
}
