package schema

import (
	"fmt"
	"reflect"
	"strings"
)

// generateDDL creates a CREATE TABLE statement from struct tags.
// Table-level constraints (composite keys) go after the columns.
func generateDDL(model any, tableName string, constraints ...string) string {
	v := reflect.ValueOf(model)
	if v.Kind() == reflect.Ptr {
		v = v.Elem()
	}
	t := v.Type()

	var columns []string

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		dbTag := field.Tag.Get("db")
		ddlTag := field.Tag.Get("ddl")

		if dbTag != "" && ddlTag != "" {
			columns = append(columns, fmt.Sprintf("    %s %s", dbTag, ddlTag))
		}
	}
	for _, c := range constraints {
		columns = append(columns, "    "+c)
	}

	ddl := fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (\n%s\n);",
		tableName,
		strings.Join(columns, ",\n"))

	return ddl
}

// Columns returns column names and values of a model in declaration
// order. Values are ready to be used as statement arguments.
func Columns(model any) ([]string, []any) {
	v := reflect.ValueOf(model)
	if v.Kind() == reflect.Ptr {
		v = v.Elem()
	}
	t := v.Type()

	var cols []string
	var vals []any
	for i := 0; i < t.NumField(); i++ {
		dbTag := t.Field(i).Tag.Get("db")
		if dbTag == "" {
			continue
		}
		cols = append(cols, dbTag)
		vals = append(vals, v.Field(i).Interface())
	}
	return cols, vals
}

// Reference DDL methods
func (r Reference) TableDDL() string {
	return generateDDL(r, r.TableName())
}

func (r Reference) IndexDDL() []string {
	return []string{}
}

func (r Reference) TableName() string {
	return "reference"
}

// Molecule DDL methods
func (m Molecule) TableDDL() string {
	return generateDDL(m, m.TableName())
}

func (m Molecule) IndexDDL() []string {
	return []string{
		"CREATE INDEX IF NOT EXISTS idx_molecule_reference ON molecule(reference_id);",
	}
}

func (m Molecule) TableName() string {
	return "molecule"
}

// Element DDL methods
func (e Element) TableDDL() string {
	return generateDDL(e, e.TableName())
}

func (e Element) IndexDDL() []string {
	return []string{
		"CREATE INDEX IF NOT EXISTS idx_element_molecule ON element(molecule_id);",
	}
}

func (e Element) TableName() string {
	return "element"
}

// ElementPart DDL methods
func (ep ElementPart) TableDDL() string {
	return generateDDL(ep, ep.TableName(), "PRIMARY KEY (element_id, ord)")
}

func (ep ElementPart) IndexDDL() []string {
	return []string{}
}

func (ep ElementPart) TableName() string {
	return "element_part"
}

// Sequence DDL methods
func (s Sequence) TableDDL() string {
	return generateDDL(s, s.TableName())
}

func (s Sequence) IndexDDL() []string {
	return []string{}
}

func (s Sequence) TableName() string {
	return "sequence"
}

// Sample DDL methods
func (s Sample) TableDDL() string {
	return generateDDL(s, s.TableName())
}

func (s Sample) IndexDDL() []string {
	return []string{
		"CREATE INDEX IF NOT EXISTS idx_sample_seqhash ON sample(seqhash);",
	}
}

func (s Sample) TableName() string {
	return "sample"
}

// Alignment DDL methods
func (a Alignment) TableDDL() string {
	return generateDDL(a, a.TableName(), "UNIQUE (seqhash, element_id)")
}

func (a Alignment) IndexDDL() []string {
	return []string{
		"CREATE INDEX IF NOT EXISTS idx_alignment_element ON alignment(element_id);",
	}
}

func (a Alignment) TableName() string {
	return "alignment"
}

// Variant DDL methods
func (v Variant) TableDDL() string {
	return generateDDL(v, v.TableName())
}

func (v Variant) IndexDDL() []string {
	return []string{
		"CREATE INDEX IF NOT EXISTS idx_variant_element_label ON variant(element_id, label);",
		"CREATE INDEX IF NOT EXISTS idx_variant_element_pos ON variant(element_id, pos_start);",
	}
}

func (v Variant) TableName() string {
	return "variant"
}

// Alignment2Variant DDL methods
func (av Alignment2Variant) TableDDL() string {
	return generateDDL(av, av.TableName(), "PRIMARY KEY (alignment_id, variant_id)")
}

func (av Alignment2Variant) IndexDDL() []string {
	return []string{
		"CREATE INDEX IF NOT EXISTS idx_alignment2variant_variant ON alignment2variant(variant_id);",
	}
}

func (av Alignment2Variant) TableName() string {
	return "alignment2variant"
}

// Property DDL methods
func (p Property) TableDDL() string {
	return generateDDL(p, p.TableName())
}

func (p Property) IndexDDL() []string {
	return []string{}
}

func (p Property) TableName() string {
	return "property"
}

// Sample2Property DDL methods
func (sp Sample2Property) TableDDL() string {
	return generateDDL(sp, sp.TableName(), "PRIMARY KEY (sample_id, property_id)")
}

func (sp Sample2Property) IndexDDL() []string {
	return []string{
		"CREATE INDEX IF NOT EXISTS idx_sample2property_property ON sample2property(property_id);",
	}
}

func (sp Sample2Property) TableName() string {
	return "sample2property"
}

// Lineage DDL methods
func (l Lineage) TableDDL() string {
	return generateDDL(l, l.TableName(), "PRIMARY KEY (lineage, sublineage)")
}

func (l Lineage) IndexDDL() []string {
	return []string{}
}

func (l Lineage) TableName() string {
	return "lineage"
}
