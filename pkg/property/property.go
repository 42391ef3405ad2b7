// Package property describes typed sample properties and the lineage index
// used by property filters.
package property

import (
	"slices"
	"strconv"
	"strings"
	"time"
)

// DataType is the storage type of a property value.
type DataType string

const (
	Integer DataType = "integer"
	Float   DataType = "float"
	Text    DataType = "text"
	Date    DataType = "date"
	Zip     DataType = "zip"
	Pango   DataType = "pango"
)

// QueryType selects the condition builder of a property filter.
type QueryType string

const (
	QueryNumeric QueryType = "numeric"
	QueryFloat   QueryType = "float"
	QueryDate    QueryType = "date"
	QueryText    QueryType = "text"
	QueryZip     QueryType = "zip"
	QueryPango   QueryType = "pango"
)

// DateLayout is the only accepted date format.
const DateLayout = "2006-01-02"

// LengthName is the property filled automatically with the length of an
// imported sequence when the schema declares it.
const LengthName = "LENGTH"

// Property is a declared sample attribute.
type Property struct {
	ID          int       `yaml:"id"`
	Name        string    `yaml:"name"`
	DataType    DataType  `yaml:"datatype"`
	QueryType   QueryType `yaml:"querytype"`
	Description string    `yaml:"description"`
}

// Column returns the name of the value column used to store the property.
func (p *Property) Column() string {
	switch p.DataType {
	case Integer:
		return "value_integer"
	case Float:
		return "value_float"
	case Date:
		return "value_date"
	default:
		return "value_text"
	}
}

// Value is a typed property value of a sample.
type Value struct {
	PropertyID int
	Name       string
	Integer    *int64
	Float      *float64
	// Text keeps text, zip and pango values, Date keeps YYYY-MM-DD.
	Text *string
	Date *string
}

// Any returns the value stored in the typed field.
func (v Value) Any() any {
	switch {
	case v.Integer != nil:
		return *v.Integer
	case v.Float != nil:
		return *v.Float
	case v.Date != nil:
		return *v.Date
	case v.Text != nil:
		return *v.Text
	default:
		return nil
	}
}

// Parse converts a raw value into a typed value of the property.
func (p *Property) Parse(raw string) (Value, error) {
	raw = strings.TrimSpace(raw)
	res := Value{PropertyID: p.ID, Name: p.Name}
	switch p.DataType {
	case Integer:
		i, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return res, ValueError(p.Name, raw, err)
		}
		res.Integer = &i
	case Float:
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return res, ValueError(p.Name, raw, err)
		}
		res.Float = &f
	case Date:
		if _, err := time.Parse(DateLayout, raw); err != nil {
			return res, ValueError(p.Name, raw, err)
		}
		res.Date = &raw
	case Zip:
		if raw == "" || strings.TrimFunc(raw, isDigit) != "" {
			return res, ValueError(p.Name, raw, nil)
		}
		res.Text = &raw
	default:
		res.Text = &raw
	}
	return res, nil
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

// Schema is the read-only set of declared properties.
type Schema struct {
	props []*Property
	index map[string]*Property
}

// NewSchema validates property declarations and indexes them by name.
// Missing query types are derived from data types, missing ids continue
// after the largest given id.
func NewSchema(props ...*Property) (*Schema, error) {
	res := &Schema{index: make(map[string]*Property)}
	var maxID int
	for _, p := range props {
		maxID = max(maxID, p.ID)
	}
	for _, p := range props {
		p.Name = strings.TrimSpace(p.Name)
		if p.Name == "" {
			return nil, SchemaError("", "property name cannot be empty")
		}
		if !slices.Contains(dataTypes, p.DataType) {
			return nil, SchemaError(p.Name, "unknown data type "+string(p.DataType))
		}
		if p.QueryType == "" {
			p.QueryType = defaultQueryType[p.DataType]
		}
		if !slices.Contains(queryTypes, p.QueryType) {
			return nil, SchemaError(p.Name, "unknown query type "+string(p.QueryType))
		}
		if p.ID == 0 {
			maxID++
			p.ID = maxID
		}
		key := strings.ToUpper(p.Name)
		if _, ok := res.index[key]; ok {
			return nil, SchemaError(p.Name, "duplicate property")
		}
		res.index[key] = p
		res.props = append(res.props, p)
	}
	return res, nil
}

var dataTypes = []DataType{Integer, Float, Text, Date, Zip, Pango}

var queryTypes = []QueryType{
	QueryNumeric, QueryFloat, QueryDate, QueryText, QueryZip, QueryPango,
}

var defaultQueryType = map[DataType]QueryType{
	Integer: QueryNumeric,
	Float:   QueryFloat,
	Text:    QueryText,
	Date:    QueryDate,
	Zip:     QueryZip,
	Pango:   QueryPango,
}

// Get finds a property by case-insensitive name.
func (s *Schema) Get(name string) (*Property, bool) {
	p, ok := s.index[strings.ToUpper(strings.TrimSpace(name))]
	return p, ok
}

// All returns properties in declaration order.
func (s *Schema) All() []*Property {
	return s.props
}

// ParseValues converts raw values by property name into typed values
// sorted by property id.
func (s *Schema) ParseValues(raw map[string]string) ([]Value, error) {
	res := make([]Value, 0, len(raw))
	for name, val := range raw {
		p, ok := s.Get(name)
		if !ok {
			return nil, UnknownError(name)
		}
		v, err := p.Parse(val)
		if err != nil {
			return nil, err
		}
		res = append(res, v)
	}
	slices.SortFunc(res, func(a, b Value) int {
		return a.PropertyID - b.PropertyID
	})
	return res, nil
}
