// Package layout reads record layouts from YAML or JSON documents.
//
// A layout document names a record type and lists its fields in wire order:
//
//	name: payment
//	fields:
//	  - name: account
//	    length: 12
//	  - name: amount
//	    length: 10
//	    type: int
//	    justify: right
//	    fill: "0"
//	  - name: filler
//	    length: 8
//	    type: padding
package layout

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/lasuillard-s/go-fixedwidth"
)

// Document is the serialized form of a record layout.
type Document struct {
	Name   string  `yaml:"name" json:"name"`
	Fields []Field `yaml:"fields" json:"fields"`
}

// Field is the serialized form of one field. Empty values select the
// defaults of fixedwidth.Field.
type Field struct {
	Name      string `yaml:"name" json:"name"`
	Length    int    `yaml:"length" json:"length"`
	Order     *int   `yaml:"order,omitempty" json:"order,omitempty"`
	Justify   string `yaml:"justify,omitempty" json:"justify,omitempty"`
	Fill      string `yaml:"fill,omitempty" json:"fill,omitempty"`
	Encoding  string `yaml:"encoding,omitempty" json:"encoding,omitempty"`
	Type      string `yaml:"type,omitempty" json:"type,omitempty"`
	Layout    string `yaml:"layout,omitempty" json:"layout,omitempty"`
	Precision *int   `yaml:"precision,omitempty" json:"precision,omitempty"`
	Converter string `yaml:"converter,omitempty" json:"converter,omitempty"`
	Excluded  bool   `yaml:"excluded,omitempty" json:"excluded,omitempty"`
}

// ParseYAML parses a YAML layout document. Unknown keys are rejected.
func ParseYAML(data []byte) (*Document, error) {
	var doc Document
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, errors.Wrap(err, "layout: failed to parse yaml")
	}
	return &doc, nil
}

// ParseJSON parses a JSON layout document. Unknown keys are rejected.
func ParseJSON(data []byte) (*Document, error) {
	var doc Document
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&doc); err != nil {
		return nil, errors.Wrap(err, "layout: failed to parse json")
	}
	return &doc, nil
}

// Load reads the layout document at path and builds its schema. Files
// ending in .json are parsed as JSON, everything else as YAML.
func Load(path string) (*fixedwidth.Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "layout: failed to read layout file")
	}

	var doc *Document
	if strings.EqualFold(filepath.Ext(path), ".json") {
		doc, err = ParseJSON(data)
	} else {
		doc, err = ParseYAML(data)
	}
	if err != nil {
		return nil, err
	}
	if doc.Name == "" {
		doc.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return doc.Schema()
}

// Schema builds the schema described by d.
func (d *Document) Schema() (*fixedwidth.Schema, error) {
	specs := make([]fixedwidth.FieldSpec, 0, len(d.Fields))
	for i, f := range d.Fields {
		opts, err := f.options()
		if err != nil {
			return nil, errors.Wrapf(err, "layout: %s field %d (%s)", d.Name, i, f.Name)
		}
		specs = append(specs, fixedwidth.Field(f.Name, f.Length, opts...))
	}
	return fixedwidth.NewSchema(d.Name, specs...)
}

func (f Field) options() ([]fixedwidth.FieldOption, error) {
	var opts []fixedwidth.FieldOption

	kind, ok := fixedwidth.ParseKind(f.Type)
	if !ok {
		return nil, errors.Errorf("unknown type %q", f.Type)
	}
	opts = append(opts, fixedwidth.As(kind))

	j, ok := fixedwidth.ParseJustify(f.Justify)
	if !ok {
		return nil, errors.Errorf("unknown justify %q", f.Justify)
	}
	opts = append(opts, fixedwidth.JustifyTo(j))

	if f.Fill != "" {
		c, err := fixedwidth.ParseFill(f.Fill)
		if err != nil {
			return nil, err
		}
		opts = append(opts, fixedwidth.Fill(c))
	}
	if f.Order != nil {
		opts = append(opts, fixedwidth.Order(*f.Order))
	}
	if f.Encoding != "" {
		opts = append(opts, fixedwidth.Encoding(f.Encoding))
	}
	if f.Layout != "" {
		opts = append(opts, fixedwidth.Layout(f.Layout))
	}
	if f.Precision != nil {
		opts = append(opts, fixedwidth.Precision(*f.Precision))
	}
	if f.Converter != "" {
		opts = append(opts, fixedwidth.Convert(f.Converter))
	}
	if f.Excluded {
		opts = append(opts, fixedwidth.Exclude())
	}
	return opts, nil
}

// FromSchema returns the document describing s. Fields come out in wire
// order with their orders made explicit.
func FromSchema(s *fixedwidth.Schema) *Document {
	doc := &Document{Name: s.Name()}
	for _, spec := range s.Fields() {
		order := spec.Order
		f := Field{
			Name:      spec.Name,
			Length:    spec.Length,
			Order:     &order,
			Justify:   spec.Justify.String(),
			Fill:      formatFill(spec.Fill),
			Encoding:  spec.Encoding,
			Type:      spec.Kind.String(),
			Layout:    spec.Layout,
			Precision: spec.Precision,
			Converter: spec.Converter,
		}
		doc.Fields = append(doc.Fields, f)
	}
	return doc
}

func formatFill(c byte) string {
	if c >= ' ' && c < 0x7f {
		return string(rune(c))
	}
	return fmt.Sprintf("0x%02X", c)
}
