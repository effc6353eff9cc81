package fixedwidth

import (
	"reflect"
	"sort"
	"strconv"
	"sync"
)

// A Schema is the ordered, immutable layout of one record type. It is safe
// for concurrent use.
type Schema struct {
	name    string
	typ     reflect.Type // nil for map-valued records
	fields  []FieldSpec
	offsets []int
	byName  map[string]int
	length  int
}

// NewSchema builds the schema of a map-valued record from its field
// declarations. Fields without an explicit Order keep their position in
// the argument list.
func NewSchema(name string, fields ...FieldSpec) (*Schema, error) {
	specs := make([]FieldSpec, len(fields))
	copy(specs, fields)
	return newSchema(name, nil, specs, make([]reflect.Type, len(specs)))
}

// SchemaOf returns the schema of the struct type of v. v may be a struct,
// a pointer to a struct or a reflect.Type. A schema is built once per type
// and cached; a type whose schema failed to build is built again on the
// next call.
func SchemaOf(v interface{}) (*Schema, error) {
	t, ok := v.(reflect.Type)
	if !ok {
		t = reflect.TypeOf(v)
	}
	if t == nil {
		return nil, &MarshalInvalidTypeError{typeName: "nil"}
	}
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil, &MarshalInvalidTypeError{typeName: t.String()}
	}
	return cachedSchema(t)
}

type schemaEntry struct {
	once   sync.Once
	schema *Schema
	err    error
}

var schemaCache sync.Map // map[reflect.Type]*schemaEntry

// cachedSchema is like buildStructSchema but keeps the schema of every
// type it built successfully. Failed builds are retried on the next call.
func cachedSchema(t reflect.Type) (*Schema, error) {
	e, _ := schemaCache.LoadOrStore(t, new(schemaEntry))
	entry := e.(*schemaEntry)
	entry.once.Do(func() {
		entry.schema, entry.err = buildStructSchema(t)
		if entry.err != nil {
			schemaCache.Delete(t)
		}
	})
	return entry.schema, entry.err
}

func buildStructSchema(t reflect.Type) (*Schema, error) {
	var (
		specs []FieldSpec
		types []reflect.Type
	)
	if err := collectFields(t, t, nil, &specs, &types); err != nil {
		return nil, err
	}
	return newSchema(t.String(), t, specs, types)
}

// collectFields appends the tagged fields of t, and of the structs it
// embeds, in declaration order.
func collectFields(root, t reflect.Type, index []int, specs *[]FieldSpec, types *[]reflect.Type) error {
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		idx := make([]int, len(index)+1)
		copy(idx, index)
		idx[len(index)] = i

		tag, tagged := sf.Tag.Lookup(tagName)
		if sf.Anonymous && !tagged {
			switch {
			case sf.Type.Kind() == reflect.Struct:
				if err := collectFields(root, sf.Type, idx, specs, types); err != nil {
					return err
				}
			case sf.Type.Kind() == reflect.Ptr && sf.Type.Elem().Kind() == reflect.Struct:
				return &ConfigError{Record: root.String(), Field: sf.Name, Reason: "embedded struct pointers are not supported"}
			}
			continue
		}
		if !tagged {
			continue
		}

		f := FieldSpec{Name: sf.Name, Fill: defaultFill, Encoding: defaultEncoding, index: idx}
		if err := parseTag(tag, &f); err != nil {
			return &ConfigError{Record: root.String(), Field: sf.Name, Reason: "invalid tag", Cause: err}
		}
		if !sf.IsExported() && sf.Type != paddingType && !f.Excluded {
			return &ConfigError{Record: root.String(), Field: sf.Name, Reason: "field is not exported"}
		}
		*specs = append(*specs, f)
		*types = append(*types, sf.Type)
	}
	return nil
}

// newSchema resolves specs, drops excluded fields and sorts the rest by
// order. types holds the Go type of each spec, or nil entries for
// map-valued records.
func newSchema(name string, typ reflect.Type, specs []FieldSpec, types []reflect.Type) (*Schema, error) {
	s := &Schema{
		name:   name,
		typ:    typ,
		byName: make(map[string]int, len(specs)),
	}

	orders := make(map[int]string, len(specs))
	for i := range specs {
		f := specs[i].clone()
		if f.Excluded {
			continue
		}
		if !f.explicitOrder {
			f.Order = i
		}
		if other, ok := orders[f.Order]; ok {
			return nil, &ConfigError{Record: name, Field: f.Name, Reason: "order " + strconv.Itoa(f.Order) + " is already used by " + other}
		}
		orders[f.Order] = f.Name
		if err := f.resolve(types[i]); err != nil {
			return nil, &ConfigError{Record: name, Field: f.Name, Reason: "invalid field", Cause: err}
		}
		s.fields = append(s.fields, f)
	}

	sort.SliceStable(s.fields, func(i, j int) bool {
		return s.fields[i].Order < s.fields[j].Order
	})

	s.offsets = make([]int, len(s.fields))
	for i, f := range s.fields {
		s.offsets[i] = s.length
		s.length += f.Length
		if f.Name == "_" {
			continue
		}
		if f.Name == "" {
			return nil, &ConfigError{Record: name, Reason: "field " + strconv.Itoa(i) + " has no name"}
		}
		if _, ok := s.byName[f.Name]; ok {
			return nil, &ConfigError{Record: name, Field: f.Name, Reason: "duplicate field name"}
		}
		s.byName[f.Name] = i
	}
	return s, nil
}

// Name returns the name of the record type.
func (s *Schema) Name() string { return s.name }

// Type returns the struct type of the schema, or nil if it describes
// map-valued records.
func (s *Schema) Type() reflect.Type { return s.typ }

// Len returns the length of a record in bytes.
func (s *Schema) Len() int { return s.length }

// Fields returns the fields of the record in wire order.
func (s *Schema) Fields() []FieldSpec {
	fields := make([]FieldSpec, len(s.fields))
	for i, f := range s.fields {
		fields[i] = f.clone()
	}
	return fields
}

// Field returns the field called name.
func (s *Schema) Field(name string) (FieldSpec, bool) {
	i, ok := s.byName[name]
	if !ok {
		return FieldSpec{}, false
	}
	return s.fields[i].clone(), true
}

// Offset returns the byte offset of the field called name.
func (s *Schema) Offset(name string) (int, bool) {
	i, ok := s.byName[name]
	if !ok {
		return 0, false
	}
	return s.offsets[i], true
}
