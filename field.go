package fixedwidth

import (
	"reflect"
	"time"

	"github.com/pkg/errors"
)

// FieldSpec describes the byte layout of one field and how its value is
// converted to and from text.
//
// A FieldSpec returned by a Schema is resolved and must not be modified.
type FieldSpec struct {
	Name     string
	Length   int
	Order    int
	Justify  Justify
	Fill     byte
	Encoding string

	// Kind is the conversion strategy of map-valued records. For struct
	// fields it is derived from the Go type and only informative.
	Kind      Kind
	Layout    string // time layout, time.RFC3339Nano when empty
	Precision *int   // float precision, shortest representation when nil
	Converter string // name of a registered Converter
	Excluded  bool

	explicitOrder bool
	index         []int        // struct field index, nil for map-valued records
	typ           reflect.Type // type decoded values have
	conv          converter
	text          textEncoding
}

// A FieldOption customizes a FieldSpec built by Field.
type FieldOption func(*FieldSpec)

// Field declares a field of length bytes. Without an Order option the
// field is placed after the fields declared before it.
func Field(name string, length int, opts ...FieldOption) FieldSpec {
	f := FieldSpec{
		Name:     name,
		Length:   length,
		Fill:     defaultFill,
		Encoding: defaultEncoding,
	}
	for _, opt := range opts {
		opt(&f)
	}
	return f
}

// PaddingField declares a field that only holds fill bytes.
func PaddingField(name string, length int, opts ...FieldOption) FieldSpec {
	return Field(name, length, append([]FieldOption{As(KindPadding)}, opts...)...)
}

// Order sets the position of the field among the fields of its record.
func Order(n int) FieldOption {
	return func(f *FieldSpec) {
		f.Order = n
		f.explicitOrder = true
	}
}

// JustifyTo sets the justification of the field.
func JustifyTo(j Justify) FieldOption {
	return func(f *FieldSpec) { f.Justify = j }
}

// Fill sets the byte used to pad the field.
func Fill(c byte) FieldOption {
	return func(f *FieldSpec) { f.Fill = c }
}

// Encoding sets the IANA name of the character set of the field.
func Encoding(name string) FieldOption {
	return func(f *FieldSpec) { f.Encoding = name }
}

// As sets the value kind of the field.
func As(k Kind) FieldOption {
	return func(f *FieldSpec) { f.Kind = k }
}

// Layout sets the time layout of a KindTime field.
func Layout(layout string) FieldOption {
	return func(f *FieldSpec) { f.Layout = layout }
}

// Precision sets the number of decimals of a float field.
func Precision(n int) FieldOption {
	return func(f *FieldSpec) { f.Precision = &n }
}

// Convert makes the field use the Converter registered under name.
func Convert(name string) FieldOption {
	return func(f *FieldSpec) {
		f.Kind = KindCustom
		f.Converter = name
	}
}

// Exclude removes the field from the record layout.
func Exclude() FieldOption {
	return func(f *FieldSpec) { f.Excluded = true }
}

// clone returns a copy of f that shares no memory a caller can modify.
func (f FieldSpec) clone() FieldSpec {
	if f.Precision != nil {
		p := *f.Precision
		f.Precision = &p
	}
	return f
}

func (f *FieldSpec) layout() string {
	if f.Layout == "" {
		return time.RFC3339Nano
	}
	return f.Layout
}

func (f *FieldSpec) prec() int {
	if f.Precision == nil {
		return -1
	}
	return *f.Precision
}

// resolve validates f and binds its converter and text encoding. t is the
// Go type of the struct field, or nil for map-valued records.
func (f *FieldSpec) resolve(t reflect.Type) error {
	if f.Length <= 0 {
		return errors.Errorf("length must be positive, have %d", f.Length)
	}
	if !f.Justify.Valid() {
		return errors.Errorf("invalid justify %d", f.Justify)
	}
	text, err := lookupEncoding(f.Encoding)
	if err != nil {
		return err
	}
	f.text = text

	if t != nil {
		f.typ = t
		if f.Converter == "" {
			f.Kind = kindOf(t)
		}
		f.conv, err = newTypeConverter(t, f)
	} else {
		f.typ = f.Kind.goType()
		f.conv, err = newKindConverter(f)
	}
	return err
}

// EncodeValue returns the padded, exactly Length bytes long encoding of v.
func (f *FieldSpec) EncodeValue(v interface{}) ([]byte, error) {
	rv := reflect.ValueOf(v)
	if rv.IsValid() {
		// addressable, so pointer receiver marshalers are found
		p := reflect.New(rv.Type()).Elem()
		p.Set(rv)
		rv = p
	}
	b := make([]byte, f.Length)
	if err := f.encode(rv, b); err != nil {
		return nil, err
	}
	return b, nil
}

// DecodeValue converts raw back into a value of the field's type.
func (f *FieldSpec) DecodeValue(raw []byte) (interface{}, error) {
	v := reflect.New(f.typ).Elem()
	if err := f.decode(raw, v); err != nil {
		return nil, err
	}
	return v.Interface(), nil
}

// encode writes the encoding of v into dst, which is Length bytes long.
// An invalid v (nil interface) encodes as an empty field.
func (f *FieldSpec) encode(v reflect.Value, dst []byte) error {
	if f.conv == nil {
		return errors.Errorf("fixedwidth: field %q is not part of a schema", f.Name)
	}
	var s string
	if v.IsValid() {
		var err error
		for v.Kind() == reflect.Interface && !v.IsNil() {
			v = v.Elem()
		}
		if s, err = f.conv.format(v); err != nil {
			return errors.Wrapf(err, "fixedwidth: cannot format field %q", f.Name)
		}
	}
	b, err := f.text.encode(s)
	if err != nil {
		return errors.Wrapf(err, "fixedwidth: field %q", f.Name)
	}
	if len(b) > f.Length {
		return &OverflowError{Field: f.Name, Value: s, Len: len(b), Length: f.Length}
	}
	f.Justify.writer()(b, dst, f.Fill)
	return nil
}

// decode parses raw into v, which must be settable and of type f.typ.
func (f *FieldSpec) decode(raw []byte, v reflect.Value) error {
	if f.conv == nil {
		return errors.Errorf("fixedwidth: field %q is not part of a schema", f.Name)
	}
	if f.typ == paddingType {
		return nil
	}
	s, err := f.text.decode(raw)
	if err == nil {
		err = f.conv.parse(s, v)
	}
	if err != nil {
		return &UnmarshalTypeError{Value: string(raw), Type: f.typ, Field: f.Name, Cause: err}
	}
	return nil
}
