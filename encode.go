package fixedwidth

import (
	"log"
	"reflect"

	"github.com/pkg/errors"
)

// Marshal returns the fixed-width encoding of v.
//
// v must be a struct or a pointer to a struct. Each field tagged with
// `fixed:"{length},..."` is encoded and the results are concatenated in
// field order. Fields without a tag are ignored.
//
// Strings, integers, floats, bools, time.Time, Padding, pointers to these
// and types implementing Marshaler or encoding.TextMarshaler are
// encodable. nil pointers encode as an empty field.
//
// If the encoded value of a field is longer than its length, Marshal fails
// with an *OverflowError and returns no data.
func Marshal(v interface{}) ([]byte, error) {
	return NewEncoder().Encode(v)
}

// MarshalValues returns the fixed-width encoding of values laid out by s.
func MarshalValues(s *Schema, values Values) ([]byte, error) {
	return NewEncoder().EncodeValues(s, values)
}

// MarshalInvalidTypeError describes an invalid type being marshaled.
type MarshalInvalidTypeError struct {
	typeName string
}

func (e *MarshalInvalidTypeError) Error() string {
	return "fixedwidth: cannot marshal unknown Type " + e.typeName
}

// An Encoder encodes records into fixed-width byte buffers.
type Encoder struct {
	logger *log.Logger
}

// NewEncoder returns a new encoder.
func NewEncoder() *Encoder {
	return &Encoder{}
}

// SetLogger makes the encoder log every record it formats to l. A nil
// logger disables logging.
func (e *Encoder) SetLogger(l *log.Logger) {
	e.logger = l
}

// Encode returns the fixed-width encoding of v.
// See the documentation for Marshal for details about
// encoding behavior.
func (e *Encoder) Encode(v interface{}) ([]byte, error) {
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Ptr || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return nil, &MarshalInvalidTypeError{typeName: "nil " + rv.Type().String()}
		}
		rv = rv.Elem()
	}
	if !rv.IsValid() {
		return nil, &MarshalInvalidTypeError{typeName: "nil"}
	}
	s, err := SchemaOf(rv.Type())
	if err != nil {
		return nil, err
	}
	if !rv.CanAddr() {
		// addressable, so pointer receiver marshalers are found
		p := reflect.New(rv.Type()).Elem()
		p.Set(rv)
		rv = p
	}

	data, err := encodeRecord(s, func(f *FieldSpec) (reflect.Value, error) {
		return rv.FieldByIndex(f.index), nil
	})
	if err != nil {
		return nil, err
	}
	e.logf("Formatted %+v into %q", v, data)
	return data, nil
}

// EncodeValues returns the fixed-width encoding of values laid out by s.
// Every field of s must have an entry in values; a nil entry encodes as
// an empty field.
func (e *Encoder) EncodeValues(s *Schema, values Values) ([]byte, error) {
	data, err := encodeRecord(s, func(f *FieldSpec) (reflect.Value, error) {
		v, ok := values[f.Name]
		if !ok && f.typ != paddingType {
			return reflect.Value{}, errors.Errorf("fixedwidth: missing value for field %q of %s", f.Name, s.name)
		}
		return reflect.ValueOf(v), nil
	})
	if err != nil {
		return nil, err
	}
	e.logf("Formatted %v into %q", values, data)
	return data, nil
}

func (e *Encoder) logf(format string, args ...interface{}) {
	if e.logger != nil {
		e.logger.Printf(format, args...)
	}
}

// encodeRecord concatenates the encoded fields of s in order. value
// returns the value of one field. On error no data is returned.
func encodeRecord(s *Schema, value func(f *FieldSpec) (reflect.Value, error)) ([]byte, error) {
	data := make([]byte, s.length)
	for i := range s.fields {
		f := &s.fields[i]
		v, err := value(f)
		if err != nil {
			return nil, err
		}
		off := s.offsets[i]
		if err := f.encode(v, data[off:off+f.Length:off+f.Length]); err != nil {
			return nil, err
		}
	}
	return data, nil
}
