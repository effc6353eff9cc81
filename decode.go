package fixedwidth

import (
	"log"
	"reflect"

	"github.com/pkg/errors"
)

// Unmarshal parses a fixed-width encoded record and stores the result in
// the value pointed to by v. If v is nil or not a pointer, Unmarshal returns
// an InvalidUnmarshalError.
//
// data must hold at least one full record; bytes after the record are
// ignored. If the record type implements Validator, Validate is called once
// all fields are decoded and its error is returned unchanged. On error the
// value pointed to by v is left untouched.
func Unmarshal(data []byte, v interface{}) error {
	return NewDecoder().Decode(data, v)
}

// UnmarshalWith is like Unmarshal but also sets the fields named in
// extras, which must not be part of the record layout.
func UnmarshalWith(data []byte, v interface{}, extras Values) error {
	return NewDecoder().DecodeWith(data, v, extras)
}

// UnmarshalValues parses a record laid out by s into Values.
func UnmarshalValues(s *Schema, data []byte) (Values, error) {
	return NewDecoder().DecodeValues(s, data, nil)
}

// A Decoder decodes fixed-width records.
type Decoder struct {
	allowShortInput bool
	logger          *log.Logger
}

// NewDecoder returns a new decoder.
func NewDecoder() *Decoder {
	return &Decoder{}
}

// SetAllowShortInput configures whether input shorter than the record is
// accepted. When it is, the trailing fields are decoded from whatever bytes
// remain, possibly none. By default a *ShortBufferError is returned.
func (d *Decoder) SetAllowShortInput(allow bool) {
	d.allowShortInput = allow
}

// SetLogger makes the decoder log every record it parses to l. A nil
// logger disables logging.
func (d *Decoder) SetLogger(l *log.Logger) {
	d.logger = l
}

// An InvalidUnmarshalError describes an invalid argument passed to Unmarshal.
// (The argument to Unmarshal must be a non-nil pointer.)
type InvalidUnmarshalError struct {
	Type reflect.Type
}

func (e *InvalidUnmarshalError) Error() string {
	if e.Type == nil {
		return "fixedwidth: Unmarshal(nil)"
	}

	if e.Type.Kind() != reflect.Ptr {
		return "fixedwidth: Unmarshal(non-pointer " + e.Type.String() + ")"
	}
	return "fixedwidth: Unmarshal(nil " + e.Type.String() + ")"
}

// An UnmarshalTypeError describes a value that was
// not appropriate for a value of a specific Go type.
type UnmarshalTypeError struct {
	Value  string       // the raw value
	Type   reflect.Type // type of Go value it could not be assigned to
	Struct string       // name of the record type containing the field
	Field  string       // name of the field holding the Go value
	Cause  error        // original error
}

func (e *UnmarshalTypeError) Error() string {
	var s string
	if e.Struct != "" || e.Field != "" {
		s = "fixedwidth: cannot unmarshal " + e.Value + " into record field " + e.Struct + "." + e.Field + " of type " + e.Type.String()
	} else {
		s = "fixedwidth: cannot unmarshal " + e.Value + " into Go value of type " + e.Type.String()
	}
	if e.Cause != nil {
		return s + ": " + e.Cause.Error()
	}
	return s
}

func (e *UnmarshalTypeError) Unwrap() error { return e.Cause }

// Decode parses the record in data into the value pointed to by v.
// See the documentation for Unmarshal for details about
// decoding behavior.
func (d *Decoder) Decode(data []byte, v interface{}) error {
	return d.DecodeWith(data, v, nil)
}

// DecodeWith is like Decode but also sets the fields named in extras.
func (d *Decoder) DecodeWith(data []byte, v interface{}, extras Values) error {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Ptr || rv.IsNil() {
		return &InvalidUnmarshalError{reflect.TypeOf(v)}
	}
	s, err := SchemaOf(rv.Type().Elem())
	if err != nil {
		return err
	}

	nv := reflect.New(s.typ).Elem()
	err = d.decodeRecord(s, data, func(f *FieldSpec, raw []byte) error {
		fv := nv.FieldByIndex(f.index)
		if !fv.CanSet() {
			// blank padding
			return nil
		}
		return f.decode(raw, fv)
	})
	if err != nil {
		return err
	}
	if err := setExtras(s, nv, extras); err != nil {
		return err
	}
	if val, ok := nv.Addr().Interface().(Validator); ok {
		if err := val.Validate(); err != nil {
			return err
		}
	}

	rv.Elem().Set(nv)
	d.logf("Parsed %q into %+v", data, v)
	return nil
}

// DecodeValues parses the record in data laid out by s. Padding fields are
// left out of the result. extras are added to the result and must not name
// a field of s.
func (d *Decoder) DecodeValues(s *Schema, data []byte, extras Values) (Values, error) {
	values := make(Values, len(s.fields)+len(extras))
	err := d.decodeRecord(s, data, func(f *FieldSpec, raw []byte) error {
		if f.typ == paddingType {
			return nil
		}
		v, err := f.DecodeValue(raw)
		if err != nil {
			return err
		}
		values[f.Name] = v
		return nil
	})
	if err != nil {
		return nil, err
	}
	for name, v := range extras {
		if _, ok := s.byName[name]; ok {
			return nil, errors.Errorf("fixedwidth: extra value %q is a field of %s", name, s.name)
		}
		values[name] = v
	}
	d.logf("Parsed %q into %v", data, values)
	return values, nil
}

// decodeRecord hands every field of s its slice of data.
func (d *Decoder) decodeRecord(s *Schema, data []byte, set func(f *FieldSpec, raw []byte) error) error {
	if len(data) < s.length && !d.allowShortInput {
		return &ShortBufferError{Record: s.name, Len: len(data), Want: s.length}
	}
	for i := range s.fields {
		f := &s.fields[i]
		start, end := s.offsets[i], s.offsets[i]+f.Length
		if end > len(data) {
			end = len(data)
		}
		if start > end {
			start = end
		}
		if err := set(f, data[start:end]); err != nil {
			if ute, ok := err.(*UnmarshalTypeError); ok {
				ute.Struct = s.name
			}
			return err
		}
	}
	return nil
}

// setExtras assigns extras to the fields of the struct v by Go field name.
func setExtras(s *Schema, v reflect.Value, extras Values) error {
	for name, x := range extras {
		if _, ok := s.byName[name]; ok {
			return errors.Errorf("fixedwidth: extra value %q is a field of %s", name, s.name)
		}
		fv := v.FieldByName(name)
		if !fv.IsValid() || !fv.CanSet() {
			return errors.Errorf("fixedwidth: %s has no settable field %q", s.name, name)
		}
		xv := reflect.ValueOf(x)
		switch {
		case !xv.IsValid():
			fv.Set(reflect.Zero(fv.Type()))
		case xv.Type().AssignableTo(fv.Type()):
			fv.Set(xv)
		case xv.Kind() == fv.Kind() && xv.Type().ConvertibleTo(fv.Type()):
			fv.Set(xv.Convert(fv.Type()))
		default:
			return errors.Errorf("fixedwidth: cannot use %s as %s for field %q of %s", xv.Type(), fv.Type(), name, s.name)
		}
	}
	return nil
}

func (d *Decoder) logf(format string, args ...interface{}) {
	if d.logger != nil {
		d.logger.Printf(format, args...)
	}
}
