package fixedwidth

import (
	"encoding"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
)

// Kind selects the value conversion strategy of a field that is not backed
// by a Go struct field.
type Kind int

const (
	KindString Kind = iota
	KindInt
	KindUint
	KindFloat
	KindBool
	KindTime
	KindPadding
	// KindCustom fields are converted by a named Converter.
	KindCustom
)

var kindNames = map[Kind]string{
	KindString:  "string",
	KindInt:     "int",
	KindUint:    "uint",
	KindFloat:   "float",
	KindBool:    "bool",
	KindTime:    "time",
	KindPadding: "padding",
	KindCustom:  "custom",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "Kind(" + strconv.Itoa(int(k)) + ")"
}

// ParseKind returns the Kind named s. The empty string is KindString.
func ParseKind(s string) (Kind, bool) {
	if s == "" {
		return KindString, true
	}
	for k, name := range kindNames {
		if strings.EqualFold(name, s) {
			return k, true
		}
	}
	return KindString, false
}

// Padding is a field type that holds no value. It encodes as a field full
// of fill bytes and ignores whatever it is decoded from, so two records that
// differ only in padding content compare equal.
type Padding struct{}

var (
	paddingType         = reflect.TypeOf(Padding{})
	timeType            = reflect.TypeOf(time.Time{})
	marshalerType       = reflect.TypeOf(new(Marshaler)).Elem()
	unmarshalerType     = reflect.TypeOf(new(Unmarshaler)).Elem()
	textMarshalerType   = reflect.TypeOf(new(encoding.TextMarshaler)).Elem()
	textUnmarshalerType = reflect.TypeOf(new(encoding.TextUnmarshaler)).Elem()
	emptyInterfaceType  = reflect.TypeOf(new(interface{})).Elem()
)

// goType is the Go type a value of kind k is decoded into.
func (k Kind) goType() reflect.Type {
	switch k {
	case KindInt:
		return reflect.TypeOf(int64(0))
	case KindUint:
		return reflect.TypeOf(uint64(0))
	case KindFloat:
		return reflect.TypeOf(float64(0))
	case KindBool:
		return reflect.TypeOf(false)
	case KindTime:
		return timeType
	case KindPadding:
		return paddingType
	case KindCustom:
		return emptyInterfaceType
	default:
		return reflect.TypeOf("")
	}
}

// kindOf returns the Kind closest to the struct field type t. Types with
// their own marshaling methods report the kind they are built on.
func kindOf(t reflect.Type) Kind {
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	switch {
	case t == paddingType:
		return KindPadding
	case t == timeType:
		return KindTime
	}
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return KindInt
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return KindUint
	case reflect.Float32, reflect.Float64:
		return KindFloat
	case reflect.Bool:
		return KindBool
	}
	return KindString
}

// A Converter converts field values to and from their text form. It is
// used for fields declared with a converter name, see RegisterConverter.
type Converter interface {
	Format(v interface{}) (string, error)
	Parse(text string) (interface{}, error)
}

// ConverterFuncs adapts a pair of functions to the Converter interface.
type ConverterFuncs struct {
	FormatFunc func(v interface{}) (string, error)
	ParseFunc  func(text string) (interface{}, error)
}

func (c ConverterFuncs) Format(v interface{}) (string, error) { return c.FormatFunc(v) }

func (c ConverterFuncs) Parse(text string) (interface{}, error) { return c.ParseFunc(text) }

var converters = struct {
	sync.RWMutex
	m map[string]Converter
}{m: make(map[string]Converter)}

// RegisterConverter makes a Converter available under name for the
// conv=name struct tag option and the Convert field option. It is meant to
// be called from init functions. Converters are bound when a schema is
// built: registering a name twice replaces the previous converter for
// schemas built afterwards, and a struct type whose schema failed on an
// unknown name builds once the name is registered.
func RegisterConverter(name string, c Converter) {
	if c == nil {
		panic("fixedwidth: RegisterConverter converter is nil")
	}
	converters.Lock()
	converters.m[name] = c
	converters.Unlock()
}

func lookupConverter(name string) (Converter, bool) {
	converters.RLock()
	defer converters.RUnlock()
	c, ok := converters.m[name]
	return c, ok
}

// converter is the value<->text strategy of one field.
type converter interface {
	format(v reflect.Value) (string, error)
	parse(s string, v reflect.Value) error
}

type textConv struct{}

func (textConv) format(v reflect.Value) (string, error) {
	if v.Kind() == reflect.String {
		return v.String(), nil
	}
	return fmt.Sprint(v.Interface()), nil
}

func (textConv) parse(s string, v reflect.Value) error {
	v.SetString(strings.TrimSpace(s))
	return nil
}

// numericConv formats values as numbers of its kind, whatever their Go
// type.
type numericConv struct {
	kind Kind // KindInt, KindUint or KindFloat
	prec int
	bits int // bit size of float output
}

func (c numericConv) format(v reflect.Value) (string, error) {
	if v.Kind() == reflect.String && strings.TrimSpace(v.String()) == "" {
		return "", nil
	}
	switch c.kind {
	case KindInt:
		i, err := toInt(v)
		if err != nil {
			return "", err
		}
		return strconv.FormatInt(i, 10), nil
	case KindUint:
		u, err := toUint(v)
		if err != nil {
			return "", err
		}
		return strconv.FormatUint(u, 10), nil
	}
	f, err := toFloat(v)
	if err != nil {
		return "", err
	}
	return strconv.FormatFloat(f, 'f', c.prec, c.bits), nil
}

// toInt converts integers, integral floats and numeric strings such as
// json.Number to an int64.
func toInt(v reflect.Value) (int64, error) {
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int(), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		if u := v.Uint(); u <= math.MaxInt64 {
			return int64(u), nil
		}
		return 0, errors.Errorf("%d overflows int64", v.Uint())
	case reflect.Float32, reflect.Float64:
		return floatToInt(v.Float())
	case reflect.String:
		s := strings.TrimSpace(v.String())
		if i, err := strconv.ParseInt(s, 10, 64); err == nil {
			return i, nil
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, errors.Errorf("%q is not an integer", s)
		}
		return floatToInt(f)
	}
	return 0, errors.Errorf("cannot format %s as an integer", v.Type())
}

func floatToInt(f float64) (int64, error) {
	if f != math.Trunc(f) || f < -(1<<63) || f >= 1<<63 {
		return 0, errors.Errorf("%v is not an int64", f)
	}
	return int64(f), nil
}

func toUint(v reflect.Value) (uint64, error) {
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if i := v.Int(); i >= 0 {
			return uint64(i), nil
		}
		return 0, errors.Errorf("%d is negative", v.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return v.Uint(), nil
	case reflect.Float32, reflect.Float64:
		return floatToUint(v.Float())
	case reflect.String:
		s := strings.TrimSpace(v.String())
		if u, err := strconv.ParseUint(s, 10, 64); err == nil {
			return u, nil
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, errors.Errorf("%q is not an unsigned integer", s)
		}
		return floatToUint(f)
	}
	return 0, errors.Errorf("cannot format %s as an unsigned integer", v.Type())
}

func floatToUint(f float64) (uint64, error) {
	if f != math.Trunc(f) || f < 0 || f >= 1<<64 {
		return 0, errors.Errorf("%v is not a uint64", f)
	}
	return uint64(f), nil
}

func toFloat(v reflect.Value) (float64, error) {
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(v.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(v.Uint()), nil
	case reflect.Float32, reflect.Float64:
		return v.Float(), nil
	case reflect.String:
		s := strings.TrimSpace(v.String())
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, errors.Errorf("%q is not a number", s)
		}
		return f, nil
	}
	return 0, errors.Errorf("cannot format %s as a number", v.Type())
}

func (c numericConv) parse(s string, v reflect.Value) error {
	s = strings.TrimSpace(s)
	if s == "" {
		v.Set(reflect.Zero(v.Type()))
		return nil
	}
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		i, err := strconv.ParseInt(s, 10, v.Type().Bits())
		if err != nil {
			return err
		}
		v.SetInt(i)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		u, err := strconv.ParseUint(s, 10, v.Type().Bits())
		if err != nil {
			return err
		}
		v.SetUint(u)
	case reflect.Float32, reflect.Float64:
		f, err := strconv.ParseFloat(s, v.Type().Bits())
		if err != nil {
			return err
		}
		v.SetFloat(f)
	default:
		return errors.Errorf("cannot parse a number into %s", v.Type())
	}
	return nil
}

type boolConv struct{}

func (boolConv) format(v reflect.Value) (string, error) {
	if v.Kind() == reflect.Bool {
		return strconv.FormatBool(v.Bool()), nil
	}
	return fmt.Sprint(v.Interface()), nil
}

func (boolConv) parse(s string, v reflect.Value) error {
	s = strings.TrimSpace(s)
	if s == "" {
		v.SetBool(false)
		return nil
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		return err
	}
	v.SetBool(b)
	return nil
}

type timeConv struct {
	layout string
}

func (c timeConv) format(v reflect.Value) (string, error) {
	var t time.Time
	switch {
	case v.Type() == timeType:
		t = v.Interface().(time.Time)
	case v.Kind() == reflect.String:
		if v.String() == "" {
			return "", nil
		}
		var err error
		if t, err = time.Parse(time.RFC3339Nano, v.String()); err != nil {
			return "", err
		}
	default:
		return "", errors.Errorf("cannot format %s as a time", v.Type())
	}
	if t.IsZero() {
		return "", nil
	}
	return t.Format(c.layout), nil
}

func (c timeConv) parse(s string, v reflect.Value) error {
	s = strings.TrimSpace(s)
	if s == "" {
		v.Set(reflect.Zero(v.Type()))
		return nil
	}
	t, err := time.Parse(c.layout, s)
	if err != nil {
		return err
	}
	v.Set(reflect.ValueOf(t))
	return nil
}

type paddingConv struct{}

func (paddingConv) format(reflect.Value) (string, error) { return "", nil }

func (paddingConv) parse(string, reflect.Value) error { return nil }

type customConv struct {
	name string
	c    Converter
}

func (c customConv) format(v reflect.Value) (string, error) {
	return c.c.Format(v.Interface())
}

func (c customConv) parse(s string, v reflect.Value) error {
	x, err := c.c.Parse(s)
	if err != nil {
		return err
	}
	rx := reflect.ValueOf(x)
	switch {
	case !rx.IsValid():
		v.Set(reflect.Zero(v.Type()))
	case rx.Type().AssignableTo(v.Type()):
		v.Set(rx)
	case rx.Kind() == v.Kind() && rx.Type().ConvertibleTo(v.Type()):
		v.Set(rx.Convert(v.Type()))
	default:
		return errors.Errorf("converter %q returned %s, want %s", c.name, rx.Type(), v.Type())
	}
	return nil
}

// marshalerConv defers to the Marshaler/Unmarshaler or
// encoding.TextMarshaler/TextUnmarshaler methods of the value.
type marshalerConv struct {
	width int
}

// implementer returns v, or its address, as an iface if either implements it.
func implementer(v reflect.Value, iface reflect.Type) (interface{}, bool) {
	if v.Type().Implements(iface) {
		if v.Kind() == reflect.Ptr && v.IsNil() {
			return nil, false
		}
		return v.Interface(), true
	}
	if v.CanAddr() && v.Addr().Type().Implements(iface) {
		return v.Addr().Interface(), true
	}
	return nil, false
}

func (c marshalerConv) format(v reflect.Value) (string, error) {
	if m, ok := implementer(v, marshalerType); ok {
		return m.(Marshaler).MarshalFixedWidth(c.width)
	}
	if m, ok := implementer(v, textMarshalerType); ok {
		b, err := m.(encoding.TextMarshaler).MarshalText()
		return string(b), err
	}
	return "", &MarshalInvalidTypeError{typeName: v.Type().String()}
}

func (c marshalerConv) parse(s string, v reflect.Value) error {
	if u, ok := implementer(v, unmarshalerType); ok {
		return u.(Unmarshaler).UnmarshalFixedWidth(s)
	}
	if u, ok := implementer(v, textUnmarshalerType); ok {
		return u.(encoding.TextUnmarshaler).UnmarshalText([]byte(strings.TrimSpace(s)))
	}
	return errors.Errorf("%s does not implement Unmarshaler", v.Type())
}

type ptrConv struct {
	elem converter
}

func (c ptrConv) format(v reflect.Value) (string, error) {
	if v.IsNil() {
		return "", nil
	}
	return c.elem.format(v.Elem())
}

func (c ptrConv) parse(s string, v reflect.Value) error {
	if strings.TrimSpace(s) == "" {
		v.Set(reflect.Zero(v.Type()))
		return nil
	}
	if v.IsNil() {
		v.Set(reflect.New(v.Type().Elem()))
	}
	return c.elem.parse(s, v.Elem())
}

func isMarshaler(t reflect.Type) bool {
	pt := reflect.PtrTo(t)
	for _, iface := range []reflect.Type{marshalerType, unmarshalerType, textMarshalerType, textUnmarshalerType} {
		if t.Implements(iface) || pt.Implements(iface) {
			return true
		}
	}
	return false
}

// newTypeConverter picks the strategy for a struct field of type t.
func newTypeConverter(t reflect.Type, f *FieldSpec) (converter, error) {
	if f.Converter != "" {
		c, ok := lookupConverter(f.Converter)
		if !ok {
			return nil, errors.Errorf("unknown converter %q", f.Converter)
		}
		return customConv{name: f.Converter, c: c}, nil
	}
	switch {
	case t == paddingType:
		return paddingConv{}, nil
	case t == timeType:
		return timeConv{layout: f.layout()}, nil
	case t.Kind() == reflect.Ptr:
		elem, err := newTypeConverter(t.Elem(), f)
		if err != nil {
			return nil, err
		}
		return ptrConv{elem: elem}, nil
	case isMarshaler(t):
		return marshalerConv{width: f.Length}, nil
	}

	switch t.Kind() {
	case reflect.String:
		return textConv{}, nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return numericConv{kind: kindOf(t)}, nil
	case reflect.Float32, reflect.Float64:
		return numericConv{kind: KindFloat, prec: f.prec(), bits: t.Bits()}, nil
	case reflect.Bool:
		return boolConv{}, nil
	}
	return nil, &MarshalInvalidTypeError{typeName: t.String()}
}

// newKindConverter picks the strategy for a field of a map-valued record.
func newKindConverter(f *FieldSpec) (converter, error) {
	switch f.Kind {
	case KindString:
		return textConv{}, nil
	case KindInt, KindUint, KindFloat:
		return numericConv{kind: f.Kind, prec: f.prec(), bits: 64}, nil
	case KindBool:
		return boolConv{}, nil
	case KindTime:
		return timeConv{layout: f.layout()}, nil
	case KindPadding:
		return paddingConv{}, nil
	case KindCustom:
		if f.Converter == "" {
			return nil, errors.New("custom field needs a converter name")
		}
		c, ok := lookupConverter(f.Converter)
		if !ok {
			return nil, errors.Errorf("unknown converter %q", f.Converter)
		}
		return customConv{name: f.Converter, c: c}, nil
	}
	return nil, errors.Errorf("unknown kind %s", f.Kind)
}
