package fixedwidth

import (
	"fmt"
	"strconv"
	"time"

	"github.com/pkg/errors"
)

var (
	nilFloat64 *float64
	nilInt     *int
	nilString  *string
)

func float64p(v float64) *float64 { return &v }
func intp(v int) *int             { return &v }
func int64p(v int64) *int64       { return &v }
func int32p(v int32) *int32       { return &v }
func int16p(v int16) *int16       { return &v }
func int8p(v int8) *int8          { return &v }
func stringp(v string) *string    { return &v }

// EncodableString is a string that implements the encoding TextUnmarshaler and TextMarshaler interface.
// This is useful for testing.
type EncodableString struct {
	S   string
	Err error
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *EncodableString) UnmarshalText(text []byte) error {
	s.S = string(text)
	return s.Err
}

// MarshalText implements encoding.TextUnmarshaler.
func (s EncodableString) MarshalText() ([]byte, error) {
	return []byte(s.S), s.Err
}

const compactTimestamp = "compact-timestamp"

func init() {
	RegisterConverter(compactTimestamp, ConverterFuncs{
		FormatFunc: func(v interface{}) (string, error) {
			t, ok := v.(time.Time)
			if !ok {
				return "", errors.Errorf("want time.Time, have %T", v)
			}
			return t.Format("20060102150405") + fmt.Sprintf("%06d", t.Nanosecond()/1000), nil
		},
		ParseFunc: func(text string) (interface{}, error) {
			if len(text) != 20 {
				return nil, errors.Errorf("want 20 digits, have %q", text)
			}
			t, err := time.Parse("20060102150405", text[:14])
			if err != nil {
				return nil, err
			}
			micro, err := strconv.Atoi(text[14:])
			if err != nil {
				return nil, err
			}
			return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), micro*1000, time.UTC), nil
		},
	})
}

// someRequest mirrors a legacy bank request record.
type someRequest struct {
	String    string    `fixed:"8"`
	Hangul    string    `fixed:"6"`
	Number    int       `fixed:"10,right,fill=0"`
	P         Padding   `fixed:"10"`
	Timestamp time.Time `fixed:"20,conv=compact-timestamp"`
}

var (
	someRequestInstance = someRequest{
		String:    "<DFG&",
		Hangul:    "한글",
		Number:    381,
		Timestamp: time.Date(2024, 1, 23, 14, 11, 20, 124277000, time.UTC),
	}
	someRequestData = []byte("<DFG&   \xed\x95\x9c\xea\xb8\x800000000381          20240123141120124277")
)
